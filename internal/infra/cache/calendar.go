package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	calendarKeyPrefix   = "calendar:"
	generationKeyPrefix = "calendar:gen:"
	generationKeyTTL    = 7 * 24 * time.Hour
)

// storeIfCurrent writes the document only while the generation is unchanged.
// KEYS[1]=generation KEYS[2]=document ARGV[1]=expected generation ARGV[2]=json ARGV[3]=ttl ms
var storeIfCurrent = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// RedisCalendarCache keeps one JSON document per room type next to a
// generation counter that Invalidate increments.
type RedisCalendarCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCalendarCache(client redis.UniversalClient, ttl time.Duration) *RedisCalendarCache {
	return &RedisCalendarCache{client: client, ttl: ttl}
}

func calendarKey(roomType string) string {
	return calendarKeyPrefix + roomType
}

func generationKey(roomType string) string {
	return generationKeyPrefix + roomType
}

func (c *RedisCalendarCache) Load(ctx context.Context, roomType string, dst any) (bool, int64, error) {
	vals, err := c.client.MGet(ctx, generationKey(roomType), calendarKey(roomType)).Result()
	if err != nil {
		return false, 0, err
	}

	var generation int64
	if raw, ok := vals[0].(string); ok {
		if generation, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return false, 0, err
		}
	}
	doc, ok := vals[1].(string)
	if !ok {
		return false, generation, nil
	}
	if err := json.Unmarshal([]byte(doc), dst); err != nil {
		return false, generation, err
	}
	return true, generation, nil
}

// Store is a no-op when an Invalidate happened after the Load that returned generation.
func (c *RedisCalendarCache) Store(ctx context.Context, roomType string, generation int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	keys := []string{generationKey(roomType), calendarKey(roomType)}
	return storeIfCurrent.Run(ctx, c.client, keys, strconv.FormatInt(generation, 10), data, c.ttl.Milliseconds()).Err()
}

func (c *RedisCalendarCache) Invalidate(ctx context.Context, roomTypes ...string) error {
	if len(roomTypes) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, t := range roomTypes {
			pipe.Incr(ctx, generationKey(t))
			pipe.Expire(ctx, generationKey(t), generationKeyTTL)
			pipe.Del(ctx, calendarKey(t))
		}
		return nil
	})
	return err
}

// NopCalendarCache is used when REDIS_ADDR is empty.
type NopCalendarCache struct{}

func (NopCalendarCache) Load(context.Context, string, any) (bool, int64, error) {
	return false, 0, nil
}

func (NopCalendarCache) Store(context.Context, string, int64, any) error {
	return nil
}

func (NopCalendarCache) Invalidate(context.Context, ...string) error {
	return nil
}
