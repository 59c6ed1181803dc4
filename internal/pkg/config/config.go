package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

// -----------------------------------------------------------------------------
// 環境変数の方針
// - required: 環境ごとに異なる値 (ポート, DB接続, JWT秘密鍵)
// - default: 全環境共通の値 (タイムアウト, cron式など)
// - REDIS_ADDR / AMQP_URL が空なら該当の連携は無効
// -----------------------------------------------------------------------------

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	CORS        CORSConfig
	Log         LogConfig
	JWT         JWTConfig
	Redis       RedisConfig
	AMQP        AMQPConfig
	Reservation ReservationConfig
	Scheduler   SchedulerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"` // stay dates are UTC days
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`

	// Room locks wait at most LockTimeout; the transaction is then retried.
	TxMaxRetries int           `envconfig:"DB_TX_MAX_RETRIES" default:"3"`
	LockTimeout  time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

// JWT tokens are issued by the external auth service; this service only verifies them.
type JWTConfig struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"hotel-auth"`
	Leeway time.Duration `envconfig:"JWT_LEEWAY" default:"30s"`
}

type RedisConfig struct {
	Addr             string        `envconfig:"REDIS_ADDR"`
	Password         string        `envconfig:"REDIS_PASSWORD"`
	DB               int           `envconfig:"REDIS_DB" default:"0"`
	CalendarCacheTTL time.Duration `envconfig:"CALENDAR_CACHE_TTL" default:"60s"`
}

type AMQPConfig struct {
	URL   string `envconfig:"AMQP_URL"`
	Queue string `envconfig:"AMQP_QUEUE" default:"reservation.events"`
}

type ReservationConfig struct {
	BufferDays     int           `envconfig:"RESERVATION_BUFFER_DAYS" default:"0"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
	CodeLength     int           `envconfig:"CONFIRMATION_CODE_LENGTH" default:"8"`
	MaxNights      int           `envconfig:"RESERVATION_MAX_NIGHTS" default:"365"`
}

type SchedulerConfig struct {
	Enabled              bool   `envconfig:"SCHEDULER_ENABLED" default:"true"`
	CompletionSweepSpec  string `envconfig:"COMPLETION_SWEEP_SPEC" default:"0 3 * * *"`
	OutboxRelaySpec      string `envconfig:"OUTBOX_RELAY_SPEC" default:"@every 1m"`
	CompletionBatchSize  int    `envconfig:"COMPLETION_SWEEP_BATCH_SIZE" default:"500"`
	OutboxBatchSize      int    `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	IdempotencyPurgeSpec string `envconfig:"IDEMPOTENCY_PURGE_SPEC" default:"@hourly"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func (c AMQPConfig) Enabled() bool {
	return c.URL != ""
}

func LoadConfig() (Config, error) {
	// .env はローカル開発用。無ければ環境変数のみで動かす
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every setting the reservation engine cannot run with.
func (c Config) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Reservation.BufferDays >= 0, "RESERVATION_BUFFER_DAYS must not be negative: %d", c.Reservation.BufferDays)
	check(c.Reservation.IdempotencyTTL > 0, "IDEMPOTENCY_TTL must be positive: %s", c.Reservation.IdempotencyTTL)
	check(c.Reservation.CodeLength >= 6 && c.Reservation.CodeLength <= 16,
		"CONFIRMATION_CODE_LENGTH must be between 6 and 16: %d", c.Reservation.CodeLength)
	check(c.Reservation.MaxNights >= 1, "RESERVATION_MAX_NIGHTS must be positive: %d", c.Reservation.MaxNights)
	check(c.DB.TxMaxRetries >= 0, "DB_TX_MAX_RETRIES must not be negative: %d", c.DB.TxMaxRetries)

	if c.Scheduler.Enabled {
		check(c.Scheduler.CompletionBatchSize > 0, "COMPLETION_SWEEP_BATCH_SIZE must be positive: %d", c.Scheduler.CompletionBatchSize)
		check(c.Scheduler.OutboxBatchSize > 0, "OUTBOX_BATCH_SIZE must be positive: %d", c.Scheduler.OutboxBatchSize)
		for name, spec := range map[string]string{
			"COMPLETION_SWEEP_SPEC":  c.Scheduler.CompletionSweepSpec,
			"OUTBOX_RELAY_SPEC":      c.Scheduler.OutboxRelaySpec,
			"IDEMPOTENCY_PURGE_SPEC": c.Scheduler.IdempotencyPurgeSpec,
		} {
			_, err := cron.ParseStandard(spec)
			check(err == nil, "%s is not a valid cron spec %q: %v", name, spec, err)
		}
	}
	return errors.Join(problems...)
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,

			TxMaxRetries: 3,
			LockTimeout:  5 * time.Second,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
			Issuer: "hotel-auth-test",
		},
		Redis: RedisConfig{
			CalendarCacheTTL: time.Minute,
		},
		AMQP: AMQPConfig{
			Queue: "reservation.events",
		},
		Reservation: ReservationConfig{
			BufferDays:     0,
			IdempotencyTTL: 24 * time.Hour,
			CodeLength:     8,
			MaxNights:      365,
		},
		Scheduler: SchedulerConfig{
			Enabled:              false,
			CompletionSweepSpec:  "0 3 * * *",
			CompletionBatchSize:  500,
			OutboxRelaySpec:      "@every 1m",
			OutboxBatchSize:      50,
			IdempotencyPurgeSpec: "@hourly",
		},
	}
}
