//go:build unit || e2e

package fake

import (
	"context"
	"sync"

	"hotel-reservation/internal/usecase/shared"
)

// Notifier records every notification and fails while Err is set.
type Notifier struct {
	mu   sync.Mutex
	err  error
	sent []shared.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

func (n *Notifier) Notify(_ context.Context, msg shared.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *Notifier) Sent() []shared.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]shared.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}

// Cache is an in-memory shared.CalendarCache that remembers invalidations.
type Cache struct {
	mu          sync.Mutex
	invalidated []string
}

func NewCache() *Cache {
	return &Cache{}
}

func (c *Cache) Load(context.Context, string, any) (bool, int64, error) { return false, 0, nil }

func (c *Cache) Store(context.Context, string, int64, any) error { return nil }

func (c *Cache) Invalidate(_ context.Context, roomTypes ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, roomTypes...)
	return nil
}

func (c *Cache) Invalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.invalidated))
	copy(out, c.invalidated)
	return out
}
