// Package notify delivers transient user-facing messages such as validation
// and failure notices.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tbxark/medassist/types"
)

// Sink receives notifications. Notify must not block the caller.
type Sink interface {
	Notify(n types.Notification)
}

type Func func(n types.Notification)

func (f Func) Notify(n types.Notification) {
	f(n)
}

// Log writes notifications to a slog logger.
type Log struct {
	Logger *slog.Logger
}

func (l Log) Notify(n types.Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if n.Level == types.NotificationFailure {
		level = slog.LevelWarn
	}
	logger.Log(context.Background(), level, n.Message, "severity", string(n.Level), "kind", n.Kind)
}

// Channel buffers notifications for a consumer. When the buffer is full new
// notifications are dropped.
type Channel struct {
	ch chan types.Notification

	mu      sync.Mutex
	dropped int
}

func NewChannel(size int) *Channel {
	if size <= 0 {
		size = 16
	}
	return &Channel{ch: make(chan types.Notification, size)}
}

func (c *Channel) Notify(n types.Notification) {
	select {
	case c.ch <- n:
	default:
		c.mu.Lock()
		c.dropped++
		c.mu.Unlock()
	}
}

func (c *Channel) C() <-chan types.Notification {
	return c.ch
}

func (c *Channel) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Notify(n types.Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops every notification.
var Discard Sink = Func(func(types.Notification) {})
