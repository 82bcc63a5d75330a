// Package notify bridges notifications raised on host goroutines into the
// Bubble Tea update loop.
package notify

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"

	"github.com/refixai/refix/internal/core/notify"
)

// Msg carries one notification into Update.
type Msg struct {
	Notification notify.Notification
}

// Bus is a buffered notify.Notifier that the UI drains with Listen. Notify
// never blocks; when the buffer is full the notification is logged and
// dropped.
type Bus struct {
	ch chan notify.Notification
}

// NewBus returns a bus holding up to size undelivered notifications.
func NewBus(size int) *Bus {
	if size < 1 {
		size = 1
	}
	return &Bus{ch: make(chan notify.Notification, size)}
}

// Notify implements notify.Notifier.
func (b *Bus) Notify(_ context.Context, n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	select {
	case b.ch <- n:
	default:
		log.Warn().Str("message", n.Message).Msg("notification dropped, bus full")
	}
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.Notify(context.Background(), notify.Notification{
		Level:   notify.LevelError,
		Message: fmt.Sprintf(format, args...),
	})
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.Notify(context.Background(), notify.Notification{
		Level:   notify.LevelInfo,
		Message: fmt.Sprintf(format, args...),
	})
}

// Listen returns a command that waits for the next notification. Re-issue it
// after each Msg to keep listening.
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		return Msg{Notification: <-b.ch}
	}
}
