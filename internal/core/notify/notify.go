// Package notify defines the user-visible notification sink shared by the
// host and the terminal UI.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a single notification event.
type Notification struct {
	Level     Level
	Message   string
	CreatedAt time.Time
}

// Notifier surfaces messages to the user. Implementations must be safe for
// concurrent use and must not block on the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Error builds an error-level notification from err.
func Error(err error) Notification {
	return Notification{Level: LevelError, Message: err.Error(), CreatedAt: time.Now()}
}

// Info builds an info-level notification.
func Info(msg string) Notification {
	return Notification{Level: LevelInfo, Message: msg, CreatedAt: time.Now()}
}

// LogNotifier writes notifications to a zerolog logger.
type LogNotifier struct {
	Logger zerolog.Logger
}

// Notify implements Notifier.
func (l LogNotifier) Notify(ctx context.Context, n Notification) {
	var ev *zerolog.Event
	switch n.Level {
	case LevelError:
		ev = l.Logger.Error()
	case LevelWarning:
		ev = l.Logger.Warn()
	default:
		ev = l.Logger.Info()
	}
	ev.Ctx(ctx).Str("level_name", string(n.Level)).Msg(n.Message)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(ctx context.Context, n Notification) {
		for _, x := range ns {
			x.Notify(ctx, n)
		}
	})
}

// Recorder keeps every notification in memory. Useful in tests and for the
// stdio host, which echoes them on stderr at exit.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}
