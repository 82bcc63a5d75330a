package tui

import (
	"time"

	"github.com/refixai/refix/internal/core/notify"
)

const (
	defaultToastTTL   = 5 * time.Second
	errorToastTTL     = 8 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 48
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
}

// ToastController tracks the notifications currently on screen.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push shows n. Errors stay up longer. The oldest toast is evicted past
// defaultMaxToasts.
func (c *ToastController) Push(n notify.Notification) {
	ttl := defaultToastTTL
	if n.Level == notify.LevelError {
		ttl = errorToastTTL
	}
	c.toasts = append(c.toasts, toast{notification: n, remaining: ttl})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick ages every toast by d and drops the expired ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

func (c *ToastController) Toasts() []toast {
	return c.toasts
}

// Ticking reports whether a tick is scheduled.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
