package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/pkg/tuitest"
)

func TestToastController_ExpiresByLevel(t *testing.T) {
	c := NewToastController()
	c.Push(notify.Info("saved"))
	c.Push(notify.Notification{Level: notify.LevelError, Message: "inspect failed"})

	c.Tick(defaultToastTTL)
	require.Len(t, c.Toasts(), 1)
	assert.Equal(t, "inspect failed", c.Toasts()[0].notification.Message)

	c.Tick(errorToastTTL - defaultToastTTL)
	assert.False(t, c.HasToasts())
}

func TestToastController_EvictsOldest(t *testing.T) {
	c := NewToastController()
	for _, msg := range []string{"a", "b", "c", "d"} {
		c.Push(notify.Info(msg))
	}

	require.Len(t, c.Toasts(), defaultMaxToasts)
	assert.Equal(t, "b", c.Toasts()[0].notification.Message)

	c.Dismiss()
	require.Len(t, c.Toasts(), 2)
	assert.Equal(t, "c", c.Toasts()[1].notification.Message)
}

func TestOverlayToasts(t *testing.T) {
	c := NewToastController()
	bg := "background"
	assert.Equal(t, bg, overlayToasts(c, bg, 80, 10))

	c.Push(notify.Notification{Level: notify.LevelWarning, Message: "rate limited", CreatedAt: time.Now()})
	out := tuitest.StripANSI(overlayToasts(c, bg, 80, 10))
	assert.Contains(t, out, "rate limited")
}
