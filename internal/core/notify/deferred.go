package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Deferred buffers warnings and errors as text lines until Flush. The review
// TUI runs on the alternate screen, so anything printed while it is up is
// lost when it exits; Deferred replays those lines afterwards.
type Deferred struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Notify implements Notifier. Info notifications are dropped.
func (d *Deferred) Notify(_ context.Context, n Notification) {
	if n.Level == LevelInfo {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintf(&d.buf, "%s: %s\n", n.Level, n.Message)
}

// Flush writes the buffered lines to w and resets the buffer.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}
	_, err := d.buf.WriteTo(w)
	return err
}
