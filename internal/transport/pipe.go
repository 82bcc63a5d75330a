// Package transport carries protocol messages between the review panel host
// and its webview: in memory for the terminal UI, or as JSON lines over a
// byte stream for external webviews.
package transport

import (
	"errors"
	"sync"

	"github.com/refixai/refix/internal/core/protocol"
)

// ErrClosed is returned when posting on a closed transport.
var ErrClosed = errors.New("transport closed")

type link struct {
	done     chan struct{}
	once     sync.Once
	revealed chan struct{}
}

func (l *link) close() {
	l.once.Do(func() { close(l.done) })
}

func (l *link) closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Endpoint is one side of a Pipe. It posts Out messages and receives In
// messages.
type Endpoint[In, Out any] struct {
	link *link
	send *queue[Out]
	recv *queue[In]
}

// HostEnd is the host side of a Pipe. It implements host.View.
type HostEnd = Endpoint[protocol.HostMessage, protocol.WebviewMessage]

// WebviewEnd is the webview side of a Pipe.
type WebviewEnd = Endpoint[protocol.WebviewMessage, protocol.HostMessage]

// Pipe returns two connected endpoints. Posting never blocks; messages are
// delivered in order. Closing either end closes both.
func Pipe() (*HostEnd, *WebviewEnd) {
	l := &link{
		done:     make(chan struct{}),
		revealed: make(chan struct{}, 1),
	}
	toWebview := newQueue[protocol.WebviewMessage]()
	toHost := newQueue[protocol.HostMessage]()

	go toWebview.run(l.done)
	go toHost.run(l.done)

	hostEnd := &HostEnd{link: l, send: toWebview, recv: toHost}
	webviewEnd := &WebviewEnd{link: l, send: toHost, recv: toWebview}
	return hostEnd, webviewEnd
}

// Post queues msg for the other side.
func (e *Endpoint[In, Out]) Post(msg Out) error {
	if e.link.closed() {
		return ErrClosed
	}
	e.send.push(msg)
	return nil
}

// Messages yields messages from the other side. It is closed when the pipe
// closes.
func (e *Endpoint[In, Out]) Messages() <-chan In {
	return e.recv.out
}

// Reveal signals the other side to come to the front. Repeated reveals
// before the signal is consumed collapse into one.
func (e *Endpoint[In, Out]) Reveal() error {
	if e.link.closed() {
		return ErrClosed
	}
	select {
	case e.link.revealed <- struct{}{}:
	default:
	}
	return nil
}

// Revealed yields a value each time the other side calls Reveal.
func (e *Endpoint[In, Out]) Revealed() <-chan struct{} {
	return e.link.revealed
}

// Done is closed when the pipe closes.
func (e *Endpoint[In, Out]) Done() <-chan struct{} {
	return e.link.done
}

// Close closes both ends. It is safe to call more than once.
func (e *Endpoint[In, Out]) Close() error {
	e.link.close()
	return nil
}
