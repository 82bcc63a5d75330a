// Package host owns the review panel: a process-wide registry holding at
// most one live panel, and the dispatcher that serves its requests.
package host

import (
	"context"

	"github.com/refixai/refix/internal/core/protocol"
)

// Column is where a new view is placed relative to the active editor.
type Column int

const (
	ColumnActive Column = iota
	ColumnBeside
)

// ViewOptions configures a newly created view.
type ViewOptions struct {
	Title  string
	Column Column
	// LocalResourceRoots restricts the local files the view may load.
	LocalResourceRoots []string
}

// View is the host side of one webview surface.
type View interface {
	// Post delivers a message to the webview without waiting for it to be
	// handled.
	Post(msg protocol.WebviewMessage) error
	// Messages yields messages from the webview. It is closed when the view
	// goes away.
	Messages() <-chan protocol.HostMessage
	// Reveal brings the view to the front.
	Reveal() error
	// Close tears the view down. Further calls are no-ops.
	Close() error
}

// ViewFactory creates views.
type ViewFactory interface {
	CreateView(ctx context.Context, opts ViewOptions) (View, error)
}

// ViewFactoryFunc adapts a function to ViewFactory.
type ViewFactoryFunc func(ctx context.Context, opts ViewOptions) (View, error)

// CreateView implements ViewFactory.
func (f ViewFactoryFunc) CreateView(ctx context.Context, opts ViewOptions) (View, error) {
	return f(ctx, opts)
}
