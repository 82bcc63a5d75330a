package host

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/protocol"
)

// Panel is the live review panel. It buffers one selection until the view
// reports ready.
type Panel struct {
	id   string
	view View
	log  zerolog.Logger

	mu       sync.Mutex
	ready    bool
	pending  *string
	subs     []func()
	onRemove func(*Panel)
	disposed atomic.Bool

	inspection atomic.Uint64
}

func newPanel(view View, log zerolog.Logger, onRemove func(*Panel)) *Panel {
	id := uuid.NewString()
	return &Panel{
		id:       id,
		view:     view,
		log:      log.With().Str("panel_id", id).Logger(),
		onRemove: onRemove,
	}
}

// ID identifies the panel in logs.
func (p *Panel) ID() string { return p.id }

// View returns the underlying view.
func (p *Panel) View() View { return p.view }

// Context tags ctx with the panel id for logging.
func (p *Panel) Context(ctx context.Context) context.Context {
	return logging.WithPanelID(ctx, p.id)
}

// Post sends msg to the webview. Delivery failures are logged; the protocol
// has no acknowledgements.
func (p *Panel) Post(msg protocol.WebviewMessage) {
	if p.disposed.Load() {
		p.log.Debug().Str("command", string(msg.Command())).Msg("post to disposed panel dropped")
		return
	}
	if err := p.view.Post(msg); err != nil {
		p.log.Warn().Err(err).Str("command", string(msg.Command())).Msg("post message")
	}
}

// ShowSelection forwards text to the webview, or holds it as the single
// pending selection if the webview has not reported ready. A newer pending
// selection replaces an older one.
func (p *Panel) ShowSelection(text string) {
	p.mu.Lock()
	if !p.ready {
		p.pending = &text
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.Post(protocol.CodeSelected{Text: text})
}

// MarkReady records the ready handshake and flushes the pending selection.
func (p *Panel) MarkReady() {
	p.mu.Lock()
	p.ready = true
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if pending != nil {
		p.Post(protocol.CodeSelected{Text: *pending})
	}
}

// Ready reports whether the handshake has completed.
func (p *Panel) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// OnDispose registers fn to run when the panel is disposed. Functions run in
// reverse registration order.
func (p *Panel) OnDispose(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Disposed reports whether Dispose has run.
func (p *Panel) Disposed() bool {
	return p.disposed.Load()
}

// Dispose removes the panel from its registry, releases subscriptions and
// closes the view. Only the first call has any effect.
func (p *Panel) Dispose() {
	if !p.disposed.CompareAndSwap(false, true) {
		return
	}
	if p.onRemove != nil {
		p.onRemove(p)
	}

	p.mu.Lock()
	subs := p.subs
	p.subs = nil
	p.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i]()
	}

	if err := p.view.Close(); err != nil {
		p.log.Debug().Err(err).Msg("close view")
	}
	p.log.Debug().Msg("panel disposed")
}

// beginInspection returns the sequence number of a new inspection.
func (p *Panel) beginInspection() uint64 {
	return p.inspection.Add(1)
}

// isLatest reports whether seq is the most recent inspection.
func (p *Panel) isLatest(seq uint64) bool {
	return p.inspection.Load() == seq
}
