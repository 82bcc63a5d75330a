package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// reviewPanelKey is the registry slot of the review panel.
const reviewPanelKey = "review"

// Registry maps the review panel slot to at most one live panel.
type Registry struct {
	factory ViewFactory
	opts    ViewOptions
	log     zerolog.Logger

	mu     sync.Mutex
	panels map[string]*Panel
}

// NewRegistry returns an empty registry. opts are used for every view the
// factory creates.
func NewRegistry(factory ViewFactory, opts ViewOptions, log zerolog.Logger) *Registry {
	return &Registry{
		factory: factory,
		opts:    opts,
		log:     log,
		panels:  make(map[string]*Panel, 1),
	}
}

// Current returns the live panel, or nil.
func (r *Registry) Current() *Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.panels[reviewPanelKey]
}

// CreateOrShow reveals the live panel and forwards selectedText to it, or
// creates a new panel holding selectedText as its pending selection. created
// reports which happened.
func (r *Registry) CreateOrShow(ctx context.Context, selectedText string) (panel *Panel, created bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.showLocked(selectedText); ok {
		return p, false, nil
	}

	view, err := r.factory.CreateView(ctx, r.opts)
	if err != nil {
		return nil, false, fmt.Errorf("create view: %w", err)
	}

	p := newPanel(view, r.log, r.remove)
	p.ShowSelection(selectedText)
	r.panels[reviewPanelKey] = p

	r.log.Debug().Str("panel_id", p.id).Str("title", r.opts.Title).Msg("panel created")
	return p, true, nil
}

// Show reveals the live panel and forwards selectedText to it. Unlike
// CreateOrShow it never creates a panel; ok is false when none is live.
func (r *Registry) Show(selectedText string) (panel *Panel, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showLocked(selectedText)
}

func (r *Registry) showLocked(selectedText string) (*Panel, bool) {
	p, ok := r.panels[reviewPanelKey]
	if !ok {
		return nil, false
	}
	if err := p.view.Reveal(); err != nil {
		p.log.Warn().Err(err).Msg("reveal panel")
	}
	p.ShowSelection(selectedText)
	return p, true
}

// remove clears the slot if p still occupies it.
func (r *Registry) remove(p *Panel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panels[reviewPanelKey] == p {
		delete(r.panels, reviewPanelKey)
	}
}

// DisposeAll disposes the live panel, if any.
func (r *Registry) DisposeAll() {
	if p := r.Current(); p != nil {
		p.Dispose()
	}
}
