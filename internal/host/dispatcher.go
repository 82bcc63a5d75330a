package host

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

// ErrEmptyCode is reported to the webview when an inspection carries no code.
var ErrEmptyCode = errors.New("code is required")

// Inspector runs the two halves of an inspection.
type Inspector interface {
	Inspect(ctx context.Context, creds settings.Settings, req api.CodeRequest) ([]review.InspectionResult, error)
	InspectConsolidated(ctx context.Context, creds settings.Settings, req api.CodeRequest) ([]review.ConsolidatedIssue, error)
}

// offlineInspector is implemented by inspectors that answer without calling
// the review API, so credentials are not needed.
type offlineInspector interface {
	Offline() bool
}

// SettingsSource yields the current credentials.
type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Dispatcher serves messages from the panel's webview.
type Dispatcher struct {
	inspector Inspector
	settings  SettingsSource
	workspace *Workspace
	notifier  notify.Notifier
	log       zerolog.Logger
}

// NewDispatcher wires a dispatcher. workspace may be nil when no editor can
// ever be active.
func NewDispatcher(inspector Inspector, src SettingsSource, workspace *Workspace, notifier notify.Notifier, log zerolog.Logger) *Dispatcher {
	if workspace == nil {
		workspace = &Workspace{}
	}
	return &Dispatcher{
		inspector: inspector,
		settings:  src,
		workspace: workspace,
		notifier:  notifier,
		log:       log,
	}
}

// Run serves p until its view's message channel closes or ctx is done, then
// disposes p. Inspections run on their own goroutines so the handshake and
// edits are never stuck behind network I/O; Run waits for them before
// returning.
func (d *Dispatcher) Run(ctx context.Context, p *Panel) error {
	ctx = p.Context(ctx)
	defer p.Dispose()

	var wg sync.WaitGroup
	defer wg.Wait()

	msgs := p.view.Messages()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if _, isInspect := msg.(protocol.InspectCode); isInspect {
				wg.Add(1)
				go func() {
					defer wg.Done()
					d.Handle(ctx, p, msg)
				}()
				continue
			}
			d.Handle(ctx, p, msg)
		}
	}
}

// Handle serves a single message synchronously.
func (d *Dispatcher) Handle(ctx context.Context, p *Panel, msg protocol.HostMessage) {
	switch m := msg.(type) {
	case protocol.Ready:
		p.MarkReady()
	case protocol.InspectCode:
		d.inspect(ctx, p, m)
	case protocol.ApplySuggestion:
		d.apply(ctx, m)
	default:
		d.log.Warn().Ctx(ctx).Str("command", string(msg.Command())).Msg("unhandled host message")
	}
}

func (d *Dispatcher) inspect(ctx context.Context, p *Panel, m protocol.InspectCode) {
	if strings.TrimSpace(m.Code) == "" {
		// No sequence number is taken, so an inspection in flight stays current.
		d.log.Warn().Ctx(ctx).Msg("inspect request without code")
		p.Post(protocol.ReviewResult{Error: ErrEmptyCode.Error()})
		return
	}

	seq := p.beginInspection()
	ctx = logging.WithInspectionSeq(ctx, seq)
	log := d.log.With().Ctx(ctx).Logger()

	creds, err := d.credentials(ctx)
	if err != nil {
		d.fail(ctx, p, seq, err)
		return
	}

	req := api.CodeRequest{Code: m.Code, Language: m.Language}

	var (
		raw          []review.InspectionResult
		consolidated []review.ConsolidatedIssue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw, err = d.inspector.Inspect(gctx, creds, req)
		return err
	})
	g.Go(func() error {
		var err error
		consolidated, err = d.inspector.InspectConsolidated(gctx, creds, req)
		return err
	})
	if err := g.Wait(); err != nil {
		d.fail(ctx, p, seq, err)
		return
	}

	payload := protocol.EmptyPayload()
	if raw != nil {
		payload.RawResults = raw
	}
	if consolidated != nil {
		payload.ConsolidatedIssues = consolidated
	}

	log.Debug().
		Int("raw_results", len(payload.RawResults)).
		Int("consolidated_issues", len(payload.ConsolidatedIssues)).
		Msg("inspection complete")
	d.post(ctx, p, seq, protocol.ReviewResult{Results: payload})
}

// credentials loads the settings snapshot for an inspection. Offline
// inspectors get none.
func (d *Dispatcher) credentials(ctx context.Context) (settings.Settings, error) {
	if o, ok := d.inspector.(offlineInspector); ok && o.Offline() {
		return settings.Settings{}, nil
	}

	creds, err := d.settings.Load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	if err := creds.Require(); err != nil {
		return settings.Settings{}, err
	}
	return creds, nil
}

// fail answers with an empty result and surfaces err to the user.
func (d *Dispatcher) fail(ctx context.Context, p *Panel, seq uint64, err error) {
	if !p.isLatest(seq) {
		d.log.Debug().Ctx(ctx).Err(err).Msg("stale inspection failure discarded")
		return
	}
	d.log.Error().Ctx(ctx).Err(err).Msg("inspection failed")
	d.post(ctx, p, seq, protocol.ReviewResult{Results: protocol.EmptyPayload()})
	d.notifier.Notify(ctx, notify.Error(err))
}

// post delivers msg unless a newer inspection has started since seq.
func (d *Dispatcher) post(ctx context.Context, p *Panel, seq uint64, msg protocol.ReviewResult) {
	if !p.isLatest(seq) {
		d.log.Debug().Ctx(ctx).Msg("stale inspection result discarded")
		return
	}
	p.Post(msg)
}

func (d *Dispatcher) apply(ctx context.Context, m protocol.ApplySuggestion) {
	editor := d.workspace.Active()
	if editor == nil {
		d.log.Debug().Ctx(ctx).Msg("apply suggestion with no active editor")
		return
	}
	if err := editor.ReplaceAll(ctx, m.Text); err != nil {
		d.log.Error().Ctx(ctx).Err(err).Str("editor", editor.Name()).Msg("apply suggestion")
		d.notifier.Notify(ctx, notify.Error(err))
		return
	}
	d.log.Info().Ctx(ctx).Str("editor", editor.Name()).Msg("suggestion applied")
}
