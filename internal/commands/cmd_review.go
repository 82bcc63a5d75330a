package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/host"
	"github.com/refixai/refix/internal/transport"
	"github.com/refixai/refix/internal/tui"
	tuinotify "github.com/refixai/refix/internal/tui/notify"
	"github.com/refixai/refix/internal/watch"
	"github.com/refixai/refix/pkg/iojson"
)

// PanelTitle is shown on every review panel.
const PanelTitle = "Refix AI Partner"

type ReviewCmd struct {
	flags  *Flags
	app    *App
	watch  bool
	replay string
	reader iojson.FileReader[protocol.InspectionPayload]
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags, app *App) *ReviewCmd {
	return &ReviewCmd{flags: flags, app: app}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Open the review panel for a file or piped selection",
		UsageText: "refix review [options] [file]",
		Description: `Review opens the review panel with the given code selected.

Press i to send the code to every configured model. Results are shown per
model and as consolidated issues. Applying a suggestion replaces the file
contents. When reviewing a file, saving it re-selects the new contents.

Examples:
  refix review main.py
  git show HEAD:app.ts | refix review
  refix review --replay fixtures/result.json app.ts`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "re-select the file when it changes on disk",
				Value:       true,
				Destination: &cmd.watch,
			},
			&cli.StringFlag{
				Name:        "replay",
				Usage:       "answer inspections from a recorded JSON payload instead of the API",
				Destination: &cmd.replay,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	log := logging.Component("review")

	path := c.Args().First()
	src := newSelectionSource(path)
	text, err := src.Read()
	if err != nil {
		return err
	}

	var inspector host.Inspector = cmd.app.Client
	if cmd.replay != "" {
		cmd.reader.Set(cmd.replay)
		payload, err := cmd.reader.Read()
		if err != nil {
			return fmt.Errorf("read replay: %w", err)
		}
		inspector = host.ReplayInspector{Payload: payload}
	}

	workspace := &host.Workspace{}
	if path != "" {
		workspace.SetActive(host.NewFileEditor(path))
	}

	bus := tuinotify.NewBus(16)
	pending := &notify.Deferred{}
	notifier := notify.Multi(notify.LogNotifier{Logger: log}, bus, pending)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var webEnd *transport.WebviewEnd
	factory := host.ViewFactoryFunc(func(context.Context, host.ViewOptions) (host.View, error) {
		hostEnd, w := transport.Pipe()
		webEnd = w
		return hostEnd, nil
	})
	registry := host.NewRegistry(factory, host.ViewOptions{
		Title:              PanelTitle,
		Column:             host.ColumnBeside,
		LocalResourceRoots: []string{cfg.BundlePath()},
	}, log)
	defer registry.DisposeAll()

	panel, _, err := registry.CreateOrShow(ctx, text)
	if err != nil {
		return fmt.Errorf("open panel: %w", err)
	}

	dispatcher := host.NewDispatcher(inspector, cmd.app.Settings, workspace, notifier, log)
	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := dispatcher.Run(ctx, panel); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("panel dispatcher stopped")
		}
	}()

	if cmd.watch && path != "" {
		watchSelection(ctx, src, registry, notifier, log)
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if path == "" {
		// stdin carried the selection; read keys from the terminal instead.
		if tty, err := os.Open("/dev/tty"); err == nil {
			defer func() { _ = tty.Close() }()
			opts = append(opts, tea.WithInput(tty))
		}
	}

	m := tui.New(tui.Options{
		Conn:   webEnd,
		Bus:    bus,
		Models: cfg.Review.Models,
		Title:  src.Name(),
		Logger: log,
	})
	_, runErr := tea.NewProgram(m, opts...).Run()

	cancel()
	registry.DisposeAll()
	<-served

	errw := c.Root().ErrWriter
	if errw == nil {
		errw = os.Stderr
	}
	_ = pending.Flush(errw)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run review TUI: %w", runErr)
	}
	return nil
}

// watchSelection re-selects the file on every change so stale results are
// dropped. It stops with ctx or once the panel is gone.
func watchSelection(ctx context.Context, src *selectionSource, registry *host.Registry, notifier notify.Notifier, log zerolog.Logger) {
	w, err := watch.NewFileWatcher(src.path, watch.DefaultDebounce, log)
	if err != nil {
		log.Warn().Err(err).Str("path", src.path).Msg("file watch disabled")
		return
	}

	go w.Run(ctx)
	go func() {
		defer func() { _ = w.Close() }()
		for range w.Changes() {
			if ctx.Err() != nil {
				return
			}
			text, err := src.Read()
			if err != nil {
				notifier.Notify(ctx, notify.Error(fmt.Errorf("reload %s: %w", src.Name(), err)))
				continue
			}
			if _, ok := registry.Show(text); !ok {
				log.Debug().Msg("panel closed, file watch stopped")
				return
			}
		}
	}()
}
