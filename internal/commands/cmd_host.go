package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/notify"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/host"
	"github.com/refixai/refix/internal/transport"
)

type HostCmd struct {
	flags *Flags
	app   *App
	stdio bool
	watch bool

	stdin  io.Reader
	stdout io.Writer
}

// NewHostCmd creates the host command.
func NewHostCmd(flags *Flags, app *App) *HostCmd {
	return &HostCmd{flags: flags, app: app, stdin: os.Stdin, stdout: os.Stdout}
}

// Register adds the host command to the application.
func (cmd *HostCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "host",
		Usage:     "Serve the review panel protocol to an external webview",
		UsageText: "refix host --stdio [file]",
		Description: `Host runs the panel controller and exchanges protocol messages as JSON
lines: webview messages are read from stdin, host messages are written to
stdout. Logs and notifications go to stderr or the log file.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "stdio",
				Usage:       "speak the protocol over stdin/stdout",
				Destination: &cmd.stdio,
			},
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "re-select the file when it changes on disk",
				Destination: &cmd.watch,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HostCmd) run(ctx context.Context, c *cli.Command) error {
	if !cmd.stdio {
		return errors.New("no transport selected; pass --stdio")
	}

	log := logging.Component("host")
	path := c.Args().First()

	var text string
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		text = string(data)
	}

	workspace := &host.Workspace{}
	if path != "" {
		workspace.SetActive(host.NewFileEditor(path))
	}

	errw := c.Root().ErrWriter
	if errw == nil {
		errw = os.Stderr
	}
	notifier := notify.Multi(
		notify.LogNotifier{Logger: log},
		notify.Func(func(_ context.Context, n notify.Notification) {
			_, _ = fmt.Fprintln(errw, styles.SeverityStyle(severityFor(n.Level)).Render(string(n.Level))+" "+n.Message)
		}),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	factory := host.ViewFactoryFunc(func(ctx context.Context, _ host.ViewOptions) (host.View, error) {
		return transport.NewHostStream(ctx, cmd.stdin, cmd.stdout, log), nil
	})
	registry := host.NewRegistry(factory, host.ViewOptions{
		Title:              PanelTitle,
		Column:             host.ColumnBeside,
		LocalResourceRoots: []string{cmd.flags.Config.BundlePath()},
	}, log)
	defer registry.DisposeAll()

	panel, _, err := registry.CreateOrShow(ctx, text)
	if err != nil {
		return fmt.Errorf("open panel: %w", err)
	}

	if cmd.watch && path != "" {
		watchSelection(ctx, newSelectionSource(path), registry, notifier, log)
	}

	dispatcher := host.NewDispatcher(cmd.app.Client, cmd.app.Settings, workspace, notifier, log)
	if err := dispatcher.Run(ctx, panel); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func severityFor(l notify.Level) string {
	switch l {
	case notify.LevelError:
		return "high"
	case notify.LevelWarning:
		return "medium"
	default:
		return "low"
	}
}
