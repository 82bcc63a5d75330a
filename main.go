package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/commands"
	"github.com/refixai/refix/internal/core/config"
	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/settings"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/data/db"
	"github.com/refixai/refix/internal/data/stores"
	"github.com/refixai/refix/internal/data/sweep"
	"github.com/refixai/refix/internal/profiler"
	"github.com/refixai/refix/internal/updatecheck"
	"github.com/refixai/refix/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() reads
	// runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser   func()
		refixApp    = &commands.App{}
		database    *db.DB
		sweepCancel context.CancelFunc
		updates     chan *updatecheck.Result
		prof        *profiler.Server
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "refix",
		Usage:     "AI code review partner for your editor and terminal",
		UsageText: "refix [global options] command [command options]",
		Description: `Refix sends a selection of code to a panel of AI reviewers and shows
their suggestions side by side, consolidated into issues, with diffs you can
apply in place.

Run 'refix config set-api-key' and 'refix config set-project-id' first.
Run 'refix review <file>' to open the review panel.
Run 'refix host --stdio' to drive the panel from an editor extension.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("REFIX_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/refix.log)",
				Sources:     cli.EnvVars("REFIX_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("REFIX_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("REFIX_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.IntFlag{
				Name:        "pprof-port",
				Usage:       "serve net/http/pprof on this localhost port",
				Sources:     cli.EnvVars("REFIX_PPROF_PORT"),
				Hidden:      true,
				Destination: &flags.ProfilerPort,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := os.MkdirAll(flags.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file; the stdio host owns stdout and the TUI
			// owns the terminal.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if flags.ProfilerPort > 0 {
				prof = profiler.New(flags.ProfilerPort)
				if err := prof.Start(ctx); err != nil {
					log.Warn().Err(err).Msg("profiler disabled")
					prof = nil
				}
			}

			for _, w := range cfg.Warnings() {
				log.Warn().Str("category", w.Category).Str("item", w.Item).Msg(w.Message)
			}

			// Validation ensures the name is known.
			styles.UseTheme(cfg.TUI.Theme)

			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil && stores.IsCorruptionError(err) {
				log.Error().Err(err).Msg("database corrupt, moving it aside")
				if rerr := stores.RecoverFromCorruption(cfg.DataDir); rerr != nil {
					return ctx, fmt.Errorf("recover database: %w", rerr)
				}
				database, err = db.Open(cfg.DataDir, dbOpts)
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			kvStore := stores.NewKVStore(database)

			sweepCtx, cancel := context.WithCancel(context.Background())
			sweepCancel = cancel
			go sweep.Start(sweepCtx, kvStore, 5*time.Minute)

			// The check runs alongside the command and is reported in After
			// only if it finished by then.
			updates = make(chan *updatecheck.Result, 1)
			checker := updatecheck.New(kvStore, "")
			go func() { updates <- checker.Check(sweepCtx, version) }()

			// Populate the pre-allocated App (commands already hold a pointer to it)
			*refixApp = commands.App{
				Client:   api.New(cfg.API),
				Settings: settings.NewStore(kvStore),
				KV:       kvStore,
				Scores:   stores.NewScoreStore(database),
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			select {
			case res := <-updates:
				if res != nil {
					_, _ = fmt.Fprintf(os.Stderr, "\nrefix %s is available (you have %s)\n", res.Latest, res.Current)
				}
			default:
			}

			if sweepCancel != nil {
				sweepCancel()
			}

			if prof != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				_ = prof.Shutdown(shutdownCtx)
				cancel()
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewReviewCmd(flags, refixApp).Register(app)
	app = commands.NewHostCmd(flags, refixApp).Register(app)
	app = commands.NewGenerateCmd(flags, refixApp).Register(app)
	app = commands.NewChatCmd(flags, refixApp).Register(app)
	app = commands.NewScanCmd(flags, refixApp).Register(app)
	app = commands.NewConfigCmd(flags, refixApp).Register(app)
	app = commands.NewDoctorCmd(flags, refixApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
