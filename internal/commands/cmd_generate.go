package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/webview"
	"github.com/refixai/refix/pkg/iojson"
)

// historyLimit bounds the scores read back for the trend line.
const historyLimit = 10

type GenerateCmd struct {
	flags    *Flags
	app      *App
	mode     string
	language string
	json     bool
}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(flags *Flags, app *App) *GenerateCmd {
	return &GenerateCmd{flags: flags, app: app}
}

// Register adds the generate command to the application.
func (cmd *GenerateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "generate",
		Usage:     "Generate a scored review and show it as a dashboard",
		UsageText: "refix generate [options] [file]",
		Description: `Generate asks the review API for a full review of the file (or piped code)
and renders the score and findings. The review is cached for 24 hours so
'refix chat' can discuss its findings.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "review mode (defaults to review.mode from config)",
				Destination: &cmd.mode,
			},
			&cli.StringFlag{
				Name:        "language",
				Usage:       "override language detection",
				Destination: &cmd.language,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the review as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *GenerateCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("generate")

	code, err := newSelectionSource(c.Args().First()).Read()
	if err != nil {
		return err
	}

	creds, err := cmd.app.credentials(ctx)
	if err != nil {
		return err
	}

	mode := cmd.mode
	if mode == "" {
		mode = cmd.flags.Config.Review.Mode
	}
	language := cmd.language
	if language == "" {
		language = webview.DetectLanguage(code)
	}
	if language == "" {
		language = webview.DefaultLanguage
	}

	r, err := cmd.app.Client.GenerateReview(ctx, creds, api.GenerateRequest{
		Code:     code,
		Language: language,
		Mode:     mode,
	})
	if err != nil {
		return err
	}

	if err := newReviewCache(cmd.app.KV).Save(ctx, r); err != nil {
		log.Warn().Err(err).Msg("review not cached")
	}

	var history []review.ScoreEntry
	if content := r.Parse(); !content.IsLegacy() {
		entry := review.ScoreEntry{
			ReviewID:  r.ID,
			ProjectID: creds.ProjectID,
			Mode:      mode,
			Score:     content.Structured.OverallScore,
			CreatedAt: r.CreatedAt.Time,
		}
		if err := cmd.app.Scores.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Msg("score not recorded")
		}
		history, err = cmd.app.Scores.Recent(ctx, creds.ProjectID, historyLimit)
		if err != nil {
			log.Warn().Err(err).Msg("load score history")
		}
	}

	if cmd.json {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, r)
	}

	out, err := renderDashboard(r, history, dashboardWidth)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprint(c.Root().Writer, out)
	return nil
}
