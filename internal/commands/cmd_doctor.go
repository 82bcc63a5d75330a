package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/doctor"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/pkg/iojson"
)

type DoctorCmd struct {
	flags   *Flags
	app     *App
	format  string
	offline bool
}

func NewDoctorCmd(flags *Flags, app *App) *DoctorCmd {
	return &DoctorCmd{flags: flags, app: app}
}

func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your refix setup",
		UsageText:   "refix doctor [options]",
		Description: "Runs diagnostic checks on configuration, credentials, the local database and the review API.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "offline",
				Usage:       "skip the API reachability check",
				Destination: &cmd.offline,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *DoctorCmd) checks() []doctor.Check {
	checks := []doctor.Check{
		doctor.ConfigCheck{Config: cmd.flags.Config, Path: cmd.flags.ConfigPath},
		doctor.CredentialsCheck{Settings: cmd.app.Settings},
		doctor.DatabaseCheck{Store: cmd.app.KV},
	}
	if !cmd.offline {
		checks = append(checks, doctor.APICheck{BaseURL: cmd.flags.Config.API.BaseURL})
	}
	return checks
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	results := doctor.RunAll(ctx, cmd.checks())
	_, _, failed := doctor.Summary(results)

	var err error
	if cmd.format == "json" {
		err = outputDoctorJSON(c, results)
	} else {
		outputDoctorText(c.Root().Writer, results)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func outputDoctorJSON(c *cli.Command, results []doctor.Result) error {
	passed, warned, failed := doctor.Summary(results)

	out := struct {
		Healthy bool            `json:"healthy"`
		Summary summaryJSON     `json:"summary"`
		Checks  []doctor.Result `json:"checks"`
	}{
		Healthy: failed == 0,
		Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
		Checks:  results,
	}

	return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out)
}

func outputDoctorText(w io.Writer, results []doctor.Result) {
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("Refix Doctor"))
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.TitleStyle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + styles.LabelStyle.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = styles.ScoreGoodStyle.Render("✔")
			case doctor.StatusWarn:
				icon = styles.ScoreFairStyle.Render("●")
			case doctor.StatusFail:
				icon = styles.ScorePoorStyle.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}
		_, _ = fmt.Fprintln(w)
	}

	passed, warned, failed := doctor.Summary(results)
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.ScoreGoodStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.ScoreFairStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.ScorePoorStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
}
