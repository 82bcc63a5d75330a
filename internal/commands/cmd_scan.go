package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/depscan"
	"github.com/refixai/refix/pkg/iojson"
)

type ScanCmd struct {
	flags *Flags
	app   *App
	json  bool
}

// NewScanCmd creates the scan command.
func NewScanCmd(flags *Flags, app *App) *ScanCmd {
	return &ScanCmd{flags: flags, app: app}
}

// Register adds the scan command to the application.
func (cmd *ScanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "scan",
		Usage:     "Scan dependency manifests for known vulnerabilities",
		UsageText: "refix scan [options] [dir]",
		Description: `Scan finds requirements.txt and package.json files under dir (default
the current directory) and submits each one for vulnerability scanning.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print results as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

// manifestReport is one manifest's scan outcome.
type manifestReport struct {
	Path   string             `json:"path"`
	Result *review.ScanResult `json:"result,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func (cmd *ScanCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("scan")

	root := c.Args().First()
	if root == "" {
		root = "."
	}

	creds, err := cmd.app.credentials(ctx)
	if err != nil {
		return err
	}

	manifests, err := depscan.Discover(root)
	if err != nil {
		return fmt.Errorf("discover manifests: %w", err)
	}

	reports := make([]manifestReport, 0, len(manifests))
	failed := 0
	for _, m := range manifests {
		res, err := depscan.Scan(ctx, cmd.app.Client, creds, root, m)
		if err != nil {
			log.Error().Err(err).Str("manifest", m.Path).Msg("scan failed")
			reports = append(reports, manifestReport{Path: m.Path, Error: err.Error()})
			failed++
			continue
		}
		reports = append(reports, manifestReport{Path: m.Path, Result: &res})
	}

	if cmd.json {
		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, reports); err != nil {
			return err
		}
	} else {
		printScanReports(c.Root().Writer, reports)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func printScanReports(w io.Writer, reports []manifestReport) {
	if len(reports) == 0 {
		_, _ = fmt.Fprintln(w, styles.HelpStyle.Render("No dependency manifests found."))
		return
	}

	for _, r := range reports {
		_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render(styles.IconPackage+" "+r.Path))
		switch {
		case r.Error != "":
			_, _ = fmt.Fprintf(w, "  %s %s\n", styles.SeverityHighStyle.Render("✘"), r.Error)
		case len(r.Result.Vulnerabilities) == 0:
			_, _ = fmt.Fprintf(w, "  %s %d dependencies, no known vulnerabilities\n",
				styles.ScoreGoodStyle.Render("✔"), r.Result.DependencyCount)
		default:
			printVulnerabilities(w, *r.Result)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func printVulnerabilities(w io.Writer, res review.ScanResult) {
	counts := res.CountBySeverity()
	summary := make([]string, 0, 4)
	for _, s := range []review.Severity{review.SeverityCritical, review.SeverityHigh, review.SeverityMedium, review.SeverityLow} {
		if counts[s] > 0 {
			summary = append(summary, styles.SeverityStyle(string(s)).Render(fmt.Sprintf("%d %s", counts[s], s)))
		}
	}
	_, _ = fmt.Fprintf(w, "  %d dependencies: %s\n", res.DependencyCount, strings.Join(summary, ", "))

	for _, v := range res.Vulnerabilities {
		sev := styles.SeverityStyle(strings.ToLower(string(v.Severity))).Render(strings.ToUpper(string(v.Severity)))
		_, _ = fmt.Fprintf(w, "  %s %s %s\n", sev, v.Title, styles.LabelStyle.Render(v.ID))
		if len(v.From) > 0 {
			_, _ = fmt.Fprintf(w, "    via %s\n", strings.Join(v.From, " > "))
		}
	}
}
