package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/config"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/core/validate"
	"github.com/refixai/refix/pkg/iojson"
)

type ConfigCmd struct {
	flags  *Flags
	app    *App
	value  string
	format string

	// prompt asks for a value interactively. Tests replace it.
	prompt func(title, description string, secret bool, check func(string) error) (string, error)
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags, app *App) *ConfigCmd {
	return &ConfigCmd{flags: flags, app: app, prompt: promptValue}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	valueFlag := &cli.StringFlag{
		Name:        "value",
		Usage:       "set the value without prompting",
		Destination: &cmd.value,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Credentials and configuration management",
		Commands: []*cli.Command{
			{
				Name:        "set-api-key",
				Usage:       "Store the API key used to authenticate with the review API",
				UsageText:   "refix config set-api-key [--value <key>]",
				Description: "The key is stored in the local settings database, never in the config file.",
				Flags:       []cli.Flag{valueFlag},
				Action:      cmd.runSetAPIKey,
			},
			{
				Name:      "set-project-id",
				Usage:     "Store the project id reviews are filed under",
				UsageText: "refix config set-project-id [--value <id>]",
				Flags:     []cli.Flag{valueFlag},
				Action:    cmd.runSetProjectID,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration and stored credentials",
				Action: cmd.runShow,
			},
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "refix config validate [options]",
				Description: "Validates the configuration file, checking the API URL, models, theme and paths.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runSetAPIKey(ctx context.Context, c *cli.Command) error {
	key, err := cmd.valueOrPrompt("Refix API key", "Enter your Refix API key", true, validate.APIKey)
	if err != nil || key == "" {
		return err
	}
	if err := cmd.app.Settings.SetAPIKey(ctx, key); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.ScoreGoodStyle.Render(styles.IconCheck+" API key saved"))
	return nil
}

func (cmd *ConfigCmd) runSetProjectID(ctx context.Context, c *cli.Command) error {
	id, err := cmd.valueOrPrompt("Refix project ID", "Enter the project id reviews are filed under", false, validate.ProjectID)
	if err != nil || id == "" {
		return err
	}
	if err := cmd.app.Settings.SetProjectID(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(c.Root().Writer, styles.ScoreGoodStyle.Render(styles.IconCheck+" Project ID saved"))
	return nil
}

// valueOrPrompt returns --value when given, else asks. An aborted prompt
// yields an empty value and no error.
func (cmd *ConfigCmd) valueOrPrompt(title, description string, secret bool, check func(string) error) (string, error) {
	if cmd.value != "" {
		v := strings.TrimSpace(cmd.value)
		return v, check(v)
	}

	v, err := cmd.prompt(title, description, secret, check)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("form: %w", err)
	}
	return strings.TrimSpace(v), nil
}

func promptValue(title, description string, secret bool, check func(string) error) (string, error) {
	var v string
	input := huh.NewInput().
		Title(title).
		Description(description).
		Validate(func(s string) error { return check(strings.TrimSpace(s)) }).
		Value(&v)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	err := huh.NewForm(huh.NewGroup(input)).WithTheme(huh.ThemeCharm()).Run()
	return v, err
}

func (cmd *ConfigCmd) runShow(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	creds, err := cmd.app.Settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	w := c.Root().Writer
	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("Refix configuration"))
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))

	row(w, "config file", cmd.flags.ConfigPath)
	row(w, "data dir", cfg.DataDir)
	row(w, "api.base_url", cfg.API.BaseURL)
	row(w, "api.auth", string(cfg.API.Auth))
	if cfg.API.Timeout > 0 {
		row(w, "api.timeout", cfg.API.Timeout.String())
	}
	row(w, "review.models", strings.Join(cfg.Review.Models, ", "))
	row(w, "review.mode", cfg.Review.Mode)
	row(w, "tui.theme", cfg.TUI.Theme)
	row(w, "apiKey", orMissing(creds.MaskedAPIKey()))
	row(w, "projectId", orMissing(creds.ProjectID))

	if !creds.Complete() {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, styles.HelpStyle.Render("Run 'refix config set-api-key' and 'refix config set-project-id' before reviewing."))
	}
	return nil
}

func row(w io.Writer, label, value string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", styles.LabelStyle.Render(fmt.Sprintf("%-14s", label)), styles.ValueStyle.Render(value))
}

func orMissing(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	err := cfg.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cfg.Warnings()

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Error    string                     `json:"error,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    err == nil,
			Warnings: warnings,
		}
		if err != nil {
			out.Error = err.Error()
		}
		if werr := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); werr != nil {
			return werr
		}
		if err != nil {
			return cli.Exit("", 1)
		}
		return nil
	}

	w := c.Root().Writer
	for _, warn := range warnings {
		_, _ = fmt.Fprintf(w, "%s %s: %s\n", styles.SeverityMediumStyle.Render("●"), warn.Category, warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	if err != nil {
		_, _ = fmt.Fprintf(w, "%s %s\n", styles.SeverityHighStyle.Render("✘"), err)
		return cli.Exit("", 1)
	}
	_, _ = fmt.Fprintf(w, "%s Configuration is valid\n", styles.ScoreGoodStyle.Render("✔"))
	return nil
}
