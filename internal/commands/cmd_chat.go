package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/refixai/refix/internal/core/logging"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/styles"
	"github.com/refixai/refix/internal/webview"
)

// ErrNoPanels is returned when chatting about a review with no structured
// findings.
var ErrNoPanels = errors.New("review has no findings to discuss")

type ChatCmd struct {
	flags    *Flags
	app      *App
	reviewID string
	panel    int
	history  bool
}

// NewChatCmd creates the chat command.
func NewChatCmd(flags *Flags, app *App) *ChatCmd {
	return &ChatCmd{flags: flags, app: app}
}

// Register adds the chat command to the application.
func (cmd *ChatCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "chat",
		Usage:     "Ask the AI mentor about a finding of a generated review",
		UsageText: "refix chat [options] <message>",
		Description: `Chat sends a question about one finding of a cached review. Findings are
numbered from 1 as printed by 'refix generate'. The conversation is kept
with the cached review.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "review",
				Usage:       "review id (defaults to the latest generated review)",
				Destination: &cmd.reviewID,
			},
			&cli.IntFlag{
				Name:        "panel",
				Aliases:     []string{"p"},
				Usage:       "finding number",
				Value:       1,
				Destination: &cmd.panel,
			},
			&cli.BoolFlag{
				Name:        "history",
				Usage:       "print the conversation so far before the reply",
				Destination: &cmd.history,
			},
		},
		ShellComplete: ReviewIDCompleter(cmd.app),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ChatCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("chat")

	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		return webview.ErrEmptyMessage
	}

	creds, err := cmd.app.credentials(ctx)
	if err != nil {
		return err
	}

	cache := newReviewCache(cmd.app.KV)
	r, err := cache.Get(ctx, cmd.reviewID)
	if err != nil {
		return err
	}

	panel, err := panelAt(r, cmd.panel)
	if err != nil {
		return err
	}

	session := webview.NewChatSession(cmd.app.Client, creds, r, panel)
	reply, sendErr := session.Send(ctx, message)

	r.ChatMessages = session.Messages()
	if err := cache.Update(ctx, r); err != nil {
		log.Warn().Err(err).Msg("transcript not cached")
	}

	w := c.Root().Writer
	if cmd.history && len(r.ChatMessages) > 0 {
		for _, m := range r.ChatMessages[:len(r.ChatMessages)-1] {
			_, _ = fmt.Fprintln(w, formatChatMessage(m))
		}
	}
	_, _ = fmt.Fprintln(w, formatChatMessage(reply))

	if sendErr != nil {
		return fmt.Errorf("chat about %q: %w", session.Topic(), sendErr)
	}
	return nil
}

// panelAt returns the n-th (1-based) panel of r.
func panelAt(r review.Review, n int) (review.Panel, error) {
	content := r.Parse()
	if content.IsLegacy() || len(content.Structured.Panels) == 0 {
		return review.Panel{}, ErrNoPanels
	}

	panels := content.Structured.Panels
	if n < 1 || n > len(panels) {
		return review.Panel{}, fmt.Errorf("finding %d out of range (1-%d)", n, len(panels))
	}
	return panels[n-1], nil
}

func formatChatMessage(m review.ChatMessage) string {
	who := styles.ModelTagStyle.Render(styles.IconRobot + " mentor")
	if m.Role == review.RoleUser {
		who = styles.LabelStyle.Render("you")
	}
	return who + "  " + m.Content
}
