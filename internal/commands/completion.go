package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// ReviewIDCompleter returns a ShellCompleteFunc that suggests the ids of
// cached reviews.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ReviewIDCompleter(app *App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		ids, err := newReviewCache(app.KV).IDs(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, id := range ids {
			_, _ = fmt.Fprintln(w, id)
		}
	}
}
