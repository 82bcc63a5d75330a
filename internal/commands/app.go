package commands

import (
	"context"
	"fmt"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

// App holds the services shared by commands. main populates it in the
// Before hook; commands hold a pointer from registration time.
type App struct {
	Client   *api.Client
	Settings *settings.Store
	KV       kv.KV
	Scores   review.ScoreHistory
}

// credentials loads the settings snapshot and fails fast when incomplete.
func (a *App) credentials(ctx context.Context) (settings.Settings, error) {
	creds, err := a.Settings.Load(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if err := creds.Require(); err != nil {
		return settings.Settings{}, err
	}
	return creds, nil
}
