package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/refixai/refix/internal/core/config"
	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/settings"
)

// ConfigCheck validates the loaded configuration and reports its warnings.
type ConfigCheck struct {
	Config *config.Config
	Path   string
}

func (c ConfigCheck) Name() string { return "Configuration" }

func (c ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.Config.ValidateDeep(c.Path); err != nil {
		result.Items = append(result.Items, fail("config", err.Error()))
	} else {
		result.Items = append(result.Items, pass("config", c.Path))
	}

	for _, w := range c.Config.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += "." + w.Item
		}
		result.Items = append(result.Items, warn(label, w.Message))
	}
	return result
}

// CredentialsCheck reports whether the API key and project id are stored.
type CredentialsCheck struct {
	Settings *settings.Store
}

func (c CredentialsCheck) Name() string { return "Credentials" }

func (c CredentialsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	creds, err := c.Settings.Load(ctx)
	if err != nil {
		result.Items = append(result.Items, fail("settings", err.Error()))
		return result
	}

	if creds.APIKey == "" {
		result.Items = append(result.Items, fail("apiKey", "not set (run 'refix config set-api-key')"))
	} else {
		result.Items = append(result.Items, pass("apiKey", creds.MaskedAPIKey()))
	}

	if creds.ProjectID == "" {
		result.Items = append(result.Items, fail("projectId", "not set (run 'refix config set-project-id')"))
	} else {
		result.Items = append(result.Items, pass("projectId", creds.ProjectID))
	}
	return result
}

const roundTripKey = "doctor.roundtrip"

// DatabaseCheck round-trips a value through the settings database.
type DatabaseCheck struct {
	Store kv.KV
}

func (c DatabaseCheck) Name() string { return "Database" }

func (c DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	want := time.Now().UnixNano()
	var got int64
	err := c.Store.SetTTL(ctx, roundTripKey, want, time.Minute)
	if err == nil {
		err = c.Store.Get(ctx, roundTripKey, &got)
	}
	if err == nil && got != want {
		err = errors.New("read back a different value")
	}
	_ = c.Store.Delete(ctx, roundTripKey)

	if err != nil {
		result.Items = append(result.Items, fail("read/write", err.Error()))
	} else {
		result.Items = append(result.Items, pass("read/write", ""))
	}
	return result
}

// APICheck verifies the review API answers HTTP at all. Any status counts as
// reachable; authentication is exercised by real calls.
type APICheck struct {
	BaseURL string
	Client  *http.Client
}

func (c APICheck) Name() string { return "Review API" }

func (c APICheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		result.Items = append(result.Items, fail(c.BaseURL, err.Error()))
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Items = append(result.Items, fail(c.BaseURL, "unreachable: "+err.Error()))
		return result
	}
	_ = resp.Body.Close()

	result.Items = append(result.Items, pass(c.BaseURL, fmt.Sprintf("HTTP %d", resp.StatusCode)))
	return result
}
