// Package settings stores the two user credentials refix needs to talk to the
// review API. Values live in the persistent KV store, never in the config file.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"

	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/validate"
)

const (
	namespace    = "settings"
	keyAPIKey    = "apiKey"
	keyProjectID = "projectId"
)

// ErrMissingSettings is returned when the API key or project id is unset.
var ErrMissingSettings = errors.New("API key and project id must be configured (run `refix config set-api-key` and `refix config set-project-id`)")

// Settings is an immutable snapshot of the credentials. Operations take it
// as a parameter rather than reading the store themselves.
type Settings struct {
	APIKey    string
	ProjectID string
}

// Complete reports whether both values are present.
func (s Settings) Complete() bool {
	return s.APIKey != "" && s.ProjectID != ""
}

// Require returns ErrMissingSettings unless both values are present.
func (s Settings) Require() error {
	if !s.Complete() {
		return ErrMissingSettings
	}
	return nil
}

// Validate checks both values for shape, reporting each failing field.
func (s Settings) Validate() error {
	return criterio.ValidateStruct(
		validate.APIKeyField(keyAPIKey, s.APIKey),
		validate.ProjectIDField(keyProjectID, s.ProjectID),
	)
}

// MaskedAPIKey returns the key with all but the last four characters hidden.
func (s Settings) MaskedAPIKey() string {
	if s.APIKey == "" {
		return ""
	}
	if len(s.APIKey) <= 4 {
		return "****"
	}
	return "****" + s.APIKey[len(s.APIKey)-4:]
}

// Store reads and writes settings in a KV store.
type Store struct {
	values *kv.TypedKV[string]
}

// NewStore returns a Store backed by store.
func NewStore(store kv.KV) *Store {
	return &Store{values: kv.Scoped[string](store, namespace)}
}

// Load returns the current snapshot. Unset values are empty strings.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	apiKey, err := s.get(ctx, keyAPIKey)
	if err != nil {
		return Settings{}, err
	}
	projectID, err := s.get(ctx, keyProjectID)
	if err != nil {
		return Settings{}, err
	}
	return Settings{APIKey: apiKey, ProjectID: projectID}, nil
}

// SetAPIKey validates and stores the API key.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	if err := validate.APIKey(key); err != nil {
		return err
	}
	if err := s.values.Set(ctx, keyAPIKey, key); err != nil {
		return fmt.Errorf("save api key: %w", err)
	}
	return nil
}

// SetProjectID validates and stores the project id.
func (s *Store) SetProjectID(ctx context.Context, id string) error {
	if err := validate.ProjectID(id); err != nil {
		return err
	}
	if err := s.values.Set(ctx, keyProjectID, id); err != nil {
		return fmt.Errorf("save project id: %w", err)
	}
	return nil
}

// Clear removes both values.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.values.Delete(ctx, keyAPIKey),
		s.values.Delete(ctx, keyProjectID),
	)
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.values.Get(ctx, key)
	if kv.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}
