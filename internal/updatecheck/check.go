// Package updatecheck reports when a newer refix release is published.
package updatecheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/mod/semver"

	"github.com/refixai/refix/internal/core/kv"
	"github.com/refixai/refix/internal/core/logging"
)

const (
	cacheTTL       = 24 * time.Hour
	cacheNamespace = "update-check"
	cacheKey       = "latest"

	// ReleaseURL is the release feed queried by default.
	ReleaseURL = "https://api.github.com/repos/refixai/refix/releases/latest"
)

// ReleaseInfo is the cached part of a release.
type ReleaseInfo struct {
	TagName     string `json:"tag_name"`
	PublishedAt string `json:"published_at"`
}

// Result is returned when a newer version is available.
type Result struct {
	Current string
	Latest  string
}

// Checker looks up the latest release, caching it in a KV store.
type Checker struct {
	releases *kv.TypedKV[ReleaseInfo]
	url      string
	client   *http.Client
}

// New returns a Checker querying url. An empty url means ReleaseURL.
func New(store kv.KV, url string) *Checker {
	if url == "" {
		url = ReleaseURL
	}
	return &Checker{
		releases: kv.Scoped[ReleaseInfo](store, cacheNamespace),
		url:      url,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Check compares current to the latest release and returns a non-nil Result
// only when an update is available. Lookup failures are logged, not returned;
// an update check never fails a command.
func (c *Checker) Check(ctx context.Context, current string) *Result {
	log := logging.Component("updatecheck")

	if current == "" || current == "dev" {
		return nil
	}

	cur, ok := normalizeVersion(current)
	if !ok {
		log.Debug().Str("version", current).Msg("invalid current version")
		return nil
	}

	release, err := c.latest(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("latest release lookup failed")
		return nil
	}

	latest, ok := normalizeVersion(release.TagName)
	if !ok {
		log.Debug().Str("tag", release.TagName).Msg("invalid release tag")
		return nil
	}

	if semver.Compare(cur, latest) >= 0 {
		return nil
	}
	return &Result{Current: cur, Latest: latest}
}

func (c *Checker) latest(ctx context.Context) (ReleaseInfo, error) {
	if cached, err := c.releases.Get(ctx, cacheKey); err == nil {
		return cached, nil
	}

	info, err := c.fetch(ctx)
	if err != nil {
		return ReleaseInfo{}, err
	}

	if err := c.releases.SetTTL(ctx, cacheKey, info, cacheTTL); err != nil {
		log := logging.Component("updatecheck")
		log.Debug().Err(err).Msg("release not cached")
	}
	return info, nil
}

func (c *Checker) fetch(ctx context.Context) (ReleaseInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "refix-update-checker")

	resp, err := c.client.Do(req)
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("request latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ReleaseInfo{}, fmt.Errorf("request latest release: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ReleaseInfo{}, fmt.Errorf("read latest release: %w", err)
	}

	var info ReleaseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: %w", err)
	}
	if info.TagName == "" {
		return ReleaseInfo{}, fmt.Errorf("decode latest release: missing tag_name")
	}
	return info, nil
}

func normalizeVersion(version string) (string, bool) {
	if semver.IsValid(version) {
		return version, true
	}
	if v := "v" + version; semver.IsValid(v) {
		return v, true
	}
	return "", false
}
