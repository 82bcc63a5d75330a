// Package depscan finds dependency manifests and submits them for
// vulnerability scanning.
package depscan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

// Manifest is a dependency file found under a root.
type Manifest struct {
	// Path is slash-separated and relative to the discovery root.
	Path     string
	Language string
}

// FileName is the manifest's base name, as the scanner expects it.
func (m Manifest) FileName() string {
	return path.Base(m.Path)
}

type pattern struct {
	glob     string
	language string
}

var patterns = []pattern{
	{glob: "**/requirements.txt", language: "python"},
	{glob: "**/package.json", language: "typescript"},
}

var skipPatterns = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/.venv/**",
}

// Discover returns every manifest under root, sorted by path.
func Discover(root string) ([]Manifest, error) {
	return DiscoverFS(os.DirFS(root))
}

// DiscoverFS is Discover over an fs.FS.
func DiscoverFS(fsys fs.FS) ([]Manifest, error) {
	var out []Manifest
	for _, p := range patterns {
		matches, err := doublestar.Glob(fsys, p.glob, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p.glob, err)
		}
		for _, m := range matches {
			if skipped(m) {
				continue
			}
			out = append(out, Manifest{Path: m, Language: p.language})
		}
	}
	slices.SortFunc(out, func(a, b Manifest) int {
		if a.Path < b.Path {
			return -1
		}
		if a.Path > b.Path {
			return 1
		}
		return 0
	})
	return out, nil
}

func skipped(p string) bool {
	for _, s := range skipPatterns {
		if ok, _ := doublestar.Match(s, p); ok {
			return true
		}
	}
	return false
}

// Scanner submits a manifest for scanning.
type Scanner interface {
	ScanDependencies(ctx context.Context, creds settings.Settings, req api.ScanRequest) (review.ScanResult, error)
}

// Scan reads the manifest under root and scans it. Vulnerabilities come back
// ordered from critical to low.
func Scan(ctx context.Context, scanner Scanner, creds settings.Settings, root string, m Manifest) (review.ScanResult, error) {
	if err := creds.Require(); err != nil {
		return review.ScanResult{}, err
	}

	data, err := fs.ReadFile(os.DirFS(root), m.Path)
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("read %s: %w", m.Path, err)
	}

	res, err := scanner.ScanDependencies(ctx, creds, api.ScanRequest{
		FileName:    m.FileName(),
		FileContent: string(data),
		Language:    m.Language,
	})
	if err != nil {
		return review.ScanResult{}, fmt.Errorf("scan %s: %w", m.Path, err)
	}
	res.SortBySeverity()
	return res, nil
}
