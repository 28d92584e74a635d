// Package workspace finds the source files of a project and runs the
// prefix rewriter over them with a bounded worker pool.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"twprefix/internal/config"
	"twprefix/internal/logging"
	"twprefix/internal/scan"
)

// File is a source file selected for rewriting.
type File struct {
	Path    string // as opened
	Rel     string // relative to the workspace root, slash separated
	Dialect scan.Dialect
	Size    int64
}

// Skipped records a file that was looked at but not processed.
type Skipped struct {
	Rel    string
	Reason string
}

// Discoverer selects files under a workspace root.
type Discoverer struct {
	root   string
	cfg    config.WorkspaceConfig
	forced scan.Dialect
	exts   map[string]bool
}

// NewDiscoverer creates a discoverer. A non-empty forced dialect is used for
// every file instead of the extension mapping.
func NewDiscoverer(root string, cfg config.WorkspaceConfig, forced scan.Dialect) *Discoverer {
	exts := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Discoverer{root: root, cfg: cfg, forced: forced, exts: exts}
}

// DialectFor returns the grammar used for path.
func (d *Discoverer) DialectFor(path string) (scan.Dialect, bool) {
	if d.forced != "" {
		return d.forced, true
	}
	return scan.DialectForPath(path)
}

// Discover walks targets (files or directories, relative to the root or
// absolute). No targets means the whole root. The result is sorted by Rel.
func (d *Discoverer) Discover(ctx context.Context, targets []string) ([]File, []Skipped, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var (
		files   []File
		skipped []Skipped
		seen    = make(map[string]bool)
	)

	for _, target := range targets {
		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.root, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", target, err)
		}

		if !info.IsDir() {
			// Explicitly named files skip the extension filter.
			f, reason := d.selectFile(path, info, true)
			if reason != "" {
				skipped = append(skipped, Skipped{Rel: d.rel(path), Reason: reason})
			} else if !seen[f.Rel] {
				seen[f.Rel] = true
				files = append(files, f)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if p != path && d.Ignored(p) {
					logging.WorkspaceDebug("skipping ignored dir %s", d.rel(p))
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Accepts(p) {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				return err
			}
			f, reason := d.selectFile(p, info, false)
			if reason != "" {
				skipped = append(skipped, Skipped{Rel: d.rel(p), Reason: reason})
				return nil
			}
			if !seen[f.Rel] {
				seen[f.Rel] = true
				files = append(files, f)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Rel < skipped[j].Rel })
	logging.Workspace("discovered %d file(s), skipped %d", len(files), len(skipped))
	return files, skipped, nil
}

func (d *Discoverer) selectFile(path string, info fs.FileInfo, explicit bool) (File, string) {
	f := File{Path: path, Rel: d.rel(path), Size: info.Size()}
	if !info.Mode().IsRegular() {
		return f, "not a regular file"
	}
	if d.cfg.MaxFileBytes > 0 && info.Size() > d.cfg.MaxFileBytes {
		return f, fmt.Sprintf("larger than %d bytes", d.cfg.MaxFileBytes)
	}
	dialect, ok := d.DialectFor(path)
	if !ok {
		if explicit {
			return f, "unknown file type"
		}
		return f, "no dialect for extension"
	}
	f.Dialect = dialect
	return f, ""
}

// Accepts reports whether a directory walk would select path: it has a
// configured extension and is not ignored.
func (d *Discoverer) Accepts(path string) bool {
	return d.exts[strings.ToLower(filepath.Ext(path))] && !d.Ignored(path)
}

// Ignored reports whether any path component below the root matches an
// ignore pattern. Patterns are glob patterns matched against a single
// component or against the full relative path.
func (d *Discoverer) Ignored(path string) bool {
	rel := d.rel(path)
	if rel == "." || rel == "" {
		return false
	}
	parts := strings.Split(rel, "/")
	for _, pattern := range d.cfg.IgnorePatterns {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

func (d *Discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
