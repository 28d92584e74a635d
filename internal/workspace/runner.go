package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"twprefix/internal/config"
	"twprefix/internal/logging"
	"twprefix/internal/rewrite"
)

// Mode selects whether a run only reports edits or also writes them.
type Mode int

const (
	ModeCheck Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "check"
}

// FileResult is the outcome for one file.
type FileResult struct {
	File       File
	Candidates int
	Edits      []rewrite.Edit
	Original   []byte
	Updated    []byte
	Written    bool
	Err        error
}

// Changed reports whether the file has edits.
func (r *FileResult) Changed() bool {
	return len(r.Edits) > 0
}

// RunResult aggregates one run over the workspace.
type RunResult struct {
	RunID    string
	Mode     Mode
	Prefix   string
	Files    []FileResult
	Skipped  []Skipped
	Duration time.Duration
}

// EditCount returns the total number of edits across files.
func (r *RunResult) EditCount() int {
	n := 0
	for i := range r.Files {
		n += len(r.Files[i].Edits)
	}
	return n
}

// ChangedFiles returns the number of files with at least one edit.
func (r *RunResult) ChangedFiles() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Changed() {
			n++
		}
	}
	return n
}

// Failed returns the files that could not be processed.
func (r *RunResult) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Runner rewrites the files of one workspace.
type Runner struct {
	root       string
	prefix     string
	workers    int
	discoverer *Discoverer
	rewriter   *rewrite.Rewriter
}

// NewRunner creates a runner for root using cfg. prefix overrides cfg.Prefix
// when non-empty.
func NewRunner(root string, cfg *config.Config, prefix string) (*Runner, error) {
	if prefix == "" {
		prefix = cfg.Prefix
	}
	forced, _, err := cfg.ForcedDialect()
	if err != nil {
		return nil, err
	}
	workers := cfg.Workspace.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		root:       root,
		prefix:     prefix,
		workers:    workers,
		discoverer: NewDiscoverer(root, cfg.Workspace, forced),
		rewriter:   rewrite.New(cfg.ScanOptions()),
	}, nil
}

// Discoverer returns the runner's file selector.
func (r *Runner) Discoverer() *Discoverer {
	return r.discoverer
}

// Run processes targets (see Discover). Per-file failures, including parse
// errors, are recorded on the FileResult and do not stop the run; context
// cancellation does.
func (r *Runner) Run(ctx context.Context, targets []string, mode Mode) (*RunResult, error) {
	start := time.Now()
	res := &RunResult{RunID: uuid.NewString(), Mode: mode, Prefix: r.prefix}
	log := logging.WithRunID(logging.CategoryWorkspace, res.RunID)
	log.Info("run started: mode=%s prefix=%q workers=%d", mode, r.prefix, r.workers)

	files, skipped, err := r.discoverer.Discover(ctx, targets)
	if err != nil {
		return nil, err
	}
	res.Skipped = skipped
	res.Files = make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	var mu sync.Mutex
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			fr := r.processFile(gctx, f, mode)
			if errors.Is(fr.Err, context.Canceled) || errors.Is(fr.Err, context.DeadlineExceeded) {
				return fr.Err
			}
			mu.Lock()
			res.Files[i] = fr
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	log.Info("run finished: %d file(s), %d edit(s), %d failed in %s",
		len(res.Files), res.EditCount(), len(res.Failed()), res.Duration)
	return res, nil
}

// RunFile processes a single file, bypassing the extension filter.
func (r *Runner) RunFile(ctx context.Context, path string, mode Mode) (*FileResult, error) {
	res, err := r.Run(ctx, []string{path}, mode)
	if err != nil {
		return nil, err
	}
	if len(res.Files) == 0 {
		if len(res.Skipped) > 0 {
			return nil, fmt.Errorf("%s skipped: %s", res.Skipped[0].Rel, res.Skipped[0].Reason)
		}
		return nil, fmt.Errorf("%s: no such file", path)
	}
	return &res.Files[0], nil
}

func (r *Runner) processFile(ctx context.Context, f File, mode Mode) FileResult {
	fr := FileResult{File: f}

	src, err := os.ReadFile(f.Path)
	if err != nil {
		fr.Err = fmt.Errorf("read: %w", err)
		return fr
	}
	fr.Original = src

	result, err := r.rewriter.Rewrite(ctx, src, f.Dialect, r.prefix)
	if err != nil {
		fr.Err = err
		logging.WorkspaceWarn("%s: %v", f.Rel, err)
		return fr
	}
	fr.Candidates = result.Candidates
	fr.Edits = result.Edits

	if result.Empty() {
		fr.Updated = src
		return fr
	}

	updated, err := rewrite.Apply(src, result.Edits)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Updated = updated

	if mode == ModeWrite {
		if err := writeAtomic(f.Path, updated); err != nil {
			fr.Err = fmt.Errorf("write: %w", err)
			logging.WorkspaceError("%s: %v", f.Rel, err)
			return fr
		}
		fr.Written = true
		logging.WorkspaceDebug("%s: wrote %d edit(s)", f.Rel, len(fr.Edits))
	}
	return fr
}

// writeAtomic replaces path with data through a temp file in the same
// directory, keeping the original permissions.
func writeAtomic(path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".twprefix-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
