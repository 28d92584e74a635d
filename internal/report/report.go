// Package report turns workspace run results into user-facing summaries.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xlab/treeprint"

	"twprefix/internal/diff"
	"twprefix/internal/rewrite"
	"twprefix/internal/workspace"
)

// Summary is the condensed outcome of a run.
type Summary struct {
	RunID     string `json:"run_id"`
	Mode      string `json:"mode"`
	Prefix    string `json:"prefix"`
	Files     int    `json:"files"`
	Changed   int    `json:"changed_files"`
	Edits     int    `json:"edits"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

// Summarize condenses res.
func Summarize(res *workspace.RunResult) Summary {
	return Summary{
		RunID:     res.RunID,
		Mode:      res.Mode.String(),
		Prefix:    res.Prefix,
		Files:     len(res.Files),
		Changed:   res.ChangedFiles(),
		Edits:     res.EditCount(),
		Failed:    len(res.Failed()),
		Skipped:   len(res.Skipped),
		ElapsedMS: res.Duration.Milliseconds(),
	}
}

// Message is the one-line result shown after a run.
func (s Summary) Message() string {
	if s.Edits == 0 {
		return "No un-prefixed Tailwind class strings found."
	}
	if s.Mode == workspace.ModeWrite.String() {
		return fmt.Sprintf("Successfully applied prefix to %d class string(s)!", s.Edits)
	}
	return fmt.Sprintf("Found %d un-prefixed class string(s) in %d file(s).", s.Edits, s.Changed)
}

// Tree renders the changed and failed files as a directory tree rooted at
// the workspace name. Clean files are omitted.
func Tree(rootName string, res *workspace.RunResult) string {
	tree := treeprint.New()
	tree.SetValue(rootName)

	branches := map[string]treeprint.Tree{".": tree}
	var branchFor func(dir string) treeprint.Tree
	branchFor = func(dir string) treeprint.Tree {
		if b, ok := branches[dir]; ok {
			return b
		}
		parent := branchFor(filepath.ToSlash(filepath.Dir(dir)))
		b := parent.AddBranch(filepath.Base(dir))
		branches[dir] = b
		return b
	}

	for _, f := range res.Files {
		if !f.Changed() && f.Err == nil {
			continue
		}
		dir := filepath.ToSlash(filepath.Dir(f.File.Rel))
		name := filepath.Base(f.File.Rel)
		node := branchFor(dir)
		if f.Err != nil {
			node.AddMetaNode("error", fmt.Sprintf("%s: %v", name, f.Err))
			continue
		}
		node.AddMetaNode(plural(len(f.Edits), "edit"), name)
	}
	return tree.String()
}

// EditLines lists each edit of a file as "line:col old -> new" using an
// inline character diff.
func EditLines(f *workspace.FileResult) []string {
	lines := make([]string, 0, len(f.Edits))
	// Edits are stored back to front.
	for i := len(f.Edits) - 1; i >= 0; i-- {
		e := f.Edits[i]
		lines = append(lines, fmt.Sprintf("%s:%d:%d %s",
			f.File.Rel, e.Line, e.Column, diff.DefaultEngine.Inline(e.Old, e.New)))
	}
	return lines
}

// Unified returns the unified diff of every changed file.
func Unified(res *workspace.RunResult) string {
	var b strings.Builder
	for _, f := range res.Files {
		if !f.Changed() || f.Err != nil {
			continue
		}
		b.WriteString(diff.ComputeDiff(f.File.Rel, string(f.Original), string(f.Updated)).Unified())
	}
	return b.String()
}

// FileEdits is the machine-readable edit list of one file.
type FileEdits struct {
	Path  string         `json:"path"`
	Edits []rewrite.Edit `json:"edits,omitempty"`
	Error string         `json:"error,omitempty"`
}

// JSON renders the summary and per-file edits.
func JSON(res *workspace.RunResult) ([]byte, error) {
	out := struct {
		Summary Summary     `json:"summary"`
		Files   []FileEdits `json:"files"`
	}{Summary: Summarize(res), Files: []FileEdits{}}

	for _, f := range res.Files {
		if !f.Changed() && f.Err == nil {
			continue
		}
		fe := FileEdits{Path: f.File.Rel, Edits: f.Edits}
		if f.Err != nil {
			fe.Error = f.Err.Error()
		}
		out.Files = append(out.Files, fe)
	}
	return json.MarshalIndent(out, "", "  ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
