package report

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twprefix/internal/rewrite"
	"twprefix/internal/workspace"
)

func sampleRun(mode workspace.Mode) *workspace.RunResult {
	return &workspace.RunResult{
		RunID:    "run-1",
		Mode:     mode,
		Prefix:   "ts-",
		Duration: 1500 * time.Millisecond,
		Files: []workspace.FileResult{
			{
				File:     workspace.File{Rel: "a.ts"},
				Original: []byte("cn(\"flex\")\n"),
				Updated:  []byte("cn(\"ts-flex\")\n"),
				Edits: []rewrite.Edit{
					{Start: 3, End: 9, NewText: `"ts-flex"`, Old: "flex", New: "ts-flex", Line: 1, Column: 4},
				},
			},
			{File: workspace.File{Rel: "clean.ts"}},
			{
				File: workspace.File{Rel: "src/ui/Card.tsx"},
				Edits: []rewrite.Edit{
					{Start: 40, End: 45, NewText: `"ts-p-4"`, Old: "p-4", New: "ts-p-4", Line: 3, Column: 10},
					{Start: 10, End: 16, NewText: `"ts-grid"`, Old: "grid", New: "ts-grid", Line: 1, Column: 11},
				},
			},
			{File: workspace.File{Rel: "src/broken.ts"}, Err: errors.New("typed-script: 1:9: missing )")},
		},
		Skipped: []workspace.Skipped{{Rel: "huge.js", Reason: "too large"}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRun(workspace.ModeCheck))
	assert.Equal(t, Summary{
		RunID:     "run-1",
		Mode:      "check",
		Prefix:    "ts-",
		Files:     4,
		Changed:   2,
		Edits:     3,
		Failed:    1,
		Skipped:   1,
		ElapsedMS: 1500,
	}, s)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Found 3 un-prefixed class string(s) in 2 file(s).",
		Summarize(sampleRun(workspace.ModeCheck)).Message())
	assert.Equal(t, "Successfully applied prefix to 3 class string(s)!",
		Summarize(sampleRun(workspace.ModeWrite)).Message())
	assert.Equal(t, "No un-prefixed Tailwind class strings found.",
		Summary{Mode: "write"}.Message())
}

func TestTree(t *testing.T) {
	out := Tree("app", sampleRun(workspace.ModeCheck))

	assert.True(t, strings.HasPrefix(out, "app\n"))
	assert.Contains(t, out, "[1 edit]  a.ts")
	assert.Contains(t, out, "[2 edits]  Card.tsx")
	assert.Contains(t, out, "ui")
	assert.Contains(t, out, "broken.ts: typed-script: 1:9: missing )")
	assert.NotContains(t, out, "clean.ts")
	assert.Equal(t, 1, strings.Count(out, "src"), "directories are shared between files")
}

func TestEditLines(t *testing.T) {
	run := sampleRun(workspace.ModeCheck)
	lines := EditLines(&run.Files[2])
	assert.Equal(t, []string{
		"src/ui/Card.tsx:1:11 {+ts-+}grid",
		"src/ui/Card.tsx:3:10 {+ts-+}p-4",
	}, lines)
}

func TestUnified(t *testing.T) {
	out := Unified(sampleRun(workspace.ModeCheck))
	assert.Contains(t, out, "--- a/a.ts\n+++ b/a.ts\n")
	assert.Contains(t, out, "-cn(\"flex\")\n+cn(\"ts-flex\")\n")
	assert.NotContains(t, out, "broken.ts")
}

func TestJSON(t *testing.T) {
	data, err := JSON(sampleRun(workspace.ModeCheck))
	require.NoError(t, err)

	var decoded struct {
		Summary Summary `json:"summary"`
		Files   []struct {
			Path  string `json:"path"`
			Error string `json:"error"`
			Edits []struct {
				Start   int    `json:"start"`
				End     int    `json:"end"`
				NewText string `json:"newText"`
			} `json:"edits"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 3, decoded.Summary.Edits)
	require.Len(t, decoded.Files, 3)
	assert.Equal(t, "a.ts", decoded.Files[0].Path)
	assert.Equal(t, `"ts-flex"`, decoded.Files[0].Edits[0].NewText)
	assert.Equal(t, "src/broken.ts", decoded.Files[2].Path)
	assert.NotEmpty(t, decoded.Files[2].Error)
}
