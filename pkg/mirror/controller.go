package mirror

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/models"
)

// LiveTimeFormat is the UTC date+time prefix layout inserted on a live
// commit.
const LiveTimeFormat = "20060102 1504"

// Controller orchestrates the refresh cycle: read the source log, skip
// blank lines, extract records, render rows, sort them, assemble the
// table, and overwrite the mirror view. It owns no state beyond the
// source path handle and the view it writes.
type Controller struct {
	mu         sync.Mutex
	sourcePath string
	view       *MirrorView
}

// NewController binds a source log path to the mirror view it overwrites.
func NewController(sourcePath string, view *MirrorView) *Controller {
	return &Controller{
		sourcePath: sourcePath,
		view:       view,
	}
}

// RefreshResult carries everything one refresh cycle produced.
type RefreshResult struct {
	Refreshed    bool
	Records      []models.ContactRecord
	SourceLines  []string
	BlankLines   int
	Placeholders int
	At           time.Time
}

// BuildMirror converts raw log text to the full mirror text: extract per
// non-blank line, render per-record rows, sort the rendered rows, then
// assemble header plus rows. Pure; equal input yields byte-identical
// output.
func BuildMirror(raw string) string {
	records := extract.ParseLog(raw)
	return RenderTable(SortLines(RenderLines(records)))
}

// LiveCommit returns the line with the current-UTC "YYYYMMDD HHMM "
// prefix inserted at the start.
func LiveCommit(line string, now time.Time) string {
	return now.UTC().Format(LiveTimeFormat) + " " + line
}

// View returns the mirror view this controller writes.
func (c *Controller) View() *MirrorView {
	return c.view
}

// SourcePath returns the current source log path.
func (c *Controller) SourcePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sourcePath
}

// SetSourcePath points the controller at another source log. The mirror
// keeps its previous content until the next refresh.
func (c *Controller) SetSourcePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sourcePath = path
}

// Refresh runs one full cycle against the source file. An unreadable or
// missing source skips the cycle and leaves the current mirror content
// untouched; this is not an error.
func (c *Controller) Refresh() RefreshResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked()
}

func (c *Controller) refreshLocked() RefreshResult {
	raw, err := os.ReadFile(c.sourcePath)
	if err != nil {
		utils.Log.Debugf("[mirror] refresh skipped for %s: %v", c.sourcePath, err)
		return RefreshResult{Refreshed: false}
	}

	resp := extract.Parse(extract.ParseRequest{Raw: string(raw), TraceEach: true})
	c.view.overwrite(RenderTable(SortLines(RenderLines(resp.Records))))

	return RefreshResult{
		Refreshed:    true,
		Records:      resp.Records,
		SourceLines:  splitSourceLines(string(raw)),
		BlankLines:   resp.BlankLines,
		Placeholders: resp.Placeholders,
		At:           time.Now(),
	}
}

// AppendLive stamps the line with the UTC prefix, persists it to the
// source log, and runs the refresh cycle the save would have triggered.
// It returns the stamped line as written.
func (c *Controller) AppendLive(line string, now time.Time) (string, RefreshResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := os.ReadFile(c.sourcePath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", RefreshResult{}, fmt.Errorf("failed to read source log: %w", err)
	}

	stamped := LiveCommit(line, now)
	text := string(existing)
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	text += stamped + "\n"

	if err := os.WriteFile(c.sourcePath, []byte(text), 0644); err != nil {
		return "", RefreshResult{}, fmt.Errorf("failed to write source log: %w", err)
	}

	return stamped, c.refreshLocked(), nil
}

// SaveSource overwrites the source log with edited text and refreshes,
// mirroring an editor save.
func (c *Controller) SaveSource(text string) (RefreshResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.sourcePath, []byte(text), 0644); err != nil {
		return RefreshResult{}, fmt.Errorf("failed to write source log: %w", err)
	}
	return c.refreshLocked(), nil
}

func splitSourceLines(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
}
