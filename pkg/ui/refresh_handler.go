package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/va2bbw/qle/pkg/filter"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

// RefreshHandler bridges the mirror controller into the app state
type RefreshHandler struct {
	controller  *mirror.Controller
	lastRecords []models.ContactRecord
	history     []string
}

// NewRefreshHandler creates a new refresh handler
func NewRefreshHandler(controller *mirror.Controller) *RefreshHandler {
	return &RefreshHandler{
		controller: controller,
		history:    []string{},
	}
}

// Refresh runs one refresh cycle and applies the result to app state.
// An unreadable source skips the cycle and leaves the state untouched.
func (rh *RefreshHandler) Refresh(appState *models.AppState) mirror.RefreshResult {
	if rh.controller == nil {
		appState.ContactListState.IsLoading = false
		return mirror.RefreshResult{}
	}

	result := rh.controller.Refresh()
	if !result.Refreshed {
		appState.ContactListState.IsLoading = false
		return result
	}

	rh.applyResult(appState, result)
	return result
}

// CommitLive stamps a live entry, appends it to the source log, and
// refreshes. The stamped line as written is returned.
func (rh *RefreshHandler) CommitLive(appState *models.AppState, line string) (string, error) {
	if strings.TrimSpace(line) == "" {
		return "", fmt.Errorf("live entry is empty")
	}
	if rh.controller == nil {
		return "", fmt.Errorf("no source log attached")
	}

	stamped, result, err := rh.controller.AppendLive(line, time.Now())
	if err != nil {
		appState.LastError = err
		return "", fmt.Errorf("live commit failed: %w", err)
	}

	rh.AddToHistory(line)
	appState.LiveState.History = rh.history
	appState.LiveState.Draft = ""
	rh.applyResult(appState, result)

	return stamped, nil
}

// SaveEditor overwrites the source log with edited text and refreshes
func (rh *RefreshHandler) SaveEditor(appState *models.AppState, text string) error {
	if rh.controller == nil {
		return fmt.Errorf("no source log attached")
	}

	result, err := rh.controller.SaveSource(text)
	if err != nil {
		appState.LastError = err
		return fmt.Errorf("save failed: %w", err)
	}

	rh.applyResult(appState, result)
	return nil
}

func (rh *RefreshHandler) applyResult(appState *models.AppState, result mirror.RefreshResult) {
	rh.lastRecords = result.Records
	appState.SourceLines = result.SourceLines
	appState.ContactListState.Records = rh.FilterRecords(appState.FilterState, result.Records)
	appState.ContactListState.IsLoading = false
	appState.ContactListState.ErrorMessage = ""
	appState.LastError = nil
	appState.IsReady = true
}

// ReapplyFilters refilters the most recent records into app state,
// without touching the source
func (rh *RefreshHandler) ReapplyFilters(appState *models.AppState) {
	appState.ContactListState.Records = rh.FilterRecords(appState.FilterState, rh.lastRecords)
}

// GetAllRecords returns the unfiltered records from the last refresh
func (rh *RefreshHandler) GetAllRecords() []models.ContactRecord {
	return rh.lastRecords
}

// BuildFilterFromState constructs a filter builder from filter state
func (rh *RefreshHandler) BuildFilterFromState(fs models.FilterState) *filter.Builder {
	builder := filter.NewBuilder()
	builder.AddBands(fs.BandMode.Bands)
	builder.AddModes(fs.BandMode.Modes)
	builder.AddDateRange(fs.DateRange)
	builder.AddCallsign(fs.Callsign)
	return builder
}

// DescribeFilters returns the human-readable active filter description
func (rh *RefreshHandler) DescribeFilters(fs models.FilterState) string {
	desc := rh.BuildFilterFromState(fs).Build()
	if fs.SearchTerm != "" {
		if desc != "" {
			desc += " AND "
		}
		desc += fmt.Sprintf("line~%q", fs.SearchTerm)
	}
	return desc
}

// FilterRecords returns the records passing the display filters
func (rh *RefreshHandler) FilterRecords(fs models.FilterState, records []models.ContactRecord) []models.ContactRecord {
	kept := rh.BuildFilterFromState(fs).Apply(records)

	// The search term matches anywhere in the raw source line
	if term := strings.ToUpper(strings.TrimSpace(fs.SearchTerm)); term != "" {
		matched := make([]models.ContactRecord, 0, len(kept))
		for _, rec := range kept {
			if strings.Contains(strings.ToUpper(rec.SourceLine), term) {
				matched = append(matched, rec)
			}
		}
		kept = matched
	}

	return kept
}

// AddToHistory adds a live entry to history
func (rh *RefreshHandler) AddToHistory(line string) {
	// Move an existing identical entry to the front
	for i, existing := range rh.history {
		if existing == line {
			rh.history = append([]string{line}, append(rh.history[:i], rh.history[i+1:]...)...)
			return
		}
	}

	rh.history = append([]string{line}, rh.history...)

	// Trim to max 50
	if len(rh.history) > 50 {
		rh.history = rh.history[:50]
	}
}

// GetHistory returns live entry history
func (rh *RefreshHandler) GetHistory() []string {
	return rh.history
}

// SetController sets the controller (for testing or switching)
func (rh *RefreshHandler) SetController(controller *mirror.Controller) {
	rh.controller = controller
}
