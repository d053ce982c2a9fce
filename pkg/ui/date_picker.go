package ui

import (
	"fmt"
	"time"

	"github.com/va2bbw/qle/pkg/filter"
	"github.com/va2bbw/qle/pkg/models"
)

// DatePicker handles date range selection over YYYYMMDD strings
type DatePicker struct {
	mode             string // "preset" or "custom"
	selectedIdx      int
	customStart      string
	customEnd        string
	customStartInput string
	customEndInput   string
	customField      int // 0=start, 1=end
	error            string
	validator        *filter.Validator
}

// NewDatePicker creates a new date picker
func NewDatePicker() *DatePicker {
	return &DatePicker{
		mode:             "preset",
		selectedIdx:      0, // Default to "All dates"
		customStart:      "",
		customEnd:        "",
		customStartInput: "",
		customEndInput:   "",
		customField:      0,
		validator:        filter.NewValidator(),
	}
}

// GetPresets returns available date range presets
func (dp *DatePicker) GetPresets() []DatePreset {
	now := time.Now().UTC()
	return []DatePreset{
		{
			Name: "All dates",
			Key:  "all",
		},
		{
			Name:  "Today",
			Key:   "today",
			Start: now.Format("20060102"),
		},
		{
			Name:  "Last 7 days",
			Key:   "week",
			Start: now.Add(-models.DateRangePresets["week"]).Format("20060102"),
		},
		{
			Name:  "Last 30 days",
			Key:   "month",
			Start: now.Add(-models.DateRangePresets["month"]).Format("20060102"),
		},
		{
			Name:  "Last 365 days",
			Key:   "year",
			Start: now.Add(-models.DateRangePresets["year"]).Format("20060102"),
		},
		{
			Name: "Custom",
			Key:  "custom",
		},
	}
}

// DatePreset represents a preset date range
type DatePreset struct {
	Name  string
	Key   string
	Start string // inclusive YYYYMMDD, empty means open
	End   string // inclusive YYYYMMDD, empty means open
}

// SelectPreset selects a preset by index
func (dp *DatePicker) SelectPreset(idx int) error {
	presets := dp.GetPresets()
	if idx < 0 || idx >= len(presets) {
		return fmt.Errorf("invalid preset index: %d", idx)
	}

	dp.selectedIdx = idx
	if presets[idx].Key == "custom" {
		dp.mode = "custom"
		dp.ensureCustomDefaults()
	} else {
		dp.mode = "preset"
	}
	dp.error = ""
	return nil
}

// SetCustomRange sets custom start and end dates. Either bound may be
// empty to leave that side open.
func (dp *DatePicker) SetCustomRange(start, end string) error {
	if err := dp.validator.ValidateDateRange(models.DateRange{Start: start, End: end}); err != nil {
		return err
	}

	dp.customStart = start
	dp.customEnd = end
	dp.customStartInput = start
	dp.customEndInput = end
	dp.mode = "custom"
	dp.error = ""
	return nil
}

// GetSelectedRange returns the currently selected date range
func (dp *DatePicker) GetSelectedRange() (models.DateRange, error) {
	if dp.mode == "preset" {
		presets := dp.GetPresets()
		if dp.selectedIdx >= len(presets) {
			return models.DateRange{}, fmt.Errorf("invalid preset index")
		}

		preset := presets[dp.selectedIdx]
		return models.DateRange{
			Start:  preset.Start,
			End:    preset.End,
			Preset: preset.Key,
		}, nil
	}

	if dp.mode == "custom" {
		return models.DateRange{
			Start:  dp.customStart,
			End:    dp.customEnd,
			Preset: "custom",
		}, nil
	}

	return models.DateRange{}, fmt.Errorf("invalid mode: %s", dp.mode)
}

// GetCurrentPresetName returns the name of the current preset
func (dp *DatePicker) GetCurrentPresetName() string {
	presets := dp.GetPresets()
	if dp.selectedIdx < len(presets) {
		return presets[dp.selectedIdx].Name
	}
	return "Unknown"
}

// GetSelectedIdx returns the currently selected preset index
func (dp *DatePicker) GetSelectedIdx() int {
	return dp.selectedIdx
}

// MoveSelection moves selection up/down
func (dp *DatePicker) MoveSelection(delta int) {
	if dp.mode == "custom" {
		return
	}

	presets := dp.GetPresets()
	newIdx := dp.selectedIdx + delta
	if newIdx < 0 {
		newIdx = 0
	}
	if newIdx >= len(presets) {
		newIdx = len(presets) - 1
	}
	dp.selectedIdx = newIdx
	if presets[newIdx].Key == "custom" {
		dp.mode = "custom"
		dp.ensureCustomDefaults()
	} else {
		dp.mode = "preset"
	}
}

// ApplyToFilterState applies the selected date range to a FilterState
func (dp *DatePicker) ApplyToFilterState(fs *models.FilterState) error {
	dr, err := dp.GetSelectedRange()
	if err != nil {
		return err
	}

	fs.DateRange = dr
	return nil
}

// Reset resets the date picker to defaults
func (dp *DatePicker) Reset() {
	dp.mode = "preset"
	dp.selectedIdx = 0 // Default to "All dates"
	dp.customStart = ""
	dp.customEnd = ""
	dp.customStartInput = ""
	dp.customEndInput = ""
	dp.customField = 0
	dp.error = ""
}

// GetError returns the last error message
func (dp *DatePicker) GetError() string {
	return dp.error
}

// SetError sets an error message
func (dp *DatePicker) SetError(msg string) {
	dp.error = msg
}

// IsCustomSelected returns true when custom mode is active.
func (dp *DatePicker) IsCustomSelected() bool {
	return dp.mode == "custom"
}

// EnsureCustomDefaults initializes the custom range if unset.
func (dp *DatePicker) EnsureCustomDefaults() {
	dp.ensureCustomDefaults()
}

// ToggleCustomField switches focused field between start/end.
func (dp *DatePicker) ToggleCustomField() {
	if dp.customField == 0 {
		dp.customField = 1
	} else {
		dp.customField = 0
	}
}

// GetCustomField returns current focused custom field (0=start, 1=end).
func (dp *DatePicker) GetCustomField() int {
	return dp.customField
}

// ShiftCustomFocused shifts the focused custom date by the given number of days.
func (dp *DatePicker) ShiftCustomFocused(days int) {
	dp.ensureCustomDefaults()
	if dp.customField == 0 {
		shifted := shiftDate(dp.customStart, days)
		if dp.customEnd != "" && shifted > dp.customEnd {
			shifted = dp.customEnd
		}
		dp.customStart = shifted
		dp.customStartInput = shifted
	} else {
		shifted := shiftDate(dp.customEnd, days)
		if dp.customStart != "" && shifted < dp.customStart {
			shifted = dp.customStart
		}
		dp.customEnd = shifted
		dp.customEndInput = shifted
	}
}

// GetCustomRange returns current custom start/end.
func (dp *DatePicker) GetCustomRange() (string, string) {
	dp.ensureCustomDefaults()
	return dp.customStart, dp.customEnd
}

// GetCustomInputs returns editable custom input strings.
func (dp *DatePicker) GetCustomInputs() (string, string) {
	dp.ensureCustomDefaults()
	return dp.customStartInput, dp.customEndInput
}

// AppendToFocusedInput appends typed text to active custom field.
func (dp *DatePicker) AppendToFocusedInput(text string) {
	if dp.customField == 0 {
		dp.customStartInput += text
	} else {
		dp.customEndInput += text
	}
}

// BackspaceFocusedInput removes one character from active custom field.
func (dp *DatePicker) BackspaceFocusedInput() {
	if dp.customField == 0 {
		if len(dp.customStartInput) > 0 {
			dp.customStartInput = dp.customStartInput[:len(dp.customStartInput)-1]
		}
	} else {
		if len(dp.customEndInput) > 0 {
			dp.customEndInput = dp.customEndInput[:len(dp.customEndInput)-1]
		}
	}
}

// ClearFocusedInput clears active custom field.
func (dp *DatePicker) ClearFocusedInput() {
	if dp.customField == 0 {
		dp.customStartInput = ""
	} else {
		dp.customEndInput = ""
	}
}

// ApplyCustomInputs validates the typed dates and sets start/end.
func (dp *DatePicker) ApplyCustomInputs() error {
	return dp.SetCustomRange(dp.customStartInput, dp.customEndInput)
}

func (dp *DatePicker) ensureCustomDefaults() {
	if dp.customStart != "" || dp.customEnd != "" {
		return
	}
	now := time.Now().UTC()
	dp.customEnd = now.Format("20060102")
	dp.customStart = now.AddDate(0, 0, -7).Format("20060102")
	dp.customStartInput = dp.customStart
	dp.customEndInput = dp.customEnd
}

// shiftDate moves a YYYYMMDD date by the given number of days. Dates
// that don't parse are returned unchanged.
func shiftDate(date string, days int) string {
	if date == "" {
		return date
	}
	t, err := time.Parse("20060102", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format("20060102")
}
