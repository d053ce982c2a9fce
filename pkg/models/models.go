package models

import (
	"time"
)

// Placeholder is substituted for every field whose pattern finds no match
const Placeholder = "N/A"

// ContactRecord represents a single contact recovered from one QLE log line
type ContactRecord struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Band        string `json:"band"`
	Mode        string `json:"mode"`
	RSTSent     string `json:"rstSent"`
	RSTReceived string `json:"rstReceived"`
	Callsign    string `json:"callsign"`
	Power       string `json:"power"`
	SourceLine  string `json:"-"` // Original log line for the detail view
	LineNumber  int    `json:"-"` // 1-based position in the source file
}

// DateRange represents a date window over YYYYMMDD strings, compared lexically
type DateRange struct {
	Start  string `json:"start"` // inclusive, empty means open
	End    string `json:"end"`   // inclusive, empty means open
	Preset string `json:"preset"`
}

// BandModeFilter represents band/mode display filtering options
type BandModeFilter struct {
	Bands []string `json:"bands"` // empty means all bands
	Modes []string `json:"modes"` // empty means all modes
}

// ActivityPoint represents one date bucket on the activity graph
type ActivityPoint struct {
	Date  string
	Count int
	Modes map[string]int // e.g., {"CW": 5, "SSB": 2}
}

// FilterState represents all active display filters
type FilterState struct {
	DateRange  DateRange      `json:"dateRange"`
	BandMode   BandModeFilter `json:"bandMode"`
	Callsign   string         `json:"callsign"`
	SearchTerm string         `json:"searchTerm"`
}

// ContactListState represents the state of the contacts table view
type ContactListState struct {
	Records      []ContactRecord
	CurrentIndex int
	IsLoading    bool
	ErrorMessage string
}

// WatchState represents auto-refresh state
type WatchState struct {
	Enabled         bool
	LastRefreshTime time.Time
	RefreshInterval time.Duration
	NewContactCount int // Contacts added since the user last looked
}

// LiveState represents live-entry mode state
type LiveState struct {
	Active  bool
	Draft   string
	History []string
}

// UIState represents UI-specific state
type UIState struct {
	FocusedPane  string // "source", "contacts", "stats", "controls"
	ActiveModal  string // "none", "live", "editor", "filter", "dateRange", "export", "detail", "help"
	MessageQueue []string
	HelpVisible  bool
	SearchMode   bool
}

// AppState represents the complete application state
type AppState struct {
	SourcePath       string
	SourceLines      []string // Raw lines as of the last refresh, for the source pane
	ContactListState ContactListState
	FilterState      FilterState
	LiveState        LiveState
	WatchState       WatchState
	UIState          UIState
	LastError        error
	IsReady          bool
}

// Mode constants
const (
	ModeCW  = "CW"
	ModeSSB = "SSB"
	ModeFT8 = "FT8"
)

// Modes in display order
var Modes = []string{
	ModeCW,
	ModeSSB,
	ModeFT8,
}

// Bands in display order, longest wavelength first
var Bands = []string{
	"160M",
	"80M",
	"40M",
	"30M",
	"20M",
	"17M",
	"15M",
	"12M",
	"10M",
	"6M",
	"2M",
}

// DateRangePresets maps preset names to lookback windows
var DateRangePresets = map[string]time.Duration{
	"today": 24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
	"year":  365 * 24 * time.Hour,
}
