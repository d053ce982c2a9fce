package models

import (
	"testing"
	"time"
)

func TestContactRecord(t *testing.T) {
	rec := ContactRecord{
		Date:        "20230501",
		Time:        "1400",
		Band:        "20M",
		Mode:        "CW",
		RSTSent:     "599",
		RSTReceived: "599",
		Callsign:    "W1ABC",
		Power:       "100W",
		SourceLine:  "20230501 1400 20M CW 599 599 W1ABC 100W",
		LineNumber:  1,
	}

	if rec.Date != "20230501" {
		t.Errorf("Expected Date '20230501', got %s", rec.Date)
	}

	if rec.Callsign != "W1ABC" {
		t.Errorf("Expected Callsign 'W1ABC', got %s", rec.Callsign)
	}

	if rec.RSTSent != rec.RSTReceived {
		t.Errorf("Expected matching RST fields, got %s and %s", rec.RSTSent, rec.RSTReceived)
	}
}

func TestFilterState(t *testing.T) {
	fs := FilterState{
		DateRange: DateRange{
			Start:  "20230101",
			End:    "20231231",
			Preset: "year",
		},
		BandMode: BandModeFilter{
			Bands: []string{"20M", "40M"},
			Modes: []string{ModeCW},
		},
		SearchTerm: "W1ABC",
	}

	if fs.DateRange.Preset != "year" {
		t.Errorf("Expected preset 'year', got %s", fs.DateRange.Preset)
	}

	if len(fs.BandMode.Bands) != 2 {
		t.Errorf("Expected 2 bands, got %d", len(fs.BandMode.Bands))
	}

	if fs.SearchTerm != "W1ABC" {
		t.Errorf("Expected search term 'W1ABC', got %s", fs.SearchTerm)
	}
}

func TestModes(t *testing.T) {
	if len(Modes) == 0 {
		t.Fatal("Modes is empty")
	}

	expectedModes := []string{
		ModeCW,
		ModeSSB,
		ModeFT8,
	}

	if len(Modes) != len(expectedModes) {
		t.Errorf("Expected %d modes, got %d", len(expectedModes), len(Modes))
	}

	for i, mode := range expectedModes {
		if Modes[i] != mode {
			t.Errorf("Expected mode %s at position %d, got %s", mode, i, Modes[i])
		}
	}
}

func TestBandsOrder(t *testing.T) {
	if len(Bands) == 0 {
		t.Fatal("Bands is empty")
	}

	if Bands[0] != "160M" {
		t.Errorf("Expected longest band '160M' first, got %s", Bands[0])
	}

	if Bands[len(Bands)-1] != "2M" {
		t.Errorf("Expected shortest band '2M' last, got %s", Bands[len(Bands)-1])
	}
}

func TestDateRangePresets(t *testing.T) {
	tests := []struct {
		preset   string
		expected time.Duration
	}{
		{"today", 24 * time.Hour},
		{"week", 7 * 24 * time.Hour},
		{"month", 30 * 24 * time.Hour},
		{"year", 365 * 24 * time.Hour},
	}

	for _, tt := range tests {
		duration, exists := DateRangePresets[tt.preset]
		if !exists {
			t.Errorf("Preset %s not found in DateRangePresets", tt.preset)
		}

		if duration != tt.expected {
			t.Errorf("Preset %s: expected %v, got %v", tt.preset, tt.expected, duration)
		}
	}
}

func TestAppState(t *testing.T) {
	appState := AppState{
		SourcePath: "/home/op/contacts.qle",
		IsReady:    true,
	}

	if appState.SourcePath != "/home/op/contacts.qle" {
		t.Errorf("Expected source path '/home/op/contacts.qle', got %s", appState.SourcePath)
	}

	if !appState.IsReady {
		t.Error("Expected IsReady to be true")
	}
}

func TestContactListState(t *testing.T) {
	records := []ContactRecord{
		{Date: "20230415", Time: "0900", Callsign: "K2XYZ", LineNumber: 1},
		{Date: "20230501", Time: "1400", Callsign: "W1ABC", LineNumber: 2},
	}

	listState := ContactListState{
		Records:      records,
		CurrentIndex: 0,
		IsLoading:    false,
	}

	if len(listState.Records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(listState.Records))
	}

	if listState.Records[0].Callsign != "K2XYZ" {
		t.Errorf("Expected first callsign 'K2XYZ', got %s", listState.Records[0].Callsign)
	}
}

func TestWatchState(t *testing.T) {
	ws := WatchState{
		Enabled:         true,
		LastRefreshTime: time.Now(),
		RefreshInterval: 2 * time.Second,
		NewContactCount: 3,
	}

	if !ws.Enabled {
		t.Error("Expected Enabled to be true")
	}

	if ws.RefreshInterval != 2*time.Second {
		t.Errorf("Expected RefreshInterval 2s, got %v", ws.RefreshInterval)
	}

	if ws.NewContactCount != 3 {
		t.Errorf("Expected NewContactCount 3, got %d", ws.NewContactCount)
	}
}

func TestBandModeFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   BandModeFilter
		validate func(BandModeFilter) bool
	}{
		{
			name: "bands only",
			filter: BandModeFilter{
				Bands: []string{"20M", "40M"},
			},
			validate: func(f BandModeFilter) bool {
				return len(f.Bands) == 2 && len(f.Modes) == 0
			},
		},
		{
			name: "modes only",
			filter: BandModeFilter{
				Modes: []string{ModeSSB, ModeFT8},
			},
			validate: func(f BandModeFilter) bool {
				return len(f.Modes) == 2 && len(f.Bands) == 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.validate(tt.filter) {
				t.Errorf("Validation failed for filter: %+v", tt.filter)
			}
		})
	}
}
