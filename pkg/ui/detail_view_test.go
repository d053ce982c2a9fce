package ui

import (
	"strings"
	"testing"

	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/models"
)

func TestBuildDetailTreeLinesExpandCollapse(t *testing.T) {
	payload := map[string]interface{}{
		"fields": map[string]interface{}{
			"band": "20M",
			"mode": "CW",
		},
		"ok": true,
	}
	expanded := map[string]bool{"$": true}
	lines := buildDetailTreeLines(payload, expanded)
	if len(lines) < 3 {
		t.Fatalf("expected root and top-level keys, got %d lines", len(lines))
	}
	foundFields := false
	for _, line := range lines {
		if strings.Contains(line.text, "fields") {
			foundFields = true
			break
		}
	}
	if !foundFields {
		t.Fatalf("expected fields key in tree lines")
	}

	expanded["$.fields"] = true
	lines = buildDetailTreeLines(payload, expanded)
	foundBand := false
	for _, line := range lines {
		if strings.Contains(line.text, "band") {
			foundBand = true
			break
		}
	}
	if !foundBand {
		t.Fatalf("expected nested key after expansion")
	}
}

func TestContactDetailRoot(t *testing.T) {
	line := "20230501 1400 20M CW 599 599 W1ABC 100W"
	rec := extract.ExtractRecord(line)
	rec.SourceLine = line
	rec.LineNumber = 3

	root := contactDetailRoot(rec)

	fields, ok := root["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("expected fields map in detail root")
	}
	if fields["callsign"] != "W1ABC" {
		t.Errorf("Expected callsign W1ABC, got %v", fields["callsign"])
	}

	matches, ok := root["matches"].(map[string]interface{})
	if !ok {
		t.Fatal("expected matches map in detail root")
	}
	callMatch, ok := matches["callsign"].(map[string]interface{})
	if !ok {
		t.Fatal("expected callsign match entry")
	}
	if callMatch["value"] != "W1ABC" {
		t.Errorf("Expected match value W1ABC, got %v", callMatch["value"])
	}
	if callMatch["offset"] != 29 {
		t.Errorf("Expected match offset 29, got %v", callMatch["offset"])
	}

	source, ok := root["source"].(map[string]interface{})
	if !ok {
		t.Fatal("expected source map in detail root")
	}
	if source["number"] != 3 {
		t.Errorf("Expected source number 3, got %v", source["number"])
	}
}

func TestContactDetailRootNoMatches(t *testing.T) {
	line := "garbage text no fields"
	rec := extract.ExtractRecord(line)
	rec.SourceLine = line
	rec.LineNumber = 1

	root := contactDetailRoot(rec)

	fields := root["fields"].(map[string]interface{})
	for name, value := range fields {
		if value != models.Placeholder {
			t.Errorf("Field %s: expected placeholder, got %v", name, value)
		}
	}

	matches := root["matches"].(map[string]interface{})
	for name, value := range matches {
		if value != nil {
			t.Errorf("Match %s: expected nil for unmatched pattern, got %v", name, value)
		}
	}
}

func TestFormatValueForCopy(t *testing.T) {
	if got := formatValueForCopy("abc"); got != "abc" {
		t.Fatalf("expected raw string copy, got %q", got)
	}
	obj := map[string]interface{}{"a": float64(1)}
	got := formatValueForCopy(obj)
	if !strings.Contains(got, "\"a\": 1") {
		t.Fatalf("expected marshaled object, got %q", got)
	}
}
