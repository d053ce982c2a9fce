package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/va2bbw/qle/pkg/models"
)

func newTestClipboardManager() *ClipboardManager {
	cm := NewClipboardManager()
	cm.writeAll = func(string) error { return nil }
	return cm
}

func testContactRecord() *models.ContactRecord {
	return &models.ContactRecord{
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
}

func TestNewClipboardManager(t *testing.T) {
	cm := NewClipboardManager()

	if cm.lastCopied != "" {
		t.Error("lastCopied should be empty initially")
	}

	if cm.copyFormat != "line" {
		t.Errorf("Expected default format 'line', got %s", cm.copyFormat)
	}

	if cm.writeAll == nil {
		t.Error("writeAll should default to the system clipboard")
	}
}

func TestCopyRecordLine(t *testing.T) {
	cm := newTestClipboardManager()

	content, err := cm.CopyRecord(testContactRecord(), "line")
	if err != nil {
		t.Errorf("CopyRecord failed: %v", err)
	}

	if !strings.Contains(content, "20230501") {
		t.Error("Content should contain date")
	}

	if !strings.Contains(content, "W1ABC") {
		t.Error("Content should contain callsign")
	}

	if !strings.HasSuffix(content, "100W") {
		t.Errorf("Trailing padding should be trimmed, got %q", content)
	}
}

func TestCopyRecordFields(t *testing.T) {
	cm := newTestClipboardManager()

	content, err := cm.CopyRecord(testContactRecord(), "fields")
	if err != nil {
		t.Errorf("CopyRecord failed: %v", err)
	}

	if !strings.Contains(content, "RST Sent:") {
		t.Error("Fields format should contain RST Sent label")
	}

	if !strings.Contains(content, "Callsign:     W1ABC") {
		t.Error("Fields format should contain labeled callsign")
	}

	if len(strings.Split(content, "\n")) != 8 {
		t.Error("Fields format should have one line per field")
	}
}

func TestCopyRecordJSON(t *testing.T) {
	cm := newTestClipboardManager()

	content, err := cm.CopyRecord(testContactRecord(), "json")
	if err != nil {
		t.Errorf("CopyRecord failed: %v", err)
	}

	if !strings.Contains(content, `"callsign": "W1ABC"`) {
		t.Error("JSON should contain callsign field")
	}

	if !strings.Contains(content, `"rstSent": "599"`) {
		t.Error("JSON should contain rstSent field")
	}

	if strings.Contains(content, "SourceLine") {
		t.Error("JSON should not expose the source line")
	}
}

func TestCopyRecordCallsign(t *testing.T) {
	cm := newTestClipboardManager()

	content, err := cm.CopyRecord(testContactRecord(), "callsign")
	if err != nil {
		t.Errorf("CopyRecord failed: %v", err)
	}

	if content != "W1ABC" {
		t.Errorf("Expected just the callsign, got %s", content)
	}
}

func TestCopyRecordInvalidFormat(t *testing.T) {
	cm := newTestClipboardManager()

	_, err := cm.CopyRecord(testContactRecord(), "invalid")
	if err == nil {
		t.Error("Should error on invalid format")
	}
}

func TestCopyRecordNil(t *testing.T) {
	cm := newTestClipboardManager()

	_, err := cm.CopyRecord(nil, "line")
	if err == nil {
		t.Error("Should error on nil record")
	}
}

func TestCopyRecordWriteFailure(t *testing.T) {
	cm := NewClipboardManager()
	cm.writeAll = func(string) error { return fmt.Errorf("no display") }

	_, err := cm.CopyRecord(testContactRecord(), "callsign")
	if err == nil {
		t.Error("Should surface clipboard write errors")
	}

	if cm.GetLastCopied() != "" {
		t.Error("Failed copy should not update lastCopied")
	}
}

func TestGetLastCopied(t *testing.T) {
	cm := newTestClipboardManager()

	cm.CopyRecord(testContactRecord(), "callsign")
	lastCopied := cm.GetLastCopied()

	if lastCopied != "W1ABC" {
		t.Errorf("Expected 'W1ABC', got %s", lastCopied)
	}
}

func TestSetCopyFormat(t *testing.T) {
	cm := newTestClipboardManager()

	validFormats := []string{"line", "fields", "json", "callsign"}
	for _, format := range validFormats {
		err := cm.SetCopyFormat(format)
		if err != nil {
			t.Errorf("SetCopyFormat failed for %s: %v", format, err)
		}

		if cm.copyFormat != format {
			t.Errorf("Expected format %s, got %s", format, cm.copyFormat)
		}
	}

	// Invalid format
	err := cm.SetCopyFormat("invalid")
	if err == nil {
		t.Error("Should error on invalid format")
	}
}

func TestGetCopyFormat(t *testing.T) {
	cm := newTestClipboardManager()

	cm.SetCopyFormat("json")
	if cm.GetCopyFormat() != "json" {
		t.Errorf("Expected 'json', got %s", cm.GetCopyFormat())
	}
}

func TestCopyRecordDefault(t *testing.T) {
	cm := newTestClipboardManager()

	cm.SetCopyFormat("callsign")
	content, err := cm.CopyRecordDefault(testContactRecord())
	if err != nil {
		t.Errorf("CopyRecordDefault failed: %v", err)
	}

	if content != "W1ABC" {
		t.Error("Should use the configured default format")
	}
}

func TestCopyMultipleRecords(t *testing.T) {
	cm := newTestClipboardManager()

	records := []*models.ContactRecord{
		{Callsign: "W1ABC"},
		{Callsign: "K2XYZ"},
		{Callsign: "VE3DEF"},
	}

	for _, rec := range records {
		cm.CopyRecord(rec, "callsign")
	}

	lastCopied := cm.GetLastCopied()
	if lastCopied != "VE3DEF" {
		t.Errorf("Expected last copied to be 'VE3DEF', got %s", lastCopied)
	}
}
