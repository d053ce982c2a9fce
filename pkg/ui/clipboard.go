package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

// ClipboardManager handles copying contact records
type ClipboardManager struct {
	lastCopied string
	copyFormat string // "line", "fields", "json", "callsign"
	writeAll   func(string) error
}

// NewClipboardManager creates a new clipboard manager
func NewClipboardManager() *ClipboardManager {
	return &ClipboardManager{
		lastCopied: "",
		copyFormat: "line",
		writeAll:   clipboard.WriteAll,
	}
}

// CopyRecord copies a contact record to the system clipboard
func (cm *ClipboardManager) CopyRecord(rec *models.ContactRecord, format string) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("record is nil")
	}

	var content string

	switch format {
	case "line":
		content = cm.formatLine(rec)
	case "fields":
		content = cm.formatFields(rec)
	case "json":
		content = cm.formatJSON(rec)
	case "callsign":
		content = rec.Callsign
	default:
		return "", fmt.Errorf("invalid format: %s", format)
	}

	if err := cm.writeAll(content); err != nil {
		return "", fmt.Errorf("clipboard write failed: %w", err)
	}

	cm.lastCopied = content
	return content, nil
}

// formatLine formats the record as its rendered table row
func (cm *ClipboardManager) formatLine(rec *models.ContactRecord) string {
	return strings.TrimRight(mirror.RenderLine(*rec), " ")
}

// formatFields formats the record with one labeled field per line
func (cm *ClipboardManager) formatFields(rec *models.ContactRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date:         %s\n", rec.Date)
	fmt.Fprintf(&b, "Time:         %s\n", rec.Time)
	fmt.Fprintf(&b, "Band:         %s\n", rec.Band)
	fmt.Fprintf(&b, "Mode:         %s\n", rec.Mode)
	fmt.Fprintf(&b, "RST Sent:     %s\n", rec.RSTSent)
	fmt.Fprintf(&b, "RST Received: %s\n", rec.RSTReceived)
	fmt.Fprintf(&b, "Callsign:     %s\n", rec.Callsign)
	fmt.Fprintf(&b, "Power:        %s", rec.Power)
	return b.String()
}

// formatJSON formats the record as indented JSON
func (cm *ClipboardManager) formatJSON(rec *models.ContactRecord) string {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *rec)
	}
	return string(data)
}

// CopyText copies arbitrary text, such as a single detail node value
func (cm *ClipboardManager) CopyText(text string) error {
	if err := cm.writeAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}

	cm.lastCopied = text
	return nil
}

// GetLastCopied returns the last copied content
func (cm *ClipboardManager) GetLastCopied() string {
	return cm.lastCopied
}

// SetCopyFormat sets the default copy format
func (cm *ClipboardManager) SetCopyFormat(format string) error {
	validFormats := map[string]bool{
		"line":     true,
		"fields":   true,
		"json":     true,
		"callsign": true,
	}

	if !validFormats[format] {
		return fmt.Errorf("invalid format: %s", format)
	}

	cm.copyFormat = format
	return nil
}

// GetCopyFormat returns the current copy format
func (cm *ClipboardManager) GetCopyFormat() string {
	return cm.copyFormat
}

// CopyRecordDefault copies a record with the default format
func (cm *ClipboardManager) CopyRecordDefault(rec *models.ContactRecord) (string, error) {
	return cm.CopyRecord(rec, cm.copyFormat)
}
