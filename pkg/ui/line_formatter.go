package ui

import (
	"fmt"
	"strings"

	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

// LineFormatter handles formatting contacts and source lines for display
type LineFormatter struct {
	maxWidth int
	useColor bool
}

// NewLineFormatter creates a new line formatter
func NewLineFormatter(maxWidth int, useColor bool) *LineFormatter {
	return &LineFormatter{
		maxWidth: maxWidth,
		useColor: useColor,
	}
}

// FormatContactLine formats a contact as a single table row for list display
func (lf *LineFormatter) FormatContactLine(rec models.ContactRecord, maxLen int) string {
	return truncate(mirror.RenderLine(rec), maxLen)
}

// FormatSourceLine formats a raw source line for list display
func (lf *LineFormatter) FormatSourceLine(lineNumber int, line string, maxLen int) string {
	return fmt.Sprintf("%4d │ %s", lineNumber, truncate(line, maxLen-7))
}

// FormatContactDetails formats a contact with full details
func (lf *LineFormatter) FormatContactDetails(rec models.ContactRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("═══════════════════════════════════════════════════════\n")
	sb.WriteString("CONTACT DETAILS\n")
	sb.WriteString("═══════════════════════════════════════════════════════\n\n")

	sb.WriteString(fmt.Sprintf("Date:          %s\n", rec.Date))
	sb.WriteString(fmt.Sprintf("Time:          %s\n", rec.Time))
	sb.WriteString(fmt.Sprintf("Band:          %s\n", rec.Band))
	sb.WriteString(fmt.Sprintf("Mode:          %s\n", rec.Mode))
	sb.WriteString(fmt.Sprintf("RST Sent:      %s\n", rec.RSTSent))
	sb.WriteString(fmt.Sprintf("RST Received:  %s\n", rec.RSTReceived))
	sb.WriteString(fmt.Sprintf("Callsign:      %s\n", rec.Callsign))
	sb.WriteString(fmt.Sprintf("Power:         %s\n", rec.Power))

	if rec.SourceLine != "" {
		sb.WriteString(fmt.Sprintf("\nSource line %d:\n%s\n", rec.LineNumber, rec.SourceLine))
		sb.WriteString(fmt.Sprintf("\nField matches:\n%s", lf.FormatMatchTrace(rec.SourceLine)))
	}

	sb.WriteString("\n═══════════════════════════════════════════════════════\n")

	return sb.String()
}

// FormatCompact formats a contact in compact form (for side panel)
func (lf *LineFormatter) FormatCompact(rec models.ContactRecord) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Date: %s %s\n", rec.Date, rec.Time))
	sb.WriteString(fmt.Sprintf("Band: %s  Mode: %s\n", rec.Band, rec.Mode))
	sb.WriteString(fmt.Sprintf("RST: %s/%s\n", rec.RSTSent, rec.RSTReceived))
	sb.WriteString(fmt.Sprintf("Call: %s  Power: %s\n", rec.Callsign, rec.Power))

	return sb.String()
}

// FormatMatchTrace lists, per field, the first pattern match in a line
func (lf *LineFormatter) FormatMatchTrace(line string) string {
	var sb strings.Builder

	for _, fp := range extract.FieldPatterns() {
		label := padRight(fp.Name+":", 13)
		loc := fp.Pattern.FindStringIndex(line)
		if loc == nil {
			sb.WriteString(fmt.Sprintf("  %s %s\n", label, models.Placeholder))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %q @ %d\n", label, line[loc[0]:loc[1]], loc[0]))
	}

	return sb.String()
}

// HighlightToken marks a token in a line
func (lf *LineFormatter) HighlightToken(line, token string) string {
	if token == "" {
		return line
	}

	// Simple highlight by surrounding with markers
	return strings.ReplaceAll(line, token, fmt.Sprintf("[%s]", token))
}

// truncate truncates a string to max length with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

// padRight pads a string to the right
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// SetMaxWidth sets the maximum line width
func (lf *LineFormatter) SetMaxWidth(width int) {
	lf.maxWidth = width
}
