package mirror

import (
	"fmt"
	"strings"

	"github.com/va2bbw/qle/pkg/models"
)

// Column padding widths for the contacts table. The sorter slices
// rendered text at the fixed key offsets below, so the widths and the
// offsets move together.
const lineFormat = "%-10s%-6s%-7s%-6s%-11s%-15s%-10s%-6s"

const (
	dateKeyStart = 0
	dateKeyEnd   = 8
	timeKeyStart = 9
	timeKeyEnd   = 13

	// A line shorter than this cannot carry both sort keys.
	minSortableLen = timeKeyEnd
)

// RenderLine formats one record as a fixed-width table row.
func RenderLine(rec models.ContactRecord) string {
	return fmt.Sprintf(lineFormat,
		rec.Date, rec.Time, rec.Band, rec.Mode,
		rec.RSTSent, rec.RSTReceived, rec.Callsign, rec.Power)
}

// RenderLines formats records in order, one row per record.
func RenderLines(records []models.ContactRecord) []string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = RenderLine(rec)
	}
	return lines
}

// HeaderLine returns the fixed column header row.
func HeaderLine() string {
	return fmt.Sprintf(lineFormat,
		"Date", "Time", "Band", "Mode", "RST Sent", "RST Received", "Callsign", "Power")
}

// RenderTable assembles the final mirror text: the header row, then each
// given line, each terminated by a newline.
func RenderTable(lines []string) string {
	var sb strings.Builder
	sb.WriteString(HeaderLine())
	sb.WriteByte('\n')
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
