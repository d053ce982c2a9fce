package mirror

import (
	"strings"
	"testing"

	"github.com/va2bbw/qle/pkg/models"
)

func fullRecord() models.ContactRecord {
	return models.ContactRecord{
		Date:        "20230501",
		Time:        "1400",
		Band:        "20M",
		Mode:        "CW",
		RSTSent:     "599",
		RSTReceived: "599",
		Callsign:    "W1ABC",
		Power:       "100W",
	}
}

func placeholderRecord() models.ContactRecord {
	return models.ContactRecord{
		Date:        models.Placeholder,
		Time:        models.Placeholder,
		Band:        models.Placeholder,
		Mode:        models.Placeholder,
		RSTSent:     models.Placeholder,
		RSTReceived: models.Placeholder,
		Callsign:    models.Placeholder,
		Power:       models.Placeholder,
	}
}

func TestRenderLineFullRecord(t *testing.T) {
	line := RenderLine(fullRecord())

	want := "20230501  1400  20M    CW    599        599            W1ABC     100W  "
	if line != want {
		t.Errorf("Unexpected rendered line\nwant: %q\ngot:  %q", want, line)
	}
}

func TestRenderLineAllPlaceholders(t *testing.T) {
	line := RenderLine(placeholderRecord())

	want := "N/A       N/A   N/A    N/A   N/A        N/A            N/A       N/A   "
	if line != want {
		t.Errorf("Unexpected rendered line\nwant: %q\ngot:  %q", want, line)
	}
}

func TestRenderLineFixedWidth(t *testing.T) {
	full := RenderLine(fullRecord())
	empty := RenderLine(placeholderRecord())

	if len(full) != 71 {
		t.Errorf("Expected 71-character row, got %d", len(full))
	}

	if len(full) != len(empty) {
		t.Errorf("Expected equal row widths, got %d and %d", len(full), len(empty))
	}
}

func TestRenderLineKeyOffsets(t *testing.T) {
	line := RenderLine(fullRecord())

	if line[dateKeyStart:dateKeyEnd] != "20230501" {
		t.Errorf("Expected date key '20230501', got %q", line[dateKeyStart:dateKeyEnd])
	}

	// The time key window spans the last pad space of the date column
	// plus the first three time digits.
	if line[timeKeyStart:timeKeyEnd] != " 140" {
		t.Errorf("Expected time key ' 140', got %q", line[timeKeyStart:timeKeyEnd])
	}
}

func TestRenderLineOverlongField(t *testing.T) {
	rec := fullRecord()
	rec.Callsign = "VE2ABCDEFGH"

	line := RenderLine(rec)

	// Overlong values widen the row rather than being truncated.
	if len(line) <= 71 {
		t.Errorf("Expected row wider than 71 characters, got %d", len(line))
	}

	if !strings.Contains(line, "VE2ABCDEFGH") {
		t.Error("Expected the full callsign to survive rendering")
	}
}

func TestHeaderLine(t *testing.T) {
	header := HeaderLine()

	want := "Date      Time  Band   Mode  RST Sent   RST Received   Callsign  Power "
	if header != want {
		t.Errorf("Unexpected header\nwant: %q\ngot:  %q", want, header)
	}

	if len(header) != 71 {
		t.Errorf("Expected 71-character header, got %d", len(header))
	}
}

func TestRenderTable(t *testing.T) {
	lines := []string{
		RenderLine(fullRecord()),
	}

	table := RenderTable(lines)

	if !strings.HasPrefix(table, HeaderLine()+"\n") {
		t.Error("Expected table to start with the header row")
	}

	if !strings.HasSuffix(table, "\n") {
		t.Error("Expected every row to end with a newline")
	}

	rows := strings.Split(strings.TrimSuffix(table, "\n"), "\n")
	if len(rows) != 2 {
		t.Errorf("Expected header plus one row, got %d rows", len(rows))
	}
}

func TestRenderTableEmpty(t *testing.T) {
	table := RenderTable(nil)

	if table != HeaderLine()+"\n" {
		t.Errorf("Expected bare header for no records, got %q", table)
	}
}

func TestRenderLinesOrder(t *testing.T) {
	records := []models.ContactRecord{
		fullRecord(),
		placeholderRecord(),
	}

	lines := RenderLines(records)

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	// RenderLines keeps encounter order; sorting is a separate stage.
	if !strings.HasPrefix(lines[0], "20230501") {
		t.Errorf("Expected first line to keep input order, got %q", lines[0])
	}
}
