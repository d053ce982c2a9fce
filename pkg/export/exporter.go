package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

// SupportedFormats lists the export formats by flag name
var SupportedFormats = []string{"csv", "json", "jsonl", "text", "adif"}

// Exporter handles exporting contacts to various formats
type Exporter struct {
	lastExportPath string
}

// NewExporter creates a new exporter
func NewExporter() *Exporter {
	return &Exporter{
		lastExportPath: "",
	}
}

// ExportToCSV exports contacts to CSV format
func (e *Exporter) ExportToCSV(records []models.ContactRecord, filepath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no contacts to export")
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{"Date", "Time", "Band", "Mode", "RST Sent", "RST Received", "Callsign", "Power"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Write data
	for _, rec := range records {
		row := []string{
			rec.Date,
			rec.Time,
			rec.Band,
			rec.Mode,
			rec.RSTSent,
			rec.RSTReceived,
			rec.Callsign,
			rec.Power,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	e.lastExportPath = filepath
	return nil
}

// ExportToJSON exports contacts to JSON format
func (e *Exporter) ExportToJSON(records []models.ContactRecord, filepath string, pretty bool) error {
	if len(records) == 0 {
		return fmt.Errorf("no contacts to export")
	}

	var data []byte
	var err error

	if pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	e.lastExportPath = filepath
	return nil
}

// ExportToJSONL exports contacts to JSONL format (one JSON per line)
func (e *Exporter) ExportToJSONL(records []models.ContactRecord, filepath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no contacts to export")
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}

		if _, err := file.WriteString(string(data) + "\n"); err != nil {
			return fmt.Errorf("failed to write line: %w", err)
		}
	}

	e.lastExportPath = filepath
	return nil
}

// ExportToText exports contacts as the fixed-width table, sorted the
// way the mirror sorts it
func (e *Exporter) ExportToText(records []models.ContactRecord, filepath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no contacts to export")
	}

	table := mirror.RenderTable(mirror.SortLines(mirror.RenderLines(records)))

	if err := os.WriteFile(filepath, []byte(table), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	e.lastExportPath = filepath
	return nil
}

// ExportToADIF exports contacts in ADIF 3 interchange format. Fields
// still holding the placeholder are omitted from the record.
func (e *Exporter) ExportToADIF(records []models.ContactRecord, filepath string) error {
	if len(records) == 0 {
		return fmt.Errorf("no contacts to export")
	}

	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	header := "QLE contact export\n<ADIF_VER:5>3.1.4\n<PROGRAMID:3>QLE\n<EOH>\n"
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		fields := []string{
			adifField("QSO_DATE", rec.Date),
			adifField("TIME_ON", rec.Time),
			adifField("BAND", adifBand(rec.Band)),
			adifField("MODE", rec.Mode),
			adifField("RST_SENT", rec.RSTSent),
			adifField("RST_RCVD", rec.RSTReceived),
			adifField("CALL", rec.Callsign),
			adifField("TX_PWR", adifPower(rec.Power)),
		}

		parts := make([]string, 0, len(fields)+1)
		for _, f := range fields {
			if f != "" {
				parts = append(parts, f)
			}
		}
		parts = append(parts, "<EOR>")

		if _, err := file.WriteString(strings.Join(parts, " ") + "\n"); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	e.lastExportPath = filepath
	return nil
}

// GetLastExportPath returns the path of the last export
func (e *Exporter) GetLastExportPath() string {
	return e.lastExportPath
}

// FileExists checks if a file exists
func (e *Exporter) FileExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return err == nil
}

// GetDefaultFileName generates a default filename for export
func (e *Exporter) GetDefaultFileName(format string) string {
	timestamp := time.Now().Format("20060102_150405")
	ext := "txt"

	switch format {
	case "csv":
		ext = "csv"
	case "json":
		ext = "json"
	case "jsonl":
		ext = "jsonl"
	case "adif":
		ext = "adi"
	case "text":
		ext = "txt"
	}

	return fmt.Sprintf("contacts_%s.%s", timestamp, ext)
}

// EstimateSize estimates the export file size
func (e *Exporter) EstimateSize(records []models.ContactRecord, format string) int {
	if len(records) == 0 {
		return 0
	}

	switch format {
	case "csv":
		return 60 * len(records)
	case "json", "jsonl":
		return 170 * len(records)
	case "adif":
		return 110 * len(records)
	case "text":
		return 72 * (len(records) + 1)
	default:
		return 0
	}
}

// adifField renders one <NAME:len>value tag, or nothing for a
// placeholder value
func adifField(name, value string) string {
	if value == "" || value == models.Placeholder {
		return ""
	}
	return fmt.Sprintf("<%s:%d>%s", name, len(value), value)
}

// adifBand lowercases a band token per ADIF convention
func adifBand(band string) string {
	if band == models.Placeholder {
		return models.Placeholder
	}
	return strings.ToLower(band)
}

// adifPower strips the trailing W so TX_PWR carries bare watts
func adifPower(power string) string {
	return strings.TrimSuffix(power, "W")
}
