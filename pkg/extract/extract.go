package extract

import (
	"strings"
	"time"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/models"
)

// ParseRequest represents parameters for a log parse
type ParseRequest struct {
	Raw       string
	TraceEach bool // Emit a debug line per extracted record
}

// ParseResponse represents the result of parsing a log
type ParseResponse struct {
	Records      []models.ContactRecord
	TotalLines   int
	BlankLines   int
	Placeholders int // Total field slots that resolved to the placeholder
	ParsedAt     time.Time
	Duration     time.Duration
}

// ParseLog extracts one ContactRecord per non-blank line, in encounter
// order. Blank and whitespace-only lines never produce a record.
func ParseLog(raw string) []models.ContactRecord {
	return Parse(ParseRequest{Raw: raw}).Records
}

// Parse runs the extractor over every line and reports extraction stats.
func Parse(req ParseRequest) ParseResponse {
	startTime := time.Now()

	lines := strings.Split(req.Raw, "\n")
	resp := ParseResponse{
		Records:    make([]models.ContactRecord, 0, len(lines)),
		TotalLines: len(lines),
	}

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			resp.BlankLines++
			continue
		}

		rec := ExtractRecord(line)
		rec.SourceLine = line
		rec.LineNumber = i + 1
		resp.Placeholders += countPlaceholders(rec)
		resp.Records = append(resp.Records, rec)

		if req.TraceEach {
			utils.Log.Debugf("[extract] line %d: date=%s time=%s band=%s mode=%s rst=%s/%s call=%s pwr=%s",
				rec.LineNumber, rec.Date, rec.Time, rec.Band, rec.Mode,
				rec.RSTSent, rec.RSTReceived, rec.Callsign, rec.Power)
		}
	}

	resp.ParsedAt = time.Now()
	resp.Duration = time.Since(startTime)
	return resp
}

// ExtractRecord recovers a ContactRecord from one log line. Each of the
// eight fields is matched independently against the entire original line
// (first match wins); a field with no match is set to the "N/A"
// placeholder. Never fails: any non-blank line yields exactly one record.
func ExtractRecord(line string) models.ContactRecord {
	return models.ContactRecord{
		Date:        matchOrPlaceholder(datePattern, line),
		Time:        matchOrPlaceholder(timePattern, line),
		Band:        matchOrPlaceholder(bandPattern, line),
		Mode:        matchOrPlaceholder(modePattern, line),
		RSTSent:     matchOrPlaceholder(rstPattern, line),
		RSTReceived: matchOrPlaceholder(rstPattern, line),
		Callsign:    matchOrPlaceholder(callsignPattern, line),
		Power:       matchOrPlaceholder(powerPattern, line),
	}
}

func countPlaceholders(rec models.ContactRecord) int {
	count := 0
	for _, v := range []string{
		rec.Date, rec.Time, rec.Band, rec.Mode,
		rec.RSTSent, rec.RSTReceived, rec.Callsign, rec.Power,
	} {
		if v == models.Placeholder {
			count++
		}
	}
	return count
}
