package extract

import (
	"regexp"

	"github.com/va2bbw/qle/pkg/models"
)

// Field patterns, each searched independently over the whole line.
// RSTSent and RSTReceived share rstPattern, so both always carry the
// identical first 3-digit run found on the line.
var (
	datePattern     = regexp.MustCompile(`\b[0-9]{8}\b`)
	timePattern     = regexp.MustCompile(`\b[0-9]{4}\b`)
	bandPattern     = regexp.MustCompile(`\b[0-9]+M\b`)
	modePattern     = regexp.MustCompile(`\b(?:CW|SSB|FT8)\b`)
	rstPattern      = regexp.MustCompile(`\b[0-9]{3}\b`)
	callsignPattern = regexp.MustCompile(`\b[A-Z]{1,2}[0-9][A-Z0-9]{0,3}[A-Z]\b`)
	powerPattern    = regexp.MustCompile(`\b[0-9]+W\b|\b[0-9]+$`)
)

func matchOrPlaceholder(re *regexp.Regexp, line string) string {
	if m := re.FindString(line); m != "" {
		return m
	}
	return models.Placeholder
}

// FieldPattern pairs a field name with its compiled pattern
type FieldPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// FieldPatterns returns the patterns in extraction order, for hosts that
// highlight or explain matches.
func FieldPatterns() []FieldPattern {
	return []FieldPattern{
		{Name: "date", Pattern: datePattern},
		{Name: "time", Pattern: timePattern},
		{Name: "band", Pattern: bandPattern},
		{Name: "mode", Pattern: modePattern},
		{Name: "rstSent", Pattern: rstPattern},
		{Name: "rstReceived", Pattern: rstPattern},
		{Name: "callsign", Pattern: callsignPattern},
		{Name: "power", Pattern: powerPattern},
	}
}
