package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/va2bbw/qle/pkg/models"
)

// Builder constructs a display filter over extracted contacts. Filtering
// narrows what a host shows; the mirror itself always carries every
// record.
type Builder struct {
	bands     map[string]bool
	modes     map[string]bool
	dateRange models.DateRange
	callsign  string
	clauses   []string
}

// NewBuilder creates an empty filter builder
func NewBuilder() *Builder {
	return &Builder{
		bands:   map[string]bool{},
		modes:   map[string]bool{},
		clauses: []string{},
	}
}

// AddBands restricts visible contacts to the given bands
func (fb *Builder) AddBands(bands []string) *Builder {
	if len(bands) > 0 {
		for _, band := range bands {
			fb.bands[band] = true
		}
		fb.clauses = append(fb.clauses, "(band="+strings.Join(bands, " OR band=")+")")
	}
	return fb
}

// AddModes restricts visible contacts to the given modes
func (fb *Builder) AddModes(modes []string) *Builder {
	if len(modes) > 0 {
		for _, mode := range modes {
			fb.modes[mode] = true
		}
		fb.clauses = append(fb.clauses, "(mode="+strings.Join(modes, " OR mode=")+")")
	}
	return fb
}

// AddDateRange restricts visible contacts to a YYYYMMDD window, bounds
// inclusive, either bound open when empty
func (fb *Builder) AddDateRange(dr models.DateRange) *Builder {
	if dr.Start != "" {
		fb.clauses = append(fb.clauses, fmt.Sprintf("date>=%s", dr.Start))
	}
	if dr.End != "" {
		fb.clauses = append(fb.clauses, fmt.Sprintf("date<=%s", dr.End))
	}
	fb.dateRange = dr
	return fb
}

// AddCallsign restricts visible contacts to callsigns containing the
// given fragment, compared uppercase
func (fb *Builder) AddCallsign(fragment string) *Builder {
	fragment = strings.ToUpper(strings.TrimSpace(fragment))
	if fragment != "" {
		fb.callsign = fragment
		fb.clauses = append(fb.clauses, fmt.Sprintf("callsign~%q", fragment))
	}
	return fb
}

// Build returns the human-readable description of the active filter
func (fb *Builder) Build() string {
	if len(fb.clauses) == 0 {
		return ""
	}
	return strings.Join(fb.clauses, " AND ")
}

// Matches reports whether a record passes every active clause. Date
// bounds compare lexically, the same rule the sorter applies.
func (fb *Builder) Matches(rec models.ContactRecord) bool {
	if len(fb.bands) > 0 && !fb.bands[rec.Band] {
		return false
	}
	if len(fb.modes) > 0 && !fb.modes[rec.Mode] {
		return false
	}
	if fb.dateRange.Start != "" && rec.Date < fb.dateRange.Start {
		return false
	}
	if fb.dateRange.End != "" && rec.Date > fb.dateRange.End {
		return false
	}
	if fb.callsign != "" && !strings.Contains(rec.Callsign, fb.callsign) {
		return false
	}
	return true
}

// Apply returns the records passing the filter, in input order
func (fb *Builder) Apply(records []models.ContactRecord) []models.ContactRecord {
	if len(fb.clauses) == 0 {
		return records
	}
	kept := make([]models.ContactRecord, 0, len(records))
	for _, rec := range records {
		if fb.Matches(rec) {
			kept = append(kept, rec)
		}
	}
	return kept
}

var (
	bandShape     = regexp.MustCompile(`^[0-9]+M$`)
	dateShape     = regexp.MustCompile(`^[0-9]{8}$`)
	callsignShape = regexp.MustCompile(`^[A-Z0-9/]+$`)
)

// Validator checks display-filter inputs before they are applied
type Validator struct {
	knownModes map[string]bool
}

// NewValidator creates a filter validator
func NewValidator() *Validator {
	known := make(map[string]bool, len(models.Modes))
	for _, mode := range models.Modes {
		known[mode] = true
	}
	return &Validator{knownModes: known}
}

// ValidateBand checks a band token shape
func (v *Validator) ValidateBand(band string) error {
	if band == "" {
		return ErrEmptyBand
	}
	if !bandShape.MatchString(band) {
		return ErrBadBand
	}
	return nil
}

// ValidateMode checks mode membership in the closed set
func (v *Validator) ValidateMode(mode string) error {
	if mode == "" {
		return ErrEmptyMode
	}
	if !v.knownModes[mode] {
		return ErrUnknownMode
	}
	return nil
}

// ValidateDateRange checks bound shapes and ordering. Open bounds are
// fine; a fully open range is fine too.
func (v *Validator) ValidateDateRange(dr models.DateRange) error {
	if dr.Start != "" && !dateShape.MatchString(dr.Start) {
		return ErrBadDate
	}
	if dr.End != "" && !dateShape.MatchString(dr.End) {
		return ErrBadDate
	}
	if dr.Start != "" && dr.End != "" && dr.Start > dr.End {
		return ErrReversedRange
	}
	return nil
}

// ValidateCallsign checks a callsign fragment for search
func (v *Validator) ValidateCallsign(fragment string) error {
	fragment = strings.ToUpper(strings.TrimSpace(fragment))
	if fragment == "" {
		return ErrEmptyCallsign
	}
	if !callsignShape.MatchString(fragment) {
		return ErrBadCallsign
	}
	return nil
}

// Error types
var (
	ErrEmptyBand     = fmt.Errorf("band cannot be empty")
	ErrBadBand       = fmt.Errorf("band must be digits followed by M")
	ErrEmptyMode     = fmt.Errorf("mode cannot be empty")
	ErrUnknownMode   = fmt.Errorf("unknown mode (expected CW, SSB or FT8)")
	ErrBadDate       = fmt.Errorf("date bound must be 8 digits (YYYYMMDD)")
	ErrReversedRange = fmt.Errorf("date range start is after its end")
	ErrEmptyCallsign = fmt.Errorf("callsign fragment cannot be empty")
	ErrBadCallsign   = fmt.Errorf("callsign may only contain letters, digits and /")
)
