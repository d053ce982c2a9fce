package mirror

import (
	"sort"

	"github.com/va2bbw/qle/pkg/models"
)

// SortLines returns a new slice ordered by ascending date then ascending
// time, comparing the fixed character ranges [0,8) and [9,13) of each
// rendered line as plain strings. No calendar arithmetic: "N/A" dates
// compare as ordinary text and land after numeric dates. The sort is
// stable, so lines with equal keys keep their input order.
func SortLines(lines []string) []string {
	sorted := make([]string, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessByDateTime(sorted[i], sorted[j])
	})
	return sorted
}

// SortRecords orders records exactly as their rendered rows would sort,
// leaving the input slice alone. Callers that pair a rendered table with
// per-row record access index into the result.
func SortRecords(records []models.ContactRecord) []models.ContactRecord {
	sorted := make([]models.ContactRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessByDateTime(RenderLine(sorted[i]), RenderLine(sorted[j]))
	})
	return sorted
}

// lessByDateTime compares two rendered lines on their date then time key
// slices. A line too short to carry both keys sorts after every
// well-formed line, stable among its peers, so one malformed line never
// aborts a refresh.
func lessByDateTime(a, b string) bool {
	aShort := len(a) < minSortableLen
	bShort := len(b) < minSortableLen
	if aShort || bShort {
		return !aShort && bShort
	}

	aDate, bDate := a[dateKeyStart:dateKeyEnd], b[dateKeyStart:dateKeyEnd]
	if aDate != bDate {
		return aDate < bDate
	}
	return a[timeKeyStart:timeKeyEnd] < b[timeKeyStart:timeKeyEnd]
}
