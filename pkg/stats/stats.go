package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/va2bbw/qle/pkg/models"
)

// Summary condenses an extracted log into headline numbers
type Summary struct {
	TotalContacts   int            `json:"totalContacts"`
	ActiveDays      int            `json:"activeDays"`
	FirstDate       string         `json:"firstDate,omitempty"`
	LastDate        string         `json:"lastDate,omitempty"`
	UniqueCallsigns int            `json:"uniqueCallsigns"`
	Bands           map[string]int `json:"bands"`
	Modes           map[string]int `json:"modes"`
}

// ActivityBuilder builds contact activity series and distributions
type ActivityBuilder struct{}

// NewActivityBuilder creates a new activity builder
func NewActivityBuilder() *ActivityBuilder {
	return &ActivityBuilder{}
}

// BuildActivity groups contacts into per-day points, sorted by date.
// Contacts whose date stayed a placeholder group under it and sort
// last, like they do in the table.
func (ab *ActivityBuilder) BuildActivity(records []models.ContactRecord) []models.ActivityPoint {
	if len(records) == 0 {
		return []models.ActivityPoint{}
	}

	buckets := make(map[string]*models.ActivityPoint)

	for _, rec := range records {
		if _, exists := buckets[rec.Date]; !exists {
			buckets[rec.Date] = &models.ActivityPoint{
				Date:  rec.Date,
				Count: 0,
				Modes: make(map[string]int),
			}
		}

		buckets[rec.Date].Count++
		buckets[rec.Date].Modes[rec.Mode]++
	}

	points := make([]models.ActivityPoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// BuildBandDistribution counts contacts by band
func (ab *ActivityBuilder) BuildBandDistribution(records []models.ContactRecord) map[string]int {
	distribution := make(map[string]int)

	for _, rec := range records {
		distribution[rec.Band]++
	}

	return distribution
}

// BuildModeDistribution counts contacts by mode
func (ab *ActivityBuilder) BuildModeDistribution(records []models.ContactRecord) map[string]int {
	distribution := make(map[string]int)

	for _, rec := range records {
		distribution[rec.Mode]++
	}

	return distribution
}

// BuildSummary condenses records into a Summary. First and last dates
// and the active-day count ignore placeholder dates.
func (ab *ActivityBuilder) BuildSummary(records []models.ContactRecord) Summary {
	summary := Summary{
		TotalContacts: len(records),
		Bands:         ab.BuildBandDistribution(records),
		Modes:         ab.BuildModeDistribution(records),
	}

	days := make(map[string]bool)
	calls := make(map[string]bool)

	for _, rec := range records {
		if rec.Callsign != models.Placeholder {
			calls[rec.Callsign] = true
		}
		if rec.Date == models.Placeholder {
			continue
		}
		days[rec.Date] = true
		if summary.FirstDate == "" || rec.Date < summary.FirstDate {
			summary.FirstDate = rec.Date
		}
		if rec.Date > summary.LastDate {
			summary.LastDate = rec.Date
		}
	}

	summary.ActiveDays = len(days)
	summary.UniqueCallsigns = len(calls)
	return summary
}

// RenderSparkline renders a simple text-based sparkline of activity
func (ab *ActivityBuilder) RenderSparkline(points []models.ActivityPoint, width int) string {
	if len(points) == 0 {
		return ""
	}

	if width < 10 {
		width = 10
	}

	// Find max count for scaling
	maxCount := 0
	for _, point := range points {
		if point.Count > maxCount {
			maxCount = point.Count
		}
	}

	if maxCount == 0 {
		return ""
	}

	// Downsample to fit width
	step := len(points) / width
	if step < 1 {
		step = 1
	}

	sparkchars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var sparkline strings.Builder
	for i := 0; i < len(points); i += step {
		point := points[i]
		level := (point.Count * len(sparkchars)) / maxCount
		if level >= len(sparkchars) {
			level = len(sparkchars) - 1
		}
		sparkline.WriteRune(sparkchars[level])
	}

	return sparkline.String()
}

// RenderDistributionBar renders a bar chart for a band or mode
// distribution. Keys in the order slice come first, stragglers follow
// alphabetically.
func (ab *ActivityBuilder) RenderDistributionBar(distribution map[string]int, order []string, maxWidth int) string {
	if len(distribution) == 0 {
		return "No data"
	}

	// Find max count
	maxCount := 0
	for _, count := range distribution {
		if count > maxCount {
			maxCount = count
		}
	}

	if maxCount == 0 {
		return "No data"
	}

	seen := make(map[string]bool, len(order))
	keys := make([]string, 0, len(distribution))
	for _, key := range order {
		if _, exists := distribution[key]; exists {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range distribution {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var result strings.Builder
	for _, key := range keys {
		count := distribution[key]
		if count == 0 {
			continue
		}

		// Calculate bar length
		barLength := (count * maxWidth) / maxCount
		if barLength < 1 {
			barLength = 1
		}

		fmt.Fprintf(&result, "%-10s [%s] %d\n", key, strings.Repeat("█", barLength), count)
	}

	return result.String()
}
