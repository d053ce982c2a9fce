package ui

import (
	"fmt"
	"strings"

	"github.com/va2bbw/qle/pkg/extract"
	"github.com/va2bbw/qle/pkg/models"
)

// DemoSourceText returns a sample QLE log for testing/demo purposes.
// It mixes clean entries, free-form prose with recoverable fields, and
// lines where extraction finds nothing.
func DemoSourceText() string {
	lines := []string{
		"20230501 1400 20M CW 599 599 W1ABC 100W",
		"20230415 0900 40M SSB 589 589 K2XYZ 50",
		"20230502 1830 ragchew with VE3DEF on 80M SSB 579 579 running 100W",
		"",
		"worked JA1NUT long path 20230503 2215 17M CW 599 599 5W qrp",
		"20230504 0712 FT8 30M K5LMN 599 599 100W auto logged",
		"field day practice, no details yet",
		"20230505 1100 10M SSB 559 559 G4HUP 25W sporadic E",
		"2023-05-06 tried 6M, band dead",
		"",
		"20230507 0640 160M CW 579 579 VK2GOM 100W greyline",
	}

	// More entries so scrolling has something to chew on
	calls := []string{"K1AW", "W2XYZ", "N3FJP", "VE3DEF", "G4HUP", "JA1NUT", "VK2GOM", "DL2XE", "EA4GHB", "PY2ABC"}
	bands := []string{"80M", "40M", "20M", "15M", "10M"}
	powers := []string{"100W", "50W", "25W", "5W"}
	for i := 16; i <= 55; i++ {
		lines = append(lines, fmt.Sprintf("2023%02d%02d %02d%02d %s %s 599 599 %s %s",
			(i%6)+4,
			(i%28)+1,
			(i*7)%24,
			(i*13)%60,
			bands[i%len(bands)],
			models.Modes[i%len(models.Modes)],
			calls[i%len(calls)],
			powers[i%len(powers)],
		))
	}

	return strings.Join(lines, "\n") + "\n"
}

// LoadDemoData populates app state with sample contacts, bypassing the
// source file
func LoadDemoData(appState *models.AppState) {
	raw := DemoSourceText()

	appState.SourceLines = strings.Split(strings.TrimSuffix(raw, "\n"), "\n")
	appState.ContactListState.Records = extract.ParseLog(raw)
	appState.ContactListState.IsLoading = false
	appState.IsReady = true
}
