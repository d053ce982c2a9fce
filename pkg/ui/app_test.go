package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/va2bbw/qle/pkg/config"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

const testLogContent = `20240115 1430 20M CW 599 599 K1ABC 100W
20240116 0915 40M SSB 589 577 VE2XYZ 50W
20240114 2200 15M FT8 599 599 JA1NUT 25`

// newTestApp builds an app over a real temp source log and runs the
// initial refresh, with the system clipboard stubbed out.
func newTestApp(t *testing.T, content string) *App {
	t.Helper()

	path := filepath.Join(t.TempDir(), "qle.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write source log failed: %v", err)
	}

	state := &models.AppState{
		SourcePath: path,
		UIState:    models.UIState{FocusedPane: "source", ActiveModal: "none"},
	}

	app := NewApp(state)
	app.SetController(mirror.NewController(path, mirror.NewMirrorView()))
	app.clipboard.writeAll = func(string) error { return nil }

	newModel, _ := app.Update(initialLoadMsg{})
	return newModel.(*App)
}

func TestNewApp(t *testing.T) {
	state := &models.AppState{
		SourcePath: "/tmp/qle.txt",
		IsReady:    true,
	}

	newApp := NewApp(state)

	if newApp.state != state {
		t.Error("App state not set correctly")
	}

	if newApp.width == 0 || newApp.height == 0 {
		t.Error("App dimensions not initialized")
	}

	if newApp.panes == nil {
		t.Error("App panes not initialized")
	}

	if newApp.activeModalName != "none" {
		t.Errorf("Expected no active modal, got %s", newApp.activeModalName)
	}

	if newApp.liveHistoryCursor != -1 {
		t.Errorf("Expected live history cursor at -1, got %d", newApp.liveHistoryCursor)
	}
}

func TestAppInit(t *testing.T) {
	state := &models.AppState{}
	testApp := NewApp(state)

	cmd := testApp.Init()
	if cmd == nil {
		t.Fatal("Init should return the initial load command")
	}

	if _, ok := cmd().(initialLoadMsg); !ok {
		t.Error("Init command should produce the initial load message")
	}
}

func TestAppWindowResize(t *testing.T) {
	state := &models.AppState{}
	testApp := NewApp(state)

	msg := tea.WindowSizeMsg{Width: 200, Height: 50}
	newAppModel, _ := testApp.Update(msg)
	updatedApp := newAppModel.(*App)

	if updatedApp.width != 200 || updatedApp.height != 50 {
		t.Errorf("Window size not updated: %dx%d", updatedApp.width, updatedApp.height)
	}
}

func TestInitialLoadBuildsMirror(t *testing.T) {
	app := newTestApp(t, testLogContent)

	if !app.state.IsReady {
		t.Fatal("App should be ready after initial load")
	}

	if got := len(app.state.ContactListState.Records); got != 3 {
		t.Fatalf("Expected 3 contacts, got %d", got)
	}

	if got := len(app.state.SourceLines); got != 3 {
		t.Errorf("Expected 3 source lines, got %d", got)
	}

	// Display order follows the rendered date/time key, not file order
	if app.displayRecords[0].Callsign != "JA1NUT" {
		t.Errorf("Expected JA1NUT first in display order, got %s", app.displayRecords[0].Callsign)
	}
	if app.displayRecords[2].Callsign != "VE2XYZ" {
		t.Errorf("Expected VE2XYZ last in display order, got %s", app.displayRecords[2].Callsign)
	}
}

func TestInitialLoadMissingSourceStaysQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	state := &models.AppState{
		SourcePath: path,
		UIState:    models.UIState{FocusedPane: "source"},
	}
	app := NewApp(state)
	app.SetController(mirror.NewController(path, mirror.NewMirrorView()))

	newModel, _ := app.Update(initialLoadMsg{})
	app = newModel.(*App)

	if !app.state.IsReady {
		t.Error("App should become ready even without a readable source")
	}
	if app.lastErr != "" {
		t.Errorf("Quiet origins should not surface errors, got %q", app.lastErr)
	}
	if len(app.state.ContactListState.Records) != 0 {
		t.Errorf("Expected no contacts, got %d", len(app.state.ContactListState.Records))
	}
}

func TestManualRefreshReportsUnreadableSource(t *testing.T) {
	app := newTestApp(t, testLogContent)

	if err := os.Remove(app.state.SourcePath); err != nil {
		t.Fatalf("remove source failed: %v", err)
	}

	newModel, _ := app.Update(createKeyMessage("r"))
	app = newModel.(*App)

	if !contains(app.lastErr, "Source unreadable") {
		t.Errorf("Expected unreadable source notice, got %q", app.lastErr)
	}

	// The previous records survive the failed cycle
	if got := len(app.state.ContactListState.Records); got != 3 {
		t.Errorf("Expected 3 contacts retained, got %d", got)
	}
}

func TestAppKeyBindings(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		checkResult func(*App) bool
	}{
		{
			name: "tab moves pane focus",
			key:  "tab",
			checkResult: func(testApp *App) bool {
				return testApp.panes.GetFocusedPane() == "contacts"
			},
		},
		{
			name: "j scrolls down",
			key:  "j",
			checkResult: func(testApp *App) bool {
				return testApp.panes.Source.scrollOffset > 0
			},
		},
		{
			name: "k scrolls up",
			key:  "k",
			checkResult: func(testApp *App) bool {
				// k at top should keep offset at 0
				return testApp.panes.Source.scrollOffset == 0
			},
		},
		{
			name: "ctrl+f pages down",
			key:  "ctrl+f",
			checkResult: func(testApp *App) bool {
				return testApp.panes.Source.scrollOffset == 10
			},
		},
		{
			name: "t opens date range modal",
			key:  "t",
			checkResult: func(testApp *App) bool {
				return testApp.state.UIState.ActiveModal == "dateRange"
			},
		},
		{
			name: "f opens band filter modal",
			key:  "f",
			checkResult: func(testApp *App) bool {
				return testApp.state.UIState.ActiveModal == "filter"
			},
		},
		{
			name: "l opens live entry modal",
			key:  "l",
			checkResult: func(testApp *App) bool {
				return testApp.state.UIState.ActiveModal == "live" && testApp.state.LiveState.Active
			},
		},
		{
			name: "e opens editor modal",
			key:  "e",
			checkResult: func(testApp *App) bool {
				return testApp.state.UIState.ActiveModal == "editor" && testApp.editModal.IsVisible()
			},
		},
		{
			name: "x opens export modal",
			key:  "x",
			checkResult: func(testApp *App) bool {
				return testApp.state.UIState.ActiveModal == "export"
			},
		},
		{
			name: "enter opens detail popup",
			key:  "enter",
			checkResult: func(testApp *App) bool {
				return testApp.activeModalName == "detail" && testApp.detailViewMode == "tree"
			},
		},
		{
			name: "? opens help",
			key:  "?",
			checkResult: func(testApp *App) bool {
				return testApp.activeModalName == "help" && testApp.state.UIState.HelpVisible
			},
		},
		{
			name: "F clears filters",
			key:  "F",
			checkResult: func(testApp *App) bool {
				return contains(testApp.lastErr, "Filters cleared")
			},
		},
		{
			name: "r refreshes from source",
			key:  "r",
			checkResult: func(testApp *App) bool {
				return contains(testApp.lastErr, "Mirror rebuilt")
			},
		},
		{
			name: "w toggles watch on and off",
			key:  "w",
			checkResult: func(testApp *App) bool {
				if !testApp.watchManager.IsEnabled() || testApp.watcher == nil {
					return false
				}
				newAppModel, _ := testApp.Update(createKeyMessage("w"))
				off := newAppModel.(*App)
				return !off.watchManager.IsEnabled() && off.watcher == nil
			},
		},
		{
			name: "esc closes modal",
			key:  "esc",
			checkResult: func(testApp *App) bool {
				testApp.openModal("export")
				newAppModel, _ := testApp.Update(tea.KeyMsg{Type: tea.KeyEsc})
				return newAppModel.(*App).state.UIState.ActiveModal == "none"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testAppInstance := newTestApp(t, testLogContent)

			keyMsg := createKeyMessage(tt.key)
			newAppModel, _ := testAppInstance.Update(keyMsg)
			updatedApp := newAppModel.(*App)

			if !tt.checkResult(updatedApp) {
				t.Errorf("Key '%s' did not produce expected result", tt.key)
			}
		})
	}
}

func TestAppHandleKeyPress(t *testing.T) {
	app := newTestApp(t, testLogContent)

	// ctrl+c should produce the quit command
	keyMsg := tea.KeyMsg{Type: tea.KeyCtrlC}
	_, cmd := app.Update(keyMsg)
	if cmd == nil {
		t.Error("ctrl+c should quit the app")
	}
}

func TestAppView(t *testing.T) {
	app := newTestApp(t, testLogContent)
	app.width = 120
	app.height = 40

	view := app.View()
	if len(view) == 0 {
		t.Fatal("View produced no output")
	}

	if !contains(view, "QLE Log Viewer") {
		t.Error("View should contain the top bar title")
	}
	if !contains(view, "Source (3)") {
		t.Error("View should contain the source pane header")
	}
	if !contains(view, "Contacts (3)") {
		t.Error("View should contain the contacts pane header")
	}
	if !contains(view, "JA1NUT") {
		t.Error("View should contain rendered contact rows")
	}
}

func TestAppViewNotReady(t *testing.T) {
	state := &models.AppState{
		IsReady: false,
	}
	testApp := NewApp(state)

	view := testApp.View()
	if view != "Loading...\n" {
		t.Errorf("Expected 'Loading...', got %s", view)
	}
}

func TestLiveModalRender(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("l"))
	updatedApp := newModel.(*App)

	view := updatedApp.View()
	if !contains(view, "LIVE ENTRY") {
		t.Errorf("Live modal should be rendered after pressing 'l'. View:\n%s", view[:min(500, len(view))])
	}
}

func TestFilterModalRender(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("f"))
	updatedApp := newModel.(*App)

	view := updatedApp.View()
	if !contains(view, "BAND / MODE FILTER") {
		t.Errorf("Filter modal should be rendered after pressing 'f'. View:\n%s", view[:min(500, len(view))])
	}
}

func TestLiveModalHandlesMultiRuneInput(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("l"))
	app = newModel.(*App)

	// Simulate paste-like input where multiple runes arrive in one key message.
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("JA9XYZ 599 589 15M CW 80W")})
	app = newModel.(*App)

	if got := app.state.LiveState.Draft; got != "JA9XYZ 599 589 15M CW 80W" {
		t.Fatalf("expected full pasted draft, got %q", got)
	}
}

func TestLiveModalPasteWithNewlineDoesNotAutoCommit(t *testing.T) {
	app := newTestApp(t, testLogContent)
	recordsBefore := len(app.state.ContactListState.Records)

	newModel, _ := app.Update(createKeyMessage("l"))
	app = newModel.(*App)

	// A pasted line break must not commit; live drafts are single lines.
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("K1ABC 599\n599")})
	app = newModel.(*App)

	if app.activeModalName != "live" {
		t.Fatal("live modal should remain open after multiline paste")
	}
	if strings.ContainsRune(app.state.LiveState.Draft, '\n') {
		t.Fatalf("draft should not contain newlines, got %q", app.state.LiveState.Draft)
	}
	if got := len(app.state.ContactListState.Records); got != recordsBefore {
		t.Fatalf("paste should not commit, records went %d -> %d", recordsBefore, got)
	}
}

func TestLiveCommitAppendsToSourceAndRefreshes(t *testing.T) {
	app := newTestApp(t, testLogContent)
	draft := "K9ABC 599 599 20M CW 100W"

	newModel, _ := app.Update(createKeyMessage("l"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(draft)})
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)

	if got := len(app.state.ContactListState.Records); got != 4 {
		t.Fatalf("Expected 4 contacts after live commit, got %d", got)
	}
	if app.state.LiveState.Draft != "" {
		t.Errorf("Draft should be cleared after commit, got %q", app.state.LiveState.Draft)
	}
	if app.activeModalName != "live" {
		t.Error("Live modal should stay open for the next entry")
	}

	// The raw line lands in history; the file gets the stamped form
	if len(app.handler.GetHistory()) == 0 || app.handler.GetHistory()[0] != draft {
		t.Errorf("Expected raw draft at history front, got %v", app.handler.GetHistory())
	}

	data, err := os.ReadFile(app.state.SourcePath)
	if err != nil {
		t.Fatalf("read source failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 source lines, got %d", len(lines))
	}
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, " "+draft) {
		t.Errorf("Stamped line should end with the draft, got %q", last)
	}
	if len(last) != len("20060102 1504 ")+len(draft) {
		t.Errorf("Stamp prefix has unexpected width in %q", last)
	}
}

func TestLiveHistoryCycle(t *testing.T) {
	app := newTestApp(t, testLogContent)
	app.SetLiveHistory([]string{"JA1NUT 599", "K1ABC 579"})

	newModel, _ := app.Update(createKeyMessage("l"))
	app = newModel.(*App)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app = newModel.(*App)
	if app.state.LiveState.Draft != "JA1NUT 599" {
		t.Fatalf("Expected newest entry after up, got %q", app.state.LiveState.Draft)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyUp})
	app = newModel.(*App)
	if app.state.LiveState.Draft != "K1ABC 579" {
		t.Fatalf("Expected older entry after second up, got %q", app.state.LiveState.Draft)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = newModel.(*App)
	if app.state.LiveState.Draft != "JA1NUT 599" {
		t.Fatalf("Expected newest entry after down, got %q", app.state.LiveState.Draft)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = newModel.(*App)
	if app.state.LiveState.Draft != "" {
		t.Fatalf("Expected empty draft below history, got %q", app.state.LiveState.Draft)
	}
}

func TestLiveHistoryPersistCallback(t *testing.T) {
	app := newTestApp(t, testLogContent)

	calls := 0
	gotLine := ""
	app.SetLiveHistoryPersistFn(func(line string) error {
		calls++
		gotLine = line
		return nil
	})

	newModel, _ := app.Update(createKeyMessage("l"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("VE3ABC 599 599 40M SSB 100W")})
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_ = newModel.(*App)

	if calls != 1 {
		t.Fatalf("expected one persist callback call, got %d", calls)
	}
	if !strings.HasSuffix(gotLine, "VE3ABC 599 599 40M SSB 100W") {
		t.Fatalf("expected stamped line in callback, got %q", gotLine)
	}
}

func TestEditorSaveRebuildsMirror(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("e"))
	app = newModel.(*App)

	edited := "20240120 1000 10M CW 599 599 W1AW 5W"
	app.editModal.SetInput(edited)

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	app = newModel.(*App)

	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("Expected 1 contact after save, got %d", got)
	}
	if app.state.ContactListState.Records[0].Callsign != "W1AW" {
		t.Errorf("Expected W1AW, got %s", app.state.ContactListState.Records[0].Callsign)
	}
	if app.editModal.HasChanges() {
		t.Error("Editor should be marked saved")
	}

	data, err := os.ReadFile(app.state.SourcePath)
	if err != nil {
		t.Fatalf("read source failed: %v", err)
	}
	if string(data) != edited {
		t.Errorf("Source file should hold the edited text, got %q", string(data))
	}
}

func TestEditorEscDiscardsChanges(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("e"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = newModel.(*App)

	if app.activeModalName != "none" {
		t.Fatalf("Expected editor closed, got %s", app.activeModalName)
	}
	if got := len(app.state.ContactListState.Records); got != 3 {
		t.Errorf("Discarded edit should leave contacts untouched, got %d", got)
	}

	data, err := os.ReadFile(app.state.SourcePath)
	if err != nil {
		t.Fatalf("read source failed: %v", err)
	}
	if string(data) != testLogContent {
		t.Error("Source file should be untouched after discard")
	}
}

func TestFilterModalApplyRestrictsContacts(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("f"))
	app = newModel.(*App)

	if err := app.bandFilter.SetBand("20M", true); err != nil {
		t.Fatalf("SetBand failed: %v", err)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)

	if app.activeModalName != "none" {
		t.Fatalf("Filter modal should close on apply, got %s", app.activeModalName)
	}
	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("Expected 1 contact on 20M, got %d", got)
	}
	if app.state.ContactListState.Records[0].Callsign != "K1ABC" {
		t.Errorf("Expected K1ABC, got %s", app.state.ContactListState.Records[0].Callsign)
	}
}

func TestClearAllFiltersRestoresContacts(t *testing.T) {
	app := newTestApp(t, testLogContent)
	app.state.FilterState.BandMode.Bands = []string{"15M"}
	app.handler.ReapplyFilters(app.state)
	app.syncPanes()

	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("Expected 1 contact on 15M before clear, got %d", got)
	}

	newModel, _ := app.Update(createKeyMessage("F"))
	app = newModel.(*App)

	if got := len(app.state.ContactListState.Records); got != 3 {
		t.Fatalf("Expected all 3 contacts after clear, got %d", got)
	}
}

func TestDatePickerPresetFiltersByDate(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("t"))
	app = newModel.(*App)

	// Move from "All dates" to "Today"; the fixture lives in 2024
	newModel, _ = app.Update(createKeyMessage("j"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)

	if app.activeModalName != "none" {
		t.Fatalf("Date modal should close on apply, got %s", app.activeModalName)
	}
	if got := len(app.state.ContactListState.Records); got != 0 {
		t.Fatalf("Expected 0 contacts for today, got %d", got)
	}
	if app.state.FilterState.DateRange.Preset != "today" {
		t.Errorf("Expected today preset in state, got %q", app.state.FilterState.DateRange.Preset)
	}
}

func TestExportWritesContactsFile(t *testing.T) {
	app := newTestApp(t, testLogContent)
	t.Chdir(t.TempDir())

	newModel, _ := app.Update(createKeyMessage("x"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	app = newModel.(*App)

	if app.activeModalName != "none" {
		t.Fatalf("Export modal should close after export, got %s", app.activeModalName)
	}
	if !contains(app.lastErr, "Exported 3 contacts") {
		t.Fatalf("Expected export notice, got %q", app.lastErr)
	}

	matches, err := filepath.Glob("contacts_*.csv")
	if err != nil || len(matches) != 1 {
		t.Fatalf("Expected one exported CSV, got %v (%v)", matches, err)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read export failed: %v", err)
	}
	if !contains(string(data), "JA1NUT") {
		t.Error("Exported CSV should contain the contacts")
	}
}

func TestDetailPopupTreeExpandAndCollapse(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)
	if app.activeModalName != "detail" {
		t.Fatalf("expected detail popup, got %s", app.activeModalName)
	}
	if app.detailViewMode != "tree" {
		t.Fatalf("expected tree default mode, got %s", app.detailViewMode)
	}

	lines := app.currentDetailTreeLines()
	targetPath := ""
	targetIdx := -1
	for i, line := range lines {
		if line.path != "$" && line.canExpand {
			targetPath = line.path
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		t.Fatalf("expected expandable child path in tree")
	}

	app.detailCursor = targetIdx
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	app = newModel.(*App)
	if !app.detailTreeExpanded[targetPath] {
		t.Fatalf("expected %s to be expanded after l", targetPath)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	app = newModel.(*App)
	if app.detailTreeExpanded[targetPath] {
		t.Fatalf("expected %s to be collapsed after h", targetPath)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = newModel.(*App)
	if app.detailViewMode != "full" {
		t.Fatalf("expected full mode after cycle, got %s", app.detailViewMode)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = newModel.(*App)
	if app.detailViewMode != "tree" {
		t.Fatalf("expected tree mode after second cycle, got %s", app.detailViewMode)
	}
}

func TestDetailPopupCopyNode(t *testing.T) {
	app := newTestApp(t, testLogContent)

	copied := ""
	app.clipboard.writeAll = func(s string) error {
		copied = s
		return nil
	}

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	app = newModel.(*App)

	if copied == "" {
		t.Fatal("Expected node content on the clipboard")
	}
	if !contains(app.lastErr, "Copied node") {
		t.Errorf("Expected copy notice, got %q", app.lastErr)
	}
}

func TestCopySelectedContactFormats(t *testing.T) {
	app := newTestApp(t, testLogContent)

	copied := ""
	app.clipboard.writeAll = func(s string) error {
		copied = s
		return nil
	}

	// Selection follows the sorted display order, so row 0 is JA1NUT
	newModel, _ := app.Update(createKeyMessage("y"))
	app = newModel.(*App)
	if !contains(copied, "JA1NUT") {
		t.Errorf("Expected rendered row on clipboard, got %q", copied)
	}

	newModel, _ = app.Update(createKeyMessage("c"))
	app = newModel.(*App)
	if copied != "JA1NUT" {
		t.Errorf("Expected bare callsign on clipboard, got %q", copied)
	}
	_ = newModel
}

func TestWatchToggleStartsAndStops(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, cmd := app.Update(createKeyMessage("w"))
	app = newModel.(*App)

	if !app.watchManager.IsEnabled() {
		t.Fatal("Watch should be enabled after toggle")
	}
	if app.watcher == nil {
		t.Fatal("Watcher should be attached")
	}
	if cmd == nil {
		t.Error("Watch toggle should arm the change and tick commands")
	}
	if !app.state.WatchState.Enabled {
		t.Error("Watch state should mirror the manager")
	}

	newModel, _ = app.Update(createKeyMessage("w"))
	app = newModel.(*App)

	if app.watchManager.IsEnabled() {
		t.Fatal("Watch should be disabled after second toggle")
	}
	if app.watcher != nil {
		t.Error("Watcher should be detached after disable")
	}
}

func TestSourceChangeMessageRefreshes(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("w"))
	app = newModel.(*App)

	appended := testLogContent + "\n20240117 1200 20M CW 599 599 N0AA 100W\n"
	if err := os.WriteFile(app.state.SourcePath, []byte(appended), 0644); err != nil {
		t.Fatalf("append to source failed: %v", err)
	}

	newModel, cmd := app.Update(sourceChangedMsg{generation: app.watchGeneration})
	app = newModel.(*App)

	if got := len(app.state.ContactListState.Records); got != 4 {
		t.Fatalf("Expected 4 contacts after change, got %d", got)
	}
	if app.state.WatchState.NewContactCount != 1 {
		t.Errorf("Expected 1 new contact counted, got %d", app.state.WatchState.NewContactCount)
	}
	if cmd == nil {
		t.Error("Change handler should re-arm the watch command")
	}

	// A message from a previous watcher generation is ignored
	newModel, _ = app.Update(sourceChangedMsg{generation: app.watchGeneration - 1})
	app = newModel.(*App)
	if got := len(app.state.ContactListState.Records); got != 4 {
		t.Errorf("Stale generation should not refresh, got %d contacts", got)
	}

	newModel, _ = app.Update(createKeyMessage("w"))
	_ = newModel.(*App)
}

func TestFocusingContactsClearsNewCount(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("w"))
	app = newModel.(*App)
	app.watchManager.IncrementNewContactCount(2)
	app.state.WatchState.NewContactCount = 2

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = newModel.(*App)

	if app.panes.GetFocusedPane() != "contacts" {
		t.Fatalf("Expected contacts focused, got %s", app.panes.GetFocusedPane())
	}
	if app.state.WatchState.NewContactCount != 0 {
		t.Errorf("New contact count should reset on focus, got %d", app.state.WatchState.NewContactCount)
	}

	newModel, _ = app.Update(createKeyMessage("w"))
	_ = newModel.(*App)
}

func TestSaveAndApplyFilterLibrary(t *testing.T) {
	app := newTestApp(t, testLogContent)

	persistCalls := 0
	app.SetFilterLibraryPersistFn(func(filters []config.SavedFilterRecord) error {
		persistCalls++
		return nil
	})

	newModel, _ := app.Update(createKeyMessage("f"))
	app = newModel.(*App)
	if err := app.bandFilter.SetBand("20M", true); err != nil {
		t.Fatalf("SetBand failed: %v", err)
	}

	newModel, _ = app.Update(createKeyMessage("s"))
	app = newModel.(*App)
	if len(app.filterLibrary) != 1 {
		t.Fatalf("expected filter saved to library, got %d entries", len(app.filterLibrary))
	}
	if persistCalls != 1 {
		t.Fatalf("expected one persist call, got %d", persistCalls)
	}
	if !contains(app.filterLibrary[0].Name, "20M") {
		t.Errorf("expected band in derived name, got %q", app.filterLibrary[0].Name)
	}

	newModel, _ = app.Update(createKeyMessage("v"))
	app = newModel.(*App)
	if app.activeModalName != "filterLibrary" {
		t.Fatalf("expected filterLibrary modal, got %s", app.activeModalName)
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)
	if app.activeModalName != "none" {
		t.Fatalf("expected modal closed after apply, got %s", app.activeModalName)
	}
	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("expected applied filter to keep 1 contact, got %d", got)
	}
}

func TestSeededFilterLibraryApply(t *testing.T) {
	app := newTestApp(t, testLogContent)
	app.SetFilterLibrary([]config.SavedFilterRecord{{
		Name:  "FT8 only",
		Modes: []string{"FT8"},
	}})

	app.openFilterLibraryModal("none")
	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = newModel.(*App)

	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("expected 1 FT8 contact, got %d", got)
	}
	if app.state.ContactListState.Records[0].Callsign != "JA1NUT" {
		t.Errorf("expected JA1NUT, got %s", app.state.ContactListState.Records[0].Callsign)
	}
	if !sliceContains(app.state.UIState.MessageQueue, "Applied filter: FT8 only") {
		t.Errorf("expected apply notice in queue, got %v", app.state.UIState.MessageQueue)
	}
}

func TestShiftGJumpsToLastEntry(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "202401%02d 1200 20M CW 599 599 K1AA 100W\n", i+1)
	}
	app := newTestApp(t, sb.String())

	// Focus the contacts pane, then jump to the bottom
	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = newModel.(*App)
	newModel, _ = app.Update(createKeyMessage("G"))
	app = newModel.(*App)

	if got := app.currentSelectedIndex(); got != 24 {
		t.Fatalf("expected selected index at last entry, got %d", got)
	}
}

func TestVimKeysDisabled(t *testing.T) {
	app := newTestApp(t, testLogContent)
	app.SetVimMode(false)

	newModel, _ := app.Update(createKeyMessage("j"))
	app = newModel.(*App)
	if app.panes.Source.scrollOffset != 0 {
		t.Error("j should be ignored with vim keys off")
	}

	// Arrow keys still work
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = newModel.(*App)
	if app.panes.Source.scrollOffset != 1 {
		t.Errorf("down arrow should scroll, got offset %d", app.panes.Source.scrollOffset)
	}
}

func TestLookupProviderCycle(t *testing.T) {
	app := newTestApp(t, testLogContent)

	if app.lookup.GetProvider() != LookupProviderQRZ {
		t.Fatalf("expected qrz default, got %s", app.lookup.GetProvider())
	}

	newModel, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'O'}})
	app = newModel.(*App)
	if app.lookup.GetProvider() != LookupProviderHamQTH {
		t.Fatalf("expected hamqth after cycle, got %s", app.lookup.GetProvider())
	}
}

func TestSearchModeNarrowsContacts(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("/"))
	app = newModel.(*App)
	if !app.state.UIState.SearchMode {
		t.Fatal("slash should enter search mode")
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ve2")})
	app = newModel.(*App)
	if got := len(app.state.ContactListState.Records); got != 1 {
		t.Fatalf("search ve2 should keep 1 contact, got %d", got)
	}
	if app.displayRecords[0].Callsign != "VE2XYZ" {
		t.Errorf("expected VE2XYZ, got %s", app.displayRecords[0].Callsign)
	}

	view := app.View()
	if !contains(view, "/ve2") {
		t.Error("status line should echo the search term")
	}

	newModel, _ = app.Update(createKeyMessage("enter"))
	app = newModel.(*App)
	if app.state.UIState.SearchMode {
		t.Error("enter should confirm and leave search mode")
	}
	if !contains(app.lastErr, "1 contacts") {
		t.Errorf("expected search notice, got %q", app.lastErr)
	}
}

func TestSearchModeEscClears(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("/"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	app = newModel.(*App)
	if len(app.state.ContactListState.Records) != 0 {
		t.Fatal("search zzz should match nothing")
	}

	newModel, _ = app.Update(createKeyMessage("esc"))
	app = newModel.(*App)
	if app.state.UIState.SearchMode {
		t.Error("esc should leave search mode")
	}
	if app.state.FilterState.SearchTerm != "" {
		t.Errorf("esc should clear the term, got %q", app.state.FilterState.SearchTerm)
	}
	if len(app.state.ContactListState.Records) != 3 {
		t.Errorf("all contacts should return, got %d", len(app.state.ContactListState.Records))
	}
}

func TestSearchModeBackspace(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("/"))
	app = newModel.(*App)
	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k1x")})
	app = newModel.(*App)
	if len(app.state.ContactListState.Records) != 0 {
		t.Fatal("k1x should match nothing")
	}

	newModel, _ = app.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	app = newModel.(*App)
	if app.state.FilterState.SearchTerm != "k1" {
		t.Fatalf("backspace should trim to k1, got %q", app.state.FilterState.SearchTerm)
	}
	if len(app.state.ContactListState.Records) != 1 {
		t.Errorf("k1 should keep K1ABC, got %d contacts", len(app.state.ContactListState.Records))
	}
}

func TestEditorHandoffProducesCommand(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, cmd := app.Update(createKeyMessage("E"))
	app = newModel.(*App)
	if cmd == nil {
		t.Fatal("E should produce an editor exec command")
	}

	newModel, _ = app.Update(editorResultMsg{err: fmt.Errorf("exit status 1")})
	app = newModel.(*App)
	if !contains(app.lastErr, "Editor failed") {
		t.Errorf("expected editor failure notice, got %q", app.lastErr)
	}

	newModel, _ = app.Update(editorResultMsg{})
	app = newModel.(*App)
	if !contains(app.lastErr, "Mirror rebuilt") {
		t.Errorf("expected refresh notice after editor exit, got %q", app.lastErr)
	}
}

func TestStatsFocusKey(t *testing.T) {
	app := newTestApp(t, testLogContent)

	newModel, _ := app.Update(createKeyMessage("s"))
	app = newModel.(*App)
	if got := app.panes.GetFocusedPane(); got != "stats" {
		t.Fatalf("s should focus the stats pane, got %s", got)
	}
	if app.state.UIState.FocusedPane != "stats" {
		t.Errorf("state should track stats focus, got %s", app.state.UIState.FocusedPane)
	}
}

// Helper function to create key messages
func createKeyMessage(key string) tea.KeyMsg {
	switch key {
	case "j":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	case "k":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	case "g":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}
	case "G":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
	case "t":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}}
	case "f":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}}
	case "F":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'F'}}
	case "l":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}}
	case "e":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}}
	case "x":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}
	case "w":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}
	case "r":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	case "s":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}
	case "v":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}}
	case "y":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	case "c":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}
	case "?":
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{rune(key[0])}}
	}
}

func sliceContains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
