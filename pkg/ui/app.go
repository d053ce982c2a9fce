package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/va2bbw/qle/pkg/config"
	"github.com/va2bbw/qle/pkg/export"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
	"github.com/va2bbw/qle/pkg/stats"
	"github.com/va2bbw/qle/pkg/watch"
)

// App represents the main TUI application
type App struct {
	state               *models.AppState
	width               int
	height              int
	panes               *Panes
	lastErr             string
	helpModal           *HelpModal
	editModal           *EditModal
	liveInput           textinput.Model
	bandFilter          *BandFilterPanel
	datePicker          *DatePicker
	handler             *RefreshHandler
	watchManager        *WatchManager
	watcher             *watch.Watcher
	clipboard           *ClipboardManager
	lookup              *CallsignLookup
	exporter            *export.Exporter
	formatter           *LineFormatter
	statsBuilder        *stats.ActivityBuilder
	notices             *NoticeDisplay
	displayRecords      []models.ContactRecord
	activeModalName     string // Track which modal is open
	previousModalName   string
	vimMode             bool
	station             string
	detailScroll        int
	detailCursor        int
	detailViewMode      string
	detailTreeExpanded  map[string]bool
	filterCursor        int
	liveHistoryCursor   int
	filterLibrary       []config.SavedFilterRecord
	filterLibraryCursor int
	watchGeneration     int
	watchOnLoad         bool
	persistHistoryFn    func(line string) error
	persistLibraryFn    func([]config.SavedFilterRecord) error
}

type initialLoadMsg struct{}

// sourceChangedMsg arrives when the watched log file changes on disk.
// The generation stamp discards wake-ups from a stopped watcher.
type sourceChangedMsg struct {
	generation int
}

type watchTickMsg struct {
	generation int
}

// editorResultMsg arrives when the external $EDITOR session ends
type editorResultMsg struct {
	err error
}

// NewApp creates a new TUI application
func NewApp(appState *models.AppState) *App {
	interval := appState.WatchState.RefreshInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	liveInput := textinput.New()
	liveInput.Prompt = ""
	liveInput.Placeholder = "CALLSIGN RST RST BAND MODE POWER"
	liveInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230"))
	liveInput.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return &App{
		state:              appState,
		width:              120,
		height:             40,
		panes:              NewPanes(),
		helpModal:          NewHelpModal(),
		editModal:          NewEditModal(),
		liveInput:          liveInput,
		bandFilter:         NewBandFilterPanel(),
		datePicker:         NewDatePicker(),
		handler:            NewRefreshHandler(nil),
		watchManager:       NewWatchManager(interval),
		clipboard:          NewClipboardManager(),
		lookup:             NewCallsignLookup(LookupProviderQRZ),
		exporter:           export.NewExporter(),
		formatter:          NewLineFormatter(120, true),
		statsBuilder:       stats.NewActivityBuilder(),
		notices:            NewNoticeDisplay(),
		activeModalName:    "none",
		vimMode:            true,
		detailViewMode:     "tree",
		detailTreeExpanded: map[string]bool{"$": true},
		liveHistoryCursor:  -1,
	}
}

// SetController attaches the mirror controller driving refreshes
func (a *App) SetController(controller *mirror.Controller) {
	a.handler.SetController(controller)
}

// SetVimMode enables or disables vim-style navigation keys
func (a *App) SetVimMode(enabled bool) {
	a.vimMode = enabled
}

// SetStation sets the operator callsign shown in the top bar
func (a *App) SetStation(callsign string) {
	a.station = strings.ToUpper(strings.TrimSpace(callsign))
}

// SetLookupProvider selects the callsign database used by lookups
func (a *App) SetLookupProvider(provider string) error {
	return a.lookup.SetProvider(provider)
}

// SetWatchInterval overrides the periodic refresh interval
func (a *App) SetWatchInterval(interval time.Duration) {
	_ = a.watchManager.SetInterval(interval)
}

// SetWatchOnLoad arms watch mode to start right after the initial load
func (a *App) SetWatchOnLoad(enabled bool) {
	a.watchOnLoad = enabled
}

// SetLiveHistory seeds live entry history, most recent first
func (a *App) SetLiveHistory(history []string) {
	for i := len(history) - 1; i >= 0; i-- {
		a.handler.AddToHistory(history[i])
	}
	a.state.LiveState.History = a.handler.GetHistory()
}

// SetLiveHistoryPersistFn sets the callback that persists committed
// live entries
func (a *App) SetLiveHistoryPersistFn(fn func(line string) error) {
	a.persistHistoryFn = fn
}

// SetFilterLibrary seeds the saved filter library
func (a *App) SetFilterLibrary(filters []config.SavedFilterRecord) {
	a.filterLibrary = filters
}

// SetFilterLibraryPersistFn sets the callback that persists the saved
// filter library
func (a *App) SetFilterLibraryPersistFn(fn func([]config.SavedFilterRecord) error) {
	a.persistLibraryFn = fn
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		return initialLoadMsg{}
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.formatter.SetMaxWidth(msg.Width)
		a.syncPanes()
		return a, nil

	case initialLoadMsg:
		a.refreshFromSource("initial")
		if a.watchOnLoad && !a.watchManager.IsEnabled() {
			a.watchOnLoad = false
			_, cmd := a.toggleWatch()
			return a, cmd
		}
		return a, nil

	case sourceChangedMsg:
		if msg.generation != a.watchGeneration || a.watcher == nil {
			return a, nil
		}
		a.refreshFromSource("watch")
		return a, a.waitForSourceChangeCmd(a.watcher, msg.generation)

	case watchTickMsg:
		if msg.generation != a.watchGeneration || !a.watchManager.IsEnabled() {
			return a, nil
		}
		a.refreshFromSource("tick")
		return a, a.watchTickCmd(msg.generation)

	case editorResultMsg:
		if msg.err != nil {
			a.noteError(fmt.Sprintf("Editor failed: %v", msg.err))
			return a, nil
		}
		a.refreshFromSource("manual")
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	}

	return a, nil
}

// View renders the application
func (a *App) View() string {
	if !a.state.IsReady {
		return "Loading...\n"
	}

	topBar := a.renderTopBar()

	bottomHeight := 9
	footerLines := 2
	if a.lastErr != "" {
		footerLines = 3
	}
	overhead := strings.Count(topBar, "\n") + bottomHeight + footerLines

	mainHeight := a.height - overhead - 2
	if mainHeight < 6 {
		mainHeight = 6
	}

	sourceWidth := a.width * 2 / 5
	contactsWidth := a.width - sourceWidth
	main := renderHorizontalSplit(
		[]string{
			a.panes.Source.Render(sourceWidth, mainHeight),
			a.panes.Contacts.Render(contactsWidth, mainHeight),
		},
		[]int{sourceWidth, contactsWidth},
	)

	statsWidth := a.width / 2
	controlsWidth := a.width - statsWidth
	bottom := renderHorizontalSplit(
		[]string{
			a.panes.Stats.Render(statsWidth, bottomHeight),
			a.panes.Controls.Render(controlsWidth, bottomHeight),
		},
		[]int{statsWidth, controlsWidth},
	)

	var result strings.Builder
	result.WriteString(topBar)
	result.WriteString(main)
	result.WriteString("\n")
	result.WriteString(bottom)
	result.WriteString("\n")
	result.WriteString(a.renderStatusPanel())
	output := result.String()

	switch a.activeModalName {
	case "live":
		output = output + "\n" + a.renderLiveModal()
	case "editor":
		output = output + "\n" + a.editModal.Render(a.width, a.height)
	case "filter":
		output = output + "\n" + a.renderFilterModal()
	case "dateRange":
		output = output + "\n" + a.renderDatePickerModal()
	case "export":
		output = output + "\n" + a.renderExportModal()
	case "detail":
		output = output + "\n" + a.renderDetailPopup()
	case "filterLibrary":
		output = a.renderCenteredPopup(output, a.renderFilterLibraryPopup())
	case "help":
		output = a.helpModal.Render(a.width, a.height)
	}

	return output
}

// handleKeyPress handles keyboard input. Open modals consume keys
// before the global bindings run.
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.activeModalName {
	case "live":
		return a.handleLiveModalInput(msg)
	case "editor":
		return a.handleEditorModalInput(msg)
	case "filter":
		return a.handleFilterModalInput(msg)
	case "dateRange":
		return a.handleDatePickerInput(msg)
	case "export":
		return a.handleExportInput(msg)
	case "detail":
		return a.handleDetailPopupInput(msg)
	case "filterLibrary":
		return a.handleFilterLibraryInput(msg)
	case "help":
		switch msg.String() {
		case "esc", "?", "q":
			a.closeModal()
		}
		return a, nil
	}

	if a.state.UIState.SearchMode {
		return a.handleSearchInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit

	case "tab":
		a.panes.FocusNext()
		a.state.UIState.FocusedPane = a.panes.GetFocusedPane()
		a.maybeResetNewCount()
		return a, nil

	case "shift+tab", "backtab":
		a.panes.FocusPrevious()
		a.state.UIState.FocusedPane = a.panes.GetFocusedPane()
		a.maybeResetNewCount()
		return a, nil

	case "down":
		a.scrollFocused(1)
		return a, nil

	case "up":
		a.scrollFocused(-1)
		return a, nil

	case "j":
		if a.vimMode {
			a.scrollFocused(1)
		}
		return a, nil

	case "k":
		if a.vimMode {
			a.scrollFocused(-1)
		}
		return a, nil

	case "home":
		a.jumpFocused(true)
		return a, nil

	case "end":
		a.jumpFocused(false)
		return a, nil

	case "g":
		if a.vimMode {
			a.jumpFocused(true)
		}
		return a, nil

	case "G":
		if a.vimMode {
			a.jumpFocused(false)
		}
		return a, nil

	case "ctrl+f", "pgdown":
		a.pageFocused(1)
		return a, nil

	case "ctrl+b", "pgup":
		a.pageFocused(-1)
		return a, nil

	case "e":
		a.openEditorModal()
		return a, nil

	case "E":
		return a, a.openSourceInEditorCmd()

	case "l":
		a.openLiveModal()
		return a, nil

	case "f":
		a.openModal("filter")
		a.syncFilterPanelFromState()
		return a, nil

	case "d", "t":
		a.openModal("dateRange")
		return a, nil

	case "s":
		a.panes.SetFocus("stats")
		a.state.UIState.FocusedPane = "stats"
		return a, nil

	case "/":
		a.state.UIState.SearchMode = true
		return a, nil

	case "F":
		a.clearAllFilters()
		return a, nil

	case "enter":
		if len(a.displayRecords) > 0 {
			a.openModal("detail")
			a.resetDetailPopupState()
		}
		return a, nil

	case "y":
		a.copySelectedContact("line")
		return a, nil

	case "Y":
		a.copySelectedContact("json")
		return a, nil

	case "c":
		a.copySelectedContact("callsign")
		return a, nil

	case "u", "o":
		a.openSelectedLookup()
		return a, nil

	case "O":
		a.noteInfo("Lookup provider: " + a.lookup.CycleProvider())
		a.panes.Controls.SetStatus(a.buildControlStatus())
		return a, nil

	case "x":
		a.openModal("export")
		return a, nil

	case "w":
		return a.toggleWatch()

	case "r":
		a.refreshFromSource("manual")
		return a, nil

	case "?":
		a.openModal("help")
		a.helpModal.SetVisible(true)
		a.state.UIState.HelpVisible = true
		return a, nil

	case "esc":
		a.closeModal()
		return a, nil
	}

	return a, nil
}

func (a *App) openModal(name string) {
	a.activeModalName = name
	a.state.UIState.ActiveModal = name
}

func (a *App) closeModal() {
	a.activeModalName = "none"
	a.state.UIState.ActiveModal = "none"
	a.helpModal.SetVisible(false)
	a.state.UIState.HelpVisible = false
}

// scrollFocused routes one scroll step to the focused pane
func (a *App) scrollFocused(delta int) {
	switch a.panes.GetFocusedPane() {
	case "source":
		if delta > 0 {
			a.panes.Source.ScrollDown()
		} else {
			a.panes.Source.ScrollUp()
		}
	case "contacts":
		if delta > 0 {
			a.panes.Contacts.ScrollDown()
		} else {
			a.panes.Contacts.ScrollUp()
		}
	}
}

func (a *App) pageFocused(delta int) {
	switch a.panes.GetFocusedPane() {
	case "source":
		if delta > 0 {
			a.panes.Source.PageDown()
		} else {
			a.panes.Source.PageUp()
		}
	case "contacts":
		if delta > 0 {
			a.panes.Contacts.PageDown()
		} else {
			a.panes.Contacts.PageUp()
		}
	}
}

func (a *App) jumpFocused(top bool) {
	switch a.panes.GetFocusedPane() {
	case "source":
		if top {
			a.panes.Source.JumpToTop()
		} else {
			a.panes.Source.JumpToBottom()
		}
	case "contacts":
		if top {
			a.panes.Contacts.JumpToTop()
		} else {
			a.panes.Contacts.JumpToBottom()
		}
	}
}

// maybeResetNewCount clears the new contact counter once the contacts
// pane gets focus, the same way unread badges clear on view.
func (a *App) maybeResetNewCount() {
	if a.panes.GetFocusedPane() != "contacts" {
		return
	}
	if a.watchManager.GetNewContactCount() == 0 {
		return
	}
	a.watchManager.ResetNewContactCount()
	a.state.WatchState.NewContactCount = 0
	a.panes.Controls.SetStatus(a.buildControlStatus())
}

// refreshFromSource reruns the read-extract-render cycle and pushes the
// result into the panes. An unreadable source keeps the last good
// mirror and stays quiet unless the user asked for the rebuild.
func (a *App) refreshFromSource(origin string) {
	before := len(a.handler.GetAllRecords())
	result := a.handler.Refresh(a.state)
	a.state.IsReady = true

	if !result.Refreshed {
		if origin == "manual" {
			a.noteError("Source unreadable; kept the last good mirror")
		}
		a.syncPanes()
		return
	}

	delta := len(result.Records) - before
	if origin == "watch" && delta > 0 {
		a.watchManager.IncrementNewContactCount(delta)
	}
	a.state.WatchState.LastRefreshTime = result.At
	a.state.WatchState.NewContactCount = a.watchManager.GetNewContactCount()
	a.syncPanes()

	switch origin {
	case "manual":
		a.noteInfo(fmt.Sprintf("Mirror rebuilt: %d contacts from %d source lines",
			len(result.Records), len(result.SourceLines)))
	case "watch":
		if delta > 0 {
			a.noteInfo(fmt.Sprintf("Source changed: +%d new contacts", delta))
		}
	}
}

// syncPanes pushes app state into the four panes, keeping scroll
// positions where they still point at something.
func (a *App) syncPanes() {
	sourceOffset := a.panes.Source.scrollOffset
	contactsOffset := a.panes.Contacts.scrollOffset

	a.panes.Source.SetLines(a.state.SourceLines)

	a.displayRecords = mirror.SortRecords(a.state.ContactListState.Records)
	rows := append([]string{mirror.HeaderLine()}, mirror.RenderLines(a.displayRecords)...)
	a.panes.Contacts.SetLines(rows)

	a.panes.Source.scrollOffset = minInt(sourceOffset, maxInt(0, len(a.state.SourceLines)-1))
	a.panes.Contacts.scrollOffset = minInt(contactsOffset, maxInt(0, len(a.displayRecords)-1))

	records := a.state.ContactListState.Records
	points := a.statsBuilder.BuildActivity(records)
	a.panes.Stats.SetSparkline(a.statsBuilder.RenderSparkline(points, maxInt(10, a.width/2-16)))

	summary := a.statsBuilder.BuildSummary(records)
	summaryLines := []string{
		fmt.Sprintf("Contacts %d  Days %d  Calls %d", summary.TotalContacts, summary.ActiveDays, summary.UniqueCallsigns),
	}
	if summary.FirstDate != "" {
		summaryLines = append(summaryLines, fmt.Sprintf("Span %s to %s", summary.FirstDate, summary.LastDate))
	}
	if len(summary.Bands) > 0 {
		summaryLines = append(summaryLines, "Bands "+a.statsBuilder.RenderDistributionBar(summary.Bands, models.Bands, 12))
	}
	if len(summary.Modes) > 0 {
		summaryLines = append(summaryLines, "Modes "+a.statsBuilder.RenderDistributionBar(summary.Modes, models.Modes, 12))
	}
	a.panes.Stats.SetSummary(summaryLines)

	a.panes.Controls.SetStatus(a.buildControlStatus())
}

func (a *App) buildControlStatus() []string {
	lines := []string{}

	if a.watchManager.IsEnabled() {
		watchText := "Watch: on"
		if n := a.watchManager.GetNewContactCount(); n > 0 {
			watchText = fmt.Sprintf("Watch: on (+%d new)", n)
		}
		lines = append(lines, watchText)
	} else {
		lines = append(lines, "Watch: off")
	}

	if desc := a.handler.DescribeFilters(a.state.FilterState); desc != "" {
		lines = append(lines, "Filter: "+desc)
	}

	lines = append(lines, "Lookup: "+a.lookup.GetProvider())
	return lines
}

// currentSelectedIndex maps the contacts pane scroll position onto the
// sorted display order
func (a *App) currentSelectedIndex() int {
	if len(a.displayRecords) == 0 {
		return 0
	}
	idx := a.panes.Contacts.scrollOffset
	if idx < 0 {
		return 0
	}
	if idx >= len(a.displayRecords) {
		return len(a.displayRecords) - 1
	}
	return idx
}

func (a *App) getSelectedContact() *models.ContactRecord {
	if len(a.displayRecords) == 0 {
		return nil
	}
	return &a.displayRecords[a.currentSelectedIndex()]
}

func (a *App) copySelectedContact(format string) {
	rec := a.getSelectedContact()
	if rec == nil {
		a.noteError("No contact selected")
		return
	}

	content, err := a.clipboard.CopyRecord(rec, format)
	if err != nil {
		a.noteError("Copy failed: " + err.Error())
		return
	}

	switch format {
	case "callsign":
		a.noteInfo("Copied callsign: " + content)
	case "json":
		a.noteInfo("Copied contact as JSON")
	default:
		a.noteInfo("Copied: " + strings.TrimSpace(content))
	}
}

func (a *App) openSelectedLookup() {
	rec := a.getSelectedContact()
	if rec == nil {
		a.noteError("No contact selected")
		return
	}

	link, err := a.lookup.LookupURL(rec.Callsign)
	if err != nil {
		a.noteError("Lookup failed: " + err.Error())
		return
	}
	if err := a.lookup.Open(rec.Callsign); err != nil {
		a.noteError("Browser open failed: " + err.Error())
		return
	}
	a.noteInfo("Opened " + link)
}

// toggleWatch starts or stops the filesystem watcher plus the periodic
// refresh tick
func (a *App) toggleWatch() (tea.Model, tea.Cmd) {
	if a.watchManager.IsEnabled() {
		_ = a.watchManager.Disable()
		if a.watcher != nil {
			a.watcher.Stop()
			a.watcher = nil
		}
		a.watchGeneration++
		a.state.WatchState.Enabled = false
		a.panes.Controls.SetStatus(a.buildControlStatus())
		a.noteInfo("Watch off")
		return a, nil
	}

	if strings.TrimSpace(a.state.SourcePath) == "" {
		a.noteError("No source file to watch")
		return a, nil
	}

	watcher, err := watch.NewWatcher(a.state.SourcePath)
	if err == nil {
		err = watcher.Start()
	}
	if err != nil {
		a.noteError("Watch failed: " + err.Error())
		return a, nil
	}

	_ = a.watchManager.Enable()
	a.watchManager.AttachWatcher(watcher)
	a.watcher = watcher
	a.watchGeneration++
	a.state.WatchState.Enabled = true
	a.state.WatchState.RefreshInterval = a.watchManager.GetInterval()
	a.panes.Controls.SetStatus(a.buildControlStatus())
	a.noteInfo("Watching " + filepath.Base(a.state.SourcePath))

	generation := a.watchGeneration
	return a, tea.Batch(
		a.waitForSourceChangeCmd(watcher, generation),
		a.watchTickCmd(generation),
	)
}

// waitForSourceChangeCmd blocks until the watcher reports a change.
// The watcher never closes its change channel, so the command also
// listens for the stop signal to avoid stranding the goroutine.
func (a *App) waitForSourceChangeCmd(watcher *watch.Watcher, generation int) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-watcher.Changed():
			return sourceChangedMsg{generation: generation}
		case <-watcher.Done():
			return nil
		}
	}
}

func (a *App) watchTickCmd(generation int) tea.Cmd {
	return tea.Tick(a.watchManager.GetInterval(), func(time.Time) tea.Msg {
		return watchTickMsg{generation: generation}
	})
}

// openSourceInEditorCmd suspends the TUI and opens the source log in
// $EDITOR. The mirror refreshes when the editor exits.
func (a *App) openSourceInEditorCmd() tea.Cmd {
	if strings.TrimSpace(a.state.SourcePath) == "" {
		return func() tea.Msg {
			return editorResultMsg{err: fmt.Errorf("no source file to edit")}
		}
	}

	editor := os.Getenv("EDITOR")
	if strings.TrimSpace(editor) == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, a.state.SourcePath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorResultMsg{err: err}
	})
}

// --- live entry modal ---

func (a *App) openLiveModal() {
	a.openModal("live")
	a.state.LiveState.Active = true
	a.liveHistoryCursor = -1
	a.liveInput.SetValue(a.state.LiveState.Draft)
	a.liveInput.CursorEnd()
	a.liveInput.Focus()
}

func (a *App) closeLiveModal() {
	a.closeModal()
	a.state.LiveState.Active = false
	a.liveInput.Blur()
}

func (a *App) handleLiveModalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeLiveModal()
		return a, nil

	case "enter":
		return a.commitLiveDraft()

	case "up":
		a.cycleLiveHistory(1)
		return a, nil

	case "down":
		a.cycleLiveHistory(-1)
		return a, nil

	case " ", "space":
		a.liveInput.SetValue(a.liveInput.Value() + " ")
		a.liveInput.CursorEnd()
		a.state.LiveState.Draft = a.liveInput.Value()
		a.liveHistoryCursor = -1
		return a, nil
	}

	// Everything else edits the input. Live entries are single lines;
	// the input's sanitizer turns pasted newlines into spaces, so a
	// paste never auto-commits.
	var cmd tea.Cmd
	a.liveInput, cmd = a.liveInput.Update(msg)
	a.state.LiveState.Draft = a.liveInput.Value()
	a.liveHistoryCursor = -1
	return a, cmd
}

func (a *App) commitLiveDraft() (tea.Model, tea.Cmd) {
	stamped, err := a.handler.CommitLive(a.state, a.state.LiveState.Draft)
	if err != nil {
		a.noteError("Live commit failed: " + err.Error())
		return a, nil
	}

	a.liveInput.Reset()
	a.liveHistoryCursor = -1
	a.syncPanes()

	if a.persistHistoryFn != nil {
		if err := a.persistHistoryFn(stamped); err != nil {
			a.noteError("History persist failed: " + err.Error())
			return a, nil
		}
	}

	a.noteInfo("Logged: " + stamped)
	return a, nil
}

// cycleLiveHistory recalls earlier entries into the draft. Cursor -1 is
// the empty draft position.
func (a *App) cycleLiveHistory(delta int) {
	history := a.handler.GetHistory()
	if len(history) == 0 {
		return
	}

	next := a.liveHistoryCursor + delta
	if next < -1 {
		next = -1
	}
	if next >= len(history) {
		next = len(history) - 1
	}
	a.liveHistoryCursor = next

	if next == -1 {
		a.state.LiveState.Draft = ""
		a.liveInput.Reset()
		return
	}
	a.state.LiveState.Draft = history[next]
	a.liveInput.SetValue(history[next])
	a.liveInput.CursorEnd()
}

// --- editor modal ---

func (a *App) openEditorModal() {
	a.openModal("editor")
	a.editModal.Show()
	a.editModal.SetInput(strings.Join(a.state.SourceLines, "\n"))
}

func (a *App) closeEditorModal() {
	if a.editModal.HasChanges() {
		a.noteInfo("Editor closed; unsaved changes discarded")
	}
	a.closeModal()
	a.editModal.Hide()
}

func (a *App) handleEditorModalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed and pasted runes first so a pasted newline becomes a line
	// break instead of triggering a key binding
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		for _, r := range msg.Runes {
			switch r {
			case '\r', '\n':
				a.editModal.HandleKey("newline")
			default:
				a.editModal.HandleKey(string(r))
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.closeEditorModal()
		return a, nil
	case "ctrl+s":
		return a.saveEditorBuffer()
	case "ctrl+t":
		a.editModal.StampCurrentLine(time.Now())
		return a, nil
	case "ctrl+a":
		a.editModal.HandleKey("select-all")
		return a, nil
	case "ctrl+e":
		a.editModal.HandleKey("line-end")
		return a, nil
	case "ctrl+left", "alt+b":
		a.editModal.HandleKey("word-left")
		return a, nil
	case "ctrl+right", "alt+f":
		a.editModal.HandleKey("word-right")
		return a, nil
	case "ctrl+w", "alt+backspace":
		a.editModal.HandleKey("delete-word-left")
		return a, nil
	case "ctrl+delete", "alt+d":
		a.editModal.HandleKey("delete-word-right")
		return a, nil
	case "ctrl+d":
		a.editModal.HandleKey("duplicate-line")
		return a, nil
	case "ctrl+k":
		a.editModal.HandleKey("delete-line")
		return a, nil
	case "tab":
		a.editModal.HandleKey("indent")
		return a, nil
	case "shift+tab", "backtab":
		a.editModal.HandleKey("unindent")
		return a, nil
	case " ", "space":
		a.editModal.HandleKey(" ")
		return a, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		a.editModal.HandleKey("newline")
	case tea.KeyBackspace:
		a.editModal.HandleKey("backspace")
	case tea.KeyDelete:
		a.editModal.HandleKey("delete")
	case tea.KeyLeft:
		a.editModal.HandleKey("left")
	case tea.KeyRight:
		a.editModal.HandleKey("right")
	case tea.KeyUp:
		a.editModal.HandleKey("up")
	case tea.KeyDown:
		a.editModal.HandleKey("down")
	case tea.KeyHome:
		a.editModal.HandleKey("line-home")
	case tea.KeyEnd:
		a.editModal.HandleKey("line-end")
	}

	return a, nil
}

func (a *App) saveEditorBuffer() (tea.Model, tea.Cmd) {
	text := a.editModal.GetInput()
	if err := a.handler.SaveEditor(a.state, text); err != nil {
		a.noteError("Save failed: " + err.Error())
		return a, nil
	}

	a.editModal.MarkSaved()
	a.syncPanes()
	a.noteInfo(fmt.Sprintf("Saved source; mirror rebuilt with %d contacts",
		len(a.state.ContactListState.Records)))
	return a, nil
}

// --- band and mode filter modal ---

// syncFilterPanelFromState loads current filter state into the panel so
// reopening the modal shows what is actually applied
func (a *App) syncFilterPanelFromState() {
	a.bandFilter.Reset()
	for _, band := range a.state.FilterState.BandMode.Bands {
		_ = a.bandFilter.SetBand(band, true)
	}
	for _, mode := range a.state.FilterState.BandMode.Modes {
		_ = a.bandFilter.SetMode(mode, true)
	}
	a.filterCursor = 0
}

func (a *App) handleFilterModalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bands := a.bandFilter.GetBands()
	modes := a.bandFilter.GetModes()
	total := len(bands) + len(modes)

	switch msg.String() {
	case "esc":
		a.closeModal()
		return a, nil

	case "enter":
		a.bandFilter.ApplyToFilterState(&a.state.FilterState)
		a.handler.ReapplyFilters(a.state)
		a.syncPanes()
		a.closeModal()
		a.noteInfo(a.describeFilterOutcome())
		return a, nil

	case "j", "down":
		if a.filterCursor < total-1 {
			a.filterCursor++
		}
		return a, nil

	case "k", "up":
		if a.filterCursor > 0 {
			a.filterCursor--
		}
		return a, nil

	case "space", " ":
		if a.filterCursor < len(bands) {
			_ = a.bandFilter.ToggleBand(bands[a.filterCursor])
		} else if idx := a.filterCursor - len(bands); idx < len(modes) {
			_ = a.bandFilter.ToggleMode(modes[idx])
		}
		return a, nil

	case "a":
		a.bandFilter.SelectAllBands()
		a.bandFilter.SelectAllModes()
		return a, nil

	case "d":
		a.bandFilter.DeselectAllBands()
		a.bandFilter.DeselectAllModes()
		return a, nil

	case "1", "2", "3", "4":
		presets := a.bandFilter.GetFilterPresets()
		idx := int(msg.String()[0] - '1')
		if idx < len(presets) {
			if err := a.bandFilter.ApplyPreset(presets[idx]); err != nil {
				a.noteError("Preset failed: " + err.Error())
			}
		}
		return a, nil

	case "s":
		a.saveCurrentFilterToLibrary()
		return a, nil

	case "v":
		a.openFilterLibraryModal("filter")
		return a, nil
	}

	return a, nil
}

func (a *App) describeFilterOutcome() string {
	desc := a.handler.DescribeFilters(a.state.FilterState)
	if desc == "" {
		return fmt.Sprintf("No filters: %d contacts", len(a.state.ContactListState.Records))
	}
	return fmt.Sprintf("Filter %s: %d contacts", desc, len(a.state.ContactListState.Records))
}

func (a *App) clearAllFilters() {
	a.bandFilter.Reset()
	a.datePicker.Reset()
	a.state.FilterState = models.FilterState{}
	a.handler.ReapplyFilters(a.state)
	a.syncPanes()
	a.noteInfo(fmt.Sprintf("Filters cleared: %d contacts", len(a.state.ContactListState.Records)))
}

// --- search ---

// handleSearchInput edits the source-line search term while search mode
// is active. The contact table narrows on every keystroke.
func (a *App) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
		a.state.FilterState.SearchTerm += string(msg.Runes)
		a.applySearchTerm()
		return a, nil
	}

	switch msg.String() {
	case " ", "space":
		a.state.FilterState.SearchTerm += " "
		a.applySearchTerm()

	case "backspace":
		if term := a.state.FilterState.SearchTerm; len(term) > 0 {
			a.state.FilterState.SearchTerm = term[:len(term)-1]
			a.applySearchTerm()
		}

	case "ctrl+u":
		a.state.FilterState.SearchTerm = ""
		a.applySearchTerm()

	case "enter":
		a.state.UIState.SearchMode = false
		if term := a.state.FilterState.SearchTerm; term != "" {
			a.noteInfo(fmt.Sprintf("Search %q: %d contacts", term, len(a.state.ContactListState.Records)))
		}

	case "esc":
		a.state.UIState.SearchMode = false
		a.state.FilterState.SearchTerm = ""
		a.applySearchTerm()
	}

	return a, nil
}

func (a *App) applySearchTerm() {
	a.handler.ReapplyFilters(a.state)
	a.syncPanes()
}

// saveCurrentFilterToLibrary snapshots the panel selection plus the
// active date range into the saved filter library
func (a *App) saveCurrentFilterToLibrary() {
	record := config.SavedFilterRecord{
		Name:      deriveFilterName(a.bandFilter.GetSelectedBands(), a.bandFilter.GetSelectedModes(), a.state.FilterState.DateRange),
		Bands:     a.bandFilter.GetSelectedBands(),
		Modes:     a.bandFilter.GetSelectedModes(),
		DateStart: a.state.FilterState.DateRange.Start,
		DateEnd:   a.state.FilterState.DateRange.End,
		Callsign:  a.state.FilterState.Callsign,
		UpdatedAt: time.Now(),
		UseCount:  1,
	}
	if record.Name == "" {
		a.noteError("Nothing selected to save")
		return
	}

	library := config.FilterLibrary{Filters: a.filterLibrary}
	library = config.UpsertSavedFilter(library, record, 50)
	a.filterLibrary = library.Filters

	if a.persistLibraryFn != nil {
		if err := a.persistLibraryFn(a.filterLibrary); err != nil {
			a.noteError("Filter library persist failed: " + err.Error())
			return
		}
	}
	a.noteInfo("Saved filter: " + record.Name)
}

// deriveFilterName builds a library name from the selection
func deriveFilterName(bands, modes []string, dateRange models.DateRange) string {
	parts := []string{}
	if len(bands) > 0 {
		parts = append(parts, strings.Join(bands, "+"))
	}
	if len(modes) > 0 {
		parts = append(parts, strings.Join(modes, "+"))
	}
	if dateRange.Start != "" || dateRange.End != "" {
		span := dateRange.Start + ".." + dateRange.End
		parts = append(parts, strings.Trim(span, "."))
	}

	name := strings.Join(parts, " ")
	if len(name) > 42 {
		name = name[:42] + "..."
	}
	return name
}

// --- saved filter library popup ---

func (a *App) openFilterLibraryModal(previous string) {
	a.previousModalName = previous
	a.activeModalName = "filterLibrary"
	a.state.UIState.ActiveModal = "filterLibrary"
	a.filterLibraryCursor = 0
}

func (a *App) handleFilterLibraryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.activeModalName = a.previousModalName
		a.state.UIState.ActiveModal = a.previousModalName

	case "j", "down":
		if a.filterLibraryCursor < len(a.filterLibrary)-1 {
			a.filterLibraryCursor++
		}

	case "k", "up":
		if a.filterLibraryCursor > 0 {
			a.filterLibraryCursor--
		}

	case "enter":
		a.applyFilterLibraryEntry()
	}

	return a, nil
}

func (a *App) applyFilterLibraryEntry() {
	if len(a.filterLibrary) == 0 || a.filterLibraryCursor >= len(a.filterLibrary) {
		a.activeModalName = a.previousModalName
		a.state.UIState.ActiveModal = a.previousModalName
		return
	}

	selected := a.filterLibrary[a.filterLibraryCursor]

	a.bandFilter.Reset()
	for _, band := range selected.Bands {
		_ = a.bandFilter.SetBand(band, true)
	}
	for _, mode := range selected.Modes {
		_ = a.bandFilter.SetMode(mode, true)
	}
	a.bandFilter.ApplyToFilterState(&a.state.FilterState)

	a.state.FilterState.DateRange = models.DateRange{
		Start: selected.DateStart,
		End:   selected.DateEnd,
	}
	if selected.DateStart != "" || selected.DateEnd != "" {
		a.state.FilterState.DateRange.Preset = "custom"
	}
	a.state.FilterState.Callsign = selected.Callsign

	a.handler.ReapplyFilters(a.state)
	a.syncPanes()
	a.closeModal()
	a.noteInfo("Applied filter: " + selected.Name)
}

// --- date range modal ---

func (a *App) handleDatePickerInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.datePicker.IsCustomSelected() {
		return a.handleCustomDateInput(msg)
	}

	switch msg.String() {
	case "esc":
		a.closeModal()
		a.datePicker.SetError("")
		return a, nil

	case "j", "down":
		a.datePicker.MoveSelection(1)
		return a, nil

	case "k", "up":
		a.datePicker.MoveSelection(-1)
		return a, nil

	case "enter":
		return a.applyDateSelection()
	}

	return a, nil
}

func (a *App) handleCustomDateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.datePicker.EnsureCustomDefaults()

	switch msg.String() {
	case "esc":
		a.closeModal()
		a.datePicker.SetError("")
		return a, nil

	case "tab", "h", "l", "left", "right":
		a.datePicker.ToggleCustomField()
		return a, nil

	case "j":
		a.datePicker.ShiftCustomFocused(-1)
		return a, nil

	case "k":
		a.datePicker.ShiftCustomFocused(1)
		return a, nil

	case "J":
		a.datePicker.ShiftCustomFocused(-7)
		return a, nil

	case "K":
		a.datePicker.ShiftCustomFocused(7)
		return a, nil

	case "backspace":
		a.datePicker.BackspaceFocusedInput()
		return a, nil

	case "ctrl+u":
		a.datePicker.ClearFocusedInput()
		return a, nil

	case "enter":
		if err := a.datePicker.ApplyCustomInputs(); err != nil {
			a.datePicker.SetError(err.Error())
			return a, nil
		}
		return a.applyDateSelection()
	}

	// Only date digits reach the input fields
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if strings.ContainsRune("0123456789", r) {
				a.datePicker.AppendToFocusedInput(string(r))
			}
		}
	}

	return a, nil
}

func (a *App) applyDateSelection() (tea.Model, tea.Cmd) {
	if err := a.datePicker.ApplyToFilterState(&a.state.FilterState); err != nil {
		a.datePicker.SetError(err.Error())
		return a, nil
	}

	a.handler.ReapplyFilters(a.state)
	a.syncPanes()
	a.closeModal()
	a.noteInfo(a.describeFilterOutcome())
	return a, nil
}

// --- export modal ---

func (a *App) handleExportInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		a.closeModal()
		return a, nil
	}

	records := mirror.SortRecords(a.state.ContactListState.Records)
	if len(records) == 0 {
		a.noteError("No contacts to export")
		a.closeModal()
		return a, nil
	}

	var err error
	var path string

	switch msg.String() {
	case "1":
		path = a.exporter.GetDefaultFileName("csv")
		err = a.exporter.ExportToCSV(records, path)
	case "2":
		path = a.exporter.GetDefaultFileName("json")
		err = a.exporter.ExportToJSON(records, path, true)
	case "3":
		path = a.exporter.GetDefaultFileName("jsonl")
		err = a.exporter.ExportToJSONL(records, path)
	case "4":
		path = a.exporter.GetDefaultFileName("text")
		err = a.exporter.ExportToText(records, path)
	case "5":
		path = a.exporter.GetDefaultFileName("adif")
		err = a.exporter.ExportToADIF(records, path)
	default:
		return a, nil
	}

	if err != nil {
		a.noteError("Export failed: " + err.Error())
	} else {
		a.noteInfo(fmt.Sprintf("Exported %d contacts to %s", len(records), path))
	}
	a.closeModal()
	return a, nil
}

// --- detail popup ---

func (a *App) resetDetailPopupState() {
	a.detailScroll = 0
	a.detailCursor = 0
	a.detailViewMode = "tree"
	a.detailTreeExpanded = map[string]bool{"$": true}
}

func (a *App) handleDetailPopupInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeModal()
		a.detailScroll = 0
		a.detailCursor = 0
		return a, nil

	case "j", "down":
		a.moveDetailPopupDown()
		return a, nil

	case "k", "up":
		a.moveDetailPopupUp()
		return a, nil

	case "h", "left":
		a.collapseDetailTreeNode()
		return a, nil

	case "l", "right", "enter":
		a.expandDetailTreeNode()
		return a, nil

	case "z":
		a.collapseAllDetailTreeNodes()
		return a, nil

	case "Z":
		a.expandAllDetailTreeNodes()
		return a, nil

	case "tab", "v":
		a.cycleDetailViewMode()
		return a, nil

	case "y":
		a.copySelectedDetailNode()
		return a, nil

	case "Y":
		a.copySelectedContact("json")
		return a, nil

	case "c":
		a.copySelectedContact("callsign")
		return a, nil

	case "o":
		a.openSelectedLookup()
		return a, nil

	case "O":
		a.noteInfo("Lookup provider: " + a.lookup.CycleProvider())
		return a, nil
	}

	return a, nil
}

func (a *App) currentDetailTreeLines() []detailTreeLine {
	rec := a.getSelectedContact()
	if rec == nil {
		return nil
	}
	return buildDetailTreeLines(contactDetailRoot(*rec), a.detailTreeExpanded)
}

// detailPopupLines returns the popup body plus the highlighted index,
// or -1 when no line is highlighted
func (a *App) detailPopupLines(rec models.ContactRecord) ([]string, int) {
	if a.detailViewMode == "tree" {
		treeLines := a.currentDetailTreeLines()
		if len(treeLines) == 0 {
			return []string{"No detail available"}, -1
		}

		if a.detailCursor < 0 {
			a.detailCursor = 0
		}
		if a.detailCursor >= len(treeLines) {
			a.detailCursor = len(treeLines) - 1
		}

		out := make([]string, 0, len(treeLines))
		for _, line := range treeLines {
			out = append(out, line.text)
		}
		return out, a.detailCursor
	}

	raw := a.formatter.FormatContactDetails(rec)
	if trace := a.formatter.FormatMatchTrace(rec.SourceLine); trace != "" {
		raw += "\n" + trace
	}
	return wrapTextByWidth(strings.Split(raw, "\n"), maxInt(30, a.width-8)), -1
}

func (a *App) moveDetailPopupDown() {
	if a.detailViewMode == "tree" {
		lines := a.currentDetailTreeLines()
		if a.detailCursor < len(lines)-1 {
			a.detailCursor++
		}
		a.ensureDetailCursorVisible()
		return
	}

	rec := a.getSelectedContact()
	if rec == nil {
		return
	}
	lines, _ := a.detailPopupLines(*rec)
	if a.detailScroll < len(lines)-1 {
		a.detailScroll++
	}
}

func (a *App) moveDetailPopupUp() {
	if a.detailViewMode == "tree" {
		if a.detailCursor > 0 {
			a.detailCursor--
		}
		a.ensureDetailCursorVisible()
		return
	}

	if a.detailScroll > 0 {
		a.detailScroll--
	}
}

func (a *App) ensureDetailCursorVisible() {
	visibleHeight := maxInt(8, a.height-8)
	if a.detailCursor < a.detailScroll {
		a.detailScroll = a.detailCursor
	}
	if a.detailCursor >= a.detailScroll+visibleHeight {
		a.detailScroll = a.detailCursor - visibleHeight + 1
	}
}

func (a *App) expandDetailTreeNode() {
	if a.detailViewMode != "tree" {
		return
	}
	lines := a.currentDetailTreeLines()
	if len(lines) == 0 || a.detailCursor >= len(lines) {
		return
	}

	line := lines[a.detailCursor]
	if line.canExpand && !line.expanded {
		a.detailTreeExpanded[line.path] = true
	}
}

// collapseDetailTreeNode collapses the selected node, or jumps to and
// collapses its parent when the node is a leaf
func (a *App) collapseDetailTreeNode() {
	if a.detailViewMode != "tree" {
		return
	}
	lines := a.currentDetailTreeLines()
	if len(lines) == 0 || a.detailCursor >= len(lines) {
		return
	}

	line := lines[a.detailCursor]
	if line.canExpand && line.expanded && line.path != "$" {
		delete(a.detailTreeExpanded, line.path)
		return
	}

	parent := parentTreePath(line.path)
	if parent == "" || parent == "$" {
		return
	}
	delete(a.detailTreeExpanded, parent)
	a.moveDetailCursorToPath(parent)
}

func (a *App) collapseAllDetailTreeNodes() {
	if a.detailViewMode != "tree" {
		return
	}
	a.detailTreeExpanded = map[string]bool{"$": true}
	a.detailCursor = 0
	a.detailScroll = 0
}

func (a *App) expandAllDetailTreeNodes() {
	if a.detailViewMode != "tree" {
		return
	}
	rec := a.getSelectedContact()
	if rec == nil {
		return
	}
	expandAllTreePaths(contactDetailRoot(*rec), "$", a.detailTreeExpanded)
}

func expandAllTreePaths(value interface{}, path string, expanded map[string]bool) {
	if node, ok := toMap(value); ok {
		if len(node) > 0 {
			expanded[path] = true
		}
		for key, child := range node {
			expandAllTreePaths(child, path+"."+key, expanded)
		}
		return
	}
	if items, ok := toSlice(value); ok {
		if len(items) > 0 {
			expanded[path] = true
		}
		for i, child := range items {
			expandAllTreePaths(child, fmt.Sprintf("%s[%d]", path, i), expanded)
		}
	}
}

func (a *App) moveDetailCursorToPath(path string) {
	for i, line := range a.currentDetailTreeLines() {
		if line.path == path {
			a.detailCursor = i
			a.ensureDetailCursorVisible()
			return
		}
	}
}

func (a *App) cycleDetailViewMode() {
	if a.detailViewMode == "tree" {
		a.detailViewMode = "full"
	} else {
		a.detailViewMode = "tree"
	}
	a.detailScroll = 0
	a.detailCursor = 0
}

func (a *App) copySelectedDetailNode() {
	rec := a.getSelectedContact()
	if rec == nil {
		a.noteError("No contact selected")
		return
	}

	if a.detailViewMode != "tree" {
		a.copySelectedContact("line")
		return
	}

	lines := a.currentDetailTreeLines()
	if len(lines) == 0 || a.detailCursor < 0 || a.detailCursor >= len(lines) {
		a.noteError("No detail node selected")
		return
	}

	if err := a.clipboard.CopyText(formatValueForCopy(lines[a.detailCursor].value)); err != nil {
		a.noteError("Copy failed: " + err.Error())
		return
	}
	a.noteInfo("Copied node " + lines[a.detailCursor].path)
}

func (a *App) selectedDetailNodeInfo() (string, string) {
	if a.detailViewMode != "tree" {
		return "", ""
	}
	lines := a.currentDetailTreeLines()
	if len(lines) == 0 || a.detailCursor < 0 || a.detailCursor >= len(lines) {
		return "", ""
	}
	line := lines[a.detailCursor]
	return line.path, valueTypeLabel(line.value)
}

// --- notices ---

func (a *App) noteInfo(text string) {
	a.lastErr = text
	a.notices.AddInfo(text, 10*time.Second)
	a.pushMessageQueue(text)
}

func (a *App) noteError(text string) {
	a.lastErr = text
	a.notices.AddError(text, 30*time.Second)
	a.pushMessageQueue(text)
}

func (a *App) pushMessageQueue(text string) {
	queue := append(a.state.UIState.MessageQueue, text)
	if len(queue) > 10 {
		queue = queue[len(queue)-10:]
	}
	a.state.UIState.MessageQueue = queue
}

// --- rendering ---

func (a *App) renderTopBar() string {
	leftStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("27")).
		Padding(0, 1)
	rightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("31")).
		Padding(0, 1)

	source := "no log loaded"
	if strings.TrimSpace(a.state.SourcePath) != "" {
		source = filepath.Base(a.state.SourcePath)
	}

	mode := "ready"
	switch a.activeModalName {
	case "editor":
		mode = "editing"
	case "live":
		mode = "live entry"
	}
	if a.state.ContactListState.IsLoading {
		mode = "loading"
	}

	station := a.station
	if station == "" {
		station = "unset"
	}

	watchText := "off"
	if a.watchManager.IsEnabled() {
		watchText = "on"
	}

	keys := "std"
	if a.vimMode {
		keys = "vim"
	}

	left := leftStyle.Render("QLE Log Viewer")
	right := rightStyle.Render(fmt.Sprintf("station:%s  source:%s  mode:%s  watch:%s  keys:%s",
		station, source, mode, watchText, keys))

	fill := maxInt(0, a.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", fill) + right + "\n"
}

func (a *App) renderStatusPanel() string {
	var sb strings.Builder
	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")

	shown := len(a.state.ContactListState.Records)
	total := len(a.handler.GetAllRecords())

	filterText := a.handler.DescribeFilters(a.state.FilterState)
	if filterText == "" {
		filterText = "none"
	}

	watchText := "off"
	if a.watchManager.IsEnabled() {
		watchText = "on"
		if n := a.watchManager.GetNewContactCount(); n > 0 {
			watchText = fmt.Sprintf("on +%d", n)
		}
	}

	refreshText := "never"
	if !a.state.WatchState.LastRefreshTime.IsZero() {
		refreshText = a.state.WatchState.LastRefreshTime.Format("15:04:05")
	}

	sb.WriteString(fmt.Sprintf("┃ %d/%d contacts  filter:%s  watch:%s  refreshed:%s  ? help\n",
		shown, total, filterText, watchText, refreshText))

	if a.state.UIState.SearchMode {
		sb.WriteString("┃ /" + a.state.FilterState.SearchTerm + "█\n")
	}

	if a.lastErr != "" {
		color := "114"
		if a.notices.HasErrors() {
			color = "203"
		}
		text := a.lastErr
		if len(text) > a.width-4 {
			text = text[:maxInt(0, a.width-7)] + "..."
		}
		sb.WriteString("┃ " + lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text) + "\n")
	}

	return sb.String()
}

func (a *App) renderLiveModal() string {
	var sb strings.Builder
	sb.WriteString("┏━━ LIVE ENTRY " + strings.Repeat("━", maxInt(0, a.width-16)) + "\n")

	stamp := time.Now().UTC().Format(mirror.LiveTimeFormat)
	stampStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	a.liveInput.Width = maxInt(20, a.width-len(stamp)-8)
	sb.WriteString("┃ " + stampStyle.Render(stamp) + " " + a.liveInput.View() + "\n")

	history := a.handler.GetHistory()
	if len(history) > 0 {
		sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
		sb.WriteString("┃ Recent entries:\n")
		for i := 0; i < minInt(4, len(history)); i++ {
			entry := history[i]
			if len(entry) > a.width-10 {
				entry = entry[:a.width-13] + "..."
			}
			marker := "  "
			if i == a.liveHistoryCursor {
				marker = "▶ "
			}
			sb.WriteString(fmt.Sprintf("┃ %s%s\n", marker, entry))
		}
	}

	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	sb.WriteString("┃ The UTC stamp shown is added when the entry commits\n")
	sb.WriteString("┃ Enter: commit | Up/Down: history | Ctrl+U: clear | Esc: close\n")
	return sb.String()
}

func (a *App) renderFilterModal() string {
	bands := a.bandFilter.GetBands()
	modes := a.bandFilter.GetModes()
	cursorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("24"))

	var sb strings.Builder
	sb.WriteString("┏━━ BAND / MODE FILTER " + strings.Repeat("━", maxInt(0, a.width-24)) + "\n")
	sb.WriteString("┃ An empty selection leaves that axis unrestricted\n")
	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")

	sb.WriteString("┃ Bands:\n")
	for i, band := range bands {
		checkbox := "☐"
		if a.bandFilter.IsBandSelected(band) {
			checkbox = "☑"
		}
		row := fmt.Sprintf("  %s %s", checkbox, band)
		if i == a.filterCursor {
			row = cursorStyle.Render("▶ " + checkbox + " " + band)
		}
		sb.WriteString("┃ " + row + "\n")
	}

	sb.WriteString("┃ Modes:\n")
	for i, mode := range modes {
		checkbox := "☐"
		if a.bandFilter.IsModeSelected(mode) {
			checkbox = "☑"
		}
		row := fmt.Sprintf("  %s %s", checkbox, mode)
		if len(bands)+i == a.filterCursor {
			row = cursorStyle.Render("▶ " + checkbox + " " + mode)
		}
		sb.WriteString("┃ " + row + "\n")
	}

	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	sb.WriteString("┃ Presets:")
	for i, preset := range a.bandFilter.GetFilterPresets() {
		sb.WriteString(fmt.Sprintf("  %d) %s", i+1, preset.Name))
	}
	sb.WriteString("\n")
	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	sb.WriteString("┃ j/k: move | Space: toggle | a: all | d: none | 1-4: preset | s: save | v: library | Enter: apply | Esc: cancel\n")
	return sb.String()
}

func (a *App) renderDatePickerModal() string {
	presets := a.datePicker.GetPresets()
	selectedIdx := a.datePicker.GetSelectedIdx()

	var sb strings.Builder
	sb.WriteString("┏━━ DATE RANGE " + strings.Repeat("━", maxInt(0, a.width-16)) + "\n")

	for i, preset := range presets {
		prefix := "  "
		if i == selectedIdx {
			prefix = "▶ "
		}
		label := preset.Name
		if preset.Start != "" {
			label = fmt.Sprintf("%-14s from %s", preset.Name, preset.Start)
		}
		sb.WriteString(fmt.Sprintf("┃ %s%s\n", prefix, label))
	}

	if a.datePicker.IsCustomSelected() {
		a.datePicker.EnsureCustomDefaults()
		startInput, endInput := a.datePicker.GetCustomInputs()
		startPrefix, endPrefix := " ", " "
		if a.datePicker.GetCustomField() == 0 {
			startPrefix = "▶"
		} else {
			endPrefix = "▶"
		}
		sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
		sb.WriteString("┃ Custom range, YYYYMMDD, a blank side stays open:\n")
		sb.WriteString(fmt.Sprintf("┃ %s Start: %s\n", startPrefix, startInput))
		sb.WriteString(fmt.Sprintf("┃ %s End:   %s\n", endPrefix, endInput))
	}

	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	if a.datePicker.IsCustomSelected() {
		sb.WriteString("┃ Type date digits | Tab: switch field | j/k: -/+1 day | J/K: -/+7 days | Ctrl+U: clear | Enter: apply | Esc: cancel\n")
	} else {
		sb.WriteString("┃ j/k: navigate | Enter: select | Esc: cancel\n")
	}

	if errText := a.datePicker.GetError(); errText != "" {
		if len(errText) > a.width-12 {
			errText = errText[:a.width-15] + "..."
		}
		sb.WriteString("┃ Error: " + errText + "\n")
	}

	return sb.String()
}

func (a *App) renderExportModal() string {
	records := mirror.SortRecords(a.state.ContactListState.Records)

	var sb strings.Builder
	sb.WriteString("┏━━ EXPORT CONTACTS " + strings.Repeat("━", maxInt(0, a.width-21)) + "\n")
	sb.WriteString(fmt.Sprintf("┃ %d contacts in the current view\n", len(records)))
	sb.WriteString("┃ Choose a format:\n")
	sb.WriteString(fmt.Sprintf("┃   1) CSV    ~%d bytes\n", a.exporter.EstimateSize(records, "csv")))
	sb.WriteString(fmt.Sprintf("┃   2) JSON   ~%d bytes\n", a.exporter.EstimateSize(records, "json")))
	sb.WriteString(fmt.Sprintf("┃   3) JSONL  ~%d bytes\n", a.exporter.EstimateSize(records, "jsonl")))
	sb.WriteString(fmt.Sprintf("┃   4) Text   ~%d bytes\n", a.exporter.EstimateSize(records, "text")))
	sb.WriteString(fmt.Sprintf("┃   5) ADIF   ~%d bytes\n", a.exporter.EstimateSize(records, "adif")))
	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	sb.WriteString("┃ Files land in the working directory as contacts_<timestamp>.<ext>\n")
	sb.WriteString("┃ Press 1-5 to export, Esc to cancel\n")
	return sb.String()
}

func (a *App) renderDetailPopup() string {
	rec := a.getSelectedContact()
	if rec == nil {
		return ""
	}

	lines, selectedIndex := a.detailPopupLines(*rec)
	visibleHeight := maxInt(8, a.height-8)

	start := a.detailScroll
	if start < 0 {
		start = 0
	}
	if start > len(lines)-1 {
		start = maxInt(0, len(lines)-1)
	}
	end := minInt(len(lines), start+visibleHeight)

	var sb strings.Builder
	sb.WriteString("┏━━ CONTACT DETAIL " + strings.Repeat("━", maxInt(0, a.width-20)) + "\n")
	sb.WriteString(fmt.Sprintf("┃ Contact %d/%d  %s  View:%s  Line %d/%d\n",
		a.currentSelectedIndex()+1, len(a.displayRecords), rec.Callsign, a.detailViewMode, start+1, maxInt(1, len(lines))))
	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("24"))

	for i := start; i < end; i++ {
		line := lines[i]
		if len(line) > a.width-6 {
			line = line[:a.width-9] + "..."
		}
		if i == selectedIndex {
			sb.WriteString("┃ " + selectedStyle.Render("▸ "+line) + "\n")
		} else {
			sb.WriteString("┃   " + line + "\n")
		}
	}
	for i := end - start; i < visibleHeight; i++ {
		sb.WriteString("┃ \n")
	}

	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, a.width-1)) + "\n")
	if path, typeLabel := a.selectedDetailNodeInfo(); path != "" {
		meta := fmt.Sprintf("selected:%s (%s)", path, typeLabel)
		if len(meta) > a.width-4 {
			meta = meta[:a.width-7] + "..."
		}
		sb.WriteString("┃ " + meta + "\n")
	}
	sb.WriteString("┃ j/k: move | h/l: collapse/expand | z/Z: fold all | v: view mode | y: copy node | Y: copy JSON | c: copy call\n")
	sb.WriteString("┃ o: open lookup | O: cycle provider | Esc: close\n")
	return sb.String()
}

func (a *App) renderFilterLibraryPopup() string {
	popupWidth := minInt(maxInt(44, a.width-20), 100)

	var sb strings.Builder
	title := "━━ SAVED FILTERS "
	sb.WriteString("┏" + title + strings.Repeat("━", maxInt(0, popupWidth-len([]rune(title))-1)) + "\n")

	if len(a.filterLibrary) == 0 {
		sb.WriteString("┃ No saved filters yet\n")
		sb.WriteString("┣" + strings.Repeat("━", maxInt(0, popupWidth-1)) + "\n")
		sb.WriteString("┃ Press s in the filter modal to save one | Esc: back\n")
		return sb.String()
	}

	maxVisible := maxInt(6, a.height-14)
	start := 0
	if a.filterLibraryCursor >= maxVisible {
		start = a.filterLibraryCursor - maxVisible + 1
	}
	end := minInt(len(a.filterLibrary), start+maxVisible)

	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	for i := start; i < end; i++ {
		saved := a.filterLibrary[i]
		line := fmt.Sprintf("  %s  (used %d)", saved.Name, saved.UseCount)
		if i == a.filterLibraryCursor {
			line = cursorStyle.Render("▶ " + saved.Name + fmt.Sprintf("  (used %d)", saved.UseCount))
		}
		if len(line) > popupWidth-4 {
			line = line[:popupWidth-7] + "..."
		}
		sb.WriteString("┃ " + line + "\n")
	}

	sb.WriteString("┣" + strings.Repeat("━", maxInt(0, popupWidth-1)) + "\n")
	sb.WriteString(fmt.Sprintf("┃ %d-%d of %d | j/k: move | Enter: apply | Esc: back\n", start+1, end, len(a.filterLibrary)))
	return sb.String()
}

// renderCenteredPopup overlays a popup on the base view, centered both
// ways
func (a *App) renderCenteredPopup(base, popup string) string {
	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(strings.TrimRight(popup, "\n"), "\n")

	for len(baseLines) < a.height {
		baseLines = append(baseLines, "")
	}

	startRow := maxInt(1, (a.height-len(popupLines))/2)
	for i, line := range popupLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		leftPad := maxInt(0, (a.width-len([]rune(line)))/2)
		baseLines[row] = strings.Repeat(" ", leftPad) + line
	}

	return strings.Join(baseLines, "\n")
}

// --- helpers ---

func parentTreePath(path string) string {
	if path == "" || path == "$" {
		return ""
	}
	if strings.HasSuffix(path, "]") {
		if idx := strings.LastIndex(path, "["); idx >= 0 {
			return path[:idx]
		}
	}
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[:idx]
	}
	return "$"
}

// wrapTextByWidth hard-wraps lines at the given width, preserving blank
// lines
func wrapTextByWidth(lines []string, width int) []string {
	if width < 8 {
		width = 8
	}

	wrapped := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			wrapped = append(wrapped, "")
			continue
		}
		for len(line) > width {
			wrapped = append(wrapped, line[:width])
			line = line[width:]
		}
		wrapped = append(wrapped, line)
	}
	return wrapped
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
