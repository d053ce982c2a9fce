package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panes manages all UI panes
type Panes struct {
	Source   *SourcePane
	Contacts *ContactsPane
	Stats    *StatsPane
	Controls *ControlsPane
	focused  int // 0=source, 1=contacts, 2=stats, 3=controls
}

// NewPanes creates all panes
func NewPanes() *Panes {
	return &Panes{
		Source:   NewSourcePane(),
		Contacts: NewContactsPane(),
		Stats:    NewStatsPane(),
		Controls: NewControlsPane(),
		focused:  0,
	}
}

// FocusPrevious moves focus to previous pane
func (p *Panes) FocusPrevious() {
	p.focused = (p.focused - 1) % 4
	if p.focused < 0 {
		p.focused = 3
	}
}

// FocusNext moves focus to next pane
func (p *Panes) FocusNext() {
	p.focused = (p.focused + 1) % 4
}

// SetFocus sets focus to a specific pane by name
func (p *Panes) SetFocus(paneName string) {
	switch paneName {
	case "source":
		p.focused = 0
	case "contacts":
		p.focused = 1
	case "stats":
		p.focused = 2
	case "controls":
		p.focused = 3
	}
}

// GetFocusedPane returns the currently focused pane
func (p *Panes) GetFocusedPane() string {
	switch p.focused {
	case 0:
		return "source"
	case 1:
		return "contacts"
	case 2:
		return "stats"
	case 3:
		return "controls"
	default:
		return "source"
	}
}

// SourcePane shows the raw log lines as written
type SourcePane struct {
	scrollOffset int
	selectedIdx  int
	focused      bool
	lines        []string
}

// NewSourcePane creates a new source pane
func NewSourcePane() *SourcePane {
	return &SourcePane{
		scrollOffset: 0,
		selectedIdx:  0,
		focused:      true,
		lines:        []string{},
	}
}

// ScrollUp moves up in the source
func (sp *SourcePane) ScrollUp() {
	if sp.scrollOffset > 0 {
		sp.scrollOffset--
	}
}

// ScrollDown moves down in the source
func (sp *SourcePane) ScrollDown() {
	sp.scrollOffset++
}

// PageUp pages up in the source
func (sp *SourcePane) PageUp() {
	sp.scrollOffset -= 10
	if sp.scrollOffset < 0 {
		sp.scrollOffset = 0
	}
}

// PageDown pages down in the source
func (sp *SourcePane) PageDown() {
	sp.scrollOffset += 10
}

// JumpToTop jumps to the top
func (sp *SourcePane) JumpToTop() {
	sp.scrollOffset = 0
}

// JumpToBottom jumps to the bottom
func (sp *SourcePane) JumpToBottom() {
	// Will be clamped against the actual line count on render
	sp.scrollOffset = 999999
}

// SetLines updates the source lines to display
func (sp *SourcePane) SetLines(lines []string) {
	sp.lines = lines
	sp.scrollOffset = 0
	sp.selectedIdx = 0
}

// Render renders the source pane
func (sp *SourcePane) Render(width, height int) string {
	header := CreateHeader(fmt.Sprintf(" Source (%d) ", len(sp.lines)), width, sp.focused)

	var content string
	if len(sp.lines) == 0 {
		content = "No log loaded yet\n"
		for i := 1; i < height; i++ {
			content += "\n"
		}
	} else {
		// Show visible lines with scrolling
		visible := []string{}
		start := sp.scrollOffset
		end := sp.scrollOffset + height - 2

		if start >= len(sp.lines) {
			start = len(sp.lines) - 1
		}
		if start < 0 {
			start = 0
		}
		if end > len(sp.lines) {
			end = len(sp.lines)
		}

		for i := start; i < end; i++ {
			line := sp.lines[i]
			// Truncate line to fit width
			if len(line) > width-3 {
				line = line[:width-6] + "..."
			}
			visible = append(visible, line)
		}

		// Pad to height
		for len(visible) < height-1 {
			visible = append(visible, "")
		}

		content = strings.Join(visible, "\n") + "\n"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Width(width - 1).
		Height(height - 1)

	if sp.focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}

	return header + "\n" + style.Render(content)
}

// ContactsPane shows the rendered contacts table. The pane only ever
// displays what the sync controller wrote; nothing edits it here.
type ContactsPane struct {
	scrollOffset int
	focused      bool
	lines        []string
}

// NewContactsPane creates a new contacts pane
func NewContactsPane() *ContactsPane {
	return &ContactsPane{
		scrollOffset: 0,
		focused:      false,
		lines:        []string{},
	}
}

// ScrollUp moves up in the table
func (mp *ContactsPane) ScrollUp() {
	if mp.scrollOffset > 0 {
		mp.scrollOffset--
	}
}

// ScrollDown moves down in the table
func (mp *ContactsPane) ScrollDown() {
	if mp.scrollOffset < len(mp.lines)-2 {
		mp.scrollOffset++
	}
}

// PageUp moves up one page in the table
func (mp *ContactsPane) PageUp() {
	mp.scrollOffset -= 10
	if mp.scrollOffset < 0 {
		mp.scrollOffset = 0
	}
}

// PageDown moves down one page in the table
func (mp *ContactsPane) PageDown() {
	mp.scrollOffset += 10
	if mp.scrollOffset > len(mp.lines)-2 {
		mp.scrollOffset = maxInt(0, len(mp.lines)-2)
	}
}

// JumpToTop jumps to the top
func (mp *ContactsPane) JumpToTop() {
	mp.scrollOffset = 0
}

// JumpToBottom jumps to the last table row
func (mp *ContactsPane) JumpToBottom() {
	mp.scrollOffset = maxInt(0, len(mp.lines)-2)
}

// SetLines updates the table lines to display, header first
func (mp *ContactsPane) SetLines(lines []string) {
	mp.lines = lines
	mp.scrollOffset = 0
}

// ContactCount returns the number of table rows below the header
func (mp *ContactsPane) ContactCount() int {
	if len(mp.lines) == 0 {
		return 0
	}
	return len(mp.lines) - 1
}

// Render renders the contacts pane
func (mp *ContactsPane) Render(width, height int) string {
	header := CreateHeader(fmt.Sprintf(" Contacts (%d) [read-only] ", mp.ContactCount()), width, mp.focused)

	var content string
	if len(mp.lines) == 0 {
		content = "No contacts yet\n"
		for i := 1; i < height; i++ {
			content += "\n"
		}
	} else {
		visible := []string{}

		// The table header row always stays pinned on top
		visible = append(visible, mp.lines[0])

		start := mp.scrollOffset + 1
		end := start + height - 3
		if start >= len(mp.lines) {
			start = len(mp.lines) - 1
		}
		if start < 1 {
			start = 1
		}
		if end > len(mp.lines) {
			end = len(mp.lines)
		}

		for i := start; i < end; i++ {
			line := mp.lines[i]
			if len(line) > width-3 {
				line = line[:width-6] + "..."
			}
			visible = append(visible, line)
		}

		for len(visible) < height-1 {
			visible = append(visible, "")
		}

		content = strings.Join(visible, "\n") + "\n"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Width(width - 1).
		Height(height - 1)

	if mp.focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}

	return header + "\n" + style.Render(content)
}

// StatsPane shows activity and distribution summaries
type StatsPane struct {
	focused   bool
	sparkline string
	summary   []string
}

// NewStatsPane creates a new stats pane
func NewStatsPane() *StatsPane {
	return &StatsPane{
		focused:   false,
		sparkline: "",
		summary:   []string{},
	}
}

// SetSparkline sets the activity sparkline
func (tp *StatsPane) SetSparkline(sparkline string) {
	tp.sparkline = sparkline
}

// SetSummary sets the prerendered summary lines
func (tp *StatsPane) SetSummary(lines []string) {
	tp.summary = lines
}

// Render renders the stats pane
func (tp *StatsPane) Render(width, height int) string {
	header := CreateHeader(" Stats ", width, tp.focused)

	content := "Activity " + tp.sparkline + "\n"
	for _, line := range tp.summary {
		content += line + "\n"
	}
	for i := len(tp.summary) + 1; i < height-1; i++ {
		content += "\n"
	}

	style := lipgloss.NewStyle().
		Width(width - 1).
		Height(height - 1)

	if tp.focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}

	return header + "\n" + style.Render(content)
}

// ControlsPane shows key bindings and session status
type ControlsPane struct {
	focused bool
	status  []string
}

// NewControlsPane creates a new controls pane
func NewControlsPane() *ControlsPane {
	return &ControlsPane{
		focused: false,
		status:  []string{},
	}
}

// SetStatus sets the status lines shown under the key help
func (cp *ControlsPane) SetStatus(lines []string) {
	cp.status = lines
}

// Render renders the controls pane
func (cp *ControlsPane) Render(width, height int) string {
	header := CreateHeader(" Controls ", width, cp.focused)

	content := `tab - Panes
j/k - Scroll
l - Live entry
? - Help
q - Quit`

	for _, line := range cp.status {
		content += "\n" + line
	}

	style := lipgloss.NewStyle().
		Width(width - 1).
		Height(height - 1).
		Padding(1)

	if cp.focused {
		style = style.BorderStyle(lipgloss.ThickBorder())
	}

	return header + "\n" + style.Render(content)
}
