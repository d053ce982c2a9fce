package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpModal provides an interactive help interface
type HelpModal struct {
	visible bool
	width   int
	height  int
}

// NewHelpModal creates a new help modal
func NewHelpModal() *HelpModal {
	return &HelpModal{
		visible: false,
		width:   80,
		height:  24,
	}
}

// SetVisible toggles visibility
func (hm *HelpModal) SetVisible(visible bool) {
	hm.visible = visible
}

// IsVisible returns current visibility state
func (hm *HelpModal) IsVisible() bool {
	return hm.visible
}

// Render renders the help modal
func (hm *HelpModal) Render(width, height int) string {
	if !hm.visible {
		return ""
	}

	hm.width = width
	hm.height = height

	content := hm.getHelpContent()

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("12")).
		Padding(1).
		Width(width - 4)

	return style.Render(content)
}

// getHelpContent returns the help text
func (hm *HelpModal) getHelpContent() string {
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("QLE LOG VIEWER HELP"))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("Keyboard reference"))
	sb.WriteString("\n\n")

	rows := [][3]string{
		{"Nav", "tab / shift+tab", "Cycle pane focus"},
		{"Nav", "j / k", "Scroll focused pane"},
		{"Nav", "g / G", "Top / bottom"},
		{"Nav", "ctrl+f / ctrl+b", "Page down / up"},
		{"Log", "e", "Open log editor"},
		{"Log", "E", "Edit source in $EDITOR"},
		{"Log", "l", "Open live entry (UTC timestamp prefix)"},
		{"Log", "ctrl+s", "Save editor changes and rebuild mirror"},
		{"Log", "ctrl+t", "Stamp current editor line with UTC date/time"},
		{"Log", "ctrl+a", "Select all editor text"},
		{"Log", "ctrl+left/right", "Move by word"},
		{"Log", "ctrl+w / ctrl+delete", "Delete previous / next word"},
		{"Log", "ctrl+d", "Duplicate current line"},
		{"Log", "ctrl+k", "Delete current line"},
		{"Filter", "f", "Band / mode filter"},
		{"Filter", "d / t", "Date range picker"},
		{"Filter", "/", "Search source lines"},
		{"Filter", "F", "Clear all filters"},
		{"Contact", "enter", "Contact detail popup"},
		{"Contact", "h / l", "Collapse / expand detail node"},
		{"Contact", "y", "Copy selected contact row"},
		{"Contact", "Y", "Copy selected contact as JSON"},
		{"Contact", "c", "Copy selected callsign"},
		{"Contact", "u / o", "Look up callsign in browser"},
		{"Contact", "O", "Cycle lookup provider (QRZ/HamQTH)"},
		{"Other", "s", "Focus stats pane"},
		{"Other", "x", "Export contacts"},
		{"Other", "w", "Toggle watch (rebuild on source change)"},
		{"Other", "r", "Rebuild mirror now"},
		{"Other", "esc", "Close active modal"},
		{"Other", "?", "Toggle help"},
		{"Other", "q / ctrl+c", "Quit"},
	}

	sb.WriteString(hm.renderKeyTable(rows))

	return sb.String()
}

func (hm *HelpModal) renderKeyTable(rows [][3]string) string {
	var sb strings.Builder
	contentWidth := hm.width - 10
	if contentWidth < 56 {
		contentWidth = 56
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	separatorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	groupWidth := 8
	keyWidth := 22
	actionWidth := contentWidth - groupWidth - keyWidth - 6

	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %-*s %-*s\n", groupWidth, "GROUP", keyWidth, "KEY", actionWidth, "ACTION")))
	sb.WriteString(separatorStyle.Render(strings.Repeat("─", groupWidth+keyWidth+actionWidth+2)))
	sb.WriteString("\n")

	lastGroup := ""
	for _, row := range rows {
		actionLines := wrapWords(row[2], actionWidth)
		for i, line := range actionLines {
			groupCell := ""
			keyCell := ""
			if i == 0 {
				keyCell = row[1]
				if row[0] != lastGroup {
					groupCell = row[0]
					lastGroup = row[0]
				}
			}
			sb.WriteString(fmt.Sprintf("%-*s %-*s %-*s\n", groupWidth, groupCell, keyWidth, keyCell, actionWidth, line))
		}
	}

	return sb.String()
}

func wrapWords(input string, width int) []string {
	if width < 8 {
		return []string{input}
	}
	words := strings.Fields(input)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 2)
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) <= width {
			current += " " + w
			continue
		}
		lines = append(lines, current)
		current = w
	}
	lines = append(lines, current)
	return lines
}

// GetShortHelp returns a quick reference string
func (hm *HelpModal) GetShortHelp() string {
	return "? help | tab panes | j/k scroll | l live | e edit | f filter | w watch | q quit"
}
