package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/va2bbw/qle/pkg/mirror"
)

// EditModal is the in-app editor for the source log. It edits a plain
// text buffer; saving is the caller's job, which writes the buffer back
// to the source file and lets the usual refresh cycle pick it up.
type EditModal struct {
	visible   bool
	input     string
	original  string
	cursorPos int
	selectAll bool
	templates []string
}

// NewEditModal creates a new source log editor
func NewEditModal() *EditModal {
	return &EditModal{
		visible:   false,
		input:     "",
		original:  "",
		cursorPos: 0,
		selectAll: false,
		templates: []string{
			"20230501 1400 20M CW 599 599 W1ABC 100W",
			"20230415 0900 40M SSB 589 589 K2XYZ 50",
			"worked W1ABC on 20M CW, 599 both ways, running 100W",
		},
	}
}

// Show displays the modal
func (em *EditModal) Show() {
	em.visible = true
}

// Hide hides the modal
func (em *EditModal) Hide() {
	em.visible = false
}

// IsVisible returns if modal is shown
func (em *EditModal) IsVisible() bool {
	return em.visible
}

// HandleKey processes keyboard input
func (em *EditModal) HandleKey(key string) {
	if em.selectAll {
		switch key {
		case "left", "right", "up", "down", "home", "end", "line-home", "line-end", "word-left", "word-right":
			em.selectAll = false
		case "backspace", "delete":
			em.input = ""
			em.cursorPos = 0
			em.selectAll = false
			return
		default:
			if key == "newline" || key == "\r" || len(key) == 1 {
				em.input = ""
				em.cursorPos = 0
				em.selectAll = false
			}
		}
	}

	switch key {
	case "\r":
		// Normalize CR from CRLF clipboard pastes.
		em.input = em.input[:em.cursorPos] + "\n" + em.input[em.cursorPos:]
		em.cursorPos++
	case "newline":
		em.input = em.input[:em.cursorPos] + "\n" + em.input[em.cursorPos:]
		em.cursorPos++
	case "backspace":
		if em.cursorPos > 0 {
			em.input = em.input[:em.cursorPos-1] + em.input[em.cursorPos:]
			em.cursorPos--
		}
	case "delete":
		if em.cursorPos < len(em.input) {
			em.input = em.input[:em.cursorPos] + em.input[em.cursorPos+1:]
		}
	case "left":
		if em.cursorPos > 0 {
			em.cursorPos--
		}
	case "right":
		if em.cursorPos < len(em.input) {
			em.cursorPos++
		}
	case "up":
		em.moveVertical(-1)
	case "down":
		em.moveVertical(1)
	case "home":
		em.cursorPos = 0
	case "end":
		em.cursorPos = len(em.input)
	case "line-home":
		em.cursorPos = em.currentLineStart()
		em.selectAll = false
	case "line-end":
		em.cursorPos = em.currentLineEnd()
		em.selectAll = false
	case "select-all":
		em.cursorPos = len(em.input)
		em.selectAll = true
	case "word-left":
		em.cursorPos = em.wordLeft(em.cursorPos)
		em.selectAll = false
	case "word-right":
		em.cursorPos = em.wordRight(em.cursorPos)
		em.selectAll = false
	case "delete-word-left":
		start := em.wordLeft(em.cursorPos)
		if start < em.cursorPos {
			em.input = em.input[:start] + em.input[em.cursorPos:]
			em.cursorPos = start
		}
	case "delete-word-right":
		end := em.wordRight(em.cursorPos)
		if end > em.cursorPos {
			em.input = em.input[:em.cursorPos] + em.input[end:]
		}
	case "duplicate-line":
		em.duplicateCurrentLine()
	case "delete-line":
		em.deleteCurrentLine()
	case "indent":
		em.indentCurrentLine()
	case "unindent":
		em.unindentCurrentLine()
	default:
		// Handle regular character input
		if len(key) == 1 {
			em.input = em.input[:em.cursorPos] + key + em.input[em.cursorPos:]
			em.cursorPos++
			em.selectAll = false
		}
	}
}

// GetInput returns the current buffer
func (em *EditModal) GetInput() string {
	return em.input
}

// GetInputWithCursor returns the buffer with a visible cursor marker at current position.
func (em *EditModal) GetInputWithCursor() string {
	if em.cursorPos <= len(em.input) {
		return em.input[:em.cursorPos] + "│" + em.input[em.cursorPos:]
	}
	return em.input + "│"
}

// SetInput loads the buffer and remembers it as the saved state
func (em *EditModal) SetInput(input string) {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")
	em.input = input
	em.original = input
	em.cursorPos = len(input)
	em.selectAll = false
}

// HasChanges reports whether the buffer differs from the saved state
func (em *EditModal) HasChanges() bool {
	return em.input != em.original
}

// MarkSaved records the current buffer as the saved state
func (em *EditModal) MarkSaved() {
	em.original = em.input
}

// StampCurrentLine inserts the UTC date+time prefix at the start of the
// line under the cursor, the same stamp a live commit gets.
func (em *EditModal) StampCurrentLine(now time.Time) {
	prefix := now.UTC().Format(mirror.LiveTimeFormat) + " "
	start := em.currentLineStart()
	em.input = em.input[:start] + prefix + em.input[start:]
	if em.cursorPos >= start {
		em.cursorPos += len(prefix)
	}
}

// SetTemplates replaces the line templates shown under the editor.
func (em *EditModal) SetTemplates(templates []string) {
	if len(templates) == 0 {
		return
	}
	em.templates = append([]string{}, templates...)
}

// Render renders the modal
func (em *EditModal) Render(width, height int) string {
	if !em.visible {
		return ""
	}

	var sb strings.Builder

	// Title
	sb.WriteString("┏━━ LOG EDITOR " + strings.Repeat("━", width-16) + "\n")

	// Buffer with cursor, windowed around the cursor line
	inputDisplay := em.input
	if em.cursorPos <= len(inputDisplay) {
		inputDisplay = em.input[:em.cursorPos] + "│" + em.input[em.cursorPos:]
	} else {
		inputDisplay = em.input + "│"
	}
	lines := strings.Split(inputDisplay, "\n")
	cursorLine, _ := lineColAt(em.input, em.cursorPos)
	maxInputLines := 12
	start := 0
	if cursorLine >= maxInputLines {
		start = cursorLine - maxInputLines + 1
	}
	if start > 0 {
		sb.WriteString("┃   ...\n")
	}
	for i := start; i < len(lines); i++ {
		if i-start >= maxInputLines {
			sb.WriteString("┃   ...\n")
			break
		}
		ln := lines[i]
		if len(ln) > width-10 {
			ln = ln[:width-13] + "..."
		}
		sb.WriteString(fmt.Sprintf("┃ %3d %s\n", i+1, ln))
	}

	// Separator
	sb.WriteString("┣" + strings.Repeat("━", width-1) + "\n")

	// Line templates
	sb.WriteString("┃ Templates:\n")
	for i, tmpl := range em.templates {
		if i >= 4 {
			break
		}
		sb.WriteString("┃   • " + tmpl + "\n")
	}

	// Help
	sb.WriteString("┣" + strings.Repeat("━", width-1) + "\n")
	if em.selectAll {
		sb.WriteString("┃ Selection: whole buffer\n")
	}
	if em.HasChanges() {
		sb.WriteString("┃ Unsaved changes\n")
	}
	sb.WriteString("┃ Ctrl+S save | Esc discard | Ctrl+T stamp line | Ctrl+A select all | Ctrl+D duplicate line\n")

	return sb.String()
}

// Clear clears the buffer
func (em *EditModal) Clear() {
	em.input = ""
	em.cursorPos = 0
	em.selectAll = false
}

func (em *EditModal) moveVertical(delta int) {
	currentLine, currentCol := lineColAt(em.input, em.cursorPos)
	targetLine := currentLine + delta
	if targetLine < 0 {
		targetLine = 0
	}

	lines := strings.Split(em.input, "\n")
	if targetLine >= len(lines) {
		targetLine = len(lines) - 1
	}
	if targetLine < 0 {
		targetLine = 0
	}

	targetCol := currentCol
	if targetCol > len(lines[targetLine]) {
		targetCol = len(lines[targetLine])
	}
	em.cursorPos = indexAtLineCol(lines, targetLine, targetCol)
}

func lineColAt(input string, cursor int) (int, int) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(input) {
		cursor = len(input)
	}
	line := 0
	col := 0
	for i, r := range input {
		if i >= cursor {
			break
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

func indexAtLineCol(lines []string, targetLine, targetCol int) int {
	if len(lines) == 0 {
		return 0
	}
	if targetLine < 0 {
		targetLine = 0
	}
	if targetLine >= len(lines) {
		targetLine = len(lines) - 1
	}
	if targetCol < 0 {
		targetCol = 0
	}
	if targetCol > len(lines[targetLine]) {
		targetCol = len(lines[targetLine])
	}

	idx := 0
	for i := 0; i < targetLine; i++ {
		idx += len(lines[i]) + 1
	}
	return idx + targetCol
}

func (em *EditModal) currentLineStart() int {
	if em.cursorPos <= 0 {
		return 0
	}
	before := em.input[:em.cursorPos]
	idx := strings.LastIndex(before, "\n")
	if idx < 0 {
		return 0
	}
	return idx + 1
}

func (em *EditModal) currentLineEnd() int {
	if em.cursorPos >= len(em.input) {
		return len(em.input)
	}
	rest := em.input[em.cursorPos:]
	idx := strings.Index(rest, "\n")
	if idx < 0 {
		return len(em.input)
	}
	return em.cursorPos + idx
}

func (em *EditModal) currentLineBounds() (int, int) {
	start := em.currentLineStart()
	end := em.currentLineEnd()
	return start, end
}

func (em *EditModal) duplicateCurrentLine() {
	start, end := em.currentLineBounds()
	line := em.input[start:end]
	insert := "\n" + line
	em.input = em.input[:end] + insert + em.input[end:]
	em.cursorPos = end + len(insert)
}

func (em *EditModal) deleteCurrentLine() {
	start, end := em.currentLineBounds()
	if end < len(em.input) {
		// Take the trailing newline with the line
		end++
	} else if start > 0 {
		// Last line: take the preceding newline instead
		start--
	}
	em.input = em.input[:start] + em.input[end:]
	if em.cursorPos > start {
		em.cursorPos = start
	}
}

func (em *EditModal) indentCurrentLine() {
	start, _ := em.currentLineBounds()
	em.input = em.input[:start] + "  " + em.input[start:]
	if em.cursorPos >= start {
		em.cursorPos += 2
	}
}

func (em *EditModal) unindentCurrentLine() {
	start, end := em.currentLineBounds()
	line := em.input[start:end]
	remove := 0
	if strings.HasPrefix(line, "  ") {
		remove = 2
	} else if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, " ") {
		remove = 1
	}
	if remove == 0 {
		return
	}
	em.input = em.input[:start] + line[remove:] + em.input[end:]
	if em.cursorPos > start {
		em.cursorPos = maxInt(start, em.cursorPos-remove)
	}
}

func (em *EditModal) wordLeft(pos int) int {
	if pos <= 0 {
		return 0
	}
	i := pos
	for i > 0 && isWordBoundary(em.input[i-1]) {
		i--
	}
	for i > 0 && !isWordBoundary(em.input[i-1]) {
		i--
	}
	return i
}

func (em *EditModal) wordRight(pos int) int {
	if pos >= len(em.input) {
		return len(em.input)
	}
	i := pos
	for i < len(em.input) && isWordBoundary(em.input[i]) {
		i++
	}
	for i < len(em.input) && !isWordBoundary(em.input[i]) {
		i++
	}
	return i
}

func isWordBoundary(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' ||
		ch == '(' || ch == ')' || ch == '[' || ch == ']' || ch == '{' || ch == '}' ||
		ch == '"' || ch == '\'' || ch == ',' || ch == ':' || ch == ';' || ch == '='
}
