package mirror

import (
	"strings"
)

// MirrorView is the read-only output surface for the rendered contacts
// table. It owns no content of its own: every refresh replaces the whole
// text and resets the cursor to the start. Only the sync controller
// writes it; hosts read lines and move the cursor.
type MirrorView struct {
	content string
	lines   []string
	cursor  int
}

// NewMirrorView creates an empty mirror view.
func NewMirrorView() *MirrorView {
	return &MirrorView{}
}

// overwrite replaces the entire view text and resets the cursor.
func (v *MirrorView) overwrite(text string) {
	v.content = text
	if text == "" {
		v.lines = nil
	} else {
		v.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	v.cursor = 0
}

// Content returns the full mirror text, header included.
func (v *MirrorView) Content() string {
	return v.content
}

// Lines returns the rendered lines, header first.
func (v *MirrorView) Lines() []string {
	return v.lines
}

// LineCount returns the number of rendered lines, header included.
func (v *MirrorView) LineCount() int {
	return len(v.lines)
}

// Cursor returns the current read position as a line index.
func (v *MirrorView) Cursor() int {
	return v.cursor
}

// SetCursor moves the read position, clamped to the rendered lines.
func (v *MirrorView) SetCursor(line int) {
	if line < 0 {
		line = 0
	}
	if max := len(v.lines) - 1; line > max {
		if max < 0 {
			max = 0
		}
		line = max
	}
	v.cursor = line
}

// ReadOnly reports that the view rejects writes from anything but the
// sync controller. Always true; hosts use it to label the surface.
func (v *MirrorView) ReadOnly() bool {
	return true
}
