package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Notice levels control toast styling
const (
	NoticeInfo    = "info"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

// NoticeDisplay manages transient status and error messages
type NoticeDisplay struct {
	messages []Notice
	maxSize  int
}

// Notice represents a single status message
type Notice struct {
	Text      string
	Level     string
	Timestamp time.Time
	Duration  time.Duration
}

// NewNoticeDisplay creates a new notice display
func NewNoticeDisplay() *NoticeDisplay {
	return &NoticeDisplay{
		messages: []Notice{},
		maxSize:  10,
	}
}

// Add adds a message at the given level
func (nd *NoticeDisplay) Add(level, text string, duration time.Duration) {
	nd.messages = append(nd.messages, Notice{
		Text:      text,
		Level:     level,
		Timestamp: time.Now(),
		Duration:  duration,
	})

	// Keep only maxSize messages
	if len(nd.messages) > nd.maxSize {
		nd.messages = nd.messages[len(nd.messages)-nd.maxSize:]
	}
}

// AddInfo adds an informational message
func (nd *NoticeDisplay) AddInfo(text string, duration time.Duration) {
	nd.Add(NoticeInfo, text, duration)
}

// AddWarning adds a warning message
func (nd *NoticeDisplay) AddWarning(text string, duration time.Duration) {
	nd.Add(NoticeWarning, text, duration)
}

// AddError adds an error message
func (nd *NoticeDisplay) AddError(text string, duration time.Duration) {
	nd.Add(NoticeError, text, duration)
}

// ClearExpired removes expired messages
func (nd *NoticeDisplay) ClearExpired() {
	now := time.Now()
	var active []Notice

	for _, msg := range nd.messages {
		if msg.Duration == 0 || now.Sub(msg.Timestamp) < msg.Duration {
			active = append(active, msg)
		}
	}

	nd.messages = active
}

// GetLatest returns the most recent active message
func (nd *NoticeDisplay) GetLatest() *Notice {
	nd.ClearExpired()
	if len(nd.messages) == 0 {
		return nil
	}
	return &nd.messages[len(nd.messages)-1]
}

// HasNotices returns true if there are active messages
func (nd *NoticeDisplay) HasNotices() bool {
	nd.ClearExpired()
	return len(nd.messages) > 0
}

// HasErrors returns true if any active message is an error
func (nd *NoticeDisplay) HasErrors() bool {
	nd.ClearExpired()
	for _, msg := range nd.messages {
		if msg.Level == NoticeError {
			return true
		}
	}
	return false
}

// RenderToast renders the latest message as a toast notification
func (nd *NoticeDisplay) RenderToast(width int) string {
	latest := nd.GetLatest()
	if latest == nil {
		return ""
	}

	// Truncate message if needed
	msg := latest.Text
	if len(msg) > width-4 {
		msg = msg[:width-7] + "..."
	}

	color := noticeColor(latest.Level)
	style := lipgloss.NewStyle().
		Foreground(color).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(width - 2)

	return style.Render(noticeIcon(latest.Level) + " " + msg)
}

// RenderList renders all active messages
func (nd *NoticeDisplay) RenderList(width, maxHeight int) string {
	nd.ClearExpired()

	if len(nd.messages) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Recent Messages"))
	sb.WriteString("\n")

	count := len(nd.messages)
	if count > maxHeight {
		count = maxHeight
	}

	for i := len(nd.messages) - count; i < len(nd.messages); i++ {
		msg := nd.messages[i]
		text := msg.Text
		if len(text) > width-5 {
			text = text[:width-8] + "..."
		}
		sb.WriteString("  ")
		sb.WriteString(noticeIcon(msg.Level))
		sb.WriteString(" ")
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return sb.String()
}

// Clear removes all messages
func (nd *NoticeDisplay) Clear() {
	nd.messages = []Notice{}
}

func noticeColor(level string) lipgloss.Color {
	switch level {
	case NoticeError:
		return lipgloss.Color("9") // Red
	case NoticeWarning:
		return lipgloss.Color("11") // Yellow
	default:
		return lipgloss.Color("10") // Green
	}
}

func noticeIcon(level string) string {
	switch level {
	case NoticeError, NoticeWarning:
		return "⚠"
	default:
		return "•"
	}
}
