package ui

import (
	"strings"

	"github.com/va2bbw/qle/pkg/models"
)

// ContactListView manages the contact list with virtual rendering
type ContactListView struct {
	contacts        []models.ContactRecord
	selectedIdx     int
	scrollOffset    int
	viewportHeight  int
	formatter       *LineFormatter
	searchTerm      string
	filteredIndices []int
}

// NewContactListView creates a new contact list view
func NewContactListView(height int) *ContactListView {
	return &ContactListView{
		contacts:        []models.ContactRecord{},
		selectedIdx:     0,
		scrollOffset:    0,
		viewportHeight:  height,
		formatter:       NewLineFormatter(120, true),
		searchTerm:      "",
		filteredIndices: []int{},
	}
}

// SetContacts sets the list of contacts to display
func (clv *ContactListView) SetContacts(contacts []models.ContactRecord) {
	clv.contacts = contacts
	clv.selectedIdx = 0
	clv.scrollOffset = 0
	clv.ApplySearch()
}

// AddContacts appends contacts to the list
func (clv *ContactListView) AddContacts(contacts []models.ContactRecord) {
	clv.contacts = append(clv.contacts, contacts...)
	clv.ApplySearch()
}

// GetVisibleContacts returns the contacts visible in the current viewport
func (clv *ContactListView) GetVisibleContacts() []models.ContactRecord {
	if len(clv.filteredIndices) == 0 {
		if clv.scrollOffset >= len(clv.contacts) {
			return []models.ContactRecord{}
		}

		end := clv.scrollOffset + clv.viewportHeight
		if end > len(clv.contacts) {
			end = len(clv.contacts)
		}

		return clv.contacts[clv.scrollOffset:end]
	}

	var visible []models.ContactRecord
	start := clv.scrollOffset
	end := clv.scrollOffset + clv.viewportHeight

	if start >= len(clv.filteredIndices) {
		return visible
	}

	if end > len(clv.filteredIndices) {
		end = len(clv.filteredIndices)
	}

	for i := start; i < end; i++ {
		if clv.filteredIndices[i] < len(clv.contacts) {
			visible = append(visible, clv.contacts[clv.filteredIndices[i]])
		}
	}

	return visible
}

// GetVisibleLines returns formatted table rows for the current viewport
func (clv *ContactListView) GetVisibleLines(maxLen int) []string {
	var lines []string
	for _, rec := range clv.GetVisibleContacts() {
		line := clv.formatter.FormatContactLine(rec, maxLen)
		lines = append(lines, line)
	}
	return lines
}

// ScrollUp moves up in the contact list
func (clv *ContactListView) ScrollUp() {
	if clv.scrollOffset > 0 {
		clv.scrollOffset--
	}
}

// ScrollDown moves down in the contact list
func (clv *ContactListView) ScrollDown() {
	maxScroll := clv.GetMaxScroll()
	if clv.scrollOffset < maxScroll {
		clv.scrollOffset++
	}
}

// PageUp pages up
func (clv *ContactListView) PageUp() {
	clv.scrollOffset -= clv.viewportHeight
	if clv.scrollOffset < 0 {
		clv.scrollOffset = 0
	}
}

// PageDown pages down
func (clv *ContactListView) PageDown() {
	clv.scrollOffset += clv.viewportHeight
	maxScroll := clv.GetMaxScroll()
	if clv.scrollOffset > maxScroll {
		clv.scrollOffset = maxScroll
	}
}

// JumpToTop jumps to the beginning
func (clv *ContactListView) JumpToTop() {
	clv.scrollOffset = 0
}

// JumpToBottom jumps to the end
func (clv *ContactListView) JumpToBottom() {
	clv.scrollOffset = clv.GetMaxScroll()
}

// GetMaxScroll returns the maximum scroll offset
func (clv *ContactListView) GetMaxScroll() int {
	total := len(clv.filteredIndices)
	if total == 0 {
		total = len(clv.contacts)
	}

	maxScroll := total - clv.viewportHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	return maxScroll
}

// SetViewportHeight sets the height of the viewport
func (clv *ContactListView) SetViewportHeight(height int) {
	clv.viewportHeight = height
}

// GetSelectedContact returns the currently selected contact
func (clv *ContactListView) GetSelectedContact() *models.ContactRecord {
	visible := clv.GetVisibleContacts()
	if clv.selectedIdx >= len(visible) {
		return nil
	}
	return &visible[clv.selectedIdx]
}

// SelectContact selects a contact by index (within visible contacts)
func (clv *ContactListView) SelectContact(idx int) bool {
	if idx < 0 || idx >= len(clv.GetVisibleContacts()) {
		return false
	}
	clv.selectedIdx = idx
	return true
}

// Search searches contacts for a keyword in their source line
func (clv *ContactListView) Search(term string) {
	clv.searchTerm = strings.ToLower(term)
	clv.ApplySearch()
}

// ApplySearch applies the current search term
func (clv *ContactListView) ApplySearch() {
	clv.filteredIndices = []int{}

	if clv.searchTerm == "" {
		return
	}

	for i, rec := range clv.contacts {
		if strings.Contains(strings.ToLower(rec.SourceLine), clv.searchTerm) {
			clv.filteredIndices = append(clv.filteredIndices, i)
		}
	}

	clv.scrollOffset = 0
}

// ClearSearch clears the search filter
func (clv *ContactListView) ClearSearch() {
	clv.searchTerm = ""
	clv.filteredIndices = []int{}
	clv.scrollOffset = 0
}

// GetSearchTerm returns the current search term
func (clv *ContactListView) GetSearchTerm() string {
	return clv.searchTerm
}

// GetContactCount returns the total count of (filtered) contacts
func (clv *ContactListView) GetContactCount() int {
	if len(clv.filteredIndices) > 0 {
		return len(clv.filteredIndices)
	}
	return len(clv.contacts)
}

// GetAllContacts returns all contacts (unfiltered)
func (clv *ContactListView) GetAllContacts() []models.ContactRecord {
	return clv.contacts
}

// Clear clears all contacts
func (clv *ContactListView) Clear() {
	clv.contacts = []models.ContactRecord{}
	clv.filteredIndices = []int{}
	clv.selectedIdx = 0
	clv.scrollOffset = 0
}

// GetFormattedDetails returns formatted details for a contact
func (clv *ContactListView) GetFormattedDetails(rec *models.ContactRecord) string {
	if rec == nil {
		return "No contact selected"
	}
	return clv.formatter.FormatContactDetails(*rec)
}
