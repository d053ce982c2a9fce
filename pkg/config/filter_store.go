package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SavedFilterRecord stores a reusable named display filter.
type SavedFilterRecord struct {
	Name      string    `json:"name"`
	Bands     []string  `json:"bands,omitempty"`
	Modes     []string  `json:"modes,omitempty"`
	DateStart string    `json:"dateStart,omitempty"`
	DateEnd   string    `json:"dateEnd,omitempty"`
	Callsign  string    `json:"callsign,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
	UseCount  int       `json:"useCount"`
}

// FilterLibrary stores saved filters.
type FilterLibrary struct {
	Filters []SavedFilterRecord `json:"filters"`
}

// LoadFilterLibrary loads the saved filter library from disk.
func LoadFilterLibrary() (FilterLibrary, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return FilterLibrary{}, err
	}
	path := filepath.Join(configDir, "filters.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return FilterLibrary{Filters: []SavedFilterRecord{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FilterLibrary{}, err
	}
	var lib FilterLibrary
	if err := json.Unmarshal(data, &lib); err != nil {
		return FilterLibrary{}, err
	}
	if lib.Filters == nil {
		lib.Filters = []SavedFilterRecord{}
	}
	return lib, nil
}

// SaveFilterLibrary saves the filter library to disk.
func SaveFilterLibrary(lib FilterLibrary) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(configDir, "filters.json")
	data, err := json.MarshalIndent(lib, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// UpsertSavedFilter inserts or updates a saved filter by name.
func UpsertSavedFilter(lib FilterLibrary, record SavedFilterRecord, maxEntries int) FilterLibrary {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return lib
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}
	if record.UseCount <= 0 {
		record.UseCount = 1
	}

	for i := range lib.Filters {
		f := lib.Filters[i]
		if f.Name == record.Name {
			record.UseCount = f.UseCount + 1
			lib.Filters[i] = record
			sort.SliceStable(lib.Filters, func(a, b int) bool {
				return lib.Filters[a].UpdatedAt.After(lib.Filters[b].UpdatedAt)
			})
			if maxEntries > 0 && len(lib.Filters) > maxEntries {
				lib.Filters = lib.Filters[:maxEntries]
			}
			return lib
		}
	}

	lib.Filters = append([]SavedFilterRecord{record}, lib.Filters...)
	if maxEntries > 0 && len(lib.Filters) > maxEntries {
		lib.Filters = lib.Filters[:maxEntries]
	}
	return lib
}

// RemoveSavedFilter drops a saved filter by name.
func RemoveSavedFilter(lib FilterLibrary, name string) FilterLibrary {
	name = strings.TrimSpace(name)
	for i := range lib.Filters {
		if lib.Filters[i].Name == name {
			lib.Filters = append(lib.Filters[:i], lib.Filters[i+1:]...)
			return lib
		}
	}
	return lib
}

// FindSavedFilter looks a saved filter up by name.
func FindSavedFilter(lib FilterLibrary, name string) (SavedFilterRecord, bool) {
	name = strings.TrimSpace(name)
	for _, f := range lib.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return SavedFilterRecord{}, false
}
