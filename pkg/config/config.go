package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents application configuration
type Config struct {
	DefaultLogFile    string `json:"defaultLogFile,omitempty"`
	RefreshMs         int    `json:"refreshMs"`
	WatchDebounceMs   int    `json:"watchDebounceMs"`
	MaxRecentFiles    int    `json:"maxRecentFiles"`
	MaxSavedFilters   int    `json:"maxSavedFilters"`
	MaxHistoryEntries int    `json:"maxHistoryEntries"`
	VimMode           bool   `json:"vimMode"`
	ConfirmOnQuit     bool   `json:"confirmOnQuit"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() Config {
	return Config{
		RefreshMs:         2000,
		WatchDebounceMs:   200,
		MaxRecentFiles:    10,
		MaxSavedFilters:   50,
		MaxHistoryEntries: 50,
		VimMode:           true,
	}
}

// GetConfigDir returns the XDG config directory for qle
func GetConfigDir() (string, error) {
	var configDir string

	// Try XDG_CONFIG_HOME first
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		configDir = filepath.Join(xdgHome, "qle")
	} else {
		// Fall back to ~/.config
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "qle")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return configDir, nil
}

// LoadConfig loads configuration from disk, returns default if file doesn't exist
func LoadConfig() (Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return DefaultConfig(), err
	}

	configPath := filepath.Join(configDir, "config.json")

	// If file doesn't exist, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultConfig(), err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// SaveConfig saves configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// State represents persistent application state
type State struct {
	LastLogFile string    `json:"lastLogFile,omitempty"`
	LastFilter  string    `json:"lastFilter,omitempty"`
	RecentFiles []string  `json:"recentFiles"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// LoadState loads state from disk
func LoadState() (State, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return State{}, err
	}

	statePath := filepath.Join(configDir, "state.json")

	// If file doesn't exist, return empty state
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		return State{RecentFiles: []string{}, LastUpdated: time.Now()}, nil
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return State{}, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	if state.RecentFiles == nil {
		state.RecentFiles = []string{}
	}

	return state, nil
}

// SaveState saves state to disk
func SaveState(state State) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	state.LastUpdated = time.Now()
	statePath := filepath.Join(configDir, "state.json")

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(statePath, data, 0600)
}

// AddRecentFile adds a log file path to the recent list and maintains max size
func AddRecentFile(state State, path string, maxEntries int) State {
	path = strings.TrimSpace(path)
	if path == "" {
		return state
	}

	// Check if path already exists
	for i, p := range state.RecentFiles {
		if p == path {
			// Move to front
			state.RecentFiles = append([]string{path}, append(state.RecentFiles[:i], state.RecentFiles[i+1:]...)...)
			return state
		}
	}

	// Add new path
	state.RecentFiles = append([]string{path}, state.RecentFiles...)

	// Trim to max size
	if maxEntries > 0 && len(state.RecentFiles) > maxEntries {
		state.RecentFiles = state.RecentFiles[:maxEntries]
	}

	return state
}

// LiveHistory represents committed live entries
type LiveHistory struct {
	Entries []LiveEntryRecord `json:"entries"`
}

// LiveEntryRecord is a single committed live entry, before stamping
type LiveEntryRecord struct {
	Line        string    `json:"line"`
	CommittedAt time.Time `json:"committedAt"`
	CommitCount int       `json:"commitCount"`
}

// LoadLiveHistory loads live entry history from disk
func LoadLiveHistory() (LiveHistory, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return LiveHistory{}, err
	}

	historyPath := filepath.Join(configDir, "history.json")

	// If file doesn't exist, return empty history
	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		return LiveHistory{Entries: []LiveEntryRecord{}}, nil
	}

	data, err := os.ReadFile(historyPath)
	if err != nil {
		return LiveHistory{}, err
	}

	var history LiveHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return LiveHistory{}, err
	}
	if history.Entries == nil {
		history.Entries = []LiveEntryRecord{}
	}

	return history, nil
}

// SaveLiveHistory saves live entry history to disk
func SaveLiveHistory(history LiveHistory) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	historyPath := filepath.Join(configDir, "history.json")

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(historyPath, data, 0600)
}

// AddLiveEntry adds a committed line to history and maintains max size
func AddLiveEntry(history LiveHistory, line string, maxEntries int) LiveHistory {
	line = strings.TrimSpace(line)
	if line == "" {
		return history
	}

	// An already-seen line moves to front and bumps its count
	for i, e := range history.Entries {
		if e.Line == line {
			history.Entries[i].CommitCount++
			history.Entries[i].CommittedAt = time.Now()
			record := history.Entries[i]
			history.Entries = append([]LiveEntryRecord{record}, append(history.Entries[:i], history.Entries[i+1:]...)...)
			return history
		}
	}

	record := LiveEntryRecord{
		Line:        line,
		CommittedAt: time.Now(),
		CommitCount: 1,
	}

	history.Entries = append([]LiveEntryRecord{record}, history.Entries...)

	if maxEntries > 0 && len(history.Entries) > maxEntries {
		history.Entries = history.Entries[:maxEntries]
	}

	return history
}
