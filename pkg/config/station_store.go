package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StationRecord stores one operating station profile.
type StationRecord struct {
	Callsign     string    `json:"callsign"`
	Operator     string    `json:"operator,omitempty"`
	Grid         string    `json:"grid,omitempty"`
	Rig          string    `json:"rig,omitempty"`
	DefaultPower string    `json:"defaultPower,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// StationBook stores station profiles, at most one of them current.
type StationBook struct {
	Stations []StationRecord `json:"stations"`
	Current  string          `json:"current,omitempty"`
}

// LoadStationBook loads station profiles from disk.
func LoadStationBook() (StationBook, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return StationBook{}, err
	}
	path := filepath.Join(configDir, "stations.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return StationBook{Stations: []StationRecord{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return StationBook{}, err
	}
	var book StationBook
	if err := json.Unmarshal(data, &book); err != nil {
		return StationBook{}, err
	}
	if book.Stations == nil {
		book.Stations = []StationRecord{}
	}
	return book, nil
}

// SaveStationBook saves station profiles to disk.
func SaveStationBook(book StationBook) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(configDir, "stations.json")
	data, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// UpsertStation inserts or updates a station profile by callsign.
func UpsertStation(book StationBook, record StationRecord) StationBook {
	record.Callsign = strings.ToUpper(strings.TrimSpace(record.Callsign))
	if record.Callsign == "" {
		return book
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}

	for i := range book.Stations {
		if book.Stations[i].Callsign == record.Callsign {
			book.Stations[i] = record
			return book
		}
	}

	book.Stations = append(book.Stations, record)
	if book.Current == "" {
		book.Current = record.Callsign
	}
	return book
}

// SetCurrentStation marks a station profile current by callsign.
func SetCurrentStation(book StationBook, callsign string) StationBook {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	for _, s := range book.Stations {
		if s.Callsign == callsign {
			book.Current = callsign
			return book
		}
	}
	return book
}

// CurrentStation returns the current station profile, if one is set.
func CurrentStation(book StationBook) (StationRecord, bool) {
	for _, s := range book.Stations {
		if s.Callsign == book.Current {
			return s, true
		}
	}
	return StationRecord{}, false
}

// NextStation cycles to the profile after the current one.
func NextStation(book StationBook) StationBook {
	if len(book.Stations) == 0 {
		return book
	}
	for i, s := range book.Stations {
		if s.Callsign == book.Current {
			book.Current = book.Stations[(i+1)%len(book.Stations)].Callsign
			return book
		}
	}
	book.Current = book.Stations[0].Callsign
	return book
}
