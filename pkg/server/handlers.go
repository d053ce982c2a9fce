package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/va2bbw/qle/pkg/filter"
	"github.com/va2bbw/qle/pkg/models"
	"github.com/va2bbw/qle/pkg/stats"
)

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.refreshRecords()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.Source.View().Content())
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	// Parse query params for filtering
	q := r.URL.Query()
	v := filter.NewValidator()

	bands := q["band"]
	for _, band := range bands {
		if err := v.ValidateBand(band); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	modes := q["mode"]
	for _, mode := range modes {
		if err := v.ValidateMode(mode); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	dateRange := models.DateRange{Start: q.Get("from"), End: q.Get("to")}
	if err := v.ValidateDateRange(dateRange); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	callsign := q.Get("callsign")
	if callsign != "" {
		if err := v.ValidateCallsign(callsign); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	fb := filter.NewBuilder().
		AddBands(bands).
		AddModes(modes).
		AddDateRange(dateRange).
		AddCallsign(callsign)

	records := fb.Apply(s.refreshRecords())
	if records == nil {
		records = []models.ContactRecord{}
	}
	json.NewEncoder(w).Encode(records)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	records := s.refreshRecords()

	ab := stats.NewActivityBuilder()
	response := struct {
		Summary  stats.Summary          `json:"summary"`
		Activity []models.ActivityPoint `json:"activity"`
	}{
		Summary:  ab.BuildSummary(records),
		Activity: ab.BuildActivity(records),
	}

	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(s.Source.SourcePath())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(raw)
}

type AppendRequest struct {
	Line string `json:"line"`
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Line) == "" {
		http.Error(w, "line cannot be empty", http.StatusBadRequest)
		return
	}

	stamped, res, err := s.Source.AppendLive(req.Line, time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	if res.Refreshed {
		s.lastRecords = res.Records
	}
	s.mu.Unlock()

	json.NewEncoder(w).Encode(map[string]interface{}{
		"line":     stamped,
		"contacts": len(res.Records),
	})
}
