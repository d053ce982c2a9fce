package server

import (
	"net/http"
	"sync"

	"github.com/va2bbw/qle/internal/utils"
	"github.com/va2bbw/qle/pkg/mirror"
	"github.com/va2bbw/qle/pkg/models"
)

// Server exposes the extracted contact table over HTTP
type Server struct {
	Source   *mirror.Controller
	Username string
	Password string

	mu          sync.Mutex
	lastRecords []models.ContactRecord
}

// New creates a server around a mirror controller
func New(source *mirror.Controller, user, pass string) *Server {
	return &Server{
		Source:   source,
		Username: user,
		Password: pass,
	}
}

// Start listens on addr and serves until the listener fails
func (s *Server) Start(addr string) error {
	mux := s.routes()

	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// routes wires the handler table. Split out so tests can drive the mux
// directly.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/contacts", s.basicAuth(s.handleContacts))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/raw", s.basicAuth(s.handleRaw))
	mux.HandleFunc("POST /api/append", s.basicAuth(s.handleAppend))

	// Rendered table
	mux.HandleFunc("GET /{$}", s.basicAuth(s.handleTable))

	return mux
}

// refreshRecords runs a refresh cycle and returns the current records.
// An unreadable source keeps serving the last good extraction, the way
// the mirror keeps its last content.
func (s *Server) refreshRecords() []models.ContactRecord {
	res := s.Source.Refresh()

	s.mu.Lock()
	defer s.mu.Unlock()
	if res.Refreshed {
		s.lastRecords = res.Records
	}
	return s.lastRecords
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
