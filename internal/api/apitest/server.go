// Package apitest runs an in-process statistics backend for tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// Route names, used with Fail and Requests.
const (
	RouteStats       = "stats"
	RouteFloatRange  = "float-range"
	RoutePercentages = "percentages"
	RouteUpload      = "upload-csv"
)

// Request is a recorded call to the backend.
type Request struct {
	Route string
	Query url.Values
}

// Upload is a recorded CSV upload.
type Upload struct {
	Filename    string
	ContentType string
	Content     string
}

type failure struct {
	status  int
	message string
}

// Server serves canned responses on the backend's routes.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	stats       string
	percentages string
	series      map[string]string
	failures    map[string]failure
	delays      map[string]time.Duration
	requests    []Request
	uploads     []Upload
}

// NewServer starts a backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		stats:       `{"boolean_percentages":{},"fault_counts":{},"float_averages":{}}`,
		percentages: `{}`,
		series:      make(map[string]string),
		failures:    make(map[string]failure),
		delays:      make(map[string]time.Duration),
	}
	s.Server = httptest.NewServer(s.Router())
	t.Cleanup(s.Close)
	return s
}

// Router returns the backend's routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.intercept)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet).Name(RouteStats)
	api.HandleFunc("/float-range", s.handleFloatRange).Methods(http.MethodGet).Name(RouteFloatRange)
	api.HandleFunc("/percentages", s.handlePercentages).Methods(http.MethodGet).Name(RoutePercentages)
	api.HandleFunc("/upload-csv", s.handleUpload).Methods(http.MethodPost).Name(RouteUpload)

	return router
}

// SetStats sets the raw JSON body returned by /api/stats.
func (s *Server) SetStats(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = body
}

// SetPercentages sets the raw JSON body returned by /api/percentages.
func (s *Server) SetPercentages(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percentages = body
}

// SetSeries sets the raw JSON array returned by /api/float-range for field.
func (s *Server) SetSeries(field, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[field] = body
}

// Fail makes route answer with status. A non-empty message is sent as a
// JSON {"message": ...} body; an empty one sends a plain-text body.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover clears a failure set by Fail.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// Delay holds every response on route for d, or until the client gives up.
func (s *Server) Delay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[route] = d
}

// Requests returns the calls made to route so far.
func (s *Server) Requests(route string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

// Uploads returns the CSV files received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Route: name, Query: r.URL.Query()})
		fail, failing := s.failures[name]
		delay := s.delays[name]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			if fail.message == "" {
				http.Error(w, http.StatusText(fail.status), fail.status)
				return
			}
			respondWithError(w, fail.status, fail.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !validRange(w, r) {
		return
	}
	s.mu.Lock()
	body := s.stats
	s.mu.Unlock()
	writeJSON(w, body)
}

func (s *Server) handlePercentages(w http.ResponseWriter, r *http.Request) {
	if !validRange(w, r) {
		return
	}
	s.mu.Lock()
	body := s.percentages
	s.mu.Unlock()
	writeJSON(w, body)
}

func (s *Server) handleFloatRange(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		respondWithError(w, http.StatusBadRequest, "Missing required 'field' query parameter")
		return
	}
	if !validRange(w, r) {
		return
	}

	s.mu.Lock()
	body, ok := s.series[field]
	s.mu.Unlock()
	if !ok {
		body = "[]"
	}
	writeJSON(w, body)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		respondWithError(w, http.StatusBadRequest, "File is too large (max 1MB).")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Error retrieving file. Make sure it's under the 'file' key.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to process CSV file: "+err.Error())
		return
	}

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     string(content),
	})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "File '" + header.Filename + "' uploaded, converted, and new configuration applied successfully.",
	})
}

// validRange applies the backend's start/stop rules: empty values default,
// others must be now(), start with '-', or be RFC 3339.
func validRange(w http.ResponseWriter, r *http.Request) bool {
	for _, key := range []string{"start", "stop"} {
		v := r.URL.Query().Get(key)
		if v == "" || v == "now()" || (len(v) > 1 && v[0] == '-') {
			continue
		}
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid "+key+" time format")
			return false
		}
	}
	return true
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
