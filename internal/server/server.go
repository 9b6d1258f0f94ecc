// Package server provides the HTTP server for the Mudra sign language
// recognition system.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server for the Mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register store-backed resource handlers if Store is configured
	if s.config.Store != nil {
		onWordsChanged := func() {}
		if s.config.App != nil {
			onWordsChanged = s.config.App.ReloadSuggestions
		}
		wordHandler := api.NewWordHandler(s.config.Store, onWordsChanged)
		s.mux.Handle("/api/words", wordHandler)
		s.mux.Handle("/api/words/", wordHandler)

		transcriptHandler := api.NewTranscriptHandler(s.config.Store)
		s.mux.Handle("/api/transcripts", transcriptHandler)
		s.mux.Handle("/api/transcripts/", transcriptHandler)
	}

	// Register recognition endpoints if App is configured
	if s.config.App != nil {
		s.mux.HandleFunc("/api/sentence", s.handleSentence)
		s.mux.HandleFunc("/api/sentence/speak", s.handleSpeak)
		s.mux.HandleFunc("/api/recognition", s.handleRecognition)

		streamHandler := NewStreamHandler(s.config.App.Camera(), s.config.App)
		s.mux.Handle("/api/stream", streamHandler)

		eventsHandler := NewEventsHandler(s.config.App)
		s.mux.Handle("/api/events", eventsHandler)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

type sentenceResponse struct {
	Sentence    string   `json:"sentence"`
	FirstLetter string   `json:"first_letter"`
	Suggestions []string `json:"suggestions"`
}

// handleSentence handles GET and DELETE requests to /api/sentence.
func (s *Server) handleSentence(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		text, first, suggestions := s.config.App.Sentence()
		resp := sentenceResponse{
			Sentence:    text,
			Suggestions: suggestions,
		}
		if suggestions == nil {
			resp.Suggestions = []string{}
		}
		if first != 0 {
			resp.FirstLetter = string(first)
		}
		api.WriteJSON(w, http.StatusOK, resp)
	case http.MethodDelete:
		s.config.App.Clear()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleSpeak handles POST requests to /api/sentence/speak.
func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.App.Speak(store.TriggerManual); err != nil {
		if errors.Is(err, app.ErrNothingToSpeak) {
			api.WriteError(w, http.StatusConflict, "Nothing to speak")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Speech failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type recognitionState struct {
	Enabled bool `json:"enabled"`
}

// handleRecognition handles GET and PUT requests to /api/recognition.
func (s *Server) handleRecognition(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		api.WriteJSON(w, http.StatusOK, recognitionState{Enabled: s.config.App.IsEnabled()})
	case http.MethodPut:
		var req recognitionState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.WriteError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		s.config.App.SetEnabled(req.Enabled)
		api.WriteJSON(w, http.StatusOK, recognitionState{Enabled: s.config.App.IsEnabled()})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
