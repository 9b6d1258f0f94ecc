package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// TranscriptHandler handles HTTP requests for spoken sentence history.
type TranscriptHandler struct {
	store *store.Store
}

// NewTranscriptHandler creates a new TranscriptHandler with the given store.
func NewTranscriptHandler(s *store.Store) *TranscriptHandler {
	return &TranscriptHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/transcripts or /api/transcripts/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/transcripts")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/transcripts
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/transcripts/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type transcriptResponse struct {
	ID        string `json:"id"`
	Sentence  string `json:"sentence"`
	Trigger   string `json:"trigger"`
	CreatedAt string `json:"created_at"`
}

type listTranscriptsResponse struct {
	Transcripts []transcriptResponse `json:"transcripts"`
}

// toTranscriptResponse converts a store.Transcript to a transcriptResponse.
func toTranscriptResponse(t *store.Transcript) transcriptResponse {
	return transcriptResponse{
		ID:        t.ID,
		Sentence:  t.Sentence,
		Trigger:   t.Trigger,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/transcripts. An optional limit query parameter
// caps the result count, newest first.
func (h *TranscriptHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	transcripts, err := h.store.Transcripts().List(limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list transcripts")
		return
	}

	response := listTranscriptsResponse{
		Transcripts: make([]transcriptResponse, 0, len(transcripts)),
	}

	for _, t := range transcripts {
		response.Transcripts = append(response.Transcripts, toTranscriptResponse(t))
	}

	WriteJSON(w, http.StatusOK, response)
}

// get handles GET /api/transcripts/{id} and returns a single transcript.
func (h *TranscriptHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	transcript, err := h.store.Transcripts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transcript not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to get transcript")
		return
	}

	WriteJSON(w, http.StatusOK, toTranscriptResponse(transcript))
}

// delete handles DELETE /api/transcripts/{id} and removes a transcript.
func (h *TranscriptHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Transcripts().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Transcript not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete transcript")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
