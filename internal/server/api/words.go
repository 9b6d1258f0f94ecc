// Package api provides HTTP API handlers for the Mudra sign language
// recognition system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorResponse{Error: message})
}

// WordHandler handles HTTP requests for suggestion dictionary words.
type WordHandler struct {
	store     *store.Store
	onChanged func()
}

// NewWordHandler creates a new WordHandler with the given store. The
// onChanged callback runs after every successful mutation so the
// running suggestion engine can pick up the edit.
func NewWordHandler(s *store.Store, onChanged func()) *WordHandler {
	if onChanged == nil {
		onChanged = func() {}
	}
	return &WordHandler{store: s, onChanged: onChanged}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *WordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/words or /api/words/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/words")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/words
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Item endpoint: /api/words/{id}
	id := path
	switch r.Method {
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createWordRequest struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
}

type wordResponse struct {
	ID        string `json:"id"`
	Word      string `json:"word"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
}

type listWordsResponse struct {
	Words []wordResponse `json:"words"`
}

// toWordResponse converts a store.Word to a wordResponse.
func toWordResponse(word *store.Word) wordResponse {
	return wordResponse{
		ID:        word.ID,
		Word:      word.Word,
		Position:  word.Position,
		CreatedAt: word.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/words and returns the full dictionary.
func (h *WordHandler) list(w http.ResponseWriter, r *http.Request) {
	words, err := h.store.Words().List()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list words")
		return
	}

	response := listWordsResponse{
		Words: make([]wordResponse, 0, len(words)),
	}

	for _, word := range words {
		response.Words = append(response.Words, toWordResponse(word))
	}

	WriteJSON(w, http.StatusOK, response)
}

// create handles POST /api/words and adds a word to the dictionary.
func (h *WordHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" {
		WriteError(w, http.StatusBadRequest, "Word is required")
		return
	}
	if strings.ContainsAny(req.Word, " \t\n") {
		WriteError(w, http.StatusBadRequest, "Word must not contain whitespace")
		return
	}

	word := &store.Word{
		ID:       uuid.New().String(),
		Word:     strings.ToLower(req.Word),
		Position: req.Position,
	}

	if err := h.store.Words().Create(word); err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			WriteError(w, http.StatusConflict, "Word already exists")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to create word")
		return
	}

	h.onChanged()
	WriteJSON(w, http.StatusCreated, toWordResponse(word))
}

// delete handles DELETE /api/words/{id} and removes a word.
func (h *WordHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Words().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Word not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete word")
		return
	}

	h.onChanged()
	w.WriteHeader(http.StatusNoContent)
}
