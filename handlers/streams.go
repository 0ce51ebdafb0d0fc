package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"canonstream/models"
	"canonstream/services/stremio"
)

type streamService interface {
	FetchAll(ctx context.Context, mediaType, id string) []*models.CanonicalStream
}

var _ streamService = (*stremio.Service)(nil)

// StreamsHandler serves the aggregated, normalized stream lists.
type StreamsHandler struct {
	Service streamService
}

func NewStreamsHandler(s streamService) *StreamsHandler {
	return &StreamsHandler{Service: s}
}

type streamsPayload struct {
	Streams []*models.CanonicalStream `json:"streams"`
}

// List handles GET /api/streams/{mediaType}/{id}.
func (h *StreamsHandler) List(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mediaType := strings.TrimSpace(vars["mediaType"])
	id := strings.TrimSpace(vars["id"])

	if mediaType != "movie" && mediaType != "series" {
		http.Error(w, "mediaType must be movie or series", http.StatusBadRequest)
		return
	}
	if id == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	started := time.Now()
	records := h.Service.FetchAll(r.Context(), mediaType, id)
	log.Printf("[streams] %s %s/%s: %d records in %s", RequestID(r.Context()), mediaType, id, len(records), time.Since(started).Round(time.Millisecond))

	writeJSON(w, streamsPayload{Streams: records})
}

// Health handles GET /api/health.
func (h *StreamsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[streams] encode response: %v", err)
	}
}
