package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"canonstream/handlers"
)

// NewRouter builds the HTTP router for the aggregation API.
func NewRouter(streams *handlers.StreamsHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", streams.Health).Methods(http.MethodGet)
	apiRouter.HandleFunc("/streams/{mediaType}/{id}", streams.List).Methods(http.MethodGet)

	return r
}

// requestIDMiddleware tags every request with an ID for log correlation,
// honoring one supplied by the caller.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(handlers.WithRequestID(r.Context(), requestID)))
	})
}
