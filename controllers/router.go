package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// NewRouter wires the API routes, request IDs, access logging and CORS
func NewRouter(c *Controller) http.Handler {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, accessLogMiddleware)

	router.HandleFunc("/", c.IndexHandler).Methods(http.MethodGet)
	router.HandleFunc("/api", c.APIInfoHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", c.HealthHandler).Methods(http.MethodGet)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/subjects", c.SubjectsHandler).Methods(http.MethodGet)
	v1.HandleFunc("/chat", c.ChatHandler).Methods(http.MethodPost)
	v1.HandleFunc("/notes/query", c.NotesQueryHandler).Methods(http.MethodPost)

	// mux skips router.Use middleware when no route matches
	router.NotFoundHandler = withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(router)
}

func withMiddleware(h http.HandlerFunc) http.Handler {
	return requestIDMiddleware(accessLogMiddleware(h))
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Str("request_id", requestID(r)).
			Msg("HTTP request")
	})
}
