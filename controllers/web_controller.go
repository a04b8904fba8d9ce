package controllers

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog/log"

	"iscoolgpt/views"
)

var endpoints = []views.Endpoint{
	{Method: "GET", Path: "/", Description: "This page"},
	{Method: "GET", Path: "/api", Description: "API information"},
	{Method: "GET", Path: "/health", Description: "Health check"},
	{Method: "GET", Path: "/api/v1/subjects", Description: "Supported subjects"},
	{Method: "POST", Path: "/api/v1/chat", Description: "Ask a question: {message, subject?, context?}"},
	{Method: "POST", Path: "/api/v1/notes/query", Description: "Search the study notes: {query, subject?, limit?}"},
}

// IndexHandler serves the landing page
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	provider := c.tutor.Provider()
	data := views.IndexData{
		Version:   APIVersion,
		Provider:  string(provider.Name()),
		Model:     provider.Model(),
		Subjects:  c.catalog.List(),
		Endpoints: endpoints,
	}

	var buf bytes.Buffer
	if err := views.Index.Execute(&buf, data); err != nil {
		log.Error().Err(err).Msg("Error executing index template")
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
