package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"iscoolgpt/models"
)

// MaxMessageLength is the longest accepted question, in characters
const MaxMessageLength = 2000

// ChatHandler answers one student question
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			writeError(w, http.StatusUnprocessableEntity, "Field '"+typeErr.Field+"' has the wrong type")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Field 'message' is required")
		return
	}
	if utf8.RuneCountInString(req.Message) > MaxMessageLength {
		writeError(w, http.StatusUnprocessableEntity, "Field 'message' must be at most 2000 characters")
		return
	}

	resp, err := c.tutor.Answer(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID(r)).Msg("Failed to answer chat message")
		writeError(w, http.StatusInternalServerError, "Error processing message: "+err.Error())
		return
	}

	log.Info().
		Str("request_id", requestID(r)).
		Str("subject", req.Subject).
		Str("model", resp.Model).
		Msg("Chat message answered")
	writeJSON(w, http.StatusOK, resp)
}

// SubjectsHandler lists the supported subjects
func (c *Controller) SubjectsHandler(w http.ResponseWriter, r *http.Request) {
	subjects := c.catalog.List()
	writeJSON(w, http.StatusOK, models.SubjectsResponse{Subjects: &subjects})
}
