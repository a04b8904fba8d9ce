package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"iscoolgpt/models"
)

const maxNotesLimit = 20

// NotesQueryHandler searches the indexed study notes
func (c *Controller) NotesQueryHandler(w http.ResponseWriter, r *http.Request) {
	var req models.NotesQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusUnprocessableEntity, "Field 'query' is required")
		return
	}
	if req.Limit <= 0 || req.Limit > maxNotesLimit {
		req.Limit = 5
	}

	resp := models.NotesQueryResponse{Query: req.Query, Documents: []models.NoteDocument{}}
	if c.notes != nil && c.notes.Enabled() {
		docs, err := c.notes.Query(r.Context(), req.Query, req.Subject, req.Limit)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID(r)).Msg("Notes query failed")
			writeError(w, http.StatusInternalServerError, "Error querying notes: "+err.Error())
			return
		}
		resp.Documents = append(resp.Documents, docs...)
	}
	resp.Total = len(resp.Documents)

	writeJSON(w, http.StatusOK, resp)
}
