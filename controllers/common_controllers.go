package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"iscoolgpt/models"
	"iscoolgpt/services"
)

const (
	APIVersion  = "1.0.0"
	ServiceName = "iscoolgpt-api"
)

// Controller serves the IsCoolGPT HTTP API
type Controller struct {
	tutor   *services.Tutor
	catalog *services.SubjectCatalog
	notes   *services.NotesService
	discord *services.DiscordService
}

type Option func(*Controller)

func WithNotes(notes *services.NotesService) Option {
	return func(c *Controller) {
		c.notes = notes
	}
}

// WithDiscord runs the Discord front end alongside the API
func WithDiscord(discord *services.DiscordService) Option {
	return func(c *Controller) {
		c.discord = discord
	}
}

// NewController creates a new controller instance
func NewController(tutor *services.Tutor, catalog *services.SubjectCatalog, opts ...Option) *Controller {
	c := &Controller{tutor: tutor, catalog: catalog}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartServices starts background services (Discord bot)
func (c *Controller) StartServices() error {
	if c.discord == nil {
		log.Info().Msg("Discord service disabled")
		return nil
	}
	return c.discord.Start()
}

// StopServices stops all background services
func (c *Controller) StopServices() error {
	if c.discord != nil {
		return c.discord.Stop()
	}
	return nil
}

// APIInfoHandler describes the API
func (c *Controller) APIInfoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.APIInfo{
		Message: "IsCoolGPT API",
		Version: APIVersion,
		Docs:    "/",
	})
}

// HealthHandler provides a health check endpoint
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
