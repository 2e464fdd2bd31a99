package api

import (
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/services"
)

// Dependencies are the services the router exposes over HTTP.
type Dependencies struct {
	Projects *services.ProjectService
	Media    *services.MediaService
	Auth     *services.AuthService
	Contacts *services.ContactService
	Profile  *services.ProfileService
	Settings *services.SettingsService

	DB      Pinger
	Limiter RateLimiter
	Metrics *metrics.Metrics
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler  projectHandler
	mediaHandler    mediaHandler
	authHandler     authHandler
	contactHandler  contactHandler
	profileHandler  profileHandler
	settingsHandler settingsHandler
	healthHandler   healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Success bool     `json:"success" example:"false"`
	Error   string   `json:"error" example:"Project not found"`
	Field   string   `json:"field,omitempty" example:"youtubeUrl"`
	Details any      `json:"details,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Cause   string   `json:"cause,omitempty" example:"Underlying error cause"`
}
