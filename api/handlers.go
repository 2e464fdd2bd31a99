package api

import (
	"time"

	"github.com/rpupo63/portfolio-site-backend/config"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, authCfg config.Auth, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:  newProjectHandler(deps.Projects),
		mediaHandler:    newMediaHandler(deps.Media, deps.Projects),
		authHandler:     newAuthHandler(deps.Auth, authCfg),
		contactHandler:  newContactHandler(deps.Contacts),
		profileHandler:  newProfileHandler(deps.Profile),
		settingsHandler: newSettingsHandler(deps.Settings),
		healthHandler:   newHealthHandler(deps.DB, startupTime),
	}
}
