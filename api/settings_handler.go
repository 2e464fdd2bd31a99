package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/models"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type settingsHandler struct {
	responder Responder
	logger    zerolog.Logger
	settings  *services.SettingsService
}

func newSettingsHandler(settings *services.SettingsService) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		settings:  settings,
	}
}

// getSettings returns the admin settings, falling back to defaults
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} map[string]interface{} "Settings"
// @Router /admin/settings [get]
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settings.Current(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", settings, nil)
	}
}

// updateSettings saves the admin settings
// @Summary Update settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body models.SettingsPatch true "Fields to change"
// @Success 200 {object} map[string]interface{} "Saved settings"
// @Failure 400 {object} ErrorResponse "Validation failed or SMTP not configured"
// @Router /admin/settings [post]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.SettingsPatch
		if !h.responder.decodeJSON(w, r, &patch) {
			return
		}

		settings, err := h.settings.Update(r.Context(), patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Settings updated successfully", settings, nil)
	}
}

// getStatus reports mail and database health for the admin dashboard
// @Summary System status
// @Tags Settings
// @Produce json
// @Success 200 {object} services.SystemStatus "Status"
// @Router /admin/settings/status [get]
func (h settingsHandler) getStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteSuccess(w, http.StatusOK, "", h.settings.Status(r.Context()), nil)
	}
}
