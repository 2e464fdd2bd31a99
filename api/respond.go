package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with a 200 status.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal first so a failure can still produce a clean 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteSuccess wraps data in the {success, message, data} envelope. Extra keys are
// merged at the top level.
func (r Responder) WriteSuccess(w http.ResponseWriter, status int, message string, data any, extra map[string]any) {
	body := map[string]any{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	for k, v := range extra {
		body[k] = v
	}
	r.WriteJSONStatus(w, status, body)
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.WriteJSONStatus(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Internal Server Error",
			"details": err.Error(),
		})
		return
	}

	response := map[string]any{
		"success": false,
		"error":   apiErr.Message(),
	}

	// Add field information if present (for validation errors)
	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}

	switch {
	case len(apiErr.Fields) > 0:
		response["details"] = apiErr.Fields
	case apiErr.Details != "":
		response["details"] = apiErr.Details
	}

	if len(apiErr.Errors) > 0 {
		response["errors"] = apiErr.Errors
	}

	// Surface the underlying cause of server-side failures
	if apiErr.Cause != nil && apiErr.StatusCode >= http.StatusInternalServerError {
		response["cause"] = apiErr.GetFullError()
		r.logger.Error().Err(apiErr.Cause).Int("status", apiErr.StatusCode).Msg(apiErr.Error())
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteValidationError writes a 400 for a single bad field.
func (r Responder) WriteValidationError(w http.ResponseWriter, field string, message string) {
	r.WriteError(w, errs.NewBadRequestErrorWithField(message, field, ""))
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func (r Responder) decodeJSON(w http.ResponseWriter, req *http.Request, dst any) bool {
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		r.logger.Debug().Err(err).Msg("failed to decode request body")
		r.WriteError(w, errs.NewMalformedPayloadError("JSON", err))
		return false
	}
	return true
}
