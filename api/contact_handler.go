package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  *services.ContactService
}

func newContactHandler(contacts *services.ContactService) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
	}
}

// submitContact stores a message from the public contact form
// @Summary Send a contact message
// @Description Stores the message, then emails the admin and the sender. Rate limited per client IP.
// @Tags Contact
// @Accept json
// @Produce json
// @Param body body services.ContactInput true "Message"
// @Success 201 {object} map[string]interface{} "Stored id, creation time and email delivery status"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 429 {object} ErrorResponse "Too many requests"
// @Router /contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.ContactInput
		if !h.responder.decodeJSON(w, r, &in) {
			return
		}

		contact, emailStatus, err := h.contacts.Submit(r.Context(), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusCreated, "Message sent successfully!", map[string]any{
			"id":        contact.ID,
			"createdAt": contact.CreatedAt,
		}, map[string]any{"emailStatus": emailStatus})
	}
}

// listContacts pages through stored messages
// @Summary List contact messages
// @Tags Contact
// @Produce json
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size, at most 100"
// @Param status query string false "NEW, READ or REPLIED"
// @Success 200 {object} map[string]interface{} "data and pagination"
// @Router /contacts [get]
func (h contactHandler) listContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))

		contacts, pagination, err := h.contacts.List(r.Context(), page, limit, query.Get("status"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", contacts, map[string]any{"pagination": pagination})
	}
}

// getContact retrieves one message
// @Summary Get contact message
// @Tags Contact
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Message"
// @Failure 400 {object} ErrorResponse "Invalid contact ID"
// @Failure 404 {object} ErrorResponse "Contact not found"
// @Router /contacts/{contactID} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, ok := h.contactID(w, r)
		if !ok {
			return
		}

		contact, err := h.contacts.Get(r.Context(), contactID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", contact, nil)
	}
}

type contactStatusRequest struct {
	Status string `json:"status"`
}

// updateContactStatus marks a message as NEW, READ or REPLIED
// @Summary Update contact status
// @Tags Contact
// @Accept json
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Param body body contactStatusRequest true "Status"
// @Success 200 {object} map[string]interface{} "Updated message"
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 404 {object} ErrorResponse "Contact not found"
// @Router /contacts/{contactID} [patch]
func (h contactHandler) updateContactStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, ok := h.contactID(w, r)
		if !ok {
			return
		}

		var req contactStatusRequest
		if !h.responder.decodeJSON(w, r, &req) {
			return
		}

		contact, err := h.contacts.UpdateStatus(r.Context(), contactID, req.Status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Status updated successfully", contact, nil)
	}
}

// deleteContact removes a message
// @Summary Delete contact message
// @Tags Contact
// @Produce json
// @Param contactID path string true "Contact ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Deleted"
// @Failure 404 {object} ErrorResponse "Contact not found"
// @Router /contacts/{contactID} [delete]
func (h contactHandler) deleteContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contactID, ok := h.contactID(w, r)
		if !ok {
			return
		}

		if err := h.contacts.Delete(r.Context(), contactID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Message deleted successfully", nil, nil)
	}
}

func (h contactHandler) contactID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	contactID, err := uuid.Parse(chi.URLParam(r, "contactID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("Invalid contact ID"))
		return uuid.Nil, false
	}
	return contactID, true
}
