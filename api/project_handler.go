package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/services"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
	}
}

// getPublicProjects lists the active projects
// @Summary Get active projects
// @Description Active projects sorted by priority then newest first
// @Tags Projects
// @Produce json
// @Success 200 {object} map[string]interface{} "data and count"
// @Failure 500 {object} ErrorResponse "Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getPublicProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListPublic(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", projects, map[string]any{"count": len(projects)})
	}
}

// getAllProjects lists every project, optionally filtered by status
// @Summary Get all projects (admin)
// @Tags Projects
// @Produce json
// @Param status query string false "ACTIVE, ARCHIVED or DRAFT"
// @Success 200 {object} map[string]interface{} "data and count"
// @Failure 400 {object} ErrorResponse "Unknown status"
// @Router /admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListAll(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", projects, map[string]any{"count": len(projects)})
	}
}

// getProject retrieves a project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Project"
// @Failure 400 {object} ErrorResponse "Invalid project ID"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectID(w, r)
		if !ok {
			return
		}

		project, err := h.projects.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "", project, nil)
	}
}

// createProject creates a project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body services.CreateProjectInput true "Project"
// @Success 201 {object} map[string]interface{} "Created project"
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.CreateProjectInput
		if !h.responder.decodeJSON(w, r, &in) {
			return
		}

		project, err := h.projects.Create(r.Context(), in, ctxGetUserID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Str("name", project.Name).Msg("project created")
		h.responder.WriteSuccess(w, http.StatusCreated, "Project created successfully", project, nil)
	}
}

// updateProject overwrites the fields present in the body
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param body body services.UpdateProjectInput true "Fields to change"
// @Success 200 {object} map[string]interface{} "Updated project"
// @Failure 400 {object} ErrorResponse "Invalid project ID or body"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectID(w, r)
		if !ok {
			return
		}

		var in services.UpdateProjectInput
		if !h.responder.decodeJSON(w, r, &in) {
			return
		}

		project, err := h.projects.Update(r.Context(), projectID, in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteSuccess(w, http.StatusOK, "Project updated successfully", project, nil)
	}
}

// deleteProject removes a project. Its stored media files are kept.
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} map[string]interface{} "Name of the deleted project"
// @Failure 400 {object} ErrorResponse "Invalid project ID"
// @Failure 404 {object} ErrorResponse "Project not found"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, ok := h.projectID(w, r)
		if !ok {
			return
		}

		project, err := h.projects.Delete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", projectID.String()).Msg("project deleted")
		h.responder.WriteSuccess(w, http.StatusOK, "Project deleted successfully", map[string]any{
			"deletedProject": project.Name,
		}, nil)
	}
}

func (h projectHandler) projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("Invalid project ID"))
		return uuid.Nil, false
	}
	return projectID, true
}
