package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// ProjectRepository is the full set of project queries the admin and public APIs need.
type ProjectRepository interface {
	ProjectStore
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByStatus(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error)
	Add(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StringList accepts either a JSON array of strings or a single comma separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = cleanList(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = cleanList(strings.Split(joined, ","))
	return nil
}

func cleanList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CreateProjectInput is the body of POST /projects.
type CreateProjectInput struct {
	Name         string               `json:"name" validate:"required,max=100"`
	Description  string               `json:"description" validate:"required,max=1000"`
	Technologies StringList           `json:"technologies" validate:"required,min=1"`
	GithubURL    string               `json:"githubUrl" validate:"omitempty,http_url"`
	LiveURL      string               `json:"liveUrl" validate:"omitempty,http_url"`
	Status       models.ProjectStatus `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED DRAFT"`
	Priority     int                  `json:"priority" validate:"gte=0,lte=100"`
}

// UpdateProjectInput is the body of PUT /projects/{id}. Absent fields are left untouched.
type UpdateProjectInput struct {
	Name         *string               `json:"name" validate:"omitempty,max=100"`
	Description  *string               `json:"description" validate:"omitempty,max=1000"`
	Technologies *StringList           `json:"technologies"`
	GithubURL    *string               `json:"githubUrl" validate:"omitempty,http_url"`
	LiveURL      *string               `json:"liveUrl" validate:"omitempty,http_url"`
	Status       *models.ProjectStatus `json:"status" validate:"omitempty,oneof=ACTIVE ARCHIVED DRAFT"`
	Priority     *int                  `json:"priority" validate:"omitempty,gte=0,lte=100"`
}

type ProjectService struct {
	projects ProjectRepository
	logger   zerolog.Logger
}

func NewProjectService(projects ProjectRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		logger:   log.With().Str("service", "ProjectService").Logger(),
	}
}

// ListPublic returns the active projects, highest priority first.
func (s *ProjectService) ListPublic(ctx context.Context) ([]*models.Project, error) {
	projects, err := s.projects.FindByStatus(ctx, models.ProjectStatusActive)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Projects", err)
	}
	return projects, nil
}

// ListAll returns every project, optionally narrowed to one status.
func (s *ProjectService) ListAll(ctx context.Context, status string) ([]*models.Project, error) {
	var (
		projects []*models.Project
		err      error
	)
	if status == "" {
		projects, err = s.projects.FindAll(ctx)
	} else {
		st := models.ProjectStatus(strings.ToUpper(status))
		if !st.Valid() {
			return nil, errs.NewBadRequestErrorWithField("Invalid status", "status", "expected one of ACTIVE, ARCHIVED, DRAFT")
		}
		projects, err = s.projects.FindByStatus(ctx, st)
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Project", err)
	}
	return project, nil
}

// Create stores a new project with an empty media collection.
func (s *ProjectService) Create(ctx context.Context, in CreateProjectInput, createdBy *uuid.UUID) (*models.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.GithubURL = strings.TrimSpace(in.GithubURL)
	in.LiveURL = strings.TrimSpace(in.LiveURL)

	if in.Name == "" || in.Description == "" || len(in.Technologies) == 0 {
		return nil, errs.NewBadRequestError("Name, description and technologies are required")
	}
	if in.Status == "" {
		in.Status = models.ProjectStatusActive
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		Name:         in.Name,
		Description:  in.Description,
		Technologies: datatypes.JSONSlice[string](in.Technologies),
		GithubURL:    optional(in.GithubURL),
		LiveURL:      optional(in.LiveURL),
		Status:       in.Status,
		Priority:     in.Priority,
		Media:        datatypes.JSONSlice[models.Media]{},
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.projects.Add(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("create", "Project", err)
	}

	s.logger.Info().Str("projectId", project.ID.String()).Str("name", project.Name).Msg("project created")
	return project, nil
}

// Update applies the present fields of in to the stored project.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*models.Project, error) {
	trim(in.Name)
	trim(in.Description)
	trim(in.GithubURL)
	trim(in.LiveURL)

	if in.Name != nil && *in.Name == "" {
		return nil, errs.NewBadRequestErrorWithField("Name cannot be empty", "name", "")
	}
	if in.Description != nil && *in.Description == "" {
		return nil, errs.NewBadRequestErrorWithField("Description cannot be empty", "description", "")
	}
	if in.Technologies != nil && len(*in.Technologies) == 0 {
		return nil, errs.NewBadRequestErrorWithField("At least one technology is required", "technologies", "")
	}
	if in.Status != nil {
		upper := models.ProjectStatus(strings.ToUpper(string(*in.Status)))
		in.Status = &upper
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Project", err)
	}

	patch := models.ProjectPatch{
		Name:        in.Name,
		Description: in.Description,
		GithubURL:   in.GithubURL,
		LiveURL:     in.LiveURL,
		Status:      in.Status,
		Priority:    in.Priority,
	}
	if in.Technologies != nil {
		technologies := []string(*in.Technologies)
		patch.Technologies = &technologies
	}
	patch.Apply(project)

	project.UpdatedAt = time.Now()
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("update", "Project", err)
	}
	return project, nil
}

// Delete removes the project together with its embedded media. Stored blobs are
// not deleted from the media store.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Project", err)
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, errs.NewDatabaseError("delete", "Project", err)
	}
	s.logger.Info().
		Str("projectId", id.String()).
		Int("orphanedMedia", len(project.Media)).
		Msg("project deleted")
	return project, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
