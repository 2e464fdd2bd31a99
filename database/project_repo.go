package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-site-backend/models"
)

// projectOrder is the listing order shared by the public and admin views.
const projectOrder = "priority DESC, created_at DESC"

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns every project regardless of status.
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Order(projectOrder).Find(&projects).Error
	return projects, err
}

// FindByStatus returns the projects in one status.
func (r *ProjectRepo) FindByStatus(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.WithContext(ctx).Where("status = ?", status).Order(projectOrder).Find(&projects).Error
	return projects, err
}

// FindByID loads the whole aggregate, media included. It always reads from the
// primary so a load-mutate-save cycle never starts from a lagging replica.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Clauses(dbresolver.Write).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Save writes the whole aggregate back. The last writer wins.
func (r *ProjectRepo) Save(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

// Delete removes a project and its embedded media by id.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
