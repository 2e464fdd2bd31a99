package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/database"
	"github.com/rpupo63/portfolio-site-backend/mediastore"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type memProjects struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.Project
}

func newMemProjects(projects ...models.Project) *memProjects {
	s := &memProjects{projects: map[uuid.UUID]models.Project{}}
	for _, p := range projects {
		s.projects[p.ID] = copyProject(p)
	}
	return s
}

func copyProject(p models.Project) models.Project {
	out := p
	out.Media = append(out.Media[:0:0], p.Media...)
	out.Technologies = append(out.Technologies[:0:0], p.Technologies...)
	return out
}

func (s *memProjects) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := copyProject(p)
	return &out, nil
}

func (s *memProjects) Save(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = copyProject(*project)
	return nil
}

func (s *memProjects) FindAll(_ context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		c := copyProject(p)
		out = append(out, &c)
	}
	return out, nil
}

func (s *memProjects) FindByStatus(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error) {
	all, _ := s.FindAll(ctx)
	out := make([]*models.Project, 0, len(all))
	for _, p := range all {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *memProjects) Add(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	s.projects[project.ID] = copyProject(*project)
	return nil
}

func (s *memProjects) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *memProjects) get(id uuid.UUID) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProject(s.projects[id])
}

type memStore struct {
	mu      sync.Mutex
	uploads []mediastore.UploadInput
}

func (s *memStore) Upload(_ context.Context, in mediastore.UploadInput) (*mediastore.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, in)
	key := in.Folder + "/" + in.Filename
	return &mediastore.Descriptor{StoreID: key, SecureURL: "https://cdn.test/" + key, Format: "png", Bytes: in.Size}, nil
}

func (s *memStore) Delete(context.Context, string) error { return nil }

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uuid.UUID]models.User{}}
}

func (s *memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *memUsers) CountByRole(_ context.Context, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (s *memUsers) Add(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = *user
	return nil
}

type memContacts struct {
	mu       sync.Mutex
	contacts []models.Contact
}

func (s *memContacts) Add(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contact.ID = uuid.New()
	s.contacts = append(s.contacts, *contact)
	return nil
}

func (s *memContacts) FindByID(_ context.Context, id uuid.UUID) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memContacts) List(_ context.Context, filter database.ContactFilter) ([]models.Contact, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if filter.Status == "" || c.Status == filter.Status {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (s *memContacts) UpdateStatus(_ context.Context, id uuid.UUID, status models.ContactStatus) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts[i].Status = status
			s.contacts[i].UpdatedAt = time.Now()
			c := s.contacts[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memContacts) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memProfiles struct {
	mu      sync.Mutex
	profile *models.Profile
}

func (s *memProfiles) Get(context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *memProfiles) Save(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *profile
	s.profile = &p
	return nil
}

type memSettings struct {
	mu       sync.Mutex
	settings *models.Settings
	pingErr  error
}

func (s *memSettings) Get(context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, nil
	}
	c := *s.settings
	return &c, nil
}

func (s *memSettings) Save(_ context.Context, settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *settings
	s.settings = &c
	return nil
}

func (s *memSettings) Ping(context.Context) error { return s.pingErr }
