package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-site-backend/mediastore"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// fakeProjectStore behaves like the database: every load hands out an
// independent copy and every save replaces the stored aggregate.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.Project
	saves    int
	deletes  int
	saveErr  error
}

func newFakeProjectStore(projects ...models.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: map[uuid.UUID]models.Project{}}
	for _, p := range projects {
		s.projects[p.ID] = cloneProject(p)
	}
	return s
}

func cloneProject(p models.Project) models.Project {
	out := p
	out.Media = append(out.Media[:0:0], p.Media...)
	out.Technologies = append(out.Technologies[:0:0], p.Technologies...)
	if p.MainImage != nil {
		mainImage := *p.MainImage
		out.MainImage = &mainImage
	}
	return out
}

func (s *fakeProjectStore) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := cloneProject(p)
	return &clone, nil
}

func (s *fakeProjectStore) Save(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (s *fakeProjectStore) FindAll(_ context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		clone := cloneProject(p)
		out = append(out, &clone)
	}
	return out, nil
}

func (s *fakeProjectStore) FindByStatus(ctx context.Context, status models.ProjectStatus) ([]*models.Project, error) {
	all, _ := s.FindAll(ctx)
	out := all[:0]
	for _, p := range all {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProjectStore) Add(_ context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	s.projects[project.ID] = cloneProject(*project)
	return nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.deletes++
	delete(s.projects, id)
	return nil
}

func (s *fakeProjectStore) get(id uuid.UUID) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProject(s.projects[id])
}

func (s *fakeProjectStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeMediaStore records every call and can delay, fail or hang per filename.
type fakeMediaStore struct {
	mu       sync.Mutex
	uploads  []mediastore.UploadInput
	deletes  []string
	latency  map[string]time.Duration
	failures map[string]error
	hang     map[string]bool
	inFlight int
	maxSeen  int
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{
		latency:  map[string]time.Duration{},
		failures: map[string]error{},
		hang:     map[string]bool{},
	}
}

func (s *fakeMediaStore) Upload(ctx context.Context, in mediastore.UploadInput) (*mediastore.Descriptor, error) {
	s.mu.Lock()
	s.uploads = append(s.uploads, in)
	s.inFlight++
	if s.inFlight > s.maxSeen {
		s.maxSeen = s.inFlight
	}
	delay := s.latency[in.Filename]
	failure := s.failures[in.Filename]
	hang := s.hang[in.Filename]
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failure != nil {
		return nil, failure
	}

	key := in.Folder + "/" + in.Filename
	return &mediastore.Descriptor{
		StoreID:   key,
		SecureURL: "https://cdn.test/" + key,
		Width:     640,
		Height:    480,
		Format:    "bin",
		Bytes:     in.Size,
	}, nil
}

func (s *fakeMediaStore) Delete(_ context.Context, storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, storeID)
	return nil
}

func (s *fakeMediaStore) modeOf(filename string) (mediastore.UploadMode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.uploads {
		if in.Filename == filename {
			return in.Mode, true
		}
	}
	return 0, false
}

func (s *fakeMediaStore) uploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

type stubTitleLookup struct {
	title string
	err   error
}

func (l stubTitleLookup) LookupTitle(context.Context, string) (string, error) {
	return l.title, l.err
}

var errStoreDown = errors.New("store unavailable")
