package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

func ptr[T any](v T) *T { return &v }

func TestStringListAcceptsArrayOrCommaString(t *testing.T) {
	cases := []struct {
		raw  string
		want StringList
	}{
		{raw: `["Go", " React "]`, want: StringList{"Go", "React"}},
		{raw: `"Go, React,, Postgres "`, want: StringList{"Go", "React", "Postgres"}},
		{raw: `""`, want: StringList{}},
	}
	for _, tc := range cases {
		var got StringList
		require.NoError(t, json.Unmarshal([]byte(tc.raw), &got), tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	var bad StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestCreateProject(t *testing.T) {
	projects := newFakeProjectStore()
	svc := NewProjectService(projects)
	admin := uuid.New()

	project, err := svc.Create(context.Background(), CreateProjectInput{
		Name:         "  Portfolio  ",
		Description:  "My site",
		Technologies: StringList{"Go", "Postgres"},
		GithubURL:    " https://github.com/me/site ",
		Priority:     10,
	}, &admin)
	require.NoError(t, err)

	assert.Equal(t, "Portfolio", project.Name)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	require.NotNil(t, project.GithubURL)
	assert.Equal(t, "https://github.com/me/site", *project.GithubURL)
	assert.Nil(t, project.LiveURL)
	assert.Nil(t, project.MainImage)
	assert.Empty(t, project.Media)
	assert.Equal(t, &admin, project.CreatedBy)

	stored := projects.get(project.ID)
	assert.Equal(t, "Portfolio", stored.Name)
}

func TestCreateProjectValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateProjectInput
		field string
	}{
		{
			name: "missing technologies",
			in:   CreateProjectInput{Name: "a", Description: "b"},
		},
		{
			name: "blank name",
			in:   CreateProjectInput{Name: "   ", Description: "b", Technologies: StringList{"Go"}},
		},
		{
			name:  "bad url",
			in:    CreateProjectInput{Name: "a", Description: "b", Technologies: StringList{"Go"}, LiveURL: "ftp://nope"},
			field: "liveUrl",
		},
		{
			name:  "priority out of range",
			in:    CreateProjectInput{Name: "a", Description: "b", Technologies: StringList{"Go"}, Priority: 101},
			field: "priority",
		},
		{
			name:  "unknown status",
			in:    CreateProjectInput{Name: "a", Description: "b", Technologies: StringList{"Go"}, Status: "LIVE"},
			field: "status",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			projects := newFakeProjectStore()
			_, err := NewProjectService(projects).Create(context.Background(), tc.in, nil)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
			if tc.field != "" {
				var apiErr *errs.ApiErr
				require.ErrorAs(t, err, &apiErr)
				require.NotEmpty(t, apiErr.Fields)
				assert.Equal(t, tc.field, apiErr.Fields[0].Field)
			}
			all, _ := projects.FindAll(context.Background())
			assert.Empty(t, all)
		})
	}
}

func TestUpdateProjectAppliesOnlyPresentFields(t *testing.T) {
	media := models.Media{ID: uuid.NewString(), Kind: models.MediaKindImage, Path: "https://cdn.test/a.jpg"}
	project := newProjectFixture(media)
	project.LiveURL = ptr("https://example.com")
	projects := newFakeProjectStore(project)
	svc := NewProjectService(projects)

	techs := StringList{"Rust"}
	updated, err := svc.Update(context.Background(), project.ID, UpdateProjectInput{
		Description:  ptr("new description"),
		Technologies: &techs,
		LiveURL:      ptr(""),
		Status:       (*models.ProjectStatus)(ptr("archived")),
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", updated.Name)
	assert.Equal(t, "new description", updated.Description)
	assert.Equal(t, []string{"Rust"}, []string(updated.Technologies))
	assert.Nil(t, updated.LiveURL)
	assert.Equal(t, models.ProjectStatusArchived, updated.Status)
	assert.Len(t, updated.Media, 1, "media survives a metadata update")

	_, err = svc.Update(context.Background(), project.ID, UpdateProjectInput{Name: ptr("  ")})
	assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProjectInput{Name: ptr("x")})
	assert.True(t, errs.IsNotFound(err))
}

func TestListProjects(t *testing.T) {
	active := newProjectFixture()
	draft := newProjectFixture()
	draft.Status = models.ProjectStatusDraft
	svc := NewProjectService(newFakeProjectStore(active, draft))
	ctx := context.Background()

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, active.ID, public[0].ID)

	all, err := svc.ListAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	drafts, err := svc.ListAll(ctx, "draft")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	_, err = svc.ListAll(ctx, "deleted")
	assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
}

func TestDeleteProjectLeavesStoredBlobs(t *testing.T) {
	media := models.Media{
		ID:    uuid.NewString(),
		Kind:  models.MediaKindImage,
		Path:  "https://cdn.test/a.jpg",
		Store: &models.StoreDescriptor{StoreID: "portfolio/projects/x/a.jpg"},
	}
	project := newProjectFixture(media)
	projects := newFakeProjectStore(project)
	store := newFakeMediaStore()
	svc := NewProjectService(projects)

	deleted, err := svc.Delete(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, "demo", deleted.Name)
	assert.Equal(t, 1, projects.deletes)
	assert.Empty(t, store.deletes)

	_, err = svc.Get(context.Background(), project.ID)
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.Delete(context.Background(), project.ID)
	assert.True(t, errs.IsNotFound(err))
}
