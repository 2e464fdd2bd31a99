package models

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProject() *Project {
	p := &Project{Name: "demo", Status: ProjectStatusActive}
	p.AppendMedia(
		Media{ID: "img-1", Kind: MediaKindImage, Path: "https://cdn.test/img-1.jpg"},
		Media{ID: "img-2", Kind: MediaKindImage, Path: "https://cdn.test/img-2.jpg"},
		Media{ID: "vid-1", Kind: MediaKindVideo, Path: "https://cdn.test/vid-1.mp4"},
		Media{ID: "vid-2", Kind: MediaKindVideo, Path: "https://www.youtube.com/watch?v=abc123", YouTube: &YouTubeDescriptor{YouTubeID: "abc123"}},
	)
	return p
}

// requireSingleMain checks the main-media invariant at an observation point.
func requireSingleMain(t *testing.T, p *Project) {
	t.Helper()
	mains := 0
	var mainPath string
	for _, m := range p.Media {
		if m.IsMain {
			mains++
			mainPath = m.Path
		}
	}
	require.LessOrEqual(t, mains, 1, "more than one main element")
	if p.MainImage != nil {
		require.Equal(t, 1, mains, "mainImage set without a main element")
		require.Equal(t, mainPath, *p.MainImage)
	}
}

func TestClassifyMime(t *testing.T) {
	cases := []struct {
		in   string
		want MediaKind
		ok   bool
	}{
		{in: "image/png", want: MediaKindImage, ok: true},
		{in: "IMAGE/JPEG", want: MediaKindImage, ok: true},
		{in: "video/mp4", want: MediaKindVideo, ok: true},
		{in: "application/pdf", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ClassifyMime(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAppendMediaClearsMainFlag(t *testing.T) {
	p := &Project{}
	p.AppendMedia(Media{ID: "a", Kind: MediaKindImage, IsMain: true})
	assert.False(t, p.Media[0].IsMain)
	assert.Nil(t, p.MainImage)
}

func TestSetMainAcrossKinds(t *testing.T) {
	p := newTestProject()

	got, err := p.SetMain("img-2")
	require.NoError(t, err)
	assert.Equal(t, "img-2", got.ID)
	requireSingleMain(t, p)
	assert.Equal(t, "https://cdn.test/img-2.jpg", *p.MainImage)

	got, err = p.SetMain("vid-1")
	require.NoError(t, err)
	assert.True(t, got.IsVideo())
	requireSingleMain(t, p)
	assert.Equal(t, "https://cdn.test/vid-1.mp4", *p.MainImage)

	for _, m := range p.Images() {
		assert.False(t, m.IsMain, "image %s kept main flag", m.ID)
	}
}

func TestSetMainIsIdempotent(t *testing.T) {
	once := newTestProject()
	_, err := once.SetMain("vid-2")
	require.NoError(t, err)

	twice := newTestProject()
	_, err = twice.SetMain("vid-2")
	require.NoError(t, err)
	_, err = twice.SetMain("vid-2")
	require.NoError(t, err)

	assert.Equal(t, once.Media, twice.Media)
	assert.Equal(t, *once.MainImage, *twice.MainImage)
}

func TestSetMainUnknownID(t *testing.T) {
	p := newTestProject()
	_, err := p.SetMain("img-1")
	require.NoError(t, err)

	_, err = p.SetMain("nope")
	require.ErrorIs(t, err, ErrMediaNotFound)

	// a failed call must not disturb the existing main element
	main, ok := p.MainMedia()
	require.True(t, ok)
	assert.Equal(t, "img-1", main.ID)
	requireSingleMain(t, p)
}

func TestRemoveMainClearsPointer(t *testing.T) {
	p := newTestProject()
	_, err := p.SetMain("img-1")
	require.NoError(t, err)

	removed, err := p.RemoveMedia("img-1")
	require.NoError(t, err)
	assert.Equal(t, "img-1", removed.ID)
	assert.Nil(t, p.MainImage)
	_, ok := p.MainMedia()
	assert.False(t, ok, "no element should be promoted")
	assert.Len(t, p.Media, 3)
}

func TestRemoveNonMainKeepsPointer(t *testing.T) {
	p := newTestProject()
	_, err := p.SetMain("vid-1")
	require.NoError(t, err)

	_, err = p.RemoveMedia("img-2")
	require.NoError(t, err)
	require.NotNil(t, p.MainImage)
	assert.Equal(t, "https://cdn.test/vid-1.mp4", *p.MainImage)
	requireSingleMain(t, p)
}

func TestRemoveClearsStalePointerByPath(t *testing.T) {
	p := newTestProject()
	stale := "https://cdn.test/img-2.jpg"
	p.MainImage = &stale

	_, err := p.RemoveMedia("img-2")
	require.NoError(t, err)
	assert.Nil(t, p.MainImage)
}

func TestRemoveUnknownID(t *testing.T) {
	p := newTestProject()
	_, err := p.RemoveMedia("missing")
	require.ErrorIs(t, err, ErrMediaNotFound)
	assert.Len(t, p.Media, 4)
}

func TestRandomSelectorSequenceKeepsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := &Project{}
	next := 0

	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			kind := MediaKindImage
			if rng.Intn(2) == 0 {
				kind = MediaKindVideo
			}
			p.AppendMedia(Media{ID: fmt.Sprintf("m-%d", next), Kind: kind, Path: fmt.Sprintf("https://cdn.test/%d", next)})
			next++
		case 1:
			if len(p.Media) > 0 {
				_, err := p.SetMain(p.Media[rng.Intn(len(p.Media))].ID)
				require.NoError(t, err)
			}
		case 2:
			if len(p.Media) > 0 {
				_, err := p.RemoveMedia(p.Media[rng.Intn(len(p.Media))].ID)
				require.NoError(t, err)
			}
		}
		requireSingleMain(t, p)
	}
}

func TestProjectJSONExposesImagesAndVideos(t *testing.T) {
	p := newTestProject()
	_, err := p.SetMain("img-1")
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded struct {
		MainImage string  `json:"mainImage"`
		Images    []Media `json:"images"`
		Videos    []Media `json:"videos"`
		Media     []Media `json:"media"`
		Techs     []any   `json:"technologies"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Len(t, decoded.Images, 2)
	assert.Len(t, decoded.Videos, 2)
	assert.Len(t, decoded.Media, 4)
	assert.NotNil(t, decoded.Techs)
	assert.True(t, decoded.Images[0].IsMain)
	assert.Equal(t, "https://cdn.test/img-1.jpg", decoded.MainImage)
}

func TestProjectPatchApply(t *testing.T) {
	github := "https://github.com/me/demo"
	p := &Project{Name: "old", Description: "keep", GithubURL: &github, Priority: 5}

	name := "new"
	empty := ""
	prio := 90
	status := ProjectStatusDraft
	techs := []string{"Go", "Postgres"}
	ProjectPatch{Name: &name, GithubURL: &empty, Priority: &prio, Status: &status, Technologies: &techs}.Apply(p)

	assert.Equal(t, "new", p.Name)
	assert.Equal(t, "keep", p.Description)
	assert.Nil(t, p.GithubURL)
	assert.Equal(t, 90, p.Priority)
	assert.Equal(t, ProjectStatusDraft, p.Status)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(p.Technologies))
}
