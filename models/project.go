package models

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "ACTIVE"
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
	ProjectStatusDraft    ProjectStatus = "DRAFT"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusArchived, ProjectStatusDraft:
		return true
	}
	return false
}

// ErrMediaNotFound is returned when a media id is not part of the project.
var ErrMediaNotFound = errors.New("media not found")

// Project is a portfolio entry. Its media collection is embedded in the row as jsonb,
// so the whole aggregate is loaded and saved together.
type Project struct {
	ID           uuid.UUID                  `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name         string                     `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Description  string                     `json:"description" db:"description" gorm:"type:text;not null"`
	Technologies datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"type:jsonb;not null"`
	GithubURL    *string                    `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	LiveURL      *string                    `json:"liveUrl,omitempty" db:"live_url" gorm:"type:text"`
	Status       ProjectStatus              `json:"status" db:"status" gorm:"type:text;not null;default:'ACTIVE';index"`
	Priority     int                        `json:"priority" db:"priority" gorm:"type:integer;not null;default:0;index"`
	MainImage    *string                    `json:"mainImage,omitempty" db:"main_image" gorm:"type:text"`
	Media        datatypes.JSONSlice[Media] `json:"media" db:"media" gorm:"type:jsonb;not null"`
	CreatedBy    *uuid.UUID                 `json:"createdBy,omitempty" db:"created_by" gorm:"type:uuid"`
	CreatedAt    time.Time                  `json:"createdAt" db:"created_at" gorm:"not null;index"`
	UpdatedAt    time.Time                  `json:"updatedAt" db:"updated_at" gorm:"not null"`
}

// MarshalJSON adds the image and video views that admin clients render separately.
func (p Project) MarshalJSON() ([]byte, error) {
	type projectAlias Project
	media := p.Media
	if media == nil {
		media = datatypes.JSONSlice[Media]{}
	}
	technologies := p.Technologies
	if technologies == nil {
		technologies = datatypes.JSONSlice[string]{}
	}
	alias := projectAlias(p)
	alias.Media = media
	alias.Technologies = technologies
	return json.Marshal(struct {
		projectAlias
		Images []Media `json:"images"`
		Videos []Media `json:"videos"`
	}{
		projectAlias: alias,
		Images:       p.Images(),
		Videos:       p.Videos(),
	})
}

// Images returns the image elements in collection order.
func (p *Project) Images() []Media {
	return p.mediaOfKind(MediaKindImage)
}

// Videos returns the video elements in collection order.
func (p *Project) Videos() []Media {
	return p.mediaOfKind(MediaKindVideo)
}

func (p *Project) mediaOfKind(kind MediaKind) []Media {
	out := make([]Media, 0, len(p.Media))
	for _, m := range p.Media {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

func (p *Project) indexOf(mediaID string) int {
	for i := range p.Media {
		if p.Media[i].ID == mediaID {
			return i
		}
	}
	return -1
}

// FindMedia returns a copy of the element with the given id.
func (p *Project) FindMedia(mediaID string) (Media, bool) {
	i := p.indexOf(mediaID)
	if i < 0 {
		return Media{}, false
	}
	return p.Media[i], true
}

// MainMedia returns the element currently flagged as main, if any.
func (p *Project) MainMedia() (Media, bool) {
	for _, m := range p.Media {
		if m.IsMain {
			return m, true
		}
	}
	return Media{}, false
}

// AppendMedia adds elements at the end of the collection. isMain is cleared on
// the new elements; SetMain is the only way to raise it.
func (p *Project) AppendMedia(items ...Media) {
	for _, m := range items {
		m.IsMain = false
		p.Media = append(p.Media, m)
	}
}

// SetMain makes mediaID the single main element and points MainImage at its path.
// Calling it again with the same id leaves the project unchanged.
func (p *Project) SetMain(mediaID string) (Media, error) {
	target := p.indexOf(mediaID)
	if target < 0 {
		return Media{}, ErrMediaNotFound
	}
	for i := range p.Media {
		p.Media[i].IsMain = false
	}
	p.Media[target].IsMain = true
	path := p.Media[target].Path
	p.MainImage = &path
	return p.Media[target], nil
}

// RemoveMedia deletes the element with mediaID. If it was the main element, or its
// path is the current MainImage, MainImage is cleared. No other element is promoted.
func (p *Project) RemoveMedia(mediaID string) (Media, error) {
	i := p.indexOf(mediaID)
	if i < 0 {
		return Media{}, ErrMediaNotFound
	}
	removed := p.Media[i]
	p.Media = append(p.Media[:i:i], p.Media[i+1:]...)

	if removed.IsMain || (p.MainImage != nil && *p.MainImage == removed.Path) {
		p.MainImage = nil
	}
	return removed, nil
}

// ProjectPatch carries a partial update. A nil field leaves the attribute untouched.
type ProjectPatch struct {
	Name         *string
	Description  *string
	Technologies *[]string
	GithubURL    *string
	LiveURL      *string
	Status       *ProjectStatus
	Priority     *int
}

// Apply overwrites every attribute present in the patch. Empty URL strings clear the link.
func (patch ProjectPatch) Apply(p *Project) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Technologies != nil {
		p.Technologies = datatypes.JSONSlice[string](*patch.Technologies)
	}
	if patch.GithubURL != nil {
		p.GithubURL = optionalString(*patch.GithubURL)
	}
	if patch.LiveURL != nil {
		p.LiveURL = optionalString(*patch.LiveURL)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Priority != nil {
		p.Priority = *patch.Priority
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
