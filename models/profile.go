package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Experience struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Period      string `json:"period" validate:"required"`
	Description string `json:"description,omitempty"`
}

type Education struct {
	Degree      string `json:"degree" validate:"required"`
	Institution string `json:"institution" validate:"required"`
	Period      string `json:"period" validate:"required"`
	Description string `json:"description,omitempty"`
}

// Profile is the single "about me" document shown on the public site
type Profile struct {
	ID         uuid.UUID                       `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name       string                          `json:"name" db:"name" gorm:"type:varchar(100);not null"`
	Title      string                          `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Bio        string                          `json:"bio" db:"bio" gorm:"type:text"`
	Avatar     string                          `json:"avatar" db:"avatar" gorm:"type:text;not null"`
	Email      string                          `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Phone      string                          `json:"phone,omitempty" db:"phone" gorm:"type:text"`
	Location   string                          `json:"location,omitempty" db:"location" gorm:"type:text"`
	Website    string                          `json:"website,omitempty" db:"website" gorm:"type:text"`
	Github     string                          `json:"github,omitempty" db:"github" gorm:"type:text"`
	Facebook   string                          `json:"facebook,omitempty" db:"facebook" gorm:"type:text"`
	Linkedin   string                          `json:"linkedin,omitempty" db:"linkedin" gorm:"type:text"`
	Skills     datatypes.JSONSlice[string]     `json:"skills" db:"skills" gorm:"type:jsonb"`
	Experience datatypes.JSONSlice[Experience] `json:"experience" db:"experience" gorm:"type:jsonb"`
	Education  datatypes.JSONSlice[Education]  `json:"education" db:"education" gorm:"type:jsonb"`
	CreatedAt  time.Time                       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time                       `json:"updatedAt" db:"updated_at"`
}

// DefaultProfile is served until the owner saves a profile of their own.
func DefaultProfile() Profile {
	return Profile{
		Name:       "Portfolio Owner",
		Title:      "Frontend Developer",
		Bio:        "Passionate frontend developer creating amazing web experiences.",
		Avatar:     "/default-avatar.jpg",
		Location:   "Vietnam",
		Skills:     datatypes.JSONSlice[string]{"React", "TypeScript", "Next.js", "Tailwind CSS"},
		Experience: datatypes.JSONSlice[Experience]{},
		Education:  datatypes.JSONSlice[Education]{},
	}
}

// ProfilePatch carries a partial profile update. A nil field leaves the attribute untouched.
type ProfilePatch struct {
	Name       *string
	Title      *string
	Bio        *string
	Avatar     *string
	Email      *string
	Phone      *string
	Location   *string
	Website    *string
	Github     *string
	Facebook   *string
	Linkedin   *string
	Skills     *[]string
	Experience *[]Experience
	Education  *[]Education
}

func (patch ProfilePatch) Apply(p *Profile) {
	setString(&p.Name, patch.Name)
	setString(&p.Title, patch.Title)
	setString(&p.Bio, patch.Bio)
	setString(&p.Avatar, patch.Avatar)
	setString(&p.Email, patch.Email)
	setString(&p.Phone, patch.Phone)
	setString(&p.Location, patch.Location)
	setString(&p.Website, patch.Website)
	setString(&p.Github, patch.Github)
	setString(&p.Facebook, patch.Facebook)
	setString(&p.Linkedin, patch.Linkedin)
	if patch.Skills != nil {
		p.Skills = datatypes.JSONSlice[string](*patch.Skills)
	}
	if patch.Experience != nil {
		p.Experience = datatypes.JSONSlice[Experience](*patch.Experience)
	}
	if patch.Education != nil {
		p.Education = datatypes.JSONSlice[Education](*patch.Education)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
