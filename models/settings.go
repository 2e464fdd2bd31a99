package models

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds the site-wide options editable from the admin panel. Only one row exists.
type Settings struct {
	ID                        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	SiteName                  string    `json:"siteName" db:"site_name" gorm:"type:text;not null"`
	SiteDescription           string    `json:"siteDescription" db:"site_description" gorm:"type:text;not null"`
	AdminEmail                string    `json:"adminEmail" db:"admin_email" gorm:"type:text;not null"`
	EmailNotificationsEnabled bool      `json:"emailNotificationsEnabled" db:"email_notifications_enabled" gorm:"not null;default:false"`
	CreatedAt                 time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt                 time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultSettings is stored the first time the settings are read.
func DefaultSettings(adminEmail string, emailConfigured bool) Settings {
	if adminEmail == "" {
		adminEmail = "admin@example.com"
	}
	return Settings{
		SiteName:                  "Portfolio",
		SiteDescription:           "Developer Portfolio",
		AdminEmail:                adminEmail,
		EmailNotificationsEnabled: emailConfigured,
	}
}

// SettingsPatch carries a partial update from the admin panel.
type SettingsPatch struct {
	SiteName                  *string `json:"siteName"`
	SiteDescription           *string `json:"siteDescription"`
	AdminEmail                *string `json:"adminEmail" validate:"omitempty,email"`
	EmailNotificationsEnabled *bool   `json:"emailNotificationsEnabled"`
}

func (patch SettingsPatch) Apply(s *Settings) {
	setString(&s.SiteName, patch.SiteName)
	setString(&s.SiteDescription, patch.SiteDescription)
	setString(&s.AdminEmail, patch.AdminEmail)
	if patch.EmailNotificationsEnabled != nil {
		s.EmailNotificationsEnabled = *patch.EmailNotificationsEnabled
	}
}
