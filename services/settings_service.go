package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/models"
)

type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	Ping(ctx context.Context) error
}

type ServiceStatus struct {
	Configured bool   `json:"configured"`
	Status     string `json:"status"`
}

type DatabaseStatus struct {
	Connected bool   `json:"connected"`
	Status    string `json:"status"`
}

type RoutesStatus struct {
	Status string `json:"status"`
}

// SystemStatus is the health overview shown on the admin settings page.
type SystemStatus struct {
	EmailService ServiceStatus  `json:"emailService"`
	Database     DatabaseStatus `json:"database"`
	APIRoutes    RoutesStatus   `json:"apiRoutes"`
}

type SettingsService struct {
	store           SettingsStore
	emailConfigured bool
	adminEmail      string
	logger          zerolog.Logger
}

func NewSettingsService(store SettingsStore, emailConfigured bool, adminEmail string) *SettingsService {
	return &SettingsService{
		store:           store,
		emailConfigured: emailConfigured,
		adminEmail:      adminEmail,
		logger:          log.With().Str("service", "SettingsService").Logger(),
	}
}

// Current returns the stored settings, saving the defaults on first use.
func (s *SettingsService) Current(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.Get(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Settings", err)
	}
	if settings != nil {
		return settings, nil
	}

	defaults := models.DefaultSettings(s.adminEmail, s.emailConfigured)
	now := time.Now()
	defaults.CreatedAt, defaults.UpdatedAt = now, now
	if err := s.store.Save(ctx, &defaults); err != nil {
		return nil, errs.NewDatabaseError("create", "Settings", err)
	}
	return &defaults, nil
}

func (s *SettingsService) Update(ctx context.Context, patch models.SettingsPatch) (*models.Settings, error) {
	if err := validateStruct(patch); err != nil {
		return nil, err
	}
	if patch.EmailNotificationsEnabled != nil && *patch.EmailNotificationsEnabled && !s.emailConfigured {
		return nil, errs.NewBadRequestErrorWithField(
			"Cannot enable email notifications: SMTP not configured",
			"emailNotificationsEnabled",
			"set SMTP_USER and SMTP_PASS",
		)
	}

	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	patch.Apply(settings)
	settings.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, settings); err != nil {
		return nil, errs.NewDatabaseError("update", "Settings", err)
	}
	s.logger.Info().Msg("settings updated")
	return settings, nil
}

// NotificationTarget says whether and where contact submissions alert the admin.
type NotificationTarget struct {
	Enabled    bool
	AdminEmail string
	SiteName   string
}

// NotificationTarget falls back to the configured admin address when the settings
// cannot be read.
func (s *SettingsService) NotificationTarget(ctx context.Context) NotificationTarget {
	settings, err := s.Current(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("settings unavailable, notifying configured admin address")
		defaults := models.DefaultSettings(s.adminEmail, s.emailConfigured)
		return NotificationTarget{Enabled: s.emailConfigured, AdminEmail: defaults.AdminEmail, SiteName: defaults.SiteName}
	}
	target := NotificationTarget{
		Enabled:    settings.EmailNotificationsEnabled,
		AdminEmail: settings.AdminEmail,
		SiteName:   settings.SiteName,
	}
	if target.AdminEmail == "" {
		target.AdminEmail = s.adminEmail
	}
	return target
}

func (s *SettingsService) Status(ctx context.Context) SystemStatus {
	status := SystemStatus{
		EmailService: ServiceStatus{Configured: s.emailConfigured, Status: "not_configured"},
		Database:     DatabaseStatus{Status: "disconnected"},
		APIRoutes:    RoutesStatus{Status: "operational"},
	}
	if s.emailConfigured {
		status.EmailService.Status = "configured"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.store.Ping(pingCtx); err != nil {
		s.logger.Warn().Err(err).Msg("database ping failed")
	} else {
		status.Database = DatabaseStatus{Connected: true, Status: "connected"}
	}
	return status
}
