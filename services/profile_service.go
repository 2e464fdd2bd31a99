package services

import (
	"context"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/mediastore"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

// MaxAvatarSize is the upload limit for profile pictures.
const MaxAvatarSize int64 = 5 * 1024 * 1024

type ProfileStore interface {
	Get(ctx context.Context) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
}

// ProfileInput is the body of a profile update. Absent fields are left untouched.
type ProfileInput struct {
	Name       *string              `json:"name" validate:"omitempty,max=100"`
	Title      *string              `json:"title" validate:"omitempty,max=200"`
	Bio        *string              `json:"bio"`
	Avatar     *string              `json:"avatar"`
	Email      *string              `json:"email" validate:"omitempty,email"`
	Phone      *string              `json:"phone"`
	Location   *string              `json:"location"`
	Website    *string              `json:"website"`
	Github     *string              `json:"github"`
	Facebook   *string              `json:"facebook"`
	Linkedin   *string              `json:"linkedin"`
	Skills     *StringList          `json:"skills"`
	Experience *[]models.Experience `json:"experience" validate:"omitempty,dive"`
	Education  *[]models.Education  `json:"education" validate:"omitempty,dive"`
}

func (in ProfileInput) patch() models.ProfilePatch {
	p := models.ProfilePatch{
		Name:       in.Name,
		Title:      in.Title,
		Bio:        in.Bio,
		Avatar:     in.Avatar,
		Email:      in.Email,
		Phone:      in.Phone,
		Location:   in.Location,
		Website:    in.Website,
		Github:     in.Github,
		Facebook:   in.Facebook,
		Linkedin:   in.Linkedin,
		Experience: in.Experience,
		Education:  in.Education,
	}
	if in.Skills != nil {
		skills := []string(*in.Skills)
		p.Skills = &skills
	}
	return p
}

type ProfileService struct {
	profiles   ProfileStore
	store      mediastore.Store
	metrics    *metrics.Metrics
	rootFolder string
	logger     zerolog.Logger
}

func NewProfileService(profiles ProfileStore, store mediastore.Store, m *metrics.Metrics, rootFolder string) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		store:      store,
		metrics:    m,
		rootFolder: rootFolder,
		logger:     log.With().Str("service", "ProfileService").Logger(),
	}
}

// Get returns the stored profile, creating the default one on first use.
func (s *ProfileService) Get(ctx context.Context) (*models.Profile, error) {
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Profile", err)
	}
	if profile != nil {
		return profile, nil
	}

	defaults := models.DefaultProfile()
	now := time.Now()
	defaults.CreatedAt, defaults.UpdatedAt = now, now
	if err := s.profiles.Save(ctx, &defaults); err != nil {
		return nil, errs.NewDatabaseError("create", "Profile", err)
	}
	s.logger.Info().Msg("default profile created")
	return &defaults, nil
}

func (s *ProfileService) Update(ctx context.Context, in ProfileInput) (*models.Profile, error) {
	trim(in.Name)
	trim(in.Title)
	trim(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	profile, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	in.patch().Apply(profile)
	profile.UpdatedAt = time.Now()
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, errs.NewDatabaseError("update", "Profile", err)
	}
	return profile, nil
}

// UploadAvatar stores an image and points the profile avatar at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, f *UploadFile) (*models.Profile, *mediastore.Descriptor, error) {
	if f == nil {
		return nil, nil, errs.NewBadRequestErrorWithField("No avatar file provided", "avatar", "")
	}
	if kind, ok := models.ClassifyMime(f.ContentType); !ok || kind != models.MediaKindImage {
		return nil, nil, errs.NewBadRequestErrorWithField("Avatar must be an image file", "avatar", "")
	}
	if f.Size > MaxAvatarSize {
		return nil, nil, errs.NewBadRequestErrorWithField("Avatar file too large. Maximum size is 5MB.", "avatar", f.Describe())
	}

	profile, err := s.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	desc, err := s.store.Upload(ctx, mediastore.UploadInput{
		Folder:      path.Join(s.rootFolder, "profile"),
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
		Mode:        mediastore.ModeSingle,
	})
	s.metrics.ObserveUpload(mediastore.ModeSingle.String(), time.Since(start))
	if err != nil {
		s.metrics.RecordUpload("avatar", mediastore.ModeSingle.String(), "failed")
		s.logger.Error().Err(err).Str("file", f.Filename).Msg("avatar upload failed")
		return nil, nil, err
	}
	s.metrics.RecordUpload("avatar", mediastore.ModeSingle.String(), "ok")

	profile.Avatar = desc.SecureURL
	profile.UpdatedAt = time.Now()
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, nil, errs.NewDatabaseError("update", "Profile", err)
	}
	return profile, desc, nil
}
