package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rpupo63/portfolio-site-backend/mediastore"
	"github.com/rpupo63/portfolio-site-backend/metrics"
	"github.com/rpupo63/portfolio-site-backend/models"
)

const (
	// MaxUploadSize is the hard per-file limit. Larger videos go through the YouTube link path.
	MaxUploadSize int64 = 100 * 1024 * 1024
	// StreamingThreshold is the size above which files are sent in parts.
	StreamingThreshold int64 = 25 * 1024 * 1024

	uploadConcurrency  = 3
	videoUploadTimeout = 5 * time.Minute
)

// ProjectStore loads and saves whole project aggregates.
type ProjectStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Save(ctx context.Context, project *models.Project) error
}

// UploadFile is one file of an upload batch.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// IngestResult lists the records added to the project, in input order, and the
// reasons the other files were skipped.
type IngestResult struct {
	Uploaded []models.Media
	Errors   []string
	Project  *models.Project
}

type MediaService struct {
	projects     ProjectStore
	store        mediastore.Store
	titles       TitleLookup
	metrics      *metrics.Metrics
	rootFolder   string
	videoTimeout time.Duration
	maxFileSize  int64
	streamAbove  int64
	logger       zerolog.Logger
}

type MediaOption func(*MediaService)

// WithUploadLimits overrides the per-file hard limit and the streaming threshold.
func WithUploadLimits(maxFileSize, streamAbove int64) MediaOption {
	return func(s *MediaService) {
		s.maxFileSize = maxFileSize
		s.streamAbove = streamAbove
	}
}

// NewMediaService wires the ingestion pipeline. titles and m may be nil.
func NewMediaService(projects ProjectStore, store mediastore.Store, titles TitleLookup, m *metrics.Metrics, rootFolder string, opts ...MediaOption) *MediaService {
	s := &MediaService{
		projects:     projects,
		store:        store,
		titles:       titles,
		metrics:      m,
		rootFolder:   rootFolder,
		videoTimeout: videoUploadTimeout,
		maxFileSize:  MaxUploadSize,
		streamAbove:  StreamingThreshold,
		logger:       log.With().Str("service", "MediaService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadLimit is the largest file IngestUploads accepts.
func (s *MediaService) UploadLimit() int64 {
	return s.maxFileSize
}

func (s *MediaService) limitMB() int {
	return int(s.maxFileSize >> 20)
}

type uploadOutcome struct {
	media      models.Media
	failure    string
	validation bool
}

func (o uploadOutcome) failed() bool { return o.failure != "" }

// IngestUploads stores every acceptable file, appends the resulting records to the
// project in input order and saves the project once.
func (s *MediaService) IngestUploads(ctx context.Context, projectID uuid.UUID, files []UploadFile, markFirstAsMain bool) (*IngestResult, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errs.NewNoFilesError()
	}

	var oversized []string
	for _, f := range files {
		if f.Size > s.maxFileSize {
			oversized = append(oversized, f.Describe())
		}
	}
	if len(oversized) == len(files) {
		s.logger.Warn().Strs("files", oversized).Msg("rejecting batch of oversized files")
		return nil, errs.NewFilesTooLargeError(oversized, s.limitMB())
	}

	outcomes := make([]uploadOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(uploadConcurrency)

	for i, f := range files {
		if f.Size > s.maxFileSize {
			outcomes[i] = uploadOutcome{
				failure:    errs.FileTooLargeReason(f.Describe(), s.limitMB()),
				validation: true,
			}
			s.metrics.RecordUpload("unknown", "none", "rejected")
			continue
		}
		kind, ok := models.ClassifyMime(f.ContentType)
		if !ok {
			outcomes[i] = uploadOutcome{
				failure:    fmt.Sprintf("Invalid file type: %s", f.Filename),
				validation: true,
			}
			s.metrics.RecordUpload("unknown", "none", "rejected")
			continue
		}
		i, f := i, f
		// per-file failures are recorded in outcomes; the group never aborts
		g.Go(func() error {
			outcomes[i] = s.uploadOne(ctx, projectID, f, kind)
			return nil
		})
	}
	_ = g.Wait()

	result := &IngestResult{}
	allValidation := true
	for _, o := range outcomes {
		if o.failed() {
			result.Errors = append(result.Errors, o.failure)
			allValidation = allValidation && o.validation
			continue
		}
		result.Uploaded = append(result.Uploaded, o.media)
	}

	if len(result.Uploaded) == 0 {
		status := http.StatusInternalServerError
		if allValidation {
			status = http.StatusBadRequest
		}
		return nil, errs.NewBatchFailedError(status, result.Errors)
	}

	project.AppendMedia(result.Uploaded...)
	if markFirstAsMain {
		main, err := project.SetMain(result.Uploaded[0].ID)
		if err != nil {
			return nil, errs.NewInternalErrorWithCause("failed to mark main media", err)
		}
		result.Uploaded[0] = main
	}

	project.UpdatedAt = time.Now()
	if err := s.projects.Save(ctx, project); err != nil {
		return nil, errs.NewDatabaseError("save", "Project", err)
	}

	s.logger.Info().
		Str("projectId", projectID.String()).
		Int("uploaded", len(result.Uploaded)).
		Int("failed", len(result.Errors)).
		Msg("media batch ingested")

	result.Project = project
	return result, nil
}

func (s *MediaService) uploadOne(ctx context.Context, projectID uuid.UUID, f UploadFile, kind models.MediaKind) uploadOutcome {
	folder := s.projectFolder(projectID)
	if kind == models.MediaKindVideo {
		folder = path.Join(folder, "videos")
	}

	mode := mediastore.ModeSingle
	if f.Size > s.streamAbove {
		mode = mediastore.ModeStreaming
	}

	uploadCtx := ctx
	if kind == models.MediaKindVideo {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.videoTimeout)
		defer cancel()
	}

	logger := s.logger.With().Str("file", f.Filename).Str("kind", string(kind)).Str("mode", mode.String()).Logger()
	logger.Debug().Int64("size", f.Size).Msg("uploading file")

	start := time.Now()
	desc, err := s.store.Upload(uploadCtx, mediastore.UploadInput{
		Folder:      folder,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		Body:        f.Body,
		Mode:        mode,
	})
	s.metrics.ObserveUpload(mode.String(), time.Since(start))
	if err != nil {
		reason := failureReason(err)
		if errors.Is(uploadCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			reason = "Upload timeout after " + humanDuration(s.videoTimeout)
		}
		logger.Error().Err(err).Msg("upload failed")
		s.metrics.RecordUpload(string(kind), mode.String(), "failed")
		return uploadOutcome{failure: fmt.Sprintf("Failed to upload %s: %s", f.Filename, reason)}
	}
	s.metrics.RecordUpload(string(kind), mode.String(), "ok")

	size := desc.Bytes
	if size == 0 {
		size = f.Size
	}
	media := models.Media{
		ID:           uuid.NewString(),
		Kind:         kind,
		Filename:     f.Filename,
		OriginalName: f.Filename,
		Path:         desc.SecureURL,
		Size:         size,
		MimeType:     f.ContentType,
		Store: &models.StoreDescriptor{
			StoreID:   desc.StoreID,
			SecureURL: desc.SecureURL,
			Width:     desc.Width,
			Height:    desc.Height,
			Format:    desc.Format,
			Duration:  desc.Duration,
			Bytes:     size,
		},
	}
	if kind == models.MediaKindVideo {
		media.Duration = desc.Duration
	}
	return uploadOutcome{media: media}
}

// IngestExternalVideoLink adds a YouTube video to the project without storing any bytes.
func (s *MediaService) IngestExternalVideoLink(ctx context.Context, projectID uuid.UUID, rawURL string, markAsMain bool) (models.Media, error) {
	if rawURL == "" {
		return models.Media{}, errs.NewBadRequestErrorWithField("YouTube URL is required", "youtubeUrl", "")
	}
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return models.Media{}, err
	}

	videoID, ok := ExtractYouTubeID(rawURL)
	if !ok {
		return models.Media{}, errs.NewInvalidInputError("Invalid YouTube URL")
	}

	title := s.lookupTitle(ctx, videoID)
	watchURL := youTubeWatchURL(videoID)
	filename := "youtube-" + videoID

	media := models.Media{
		ID:           uuid.NewString(),
		Kind:         models.MediaKindVideo,
		Filename:     filename,
		OriginalName: title,
		Path:         watchURL,
		Size:         0,
		MimeType:     models.YouTubeMimeType,
		Store: &models.StoreDescriptor{
			StoreID:   path.Join(s.projectFolder(projectID), "videos", filename),
			SecureURL: watchURL,
			Format:    "youtube",
		},
		YouTube: &models.YouTubeDescriptor{
			YouTubeID:   videoID,
			OriginalURL: rawURL,
			Title:       title,
		},
	}

	project.AppendMedia(media)
	if markAsMain {
		if media, err = project.SetMain(media.ID); err != nil {
			return models.Media{}, errs.NewInternalErrorWithCause("failed to mark main media", err)
		}
	}

	project.UpdatedAt = time.Now()
	if err := s.projects.Save(ctx, project); err != nil {
		return models.Media{}, errs.NewDatabaseError("save", "Project", err)
	}
	s.logger.Info().Str("projectId", projectID.String()).Str("youtubeId", videoID).Msg("youtube video linked")
	return media, nil
}

// SetMain makes mediaID the project's single main element.
func (s *MediaService) SetMain(ctx context.Context, projectID uuid.UUID, mediaID string) (models.Media, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return models.Media{}, err
	}

	media, err := project.SetMain(mediaID)
	if errors.Is(err, models.ErrMediaNotFound) {
		return models.Media{}, errs.NewNotFoundError("Media not found")
	}
	if err != nil {
		return models.Media{}, err
	}

	project.UpdatedAt = time.Now()
	if err := s.projects.Save(ctx, project); err != nil {
		return models.Media{}, errs.NewDatabaseError("save", "Project", err)
	}
	return media, nil
}

// DeleteMedia removes one element from the project. The stored blob is left in place.
func (s *MediaService) DeleteMedia(ctx context.Context, projectID uuid.UUID, mediaID string) (models.Media, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return models.Media{}, err
	}

	removed, err := project.RemoveMedia(mediaID)
	if errors.Is(err, models.ErrMediaNotFound) {
		return models.Media{}, errs.NewNotFoundError("Media not found")
	}
	if err != nil {
		return models.Media{}, err
	}

	project.UpdatedAt = time.Now()
	if err := s.projects.Save(ctx, project); err != nil {
		return models.Media{}, errs.NewDatabaseError("save", "Project", err)
	}
	s.logger.Info().Str("projectId", projectID.String()).Str("mediaId", mediaID).Msg("media removed")
	return removed, nil
}

func (s *MediaService) loadProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "Project", err)
	}
	return project, nil
}

func (s *MediaService) lookupTitle(ctx context.Context, videoID string) string {
	if s.titles == nil {
		return youTubePlaceholderTitle(videoID)
	}
	title, err := s.titles.LookupTitle(ctx, videoID)
	if err != nil || title == "" {
		s.logger.Debug().Err(err).Str("youtubeId", videoID).Msg("title lookup failed, using placeholder")
		return youTubePlaceholderTitle(videoID)
	}
	return title
}

func (s *MediaService) projectFolder(projectID uuid.UUID) string {
	return path.Join(s.rootFolder, "projects", projectID.String())
}

func humanDuration(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	}
	return d.String()
}

// Describe names the file with its size in MB, as used in size errors.
func (f UploadFile) Describe() string {
	return fmt.Sprintf("%s (%.2fMB)", f.Filename, float64(f.Size)/(1024*1024))
}

// failureReason prefers the underlying cause so clients see what the store reported.
func failureReason(err error) string {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.Cause != nil {
		return apiErr.Cause.Error()
	}
	return err.Error()
}
