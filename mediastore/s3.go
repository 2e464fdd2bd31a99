package mediastore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appconfig "github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type multipartUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store keeps media in an S3 compatible bucket.
type S3Store struct {
	client        objectPutter
	uploader      multipartUploader
	bucket        string
	region        string
	publicBaseURL string
	logger        zerolog.Logger
}

func NewS3Store(ctx context.Context, cfg appconfig.Storage) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errs.NewConfigError("S3_BUCKET", errors.New("bucket is required"))
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigError("S3", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = StreamingPartSize
		u.Concurrency = 2
	})

	return &S3Store{
		client:        client,
		uploader:      uploader,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        log.With().Str("service", "mediastore").Str("bucket", cfg.Bucket).Logger(),
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, in UploadInput) (*Descriptor, error) {
	if in.Body == nil {
		return nil, errs.NewBadRequestError("empty upload body")
	}

	key := objectKey(in.Folder, in.Filename)
	width, height, err := probeImage(in.ContentType, in.Body)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("upload body not rewindable")
		return nil, errs.NewInternalErrorWithCause("failed to read "+in.Filename, err)
	}

	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        in.Body,
		ContentType: aws.String(in.ContentType),
	}

	switch in.Mode {
	case ModeStreaming:
		uploadCtx, cancel := context.WithTimeout(ctx, StreamingUploadTimeout)
		defer cancel()
		s.logger.Info().Str("key", key).Int64("size", in.Size).Msg("streaming upload")
		_, err = s.uploader.Upload(uploadCtx, putInput)
	default:
		uploadCtx, cancel := context.WithTimeout(ctx, SingleUploadTimeout)
		defer cancel()
		putInput.ContentLength = aws.Int64(in.Size)
		_, err = s.client.PutObject(uploadCtx, putInput)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Str("mode", in.Mode.String()).Msg("upload failed")
		return nil, classifyStoreError("upload "+in.Filename, err)
	}

	return &Descriptor{
		StoreID:   key,
		SecureURL: s.publicURL(key),
		Width:     width,
		Height:    height,
		Format:    formatOf(in.Filename, in.ContentType),
		Bytes:     in.Size,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, storeID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storeID),
	})
	if err != nil {
		return classifyStoreError("delete "+storeID, err)
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func classifyStoreError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NewTimeoutError(operation, err)
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "SlowDown", "QuotaExceeded", "ServiceQuotaExceededException":
			return errs.NewQuotaExceededError("media store", err)
		case "RequestTimeout":
			return errs.NewTimeoutError(operation, err)
		}
	}
	return errs.NewUpstreamError("media store", err)
}

// objectKey builds a collision-free key under folder that keeps the original name readable.
func objectKey(folder, filename string) string {
	name := sanitizeFilename(filename)
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()[:8]+"-"+name)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 || b.String() == "." {
		return "file"
	}
	return b.String()
}
