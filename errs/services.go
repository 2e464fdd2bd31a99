package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Media ingestion errors
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNoFiles      = errors.New("No files provided")
	ErrBatchFailed  = errors.New("No files were uploaded successfully")
)

// Third-party service errors
var (
	ErrUpstream      = errors.New("upstream service failure")
	ErrTimeout       = errors.New("timeout")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrConfigMissing = errors.New("configuration missing")
)

func youTubeHint(limitMB int) string {
	return fmt.Sprintf("For videos larger than %dMB, please use the YouTube tab to add videos from YouTube instead.", limitMB)
}

// NewFilesTooLargeError rejects a batch in which every file is over the hard limit.
// The message names each file and points at the external video link path.
func NewFilesTooLargeError(described []string, limitMB int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err: labeled{
			fmt.Sprintf("Files too large: %s. Maximum allowed size is %dMB per file. %s",
				strings.Join(described, ", "), limitMB, youTubeHint(limitMB)),
			ErrFileTooLarge,
		},
	}
}

// NewUploadTooLargeError rejects a request body larger than a full batch allows.
func NewUploadTooLargeError(maxFiles, limitMB int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err: labeled{
			fmt.Sprintf("Upload too large. At most %d files of %dMB each are accepted per upload. %s",
				maxFiles, limitMB, youTubeHint(limitMB)),
			ErrFileTooLarge,
		},
	}
}

// FileTooLargeReason is the per-file entry reported when an oversized file is part of a mixed batch.
func FileTooLargeReason(described string, limitMB int) string {
	return fmt.Sprintf("File too large: %s. Maximum allowed size is %dMB per file. %s", described, limitMB, youTubeHint(limitMB))
}

func NewNoFilesError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrNoFiles,
		Field:      "files",
	}
}

// NewBatchFailedError aggregates per-file failures when nothing in a batch was ingested.
func NewBatchFailedError(statusCode int, perFile []string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		err:        ErrBatchFailed,
		Errors:     perFile,
	}
}

// NewUpstreamError wraps a failure reported by the media store or another
// third-party dependency. The cause is kept so callers can surface it.
func NewUpstreamError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrUpstream,
		Details:    fmt.Sprintf("%s request failed", service),
		Cause:      cause,
	}
}

func NewTimeoutError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTimeout,
		Details:    fmt.Sprintf("%s timed out", operation),
		Cause:      cause,
	}
}

func NewQuotaExceededError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrQuotaExceeded,
		Details:    fmt.Sprintf("%s quota exceeded. Please try again later.", service),
		Cause:      cause,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrQuotaExceeded)
}

func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
