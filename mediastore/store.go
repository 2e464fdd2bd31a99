// Package mediastore uploads project media to external object storage and
// reports back a canonical descriptor for each blob.
package mediastore

import (
	"context"
	"io"
	"time"
)

// UploadMode selects the transport used for a blob. It never changes the
// descriptor that comes back.
type UploadMode int

const (
	// ModeSingle sends the blob in one request.
	ModeSingle UploadMode = iota
	// ModeStreaming sends the blob in parts with a longer deadline.
	ModeStreaming
)

func (m UploadMode) String() string {
	if m == ModeStreaming {
		return "streaming"
	}
	return "single"
}

const (
	SingleUploadTimeout    = 2 * time.Minute
	StreamingUploadTimeout = 10 * time.Minute
	// StreamingPartSize is the part size used in streaming mode; S3 does not accept smaller parts.
	StreamingPartSize = 5 * 1024 * 1024
)

// UploadInput describes one blob to store.
type UploadInput struct {
	// Folder groups blobs per project, e.g. "portfolio/projects/<id>".
	Folder      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
	Mode        UploadMode
}

// Descriptor is the store's view of an uploaded blob.
type Descriptor struct {
	StoreID   string
	SecureURL string
	Width     int
	Height    int
	Duration  float64
	Format    string
	Bytes     int64
}

// Store is the boundary to the media hosting service.
type Store interface {
	Upload(ctx context.Context, in UploadInput) (*Descriptor, error)
	Delete(ctx context.Context, storeID string) error
}
