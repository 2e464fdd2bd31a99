package models

import "strings"

// MediaKind tags an element of Project.Media.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// YouTubeMimeType marks a linked YouTube video that has no uploaded bytes.
const YouTubeMimeType = "video/youtube"

// ClassifyMime maps a MIME type onto a media kind by prefix. ok is false for
// anything that is neither an image nor a video.
func ClassifyMime(mimeType string) (kind MediaKind, ok bool) {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(m, "image/"):
		return MediaKindImage, true
	case strings.HasPrefix(m, "video/"):
		return MediaKindVideo, true
	default:
		return "", false
	}
}

// StoreDescriptor is what the media store reported for an uploaded blob.
type StoreDescriptor struct {
	StoreID   string  `json:"storeId"`
	SecureURL string  `json:"secureUrl"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Format    string  `json:"format,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Bytes     int64   `json:"bytes,omitempty"`
}

// YouTubeDescriptor identifies a video hosted on YouTube rather than in the store.
type YouTubeDescriptor struct {
	YouTubeID   string `json:"youtubeId"`
	OriginalURL string `json:"originalUrl"`
	Title       string `json:"title"`
}

// Media is one element of a project's media collection. Image and video
// variants share the same shape; Duration, Thumbnail and YouTube only apply to videos.
type Media struct {
	ID           string             `json:"id"`
	Kind         MediaKind          `json:"kind"`
	Filename     string             `json:"filename"`
	OriginalName string             `json:"originalName"`
	Path         string             `json:"path"`
	Size         int64              `json:"size"`
	MimeType     string             `json:"mimeType"`
	IsMain       bool               `json:"isMain"`
	Alt          string             `json:"alt,omitempty"`
	Duration     float64            `json:"duration,omitempty"`
	Thumbnail    string             `json:"thumbnail,omitempty"`
	Store        *StoreDescriptor   `json:"store,omitempty"`
	YouTube      *YouTubeDescriptor `json:"youtube,omitempty"`
}

func (m Media) IsImage() bool { return m.Kind == MediaKindImage }
func (m Media) IsVideo() bool { return m.Kind == MediaKindVideo }

// IsExternalLink reports whether the video points at YouTube instead of the store.
func (m Media) IsExternalLink() bool { return m.YouTube != nil }
