package mediastore

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
)

// probeImage reads the image header for its dimensions and rewinds body.
// Unknown formats report zero dimensions; only a failed rewind is an error.
func probeImage(contentType string, body io.ReadSeeker) (width, height int, err error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return 0, 0, nil
	}

	cfg, _, decodeErr := image.DecodeConfig(body)
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return 0, 0, fmt.Errorf("rewinding upload body: %w", err)
	}
	if decodeErr != nil {
		return 0, 0, nil
	}
	return cfg.Width, cfg.Height, nil
}

// formatOf prefers the file extension and falls back to the MIME subtype.
func formatOf(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}
	if i := strings.Index(contentType, "/"); i >= 0 {
		sub := contentType[i+1:]
		if j := strings.IndexAny(sub, ";+"); j >= 0 {
			sub = sub[:j]
		}
		return strings.ToLower(strings.TrimSpace(sub))
	}
	return ""
}
