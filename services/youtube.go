package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var youTubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractYouTubeID returns the video id from a watch, short, embed or legacy URL
// on youtube.com or youtu.be.
func ExtractYouTubeID(rawURL string) (string, bool) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(strings.TrimPrefix(host, "www."), "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		if len(segments) == 1 {
			id = segments[0]
		}
	case "youtube.com":
		switch {
		case len(segments) == 1 && segments[0] == "watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "v" || segments[0] == "shorts"):
			id = segments[1]
		}
	}
	if !youTubeIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func youTubeWatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func youTubePlaceholderTitle(videoID string) string {
	return fmt.Sprintf("YouTube Video (%s)", videoID)
}

// TitleLookup resolves a human readable title for a linked video.
type TitleLookup interface {
	LookupTitle(ctx context.Context, videoID string) (string, error)
}

const defaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// OEmbedTitleLookup asks the public oEmbed endpoint for the video title.
type OEmbedTitleLookup struct {
	client   *http.Client
	endpoint string
}

func NewOEmbedTitleLookup() *OEmbedTitleLookup {
	return &OEmbedTitleLookup{
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: defaultOEmbedEndpoint,
	}
}

func (l *OEmbedTitleLookup) LookupTitle(ctx context.Context, videoID string) (string, error) {
	query := url.Values{}
	query.Set("url", youTubeWatchURL(videoID))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding oembed response: %w", err)
	}
	if strings.TrimSpace(body.Title) == "" {
		return "", fmt.Errorf("oembed response has no title")
	}
	return body.Title, nil
}
