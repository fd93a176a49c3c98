package generation

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storynest/internal/observability"
)

// MediaSearcher finds lullaby music and videos through the sidecar, which
// fronts the Jamendo and YouTube lookups.
type MediaSearcher interface {
	SearchMusic(ctx context.Context, theme string) ([]MusicTrack, error)
	SearchVideos(ctx context.Context, theme string) ([]VideoResult, error)
	Healthy(ctx context.Context) bool
}

// MusicTrack is one Jamendo result as the sidecar returns it.
type MusicTrack struct {
	Name       string `json:"name"`
	ArtistName string `json:"artist_name"`
	Duration   int    `json:"duration"`
	Audio      string `json:"audio"`
	Image      string `json:"image"`
}

// VideoResult is one YouTube result as the sidecar returns it.
type VideoResult struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

func (c *Client) SearchMusic(ctx context.Context, theme string) ([]MusicTrack, error) {
	var result struct {
		MusicResults []MusicTrack `json:"music_results"`
	}
	err := c.post(ctx, "/search/url", map[string]string{
		"theme": theme,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.MusicResults, nil
}

func (c *Client) SearchVideos(ctx context.Context, theme string) ([]VideoResult, error) {
	var result struct {
		VideoResults []VideoResult `json:"video_results"`
	}
	err := c.post(ctx, "/search/video", map[string]string{
		"theme": theme,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.VideoResults, nil
}

// Healthy reports whether the sidecar answers its health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveGenerationRequest("/health", "error", start)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		observability.ObserveGenerationRequest("/health", fmt.Sprintf("%d", resp.StatusCode), start)
		return false
	}
	observability.ObserveGenerationRequest("/health", "ok", start)
	return true
}
