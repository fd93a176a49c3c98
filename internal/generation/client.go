// Package generation wraps the HTTP API of the media generation sidecar.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storynest/internal/config"
	"storynest/internal/models"
	"storynest/internal/observability"
)

// Generator is the interface services program against. Implementations must
// honor ctx cancellation; every call is bounded by the configured timeout.
type Generator interface {
	GenerateStory(ctx context.Context, theme, voice string) (*StoryResult, error)
	GenerateImage(ctx context.Context, title, content string) (string, error)
	GenerateVoice(ctx context.Context, content, voice string) (string, error)
	CreateVideo(ctx context.Context, imagePath, audioPath, title string) (string, error)
	CreateThumbnail(ctx context.Context, videoPath string) (string, error)
	ConvertToColoringBook(ctx context.Context, imagePath string) (string, error)
}

// StoryResult is the generated story text.
type StoryResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Client calls the generation sidecar over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client from configuration. The HTTP client timeout is
// the hard upper bound; per-call contexts may shorten it.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.GenerationBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GenerationTimeoutDuration(),
		},
	}
}

// post sends a JSON request and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	start := time.Now()
	ctx, span := observability.TraceGenerationCall(ctx, endpoint)
	defer span.End()

	body, err := json.Marshal(payload)
	if err != nil {
		return models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveGenerationRequest(endpoint, "error", start)
		span.RecordError(err)
		return models.NewDependencyError("generation service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		observability.ObserveGenerationRequest(endpoint, fmt.Sprintf("%d", resp.StatusCode), start)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("generation %s returned %d: %s", endpoint, resp.StatusCode, msg)
		span.RecordError(err)
		return models.NewDependencyError("generation request failed", err)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		observability.ObserveGenerationRequest(endpoint, "decode_error", start)
		return models.NewDependencyError("generation response malformed", err)
	}

	observability.ObserveGenerationRequest(endpoint, "ok", start)
	return nil
}

func (c *Client) GenerateStory(ctx context.Context, theme, voice string) (*StoryResult, error) {
	var result StoryResult
	err := c.post(ctx, "/story/generate", map[string]string{
		"theme": theme,
		"voice": voice,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GenerateImage(ctx context.Context, title, content string) (string, error) {
	var result struct {
		ImagePath string `json:"image_path"`
	}
	err := c.post(ctx, "/image/generate", map[string]string{
		"title":   title,
		"content": content,
	}, &result)
	return result.ImagePath, err
}

func (c *Client) GenerateVoice(ctx context.Context, content, voice string) (string, error) {
	var result struct {
		AudioPath string `json:"audio_path"`
	}
	err := c.post(ctx, "/voice/generate", map[string]string{
		"content": content,
		"voice":   voice,
	}, &result)
	return result.AudioPath, err
}

// CreateVideo synthesizes a slideshow video from the story image and
// narration audio. The sidecar returns a path on its local volume.
func (c *Client) CreateVideo(ctx context.Context, imagePath, audioPath, title string) (string, error) {
	var result struct {
		VideoPath string `json:"video_path"`
	}
	err := c.post(ctx, "/video/create-from-image-audio", map[string]string{
		"image_path": imagePath,
		"audio_path": audioPath,
		"title":      title,
	}, &result)
	return result.VideoPath, err
}

func (c *Client) CreateThumbnail(ctx context.Context, videoPath string) (string, error) {
	var result struct {
		ThumbnailPath string `json:"thumbnail_path"`
	}
	err := c.post(ctx, "/video/create-thumbnail", map[string]string{
		"video_path": videoPath,
	}, &result)
	return result.ThumbnailPath, err
}

func (c *Client) ConvertToColoringBook(ctx context.Context, imagePath string) (string, error) {
	var result struct {
		ImagePath string `json:"image_path"`
	}
	err := c.post(ctx, "/coloring/convert", map[string]string{
		"image_path": imagePath,
	}, &result)
	return result.ImagePath, err
}
