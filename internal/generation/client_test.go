package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storynest/internal/config"
	"storynest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.Config{
		GenerationBaseURL: srv.URL,
		GenerationTimeout: 5,
	})
}

func TestClient_CreateVideo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/video/create-from-image-audio", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/media/story.png", req["image_path"])
		assert.Equal(t, "/media/story.mp3", req["audio_path"])

		json.NewEncoder(w).Encode(map[string]string{"video_path": "/media/out/story.mp4"})
	})

	path, err := client.CreateVideo(context.Background(), "/media/story.png", "/media/story.mp3", "달님 안녕")
	require.NoError(t, err)
	assert.Equal(t, "/media/out/story.mp4", path)
}

func TestClient_GenerateStory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/story/generate", r.URL.Path)
		json.NewEncoder(w).Encode(StoryResult{Title: "잠자는 숲", Content: "옛날 옛적에..."})
	})

	result, err := client.GenerateStory(context.Background(), "lullaby", "calm")
	require.NoError(t, err)
	assert.Equal(t, "잠자는 숲", result.Title)
	assert.Equal(t, "옛날 옛적에...", result.Content)
}

func TestClient_ErrorStatusIsDependencyFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	})

	_, err := client.CreateThumbnail(context.Background(), "/media/out/story.mp4")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeDependency, appErr.Code)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		json.NewEncoder(w).Encode(map[string]string{"video_path": "late"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.CreateVideo(ctx, "i", "a", "t")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeDependency, appErr.Code)
}

func TestClient_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.ConvertToColoringBook(context.Background(), "/media/a.png")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeDependency, appErr.Code)
}
