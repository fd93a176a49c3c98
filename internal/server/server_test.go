package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storynest/internal/config"
	"storynest/internal/database"
	"storynest/internal/generation"
	"storynest/internal/models"
	"storynest/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubGenerator satisfies generation.Generator with deterministic outputs.
type stubGenerator struct{}

func (g *stubGenerator) GenerateStory(ctx context.Context, theme, voice string) (*generation.StoryResult, error) {
	return &generation.StoryResult{Title: "토끼의 모험", Content: "옛날 옛적에 용감한 토끼가 살았어요."}, nil
}

func (g *stubGenerator) GenerateImage(ctx context.Context, title, content string) (string, error) {
	return "/tmp/generated/image.png", nil
}

func (g *stubGenerator) GenerateVoice(ctx context.Context, content, voice string) (string, error) {
	return "/tmp/generated/voice.mp3", nil
}

func (g *stubGenerator) CreateVideo(ctx context.Context, imagePath, audioPath, title string) (string, error) {
	return "/tmp/generated/video.mp4", nil
}

func (g *stubGenerator) CreateThumbnail(ctx context.Context, videoPath string) (string, error) {
	return "/tmp/generated/thumb.jpg", nil
}

func (g *stubGenerator) ConvertToColoringBook(ctx context.Context, imagePath string) (string, error) {
	return "/tmp/generated/coloring.png", nil
}

// stubSearcher satisfies generation.MediaSearcher with a fixed catalog.
type stubSearcher struct {
	healthy bool
}

func (s *stubSearcher) SearchMusic(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
	return []generation.MusicTrack{
		{Name: "Moonlight Sleep", ArtistName: "Luna", Duration: 245, Audio: "https://cdn.test/audio/moonlight.mp3"},
		{Name: "Quiet Night", ArtistName: "Stella", Duration: 180, Audio: "https://cdn.test/audio/quiet.mp3"},
	}, nil
}

func (s *stubSearcher) SearchVideos(ctx context.Context, theme string) ([]generation.VideoResult, error) {
	return []generation.VideoResult{
		{Title: "Sleepy Stars", URL: "https://www.youtube.com/watch?v=abc123", Thumbnail: "https://cdn.test/thumbs/stars.jpg"},
	}, nil
}

func (s *stubSearcher) Healthy(ctx context.Context) bool { return s.healthy }

// stubStorage pretends every upload succeeds and returns a CDN-style URL.
type stubStorage struct{}

func (s *stubStorage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (s *stubStorage) UploadFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (s *stubStorage) Delete(ctx context.Context, key string) error { return nil }

func (s *stubStorage) URL(key string) string { return "https://cdn.test/" + key }

func testPresets() *service.PresetCatalog {
	return &service.PresetCatalog{
		Themes: []service.Preset{{Key: "adventure", Label: "모험"}, {Key: "animals", Label: "동물 친구들"}},
		Voices: []service.Preset{{Key: "mom", Label: "엄마 목소리"}},
	}
}

// newTestServer builds a full server over in-memory sqlite and miniredis,
// with routes mounted on a bare fiber app.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.Models()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		Port:              "0",
		Env:               "test",
		GenerationTimeout: 5,
	}

	s, err := NewServerWithDeps(cfg, db, rdb, &stubGenerator{}, &stubSearcher{healthy: true}, &stubStorage{}, testPresets())
	require.NoError(t, err)

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

func createTestUser(t *testing.T, s *Server, username, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		Username:       username,
		Nickname:       nickname,
		HashedPassword: "$2a$10$unusedhashunusedhashunusedhashunusedhashunusedhashunu",
	}
	require.NoError(t, s.db.Create(user).Error)
	return user
}

func authHeader(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func jsonRequest(method, target, body, auth string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}
