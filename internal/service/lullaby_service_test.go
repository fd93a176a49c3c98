package service

import (
	"context"
	"testing"

	"storynest/internal/generation"
	"storynest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searcherStub struct {
	searchMusicFn  func(ctx context.Context, theme string) ([]generation.MusicTrack, error)
	searchVideosFn func(ctx context.Context, theme string) ([]generation.VideoResult, error)
	healthyFn      func(ctx context.Context) bool
}

func (s *searcherStub) SearchMusic(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
	return s.searchMusicFn(ctx, theme)
}

func (s *searcherStub) SearchVideos(ctx context.Context, theme string) ([]generation.VideoResult, error) {
	return s.searchVideosFn(ctx, theme)
}

func (s *searcherStub) Healthy(ctx context.Context) bool {
	return s.healthyFn(ctx)
}

func TestLullabyService_SearchMusicByTheme(t *testing.T) {
	ctx := context.Background()

	t.Run("maps named themes to search keywords", func(t *testing.T) {
		searcher := &searcherStub{
			searchMusicFn: func(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
				assert.Equal(t, "piano", theme)
				return []generation.MusicTrack{
					{Name: "Nocturne", ArtistName: "Chopin", Duration: 245, Audio: "https://audio.test/nocturne.mp3"},
				}, nil
			},
		}
		svc := NewLullabyService(searcher)

		tracks, err := svc.SearchMusicByTheme(ctx, "잔잔한 피아노", 5)
		require.NoError(t, err)
		require.Len(t, tracks, 1)
		assert.Equal(t, "Nocturne", tracks[0].Title)
		assert.Equal(t, "4:05", tracks[0].Duration)
		assert.Equal(t, "Chopin의 Nocturne", tracks[0].Description)
	})

	t.Run("unknown theme searches with the name itself", func(t *testing.T) {
		searcher := &searcherStub{
			searchMusicFn: func(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
				assert.Equal(t, "빗소리", theme)
				return nil, nil
			},
		}
		svc := NewLullabyService(searcher)

		tracks, err := svc.SearchMusicByTheme(ctx, "빗소리", 5)
		require.NoError(t, err)
		assert.Empty(t, tracks)
	})

	t.Run("limit truncates the result", func(t *testing.T) {
		searcher := &searcherStub{
			searchMusicFn: func(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
				return []generation.MusicTrack{{Name: "a"}, {Name: "b"}, {Name: "c"}}, nil
			},
		}
		svc := NewLullabyService(searcher)

		tracks, err := svc.SearchMusicByTheme(ctx, "클래식", 2)
		require.NoError(t, err)
		assert.Len(t, tracks, 2)
	})

	t.Run("sidecar failure surfaces as dependency error", func(t *testing.T) {
		searcher := &searcherStub{
			searchMusicFn: func(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
				return nil, models.NewDependencyError("generation service unavailable", assert.AnError)
			},
		}
		svc := NewLullabyService(searcher)

		_, err := svc.SearchMusicByTheme(ctx, "달빛", 5)
		assertAppErrorCode(t, err, models.CodeDependency)
	})
}

func TestLullabyService_SearchVideosByTheme(t *testing.T) {
	ctx := context.Background()

	searcher := &searcherStub{
		searchVideosFn: func(ctx context.Context, theme string) ([]generation.VideoResult, error) {
			assert.Equal(t, "moon", theme)
			return []generation.VideoResult{
				{Title: "Sleepy Moon", URL: "https://www.youtube.com/watch?v=abc123&t=1", Thumbnail: "https://img.test/moon.jpg"},
				{Title: "Short Link", URL: "https://youtu.be/xyz789?si=share"},
			}, nil
		},
	}
	svc := NewLullabyService(searcher)

	videos, err := svc.SearchVideosByTheme(ctx, "달빛", 5)
	require.NoError(t, err)
	require.Len(t, videos, 2)

	assert.Equal(t, "abc123", videos[0].YouTubeID)
	assert.Equal(t, "달빛", videos[0].Theme)
	assert.Equal(t, "0xFFFFE66D", videos[0].Color)
	assert.Equal(t, "Icons.nightlight", videos[0].Icon)
	assert.Equal(t, "xyz789", videos[1].YouTubeID)
}

func TestLullabyService_Combined(t *testing.T) {
	ctx := context.Background()

	searcher := &searcherStub{
		searchMusicFn: func(ctx context.Context, theme string) ([]generation.MusicTrack, error) {
			return []generation.MusicTrack{{Name: "Sky Song"}}, nil
		},
		searchVideosFn: func(ctx context.Context, theme string) ([]generation.VideoResult, error) {
			return []generation.VideoResult{{Title: "Sky Video"}, {Title: "Cloud Video"}}, nil
		},
	}
	svc := NewLullabyService(searcher)

	combined, err := svc.Combined(ctx, "하늘", 5)
	require.NoError(t, err)
	assert.Equal(t, "하늘", combined.Theme)
	assert.Len(t, combined.Music, 1)
	assert.Len(t, combined.Videos, 2)
	assert.Equal(t, 3, combined.TotalCount)
}

func TestLullabyService_AvailableThemes(t *testing.T) {
	svc := NewLullabyService(&searcherStub{})

	themes := svc.AvailableThemes()
	require.Len(t, themes, 6)
	assert.Equal(t, "잔잔한 피아노", themes[0])
	assert.Contains(t, themes, "클래식")
}

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc123", "abc123"},
		{"https://www.youtube.com/watch?v=abc123&list=PL1", "abc123"},
		{"https://youtu.be/xyz789", "xyz789"},
		{"https://youtu.be/xyz789?si=token", "xyz789"},
		{"https://vimeo.com/12345", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractYouTubeID(tt.url), tt.url)
	}
}
