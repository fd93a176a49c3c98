package service

import (
	"context"
	"fmt"
	"strings"

	"storynest/internal/cache"
	"storynest/internal/generation"
)

// lullabyThemes maps the app's Korean theme names to the search keywords the
// sidecar understands. Order is the order shown to clients.
var lullabyThemes = []struct {
	Name    string
	Keyword string
	Color   string
	Icon    string
}{
	{"잔잔한 피아노", "piano", "0xFF6B73FF", "Icons.piano"},
	{"기타 멜로디", "guitar", "0xFFFF6B6B", "Icons.music_note"},
	{"자연의 소리", "nature", "0xFF4ECDC4", "Icons.nature"},
	{"달빛", "moon", "0xFFFFE66D", "Icons.nightlight"},
	{"하늘", "sky", "0xFF74B9FF", "Icons.cloud"},
	{"클래식", "classical", "0xFFA29BFE", "Icons.library_music"},
}

const (
	defaultLullabyKeyword = "lullaby"
	defaultLullabyColor   = "0xFF6B73FF"
	defaultLullabyIcon    = "Icons.music_note"
)

// LullabyTrack is a music result shaped for the client.
type LullabyTrack struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Duration    string `json:"duration"`
	AudioURL    string `json:"audio_url"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// LullabyVideo is a video result shaped for the client, with the theme's
// display metadata attached.
type LullabyVideo struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	YouTubeID    string `json:"youtube_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Theme        string `json:"theme"`
	Color        string `json:"color"`
	Icon         string `json:"icon"`
}

// CombinedLullabyContent bundles music and videos for one theme.
type CombinedLullabyContent struct {
	Theme      string          `json:"theme"`
	Music      []*LullabyTrack `json:"music"`
	Videos     []*LullabyVideo `json:"videos"`
	TotalCount int             `json:"total_count"`
}

// LullabyService finds bedtime music and videos through the sidecar's
// Jamendo and YouTube lookups. Results are cached per keyword.
type LullabyService struct {
	searcher generation.MediaSearcher
}

func NewLullabyService(searcher generation.MediaSearcher) *LullabyService {
	return &LullabyService{searcher: searcher}
}

// DefaultLullabies returns the generic lullaby selection.
func (s *LullabyService) DefaultLullabies(ctx context.Context) ([]*LullabyTrack, error) {
	return s.searchMusic(ctx, defaultLullabyKeyword, 0)
}

// SearchMusicByTheme finds music for a named theme. Unknown themes search
// with the name itself so free-form queries still work.
func (s *LullabyService) SearchMusicByTheme(ctx context.Context, themeName string, limit int) ([]*LullabyTrack, error) {
	return s.searchMusic(ctx, themeKeyword(themeName), limit)
}

// SearchMusicByTag searches with a raw tag, bypassing the theme mapping.
func (s *LullabyService) SearchMusicByTag(ctx context.Context, tag string, limit int) ([]*LullabyTrack, error) {
	if strings.TrimSpace(tag) == "" {
		tag = defaultLullabyKeyword
	}
	return s.searchMusic(ctx, tag, limit)
}

// DefaultVideos returns the generic lullaby video selection.
func (s *LullabyService) DefaultVideos(ctx context.Context) ([]*LullabyVideo, error) {
	return s.searchVideos(ctx, "기본 자장가", defaultLullabyKeyword, 0)
}

// SearchVideosByTheme finds videos for a named theme.
func (s *LullabyService) SearchVideosByTheme(ctx context.Context, themeName string, limit int) ([]*LullabyVideo, error) {
	return s.searchVideos(ctx, themeName, themeKeyword(themeName), limit)
}

// Combined searches music and videos for one theme in a single call.
func (s *LullabyService) Combined(ctx context.Context, themeName string, limit int) (*CombinedLullabyContent, error) {
	music, err := s.SearchMusicByTheme(ctx, themeName, limit)
	if err != nil {
		return nil, err
	}
	videos, err := s.SearchVideosByTheme(ctx, themeName, limit)
	if err != nil {
		return nil, err
	}
	return &CombinedLullabyContent{
		Theme:      themeName,
		Music:      music,
		Videos:     videos,
		TotalCount: len(music) + len(videos),
	}, nil
}

// AvailableThemes lists the named themes in display order.
func (s *LullabyService) AvailableThemes() []string {
	names := make([]string, len(lullabyThemes))
	for i, theme := range lullabyThemes {
		names[i] = theme.Name
	}
	return names
}

// SidecarHealthy reports whether the search sidecar is reachable.
func (s *LullabyService) SidecarHealthy(ctx context.Context) bool {
	return s.searcher.Healthy(ctx)
}

func (s *LullabyService) searchMusic(ctx context.Context, keyword string, limit int) ([]*LullabyTrack, error) {
	var raw []generation.MusicTrack
	err := cache.CacheAside(ctx, cache.LullabyMusicKey(keyword), &raw, cache.LullabyTTL, func() error {
		var searchErr error
		raw, searchErr = s.searcher.SearchMusic(ctx, keyword)
		return searchErr
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]*LullabyTrack, 0, len(raw))
	for _, track := range raw {
		tracks = append(tracks, toLullabyTrack(track))
		if limit > 0 && len(tracks) == limit {
			break
		}
	}
	return tracks, nil
}

func (s *LullabyService) searchVideos(ctx context.Context, themeName, keyword string, limit int) ([]*LullabyVideo, error) {
	var raw []generation.VideoResult
	err := cache.CacheAside(ctx, cache.LullabyVideoKey(keyword), &raw, cache.LullabyTTL, func() error {
		var searchErr error
		raw, searchErr = s.searcher.SearchVideos(ctx, keyword)
		return searchErr
	})
	if err != nil {
		return nil, err
	}

	videos := make([]*LullabyVideo, 0, len(raw))
	for _, video := range raw {
		videos = append(videos, toLullabyVideo(video, themeName))
		if limit > 0 && len(videos) == limit {
			break
		}
	}
	return videos, nil
}

func themeKeyword(themeName string) string {
	for _, theme := range lullabyThemes {
		if theme.Name == themeName {
			return theme.Keyword
		}
	}
	return themeName
}

func themeDisplay(themeName string) (color, icon string) {
	for _, theme := range lullabyThemes {
		if theme.Name == themeName {
			return theme.Color, theme.Icon
		}
	}
	return defaultLullabyColor, defaultLullabyIcon
}

func toLullabyTrack(track generation.MusicTrack) *LullabyTrack {
	title := track.Name
	if title == "" {
		title = "제목 없음"
	}
	artist := track.ArtistName
	if artist == "" {
		artist = "미상"
	}
	return &LullabyTrack{
		Title:       title,
		Artist:      artist,
		Duration:    formatTrackDuration(track.Duration),
		AudioURL:    track.Audio,
		ImageURL:    track.Image,
		Description: fmt.Sprintf("%s의 %s", artist, title),
	}
}

func toLullabyVideo(video generation.VideoResult, themeName string) *LullabyVideo {
	color, icon := themeDisplay(themeName)
	title := video.Title
	if title == "" {
		title = "제목 없음"
	}
	return &LullabyVideo{
		Title:        title,
		Description:  fmt.Sprintf("%s 테마의 %s", themeName, title),
		YouTubeID:    extractYouTubeID(video.URL),
		URL:          video.URL,
		ThumbnailURL: video.Thumbnail,
		Theme:        themeName,
		Color:        color,
		Icon:         icon,
	}
}

// extractYouTubeID pulls the video id out of watch and short-link URLs.
func extractYouTubeID(rawURL string) string {
	if idx := strings.Index(rawURL, "watch?v="); idx >= 0 {
		id := rawURL[idx+len("watch?v="):]
		if amp := strings.IndexByte(id, '&'); amp >= 0 {
			id = id[:amp]
		}
		return id
	}
	if idx := strings.Index(rawURL, "youtu.be/"); idx >= 0 {
		id := rawURL[idx+len("youtu.be/"):]
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		return id
	}
	return ""
}

func formatTrackDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
