package server

import (
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const defaultLullabyLimit = 5

// lullabyLimit reads the limit query parameter, clamped to [1, 20].
func lullabyLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLullabyLimit)))
	if err != nil || limit < 1 {
		return defaultLullabyLimit
	}
	if limit > 20 {
		return 20
	}
	return limit
}

// themeParam returns the themeName path segment. Korean theme names arrive
// percent-encoded.
func themeParam(c *fiber.Ctx) string {
	raw := c.Params("themeName")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// GetLullabyThemes handles GET /api/lullaby/themes
// @Summary Get the default lullaby selection
// @Tags lullaby
// @Produce json
// @Success 200 {array} service.LullabyTrack
// @Failure 502 {object} map[string]string
// @Router /lullaby/themes [get]
func (s *Server) GetLullabyThemes(c *fiber.Ctx) error {
	tracks, err := s.lullabyService.DefaultLullabies(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tracks)
}

// SearchLullabiesByTheme handles GET /api/lullaby/theme/:themeName
// @Summary Search lullaby music by theme
// @Tags lullaby
// @Produce json
// @Param themeName path string true "Theme name"
// @Param limit query int false "Max results"
// @Success 200 {array} service.LullabyTrack
// @Router /lullaby/theme/{themeName} [get]
func (s *Server) SearchLullabiesByTheme(c *fiber.Ctx) error {
	tracks, err := s.lullabyService.SearchMusicByTheme(c.Context(), themeParam(c), lullabyLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tracks)
}

// SearchLullabiesByTag handles GET /api/lullaby/search
// @Summary Search lullaby music by raw tag
// @Tags lullaby
// @Produce json
// @Param tag query string false "Search tag"
// @Param limit query int false "Max results"
// @Success 200 {array} service.LullabyTrack
// @Router /lullaby/search [get]
func (s *Server) SearchLullabiesByTag(c *fiber.Ctx) error {
	tracks, err := s.lullabyService.SearchMusicByTag(c.Context(), c.Query("tag"), lullabyLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tracks)
}

// GetLullabyVideos handles GET /api/lullaby/video
// @Summary Get the default lullaby video selection
// @Tags lullaby
// @Produce json
// @Success 200 {array} service.LullabyVideo
// @Router /lullaby/video [get]
func (s *Server) GetLullabyVideos(c *fiber.Ctx) error {
	videos, err := s.lullabyService.DefaultVideos(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(videos)
}

// SearchLullabyVideosByTheme handles GET /api/lullaby/videos/theme/:themeName
// @Summary Search lullaby videos by theme
// @Tags lullaby
// @Produce json
// @Param themeName path string true "Theme name"
// @Param limit query int false "Max results"
// @Success 200 {array} service.LullabyVideo
// @Router /lullaby/videos/theme/{themeName} [get]
func (s *Server) SearchLullabyVideosByTheme(c *fiber.Ctx) error {
	videos, err := s.lullabyService.SearchVideosByTheme(c.Context(), themeParam(c), lullabyLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(videos)
}

// GetCombinedLullabyContent handles GET /api/lullaby/combined/:themeName
// @Summary Search lullaby music and videos together
// @Tags lullaby
// @Produce json
// @Param themeName path string true "Theme name"
// @Param limit query int false "Max results per kind"
// @Success 200 {object} service.CombinedLullabyContent
// @Router /lullaby/combined/{themeName} [get]
func (s *Server) GetCombinedLullabyContent(c *fiber.Ctx) error {
	combined, err := s.lullabyService.Combined(c.Context(), themeParam(c), lullabyLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(combined)
}

// GetAvailableLullabyThemes handles GET /api/lullaby/available-themes
// @Summary List the named lullaby themes
// @Tags lullaby
// @Produce json
// @Success 200 {array} string
// @Router /lullaby/available-themes [get]
func (s *Server) GetAvailableLullabyThemes(c *fiber.Ctx) error {
	return c.JSON(s.lullabyService.AvailableThemes())
}

// LullabySidecarHealth handles GET /api/lullaby/health
// @Summary Report search sidecar health
// @Tags lullaby
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /lullaby/health [get]
func (s *Server) LullabySidecarHealth(c *fiber.Ctx) error {
	if !s.lullabyService.SidecarHealthy(c.Context()) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(fiber.Map{"status": "healthy"})
}
