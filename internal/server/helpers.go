package server

import (
	"errors"
	"strings"
	"unicode"

	"storynest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that a helper already wrote an error response to
// the client. Callers should check:
//
//	if err != nil { return nil }
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query values.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit and offset from the query string, clamping the
// limit to [1, 100].
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// parseID extracts a positive numeric path parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		respondError(c, models.NewValidationError("invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns a camelCase route param into words ("storyId" -> "story id").
func humanizeParam(param string) string {
	return strings.ToLower(strings.Join(splitCamel(param), " "))
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// optionalUserID is currentUserID for routes behind OptionalAuth; zero means
// an anonymous request.
func optionalUserID(c *fiber.Ctx) uint {
	return currentUserID(c)
}

// respondError maps a service error onto the right HTTP status and JSON body.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondError(c, err)
}
