package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storynest/internal/middleware"
	"storynest/internal/models"
	"storynest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SignupRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup handles user registration
// @Summary Register a new user
// @Description Create an account with username, nickname and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup payload"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Nickname = strings.TrimSpace(req.Nickname)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateUsername(req.Username); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateNickname(req.Nickname); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return respondError(c, models.NewValidationError(err.Error()))
	}

	ctx := c.UserContext()
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return respondError(c, models.NewValidationError("username is already taken"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, models.NewInternalError(err))
	}
	if _, err := s.userRepo.GetByNickname(ctx, req.Nickname); err == nil {
		return respondError(c, models.NewValidationError("nickname is already taken"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return respondError(c, models.NewInternalError(err))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:       req.Username,
		Nickname:       req.Nickname,
		HashedPassword: string(hashed),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "username", user.Username)
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

// Login handles user authentication
// @Summary Log in
// @Description Authenticate with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body"))
	}

	ctx := c.UserContext()
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a wrong password so usernames cannot be probed.
			return respondError(c, models.NewUnauthorizedError("invalid username or password"))
		}
		return respondError(c, models.NewInternalError(err))
	}

	if user.HashedPassword == "" {
		return respondError(c, models.NewUnauthorizedError("this account uses social login"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return respondError(c, models.NewUnauthorizedError("invalid username or password"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return c.JSON(AuthResponse{Token: token, User: user})
}

// Refresh exchanges a valid, non-revoked token for a fresh one
// @Summary Refresh the access token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/refresh [post]
func (s *Server) Refresh(c *fiber.Ctx) error {
	claims, err := s.parseTokenClaims(c)
	if err != nil {
		return respondError(c, models.NewUnauthorizedError(err.Error()))
	}

	ctx := c.UserContext()
	if jti, ok := claims["jti"].(string); ok && s.redis != nil {
		revoked, rerr := s.redis.Exists(ctx, revokedTokenKey(jti)).Result()
		if rerr == nil && revoked > 0 {
			return respondError(c, models.NewUnauthorizedError("token has been revoked"))
		}
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return respondError(c, models.NewUnauthorizedError("invalid token subject"))
	}

	user, err := s.userRepo.GetByID(ctx, uint(userID))
	if err != nil {
		return respondError(c, models.NewUnauthorizedError("account no longer exists"))
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(AuthResponse{Token: token, User: user})
}

// Logout revokes the presented token's refresh capability
// @Summary Log out
// @Description Revoke the current token so it can no longer be refreshed
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, err := s.parseTokenClaims(c)
	if err != nil {
		return respondError(c, models.NewUnauthorizedError(err.Error()))
	}

	// The token itself stays valid until exp; revocation only blocks refresh.
	// Clients are expected to discard the token on logout.
	if jti, ok := claims["jti"].(string); ok && s.redis != nil {
		ttl := 7 * 24 * time.Hour
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
				ttl = until
			}
		}
		if err := s.redis.Set(c.UserContext(), revokedTokenKey(jti), "1", ttl).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to record token revocation", "error", err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func revokedTokenKey(jti string) string {
	return "auth:revoked:" + jti
}

func (s *Server) parseTokenClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("authorization header required")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// generateToken creates a signed JWT for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(user.ID), 10),
		"username": user.Username,
		"iss":      "storynest-api",
		"aud":      "storynest-client",
		"exp":      now.Add(7 * 24 * time.Hour).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI builds a unique token identifier.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
