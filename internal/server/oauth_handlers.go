package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"storynest/internal/middleware"
	"storynest/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const oauthStateTTL = 10 * time.Minute

var kakaoEndpoint = oauth2.Endpoint{
	AuthURL:  "https://kauth.kakao.com/oauth/authorize",
	TokenURL: "https://kauth.kakao.com/oauth/token",
}

func (s *Server) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.GoogleClientID,
		ClientSecret: s.config.GoogleClientSecret,
		RedirectURL:  s.config.OAuthRedirectBase + "/api/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func (s *Server) kakaoOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.config.KakaoClientID,
		ClientSecret: s.config.KakaoClientSecret,
		RedirectURL:  s.config.OAuthRedirectBase + "/api/auth/kakao/callback",
		Endpoint:     kakaoEndpoint,
	}
}

// issueOAuthState stores a one-time state nonce in redis and returns it.
// Without redis (tests, degraded mode) the state is issued but not verified.
func (s *Server) issueOAuthState(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if s.redis != nil {
		if err := s.redis.Set(ctx, "oauth:state:"+state, "1", oauthStateTTL).Err(); err != nil {
			return "", err
		}
	}
	return state, nil
}

func (s *Server) consumeOAuthState(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	if s.redis == nil {
		return true
	}
	deleted, err := s.redis.Del(ctx, "oauth:state:"+state).Result()
	return err == nil && deleted > 0
}

// GoogleLogin redirects the browser to Google's consent screen
// @Summary Start Google OAuth login
// @Tags auth
// @Success 302
// @Router /auth/google [get]
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if s.config.GoogleClientID == "" {
		return respondError(c, models.NewValidationError("google login is not configured"))
	}
	state, err := s.issueOAuthState(c.UserContext())
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.Redirect(s.googleOAuthConfig().AuthCodeURL(state), fiber.StatusFound)
}

// GoogleCallback completes Google OAuth and issues an API token
// @Summary Google OAuth callback
// @Tags auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/google/callback [get]
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if !s.consumeOAuthState(ctx, c.Query("state")) {
		return respondError(c, models.NewUnauthorizedError("invalid oauth state"))
	}

	token, err := s.googleOAuthConfig().Exchange(ctx, c.Query("code"))
	if err != nil {
		return respondError(c, models.NewDependencyError("google token exchange failed", err))
	}

	var profile struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchOAuthProfile(ctx, s.googleOAuthConfig(), token,
		"https://www.googleapis.com/oauth2/v2/userinfo", &profile); err != nil {
		return respondError(c, models.NewDependencyError("failed to fetch google profile", err))
	}
	if profile.ID == "" {
		return respondError(c, models.NewDependencyError("google profile is missing an ID", nil))
	}

	user, err := s.findOrCreateOAuthUser(ctx, oauthIdentity{
		provider:   "google",
		subjectID:  profile.ID,
		email:      profile.Email,
		name:       profile.Name,
		pictureURL: profile.Picture,
	})
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithToken(c, user)
}

// KakaoLogin redirects the browser to Kakao's consent screen
// @Summary Start Kakao OAuth login
// @Tags auth
// @Success 302
// @Router /auth/kakao [get]
func (s *Server) KakaoLogin(c *fiber.Ctx) error {
	if s.config.KakaoClientID == "" {
		return respondError(c, models.NewValidationError("kakao login is not configured"))
	}
	state, err := s.issueOAuthState(c.UserContext())
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.Redirect(s.kakaoOAuthConfig().AuthCodeURL(state), fiber.StatusFound)
}

// KakaoCallback completes Kakao OAuth and issues an API token
// @Summary Kakao OAuth callback
// @Tags auth
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/kakao/callback [get]
func (s *Server) KakaoCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if !s.consumeOAuthState(ctx, c.Query("state")) {
		return respondError(c, models.NewUnauthorizedError("invalid oauth state"))
	}

	token, err := s.kakaoOAuthConfig().Exchange(ctx, c.Query("code"))
	if err != nil {
		return respondError(c, models.NewDependencyError("kakao token exchange failed", err))
	}

	var profile struct {
		ID      int64 `json:"id"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
				ImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := fetchOAuthProfile(ctx, s.kakaoOAuthConfig(), token,
		"https://kapi.kakao.com/v2/user/me", &profile); err != nil {
		return respondError(c, models.NewDependencyError("failed to fetch kakao profile", err))
	}
	if profile.ID == 0 {
		return respondError(c, models.NewDependencyError("kakao profile is missing an ID", nil))
	}

	user, err := s.findOrCreateOAuthUser(ctx, oauthIdentity{
		provider:   "kakao",
		subjectID:  strconv.FormatInt(profile.ID, 10),
		email:      profile.Account.Email,
		name:       profile.Account.Profile.Nickname,
		pictureURL: profile.Account.Profile.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return s.respondWithToken(c, user)
}

func fetchOAuthProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token, url string, dest interface{}) error {
	client := conf.Client(ctx, token)
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("profile endpoint returned %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

type oauthIdentity struct {
	provider   string
	subjectID  string
	email      string
	name       string
	pictureURL string
}

// findOrCreateOAuthUser resolves the provider identity to a local account.
// Lookup order: provider ID, then email (linking the provider to an existing
// account), then a fresh account with a generated username.
func (s *Server) findOrCreateOAuthUser(ctx context.Context, id oauthIdentity) (*models.User, error) {
	lookup := s.userRepo.GetByGoogleID
	if id.provider == "kakao" {
		lookup = s.userRepo.GetByKakaoID
	}

	user, err := lookup(ctx, id.subjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	if id.email != "" {
		if existing, lookupErr := s.userRepo.GetByEmail(ctx, id.email); lookupErr == nil {
			s.attachProviderID(existing, id)
			if uerr := s.userRepo.Update(ctx, existing); uerr != nil {
				return nil, models.NewInternalError(uerr)
			}
			middleware.Logger.InfoContext(ctx, "linked oauth provider to existing account",
				"user_id", existing.ID, "provider", id.provider)
			return existing, nil
		} else if !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
			return nil, models.NewInternalError(lookupErr)
		}
	}

	user = &models.User{
		Username:        fmt.Sprintf("%s_%s", id.provider, id.subjectID),
		Nickname:        s.uniqueNickname(ctx, id),
		ProfileImageURL: id.pictureURL,
	}
	if id.email != "" {
		user.Email = &id.email
	}
	s.attachProviderID(user, id)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "created account via oauth",
		"user_id", user.ID, "provider", id.provider)
	return user, nil
}

func (s *Server) attachProviderID(user *models.User, id oauthIdentity) {
	switch id.provider {
	case "google":
		user.GoogleID = &id.subjectID
	case "kakao":
		user.KakaoID = &id.subjectID
	}
}

// uniqueNickname derives a nickname from the provider profile, suffixing it
// when taken. Nicknames carry a unique constraint.
func (s *Server) uniqueNickname(ctx context.Context, id oauthIdentity) string {
	base := id.name
	if base == "" {
		base = id.provider + "-user"
	}
	candidate := base
	for i := 0; i < 5; i++ {
		if _, err := s.userRepo.GetByNickname(ctx, candidate); errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.New().String()[:4])
	}
	return candidate
}

func (s *Server) respondWithToken(c *fiber.Ctx, user *models.User) error {
	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	return c.JSON(AuthResponse{Token: token, User: user})
}
