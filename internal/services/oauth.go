package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"couple-journal-backend/internal/config"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthService handles Google sign-in
type OAuthService struct {
	oauth       *oauth2.Config
	users       *UserService
	userInfoURL string
}

// NewOAuthService creates a Google sign-in service. It returns nil when the
// provider is not configured.
func NewOAuthService(cfg config.OAuthConfig, users *UserService) *OAuthService {
	if !cfg.Enabled() {
		return nil
	}
	return &OAuthService{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		users:       users,
		userInfoURL: googleUserInfoURL,
	}
}

type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// NewState returns a random value to bind the callback to the login request.
func (s *OAuthService) NewState() string {
	return uuid.New().String()
}

// AuthURL returns the consent page URL for state.
func (s *OAuthService) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Complete exchanges the authorization code, loads the profile and signs the
// user in, creating an account on first login.
func (s *OAuthService) Complete(ctx context.Context, code string) (*Session, error) {
	if code == "" {
		return nil, validationError("Missing authorization code")
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, newError(ErrUnauthorized, "Đăng nhập Google thất bại")
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.EmailVerified {
		return nil, newError(ErrUnauthorized, "Email Google chưa được xác minh")
	}

	user, err := s.users.UpsertOAuthUser(ctx, info.Email, info.Name, info.Picture)
	if err != nil {
		return nil, err
	}
	return s.users.newSession(user)
}

func (s *OAuthService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	return &info, nil
}
