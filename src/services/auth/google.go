package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"Backend-SurveyHub/src/config"
	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrGoogleDisabled   = errors.New("Google sign-in is not configured")
	ErrGoogleUnverified = errors.New("Google account email is not verified")
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the part of Google's userinfo we keep.
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleProvider runs the OAuth code flow against Google.
type GoogleProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// OAuthGoogle is the GoogleProvider backed by golang.org/x/oauth2.
type OAuthGoogle struct {
	conf *oauth2.Config
}

// NewGoogleProvider returns nil when no client id is configured.
func NewGoogleProvider(cfg *config.Config) *OAuthGoogle {
	if cfg.GoogleClientID == "" {
		return nil
	}
	return &OAuthGoogle{conf: &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirect,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}}
}

func (g *OAuthGoogle) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *OAuthGoogle) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := g.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get user info: status %d", resp.StatusCode)
	}

	var p GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &p, nil
}

// WithGoogle enables Google sign-in.
func (s *Service) WithGoogle(p GoogleProvider) *Service {
	s.google = p
	return s
}

// GoogleAuthURL is where the browser is sent to start sign-in.
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleLogin exchanges code for the Google account and signs it in. An unknown
// verified email gets a new respondent account without a usable password.
func (s *Service) GoogleLogin(ctx context.Context, code string) (*models.AuthResponse, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		logger.L().Warn("⚠️ google exchange failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if !profile.VerifiedEmail {
		return nil, ErrGoogleUnverified
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user, err = s.createGoogleUser(ctx, email, profile.Name)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	logger.L().Info("✅ google sign-in", zap.String("userId", user.ID.Hex()))
	return &models.AuthResponse{Success: true, Message: "Login successful", Token: token, User: user}, nil
}

func (s *Service) createGoogleUser(ctx context.Context, email, name string) (*models.User, error) {
	// random password: the account can only sign in through Google until reset
	hash, err := bcrypt.GenerateFromPassword([]byte(utils.GenerateRandomString(32)), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if name == "" {
		name = email
	}
	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
