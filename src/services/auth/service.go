package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"Backend-SurveyHub/src/logger"
	"Backend-SurveyHub/src/models"
	"Backend-SurveyHub/src/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrEmailExists        = errors.New("User already exists")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidResetCode   = errors.New("Invalid or expired reset code")
)

// BcryptCost รอบของ bcrypt ที่ใช้ hash รหัสผ่าน
const BcryptCost = 10

// UserStore persists accounts. Emails are stored lower-cased.
type UserStore interface {
	InsertUser(ctx context.Context, u *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// TokenStore keeps revoked tokens and password reset codes.
type TokenStore interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	StoreResetCode(ctx context.Context, userID, code string) error
	ConsumeResetCode(ctx context.Context, userID, code string) (bool, error)
}

// ResetMailer delivers password reset codes.
type ResetMailer interface {
	SendResetCode(ctx context.Context, email, name, code string) error
}

type Service struct {
	users  UserStore
	tokens TokenStore
	mailer ResetMailer
	google GoogleProvider
	now    func() time.Time
}

func NewAuthService(users UserStore, tokens TokenStore, mailer ResetMailer) *Service {
	return &Service{users: users, tokens: tokens, mailer: mailer, now: time.Now}
}

// Register สมัครสมาชิกผู้ตอบแบบสอบถาม
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.signup(ctx, req, models.RoleUser)
}

// CreateAdmin สมัครสมาชิกผู้ดูแลที่สร้างแบบสอบถามได้
func (s *Service) CreateAdmin(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	return s.signup(ctx, req, models.RoleAdmin)
}

func (s *Service) signup(ctx context.Context, req models.RegisterRequest, role string) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	logger.L().Info("✅ user registered", zap.String("userId", user.ID.Hex()), zap.String("role", role))
	msg := "User registered successfully"
	if role == models.RoleAdmin {
		msg = "Admin created successfully"
	}
	return &models.AuthResponse{Success: true, Message: msg, Token: token, User: user}, nil
}

// Login ตรวจสอบ email/password แล้วออก token ใหม่
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Success: true, Message: "Login successful", Token: token, User: user}, nil
}

// Profile returns the account behind a token.
func (s *Service) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindUserByID(ctx, userID)
}

// Logout revokes token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseJWT(token)
	if err != nil {
		return ErrInvalidCredentials
	}
	return s.tokens.BlacklistToken(ctx, token, claims.RemainingTTL())
}

// DeleteAccount removes the caller's account.
func (s *Service) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	deleted, err := s.users.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	logger.L().Info("🗑️ account deleted", zap.String("userId", userID.Hex()))
	return nil
}

// RequestPasswordReset stores a 6-digit code and mails it to the account owner.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	code, err := resetCode()
	if err != nil {
		return err
	}
	if err := s.tokens.StoreResetCode(ctx, user.ID.Hex(), code); err != nil {
		return err
	}
	if s.mailer != nil {
		if err := s.mailer.SendResetCode(ctx, user.Email, user.Name, code); err != nil {
			return fmt.Errorf("send reset code: %w", err)
		}
	}
	return nil
}

// ResetPassword sets a new password when code matches the stored one.
func (s *Service) ResetPassword(ctx context.Context, req models.ConfirmResetRequest) error {
	user, err := s.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, ErrUserNotFound) {
		return ErrInvalidResetCode
	}
	if err != nil {
		return err
	}

	ok, err := s.tokens.ConsumeResetCode(ctx, user.ID.Hex(), req.Code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func resetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RedisTokens is the TokenStore backed by the shared Redis client.
type RedisTokens struct{}

func (RedisTokens) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return utils.BlacklistToken(ctx, token, ttl)
}

func (RedisTokens) StoreResetCode(ctx context.Context, userID, code string) error {
	return utils.StoreResetCode(ctx, userID, code)
}

func (RedisTokens) ConsumeResetCode(ctx context.Context, userID, code string) (bool, error) {
	return utils.ConsumeResetCode(ctx, userID, code)
}
