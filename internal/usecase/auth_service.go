package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/safebite/backend/internal/domain"
	"github.com/safebite/backend/internal/pkg/logger"
)

// AuthConfig carries the token and OTP parameters the auth service needs.
type AuthConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	OTPTTL     time.Duration
	OTPLength  int
}

// TokenPair is one issued access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthService handles registration, password and OTP logins, and the refresh
// token lifecycle. Access tokens are stateless JWTs; refresh tokens are
// persisted so they can be revoked.
type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	mailer domain.Mailer
	cfg    AuthConfig
	log    *logger.Logger
}

func NewAuthService(users domain.UserRepository, tokens domain.TokenRepository, mailer domain.Mailer, cfg AuthConfig, log *logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, mailer: mailer, cfg: cfg, log: log}
}

// Register creates a consumer account. Admin accounts are provisioned out of
// band, never through self-signup.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrDuplicate)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:          email,
		HashedPassword: string(hash),
		FullName:       strings.TrimSpace(fullName),
		Role:           domain.RoleConsumer,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies a password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issuePair(ctx, user)
}

// RequestAdminOTP generates a single-use code for an admin address, stores
// its hash, and mails the plaintext. Non-admin and unknown addresses fail
// identically so the endpoint does not confirm which admins exist.
func (s *AuthService) RequestAdminOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrInvalidCredentials
	}
	if err != nil {
		return err
	}
	if user.Role != domain.RoleAdmin || !user.IsActive {
		return domain.ErrInvalidCredentials
	}

	code, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return fmt.Errorf("generating otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing otp: %w", err)
	}

	record := &domain.OTPCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
	}
	if err := s.tokens.SaveOTP(ctx, record); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(ctx, email, code, s.cfg.OTPTTL); err != nil {
		return fmt.Errorf("sending otp: %w", err)
	}

	s.log.Info("admin otp issued", "email", email)
	return nil
}

// VerifyAdminOTP checks a submitted code against the latest unused one and
// issues a token pair. Codes are single use regardless of remaining TTL.
func (s *AuthService) VerifyAdminOTP(ctx context.Context, email, code string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrOTP
	}
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleAdmin {
		return nil, domain.ErrOTP
	}

	record, err := s.tokens.LatestOTP(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrOTP
	}
	if err != nil {
		return nil, err
	}

	if record.Used || time.Now().After(record.ExpiresAt) {
		return nil, domain.ErrOTP
	}
	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		return nil, domain.ErrOTP
	}

	if err := s.tokens.MarkOTPUsed(ctx, record.ID); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// Refresh validates a refresh token and rotates it: the old token is revoked
// and a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if claims["type"] != "refresh" {
		return nil, domain.ErrInvalidToken
	}

	stored, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidToken
	}

	if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issuePair(ctx, user)
}

// Logout revokes a refresh token. Already-revoked and unknown tokens are not
// an error; the end state is the same.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeRefreshToken(ctx, refreshToken)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

// ParseAccessToken validates an access token and returns its subject and
// role. Refresh tokens are rejected here even though they share the secret.
func (s *AuthService) ParseAccessToken(token string) (uint, domain.UserRole, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return 0, "", domain.ErrInvalidToken
	}
	if claims["type"] != "access" {
		return 0, "", domain.ErrInvalidToken
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, "", domain.ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", domain.ErrInvalidToken
	}

	return uint(sub), domain.UserRole(role), nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := time.Now()

	access, err := s.signToken(jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": string(user.Role),
		"type": "access",
		"jti":  uuid.NewString(),
		"exp":  now.Add(s.cfg.AccessTTL).Unix(),
		"iat":  now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(jwt.MapClaims{
		"sub":  float64(user.ID),
		"role": string(user.Role),
		"type": "refresh",
		"jti":  uuid.NewString(),
		"exp":  now.Add(s.cfg.RefreshTTL).Unix(),
		"iat":  now.Unix(),
	})
	if err != nil {
		return nil, err
	}

	if err := s.tokens.SaveRefreshToken(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// generateOTP returns a cryptographically random numeric code.
func generateOTP(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
