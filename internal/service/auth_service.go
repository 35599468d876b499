package service

import (
	"errors"
	"time"

	"github.com/yourorg/atlas-directory/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminSubject = "admin"

var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminToken is an issued admin access token
type AdminToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService issues and validates admin tokens
type AuthService struct {
	cfg    config.AuthConfig
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		cfg:    cfg,
		now:    time.Now,
		logger: logger,
	}
}

// Login checks the admin password against the configured bcrypt hash and
// returns a signed token
func (s *AuthService) Login(password string) (*AdminToken, error) {
	if s.cfg.AdminPasswordHash == "" || s.cfg.JWTSecret == "" {
		s.logger.Warn("admin login attempted but admin auth is not configured")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password verification failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiry := now.Add(s.cfg.TokenDuration)
	claims := jwt.MapClaims{
		"sub":  adminSubject,
		"exp":  expiry.Unix(),
		"iat":  now.Unix(),
		"type": "admin",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign admin token", zap.Error(err))
		return nil, err
	}

	return &AdminToken{AccessToken: signed, ExpiresAt: expiry}, nil
}

// ValidateToken validates an admin token and returns its subject
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", errors.New("admin auth is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	if tokenType, ok := claims["type"].(string); !ok || tokenType != "admin" {
		return "", errors.New("invalid token type")
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", errors.New("invalid subject in token")
	}

	return subject, nil
}
