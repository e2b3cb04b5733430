package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportscast/sportscast-api-go/internal/config"
	"github.com/sportscast/sportscast-api-go/internal/db"
	"github.com/sportscast/sportscast-api-go/internal/db/models"
	"github.com/sportscast/sportscast-api-go/internal/db/repository"
	"github.com/sportscast/sportscast-api-go/internal/validation"
	"github.com/sportscast/sportscast-api-go/pkg/logger"
)

// Claims is the JWT payload issued at signup and login.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles account creation and credential verification.
type AuthService struct {
	users     repository.UserRepository
	validator *validation.Validator
	secret    []byte
	tokenTTL  time.Duration
	log       *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, validator *validation.Validator, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		validator: validator,
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		log:       logger.Named("auth"),
	}
}

// Signup registers a new account and returns the user with a signed token.
// A duplicate email surfaces as db.ErrDuplicateKey.
func (s *AuthService) Signup(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	if errs := s.validator.ValidateCredentials(email, displayName, password); len(errs) > 0 {
		return nil, "", &ValidationError{Fields: errs}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser(email, displayName, string(hash))
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("account created", zap.String("userId", user.ID.String()))
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token. Both
// an unknown email and a wrong password yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return claims, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
