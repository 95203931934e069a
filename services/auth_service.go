package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleOrganizer = "organizer"
	tokenTTL      = 24 * time.Hour
)

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type authService struct {
	username     string
	passwordHash []byte
	jwtSecret    []byte
	now          func() time.Time
}

func NewAuthService(username, passwordHash, jwtSecret string) AuthService {
	return &authService{
		username:     username,
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

// Login checks the organizer credentials and issues an HS256 token.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if subtle.ConstantTimeCompare([]byte(input.Username), []byte(s.username)) != 1 {
		return nil, ErrAuthInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":  s.username,
		"role": RoleOrganizer,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{Token: tokenString, ExpiresAt: expiresAt}, nil
}
