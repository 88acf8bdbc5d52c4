package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/aschwizzy710/passkeeper/internal/models"
	"github.com/aschwizzy710/passkeeper/internal/repository"
)

// MaxLoginLength bounds the login part of a principal so the issued
// Common Name stays within 64 characters.
const MaxLoginLength = 32

const registerAttempts = 3

var (
	// ErrInvalidLogin is returned for empty or overlong logins.
	ErrInvalidLogin = fmt.Errorf("login must be 1 to %d characters", MaxLoginLength)
	// ErrPrincipalTaken is returned when no free principal could be reserved.
	ErrPrincipalTaken = errors.New("principal already exists")
)

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// PrincipalExists returns true if login has been registered.
	PrincipalExists(ctx context.Context, login models.Principal) (bool, error)
	// RegisterPrincipal records login, failing with
	// repository.ErrPrincipalExists if it is already taken.
	RegisterPrincipal(ctx context.Context, login models.Principal) error
}

// AuthService hands out principals for identity certificates.
//
// A principal is the requested login plus a random suffix, so registration
// can never reissue a name that was handed out before, whether by an
// earlier process or outside the registry.
type AuthService struct {
	repo   AuthRepository
	suffix func() string
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo, suffix: randomSuffix}
}

// PrincipalExists checks whether login has been registered.
func (s *AuthService) PrincipalExists(ctx context.Context, login models.Principal) (bool, error) {
	return s.repo.PrincipalExists(ctx, login)
}

// Register reserves a fresh principal derived from login and returns it.
func (s *AuthService) Register(ctx context.Context, login string) (models.Principal, error) {
	login = strings.TrimSpace(login)
	if login == "" || utf8.RuneCountInString(login) > MaxLoginLength {
		return "", ErrInvalidLogin
	}

	for range registerAttempts {
		p := models.Principal(login + "-" + s.suffix())
		err := s.repo.RegisterPrincipal(ctx, p)
		if errors.Is(err, repository.ErrPrincipalExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("register principal: %w", err)
		}
		return p, nil
	}
	return "", ErrPrincipalTaken
}

// randomSuffix returns 16 hex characters taken from a random UUID.
func randomSuffix() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
