// Package service provides the password-store business logic: generation,
// ownership-checked mutation, strength validation and uniqueness checks,
// delegating storage to a PasswordRepository.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aschwizzy710/passkeeper/internal/generator"
	"github.com/aschwizzy710/passkeeper/internal/models"
	"github.com/aschwizzy710/passkeeper/internal/repository"
	"github.com/aschwizzy710/passkeeper/internal/validator"
	"go.uber.org/zap"
)

var (
	// ErrPasswordNotFound is returned when the referenced id is not in the store.
	ErrPasswordNotFound = errors.New("password not found")
	// ErrUnauthorized is returned when the caller does not own the record.
	ErrUnauthorized = errors.New("unauthorized: you do not own this password")
)

// Messages returned by successful mutations.
const (
	MessageUpdated = "Password updated successfully."
	MessageDeleted = "Password deleted successfully."
)

// PasswordRepository defines the storage operations needed by PasswordService.
// Each method must execute atomically with respect to the others.
type PasswordRepository interface {
	// Insert stores p under a fresh id and returns that id.
	Insert(ctx context.Context, p models.Password) uint64
	// Get returns a copy of the record or repository.ErrNotFound.
	Get(ctx context.Context, id uint64) (models.Password, error)
	// List returns a snapshot of all records.
	List(ctx context.Context) []models.Entry
	// Update applies fn to the record and keeps the result only if fn succeeds.
	Update(ctx context.Context, id uint64, fn func(p *models.Password) error) error
	// Delete removes the record if check accepts it.
	Delete(ctx context.Context, id uint64, check func(p models.Password) error) error
	// ContainsValue reports whether any record holds value.
	ContainsValue(ctx context.Context, value string) bool
}

// PasswordService implements the password-store operations. The caller
// identity is passed explicitly to every operation that depends on it.
type PasswordService struct {
	repo PasswordRepository
	gen  generator.Generator
	now  func() time.Time
	log  *zap.Logger
}

// NewPasswordService constructs a PasswordService. A nil logger disables logging.
func NewPasswordService(repo PasswordRepository, gen generator.Generator, log *zap.Logger) *PasswordService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordService{
		repo: repo,
		gen:  gen,
		now:  time.Now,
		log:  log,
	}
}

// Generate creates a password of length characters owned by caller, stores it
// and returns it with its id. A zero length yields an empty value.
func (s *PasswordService) Generate(ctx context.Context, caller models.Principal, length uint64) models.Entry {
	p := models.Password{
		Value:     s.gen.Generate(length),
		CreatedAt: s.now(),
		Owner:     caller,
	}
	id := s.Create(ctx, p)

	s.log.Info("password generated",
		zap.Uint64("id", id),
		zap.String("owner", string(caller)),
		zap.Uint64("length", length),
	)
	return models.Entry{ID: id, Password: p}
}

// Create inserts p as given and returns its new id. It always succeeds.
func (s *PasswordService) Create(ctx context.Context, p models.Password) uint64 {
	return s.repo.Insert(ctx, p)
}

// Store inserts a caller-supplied value. Owner and creation time are derived
// here, so callers cannot forge them.
func (s *PasswordService) Store(ctx context.Context, caller models.Principal, payload models.PasswordPayload) models.Entry {
	p := models.Password{
		Value:     payload.Value,
		CreatedAt: s.now(),
		Owner:     caller,
	}
	id := s.Create(ctx, p)

	s.log.Info("password stored", zap.Uint64("id", id), zap.String("owner", string(caller)))
	return models.Entry{ID: id, Password: p}
}

// Update replaces the value of record id and refreshes its creation time.
// Only the owner may update a record.
func (s *PasswordService) Update(ctx context.Context, caller models.Principal, id uint64, payload models.PasswordPayload) (string, error) {
	err := s.repo.Update(ctx, id, func(p *models.Password) error {
		if p.Owner != caller {
			return ErrUnauthorized
		}
		p.Value = payload.Value
		p.CreatedAt = s.now()
		return nil
	})
	if err != nil {
		return "", s.mapError("update", caller, id, err)
	}

	s.log.Info("password updated", zap.Uint64("id", id), zap.String("owner", string(caller)))
	return MessageUpdated, nil
}

// Delete removes record id. Only the owner may delete a record.
func (s *PasswordService) Delete(ctx context.Context, caller models.Principal, id uint64) (string, error) {
	err := s.repo.Delete(ctx, id, func(p models.Password) error {
		if p.Owner != caller {
			return ErrUnauthorized
		}
		return nil
	})
	if err != nil {
		return "", s.mapError("delete", caller, id, err)
	}

	s.log.Info("password deleted", zap.Uint64("id", id), zap.String("owner", string(caller)))
	return MessageDeleted, nil
}

// Get returns a copy of record id. Reads are not restricted to the owner.
func (s *PasswordService) Get(ctx context.Context, id uint64) (models.Password, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Password{}, ErrPasswordNotFound
	}
	if err != nil {
		return models.Password{}, fmt.Errorf("get password %d: %w", id, err)
	}
	return p, nil
}

// List returns a snapshot of every stored record.
func (s *PasswordService) List(ctx context.Context) []models.Entry {
	return s.repo.List(ctx)
}

// Validate checks payload against the strength rules and reports the first
// violated rule as an error wrapping validator.ErrInvalidInput.
func (s *PasswordService) Validate(_ context.Context, payload models.PasswordPayload) (string, error) {
	if err := validator.Validate(payload.Value); err != nil {
		return "", err
	}
	return validator.ValidMessage, nil
}

// CheckUniqueness reports whether no stored record has payload's value.
func (s *PasswordService) CheckUniqueness(ctx context.Context, payload models.PasswordPayload) bool {
	return !s.repo.ContainsValue(ctx, payload.Value)
}

func (s *PasswordService) mapError(op string, caller models.Principal, id uint64, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrPasswordNotFound
	case errors.Is(err, ErrUnauthorized):
		s.log.Warn("password "+op+" denied",
			zap.Uint64("id", id),
			zap.String("caller", string(caller)),
		)
		return ErrUnauthorized
	default:
		return fmt.Errorf("%s password %d: %w", op, id, err)
	}
}
