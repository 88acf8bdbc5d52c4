package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/aschwizzy710/passkeeper/internal/models"
)

// ErrPrincipalExists is returned when registering a principal that is already taken.
var ErrPrincipalExists = errors.New("principal already exists")

// MemoryPrincipalRepository keeps the set of principals that were issued an
// identity certificate during the lifetime of the process.
type MemoryPrincipalRepository struct {
	mu         sync.RWMutex
	principals map[models.Principal]struct{}
}

// NewMemoryPrincipalRepository creates an empty principal registry.
func NewMemoryPrincipalRepository() *MemoryPrincipalRepository {
	return &MemoryPrincipalRepository{principals: make(map[models.Principal]struct{})}
}

// PrincipalExists reports whether login has been registered.
func (r *MemoryPrincipalRepository) PrincipalExists(_ context.Context, login models.Principal) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.principals[login]
	return ok, nil
}

// RegisterPrincipal records login, or returns ErrPrincipalExists if it is taken.
func (r *MemoryPrincipalRepository) RegisterPrincipal(_ context.Context, login models.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.principals[login]; ok {
		return ErrPrincipalExists
	}
	r.principals[login] = struct{}{}
	return nil
}
