// Package repository provides in-memory persistence for password records
// and registered principals.
package repository

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aschwizzy710/passkeeper/internal/models"
)

// ErrNotFound is returned when no record exists for the requested id.
var ErrNotFound = errors.New("record not found")

// MemoryPasswordRepository is a map of password records keyed by a
// monotonically increasing id. A single mutex guards both the map and the
// counter, so every method runs as one indivisible operation.
type MemoryPasswordRepository struct {
	mu      sync.Mutex
	records map[uint64]models.Password
	// lastID is the most recently issued id. Ids start at 1 and are never reused.
	lastID uint64
}

// NewMemoryPasswordRepository creates an empty repository.
func NewMemoryPasswordRepository() *MemoryPasswordRepository {
	return &MemoryPasswordRepository{records: make(map[uint64]models.Password)}
}

// Insert assigns the next id to p, stores it and returns the id.
func (r *MemoryPasswordRepository) Insert(_ context.Context, p models.Password) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	r.records[r.lastID] = p
	return r.lastID
}

// Get returns a copy of the record stored under id.
func (r *MemoryPasswordRepository) Get(_ context.Context, id uint64) (models.Password, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return models.Password{}, ErrNotFound
	}
	return p, nil
}

// List returns a snapshot of every record ordered by id.
func (r *MemoryPasswordRepository) List(_ context.Context) []models.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]models.Entry, 0, len(r.records))
	for id, p := range r.records {
		entries = append(entries, models.Entry{ID: id, Password: p})
	}
	slices.SortFunc(entries, func(a, b models.Entry) int { return cmp.Compare(a.ID, b.ID) })
	return entries
}

// Update loads the record under id, passes a copy to fn and stores the
// result if fn returns nil. The record is left untouched when fn fails.
// The lookup and the write happen under one lock acquisition.
func (r *MemoryPasswordRepository) Update(_ context.Context, id uint64, fn func(p *models.Password) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	if err := fn(&p); err != nil {
		return err
	}
	r.records[id] = p
	return nil
}

// Delete removes the record under id if check returns nil for it.
// The id is not recycled.
func (r *MemoryPasswordRepository) Delete(_ context.Context, id uint64, check func(p models.Password) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	if check != nil {
		if err := check(p); err != nil {
			return err
		}
	}
	delete(r.records, id)
	return nil
}

// ContainsValue reports whether any stored record has exactly value.
func (r *MemoryPasswordRepository) ContainsValue(_ context.Context, value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.records {
		if p.Value == value {
			return true
		}
	}
	return false
}
