package http

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aschwizzy710/passkeeper/internal/middleware"
	"github.com/aschwizzy710/passkeeper/internal/models"
	"github.com/aschwizzy710/passkeeper/internal/service"
	"github.com/aschwizzy710/passkeeper/internal/validator"
)

// PasswordService defines the password-store operations required by
// PasswordHandler.
type PasswordService interface {
	Generate(ctx context.Context, caller models.Principal, length uint64) models.Entry
	Store(ctx context.Context, caller models.Principal, payload models.PasswordPayload) models.Entry
	Update(ctx context.Context, caller models.Principal, id uint64, payload models.PasswordPayload) (string, error)
	Delete(ctx context.Context, caller models.Principal, id uint64) (string, error)
	Get(ctx context.Context, id uint64) (models.Password, error)
	List(ctx context.Context) []models.Entry
	Validate(ctx context.Context, payload models.PasswordPayload) (string, error)
	CheckUniqueness(ctx context.Context, payload models.PasswordPayload) bool
}

// DefaultMaxLength caps Generate when PasswordHandler.MaxLength is unset.
const DefaultMaxLength = 4096

// PasswordHandler exposes PasswordService over HTTP. The caller is the
// principal that CertAuth put into the request context.
type PasswordHandler struct {
	PasswordService PasswordService
	// MaxLength caps the length accepted by Generate. Zero means DefaultMaxLength.
	MaxLength uint64
}

// GenerateRequest is the body of POST /api/passwords/generate.
type GenerateRequest struct {
	Length uint64 `json:"length"`
}

// MessageResponse carries the confirmation text of a successful operation.
type MessageResponse struct {
	Message string `json:"message"`
}

// UniquenessResponse is the body returned by the uniqueness check.
type UniquenessResponse struct {
	Unique bool `json:"unique"`
}

// Generate handles POST /api/passwords/generate.
func (h *PasswordHandler) Generate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if limit := cmp.Or(h.MaxLength, DefaultMaxLength); req.Length > limit {
		http.Error(w, fmt.Sprintf("length must not exceed %d", limit), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, h.PasswordService.Generate(r.Context(), caller, req.Length))
}

// Store handles POST /api/passwords.
func (h *PasswordHandler) Store(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusCreated, h.PasswordService.Store(r.Context(), caller, payload))
}

// List handles GET /api/passwords.
func (h *PasswordHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.PasswordService.List(r.Context()))
}

// Get handles GET /api/passwords/{id}.
func (h *PasswordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	p, err := h.PasswordService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/passwords/{id}.
func (h *PasswordHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	msg, err := h.PasswordService.Update(r.Context(), caller, id, payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// Delete handles DELETE /api/passwords/{id}.
func (h *PasswordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	msg, err := h.PasswordService.Delete(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// Validate handles POST /api/passwords/validate.
func (h *PasswordHandler) Validate(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	msg, err := h.PasswordService.Validate(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// CheckUniqueness handles POST /api/passwords/uniqueness.
func (h *PasswordHandler) CheckUniqueness(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, UniquenessResponse{Unique: h.PasswordService.CheckUniqueness(r.Context(), payload)})
}

func callerFrom(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	caller, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "client certificate required", http.StatusUnauthorized)
	}
	return caller, ok
}

func idParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodePayload(w http.ResponseWriter, r *http.Request) (models.PasswordPayload, bool) {
	var payload models.PasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return payload, false
	}
	return payload, true
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrPasswordNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, validator.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
