// Package http provides the HTTP handlers and router of the PassKeeper API:
// identity registration, certificate-based login and the password store.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aschwizzy710/passkeeper/internal/models"
	"github.com/aschwizzy710/passkeeper/internal/service"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// PrincipalExists checks whether login has been registered.
	PrincipalExists(context.Context, models.Principal) (bool, error)
	// Register reserves a fresh principal derived from login.
	Register(context.Context, string) (models.Principal, error)
}

// Issuer signs client identity certificates.
type Issuer interface {
	// IssueClient returns a PEM certificate and key with Common Name cn.
	IssueClient(cn string) ([]byte, []byte, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	AuthService AuthService
	Issuer      Issuer
}

// RegisterRequest represents the JSON payload for registration.
type RegisterRequest struct {
	// Login is the prefix of the principal that is handed out.
	Login string `json:"login"`
}

// RegisterResponse carries the issued identity.
type RegisterResponse struct {
	// Principal is the Common Name of Cert and the owner of future records.
	Principal models.Principal `json:"principal"`
	Cert      string           `json:"cert"`
	Key       string           `json:"key"`
}

// Register handles POST /api/register.
// It expects a JSON body with a non-empty "login", reserves a principal
// derived from it, issues a client certificate for that principal signed by
// the CA and returns the principal with the PEM-encoded certificate and key.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	principal, err := h.AuthService.Register(r.Context(), req.Login)
	switch {
	case errors.Is(err, service.ErrInvalidLogin):
		http.Error(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrPrincipalTaken):
		http.Error(w, "user already exists", http.StatusConflict)
		return
	case err != nil:
		http.Error(w, "failed to save user", http.StatusInternalServerError)
		return
	}

	certPEM, keyPEM, err := h.Issuer.IssueClient(string(principal))
	if err != nil {
		http.Error(w, "failed to generate certificate", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{
		Principal: principal,
		Cert:      string(certPEM),
		Key:       string(keyPEM),
	})
}

// Login handles POST /api/login.
// The Common Name of the verified client certificate is the login. If it
// was registered, Login returns status "ok" and the login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	login, ok := callerFrom(w, r)
	if !ok {
		return
	}

	exists, err := h.AuthService.PrincipalExists(r.Context(), login)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if !exists {
		http.Error(w, "user not found", http.StatusForbidden)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"user":   string(login),
	})
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

