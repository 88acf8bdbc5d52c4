package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aschwizzy710/passkeeper/internal/middleware"
	"github.com/aschwizzy710/passkeeper/internal/models"
	"github.com/aschwizzy710/passkeeper/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	existsReturn bool
	existsErr    error
	registerErr  error
	registered   []models.Principal
}

func (f *fakeAuthService) PrincipalExists(_ context.Context, _ models.Principal) (bool, error) {
	return f.existsReturn, f.existsErr
}

func (f *fakeAuthService) Register(_ context.Context, login string) (models.Principal, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	p := models.Principal(login + "-1")
	f.registered = append(f.registered, p)
	return p, nil
}

// fakeIssuer implements Issuer for testing.
type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) IssueClient(cn string) ([]byte, []byte, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return []byte("cert-" + cn), []byte("key-" + cn), nil
}

func peer(cn string) *tls.ConnectionState {
	return &tls.ConnectionState{PeerCertificates: []*x509.Certificate{{Subject: pkix.Name{CommonName: cn}}}}
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		auth           *fakeAuthService
		issuer         *fakeIssuer
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			auth:           &fakeAuthService{},
			issuer:         &fakeIssuer{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "invalid login",
			body:           `{"login":"  "}`,
			auth:           &fakeAuthService{registerErr: service.ErrInvalidLogin},
			issuer:         &fakeIssuer{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "principal taken",
			body:           `{"login":"bob"}`,
			auth:           &fakeAuthService{registerErr: service.ErrPrincipalTaken},
			issuer:         &fakeIssuer{},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "user already exists",
		},
		{
			name:           "register failure",
			body:           `{"login":"dave"}`,
			auth:           &fakeAuthService{registerErr: errors.New("full")},
			issuer:         &fakeIssuer{},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "failed to save user",
		},
		{
			name:           "issue failure",
			body:           `{"login":"charlie"}`,
			auth:           &fakeAuthService{},
			issuer:         &fakeIssuer{err: errors.New("no ca")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "failed to generate certificate",
		},
		{
			name:           "success",
			body:           `{"login":"erin"}`,
			auth:           &fakeAuthService{},
			issuer:         &fakeIssuer{},
			expectedCode:   http.StatusOK,
			expectedSubstr: `"cert":"cert-erin-1"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.auth, Issuer: tt.issuer}
			h.Register(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedSubstr)
		})
	}
}

func TestAuthHandler_Register_ReturnsPrincipal(t *testing.T) {
	svc := &fakeAuthService{}
	h := &AuthHandler{AuthService: svc, Issuer: &fakeIssuer{}}

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewBufferString(`{"login":"alice"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []models.Principal{"alice-1"}, svc.registered)

	var body RegisterResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, models.Principal("alice-1"), body.Principal)
	assert.Equal(t, "key-alice-1", body.Key)
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name         string
		tlsState     *tls.ConnectionState
		auth         *fakeAuthService
		expectedCode int
		expectedJSON map[string]string
	}{
		{
			name:         "no TLS",
			tlsState:     nil,
			auth:         &fakeAuthService{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "empty peer certs",
			tlsState:     &tls.ConnectionState{},
			auth:         &fakeAuthService{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "PrincipalExists error",
			tlsState:     peer("dave"),
			auth:         &fakeAuthService{existsErr: errors.New("store fail")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "user not found",
			tlsState:     peer("erin"),
			auth:         &fakeAuthService{existsReturn: false},
			expectedCode: http.StatusForbidden,
		},
		{
			name:         "successful login",
			tlsState:     peer("frank"),
			auth:         &fakeAuthService{existsReturn: true},
			expectedCode: http.StatusOK,
			expectedJSON: map[string]string{"status": "ok", "user": "frank"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
			req.TLS = tt.tlsState

			h := &AuthHandler{AuthService: tt.auth}
			middleware.CertAuth(http.HandlerFunc(h.Login)).ServeHTTP(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedJSON != nil {
				var payload map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
				assert.Equal(t, tt.expectedJSON, payload)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
