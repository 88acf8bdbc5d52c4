// Package middleware provides HTTP middlewares for authentication,
// request logging and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aschwizzy710/passkeeper/internal/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// publicPaths are served without a client certificate.
var publicPaths = map[string]struct{}{
	"/api/register": {},
	"/api/health":   {},
}

// CertAuth is a middleware that enforces mutual TLS authentication.
//
// It checks whether the incoming HTTP request has a verified client
// certificate. Registration and health endpoints, with or without a
// trailing slash, are excluded so new callers can obtain a certificate.
//
// On success the Common Name (CN) of the certificate is stored in the
// request context as the caller's principal.
func CertAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := publicPaths[trimSlash(r.URL.Path)]; ok {
			next.ServeHTTP(w, r)
			return
		}
		if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
			http.Error(w, "no client certificate provided", http.StatusUnauthorized)
			return
		}
		cn := r.TLS.PeerCertificates[0].Subject.CommonName
		if cn == "" {
			http.Error(w, "client certificate has no common name", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), models.Principal(cn))))
	})
}

func trimSlash(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext extracts the caller's principal from the request
// context. The boolean is false if CertAuth did not run.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey).(models.Principal)
	return p, ok && p != ""
}
