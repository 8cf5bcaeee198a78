package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
)

type contextKey string

const (
	TenantKey contextKey = "tenant"
	APIKeyKey contextKey = "api_key"
)

// openPaths endpoints yang boleh tanpa API key
var openPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// APIKeyAuth validates API key from Authorization header.
// validKeys map tenant → key. Endpoint websocket menerima key lewat
// query param karena browser gak bisa set header di handshake.
func APIKeyAuth(validKeys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			apiKey := bearerToken(r.Header.Get("Authorization"))
			if apiKey == "" && strings.HasSuffix(r.URL.Path, "/ws") {
				apiKey = r.URL.Query().Get("api_key")
			}
			if apiKey == "" {
				http.Error(w, "missing API key", http.StatusUnauthorized)
				return
			}

			// Validate API key (constant-time comparison to prevent timing attacks)
			valid := false
			var tenant string
			for t, key := range validKeys {
				if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
					valid = true
					tenant = t
					break
				}
			}
			if !valid {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TenantKey, tenant)
			ctx = context.WithValue(ctx, APIKeyKey, apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(auth string) string {
	// Support both "Bearer <key>" and "<key>" formats
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// GetTenantFromContext extracts tenant from context
func GetTenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(TenantKey).(string); ok {
		return tenant
	}
	return ""
}
