package server

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/smartguide/smartguide/internal/identity"
	"github.com/smartguide/smartguide/internal/user"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext returns the verified identity, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *identity.Identity {
	id, _ := ctx.Value(identityContextKey).(*identity.Identity)
	return id
}

// WithIdentity verifies an optional bearer session token and stores the
// resulting identity in the request context. Verification failures degrade to
// an anonymous request; the API works without an identity present.
func WithIdentity(verifier identity.Verifier, users user.Repository, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" || verifier == nil {
			next.ServeHTTP(w, r)
			return
		}

		id, err := verifier.Verify(r.Context(), token)
		if err != nil {
			slog.Default().Warn("Identity verification failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if id == nil {
			next.ServeHTTP(w, r)
			return
		}

		if users != nil {
			if _, err := users.Ensure(r.Context(), *id); err != nil {
				slog.Default().Warn("Failed to sync user record", "error", err)
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityContextKey, id)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CORSMiddleware allows the configured web origins to call the API.
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
