package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

// IdentityVerifier resolves a bearer token to the caller identity.
type IdentityVerifier interface {
	Verify(token string) (model.Identity, error)
}

type identityKey struct{}

// Authenticate rejects requests without a valid bearer token and stores the
// resolved identity in the request context.
func Authenticate(v IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeServiceError(w, r, fmt.Errorf("%w: missing bearer token", model.ErrUnauthenticated))
				return
			}

			id, err := v.Verify(strings.TrimSpace(token))
			if err != nil {
				writeServiceError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the identity stored by Authenticate.
func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	return id, ok
}
