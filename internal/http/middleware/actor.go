package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/booking"
	"github.com/hazelbrook/bookline/internal/identity"
)

const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

// RequireActor enforces acting-party headers on mutating booking endpoints.
// The upstream gateway authenticates the party; this middleware only parses
// and propagates the claim.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := strings.TrimSpace(r.Header.Get(actorIDHeader))
		rawRole := strings.TrimSpace(r.Header.Get(actorRoleHeader))
		if rawID == "" || rawRole == "" {
			http.Error(w, "missing X-Actor-Id or X-Actor-Role", http.StatusBadRequest)
			return
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			http.Error(w, "invalid X-Actor-Id", http.StatusBadRequest)
			return
		}
		role, ok := booking.ParseRole(rawRole)
		if !ok {
			http.Error(w, "invalid X-Actor-Role", http.StatusBadRequest)
			return
		}
		ctx := identity.WithActor(r.Context(), booking.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
