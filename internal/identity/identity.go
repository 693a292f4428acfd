// Package identity carries the acting party through request context. Who
// authenticated them is an upstream concern; the core only needs to know
// which party is acting to address notifications and record transitions.
package identity

import (
	"context"

	"github.com/hazelbrook/bookline/internal/booking"
)

type contextKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor booking.Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext extracts the actor placed by the middleware.
func ActorFromContext(ctx context.Context) (booking.Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(booking.Actor)
	return actor, ok
}
