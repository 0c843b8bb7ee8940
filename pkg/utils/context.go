package utils

import (
	"context"

	"content-review/internal/authz"
)

type contextKey string

const actorKey contextKey = "actor"

// SetActorContext attaches the authenticated actor to the request
// context.
func SetActorContext(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActorFromContext returns the actor, or authz.Anonymous when the
// request never passed the auth middleware.
func GetActorFromContext(ctx context.Context) authz.Actor {
	if actor, ok := ctx.Value(actorKey).(authz.Actor); ok {
		return actor
	}
	return authz.Anonymous
}
