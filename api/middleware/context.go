package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/nengoo-market/nengoo-backend/internal/orders"
	"github.com/nengoo-market/nengoo-backend/pkg/enums"
)

type contextKey string

const (
	ctxActorID contextKey = "actor_id"
	ctxRole    contextKey = "actor_role"
)

func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.ActorRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return enums.ActorRole(v)
	}
	return ""
}

// ActorFromContext rebuilds the authenticated actor seeded by the Auth
// middleware. The second return is false when the request never passed
// through Auth.
func ActorFromContext(ctx context.Context) (orders.Actor, bool) {
	id, err := uuid.Parse(ActorIDFromContext(ctx))
	if err != nil {
		return orders.Actor{}, false
	}
	role := RoleFromContext(ctx)
	if !role.IsValid() {
		return orders.Actor{}, false
	}
	return orders.Actor{ID: id, Role: role}, true
}

// WithActor injects the actor identity into the context.
func WithActor(ctx context.Context, actorID uuid.UUID, role enums.ActorRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxActorID, actorID.String())
	return context.WithValue(ctx, ctxRole, string(role))
}
