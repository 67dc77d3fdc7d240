package auth

import (
	"context"
	"net/http"

	"github.com/apptrackhq/ats/internal/store/model"
)

// Actor is the authenticated caller as asserted by the upstream auth
// proxy. Credential verification happens before this service.
type Actor struct {
	ID   string
	Role model.Role
}

type actorContextKey int

const actorKey actorContextKey = iota

func NewActorContext(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}

func MustHaveActor(ctx context.Context) Actor {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		panic("actor missing from context")
	}
	return actor
}

// Middleware reads the actor identity from the X-Actor-Role and
// X-Actor-Id headers. Requests without a known role are rejected.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := model.Role(r.Header.Get("X-Actor-Role"))
		if !role.Known() {
			http.Error(w, "unknown actor role", http.StatusUnauthorized)
			return
		}

		actor := Actor{
			ID:   r.Header.Get("X-Actor-Id"),
			Role: role,
		}
		next.ServeHTTP(w, r.WithContext(NewActorContext(r.Context(), actor)))
	})
}
