package middleware

import (
	"context"
	"net/http"

	"github.com/clockwork-hr/ledger-backend-go/internal/domain/identity"
	"github.com/clockwork-hr/ledger-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// ActorRequired resolves the authenticated actor from the verified token and
// stores it on the request context. Requests without a valid employee_id or
// role claim are rejected.
func ActorRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.Unauthorized(w, "Missing or invalid token")
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Unauthorized(w, "Token has no employee identity")
			return
		}

		roleStr, _ := claims["role"].(string)
		role := identity.Role(roleStr)
		if !identity.ValidRole(role) {
			role = identity.RoleEmployee
		}

		actor := identity.Actor{EmployeeID: employeeID, Role: role}
		ctx := context.WithValue(r.Context(), actorKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the actor stored by ActorRequired.
func ActorFromContext(ctx context.Context) (identity.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(identity.Actor)
	return actor, ok
}

// RequireReviewer requires a reviewer or admin actor.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Missing or invalid token")
			return
		}
		if !actor.CanReview() {
			response.Forbidden(w, "Reviewer access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
