package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/transport"
)

type PermissionAuthorizer interface {
	Authorize(ctx context.Context, role, permission string) bool
}

// RBACAuthorization turns the permission gate into chi middleware.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer PermissionAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer PermissionAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		authorizer:  authorizer,
		logger:      logger,
	}
}

// Require answers 401 without an authenticated actor and 403 unless the
// actor's role holds permission.
func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				ra.logger.WarnContext(r.Context(), "authorization check failed: no actor in context", "permission", permission)
				ra.WriteAppError(w, internal.ErrInvalidToken.WithMessage("authentication required"))
				return
			}

			if !ra.authorizer.Authorize(r.Context(), actor.Role, permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", actor.UserID,
					"role", actor.Role,
					"required_permission", permission)
				ra.WriteAppError(w, internal.ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is the coarse gate for role and permission management. It is
// stacked on top of Require, never used instead of it.
func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := internal.ActorFromContext(r.Context())
			if !ok {
				ra.WriteAppError(w, internal.ErrInvalidToken.WithMessage("authentication required"))
				return
			}

			if actor.Role != "admin" {
				ra.logger.WarnContext(r.Context(), "access denied: admin role required", "user_id", actor.UserID, "role", actor.Role)
				ra.WriteAppError(w, internal.ErrPermissionDenied.WithMessage("Forbidden: administrator role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
