package rbac

import (
	"context"
	"log/slog"
)

type Authorizer struct {
	store  Store
	logger *slog.Logger
}

func NewAuthorizer(store Store, logger *slog.Logger) *Authorizer {
	return &Authorizer{store: store, logger: logger}
}

// Authorize reports whether role holds permission. It denies on every
// ambiguity: a permission outside the catalog, an empty or unknown role,
// a role without bindings, or a failed lookup.
func (a *Authorizer) Authorize(ctx context.Context, role, permission string) bool {
	if !InCatalog(permission) {
		a.logger.WarnContext(ctx, "authorization denied: permission not in catalog", "permission", permission)
		return false
	}
	if role == "" {
		return false
	}

	names, found, err := a.store.RolePermissionNames(ctx, role)
	if err != nil {
		a.logger.ErrorContext(ctx, "authorization lookup failed", "role", role, "permission", permission, "error", err)
		return false
	}
	if !found {
		a.logger.WarnContext(ctx, "authorization denied: unknown role", "role", role)
		return false
	}

	for _, n := range names {
		if n == permission {
			return true
		}
	}
	return false
}

// PermissionsOf returns the permission names bound to role, or nil when the
// role cannot be resolved.
func (a *Authorizer) PermissionsOf(ctx context.Context, role string) []string {
	if role == "" {
		return nil
	}
	names, found, err := a.store.RolePermissionNames(ctx, role)
	if err != nil || !found {
		return nil
	}
	return names
}
