package rbac

import (
	"context"
	"time"

	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
)

type Role struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsBuiltin   bool      `json:"is_builtin"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Permission struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Module      string `json:"module"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// Store is the persistence surface used by seeding and role management.
type Store interface {
	// WithinTx runs fn against a Store bound to one database transaction.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	// LockSeeding serializes seeding across processes for the current transaction.
	LockSeeding(ctx context.Context) error

	ListRoles(ctx context.Context) ([]*rbacDatamodel.Role, error)
	GetRoleByID(ctx context.Context, id int64) (*rbacDatamodel.Role, error)
	GetRoleByName(ctx context.Context, name string) (*rbacDatamodel.Role, error)
	CreateRole(ctx context.Context, role *rbacDatamodel.Role) error
	DeleteRole(ctx context.Context, id int64) error

	ListPermissions(ctx context.Context) ([]*rbacDatamodel.Permission, error)
	CreatePermission(ctx context.Context, permission *rbacDatamodel.Permission) error

	// ReplaceBindings deletes every binding of roleID and inserts permissionIDs.
	ReplaceBindings(ctx context.Context, roleID int64, permissionIDs []int64) error
	// RolePermissionNames returns the permission names bound to roleName.
	// found is false when no such role exists.
	RolePermissionNames(ctx context.Context, roleName string) (names []string, found bool, err error)
	CountUsersWithRole(ctx context.Context, roleID int64) (int64, error)
}

func RoleFromDataModel(r *rbacDatamodel.Role) *Role {
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsBuiltin:   r.IsBuiltin,
		CreatedAt:   r.CreatedAt,
	}
}

func PermissionFromDataModel(p *rbacDatamodel.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Name:        p.Name,
		Module:      p.Module,
		Action:      p.Action,
		Description: p.Description,
	}
}
