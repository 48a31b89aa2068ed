package rbac

import (
	"context"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) ListRoles(ctx context.Context) ([]*Role, error) {
	rows, err := s.store.ListRoles(ctx)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, errors.NewInternalError("failed to list roles", err)
	}

	roles := make([]*Role, 0, len(rows))
	for _, row := range rows {
		role := RoleFromDataModel(row)
		names, _, err := s.store.RolePermissionNames(ctx, role.Name)
		if err != nil {
			return nil, errors.NewInternalError("failed to load role permissions", err)
		}
		role.Permissions = names
		roles = append(roles, role)
	}
	return roles, nil
}

func (s *Service) ListPermissions(ctx context.Context) ([]*Permission, error) {
	rows, err := s.store.ListPermissions(ctx)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, errors.NewInternalError("failed to list permissions", err)
	}
	perms := make([]*Permission, 0, len(rows))
	for _, row := range rows {
		perms = append(perms, PermissionFromDataModel(row))
	}
	return perms, nil
}

func (s *Service) CreateRole(ctx context.Context, dto CreateRoleDTO) (*Role, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var created *Role
	err := s.store.WithinTx(ctx, func(tx Store) error {
		existing, err := tx.GetRoleByName(ctx, dto.Name)
		if err != nil {
			return errors.NewInternalError("failed to look up role", err)
		}
		if existing != nil {
			return errors.NewConflictError("role "+dto.Name+" already exists", errors.ErrCodeDuplicate)
		}

		row := &rbacDatamodel.Role{Name: dto.Name, Description: dto.Description}
		if err := tx.CreateRole(ctx, row); err != nil {
			return errors.NewInternalError("failed to create role", err)
		}

		ids, err := permissionIDs(ctx, tx, dto.Permissions)
		if err != nil {
			return err
		}
		if err := tx.ReplaceBindings(ctx, row.ID, ids); err != nil {
			return errors.NewInternalError("failed to bind permissions", err)
		}

		created = RoleFromDataModel(row)
		created.Permissions = dto.Permissions
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role", created.Name, "permissions", len(created.Permissions))
	return created, nil
}

// SetRolePermissions replaces the grant of a custom role. Built-in roles are
// rebuilt from the catalog at startup and cannot be edited here.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, dto SetPermissionsDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var updated *Role
	err := s.store.WithinTx(ctx, func(tx Store) error {
		row, err := tx.GetRoleByID(ctx, roleID)
		if err != nil {
			return errors.NewInternalError("failed to look up role", err)
		}
		if row == nil {
			return errors.NewNotFoundError("role not found", errors.ErrCodeRoleNotFound)
		}
		if row.IsBuiltin || IsBuiltinRole(row.Name) {
			return errors.NewValidationFieldError("role", "permissions of built-in role "+row.Name+" cannot be changed", errors.ErrCodeBuiltinRole)
		}

		ids, err := permissionIDs(ctx, tx, dto.Permissions)
		if err != nil {
			return err
		}
		if err := tx.ReplaceBindings(ctx, row.ID, ids); err != nil {
			return errors.NewInternalError("failed to bind permissions", err)
		}

		updated = RoleFromDataModel(row)
		updated.Permissions = dto.Permissions
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role permissions replaced", "role", updated.Name, "permissions", len(updated.Permissions))
	return updated, nil
}

func (s *Service) DeleteRole(ctx context.Context, roleID int64) error {
	row, err := s.store.GetRoleByID(ctx, roleID)
	if err != nil {
		return errors.NewInternalError("failed to look up role", err)
	}
	if row == nil {
		return errors.NewNotFoundError("role not found", errors.ErrCodeRoleNotFound)
	}
	if row.IsBuiltin || IsBuiltinRole(row.Name) {
		return errors.NewValidationFieldError("role", "built-in role "+row.Name+" cannot be deleted", errors.ErrCodeBuiltinRole)
	}

	users, err := s.store.CountUsersWithRole(ctx, roleID)
	if err != nil {
		return errors.NewInternalError("failed to count role members", err)
	}
	if users > 0 {
		return errors.NewConflictError("role is still assigned to users", errors.ErrCodeDuplicate)
	}

	if err := s.store.DeleteRole(ctx, roleID); err != nil {
		return errors.NewInternalError("failed to delete role", err)
	}
	s.logger.Info("role deleted", "role", row.Name)
	return nil
}

func permissionIDs(ctx context.Context, tx Store, names []string) ([]int64, error) {
	rows, err := tx.ListPermissions(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to list permissions", err)
	}
	byName := make(map[string]int64, len(rows))
	for _, p := range rows {
		byName[p.Name] = p.ID
	}

	ids := make([]int64, 0, len(names))
	seen := make(map[int64]bool, len(names))
	for _, n := range names {
		id, ok := byName[n]
		if !ok {
			return nil, errors.NewNotFoundError("permission "+n+" not found", errors.ErrCodeNotFound)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
