package rbac

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/deevseek/washcorner/internal"
	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
)

type Seeder struct {
	store  Store
	logger *slog.Logger
}

func NewSeeder(store Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Ensure brings roles, permissions and built-in bindings in line with the
// catalog inside a single transaction. Custom role bindings are not touched.
// Any failure is an InitializationError; callers must not serve traffic after one.
func (s *Seeder) Ensure(ctx context.Context) error {
	err := s.store.WithinTx(ctx, func(tx Store) error {
		if err := tx.LockSeeding(ctx); err != nil {
			return fmt.Errorf("acquire seed lock: %w", err)
		}

		roleRows, err := tx.ListRoles(ctx)
		if err != nil {
			return fmt.Errorf("list roles: %w", err)
		}
		permRows, err := tx.ListPermissions(ctx)
		if err != nil {
			return fmt.Errorf("list permissions: %w", err)
		}

		roleIDs := make(map[string]int64, len(roleRows))
		existingRoles := make([]Role, 0, len(roleRows))
		for _, r := range roleRows {
			roleIDs[r.Name] = r.ID
			existingRoles = append(existingRoles, *RoleFromDataModel(r))
		}
		permIDs := make(map[string]int64, len(permRows))
		existingPerms := make([]Permission, 0, len(permRows))
		for _, p := range permRows {
			permIDs[p.Name] = p.ID
			existingPerms = append(existingPerms, *PermissionFromDataModel(p))
		}

		plan := Plan(existingRoles, existingPerms)

		for _, r := range plan.RolesToCreate {
			row := &rbacDatamodel.Role{Name: r.Name, Description: r.Description, IsBuiltin: true}
			if err := tx.CreateRole(ctx, row); err != nil {
				return fmt.Errorf("create role %s: %w", r.Name, err)
			}
			roleIDs[r.Name] = row.ID
			s.logger.Info("created role", "role", r.Name, "id", row.ID)
		}

		for _, p := range plan.PermissionsToCreate {
			row := &rbacDatamodel.Permission{Name: p.Name, Module: p.Module, Action: p.Action, Description: p.Description}
			if err := tx.CreatePermission(ctx, row); err != nil {
				return fmt.Errorf("create permission %s: %w", p.Name, err)
			}
			permIDs[p.Name] = row.ID
		}

		for _, br := range builtinRoles {
			if roleIDs[br.Name] <= 0 {
				return fmt.Errorf("role %s has no valid id", br.Name)
			}
		}
		for _, e := range entries {
			if permIDs[e.Name] <= 0 {
				return fmt.Errorf("permission %s has no valid id", e.Name)
			}
		}

		for _, br := range builtinRoles {
			names := plan.Bindings[br.Name]
			ids := make([]int64, 0, len(names))
			for _, n := range names {
				ids = append(ids, permIDs[n])
			}
			if err := tx.ReplaceBindings(ctx, roleIDs[br.Name], ids); err != nil {
				return fmt.Errorf("bind permissions to %s: %w", br.Name, err)
			}
			s.logger.Debug("bound role permissions", "role", br.Name, "count", len(ids))
		}

		s.logger.Info("roles and permissions ensured",
			"roles_created", len(plan.RolesToCreate),
			"permissions_created", len(plan.PermissionsToCreate),
			"catalog_size", len(entries))
		return nil
	})
	if err != nil {
		s.logger.Error("role and permission seeding failed", "error", err)
		return errors.NewInitializationError("failed to ensure roles and permissions", err)
	}
	return nil
}
