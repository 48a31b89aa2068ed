package postgres

import (
	"context"
	"errors"

	rbacDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/rbac"
	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"github.com/deevseek/washcorner/internal/rbac"
	"gorm.io/gorm"
)

// seedLockKey identifies the advisory lock held while seeding roles.
const seedLockKey int64 = 0x7763_7262_6163

type RBACRepository struct {
	db *gorm.DB
}

func NewRBACRepository(db *gorm.DB) rbac.Store {
	return &RBACRepository{db: db}
}

func (r *RBACRepository) WithinTx(ctx context.Context, fn func(tx rbac.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RBACRepository{db: tx})
	})
}

// LockSeeding takes a transaction scoped advisory lock on Postgres. Other
// dialects run single-process and skip it.
func (r *RBACRepository) LockSeeding(ctx context.Context) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", seedLockKey).Error
}

func (r *RBACRepository) ListRoles(ctx context.Context) ([]*rbacDatamodel.Role, error) {
	var roles []*rbacDatamodel.Role
	err := r.db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *RBACRepository) GetRoleByID(ctx context.Context, id int64) (*rbacDatamodel.Role, error) {
	var role rbacDatamodel.Role
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) GetRoleByName(ctx context.Context, name string) (*rbacDatamodel.Role, error) {
	var role rbacDatamodel.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *RBACRepository) CreateRole(ctx context.Context, role *rbacDatamodel.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *RBACRepository) DeleteRole(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&rbacDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rbacDatamodel.Role{}, id).Error
	})
}

func (r *RBACRepository) ListPermissions(ctx context.Context) ([]*rbacDatamodel.Permission, error) {
	var perms []*rbacDatamodel.Permission
	err := r.db.WithContext(ctx).Order("id ASC").Find(&perms).Error
	return perms, err
}

func (r *RBACRepository) CreatePermission(ctx context.Context, permission *rbacDatamodel.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *RBACRepository) ReplaceBindings(ctx context.Context, roleID int64, permissionIDs []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("role_id = ?", roleID).Delete(&rbacDatamodel.RolePermission{}).Error; err != nil {
		return err
	}
	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]rbacDatamodel.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		rows = append(rows, rbacDatamodel.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return db.CreateInBatches(rows, 100).Error
}

func (r *RBACRepository) RolePermissionNames(ctx context.Context, roleName string) ([]string, bool, error) {
	role, err := r.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, false, err
	}
	if role == nil {
		return nil, false, nil
	}

	var names []string
	err = r.db.WithContext(ctx).
		Table("permissions p").
		Select("p.name").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id").
		Where("rp.role_id = ?", role.ID).
		Order("p.id ASC").
		Pluck("p.name", &names).Error
	if err != nil {
		return nil, true, err
	}
	return names, true, nil
}

func (r *RBACRepository) CountUsersWithRole(ctx context.Context, roleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}
