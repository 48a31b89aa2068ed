package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"github.com/deevseek/washcorner/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users").
		Select("users.*, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id")
}

func (r *UserRepository) first(q *gorm.DB) (*userDatamodel.UserWithRole, error) {
	var u userDatamodel.UserWithRole
	if err := q.Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.UserWithRole, error) {
	return r.first(r.withRole(ctx).Where("users.id = ?", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.UserWithRole, error) {
	return r.first(r.withRole(ctx).Where("users.email = ?", email))
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.UserWithRole, error) {
	var users []*userDatamodel.UserWithRole
	err := r.withRole(ctx).Order("users.name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, roleID int64) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Update("role_id", roleID).Error
}
