package postgres

import (
	"context"
	"errors"

	"github.com/deevseek/washcorner/internal/auth"
	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) withRole(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users").
		Select("users.*, roles.name AS role_name").
		Joins("LEFT JOIN roles ON roles.id = users.role_id")
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.UserWithRole, error) {
	var u userDatamodel.UserWithRole
	err := r.withRole(ctx).Where("users.email = ?", email).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.UserWithRole, error) {
	var u userDatamodel.UserWithRole
	err := r.withRole(ctx).Where("users.id = ?", id).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
