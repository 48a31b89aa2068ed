package postgres

import (
	"context"
	"errors"

	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
	"github.com/deevseek/washcorner/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

var _ employee.RepositoryAPI = (*EmployeeRepository)(nil)

func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]*employeeDatamodel.Employee, error) {
	q := r.db.WithContext(ctx)
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Position != "" {
		q = q.Where("LOWER(position) = LOWER(?)", filter.Position)
	}
	var rows []*employeeDatamodel.Employee
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *EmployeeRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&employeeDatamodel.Employee{}).Where("id = ?", id).Update("is_active", false).Error
}
