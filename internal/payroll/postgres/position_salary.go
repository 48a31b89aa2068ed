package postgres

import (
	"context"
	"errors"

	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/deevseek/washcorner/internal/payroll"
	"gorm.io/gorm"
)

type PositionSalaryRepository struct {
	db *gorm.DB
}

func NewPositionSalaryRepository(db *gorm.DB) payroll.PositionSalaryRepository {
	return &PositionSalaryRepository{db: db}
}

func (r *PositionSalaryRepository) List(ctx context.Context) ([]*payrollDatamodel.PositionSalary, error) {
	var rows []*payrollDatamodel.PositionSalary
	err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error
	return rows, err
}

func (r *PositionSalaryRepository) first(q *gorm.DB) (*payrollDatamodel.PositionSalary, error) {
	var row payrollDatamodel.PositionSalary
	if err := q.Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *PositionSalaryRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.PositionSalary, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByPosition matches position names case-insensitively.
func (r *PositionSalaryRepository) GetByPosition(ctx context.Context, position string) (*payrollDatamodel.PositionSalary, error) {
	return r.first(r.db.WithContext(ctx).Where("LOWER(position) = LOWER(?)", position))
}

func (r *PositionSalaryRepository) Create(ctx context.Context, p *payrollDatamodel.PositionSalary) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PositionSalaryRepository) Update(ctx context.Context, p *payrollDatamodel.PositionSalary) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PositionSalaryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&payrollDatamodel.PositionSalary{}, id).Error
}
