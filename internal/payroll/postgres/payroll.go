package postgres

import (
	"context"
	"errors"
	"time"

	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/deevseek/washcorner/internal/payroll"
	"gorm.io/gorm"
)

type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) payroll.Repository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) withEmployee(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("payrolls").
		Select("payrolls.*, employees.name AS employee_name, employees.position AS employee_position").
		Joins("LEFT JOIN employees ON employees.id = payrolls.employee_id").
		Where("payrolls.deleted_at IS NULL")
}

func (r *PayrollRepository) Create(ctx context.Context, p *payrollDatamodel.Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PayrollRepository) GetByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollWithEmployee, error) {
	var p payrollDatamodel.PayrollWithEmployee
	if err := r.withEmployee(ctx).Where("payrolls.id = ?", id).Take(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PayrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]*payrollDatamodel.PayrollWithEmployee, error) {
	q := r.withEmployee(ctx)
	if filter.EmployeeID > 0 {
		q = q.Where("payrolls.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("payrolls.status = ?", filter.Status)
	}
	// periods overlapping [From, To]
	if !filter.From.IsZero() {
		q = q.Where("payrolls.period_end >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("payrolls.period_start <= ?", filter.To)
	}

	var rows []*payrollDatamodel.PayrollWithEmployee
	err := q.Order("payrolls.period_start DESC, payrolls.id DESC").Find(&rows).Error
	return rows, err
}

func (r *PayrollRepository) UpdateStatus(ctx context.Context, id int64, from, to payroll.Status, paymentDate *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	if paymentDate != nil {
		updates["payment_date"] = *paymentDate
	}
	res := r.db.WithContext(ctx).
		Model(&payrollDatamodel.Payroll{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PayrollRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&payrollDatamodel.Payroll{}, id).Error
}
