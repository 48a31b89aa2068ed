package postgres

import (
	"context"
	"errors"
	"time"

	expenseDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/expense"
	"github.com/deevseek/washcorner/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Create(exp).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exp, nil
}

// List returns expenses newest first.
func (r *ExpenseRepository) List(ctx context.Context, filter expense.ListFilter) ([]*expenseDatamodel.Expense, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if filter.CategoryID > 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.From.IsZero() {
		q = q.Where("expense_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("expense_date < ?", filter.To.Add(24*time.Hour))
	}

	var expenses []*expenseDatamodel.Expense
	err := q.Order("expense_date DESC").Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Omit("Category").Save(exp).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id).Error
}
