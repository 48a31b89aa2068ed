package postgres

import (
	"context"
	"time"

	"github.com/deevseek/washcorner/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	revenueQuery = `SELECT COUNT(*) AS count, COALESCE(SUM(total), 0) AS total
		FROM transactions
		WHERE status = ? AND date >= ? AND date < ?`

	expensesQuery = `SELECT c.name AS category, COALESCE(SUM(e.amount), 0) AS total
		FROM expenses e
		JOIN expense_categories c ON c.id = e.category_id
		WHERE e.expense_date >= ? AND e.expense_date < ?
		GROUP BY c.name
		ORDER BY total DESC, c.name ASC`

	payrollQuery = `SELECT COALESCE(SUM(total_amount), 0)
		FROM payrolls
		WHERE status = ? AND deleted_at IS NULL AND payment_date >= ? AND payment_date < ?`
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.Repository {
	return &ReportRepository{db: db}
}

// bounds turns an inclusive date range into a half-open one.
func bounds(from, to time.Time) (time.Time, time.Time) {
	return from, to.AddDate(0, 0, 1)
}

func (r *ReportRepository) Revenue(ctx context.Context, from, to time.Time) (report.Revenue, error) {
	start, end := bounds(from, to)
	var out report.Revenue
	err := r.db.GetContext(ctx, &out, r.db.Rebind(revenueQuery), "completed", start, end)
	return out, err
}

func (r *ReportRepository) ExpensesByCategory(ctx context.Context, from, to time.Time) ([]report.CategoryTotal, error) {
	start, end := bounds(from, to)
	var out []report.CategoryTotal
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(expensesQuery), start, end)
	return out, err
}

func (r *ReportRepository) PayrollCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	start, end := bounds(from, to)
	var out decimal.Decimal
	err := r.db.GetContext(ctx, &out, r.db.Rebind(payrollQuery), "paid", start, end)
	return out, err
}
