package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/spreadsheet"
	"github.com/deevseek/washcorner/internal/core/common/validation"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Repository runs the aggregate queries. Ranges are inclusive dates.
type Repository interface {
	Revenue(ctx context.Context, from, to time.Time) (Revenue, error)
	ExpensesByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	PayrollCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func validateRange(from, to time.Time) error {
	v := validation.NewValidator()
	v.Field("from", from).Required()
	v.Field("to", to).Required().NotBefore(from, "from")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ProfitLoss runs the revenue, expense and payroll aggregates concurrently.
func (s *Service) ProfitLoss(ctx context.Context, from, to time.Time) (*ProfitLoss, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	var (
		revenue  Revenue
		expenses []CategoryTotal
		payroll  decimal.Decimal
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.repo.Revenue(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("revenue: %w", err)
		}
		revenue = r
		return nil
	})

	g.Go(func() error {
		e, err := s.repo.ExpensesByCategory(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("expenses: %w", err)
		}
		expenses = e
		return nil
	})

	g.Go(func() error {
		p, err := s.repo.PayrollCost(gCtx, from, to)
		if err != nil {
			return fmt.Errorf("payroll cost: %w", err)
		}
		payroll = p
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "profit/loss aggregation failed", "error", err)
		return nil, errors.NewInternalError("failed to build profit/loss report", err)
	}

	report := NewProfitLoss(from, to, revenue, expenses, payroll)
	s.logger.InfoContext(ctx, "profit/loss report generated",
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
		"revenue", report.Revenue,
		"net_profit", report.NetProfit.String())
	return report, nil
}

func (s *Service) Export(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := s.ProfitLoss(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := [][]any{
		{"Periode", report.From.Format("2006-01-02") + " s/d " + report.To.Format("2006-01-02")},
		{"Jumlah transaksi", report.TransactionCount},
		{"Pendapatan", report.Revenue},
	}
	for _, c := range report.ExpensesByCategory {
		rows = append(rows, []any{"Biaya: " + c.Category, c.Total})
	}
	rows = append(rows,
		[]any{"Total biaya operasional", report.Expenses},
		[]any{"Biaya gaji", report.PayrollCost.InexactFloat64()},
		[]any{"Laba bersih", report.NetProfit.InexactFloat64()},
		[]any{"Margin (%)", report.Margin.InexactFloat64()},
	)

	data, err := spreadsheet.Build("Laba Rugi", []string{"Keterangan", "Nilai"}, rows)
	if err != nil {
		return nil, errors.NewInternalError("failed to render profit/loss workbook", err)
	}
	return data, nil
}
