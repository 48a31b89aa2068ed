package report_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/report"
	"github.com/deevseek/washcorner/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type mockRepository struct {
	revenue    report.Revenue
	expenses   []report.CategoryTotal
	payroll    decimal.Decimal
	payrollErr error
	calls      atomic.Int32
	lastFrom   time.Time
	lastTo     time.Time
}

func (m *mockRepository) Revenue(ctx context.Context, from, to time.Time) (report.Revenue, error) {
	m.calls.Add(1)
	m.lastFrom, m.lastTo = from, to
	return m.revenue, nil
}

func (m *mockRepository) ExpensesByCategory(ctx context.Context, from, to time.Time) ([]report.CategoryTotal, error) {
	m.calls.Add(1)
	return m.expenses, nil
}

func (m *mockRepository) PayrollCost(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	m.calls.Add(1)
	return m.payroll, m.payrollErr
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("NewProfitLoss", func() {
	It("subtracts expenses and payroll from revenue", func() {
		pl := report.NewProfitLoss(date("2024-03-01"), date("2024-03-31"),
			report.Revenue{Count: 12, Total: 2000000},
			[]report.CategoryTotal{{Category: "Listrik", Total: 300000}, {Category: "Sabun", Total: 200000}},
			decimal.NewFromInt(700000))

		Expect(pl.Expenses).To(Equal(int64(500000)))
		Expect(pl.TransactionCount).To(Equal(int64(12)))
		Expect(pl.NetProfit.Equal(decimal.NewFromInt(800000))).To(BeTrue())
		Expect(pl.Margin.String()).To(Equal("40"))
	})

	It("reports a zero margin without revenue", func() {
		pl := report.NewProfitLoss(date("2024-03-01"), date("2024-03-31"), report.Revenue{}, nil, decimal.NewFromInt(100000))
		Expect(pl.NetProfit.Equal(decimal.NewFromInt(-100000))).To(BeTrue())
		Expect(pl.Margin.IsZero()).To(BeTrue())
		Expect(pl.ExpensesByCategory).NotTo(BeNil())
	})

	It("rounds the margin to two places", func() {
		pl := report.NewProfitLoss(date("2024-03-01"), date("2024-03-31"), report.Revenue{Total: 300000}, nil, decimal.NewFromInt(200000))
		Expect(pl.Margin.String()).To(Equal("33.33"))
	})
})

var _ = Describe("Service", func() {
	var (
		ctx  context.Context
		repo *mockRepository
		svc  *report.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{
			revenue:  report.Revenue{Count: 3, Total: 150000},
			expenses: []report.CategoryTotal{{Category: "Sabun", Total: 50000}},
			payroll:  decimal.NewFromInt(35000),
		}
		svc = report.NewService(repo, quietLogger())
	})

	It("runs all three aggregates", func() {
		pl, err := svc.ProfitLoss(ctx, date("2024-03-01"), date("2024-03-31"))
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.calls.Load()).To(Equal(int32(3)))
		Expect(pl.NetProfit.Equal(decimal.NewFromInt(65000))).To(BeTrue())
	})

	It("rejects a range that ends before it starts", func() {
		_, err := svc.ProfitLoss(ctx, date("2024-03-31"), date("2024-03-01"))
		Expect(errors.IsErrorType(err, errors.ErrorTypeValidation)).To(BeTrue())
		Expect(repo.calls.Load()).To(BeZero())
	})

	It("wraps aggregate failures as internal errors", func() {
		repo.payrollErr = fmt.Errorf("connection reset")
		_, err := svc.ProfitLoss(ctx, date("2024-03-01"), date("2024-03-31"))
		Expect(errors.IsErrorType(err, errors.ErrorTypeInternal)).To(BeTrue())
	})

	It("exports a workbook with one row per expense category", func() {
		data, err := svc.Export(ctx, date("2024-03-01"), date("2024-03-31"))
		Expect(err).NotTo(HaveOccurred())

		f, err := excelize.OpenReader(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := f.GetRows("Laba Rugi")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0]).To(Equal([]string{"Keterangan", "Nilai"}))
		Expect(rows).To(ContainElement([]string{"Biaya: Sabun", "50000"}))
		Expect(rows).To(ContainElement([]string{"Laba bersih", "65000"}))
	})

	Describe("Handler", func() {
		var h *report.Handler

		BeforeEach(func() {
			h = report.NewHandler(transport.NewBaseHandler(quietLogger()), svc)
		})

		It("defaults to the current month", func() {
			rec := httptest.NewRecorder()
			h.GetProfitLoss(rec, httptest.NewRequest(http.MethodGet, "/finance/profit-loss", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))

			now := time.Now()
			Expect(repo.lastFrom.Day()).To(Equal(1))
			Expect(repo.lastFrom.Month()).To(Equal(now.Month()))
			Expect(repo.lastTo.AddDate(0, 0, 1).Day()).To(Equal(1))
		})

		It("uses the requested range", func() {
			rec := httptest.NewRecorder()
			h.GetProfitLoss(rec, httptest.NewRequest(http.MethodGet, "/finance/profit-loss?from=2024-02-01&to=2024-02-29", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(repo.lastFrom).To(Equal(date("2024-02-01")))
			Expect(repo.lastTo).To(Equal(date("2024-02-29")))
			Expect(rec.Body.String()).To(ContainSubstring(`"transaction_count":3`))
		})

		It("rejects malformed dates", func() {
			rec := httptest.NewRecorder()
			h.GetProfitLoss(rec, httptest.NewRequest(http.MethodGet, "/finance/profit-loss?from=March", nil))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("serves the export as an attachment", func() {
			rec := httptest.NewRecorder()
			h.ExportProfitLoss(rec, httptest.NewRequest(http.MethodGet, "/finance/profit-loss/export?from=2024-02-01&to=2024-02-29", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("laba_rugi_20240201_20240229.xlsx"))
		})
	})
})
