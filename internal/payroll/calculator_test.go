package payroll_test

import (
	"time"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/payroll"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Compute", func() {
	washer := &payroll.PositionSalary{
		Position:      "Washer",
		DailyRate:     decimal.NewFromInt(40000),
		MonthlySalary: decimal.NewFromInt(3000000),
	}

	It("computes the Washer scenario", func() {
		res, err := payroll.Compute(payroll.Input{
			PaymentType: payroll.PaymentTypeDaily,
			PeriodStart: day("2024-06-01"),
			PeriodEnd:   day("2024-06-03"),
			Allowance:   dec(35000),
			Bonus:       decimal.NewFromInt(10000),
			Deduction:   decimal.NewFromInt(5000),
			Rate:        washer,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.WorkingDays).To(Equal(3))
		Expect(res.BaseSalary.Equal(decimal.NewFromInt(120000))).To(BeTrue())
		Expect(res.TotalAmount.Equal(decimal.NewFromInt(160000))).To(BeTrue())
	})

	DescribeTable("total is base + allowance + bonus - deduction",
		func(rate, allowance, bonus, deduction string) {
			r := decimal.RequireFromString(rate)
			a := decimal.RequireFromString(allowance)
			res, err := payroll.Compute(payroll.Input{
				PaymentType:       payroll.PaymentTypeDaily,
				PeriodStart:       day("2024-01-10"),
				PeriodEnd:         day("2024-01-12"),
				DailyRateOverride: &r,
				Allowance:         &a,
				Bonus:             decimal.RequireFromString(bonus),
				Deduction:         decimal.RequireFromString(deduction),
			})
			Expect(err).NotTo(HaveOccurred())
			want := res.BaseSalary.Add(res.Allowance).Add(res.Bonus).Sub(res.Deduction)
			Expect(res.TotalAmount.Equal(want)).To(BeTrue())
		},
		Entry("round amounts", "50000", "35000", "0", "0"),
		Entry("fractional amounts", "45000.55", "12500.25", "1000.10", "333.33"),
		Entry("negative total", "1000", "1", "0", "999999"),
	)

	It("keeps negative totals unclamped", func() {
		res, err := payroll.Compute(payroll.Input{
			PaymentType:       payroll.PaymentTypeDaily,
			PeriodStart:       day("2024-01-01"),
			PeriodEnd:         day("2024-01-01"),
			DailyRateOverride: dec(10000),
			Allowance:         dec(5000),
			Deduction:         decimal.NewFromInt(50000),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.TotalAmount.Equal(decimal.NewFromInt(-35000))).To(BeTrue())
	})

	It("ignores the period length for monthly payrolls", func() {
		feb, err := payroll.Compute(payroll.Input{
			PaymentType: payroll.PaymentTypeMonthly,
			PeriodStart: day("2023-02-01"),
			PeriodEnd:   day("2023-02-28"),
			Rate:        washer,
		})
		Expect(err).NotTo(HaveOccurred())
		mar, err := payroll.Compute(payroll.Input{
			PaymentType: payroll.PaymentTypeMonthly,
			PeriodStart: day("2023-03-01"),
			PeriodEnd:   day("2023-03-31"),
			Rate:        washer,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(feb.BaseSalary.Equal(mar.BaseSalary)).To(BeTrue())
		Expect(feb.BaseSalary.Equal(decimal.NewFromInt(3000000))).To(BeTrue())
		Expect(feb.WorkingDays).To(BeZero())
	})

	It("scales daily payrolls with the inclusive day count", func() {
		res, err := payroll.Compute(payroll.Input{
			PaymentType:       payroll.PaymentTypeDaily,
			PeriodStart:       day("2024-03-01"),
			PeriodEnd:         day("2024-03-05"),
			DailyRateOverride: dec(50000),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.WorkingDays).To(Equal(5))
		Expect(res.BaseSalary.Equal(decimal.NewFromInt(250000))).To(BeTrue())
	})

	It("counts a single day period as one day", func() {
		Expect(payroll.CalendarDays(day("2024-06-01"), day("2024-06-01"))).To(Equal(1))
	})

	It("counts weekends like any other day", func() {
		// 2024-06-01 is a Saturday; the period spans a full weekend.
		Expect(payroll.CalendarDays(day("2024-06-01"), day("2024-06-07"))).To(Equal(7))
	})

	It("ignores the time of day when counting", func() {
		start := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
		end := time.Date(2024, 6, 3, 1, 0, 0, 0, time.UTC)
		Expect(payroll.CalendarDays(start, end)).To(Equal(3))
	})

	It("prefers overrides over the rate table", func() {
		res, err := payroll.Compute(payroll.Input{
			PaymentType:           payroll.PaymentTypeMonthly,
			PeriodStart:           day("2024-01-01"),
			PeriodEnd:             day("2024-01-31"),
			MonthlySalaryOverride: dec(4500000),
			Rate:                  washer,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.BaseSalary.Equal(decimal.NewFromInt(4500000))).To(BeTrue())
	})

	It("defaults the allowance when absent or non-positive", func() {
		for _, a := range []*decimal.Decimal{nil, dec(0), dec(-10)} {
			res, err := payroll.Compute(payroll.Input{
				PaymentType: payroll.PaymentTypeDaily,
				PeriodStart: day("2024-01-01"),
				PeriodEnd:   day("2024-01-01"),
				Allowance:   a,
				Rate:        washer,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Allowance.Equal(payroll.DefaultAllowance)).To(BeTrue())
		}
	})

	It("returns a configuration error without rate or override", func() {
		_, err := payroll.Compute(payroll.Input{
			PaymentType: payroll.PaymentTypeDaily,
			PeriodStart: day("2024-01-01"),
			PeriodEnd:   day("2024-01-02"),
		})
		Expect(internal.IsErrorType(err, internal.ErrorTypeConfiguration)).To(BeTrue())
	})

	It("rejects inverted periods and unknown payment types", func() {
		_, err := payroll.Compute(payroll.Input{
			PaymentType: payroll.PaymentTypeDaily,
			PeriodStart: day("2024-01-05"),
			PeriodEnd:   day("2024-01-01"),
			Rate:        washer,
		})
		Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())

		_, err = payroll.Compute(payroll.Input{
			PaymentType: "weekly",
			PeriodStart: day("2024-01-01"),
			PeriodEnd:   day("2024-01-07"),
			Rate:        washer,
		})
		Expect(internal.IsErrorType(err, internal.ErrorTypeValidation)).To(BeTrue())
	})

	It("is deterministic", func() {
		in := payroll.Input{
			PaymentType: payroll.PaymentTypeDaily,
			PeriodStart: day("2024-02-01"),
			PeriodEnd:   day("2024-02-29"),
			Bonus:       decimal.NewFromInt(1),
			Rate:        washer,
		}
		a, err := payroll.Compute(in)
		Expect(err).NotTo(HaveOccurred())
		b, err := payroll.Compute(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(a.TotalAmount.Equal(b.TotalAmount)).To(BeTrue())
		Expect(a.WorkingDays).To(Equal(29))
	})
})
