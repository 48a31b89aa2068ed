package payroll

import (
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/shopspring/decimal"
)

// Input holds everything a payroll computation reads. Rate is the position's
// entry in the rate table at the time of computation, nil when none exists.
type Input struct {
	PaymentType           PaymentType
	PeriodStart           time.Time
	PeriodEnd             time.Time
	DailyRateOverride     *decimal.Decimal
	MonthlySalaryOverride *decimal.Decimal
	Allowance             *decimal.Decimal
	Bonus                 decimal.Decimal
	Deduction             decimal.Decimal
	Rate                  *PositionSalary
}

type Result struct {
	BaseSalary  decimal.Decimal
	Allowance   decimal.Decimal
	Bonus       decimal.Decimal
	Deduction   decimal.Decimal
	TotalAmount decimal.Decimal
	WorkingDays int
}

var ErrNoSalaryRate = errors.NewConfigurationError("no salary rate configured for position", errors.ErrCodeSalaryRateMissing)

// Compute derives base salary and total. It is pure: the same input always
// yields the same result. The total is not clamped and may be negative.
func Compute(in Input) (Result, error) {
	if in.PeriodEnd.Before(in.PeriodStart) {
		return Result{}, errors.NewValidationFieldError("periodEnd", "periodEnd must not be before periodStart", errors.ErrCodeInvalidPeriod)
	}

	var (
		base decimal.Decimal
		days int
	)

	switch in.PaymentType {
	case PaymentTypeMonthly:
		switch {
		case in.MonthlySalaryOverride != nil:
			base = *in.MonthlySalaryOverride
		case in.Rate != nil:
			base = in.Rate.MonthlySalary
		default:
			return Result{}, ErrNoSalaryRate
		}
	case PaymentTypeDaily:
		var rate decimal.Decimal
		switch {
		case in.DailyRateOverride != nil:
			rate = *in.DailyRateOverride
		case in.Rate != nil:
			rate = in.Rate.DailyRate
		default:
			return Result{}, ErrNoSalaryRate
		}
		days = CalendarDays(in.PeriodStart, in.PeriodEnd)
		base = rate.Mul(decimal.NewFromInt(int64(days)))
	default:
		return Result{}, errors.NewValidationFieldError("paymentType", "paymentType must be one of: daily, monthly", errors.ErrCodeInvalidChoice)
	}

	allowance := DefaultAllowance
	if in.Allowance != nil && in.Allowance.IsPositive() {
		allowance = *in.Allowance
	}

	total := base.Add(allowance).Add(in.Bonus).Sub(in.Deduction)

	return Result{
		BaseSalary:  base,
		Allowance:   allowance,
		Bonus:       in.Bonus,
		Deduction:   in.Deduction,
		TotalAmount: total,
		WorkingDays: days,
	}, nil
}

// CalendarDays counts every calendar day in [start, end] inclusive. Weekends
// and holidays are counted like any other day.
func CalendarDays(start, end time.Time) int {
	s := dateOnly(start)
	e := dateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
