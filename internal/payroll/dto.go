package payroll

import (
	"strings"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// CreatePayrollDTO is the payroll creation payload. BaseSalary and
// TotalAmount are accepted for compatibility with older clients and ignored.
type CreatePayrollDTO struct {
	EmployeeID    int64            `json:"employeeId"`
	PeriodStart   string           `json:"periodStart"`
	PeriodEnd     string           `json:"periodEnd"`
	PaymentType   string           `json:"paymentType"`
	DailyRate     *decimal.Decimal `json:"dailyRate,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthlySalary,omitempty"`
	Allowance     *decimal.Decimal `json:"allowance,omitempty"`
	Bonus         *decimal.Decimal `json:"bonus,omitempty"`
	Deduction     *decimal.Decimal `json:"deduction,omitempty"`
	PaymentMethod string           `json:"paymentMethod"`
	Notes         string           `json:"notes,omitempty"`
	BaseSalary    *decimal.Decimal `json:"baseSalary,omitempty"`
	TotalAmount   *decimal.Decimal `json:"totalAmount,omitempty"`
}

func (d *CreatePayrollDTO) Normalize() {
	d.PeriodStart = strings.TrimSpace(d.PeriodStart)
	d.PeriodEnd = strings.TrimSpace(d.PeriodEnd)
	d.PaymentType = strings.ToLower(strings.TrimSpace(d.PaymentType))
	d.PaymentMethod = strings.ToLower(strings.TrimSpace(d.PaymentMethod))
	d.Notes = strings.TrimSpace(d.Notes)
	if d.PaymentMethod == "" {
		d.PaymentMethod = PaymentMethodCash
	}
}

func (d CreatePayrollDTO) Validate() error {
	start, startErr := parseDate(d.PeriodStart)
	end, endErr := parseDate(d.PeriodEnd)

	v := validation.NewValidator()
	v.Field("employeeId", d.EmployeeID).Required().MinInt(1, errors.ErrCodeInvalidID)
	v.Field("periodStart", d.PeriodStart).Required().Custom(dateShape("periodStart", startErr))
	v.Field("periodEnd", d.PeriodEnd).Required().Custom(dateShape("periodEnd", endErr))
	if startErr == nil && endErr == nil {
		v.Field("periodEnd", end).NotBefore(start, "periodStart")
	}
	v.Field("paymentType", d.PaymentType).Required().OneOf(string(PaymentTypeDaily), string(PaymentTypeMonthly))
	v.Field("paymentMethod", d.PaymentMethod).OneOf(PaymentMethodCash, PaymentMethodTransfer)
	v.Field("dailyRate", d.DailyRate).NonNegative()
	v.Field("monthlySalary", d.MonthlySalary).NonNegative()
	v.Field("bonus", d.Bonus).NonNegative()
	v.Field("deduction", d.Deduction).NonNegative()
	v.Field("notes", d.Notes).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Input converts a validated DTO into calculator input. rate may be nil.
func (d CreatePayrollDTO) Input(rate *PositionSalary) Input {
	start, _ := parseDate(d.PeriodStart)
	end, _ := parseDate(d.PeriodEnd)
	return Input{
		PaymentType:           PaymentType(d.PaymentType),
		PeriodStart:           start,
		PeriodEnd:             end,
		DailyRateOverride:     d.DailyRate,
		MonthlySalaryOverride: d.MonthlySalary,
		Allowance:             d.Allowance,
		Bonus:                 orZero(d.Bonus),
		Deduction:             orZero(d.Deduction),
		Rate:                  rate,
	}
}

// hasOverride reports whether the payload carries the rate its payment type needs.
func (d CreatePayrollDTO) hasOverride() bool {
	switch PaymentType(d.PaymentType) {
	case PaymentTypeDaily:
		return d.DailyRate != nil
	case PaymentTypeMonthly:
		return d.MonthlySalary != nil
	}
	return false
}

type PositionSalaryDTO struct {
	Position      string                 `json:"position"`
	DailyRate     decimal.Decimal        `json:"dailyRate"`
	MonthlySalary decimal.Decimal        `json:"monthlySalary"`
	Allowances    map[string]interface{} `json:"allowances,omitempty"`
	Description   string                 `json:"description,omitempty"`
}

func (d *PositionSalaryDTO) Normalize() {
	d.Position = strings.TrimSpace(d.Position)
	d.Description = strings.TrimSpace(d.Description)
}

func (d PositionSalaryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("position", d.Position).Required().MaxLength(100)
	v.Field("dailyRate", d.DailyRate).NonNegative()
	v.Field("monthlySalary", d.MonthlySalary).NonNegative()
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListFilter narrows payroll listings and exports. Zero values match all.
type ListFilter struct {
	EmployeeID int64
	Status     string
	From       time.Time
	To         time.Time
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(string(StatusPending), string(StatusApproved), string(StatusRejected), string(StatusPaid))
	v.Field("to", f.To).NotBefore(f.From, "from")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PayrollsResponse struct {
	Payrolls []*Payroll `json:"payrolls"`
}

type PositionSalariesResponse struct {
	PositionSalaries []*PositionSalary `json:"positionSalaries"`
}

// PreviewResponse is the computed breakdown without persisting it.
type PreviewResponse struct {
	EmployeeID  int64           `json:"employeeId"`
	Position    string          `json:"position"`
	PaymentType PaymentType     `json:"paymentType"`
	WorkingDays int             `json:"workingDays"`
	BaseSalary  decimal.Decimal `json:"baseSalary"`
	Allowance   decimal.Decimal `json:"allowance"`
	Bonus       decimal.Decimal `json:"bonus"`
	Deduction   decimal.Decimal `json:"deduction"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func dateShape(field string, parseErr error) func(interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		if s, _ := value.(string); s == "" || parseErr == nil {
			return nil
		}
		return errors.NewValidationFieldError(field, field+" must be a date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
	}
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
