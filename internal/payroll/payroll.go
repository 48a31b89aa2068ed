package payroll

import (
	"time"

	payrollDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/payroll"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeDaily   PaymentType = "daily"
	PaymentTypeMonthly PaymentType = "monthly"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// DefaultAllowance applies when a payroll is created without a positive allowance.
var DefaultAllowance = decimal.NewFromInt(35000)

type Payroll struct {
	ID               int64           `json:"id"`
	EmployeeID       int64           `json:"employeeId"`
	EmployeeName     string          `json:"employeeName,omitempty"`
	EmployeePosition string          `json:"employeePosition,omitempty"`
	PeriodStart      time.Time       `json:"periodStart"`
	PeriodEnd        time.Time       `json:"periodEnd"`
	PaymentType      PaymentType     `json:"paymentType"`
	WorkingDays      int             `json:"workingDays"`
	BaseSalary       decimal.Decimal `json:"baseSalary"`
	Allowance        decimal.Decimal `json:"allowance"`
	Bonus            decimal.Decimal `json:"bonus"`
	Deduction        decimal.Decimal `json:"deduction"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	Status           Status          `json:"status"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentDate      *time.Time      `json:"paymentDate,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedBy        *int64          `json:"createdBy,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (p *Payroll) CanApprove() bool {
	return p.Status == StatusPending
}

func (p *Payroll) CanReject() bool {
	return p.Status == StatusPending
}

func (p *Payroll) CanPay() bool {
	return p.Status == StatusApproved
}

type PositionSalary struct {
	ID            int64                  `json:"id"`
	Position      string                 `json:"position"`
	DailyRate     decimal.Decimal        `json:"dailyRate"`
	MonthlySalary decimal.Decimal        `json:"monthlySalary"`
	Allowances    map[string]interface{} `json:"allowances,omitempty"`
	Description   string                 `json:"description,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func ToDataModel(p *Payroll) *payrollDatamodel.Payroll {
	return &payrollDatamodel.Payroll{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		PaymentType:   string(p.PaymentType),
		WorkingDays:   p.WorkingDays,
		BaseSalary:    p.BaseSalary,
		Allowance:     p.Allowance,
		Bonus:         p.Bonus,
		Deduction:     p.Deduction,
		TotalAmount:   p.TotalAmount,
		Status:        string(p.Status),
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDataModel(p *payrollDatamodel.Payroll) *Payroll {
	return &Payroll{
		ID:            p.ID,
		EmployeeID:    p.EmployeeID,
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		PaymentType:   PaymentType(p.PaymentType),
		WorkingDays:   p.WorkingDays,
		BaseSalary:    p.BaseSalary,
		Allowance:     p.Allowance,
		Bonus:         p.Bonus,
		Deduction:     p.Deduction,
		TotalAmount:   p.TotalAmount,
		Status:        Status(p.Status),
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromJoinedDataModel(p *payrollDatamodel.PayrollWithEmployee) *Payroll {
	out := FromDataModel(&p.Payroll)
	out.EmployeeName = p.EmployeeName
	out.EmployeePosition = p.EmployeePosition
	return out
}

func PositionSalaryToDataModel(p *PositionSalary) *payrollDatamodel.PositionSalary {
	return &payrollDatamodel.PositionSalary{
		ID:            p.ID,
		Position:      p.Position,
		DailyRate:     p.DailyRate,
		MonthlySalary: p.MonthlySalary,
		Allowances:    p.Allowances,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func PositionSalaryFromDataModel(p *payrollDatamodel.PositionSalary) *PositionSalary {
	return &PositionSalary{
		ID:            p.ID,
		Position:      p.Position,
		DailyRate:     p.DailyRate,
		MonthlySalary: p.MonthlySalary,
		Allowances:    p.Allowances,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
