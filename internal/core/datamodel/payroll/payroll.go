package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PositionSalary struct {
	ID            int64             `gorm:"primaryKey"`
	Position      string            `gorm:"column:position;uniqueIndex;not null"`
	DailyRate     decimal.Decimal   `gorm:"column:daily_rate;type:numeric(15,2);not null;default:0"`
	MonthlySalary decimal.Decimal   `gorm:"column:monthly_salary;type:numeric(15,2);not null;default:0"`
	Allowances    datatypes.JSONMap `gorm:"column:allowances"`
	Description   string            `gorm:"column:description"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (PositionSalary) TableName() string { return "position_salaries" }

type Payroll struct {
	ID            int64           `gorm:"primaryKey"`
	EmployeeID    int64           `gorm:"column:employee_id;not null;index"`
	PeriodStart   time.Time       `gorm:"column:period_start;type:date;not null"`
	PeriodEnd     time.Time       `gorm:"column:period_end;type:date;not null"`
	PaymentType   string          `gorm:"column:payment_type;not null"`
	WorkingDays   int             `gorm:"column:working_days;not null;default:0"`
	BaseSalary    decimal.Decimal `gorm:"column:base_salary;type:numeric(15,2);not null"`
	Allowance     decimal.Decimal `gorm:"column:allowance;type:numeric(15,2);not null"`
	Bonus         decimal.Decimal `gorm:"column:bonus;type:numeric(15,2);not null"`
	Deduction     decimal.Decimal `gorm:"column:deduction;type:numeric(15,2);not null"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(15,2);not null"`
	Status        string          `gorm:"column:status;not null;default:pending;index"`
	PaymentMethod string          `gorm:"column:payment_method;not null"`
	PaymentDate   *time.Time      `gorm:"column:payment_date"`
	Notes         string          `gorm:"column:notes"`
	CreatedBy     *int64          `gorm:"column:created_by"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Payroll) TableName() string { return "payrolls" }

// PayrollWithEmployee is the list shape joined with employees.
type PayrollWithEmployee struct {
	Payroll
	EmployeeName     string `gorm:"column:employee_name"`
	EmployeePosition string `gorm:"column:employee_position"`
}
