package expense

import (
	"strings"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

const dateLayout = "2006-01-02"

type ExpenseDTO struct {
	CategoryID  int64  `json:"category_id"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ExpenseDate string `json:"expense_date"`
}

func (d *ExpenseDTO) Normalize() {
	d.Description = strings.TrimSpace(d.Description)
	d.ExpenseDate = strings.TrimSpace(d.ExpenseDate)
}

func (d ExpenseDTO) Validate() error {
	date, dateErr := d.date()

	v := validation.NewValidator()
	v.Field("category_id", d.CategoryID).Required().MinInt(1, errors.ErrCodeInvalidID)
	v.Field("amount", d.Amount).MinInt(1, errors.ErrCodeInvalidAmount)
	v.Field("description", d.Description).Required().MaxLength(500)
	v.Field("expense_date", d.ExpenseDate).Required().Custom(func(value interface{}) *errors.AppError {
		if s, _ := value.(string); s != "" && dateErr != nil {
			return errors.NewValidationFieldError("expense_date", "expense_date must be a date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	if dateErr == nil {
		v.Field("expense_date", date).NotFuture()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d ExpenseDTO) date() (time.Time, error) {
	return time.ParseInLocation(dateLayout, d.ExpenseDate, time.UTC)
}

// ListFilter narrows expense listings. Zero values match all.
type ListFilter struct {
	CategoryID int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("to", f.To).NotBefore(f.From, "from")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Total    int64      `json:"total"`
}
