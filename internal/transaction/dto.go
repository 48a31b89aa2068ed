package transaction

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

// ItemDTO is one line of a new transaction. An absent quantity means one.
type ItemDTO struct {
	ServiceID int64  `json:"service_id"`
	Price     *int64 `json:"price,omitempty"`
	Quantity  *int   `json:"quantity,omitempty"`
	Discount  int64  `json:"discount"`
}

func (it ItemDTO) quantity() int {
	if it.Quantity == nil {
		return 1
	}
	return *it.Quantity
}

// CreateTransactionDTO opens a wash job. The total is always computed from
// the items; a client supplied total is ignored.
type CreateTransactionDTO struct {
	CustomerID    *int64    `json:"customer_id,omitempty"`
	EmployeeID    *int64    `json:"employee_id,omitempty"`
	Date          string    `json:"date,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes,omitempty"`
	Items         []ItemDTO `json:"items"`
	Total         *int64    `json:"total,omitempty"`
}

func (d *CreateTransactionDTO) Normalize() {
	d.PaymentMethod = strings.ToLower(strings.TrimSpace(d.PaymentMethod))
	if d.PaymentMethod == "" {
		d.PaymentMethod = PaymentMethodCash
	}
	d.Notes = strings.TrimSpace(d.Notes)
	d.Date = strings.TrimSpace(d.Date)
}

func (d CreateTransactionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("payment_method", d.PaymentMethod).OneOf(PaymentMethodCash, PaymentMethodTransfer, PaymentMethodQRIS)
	v.Field("notes", d.Notes).MaxLength(1000)
	v.Field("items", len(d.Items)).MinInt(1, errors.ErrCodeValidationFailed)
	v.Field("date", d.Date).Custom(func(interface{}) *errors.AppError {
		if _, err := d.date(time.Now()); err != nil {
			return errors.NewValidationFieldError("date", "date must be YYYY-MM-DD or RFC 3339", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	if d.CustomerID != nil {
		v.Field("customer_id", *d.CustomerID).MinInt(1, errors.ErrCodeInvalidID)
	}
	if d.EmployeeID != nil {
		v.Field("employee_id", *d.EmployeeID).MinInt(1, errors.ErrCodeInvalidID)
	}
	for i, it := range d.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		v.Field(prefix+"service_id", it.ServiceID).Required().MinInt(1, errors.ErrCodeInvalidID)
		v.Field(prefix+"quantity", it.quantity()).MinInt(1, errors.ErrCodeValidationFailed)
		v.Field(prefix+"discount", it.Discount).NonNegative()
		if it.Price != nil {
			v.Field(prefix+"price", *it.Price).NonNegative()
		}
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d CreateTransactionDTO) date(now time.Time) (time.Time, error) {
	if d.Date == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, d.Date); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", d.Date, time.UTC)
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

type ListFilter struct {
	Status     string
	CustomerID int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func (f *ListFilter) Normalize() {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

func (f ListFilter) Validate() error {
	if f.Status != "" {
		if _, err := ParseStatus(f.Status); err != nil {
			return err
		}
	}
	v := validation.NewValidator()
	v.Field("to", f.To).NotBefore(f.From, "from")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type TransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
