package employee

import (
	"strings"
	"time"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type EmployeeDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
	JoinDate string `json:"join_date"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (d *EmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Position = strings.TrimSpace(d.Position)
	d.JoinDate = strings.TrimSpace(d.JoinDate)
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("phone", d.Phone).MaxLength(20)
	v.Field("position", d.Position).Required().MaxLength(100)
	v.Field("join_date", d.JoinDate).Custom(func(value interface{}) *errors.AppError {
		if _, err := d.joinDate(); err != nil {
			return errors.NewValidationFieldError("join_date", "join_date must be a date in YYYY-MM-DD format", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// joinDate parses JoinDate, defaulting to today when empty.
func (d EmployeeDTO) joinDate() (time.Time, error) {
	if d.JoinDate == "" {
		y, m, day := time.Now().Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
	}
	return time.ParseInLocation("2006-01-02", d.JoinDate, time.UTC)
}

type ListFilter struct {
	Position   string
	ActiveOnly bool
}

type EmployeesResponse struct {
	Employees []*Employee `json:"employees"`
}
