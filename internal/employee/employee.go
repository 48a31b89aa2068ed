package employee

import (
	"time"

	employeeDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/employee"
)

type Employee struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position"`
	JoinDate  time.Time `json:"join_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Position:  e.Position,
		JoinDate:  e.JoinDate,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Position:  e.Position,
		JoinDate:  e.JoinDate,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
