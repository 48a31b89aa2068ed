package customer

import (
	"time"

	customerDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/customer"
)

type Customer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
	VehicleType  string    `json:"vehicle_type,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToDataModel(c *Customer) *customerDatamodel.Customer {
	return &customerDatamodel.Customer{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		VehiclePlate: c.VehiclePlate,
		VehicleType:  c.VehicleType,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func FromDataModel(c *customerDatamodel.Customer) *Customer {
	return &Customer{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		VehiclePlate: c.VehiclePlate,
		VehicleType:  c.VehicleType,
		Notes:        c.Notes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
