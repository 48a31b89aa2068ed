package customer

import (
	"strings"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type CustomerDTO struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleType  string `json:"vehicle_type"`
	Notes        string `json:"notes"`
}

func (d *CustomerDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = NormalizePhone(d.Phone)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.VehiclePlate = strings.ToUpper(strings.Join(strings.Fields(d.VehiclePlate), " "))
	d.VehicleType = strings.TrimSpace(d.VehicleType)
	d.Notes = strings.TrimSpace(d.Notes)
}

func (d CustomerDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("phone", d.Phone).MaxLength(20).Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		for _, r := range s {
			if (r < '0' || r > '9') && r != '+' {
				return errors.NewValidationFieldError("phone", "phone may only contain digits and a leading +", errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	v.Field("email", d.Email).MaxLength(255).Custom(func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s != "" && !strings.Contains(s, "@") {
			return errors.NewValidationFieldError("email", "email is not a valid address", errors.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("vehicle_plate", d.VehiclePlate).MaxLength(20)
	v.Field("vehicle_type", d.VehicleType).MaxLength(50)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// NormalizePhone strips spaces, dashes and dots from a phone number.
func NormalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
}

type CustomersResponse struct {
	Customers []*Customer `json:"customers"`
}
