package washservice

import (
	"strings"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type ServiceDTO struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

func (d *ServiceDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d ServiceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	v.Field("price", d.Price).NonNegative()
	v.Field("duration_minutes", d.DurationMinutes).MinInt(0, errors.ErrCodeValidationFailed).MaxInt(24*60, errors.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ServicesResponse struct {
	Services []*Service `json:"services"`
}
