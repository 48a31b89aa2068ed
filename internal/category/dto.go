package category

import (
	"strings"

	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type CategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (d *CategoryDTO) Normalize() {
	d.Name = strings.Join(strings.Fields(d.Name), " ")
	d.Description = strings.TrimSpace(d.Description)
}

func (d CategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type CategoriesResponse struct {
	Categories []*Category `json:"categories"`
}
