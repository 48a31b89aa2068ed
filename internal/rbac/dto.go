package rbac

import (
	"strings"

	errors "github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

func (d *CreateRoleDTO) Normalize() {
	d.Name = strings.ToLower(strings.TrimSpace(d.Name))
	d.Description = strings.TrimSpace(d.Description)
}

func (d CreateRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(3).MaxLength(50)
	v.Field("permissions", d.Permissions).Custom(catalogNames)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type SetPermissionsDTO struct {
	Permissions []string `json:"permissions"`
}

func (d SetPermissionsDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("permissions", d.Permissions).Custom(catalogNames)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func catalogNames(value interface{}) *errors.AppError {
	names, _ := value.([]string)
	for _, n := range names {
		if !InCatalog(n) {
			return errors.NewValidationFieldError("permissions", "unknown permission "+n, errors.ErrCodeInvalidChoice)
		}
	}
	return nil
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}

type PermissionsResponse struct {
	Permissions []*Permission `json:"permissions"`
}
