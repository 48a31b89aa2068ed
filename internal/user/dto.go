package user

import (
	"strings"

	"github.com/deevseek/washcorner/internal/core/common/validation"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d *CreateUserDTO) Normalize() {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Name = strings.TrimSpace(d.Name)
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().MaxLength(255).Custom(emailShape("email"))
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ChangeRoleDTO struct {
	Role string `json:"role"`
}

func (d *ChangeRoleDTO) Normalize() {
	d.Role = strings.ToLower(strings.TrimSpace(d.Role))
}

func (d ChangeRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
