package user

import (
	"net/mail"

	errors "github.com/deevseek/washcorner/internal"
)

func emailShape(field string) func(interface{}) *errors.AppError {
	return func(value interface{}) *errors.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := mail.ParseAddress(s); err != nil {
			return errors.NewValidationFieldError(field, field+" must be a valid email address", errors.ErrCodeValidationFailed)
		}
		return nil
	}
}
