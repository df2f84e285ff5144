package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/roster/core/internal/domain/entities"
)

// New returns a validator with the roster field tags registered:
// employee_id, salary and roster_email.
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("employee_id", func(fl validator.FieldLevel) bool {
		return isDigits(fl.Field().String())
	})
	_ = v.RegisterValidation("salary", func(fl validator.FieldLevel) bool {
		return ValidSalary(fl.Field().String())
	})
	_ = v.RegisterValidation("roster_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return v
}

// Employee checks every field of e. Uniqueness of the id is not its concern.
func Employee(v *validator.Validate, e entities.Employee) error {
	if err := v.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", entities.ErrInvalidEmployee, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", entities.ErrInvalidEmployee, err)
	}
	return nil
}
