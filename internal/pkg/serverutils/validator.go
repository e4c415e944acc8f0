package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// ValidateRequest checks a DTO against its validate tags.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		fields := make(map[string]string)
		for _, e := range errs {
			fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return ValidationError{Fields: fields}
	}
	return nil
}
