package profile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists the required profile fields that are blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("please fill in required fields: %s", strings.Join(e.Missing, ", "))
}

var validate = validator.New()

var fieldNames = map[string]string{
	"FullName": "full_name",
	"Email":    "email",
}

// Validate checks the fields required before document generation.
func Validate(info PersonalInfo) error {
	info.FullName = strings.TrimSpace(info.FullName)
	info.Email = strings.TrimSpace(info.Email)

	err := validate.Struct(info)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate personal info: %w", err)
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name, ok := fieldNames[fe.Field()]
		if !ok {
			name = strings.ToLower(fe.Field())
		}
		missing = append(missing, name)
	}

	return &ValidationError{Missing: missing}
}
