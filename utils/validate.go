package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidationError is a client-side rejection raised before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Messages maps a failed rule to the text shown for it. Keys are either
// "Field.tag" for one rule or "Field" for any rule on that field.
type Messages map[string]string

// Check validates the `validate` struct tags of v and reports the first
// failing field with its message.
func Check(v any, messages Messages) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
		return Invalid(msg)
	}
	if msg, ok := messages[fe.StructField()]; ok {
		return Invalid(msg)
	}
	return Invalid(fe.Error())
}

// Blank reports whether s is empty after trimming.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidEmail reports whether s is a plain email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ParsePrice parses a non-negative decimal price.
func ParsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || validate.Var(v, "gte=0") != nil {
		return 0, Invalid("Please enter a valid price.")
	}
	return v, nil
}

// ParseStock parses a non-negative integer stock count.
func ParseStock(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || validate.Var(v, "gte=0") != nil {
		return 0, Invalid("Please enter a valid stock count.")
	}
	return v, nil
}
