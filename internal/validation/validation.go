// Package validation checks request payloads against their schema and
// reports the first violation as a human readable message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a validator.Validate configured to report JSON field
// names.  It satisfies echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return &Validator{v: v}
}

// maxBytes limits the encoded length of a string.  bcrypt rejects passwords
// longer than 72 bytes, which "max" cannot express for multi-byte input.
func maxBytes(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= n
}

// Error is a schema violation.  Its message names the first offending
// field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validate checks payload and returns *Error describing the first
// violation, or nil.
func (v *Validator) Validate(payload any) error {
	err := v.v.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &Error{Field: fe.Field(), Message: message(fe)}
}

// FirstError validates payload and returns the first violation message, or
// "" when payload is valid.
func (v *Validator) FirstError(payload any) string {
	if err := v.Validate(payload); err != nil {
		return err.Error()
	}
	return ""
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "email":
		return f + " must be a valid email"
	case "url":
		return f + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f, fe.Param())
	case "alphanum":
		return f + " must contain only letters and digits"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", f, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", f, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters long", f, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", f, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", f, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", f)
}
