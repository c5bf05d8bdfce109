package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validation errors raised before any network call is made.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrTermsNotAgreed   = errors.New("you must agree to the terms")
)

// FriendlyValidationMessage turns a validator error into something a form
// can show inline. Returns the original error text for anything unexpected.
func FriendlyValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return "invalid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
