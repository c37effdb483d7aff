// ABOUTME: Client-side form validation run before any request is sent
// ABOUTME: Wraps go-playground/validator with Indian phone rules and user-facing messages
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages shown to the user when a field fails validation.
const (
	MsgPhone = "Please enter a valid 10-digit phone number"
	MsgOTP   = "Please enter the 6-digit OTP"
	MsgEmail = "Please enter a valid email address"
)

var indianPhone = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
		_ = validate.RegisterValidation("indianphone", func(fl validator.FieldLevel) bool {
			return indianPhone.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Error is a validation failure for one field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validate checks v's struct tags and returns the first failing field as *Error.
func Validate(v interface{}) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fe := verrs[0]
	return &Error{Field: fe.Field(), Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "indianphone":
		return MsgPhone
	case "email":
		return MsgEmail
	case "required", "required_if":
		if fe.Field() == "OTP" {
			return MsgOTP
		}
		return fe.Field() + " is required"
	case "len", "numeric":
		if fe.Field() == "OTP" {
			return MsgOTP
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid URL"
	}
	return fe.Field() + " is invalid"
}

// NormalizePhone strips spaces, dashes and an Indian country prefix so
// "+91 98765-43210" validates as "9876543210".
func NormalizePhone(phone string) string {
	p := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	switch {
	case strings.HasPrefix(p, "+91") && len(p) == 13:
		p = p[3:]
	case strings.HasPrefix(p, "91") && len(p) == 12:
		p = p[2:]
	case strings.HasPrefix(p, "0") && len(p) == 11:
		p = p[1:]
	}
	return p
}
