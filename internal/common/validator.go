package common

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	validator "github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^0\d{9}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

// ValidPhone reports whether s is a ten digit local number starting with 0.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidEmail applies the loose something@something.tld check used by every form.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validator returns the shared validator with the form tags registered:
// phone_za for local phone numbers and email_simple for e-mail addresses.
// Field names in reported errors follow the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone_za", func(fl validator.FieldLevel) bool {
			return ValidPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("email_simple", func(fl validator.FieldLevel) bool {
			return ValidEmail(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// FieldMessages maps a form field and a failed validation tag to the user-facing message.
// The "*" tag is the fallback for a field.
type FieldMessages[F ~string] map[F]map[string]string

func (m FieldMessages[F]) lookup(field F, tag string) string {
	byTag := m[field]
	if msg, ok := byTag[tag]; ok {
		return msg
	}
	if msg, ok := byTag["*"]; ok {
		return msg
	}
	return string(field) + " is invalid."
}

// ValidateStruct runs the shared validator over s and records one message per failing field.
func ValidateStruct[F ~string](s any, messages FieldMessages[F]) *ValidationErrors[F] {
	out := &ValidationErrors[F]{}
	err := Validator().Struct(s)
	if err == nil {
		return out
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.SetForm(err.Error())
		return out
	}
	for _, fe := range fieldErrs {
		field := F(fe.Field())
		out.Add(field, messages.lookup(field, fe.Tag()))
	}
	return out
}
