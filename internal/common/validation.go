package common

import (
	"net/http"
	"sort"
	"strings"
)

// FieldError is a single message attached to one form field.
type FieldError[F ~string] struct {
	Field   F      `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects at most one message per field of a form. F is the form's
// field enumeration, so a message can only be attached to a field the form declares.
type ValidationErrors[F ~string] struct {
	order  []F
	byName map[F]string
	form   string
}

// Add records msg for field unless the field already has a message.
func (v *ValidationErrors[F]) Add(field F, msg string) {
	if v.byName == nil {
		v.byName = make(map[F]string)
	}
	if _, exists := v.byName[field]; exists {
		return
	}
	v.byName[field] = msg
	v.order = append(v.order, field)
}

// SetForm records an error that is not tied to a single field, such as a failed login.
func (v *ValidationErrors[F]) SetForm(msg string) {
	if v.form == "" {
		v.form = msg
	}
}

// Get returns the message recorded for field.
func (v *ValidationErrors[F]) Get(field F) (string, bool) {
	msg, ok := v.byName[field]
	return msg, ok
}

// Form returns the form-level message, if any.
func (v *ValidationErrors[F]) Form() string {
	return v.form
}

// Has reports whether field carries a message.
func (v *ValidationErrors[F]) Has(field F) bool {
	_, ok := v.byName[field]
	return ok
}

// Len is the number of field messages.
func (v *ValidationErrors[F]) Len() int {
	return len(v.order)
}

// Empty reports whether no field or form message was recorded.
func (v *ValidationErrors[F]) Empty() bool {
	return len(v.order) == 0 && v.form == ""
}

// Fields lists the field messages in the order they were added.
func (v *ValidationErrors[F]) Fields() []FieldError[F] {
	out := make([]FieldError[F], 0, len(v.order))
	for _, f := range v.order {
		out = append(out, FieldError[F]{Field: f, Message: v.byName[f]})
	}
	return out
}

// Map returns the field messages keyed by field name.
func (v *ValidationErrors[F]) Map() map[string]string {
	out := make(map[string]string, len(v.order))
	for _, f := range v.order {
		out[string(f)] = v.byName[f]
	}
	return out
}

// Error implements error.
func (v *ValidationErrors[F]) Error() string {
	parts := make([]string, 0, len(v.order)+1)
	if v.form != "" {
		parts = append(parts, v.form)
	}
	names := make([]string, 0, len(v.order))
	for _, f := range v.order {
		names = append(names, string(f))
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, name+": "+v.byName[F(name)])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationErrors[F]) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

// AppError maps v onto the 422 VALIDATION_ERROR envelope.
func (v *ValidationErrors[F]) AppError() *AppError {
	details := map[string]any{"fields": v.Map()}
	message := "one or more fields are invalid"
	if v.form != "" {
		details["form"] = v.form
		message = v.form
	}
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        v,
		Details:    details,
	}
}
