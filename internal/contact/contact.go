package contact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/tasks"
)

// Field names a field of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Message is a contact-form submission.
type Message struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email_simple"`
	Phone   string `json:"phone" validate:"required,phone_za"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

var messages = common.FieldMessages[Field]{
	FieldName: {"required": "Full Name is required."},
	FieldEmail: {
		"required": "Email Address is required.",
		"*":        "Please enter a valid email address.",
	},
	FieldPhone: {
		"required": "Phone Number is required.",
		"*":        "Phone number must be 10 digits and start with 0.",
	},
	FieldSubject: {"required": "Subject is required."},
	FieldMessage: {"required": "Message is required."},
}

func (m Message) normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Phone:   strings.TrimSpace(m.Phone),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate reports every failing field of m.
func Validate(m Message) *common.ValidationErrors[Field] {
	return common.ValidateStruct(m.normalize(), messages)
}

// Service accepts contact-form submissions.
type Service struct {
	Notifier tasks.Notifier
	Logger   zerolog.Logger
}

// Submit validates m and hands it to the notifier.
func (s *Service) Submit(ctx context.Context, m Message) error {
	if s == nil || s.Notifier == nil {
		return errors.New("contact: notifier not configured")
	}
	m = m.normalize()
	if errs := Validate(m); !errs.Empty() {
		return errs
	}
	if err := s.Notifier.Contact(ctx, tasks.ContactPayload(m)); err != nil {
		s.Logger.Error().Err(err).Str("subject", m.Subject).Msg("contact message not dispatched")
		return fmt.Errorf("dispatch contact message: %w", err)
	}
	return nil
}

// Handler exposes POST /api/v1/contact.
type Handler struct {
	Service *Service
}

// Submit handles POST /api/v1/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "contact service not configured", nil)
		return
	}
	var req Message
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Service.Submit(r.Context(), req); err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusAccepted, map[string]any{
		"data": map[string]any{"message": "Thank you! Your message has been sent. We will get back to you soon."},
	})
}
