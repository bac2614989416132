package enrollment

import (
	"strings"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// Field names a field of the enrollment form.
type Field string

const (
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldEmail   Field = "email"
	FieldCourses Field = "courses"
)

// FieldErrors are the enrollment form's validation failures.
type FieldErrors = common.ValidationErrors[Field]

// PersonalInfo identifies the person requesting a quote.
type PersonalInfo struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone_za"`
	Email string `json:"email" validate:"required,email_simple"`
}

var personalInfoMessages = common.FieldMessages[Field]{
	FieldName: {"required": "Full Name is required."},
	FieldPhone: {
		"required": "Phone Number is required.",
		"*":        "Phone number must be 10 digits and start with 0.",
	},
	FieldEmail: {
		"required": "Email Address is required.",
		"*":        "Please enter a valid email address.",
	},
}

// Normalize returns a copy with surrounding whitespace removed.
func (p PersonalInfo) Normalize() PersonalInfo {
	return PersonalInfo{
		Name:  strings.TrimSpace(p.Name),
		Phone: strings.TrimSpace(p.Phone),
		Email: strings.TrimSpace(p.Email),
	}
}

// Validate checks the personal details and that at least one course is selected.
// It returns every failing field at once.
func Validate(info PersonalInfo, sel Selection) *FieldErrors {
	errs := common.ValidateStruct(info.Normalize(), personalInfoMessages)
	if sel.IsEmpty() {
		errs.Add(FieldCourses, "Please select at least one course.")
	}
	return errs
}
