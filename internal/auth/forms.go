package auth

import (
	"strings"

	"github.com/noah-isme/skills-enroll/internal/common"
)

// SignupField names a field of the sign-up form.
type SignupField string

const (
	SignupFullName        SignupField = "fullName"
	SignupEmail           SignupField = "email"
	SignupPhone           SignupField = "phone"
	SignupPassword        SignupField = "password"
	SignupConfirmPassword SignupField = "confirmPassword"
	SignupAcceptTerms     SignupField = "acceptTerms"
)

// LoginField names a field of the login form.
type LoginField string

const (
	LoginEmail    LoginField = "email"
	LoginPassword LoginField = "password"
)

// SignupForm is the sign-up request body.
type SignupForm struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email_simple"`
	Phone           string `json:"phone" validate:"omitempty,phone_za"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	AcceptTerms     bool   `json:"acceptTerms" validate:"required"`
}

// LoginForm is the login request body.
type LoginForm struct {
	Email      string `json:"email" validate:"required,email_simple"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

var signupMessages = common.FieldMessages[SignupField]{
	SignupFullName: {"required": "Full Name is required."},
	SignupEmail: {
		"required": "Email Address is required.",
		"*":        "Please enter a valid email address.",
	},
	SignupPhone: {"*": "Phone number must be 10 digits and start with 0."},
	SignupPassword: {
		"required": "Password is required.",
		"min":      "Password must be at least 6 characters long.",
	},
	SignupConfirmPassword: {
		"required": "Please confirm your password.",
		"eqfield":  "Passwords do not match.",
	},
	SignupAcceptTerms: {"*": "You must accept the Terms of Service and Privacy Policy."},
}

var loginMessages = common.FieldMessages[LoginField]{
	LoginEmail: {
		"required": "Email address is required.",
		"*":        "Please enter a valid email address.",
	},
	LoginPassword: {"required": "Password is required."},
}

// Form-level login failures.
const (
	MsgNoAccount         = "No account found with this email. Please sign up."
	MsgIncorrectPassword = "Incorrect password. Please try again."
	MsgEmailTaken        = "An account with this email already exists. Please log in."
)

func (f SignupForm) normalize() SignupForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	return f
}

func (f LoginForm) normalize() LoginForm {
	f.Email = strings.TrimSpace(f.Email)
	f.Password = strings.TrimSpace(f.Password)
	return f
}

// ValidateSignup checks the sign-up form without consulting the user store.
func ValidateSignup(f SignupForm) *common.ValidationErrors[SignupField] {
	return common.ValidateStruct(f.normalize(), signupMessages)
}

// ValidateLogin checks the login form without consulting the user store.
func ValidateLogin(f LoginForm) *common.ValidationErrors[LoginField] {
	return common.ValidateStruct(f.normalize(), loginMessages)
}
