package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testField string

const (
	testFieldName  testField = "name"
	testFieldPhone testField = "phone"
	testFieldEmail testField = "email"
)

type testForm struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone_za"`
	Email string `json:"email" validate:"omitempty,email_simple"`
}

var testMessages = FieldMessages[testField]{
	testFieldName:  {"required": "Name is required."},
	testFieldPhone: {"required": "Phone is required.", "phone_za": "Phone is invalid."},
	testFieldEmail: {"*": "Email is invalid."},
}

func TestValidateStructCollectsOneMessagePerField(t *testing.T) {
	errs := ValidateStruct(testForm{Phone: "12345", Email: "nope"}, testMessages)
	require.Equal(t, 3, errs.Len())

	msg, ok := errs.Get(testFieldName)
	require.True(t, ok)
	require.Equal(t, "Name is required.", msg)
	msg, _ = errs.Get(testFieldPhone)
	require.Equal(t, "Phone is invalid.", msg)
	msg, _ = errs.Get(testFieldEmail)
	require.Equal(t, "Email is invalid.", msg)

	fields := errs.Fields()
	require.Equal(t, testFieldName, fields[0].Field)
	require.Equal(t, testFieldPhone, fields[1].Field)
}

func TestValidateStructPasses(t *testing.T) {
	errs := ValidateStruct(testForm{Name: "Thandi", Phone: "0821234567"}, testMessages)
	require.True(t, errs.Empty())
	require.NoError(t, errs.Err())
}

func TestValidationErrorsKeepsFirstMessage(t *testing.T) {
	var errs ValidationErrors[testField]
	errs.Add(testFieldName, "first")
	errs.Add(testFieldName, "second")
	msg, _ := errs.Get(testFieldName)
	require.Equal(t, "first", msg)
	require.Equal(t, 1, errs.Len())
}

func TestValidationErrorsRendersAsUnprocessable(t *testing.T) {
	var errs ValidationErrors[testField]
	errs.Add(testFieldEmail, "Email is invalid.")
	var err error = errs.Err()

	var mapper AppErrorer
	require.True(t, errors.As(err, &mapper))

	rec := httptest.NewRecorder()
	WriteError(rec, err)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields map[string]string `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, CodeValidation, body.Error.Code)
	require.Equal(t, "Email is invalid.", body.Error.Details.Fields["email"])
}

func TestFormLevelMessage(t *testing.T) {
	var errs ValidationErrors[testField]
	errs.SetForm("No account found.")
	require.False(t, errs.Empty())
	appErr := errs.AppError()
	require.Equal(t, "No account found.", appErr.Message)
}

func TestValidPhoneAndEmail(t *testing.T) {
	require.True(t, ValidPhone("0821234567"))
	require.False(t, ValidPhone("821234567"))
	require.False(t, ValidPhone("08212345678"))
	require.False(t, ValidPhone("082123456a"))

	require.True(t, ValidEmail("a@b.co"))
	require.False(t, ValidEmail("a@b"))
	require.False(t, ValidEmail("a b@c.d"))
	require.False(t, ValidEmail("@b.co"))
}
