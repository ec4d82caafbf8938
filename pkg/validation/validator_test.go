package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	UserType string `json:"user_type" validate:"required,usertype"`
	Year     int    `json:"founder_year" validate:"omitempty,year"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_UsesJSONNamesAndAliases(t *testing.T) {
	err := newValidator().Struct(registerPayload{Email: "nope", Password: "short", UserType: "admin", Year: 1500})
	details := ToDetails(err)

	require.Equal(t, "must be a valid email", details["email"])
	require.Equal(t, "min length 8", details["password"])
	require.Equal(t, "must be Investor or Business", details["user_type"])
	require.Equal(t, "must be a valid year", details["founder_year"])
}

func TestToDetails_Valid(t *testing.T) {
	err := newValidator().Struct(registerPayload{Email: "a@b.co", Password: "longenough", UserType: "investor"})
	require.NoError(t, err)
	require.Nil(t, ToDetails(err))
}

func TestToDetails_Fallback(t *testing.T) {
	require.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("EOF")))
}

type passwordChange struct {
	Name     string `json:"name" validate:"max=4"`
	Age      int    `json:"age" validate:"min=18"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm" validate:"eqfield=Password"`
	Status   string `json:"status" validate:"oneof=open closed"`
	Code     string `json:"code" validate:"hexadecimal"`
}

func TestToDetails_Messages(t *testing.T) {
	err := newValidator().Struct(passwordChange{Name: "toolong", Age: 3, Confirm: "x", Status: "gone", Code: "zz"})
	details := ToDetails(err)

	require.Equal(t, "must be at most 4 characters long", details["name"])
	require.Equal(t, "must be at least 18", details["age"])
	require.Equal(t, "is required", details["password"])
	require.Equal(t, "must be equal to Password field", details["confirm"])
	require.Equal(t, "must be one of: open, closed", details["status"])
	require.Equal(t, "validation failed for 'hexadecimal'", details["code"])
}
