package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postrai/postr/internal/api"
)

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	valid := Login{Email: "ada@example.com", Password: "secret1"}
	assert.Nil(t, valid.Validate())

	cases := []struct {
		name  string
		form  Login
		field string
	}{
		{"missing email", Login{Password: "secret1"}, "email"},
		{"no at sign", Login{Email: "ada.example.com", Password: "secret1"}, "email"},
		{"no domain dot", Login{Email: "ada@example", Password: "secret1"}, "email"},
		{"missing password", Login{Email: "ada@example.com"}, "password"},
		{"short password", Login{Email: "ada@example.com", Password: "12345"}, "password"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			errs := tc.form.Validate()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tc.field)
			assert.True(t, errors.Is(errs, api.ErrValidation))
		})
	}
}

func TestSignUpValidation(t *testing.T) {
	t.Parallel()

	valid := SignUp{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "Passw0rd"}
	assert.Nil(t, valid.Validate())

	cases := []struct {
		name  string
		form  SignUp
		field string
	}{
		{"missing first name", SignUp{LastName: "L", Email: "a@b.co", Password: "Passw0rd"}, "firstName"},
		{"missing last name", SignUp{FirstName: "A", Email: "a@b.co", Password: "Passw0rd"}, "lastName"},
		{"malformed email", SignUp{FirstName: "A", LastName: "L", Email: "not-an-email", Password: "Passw0rd"}, "email"},
		{"short password", SignUp{FirstName: "A", LastName: "L", Email: "a@b.co", Password: "Pw0"}, "password"},
		{"no uppercase", SignUp{FirstName: "A", LastName: "L", Email: "a@b.co", Password: "passw0rd"}, "password"},
		{"no lowercase", SignUp{FirstName: "A", LastName: "L", Email: "a@b.co", Password: "PASSW0RD"}, "password"},
		{"no digit", SignUp{FirstName: "A", LastName: "L", Email: "a@b.co", Password: "Password"}, "password"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			errs := tc.form.Validate()
			require.NotNil(t, errs)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestValidationMessagesMatchProductCopy(t *testing.T) {
	t.Parallel()

	errs := Login{Email: "nope", Password: "123"}.Validate()
	require.NotNil(t, errs)
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "Password must be at least 6 characters long", errs["password"])
}
