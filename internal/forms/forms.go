// Package forms holds the client-side validation that gates every auth
// submission. A form that fails validation never reaches the network.
package forms

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/postrai/postr/internal/api"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps field names to their validation message.
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return fmt.Sprintf("%v: %s", api.ErrValidation, strings.Join(parts, "; "))
}

// Unwrap lets callers test errors.Is(err, api.ErrValidation).
func (e Errors) Unwrap() error {
	return api.ErrValidation
}

// Login holds the login form fields.
type Login struct {
	Email    string
	Password string
}

// Validate checks the login form. Rules match the original product: email
// must look like an address, password at least 6 characters.
func (f Login) Validate() Errors {
	errs := Errors{}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailShape.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if len(f.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters long"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// SignUp holds the signup form fields.
type SignUp struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Validate checks the signup form: all fields present, a well-shaped email,
// and a password of at least 8 characters containing an uppercase letter, a
// lowercase letter, and a digit.
func (f SignUp) Validate() Errors {
	errs := Errors{}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	email := strings.TrimSpace(f.Email)
	if email == "" {
		errs["email"] = "Email is required"
	} else if !emailShape.MatchString(email) {
		errs["email"] = "Please enter a valid email address"
	}
	switch {
	case f.Password == "":
		errs["password"] = "Password is required"
	case len(f.Password) < 8:
		errs["password"] = "Password must be at least 8 characters long"
	case !hasRequiredClasses(f.Password):
		errs["password"] = "Password must contain at least one uppercase letter, one lowercase letter, and one number"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func hasRequiredClasses(password string) bool {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
