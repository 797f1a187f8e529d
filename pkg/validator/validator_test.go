package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"omitempty,oneof=admin supervisor"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(loginForm{Email: "not-an-email", Role: "student"})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msg := FormatValidationError(err)
	for _, want := range []string{
		"Email must be a valid email address",
		"Password is required",
		"Role must be one of: admin supervisor",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestFormatValidationErrorPassthrough(t *testing.T) {
	plain := errors.New("broken pipe")
	if got := FormatValidationError(plain); got != "broken pipe" {
		t.Errorf("got %q, want the original message", got)
	}
}
