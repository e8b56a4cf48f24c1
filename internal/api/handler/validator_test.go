package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&registerRequest{Email: "nope", Password: "short", FirstName: strings.Repeat("x", 101)})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{
		"email must be a valid email",
		"password must be at least 8 characters",
		"first_name must be at most 100 characters",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}

	if err := v.Validate(&registerRequest{Email: "a@example.com", Password: "long-enough"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(&createUserRequest{Email: "a@example.com", Password: "long-enough", Role: "tailor"}); err == nil ||
		!strings.Contains(err.Error(), "role must be one of: designer admin") {
		t.Fatalf("expected oneof error, got %v", err)
	}
}
