package content

import (
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestPresenceValidator(t *testing.T) {
	validator, err := NewPresenceValidator([]string{"site", "hero", "about"}, nil)
	if err != nil {
		t.Fatalf("NewPresenceValidator: %v", err)
	}

	if err := validator.Validate(mustJSON(t, `{"site":{},"hero":{},"about":null}`)); err != nil {
		t.Fatalf("expected complete tree to pass, got %v", err)
	}

	err = validator.Validate(mustJSON(t, `{"site":{}}`))
	if err == nil {
		t.Fatalf("expected missing keys to fail")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	if typed.TextCode != TextCodeRequiredMissing {
		t.Fatalf("expected text code %s, got %s", TextCodeRequiredMissing, typed.TextCode)
	}
	if !strings.Contains(typed.Message, "hero") || !strings.Contains(typed.Message, "about") {
		t.Fatalf("expected message to name missing keys, got %q", typed.Message)
	}
	if len(typed.ValidationErrors) == 0 {
		t.Fatalf("expected field errors to be attached")
	}
}

func TestPresenceValidatorRejectsNonObject(t *testing.T) {
	validator, err := NewPresenceValidator([]string{"site"}, nil)
	if err != nil {
		t.Fatalf("NewPresenceValidator: %v", err)
	}
	if err := validator.Validate(Strings("a")); err == nil {
		t.Fatalf("expected sequence root to fail")
	}
}

func TestPresenceValidatorCustomSchema(t *testing.T) {
	schema := []byte(`{"type":"object","required":["blog"]}`)
	validator, err := NewPresenceValidator([]string{"site"}, schema)
	if err != nil {
		t.Fatalf("NewPresenceValidator: %v", err)
	}

	if err := validator.Validate(mustJSON(t, `{"site":{}}`)); err == nil {
		t.Fatalf("expected custom schema to require blog")
	}
	if err := validator.Validate(mustJSON(t, `{"blog":[]}`)); err != nil {
		t.Fatalf("expected custom schema to replace generated one, got %v", err)
	}
}

func TestPresenceValidatorInvalidSchema(t *testing.T) {
	if _, err := NewPresenceValidator(nil, []byte(`{"type":`)); err == nil {
		t.Fatalf("expected malformed schema to fail")
	}
}

func TestNilPresenceValidator(t *testing.T) {
	var validator *PresenceValidator
	if err := validator.Validate(Null()); err != nil {
		t.Fatalf("expected nil validator to accept everything, got %v", err)
	}
}
