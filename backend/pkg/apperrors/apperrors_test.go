package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind Kind
	}{
		{Validation("bad input"), KindValidation},
		{Conflict("duplicate"), KindConflict},
		{NotFound("missing"), KindNotFound},
		{Auth("nope"), KindAuth},
		{Store("boom", errors.New("io")), KindStore},
		{errors.New("plain"), ""},
		{nil, ""},
	}
	for _, c := range cases {
		if got := KindOf(c.err); got != c.kind {
			t.Errorf("KindOf(%v) = %q, expected %q", c.err, got, c.kind)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("user not found"))
	if !IsNotFound(err) {
		t.Fatalf("Expected not-found through the wrap, got %v", err)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Store("failed to load user", cause)
	if !errors.Is(err, cause) {
		t.Fatal("Expected wrapped cause to be reachable")
	}
}

func TestErrorFormat(t *testing.T) {
	if got := Auth("password is incorrect").Error(); got != "[auth] password is incorrect" {
		t.Errorf("Unexpected format: %q", got)
	}
	withCause := Store("failed", errors.New("io")).Error()
	if withCause != "[store] failed: io" {
		t.Errorf("Unexpected format: %q", withCause)
	}
}
