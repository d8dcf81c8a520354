package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{Conflict("timer busy"), KindConflict},
		{NotFound("task #%d not found", 7), KindNotFound},
		{State("already approved"), KindState},
		{Validation("reason is required"), KindValidation},
		{errors.New("plain"), 0},
		{nil, 0},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("stop timer: %w", NotFound("log #42 not found"))

	if !IsKind(err, KindNotFound) {
		t.Error("wrapped error should keep its kind")
	}
	if !errors.Is(err, &Error{Kind: KindNotFound}) {
		t.Error("errors.Is should match on kind")
	}
	if errors.Is(err, &Error{Kind: KindConflict}) {
		t.Error("errors.Is should not match a different kind")
	}
}

func TestErrorMessage(t *testing.T) {
	err := NotFound("task #%d not found", 12)
	if got, want := err.Error(), "task #12 not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
