package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidIndex, "index %d outside [0, %d)", 7, 3)

	if err.Code != ErrCodeInvalidIndex {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidIndex)
	}
	expected := "INVALID_INDEX: index 7 outside [0, 3)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeRenderFailure, cause, "parsing diagram %q", "main.svg")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	want := `RENDER_FAILURE: parsing diagram "main.svg": unexpected EOF`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeOutOfRange, "x"), ErrCodeOutOfRange, true},
		{"different code", New(ErrCodeOutOfRange, "x"), ErrCodeInvalidIndex, false},
		{"wrapped by fmt", fmt.Errorf("loading: %w", New(ErrCodeResolutionFailed, "x")), ErrCodeResolutionFailed, true},
		{"plain error", errors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeNotFound, "session %s", "abc"))
	if got := GetCode(err); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeNotFound)
	}
	if got := UserMessage(err); got != "session abc" {
		t.Errorf("UserMessage() = %q, want %q", got, "session abc")
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
