package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidTag, "bad tag: %s", "a;;b")

	if err.Code != ErrCodeInvalidTag {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidTag)
	}

	if err.Message != "bad tag: a;;b" {
		t.Errorf("Message = %v, want %v", err.Message, "bad tag: a;;b")
	}

	expected := "INVALID_TAG: bad tag: a;;b"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeFetch, cause, "GET /api/root")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedSnapshot, "test"),
			code:     ErrCodeMalformedSnapshot,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidTag, "test"),
			code:     ErrCodeFetch,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFetch, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeFetch,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !IsMalformedTag(New(ErrCodeInvalidTag, "x")) {
		t.Error("IsMalformedTag() = false for INVALID_TAG")
	}
	if !IsFetch(Wrap(ErrCodeFetch, errors.New("eof"), "x")) {
		t.Error("IsFetch() = false for FETCH_FAILED")
	}
	if !IsMalformedSnapshot(New(ErrCodeMalformedSnapshot, "x")) {
		t.Error("IsMalformedSnapshot() = false for MALFORMED_SNAPSHOT")
	}
	if !IsSuperseded(New(ErrCodeSuperseded, "x")) {
		t.Error("IsSuperseded() = false for SUPERSEDED")
	}
	if IsFetch(New(ErrCodeSuperseded, "x")) {
		t.Error("IsFetch() = true for SUPERSEDED")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNodeNotFound, "test"),
			expected: ErrCodeNodeNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"invalid tag", New(ErrCodeInvalidTag, "empty wire tag"), "invalid path: empty wire tag"},
		{"fetch", New(ErrCodeFetch, "status 502"), "could not load module: status 502"},
		{"malformed", New(ErrCodeMalformedSnapshot, "edge to x"), "backend sent an invalid module"},
		{"other code", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("UserMessage() = %v, want prefix %v", got, tt.prefix)
			}
		})
	}
}
