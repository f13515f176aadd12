package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidCell, "not a cell: %s", "zz")

	if err.Code != ErrCodeInvalidCell {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidCell)
	}

	if err.Message != "not a cell: zz" {
		t.Errorf("Message = %v, want %v", err.Message, "not a cell: zz")
	}

	expected := "INVALID_CELL: not a cell: zz"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("index offline")
	err := Wrap(ErrCodeGeometryUnavailable, cause, "boundary")

	if err.Code != ErrCodeGeometryUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeGeometryUnavailable)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
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
		{"matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "test"), ErrCodeNotFound, false},
		{"wrapped error", Wrap(ErrCodeGeometryUnavailable, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeGeometryUnavailable, true},
		{"fmt wrapped", fmt.Errorf("layout: %w", New(ErrCodeInvalidCell, "x")), ErrCodeInvalidCell, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeNotAdjacent, "test"), ErrCodeNotAdjacent},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
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
	if got := UserMessage(New(ErrCodeInvalidInput, "friendly message")); got != "friendly message" {
		t.Errorf("UserMessage() = %v, want %v", got, "friendly message")
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %v, want %v", got, "plain error")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(New(ErrCodeGeometryUnavailable, "x")) {
		t.Error("GEOMETRY_UNAVAILABLE should be retryable")
	}
	if IsRetryable(New(ErrCodeInvalidCell, "x")) {
		t.Error("INVALID_CELL should not be retryable")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors should not be retryable")
	}
}

func TestGeometry(t *testing.T) {
	if Geometry(nil, "centroid", "abc") != nil {
		t.Error("Geometry(nil) should be nil")
	}

	err := Geometry(errors.New("boom"), "centroid", "abc")
	if !Is(err, ErrCodeGeometryUnavailable) {
		t.Errorf("Geometry() code = %v, want %v", GetCode(err), ErrCodeGeometryUnavailable)
	}

	if got := Geometry(context.Canceled, "ring", "abc"); got != context.Canceled {
		t.Errorf("Geometry(context.Canceled) = %v, want context.Canceled", got)
	}

	invalid := New(ErrCodeInvalidCell, "bad")
	if got := Geometry(invalid, "centroid", "abc"); got != invalid {
		t.Errorf("Geometry() should pass coded errors through, got %v", got)
	}
}
