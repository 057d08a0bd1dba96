package gorgias

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", &NetworkError{Op: "x", Err: errors.New("refused")}, true},
		{"timeout 408", classifyStatus("x", 408, ""), true},
		{"rate limited 429", classifyStatus("x", 429, ""), true},
		{"server 500", classifyStatus("x", 500, ""), true},
		{"server 503", classifyStatus("x", 503, ""), true},
		{"unauthorized 401", classifyStatus("x", 401, ""), false},
		{"forbidden 403", classifyStatus("x", 403, ""), false},
		{"not found 404", classifyStatus("x", 404, ""), false},
		{"validation", NewValidationError("f", "bad"), false},
		{"plain error", errors.New("whatever"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryable(tc.err))
		})
	}
}

func TestIsRetryableWrapped(t *testing.T) {
	err := fmt.Errorf("list_tickets: %w", classifyStatus("list_tickets", 503, ""))
	assert.True(t, IsRetryable(err))
	assert.True(t, IsNetwork(err))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeUnauthorized, ErrorCode(classifyStatus("x", 401, "")))
	assert.Equal(t, CodeNotFound, ErrorCode(classifyStatus("x", 404, "")))
	assert.Equal(t, CodeValidation, ErrorCode(NewValidationError("f", "bad")))
	assert.Equal(t, CodeNetwork, ErrorCode(errors.New("dial tcp: refused")))
}

func TestAPIErrorMessageIncludesDetails(t *testing.T) {
	err := classifyStatus("get_ticket", 404, `{"error":"no such ticket"}`)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "no such ticket")
}

func TestShouldFallback(t *testing.T) {
	assert.True(t, shouldFallback(classifyStatus("x", 404, "")))
	assert.True(t, shouldFallback(&APIError{StatusCode: 405, Code: CodeNetwork}))
	assert.True(t, shouldFallback(&APIError{StatusCode: 501, Code: CodeNetwork}))
	assert.False(t, shouldFallback(classifyStatus("x", 500, "")))
	assert.False(t, shouldFallback(&NetworkError{Op: "x", Err: errors.New("refused")}))
	assert.False(t, shouldFallback(nil))
}
