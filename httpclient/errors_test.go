package httpclient

import (
	"errors"
	"testing"
)

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status    int
		wantNil   bool
		code      ErrorCode
		retryable bool
	}{
		{200, true, 0, false},
		{204, true, 0, false},
		{400, false, ErrCodeValidation, false},
		{401, false, ErrCodeAuth, false},
		{403, false, ErrCodeAuth, false},
		{404, false, ErrCodeNotFound, false},
		{415, false, ErrCodeValidation, false},
		{429, false, ErrCodeRateLimit, true},
		{500, false, ErrCodeServer, true},
		{503, false, ErrCodeServer, true},
	}
	for _, tt := range tests {
		err := ClassifyStatusCode(tt.status, nil)
		if tt.wantNil {
			if err != nil {
				t.Errorf("%d: expected nil, got %v", tt.status, err)
			}
			continue
		}
		if err == nil {
			t.Fatalf("%d: expected error", tt.status)
		}
		if err.Code != tt.code || err.Retryable != tt.retryable || err.StatusCode != tt.status {
			t.Errorf("%d: got code=%s retryable=%v status=%d", tt.status, err.Code, err.Retryable, err.StatusCode)
		}
	}
}

func TestError_Message(t *testing.T) {
	if got := ClassifyStatusCode(502, nil).Error(); got != "httpclient: server (HTTP 502): HTTP 502" {
		t.Errorf("unexpected message %q", got)
	}
	cause := errors.New("dial tcp: refused")
	err := NewConnectionError(cause)
	if got := err.Error(); got != "httpclient: connection: dial tcp: refused" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestHelpers(t *testing.T) {
	timeout := NewTimeoutError(errors.New("deadline"))
	if !IsTimeout(timeout) || !IsRetryable(timeout) {
		t.Error("timeout should be retryable")
	}
	if !IsConnection(NewConnectionError(errors.New("x"))) {
		t.Error("IsConnection")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
	if StatusCode(ClassifyStatusCode(404, nil)) != 404 || StatusCode(errors.New("x")) != 0 {
		t.Error("StatusCode")
	}
	if ErrorCode(99).String() != "unknown" {
		t.Error("unknown code name")
	}
}
