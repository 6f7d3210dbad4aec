package utils

import (
	"errors"
	"testing"
	"time"
)

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Expected 5, got %f", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Expected clamp at 0, got %f", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Expected clamp at 10, got %f", got)
	}
}

func TestMax(t *testing.T) {
	if got := Max(1, 3, 2); got != 3 {
		t.Errorf("Expected 3, got %f", got)
	}
	if got := Max(); got != 0 {
		t.Errorf("Expected 0 for no args, got %f", got)
	}
}

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}

	attempts := 0
	err := RetryWithBackoff(func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, cfg)
	if err != nil {
		t.Errorf("Expected success on the third attempt, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
		Multiplier:   1.0,
	}

	wantErr := errors.New("permanent")
	attempts := 0
	err := RetryWithBackoff(func() error {
		attempts++
		return wantErr
	}, cfg)
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected the last error back, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", attempts)
	}
}
