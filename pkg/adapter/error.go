package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error wraps provider transport failures with status metadata.
type Error struct {
	Status    int
	Temporary bool
	Err       error
}

func (e *Error) Error() string {
	if e == nil {
		return "adapter error"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("adapter error (status=%d)", e.Status)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ContractError reports a provider response that could not be parsed
// against the expected structure.
type ContractError struct {
	Expected string
	Err      error
}

func (e *ContractError) Error() string {
	if e == nil {
		return "contract violation"
	}
	if e.Err != nil {
		return fmt.Sprintf("response does not match expected %s: %v", e.Expected, e.Err)
	}
	return fmt.Sprintf("response does not match expected %s", e.Expected)
}

func (e *ContractError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether an error is safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		if adapterErr.Temporary {
			return true
		}
		if adapterErr.Status == 429 || (adapterErr.Status >= 500 && adapterErr.Status <= 599) {
			return true
		}
	}
	return false
}
