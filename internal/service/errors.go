package service

import "fmt"

// ValidationError aborts a batch before any external call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// ConsolidationError means the final record write failed. Storage and
// analysis side effects may already be durable at that point; they are not
// rolled back.
type ConsolidationError struct {
	Err error
}

func (e *ConsolidationError) Error() string {
	return fmt.Sprintf("failed to consolidate batch: %v", e.Err)
}

func (e *ConsolidationError) Unwrap() error {
	return e.Err
}
