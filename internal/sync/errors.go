package sync

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCurrency marks a payment in a currency the accounting
	// rules do not cover.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidAmount marks a payment whose amount is zero or negative.
	ErrInvalidAmount = errors.New("invalid amount")
)

// ValidationError marks a source record missing a required field. The
// record is skipped and reported; the batch continues.
type ValidationError struct {
	Ref    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s: %s", e.Ref, e.Reason)
}
