package scryfall

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery = errors.New("card name must not be blank")
	ErrNotFound     = errors.New("card not found")
	ErrTransient    = errors.New("card search failed")
)

// NotFoundError is returned when the provider explicitly reports no match.
// Ambiguous is set when the fuzzy name matched too many cards.
type NotFoundError struct {
	Query     string
	Details   string
	Ambiguous bool
}

func (e *NotFoundError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("card not found: %q: %s", e.Query, e.Details)
	}
	return fmt.Sprintf("card not found: %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransientError covers network failures, timeouts, unexpected statuses and
// undecodable bodies. Status is 0 when no response was received.
type TransientError struct {
	Op     string
	Query  string
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("scryfall %s %q: HTTP %d: %v", e.Op, e.Query, e.Status, e.Err)
	}
	return fmt.Sprintf("scryfall %s %q: %v", e.Op, e.Query, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}
