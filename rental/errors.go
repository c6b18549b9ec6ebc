/*
errors.go - Centralized error types for the domain

PURPOSE:
  Sentinel errors shared across the engine and the storage/API layers.
  Individual malformed records never produce errors (they are silently
  excluded from aggregates); only structurally invalid call arguments do.

USAGE:
  if errors.Is(err, rental.ErrInvalidPeriod) {
      // caller supplied end < start
  }
*/
package rental

import "errors"

var (
	// ErrInvalidPeriod is returned when a reporting period's end precedes
	// its start. Periods are validated eagerly instead of silently
	// producing negative day counts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when creating a record whose ID already
	// exists.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrEntryReversed is returned when reversing a ledger entry that has
	// already been reversed.
	ErrEntryReversed = errors.New("ledger entry already reversed")
)

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrDuplicateID) ||
		errors.Is(err, ErrEntryReversed)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
