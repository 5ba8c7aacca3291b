package storage

import (
	"errors"
	"fmt"
)

// ErrOffline is returned when the remote store is unreachable. During a push
// it is absorbed into the sync result's error list rather than propagated.
var ErrOffline = errors.New("remote store unreachable")

// NotFoundError reports a missing record.
type NotFoundError struct {
	Table Table
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s/%s: not found", e.Table, e.ID)
}

// ConflictError reports a unique-key clash, e.g. a duplicate account code.
type ConflictError struct {
	Table Table
	Key   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: duplicate key %q", e.Table, e.Key)
}

// SyncConflictError reports a queued change dropped after exhausting its
// retries. The change is lost from the sync perspective at that point.
type SyncConflictError struct {
	Table   Table
	ID      string
	Retries int
	Cause   error
}

func (e *SyncConflictError) Error() string {
	return fmt.Sprintf("%s/%s: dropped after %d retries: %v", e.Table, e.ID, e.Retries, e.Cause)
}

func (e *SyncConflictError) Unwrap() error { return e.Cause }

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a unique-key clash.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
