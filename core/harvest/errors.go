package harvest

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPageSize indicates a cursor configured with a non-positive page size.
	ErrInvalidPageSize = errors.New("harvest: page size must be positive")

	// ErrCountMismatch indicates a counted scan collected a different number of
	// items than the service reported.
	ErrCountMismatch = errors.New("harvest: collected count does not match reported total")
)

// Stage identifies which pagination level a failure happened in.
type Stage string

const (
	StageOuter  Stage = "outer"
	StageNested Stage = "nested"
)

// StageError wraps a failure with the pagination context it happened in.
type StageError struct {
	Family   string
	Stage    Stage
	Offset   int
	ParentID string
	Err      error
}

func (e *StageError) Error() string {
	if e.Stage == StageNested {
		return fmt.Sprintf("harvest %s: nested scan for parent %s failed at offset %d: %v",
			e.Family, e.ParentID, e.Offset, e.Err)
	}
	return fmt.Sprintf("harvest %s: outer scan failed at offset %d: %v", e.Family, e.Offset, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a record field that could not be decoded.
type MalformedRecordError struct {
	Family   string
	ParentID string
	Offset   int
	Field    string
	Value    string
	Err      error
}

func (e *MalformedRecordError) Error() string {
	msg := fmt.Sprintf("harvest %s: malformed %s %q at offset %d", e.Family, e.Field, e.Value, e.Offset)
	if e.ParentID != "" {
		msg += " (parent " + e.ParentID + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err carries a MalformedRecordError.
func IsMalformed(err error) bool {
	var malformed *MalformedRecordError
	return errors.As(err, &malformed)
}

// StageOf extracts the stage context from err, if any.
func StageOf(err error) (*StageError, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr, true
	}
	return nil, false
}
