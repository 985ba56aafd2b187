package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoData indicates a response whose data field was null or missing.
var ErrNoData = errors.New("graph: response has no data")

// TransientError is a failure worth retrying.
type TransientError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graph %s: transient status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("graph %s: transient failure: %v", e.Operation, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// StatusError is a non-retryable HTTP status.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph %s: unexpected status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// ResponseError reports GraphQL-level errors or a response without data.
type ResponseError struct {
	Operation string
	Messages  []string
	Err       error
}

func (e *ResponseError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("graph %s: %s", e.Operation, strings.Join(e.Messages, "; "))
	}
	return fmt.Sprintf("graph %s: %v", e.Operation, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a TransientError.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}

// IsResponseError reports whether err is a ResponseError.
func IsResponseError(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr)
}
