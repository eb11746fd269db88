package form

import (
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failed response carries no error text
const FallbackMessage = "Failed to fetch results"

var (
	// ErrSubmissionPending is returned under OverlapReject while a submission is in flight.
	ErrSubmissionPending = errors.New("a submission is already in progress")
	// ErrSuperseded is returned under OverlapSupersede by a submission that a newer one replaced.
	ErrSuperseded = errors.New("submission superseded by a newer one")
)

// RequestError reports a non-2xx response
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NetworkError reports a transport failure
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a JSON array of records
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Message returns the text to display for err
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Message == "" {
			return FallbackMessage
		}
		return reqErr.Message
	}
	return err.Error()
}
