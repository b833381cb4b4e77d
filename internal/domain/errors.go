package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("invalid input")
var ErrMalformedCandidate = errors.New("malformed route candidate")
var ErrStorage = errors.New("reading store failure")
var ErrConnectivity = errors.New("connectivity failure")
var ErrRouting = errors.New("cannot calculate route")
var ErrPlanNotFound = errors.New("trip plan not found")

// MalformedCandidateError reports a candidate that was excluded from ranking.
type MalformedCandidateError struct {
	Index  int
	Reason string
}

func (e MalformedCandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %s", e.Index, e.Reason)
}

func (e MalformedCandidateError) Unwrap() error {
	return ErrMalformedCandidate
}
