package models

import (
	"errors"
	"fmt"
)

// Validation errors surfaced by the wizard as rejected transitions.
// The session state is unchanged whenever one of these is returned.
var (
	ErrValidation          = errors.New("validation failed")
	ErrLocationRequired    = fmt.Errorf("%w: location query is required", ErrValidation)
	ErrLocationNotResolved = fmt.Errorf("%w: location could not be resolved", ErrValidation)
	ErrRadiusOutOfRange    = fmt.Errorf("%w: radius must be between 1 and 50000 meters", ErrValidation)
	ErrCategoryRequired    = fmt.Errorf("%w: establishment category is required", ErrValidation)
	ErrCategoryUnknown     = fmt.Errorf("%w: unknown establishment category", ErrValidation)
	ErrAnswerRequired      = fmt.Errorf("%w: an answer for the current question is required", ErrValidation)
	ErrAnswerNotAnOption   = fmt.Errorf("%w: answer is not one of the question options", ErrValidation)
	ErrSessionComplete     = fmt.Errorf("%w: session already reached the recommendation step", ErrValidation)
	ErrNoPlacesFound       = errors.New("no places found for the chosen area and category")
	ErrSessionNotFound     = errors.New("wizard session not found or expired")
)

// GatewayErrorKind distinguishes the three failure classes of the
// places gateway.
type GatewayErrorKind string

const (
	GatewayErrNetwork           GatewayErrorKind = "network"
	GatewayErrUpstreamStatus    GatewayErrorKind = "upstream_status"
	GatewayErrMalformedResponse GatewayErrorKind = "malformed_response"
)

// GatewayError is the only error type the places gateway returns.
// Callers decide whether to abort or continue; nothing here is fatal.
type GatewayError struct {
	Kind   GatewayErrorKind
	Op     string // gateway operation, e.g. "nearby_search"
	Status string // raw upstream status for upstream_status errors
	Err    error  // wrapped transport/decode cause
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case GatewayErrUpstreamStatus:
		return fmt.Sprintf("places %s: upstream status %q", e.Op, e.Status)
	case GatewayErrMalformedResponse:
		return fmt.Sprintf("places %s: malformed response: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("places %s: %v", e.Op, e.Err)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// NewGatewayError builds a GatewayError for the given operation.
func NewGatewayError(kind GatewayErrorKind, op string, status string, err error) *GatewayError {
	return &GatewayError{Kind: kind, Op: op, Status: status, Err: err}
}

// AsGatewayError unwraps err into a *GatewayError when possible.
func AsGatewayError(err error) (*GatewayError, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}
