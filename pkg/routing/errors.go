package routing

import "errors"

// Class categorizes a routing error for HTTP status mapping.
type Class int

const (
	// ClassInputValidation: malformed coordinates, empty waypoints, etc.
	ClassInputValidation Class = iota
	// ClassGraphInvariant: an internal graph invariant was violated.
	ClassGraphInvariant
	// ClassNoRoute: origin/destination fall outside the loaded network.
	ClassNoRoute
	// ClassPolicyFailure: the policy misbehaved beyond what a leg-local
	// fallback can absorb.
	ClassPolicyFailure
	// ClassResourceLimit: a leg exceeded its hard step ceiling.
	ClassResourceLimit
)

// Error wraps a routing failure with its class, for HTTP status mapping at
// the API boundary without leaking internal details (e.g. node ids) past a
// GraphInvariant.
type Error struct {
	Class Class
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error class to the response status code from spec §7.
func (e *Error) HTTPStatus() int {
	switch e.Class {
	case ClassInputValidation:
		return 400
	case ClassGraphInvariant:
		return 500
	case ClassNoRoute:
		return 422
	case ClassPolicyFailure:
		return 500
	case ClassResourceLimit:
		return 500
	default:
		return 500
	}
}

func newError(class Class, msg string, err error) *Error {
	return &Error{Class: class, Msg: msg, Err: err}
}

// ErrEmptyWaypoints is returned when a request supplies zero waypoints.
var ErrEmptyWaypoints = errors.New("routing: waypoints must be non-empty")

// NewInputValidationError wraps err (or a bare message) as ClassInputValidation.
func NewInputValidationError(msg string, err error) *Error {
	return newError(ClassInputValidation, msg, err)
}

// NewGraphInvariantError wraps err as ClassGraphInvariant. The message must
// never include internal node ids, per spec.
func NewGraphInvariantError(msg string, err error) *Error {
	return newError(ClassGraphInvariant, msg, err)
}

// NewNoRouteError wraps err as ClassNoRoute.
func NewNoRouteError(msg string, err error) *Error {
	return newError(ClassNoRoute, msg, err)
}

// NewPolicyFailureError wraps err as ClassPolicyFailure.
func NewPolicyFailureError(msg string, err error) *Error {
	return newError(ClassPolicyFailure, msg, err)
}

// NewResourceLimitError wraps err as ClassResourceLimit.
func NewResourceLimitError(msg string, err error) *Error {
	return newError(ClassResourceLimit, msg, err)
}
