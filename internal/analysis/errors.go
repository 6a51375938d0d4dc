package analysis

import "errors"

var (
	// ErrEmptyResponse means the reasoning service returned no payload at all.
	ErrEmptyResponse = errors.New("empty response from reasoning service")
	// ErrMalformedResponse means the payload could not be read as the expected shape.
	ErrMalformedResponse = errors.New("malformed response from reasoning service")
	// ErrInvalidCategory means an extraction was requested for an unknown record category.
	ErrInvalidCategory = errors.New("invalid extraction category")
	// ErrPrecondition means an action plan was requested without a bound analysis.
	ErrPrecondition = errors.New("no analysis available to plan against")
)
