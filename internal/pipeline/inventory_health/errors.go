package inventory_health

import "errors"

var (
	// ErrMalformedInput means the table has no recognizable data region
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidParameter means a scalar parameter is out of range
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUndefinedAggregate means an aggregate has a zero denominator
	ErrUndefinedAggregate = errors.New("undefined aggregate")
)
