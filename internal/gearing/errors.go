package gearing

import (
	"errors"
	"fmt"
)

// Validation failures reported by the engine. Match them with errors.Is.
var (
	ErrInvalidGeometry   = errors.New("invalid wheel geometry")
	ErrEmptyInputSet     = errors.New("empty tooth set")
	ErrInvalidToothCount = errors.New("invalid tooth count")
	ErrEmptyMetricSet    = errors.New("empty metric set")
	ErrInvalidCadence    = errors.New("invalid cadence")
)

// ValidationError names the offending input field and value.
type ValidationError struct {
	Err   error
	Field string
	Value any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field string, value any) error {
	return &ValidationError{Err: err, Field: field, Value: value}
}
