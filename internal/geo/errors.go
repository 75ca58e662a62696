package geo

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrInvalidRange  = errors.New("coordinate out of range")
	ErrDuplicateName = errors.New("duplicate coordinate name")
)

// InvalidRangeError reports a coordinate field outside its valid range.
type InvalidRangeError struct {
	Name  string
	Field string // "longitude", "latitude" or "name"
	Value float64
}

func (e *InvalidRangeError) Error() string {
	if e.Field == "name" {
		return "invalid coordinate: name must not be empty"
	}

	limit := 180
	if e.Field == "latitude" {
		limit = 90
	}
	return fmt.Sprintf("invalid coordinate %q: %s %v outside [-%d, %d]", e.Name, e.Field, e.Value, limit, limit)
}

// Is matches ErrInvalidRange.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// DuplicateNameError reports a name already present in a CoordinateSet.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("coordinate %q already exists in set", e.Name)
}

// Is matches ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}
