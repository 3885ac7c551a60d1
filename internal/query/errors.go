package query

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by errors.Is for every lookup of a canton
// code or district number that does not exist in the model.
var ErrInvalidArgument = errors.New("invalid argument")

// Entity names used in LookupError
const (
	EntityCanton   = "canton"
	EntityDistrict = "district"
)

// LookupError reports an unknown canton code or district number
type LookupError struct {
	Entity string
	Key    string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q", ErrInvalidArgument, e.Entity, e.Key)
}

// Is makes LookupError match ErrInvalidArgument
func (e *LookupError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewLookupError creates a new LookupError
func NewLookupError(entity, key string) *LookupError {
	return &LookupError{
		Entity: entity,
		Key:    key,
	}
}
