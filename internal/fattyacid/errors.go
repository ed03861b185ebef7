package fattyacid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCarbons      = errors.New("invalid carbons")
	ErrInvalidIndex        = errors.New("invalid index")
	ErrInvalidUnsaturation = errors.New("invalid unsaturation")
	ErrInvalidRange        = errors.New("invalid range")
	ErrExcessUnsaturation  = errors.New("unsaturation exceeds chain bonds")
)

// ValidationError reports a structural violation found while building a
// fatty acid.
type ValidationError struct {
	Err     error
	Carbons uint8
	Bond    Unsaturated
}

func (e *ValidationError) Error() string {
	switch e.Err {
	case ErrInvalidIndex:
		index, _ := e.Bond.Index.Get()
		return fmt.Sprintf("fattyacid: %v: %d is not interior to a %d carbon chain", e.Err, index, e.Carbons)
	case ErrInvalidUnsaturation:
		return fmt.Sprintf("fattyacid: %v: %d", e.Err, e.Bond.Unsaturation)
	case ErrExcessUnsaturation:
		return fmt.Sprintf("fattyacid: %v: a %d carbon chain has %d", e.Err, e.Carbons, e.Carbons-1)
	default:
		return fmt.Sprintf("fattyacid: %v: %d", e.Err, e.Carbons)
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }
