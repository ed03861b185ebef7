package fattyacid

import (
	"fmt"
	"math"
)

// Range is an inclusive range of counts.
type Range struct {
	Min, Max uint8
}

// Exactly returns the range holding only v.
func Exactly(v uint8) Range { return Range{Min: v, Max: v} }

// AtLeast returns the range v..255.
func AtLeast(v uint8) Range { return Range{Min: v, Max: math.MaxUint8} }

// Contains reports whether v lies in the range.
func (r Range) Contains(v uint8) bool { return r.Min <= v && v <= r.Max }

func (r Range) String() string {
	if r.Min == r.Max {
		return fmt.Sprint(r.Min)
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

// Class is a partially specified fatty acid: only the carbon count and the
// unsaturation count are constrained, each by a range.
type Class struct {
	Carbons      Range
	Unsaturation Range
}

// NewClass validates the ranges. Carbons must be at least 1 at both ends.
func NewClass(carbons, unsaturation Range) (Class, error) {
	if carbons.Min == 0 || carbons.Min > carbons.Max {
		return Class{}, &ValidationError{Err: ErrInvalidRange, Carbons: carbons.Min}
	}
	if unsaturation.Min > unsaturation.Max {
		return Class{}, &ValidationError{Err: ErrInvalidRange, Carbons: carbons.Min}
	}
	return Class{Carbons: carbons, Unsaturation: unsaturation}, nil
}

// Contains reports whether an acid with the given counts is in the class.
func (c Class) Contains(carbons, unsaturation uint8) bool {
	return c.Carbons.Contains(carbons) && c.Unsaturation.Contains(unsaturation)
}

// Kind tags the variant of a Specification.
type Kind uint8

const (
	KindExact Kind = iota
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Specification describes a fatty acid either exactly or as a class.
type Specification struct {
	kind  Kind
	exact FattyAcid
	class Class
}

// Exact returns a specification matching exactly fa.
func Exact(fa FattyAcid) Specification {
	return Specification{kind: KindExact, exact: fa}
}

// OfClass returns a specification matching every acid in c.
func OfClass(c Class) Specification {
	return Specification{kind: KindClass, class: c}
}

func (s Specification) Kind() Kind { return s.kind }

// FattyAcid returns the exact acid, if s is exact.
func (s Specification) FattyAcid() (FattyAcid, bool) {
	return s.exact, s.kind == KindExact
}

// Carbons returns the range of carbon counts.
func (s Specification) Carbons() Range {
	if s.kind == KindExact {
		return Exactly(s.exact.Carbons())
	}
	return s.class.Carbons
}

// Unsaturation returns the range of unsaturation counts.
func (s Specification) Unsaturation() Range {
	if s.kind == KindExact {
		return Exactly(s.exact.Unsaturation())
	}
	return s.class.Unsaturation
}

// Bounds returns the range of carbon-carbon bond counts.
func (s Specification) Bounds() Range {
	c := s.Carbons()
	if c.Min == 0 {
		return Range{}
	}
	return Range{Min: c.Min - 1, Max: c.Max - 1}
}

// Hydrogens returns the lowest and highest hydrogen counts, 2C - 2U.
func (s Specification) Hydrogens() (lo, hi int) {
	c, u := s.Carbons(), s.Unsaturation()
	lo = 2*int(c.Min) - 2*int(u.Max)
	hi = 2*int(c.Max) - 2*int(u.Min)
	if lo < 0 {
		lo = 0
	}
	return lo, hi
}

// Contains reports whether an acid with the given counts can match s.
func (s Specification) Contains(carbons, unsaturation uint8) bool {
	return s.Carbons().Contains(carbons) && s.Unsaturation().Contains(unsaturation)
}

// Matches reports whether fa satisfies s. An exact specification requires
// equal bonds; a class only looks at counts.
func (s Specification) Matches(fa FattyAcid) bool {
	if s.kind == KindExact {
		return s.exact.Equal(fa)
	}
	return s.class.Contains(fa.Carbons(), fa.Unsaturation())
}
