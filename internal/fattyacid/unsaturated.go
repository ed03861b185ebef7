package fattyacid

import (
	"cmp"
	"strconv"
)

// Index is the carbon position of a bond. The zero value is an unknown
// position.
type Index struct {
	value uint8
	known bool
}

// At returns a known index.
func At(i uint8) Index { return Index{value: i, known: true} }

// Get returns the position and whether it is known.
func (i Index) Get() (uint8, bool) { return i.value, i.known }

// Known reports whether the position is known.
func (i Index) Known() bool { return i.known }

func (i Index) String() string {
	if !i.known {
		return ""
	}
	return strconv.Itoa(int(i.value))
}

func compareIndex(a, b Index) int {
	if a.known != b.known {
		if !a.known {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.value, b.value)
}

// Isomerism is the geometry of a double bond. The zero value is unknown.
type Isomerism int8

const (
	Cis   Isomerism = 1
	Trans Isomerism = -1
)

// IsomerismOf maps the columnar geometry code onto Isomerism: positive is
// cis, negative is trans, zero is unknown.
func IsomerismOf(code int8) Isomerism {
	switch {
	case code > 0:
		return Cis
	case code < 0:
		return Trans
	default:
		return 0
	}
}

// Known reports whether the geometry is known.
func (i Isomerism) Known() bool { return i == Cis || i == Trans }

// rank orders unknown < cis < trans.
func (i Isomerism) rank() int {
	switch i {
	case Cis:
		return 1
	case Trans:
		return 2
	default:
		return 0
	}
}

func (i Isomerism) String() string {
	switch i {
	case Cis:
		return "c"
	case Trans:
		return "t"
	default:
		return ""
	}
}

// Unsaturation is the number of unsaturation degrees a bond contributes.
// The zero value is unspecified and counts as One.
type Unsaturation uint8

const (
	One Unsaturation = 1
	Two Unsaturation = 2
)

// Valid reports whether u is unspecified, One or Two.
func (u Unsaturation) Valid() bool { return u <= Two }

// Degree returns the contribution to the unsaturation count.
func (u Unsaturation) Degree() uint8 {
	if u == Two {
		return 2
	}
	return 1
}

// Unsaturated is a double or triple bond of the carbon chain.
type Unsaturated struct {
	Index        Index
	Isomerism    Isomerism
	Unsaturation Unsaturation
}

// Double returns a double bond at a known index.
func Double(index uint8, isomerism Isomerism) Unsaturated {
	return Unsaturated{Index: At(index), Isomerism: isomerism, Unsaturation: One}
}

// Triple returns a triple bond at a known index.
func Triple(index uint8, isomerism Isomerism) Unsaturated {
	return Unsaturated{Index: At(index), Isomerism: isomerism, Unsaturation: Two}
}

// Compare orders bonds by unsaturation, isomerism and index. Unknown values
// sort before known ones.
func Compare(a, b Unsaturated) int {
	if c := cmp.Compare(a.Unsaturation, b.Unsaturation); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Isomerism.rank(), b.Isomerism.rank()); c != 0 {
		return c
	}
	return compareIndex(a.Index, b.Index)
}
