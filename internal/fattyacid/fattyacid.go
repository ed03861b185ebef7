// Package fattyacid models fatty acid structure: the carbon chain length and
// the positions, geometry and multiplicity of its unsaturated bonds.
package fattyacid

import (
	"cmp"
	"slices"

	"github.com/goccy/go-json"
)

// FattyAcid is a fully specified fatty acid. Its bonds are always kept in
// canonical order (see Compare), so two fatty acids built from the same
// bonds in any order are equal.
type FattyAcid struct {
	carbons uint8
	bonds   []Unsaturated
}

// New returns a saturated fatty acid with the given number of carbons.
func New(carbons uint8) (FattyAcid, error) {
	if carbons == 0 {
		return FattyAcid{}, &ValidationError{Err: ErrInvalidCarbons}
	}
	return FattyAcid{carbons: carbons}, nil
}

// Build returns a fatty acid with the given bonds.
func Build(carbons uint8, bonds ...Unsaturated) (FattyAcid, error) {
	fa, err := New(carbons)
	if err != nil {
		return FattyAcid{}, err
	}
	for _, bond := range bonds {
		if err := fa.validate(bond); err != nil {
			return FattyAcid{}, err
		}
		fa.bonds = append(fa.bonds, bond)
	}
	fa.sort()
	return fa, nil
}

// Must is like Build but panics on error. It is intended for tables of
// well-known acids.
func Must(carbons uint8, bonds ...Unsaturated) FattyAcid {
	fa, err := Build(carbons, bonds...)
	if err != nil {
		panic(err)
	}
	return fa
}

// FromLocants builds a fatty acid from locant groups. The first group lists
// double bonds, the second triple bonds. A positive locant is cis, a negative
// one trans:
//
//	FromLocants(18, []int8{9, 12})   // 18:2 Δ9c,12c
//	FromLocants(18, []int8{-9})      // 18:1 Δ9t
//	FromLocants(18, nil, []int8{9})  // 18 carbons, triple bond at 9
func FromLocants(carbons uint8, groups ...[]int8) (FattyAcid, error) {
	fa, err := New(carbons)
	if err != nil {
		return FattyAcid{}, err
	}
	for g, locants := range groups {
		unsaturation := Unsaturation(g + 1)
		for _, locant := range locants {
			bond := Unsaturated{
				Index:        At(abs(locant)),
				Isomerism:    IsomerismOf(locant),
				Unsaturation: unsaturation,
			}
			if err := fa.Push(bond); err != nil {
				return FattyAcid{}, err
			}
		}
	}
	return fa, nil
}

func abs(v int8) uint8 {
	if v < 0 {
		return uint8(-int(v))
	}
	return uint8(v)
}

// Push adds a bond, keeping the canonical order. A rejected bond leaves the
// fatty acid unchanged.
func (fa *FattyAcid) Push(bond Unsaturated) error {
	if err := fa.validate(bond); err != nil {
		return err
	}
	fa.bonds = append(fa.bonds, bond)
	fa.sort()
	return nil
}

func (fa *FattyAcid) validate(bond Unsaturated) error {
	if fa.carbons == 0 {
		return &ValidationError{Err: ErrInvalidCarbons}
	}
	if !bond.Unsaturation.Valid() {
		return &ValidationError{Err: ErrInvalidUnsaturation, Carbons: fa.carbons, Bond: bond}
	}
	if index, ok := bond.Index.Get(); ok && (index == 0 || index >= fa.carbons) {
		return &ValidationError{Err: ErrInvalidIndex, Carbons: fa.carbons, Bond: bond}
	}
	// U never exceeds the number of carbon-carbon bonds, so it fits a uint8.
	if int(fa.Unsaturation())+int(bond.Unsaturation.Degree()) > int(fa.Bounds()) {
		return &ValidationError{Err: ErrExcessUnsaturation, Carbons: fa.carbons, Bond: bond}
	}
	return nil
}

func (fa *FattyAcid) sort() {
	slices.SortStableFunc(fa.bonds, Compare)
}

// Carbons returns the number of carbon atoms.
func (fa FattyAcid) Carbons() uint8 { return fa.carbons }

// Unsaturated returns a copy of the bonds in canonical order.
func (fa FattyAcid) Unsaturated() []Unsaturated { return slices.Clone(fa.bonds) }

// Len returns the number of unsaturated bonds.
func (fa FattyAcid) Len() int { return len(fa.bonds) }

// Bounds returns the number of carbon-carbon bonds.
func (fa FattyAcid) Bounds() uint8 {
	if fa.carbons == 0 {
		return 0
	}
	return fa.carbons - 1
}

// Unsaturation returns U, the sum of unsaturation degrees of all bonds.
func (fa FattyAcid) Unsaturation() uint8 {
	var u uint8
	for _, bond := range fa.bonds {
		u += bond.Unsaturation.Degree()
	}
	return u
}

// Hydrogens returns H = 2C - 2U.
func (fa FattyAcid) Hydrogens() int {
	return 2*int(fa.carbons) - 2*int(fa.Unsaturation())
}

// ECN returns the equivalent carbon number C - 2U.
func (fa FattyAcid) ECN() int {
	return int(fa.carbons) - 2*int(fa.Unsaturation())
}

// Mass returns the molecular mass of the free acid.
func (fa FattyAcid) Mass() float64 {
	return float64(fa.carbons)*MassC + float64(fa.Hydrogens())*MassH + 2*MassO
}

// Saturated reports whether the acid has no unsaturated bonds.
func (fa FattyAcid) Saturated() bool { return fa.Unsaturation() == 0 }

// Omega returns x of the n-x class: the distance from the methyl end to the
// farthest known bond.
func (fa FattyAcid) Omega() (uint8, bool) {
	var last uint8
	for _, bond := range fa.bonds {
		if index, ok := bond.Index.Get(); ok && index > last {
			last = index
		}
	}
	if last == 0 {
		return 0, false
	}
	return fa.carbons - last, true
}

// Trans returns the number of bonds with trans geometry.
func (fa FattyAcid) Trans() int {
	n := 0
	for _, bond := range fa.bonds {
		if bond.Isomerism == Trans {
			n++
		}
	}
	return n
}

// Cis returns the number of bonds with cis geometry.
func (fa FattyAcid) Cis() int {
	n := 0
	for _, bond := range fa.bonds {
		if bond.Isomerism == Cis {
			n++
		}
	}
	return n
}

// Equal reports whether both acids have the same carbons and bonds.
func (fa FattyAcid) Equal(other FattyAcid) bool {
	return fa.carbons == other.carbons && slices.Equal(fa.bonds, other.bonds)
}

// CompareFattyAcids orders by carbons, then bond count, then bonds.
func CompareFattyAcids(a, b FattyAcid) int {
	if c := cmp.Compare(a.carbons, b.carbons); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.bonds), len(b.bonds)); c != 0 {
		return c
	}
	return slices.CompareFunc(a.bonds, b.bonds, Compare)
}

type bondJSON struct {
	Index        *uint8 `json:"index"`
	Isomerism    *int8  `json:"isomerism"`
	Unsaturation *uint8 `json:"unsaturation"`
}

type fattyAcidJSON struct {
	Carbons     uint8      `json:"carbons"`
	Unsaturated []bondJSON `json:"unsaturated"`
}

func (fa FattyAcid) MarshalJSON() ([]byte, error) {
	out := fattyAcidJSON{Carbons: fa.carbons, Unsaturated: make([]bondJSON, len(fa.bonds))}
	for i, bond := range fa.bonds {
		if index, ok := bond.Index.Get(); ok {
			out.Unsaturated[i].Index = &index
		}
		if bond.Isomerism.Known() {
			isomerism := int8(bond.Isomerism)
			out.Unsaturated[i].Isomerism = &isomerism
		}
		if bond.Unsaturation != 0 {
			unsaturation := uint8(bond.Unsaturation)
			out.Unsaturated[i].Unsaturation = &unsaturation
		}
	}
	return json.Marshal(out)
}

func (fa *FattyAcid) UnmarshalJSON(data []byte) error {
	var in fattyAcidJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	bonds := make([]Unsaturated, len(in.Unsaturated))
	for i, b := range in.Unsaturated {
		if b.Index != nil {
			bonds[i].Index = At(*b.Index)
		}
		if b.Isomerism != nil {
			bonds[i].Isomerism = IsomerismOf(*b.Isomerism)
		}
		if b.Unsaturation != nil {
			bonds[i].Unsaturation = Unsaturation(*b.Unsaturation)
		}
	}
	built, err := Build(in.Carbons, bonds...)
	if err != nil {
		return err
	}
	*fa = built
	return nil
}
