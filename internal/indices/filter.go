// Package indices computes class sums and lipid quality indices over a
// fatty acid profile.
//
// Everything is expressed as filters and weights over engine.Facts, so one
// profile pass evaluates one term:
//
//	hpi := indices.HPI.Eval(profile)
//	if v, ok := hpi.Float64(); ok { ... }
package indices

import (
	"lipid/internal/engine"
	"lipid/internal/fattyacid"
)

// Filter selects profile rows by their facts.
type Filter func(engine.Facts) bool

// And matches rows matched by both f and g.
func (f Filter) And(g Filter) Filter {
	return func(x engine.Facts) bool { return f(x) && g(x) }
}

// Not matches rows f does not match.
func (f Filter) Not() Filter {
	return func(x engine.Facts) bool { return !f(x) }
}

// Exactly matches acids with the given carbon and unsaturation counts.
func Exactly(carbons, unsaturation uint8) Filter {
	return func(x engine.Facts) bool { return x.Carbons == carbons && x.Unsaturation == unsaturation }
}

// Degree matches acids whose unsaturation count is u.
func Degree(u uint8) Filter {
	return func(x engine.Facts) bool { return x.Unsaturation == u }
}

// InClass matches acids in c.
func InClass(c fattyacid.Class) Filter {
	return func(x engine.Facts) bool { return c.Contains(x.Carbons, x.Unsaturation) }
}

// OmegaPUFA matches polyunsaturated acids of the n-omega family, counted
// from the methyl end to the last known bond.
func OmegaPUFA(n uint8) Filter {
	return func(x engine.Facts) bool { return x.Unsaturation > 1 && x.Omega == n }
}

var (
	SFA  = Degree(0)
	UFA  = Degree(0).Not()
	MUFA = Degree(1)
	PUFA = Filter(func(x engine.Facts) bool { return x.Unsaturation > 1 })

	Monoenoic  = Degree(1)
	Dienoic    = Degree(2)
	Trienoic   = Degree(3)
	Tetraenoic = Degree(4)
	Pentaenoic = Degree(5)
	Hexaenoic  = Degree(6)

	C12U0 = Exactly(12, 0)
	C14U0 = Exactly(14, 0)
	C16U0 = Exactly(16, 0)
	C18U0 = Exactly(18, 0)
	C18U1 = Exactly(18, 1)

	Linoleic       = Exactly(18, 2)
	AlphaLinolenic = Exactly(18, 3)
	EPA            = Exactly(20, 5)
	DHA            = Exactly(22, 6)

	N3 = OmegaPUFA(3)
	N6 = OmegaPUFA(6)

	// Trans matches acids with at least one trans bond.
	Trans = Filter(func(x engine.Facts) bool { return x.Trans > 0 })
)

// NamedFilter is a filter reported under a name.
type NamedFilter struct {
	Name   string
	Filter Filter
}

// Classes lists the class sums a report carries, in report order.
var Classes = []NamedFilter{
	{"SFA", SFA},
	{"UFA", UFA},
	{"MUFA", MUFA},
	{"PUFA", PUFA},
	{"Monoenoic", Monoenoic},
	{"Dienoic", Dienoic},
	{"Trienoic", Trienoic},
	{"Tetraenoic", Tetraenoic},
	{"Pentaenoic", Pentaenoic},
	{"Hexaenoic", Hexaenoic},
	{"n-3", N3},
	{"n-6", N6},
	{"Trans", Trans},
	{"C12:0", C12U0},
	{"C14:0", C14U0},
	{"C16:0", C16U0},
	{"C18:0", C18U0},
	{"C18:1", C18U1},
	{"LA", Linoleic},
	{"ALA", AlphaLinolenic},
	{"EPA", EPA},
	{"DHA", DHA},
}
