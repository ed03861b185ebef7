// Package nomenclature renders fatty acids as names such as "18:1Δ9" or
// "c18u1c9".
package nomenclature

import (
	"fmt"
	"strconv"
	"strings"

	"lipid/internal/fattyacid"
)

// Notation places the geometry marker before or after the locant.
type Notation uint8

const (
	Prefix Notation = iota
	Suffix
)

// ParseNotation accepts "prefix" or "suffix".
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(s) {
	case "prefix":
		return Prefix, nil
	case "suffix":
		return Suffix, nil
	default:
		return 0, fmt.Errorf("nomenclature: unknown notation %q", s)
	}
}

// Elision controls whether cis, the default geometry, is written.
type Elision uint8

const (
	Explicit Elision = iota
	Implicit
)

// ParseElision accepts "explicit" or "implicit".
func ParseElision(s string) (Elision, error) {
	switch strings.ToLower(s) {
	case "explicit":
		return Explicit, nil
	case "implicit":
		return Implicit, nil
	default:
		return 0, fmt.Errorf("nomenclature: unknown elision %q", s)
	}
}

// Separators are the fixed fragments of a name. C precedes the carbon
// count, U precedes the bond count, I[0] precedes the first locant and I[1]
// every following one.
type Separators struct {
	C string
	U string
	I [2]string
}

// Options configure a notation.
type Options struct {
	Separators Separators
	Notation   Notation
	Elision    Elision
}

// Format selects the compact or expanded rendering and the minimum width of
// every numeric field.
type Format struct {
	Width    int
	Expanded bool
}

var (
	// ID renders identifiers such as "c18u1c9".
	ID = Options{
		Separators: Separators{C: "c", U: "u", I: [2]string{"", ""}},
		Notation:   Prefix,
		Elision:    Explicit,
	}
	// Common renders the conventional "18:1Δ9".
	Common = Options{
		Separators: Separators{C: "", U: ":", I: [2]string{"Δ", ","}},
		Notation:   Suffix,
		Elision:    Implicit,
	}
)

// Preset returns a named preset, "id" or "common".
func Preset(name string) (Options, error) {
	switch strings.ToLower(name) {
	case "id":
		return ID, nil
	case "common":
		return Common, nil
	default:
		return Options{}, fmt.Errorf("nomenclature: unknown preset %q", name)
	}
}

// Render writes fa under o. Unknown locants and geometries are left empty.
func (o Options) Render(fa fattyacid.FattyAcid, f Format) string {
	var b strings.Builder
	o.write(&b, fa, f)
	return b.String()
}

func (o Options) write(b *strings.Builder, fa fattyacid.FattyAcid, f Format) {
	b.WriteString(o.Separators.C)
	pad(b, int(fa.Carbons()), f.Width)
	b.WriteString(o.Separators.U)
	pad(b, fa.Len(), f.Width)
	if !f.Expanded {
		return
	}
	for i, bond := range fa.Unsaturated() {
		if i == 0 {
			b.WriteString(o.Separators.I[0])
		} else {
			b.WriteString(o.Separators.I[1])
		}
		marker := o.marker(bond.Isomerism)
		if o.Notation == Prefix {
			b.WriteString(marker)
		}
		if index, ok := bond.Index.Get(); ok {
			pad(b, int(index), f.Width)
		}
		if o.Notation == Suffix {
			b.WriteString(marker)
		}
	}
}

func (o Options) marker(i fattyacid.Isomerism) string {
	if i == fattyacid.Cis && o.Elision == Implicit {
		return ""
	}
	return i.String()
}

func pad(b *strings.Builder, v, width int) {
	s := strconv.Itoa(v)
	for n := len(s); n < width; n++ {
		b.WriteByte('0')
	}
	b.WriteString(s)
}

// Display binds a fatty acid to a notation. It renders compact with %s and
// %v, expanded with the # flag, and takes the minimum width from the verb:
//
//	fmt.Sprintf("%#02s", nomenclature.Common.Display(fa)) // "18:01Δ09"
func (o Options) Display(fa fattyacid.FattyAcid) Display {
	return Display{fattyAcid: fa, options: o}
}

// Display is a fatty acid paired with its notation.
type Display struct {
	fattyAcid fattyacid.FattyAcid
	options   Options
}

func (d Display) String() string {
	return d.options.Render(d.fattyAcid, Format{})
}

func (d Display) Format(s fmt.State, verb rune) {
	switch verb {
	case 's', 'v', 'q':
	default:
		fmt.Fprintf(s, "%%!%c(nomenclature.Display=%s)", verb, d.String())
		return
	}
	f := Format{Expanded: s.Flag('#')}
	if width, ok := s.Width(); ok {
		f.Width = width
	}
	out := d.options.Render(d.fattyAcid, f)
	if verb == 'q' {
		out = strconv.Quote(out)
	}
	fmt.Fprint(s, out)
}
