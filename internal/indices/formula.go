package indices

import (
	"strings"

	"lipid/internal/engine"
	"lipid/internal/models"
)

// Formula is a named index.
type Formula struct {
	Name        string
	Description string
	Expr        Expr
}

func (f Formula) Eval(a Aggregator) Result { return f.Expr.Eval(a) }

// atherogenic is C12:0 + 4·C14:0 + C16:0.
var atherogenic = Add(Sum(C12U0), Scale(4, Sum(C14U0)), Sum(C16U0))

var (
	// IA = (C12:0 + 4·C14:0 + C16:0) / UFA
	IA = Formula{
		Name:        "IA",
		Description: "Index of atherogenicity",
		Expr:        Ratio(atherogenic, Sum(UFA)),
	}
	// IT = (C14:0 + C16:0 + C18:0) / (0.5·MUFA + 0.5·n-6 + 3·n-3 + n-3/n-6)
	//
	// The n-3/n-6 term is part of the denominator, so IT is undefined on a
	// profile without n-6 acids even when the other terms are positive.
	IT = Formula{
		Name:        "IT",
		Description: "Index of thrombogenicity",
		Expr: Ratio(
			Add(Sum(C14U0), Sum(C16U0), Sum(C18U0)),
			Add(Scale(0.5, Sum(MUFA)), Scale(0.5, Sum(N6)), Scale(3, Sum(N3)), Ratio(Sum(N3), Sum(N6))),
		),
	}
	// HH = (C18:1 + PUFA) / (C12:0 + C14:0 + C16:0)
	HH = Formula{
		Name:        "HH",
		Description: "Hypocholesterolemic/hypercholesterolemic ratio",
		Expr:        Ratio(Add(Sum(C18U1), Sum(PUFA)), Add(Sum(C12U0), Sum(C14U0), Sum(C16U0))),
	}
	// HPI = UFA / (C12:0 + 4·C14:0 + C16:0)
	HPI = Formula{
		Name:        "HPI",
		Description: "Health-promoting index",
		Expr:        Ratio(Sum(UFA), atherogenic),
	}
	// UI = Σ d·(degree d), d = 1..6
	UI = Formula{
		Name:        "UI",
		Description: "Unsaturation index",
		Expr: Weighted(func(x engine.Facts) float64 {
			if x.Unsaturation >= 1 && x.Unsaturation <= 6 {
				return float64(x.Unsaturation)
			}
			return 0
		}),
	}
	// FLQ = (EPA + DHA) / total
	FLQ = Formula{
		Name:        "FLQ",
		Description: "Fish lipid quality",
		Expr:        Ratio(Add(Sum(EPA), Sum(DHA)), Total()),
	}
	// TFA = C18:3
	TFA = Formula{
		Name:        "TFA",
		Description: "Trans fatty acid",
		Expr:        Sum(Exactly(18, 3)),
	}
)

// Formulas lists every index in report order.
var Formulas = []Formula{IA, IT, HH, HPI, UI, FLQ, TFA}

// Lookup finds a formula by name, ignoring case.
func Lookup(name string) (Formula, bool) {
	for _, f := range Formulas {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	return Formula{}, false
}

// Compute evaluates every class sum and every formula over a.
func Compute(a Aggregator) models.Report {
	report := models.Report{
		Classes: make([]models.ClassSum, 0, len(Classes)),
		Indices: make([]models.IndexValue, 0, len(Formulas)),
	}
	report.Total = Total().Eval(a).Ptr()
	if p, ok := a.(*engine.Profile); ok {
		report.Quantity = p.Quantity()
		report.Rows = p.Len()
		report.Excluded = p.Excluded()
	}
	for _, c := range Classes {
		report.Classes = append(report.Classes, models.ClassSum{Name: c.Name, Value: Sum(c.Filter).Eval(a).Ptr()})
	}
	for _, f := range Formulas {
		report.Indices = append(report.Indices, models.IndexValue{
			Name:        f.Name,
			Description: f.Description,
			Value:       f.Eval(a).Ptr(),
		})
	}
	return report
}
