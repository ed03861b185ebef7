package indices

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"lipid/internal/engine"
)

// Aggregator evaluates Σ weight(facts)·quantity over a profile.
// *engine.Profile implements it.
type Aggregator interface {
	Aggregate(weight func(engine.Facts) float64) float64
}

// Result is a number or undefined. Undefined marks a zero denominator and
// propagates through every expression built on it.
type Result struct {
	value   float64
	defined bool
}

// Value returns a defined result. NaN and infinities are undefined.
func Value(v float64) Result {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}
	}
	return Result{value: v, defined: true}
}

// Undefined returns the undefined result.
func Undefined() Result { return Result{} }

func (r Result) Defined() bool { return r.defined }

// Float64 returns the value and whether it is defined.
func (r Result) Float64() (float64, bool) { return r.value, r.defined }

// Ptr returns nil when r is undefined.
func (r Result) Ptr() *float64 {
	if !r.defined {
		return nil
	}
	v := r.value
	return &v
}

func (r Result) String() string {
	if !r.defined {
		return "undefined"
	}
	return strconv.FormatFloat(r.value, 'g', -1, 64)
}

// MarshalJSON writes null for an undefined result.
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

// Expr is a composable term over a profile.
type Expr interface {
	Eval(Aggregator) Result
}

type exprFunc func(Aggregator) Result

func (f exprFunc) Eval(a Aggregator) Result { return f(a) }

// Sum is the total quantity of the rows matching f.
func Sum(f Filter) Expr {
	return Weighted(func(x engine.Facts) float64 {
		if f(x) {
			return 1
		}
		return 0
	})
}

// Total is the total quantity of the profile.
func Total() Expr {
	return Weighted(func(engine.Facts) float64 { return 1 })
}

// Weighted is Σ weight(facts)·quantity.
func Weighted(weight func(engine.Facts) float64) Expr {
	return exprFunc(func(a Aggregator) Result {
		return Value(a.Aggregate(weight))
	})
}

// Const is v regardless of the profile.
func Const(v float64) Expr {
	return exprFunc(func(Aggregator) Result { return Value(v) })
}

// Add sums terms. It is undefined if any term is.
func Add(terms ...Expr) Expr {
	return exprFunc(func(a Aggregator) Result {
		var sum float64
		for _, t := range terms {
			v, ok := t.Eval(a).Float64()
			if !ok {
				return Undefined()
			}
			sum += v
		}
		return Value(sum)
	})
}

// Scale multiplies e by k.
func Scale(k float64, e Expr) Expr {
	return exprFunc(func(a Aggregator) Result {
		v, ok := e.Eval(a).Float64()
		if !ok {
			return Undefined()
		}
		return Value(k * v)
	})
}

// Ratio divides num by den. It is undefined when den is zero.
func Ratio(num, den Expr) Expr {
	return exprFunc(func(a Aggregator) Result {
		d, ok := den.Eval(a).Float64()
		if !ok || d == 0 {
			return Undefined()
		}
		n, ok := num.Eval(a).Float64()
		if !ok {
			return Undefined()
		}
		return Value(n / d)
	})
}
