package engine

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"lipid/internal/fattyacid"
)

// Facts are the per-row quantities filters and weights look at.
type Facts struct {
	Carbons      uint8
	Unsaturation uint8
	Bonds        int
	// Omega is zero when no bond position is known.
	Omega        uint8
	Trans        int
}

// FactsOf derives the facts of fa.
func FactsOf(fa fattyacid.FattyAcid) Facts {
	omega, _ := fa.Omega()
	return Facts{
		Carbons:      fa.Carbons(),
		Unsaturation: fa.Unsaturation(),
		Bonds:        fa.Len(),
		Omega:        omega,
		Trans:        fa.Trans(),
	}
}

// Profile is a fatty acid column paired with a quantity column, typically a
// mass or mole fraction per row. Rows with an absent or malformed fatty acid
// or an absent or infinite quantity are excluded from every aggregate.
//
// A Profile is read-only after NewProfile and safe for concurrent use.
type Profile struct {
	column   *Column
	quantity string
	facts    []Facts
	values   []float64 // zero on excluded rows
	included []bool
	excluded int
	workers  int
}

// NewProfile takes the fatty acid column (WithColumn, default ColumnName)
// and the float64 column called quantity out of rec.
func NewProfile(rec arrow.Record, quantity string, opts ...Option) (*Profile, error) {
	start := time.Now()
	o := newOptions(opts)

	column, err := ColumnOf(rec, o.column)
	if err != nil {
		return nil, err
	}
	arr, err := recordColumn(rec, quantity)
	if err != nil {
		column.Release()
		return nil, err
	}
	values, ok := arr.(*array.Float64)
	if !ok {
		column.Release()
		return nil, fmt.Errorf("%w: column %s has type %s, want float64", ErrSchemaMismatch, quantity, arr.DataType())
	}

	n := column.Len()
	p := &Profile{
		column:   column,
		quantity: quantity,
		facts:    make([]Facts, n),
		values:   make([]float64, n),
		included: make([]bool, n),
		workers:  o.workers,
	}
	for row := 0; row < n; row++ {
		fa, ok, err := column.Get(row)
		switch {
		case err != nil:
			o.logger.Warn("malformed fatty acid excluded", zap.Int("row", row), zap.Error(err))
		case !ok:
			o.logger.Warn("absent fatty acid excluded", zap.Int("row", row))
		case values.IsNull(row) || math.IsNaN(values.Value(row)):
			o.logger.Warn("absent quantity excluded", zap.Int("row", row), zap.String("quantity", quantity))
		case math.IsInf(values.Value(row), 0):
			o.logger.Warn("non-finite quantity excluded",
				zap.Int("row", row),
				zap.String("quantity", quantity),
				zap.Float64("value", values.Value(row)),
			)
		default:
			p.facts[row] = FactsOf(fa)
			p.values[row] = values.Value(row)
			p.included[row] = true
			continue
		}
		p.excluded++
	}

	o.logger.Info("profile ready",
		zap.String("quantity", quantity),
		zap.Int("rows", n),
		zap.Int("excluded", p.excluded),
		zap.Duration("elapsed", time.Since(start)),
	)
	return p, nil
}

// Column returns the underlying fatty acid column.
func (p *Profile) Column() *Column { return p.column }

// Quantity returns the name of the quantity column.
func (p *Profile) Quantity() string { return p.quantity }

// Len returns the number of rows, excluded ones included.
func (p *Profile) Len() int { return len(p.facts) }

// Excluded returns the number of rows left out of every aggregate.
func (p *Profile) Excluded() int { return p.excluded }

// Facts returns the facts of row. ok is false for excluded rows.
func (p *Profile) Facts(row int) (Facts, bool) {
	return p.facts[row], p.included[row]
}

// Value returns the quantity of row. ok is false for excluded rows.
func (p *Profile) Value(row int) (float64, bool) {
	return p.values[row], p.included[row]
}

func (p *Profile) Release() { p.column.Release() }

// Aggregate returns Σ weight(facts)·value over the included rows.
//
// Rows are split into one contiguous partition per worker. Each worker fills
// a weight vector for its partition and reduces it against the values with a
// dot product; the partials are merged in partition order, so the result does
// not depend on scheduling.
func (p *Profile) Aggregate(weight func(Facts) float64) float64 {
	n := len(p.facts)
	if n == 0 {
		return 0
	}
	numWorkers := min(p.workers, n)
	chunkSize := (n + numWorkers - 1) / numWorkers
	partials := make([]float64, numWorkers)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			weights := make([]float64, end-start)
			for j := range weights {
				if p.included[start+j] {
					weights[j] = weight(p.facts[start+j])
				}
			}
			partials[i] = floats.Dot(weights, p.values[start:end])
		}()
	}
	wg.Wait()

	return floats.Sum(partials)
}

// Sum returns the total quantity of the included rows matching filter.
func (p *Profile) Sum(filter func(Facts) bool) float64 {
	return p.Aggregate(func(f Facts) float64 {
		if filter(f) {
			return 1
		}
		return 0
	})
}

// Total returns the total quantity of the included rows.
func (p *Profile) Total() float64 {
	return p.Aggregate(func(Facts) float64 { return 1 })
}
