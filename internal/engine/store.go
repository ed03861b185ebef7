package engine

import (
	"fmt"
	"slices"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"lipid/internal/fattyacid"
)

// Column reads fatty acids out of an Arrow struct array. The child arrays
// are resolved once; every accessor afterwards is a flat array lookup.
//
// A Column is read-only and safe for concurrent readers.
type Column struct {
	array        *array.Struct
	carbons      *array.Uint8
	unsaturated  *array.Struct
	index        *array.List
	isomerism    *array.List
	unsaturation *array.List

	// List values (flat, addressed through the list offsets)
	indexValues        *array.Uint8
	isomerismValues    *array.Int8
	unsaturationValues *array.Uint8
}

// NewColumn checks arr against FattyAcidType and wraps it. The three bond
// lists of every row must have the same length; a null list counts as
// empty.
func NewColumn(arr arrow.Array) (*Column, error) {
	s, ok := arr.(*array.Struct)
	if !ok {
		return nil, fmt.Errorf("%w: %s has type %s, want struct", ErrSchemaMismatch, ColumnName, arr.DataType())
	}
	c := &Column{array: s}

	var err error
	if c.carbons, err = fieldAs[*array.Uint8](s, CarbonsField); err != nil {
		return nil, err
	}
	if c.unsaturated, err = fieldAs[*array.Struct](s, UnsaturatedField); err != nil {
		return nil, err
	}
	if c.index, c.indexValues, err = listOf[*array.Uint8](c.unsaturated, IndexField); err != nil {
		return nil, err
	}
	if c.isomerism, c.isomerismValues, err = listOf[*array.Int8](c.unsaturated, IsomerismField); err != nil {
		return nil, err
	}
	if c.unsaturation, c.unsaturationValues, err = listOf[*array.Uint8](c.unsaturated, UnsaturationField); err != nil {
		return nil, err
	}

	for row := 0; row < s.Len(); row++ {
		n := listLen(c.index, row)
		if listLen(c.isomerism, row) != n || listLen(c.unsaturation, row) != n {
			return nil, fmt.Errorf("%w: row %d: %s lists differ in length", ErrSchemaMismatch, row, UnsaturatedField)
		}
	}

	s.Retain()
	return c, nil
}

// ColumnOf finds the column called name in rec and wraps it.
func ColumnOf(rec arrow.Record, name string) (*Column, error) {
	arr, err := recordColumn(rec, name)
	if err != nil {
		return nil, err
	}
	return NewColumn(arr)
}

func recordColumn(rec arrow.Record, name string) (arrow.Array, error) {
	idx := rec.Schema().FieldIndices(name)
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: missing column %s", ErrSchemaMismatch, name)
	}
	return rec.Column(idx[0]), nil
}

func field(s *array.Struct, name string) (arrow.Array, error) {
	i, ok := s.DataType().(*arrow.StructType).FieldIdx(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing field %s", ErrSchemaMismatch, name)
	}
	return s.Field(i), nil
}

func fieldAs[T arrow.Array](s *array.Struct, name string) (T, error) {
	var zero T
	a, err := field(s, name)
	if err != nil {
		return zero, err
	}
	v, ok := a.(T)
	if !ok {
		return zero, fmt.Errorf("%w: field %s has type %s", ErrSchemaMismatch, name, a.DataType())
	}
	return v, nil
}

func listOf[T arrow.Array](s *array.Struct, name string) (*array.List, T, error) {
	var zero T
	l, err := fieldAs[*array.List](s, name)
	if err != nil {
		return nil, zero, err
	}
	v, ok := l.ListValues().(T)
	if !ok {
		return nil, zero, fmt.Errorf("%w: field %s has type %s", ErrSchemaMismatch, name, l.DataType())
	}
	return l, v, nil
}

func listLen(l *array.List, row int) int {
	if l.IsNull(row) {
		return 0
	}
	start, end := l.ValueOffsets(row)
	return int(end - start)
}

// Len returns the number of rows.
func (c *Column) Len() int { return c.array.Len() }

// Release drops the reference taken by NewColumn.
func (c *Column) Release() { c.array.Release() }

// Get materializes the fatty acid at row. ok is false when the row or its
// carbon count is null. A row whose bonds break the structural rules
// returns the validation error.
func (c *Column) Get(row int) (fa fattyacid.FattyAcid, ok bool, err error) {
	if c.array.IsNull(row) || c.carbons.IsNull(row) {
		return fattyacid.FattyAcid{}, false, nil
	}
	bonds, _ := c.Bonds(row)
	fa, err = fattyacid.Build(c.carbons.Value(row), bonds...)
	if err != nil {
		return fattyacid.FattyAcid{}, false, fmt.Errorf("engine: row %d: %w", row, err)
	}
	return fa, true, nil
}

// Bonds materializes the bonds at row in canonical order. Null elements
// become unknown fields. ok is false when the row has no bond struct.
func (c *Column) Bonds(row int) ([]fattyacid.Unsaturated, bool) {
	if c.array.IsNull(row) || c.unsaturated.IsNull(row) {
		return nil, false
	}
	bonds := make([]fattyacid.Unsaturated, listLen(c.index, row))
	for i := range bonds {
		bonds[i] = fattyacid.Unsaturated{
			Index:        c.indexAt(row, i),
			Isomerism:    c.isomerismAt(row, i),
			Unsaturation: c.unsaturationAt(row, i),
		}
	}
	slices.SortStableFunc(bonds, fattyacid.Compare)
	return bonds, true
}

func (c *Column) indexAt(row, i int) fattyacid.Index {
	if c.index.IsNull(row) {
		return fattyacid.Index{}
	}
	start, _ := c.index.ValueOffsets(row)
	j := int(start) + i
	if c.indexValues.IsNull(j) {
		return fattyacid.Index{}
	}
	return fattyacid.At(c.indexValues.Value(j))
}

func (c *Column) isomerismAt(row, i int) fattyacid.Isomerism {
	if c.isomerism.IsNull(row) {
		return 0
	}
	start, _ := c.isomerism.ValueOffsets(row)
	j := int(start) + i
	if c.isomerismValues.IsNull(j) {
		return 0
	}
	return fattyacid.IsomerismOf(c.isomerismValues.Value(j))
}

func (c *Column) unsaturationAt(row, i int) fattyacid.Unsaturation {
	if c.unsaturation.IsNull(row) {
		return 0
	}
	start, _ := c.unsaturation.ValueOffsets(row)
	j := int(start) + i
	if c.unsaturationValues.IsNull(j) {
		return 0
	}
	return fattyacid.Unsaturation(c.unsaturationValues.Value(j))
}

// Derive maps fn over the column. Absent and malformed rows are null.
func (c *Column) Derive(mem memory.Allocator, fn func(fattyacid.FattyAcid) float64) *array.Float64 {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Reserve(c.Len())
	for row := 0; row < c.Len(); row++ {
		fa, ok, err := c.Get(row)
		if !ok || err != nil {
			b.AppendNull()
			continue
		}
		b.Append(fn(fa))
	}
	return b.NewFloat64Array()
}

// Names maps fn over the column, usually a nomenclature renderer. Absent
// and malformed rows are null.
func (c *Column) Names(mem memory.Allocator, fn func(fattyacid.FattyAcid) string) *array.String {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Reserve(c.Len())
	for row := 0; row < c.Len(); row++ {
		fa, ok, err := c.Get(row)
		if !ok || err != nil {
			b.AppendNull()
			continue
		}
		b.Append(fn(fa))
	}
	return b.NewStringArray()
}
