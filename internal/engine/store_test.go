package engine

import (
	"fmt"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipid/internal/fattyacid"
)

func sampleAcids() []fattyacid.FattyAcid {
	return []fattyacid.FattyAcid{
		fattyacid.Must(12),
		fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis)),
		fattyacid.Must(18, fattyacid.Double(9, fattyacid.Trans), fattyacid.Double(12, fattyacid.Cis)),
		fattyacid.Must(18, fattyacid.Unsaturated{Isomerism: fattyacid.Cis}, fattyacid.Triple(9, 0)),
		fattyacid.Must(22,
			fattyacid.Double(4, fattyacid.Cis), fattyacid.Double(7, fattyacid.Cis), fattyacid.Double(10, fattyacid.Cis),
			fattyacid.Double(13, fattyacid.Cis), fattyacid.Double(16, fattyacid.Cis), fattyacid.Double(19, fattyacid.Cis),
		),
	}
}

func TestColumnBuilder_RoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	acids := sampleAcids()
	b := NewColumnBuilder(mem)
	for _, fa := range acids {
		b.Append(fa)
	}
	b.AppendNull()
	arr := b.NewArray()
	b.Release()

	col, err := NewColumn(arr)
	require.NoError(t, err)
	arr.Release()
	defer col.Release()

	require.Equal(t, len(acids)+1, col.Len())
	for i, want := range acids {
		got, ok, err := col.Get(i)
		require.NoError(t, err)
		require.True(t, ok, "row %d", i)
		assert.True(t, want.Equal(got), "row %d: got %v", i, got)

		bonds, ok := col.Bonds(i)
		assert.True(t, ok)
		assert.Equal(t, want.Unsaturated(), bonds)
	}

	_, ok, err := col.Get(len(acids))
	assert.NoError(t, err)
	assert.False(t, ok, "null carbons must be absent")
}

func TestColumn_Derive(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := NewColumnBuilder(mem)
	defer b.Release()
	b.Append(fattyacid.Must(16))
	b.AppendNull()
	b.Append(fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis)))
	arr := b.NewArray()
	defer arr.Release()

	col, err := NewColumn(arr)
	require.NoError(t, err)
	defer col.Release()

	masses := col.Derive(mem, fattyacid.FattyAcid.Mass)
	defer masses.Release()
	require.Equal(t, 3, masses.Len())
	assert.InDelta(t, fattyacid.Must(16).Mass(), masses.Value(0), 1e-9)
	assert.True(t, masses.IsNull(1))
	assert.InDelta(t, fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis)).Mass(), masses.Value(2), 1e-9)

	names := col.Names(mem, func(fa fattyacid.FattyAcid) string {
		return fmt.Sprintf("%d:%d", fa.Carbons(), fa.Unsaturation())
	})
	defer names.Release()
	assert.Equal(t, "16:0", names.Value(0))
	assert.True(t, names.IsNull(1))
	assert.Equal(t, "18:1", names.Value(2))
}

func TestColumn_InvalidRowReportsError(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := NewColumnBuilder(mem)
	defer b.Release()
	b.appendRow(row{carbons: 18, hasCarbons: true, bonds: []bond{{index: 18, known: knownIndex}}})
	b.appendRow(row{carbons: 18, hasCarbons: true, bonds: []bond{{index: 0, known: knownIndex}}})
	arr := b.NewArray()
	defer arr.Release()

	col, err := NewColumn(arr)
	require.NoError(t, err)
	defer col.Release()

	for row := 0; row < col.Len(); row++ {
		_, ok, err := col.Get(row)
		assert.False(t, ok)
		assert.ErrorIs(t, err, fattyacid.ErrInvalidIndex)
	}
}

func TestNewColumn_SchemaMismatch(t *testing.T) {
	mem := memory.NewGoAllocator()

	t.Run("not_a_struct", func(t *testing.T) {
		fb := array.NewFloat64Builder(mem)
		defer fb.Release()
		fb.Append(1)
		arr := fb.NewFloat64Array()
		defer arr.Release()
		_, err := NewColumn(arr)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("missing_field", func(t *testing.T) {
		dt := arrow.StructOf(arrow.Field{Name: CarbonsField, Type: arrow.PrimitiveTypes.Uint8, Nullable: true})
		sb := array.NewStructBuilder(mem, dt)
		defer sb.Release()
		sb.Append(true)
		sb.FieldBuilder(0).(*array.Uint8Builder).Append(18)
		arr := sb.NewStructArray()
		defer arr.Release()
		_, err := NewColumn(arr)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.ErrorContains(t, err, UnsaturatedField)
	})

	t.Run("wrong_carbons_type", func(t *testing.T) {
		dt := arrow.StructOf(
			arrow.Field{Name: CarbonsField, Type: arrow.PrimitiveTypes.Int32, Nullable: true},
			arrow.Field{Name: UnsaturatedField, Type: UnsaturatedType(), Nullable: true},
		)
		sb := array.NewStructBuilder(mem, dt)
		defer sb.Release()
		arr := sb.NewStructArray()
		defer arr.Release()
		_, err := NewColumn(arr)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.ErrorContains(t, err, CarbonsField)
	})

	t.Run("list_lengths_differ", func(t *testing.T) {
		b := NewColumnBuilder(mem)
		defer b.Release()
		b.builder.Append(true)
		b.carbons.Append(18)
		b.unsaturated.Append(true)
		b.index.Append(true)
		b.indexValues.Append(9)
		b.indexValues.Append(12)
		b.isomerism.Append(true)
		b.isomerismValues.Append(1)
		b.unsaturation.Append(true)
		b.unsaturationValues.Append(1)
		b.unsaturationValues.Append(1)
		arr := b.NewArray()
		defer arr.Release()
		_, err := NewColumn(arr)
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	})
}

func TestColumnOf(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := NewColumnBuilder(mem)
	defer b.Release()
	b.Append(fattyacid.Must(18))
	arr := b.NewArray()
	defer arr.Release()

	rec := array.NewRecord(arrow.NewSchema([]arrow.Field{FattyAcidField()}, nil), []arrow.Array{arr}, 1)
	defer rec.Release()

	col, err := ColumnOf(rec, ColumnName)
	require.NoError(t, err)
	defer col.Release()
	assert.Equal(t, 1, col.Len())

	_, err = ColumnOf(rec, "Missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
