package engine

import (
	"math"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"lipid/internal/fattyacid"
)

// profileRecord pairs acids with values. A nil value is a null quantity.
func profileRecord(t *testing.T, acids []*fattyacid.FattyAcid, values []*float64) arrow.Record {
	t.Helper()
	mem := memory.NewGoAllocator()

	fb := NewColumnBuilder(mem)
	defer fb.Release()
	for _, fa := range acids {
		if fa == nil {
			fb.AppendNull()
			continue
		}
		fb.Append(*fa)
	}
	vb := array.NewFloat64Builder(mem)
	defer vb.Release()
	for _, v := range values {
		if v == nil {
			vb.AppendNull()
			continue
		}
		vb.Append(*v)
	}

	fa := fb.NewArray()
	defer fa.Release()
	q := vb.NewFloat64Array()
	defer q.Release()

	schema := arrow.NewSchema([]arrow.Field{
		FattyAcidField(),
		{Name: "Mean", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
	return array.NewRecord(schema, []arrow.Array{fa, q}, int64(len(acids)))
}

func ptr[T any](v T) *T { return &v }

func TestProfile_Aggregate(t *testing.T) {
	// 1. Setup
	// Row 0: C12:0  10
	// Row 1: C18:1   5
	lauric := fattyacid.Must(12)
	oleic := fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis))
	rec := profileRecord(t, []*fattyacid.FattyAcid{&lauric, &oleic}, []*float64{ptr(10.0), ptr(5.0)})
	defer rec.Release()

	p, err := NewProfile(rec, "Mean", WithWorkers(2))
	require.NoError(t, err)
	defer p.Release()

	// 2. Assertions
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 0, p.Excluded())
	assert.Equal(t, 15.0, p.Total())
	assert.Equal(t, 10.0, p.Sum(func(f Facts) bool { return f.Unsaturation == 0 }))
	assert.Equal(t, 5.0, p.Sum(func(f Facts) bool { return f.Unsaturation == 1 }))
	assert.Equal(t, 0.0, p.Sum(func(f Facts) bool { return f.Unsaturation > 1 }))
	assert.Equal(t, 5.0, p.Aggregate(func(f Facts) float64 { return float64(f.Unsaturation) }))

	facts, ok := p.Facts(1)
	require.True(t, ok)
	assert.Equal(t, Facts{Carbons: 18, Unsaturation: 1, Bonds: 1, Omega: 9}, facts)
}

func TestProfile_ExcludesRows(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	stearic := fattyacid.Must(18)
	acids := []*fattyacid.FattyAcid{&stearic, nil, &stearic}
	values := []*float64{ptr(4.0), ptr(100.0), nil}
	rec := profileRecord(t, acids, values)
	defer rec.Release()

	p, err := NewProfile(rec, "Mean", WithLogger(zap.New(core)))
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 2, p.Excluded())
	assert.Equal(t, 4.0, p.Total())
	_, ok := p.Facts(1)
	assert.False(t, ok)
	_, ok = p.Value(2)
	assert.False(t, ok)
	assert.Equal(t, 2, logs.Len())
}

func TestProfile_ExcludesNonFinite(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	lauric := fattyacid.Must(12)
	oleic := fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis))
	palmitic := fattyacid.Must(16)
	acids := []*fattyacid.FattyAcid{&lauric, &oleic, &palmitic, &palmitic, &palmitic}
	values := []*float64{ptr(10.0), ptr(5.0), ptr(math.Inf(1)), ptr(math.Inf(-1)), ptr(math.NaN())}
	rec := profileRecord(t, acids, values)
	defer rec.Release()

	p, err := NewProfile(rec, "Mean", WithLogger(zap.New(core)), WithWorkers(2))
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, 3, p.Excluded())
	assert.Equal(t, 15.0, p.Total())
	assert.Equal(t, 10.0, p.Sum(func(f Facts) bool { return f.Unsaturation == 0 }))
	assert.Equal(t, 2, logs.FilterMessage("non-finite quantity excluded").Len())
	assert.Equal(t, 1, logs.FilterMessage("absent quantity excluded").Len())
}

func TestProfile_MalformedRowExcluded(t *testing.T) {
	mem := memory.NewGoAllocator()
	fb := NewColumnBuilder(mem)
	defer fb.Release()
	fb.Append(fattyacid.Must(16))
	fb.appendRow(row{carbons: 18, hasCarbons: true, bonds: []bond{{index: 20, known: knownIndex}}})
	vb := array.NewFloat64Builder(mem)
	defer vb.Release()
	vb.AppendValues([]float64{1, 2}, nil)

	fa, q := fb.NewArray(), vb.NewFloat64Array()
	defer fa.Release()
	defer q.Release()
	schema := arrow.NewSchema([]arrow.Field{FattyAcidField(), {Name: "Mean", Type: arrow.PrimitiveTypes.Float64, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{fa, q}, 2)
	defer rec.Release()

	p, err := NewProfile(rec, "Mean")
	require.NoError(t, err)
	defer p.Release()
	assert.Equal(t, 1, p.Excluded())
	assert.Equal(t, 1.0, p.Total())
}

func TestProfile_WorkersAgree(t *testing.T) {
	var acids []*fattyacid.FattyAcid
	var values []*float64
	for i := 0; i < 1000; i++ {
		fa := fattyacid.Must(uint8(12 + i%10))
		if i%3 == 0 {
			fa = fattyacid.Must(18, fattyacid.Double(9, fattyacid.Cis), fattyacid.Double(12, fattyacid.Cis))
		}
		acids = append(acids, &fa)
		values = append(values, ptr(float64(i%17)+0.25))
	}
	rec := profileRecord(t, acids, values)
	defer rec.Release()

	weight := func(f Facts) float64 { return float64(f.Carbons) }
	one, err := NewProfile(rec, "Mean", WithWorkers(1))
	require.NoError(t, err)
	defer one.Release()
	want := one.Aggregate(weight)

	for _, workers := range []int{2, 8, 2000} {
		p, err := NewProfile(rec, "Mean", WithWorkers(workers))
		require.NoError(t, err)
		assert.InDelta(t, want, p.Aggregate(weight), 1e-6, "workers %d", workers)
		assert.Equal(t, p.Aggregate(weight), p.Aggregate(weight), "repeatable, workers %d", workers)
		p.Release()
	}
}

func TestNewProfile_SchemaMismatch(t *testing.T) {
	stearic := fattyacid.Must(18)
	rec := profileRecord(t, []*fattyacid.FattyAcid{&stearic}, []*float64{ptr(1.0)})
	defer rec.Release()

	_, err := NewProfile(rec, "Missing")
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewProfile(rec, ColumnName)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	_, err = NewProfile(rec, "Mean", WithColumn("Other"))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
