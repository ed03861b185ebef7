package engine

import (
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"lipid/internal/fattyacid"
)

// bond and row are the raw, unvalidated form of a fatty acid as the loader
// reads it. Validation happens on Get.
type bond struct {
	index        uint8
	isomerism    int8
	unsaturation uint8
	known        uint8
}

const (
	knownIndex uint8 = 1 << iota
	knownIsomerism
	knownUnsaturation
)

type row struct {
	carbons    uint8
	hasCarbons bool
	bonds      []bond
}

// ColumnBuilder writes fatty acids into a struct array of FattyAcidType.
// Reading the array back with NewColumn yields equal fatty acids.
type ColumnBuilder struct {
	builder      *array.StructBuilder
	carbons      *array.Uint8Builder
	unsaturated  *array.StructBuilder
	index        *array.ListBuilder
	isomerism    *array.ListBuilder
	unsaturation *array.ListBuilder

	indexValues        *array.Uint8Builder
	isomerismValues    *array.Int8Builder
	unsaturationValues *array.Uint8Builder
}

func NewColumnBuilder(mem memory.Allocator) *ColumnBuilder {
	b := array.NewStructBuilder(mem, FattyAcidType())
	unsaturated := b.FieldBuilder(1).(*array.StructBuilder)
	index := unsaturated.FieldBuilder(0).(*array.ListBuilder)
	isomerism := unsaturated.FieldBuilder(1).(*array.ListBuilder)
	unsaturation := unsaturated.FieldBuilder(2).(*array.ListBuilder)
	return &ColumnBuilder{
		builder:            b,
		carbons:            b.FieldBuilder(0).(*array.Uint8Builder),
		unsaturated:        unsaturated,
		index:              index,
		isomerism:          isomerism,
		unsaturation:       unsaturation,
		indexValues:        index.ValueBuilder().(*array.Uint8Builder),
		isomerismValues:    isomerism.ValueBuilder().(*array.Int8Builder),
		unsaturationValues: unsaturation.ValueBuilder().(*array.Uint8Builder),
	}
}

// Append writes fa. Unknown bond fields become null elements.
func (b *ColumnBuilder) Append(fa fattyacid.FattyAcid) {
	r := row{carbons: fa.Carbons(), hasCarbons: true}
	for _, u := range fa.Unsaturated() {
		var raw bond
		if index, ok := u.Index.Get(); ok {
			raw.index = index
			raw.known |= knownIndex
		}
		if u.Isomerism.Known() {
			raw.isomerism = int8(u.Isomerism)
			raw.known |= knownIsomerism
		}
		if u.Unsaturation != 0 {
			raw.unsaturation = uint8(u.Unsaturation)
			raw.known |= knownUnsaturation
		}
		r.bonds = append(r.bonds, raw)
	}
	b.appendRow(r)
}

// AppendNull writes a row with a null carbon count and no bonds.
func (b *ColumnBuilder) AppendNull() {
	b.appendRow(row{})
}

func (b *ColumnBuilder) appendRow(r row) {
	b.builder.Append(true)
	if r.hasCarbons {
		b.carbons.Append(r.carbons)
	} else {
		b.carbons.AppendNull()
	}
	b.unsaturated.Append(true)
	b.index.Append(true)
	b.isomerism.Append(true)
	b.unsaturation.Append(true)
	for _, raw := range r.bonds {
		if raw.known&knownIndex != 0 {
			b.indexValues.Append(raw.index)
		} else {
			b.indexValues.AppendNull()
		}
		if raw.known&knownIsomerism != 0 {
			b.isomerismValues.Append(raw.isomerism)
		} else {
			b.isomerismValues.AppendNull()
		}
		if raw.known&knownUnsaturation != 0 {
			b.unsaturationValues.Append(raw.unsaturation)
		} else {
			b.unsaturationValues.AppendNull()
		}
	}
}

// NewArray returns the rows written so far and resets the builder.
func (b *ColumnBuilder) NewArray() *array.Struct {
	return b.builder.NewStructArray()
}

func (b *ColumnBuilder) Release() { b.builder.Release() }
