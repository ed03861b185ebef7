package engine

import (
	"errors"

	"github.com/apache/arrow/go/v18/arrow"
)

// Field names of the fatty acid column.
const (
	ColumnName        = "FattyAcid"
	CarbonsField      = "Carbons"
	UnsaturatedField  = "Unsaturated"
	IndexField        = "Index"
	IsomerismField    = "Isomerism"
	UnsaturationField = "Unsaturation"
)

// ErrSchemaMismatch is returned when an array does not have the fatty acid
// layout.
var ErrSchemaMismatch = errors.New("engine: schema mismatch")

// UnsaturatedType is the struct of three parallel lists, one element per
// bond.
func UnsaturatedType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: IndexField, Type: arrow.ListOf(arrow.PrimitiveTypes.Uint8), Nullable: true},
		arrow.Field{Name: IsomerismField, Type: arrow.ListOf(arrow.PrimitiveTypes.Int8), Nullable: true},
		arrow.Field{Name: UnsaturationField, Type: arrow.ListOf(arrow.PrimitiveTypes.Uint8), Nullable: true},
	)
}

// FattyAcidType is the struct stored in a fatty acid column.
func FattyAcidType() *arrow.StructType {
	return arrow.StructOf(
		arrow.Field{Name: CarbonsField, Type: arrow.PrimitiveTypes.Uint8, Nullable: true},
		arrow.Field{Name: UnsaturatedField, Type: UnsaturatedType(), Nullable: true},
	)
}

// FattyAcidField is the schema field of a fatty acid column.
func FattyAcidField() arrow.Field {
	return arrow.Field{Name: ColumnName, Type: FattyAcidType(), Nullable: true}
}
