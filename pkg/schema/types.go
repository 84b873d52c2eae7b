package schema

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// TypeMapper handles mapping between Go types and semantic column types.
type TypeMapper struct {
	customMappings map[reflect.Type]Type
}

// NewTypeMapper creates a new TypeMapper instance.
func NewTypeMapper() *TypeMapper {
	return &TypeMapper{
		customMappings: make(map[reflect.Type]Type),
	}
}

// RegisterType registers a custom type mapping.
func (tm *TypeMapper) RegisterType(goType reflect.Type, typ Type) {
	tm.customMappings[goType] = typ
}

// GoTypeToSemantic maps a Go type to its default column type.
// Returns empty string if the type must be declared in the tag.
func (tm *TypeMapper) GoTypeToSemantic(t reflect.Type) Type {
	// Check custom mappings first
	if typ, ok := tm.customMappings[t]; ok {
		return typ
	}

	// Handle pointer types
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	// Handle special types
	switch t {
	case timeType:
		return Timestamp
	case decimalType:
		return Numeric
	}

	// Standard type mappings
	switch t.Kind() {
	case reflect.Bool:
		return Boolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return Integer
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.String:
		return Text
	}

	// Default for unknown types
	return ""
}

// Compatible reports whether a field of Go type t can hold values of typ.
func (tm *TypeMapper) Compatible(typ Type, t reflect.Type) bool {
	if mapped, ok := tm.customMappings[t]; ok {
		return mapped == typ
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch typ {
	case Integer:
		return isIntKind(t.Kind())
	case Float:
		return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	case Numeric:
		return t == decimalType || t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
	case Text, Varchar, Enum:
		return t.Kind() == reflect.String
	case Boolean:
		return t.Kind() == reflect.Bool
	case Timestamp, Date:
		return t == timeType
	}
	return false
}

// IsNullable checks if a Go type can represent NULL.
func IsNullable(t reflect.Type) bool {
	return t.Kind() == reflect.Ptr
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// DefaultTypeMapper is the global type mapper instance.
var DefaultTypeMapper = NewTypeMapper()
