package builder

import (
	"database/sql"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// scanIntoStruct scans the current row into dest, a pointer to struct.
// Columns are matched by name; unknown result columns are discarded.
func scanIntoStruct(rows *sql.Rows, dest any, table *schema.TableMetadata) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	destValue = destValue.Elem()
	if destValue.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to read columns: %w", err)
	}

	scanTargets := make([]any, len(columns))
	for i, name := range columns {
		col := table.GetColumnByName(name)
		if col == nil {
			var dummy any
			scanTargets[i] = &dummy
			continue
		}

		field := destValue.Field(col.Position)
		if !field.CanSet() {
			var dummy any
			scanTargets[i] = &dummy
			continue
		}

		scanTargets[i] = &columnTarget{col: col, field: field}
	}

	if err := rows.Scan(scanTargets...); err != nil {
		return fmt.Errorf("failed to scan row: %w", err)
	}

	return nil
}

// columnTarget is a sql.Scanner that converts a driver value through the
// column's coercion rules before assigning it to the struct field. NULL
// leaves the field at its zero value.
type columnTarget struct {
	col   *schema.ColumnMetadata
	field reflect.Value
}

// Scan implements sql.Scanner.
func (t *columnTarget) Scan(src any) error {
	if src == nil {
		t.field.Set(reflect.Zero(t.field.Type()))
		return nil
	}

	v, err := t.col.Coerce(src)
	if err != nil {
		return fmt.Errorf("column %s: %w", t.col.Name, err)
	}

	if err := assign(t.field, v); err != nil {
		return fmt.Errorf("column %s: %w", t.col.Name, err)
	}
	return nil
}

// assign stores a coerced value into field, allocating pointer fields.
func assign(field reflect.Value, v any) error {
	if field.Kind() == reflect.Ptr {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), v); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	switch x := v.(type) {
	case int64:
		switch field.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.OverflowInt(x) {
				return fmt.Errorf("value %d overflows %s", x, field.Type())
			}
			field.SetInt(x)
			return nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if x < 0 || field.OverflowUint(uint64(x)) {
				return fmt.Errorf("value %d overflows %s", x, field.Type())
			}
			field.SetUint(uint64(x))
			return nil
		}
	case float64:
		if field.Kind() == reflect.Float32 || field.Kind() == reflect.Float64 {
			field.SetFloat(x)
			return nil
		}
	case decimal.Decimal:
		switch {
		case field.Type() == decimalType:
			field.Set(reflect.ValueOf(x))
			return nil
		case field.Kind() == reflect.Float32 || field.Kind() == reflect.Float64:
			field.SetFloat(x.InexactFloat64())
			return nil
		}
	case string:
		if field.Kind() == reflect.String {
			field.SetString(x)
			return nil
		}
	case bool:
		if field.Kind() == reflect.Bool {
			field.SetBool(x)
			return nil
		}
	case time.Time:
		if field.Type() == timeType {
			field.Set(reflect.ValueOf(x))
			return nil
		}
	}

	return fmt.Errorf("cannot assign %T to %s", v, field.Type())
}

// StructValues converts a model into a column → value map. Nil pointers are
// omitted. With insert set, zero auto-increment identifiers and zero fields
// whose column has a default are omitted too, so storage or the default rule
// fills them in.
func StructValues(model any, table *schema.TableMetadata, insert bool) (map[string]any, error) {
	modelValue := reflect.ValueOf(model)
	if modelValue.Kind() == reflect.Ptr {
		if modelValue.IsNil() {
			return nil, fmt.Errorf("model must not be nil")
		}
		modelValue = modelValue.Elem()
	}

	if modelValue.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct")
	}
	if modelValue.Type() != table.GoType {
		return nil, fmt.Errorf("model %s does not map to table %s", modelValue.Type(), table.Name)
	}

	values := make(map[string]any, len(table.Columns))
	for _, col := range table.Columns {
		field := modelValue.Field(col.Position)

		if insert && field.IsZero() && (col.AutoIncrement || col.Default != nil) {
			continue
		}

		if field.Kind() == reflect.Ptr {
			if field.IsNil() {
				continue
			}
			field = field.Elem()
		}

		values[col.Name] = field.Interface()
	}

	return values, nil
}
