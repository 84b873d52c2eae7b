package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

// timeLayouts are the textual forms accepted for timestamp and date values.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ValidateDefaultValue checks that a column's default rule can produce a
// valid value for the column.
func ValidateDefaultValue(col *ColumnMetadata) error {
	def := col.Default
	if def == nil {
		return nil
	}

	if def.Now {
		if !col.Type.IsTemporal() {
			return fmt.Errorf("default(now) requires a timestamp or date column, got %s", col.Type)
		}
		return nil
	}

	upperVal := strings.ToUpper(strings.TrimSpace(def.Literal))
	if col.Type.IsTemporal() && strings.Contains(upperVal, "CURRENT") {
		return fmt.Errorf("invalid default value %q\nFix: use default(now)", def.Literal)
	}

	v, err := col.Coerce(def.Literal)
	if err != nil {
		return fmt.Errorf("invalid default value %q for %s", def.Literal, col.SQLType())
	}
	if err := col.Validate(v); err != nil {
		return fmt.Errorf("invalid default value %q: %s", def.Literal, violationMessage(err))
	}
	return nil
}

// Coerce converts v to the canonical Go representation for the column:
// int64, float64, decimal.Decimal, string, bool or time.Time (UTC). nil stays
// nil. Values that cannot be converted fail with a type_mismatch
// *runtime.ConstraintViolation.
func (c *ColumnMetadata) Coerce(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	v = rv.Interface()
	if b, ok := v.([]byte); ok {
		v = string(b)
	}

	var (
		out any
		ok  bool
	)
	switch c.Type {
	case Integer:
		out, ok = toInt64(v)
	case Float:
		out, ok = toFloat64(v)
	case Numeric:
		out, ok = c.toDecimal(v)
	case Text, Varchar, Enum:
		out, ok = toString(v)
	case Boolean:
		out, ok = toBool(v)
	case Timestamp:
		var t time.Time
		if t, ok = toTime(v); ok {
			out = t.UTC()
		}
	case Date:
		var t time.Time
		if t, ok = toTime(v); ok {
			out = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	if !ok {
		return nil, c.violation(runtime.TypeMismatch, fmt.Sprintf("cannot use %v (%T) as %s", v, v, c.SQLType()))
	}
	return out, nil
}

// Validate checks a coerced value against the column's domain: enumeration
// membership and varchar length. nil is always accepted here; nullability is
// checked by the caller once defaults have been applied.
func (c *ColumnMetadata) Validate(v any) error {
	s, isString := v.(string)
	if !isString {
		return nil
	}

	switch c.Type {
	case Enum:
		for _, allowed := range c.EnumValues {
			if s == allowed {
				return nil
			}
		}
		return c.violation(runtime.EnumDomain,
			fmt.Sprintf("%q is not one of [%s]", s, strings.Join(c.EnumValues, ", ")))
	case Varchar:
		if n := utf8.RuneCountInString(s); n > c.Length {
			return c.violation(runtime.TypeMismatch,
				fmt.Sprintf("value of length %d exceeds %s", n, c.SQLType()))
		}
	}
	return nil
}

func (c *ColumnMetadata) violation(kind runtime.ViolationKind, msg string) *runtime.ConstraintViolation {
	return &runtime.ConstraintViolation{
		Kind:    kind,
		Column:  c.Name,
		Row:     -1,
		Message: msg,
	}
}

func violationMessage(err error) string {
	if cv, ok := err.(*runtime.ConstraintViolation); ok {
		return cv.Message
	}
	return err.Error()
}

func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	}

	switch x := v.(type) {
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	case decimal.Decimal:
		if !x.IsInteger() {
			return 0, false
		}
		return x.IntPart(), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}

	switch x := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	case decimal.Decimal:
		return x.InexactFloat64(), true
	}
	return 0, false
}

func (c *ColumnMetadata) toDecimal(v any) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch x := v.(type) {
	case decimal.Decimal:
		d = x
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = parsed
	case float32:
		d = decimal.NewFromFloat32(x)
	case float64:
		d = decimal.NewFromFloat(x)
	default:
		n, ok := toInt64(v)
		if !ok {
			return decimal.Decimal{}, false
		}
		d = decimal.NewFromInt(n)
	}

	d = d.Round(int32(c.Scale))
	if c.Precision > 0 {
		whole := d.Abs().Truncate(0)
		digits := 0
		if !whole.IsZero() {
			digits = len(whole.String())
		}
		if digits > c.Precision-c.Scale {
			return decimal.Decimal{}, false
		}
	}
	return d, true
}

func toString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case fmt.Stringer:
		if _, isTime := v.(time.Time); isTime {
			return "", false
		}
		return x.String(), true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	if n, ok := toInt64(v); ok && (n == 0 || n == 1) {
		return n == 1, true
	}
	return false, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
