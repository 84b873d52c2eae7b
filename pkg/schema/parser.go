package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
)

const (
	// StructTagKey is the key used in struct tags (e.g., `po:"..."`).
	StructTagKey = "po"
)

// TableNamer lets a model choose its table name. Models without it map to
// the snake_case form of the struct name.
type TableNamer interface {
	TableName() string
}

// knownOptions lists every tag option the parser accepts.
var knownOptions = map[string]bool{
	"primaryKey":    true,
	"autoIncrement": true,
	"notNull":       true,
	"unique":        true,
	"enum":          true,
	"fk":            true,
	"onDelete":      true,
	"default":       true,
	"onUpdate":      true,
	"integer":       true,
	"text":          true,
	"varchar":       true,
	"numeric":       true,
	"float":         true,
	"boolean":       true,
	"timestamp":     true,
	"date":          true,
}

// Parser parses struct definitions to extract table metadata.
type Parser struct {
	typeMapper *TypeMapper
	mu         sync.Mutex
	cache      map[reflect.Type]*TableMetadata
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		typeMapper: DefaultTypeMapper,
		cache:      make(map[reflect.Type]*TableMetadata),
	}
}

// Parse extracts TableMetadata from a Go struct type. Malformed declarations
// fail with *runtime.SchemaError.
func (p *Parser) Parse(modelType reflect.Type) (*TableMetadata, error) {
	// Dereference pointer types
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, &runtime.SchemaError{
			Message: fmt.Sprintf("model must be a struct, got %s", modelType.Kind()),
			Err:     runtime.ErrInvalidModel,
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Check cache
	if cached, ok := p.cache[modelType]; ok {
		return cached, nil
	}

	table := &TableMetadata{
		Name:        extractTableName(modelType),
		GoType:      modelType,
		Columns:     make([]ColumnMetadata, 0, modelType.NumField()),
		ForeignKeys: make([]ForeignKeyMetadata, 0),
	}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagValue := field.Tag.Get(StructTagKey)
		if tagValue == "" || tagValue == "-" {
			continue
		}

		tagOpts, err := parseTag(tagValue)
		if err != nil {
			return nil, &runtime.SchemaError{Table: table.Name, Message: fmt.Sprintf("field %s", field.Name), Err: err}
		}

		column, err := p.createColumnMetadata(field, tagOpts, i)
		if err != nil {
			return nil, &runtime.SchemaError{Table: table.Name, Column: tagOpts.Name, Message: err.Error()}
		}

		if table.GetColumnByName(column.Name) != nil {
			return nil, &runtime.SchemaError{Table: table.Name, Column: column.Name, Message: "column declared twice"}
		}

		if column.PrimaryKey {
			if table.PrimaryKey != nil {
				return nil, &runtime.SchemaError{
					Table:   table.Name,
					Column:  column.Name,
					Message: "only a single-column identifier is supported",
				}
			}
			table.PrimaryKey = &PrimaryKeyMetadata{
				Columns: []string{column.Name},
				Name:    table.Name + "_pkey",
			}
		}

		if fk, ok, err := parseForeignKey(table.Name, column, tagOpts); err != nil {
			return nil, &runtime.SchemaError{Table: table.Name, Column: column.Name, Message: err.Error()}
		} else if ok {
			table.ForeignKeys = append(table.ForeignKeys, fk)
		}

		table.Columns = append(table.Columns, column)
	}

	if len(table.Columns) == 0 {
		return nil, &runtime.SchemaError{Table: table.Name, Message: "no tagged columns", Err: runtime.ErrInvalidModel}
	}
	if table.PrimaryKey == nil {
		return nil, &runtime.SchemaError{Table: table.Name, Message: "missing identifier column", Err: runtime.ErrNoPrimaryKey}
	}

	p.cache[modelType] = table
	return table, nil
}

// extractTableName returns the name from a TableName method when the model
// has one, otherwise the struct name converted to snake_case.
func extractTableName(modelType reflect.Type) string {
	if namer, ok := reflect.New(modelType).Interface().(TableNamer); ok {
		if name := namer.TableName(); name != "" {
			return name
		}
	}
	return toSnakeCase(modelType.Name())
}

// createColumnMetadata creates a ColumnMetadata from a struct field.
func (p *Parser) createColumnMetadata(field reflect.StructField, opts *TagOptions, position int) (ColumnMetadata, error) {
	column := ColumnMetadata{
		Name:     opts.Name,
		GoField:  field.Name,
		GoType:   field.Type,
		Position: position,
	}
	if column.Name == "" {
		return column, fmt.Errorf("field %s: missing column name", field.Name)
	}

	for key := range opts.Options {
		if !knownOptions[key] {
			return column, fmt.Errorf("unknown tag option %q", key)
		}
	}

	if err := p.resolveType(&column, field.Type, opts); err != nil {
		return column, err
	}

	column.PrimaryKey = opts.Has("primaryKey")
	column.AutoIncrement = opts.Has("autoIncrement")
	column.Unique = opts.Has("unique")
	column.Nullable = !opts.Has("notNull") && !column.PrimaryKey

	if column.PrimaryKey && column.Type != Integer {
		return column, fmt.Errorf("identifier must be an integer column, got %s", column.Type)
	}
	if column.AutoIncrement && !column.PrimaryKey {
		return column, fmt.Errorf("autoIncrement is only valid on the identifier column")
	}

	if opts.Has("default") {
		raw := opts.Get("default")
		if strings.EqualFold(raw, "now") || strings.EqualFold(raw, "now()") {
			column.Default = &DefaultValue{Now: true}
		} else {
			column.Default = &DefaultValue{Literal: raw}
		}
		if err := ValidateDefaultValue(&column); err != nil {
			return column, err
		}
	}

	if opts.Has("onUpdate") {
		if v := strings.ToLower(opts.Get("onUpdate")); v != "now" && v != "now()" {
			return column, fmt.Errorf("onUpdate only supports now, got %q", opts.Get("onUpdate"))
		}
		if !column.Type.IsTemporal() {
			return column, fmt.Errorf("onUpdate(now) requires a timestamp or date column")
		}
		column.UpdateNow = true
	}

	return column, nil
}

// resolveType sets the semantic type from tag options, falling back to the
// field's Go type, and checks that the two agree.
func (p *Parser) resolveType(column *ColumnMetadata, goType reflect.Type, opts *TagOptions) error {
	declared := opts.GetSQLType()
	mapped := p.typeMapper.GoTypeToSemantic(goType)

	switch {
	case opts.Has("enum"):
		values := splitEnum(opts.Get("enum"))
		if len(values) == 0 {
			return fmt.Errorf("enumeration has an empty domain")
		}
		column.Type = Enum
		column.EnumValues = values
	case declared != "":
		column.Type = declared
	case mapped != "":
		column.Type = mapped
	default:
		return fmt.Errorf("cannot map Go type %s to a column type", goType)
	}

	switch column.Type {
	case Varchar:
		n, err := strconv.Atoi(strings.TrimSpace(opts.Get("varchar")))
		if err != nil || n <= 0 {
			return fmt.Errorf("varchar requires a positive length, got %q", opts.Get("varchar"))
		}
		column.Length = n
	case Numeric:
		prec, scale, err := parseNumericParams(opts.Get("numeric"))
		if err != nil {
			return err
		}
		column.Precision = prec
		column.Scale = scale
	}

	if !p.typeMapper.Compatible(column.Type, goType) {
		return fmt.Errorf("field type %s cannot hold %s values", goType, column.Type)
	}
	return nil
}

func parseNumericParams(raw string) (int, int, error) {
	if raw == "" {
		return 18, 2, nil
	}
	precStr, scaleStr, _ := strings.Cut(raw, ",")
	prec, err := strconv.Atoi(strings.TrimSpace(precStr))
	if err != nil || prec <= 0 {
		return 0, 0, fmt.Errorf("invalid numeric precision %q", raw)
	}
	scale := 0
	if scaleStr != "" {
		scale, err = strconv.Atoi(strings.TrimSpace(scaleStr))
		if err != nil || scale < 0 || scale > prec {
			return 0, 0, fmt.Errorf("invalid numeric scale %q", raw)
		}
	}
	return prec, scale, nil
}

func splitEnum(raw string) []string {
	var values []string
	for _, v := range strings.Split(raw, "|") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// TagOptions represents parsed tag options.
type TagOptions struct {
	Name    string            // Column name (first element)
	Options map[string]string // Other options
}

// parseTag parses a struct tag value into TagOptions.
// Format: "column_name,option1,option2(value),option3"
func parseTag(tag string) (*TagOptions, error) {
	parts := splitTag(tag)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty tag value")
	}
	opts := &TagOptions{
		Name:    parts[0],
		Options: make(map[string]string),
	}
	for i := 1; i < len(parts); i++ {
		opt := parts[i]
		if opt == "" {
			continue
		}
		// Check if option has a value: option(value)
		if idx := strings.Index(opt, "("); idx != -1 {
			if !strings.HasSuffix(opt, ")") {
				return nil, fmt.Errorf("invalid option format: %s", opt)
			}
			key := opt[:idx]
			value := opt[idx+1 : len(opt)-1]
			opts.Options[key] = value
		} else {
			// Boolean option
			opts.Options[opt] = ""
		}
	}
	return opts, nil
}

// Has checks if an option exists.
func (t *TagOptions) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Get returns the value of an option.
func (t *TagOptions) Get(key string) string {
	return t.Options[key]
}

// GetSQLType returns the semantic type named in the tag options, if any.
func (t *TagOptions) GetSQLType() Type {
	for _, typ := range []Type{Integer, Text, Varchar, Numeric, Float, Boolean, Timestamp, Date} {
		if t.Has(string(typ)) {
			return typ
		}
	}
	return ""
}

// splitTag splits a tag value by commas, handling nested parentheses.
func splitTag(tag string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range tag {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(current.String()))
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, strings.TrimSpace(current.String()))
	}
	return parts
}

// toSnakeCase converts a string from PascalCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, ch := range s {
		if i > 0 && ch >= 'A' && ch <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(ch)
	}
	return strings.ToLower(result.String())
}

// parseForeignKey reads fk(table.column) and onDelete(action) from the tag.
func parseForeignKey(tableName string, column ColumnMetadata, opts *TagOptions) (ForeignKeyMetadata, bool, error) {
	fkStr := opts.Get("fk")
	if fkStr == "" {
		if opts.Has("fk") {
			return ForeignKeyMetadata{}, false, fmt.Errorf("fk requires a table.column reference")
		}
		if opts.Has("onDelete") {
			return ForeignKeyMetadata{}, false, fmt.Errorf("onDelete without fk")
		}
		return ForeignKeyMetadata{}, false, nil
	}

	// Support both "table.column" and "table(column)" formats
	var refTable, refColumn string
	if strings.Contains(fkStr, ".") {
		refTable, refColumn, _ = strings.Cut(fkStr, ".")
	} else if idx := strings.Index(fkStr, "("); idx > 0 && strings.HasSuffix(fkStr, ")") {
		refTable = fkStr[:idx]
		refColumn = fkStr[idx+1 : len(fkStr)-1]
	}
	refTable = strings.TrimSpace(refTable)
	refColumn = strings.TrimSpace(refColumn)
	if refTable == "" || refColumn == "" {
		return ForeignKeyMetadata{}, false, fmt.Errorf("invalid foreign key reference %q", fkStr)
	}

	action, err := parseReferenceAction(opts.Get("onDelete"))
	if err != nil {
		return ForeignKeyMetadata{}, false, err
	}
	if action == SetNull && !column.Nullable {
		return ForeignKeyMetadata{}, false, fmt.Errorf("onDelete(setNull) requires a nullable column")
	}

	return ForeignKeyMetadata{
		Name:             fmt.Sprintf("fk_%s_%s_%s", tableName, column.Name, refTable),
		Column:           column.Name,
		ReferencedTable:  refTable,
		ReferencedColumn: refColumn,
		OnDelete:         action,
	}, true, nil
}

// parseReferenceAction converts a tag value to a ReferenceAction.
func parseReferenceAction(action string) (ReferenceAction, error) {
	if action == "" {
		return NoAction, nil
	}

	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "CASCADE":
		return Cascade, nil
	case "RESTRICT":
		return Restrict, nil
	case "SETNULL", "SET NULL":
		return SetNull, nil
	case "SETDEFAULT", "SET DEFAULT":
		return SetDefault, nil
	case "NOACTION", "NO ACTION":
		return NoAction, nil
	default:
		return "", fmt.Errorf("unknown onDelete action %q", action)
	}
}
