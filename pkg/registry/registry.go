// Package registry holds the validated set of tables that make up one schema.
package registry

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/marshallshelly/pebble-seed/pkg/runtime"
	"github.com/marshallshelly/pebble-seed/pkg/schema"
)

// Registry is a thread-safe registry for table metadata. A Registry returned
// by Define is a validated schema handle.
type Registry struct {
	mu     sync.RWMutex
	parser *schema.Parser
	tables map[reflect.Type]*schema.TableMetadata
	names  map[string]*schema.TableMetadata
	order  []*schema.TableMetadata // registration order
}

// NewRegistry creates a new Registry instance.
func NewRegistry() *Registry {
	return &Registry{
		parser: schema.NewParser(),
		tables: make(map[reflect.Type]*schema.TableMetadata),
		names:  make(map[string]*schema.TableMetadata),
	}
}

// Define registers every model and validates the resulting schema.
func Define(models ...any) (*Registry, error) {
	if len(models) == 0 {
		return nil, &runtime.SchemaError{Message: "no tables declared"}
	}

	r := NewRegistry()
	for _, model := range models {
		if err := r.Register(model); err != nil {
			return nil, err
		}
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Register registers a model type and extracts its metadata. Registering
// the same type twice is a no-op; two types mapping to one table name is a
// *runtime.SchemaError.
func (r *Registry) Register(model any) error {
	if model == nil {
		return &runtime.SchemaError{Message: "nil model", Err: runtime.ErrInvalidModel}
	}
	modelType := reflect.TypeOf(model)

	// Dereference pointer
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check if already registered
	if _, ok := r.tables[modelType]; ok {
		return nil
	}

	table, err := r.parser.Parse(modelType)
	if err != nil {
		return err
	}

	if existing, ok := r.names[table.Name]; ok {
		return &runtime.SchemaError{
			Table:   table.Name,
			Message: fmt.Sprintf("declared by both %s and %s", typeName(existing.GoType), typeName(modelType)),
		}
	}

	r.tables[modelType] = table
	r.names[table.Name] = table
	r.order = append(r.order, table)

	return nil
}

// Validate checks cross-table rules: every foreign key must reference a
// declared table and column of the same type, and references must not form
// a cycle. A table may reference itself.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, table := range r.order {
		for _, fk := range table.ForeignKeys {
			target, ok := r.names[fk.ReferencedTable]
			if !ok {
				return &runtime.SchemaError{
					Table:   table.Name,
					Column:  fk.Column,
					Message: fmt.Sprintf("foreign key references undeclared table %q", fk.ReferencedTable),
				}
			}
			refCol := target.GetColumnByName(fk.ReferencedColumn)
			if refCol == nil {
				return &runtime.SchemaError{
					Table:   table.Name,
					Column:  fk.Column,
					Message: fmt.Sprintf("foreign key references undeclared column %s.%s", fk.ReferencedTable, fk.ReferencedColumn),
				}
			}
			if !refCol.PrimaryKey && !refCol.Unique {
				return &runtime.SchemaError{
					Table:   table.Name,
					Column:  fk.Column,
					Message: fmt.Sprintf("foreign key target %s.%s is neither the identifier nor unique", fk.ReferencedTable, fk.ReferencedColumn),
				}
			}
			if col := table.GetColumnByName(fk.Column); col.Type != refCol.Type {
				return &runtime.SchemaError{
					Table:   table.Name,
					Column:  fk.Column,
					Message: fmt.Sprintf("foreign key type %s does not match %s.%s (%s)", col.Type, fk.ReferencedTable, fk.ReferencedColumn, refCol.Type),
				}
			}
		}
	}

	_, err := r.sorted()
	return err
}

// Order returns tables so that every referenced table precedes the tables
// referencing it. Ties keep registration order.
func (r *Registry) Order() ([]*schema.TableMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted()
}

func (r *Registry) sorted() ([]*schema.TableMetadata, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(r.order))
	result := make([]*schema.TableMetadata, 0, len(r.order))

	var visit func(table *schema.TableMetadata, path []string) error
	visit = func(table *schema.TableMetadata, path []string) error {
		switch state[table.Name] {
		case done:
			return nil
		case visiting:
			return &runtime.SchemaError{
				Table:   table.Name,
				Message: "foreign key cycle: " + strings.Join(append(path, table.Name), " -> "),
			}
		}
		state[table.Name] = visiting
		for _, ref := range table.ReferencedTables() {
			if ref == table.Name {
				continue
			}
			target, ok := r.names[ref]
			if !ok {
				continue
			}
			if err := visit(target, append(path, table.Name)); err != nil {
				return err
			}
		}
		state[table.Name] = done
		result = append(result, table)
		return nil
	}

	for _, table := range r.order {
		if err := visit(table, nil); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Get retrieves TableMetadata by Go type.
func (r *Registry) Get(modelType reflect.Type) (*schema.TableMetadata, error) {
	// Dereference pointer
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.RLock()
	table, ok := r.tables[modelType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("model type %s not registered", modelType.Name())
	}

	return table, nil
}

// GetByName retrieves TableMetadata by table name.
func (r *Registry) GetByName(tableName string) (*schema.TableMetadata, error) {
	r.mu.RLock()
	table, ok := r.names[tableName]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("table %s not registered", tableName)
	}

	return table, nil
}

// All returns all registered table metadata in registration order.
func (r *Registry) All() []*schema.TableMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]*schema.TableMetadata, len(r.order))
	copy(tables, r.order)
	return tables
}

// AllNames returns all registered table names in registration order.
func (r *Registry) AllNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	for i, table := range r.order {
		names[i] = table.Name
	}
	return names
}

// Has checks if a model type is registered.
func (r *Registry) Has(modelType reflect.Type) bool {
	// Dereference pointer
	for modelType.Kind() == reflect.Pointer {
		modelType = modelType.Elem()
	}

	r.mu.RLock()
	_, ok := r.tables[modelType]
	r.mu.RUnlock()

	return ok
}

// HasTable checks if a table name is registered.
func (r *Registry) HasTable(tableName string) bool {
	r.mu.RLock()
	_, ok := r.names[tableName]
	r.mu.RUnlock()

	return ok
}

// GetAllTables returns all registered tables as a map[tableName]*TableMetadata.
func (r *Registry) GetAllTables() map[string]*schema.TableMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make(map[string]*schema.TableMetadata)
	maps.Copy(tables, r.names)

	return tables
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
