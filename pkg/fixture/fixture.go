// Package fixture describes seed rows and prepares them for insertion.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/marshallshelly/pebble-seed/pkg/builder"
	"github.com/marshallshelly/pebble-seed/pkg/registry"
)

// Row is one record keyed by column name.
type Row map[string]any

// Batch is an ordered list of rows destined for one table. A batch is
// inserted atomically.
type Batch struct {
	Table string `yaml:"table" json:"table"`
	Rows  []Row  `yaml:"rows" json:"rows"`
}

// File is the on-disk fixture format:
//
//	batches:
//	  - table: users
//	    rows:
//	      - {user_id: 1, name: Alice}
type File struct {
	Batches []Batch `yaml:"batches" json:"batches"`
}

// NewBatch creates a batch for table.
func NewBatch(table string, rows ...Row) Batch {
	return Batch{Table: table, Rows: rows}
}

// Tables returns the table names in file order.
func (f *File) Tables() []string {
	names := make([]string, len(f.Batches))
	for i, b := range f.Batches {
		names[i] = b.Table
	}
	return names
}

// Batch returns the first batch for table.
func (f *File) Batch(table string) (Batch, bool) {
	for _, b := range f.Batches {
		if b.Table == table {
			return b, true
		}
	}
	return Batch{}, false
}

// Parse decodes a fixture file.
func Parse(data []byte) (*File, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a fixture file from r. Unknown top-level keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}

	for i, b := range f.Batches {
		if b.Table == "" {
			return nil, fmt.Errorf("batch %d has no table", i)
		}
	}

	return &f, nil
}

// Encode writes f in the fixture file format.
func Encode(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode fixtures: %w", err)
	}
	return enc.Close()
}

// FromModels builds a batch from tagged structs. Zero identifiers and zero
// fields with a default rule are left out, so storage and the default rule
// fill them in.
func FromModels[T any](reg *registry.Registry, models ...T) (Batch, error) {
	table, err := reg.Get(reflect.TypeFor[T]())
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{Table: table.Name, Rows: make([]Row, len(models))}
	for i, model := range models {
		values, err := builder.StructValues(model, table, true)
		if err != nil {
			return Batch{}, fmt.Errorf("row %d: %w", i, err)
		}
		batch.Rows[i] = Row(values)
	}
	return batch, nil
}
