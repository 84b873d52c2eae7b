// Package runtime opens storage locations and defines the loader's error taxonomy.
package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidModel is returned when an invalid model is provided.
	ErrInvalidModel = errors.New("invalid model")

	// ErrNoPrimaryKey is returned when a table has no primary key.
	ErrNoPrimaryKey = errors.New("no primary key defined")

	// ErrTransactionClosed is returned when operating on a closed transaction.
	ErrTransactionClosed = errors.New("transaction already closed")

	// ErrClosed is returned when operating on a closed storage handle.
	ErrClosed = errors.New("storage closed")

	// ErrSchema matches every *SchemaError via errors.Is.
	ErrSchema = errors.New("schema error")

	// ErrStorage matches every *StorageError via errors.Is.
	ErrStorage = errors.New("storage error")

	// ErrConstraint matches every *ConstraintViolation via errors.Is.
	ErrConstraint = errors.New("constraint violation")
)

// SchemaError reports a malformed schema declaration.
type SchemaError struct {
	Table   string
	Column  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var where string
	switch {
	case e.Table != "" && e.Column != "":
		where = fmt.Sprintf(" (%s.%s)", e.Table, e.Column)
	case e.Table != "":
		where = fmt.Sprintf(" (%s)", e.Table)
	}
	msg := fmt.Sprintf("schema error%s: %s", where, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// StorageError reports that the backing store could not be opened or used.
type StorageError struct {
	Location string
	Op       string
	Err      error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Location, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// ViolationKind classifies a ConstraintViolation.
type ViolationKind string

const (
	// DuplicateKey is a primary key or unique constraint collision.
	DuplicateKey ViolationKind = "duplicate_key"
	// ForeignKey is a reference to a missing parent row.
	ForeignKey ViolationKind = "foreign_key"
	// NotNull is a missing value for a non-nullable column.
	NotNull ViolationKind = "not_null"
	// EnumDomain is a value outside an enumeration's domain.
	EnumDomain ViolationKind = "enum_domain"
	// Check is any other CHECK constraint failure.
	Check ViolationKind = "check"
	// TypeMismatch is a value that cannot be converted to the column type.
	TypeMismatch ViolationKind = "type_mismatch"
	// UnknownColumn is a record field that names no declared column.
	UnknownColumn ViolationKind = "unknown_column"
)

// ConstraintViolation reports inserted or updated data that breaks a declared constraint.
type ConstraintViolation struct {
	Kind    ViolationKind
	Table   string
	Column  string
	Row     int // zero-based index within the batch, -1 when unknown
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConstraintViolation) Error() string {
	msg := fmt.Sprintf("constraint violation (%s) on %s", e.Kind, e.Table)
	if e.Column != "" {
		msg += "." + e.Column
	}
	if e.Row >= 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConstraint.
func (e *ConstraintViolation) Is(target error) bool {
	return target == ErrConstraint
}

// QueryError represents a query execution error.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}
