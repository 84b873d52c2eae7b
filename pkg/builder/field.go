package builder

import "reflect"

// Col returns the database column name for a given Go field name.
// This provides a single source of truth through the registry.
//
// Usage:
//
//	type User struct {
//	    Name string `po:"name,varchar(255)"`
//	}
//
//	// Instead of hardcoded: Where(builder.Eq("name", value))
//	// Use: Where(builder.Eq(builder.Col[User](db, "Name"), value))
func Col[T any](d *DB, goFieldName string) string {
	table, err := d.reg.Get(reflect.TypeFor[T]())
	if err != nil {
		// Return the field name as-is if not registered (will likely cause SQL error)
		return goFieldName
	}

	column := table.GetColumnByField(goFieldName)
	if column == nil {
		return goFieldName
	}

	return column.Name
}
