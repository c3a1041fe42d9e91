// Package schema dumps a live database.Database's table/column layout to a
// declarative YAML/JSON snapshot and reloads it to recreate empty tables —
// useful for fixture setup in tests and for the CLI's --schema flag.
package schema

import (
	"fmt"
	"strings"

	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// Column is one snapshotted column: its name, declared value type, and the
// constraint tags from its CREATE TABLE column definition (one tag per
// identifier word after the type, e.g. "PRIMARY", "KEY").
type Column struct {
	Name        string
	DataType    value.Type
	Constraints []string
}

// Table is one snapshotted table's column layout, in declaration order.
type Table struct {
	Name    string
	Columns []Column
}

// Schema is an ordered collection of table layouts, in the order their
// owning Database registered them.
type Schema struct {
	Tables []Table
}

// HasTable reports whether name is present (case-insensitive).
func (s *Schema) HasTable(name string) bool {
	_, ok := s.GetTable(name)
	return ok
}

// GetTable retrieves a table by name (case-insensitive).
func (s *Schema) GetTable(name string) (*Table, bool) {
	for i := range s.Tables {
		if strings.EqualFold(s.Tables[i].Name, name) {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether name exists in the table (case-insensitive).
func (t *Table) HasColumn(name string) bool {
	_, ok := t.GetColumn(name)
	return ok
}

// GetColumn retrieves a column by name (case-insensitive).
func (t *Table) GetColumn(name string) (*Column, bool) {
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, name) {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// toColumnDefinitions converts a snapshotted table's columns to the layout
// table.New expects.
func (t *Table) toColumnDefinitions() []table.ColumnDefinition {
	defs := make([]table.ColumnDefinition, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = table.ColumnDefinition{Name: c.Name, DataType: c.DataType, Constraints: c.Constraints}
	}
	return defs
}

// fromTable snapshots a live table's current column layout.
func fromTable(t *table.Table) Table {
	cols := t.Columns()
	out := Table{Name: t.Name, Columns: make([]Column, len(cols))}
	for i, c := range cols {
		out.Columns[i] = Column{Name: c.Name, DataType: c.DataType, Constraints: c.Constraints}
	}
	return out
}

// Validate checks every column's declared type is one this engine
// recognizes: INTEGER, REAL, TEXT, BLOB or NULL.
func (s *Schema) Validate() error {
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			switch c.DataType {
			case value.Integer, value.Real, value.Text, value.Blob, value.Null:
			default:
				return fmt.Errorf("table %q column %q has unrecognized data type %q", t.Name, c.Name, c.DataType.String())
			}
		}
	}
	return nil
}
