// Package database implements the name→Table directory plus the transaction
// log that gives SAVEPOINT/COMMIT/ROLLBACK their semantics (spec §4.7).
package database

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/table"
)

// entryKind distinguishes a mutating statement's row-index record from a
// named savepoint marker in the transaction log.
type entryKind int

const (
	entryStatement entryKind = iota // UPDATE/DELETE: rollback pops one version or clears a tombstone
	entryInsert                     // INSERT: rollback removes the row-stack entirely (spec §8 property 5)
	entrySavepoint
)

// logEntry is one TransactionLog record: either a Statement{table,
// affected_rows} or a Savepoint(name), per spec §4.7.
type logEntry struct {
	kind          entryKind
	tableName     string
	affectedRows  []int
	savepointName string
}

// Database owns a set of named tables plus the in-flight transaction log.
// It is not safe for concurrent use (spec §5): callers serialize access.
type Database struct {
	tables map[string]*table.Table
	order  []string
	log    []logEntry
}

// New returns an empty database.
func New() *Database {
	return &Database{tables: make(map[string]*table.Table)}
}

// CreateTable registers a new table; it is an error to redefine one that
// already exists.
func (d *Database) CreateTable(t *table.Table) error {
	if _, exists := d.tables[t.Name]; exists {
		return fmt.Errorf("Table %s already exists", t.Name)
	}
	d.tables[t.Name] = t
	d.order = append(d.order, t.Name)
	return nil
}

// DropTable removes a table if present; CREATE TABLE is the only lifecycle
// operation spec.md requires, but a host may still want DROP.
func (d *Database) DropTable(name string) error {
	if _, ok := d.tables[name]; !ok {
		return fmt.Errorf("Table %s does not exist", name)
	}
	delete(d.tables, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// Table looks up a table by name.
func (d *Database) Table(name string) (*table.Table, error) {
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("Table %s does not exist", name)
	}
	return t, nil
}

// TableNames returns every registered table name in CREATE TABLE order, the
// order a schema snapshot should preserve.
func (d *Database) TableNames() []string {
	return append([]string(nil), d.order...)
}

// InTransaction reports whether a SAVEPOINT is currently open.
func (d *Database) InTransaction() bool {
	for _, e := range d.log {
		if e.kind == entrySavepoint {
			return true
		}
	}
	return false
}

// Savepoint opens (or re-marks) a named position in the transaction log.
func (d *Database) Savepoint(name string) {
	d.log = append(d.log, logEntry{kind: entrySavepoint, savepointName: name})
}

// RecordMutation appends a Statement entry noting which rows of table were
// touched by an UPDATE or DELETE since the last savepoint (or since the
// start of the log).
func (d *Database) RecordMutation(tableName string, affectedRows []int) {
	if len(affectedRows) == 0 {
		return
	}
	d.log = append(d.log, logEntry{kind: entryStatement, tableName: tableName, affectedRows: affectedRows})
}

// RecordInsert appends an Insert entry noting which freshly created rows an
// INSERT added since the last savepoint. It is recorded separately from
// RecordMutation because rolling it back erases the rows rather than
// popping a version (spec §8 property 5).
func (d *Database) RecordInsert(tableName string, affectedRows []int) {
	if len(affectedRows) == 0 {
		return
	}
	d.log = append(d.log, logEntry{kind: entryInsert, tableName: tableName, affectedRows: affectedRows})
}

// Commit walks the log oldest-to-newest and collapses every affected
// row-stack to its top, then clears the log (spec §4.7). Affected rows are
// gathered per table first and committed with one CommitRows call each,
// since CommitRows compacts tombstoned rows and so shifts later indices.
func (d *Database) Commit() error {
	var names []string
	affected := make(map[string][]int)
	for _, e := range d.log {
		if e.kind != entryStatement && e.kind != entryInsert {
			continue
		}
		if _, seen := affected[e.tableName]; !seen {
			names = append(names, e.tableName)
		}
		affected[e.tableName] = append(affected[e.tableName], e.affectedRows...)
	}
	for _, name := range names {
		t, err := d.Table(name)
		if err != nil {
			return err
		}
		if err := t.CommitRows(affected[name]); err != nil {
			return err
		}
	}
	d.log = nil
	return nil
}

// RollbackTo finds the nearest matching Savepoint entry and, for every
// later Statement entry, rolls back the affected rows; the log is then
// truncated to that savepoint (spec §4.7, §9 "rollback_transaction
// incomplete in source").
func (d *Database) RollbackTo(name string) error {
	idx := -1
	for i := len(d.log) - 1; i >= 0; i-- {
		if d.log[i].kind == entrySavepoint && d.log[i].savepointName == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("SAVEPOINT %s not found", name)
	}
	for i := len(d.log) - 1; i > idx; i-- {
		e := d.log[i]
		t, err := d.Table(e.tableName)
		switch e.kind {
		case entryStatement:
			if err != nil {
				return err
			}
			if err := t.RollbackRows(e.affectedRows); err != nil {
				return err
			}
		case entryInsert:
			if err != nil {
				return err
			}
			if err := t.RemoveRows(e.affectedRows); err != nil {
				return err
			}
		}
	}
	d.log = d.log[:idx]
	return nil
}

// Rollback rolls back everything in the current transaction (ROLLBACK with
// no TO clause): equivalent to rolling back to the oldest savepoint in the
// log.
func (d *Database) Rollback() error {
	oldest := -1
	for i, e := range d.log {
		if e.kind == entrySavepoint {
			oldest = i
			break
		}
	}
	if oldest == -1 {
		return fmt.Errorf("ROLLBACK outside transaction")
	}
	return d.RollbackTo(d.log[oldest].savepointName)
}
