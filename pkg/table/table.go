// Package table implements the versioned row/column model: ColumnDefinition,
// Row, the row-stack / column-stack history, and the Table that owns them.
package table

import (
	"fmt"
	"sort"

	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// ColumnDefinition names a typed column plus its ordered constraint tags.
type ColumnDefinition struct {
	Name        string
	DataType    value.Type
	Constraints []string
}

// Row is an ordered sequence of Values; width must equal the owning Table's
// current column count.
type Row []value.Value

// Clone returns a deep-enough copy for push-clone (Values are immutable, so
// a slice copy suffices).
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}

// ExactlyEqual compares two rows element-wise with value.ExactlyEqual.
func (r Row) ExactlyEqual(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if !value.ExactlyEqual(r[i], other[i]) {
			return false
		}
	}
	return true
}

// Compare orders rows by length first, then element-wise under value.Compare;
// used for the distinct/ordering semantics behind set operators and ORDER BY.
func Compare(a, b Row) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if c := value.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

// rowStack is the non-empty version history of one row; the top is active.
type rowStack struct {
	versions  []Row
	tombstone bool
}

func newRowStack(r Row) *rowStack {
	return &rowStack{versions: []Row{r}}
}

func (s *rowStack) top() Row {
	return s.versions[len(s.versions)-1]
}

func (s *rowStack) setTop(r Row) {
	s.versions[len(s.versions)-1] = r
}

// pushClone duplicates the top so a transactional mutation can edit the copy.
func (s *rowStack) pushClone() {
	s.versions = append(s.versions, s.top().Clone())
}

// collapse keeps only the current top, discarding all transactional history.
func (s *rowStack) collapse() {
	s.versions = []Row{s.top()}
}

// rollbackTo pops versions down to depth, restoring the version that was
// current at savepoint time. depth must be >= 1.
func (s *rowStack) rollbackTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth < len(s.versions) {
		s.versions = s.versions[:depth]
	}
}

func (s *rowStack) depth() int {
	return len(s.versions)
}

// columnStack mirrors rowStack for the table's column layout.
type columnStack struct {
	versions [][]ColumnDefinition
}

func newColumnStack(cols []ColumnDefinition) *columnStack {
	return &columnStack{versions: [][]ColumnDefinition{cols}}
}

func (s *columnStack) top() []ColumnDefinition {
	return s.versions[len(s.versions)-1]
}

func (s *columnStack) pushClone() {
	cur := s.top()
	clone := make([]ColumnDefinition, len(cur))
	copy(clone, cur)
	s.versions = append(s.versions, clone)
}

func (s *columnStack) collapse() {
	s.versions = [][]ColumnDefinition{s.top()}
}

func (s *columnStack) rollbackTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth < len(s.versions) {
		s.versions = s.versions[:depth]
	}
}

func (s *columnStack) depth() int {
	return len(s.versions)
}

// Table is a named collection of versioned rows under a versioned column
// layout (spec §3, §4.2, §4.3).
type Table struct {
	Name    string
	columns *columnStack
	rows    []*rowStack
}

// New creates a table with the given initial (non-empty) column layout.
func New(name string, columns []ColumnDefinition) *Table {
	return &Table{Name: name, columns: newColumnStack(columns)}
}

// Width is the current column count.
func (t *Table) Width() int { return len(t.columns.top()) }

// Len is the number of live row-stacks (tombstoned rows still count until
// committed).
func (t *Table) Len() int { return len(t.rows) }

// Get returns the top of row-stack i, or false if out of range or
// tombstoned.
func (t *Table) Get(i int) (Row, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	rs := t.rows[i]
	if rs.tombstone {
		return nil, false
	}
	return rs.top(), true
}

// GetRaw returns the top of row-stack i regardless of tombstone state, used
// internally by commit/rollback bookkeeping.
func (t *Table) GetRaw(i int) (Row, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i].top(), true
}

// IsTombstoned reports whether row-stack i is marked for deletion.
func (t *Table) IsTombstoned(i int) bool {
	if i < 0 || i >= len(t.rows) {
		return false
	}
	return t.rows[i].tombstone
}

// Rows returns the live rows in insertion order, skipping tombstones.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(t.rows))
	for _, rs := range t.rows {
		if !rs.tombstone {
			out = append(out, rs.top())
		}
	}
	return out
}

// Swap exchanges row-stacks a and b in place.
func (t *Table) Swap(a, b int) {
	t.rows[a], t.rows[b] = t.rows[b], t.rows[a]
}

// Push appends a validated row as a fresh single-entry row-stack.
func (t *Table) Push(r Row) {
	t.rows = append(t.rows, newRowStack(r))
}

// Pop removes and returns the last row-stack's top.
func (t *Table) Pop() (Row, bool) {
	if len(t.rows) == 0 {
		return nil, false
	}
	last := t.rows[len(t.rows)-1]
	t.rows = t.rows[:len(t.rows)-1]
	return last.top(), true
}

// IndexOfColumn returns the position of name in the current column layout.
func (t *Table) IndexOfColumn(name string) (int, bool) {
	for i, c := range t.columns.top() {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// HasColumn reports whether name exists in the current column layout.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.IndexOfColumn(name)
	return ok
}

// ColumnNames returns the current column names in declaration order.
func (t *Table) ColumnNames() []string {
	cols := t.columns.top()
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// Columns returns the current column layout.
func (t *Table) Columns() []ColumnDefinition {
	return t.columns.top()
}

// ValidateRow checks width and per-column type per spec §4.3, returning a
// clone of row on success. An Integer in a REAL column is stored as the
// equal Real.
func (t *Table) ValidateRow(row Row) (Row, error) {
	cols := t.columns.top()
	if len(row) != len(cols) {
		return nil, fmt.Errorf("Rows have incorrect width")
	}
	out := make(Row, len(row))
	for i, v := range row {
		if cols[i].DataType == value.Real && value.TypeOf(v) == value.Integer {
			v = value.NewReal(float64(v.Integer()))
		}
		if value.TypeOf(v) != cols[i].DataType && !v.IsNull() {
			return nil, fmt.Errorf("Data type mismatch for column %s", cols[i].Name)
		}
		out[i] = v
	}
	return out, nil
}

// PushColumn appends a column definition; under a transaction the layout is
// cloned first so rollback can restore the prior shape. Existing rows are
// extended with Null to keep widths consistent with the invariant in §3.
func (t *Table) PushColumn(def ColumnDefinition, isTxn bool) {
	if isTxn {
		t.columns.pushClone()
	}
	t.columns.versions[len(t.columns.versions)-1] = append(t.columns.top(), def)
	for _, rs := range t.rows {
		if isTxn {
			rs.pushClone()
		}
		rs.setTop(append(rs.top(), value.NewNull()))
	}
}

// RenameColumn renames an existing column in place.
func (t *Table) RenameColumn(oldName, newName string, isTxn bool) error {
	if isTxn {
		t.columns.pushClone()
	}
	cols := t.columns.top()
	for i := range cols {
		if cols[i].Name == oldName {
			cols[i].Name = newName
			return nil
		}
	}
	return fmt.Errorf("Column does not exist")
}

// DropColumn removes a column and the matching value from every row.
func (t *Table) DropColumn(name string, isTxn bool) error {
	idx, ok := t.IndexOfColumn(name)
	if !ok {
		return fmt.Errorf("Column does not exist")
	}
	if isTxn {
		t.columns.pushClone()
	}
	cols := t.columns.top()
	t.columns.versions[len(t.columns.versions)-1] = append(cols[:idx:idx], cols[idx+1:]...)
	for _, rs := range t.rows {
		if isTxn {
			rs.pushClone()
		}
		row := rs.top()
		rs.setTop(append(row[:idx:idx], row[idx+1:]...))
	}
	return nil
}

// BeginRowEdit prepares row-stack i for an UPDATE/DELETE under a
// transaction: it clones the top when isTxn is true, so RollbackRows can
// later pop the edited copy and restore the prior version.
func (t *Table) BeginRowEdit(i int, isTxn bool) {
	rs := t.rows[i]
	if isTxn {
		rs.pushClone()
	}
}

// SetRow overwrites the top of row-stack i.
func (t *Table) SetRow(i int, r Row) {
	t.rows[i].setTop(r)
}

// Tombstone marks row-stack i deleted without removing it; commit finalizes
// the removal, rollback clears the flag.
func (t *Table) Tombstone(i int) {
	t.rows[i].tombstone = true
}

// ClearTombstone undoes a pending delete.
func (t *Table) ClearTombstone(i int) {
	t.rows[i].tombstone = false
}

// RowDepth returns the current version-stack depth for row i, used to record
// a SAVEPOINT position.
func (t *Table) RowDepth(i int) int {
	return t.rows[i].depth()
}

// ColumnDepth returns the current column-stack depth.
func (t *Table) ColumnDepth() int {
	return t.columns.depth()
}

// CommitRows collapses the listed row-stacks to a single version and
// physically removes any that are tombstoned.
func (t *Table) CommitRows(affected []int) error {
	for _, i := range affected {
		if i < 0 || i >= len(t.rows) {
			return fmt.Errorf("Error committing transaction. Row stack is empty")
		}
		t.rows[i].collapse()
	}
	t.compactTombstones()
	return nil
}

// compactTombstones physically removes rows marked for deletion.
func (t *Table) compactTombstones() {
	out := t.rows[:0]
	for _, rs := range t.rows {
		if !rs.tombstone {
			out = append(out, rs)
		}
	}
	t.rows = out
}

// RollbackRows pops the listed row-stacks back to their pre-transaction
// version and clears any tombstone set since the savepoint.
func (t *Table) RollbackRows(affected []int) error {
	for _, i := range affected {
		if i < 0 || i >= len(t.rows) {
			return fmt.Errorf("Error rolling back transaction. Row stack is empty")
		}
		rs := t.rows[i]
		if len(rs.versions) > 1 {
			rs.versions = rs.versions[:len(rs.versions)-1]
		}
		rs.tombstone = false
	}
	return nil
}

// RemoveRows physically deletes the listed row-stacks, used to undo an
// INSERT under a transaction: a freshly inserted row has no prior version
// to revert to, so rolling it back means erasing the slot entirely rather
// than popping a version (spec §4.7, §8 property 5).
func (t *Table) RemoveRows(affected []int) error {
	idxs := append([]int(nil), affected...)
	sort.Sort(sort.Reverse(sort.IntSlice(idxs)))
	for _, i := range idxs {
		if i < 0 || i >= len(t.rows) {
			return fmt.Errorf("Error rolling back transaction. Row stack is empty")
		}
		t.rows = append(t.rows[:i], t.rows[i+1:]...)
	}
	return nil
}

// CommitColumns collapses the column layout history to its current top.
func (t *Table) CommitColumns() {
	t.columns.collapse()
}

// RollbackColumns pops one layer of column-layout history.
func (t *Table) RollbackColumns() {
	if len(t.columns.versions) > 1 {
		t.columns.versions = t.columns.versions[:len(t.columns.versions)-1]
	}
}
