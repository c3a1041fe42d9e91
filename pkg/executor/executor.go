// Package executor applies a pkg/parser statement to a pkg/database
// Database, producing a Result or an error (spec.md §4.6).
package executor

import (
	"fmt"

	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/evaluator"
	"github.com/sqlitekit/sqlitekit/pkg/parser"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// Result is a statement's side-effect-free outcome: Columns is nil for
// Ok(None) (CREATE/INSERT/UPDATE/DELETE/SAVEPOINT/COMMIT/ROLLBACK), and set
// for Ok(Some(rows)) (SELECT).
type Result struct {
	Columns []string
	Rows    []table.Row
}

// Exec applies stmt to db and returns its Result, or an error for the
// caller to wrap as an Execution Error diagnostic (spec.md §6).
func Exec(db *database.Database, stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.CreateTable:
		return nil, execCreateTable(db, s)
	case *parser.Insert:
		return nil, execInsert(db, s)
	case *parser.Select:
		return execSelect(db, s)
	case *parser.Update:
		return nil, execUpdate(db, s)
	case *parser.Delete:
		return nil, execDelete(db, s)
	case *parser.Savepoint:
		db.Savepoint(s.Name)
		return nil, nil
	case *parser.Commit:
		return nil, db.Commit()
	case *parser.Rollback:
		if s.To != "" {
			return nil, db.RollbackTo(s.To)
		}
		return nil, db.Rollback()
	default:
		return nil, fmt.Errorf("cannot execute statement: %s", stmt.String())
	}
}

func execCreateTable(db *database.Database, s *parser.CreateTable) error {
	columns := make([]table.ColumnDefinition, len(s.Columns))
	for i, c := range s.Columns {
		columns[i] = table.ColumnDefinition{Name: c.Name, DataType: c.DataType, Constraints: c.Constraints}
	}
	return db.CreateTable(table.New(s.Table, columns))
}

func execInsert(db *database.Database, s *parser.Insert) error {
	t, err := db.Table(s.Table)
	if err != nil {
		return err
	}

	columns := s.Columns
	if len(columns) == 0 {
		columns = t.ColumnNames()
	}

	isTxn := db.InTransaction()
	affected := make([]int, 0, len(s.Tuples))
	for _, tuple := range s.Tuples {
		if len(tuple) != len(columns) {
			return fmt.Errorf("Rows have incorrect width")
		}
		row := make(table.Row, t.Width())
		for i := range row {
			row[i] = value.NewNull()
		}
		for i, colName := range columns {
			idx, ok := t.IndexOfColumn(colName)
			if !ok {
				return fmt.Errorf("no such column: %s", colName)
			}
			v, err := evaluator.Eval(tuple[i], evaluator.Binding{})
			if err != nil {
				return err
			}
			row[idx] = v
		}
		validated, err := t.ValidateRow(row)
		if err != nil {
			return err
		}
		t.Push(validated)
		affected = append(affected, t.Len()-1)
	}

	if isTxn {
		db.RecordInsert(s.Table, affected)
	}
	return nil
}

// matchingRows scans t in insertion order, evaluating where against each
// live row, and returns the indices that satisfy it — all of them if where
// is nil (spec.md §4.6 steps 1-2).
func matchingRows(t *table.Table, where parser.Expression) ([]int, error) {
	cols := t.ColumnNames()
	var out []int
	for i := 0; i < t.Len(); i++ {
		row, ok := t.Get(i)
		if !ok {
			continue
		}
		if where == nil {
			out = append(out, i)
			continue
		}
		v, err := evaluator.Eval(where, evaluator.Binding{Columns: cols, Row: row})
		if err != nil {
			return nil, err
		}
		if value.TriFromValue(v) == value.True {
			out = append(out, i)
		}
	}
	return out, nil
}

// limitOffsetBounds computes the [start, end) slice bounds a LIMIT/OFFSET
// clause selects out of n candidates: negative or Null limits are
// unlimited, an offset past the end yields an empty slice (spec.md §4.6
// step 6, and the UPDATE/DELETE extension matching the reference engine).
func limitOffsetBounds(n int, limitExpr, offsetExpr parser.Expression) (start, end int, err error) {
	offset := 0
	if offsetExpr != nil {
		v, err := evaluator.Eval(offsetExpr, evaluator.Binding{})
		if err != nil {
			return 0, 0, err
		}
		if !v.IsNull() {
			if f, ok := v.AsFloat(); ok && f > 0 {
				offset = int(f)
			}
		}
	}
	if offset > n {
		offset = n
	}
	limit := n - offset

	if limitExpr != nil {
		v, err := evaluator.Eval(limitExpr, evaluator.Binding{})
		if err != nil {
			return 0, 0, err
		}
		if !v.IsNull() {
			if f, ok := v.AsFloat(); ok && f >= 0 && int(f) < limit {
				limit = int(f)
			}
		}
	}
	return offset, offset + limit, nil
}

func execUpdate(db *database.Database, s *parser.Update) error {
	t, err := db.Table(s.Table)
	if err != nil {
		return err
	}
	matched, err := matchingRows(t, s.Where)
	if err != nil {
		return err
	}
	start, end, err := limitOffsetBounds(len(matched), s.Limit, s.Offset)
	if err != nil {
		return err
	}
	targets := matched[start:end]

	isTxn := db.InTransaction()
	cols := t.ColumnNames()
	for _, i := range targets {
		before, _ := t.Get(i)
		next := before.Clone()
		for _, assign := range s.Assignments {
			idx, ok := t.IndexOfColumn(assign.Column)
			if !ok {
				return fmt.Errorf("no such column: %s", assign.Column)
			}
			v, err := evaluator.Eval(assign.Value, evaluator.Binding{Columns: cols, Row: before})
			if err != nil {
				return err
			}
			next[idx] = v
		}
		validated, err := t.ValidateRow(next)
		if err != nil {
			return err
		}
		t.BeginRowEdit(i, isTxn)
		t.SetRow(i, validated)
	}

	if isTxn {
		db.RecordMutation(s.Table, targets)
	}
	return nil
}

func execDelete(db *database.Database, s *parser.Delete) error {
	t, err := db.Table(s.Table)
	if err != nil {
		return err
	}
	matched, err := matchingRows(t, s.Where)
	if err != nil {
		return err
	}
	start, end, err := limitOffsetBounds(len(matched), s.Limit, s.Offset)
	if err != nil {
		return err
	}
	targets := matched[start:end]

	isTxn := db.InTransaction()
	if isTxn {
		for _, i := range targets {
			t.BeginRowEdit(i, true)
			t.Tombstone(i)
		}
		db.RecordMutation(s.Table, targets)
		return nil
	}

	// Outside a transaction, DELETE removes the slot immediately, preserving
	// the insertion order of surviving rows (spec §9 "Tombstone delete").
	return t.RemoveRows(targets)
}
