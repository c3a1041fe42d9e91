package executor

import (
	"sort"

	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/evaluator"
	"github.com/sqlitekit/sqlitekit/pkg/parser"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// execSelect evaluates a full compound SELECT: scan+project each core, fold
// in set operators, then ORDER BY and LIMIT/OFFSET over the combined result
// (spec.md §4.6 steps 1-6).
func execSelect(db *database.Database, s *parser.Select) (*Result, error) {
	if len(s.Cores) == 0 {
		return &Result{}, nil
	}

	outColumns, rows, err := execSelectCore(db, s.Cores[0])
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(s.Cores); i++ {
		_, next, err := execSelectCore(db, s.Cores[i])
		if err != nil {
			return nil, err
		}
		switch s.SetOps[i-1] {
		case parser.SetOpUnion:
			rows = setUnion(rows, next)
		case parser.SetOpIntersect:
			rows = setIntersect(rows, next)
		case parser.SetOpExcept:
			rows = setExcept(rows, next)
		}
	}

	if len(s.OrderBy) > 0 {
		if err := orderRows(rows, outColumns, s.OrderBy); err != nil {
			return nil, err
		}
	}

	start, end, err := limitOffsetBounds(len(rows), s.Limit, s.Offset)
	if err != nil {
		return nil, err
	}
	return &Result{Columns: outColumns, Rows: rows[start:end]}, nil
}

// execSelectCore scans one select_core's table, applies WHERE, and
// projects either every column (`*`) or the given expression list,
// returning the output column names alongside the projected rows. A
// projected expression only has an output name when it is a bare column
// reference — ORDER BY can reference a computed column only by that name.
func execSelectCore(db *database.Database, core parser.SelectCore) ([]string, []table.Row, error) {
	t, err := db.Table(core.Table)
	if err != nil {
		return nil, nil, err
	}
	matched, err := matchingRows(t, core.Where)
	if err != nil {
		return nil, nil, err
	}

	if core.Star {
		names := t.ColumnNames()
		out := make([]table.Row, len(matched))
		for i, idx := range matched {
			row, _ := t.Get(idx)
			out[i] = row.Clone()
		}
		return names, out, nil
	}

	cols := t.ColumnNames()
	names := make([]string, len(core.Columns))
	for i, expr := range core.Columns {
		if ident, ok := expr.(*parser.Ident); ok {
			names[i] = ident.Name
		}
	}
	out := make([]table.Row, len(matched))
	for i, idx := range matched {
		row, _ := t.Get(idx)
		binding := evaluator.Binding{Columns: cols, Row: row}
		projected := make(table.Row, len(core.Columns))
		for j, expr := range core.Columns {
			v, err := evaluator.Eval(expr, binding)
			if err != nil {
				return nil, nil, err
			}
			projected[j] = v
		}
		out[i] = projected
	}
	return names, out, nil
}

// distinct removes duplicate rows, keeping the first occurrence of each
// (spec.md §4.6 step 4, §8 property 4): rows equal under §4.1
// ordering/equality collapse into one, treating two NULLs as equal (spec
// §9 Open Question b).
func distinct(rows []table.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if !containsRow(out, r) {
			out = append(out, r)
		}
	}
	return out
}

func containsRow(rows []table.Row, r table.Row) bool {
	for _, o := range rows {
		if r.ExactlyEqual(o) {
			return true
		}
	}
	return false
}

func setUnion(a, b []table.Row) []table.Row {
	combined := make([]table.Row, 0, len(a)+len(b))
	combined = append(combined, a...)
	combined = append(combined, b...)
	return distinct(combined)
}

func setIntersect(a, b []table.Row) []table.Row {
	da := distinct(a)
	out := make([]table.Row, 0, len(da))
	for _, r := range da {
		if containsRow(b, r) {
			out = append(out, r)
		}
	}
	return out
}

func setExcept(a, b []table.Row) []table.Row {
	da := distinct(a)
	out := make([]table.Row, 0, len(da))
	for _, r := range da {
		if !containsRow(b, r) {
			out = append(out, r)
		}
	}
	return out
}

// orderRows sorts rows in place by keys, ASC by default, stably so that
// rows equal under every key preserve insertion order (spec.md §4.6 step 5,
// §8 property 6).
func orderRows(rows []table.Row, columns []string, keys []parser.OrderKey) error {
	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		for _, k := range keys {
			vi, err := evaluator.Eval(k.Expr, evaluator.Binding{Columns: columns, Row: rows[i]})
			if err != nil {
				sortErr = err
				return false
			}
			vj, err := evaluator.Eval(k.Expr, evaluator.Binding{Columns: columns, Row: rows[j]})
			if err != nil {
				sortErr = err
				return false
			}
			c := value.Compare(vi, vj)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return sortErr
}
