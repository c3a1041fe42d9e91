// Package evaluator turns a pkg/parser expression AST plus a row binding
// into a pkg/value.Value (spec.md §4.6 "Expression evaluation takes (row
// binding, table schema) and returns a Value").
package evaluator

import (
	"fmt"
	"strings"

	"github.com/sqlitekit/sqlitekit/pkg/datetime"
	"github.com/sqlitekit/sqlitekit/pkg/parser"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// Binding is the current row and its table's declared column order, the
// (row binding, table schema) pair expression evaluation takes.
type Binding struct {
	Columns []string
	Row     table.Row
}

// Lookup resolves a column name against the binding, case-sensitively —
// identifiers keep the casing they were declared with (spec.md §9
// "Identifier folding").
func (b Binding) Lookup(name string) (value.Value, bool) {
	for i, c := range b.Columns {
		if c == name {
			return b.Row[i], true
		}
	}
	return value.Value{}, false
}

// Eval recursively evaluates expr against binding.
func Eval(expr parser.Expression, binding Binding) (value.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.Ident:
		v, ok := binding.Lookup(e.Name)
		if !ok {
			return value.Value{}, fmt.Errorf("no such column: %s", e.Name)
		}
		return v, nil
	case *parser.Unary:
		return evalUnary(e, binding)
	case *parser.Binary:
		return evalBinary(e, binding)
	case *parser.IsNull:
		operand, err := Eval(e.Operand, binding)
		if err != nil {
			return value.Value{}, err
		}
		isNull := operand.IsNull()
		if e.Not {
			isNull = !isNull
		}
		return value.NewInteger(boolToInt(isNull)), nil
	case *parser.FuncCall:
		return evalFuncCall(e, binding)
	default:
		return value.Value{}, fmt.Errorf("cannot evaluate expression: %s", expr.String())
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func evalUnary(e *parser.Unary, binding Binding) (value.Value, error) {
	operand, err := Eval(e.Operand, binding)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op {
	case "-":
		return value.Arith(value.OpSub, value.NewInteger(0), operand), nil
	case "+":
		return value.Arith(value.OpAdd, value.NewInteger(0), operand), nil
	case "NOT":
		return value.Not(value.TriFromValue(operand)).Value(), nil
	default:
		return value.Value{}, fmt.Errorf("unknown unary operator: %s", e.Op)
	}
}

func evalBinary(e *parser.Binary, binding Binding) (value.Value, error) {
	switch e.Op {
	case "AND":
		left, err := Eval(e.Left, binding)
		if err != nil {
			return value.Value{}, err
		}
		right, err := Eval(e.Right, binding)
		if err != nil {
			return value.Value{}, err
		}
		return value.And(value.TriFromValue(left), value.TriFromValue(right)).Value(), nil
	case "OR":
		left, err := Eval(e.Left, binding)
		if err != nil {
			return value.Value{}, err
		}
		right, err := Eval(e.Right, binding)
		if err != nil {
			return value.Value{}, err
		}
		return value.Or(value.TriFromValue(left), value.TriFromValue(right)).Value(), nil
	}

	left, err := Eval(e.Left, binding)
	if err != nil {
		return value.Value{}, err
	}
	right, err := Eval(e.Right, binding)
	if err != nil {
		return value.Value{}, err
	}

	switch e.Op {
	case "+":
		return value.Arith(value.OpAdd, left, right), nil
	case "-":
		return value.Arith(value.OpSub, left, right), nil
	case "*":
		return value.Arith(value.OpMul, left, right), nil
	case "/":
		return value.Arith(value.OpDiv, left, right), nil
	case "%":
		return value.Arith(value.OpMod, left, right), nil
	case "=":
		return compareTri(left, right, func(c int) bool { return c == 0 }), nil
	case "!=":
		return compareTri(left, right, func(c int) bool { return c != 0 }), nil
	case "<":
		return compareTri(left, right, func(c int) bool { return c < 0 }), nil
	case ">":
		return compareTri(left, right, func(c int) bool { return c > 0 }), nil
	case "<=":
		return compareTri(left, right, func(c int) bool { return c <= 0 }), nil
	case ">=":
		return compareTri(left, right, func(c int) bool { return c >= 0 }), nil
	default:
		return value.Value{}, fmt.Errorf("unknown binary operator: %s", e.Op)
	}
}

// compareTri applies rel to value.Compare, but Null on either side always
// yields Unknown — spec.md §4.6/S5: "x = NULL" excludes every row, not just
// ones where x is NULL.
func compareTri(left, right value.Value, rel func(int) bool) value.Value {
	if left.IsNull() || right.IsNull() {
		return value.NewNull()
	}
	return value.NewInteger(boolToInt(rel(value.Compare(left, right))))
}

func evalFuncCall(e *parser.FuncCall, binding Binding) (value.Value, error) {
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(a, binding)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	switch strings.ToUpper(e.Name) {
	case "DATE":
		j, err := dateTimeArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewText(j.AsDate()), nil
	case "TIME":
		j, err := dateTimeArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewText(j.AsTime()), nil
	case "DATETIME":
		j, err := dateTimeArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewText(j.AsDateTime()), nil
	case "JULIANDAY":
		j, err := dateTimeArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewReal(j.Value()), nil
	case "UNIXEPOCH":
		j, err := dateTimeArgs(args)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewReal(j.AsUnixEpoch()), nil
	default:
		return value.Value{}, fmt.Errorf("no such function: %s", e.Name)
	}
}

// dateTimeArgs parses the shared first-argument-plus-modifiers shape every
// date/time function takes (spec.md §4.8).
func dateTimeArgs(args []value.Value) (datetime.JulianDay, error) {
	if len(args) == 0 {
		return datetime.JulianDay{}, fmt.Errorf("function requires at least 1 argument")
	}
	base, err := datetime.FromText(args[0].Text())
	if err != nil {
		return datetime.JulianDay{}, err
	}
	modifiers := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		modifiers = append(modifiers, a.Text())
	}
	return datetime.Apply(base, modifiers)
}
