package parser

import (
	"fmt"
	"strings"

	"github.com/sqlitekit/sqlitekit/pkg/value"
)

// Node is the common interface for every AST node the parser produces.
type Node interface {
	String() string
}

// Statement is a top-level statement (spec.md §4.5 "stmt").
type Statement interface {
	Node
	statementNode()
}

// Expression is anything the Pratt expression parser can produce.
type Expression interface {
	Node
	expressionNode()
}

// ColumnDef is one column of a CREATE TABLE column list.
type ColumnDef struct {
	Name        string
	DataType    value.Type
	Constraints []string
}

// CreateTable is `CREATE TABLE ident (col_def, ...)`.
type CreateTable struct {
	Table   string
	Columns []ColumnDef
}

func (s *CreateTable) statementNode() {}
func (s *CreateTable) String() string {
	return fmt.Sprintf("CREATE TABLE %s (%d columns)", s.Table, len(s.Columns))
}

// Insert is `INSERT INTO ident [(col, ...)] VALUES (expr, ...), ...`.
type Insert struct {
	Table   string
	Columns []string // nil if the column list was elided
	Tuples  [][]Expression
}

func (s *Insert) statementNode() {}
func (s *Insert) String() string {
	return fmt.Sprintf("INSERT INTO %s (%d tuples)", s.Table, len(s.Tuples))
}

// SelectCore is one `SELECT ... FROM ... [WHERE ...]` unit, before any set
// operator or ORDER BY/LIMIT is applied.
type SelectCore struct {
	Star    bool
	Columns []Expression
	Table   string
	Where   Expression
}

// SetOp tags how one SelectCore combines with the next (spec §4.5 "set_op").
type SetOp int

const (
	SetOpNone SetOp = iota
	SetOpUnion
	SetOpIntersect
	SetOpExcept
)

// OrderKey is one ORDER BY key and its direction.
type OrderKey struct {
	Expr Expression
	Desc bool
}

// Select is a full compound SELECT: one or more SelectCores joined by set
// operators, with an optional ORDER BY / LIMIT / OFFSET applied to the
// combined result (spec §4.5 "select").
type Select struct {
	Cores   []SelectCore
	SetOps  []SetOp // len(SetOps) == len(Cores)-1
	OrderBy []OrderKey
	Limit   Expression
	Offset  Expression
}

func (s *Select) statementNode() {}
func (s *Select) expressionNode() {}
func (s *Select) String() string {
	return fmt.Sprintf("SELECT (%d cores)", len(s.Cores))
}

// Assignment is one `col = expr` of an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  Expression
}

// Update is `UPDATE ident SET assign, ... [WHERE ...] [LIMIT ... [OFFSET ...]]`.
type Update struct {
	Table       string
	Assignments []Assignment
	Where       Expression
	Limit       Expression
	Offset      Expression
}

func (s *Update) statementNode() {}
func (s *Update) String() string { return fmt.Sprintf("UPDATE %s", s.Table) }

// Delete is `DELETE FROM ident [WHERE ...] [LIMIT ... [OFFSET ...]]`.
type Delete struct {
	Table  string
	Where  Expression
	Limit  Expression
	Offset Expression
}

func (s *Delete) statementNode() {}
func (s *Delete) String() string { return fmt.Sprintf("DELETE FROM %s", s.Table) }

// Savepoint is `SAVEPOINT ident`.
type Savepoint struct{ Name string }

func (s *Savepoint) statementNode() {}
func (s *Savepoint) String() string { return fmt.Sprintf("SAVEPOINT %s", s.Name) }

// Commit is `COMMIT`.
type Commit struct{}

func (s *Commit) statementNode() {}
func (s *Commit) String() string { return "COMMIT" }

// Rollback is `ROLLBACK [TO ident]`.
type Rollback struct{ To string }

func (s *Rollback) statementNode() {}
func (s *Rollback) String() string {
	if s.To == "" {
		return "ROLLBACK"
	}
	return fmt.Sprintf("ROLLBACK TO %s", s.To)
}

// Literal wraps a constant Value produced directly from a lexer literal.
type Literal struct{ Value value.Value }

func (e *Literal) expressionNode() {}
func (e *Literal) String() string  { return e.Value.String() }

// Ident resolves to a column name in the current row binding.
type Ident struct{ Name string }

func (e *Ident) expressionNode() {}
func (e *Ident) String() string  { return e.Name }

// FuncCall is `name(arg, ...)`, dispatched case-insensitively by the
// evaluator (spec §4.6).
type FuncCall struct {
	Name string
	Args []Expression
}

func (e *FuncCall) expressionNode() {}
func (e *FuncCall) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// Unary is a prefix `+`, `-`, or `NOT`.
type Unary struct {
	Op      string
	Operand Expression
}

func (e *Unary) expressionNode() {}
func (e *Unary) String() string  { return fmt.Sprintf("(%s%s)", e.Op, e.Operand.String()) }

// Binary is an infix arithmetic, comparison, AND, or OR expression.
type Binary struct {
	Op    string
	Left  Expression
	Right Expression
}

func (e *Binary) expressionNode() {}
func (e *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op, e.Right.String())
}

// IsNull is `expr IS [NOT] NULL`.
type IsNull struct {
	Operand Expression
	Not     bool
}

func (e *IsNull) expressionNode() {}
func (e *IsNull) String() string {
	if e.Not {
		return fmt.Sprintf("(%s IS NOT NULL)", e.Operand.String())
	}
	return fmt.Sprintf("(%s IS NULL)", e.Operand.String())
}
