package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlitekit/sqlitekit/pkg/parser"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

func parseExpr(t *testing.T, sql string) parser.Expression {
	t.Helper()
	items := parser.ParseBatch("SELECT " + sql + " FROM t;")
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	sel := items[0].Statement.(*parser.Select)
	return sel.Cores[0].Columns[0]
}

func binding(t *testing.T, columns []string, row ...value.Value) Binding {
	t.Helper()
	return Binding{Columns: columns, Row: table.Row(row)}
}

func TestEvalArithmeticPrecedence(t *testing.T) {
	v, err := Eval(parseExpr(t, "1 + 2 * 3"), Binding{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.Integer())
}

func TestEvalColumnLookup(t *testing.T) {
	b := binding(t, []string{"id", "name"}, value.NewInteger(42), value.NewText("Jane"))
	v, err := Eval(parseExpr(t, "name"), b)
	require.NoError(t, err)
	assert.Equal(t, "Jane", v.Text())
}

func TestEvalUnknownColumnErrors(t *testing.T) {
	_, err := Eval(parseExpr(t, "missing"), Binding{})
	assert.Error(t, err)
}

func TestEvalEqualsNullIsUnknown(t *testing.T) {
	b := binding(t, []string{"x"}, value.NewNull())
	v, err := Eval(parseExpr(t, "x = 1"), b)
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalIsNullPredicate(t *testing.T) {
	b := binding(t, []string{"x"}, value.NewNull())
	v, err := Eval(parseExpr(t, "x IS NULL"), b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Integer())

	v, err = Eval(parseExpr(t, "x IS NOT NULL"), b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Integer())
}

func TestEvalThreeValuedAnd(t *testing.T) {
	b := binding(t, []string{"x"}, value.NewNull())
	v, err := Eval(parseExpr(t, "x = 1 AND 1 = 0"), b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v.Integer()) // Null AND false = false
}

func TestEvalThreeValuedOr(t *testing.T) {
	b := binding(t, []string{"x"}, value.NewNull())
	v, err := Eval(parseExpr(t, "x = 1 OR 1 = 1"), b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Integer()) // Null OR true = true
}

func TestEvalDivideByZeroIsNull(t *testing.T) {
	v, err := Eval(parseExpr(t, "1 / 0"), Binding{})
	require.NoError(t, err)
	assert.True(t, v.IsNull())
}

func TestEvalJulianDayFunction(t *testing.T) {
	v, err := Eval(parseExpr(t, "JulianDay('2025-12-12 12:00:00')"), Binding{})
	require.NoError(t, err)
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.InDelta(t, 2461022.0, f, 1e-4)
}

func TestEvalDateWithOffsetModifier(t *testing.T) {
	v, err := Eval(parseExpr(t, "Date('2025-12-12 12:00:00', '+0000-00-01 00:00:01')"), Binding{})
	require.NoError(t, err)
	assert.Equal(t, "2025-12-13", v.Text())
}

func TestEvalDateTimeWithYearsModifier(t *testing.T) {
	v, err := Eval(parseExpr(t, "DateTime('2025-12-12 12:00:00', '10 years')"), Binding{})
	require.NoError(t, err)
	assert.Equal(t, "2035-12-12 12:00:00", v.Text())
}

func TestEvalUnaryMinus(t *testing.T) {
	v, err := Eval(parseExpr(t, "-5"), Binding{})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), v.Integer())
}

func TestEvalUnknownFunctionErrors(t *testing.T) {
	_, err := Eval(parseExpr(t, "NoSuchFn(1)"), Binding{})
	assert.Error(t, err)
}
