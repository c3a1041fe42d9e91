package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTable(t *testing.T) {
	items := ParseBatch(`CREATE TABLE users (id INTEGER, name TEXT, age INTEGER, money REAL);`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	ct, ok := items[0].Statement.(*CreateTable)
	require.True(t, ok)
	assert.Equal(t, "users", ct.Table)
	assert.Len(t, ct.Columns, 4)
}

func TestParseInsertMultipleTuples(t *testing.T) {
	items := ParseBatch(`INSERT INTO users VALUES (1,'John',25,1000.0),(2,'Jane',30,2000.0);`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	ins, ok := items[0].Statement.(*Insert)
	require.True(t, ok)
	assert.Len(t, ins.Tuples, 2)
	assert.Len(t, ins.Tuples[0], 4)
}

func TestParseSelectWithWhere(t *testing.T) {
	items := ParseBatch(`SELECT * FROM users WHERE id = 1;`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	sel, ok := items[0].Statement.(*Select)
	require.True(t, ok)
	require.Len(t, sel.Cores, 1)
	assert.True(t, sel.Cores[0].Star)
	assert.NotNil(t, sel.Cores[0].Where)
}

func TestParseCompoundSelectWithOrderBy(t *testing.T) {
	items := ParseBatch(`(SELECT id,name FROM users WHERE id>1 INTERSECT SELECT id,name FROM users WHERE id<4) ORDER BY name ASC, id DESC;`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	sel, ok := items[0].Statement.(*Select)
	require.True(t, ok)
	require.Len(t, sel.Cores, 2)
	require.Len(t, sel.SetOps, 1)
	assert.Equal(t, SetOpIntersect, sel.SetOps[0])
	require.Len(t, sel.OrderBy, 2)
	assert.False(t, sel.OrderBy[0].Desc)
	assert.True(t, sel.OrderBy[1].Desc)
}

func TestParseDeleteWithLimitOffset(t *testing.T) {
	items := ParseBatch(`DELETE FROM users WHERE id >= 2 LIMIT 1 OFFSET 2;`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	del, ok := items[0].Statement.(*Delete)
	require.True(t, ok)
	assert.NotNil(t, del.Limit)
	assert.NotNil(t, del.Offset)
}

func TestParseUpdate(t *testing.T) {
	items := ParseBatch(`UPDATE users SET money = 2000.0 WHERE id = 1;`)
	require.Len(t, items, 1)
	require.NoError(t, items[0].Err)
	upd, ok := items[0].Statement.(*Update)
	require.True(t, ok)
	assert.Len(t, upd.Assignments, 1)
}

func TestParseSavepointCommitRollback(t *testing.T) {
	items := ParseBatch(`SAVEPOINT s1; COMMIT; ROLLBACK TO s1; ROLLBACK;`)
	require.Len(t, items, 4)
	for _, item := range items {
		require.NoError(t, item.Err)
	}
	sp, ok := items[0].Statement.(*Savepoint)
	require.True(t, ok)
	assert.Equal(t, "s1", sp.Name)
	_, ok = items[1].Statement.(*Commit)
	assert.True(t, ok)
	rb, ok := items[2].Statement.(*Rollback)
	require.True(t, ok)
	assert.Equal(t, "s1", rb.To)
	rb2, ok := items[3].Statement.(*Rollback)
	require.True(t, ok)
	assert.Equal(t, "", rb2.To)
}

func TestParseErrorPrecisionMatchesSpecScenario(t *testing.T) {
	items := ParseBatch(`SELECT * users;`)
	require.Len(t, items, 1)
	require.Error(t, items[0].Err)
	pe, ok := items[0].Err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, 1, pe.Line)
	assert.Equal(t, 9, pe.Column)
	assert.Equal(t, "Unexpected value: users", pe.Message)
}

func TestBatchIsolatesErrorsPerStatement(t *testing.T) {
	items := ParseBatch(`SELECT * users; SELECT * FROM users;`)
	require.Len(t, items, 2)
	assert.Error(t, items[0].Err)
	require.NoError(t, items[1].Err)
	_, ok := items[1].Statement.(*Select)
	assert.True(t, ok)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	items := ParseBatch(`SELECT 1 + 2 * 3 FROM t;`)
	require.NoError(t, items[0].Err)
	sel := items[0].Statement.(*Select)
	bin, ok := sel.Cores[0].Columns[0].(*Binary)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	mul, ok := bin.Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseIsNullPredicate(t *testing.T) {
	items := ParseBatch(`SELECT * FROM t WHERE x IS NOT NULL;`)
	require.NoError(t, items[0].Err)
	sel := items[0].Statement.(*Select)
	isNull, ok := sel.Cores[0].Where.(*IsNull)
	require.True(t, ok)
	assert.True(t, isNull.Not)
}

func TestParseFunctionCall(t *testing.T) {
	items := ParseBatch(`SELECT JulianDay('2025-12-12 12:00:00') FROM t;`)
	require.NoError(t, items[0].Err)
	sel := items[0].Statement.(*Select)
	call, ok := sel.Cores[0].Columns[0].(*FuncCall)
	require.True(t, ok)
	assert.Equal(t, "JulianDay", call.Name)
	assert.Len(t, call.Args, 1)
}
