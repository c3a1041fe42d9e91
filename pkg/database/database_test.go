package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

func newUsersDB(t *testing.T) (*Database, *table.Table) {
	t.Helper()
	db := New()
	tbl := table.New("users", []table.ColumnDefinition{
		{Name: "id", DataType: value.Integer},
		{Name: "name", DataType: value.Text},
	})
	require.NoError(t, db.CreateTable(tbl))
	return db, tbl
}

func TestTableNamesPreservesCreationOrder(t *testing.T) {
	db := New()
	require.NoError(t, db.CreateTable(table.New("b", []table.ColumnDefinition{{Name: "x", DataType: value.Integer}})))
	require.NoError(t, db.CreateTable(table.New("a", []table.ColumnDefinition{{Name: "x", DataType: value.Integer}})))
	assert.Equal(t, []string{"b", "a"}, db.TableNames())
}

func TestCreateTableDuplicate(t *testing.T) {
	db, _ := newUsersDB(t)
	dup := table.New("users", []table.ColumnDefinition{{Name: "x", DataType: value.Integer}})
	assert.Error(t, db.CreateTable(dup))
}

func TestCommitCollapsesRowStacks(t *testing.T) {
	db, tbl := newUsersDB(t)
	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})

	db.Savepoint("s1")
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, table.Row{value.NewInteger(1), value.NewText("Johnny")})
	db.RecordMutation("users", []int{0})

	require.NoError(t, db.Commit())
	assert.Equal(t, 1, tbl.RowDepth(0))
	row, _ := tbl.Get(0)
	assert.Equal(t, "Johnny", row[1].Text())
}

func TestRollbackToSavepointRestoresState(t *testing.T) {
	db, tbl := newUsersDB(t)
	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})

	db.Savepoint("s1")
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, table.Row{value.NewInteger(1), value.NewText("Johnny")})
	db.RecordMutation("users", []int{0})

	require.NoError(t, db.RollbackTo("s1"))
	row, _ := tbl.Get(0)
	assert.Equal(t, "John", row[1].Text())
	assert.False(t, db.InTransaction())
}

func TestRollbackToUnknownSavepointErrors(t *testing.T) {
	db, _ := newUsersDB(t)
	assert.Error(t, db.RollbackTo("nope"))
}

func TestRollbackOutsideTransactionErrors(t *testing.T) {
	db, _ := newUsersDB(t)
	assert.Error(t, db.Rollback())
}

func TestTombstoneDeleteRollback(t *testing.T) {
	db, tbl := newUsersDB(t)
	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})

	db.Savepoint("s1")
	tbl.BeginRowEdit(0, true)
	tbl.Tombstone(0)
	db.RecordMutation("users", []int{0})

	_, ok := tbl.Get(0)
	assert.False(t, ok)

	require.NoError(t, db.RollbackTo("s1"))
	_, ok = tbl.Get(0)
	assert.True(t, ok)
}

func TestRollbackUndoesInsert(t *testing.T) {
	db, tbl := newUsersDB(t)
	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})

	db.Savepoint("s1")
	tbl.Push(table.Row{value.NewInteger(2), value.NewText("Jane")})
	db.RecordInsert("users", []int{1})

	require.Equal(t, 2, tbl.Len())
	require.NoError(t, db.RollbackTo("s1"))
	assert.Equal(t, 1, tbl.Len())
	row, _ := tbl.Get(0)
	assert.Equal(t, "John", row[1].Text())
}

func TestRollbackUndoesInsertThenEdit(t *testing.T) {
	db, tbl := newUsersDB(t)
	db.Savepoint("s1")

	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})
	db.RecordInsert("users", []int{0})

	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, table.Row{value.NewInteger(1), value.NewText("Johnny")})
	db.RecordMutation("users", []int{0})

	require.NoError(t, db.RollbackTo("s1"))
	assert.Equal(t, 0, tbl.Len())
}

func TestNestedSavepointsRollbackInnerOnly(t *testing.T) {
	db, tbl := newUsersDB(t)
	tbl.Push(table.Row{value.NewInteger(1), value.NewText("John")})

	db.Savepoint("outer")
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, table.Row{value.NewInteger(1), value.NewText("Mid")})
	db.RecordMutation("users", []int{0})

	db.Savepoint("inner")
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, table.Row{value.NewInteger(1), value.NewText("Deep")})
	db.RecordMutation("users", []int{0})

	require.NoError(t, db.RollbackTo("inner"))
	row, _ := tbl.Get(0)
	assert.Equal(t, "Mid", row[1].Text())
	assert.True(t, db.InTransaction())
}
