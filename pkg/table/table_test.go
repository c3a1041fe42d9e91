package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlitekit/sqlitekit/pkg/value"
)

func newUsers() *Table {
	return New("users", []ColumnDefinition{
		{Name: "id", DataType: value.Integer},
		{Name: "name", DataType: value.Text},
	})
}

func TestValidateRowWidthMismatch(t *testing.T) {
	tbl := newUsers()
	_, err := tbl.ValidateRow(Row{value.NewInteger(1)})
	assert.Error(t, err)
}

func TestValidateRowTypeMismatch(t *testing.T) {
	tbl := newUsers()
	_, err := tbl.ValidateRow(Row{value.NewInteger(1), value.NewInteger(2)})
	assert.Error(t, err)
}

func TestValidateRowAllowsNull(t *testing.T) {
	tbl := newUsers()
	row, err := tbl.ValidateRow(Row{value.NewNull(), value.NewNull()})
	require.NoError(t, err)
	assert.True(t, row[0].IsNull())
}

func TestPushAndGet(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	row, ok := tbl.Get(0)
	require.True(t, ok)
	assert.EqualValues(t, 1, row[0].Integer())
	assert.Equal(t, 1, tbl.Len())
}

func TestTransactionalEditThenCommit(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, Row{value.NewInteger(1), value.NewText("Johnny")})

	row, _ := tbl.Get(0)
	assert.Equal(t, "Johnny", row[1].Text())

	require.NoError(t, tbl.CommitRows([]int{0}))
	assert.Equal(t, 1, tbl.RowDepth(0))
}

func TestTransactionalEditThenRollback(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.BeginRowEdit(0, true)
	tbl.SetRow(0, Row{value.NewInteger(1), value.NewText("Johnny")})

	require.NoError(t, tbl.RollbackRows([]int{0}))
	row, _ := tbl.Get(0)
	assert.Equal(t, "John", row[1].Text())
}

func TestTombstoneDeleteThenCommitRemoves(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.BeginRowEdit(0, true)
	tbl.Tombstone(0)

	_, ok := tbl.Get(0)
	assert.False(t, ok)
	assert.Equal(t, 1, tbl.Len())

	require.NoError(t, tbl.CommitRows([]int{0}))
	assert.Equal(t, 0, tbl.Len())
}

func TestTombstoneDeleteThenRollbackRestores(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.BeginRowEdit(0, true)
	tbl.Tombstone(0)

	require.NoError(t, tbl.RollbackRows([]int{0}))
	row, ok := tbl.Get(0)
	require.True(t, ok)
	assert.EqualValues(t, 1, row[0].Integer())
}

func TestPushColumnExtendsExistingRows(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.PushColumn(ColumnDefinition{Name: "age", DataType: value.Integer}, false)

	assert.Equal(t, 3, tbl.Width())
	row, _ := tbl.Get(0)
	assert.Len(t, row, 3)
	assert.True(t, row[2].IsNull())
}

func TestDropColumn(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	require.NoError(t, tbl.DropColumn("name", false))

	assert.Equal(t, 1, tbl.Width())
	row, _ := tbl.Get(0)
	assert.Len(t, row, 1)
}

func TestRemoveRowsUndoesInsert(t *testing.T) {
	tbl := newUsers()
	tbl.Push(Row{value.NewInteger(1), value.NewText("John")})
	tbl.Push(Row{value.NewInteger(2), value.NewText("Jane")})

	require.NoError(t, tbl.RemoveRows([]int{1}))
	assert.Equal(t, 1, tbl.Len())
	row, _ := tbl.Get(0)
	assert.EqualValues(t, 1, row[0].Integer())
}

func TestRowCompareOrdering(t *testing.T) {
	a := Row{value.NewInteger(1), value.NewText("a")}
	b := Row{value.NewInteger(1), value.NewText("b")}
	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 0, Compare(a, a.Clone()))
}
