package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlitekit/sqlitekit/pkg/database"
	"github.com/sqlitekit/sqlitekit/pkg/table"
	"github.com/sqlitekit/sqlitekit/pkg/value"
)

func newPopulatedDB(t *testing.T) *database.Database {
	t.Helper()
	db := database.New()
	require.NoError(t, db.CreateTable(table.New("users", []table.ColumnDefinition{
		{Name: "id", DataType: value.Integer, Constraints: []string{"PRIMARY KEY"}},
		{Name: "name", DataType: value.Text},
	})))
	require.NoError(t, db.CreateTable(table.New("orders", []table.ColumnDefinition{
		{Name: "total", DataType: value.Real},
	})))
	return db
}

func TestSnapshotCapturesTablesInOrder(t *testing.T) {
	db := newPopulatedDB(t)
	s, err := Snapshot(db)
	require.NoError(t, err)
	require.Len(t, s.Tables, 2)
	assert.Equal(t, "users", s.Tables[0].Name)
	assert.Equal(t, "orders", s.Tables[1].Name)

	col, ok := s.Tables[0].GetColumn("id")
	require.True(t, ok)
	assert.Equal(t, value.Integer, col.DataType)
	assert.Equal(t, []string{"PRIMARY KEY"}, col.Constraints)
}

func TestYAMLRoundTrip(t *testing.T) {
	db := newPopulatedDB(t)
	s, err := Snapshot(db)
	require.NoError(t, err)

	data, err := s.ToYAML()
	require.NoError(t, err)

	reloaded, err := LoadFromYAML(data)
	require.NoError(t, err)
	require.Len(t, reloaded.Tables, 2)
	assert.Equal(t, "users", reloaded.Tables[0].Name)
	col, ok := reloaded.Tables[0].GetColumn("name")
	require.True(t, ok)
	assert.Equal(t, value.Text, col.DataType)
}

func TestJSONRoundTrip(t *testing.T) {
	db := newPopulatedDB(t)
	s, err := Snapshot(db)
	require.NoError(t, err)

	data, err := s.ToJSON()
	require.NoError(t, err)

	reloaded, err := LoadFromJSON(data)
	require.NoError(t, err)
	require.Len(t, reloaded.Tables, 2)
	assert.Equal(t, "orders", reloaded.Tables[1].Name)
}

func TestApplyRecreatesEmptyTables(t *testing.T) {
	db := newPopulatedDB(t)
	s, err := Snapshot(db)
	require.NoError(t, err)

	fresh := database.New()
	require.NoError(t, s.Apply(fresh))

	tbl, err := fresh.Table("users")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, []string{"id", "name"}, tbl.ColumnNames())
}

func TestLoadFromYAMLRejectsUnknownType(t *testing.T) {
	_, err := LoadFromYAML([]byte(`
tables:
  - name: t
    columns:
      - name: x
        type: NOTATYPE
`))
	assert.Error(t, err)
}

func TestLoaderCachesByName(t *testing.T) {
	db := newPopulatedDB(t)
	s, err := Snapshot(db)
	require.NoError(t, err)

	l := NewLoader()
	assert.False(t, l.HasSchema("fixture"))
	l.AddSchema("fixture", s)
	assert.True(t, l.HasSchema("FIXTURE"))

	got, ok := l.GetSchema("Fixture")
	require.True(t, ok)
	assert.Len(t, got.Tables, 2)
}

func TestSchemaValidateRejectsOutOfRangeType(t *testing.T) {
	s := &Schema{Tables: []Table{{Name: "t", Columns: []Column{{Name: "x", DataType: value.Type(99)}}}}}
	assert.Error(t, s.Validate())
}
