package database

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT NOT NULL, created_at DATETIME)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	colMap := make(map[string]ColumnInfo)
	for _, col := range columns {
		colMap[col.Field] = col
	}

	assert.Equal(t, "integer", colMap["id"].Type)
	assert.True(t, colMap["id"].Primary())
	assert.Equal(t, "text", colMap["name"].Type)
	assert.Equal(t, "NO", colMap["name"].Null)
	assert.False(t, colMap["name"].Primary())
	assert.Equal(t, "datetime", colMap["created_at"].Type)

	// PRAGMA table_info returns an empty result for unknown tables.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)

	tables, err := ListTables(db)
	require.NoError(t, err)
	assert.Contains(t, tables, "test_items")
}

func TestColumnGoType(t *testing.T) {
	cases := map[string]reflect.Type{
		"int(11)":         reflect.TypeFor[int64](),
		"bigint unsigned": reflect.TypeFor[int64](),
		"tinyint(1)":      reflect.TypeFor[bool](),
		"tinyint(4)":      reflect.TypeFor[int64](),
		"decimal(10,2)":   reflect.TypeFor[float64](),
		"datetime":        reflect.TypeFor[time.Time](),
		"varchar(255)":    reflect.TypeFor[string](),
		"text":            reflect.TypeFor[string](),
		"json":            reflect.TypeFor[string](),
	}
	for typ, want := range cases {
		assert.Equal(t, want, ColumnInfo{Type: typ}.GoType(), typ)
	}
}
