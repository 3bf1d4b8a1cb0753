package database

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ColumnInfo matches the output of SHOW COLUMNS.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// Primary reports whether the column is part of the primary key.
func (c ColumnInfo) Primary() bool { return c.Key == "PRI" }

// GoType maps the SQL column type to the Go type values are exposed as.
// Unknown types map to string.
func (c ColumnInfo) GoType() reflect.Type {
	t := c.Type
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "tinyint":
		if strings.HasPrefix(c.Type, "tinyint(1)") {
			return reflect.TypeFor[bool]()
		}
		return reflect.TypeFor[int64]()
	case "int", "integer", "smallint", "mediumint", "bigint":
		return reflect.TypeFor[int64]()
	case "float", "double", "decimal", "numeric", "real":
		return reflect.TypeFor[float64]()
	case "bool", "boolean":
		return reflect.TypeFor[bool]()
	case "date", "datetime", "timestamp":
		return reflect.TypeFor[time.Time]()
	default:
		return reflect.TypeFor[string]()
	}
}

// GetTableColumns retrieves the column definitions for a given table.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	var columns []ColumnInfo
	if db.Dialector.Name() == "sqlite" {
		type sqliteColumn struct {
			Cid       int
			Name      string
			Type      string
			Notnull   int
			DfltValue *string
			Pk        int
		}
		var sqliteCols []sqliteColumn
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&sqliteCols).Error; err != nil {
			return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
		}
		for _, col := range sqliteCols {
			info := ColumnInfo{
				Field:   strings.ToLower(col.Name),
				Type:    strings.ToLower(col.Type),
				Null:    "YES",
				Default: col.DfltValue,
			}
			if col.Notnull == 1 {
				info.Null = "NO"
			}
			if col.Pk > 0 {
				info.Key = "PRI"
			}
			columns = append(columns, info)
		}
		return columns, nil
	}

	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Type = strings.ToLower(columns[i].Type)
		columns[i].Field = strings.ToLower(columns[i].Field)
	}
	return columns, nil
}

// ListTables returns the table names of the connected database.
func ListTables(db *gorm.DB) ([]string, error) {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	// sqlite bookkeeping tables (sqlite_sequence) are not user data
	return slices.DeleteFunc(tables, func(t string) bool {
		return strings.HasPrefix(t, "sqlite_")
	}), nil
}
