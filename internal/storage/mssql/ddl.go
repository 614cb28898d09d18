package mssql

import (
	"fmt"
	"strings"

	"footballetl/internal/ddl"
)

// MapType maps a logical kind into a SQL Server column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ddl.KindInt, "integer", "bigint":
		return "BIGINT"
	case ddl.KindBool, "boolean", "bit":
		return "BIT"
	case ddl.KindDate:
		return "DATE"
	case ddl.KindDateTime, "timestamp":
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

// dialect renders T-SQL. SQL Server has no CREATE TABLE IF NOT EXISTS, so
// table creation is wrapped in an OBJECT_ID guard:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (...);
//	END;
type dialect struct{ ddl.Style }

// Dialect is the SQL Server DDL dialect.
var Dialect ddl.Dialect = dialect{ddl.Style{
	Name:    "mssql ddl",
	Quote:   msIdent,
	MapType: MapType,
}}

func (d dialect) CreateTable(t ddl.TableDef) (string, error) {
	create, err := d.Style.CreateTable(t)
	if err != nil {
		return "", err
	}
	fqn := d.FQN(strings.TrimSpace(t.FQN))
	body := "  " + strings.ReplaceAll(create, "\n", "\n  ")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;",
		strings.ReplaceAll(fqn, "'", "''"), body), nil
}
