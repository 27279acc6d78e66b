package meta

import (
	"fmt"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/util"
)

// TableTypeTable is the only table type the service has.
const TableTypeTable = "TABLE"

// TableMeta describes one table as returned by SQLTables.
type TableMeta struct {
	CatalogName string
	SchemaName  string
	TableName   string
	TableType   string
	Remarks     string
}

// Read fills the table from one row of `SHOW TABLES FROM "db"` output.
func (m *TableMeta) Read(schema string, row tstypes.Row) error {
	if len(row.Data) == 0 {
		return fmt.Errorf("table row for database %s has no fields", schema)
	}
	name := util.SafeString(row.Data[0].ScalarValue)
	if name == "" {
		return fmt.Errorf("table row for database %s has no name", schema)
	}
	m.SchemaName = schema
	m.TableName = name
	m.TableType = TableTypeTable
	return nil
}
