package query

import (
	"context"
	"strings"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
)

// CatalogParams are the arguments shared by the catalog functions. An empty
// pattern matches everything.
type CatalogParams struct {
	Catalog   string
	Schema    string
	Table     string
	Column    string
	TableType string
}

// TableMetadataQuery serves SQLTables.
type TableMetadataQuery struct {
	*rowSetQuery
	reader *catalogReader
	params CatalogParams
}

var tableColumns = columnsOf(
	varcharCol("TABLE_CAT"),
	varcharCol("TABLE_SCHEM"),
	varcharCol("TABLE_NAME"),
	varcharCol("TABLE_TYPE"),
	varcharCol("REMARKS"),
)

func NewTableMetadataQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable, client Client, dialect Dialect, maxEmptyPages int, params CatalogParams) *TableMetadataQuery {
	q := &TableMetadataQuery{
		reader: newCatalogReader(logger, client, dialect, maxEmptyPages),
		params: params,
	}
	q.rowSetQuery = newRowSetQuery(logger, diag, tableColumns, q.rows)
	return q
}

func (q *TableMetadataQuery) rows(ctx context.Context) ([]tstypes.Row, error) {
	p := q.params
	switch {
	case p.Catalog == "%" && p.Schema == "" && p.Table == "":
		// catalogs are not supported
		return nil, nil
	case p.Schema == "%" && p.Catalog == "" && p.Table == "":
		dbs, err := q.reader.databases(ctx, SearchPattern{})
		if err != nil {
			return nil, err
		}
		out := make([]tstypes.Row, 0, len(dbs))
		for _, db := range dbs {
			out = append(out, newRow(nil, db, nil, nil, nil))
		}
		return out, nil
	case p.TableType == "%" && p.Catalog == "" && p.Schema == "" && p.Table == "":
		return []tstypes.Row{newRow(nil, nil, nil, meta.TableTypeTable, nil)}, nil
	}

	if p.Catalog != "" && p.Catalog != "%" {
		return nil, nil
	}
	if !tableTypeRequested(p.TableType, meta.TableTypeTable) {
		return nil, nil
	}
	tables, err := q.reader.tables(ctx, NewSearchPattern(p.Schema), NewSearchPattern(p.Table))
	if err != nil {
		return nil, err
	}
	out := make([]tstypes.Row, 0, len(tables))
	for _, t := range tables {
		out = append(out, newRow(nil, t.SchemaName, t.TableName, t.TableType, t.Remarks))
	}
	return out, nil
}

// tableTypeRequested checks a comma separated, optionally quoted, table
// type list such as "'TABLE','VIEW'".
func tableTypeRequested(list, tableType string) bool {
	list = strings.TrimSpace(list)
	if list == "" || list == "%" {
		return true
	}
	for _, item := range strings.Split(list, ",") {
		item = strings.Trim(strings.TrimSpace(item), "'")
		if strings.EqualFold(item, tableType) {
			return true
		}
	}
	return false
}
