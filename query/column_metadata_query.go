package query

import (
	"context"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/types"
)

// ColumnMetadataQuery serves SQLColumns by describing every matching table.
type ColumnMetadataQuery struct {
	*rowSetQuery
	reader *catalogReader
	params CatalogParams
}

var columnColumns = columnsOf(
	varcharCol("TABLE_CAT"),
	varcharCol("TABLE_SCHEM"),
	varcharColNoNulls("TABLE_NAME"),
	varcharColNoNulls("COLUMN_NAME"),
	smallintColNoNulls("DATA_TYPE"),
	varcharColNoNulls("TYPE_NAME"),
	integerCol("COLUMN_SIZE"),
	integerCol("BUFFER_LENGTH"),
	smallintCol("DECIMAL_DIGITS"),
	smallintCol("NUM_PREC_RADIX"),
	smallintColNoNulls("NULLABLE"),
	varcharCol("REMARKS"),
	varcharCol("COLUMN_DEF"),
	smallintColNoNulls("SQL_DATA_TYPE"),
	smallintCol("SQL_DATETIME_SUB"),
	integerCol("CHAR_OCTET_LENGTH"),
	integerColNoNulls("ORDINAL_POSITION"),
	varcharCol("IS_NULLABLE"),
)

func NewColumnMetadataQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable, client Client, dialect Dialect, maxEmptyPages int, params CatalogParams) *ColumnMetadataQuery {
	q := &ColumnMetadataQuery{
		reader: newCatalogReader(logger, client, dialect, maxEmptyPages),
		params: params,
	}
	q.rowSetQuery = newRowSetQuery(logger, diag, columnColumns, q.rows)
	return q
}

func (q *ColumnMetadataQuery) rows(ctx context.Context) ([]tstypes.Row, error) {
	if q.params.Catalog != "" && q.params.Catalog != "%" {
		return nil, nil
	}
	tables, err := q.reader.tables(ctx, NewSearchPattern(q.params.Schema), NewSearchPattern(q.params.Table))
	if err != nil {
		return nil, err
	}
	columnPattern := NewSearchPattern(q.params.Column)
	var out []tstypes.Row
	for _, t := range tables {
		cols, err := q.reader.columns(ctx, t, columnPattern)
		if err != nil {
			return nil, err
		}
		for i := range cols {
			out = append(out, columnRow(&cols[i]))
		}
	}
	return out, nil
}

func columnRow(c *meta.ColumnMeta) tstypes.Row {
	verbose, sub, hasSub := meta.VerboseType(c.DataType)
	var datetimeSub interface{}
	if hasSub {
		datetimeSub = sub
	}
	return newRow(
		nil,
		c.SchemaName,
		c.TableName,
		c.ColumnName,
		c.DataType,
		c.TypeName(),
		optionalInt32(meta.ColumnSize(c.DataType)),
		optionalInt32(meta.OctetLength(c.DataType)),
		optionalInt16(meta.DecimalDigits(c.DataType)),
		precRadix(c.DataType),
		int16(c.Nullability),
		c.Remarks,
		nil,
		verbose,
		datetimeSub,
		charOctetLength(c.DataType),
		c.OrdinalPosition,
		isNullable(c.Nullability),
	)
}

func optionalInt32(v int32) interface{} {
	if v < 0 {
		return nil
	}
	return v
}

func optionalInt16(v int16) interface{} {
	if v < 0 {
		return nil
	}
	return v
}

func precRadix(t types.SqlType) interface{} {
	if r := meta.NumPrecRadix(t); r != 0 {
		return r
	}
	return nil
}

func charOctetLength(t types.SqlType) interface{} {
	if !meta.IsCaseSensitive(t) {
		return nil
	}
	return meta.OctetLength(t)
}

func isNullable(n types.Nullability) string {
	switch n {
	case types.NoNulls:
		return "NO"
	case types.Nullable:
		return "YES"
	}
	return ""
}
