package query

import (
	"context"
	"strconv"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/util"
)

// rowSetQuery serves a result set built in memory. The catalog queries embed
// it and supply the builder.
type rowSetQuery struct {
	logger   *tsodbc.Logger
	diag     *diagnostic.Diagnosable
	columns  meta.ColumnMetaVector
	build    func(ctx context.Context) ([]tstypes.Row, error)
	cursor   *Cursor
	executed bool
	rowCount int64
}

func newRowSetQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable, columns meta.ColumnMetaVector, build func(ctx context.Context) ([]tstypes.Row, error)) *rowSetQuery {
	if build == nil {
		build = func(context.Context) ([]tstypes.Row, error) { return nil, nil }
	}
	return &rowSetQuery{logger: logger, diag: diag, columns: columns, build: build}
}

func (q *rowSetQuery) Execute(ctx context.Context) diagnostic.Result {
	q.Close()
	rows, err := q.build(ctx)
	if err != nil {
		q.logger.LogErrorf("catalog query failed: %v", err)
		q.diag.AddError(err)
		return diagnostic.Error
	}
	q.cursor = NewCursor(rows, q.columns)
	q.executed = true
	q.logger.LogDebugf("catalog query returned %d rows", len(rows))
	return diagnostic.Success
}

func (q *rowSetQuery) Cancel(context.Context) diagnostic.Result {
	return q.Close()
}

func (q *rowSetQuery) Close() diagnostic.Result {
	q.cursor = nil
	q.executed = false
	q.rowCount = 0
	return diagnostic.Success
}

func (q *rowSetQuery) GetMeta() meta.ColumnMetaVector {
	return q.columns
}

func (q *rowSetQuery) FetchNextRow(_ context.Context, bindings app.ColumnBindingMap) diagnostic.Result {
	if !q.executed {
		q.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Query was not executed.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	if !q.cursor.Increment() {
		return diagnostic.NoData
	}
	q.rowCount++
	return writeRow(q.diag, q.cursor, q.columns, bindings, q.rowCount)
}

func (q *rowSetQuery) GetColumn(idx int, buffer *app.ApplicationDataBuffer) diagnostic.Result {
	return readColumn(q.diag, q.cursor, q.columns, idx, buffer, q.rowCount)
}

func (q *rowSetQuery) DataAvailable() bool {
	return q.cursor != nil && q.cursor.HasData()
}

func (q *rowSetQuery) AffectedRows() int64 {
	return 0
}

func (q *rowSetQuery) NextResultSet() diagnostic.Result {
	return diagnostic.NoData
}

func (q *rowSetQuery) RowNumber() int64 {
	if !q.DataAvailable() {
		return 0
	}
	return q.rowCount
}

// columnDef is one column of a catalog result set.
type columnDef struct {
	name        string
	dataType    types.SqlType
	nullability types.Nullability
}

func columnsOf(defs ...columnDef) meta.ColumnMetaVector {
	out := make(meta.ColumnMetaVector, 0, len(defs))
	for i, d := range defs {
		m := meta.NewColumnMeta("", "", d.name, d.dataType, d.nullability)
		m.OrdinalPosition = int32(i + 1)
		out = append(out, m)
	}
	return out
}

func varcharCol(name string) columnDef {
	return columnDef{name, types.SqlTypeVarchar, types.Nullable}
}

func varcharColNoNulls(name string) columnDef {
	return columnDef{name, types.SqlTypeVarchar, types.NoNulls}
}

func smallintCol(name string) columnDef {
	return columnDef{name, types.SqlTypeSmallint, types.Nullable}
}

func smallintColNoNulls(name string) columnDef {
	return columnDef{name, types.SqlTypeSmallint, types.NoNulls}
}

func integerCol(name string) columnDef {
	return columnDef{name, types.SqlTypeInteger, types.Nullable}
}

// newRow builds a row from Go values; nil becomes NULL.
func newRow(values ...interface{}) tstypes.Row {
	row := tstypes.Row{Data: make([]tstypes.Datum, 0, len(values))}
	for _, v := range values {
		row.Data = append(row.Data, newDatum(v))
	}
	return row
}

func newDatum(v interface{}) tstypes.Datum {
	switch x := v.(type) {
	case nil:
		return tstypes.Datum{NullValue: util.RefBool(true)}
	case string:
		return tstypes.Datum{ScalarValue: util.RefString(x)}
	case *string:
		if x == nil {
			return tstypes.Datum{NullValue: util.RefBool(true)}
		}
		return tstypes.Datum{ScalarValue: x}
	case bool:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.FormatBool(x))}
	case int:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.Itoa(x))}
	case int16:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.Itoa(int(x)))}
	case int32:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.Itoa(int(x)))}
	case int64:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.FormatInt(x, 10))}
	case types.SqlType:
		return tstypes.Datum{ScalarValue: util.RefString(strconv.Itoa(int(x)))}
	}
	return tstypes.Datum{NullValue: util.RefBool(true)}
}

func integerColNoNulls(name string) columnDef {
	return columnDef{name, types.SqlTypeInteger, types.NoNulls}
}
