package driver

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/query"
	"github.com/kent-id/tsodbc/types"
)

// Statement runs one query at a time and moves its rows into the
// application's bound buffers.
type Statement struct {
	conn *Connection
	diag *diagnostic.Diagnosable

	query    query.Query
	prepared bool

	bindings         app.ColumnBindingMap
	rowArraySize     int64
	rowBindType      int64
	rowBindOffsetPtr *int64
	rowsFetchedPtr   *int64
	rowStatusPtr     *uint16
	queryTimeout     time.Duration
}

// ColumnDescription is the SQLDescribeCol view of a result column.
type ColumnDescription struct {
	Name          string
	DataType      types.SqlType
	ColumnSize    int64
	DecimalDigits int16
	Nullable      types.Nullability
}

func newStatement(conn *Connection) *Statement {
	return &Statement{
		conn:         conn,
		diag:         diagnostic.NewDiagnosable(conn.logger),
		bindings:     app.ColumnBindingMap{},
		rowArraySize: 1,
	}
}

func (s *Statement) Diag() *diagnostic.Diagnosable {
	return s.diag
}

// call resets the diagnostics, runs f and records its result in the header.
func (s *Statement) call(f func() diagnostic.Result) diagnostic.Result {
	s.diag.Reset()
	res := f()
	s.diag.SetHeaderRecord(res)
	return res
}

// BindColumn binds a buffer to the 1-based column col. A nil buffer and
// indicator unbind the column.
func (s *Statement) BindColumn(col int, cType types.CType, buffer unsafe.Pointer, bufferLen int64, resLenInd *int64) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if col < 1 {
			s.diag.AddStatusRecord(diagnostic.S07009InvalidDescriptorIndex, fmt.Sprintf("Column number %d is out of range.", col), tsodbc.LogLevelError)
			return diagnostic.Error
		}
		if buffer == nil && resLenInd == nil {
			delete(s.bindings, col)
			return diagnostic.Success
		}
		nativeType := types.ToNativeType(cType)
		if nativeType == types.NativeUnsupported {
			s.diag.AddStatusRecord(diagnostic.SHY003InvalidApplicationType, fmt.Sprintf("C type %d is not supported.", cType), tsodbc.LogLevelError)
			return diagnostic.Error
		}
		if bufferLen < 0 {
			s.diag.AddStatusRecord(diagnostic.SHY090InvalidStringOrBufferLen, "Buffer length must not be negative.", tsodbc.LogLevelError)
			return diagnostic.Error
		}
		s.bindings[col] = app.NewApplicationDataBuffer(nativeType, buffer, bufferLen, resLenInd)
		return diagnostic.Success
	})
}

func (s *Statement) UnbindColumn(col int) {
	delete(s.bindings, col)
}

func (s *Statement) UnbindAllColumns() {
	s.bindings = app.ColumnBindingMap{}
}

// BindParameter always fails, the service takes no parameters.
func (s *Statement) BindParameter(int, types.CType, types.SqlType, unsafe.Pointer, int64, *int64) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		s.diag.AddStatusRecord(diagnostic.SHYC00OptionalNotImplemented, "Query parameters are not supported.", tsodbc.LogLevelError)
		return diagnostic.Error
	})
}

// SetAttribute sets an integer statement attribute.
func (s *Statement) SetAttribute(attr types.StmtAttr, value int64) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		switch attr {
		case types.StmtAttrRowArraySize:
			if value < 1 {
				s.diag.AddStatusRecord(diagnostic.SHY024InvalidAttributeValue, "Row array size must be positive.", tsodbc.LogLevelError)
				return diagnostic.Error
			}
			s.rowArraySize = value
		case types.StmtAttrRowBindType:
			if value < 0 {
				s.diag.AddStatusRecord(diagnostic.SHY024InvalidAttributeValue, "Row bind type must not be negative.", tsodbc.LogLevelError)
				return diagnostic.Error
			}
			s.rowBindType = value
		case types.StmtAttrQueryTimeout:
			if value < 0 {
				s.diag.AddStatusRecord(diagnostic.SHY024InvalidAttributeValue, "Query timeout must not be negative.", tsodbc.LogLevelError)
				return diagnostic.Error
			}
			s.queryTimeout = time.Duration(value) * time.Second
		case types.StmtAttrCursorType:
			if value != types.CursorForwardOnly {
				s.diag.AddStatusRecord(diagnostic.S01S02OptionValueChanged, "Only forward-only cursors are supported.", tsodbc.LogLevelWarn)
				return diagnostic.SuccessWithInfo
			}
		case types.StmtAttrConcurrency:
			if value != types.ConcurReadOnly {
				s.diag.AddStatusRecord(diagnostic.S01S02OptionValueChanged, "Only read-only concurrency is supported.", tsodbc.LogLevelWarn)
				return diagnostic.SuccessWithInfo
			}
		case types.StmtAttrParamsetSize:
			if value != 1 {
				s.diag.AddStatusRecord(diagnostic.SHYC00OptionalNotImplemented, "Parameter arrays are not supported.", tsodbc.LogLevelError)
				return diagnostic.Error
			}
		default:
			s.diag.AddStatusRecord(diagnostic.SHY092OptionTypeOutOfRange, fmt.Sprintf("Statement attribute %d is not supported.", attr), tsodbc.LogLevelError)
			return diagnostic.Error
		}
		return diagnostic.Success
	})
}

// GetAttribute reads an integer statement attribute.
func (s *Statement) GetAttribute(attr types.StmtAttr) (int64, diagnostic.Result) {
	var v int64
	res := s.call(func() diagnostic.Result {
		switch attr {
		case types.StmtAttrRowArraySize:
			v = s.rowArraySize
		case types.StmtAttrRowBindType:
			v = s.rowBindType
		case types.StmtAttrQueryTimeout:
			v = int64(s.queryTimeout / time.Second)
		case types.StmtAttrCursorType:
			v = types.CursorForwardOnly
		case types.StmtAttrConcurrency:
			v = types.ConcurReadOnly
		case types.StmtAttrParamsetSize:
			v = 1
		case types.StmtAttrRowNumber:
			v = s.RowNumber()
		default:
			s.diag.AddStatusRecord(diagnostic.SHY092OptionTypeOutOfRange, fmt.Sprintf("Statement attribute %d is not supported.", attr), tsodbc.LogLevelError)
			return diagnostic.Error
		}
		return diagnostic.Success
	})
	return v, res
}

// SetRowBindOffsetPtr sets SQL_ATTR_ROW_BIND_OFFSET_PTR.
func (s *Statement) SetRowBindOffsetPtr(ptr *int64) {
	s.rowBindOffsetPtr = ptr
}

// SetRowsFetchedPtr sets SQL_ATTR_ROWS_FETCHED_PTR.
func (s *Statement) SetRowsFetchedPtr(ptr *int64) {
	s.rowsFetchedPtr = ptr
}

// SetRowStatusPtr sets SQL_ATTR_ROW_STATUS_PTR, an array of row array size
// elements.
func (s *Statement) SetRowStatusPtr(ptr *uint16) {
	s.rowStatusPtr = ptr
}

// replaceQuery closes the current query before installing q.
func (s *Statement) replaceQuery(q query.Query) {
	if s.query != nil {
		s.query.Close()
	}
	s.query = q
	s.prepared = false
}

func (s *Statement) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout > 0 {
		return context.WithTimeout(ctx, s.queryTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *Statement) session() (query.Client, query.Dialect, tsodbc.Config, *tsodbc.Logger, bool) {
	client, dialect, cfg, logger, ok := s.conn.session()
	if !ok {
		s.diag.AddStatusRecord(diagnostic.S08003NotConnected, "Connection is not open.", tsodbc.LogLevelError)
	}
	return client, dialect, cfg, logger, ok
}

// PrepareSqlQuery sets up sql for a later ExecuteSqlQuery without sending it.
func (s *Statement) PrepareSqlQuery(sql string) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		return s.prepare(sql)
	})
}

func (s *Statement) prepare(sql string) diagnostic.Result {
	client, _, cfg, logger, ok := s.session()
	if !ok {
		return diagnostic.Error
	}
	s.replaceQuery(query.NewDataQuery(logger, s.diag, client, query.DataQueryParams{
		MaxRowsPerPage: cfg.MaxRowsPerPage,
		MaxEmptyPages:  cfg.EmptyPageLimit(),
	}, sql))
	s.prepared = true
	return diagnostic.Success
}

// ExecuteSqlQuery prepares and runs sql.
func (s *Statement) ExecuteSqlQuery(ctx context.Context, sql string) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if res := s.prepare(sql); res != diagnostic.Success {
			return res
		}
		return s.execute(ctx)
	})
}

// Execute runs the prepared query.
func (s *Statement) Execute(ctx context.Context) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		return s.execute(ctx)
	})
}

func (s *Statement) execute(ctx context.Context) diagnostic.Result {
	if s.query == nil || !s.prepared {
		s.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Query is not prepared.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	res := s.query.Execute(ctx)
	if res == diagnostic.NoData {
		// an empty result set is still a result set
		return diagnostic.Success
	}
	return res
}

// runCatalogQuery replaces the current query by q and executes it.
func (s *Statement) runCatalogQuery(ctx context.Context, q query.Query) diagnostic.Result {
	s.replaceQuery(q)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.query.Execute(ctx)
}

func (s *Statement) catalogQuery(ctx context.Context, build func(client query.Client, dialect query.Dialect, cfg tsodbc.Config, logger *tsodbc.Logger) query.Query) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		client, dialect, cfg, logger, ok := s.session()
		if !ok {
			return diagnostic.Error
		}
		return s.runCatalogQuery(ctx, build(client, dialect, cfg, logger))
	})
}

// ExecuteGetTablesMetaQuery runs SQLTables.
func (s *Statement) ExecuteGetTablesMetaQuery(ctx context.Context, catalog, schema, table, tableType string) diagnostic.Result {
	return s.catalogQuery(ctx, func(client query.Client, dialect query.Dialect, cfg tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewTableMetadataQuery(logger, s.diag, client, dialect, cfg.EmptyPageLimit(), query.CatalogParams{
			Catalog: catalog, Schema: schema, Table: table, TableType: tableType,
		})
	})
}

// ExecuteGetColumnsMetaQuery runs SQLColumns.
func (s *Statement) ExecuteGetColumnsMetaQuery(ctx context.Context, catalog, schema, table, column string) diagnostic.Result {
	return s.catalogQuery(ctx, func(client query.Client, dialect query.Dialect, cfg tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewColumnMetadataQuery(logger, s.diag, client, dialect, cfg.EmptyPageLimit(), query.CatalogParams{
			Catalog: catalog, Schema: schema, Table: table, Column: column,
		})
	})
}

// ExecuteGetTypeInfoQuery runs SQLGetTypeInfo.
func (s *Statement) ExecuteGetTypeInfoQuery(ctx context.Context, sqlType types.SqlType) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewTypeInfoQuery(logger, s.diag, sqlType)
	})
}

func (s *Statement) ExecuteGetPrimaryKeysQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewPrimaryKeysQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetForeignKeysQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewForeignKeysQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetStatisticsQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewStatisticsQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetProceduresQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewProceduresQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetProcedureColumnsQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewProcedureColumnsQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetColumnPrivilegesQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewColumnPrivilegesQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteGetTablePrivilegesQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewTablePrivilegesQuery(logger, s.diag)
	})
}

func (s *Statement) ExecuteSpecialColumnsQuery(ctx context.Context) diagnostic.Result {
	return s.catalogQuery(ctx, func(_ query.Client, _ query.Dialect, _ tsodbc.Config, logger *tsodbc.Logger) query.Query {
		return query.NewSpecialColumnsQuery(logger, s.diag)
	})
}

// FetchRow fetches the next rowset.
func (s *Statement) FetchRow(ctx context.Context) diagnostic.Result {
	return s.FetchScroll(ctx, types.FetchNext, 0)
}

// FetchScroll fetches the next rowset; the cursor is forward-only, so
// SQL_FETCH_NEXT is the only orientation.
func (s *Statement) FetchScroll(ctx context.Context, orientation int16, _ int64) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if orientation != types.FetchNext {
			s.diag.AddStatusRecord(diagnostic.SHY106FetchTypeOutOfRange, "Only SQL_FETCH_NEXT is supported.", tsodbc.LogLevelError)
			return diagnostic.Error
		}
		if s.query == nil {
			s.diag.AddStatusRecord(diagnostic.S24000InvalidCursorState, "No result set is open.", tsodbc.LogLevelError)
			return diagnostic.Error
		}
		// waiting for the next page counts against the query timeout
		ctx, cancel := s.withTimeout(ctx)
		defer cancel()
		return s.fetchRowset(ctx)
	})
}

func (s *Statement) fetchRowset(ctx context.Context) diagnostic.Result {
	var statuses []uint16
	if s.rowStatusPtr != nil {
		statuses = unsafe.Slice(s.rowStatusPtr, s.rowArraySize)
	}
	var bindOffset int64
	if s.rowBindOffsetPtr != nil {
		bindOffset = *s.rowBindOffsetPtr
	}
	defer s.positionBindings(bindOffset, 0)

	var fetched, failed, withInfo int64
	result := diagnostic.Success
	for i := int64(0); i < s.rowArraySize; i++ {
		s.positionBindings(bindOffset, i)
		res := s.query.FetchNextRow(ctx, s.bindings)
		if res == diagnostic.NoData || (res == diagnostic.Error && !s.query.DataAvailable()) {
			if res == diagnostic.Error {
				result = diagnostic.Error
			}
			break
		}
		fetched++
		status := types.RowSuccess
		switch res {
		case diagnostic.SuccessWithInfo:
			status = types.RowSuccessWithInfo
			withInfo++
		case diagnostic.Error:
			status = types.RowError
			failed++
		}
		if statuses != nil {
			statuses[i] = status
		}
	}
	for i := fetched; statuses != nil && i < s.rowArraySize; i++ {
		statuses[i] = types.RowNoRow
	}
	if s.rowsFetchedPtr != nil {
		*s.rowsFetchedPtr = fetched
	}

	switch {
	case fetched == 0 && result == diagnostic.Error:
		return diagnostic.Error
	case fetched == 0:
		return diagnostic.NoData
	case failed == fetched:
		return diagnostic.Error
	case failed > 0 || withInfo > 0 || result == diagnostic.Error:
		return diagnostic.SuccessWithInfo
	}
	return diagnostic.Success
}

// positionBindings points every binding at row i of the rowset. Column-wise
// arrays step by element, row-wise bindings step by the row size.
func (s *Statement) positionBindings(bindOffset, i int64) {
	for _, b := range s.bindings {
		if s.rowBindType > 0 {
			b.SetByteOffset(bindOffset + i*s.rowBindType)
			b.SetElementOffset(0)
		} else {
			b.SetByteOffset(bindOffset)
			b.SetElementOffset(i)
		}
	}
}

// GetColumnData reads column col of the current row, as SQLGetData does.
func (s *Statement) GetColumnData(col int, cType types.CType, buffer unsafe.Pointer, bufferLen int64, resLenInd *int64) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if s.query == nil || !s.query.DataAvailable() {
			s.diag.AddStatusRecord(diagnostic.S24000InvalidCursorState, "Cursor has no data.", tsodbc.LogLevelError)
			return diagnostic.Error
		}
		nativeType := types.ToNativeType(cType)
		if nativeType == types.NativeUnsupported {
			s.diag.AddStatusRecord(diagnostic.SHY003InvalidApplicationType, fmt.Sprintf("C type %d is not supported.", cType), tsodbc.LogLevelError)
			return diagnostic.Error
		}
		return s.query.GetColumn(col, app.NewApplicationDataBuffer(nativeType, buffer, bufferLen, resLenInd))
	})
}

// columns returns the result set columns, probing the service when a
// prepared query has not run yet.
func (s *Statement) columns(ctx context.Context) (meta.ColumnMetaVector, diagnostic.Result) {
	if s.query == nil {
		s.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Query is not prepared or executed.", tsodbc.LogLevelError)
		return nil, diagnostic.Error
	}
	columns := s.query.GetMeta()
	if columns == nil {
		if dq, ok := s.query.(*query.DataQuery); ok {
			ctx, cancel := s.withTimeout(ctx)
			defer cancel()
			if res := dq.FetchMeta(ctx); res == diagnostic.Error {
				return nil, res
			}
			columns = dq.GetMeta()
		}
	}
	return columns, diagnostic.Success
}

// GetColumnNumber is the number of result set columns.
func (s *Statement) GetColumnNumber(ctx context.Context) (int16, diagnostic.Result) {
	var n int16
	res := s.call(func() diagnostic.Result {
		columns, res := s.columns(ctx)
		n = int16(len(columns))
		return res
	})
	return n, res
}

func (s *Statement) column(ctx context.Context, col int) (*meta.ColumnMeta, diagnostic.Result) {
	columns, res := s.columns(ctx)
	if res != diagnostic.Success {
		return nil, res
	}
	column, ok := columns.Column(col)
	if !ok {
		s.diag.AddStatusRecord(diagnostic.S07009InvalidDescriptorIndex, fmt.Sprintf("Column number %d is out of range.", col), tsodbc.LogLevelError)
		return nil, diagnostic.Error
	}
	return column, diagnostic.Success
}

// DescribeColumn serves SQLDescribeCol.
func (s *Statement) DescribeColumn(ctx context.Context, col int) (ColumnDescription, diagnostic.Result) {
	var desc ColumnDescription
	res := s.call(func() diagnostic.Result {
		column, res := s.column(ctx, col)
		if res != diagnostic.Success {
			return res
		}
		desc = ColumnDescription{
			Name:          column.ColumnName,
			DataType:      column.DataType,
			ColumnSize:    int64(meta.ColumnSize(column.DataType)),
			DecimalDigits: meta.DecimalDigits(column.DataType),
			Nullable:      column.Nullability,
		}
		if desc.ColumnSize < 0 {
			desc.ColumnSize = 0
		}
		if desc.DecimalDigits < 0 {
			desc.DecimalDigits = 0
		}
		return diagnostic.Success
	})
	return desc, res
}

// GetColumnAttribute serves SQLColAttribute. Character fields fill str,
// numeric fields fill num.
func (s *Statement) GetColumnAttribute(ctx context.Context, col int, field types.ColAttr) (str string, num int64, res diagnostic.Result) {
	res = s.call(func() diagnostic.Result {
		if field == types.ColAttrCount {
			columns, res := s.columns(ctx)
			num = int64(len(columns))
			return res
		}
		column, res := s.column(ctx, col)
		if res != diagnostic.Success {
			return res
		}
		if v, ok := column.GetStringAttribute(field); ok {
			str = v
			return diagnostic.Success
		}
		if v, ok := column.GetNumericAttribute(field); ok {
			num = v
			return diagnostic.Success
		}
		s.diag.AddStatusRecord(diagnostic.SHY091InvalidDescriptorField, fmt.Sprintf("Column attribute %d is not supported.", field), tsodbc.LogLevelError)
		return diagnostic.Error
	})
	return str, num, res
}

// Cancel stops the running query.
func (s *Statement) Cancel(ctx context.Context) diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if s.query == nil {
			return diagnostic.Success
		}
		return s.query.Cancel(ctx)
	})
}

// Close closes the cursor; the prepared query stays.
func (s *Statement) Close() diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if s.query == nil {
			return diagnostic.Success
		}
		return s.query.Close()
	})
}

// MoreResults serves SQLMoreResults, there is only one result set.
func (s *Statement) MoreResults() diagnostic.Result {
	return s.call(func() diagnostic.Result {
		if s.query == nil {
			return diagnostic.NoData
		}
		return s.query.NextResultSet()
	})
}

// AffectedRows serves SQLRowCount.
func (s *Statement) AffectedRows() (int64, diagnostic.Result) {
	var n int64
	res := s.call(func() diagnostic.Result {
		if s.query == nil {
			s.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Query was not executed.", tsodbc.LogLevelError)
			return diagnostic.Error
		}
		n = s.query.AffectedRows()
		return diagnostic.Success
	})
	return n, res
}

// RowNumber is the 1-based number of the current row, 0 when there is none.
func (s *Statement) RowNumber() int64 {
	if s.query == nil {
		return 0
	}
	return s.query.RowNumber()
}

// Free closes the query and detaches the statement from its connection.
func (s *Statement) Free() {
	if s.query != nil {
		s.query.Close()
		s.query = nil
	}
	s.conn.removeStatement(s)
}
