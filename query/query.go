package query

import (
	"context"

	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
)

// Query is one operation of a statement: a data query or a catalog query.
// A statement closes its current query before it starts another one.
type Query interface {
	// Execute runs the query. Executing again restarts it.
	Execute(ctx context.Context) diagnostic.Result
	// Cancel stops the query, asking the service to stop it when needed.
	Cancel(ctx context.Context) diagnostic.Result
	// Close releases the result set. It is idempotent.
	Close() diagnostic.Result
	// GetMeta returns the result set columns, nil when still unknown.
	GetMeta() meta.ColumnMetaVector
	// FetchNextRow moves to the next row and fills the bound buffers.
	FetchNextRow(ctx context.Context, bindings app.ColumnBindingMap) diagnostic.Result
	// GetColumn reads one column of the current row into buffer.
	GetColumn(idx int, buffer *app.ApplicationDataBuffer) diagnostic.Result
	// DataAvailable reports whether a current row exists.
	DataAvailable() bool
	// AffectedRows is always zero, the driver is read-only.
	AffectedRows() int64
	// NextResultSet always reports no data, there is one result set.
	NextResultSet() diagnostic.Result
	// RowNumber is the 1-based number of the current row, 0 when none.
	RowNumber() int64
}

var (
	_ Query = (*DataQuery)(nil)
	_ Query = (*TableMetadataQuery)(nil)
	_ Query = (*ColumnMetadataQuery)(nil)
	_ Query = (*TypeInfoQuery)(nil)
	_ Query = (*PrimaryKeysQuery)(nil)
	_ Query = (*ForeignKeysQuery)(nil)
	_ Query = (*StatisticsQuery)(nil)
	_ Query = (*ProceduresQuery)(nil)
	_ Query = (*ProcedureColumnsQuery)(nil)
	_ Query = (*ColumnPrivilegesQuery)(nil)
	_ Query = (*TablePrivilegesQuery)(nil)
	_ Query = (*SpecialColumnsQuery)(nil)
)
