package query

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/util"
)

// DataQueryParams carries the connection settings a data query uses.
type DataQueryParams struct {
	// MaxRowsPerPage is sent as page size hint when positive.
	MaxRowsPerPage int32
	// MaxEmptyPages bounds consecutive empty pages carrying a token.
	MaxEmptyPages int
}

// DataQuery runs one SQL statement against the service. The first page is
// fetched synchronously, every following page is prefetched by a worker
// goroutine one page ahead of the consumer. Cancel and Close may be called
// from another goroutine while a fetch waits for a page.
type DataQuery struct {
	mu sync.Mutex

	// execMu guards stopExec, which aborts the request of a running Execute.
	execMu   sync.Mutex
	stopExec context.CancelFunc

	logger *tsodbc.Logger
	diag   *diagnostic.Diagnosable
	client Client
	params DataQueryParams

	sql        string
	resultMeta meta.ColumnMetaVector
	request    timestreamquery.QueryInput
	queryID    string
	cursor     *Cursor
	executed   bool

	handoff        *pageHandoff
	workerCtx      context.Context
	cancelWorkers  context.CancelFunc
	workerDone     chan struct{}
	hasAsyncFetch  bool
	workersStarted int

	rowCounter int64
}

// NewDataQuery creates a query for sql; nothing is sent until Execute.
func NewDataQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable, client Client, params DataQueryParams, sql string) *DataQuery {
	if params.MaxEmptyPages <= 0 {
		params.MaxEmptyPages = tsodbc.DefaultMaxEmptyPages
	}
	return &DataQuery{
		logger: logger,
		diag:   diag,
		client: client,
		params: params,
		sql:    sql,
	}
}

// Sql returns the query text.
func (q *DataQuery) Sql() string {
	return q.sql
}

// QueryID returns the service identifier of the running query.
func (q *DataQuery) QueryID() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queryID
}

// WorkersStarted counts the prefetch workers started so far.
func (q *DataQuery) WorkersStarted() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.workersStarted
}

func (q *DataQuery) Execute(ctx context.Context) diagnostic.Result {
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	q.execMu.Lock()
	q.stopExec = stop
	q.execMu.Unlock()
	defer func() {
		q.execMu.Lock()
		q.stopExec = nil
		q.execMu.Unlock()
	}()

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.executed {
		q.internalClose()
	}
	return q.makeRequestExecute(ctx)
}

func (q *DataQuery) newRequest() timestreamquery.QueryInput {
	req := timestreamquery.QueryInput{QueryString: aws.String(q.sql)}
	if q.params.MaxRowsPerPage > 0 {
		req.MaxRows = aws.Int32(q.params.MaxRowsPerPage)
	}
	return req
}

func (q *DataQuery) makeRequestExecute(ctx context.Context) diagnostic.Result {
	if q.cancelWorkers != nil {
		q.cancelWorkers()
	}
	q.request = q.newRequest()
	q.handoff = newPageHandoff()
	q.workerCtx, q.cancelWorkers = context.WithCancel(context.WithoutCancel(ctx))
	q.rowCounter = 0

	for emptyPages := 0; ; emptyPages++ {
		q.logger.LogDebugf("executing query, page token present: %t, sql: %s", q.request.NextToken != nil, q.sql)
		out, err := q.client.Query(ctx, &q.request)
		if err != nil {
			q.logger.LogErrorf("query failed: %v", err)
			q.diag.AddError(remoteError(err))
			return diagnostic.Error
		}
		q.queryID = util.SafeString(out.QueryId)
		if res := q.readMeta(out); res == diagnostic.Error {
			return res
		}

		token := util.SafeString(out.NextToken)
		if len(out.Rows) == 0 {
			if token == "" {
				q.logger.LogInfof("query %s returned no data", q.queryID)
				q.executed = true
				return diagnostic.NoData
			}
			if emptyPages >= q.params.MaxEmptyPages {
				q.diag.AddError(errTooManyEmptyPages(q.params.MaxEmptyPages))
				return diagnostic.Error
			}
			q.request.NextToken = aws.String(token)
			continue
		}

		q.cursor = NewCursor(out.Rows, q.resultMeta)
		q.executed = true
		if token != "" {
			q.request.NextToken = aws.String(token)
			q.startPrefetch()
		}
		return diagnostic.Success
	}
}

// readMeta populates the result set columns once.
func (q *DataQuery) readMeta(out *timestreamquery.QueryOutput) diagnostic.Result {
	if q.resultMeta != nil || len(out.ColumnInfo) == 0 {
		return diagnostic.Success
	}
	columns, err := meta.NewResultMeta(out.ColumnInfo)
	if err != nil {
		q.diag.AddError(diagnostic.Wrap(diagnostic.SHY000GeneralError, err, "cannot read result set metadata"))
		return diagnostic.Error
	}
	q.resultMeta = columns
	return diagnostic.Success
}

// startPrefetch starts the worker fetching the page q.request points at.
// The previous worker is joined first, so at most one is alive. Nothing is
// started once the handoff is closed.
func (q *DataQuery) startPrefetch() {
	q.joinWorker()
	if q.handoff.isClosed() {
		q.hasAsyncFetch = false
		return
	}

	req := q.request
	handoff := q.handoff
	ctx := q.workerCtx
	client := q.client
	logger := q.logger
	done := make(chan struct{})

	q.workerDone = done
	q.workersStarted++
	q.hasAsyncFetch = true
	logger.LogDebugf("starting prefetch worker %d for query %s", q.workersStarted, q.queryID)

	go func() {
		defer close(done)
		out, err := client.Query(ctx, &req)
		if !handoff.put(pageOutcome{output: out, err: err}) {
			logger.LogDebugf("prefetch worker exits on close")
		}
	}()
}

func (q *DataQuery) joinWorker() {
	if q.workerDone != nil {
		<-q.workerDone
		q.workerDone = nil
	}
}

// switchCursor replaces the exhausted cursor by the prefetched page. q.mu
// is released while waiting, so a concurrent Cancel can close the query.
func (q *DataQuery) switchCursor(ctx context.Context) diagnostic.Result {
	for emptyPages := 0; ; emptyPages++ {
		handoff := q.handoff
		q.mu.Unlock()
		outcome, err := handoff.take(ctx)
		q.mu.Lock()
		if errors.Is(err, errHandoffClosed) || q.handoff != handoff || handoff.isClosed() {
			q.diag.AddStatusRecord(diagnostic.SHY008OperationCanceled, "Query was canceled.", tsodbc.LogLevelInfo)
			return diagnostic.Error
		}
		if err != nil {
			q.diag.AddError(remoteError(err))
			return diagnostic.Error
		}
		q.joinWorker()

		if outcome.err != nil {
			q.logger.LogErrorf("prefetching page failed after %d rows: %v", q.rowCounter, outcome.err)
			q.diag.AddError(remoteError(outcome.err))
			q.cursor = nil
			q.hasAsyncFetch = false
			return diagnostic.Error
		}

		out := outcome.output
		if res := q.readMeta(out); res == diagnostic.Error {
			q.cursor = nil
			q.hasAsyncFetch = false
			return res
		}
		token := util.SafeString(out.NextToken)
		if len(out.Rows) == 0 {
			if token == "" {
				q.cursor = nil
				q.hasAsyncFetch = false
				return diagnostic.NoData
			}
			if emptyPages >= q.params.MaxEmptyPages {
				q.diag.AddError(errTooManyEmptyPages(q.params.MaxEmptyPages))
				q.cursor = nil
				q.hasAsyncFetch = false
				return diagnostic.Error
			}
			q.request.NextToken = aws.String(token)
			q.startPrefetch()
			continue
		}

		q.cursor = NewCursor(out.Rows, q.resultMeta)
		if token != "" {
			q.request.NextToken = aws.String(token)
			q.startPrefetch()
		} else {
			q.hasAsyncFetch = false
		}
		return diagnostic.Success
	}
}

func (q *DataQuery) FetchNextRow(ctx context.Context, bindings app.ColumnBindingMap) diagnostic.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.executed {
		q.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Query was not executed.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	if q.cursor == nil || !q.cursor.Increment() {
		if !q.hasAsyncFetch {
			return diagnostic.NoData
		}
		if res := q.switchCursor(ctx); res != diagnostic.Success {
			return res
		}
		if !q.cursor.Increment() {
			return diagnostic.NoData
		}
	}
	q.rowCounter++
	return writeRow(q.diag, q.cursor, q.resultMeta, bindings, q.rowCounter)
}

func (q *DataQuery) GetColumn(idx int, buffer *app.ApplicationDataBuffer) diagnostic.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	return readColumn(q.diag, q.cursor, q.resultMeta, idx, buffer, q.rowCounter)
}

// FetchMeta learns the result set columns without executing the query for
// the application, as SQLDescribeCol after SQLPrepare needs. The probe asks
// for a single row and cancels the remote query when more are pending.
func (q *DataQuery) FetchMeta(ctx context.Context) diagnostic.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.resultMeta != nil {
		return diagnostic.Success
	}
	req := q.newRequest()
	req.MaxRows = aws.Int32(1)
	out, err := q.client.Query(ctx, &req)
	if err != nil {
		q.diag.AddError(remoteError(err))
		return diagnostic.Error
	}
	if out.NextToken != nil && out.QueryId != nil {
		if _, err := q.client.CancelQuery(ctx, &timestreamquery.CancelQueryInput{QueryId: out.QueryId}); err != nil && !isQueryFinished(err) {
			q.logger.LogWarnf("cannot cancel metadata probe %s: %v", *out.QueryId, err)
		}
	}
	return q.readMeta(out)
}

func (q *DataQuery) Cancel(ctx context.Context) diagnostic.Result {
	q.execMu.Lock()
	if q.stopExec != nil {
		q.stopExec()
	}
	q.execMu.Unlock()

	q.mu.Lock()
	defer q.mu.Unlock()
	result := diagnostic.Success
	if q.hasAsyncFetch && q.queryID != "" {
		q.logger.LogInfof("canceling query %s", q.queryID)
		_, err := q.client.CancelQuery(ctx, &timestreamquery.CancelQueryInput{QueryId: aws.String(q.queryID)})
		switch {
		case err == nil:
		case isQueryFinished(err):
			q.logger.LogInfof("query %s already finished: %v", q.queryID, err)
		default:
			q.diag.AddError(remoteError(err))
			result = diagnostic.Error
		}
	}
	q.internalClose()
	return result
}

func (q *DataQuery) Close() diagnostic.Result {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.internalClose()
	return diagnostic.Success
}

// internalClose stops prefetching and drops the result set. Metadata stays.
func (q *DataQuery) internalClose() {
	if q.handoff != nil {
		q.handoff.close()
	}
	if q.cancelWorkers != nil {
		q.cancelWorkers()
	}
	q.joinWorker()
	if q.handoff != nil {
		q.handoff.drain()
	}
	q.cursor = nil
	q.hasAsyncFetch = false
	q.executed = false
}

func (q *DataQuery) GetMeta() meta.ColumnMetaVector {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resultMeta
}

func (q *DataQuery) DataAvailable() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dataAvailable()
}

func (q *DataQuery) dataAvailable() bool {
	return q.cursor != nil && q.cursor.HasData()
}

func (q *DataQuery) AffectedRows() int64 {
	return 0
}

func (q *DataQuery) NextResultSet() diagnostic.Result {
	return diagnostic.NoData
}

func (q *DataQuery) RowNumber() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.dataAvailable() {
		return 0
	}
	return q.rowCounter
}
