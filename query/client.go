// Package query implements the queries a statement runs: the paginated data
// query with its one-page-ahead prefetch, and the catalog queries answering
// SQLTables, SQLColumns, SQLGetTypeInfo and the other catalog functions.
package query

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/aws/smithy-go"
	"github.com/kent-id/tsodbc/diagnostic"
)

// Client is the remote query service. *timestreamquery.Client satisfies it;
// other backends adapt to the same page shape. Implementations must be safe
// for concurrent use, the prefetch worker shares the client with the caller.
type Client interface {
	Query(ctx context.Context, params *timestreamquery.QueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.QueryOutput, error)
	CancelQuery(ctx context.Context, params *timestreamquery.CancelQueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.CancelQueryOutput, error)
}

// remoteError converts a failed remote call into the error it is reported
// with: the service error name and message when the service answered.
func remoteError(err error) *diagnostic.StateError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return diagnostic.Wrap(diagnostic.SHY008OperationCanceled, err, "operation canceled")
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return diagnostic.NewError(diagnostic.SHY000GeneralError, "%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return diagnostic.NewError(diagnostic.SHY000GeneralError, "%s", err.Error())
}

// isQueryFinished reports whether a cancel failed only because the query had
// already finished.
func isQueryFinished(err error) bool {
	var ve *tstypes.ValidationException
	return errors.As(err, &ve)
}

func errTooManyEmptyPages(limit int) *diagnostic.StateError {
	return diagnostic.NewError(diagnostic.SHY000GeneralError, "too many empty pages, giving up after %d", limit)
}
