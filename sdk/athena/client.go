// Package athena runs queries on Amazon Athena and serves the results in the
// page shape of the Timestream query API, so the query engine can page
// through them the same way.
package athena

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	"github.com/google/uuid"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/util"
)

const (
	maxAllowedPageSize = 1000 // max allowed by athena

	tokenSeparator = ":"
)

// API is the part of *athena.Client the driver calls.
type API interface {
	StartQueryExecution(ctx context.Context, params *athena.StartQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(ctx context.Context, params *athena.GetQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.GetQueryExecutionOutput, error)
	GetQueryResults(ctx context.Context, params *athena.GetQueryResultsInput, optFns ...func(*athena.Options)) (*athena.GetQueryResultsOutput, error)
	StopQueryExecution(ctx context.Context, params *athena.StopQueryExecutionInput, optFns ...func(*athena.Options)) (*athena.StopQueryExecutionOutput, error)
}

// Client answers Timestream style page requests from Athena. The first
// request starts the execution and waits for it; the continuation token
// carries the execution id along with Athena's own token.
type Client struct {
	api            API
	logger         *tsodbc.Logger
	workgroup      string
	database       string
	catalog        string
	outputLocation string
	waitInterval   time.Duration
	maxPageSize    int32
}

// New creates a client running queries in the workgroup, database and
// catalog of cfg.
func New(api API, cfg tsodbc.AthenaConfig, logger *tsodbc.Logger) *Client {
	waitInterval := cfg.PollInterval
	if waitInterval <= 0 {
		waitInterval = time.Second
	}
	logger.LogInfof("creating athena client with workgroup: %s, database: %s, catalog: %s, pageSize: %d", cfg.Workgroup, cfg.Database, cfg.Catalog, maxAllowedPageSize)
	return &Client{
		api:            api,
		logger:         logger,
		workgroup:      cfg.Workgroup,
		database:       cfg.Database,
		catalog:        cfg.Catalog,
		outputLocation: cfg.OutputLocation,
		waitInterval:   waitInterval,
		maxPageSize:    maxAllowedPageSize,
	}
}

// NewFromConfig creates the service client for a connection.
func NewFromConfig(awsCfg aws.Config, cfg tsodbc.Config, logger *tsodbc.Logger) *Client {
	api := athena.NewFromConfig(awsCfg, func(o *athena.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return New(api, cfg.Athena, logger)
}

func (c *Client) Query(ctx context.Context, params *timestreamquery.QueryInput, _ ...func(*timestreamquery.Options)) (*timestreamquery.QueryOutput, error) {
	pageSize := c.maxPageSize
	if n := util.SafeInt32(params.MaxRows); n > 0 && n < pageSize {
		pageSize = n
	}

	if token := util.SafeString(params.NextToken); token != "" {
		executionID, athenaToken, ok := strings.Cut(token, tokenSeparator)
		if !ok || executionID == "" || athenaToken == "" {
			return nil, fmt.Errorf("malformed continuation token: %q", token)
		}
		return c.fetchPage(ctx, executionID, athenaToken, pageSize, false)
	}

	executionID, err := c.startQueryAndGetExecutionID(ctx, util.SafeString(params.QueryString))
	if err != nil {
		return nil, err
	}
	execution, err := c.waitQueryAndGetExecution(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if execution.Status.State != types.QueryExecutionStateSucceeded {
		reason := util.SafeString(execution.Status.StateChangeReason)
		return nil, fmt.Errorf("query execution failed with status: %s, reason: %s", execution.Status.State, reason)
	}

	// only DML results start with a header row
	hasHeader := execution.StatementType == types.StatementTypeDml
	if hasHeader && pageSize < c.maxPageSize {
		pageSize++
	}
	return c.fetchPage(ctx, executionID, "", pageSize, hasHeader)
}

func (c *Client) CancelQuery(ctx context.Context, params *timestreamquery.CancelQueryInput, _ ...func(*timestreamquery.Options)) (*timestreamquery.CancelQueryOutput, error) {
	c.logger.LogInfof("stopping query execution %s", util.SafeString(params.QueryId))
	_, err := c.api.StopQueryExecution(ctx, &athena.StopQueryExecutionInput{QueryExecutionId: params.QueryId})
	if err != nil {
		return nil, err
	}
	return &timestreamquery.CancelQueryOutput{}, nil
}

// startQueryAndGetExecutionID starts query execution and get the execution id to identify the running query in Athena.
func (c *Client) startQueryAndGetExecutionID(ctx context.Context, sqlQuery string) (string, error) {
	input := athena.StartQueryExecutionInput{
		QueryExecutionContext: &types.QueryExecutionContext{
			Database: util.RefStringOrNil(c.database),
			Catalog:  util.RefStringOrNil(c.catalog),
		},
		WorkGroup:          util.RefStringOrNil(c.workgroup),
		QueryString:        util.RefString(sqlQuery),
		ClientRequestToken: util.RefString(uuid.NewString()),
	}
	if c.outputLocation != "" {
		input.ResultConfiguration = &types.ResultConfiguration{OutputLocation: util.RefString(c.outputLocation)}
	}

	output, err := c.api.StartQueryExecution(ctx, &input)
	if err != nil {
		return "", err
	}
	executionID := util.SafeString(output.QueryExecutionId)
	c.logger.LogInfof("started query with ExecutionID: %s", executionID)
	return executionID, nil
}

// waitQueryAndGetExecution waits until query execution finishes.
func (c *Client) waitQueryAndGetExecution(ctx context.Context, executionID string) (*types.QueryExecution, error) {
	input := athena.GetQueryExecutionInput{QueryExecutionId: aws.String(executionID)}
	for {
		output, err := c.api.GetQueryExecution(ctx, &input)
		if err != nil {
			return nil, err
		}
		execution := output.QueryExecution
		if execution == nil || execution.Status == nil {
			return nil, fmt.Errorf("query execution %s has no status", executionID)
		}
		state := execution.Status.State
		if state != types.QueryExecutionStateRunning && state != types.QueryExecutionStateQueued {
			c.logger.LogInfof("stopped query execution with state: %s", state)
			return execution, nil
		}
		c.logger.LogDebugf("still awaiting query results with state: %s, waitInterval: %s", state, c.waitInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.waitInterval):
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, executionID, athenaToken string, pageSize int32, skipHeader bool) (*timestreamquery.QueryOutput, error) {
	input := athena.GetQueryResultsInput{
		QueryExecutionId: aws.String(executionID),
		MaxResults:       util.RefInt32(pageSize),
		NextToken:        util.RefStringOrNil(athenaToken),
	}
	output, err := c.api.GetQueryResults(ctx, &input)
	if err != nil {
		return nil, err
	}

	page := &timestreamquery.QueryOutput{QueryId: aws.String(executionID)}
	if output.ResultSet != nil {
		rows := output.ResultSet.Rows
		// skip header row if first page results
		if skipHeader && len(rows) > 0 {
			rows = rows[1:]
		}
		page.ColumnInfo = columnInfos(output.ResultSet.ResultSetMetadata)
		page.Rows = convertRows(rows)
	}
	if token := util.SafeString(output.NextToken); token != "" {
		page.NextToken = aws.String(executionID + tokenSeparator + token)
		c.logger.LogDebugf("fetched %d rows of %s, more pages pending", len(page.Rows), executionID)
	} else {
		c.logger.LogInfof("finished fetching results from athena for %s", executionID)
	}
	return page, nil
}
