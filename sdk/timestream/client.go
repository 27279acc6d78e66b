// Package timestream connects the query engine to Amazon Timestream.
package timestream

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/timestreamquery"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/util"
)

// API is the part of *timestreamquery.Client the driver calls.
type API interface {
	Query(ctx context.Context, params *timestreamquery.QueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.QueryOutput, error)
	CancelQuery(ctx context.Context, params *timestreamquery.CancelQueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.CancelQueryOutput, error)
}

// Client logs every page request and forwards it to the service.
type Client struct {
	api    API
	logger *tsodbc.Logger
}

// New wraps api.
func New(api API, logger *tsodbc.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// NewFromConfig creates the service client for a connection.
func NewFromConfig(awsCfg aws.Config, cfg tsodbc.Config, logger *tsodbc.Logger) *Client {
	logger.LogInfof("creating timestream client, region: %s, endpoint: %q", cfg.Region, cfg.Endpoint)
	return New(timestreamquery.NewFromConfig(awsCfg, endpointOptions(cfg.Endpoint)), logger)
}

// endpointOptions points the client at a fixed endpoint, which also turns
// endpoint discovery off.
func endpointOptions(endpoint string) func(*timestreamquery.Options) {
	return func(o *timestreamquery.Options) {
		if endpoint == "" {
			return
		}
		o.BaseEndpoint = aws.String(endpoint)
		o.EndpointDiscovery.EnableEndpointDiscovery = aws.EndpointDiscoveryDisabled
	}
}

func (c *Client) Query(ctx context.Context, params *timestreamquery.QueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.QueryOutput, error) {
	c.logger.LogDebugf("query request, next token present: %t, max rows: %d", params.NextToken != nil, util.SafeInt32(params.MaxRows))
	out, err := c.api.Query(ctx, params, optFns...)
	if err != nil {
		c.logger.LogErrorf("query request failed: %v", err)
		return nil, err
	}
	c.logger.LogDebugf("query %s returned %d rows, next token present: %t", util.SafeString(out.QueryId), len(out.Rows), out.NextToken != nil)
	return out, nil
}

func (c *Client) CancelQuery(ctx context.Context, params *timestreamquery.CancelQueryInput, optFns ...func(*timestreamquery.Options)) (*timestreamquery.CancelQueryOutput, error) {
	c.logger.LogInfof("canceling query %s", util.SafeString(params.QueryId))
	return c.api.CancelQuery(ctx, params, optFns...)
}
