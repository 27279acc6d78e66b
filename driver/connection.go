// Package driver holds the handle objects of the driver: the environment
// arena, connections and statements. The C entry points translate their
// handles into these objects and forward every call.
package driver

import (
	"context"
	"sync"
	"time"

	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/query"
	"github.com/kent-id/tsodbc/sdk"
	"github.com/kent-id/tsodbc/sdk/athena"
	"github.com/kent-id/tsodbc/sdk/timestream"
	"github.com/kent-id/tsodbc/types"
)

// ClientFactory builds the service client of an established connection.
type ClientFactory func(ctx context.Context, cfg tsodbc.Config, logger *tsodbc.Logger) (query.Client, error)

// NewServiceClient loads the AWS configuration and builds the client of
// the configured backend.
func NewServiceClient(ctx context.Context, cfg tsodbc.Config, logger *tsodbc.Logger) (query.Client, error) {
	awsCfg, err := sdk.LoadAWSConfig(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Backend == tsodbc.BackendAthena {
		return athena.NewFromConfig(awsCfg, cfg, logger), nil
	}
	return timestream.NewFromConfig(awsCfg, cfg, logger), nil
}

// Connection owns the service client and the statements created on it.
type Connection struct {
	mu         sync.Mutex
	diag       *diagnostic.Diagnosable
	logger     *tsodbc.Logger
	newClient  ClientFactory
	cfg        tsodbc.Config
	client     query.Client
	dialect    query.Dialect
	statements map[*Statement]struct{}
}

// NewConnection creates an unconnected connection. A nil factory means
// NewServiceClient.
func NewConnection(newClient ClientFactory) *Connection {
	if newClient == nil {
		newClient = NewServiceClient
	}
	return &Connection{
		diag:       diagnostic.NewDiagnosable(nil),
		newClient:  newClient,
		statements: map[*Statement]struct{}{},
	}
}

func (c *Connection) Diag() *diagnostic.Diagnosable {
	return c.diag
}

func (c *Connection) Logger() *tsodbc.Logger {
	return c.logger
}

func (c *Connection) Config() tsodbc.Config {
	return c.cfg
}

func (c *Connection) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client != nil
}

// Establish validates cfg, sets up logging and connects to the backend.
func (c *Connection) Establish(ctx context.Context, cfg tsodbc.Config) diagnostic.Result {
	c.diag.Reset()
	return c.finish(c.establish(ctx, cfg))
}

func (c *Connection) establish(ctx context.Context, cfg tsodbc.Config) diagnostic.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.diag.AddStatusRecord(diagnostic.S08002AlreadyConnected, "Already connected.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	if err := cfg.Validate(); err != nil {
		c.diag.AddError(diagnostic.Wrap(diagnostic.S08001CannotConnect, err, "invalid connection configuration"))
		return diagnostic.Error
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		c.diag.AddError(diagnostic.Wrap(diagnostic.S08001CannotConnect, err, "cannot set up logging"))
		return diagnostic.Error
	}

	if cfg.ConnectionTimeout == 0 {
		cfg.ConnectionTimeout = c.cfg.ConnectionTimeout
	}
	if cfg.ConnectionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectionTimeout)
		defer cancel()
	}
	client, err := c.newClient(ctx, cfg, logger)
	if err != nil {
		logger.LogErrorf("cannot connect to %s: %v", cfg.Backend, err)
		_ = logger.Close()
		c.diag.AddError(diagnostic.Wrap(diagnostic.S08001CannotConnect, err, "cannot connect to %s", cfg.Backend))
		return diagnostic.Error
	}

	c.cfg = cfg
	c.client = client
	c.logger = logger
	c.dialect = query.TimestreamDialect
	if cfg.Backend == tsodbc.BackendAthena {
		c.dialect = query.AthenaDialect
	}
	c.diag.SetLogger(logger)
	logger.LogInfof("connection established, backend: %s, region: %s", cfg.Backend, cfg.Region)
	return diagnostic.Success
}

// Release closes every statement and drops the service client.
func (c *Connection) Release() diagnostic.Result {
	c.diag.Reset()
	return c.finish(c.release())
}

func (c *Connection) release() diagnostic.Result {
	c.mu.Lock()
	if c.client == nil {
		c.mu.Unlock()
		c.diag.AddStatusRecord(diagnostic.S08003NotConnected, "Connection is not open.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	statements := make([]*Statement, 0, len(c.statements))
	for s := range c.statements {
		statements = append(statements, s)
	}
	c.mu.Unlock()

	for _, s := range statements {
		s.Close()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	logger := c.logger
	c.client = nil
	c.logger = nil
	c.diag.SetLogger(nil)
	logger.LogInfof("connection released")
	if err := logger.Close(); err != nil {
		c.diag.AddStatusRecord(diagnostic.SHY000GeneralError, "Cannot flush the log: "+err.Error(), tsodbc.LogLevelWarn)
		return diagnostic.SuccessWithInfo
	}
	return diagnostic.Success
}

// CreateStatement allocates a statement on an established connection.
func (c *Connection) CreateStatement() (*Statement, diagnostic.Result) {
	c.diag.Reset()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		c.diag.AddStatusRecord(diagnostic.S08003NotConnected, "Connection is not open.", tsodbc.LogLevelError)
		return nil, c.finish(diagnostic.Error)
	}
	s := newStatement(c)
	c.statements[s] = struct{}{}
	return s, c.finish(diagnostic.Success)
}

func (c *Connection) removeStatement(s *Statement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.statements, s)
}

// session returns what a statement needs to run queries.
func (c *Connection) session() (query.Client, query.Dialect, tsodbc.Config, *tsodbc.Logger, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, c.dialect, c.cfg, c.logger, c.client != nil
}

// SetAutoCommit accepts only auto-commit on, the service has no transactions.
func (c *Connection) SetAutoCommit(on bool) diagnostic.Result {
	c.diag.Reset()
	if !on {
		c.diag.AddStatusRecord(diagnostic.SHYC00OptionalNotImplemented, "Transactions are not supported, auto-commit cannot be turned off.", tsodbc.LogLevelError)
		return c.finish(diagnostic.Error)
	}
	return c.finish(diagnostic.Success)
}

// GetAttribute reads an integer connection attribute.
func (c *Connection) GetAttribute(attr types.ConnAttr) (int64, diagnostic.Result) {
	c.diag.Reset()
	var v int64
	switch attr {
	case types.ConnAttrAccessMode:
		v = types.ModeReadOnly
	case types.ConnAttrAutoCommit:
		v = types.AutoCommitOn
	case types.ConnAttrConnectionDead:
		v = types.ConnectionDead
		if c.IsConnected() {
			v = types.ConnectionLive
		}
	case types.ConnAttrLoginTimeout, types.ConnAttrConnectionTimeout:
		c.mu.Lock()
		v = int64(c.cfg.ConnectionTimeout / time.Second)
		c.mu.Unlock()
	default:
		c.diag.AddStatusRecord(diagnostic.SHY092OptionTypeOutOfRange, "Connection attribute is not supported.", tsodbc.LogLevelError)
		return 0, c.finish(diagnostic.Error)
	}
	return v, c.finish(diagnostic.Success)
}

// SetAttribute changes an integer connection attribute.
func (c *Connection) SetAttribute(attr types.ConnAttr, value int64) diagnostic.Result {
	switch attr {
	case types.ConnAttrAutoCommit:
		return c.SetAutoCommit(value != types.AutoCommitOff)
	}
	c.diag.Reset()
	switch attr {
	case types.ConnAttrAccessMode:
		if value != types.ModeReadOnly {
			c.diag.AddStatusRecord(diagnostic.S01S02OptionValueChanged, "The connection is read-only.", tsodbc.LogLevelWarn)
			return c.finish(diagnostic.SuccessWithInfo)
		}
		return c.finish(diagnostic.Success)
	case types.ConnAttrLoginTimeout, types.ConnAttrConnectionTimeout:
		if value < 0 {
			c.diag.AddStatusRecord(diagnostic.SHY024InvalidAttributeValue, "Timeout must not be negative.", tsodbc.LogLevelError)
			return c.finish(diagnostic.Error)
		}
		c.mu.Lock()
		c.cfg.ConnectionTimeout = time.Duration(value) * time.Second
		c.mu.Unlock()
		return c.finish(diagnostic.Success)
	}
	c.diag.AddStatusRecord(diagnostic.SHY092OptionTypeOutOfRange, "Connection attribute is not supported.", tsodbc.LogLevelError)
	return c.finish(diagnostic.Error)
}

func (c *Connection) finish(res diagnostic.Result) diagnostic.Result {
	c.diag.SetHeaderRecord(res)
	return res
}
