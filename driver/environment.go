package driver

import (
	"sync"

	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
)

// Handle is the opaque value handed to the application for a connection
// or a statement. Zero is never allocated.
type Handle uintptr

// Environment hands out connection and statement handles and resolves them
// back to their objects.
type Environment struct {
	mu          sync.Mutex
	diag        *diagnostic.Diagnosable
	next        Handle
	connections map[Handle]*Connection
	statements  map[Handle]*Statement
	owners      map[Handle]Handle
}

func NewEnvironment() *Environment {
	return &Environment{
		diag:        diagnostic.NewDiagnosable(nil),
		connections: map[Handle]*Connection{},
		statements:  map[Handle]*Statement{},
		owners:      map[Handle]Handle{},
	}
}

func (e *Environment) Diag() *diagnostic.Diagnosable {
	return e.diag
}

func (e *Environment) allocHandle() Handle {
	e.next++
	return e.next
}

// AllocConnection creates a connection whose clients come from newClient,
// nil meaning NewServiceClient.
func (e *Environment) AllocConnection(newClient ClientFactory) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.allocHandle()
	e.connections[h] = NewConnection(newClient)
	return h
}

// Connection resolves a connection handle.
func (e *Environment) Connection(h Handle) (*Connection, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.connections[h]
	return c, ok
}

// FreeConnection frees a connection handle. A connection that is still
// established must be released first.
func (e *Environment) FreeConnection(h Handle) diagnostic.Result {
	e.diag.Reset()
	res := e.freeConnection(h)
	e.diag.SetHeaderRecord(res)
	return res
}

func (e *Environment) freeConnection(h Handle) diagnostic.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.connections[h]
	if !ok {
		return diagnostic.InvalidHandle
	}
	if c.IsConnected() {
		e.diag.AddStatusRecord(diagnostic.SHY010SequenceError, "Connection must be released before it is freed.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	for sh, owner := range e.owners {
		if owner == h {
			e.statements[sh].Free()
			delete(e.statements, sh)
			delete(e.owners, sh)
		}
	}
	delete(e.connections, h)
	return diagnostic.Success
}

// AllocStatement creates a statement on the established connection h.
func (e *Environment) AllocStatement(h Handle) (Handle, diagnostic.Result) {
	c, ok := e.Connection(h)
	if !ok {
		return 0, diagnostic.InvalidHandle
	}
	s, res := c.CreateStatement()
	if res != diagnostic.Success {
		return 0, res
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	sh := e.allocHandle()
	e.statements[sh] = s
	e.owners[sh] = h
	return sh, diagnostic.Success
}

// Statement resolves a statement handle.
func (e *Environment) Statement(h Handle) (*Statement, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.statements[h]
	return s, ok
}

// FreeStatement closes the statement's query and frees its handle.
func (e *Environment) FreeStatement(h Handle) diagnostic.Result {
	e.mu.Lock()
	s, ok := e.statements[h]
	delete(e.statements, h)
	delete(e.owners, h)
	e.mu.Unlock()
	if !ok {
		return diagnostic.InvalidHandle
	}
	s.Free()
	return diagnostic.Success
}
