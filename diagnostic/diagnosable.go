package diagnostic

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kent-id/tsodbc"
)

// RowNumberUnknown and ColumnNumberUnknown fill the row and column fields of
// records not tied to a position.
const (
	RowNumberUnknown    int64 = -2
	ColumnNumberUnknown int32 = -2
)

// Record is one diagnostic record of a handle.
type Record struct {
	State        SqlState
	Message      string
	Level        tsodbc.LogLevel
	RowNumber    int64
	ColumnNumber int32
}

func (r Record) String() string {
	return fmt.Sprintf("[%s] %s", r.State, r.Message)
}

// Diagnosable is the record list attached to an environment, connection or
// statement handle. Every API call starts by resetting it.
type Diagnosable struct {
	mu       sync.Mutex
	logger   *tsodbc.Logger
	retCode  Result
	rowCount int64
	records  []Record
}

// NewDiagnosable creates an empty record list logging through logger.
func NewDiagnosable(logger *tsodbc.Logger) *Diagnosable {
	return &Diagnosable{logger: logger}
}

// SetLogger replaces the logger, e.g. once a connection is established.
func (d *Diagnosable) SetLogger(logger *tsodbc.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger
}

// Reset clears records and header before a new call.
func (d *Diagnosable) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = d.records[:0]
	d.retCode = Success
	d.rowCount = 0
}

// AddStatusRecord appends a record without position.
func (d *Diagnosable) AddStatusRecord(state SqlState, message string, level tsodbc.LogLevel) {
	d.AddPositionedRecord(state, message, level, RowNumberUnknown, ColumnNumberUnknown)
}

// AddPositionedRecord appends a record for a row and column.
func (d *Diagnosable) AddPositionedRecord(state SqlState, message string, level tsodbc.LogLevel, row int64, column int32) {
	d.mu.Lock()
	d.records = append(d.records, Record{
		State:        state,
		Message:      message,
		Level:        level,
		RowNumber:    row,
		ColumnNumber: column,
	})
	logger := d.logger
	d.mu.Unlock()
	logger.Logf(level, "[%s] %s (row %d, column %d)", state, message, row, column)
}

// AddError records err with its SQLSTATE at error level.
func (d *Diagnosable) AddError(err error) {
	if err == nil {
		return
	}
	message := err.Error()
	var e *StateError
	if errors.As(err, &e) {
		message = e.Message
		if e.Err != nil {
			message = fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
	}
	d.AddStatusRecord(StateOf(err), message, tsodbc.LogLevelError)
}

// SetHeaderRecord stores the return code of the last call.
func (d *Diagnosable) SetHeaderRecord(result Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.retCode = result
}

// ReturnCode returns the return code of the last call.
func (d *Diagnosable) ReturnCode() Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.retCode
}

// SetRowCount stores SQL_DIAG_ROW_COUNT.
func (d *Diagnosable) SetRowCount(n int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rowCount = n
}

func (d *Diagnosable) RowCount() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rowCount
}

// RecordCount is SQL_DIAG_NUMBER.
func (d *Diagnosable) RecordCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

// GetRecord returns the 1-based record idx, as SQLGetDiagRec numbers them.
func (d *Diagnosable) GetRecord(idx int) (Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if idx < 1 || idx > len(d.records) {
		return Record{}, false
	}
	return d.records[idx-1], true
}

// Records returns a copy of all records.
func (d *Diagnosable) Records() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}
