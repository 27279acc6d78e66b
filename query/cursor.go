package query

import (
	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/types"
)

// Cursor iterates forward over the rows of one page. It starts before the
// first row.
type Cursor struct {
	rows    []tstypes.Row
	columns meta.ColumnMetaVector
	pos     int
}

func NewCursor(rows []tstypes.Row, columns meta.ColumnMetaVector) *Cursor {
	return &Cursor{rows: rows, columns: columns, pos: -1}
}

// Increment moves to the next row, false at the end of the page.
func (c *Cursor) Increment() bool {
	if c.pos < len(c.rows) {
		c.pos++
	}
	return c.pos < len(c.rows)
}

// HasData reports whether the cursor is positioned on a row.
func (c *Cursor) HasData() bool {
	return c.pos >= 0 && c.pos < len(c.rows)
}

// Len is the number of rows of the page.
func (c *Cursor) Len() int {
	return len(c.rows)
}

// ReadColumnToBuffer converts the 1-based column idx of the current row
// into buffer. SQL_C_DEFAULT buffers are resolved against the column type.
func (c *Cursor) ReadColumnToBuffer(idx int, buffer *app.ApplicationDataBuffer) app.ConversionResult {
	if !c.HasData() {
		return app.ConversionNoData
	}
	column, ok := c.columns.Column(idx)
	row := c.rows[c.pos]
	if !ok || idx > len(row.Data) {
		return app.ConversionFailure
	}
	if buffer.NativeType() == types.NativeDefault {
		buffer = buffer.WithNativeType(meta.DefaultNativeType(column.DataType))
	}
	return putDatum(buffer, row.Data[idx-1], column)
}
