package query

import (
	"fmt"
	"slices"

	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
)

// combine keeps the more severe of two call results.
func combine(a, b diagnostic.Result) diagnostic.Result {
	if a == diagnostic.Error || b == diagnostic.Error {
		return diagnostic.Error
	}
	if a == diagnostic.SuccessWithInfo || b == diagnostic.SuccessWithInfo {
		return diagnostic.SuccessWithInfo
	}
	return a
}

// recordConversion turns a conversion outcome into a positioned diagnostic.
// Partial data loss is a warning; a value that could not be produced at all
// is an error for this call only.
func recordConversion(diag *diagnostic.Diagnosable, res app.ConversionResult, row int64, column int) diagnostic.Result {
	var state diagnostic.SqlState
	var message string
	level := tsodbc.LogLevelWarn
	result := diagnostic.SuccessWithInfo
	switch res {
	case app.ConversionSuccess:
		return diagnostic.Success
	case app.ConversionVarlenDataTruncated:
		state, message = diagnostic.S01004DataTruncated, "Buffer is too small for the column data. Truncated from the right."
	case app.ConversionFractionalTruncated:
		state, message = diagnostic.S01S07FractionalTruncation, "Buffer is too small for the column data. Fraction truncated."
	case app.ConversionIndicatorNeeded:
		state, message = diagnostic.S22002IndicatorNeeded, "Indicator is needed but not supplied for the column buffer."
	case app.ConversionUnsupported:
		state, message = diagnostic.S07006RestrictedDataType, "The value cannot be converted to the requested C type."
		level, result = tsodbc.LogLevelError, diagnostic.Error
	case app.ConversionNoData:
		state, message = diagnostic.S24000InvalidCursorState, "Cursor has no data."
		level, result = tsodbc.LogLevelError, diagnostic.Error
	default:
		state, message = diagnostic.S22018InvalidCharacterValue, "Cannot read the column value."
		level, result = tsodbc.LogLevelError, diagnostic.Error
	}
	diag.AddPositionedRecord(state, message, level, row, int32(column))
	return result
}

// writeRow converts every bound column of the cursor's current row.
func writeRow(diag *diagnostic.Diagnosable, cursor *Cursor, columns meta.ColumnMetaVector, bindings app.ColumnBindingMap, row int64) diagnostic.Result {
	keys := make([]int, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := diagnostic.Success
	for _, col := range keys {
		if _, ok := columns.Column(col); !ok {
			diag.AddPositionedRecord(diagnostic.S07009InvalidDescriptorIndex,
				fmt.Sprintf("Column number %d is out of range.", col), tsodbc.LogLevelError, row, int32(col))
			result = diagnostic.Error
			continue
		}
		res := cursor.ReadColumnToBuffer(col, bindings[col])
		result = combine(result, recordConversion(diag, res, row, col))
	}
	return result
}

// readColumn serves SQLGetData on the cursor's current row.
func readColumn(diag *diagnostic.Diagnosable, cursor *Cursor, columns meta.ColumnMetaVector, idx int, buffer *app.ApplicationDataBuffer, row int64) diagnostic.Result {
	if cursor == nil || !cursor.HasData() {
		diag.AddStatusRecord(diagnostic.S24000InvalidCursorState, "Cursor has no data.", tsodbc.LogLevelError)
		return diagnostic.Error
	}
	if _, ok := columns.Column(idx); !ok {
		diag.AddStatusRecord(diagnostic.S07009InvalidDescriptorIndex,
			fmt.Sprintf("Column number %d is out of range.", idx), tsodbc.LogLevelError)
		return diagnostic.Error
	}
	return recordConversion(diag, cursor.ReadColumnToBuffer(idx, buffer), row, idx)
}
