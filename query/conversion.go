package query

import (
	"strconv"
	"strings"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/app"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/util"
	"github.com/kent-id/tsodbc/value"
)

// nestedNull is how NULL elements of arrays, rows and time series render.
const nestedNull = "-"

// putDatum parses a service value according to its column type and puts it
// into buffer.
func putDatum(buffer *app.ApplicationDataBuffer, datum tstypes.Datum, column *meta.ColumnMeta) app.ConversionResult {
	if util.SafeBool(datum.NullValue) {
		return buffer.PutNull()
	}
	if datum.ArrayValue != nil || datum.RowValue != nil || datum.TimeSeriesValue != nil {
		return buffer.PutString(renderDatum(datum))
	}
	if datum.ScalarValue == nil {
		return buffer.PutNull()
	}

	data := *datum.ScalarValue
	// for supported data types, see https://docs.aws.amazon.com/timestream/latest/developerguide/supported-data-types.html
	switch column.ScalarType {
	case tstypes.ScalarTypeBoolean:
		v, err := strconv.ParseBool(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutBool(v)
	case tstypes.ScalarTypeInteger:
		v, err := strconv.ParseInt(data, 10, 32)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutInt32(int32(v))
	case tstypes.ScalarTypeBigint:
		v, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutInt64(v)
	case tstypes.ScalarTypeDouble:
		v, err := strconv.ParseFloat(data, 64)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutDouble(v)
	case tstypes.ScalarTypeTimestamp:
		v, err := value.ParseTimestamp(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutTimestamp(v)
	case tstypes.ScalarTypeDate:
		v, err := value.ParseDate(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutDate(v)
	case tstypes.ScalarTypeTime:
		v, err := value.ParseTime(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutTime(v)
	case tstypes.ScalarTypeIntervalDayToSecond:
		v, err := value.ParseIntervalDaySecond(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutIntervalDaySecond(v)
	case tstypes.ScalarTypeIntervalYearToMonth:
		v, err := value.ParseIntervalYearMonth(data)
		if err != nil {
			return app.ConversionFailure
		}
		return buffer.PutIntervalYearMonth(v)
	default:
		return buffer.PutString(data)
	}
}

// renderDatum renders any value as text: arrays as [a, b], rows as (a, b)
// and time series as [{time: t, value: v}, ...].
func renderDatum(datum tstypes.Datum) string {
	switch {
	case util.SafeBool(datum.NullValue):
		return nestedNull
	case datum.ScalarValue != nil:
		return *datum.ScalarValue
	case datum.ArrayValue != nil:
		parts := make([]string, 0, len(datum.ArrayValue))
		for _, d := range datum.ArrayValue {
			parts = append(parts, renderDatum(d))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case datum.RowValue != nil:
		parts := make([]string, 0, len(datum.RowValue.Data))
		for _, d := range datum.RowValue.Data {
			parts = append(parts, renderDatum(d))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case datum.TimeSeriesValue != nil:
		parts := make([]string, 0, len(datum.TimeSeriesValue))
		for _, p := range datum.TimeSeriesValue {
			v := nestedNull
			if p.Value != nil {
				v = renderDatum(*p.Value)
			}
			parts = append(parts, "{time: "+util.SafeString(p.Time)+", value: "+v+"}")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return nestedNull
}
