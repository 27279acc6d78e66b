package query

import (
	"context"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc"
	"github.com/kent-id/tsodbc/diagnostic"
	"github.com/kent-id/tsodbc/meta"
	"github.com/kent-id/tsodbc/types"
)

// TypeInfoQuery serves SQLGetTypeInfo from a static list of the types the
// service supports.
type TypeInfoQuery struct {
	*rowSetQuery
	sqlType types.SqlType
}

var typeInfoColumns = columnsOf(
	varcharColNoNulls("TYPE_NAME"),
	smallintColNoNulls("DATA_TYPE"),
	integerCol("COLUMN_SIZE"),
	varcharCol("LITERAL_PREFIX"),
	varcharCol("LITERAL_SUFFIX"),
	varcharCol("CREATE_PARAMS"),
	smallintColNoNulls("NULLABLE"),
	smallintColNoNulls("CASE_SENSITIVE"),
	smallintColNoNulls("SEARCHABLE"),
	smallintCol("UNSIGNED_ATTRIBUTE"),
	smallintColNoNulls("FIXED_PREC_SCALE"),
	smallintCol("AUTO_UNIQUE_VALUE"),
	varcharCol("LOCAL_TYPE_NAME"),
	smallintCol("MINIMUM_SCALE"),
	smallintCol("MAXIMUM_SCALE"),
	smallintColNoNulls("SQL_DATA_TYPE"),
	smallintCol("SQL_DATETIME_SUB"),
	integerCol("NUM_PREC_RADIX"),
	smallintCol("INTERVAL_PRECISION"),
)

// supportedTypes is ordered by DATA_TYPE.
var supportedTypes = []types.SqlType{
	types.SqlTypeBit,
	types.SqlTypeBigint,
	types.SqlTypeInteger,
	types.SqlTypeDouble,
	types.SqlTypeVarchar,
	types.SqlTypeDate,
	types.SqlTypeTime,
	types.SqlTypeTimestamp,
	types.SqlTypeIntervalYearMonth,
	types.SqlTypeIntervalDaySecond,
}

// NewTypeInfoQuery lists sqlType, or every type for types.SqlAllTypes.
func NewTypeInfoQuery(logger *tsodbc.Logger, diag *diagnostic.Diagnosable, sqlType types.SqlType) *TypeInfoQuery {
	q := &TypeInfoQuery{sqlType: sqlType}
	q.rowSetQuery = newRowSetQuery(logger, diag, typeInfoColumns, q.rows)
	return q
}

func (q *TypeInfoQuery) rows(context.Context) ([]tstypes.Row, error) {
	var out []tstypes.Row
	for _, t := range supportedTypes {
		if q.sqlType == types.SqlAllTypes || q.sqlType == t {
			out = append(out, typeInfoRow(t))
		}
	}
	return out, nil
}

func typeInfoRow(t types.SqlType) tstypes.Row {
	verbose, sub, hasSub := meta.VerboseType(t)
	var datetimeSub, intervalPrecision interface{}
	if hasSub {
		datetimeSub = sub
	}
	if verbose == types.SqlTypeInterval {
		intervalPrecision = int16(2)
	}
	var unsigned interface{}
	if meta.NumPrecRadix(t) != 0 {
		unsigned = boolFlag(meta.IsUnsigned(t))
	}
	var minScale, maxScale interface{}
	if digits := meta.DecimalDigits(t); digits >= 0 && t != types.SqlTypeBit {
		minScale, maxScale = digits, digits
	}
	return newRow(
		meta.SqlTypeName(t),
		t,
		optionalInt32(meta.ColumnSize(t)),
		emptyAsNull(meta.LiteralPrefix(t)),
		emptyAsNull(meta.LiteralSuffix(t)),
		nil,
		int16(types.Nullable),
		boolFlag(meta.IsCaseSensitive(t)),
		types.PredSearchable,
		unsigned,
		types.SqlFalse,
		nil,
		meta.SqlTypeName(t),
		minScale,
		maxScale,
		verbose,
		datetimeSub,
		precRadixInt32(t),
		intervalPrecision,
	)
}

func boolFlag(v bool) int16 {
	if v {
		return types.SqlTrue
	}
	return types.SqlFalse
}

func emptyAsNull(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func precRadixInt32(t types.SqlType) interface{} {
	if r := meta.NumPrecRadix(t); r != 0 {
		return int32(r)
	}
	return nil
}
