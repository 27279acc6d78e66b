// Package meta describes result sets and catalog objects: column and table
// descriptors and the SQL type properties reported through SQLDescribeCol,
// SQLColAttribute, SQLColumns and SQLGetTypeInfo.
package meta

import (
	"strings"

	tstypes "github.com/aws/aws-sdk-go-v2/service/timestreamquery/types"
	"github.com/kent-id/tsodbc/types"
)

const (
	// MaxVarcharLength is the column size reported for character data.
	MaxVarcharLength = 2147483647

	timestampPrecision = 9
	noTotal            = -4
)

// Timestream type names as they appear in DESCRIBE output and type info.
const (
	TypeNameVarchar             = "VARCHAR"
	TypeNameBoolean             = "BOOLEAN"
	TypeNameBigint              = "BIGINT"
	TypeNameInteger             = "INTEGER"
	TypeNameDouble              = "DOUBLE"
	TypeNameTimestamp           = "TIMESTAMP"
	TypeNameDate                = "DATE"
	TypeNameTime                = "TIME"
	TypeNameIntervalDayToSecond = "INTERVAL_DAY_TO_SECOND"
	TypeNameIntervalYearToMonth = "INTERVAL_YEAR_TO_MONTH"
	TypeNameArray               = "ARRAY"
	TypeNameRow                 = "ROW"
	TypeNameTimeSeries          = "TIMESERIES"
	TypeNameUnknown             = "UNKNOWN"
)

// ScalarToSqlType maps a service scalar type onto the SQL type it is exposed as.
func ScalarToSqlType(st tstypes.ScalarType) types.SqlType {
	switch st {
	case tstypes.ScalarTypeBoolean:
		return types.SqlTypeBit
	case tstypes.ScalarTypeBigint:
		return types.SqlTypeBigint
	case tstypes.ScalarTypeInteger:
		return types.SqlTypeInteger
	case tstypes.ScalarTypeDouble:
		return types.SqlTypeDouble
	case tstypes.ScalarTypeTimestamp:
		return types.SqlTypeTimestamp
	case tstypes.ScalarTypeDate:
		return types.SqlTypeDate
	case tstypes.ScalarTypeTime:
		return types.SqlTypeTime
	case tstypes.ScalarTypeIntervalDayToSecond:
		return types.SqlTypeIntervalDaySecond
	case tstypes.ScalarTypeIntervalYearToMonth:
		return types.SqlTypeIntervalYearMonth
	}
	return types.SqlTypeVarchar
}

// ParseTypeName maps a type name from DESCRIBE output, e.g. "bigint" or
// "array(double)", onto a scalar type. Complex types report complex=true.
func ParseTypeName(name string) (st tstypes.ScalarType, complex bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(upper, '('); i >= 0 {
		upper = upper[:i]
	}
	switch upper {
	case TypeNameArray, TypeNameRow, TypeNameTimeSeries:
		return tstypes.ScalarTypeVarchar, true
	case "INTERVAL DAY TO SECOND":
		return tstypes.ScalarTypeIntervalDayToSecond, false
	case "INTERVAL YEAR TO MONTH":
		return tstypes.ScalarTypeIntervalYearToMonth, false
	}
	for _, st := range tstypes.ScalarTypeVarchar.Values() {
		if string(st) == upper {
			return st, false
		}
	}
	return tstypes.ScalarTypeUnknown, false
}

// SqlTypeName returns the service type name of a SQL type.
func SqlTypeName(t types.SqlType) string {
	switch t {
	case types.SqlTypeVarchar, types.SqlTypeWVarchar, types.SqlTypeChar, types.SqlTypeWChar:
		return TypeNameVarchar
	case types.SqlTypeBit:
		return TypeNameBoolean
	case types.SqlTypeBigint:
		return TypeNameBigint
	case types.SqlTypeInteger:
		return TypeNameInteger
	case types.SqlTypeDouble:
		return TypeNameDouble
	case types.SqlTypeTimestamp:
		return TypeNameTimestamp
	case types.SqlTypeDate:
		return TypeNameDate
	case types.SqlTypeTime:
		return TypeNameTime
	case types.SqlTypeIntervalDaySecond:
		return TypeNameIntervalDayToSecond
	case types.SqlTypeIntervalYearMonth:
		return TypeNameIntervalYearToMonth
	}
	return TypeNameUnknown
}

// ColumnSize is the COLUMN_SIZE of a SQL type, -1 when not applicable.
func ColumnSize(t types.SqlType) int32 {
	switch t {
	case types.SqlTypeVarchar, types.SqlTypeWVarchar, types.SqlTypeChar, types.SqlTypeWChar,
		types.SqlTypeLongVarchar, types.SqlTypeWLongVarchar:
		return MaxVarcharLength
	case types.SqlTypeBit:
		return 1
	case types.SqlTypeTinyint:
		return 3
	case types.SqlTypeSmallint:
		return 5
	case types.SqlTypeInteger:
		return 10
	case types.SqlTypeBigint:
		return 19
	case types.SqlTypeReal:
		return 7
	case types.SqlTypeFloat, types.SqlTypeDouble:
		return 15
	case types.SqlTypeDate:
		return 10
	case types.SqlTypeTime:
		return 8 + 1 + timestampPrecision
	case types.SqlTypeTimestamp:
		return 19 + 1 + timestampPrecision
	case types.SqlTypeIntervalYearMonth:
		return 11
	case types.SqlTypeIntervalDaySecond:
		return 25
	}
	return -1
}

// DecimalDigits is the DECIMAL_DIGITS of a SQL type, -1 when not applicable.
func DecimalDigits(t types.SqlType) int16 {
	switch t {
	case types.SqlTypeBit, types.SqlTypeTinyint, types.SqlTypeSmallint,
		types.SqlTypeInteger, types.SqlTypeBigint, types.SqlTypeDate:
		return 0
	case types.SqlTypeTime, types.SqlTypeTimestamp, types.SqlTypeIntervalDaySecond:
		return timestampPrecision
	}
	return -1
}

// DisplaySize is SQL_DESC_DISPLAY_SIZE, the maximum characters needed to
// render a value.
func DisplaySize(t types.SqlType) int32 {
	switch t {
	case types.SqlTypeBit:
		return 1
	case types.SqlTypeTinyint:
		return 4
	case types.SqlTypeSmallint:
		return 6
	case types.SqlTypeInteger:
		return 11
	case types.SqlTypeBigint:
		return 20
	case types.SqlTypeReal:
		return 14
	case types.SqlTypeFloat, types.SqlTypeDouble:
		return 24
	}
	return ColumnSize(t)
}

// OctetLength is SQL_DESC_OCTET_LENGTH, the transfer size in bytes.
func OctetLength(t types.SqlType) int32 {
	switch t {
	case types.SqlTypeVarchar, types.SqlTypeChar, types.SqlTypeLongVarchar,
		types.SqlTypeWVarchar, types.SqlTypeWChar, types.SqlTypeWLongVarchar:
		return MaxVarcharLength
	case types.SqlTypeBit, types.SqlTypeTinyint:
		return 1
	case types.SqlTypeSmallint:
		return 2
	case types.SqlTypeInteger, types.SqlTypeReal:
		return 4
	case types.SqlTypeBigint, types.SqlTypeFloat, types.SqlTypeDouble:
		return 8
	case types.SqlTypeDate:
		return int32(types.NativeDate.Size())
	case types.SqlTypeTime:
		return int32(types.NativeTime.Size())
	case types.SqlTypeTimestamp:
		return int32(types.NativeTimestamp.Size())
	case types.SqlTypeIntervalYearMonth, types.SqlTypeIntervalDaySecond:
		return int32(types.NativeIntervalDayToSecond.Size())
	}
	return noTotal
}

// NumPrecRadix is 10 for exact and 2 for approximate numerics, 0 otherwise.
func NumPrecRadix(t types.SqlType) int16 {
	switch t {
	case types.SqlTypeBit, types.SqlTypeTinyint, types.SqlTypeSmallint,
		types.SqlTypeInteger, types.SqlTypeBigint, types.SqlTypeNumeric, types.SqlTypeDecimal:
		return 10
	case types.SqlTypeReal, types.SqlTypeFloat, types.SqlTypeDouble:
		return 2
	}
	return 0
}

// IsUnsigned reports whether values of t cannot be negative.
func IsUnsigned(t types.SqlType) bool {
	switch t {
	case types.SqlTypeBit, types.SqlTypeVarchar, types.SqlTypeWVarchar, types.SqlTypeChar,
		types.SqlTypeWChar, types.SqlTypeDate, types.SqlTypeTime, types.SqlTypeTimestamp:
		return true
	}
	return false
}

// IsCaseSensitive reports whether comparisons of t are case sensitive.
func IsCaseSensitive(t types.SqlType) bool {
	switch t {
	case types.SqlTypeVarchar, types.SqlTypeWVarchar, types.SqlTypeChar, types.SqlTypeWChar:
		return true
	}
	return false
}

// LiteralPrefix returns the quoting used for literals of t.
func LiteralPrefix(t types.SqlType) string {
	switch t {
	case types.SqlTypeVarchar, types.SqlTypeWVarchar, types.SqlTypeChar, types.SqlTypeWChar:
		return "'"
	case types.SqlTypeDate:
		return "DATE '"
	case types.SqlTypeTime:
		return "TIME '"
	case types.SqlTypeTimestamp:
		return "TIMESTAMP '"
	}
	return ""
}

func LiteralSuffix(t types.SqlType) string {
	if LiteralPrefix(t) != "" {
		return "'"
	}
	return ""
}

// DefaultNativeType resolves SQL_C_DEFAULT for a column of type t.
func DefaultNativeType(t types.SqlType) types.NativeType {
	switch t {
	case types.SqlTypeBit:
		return types.NativeBit
	case types.SqlTypeTinyint:
		return types.NativeSignedTinyint
	case types.SqlTypeSmallint:
		return types.NativeSignedShort
	case types.SqlTypeInteger:
		return types.NativeSignedLong
	case types.SqlTypeBigint:
		return types.NativeSignedBigint
	case types.SqlTypeReal:
		return types.NativeFloat
	case types.SqlTypeFloat, types.SqlTypeDouble:
		return types.NativeDouble
	case types.SqlTypeNumeric, types.SqlTypeDecimal:
		return types.NativeNumeric
	case types.SqlTypeDate:
		return types.NativeDate
	case types.SqlTypeTime:
		return types.NativeTime
	case types.SqlTypeTimestamp:
		return types.NativeTimestamp
	case types.SqlTypeIntervalYearMonth:
		return types.NativeIntervalYearToMonth
	case types.SqlTypeIntervalDaySecond:
		return types.NativeIntervalDayToSecond
	case types.SqlTypeWVarchar, types.SqlTypeWChar, types.SqlTypeWLongVarchar:
		return types.NativeWChar
	case types.SqlTypeBinary, types.SqlTypeVarbinary, types.SqlTypeLongVarbinary:
		return types.NativeBinary
	}
	return types.NativeChar
}

// VerboseType splits a concise SQL type into the SQL_DATA_TYPE and
// SQL_DATETIME_SUB pair. ok is false when t has no subcode.
func VerboseType(t types.SqlType) (verbose types.SqlType, sub int16, ok bool) {
	switch {
	case t == types.SqlTypeDate || t == types.SqlTypeTime || t == types.SqlTypeTimestamp:
		return types.SqlTypeDatetime, int16(t - types.SqlTypeDatetime*10), true
	case t >= types.SqlTypeIntervalYear && t <= types.SqlTypeIntervalMinSecond:
		return types.SqlTypeInterval, int16(t - 100), true
	}
	return t, 0, false
}
