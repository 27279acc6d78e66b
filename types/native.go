package types

import "unsafe"

// NativeType identifies which C storage an application buffer targets. It is
// distinct from the SQL-level type of the column the value comes from.
type NativeType int

const (
	NativeUnsupported NativeType = iota
	NativeSignedTinyint
	NativeBit
	NativeUnsignedTinyint
	NativeSignedShort
	NativeUnsignedShort
	NativeSignedLong
	NativeUnsignedLong
	NativeSignedBigint
	NativeUnsignedBigint
	NativeFloat
	NativeDouble
	NativeChar
	NativeWChar
	NativeBinary
	NativeNumeric
	NativeDate
	NativeTime
	NativeTimestamp
	NativeIntervalYear
	NativeIntervalMonth
	NativeIntervalDay
	NativeIntervalHour
	NativeIntervalMinute
	NativeIntervalSecond
	NativeIntervalYearToMonth
	NativeIntervalDayToHour
	NativeIntervalDayToMinute
	NativeIntervalDayToSecond
	NativeIntervalHourToMinute
	NativeIntervalHourToSecond
	NativeIntervalMinuteToSecond
	NativeDefault
)

var nativeNames = map[NativeType]string{
	NativeUnsupported:            "UNSUPPORTED",
	NativeSignedTinyint:          "SIGNED_TINYINT",
	NativeBit:                    "BIT",
	NativeUnsignedTinyint:        "UNSIGNED_TINYINT",
	NativeSignedShort:            "SIGNED_SHORT",
	NativeUnsignedShort:          "UNSIGNED_SHORT",
	NativeSignedLong:             "SIGNED_LONG",
	NativeUnsignedLong:           "UNSIGNED_LONG",
	NativeSignedBigint:           "SIGNED_BIGINT",
	NativeUnsignedBigint:         "UNSIGNED_BIGINT",
	NativeFloat:                  "FLOAT",
	NativeDouble:                 "DOUBLE",
	NativeChar:                   "CHAR",
	NativeWChar:                  "WCHAR",
	NativeBinary:                 "BINARY",
	NativeNumeric:                "NUMERIC",
	NativeDate:                   "TDATE",
	NativeTime:                   "TTIME",
	NativeTimestamp:              "TTIMESTAMP",
	NativeIntervalYear:           "INTERVAL_YEAR",
	NativeIntervalMonth:          "INTERVAL_MONTH",
	NativeIntervalDay:            "INTERVAL_DAY",
	NativeIntervalHour:           "INTERVAL_HOUR",
	NativeIntervalMinute:         "INTERVAL_MINUTE",
	NativeIntervalSecond:         "INTERVAL_SECOND",
	NativeIntervalYearToMonth:    "INTERVAL_YEAR_TO_MONTH",
	NativeIntervalDayToHour:      "INTERVAL_DAY_TO_HOUR",
	NativeIntervalDayToMinute:    "INTERVAL_DAY_TO_MINUTE",
	NativeIntervalDayToSecond:    "INTERVAL_DAY_TO_SECOND",
	NativeIntervalHourToMinute:   "INTERVAL_HOUR_TO_MINUTE",
	NativeIntervalHourToSecond:   "INTERVAL_HOUR_TO_SECOND",
	NativeIntervalMinuteToSecond: "INTERVAL_MINUTE_TO_SECOND",
	NativeDefault:                "DEFAULT",
}

func (t NativeType) String() string {
	if name, ok := nativeNames[t]; ok {
		return name
	}
	return "UNSUPPORTED"
}

// ToNativeType maps an application C type code to the native type tag.
func ToNativeType(cType CType) NativeType {
	switch cType {
	case CTypeChar:
		return NativeChar
	case CTypeWChar:
		return NativeWChar
	case CTypeSShort, CTypeShort:
		return NativeSignedShort
	case CTypeUShort:
		return NativeUnsignedShort
	case CTypeSLong, CTypeLong:
		return NativeSignedLong
	case CTypeULong:
		return NativeUnsignedLong
	case CTypeFloat:
		return NativeFloat
	case CTypeDouble:
		return NativeDouble
	case CTypeBit:
		return NativeBit
	case CTypeSTinyint, CTypeTinyint:
		return NativeSignedTinyint
	case CTypeUTinyint:
		return NativeUnsignedTinyint
	case CTypeSBigint:
		return NativeSignedBigint
	case CTypeUBigint:
		return NativeUnsignedBigint
	case CTypeBinary:
		return NativeBinary
	case CTypeDate, CTypeTypeDate:
		return NativeDate
	case CTypeTime, CTypeTypeTime:
		return NativeTime
	case CTypeTimestamp, CTypeTypeTimestamp:
		return NativeTimestamp
	case CTypeNumeric:
		return NativeNumeric
	case CTypeIntervalYear:
		return NativeIntervalYear
	case CTypeIntervalMonth:
		return NativeIntervalMonth
	case CTypeIntervalDay:
		return NativeIntervalDay
	case CTypeIntervalHour:
		return NativeIntervalHour
	case CTypeIntervalMinute:
		return NativeIntervalMinute
	case CTypeIntervalSecond:
		return NativeIntervalSecond
	case CTypeIntervalYearMonth:
		return NativeIntervalYearToMonth
	case CTypeIntervalDayHour:
		return NativeIntervalDayToHour
	case CTypeIntervalDayMinute:
		return NativeIntervalDayToMinute
	case CTypeIntervalDaySecond:
		return NativeIntervalDayToSecond
	case CTypeIntervalHourMinute:
		return NativeIntervalHourToMinute
	case CTypeIntervalHourSecond:
		return NativeIntervalHourToSecond
	case CTypeIntervalMinSecond:
		return NativeIntervalMinuteToSecond
	case CTypeDefault:
		return NativeDefault
	}
	return NativeUnsupported
}

// IsInterval reports whether t is one of the SQL_INTERVAL_STRUCT targets.
func (t NativeType) IsInterval() bool {
	return t >= NativeIntervalYear && t <= NativeIntervalMinuteToSecond
}

// IsVariableLength reports whether buffers of this type carry their own
// length (character and binary data).
func (t NativeType) IsVariableLength() bool {
	return t == NativeChar || t == NativeWChar || t == NativeBinary || t == NativeDefault
}

// Size returns the storage size of fixed-length native types and zero for
// variable-length ones.
func (t NativeType) Size() int64 {
	switch t {
	case NativeSignedTinyint, NativeBit, NativeUnsignedTinyint:
		return 1
	case NativeSignedShort, NativeUnsignedShort:
		return 2
	case NativeSignedLong, NativeUnsignedLong, NativeFloat:
		return 4
	case NativeSignedBigint, NativeUnsignedBigint, NativeDouble:
		return 8
	case NativeNumeric:
		return int64(unsafe.Sizeof(NumericStruct{}))
	case NativeDate:
		return int64(unsafe.Sizeof(DateStruct{}))
	case NativeTime:
		return int64(unsafe.Sizeof(TimeStruct{}))
	case NativeTimestamp:
		return int64(unsafe.Sizeof(TimestampStruct{}))
	}
	if t.IsInterval() {
		return int64(unsafe.Sizeof(IntervalStruct{}))
	}
	return 0
}

// IntervalCode returns the SQL_IS_* code stored in IntervalStruct for an
// interval native type, zero otherwise.
func (t NativeType) IntervalCode() int32 {
	if !t.IsInterval() {
		return 0
	}
	return int32(t-NativeIntervalYear) + IsYear
}
