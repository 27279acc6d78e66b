// Package types holds the ODBC vocabulary shared by the driver: SQL and C
// type codes, return codes, length/indicator sentinels and the C struct
// layouts applications bind to.
package types

// SqlType is an ODBC SQL data type code (SQL_VARCHAR, SQL_BIGINT, ...).
type SqlType int16

const (
	SqlTypeUnknown            SqlType = 0
	SqlTypeChar               SqlType = 1
	SqlTypeNumeric            SqlType = 2
	SqlTypeDecimal            SqlType = 3
	SqlTypeInteger            SqlType = 4
	SqlTypeSmallint           SqlType = 5
	SqlTypeFloat              SqlType = 6
	SqlTypeReal               SqlType = 7
	SqlTypeDouble             SqlType = 8
	SqlTypeDatetime           SqlType = 9
	SqlTypeInterval           SqlType = 10
	SqlTypeVarchar            SqlType = 12
	SqlTypeDate               SqlType = 91
	SqlTypeTime               SqlType = 92
	SqlTypeTimestamp          SqlType = 93
	SqlTypeLongVarchar        SqlType = -1
	SqlTypeBinary             SqlType = -2
	SqlTypeVarbinary          SqlType = -3
	SqlTypeLongVarbinary      SqlType = -4
	SqlTypeBigint             SqlType = -5
	SqlTypeTinyint            SqlType = -6
	SqlTypeBit                SqlType = -7
	SqlTypeWChar              SqlType = -8
	SqlTypeWVarchar           SqlType = -9
	SqlTypeWLongVarchar       SqlType = -10
	SqlTypeGUID               SqlType = -11
	SqlTypeIntervalYear       SqlType = 101
	SqlTypeIntervalMonth      SqlType = 102
	SqlTypeIntervalDay        SqlType = 103
	SqlTypeIntervalHour       SqlType = 104
	SqlTypeIntervalMinute     SqlType = 105
	SqlTypeIntervalSecond     SqlType = 106
	SqlTypeIntervalYearMonth  SqlType = 107
	SqlTypeIntervalDayHour    SqlType = 108
	SqlTypeIntervalDayMinute  SqlType = 109
	SqlTypeIntervalDaySecond  SqlType = 110
	SqlTypeIntervalHourMinute SqlType = 111
	SqlTypeIntervalHourSecond SqlType = 112
	SqlTypeIntervalMinSecond  SqlType = 113

	// SqlAllTypes is the SQLGetTypeInfo wildcard.
	SqlAllTypes SqlType = 0
)

// CType is an ODBC C data type code (SQL_C_CHAR, SQL_C_SLONG, ...) as passed
// by applications to SQLBindCol and SQLGetData.
type CType int16

const (
	CTypeChar               CType = 1
	CTypeNumeric            CType = 2
	CTypeLong               CType = 4
	CTypeShort              CType = 5
	CTypeFloat              CType = 7
	CTypeDouble             CType = 8
	CTypeDate               CType = 9
	CTypeTime               CType = 10
	CTypeTimestamp          CType = 11
	CTypeTypeDate           CType = 91
	CTypeTypeTime           CType = 92
	CTypeTypeTimestamp      CType = 93
	CTypeDefault            CType = 99
	CTypeBinary             CType = -2
	CTypeTinyint            CType = -6
	CTypeBit                CType = -7
	CTypeWChar              CType = -8
	CTypeSShort             CType = -15
	CTypeSLong              CType = -16
	CTypeUShort             CType = -17
	CTypeULong              CType = -18
	CTypeSBigint            CType = -25
	CTypeSTinyint           CType = -26
	CTypeUBigint            CType = -27
	CTypeUTinyint           CType = -28
	CTypeGUID               CType = -11
	CTypeIntervalYear       CType = 101
	CTypeIntervalMonth      CType = 102
	CTypeIntervalDay        CType = 103
	CTypeIntervalHour       CType = 104
	CTypeIntervalMinute     CType = 105
	CTypeIntervalSecond     CType = 106
	CTypeIntervalYearMonth  CType = 107
	CTypeIntervalDayHour    CType = 108
	CTypeIntervalDayMinute  CType = 109
	CTypeIntervalDaySecond  CType = 110
	CTypeIntervalHourMinute CType = 111
	CTypeIntervalHourSecond CType = 112
	CTypeIntervalMinSecond  CType = 113
)

// SqlReturn is an ODBC API return code.
type SqlReturn int16

const (
	SqlSuccess         SqlReturn = 0
	SqlSuccessWithInfo SqlReturn = 1
	SqlStillExecuting  SqlReturn = 2
	SqlNeedData        SqlReturn = 99
	SqlNoData          SqlReturn = 100
	SqlError           SqlReturn = -1
	SqlInvalidHandle   SqlReturn = -2
)

// IsSuccess reports whether the return code indicates success
func (r SqlReturn) IsSuccess() bool {
	return r == SqlSuccess || r == SqlSuccessWithInfo
}

// Length/indicator sentinels.
const (
	NullData            int64 = -1
	DataAtExec          int64 = -2
	NTS                 int64 = -3
	NoTotal             int64 = -4
	LenDataAtExecOffset int64 = -100
)

// LenDataAtExec returns the SQL_LEN_DATA_AT_EXEC(length) indicator value.
func LenDataAtExec(length int64) int64 {
	return LenDataAtExecOffset - length
}

// Nullability is the SQL_NULLABLE family.
type Nullability int16

const (
	NoNulls         Nullability = 0
	Nullable        Nullability = 1
	NullableUnknown Nullability = 2
)

// Row status array values.
const (
	RowSuccess         uint16 = 0
	RowDeleted         uint16 = 1
	RowUpdated         uint16 = 2
	RowNoRow           uint16 = 3
	RowAdded           uint16 = 4
	RowError           uint16 = 5
	RowSuccessWithInfo uint16 = 6
)

// Fetch orientations.
const (
	FetchNext     int16 = 1
	FetchFirst    int16 = 2
	FetchLast     int16 = 3
	FetchPrior    int16 = 4
	FetchAbsolute int16 = 5
	FetchRelative int16 = 6
)

// Searchability values reported by SQLGetTypeInfo.
const (
	PredNone       int16 = 0
	PredChar       int16 = 1
	PredBasic      int16 = 2
	PredSearchable int16 = 3
)

// SqlFalse and SqlTrue as used by struct flags and attributes.
const (
	SqlFalse int16 = 0
	SqlTrue  int16 = 1
)
