// Package diagnostic holds the driver's error reporting channel: SQLSTATE
// codes, per-handle diagnostic records and the single error type used below
// the API surface.
package diagnostic

// SqlState is a five character SQLSTATE code.
type SqlState string

const (
	S01004DataTruncated             SqlState = "01004"
	S01S02OptionValueChanged        SqlState = "01S02"
	S01S07FractionalTruncation      SqlState = "01S07"
	S07006RestrictedDataType        SqlState = "07006"
	S07009InvalidDescriptorIndex    SqlState = "07009"
	S08001CannotConnect             SqlState = "08001"
	S08002AlreadyConnected          SqlState = "08002"
	S08003NotConnected              SqlState = "08003"
	S22002IndicatorNeeded           SqlState = "22002"
	S22003NumericOutOfRange         SqlState = "22003"
	S22018InvalidCharacterValue     SqlState = "22018"
	S24000InvalidCursorState        SqlState = "24000"
	S25000InvalidTransactionState   SqlState = "25000"
	SHY000GeneralError              SqlState = "HY000"
	SHY001MemoryAllocation          SqlState = "HY001"
	SHY003InvalidApplicationType    SqlState = "HY003"
	SHY008OperationCanceled         SqlState = "HY008"
	SHY009InvalidUseOfNullPointer   SqlState = "HY009"
	SHY010SequenceError             SqlState = "HY010"
	SHY024InvalidAttributeValue     SqlState = "HY024"
	SHY090InvalidStringOrBufferLen  SqlState = "HY090"
	SHY091InvalidDescriptorField    SqlState = "HY091"
	SHY092OptionTypeOutOfRange      SqlState = "HY092"
	SHY096InformationTypeOutOfRange SqlState = "HY096"
	SHY106FetchTypeOutOfRange       SqlState = "HY106"
	SHYC00OptionalNotImplemented    SqlState = "HYC00"
	SHYT01ConnectionTimeout         SqlState = "HYT01"
)

// IsWarning reports whether the state is of class 01.
func (s SqlState) IsWarning() bool {
	return len(s) >= 2 && s[:2] == "01"
}
