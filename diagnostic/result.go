package diagnostic

import "github.com/kent-id/tsodbc/types"

// Result is the outcome of a driver operation.
type Result int

const (
	Success Result = iota
	SuccessWithInfo
	Error
	NoData
	NeedData
	InvalidHandle
)

func (r Result) String() string {
	switch r {
	case Success:
		return "SUCCESS"
	case SuccessWithInfo:
		return "SUCCESS_WITH_INFO"
	case Error:
		return "ERROR"
	case NoData:
		return "NO_DATA"
	case NeedData:
		return "NEED_DATA"
	case InvalidHandle:
		return "INVALID_HANDLE"
	}
	return "UNKNOWN"
}

// SqlReturn maps the result onto the ODBC return code.
func (r Result) SqlReturn() types.SqlReturn {
	switch r {
	case Success:
		return types.SqlSuccess
	case SuccessWithInfo:
		return types.SqlSuccessWithInfo
	case NoData:
		return types.SqlNoData
	case NeedData:
		return types.SqlNeedData
	case InvalidHandle:
		return types.SqlInvalidHandle
	}
	return types.SqlError
}
