package app

// ConversionResult is the outcome of moving one value into or out of an
// application buffer.
type ConversionResult int

const (
	ConversionSuccess ConversionResult = iota
	// ConversionVarlenDataTruncated means string or binary data was clipped.
	ConversionVarlenDataTruncated
	// ConversionFractionalTruncated means numeric or time precision was dropped.
	ConversionFractionalTruncated
	// ConversionIndicatorNeeded means a NULL met a buffer without indicator.
	ConversionIndicatorNeeded
	// ConversionUnsupported means no rule exists for the source and target pair.
	ConversionUnsupported
	ConversionNoData
	// ConversionFailure means the source value could not be interpreted.
	ConversionFailure
)

var conversionResultNames = [...]string{
	"SUCCESS",
	"VARLEN_DATA_TRUNCATED",
	"FRACTIONAL_TRUNCATED",
	"INDICATOR_NEEDED",
	"UNSUPPORTED_CONVERSION",
	"NO_DATA",
	"FAILURE",
}

func (r ConversionResult) String() string {
	if r < 0 || int(r) >= len(conversionResultNames) {
		return "UNKNOWN"
	}
	return conversionResultNames[r]
}

// IsError reports whether no value could be produced at all.
func (r ConversionResult) IsError() bool {
	return r == ConversionUnsupported || r == ConversionFailure
}

// worse returns the more severe of two results of one conversion.
func worse(a, b ConversionResult) ConversionResult {
	if a == ConversionSuccess {
		return b
	}
	if b == ConversionSuccess {
		return a
	}
	if b.IsError() {
		return b
	}
	return a
}
