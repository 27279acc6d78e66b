package types

// DateStruct is SQL_DATE_STRUCT.
type DateStruct struct {
	Year  int16
	Month uint16
	Day   uint16
}

// TimeStruct is SQL_TIME_STRUCT.
type TimeStruct struct {
	Hour   uint16
	Minute uint16
	Second uint16
}

// TimestampStruct is SQL_TIMESTAMP_STRUCT, Fraction is in nanoseconds.
type TimestampStruct struct {
	Year     int16
	Month    uint16
	Day      uint16
	Hour     uint16
	Minute   uint16
	Second   uint16
	Fraction uint32
}

// NumericMaxLen is SQL_MAX_NUMERIC_LEN.
const NumericMaxLen = 16

// NumericStruct is SQL_NUMERIC_STRUCT. Val holds the unscaled magnitude in
// little-endian order, Sign is 1 for positive and 0 for negative values.
type NumericStruct struct {
	Precision uint8
	Scale     int8
	Sign      uint8
	Val       [NumericMaxLen]uint8
}

// SQL_IS_* interval type codes.
const (
	IsYear           int32 = 1
	IsMonth          int32 = 2
	IsDay            int32 = 3
	IsHour           int32 = 4
	IsMinute         int32 = 5
	IsSecond         int32 = 6
	IsYearToMonth    int32 = 7
	IsDayToHour      int32 = 8
	IsDayToMinute    int32 = 9
	IsDayToSecond    int32 = 10
	IsHourToMinute   int32 = 11
	IsHourToSecond   int32 = 12
	IsMinuteToSecond int32 = 13
)

// IntervalStruct is SQL_INTERVAL_STRUCT. Fields stands in for the C union:
// year and month for year-month intervals, day, hour, minute, second and
// fraction for day-second intervals. All fields are magnitudes, IntervalSign
// is SqlTrue for negative intervals.
type IntervalStruct struct {
	IntervalType int32
	IntervalSign int16
	Fields       [5]uint32
}

// SetYearMonth fills the year-month arm of the union.
func (s *IntervalStruct) SetYearMonth(year, month uint32) {
	s.Fields = [5]uint32{year, month}
}

// YearMonth reads the year-month arm of the union.
func (s *IntervalStruct) YearMonth() (year, month uint32) {
	return s.Fields[0], s.Fields[1]
}

// SetDaySecond fills the day-second arm of the union.
func (s *IntervalStruct) SetDaySecond(day, hour, minute, second, fraction uint32) {
	s.Fields = [5]uint32{day, hour, minute, second, fraction}
}

// DaySecond reads the day-second arm of the union.
func (s *IntervalStruct) DaySecond() (day, hour, minute, second, fraction uint32) {
	return s.Fields[0], s.Fields[1], s.Fields[2], s.Fields[3], s.Fields[4]
}

// IsNegative reports whether the interval sign flag is set.
func (s *IntervalStruct) IsNegative() bool {
	return s.IntervalSign == SqlTrue
}
