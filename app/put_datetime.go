package app

import (
	"github.com/kent-id/tsodbc/types"
	"github.com/kent-id/tsodbc/value"
)

func dateStruct(d value.Date) types.DateStruct {
	return types.DateStruct{Year: int16(d.Year), Month: uint16(d.Month), Day: uint16(d.Day)}
}

func timeStruct(t value.Time) types.TimeStruct {
	return types.TimeStruct{Hour: uint16(t.Hour), Minute: uint16(t.Minute), Second: uint16(t.Second)}
}

func timestampStruct(ts value.Timestamp) types.TimestampStruct {
	return types.TimestampStruct{
		Year:     int16(ts.Year),
		Month:    uint16(ts.Month),
		Day:      uint16(ts.Day),
		Hour:     uint16(ts.Hour),
		Minute:   uint16(ts.Minute),
		Second:   uint16(ts.Second),
		Fraction: uint32(ts.Nanos),
	}
}

// PutDate converts a date. Time of day fields of a timestamp target are zero.
func (b *ApplicationDataBuffer) PutDate(d value.Date) ConversionResult {
	switch b.nativeType {
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(d.String())
	case types.NativeDate, types.NativeDefault:
		return putFixed(b, dateStruct(d))
	case types.NativeTimestamp:
		return putFixed(b, timestampStruct(value.Timestamp{Date: d}))
	case types.NativeBinary:
		s := dateStruct(d)
		return b.putRawDataToBuffer(rawBytes(&s))
	}
	return ConversionUnsupported
}

// PutTime converts a time of day. The struct has no fraction field, so a
// non-zero fraction is reported as truncated.
func (b *ApplicationDataBuffer) PutTime(t value.Time) ConversionResult {
	switch b.nativeType {
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(t.String())
	case types.NativeTime, types.NativeDefault:
		res := putFixed(b, timeStruct(t))
		if t.Nanos != 0 {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeTimestamp:
		return putFixed(b, timestampStruct(value.Timestamp{Date: value.EpochDate, Time: t}))
	case types.NativeBinary:
		s := timeStruct(t)
		return b.putRawDataToBuffer(rawBytes(&s))
	}
	return ConversionUnsupported
}

// PutTimestamp converts a timestamp.
func (b *ApplicationDataBuffer) PutTimestamp(ts value.Timestamp) ConversionResult {
	switch b.nativeType {
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(ts.String())
	case types.NativeTimestamp, types.NativeDefault:
		return putFixed(b, timestampStruct(ts))
	case types.NativeDate:
		res := putFixed(b, dateStruct(ts.Date))
		if !ts.IsMidnight() {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeTime:
		res := putFixed(b, timeStruct(ts.Time))
		if ts.Nanos != 0 {
			return worse(res, ConversionFractionalTruncated)
		}
		return res
	case types.NativeBinary:
		s := timestampStruct(ts)
		return b.putRawDataToBuffer(rawBytes(&s))
	}
	return ConversionUnsupported
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func intervalSign(negative bool) int16 {
	if negative {
		return types.SqlTrue
	}
	return types.SqlFalse
}

// PutIntervalYearMonth converts a year-month interval. Single-field targets
// hold the whole length in their unit; dropped months are reported.
func (b *ApplicationDataBuffer) PutIntervalYearMonth(iv value.IntervalYearMonth) ConversionResult {
	total := abs64(iv.TotalMonths())
	out := types.IntervalStruct{IntervalSign: intervalSign(iv.IsNegative())}
	res := ConversionSuccess
	switch b.nativeType {
	case types.NativeChar, types.NativeWChar:
		return b.PutStrToStrBuffer(iv.String())
	case types.NativeIntervalYear:
		out.SetYearMonth(uint32(total/12), 0)
		if total%12 != 0 {
			res = ConversionFractionalTruncated
		}
	case types.NativeIntervalMonth:
		out.SetYearMonth(0, uint32(total))
	case types.NativeIntervalYearToMonth, types.NativeDefault:
		out.SetYearMonth(uint32(total/12), uint32(total%12))
	default:
		return ConversionUnsupported
	}
	if b.nativeType == types.NativeDefault {
		out.IntervalType = types.IsYearToMonth
	} else {
		out.IntervalType = b.nativeType.IntervalCode()
	}
	return worse(putFixed(b, out), res)
}

const (
	nanosPerSecond = int64(1000000000)
	nanosPerMinute = 60 * nanosPerSecond
	nanosPerHour   = 60 * nanosPerMinute
	nanosPerDay    = 24 * nanosPerHour
)

// PutIntervalDaySecond converts a day-second interval. The leading field of
// the target absorbs the higher-order units; lower-order units the target
// has no field for are dropped and reported.
func (b *ApplicationDataBuffer) PutIntervalDaySecond(iv value.IntervalDaySecond) ConversionResult {
	if b.nativeType == types.NativeChar || b.nativeType == types.NativeWChar {
		return b.PutStrToStrBuffer(iv.String())
	}
	target := b.nativeType
	if target == types.NativeDefault {
		target = types.NativeIntervalDayToSecond
	}

	var leadUnit, lastUnit int64
	switch target {
	case types.NativeIntervalDay:
		leadUnit, lastUnit = nanosPerDay, nanosPerDay
	case types.NativeIntervalHour:
		leadUnit, lastUnit = nanosPerHour, nanosPerHour
	case types.NativeIntervalMinute:
		leadUnit, lastUnit = nanosPerMinute, nanosPerMinute
	case types.NativeIntervalSecond:
		leadUnit, lastUnit = nanosPerSecond, 1
	case types.NativeIntervalDayToHour:
		leadUnit, lastUnit = nanosPerDay, nanosPerHour
	case types.NativeIntervalDayToMinute:
		leadUnit, lastUnit = nanosPerDay, nanosPerMinute
	case types.NativeIntervalDayToSecond:
		leadUnit, lastUnit = nanosPerDay, 1
	case types.NativeIntervalHourToMinute:
		leadUnit, lastUnit = nanosPerHour, nanosPerMinute
	case types.NativeIntervalHourToSecond:
		leadUnit, lastUnit = nanosPerHour, 1
	case types.NativeIntervalMinuteToSecond:
		leadUnit, lastUnit = nanosPerMinute, 1
	default:
		return ConversionUnsupported
	}

	total := abs64(iv.TotalNanos())
	kept := total - total%lastUnit
	units := []int64{nanosPerDay, nanosPerHour, nanosPerMinute, nanosPerSecond, 1}
	var fields [5]uint32
	rest := kept
	for i, unit := range units {
		if unit > leadUnit {
			continue
		}
		fields[i] = uint32(rest / unit)
		rest %= unit
	}

	out := types.IntervalStruct{
		IntervalType: target.IntervalCode(),
		IntervalSign: intervalSign(iv.IsNegative()),
		Fields:       fields,
	}
	res := putFixed(b, out)
	if kept != total {
		return worse(res, ConversionFractionalTruncated)
	}
	return res
}
