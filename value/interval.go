package value

import (
	"fmt"
	"strconv"
	"strings"
)

// IntervalYearMonth is an INTERVAL YEAR TO MONTH value. Both fields carry the
// sign of the interval.
type IntervalYearMonth struct {
	Years  int32
	Months int32
}

// IntervalDaySecond is an INTERVAL DAY TO SECOND value. Every field carries
// the sign of the interval.
type IntervalDaySecond struct {
	Days    int32
	Hours   int32
	Minutes int32
	Seconds int32
	Nanos   int32
}

// NewIntervalYearMonth builds a normalized interval from a signed month count.
func NewIntervalYearMonth(totalMonths int64) IntervalYearMonth {
	return IntervalYearMonth{Years: int32(totalMonths / 12), Months: int32(totalMonths % 12)}
}

// ParseIntervalYearMonth parses "[-]Y-M".
func ParseIntervalYearMonth(s string) (IntervalYearMonth, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-")
	body := strings.TrimPrefix(strings.TrimPrefix(raw, "-"), "+")
	parts := strings.Split(body, "-")
	if len(parts) != 2 {
		return IntervalYearMonth{}, fmt.Errorf("invalid year-month interval %q", s)
	}
	years, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return IntervalYearMonth{}, fmt.Errorf("invalid year-month interval %q: %w", s, err)
	}
	months, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil || months < 0 || years < 0 {
		return IntervalYearMonth{}, fmt.Errorf("invalid year-month interval %q", s)
	}
	total := years*12 + months
	if neg {
		total = -total
	}
	return NewIntervalYearMonth(total), nil
}

// TotalMonths returns the interval length in months.
func (iv IntervalYearMonth) TotalMonths() int64 {
	return int64(iv.Years)*12 + int64(iv.Months)
}

// IsNegative reports whether the highest-order non-zero field is negative.
func (iv IntervalYearMonth) IsNegative() bool {
	if iv.Years != 0 {
		return iv.Years < 0
	}
	return iv.Months < 0
}

// String formats "[-]Y-M".
func (iv IntervalYearMonth) String() string {
	sign := ""
	if iv.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d-%d", sign, abs32(iv.Years), abs32(iv.Months))
}

const nanosPerSecond = int64(1000000000)

// NewIntervalDaySecond builds a normalized interval from signed nanoseconds.
func NewIntervalDaySecond(totalNanos int64) IntervalDaySecond {
	nanos := totalNanos % nanosPerSecond
	secs := totalNanos / nanosPerSecond
	return IntervalDaySecond{
		Days:    int32(secs / 86400),
		Hours:   int32(secs % 86400 / 3600),
		Minutes: int32(secs % 3600 / 60),
		Seconds: int32(secs % 60),
		Nanos:   int32(nanos),
	}
}

// ParseIntervalDaySecond parses "[-]D HH:MM:SS[.fffffffff]".
func ParseIntervalDaySecond(s string) (IntervalDaySecond, error) {
	raw := strings.TrimSpace(s)
	neg := strings.HasPrefix(raw, "-")
	body := strings.TrimPrefix(strings.TrimPrefix(raw, "-"), "+")

	fields := strings.Fields(body)
	if len(fields) != 2 {
		return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q", s)
	}
	days, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil || days < 0 {
		return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q", s)
	}

	clock := fields[1]
	var frac string
	if dot := strings.IndexByte(clock, '.'); dot >= 0 {
		clock, frac = clock[:dot], clock[dot+1:]
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 || len(frac) > 9 {
		return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q", s)
	}
	var parts [3]int64
	for i, p := range hms {
		v, err := strconv.ParseInt(p, 10, 32)
		if err != nil || v < 0 {
			return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q", s)
		}
		parts[i] = v
	}
	if parts[0] > 23 || parts[1] > 59 || parts[2] > 59 {
		return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q: field out of range", s)
	}
	var nanos int64
	if frac != "" {
		v, err := strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return IntervalDaySecond{}, fmt.Errorf("invalid day-second interval %q: %w", s, err)
		}
		nanos = v
	}
	total := ((days*24+parts[0])*60+parts[1])*60 + parts[2]
	totalNanos := total*nanosPerSecond + nanos
	if neg {
		totalNanos = -totalNanos
	}
	return NewIntervalDaySecond(totalNanos), nil
}

// TotalNanos returns the interval length in nanoseconds.
func (iv IntervalDaySecond) TotalNanos() int64 {
	secs := ((int64(iv.Days)*24+int64(iv.Hours))*60+int64(iv.Minutes))*60 + int64(iv.Seconds)
	return secs*nanosPerSecond + int64(iv.Nanos)
}

// IsNegative reports whether the highest-order non-zero field is negative.
func (iv IntervalDaySecond) IsNegative() bool {
	for _, f := range []int32{iv.Days, iv.Hours, iv.Minutes, iv.Seconds, iv.Nanos} {
		if f != 0 {
			return f < 0
		}
	}
	return false
}

// String formats "[-]D HH:MM:SS.fffffffff".
func (iv IntervalDaySecond) String() string {
	sign := ""
	if iv.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s%d %02d:%02d:%02d.%09d", sign,
		abs32(iv.Days), abs32(iv.Hours), abs32(iv.Minutes), abs32(iv.Seconds), abs32(iv.Nanos))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
