// Package value holds the canonical date, time and interval values result
// data is converted through on its way into application buffers.
package value

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05.999999999"
	timestampLayout = "2006-01-02 15:04:05.999999999"
)

// Date is a calendar date without time zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time is a time of day with nanosecond precision.
type Time struct {
	Hour   int
	Minute int
	Second int
	Nanos  int
}

// Timestamp is a date and time of day with nanosecond precision, in UTC.
type Timestamp struct {
	Date
	Time
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ParseTime parses HH:MM:SS with an optional fraction of up to nine digits.
func ParseTime(s string) (Time, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOf(t), nil
}

// ParseTimestamp parses "YYYY-MM-DD HH:MM:SS[.fffffffff]". A bare date is
// accepted as midnight.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		if d, derr := time.Parse(dateLayout, s); derr == nil {
			return TimestampOf(d), nil
		}
		if t2, terr := time.Parse(time.RFC3339Nano, s); terr == nil {
			return TimestampOf(t2.UTC()), nil
		}
		return Timestamp{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return TimestampOf(t), nil
}

// DateOf takes the date part of t.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// TimeOf takes the time-of-day part of t.
func TimeOf(t time.Time) Time {
	return Time{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanos: t.Nanosecond()}
}

// TimestampOf converts t without changing its wall clock.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Date: DateOf(t), Time: TimeOf(t)}
}

// ToTime returns the UTC instant of the timestamp.
func (ts Timestamp) ToTime() time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, ts.Nanos, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// String formats HH:MM:SS.fffffffff.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.Hour, t.Minute, t.Second, t.Nanos)
}

// String formats YYYY-MM-DD HH:MM:SS.fffffffff.
func (ts Timestamp) String() string {
	return ts.Date.String() + " " + ts.Time.String()
}

// IsMidnight reports whether every time-of-day field is zero.
func (t Time) IsMidnight() bool {
	return t.Hour == 0 && t.Minute == 0 && t.Second == 0 && t.Nanos == 0
}

// EpochDate is the date used when a time of day has to be widened to a
// timestamp.
var EpochDate = Date{Year: 1970, Month: 1, Day: 1}
