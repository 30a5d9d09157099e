package scalar

import (
	"fmt"
	"strings"
	"time"
)

// MicrosecondsOverflow decides what happens when a fractional second has
// more than six digits. It applies to time, datetime and duration parsing.
type MicrosecondsOverflow int

const (
	Truncate MicrosecondsOverflow = iota
	Error
)

// ParseMicrosecondsOverflow maps "truncate" and "error" to the policy.
func ParseMicrosecondsOverflow(s string) (MicrosecondsOverflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return Truncate, nil
	case "error":
		return Error, nil
	}
	return Truncate, fmt.Errorf("unknown microseconds overflow policy %q", s)
}

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or 1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Today returns the current date at the given UTC offset in seconds.
func Today(offsetSeconds int) Date {
	return DateOf(time.Now().UTC().Add(time.Duration(offsetSeconds) * time.Second))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Time is a time of day with an optional UTC offset.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
	// HasOffset reports whether OffsetSeconds is meaningful.
	HasOffset     bool
	OffsetSeconds int
}

// IsMidnight reports a zero time of day, ignoring the offset.
func (t Time) IsMidnight() bool {
	return t.Hour == 0 && t.Minute == 0 && t.Second == 0 && t.Microsecond == 0
}

func (t Time) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Microsecond != 0 {
		fmt.Fprintf(&b, ".%06d", t.Microsecond)
	}
	if t.HasOffset {
		b.WriteString(formatOffset(t.OffsetSeconds))
	}
	return b.String()
}

func (t Time) secondsOfDay() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// DateTime is a date plus a time of day.
type DateTime struct {
	Date Date
	Time Time
}

func (dt DateTime) String() string {
	return dt.Date.String() + "T" + dt.Time.String()
}

// GoTime converts to time.Time. Naive values are placed in UTC.
func (dt DateTime) GoTime() time.Time {
	loc := time.UTC
	if dt.Time.HasOffset && dt.Time.OffsetSeconds != 0 {
		loc = time.FixedZone("", dt.Time.OffsetSeconds)
	}
	return time.Date(dt.Date.Year, time.Month(dt.Date.Month), dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, dt.Time.Second, dt.Time.Microsecond*1000, loc)
}

// DateTimeOf converts a time.Time into a DateTime carrying its offset.
func DateTimeOf(t time.Time) DateTime {
	_, offset := t.Zone()
	return DateTime{
		Date: DateOf(t),
		Time: Time{
			Hour:          t.Hour(),
			Minute:        t.Minute(),
			Second:        t.Second(),
			Microsecond:   t.Nanosecond() / 1000,
			HasOffset:     true,
			OffsetSeconds: offset,
		},
	}
}

// Duration is a signed span normalized to days, seconds (< 86400) and
// microseconds (< 1e6).
type Duration struct {
	Positive    bool
	Day         int
	Second      int
	Microsecond int
}

// NewDuration normalizes the parts into a Duration.
func NewDuration(positive bool, day, second, microsecond int) Duration {
	second += microsecond / 1_000_000
	microsecond %= 1_000_000
	day += second / 86400
	second %= 86400
	if day == 0 && second == 0 && microsecond == 0 {
		positive = true
	}
	return Duration{Positive: positive, Day: day, Second: second, Microsecond: microsecond}
}

// DurationOf converts a time.Duration.
func DurationOf(d time.Duration) Duration {
	positive := d >= 0
	if !positive {
		d = -d
	}
	us := int(d / time.Microsecond)
	return NewDuration(positive, 0, 0, us)
}

// GoDuration converts to time.Duration, saturating on overflow.
func (d Duration) GoDuration() time.Duration {
	total := time.Duration(d.Day)*24*time.Hour +
		time.Duration(d.Second)*time.Second +
		time.Duration(d.Microsecond)*time.Microsecond
	if !d.Positive {
		return -total
	}
	return total
}

func (d Duration) String() string {
	sign := ""
	if !d.Positive {
		sign = "-"
	}
	s := fmt.Sprintf("%sP%dDT%dS", sign, d.Day, d.Second)
	if d.Microsecond != 0 {
		s = fmt.Sprintf("%sP%dDT%d.%06dS", sign, d.Day, d.Second, d.Microsecond)
	}
	return s
}

func formatOffset(seconds int) string {
	if seconds == 0 {
		return "Z"
	}
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// MarshalText encodes the ISO 8601 form, so outputs serialize as JSON strings.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (t Time) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (dt DateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }
