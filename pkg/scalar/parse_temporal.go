package scalar

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestamps above this magnitude are read as milliseconds
const msThreshold = 20_000_000_000

const maxTimestampSeconds = 253_402_300_799 // 9999-12-31T23:59:59Z

var daysInMonth = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

func monthDays(y, m int) int {
	if m == 2 && isLeap(y) {
		return 29
	}
	return daysInMonth[m]
}

// ParseDate parses YYYY-MM-DD. Anything after the day is an error.
func ParseDate(s string) (Date, error) {
	d, n, err := parseDatePrefix(s)
	if err != nil {
		return Date{}, fail(ErrDateParsing, err.Error())
	}
	if n != len(s) {
		return Date{}, fail(ErrDateParsing, "unexpected extra characters at the end of the input")
	}
	return d, nil
}

type reason string

func (r reason) Error() string { return string(r) }

func parseDatePrefix(s string) (Date, int, error) {
	if len(s) < 10 {
		return Date{}, 0, reason("input is too short")
	}
	year, ok := digits(s[0:4])
	if !ok {
		return Date{}, 0, reason("invalid character in year")
	}
	if s[4] != '-' {
		return Date{}, 0, reason("invalid date separator, expected `-`")
	}
	month, ok := digits(s[5:7])
	if !ok {
		return Date{}, 0, reason("invalid character in month")
	}
	if s[7] != '-' {
		return Date{}, 0, reason("invalid date separator, expected `-`")
	}
	day, ok := digits(s[8:10])
	if !ok {
		return Date{}, 0, reason("invalid character in day")
	}
	if month < 1 || month > 12 {
		return Date{}, 0, reason("month value is outside expected range of 1-12")
	}
	if day < 1 || day > monthDays(year, month) {
		return Date{}, 0, reason("day value is outside expected range")
	}
	return Date{Year: year, Month: month, Day: day}, 10, nil
}

// ParseTime parses HH:MM[:SS[.ffffff]] with an optional Z or ±HH[:]MM offset.
func ParseTime(s string, overflow MicrosecondsOverflow) (Time, error) {
	t, n, err := parseTimePrefix(s, overflow)
	if err != nil {
		return Time{}, fail(ErrTimeParsing, err.Error())
	}
	if n != len(s) {
		return Time{}, fail(ErrTimeParsing, "unexpected extra characters at the end of the input")
	}
	return t, nil
}

func parseTimePrefix(s string, overflow MicrosecondsOverflow) (Time, int, error) {
	if len(s) < 5 {
		return Time{}, 0, reason("input is too short")
	}
	hour, ok := digits(s[0:2])
	if !ok {
		return Time{}, 0, reason("invalid character in hour")
	}
	if s[2] != ':' {
		return Time{}, 0, reason("invalid time separator, expected `:`")
	}
	minute, ok := digits(s[3:5])
	if !ok {
		return Time{}, 0, reason("invalid character in minute")
	}
	if hour > 23 {
		return Time{}, 0, reason("hour value is outside expected range of 0-23")
	}
	if minute > 59 {
		return Time{}, 0, reason("minute value is outside expected range of 0-59")
	}
	t := Time{Hour: hour, Minute: minute}
	pos := 5

	if pos < len(s) && s[pos] == ':' {
		if len(s) < pos+3 {
			return Time{}, 0, reason("input is too short")
		}
		second, ok := digits(s[pos+1 : pos+3])
		if !ok {
			return Time{}, 0, reason("invalid character in second")
		}
		if second > 59 {
			return Time{}, 0, reason("second value is outside expected range of 0-59")
		}
		t.Second = second
		pos += 3

		if pos < len(s) && (s[pos] == '.' || s[pos] == ',') {
			pos++
			start := pos
			for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
				pos++
			}
			frac := s[start:pos]
			if frac == "" {
				return Time{}, 0, reason("invalid character in second fraction")
			}
			if len(frac) > 6 {
				if overflow == Error {
					return Time{}, 0, reason("second fraction value is more than 6 digits long")
				}
				frac = frac[:6]
			}
			us, _ := strconv.Atoi(frac + strings.Repeat("0", 6-len(frac)))
			t.Microsecond = us
		}
	}

	if pos < len(s) {
		switch c := s[pos]; c {
		case 'Z', 'z':
			t.HasOffset = true
			pos++
		case '+', '-':
			rest := s[pos+1:]
			var hh, mm int
			var n int
			switch {
			case len(rest) >= 5 && rest[2] == ':':
				h, ok1 := digits(rest[0:2])
				m, ok2 := digits(rest[3:5])
				if !ok1 || !ok2 {
					return Time{}, 0, reason("invalid timezone offset")
				}
				hh, mm, n = h, m, 5
			case len(rest) >= 4:
				h, ok1 := digits(rest[0:2])
				m, ok2 := digits(rest[2:4])
				if !ok1 || !ok2 {
					return Time{}, 0, reason("invalid timezone offset")
				}
				hh, mm, n = h, m, 4
			case len(rest) == 2:
				h, ok := digits(rest)
				if !ok {
					return Time{}, 0, reason("invalid timezone offset")
				}
				hh, n = h, 2
			default:
				return Time{}, 0, reason("invalid timezone offset")
			}
			if hh > 23 || mm > 59 {
				return Time{}, 0, reason("timezone offset must be less than 24 hours")
			}
			off := hh*3600 + mm*60
			if c == '-' {
				off = -off
			}
			t.HasOffset = true
			t.OffsetSeconds = off
			pos += 1 + n
		}
	}
	return t, pos, nil
}

// ParseDateTime parses an RFC 3339 datetime. The separator may be T, t, _
// or a space. A plain number is read as a unix timestamp.
func ParseDateTime(s string, overflow MicrosecondsOverflow) (DateTime, error) {
	if looksNumeric(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err == nil {
			return FloatAsDateTime(f)
		}
	}
	d, n, err := parseDatePrefix(s)
	if err != nil {
		return DateTime{}, fail(ErrDateTimeParsing, err.Error())
	}
	if n == len(s) {
		return DateTime{}, fail(ErrDateTimeParsing, "input is too short")
	}
	switch s[n] {
	case 'T', 't', '_', ' ':
	default:
		return DateTime{}, fail(ErrDateTimeParsing, "invalid character in date and time separator")
	}
	t, m, err := parseTimePrefix(s[n+1:], overflow)
	if err != nil {
		return DateTime{}, fail(ErrDateTimeParsing, err.Error())
	}
	if n+1+m != len(s) {
		return DateTime{}, fail(ErrDateTimeParsing, "unexpected extra characters at the end of the input")
	}
	return DateTime{Date: d, Time: t}, nil
}

// IntAsDateTime converts a unix timestamp (seconds, or milliseconds above
// 2e10) plus extra microseconds into a UTC datetime.
func IntAsDateTime(ts int64, microseconds int) (DateTime, error) {
	sec, us := ts, int64(microseconds)
	if ts > msThreshold || ts < -msThreshold {
		sec = ts / 1000
		us += (ts % 1000) * 1000
	}
	if sec > maxTimestampSeconds || sec < -62_135_596_800 {
		return DateTime{}, fail(ErrDateTimeParsing, "timestamp value is outside expected range")
	}
	t := time.Unix(sec, 0).UTC().Add(time.Duration(us) * time.Microsecond)
	return DateTimeOf(t), nil
}

// FloatAsDateTime is IntAsDateTime for fractional timestamps.
func FloatAsDateTime(f float64) (DateTime, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DateTime{}, fail(ErrDateTimeParsing, "NaN values not permitted")
	}
	if math.Abs(f) > msThreshold {
		f /= 1000
	}
	if math.Abs(f) > maxTimestampSeconds*2 {
		return DateTime{}, fail(ErrDateTimeParsing, "timestamp value is outside expected range")
	}
	sec := math.Floor(f)
	us := int(math.Round((f - sec) * 1e6))
	return IntAsDateTime(int64(sec), us)
}

// SecondsAsTime reads seconds since midnight.
func SecondsAsTime(sec int64, microseconds int) (Time, error) {
	if sec < 0 {
		return Time{}, fail(ErrTimeParsing, "time in seconds should be positive")
	}
	if sec >= 86400 {
		return Time{}, fail(ErrTimeParsing, "time in seconds should be less than 86400")
	}
	s := int(sec)
	return Time{Hour: s / 3600, Minute: (s % 3600) / 60, Second: s % 60, Microsecond: microseconds, HasOffset: true}, nil
}

func FloatAsTime(f float64) (Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Time{}, fail(ErrTimeParsing, "NaN values not permitted")
	}
	sec := math.Floor(f)
	us := int(math.Round((f - sec) * 1e6))
	if us == 1_000_000 {
		sec++
		us = 0
	}
	return SecondsAsTime(int64(sec), us)
}

// ParseDuration accepts ISO 8601 durations (P1DT2H3M4.5S, P2W) and the
// [-][N day[s], ]HH:MM:SS[.ffffff] form.
func ParseDuration(s string, overflow MicrosecondsOverflow) (Duration, error) {
	if s == "" {
		return Duration{}, fail(ErrDurationParsing, "input is too short")
	}
	positive := true
	body := s
	switch body[0] {
	case '-':
		positive = false
		body = body[1:]
	case '+':
		body = body[1:]
	}
	if body == "" {
		return Duration{}, fail(ErrDurationParsing, "input is too short")
	}
	if body[0] == 'P' || body[0] == 'p' {
		return parseISODuration(positive, body[1:], overflow)
	}
	return parseClockDuration(positive, body, overflow)
}

func parseISODuration(positive bool, s string, overflow MicrosecondsOverflow) (Duration, error) {
	if s == "" {
		return Duration{}, fail(ErrDurationParsing, "input is too short")
	}
	var day, second, micro int
	inTime := false
	seen := false
	for len(s) > 0 {
		if s[0] == 'T' || s[0] == 't' {
			if inTime {
				return Duration{}, fail(ErrDurationParsing, "invalid character in duration")
			}
			inTime = true
			s = s[1:]
			continue
		}
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Duration{}, fail(ErrDurationParsing, "invalid character in duration")
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return Duration{}, fail(ErrDurationParsing, "duration value is too large")
		}
		frac := ""
		if i < len(s) && (s[i] == '.' || s[i] == ',') {
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			frac = s[i+1 : j]
			i = j
		}
		if i >= len(s) {
			return Duration{}, fail(ErrDurationParsing, "expected a duration unit")
		}
		unit := s[i]
		if frac != "" && !(inTime && (unit == 'S' || unit == 's')) {
			return Duration{}, fail(ErrDurationParsing, "fractions are only supported for seconds")
		}
		switch {
		case !inTime && (unit == 'Y' || unit == 'y'):
			day += n * 365
		case !inTime && (unit == 'M' || unit == 'm'):
			day += n * 30
		case !inTime && (unit == 'W' || unit == 'w'):
			day += n * 7
		case !inTime && (unit == 'D' || unit == 'd'):
			day += n
		case inTime && (unit == 'H' || unit == 'h'):
			second += n * 3600
		case inTime && (unit == 'M' || unit == 'm'):
			second += n * 60
		case inTime && (unit == 'S' || unit == 's'):
			second += n
			us, err := fractionMicros(frac, overflow)
			if err != nil {
				return Duration{}, err
			}
			micro += us
		default:
			return Duration{}, fail(ErrDurationParsing, "invalid duration unit")
		}
		seen = true
		s = s[i+1:]
	}
	if !seen {
		return Duration{}, fail(ErrDurationParsing, "input is too short")
	}
	return NewDuration(positive, day, second, micro), nil
}

func parseClockDuration(positive bool, s string, overflow MicrosecondsOverflow) (Duration, error) {
	day := 0
	if i := strings.IndexByte(s, 'd'); i > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(s[:i]))
		if err != nil || n < 0 {
			return Duration{}, fail(ErrDurationParsing, "invalid character in day")
		}
		day = n
		rest := s[i+1:]
		rest = strings.TrimPrefix(rest, "ays")
		rest = strings.TrimPrefix(rest, "ay")
		rest = strings.TrimPrefix(rest, ",")
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return NewDuration(positive, day, 0, 0), nil
		}
		s = rest
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Duration{}, fail(ErrDurationParsing, "invalid duration format")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return Duration{}, fail(ErrDurationParsing, "invalid character in hour")
	}
	m, ok := digits(parts[1])
	if !ok || len(parts[1]) != 2 || m > 59 {
		return Duration{}, fail(ErrDurationParsing, "invalid character in minute")
	}
	secPart, frac, _ := strings.Cut(parts[2], ".")
	sec, ok := digits(secPart)
	if !ok || len(secPart) != 2 || sec > 59 {
		return Duration{}, fail(ErrDurationParsing, "invalid character in second")
	}
	us := 0
	if strings.Contains(parts[2], ".") {
		if frac == "" {
			return Duration{}, fail(ErrDurationParsing, "invalid character in second fraction")
		}
		if _, ok := digits(frac); !ok {
			return Duration{}, fail(ErrDurationParsing, "invalid character in second fraction")
		}
		us, err = fractionMicros(frac, overflow)
		if err != nil {
			return Duration{}, err
		}
	}
	return NewDuration(positive, day, h*3600+m*60+sec, us), nil
}

func fractionMicros(frac string, overflow MicrosecondsOverflow) (int, error) {
	if frac == "" {
		return 0, nil
	}
	if len(frac) > 6 {
		if overflow == Error {
			return 0, fail(ErrDurationParsing, "second fraction value is more than 6 digits long")
		}
		frac = frac[:6]
	}
	us, _ := strconv.Atoi(frac + strings.Repeat("0", 6-len(frac)))
	return us, nil
}

// SecondsAsDuration converts a signed number of seconds.
func SecondsAsDuration(sec int64) Duration {
	positive := sec >= 0
	if !positive {
		sec = -sec
	}
	return NewDuration(positive, 0, int(sec), 0)
}

func FloatAsDuration(f float64) (Duration, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Duration{}, fail(ErrDurationParsing, "NaN values not permitted")
	}
	positive := f >= 0
	f = math.Abs(f)
	sec := math.Floor(f)
	us := int(math.Round((f - sec) * 1e6))
	if sec > math.MaxInt32*86400.0 {
		return Duration{}, fail(ErrDurationParsing, "duration value is too large")
	}
	return NewDuration(positive, 0, int(sec), us), nil
}

// digits parses an all-digit string.
func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' || s[0] == '+' {
		start = 1
	}
	dot := false
	for i := start; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return len(s) > start
}
