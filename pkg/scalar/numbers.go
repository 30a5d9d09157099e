package scalar

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Int is an integer that falls back to *big.Int outside the int64 range.
// The zero value is 0.
type Int struct {
	small int64
	big   *big.Int
}

func IntFrom64(i int64) Int { return Int{small: i} }

// IntFromBig normalizes n back to int64 when it fits.
func IntFromBig(n *big.Int) Int {
	if n.IsInt64() {
		return Int{small: n.Int64()}
	}
	return Int{big: new(big.Int).Set(n)}
}

func IntFromUint64(u uint64) Int {
	if u <= math.MaxInt64 {
		return Int{small: int64(u)}
	}
	return Int{big: new(big.Int).SetUint64(u)}
}

func (i Int) IsBig() bool { return i.big != nil }

// Int64 returns the value and whether it fits int64.
func (i Int) Int64() (int64, bool) {
	if i.big != nil {
		return 0, false
	}
	return i.small, true
}

// Big returns the value as a fresh *big.Int.
func (i Int) Big() *big.Int {
	if i.big != nil {
		return new(big.Int).Set(i.big)
	}
	return big.NewInt(i.small)
}

// Value returns int64 or *big.Int.
func (i Int) Value() any {
	if i.big != nil {
		return new(big.Int).Set(i.big)
	}
	return i.small
}

func (i Int) Float64() float64 {
	if i.big != nil {
		f, _ := new(big.Float).SetInt(i.big).Float64()
		return f
	}
	return float64(i.small)
}

// Cmp compares i and o like big.Int.Cmp.
func (i Int) Cmp(o Int) int {
	if i.big == nil && o.big == nil {
		switch {
		case i.small < o.small:
			return -1
		case i.small > o.small:
			return 1
		}
		return 0
	}
	return i.Big().Cmp(o.Big())
}

func (i Int) String() string {
	if i.big != nil {
		return i.big.String()
	}
	return strconv.FormatInt(i.small, 10)
}

// StrAsBool accepts a small case-insensitive whitelist.
func StrAsBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "0", "off", "f", "false", "n", "no":
		return false, nil
	case "1", "on", "t", "true", "y", "yes":
		return true, nil
	}
	return false, fail(ErrBoolParsing, "input should be a valid boolean, unable to interpret input")
}

// IntAsBool accepts only 0 and 1.
func IntAsBool(i Int) (bool, error) {
	if v, ok := i.Int64(); ok {
		switch v {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	}
	return false, fail(ErrBoolParsing, "input should be a valid boolean, unable to interpret input")
}

// StrAsInt parses a decimal integer with an optional sign. Underscores are
// allowed between digits. Surrounding whitespace is rejected.
func StrAsInt(s string) (Int, error) {
	if s == "" {
		return Int{}, fail(ErrIntParsing, "empty string")
	}
	digits := s
	if digits[0] == '+' || digits[0] == '-' {
		digits = digits[1:]
	}
	if digits == "" {
		return Int{}, fail(ErrIntParsing, "no digits")
	}
	prevUnderscore := true
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		switch {
		case c >= '0' && c <= '9':
			prevUnderscore = false
		case c == '_' && !prevUnderscore && i < len(digits)-1:
			prevUnderscore = true
		default:
			return Int{}, fail(ErrIntParsing, "invalid character in integer")
		}
	}

	clean := strings.ReplaceAll(s, "_", "")
	if v, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return Int{small: v}, nil
	}
	n, ok := new(big.Int).SetString(clean, 10)
	if !ok {
		return Int{}, fail(ErrIntParsing, "invalid integer")
	}
	return Int{big: n}, nil
}

// FloatAsInt accepts only finite whole floats.
func FloatAsInt(f float64) (Int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Int{}, fail(ErrFiniteNumber, "input should be a finite number")
	}
	if f != math.Trunc(f) {
		return Int{}, fail(ErrIntFromFloat, "input should be a valid integer, got a number with a fractional part")
	}
	if f >= -(1<<63) && f < 1<<63 {
		return Int{small: int64(f)}, nil
	}
	n, _ := big.NewFloat(f).Int(nil)
	return Int{big: n}, nil
}

// StrAsFloat parses a decimal float. Hexadecimal forms are rejected, and
// non-finite literals are rejected unless allowInfNaN is set.
func StrAsFloat(s string, allowInfNaN bool) (float64, error) {
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, fail(ErrFloatParsing, "input should be a valid number, unable to parse string as a number")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fail(ErrFloatParsing, "input should be a valid number, unable to parse string as a number")
	}
	if !allowInfNaN && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return 0, fail(ErrFiniteNumber, "input should be a finite number")
	}
	return f, nil
}
