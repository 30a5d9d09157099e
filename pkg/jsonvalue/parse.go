package jsonvalue

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
)

// DuplicateKeys selects what the parser does when an object repeats a key.
type DuplicateKeys int

const (
	// KeepLast keeps the first position of the key and the last value.
	KeepLast DuplicateKeys = iota
	// KeepFirst ignores every repetition of a key.
	KeepFirst
	// Reject fails the parse with ErrDuplicateKey.
	Reject
)

// ParseDuplicateKeys maps a configuration string to a DuplicateKeys policy.
func ParseDuplicateKeys(s string) (DuplicateKeys, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return KeepLast, nil
	case "first":
		return KeepFirst, nil
	case "reject", "error":
		return Reject, nil
	default:
		return KeepLast, fmt.Errorf("%w: unknown duplicate keys policy %q", ErrInvalidOption, s)
	}
}

// DefaultMaxDepth bounds array/object nesting during parsing.
const DefaultMaxDepth = 512

type config struct {
	duplicateKeys DuplicateKeys
	maxDepth      int
}

// Option configures Parse.
type Option func(*config)

func WithDuplicateKeys(p DuplicateKeys) Option {
	return func(c *config) { c.duplicateKeys = p }
}

// WithMaxDepth overrides the nesting limit. Non-positive values are ignored.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// Parse decodes data into a JSON tree.
// Integers that do not fit int64 become Uint, then BigInt.
func Parse(data []byte, opts ...Option) (*Value, error) {
	cfg := config{duplicateKeys: KeepLast, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := jx.DecodeBytes(data)
	v, err := cfg.decode(d, 0)
	if err != nil {
		return nil, err
	}
	if d.Next() != jx.Invalid {
		return nil, fmt.Errorf("%w: trailing characters after value", ErrInvalidJSON)
	}
	return v, nil
}

// ParseString is Parse for string input.
func ParseString(s string, opts ...Option) (*Value, error) {
	return Parse([]byte(s), opts...)
}

func (c *config) decode(d *jx.Decoder, depth int) (*Value, error) {
	if depth > c.maxDepth {
		return nil, ErrTooDeep
	}

	switch d.Next() {
	case jx.Null:
		if err := d.Null(); err != nil {
			return nil, wrapDecodeErr(err)
		}
		return Null(), nil

	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		return Bool(b), nil

	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		return parseNumber(string(n))

	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		return String(s), nil

	case jx.Array:
		items := make([]*Value, 0, 4)
		err := d.Arr(func(d *jx.Decoder) error {
			item, err := c.decode(d, depth+1)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		return Array(items...), nil

	case jx.Object:
		obj := NewObject()
		err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			k := string(key)
			item, err := c.decode(d, depth+1)
			if err != nil {
				return err
			}
			if obj.Has(k) {
				switch c.duplicateKeys {
				case KeepFirst:
					return nil
				case Reject:
					return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
				}
			}
			obj.Set(k, item)
			return nil
		})
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		return ObjectValue(obj), nil

	default:
		return nil, fmt.Errorf("%w: expected value", ErrInvalidJSON)
	}
}

func parseNumber(raw string) (*Value, error) {
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return Uint(u), nil
		}
		if n, ok := new(big.Int).SetString(raw, 10); ok {
			return BigInt(n), nil
		}
		return nil, fmt.Errorf("%w: invalid number %q", ErrInvalidJSON, raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid number %q", ErrInvalidJSON, raw)
	}
	return Float(f), nil
}

func wrapDecodeErr(err error) error {
	if errors.Is(err, ErrInvalidJSON) || errors.Is(err, ErrDuplicateKey) || errors.Is(err, ErrTooDeep) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
}
