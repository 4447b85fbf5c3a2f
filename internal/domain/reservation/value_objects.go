package reservation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrInvalidCode   = errors.New("reservation code must be exactly 8 alphanumeric characters")
	ErrInvalidAmount = errors.New("amount must be a positive fixed-point value with at most 2 decimals")
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{8}$`)

// Code is the immutable 8-character alphanumeric reservation handle.
type Code struct {
	value string
}

func NewCode(value string) (Code, error) {
	if !codePattern.MatchString(value) {
		return Code{}, ErrInvalidCode
	}
	return Code{value: value}, nil
}

func (c Code) Value() string {
	return c.value
}

func (c Code) String() string {
	return c.value
}

func (c Code) IsZero() bool {
	return c.value == ""
}

// Money holds a fixed-point amount with exactly two fractional digits,
// represented internally as cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// ParseMoney accepts decimal strings such as "180.50", "180.5" or "180".
func ParseMoney(value string) (Money, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Money{}, ErrInvalidAmount
	}

	whole, frac, found := strings.Cut(trimmed, ".")
	if whole == "" || strings.HasPrefix(whole, "-") || strings.HasPrefix(whole, "+") {
		return Money{}, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	var cents int64
	if found {
		if len(frac) == 0 || len(frac) > 2 {
			return Money{}, ErrInvalidAmount
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Money{}, ErrInvalidAmount
		}
	}
	return Money{cents: units*100 + cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) IsPositive() bool {
	return m.cents > 0
}

// String renders the canonical wire form, e.g. "180.50".
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// Snapshot is a schema-less key/value bag (customer, vehicle). Values are
// strings, numbers, bools, nulls or nested maps/slices after JSON decoding.
type Snapshot map[string]any

func (s Snapshot) Copy() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
