package hisaab

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Amount represents a currency-agnostic monetary value with exact decimal
// arithmetic. Ledger amounts are positive; differences may be negative.
type Amount struct {
	value decimal.Decimal
}

// A builds an Amount from any numeric constant.
func A[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Amount {
	return Amount{value: newDecimal(value)}
}

func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.New(int64(v), 0)
	case int32:
		return decimal.New(int64(v), 0)
	case int64:
		return decimal.New(v, 0)
	case decimal.Decimal:
		return v
	}
	return decimal.Decimal{}
}

// ParseAmount parses a ledger amount. Thousands separators are tolerated in
// both western ("1,234.50") and Indian ("1,23,456.50") grouping.
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: d}, nil
}

func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) Abs() Amount         { return Amount{value: a.value.Abs()} }
func (a Amount) Neg() Amount         { return Amount{value: a.value.Neg()} }

func (a Amount) IsZero() bool                   { return a.value.IsZero() }
func (a Amount) IsPositive() bool               { return a.value.IsPositive() }
func (a Amount) IsNegative() bool               { return a.value.IsNegative() }
func (a Amount) Equal(b Amount) bool            { return a.value.Equal(b.value) }
func (a Amount) LessThan(b Amount) bool         { return a.value.LessThan(b.value) }
func (a Amount) LessThanOrEqual(b Amount) bool  { return a.value.LessThanOrEqual(b.value) }
func (a Amount) GreaterThan(b Amount) bool      { return a.value.GreaterThan(b.value) }
func (a Amount) GreaterThanOrEqual(b Amount) bool {
	return a.value.GreaterThanOrEqual(b.value)
}

// String returns the plain 2-decimal representation, e.g. "1234.50".
func (a Amount) String() string { return a.value.StringFixed(2) }

// Display returns the amount formatted as Indian rupees, e.g. "₹1,234.50".
func (a Amount) Display() string {
	// the Money constructor is the one way to get a never-nil currency
	cur := *money.New(0, money.INR).Currency()
	minor := a.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return a.value.Round(2).MarshalJSON()
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	// Accept both bare numbers and quoted strings, like the decimal package.
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.value = d
	return nil
}
