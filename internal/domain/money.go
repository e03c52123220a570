package domain

import "github.com/shopspring/decimal"

// Money is a non-negative fixed-point amount with two fractional digits.
// Never a binary float.
type Money struct {
	amount decimal.Decimal
}

// NewMoney builds a Money from a decimal, rejecting negatives and rounding
// to two fractional digits (bankers' input never carries more in practice;
// the store keeps DECIMAL(18,2)).
func NewMoney(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, InvalidInputf("money: negative amount %s", d.String())
	}
	return Money{amount: d.Round(2)}, nil
}

// MoneyFromString parses a decimal string such as "1234.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, InvalidInputf("money: %q is not a decimal", s)
	}
	return NewMoney(d)
}

// MoneyFromInt is a convenience constructor for whole amounts.
func MoneyFromInt(v int64) Money {
	return Money{amount: decimal.NewFromInt(v)}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

// String renders the canonical two-fraction-digit form.
func (m Money) String() string { return m.amount.StringFixed(2) }

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }

// Cmp returns -1, 0, or 1 comparing m to o.
func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

func (m Money) GreaterThan(o Money) bool { return m.amount.GreaterThan(o.amount) }

func (m Money) LessThan(o Money) bool { return m.amount.LessThan(o.amount) }

// Ratio returns m/o, or false when o is zero.
func (m Money) Ratio(o Money) (decimal.Decimal, bool) {
	if o.amount.IsZero() {
		return decimal.Zero, false
	}
	return m.amount.Div(o.amount), true
}

// Share is a capital participation percentage in [0, 100].
type Share struct {
	value decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func NewShare(d decimal.Decimal) (Share, error) {
	if d.IsNegative() || d.GreaterThan(hundred) {
		return Share{}, InvalidInputf("share: %s outside [0,100]", d.String())
	}
	return Share{value: d}, nil
}

func ShareFromString(s string) (Share, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Share{}, InvalidInputf("share: %q is not a decimal", s)
	}
	return NewShare(d)
}

func (s Share) Decimal() decimal.Decimal { return s.value }

func (s Share) String() string { return s.value.String() }
