package kernel

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// ErrMoneyIsNotConstructed is returned when a zero Money value is used.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError("money must be created via NewMoney")

// ErrCurrencyMismatch is returned when amounts in different currencies are combined.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an amount in minor currency units (pence, cents) together with its
// lowercase ISO 4217 currency code, the representation payment providers use.
// Money is never negative.
type Money struct { //nolint:recvcheck //using for validation
	amount   int64
	currency string
	guard    guard.ConstructorGuard
}

// NewMoney validates and builds a Money value.
//
// Example:
//
//	price, err := kernel.NewMoney(500, "gbp") // £5.00
func NewMoney(amount int64, currency string) (Money, error) {
	m := Money{guard: guard.NewConstructorGuard()}
	if err := errors.Join(m.setAmount(amount), m.setCurrency(currency)); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency string) (Money, error) {
	return NewMoney(0, currency)
}

// Validate reports whether m was built through NewMoney.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the value in minor units.
func (m Money) Amount() int64 {
	return m.amount
}

// Currency returns the lowercase ISO currency code.
func (m Money) Currency() string {
	return m.currency
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	if other.amount > math.MaxInt64-m.amount {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", "overflow", 0, int64(math.MaxInt64))
	}
	return NewMoney(m.amount+other.amount, m.currency)
}

// Multiply scales the amount by a non-negative factor.
func (m Money) Multiply(factor int) (Money, error) {
	if factor < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("factor", fmt.Errorf("%d is negative", factor))
	}
	if factor != 0 && m.amount > math.MaxInt64/int64(factor) {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", "overflow", 0, int64(math.MaxInt64))
	}
	return NewMoney(m.amount*int64(factor), m.currency)
}

// IsEqual compares amount and currency.
func (m Money) IsEqual(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}

// String renders the amount as major.minor units, for logs and error messages.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.amount/100, m.amount%100, m.currency)
}

func (m *Money) setAmount(amount int64) error {
	if amount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", amount))
	}
	m.amount = amount
	return nil
}

func (m *Money) setCurrency(currency string) error {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	for _, r := range currency {
		if r < 'a' || r > 'z' {
			return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
		}
	}
	m.currency = currency
	return nil
}
