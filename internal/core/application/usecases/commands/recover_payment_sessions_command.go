package commands

import (
	"errors"
	"fmt"
	"time"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrRecoverPaymentSessionsCommandIsNotConstructed = errors.New(
	"RecoverPaymentSessionsCommand must be created via NewRecoverPaymentSessionsCommand constructor",
)

// RecoverPaymentSessionsCommand sweeps online orders whose payment session was
// never stored, typically because the provider failed during checkout.
type RecoverPaymentSessionsCommand struct { //nolint:recvcheck //using for validation
	grace     time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

// NewRecoverPaymentSessionsCommand only picks orders older than grace, so that
// checkouts still in flight are left alone.
func NewRecoverPaymentSessionsCommand(grace time.Duration, batchSize int) (RecoverPaymentSessionsCommand, error) {
	if grace < 0 {
		return RecoverPaymentSessionsCommand{}, errs.NewValueIsInvalidErrorWithCause("grace",
			fmt.Errorf("%s is negative", grace))
	}
	if batchSize <= 0 {
		return RecoverPaymentSessionsCommand{}, errs.NewValueIsInvalidErrorWithCause("batch size",
			fmt.Errorf("%d is not greater than 0", batchSize))
	}
	return RecoverPaymentSessionsCommand{
		grace:     grace,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecoverPaymentSessionsCommand) Validate() error {
	return c.guard.Validate(ErrRecoverPaymentSessionsCommandIsNotConstructed)
}

func (c RecoverPaymentSessionsCommand) Grace() time.Duration { return c.grace }
func (c RecoverPaymentSessionsCommand) BatchSize() int       { return c.batchSize }
