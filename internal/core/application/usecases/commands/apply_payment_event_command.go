package commands

import (
	"errors"
	"strings"

	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrApplyPaymentEventCommandIsNotConstructed = errors.New(
	"ApplyPaymentEventCommand must be created via NewApplyPaymentEventCommand constructor",
)

// ApplyPaymentEventCommand carries a webhook delivery exactly as received.
// The payload must be the raw request body; any re-encoding breaks the signature.
type ApplyPaymentEventCommand struct { //nolint:recvcheck //using for validation
	payload   []byte
	signature string

	guard guard.ConstructorGuard
}

func NewApplyPaymentEventCommand(payload []byte, signature string) (ApplyPaymentEventCommand, error) {
	var errList []error
	if len(payload) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("payload"))
	}
	if strings.TrimSpace(signature) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("signature"))
	}
	if err := errors.Join(errList...); err != nil {
		return ApplyPaymentEventCommand{}, err
	}

	return ApplyPaymentEventCommand{
		payload:   append([]byte(nil), payload...),
		signature: signature,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyPaymentEventCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentEventCommandIsNotConstructed)
}

func (c ApplyPaymentEventCommand) Payload() []byte   { return append([]byte(nil), c.payload...) }
func (c ApplyPaymentEventCommand) Signature() string { return c.signature }
