package transaction

import (
	"fmt"

	"github.com/pkg/errors"
)

// TransactionErrorKind distinguishes the non-revertible TransactionError
// variants from the revertible ones (FeeExceedsMaxFee and a post-validate
// runtime failure are recovered by reverting state, not surfaced as Go
// errors).
type TransactionErrorKind int

const (
	ErrEntryPointNotFound TransactionErrorKind = iota
	ErrInvalidNonce
	ErrFeeExceedsMaxFee
	ErrCairoRunner
	ErrState
	ErrContractAddressUnavailable
)

type TransactionError struct {
	Kind    TransactionErrorKind
	Message string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction error: %s", e.Message)
}

func NewTransactionError(kind TransactionErrorKind, msg string) error {
	return errors.WithStack(&TransactionError{Kind: kind, Message: msg})
}

// wrapState turns a lower-layer StateError into a non-revertible
// TransactionError, preserving the original as the cause chain.
func wrapState(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(NewTransactionError(ErrState, err.Error()), "state")
}
