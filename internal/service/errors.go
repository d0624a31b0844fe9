package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrJobNotFound       = errors.New("job not found or already paid")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotContractClient = errors.New("payer is not the client on the contract")
)

// InsufficientBalanceError is returned when the payer cannot cover the job
// price at lock time.
type InsufficientBalanceError struct {
	CurrentBalance decimal.Decimal
	RequiredAmount decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: current balance %s, required amount %s",
		e.CurrentBalance.String(), e.RequiredAmount.String())
}

// DepositLimitError is returned when a deposit exceeds the ceiling derived
// from the profile's outstanding unpaid work.
type DepositLimitError struct {
	Amount     decimal.Decimal
	MaxDeposit decimal.Decimal
}

func (e *DepositLimitError) Error() string {
	return fmt.Sprintf("deposit amount %s exceeds the maximum allowed amount of %s",
		e.Amount.String(), e.MaxDeposit.String())
}

// TransactionError wraps storage and data-integrity faults that abort a
// unit of work. The message stays generic so internal error text never
// reaches a caller; the cause is available via Unwrap for logging.
type TransactionError struct {
	Op       string
	EntityID int64
	Err      error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed for id %d", e.Op, e.EntityID)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// wrapTxError lets the typed business failures through untouched and turns
// everything else into a TransactionError.
func wrapTxError(op string, entityID int64, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrJobNotFound),
		errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotContractClient):
		return err
	}
	var insufficient *InsufficientBalanceError
	var limit *DepositLimitError
	if errors.As(err, &insufficient) || errors.As(err, &limit) {
		return err
	}
	return &TransactionError{Op: op, EntityID: entityID, Err: err}
}
