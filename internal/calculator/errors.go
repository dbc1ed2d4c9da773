package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

var (
	// ErrInvalidInput rejects malformed input before any state is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSplitMismatch means exact or percentage values do not reconcile to the expense total.
	ErrSplitMismatch = errors.New("split does not reconcile to expense total")

	// ErrExceedsOutstandingDebt means a settlement is larger than what the payer owes the payee.
	ErrExceedsOutstandingDebt = errors.New("settlement exceeds outstanding debt")

	// ErrSettlementMethodLocked means the group's round is locked to the other method.
	ErrSettlementMethodLocked = errors.New("settlement method locked")

	// ErrBalanceInvariantViolation means balances in a group no longer sum to zero.
	// It always indicates corrupted facts upstream and is never recoverable.
	ErrBalanceInvariantViolation = errors.New("balance invariant violation")
)

// SplitMismatchError reports what the supplied values added up to.
type SplitMismatchError struct {
	Policy models.SplitPolicy
	Got    string
	Want   string
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("%s split sums to %s, want %s", e.Policy, e.Got, e.Want)
}

func (e *SplitMismatchError) Unwrap() error { return ErrSplitMismatch }

// ExceedsOutstandingDebtError carries the amount actually owed so callers can retry.
type ExceedsOutstandingDebtError struct {
	PayerID     string
	PayeeID     string
	Requested   money.Money
	Outstanding money.Money
}

func (e *ExceedsOutstandingDebtError) Error() string {
	return fmt.Sprintf("%s owes %s only %s, cannot settle %s",
		e.PayerID, e.PayeeID, e.Outstanding, e.Requested)
}

func (e *ExceedsOutstandingDebtError) Unwrap() error { return ErrExceedsOutstandingDebt }

// MethodLockedError names the method the group is locked to.
type MethodLockedError struct {
	Locked    models.SettlementMethod
	Requested models.SettlementMethod
}

func (e *MethodLockedError) Error() string {
	return fmt.Sprintf("group is locked to %s settlements, cannot record %s settlement", e.Locked, e.Requested)
}

func (e *MethodLockedError) Unwrap() error { return ErrSettlementMethodLocked }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
