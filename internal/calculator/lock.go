package calculator

import "github.com/mmynk/splitledger/internal/models"

// LockState is a group's settlement lock.
//
//	Unlocked --record(X)--> LockedX
//	LockedX  --record(X)--> LockedX            (while balances remain)
//	LockedX  --record(Y)--> error              (Y != X)
//	any      --record(X), all balances zero--> Unlocked
type LockState int

const (
	Unlocked LockState = iota
	LockedSimplified
	LockedDetailed
)

func (s LockState) String() string {
	switch s {
	case LockedSimplified:
		return "locked_simplified"
	case LockedDetailed:
		return "locked_detailed"
	}
	return "unlocked"
}

// LockFromMethod maps a group's persisted lock column to a state.
func LockFromMethod(m models.SettlementMethod) LockState {
	switch m {
	case models.MethodSimplified:
		return LockedSimplified
	case models.MethodDetailed:
		return LockedDetailed
	}
	return Unlocked
}

// Method returns the method the state is locked to, or "" when unlocked.
func (s LockState) Method() models.SettlementMethod {
	switch s {
	case LockedSimplified:
		return models.MethodSimplified
	case LockedDetailed:
		return models.MethodDetailed
	}
	return ""
}

// Permit reports whether a settlement using method may be recorded.
func (s LockState) Permit(method models.SettlementMethod) error {
	if s == Unlocked || s.Method() == method {
		return nil
	}
	return &MethodLockedError{Locked: s.Method(), Requested: method}
}

// Transition describes the effect of recording one settlement.
type Transition struct {
	From LockState
	To   LockState

	// RoundClosed is set when the settlement left every balance at zero.
	RoundClosed bool
}

// Advance applies a settlement made with method. settled reports whether the
// group's balances are all zero once the settlement is applied.
func (s LockState) Advance(method models.SettlementMethod, settled bool) (Transition, error) {
	if err := s.Permit(method); err != nil {
		return Transition{From: s, To: s}, err
	}
	if settled {
		return Transition{From: s, To: Unlocked, RoundClosed: true}, nil
	}
	return Transition{From: s, To: LockFromMethod(method)}, nil
}
