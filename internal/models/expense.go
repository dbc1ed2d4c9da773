package models

import "github.com/mmynk/splitledger/internal/money"

// SplitPolicy selects how an expense amount is divided among participants.
type SplitPolicy string

const (
	SplitEqual      SplitPolicy = "equal"
	SplitExact      SplitPolicy = "exact"
	SplitPercentage SplitPolicy = "percentage"
)

// Expense is an amount paid by one member on behalf of the participants.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	GroupID     string
	Description string

	// Amount is the positive total paid, in the group's currency.
	Amount money.Money

	// PaidBy is the user ID of the payer.
	PaidBy string

	// Policy is the split policy the splits were calculated with.
	Policy SplitPolicy

	// Splits holds each participant's share. The shares sum to Amount exactly.
	// The payer may be absent, in which case their own share is zero.
	Splits []Split

	// Round is the settlement round the expense belongs to.
	Round int64

	// CreatedAt is the Unix timestamp of the expense.
	CreatedAt int64
}

// Split is one participant's share of an expense.
type Split struct {
	UserID string
	Amount money.Money
}

// ShareOf returns userID's split amount, or zero if the user has no split line.
func (e *Expense) ShareOf(userID string) money.Money {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s.Amount
		}
	}
	return money.Zero(e.Amount.Currency)
}
