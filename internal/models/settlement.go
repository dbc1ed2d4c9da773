package models

import "github.com/mmynk/splitledger/internal/money"

// Settlement represents a real-world payment between group members that reduces
// the payer's debt to the payee.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// PayeeID is the user who received payment (creditor being paid).
	PayeeID string

	// Amount is the positive payment amount.
	Amount money.Money

	// Method is the settlement view the payment was recorded from.
	Method SettlementMethod

	// Notes is an optional description for the settlement.
	Notes string

	// Round is the settlement round the payment belongs to.
	Round int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
