package calculator

import (
	"fmt"
	"sort"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Facts is an immutable snapshot of one group's ledger for a single currency
// and round. Every projection in this package is a pure function of Facts.
type Facts struct {
	Currency    string
	Members     []string
	Expenses    []models.Expense
	Settlements []models.Settlement
}

// MemberBalance is one member's position in a group.
type MemberBalance struct {
	UserID    string
	TotalPaid money.Money // expenses paid plus settlements paid out
	TotalOwed money.Money // own expense shares plus settlements received
	Net       money.Money // Positive = owed money, Negative = owes money
}

// MemberBalances folds expenses and settlements into per-member totals,
// sorted by user ID.
//
// Algorithm:
// - For each expense: payer paid +amount, each participant owes their split
// - For each settlement: payer's balance improves, payee's balance decreases
// - Aggregate: net = total_paid - total_owed
func MemberBalances(f Facts) ([]MemberBalance, error) {
	if _, err := money.MinorUnits(f.Currency); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	paid := make(map[string]int64, len(f.Members))
	owed := make(map[string]int64, len(f.Members))
	touch := func(id string) {
		if _, ok := paid[id]; !ok {
			paid[id] = 0
			owed[id] = 0
		}
	}
	for _, m := range f.Members {
		touch(m)
	}

	for i := range f.Expenses {
		e := &f.Expenses[i]
		if e.Amount.Currency != f.Currency {
			return nil, invalidf("expense %s is in %s, group uses %s", e.ID, e.Amount.Currency, f.Currency)
		}
		touch(e.PaidBy)
		if err := accumulate(paid, e.PaidBy, e.Amount.Amount); err != nil {
			return nil, err
		}
		for _, s := range e.Splits {
			if s.Amount.Currency != f.Currency {
				return nil, invalidf("split of expense %s is in %s, group uses %s", e.ID, s.Amount.Currency, f.Currency)
			}
			touch(s.UserID)
			if err := accumulate(owed, s.UserID, s.Amount.Amount); err != nil {
				return nil, err
			}
		}
	}

	for i := range f.Settlements {
		s := &f.Settlements[i]
		if s.Amount.Currency != f.Currency {
			return nil, invalidf("settlement %s is in %s, group uses %s", s.ID, s.Amount.Currency, f.Currency)
		}
		touch(s.PayerID)
		touch(s.PayeeID)
		if err := accumulate(paid, s.PayerID, s.Amount.Amount); err != nil {
			return nil, err
		}
		if err := accumulate(owed, s.PayeeID, s.Amount.Amount); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(paid))
	for id := range paid {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]MemberBalance, len(ids))
	for i, id := range ids {
		out[i] = MemberBalance{
			UserID:    id,
			TotalPaid: money.New(paid[id], f.Currency),
			TotalOwed: money.New(owed[id], f.Currency),
			Net:       money.New(paid[id]-owed[id], f.Currency),
		}
	}
	return out, nil
}

// accumulate adds v to totals[id], rejecting a total that would overflow.
func accumulate(totals map[string]int64, id string, v int64) error {
	sum, err := money.AddMinor(totals[id], v)
	if err != nil {
		return fmt.Errorf("%w: running total for %q: %v", ErrInvalidInput, id, err)
	}
	totals[id] = sum
	return nil
}

// ComputeBalances returns every member's net balance. The result always sums to
// zero; if it does not, the facts are corrupt and ErrBalanceInvariantViolation
// is returned.
func ComputeBalances(f Facts) (map[string]money.Money, error) {
	members, err := MemberBalances(f)
	if err != nil {
		return nil, err
	}
	balances := make(map[string]money.Money, len(members))
	for _, m := range members {
		balances[m.UserID] = m.Net
	}
	if err := CheckZeroSum(balances); err != nil {
		return nil, err
	}
	return balances, nil
}

// CheckZeroSum verifies that balances add up to exactly zero.
func CheckZeroSum(balances map[string]money.Money) error {
	amounts := make([]money.Money, 0, len(balances))
	currency := ""
	for _, b := range balances {
		amounts = append(amounts, b)
		currency = b.Currency
	}
	total, err := money.Sum(currency, amounts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBalanceInvariantViolation, err)
	}
	if !total.IsZero() {
		return fmt.Errorf("%w: balances sum to %s", ErrBalanceInvariantViolation, total)
	}
	return nil
}

// IsSettled reports whether every balance is zero.
func IsSettled(balances map[string]money.Money) bool {
	for _, b := range balances {
		if !b.IsZero() {
			return false
		}
	}
	return true
}

// SortedIDs returns the keys of balances in ascending order.
func SortedIDs(balances map[string]money.Money) []string {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
