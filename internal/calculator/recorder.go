package calculator

import (
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Outstanding returns what payer currently owes payee in the view named by method.
//
// Detailed settlements pay down the pairwise debt between the two members.
// Simplified settlements move money from a net debtor to a net creditor, so
// their ceiling is the smaller of what payer owes the group and what the group
// owes payee. Paying part of it lowers the ceiling by exactly that amount.
func Outstanding(f Facts, method models.SettlementMethod, payer, payee string) (money.Money, error) {
	switch method {
	case models.MethodDetailed:
		debts, err := ComputePairwiseDebts(f)
		if err != nil {
			return money.Money{}, err
		}
		return OutstandingDebt(debts, f.Currency, payer, payee), nil
	case models.MethodSimplified:
		balances, err := ComputeBalances(f)
		if err != nil {
			return money.Money{}, err
		}
		owes, owed := -balances[payer].Amount, balances[payee].Amount
		if owes <= 0 || owed <= 0 {
			return money.Zero(f.Currency), nil
		}
		return money.New(min(owes, owed), f.Currency), nil
	}
	return money.Money{}, invalidf("unknown settlement method %q", method)
}

// ValidateSettlement checks a settlement against a fresh view of the facts and
// returns the lock transition recording it would cause. Checks run in order:
// positive amount, distinct parties, membership, lock, outstanding debt.
func ValidateSettlement(f Facts, lock LockState, s models.Settlement) (Transition, error) {
	noop := Transition{From: lock, To: lock}

	if s.Amount.Currency != f.Currency {
		return noop, invalidf("settlement is in %s, group uses %s", s.Amount.Currency, f.Currency)
	}
	if !s.Amount.IsPositive() {
		return noop, invalidf("settlement amount must be positive, got %s", s.Amount)
	}
	if s.PayerID == s.PayeeID {
		return noop, invalidf("payer and payee must differ")
	}
	if !contains(f.Members, s.PayerID) {
		return noop, invalidf("payer %q is not a group member", s.PayerID)
	}
	if !contains(f.Members, s.PayeeID) {
		return noop, invalidf("payee %q is not a group member", s.PayeeID)
	}
	if err := lock.Permit(s.Method); err != nil {
		return noop, err
	}

	outstanding, err := Outstanding(f, s.Method, s.PayerID, s.PayeeID)
	if err != nil {
		return noop, err
	}
	if s.Amount.Amount > outstanding.Amount {
		return noop, &ExceedsOutstandingDebtError{
			PayerID:     s.PayerID,
			PayeeID:     s.PayeeID,
			Requested:   s.Amount,
			Outstanding: outstanding,
		}
	}

	after := f
	after.Settlements = append(append([]models.Settlement(nil), f.Settlements...), s)
	balances, err := ComputeBalances(after)
	if err != nil {
		return noop, err
	}
	return lock.Advance(s.Method, IsSettled(balances))
}
