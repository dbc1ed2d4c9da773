package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func toMoney(m ledgerapi.Money) money.Money {
	return money.New(m.AmountMinor, m.Currency)
}

func fromMoney(m money.Money) ledgerapi.Money {
	return ledgerapi.Money{AmountMinor: m.Amount, Currency: m.Currency}
}

// parseValues reads decimal split values sent as strings.
func parseValues(in map[string]string) (map[string]decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]decimal.Decimal, len(in))
	for id, v := range in {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: value for %s: %q is not a decimal", calculator.ErrInvalidInput, id, v)
		}
		out[id] = d
	}
	return out, nil
}

func fromUser(u *models.User) *ledgerapi.User {
	return &ledgerapi.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func fromGroup(g *models.Group) *ledgerapi.Group {
	return &ledgerapi.Group{
		ID:             g.ID,
		Name:           g.Name,
		Currency:       g.Currency,
		Members:        g.Members,
		SettlementLock: string(g.SettlementLock),
		Round:          g.Round,
		CreatedAt:      g.CreatedAt,
	}
}

func fromShares(shares map[string]money.Money) []ledgerapi.Split {
	out := make([]ledgerapi.Split, 0, len(shares))
	for _, id := range calculator.SortedIDs(shares) {
		out = append(out, ledgerapi.Split{UserID: id, Amount: fromMoney(shares[id])})
	}
	return out
}

func fromExpense(e *models.Expense) *ledgerapi.Expense {
	splits := make([]ledgerapi.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = ledgerapi.Split{UserID: s.UserID, Amount: fromMoney(s.Amount)}
	}
	return &ledgerapi.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      fromMoney(e.Amount),
		PaidBy:      e.PaidBy,
		SplitPolicy: string(e.Policy),
		Splits:      splits,
		Round:       e.Round,
		CreatedAt:   e.CreatedAt,
	}
}

func fromSettlement(s *models.Settlement) *ledgerapi.Settlement {
	return &ledgerapi.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		PayerID:   s.PayerID,
		PayeeID:   s.PayeeID,
		Amount:    fromMoney(s.Amount),
		Method:    string(s.Method),
		Notes:     s.Notes,
		Round:     s.Round,
		CreatedAt: s.CreatedAt,
	}
}

func fromBalances(balances map[string]money.Money) []ledgerapi.Balance {
	out := make([]ledgerapi.Balance, 0, len(balances))
	for _, id := range calculator.SortedIDs(balances) {
		out = append(out, ledgerapi.Balance{UserID: id, Amount: fromMoney(balances[id])})
	}
	return out
}

func fromMembers(members []calculator.MemberBalance) []ledgerapi.MemberBalance {
	out := make([]ledgerapi.MemberBalance, len(members))
	for i, m := range members {
		out[i] = ledgerapi.MemberBalance{
			UserID:    m.UserID,
			TotalPaid: fromMoney(m.TotalPaid),
			TotalOwed: fromMoney(m.TotalOwed),
			Net:       fromMoney(m.Net),
		}
	}
	return out
}

func fromDebts(debts []calculator.PairwiseDebt) []ledgerapi.PairwiseDebt {
	out := make([]ledgerapi.PairwiseDebt, len(debts))
	for i, d := range debts {
		refs := make([]ledgerapi.ExpenseRef, len(d.Expenses))
		for j, r := range d.Expenses {
			refs[j] = ledgerapi.ExpenseRef{
				ExpenseID:   r.ExpenseID,
				Description: r.Description,
				Date:        r.Date,
				Total:       fromMoney(r.Total),
				Share:       fromMoney(r.Share),
				Debtor:      r.Debtor,
				Creditor:    r.Creditor,
			}
		}
		out[i] = ledgerapi.PairwiseDebt{
			Debtor:   d.Debtor,
			Creditor: d.Creditor,
			Amount:   fromMoney(d.Amount),
			Owes:     fromMoney(d.Breakdown.Owes),
			OwedBack: fromMoney(d.Breakdown.OwedBack),
			Expenses: refs,
		}
	}
	return out
}

func fromPlan(plan []calculator.SuggestedPayment) []ledgerapi.Payment {
	out := make([]ledgerapi.Payment, len(plan))
	for i, p := range plan {
		out[i] = ledgerapi.Payment{PayerID: p.PayerID, PayeeID: p.PayeeID, Amount: fromMoney(p.Amount)}
	}
	return out
}
