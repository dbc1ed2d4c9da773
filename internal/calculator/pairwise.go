package calculator

import (
	"sort"

	"github.com/mmynk/splitledger/internal/money"
)

// ExpenseRef records which expense contributed to a pairwise debt.
type ExpenseRef struct {
	ExpenseID   string
	Description string
	Date        int64
	Total       money.Money // full expense amount
	Share       money.Money // the debtor's share owed to the payer
	Debtor      string
	Creditor    string
}

// Breakdown holds the two directional totals that were netted.
type Breakdown struct {
	Owes     money.Money // debtor -> creditor, after settlements
	OwedBack money.Money // creditor -> debtor, after settlements
}

// PairwiseDebt is the net amount one member owes another.
type PairwiseDebt struct {
	Debtor    string
	Creditor  string
	Amount    money.Money
	Breakdown Breakdown
	Expenses  []ExpenseRef
}

type edge struct{ from, to string }

// ComputePairwiseDebts derives directed debtor -> creditor debts with expense
// provenance and collapses opposing debts into one net edge per pair.
//
// Settlements reduce the payer -> payee edge and never push it below zero.
// Pairs are returned ordered by (lower id, higher id), so identical facts always
// yield identical output.
func ComputePairwiseDebts(f Facts) ([]PairwiseDebt, error) {
	if _, err := money.MinorUnits(f.Currency); err != nil {
		return nil, invalidf("%v", err)
	}

	weights := make(map[edge]int64)
	refs := make(map[edge][]ExpenseRef)

	for i := range f.Expenses {
		e := &f.Expenses[i]
		if e.Amount.Currency != f.Currency {
			return nil, invalidf("expense %s is in %s, group uses %s", e.ID, e.Amount.Currency, f.Currency)
		}
		for _, s := range e.Splits {
			if s.UserID == e.PaidBy || !s.Amount.IsPositive() {
				continue
			}
			k := edge{from: s.UserID, to: e.PaidBy}
			weights[k] += s.Amount.Amount
			refs[k] = append(refs[k], ExpenseRef{
				ExpenseID:   e.ID,
				Description: e.Description,
				Date:        e.CreatedAt,
				Total:       e.Amount,
				Share:       s.Amount,
				Debtor:      s.UserID,
				Creditor:    e.PaidBy,
			})
		}
	}

	for i := range f.Settlements {
		s := &f.Settlements[i]
		if s.Amount.Currency != f.Currency {
			return nil, invalidf("settlement %s is in %s, group uses %s", s.ID, s.Amount.Currency, f.Currency)
		}
		k := edge{from: s.PayerID, to: s.PayeeID}
		w, ok := weights[k]
		if !ok {
			continue
		}
		w -= s.Amount.Amount
		if w < 0 {
			w = 0
		}
		weights[k] = w
	}

	pairs := make(map[edge]bool)
	for k := range weights {
		lo, hi := k.from, k.to
		if hi < lo {
			lo, hi = hi, lo
		}
		pairs[edge{from: lo, to: hi}] = true
	}
	ordered := make([]edge, 0, len(pairs))
	for p := range pairs {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].from != ordered[j].from {
			return ordered[i].from < ordered[j].from
		}
		return ordered[i].to < ordered[j].to
	})

	var debts []PairwiseDebt
	for _, p := range ordered {
		forward := edge{from: p.from, to: p.to}
		backward := edge{from: p.to, to: p.from}
		x, y := weights[forward], weights[backward]
		if x == y {
			continue
		}
		if y > x {
			forward, backward = backward, forward
			x, y = y, x
		}
		provenance := append(sortedRefs(refs[forward]), sortedRefs(refs[backward])...)
		debts = append(debts, PairwiseDebt{
			Debtor:   forward.from,
			Creditor: forward.to,
			Amount:   money.New(x-y, f.Currency),
			Breakdown: Breakdown{
				Owes:     money.New(x, f.Currency),
				OwedBack: money.New(y, f.Currency),
			},
			Expenses: provenance,
		})
	}
	return debts, nil
}

// OutstandingDebt returns what payer owes payee according to debts, or zero.
func OutstandingDebt(debts []PairwiseDebt, currency, payer, payee string) money.Money {
	for _, d := range debts {
		if d.Debtor == payer && d.Creditor == payee {
			return d.Amount
		}
	}
	return money.Zero(currency)
}

func sortedRefs(in []ExpenseRef) []ExpenseRef {
	out := append([]ExpenseRef(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ExpenseID < out[j].ExpenseID
	})
	return out
}
