package calculator

import (
	"container/heap"
	"fmt"

	"github.com/mmynk/splitledger/internal/money"
)

// SuggestedPayment is one payment in a simplified settlement plan.
type SuggestedPayment struct {
	PayerID string
	PayeeID string
	Amount  money.Money
}

type party struct {
	id     string
	amount int64 // outstanding magnitude, always positive
}

// partyHeap orders by largest amount first, then lower id.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].amount != h[j].amount {
		return h[i].amount > h[j].amount
	}
	return h[i].id < h[j].id
}
func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)   { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	p := old[len(old)-1]
	*h = old[:len(old)-1]
	return p
}

// SimplifySettlements computes a short list of payments that drives every
// balance to zero.
//
// Greedy min-cash-flow: repeatedly match the largest debtor with the largest
// creditor (lower user id wins ties) for min(debt, credit), dropping whoever
// reaches zero. This is deterministic and O(n log n) but not guaranteed to find
// the theoretical minimum number of payments for every input; callers rely on
// this exact plan, not on optimality.
func SimplifySettlements(balances map[string]money.Money) ([]SuggestedPayment, error) {
	var debtors, creditors partyHeap
	var owed, due int64
	currency := ""
	for _, id := range SortedIDs(balances) {
		b := balances[id]
		if currency == "" {
			currency = b.Currency
		} else if b.Currency != currency {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, money.ErrCurrencyMismatch)
		}
		switch {
		case b.IsPositive():
			creditors = append(creditors, party{id: id, amount: b.Amount})
			due += b.Amount
		case b.IsNegative():
			debtors = append(debtors, party{id: id, amount: -b.Amount})
			owed += -b.Amount
		}
	}
	if owed != due {
		return nil, fmt.Errorf("%w: debtors owe %s but creditors are due %s",
			ErrBalanceInvariantViolation, money.New(owed, currency), money.New(due, currency))
	}

	heap.Init(&debtors)
	heap.Init(&creditors)

	var plan []SuggestedPayment
	for debtors.Len() > 0 && creditors.Len() > 0 {
		d := heap.Pop(&debtors).(party)
		c := heap.Pop(&creditors).(party)

		amount := min(d.amount, c.amount)
		plan = append(plan, SuggestedPayment{
			PayerID: d.id,
			PayeeID: c.id,
			Amount:  money.New(amount, currency),
		})

		d.amount -= amount
		c.amount -= amount
		if d.amount > 0 {
			heap.Push(&debtors, d)
		}
		if c.amount > 0 {
			heap.Push(&creditors, c)
		}
	}
	return plan, nil
}
