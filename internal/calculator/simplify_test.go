package calculator

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/mmynk/splitledger/internal/money"
)

func balancesOf(amounts map[string]int64) map[string]money.Money {
	out := make(map[string]money.Money, len(amounts))
	for id, a := range amounts {
		out[id] = usd(a)
	}
	return out
}

func applyPlan(balances map[string]money.Money, plan []SuggestedPayment) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for id, b := range balances {
		out[id] = b.Amount
	}
	for _, p := range plan {
		out[p.PayerID] += p.Amount.Amount
		out[p.PayeeID] -= p.Amount.Amount
	}
	return out
}

func TestSimplifySettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances map[string]int64
		want     []SuggestedPayment
	}{
		{
			name:     "scenario collapses to one payment",
			balances: map[string]int64{"A": 6000, "B": 0, "C": -6000},
			want:     []SuggestedPayment{{PayerID: "C", PayeeID: "A", Amount: usd(6000)}},
		},
		{
			name:     "largest debtor meets largest creditor, ties to lower id",
			balances: map[string]int64{"A": 5000, "B": 1000, "C": -4000, "D": -2000},
			want: []SuggestedPayment{
				{PayerID: "C", PayeeID: "A", Amount: usd(4000)},
				{PayerID: "D", PayeeID: "A", Amount: usd(1000)},
				{PayerID: "D", PayeeID: "B", Amount: usd(1000)},
			},
		},
		{
			name:     "settled group needs no payments",
			balances: map[string]int64{"A": 0, "B": 0},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := SimplifySettlements(balancesOf(tt.balances))
			if err != nil {
				t.Fatalf("SimplifySettlements failed: %v", err)
			}
			if len(plan) != len(tt.want) {
				t.Fatalf("got %d payments %+v, want %d", len(plan), plan, len(tt.want))
			}
			for i := range plan {
				if plan[i] != tt.want[i] {
					t.Errorf("payment %d = %+v, want %+v", i, plan[i], tt.want[i])
				}
			}
		})
	}
}

func TestSimplifySettlements_ScenarioFromFacts(t *testing.T) {
	balances, err := ComputeBalances(scenarioFacts())
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}
	plan, err := SimplifySettlements(balances)
	if err != nil {
		t.Fatalf("SimplifySettlements failed: %v", err)
	}
	if len(plan) != 1 {
		t.Fatalf("expected exactly one payment, got %+v", plan)
	}
	if plan[0].PayerID != "C" || plan[0].PayeeID != "A" || plan[0].Amount.Amount != 6000 {
		t.Errorf("payment = %+v, want C pays A 60.00", plan[0])
	}
}

func TestSimplifySettlements_ZeroesRandomBalances(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	ids := []string{"a", "b", "c", "d", "e", "f", "g"}

	for i := 0; i < 200; i++ {
		amounts := make(map[string]int64, len(ids))
		var total int64
		for _, id := range ids[:len(ids)-1] {
			v := rng.Int63n(20001) - 10000
			amounts[id] = v
			total += v
		}
		amounts[ids[len(ids)-1]] = -total

		balances := balancesOf(amounts)
		plan, err := SimplifySettlements(balances)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if len(plan) > len(ids)-1 {
			t.Errorf("iteration %d: %d payments for %d members", i, len(plan), len(ids))
		}
		for id, v := range applyPlan(balances, plan) {
			if v != 0 {
				t.Fatalf("iteration %d: %s left at %d after plan %+v", i, id, v, plan)
			}
		}
		for _, p := range plan {
			if !p.Amount.IsPositive() || p.PayerID == p.PayeeID {
				t.Fatalf("iteration %d: bad payment %+v", i, p)
			}
		}
	}
}

func TestSimplifySettlements_InvariantViolation(t *testing.T) {
	_, err := SimplifySettlements(balancesOf(map[string]int64{"A": 100, "B": -50}))
	if !errors.Is(err, ErrBalanceInvariantViolation) {
		t.Fatalf("expected ErrBalanceInvariantViolation, got %v", err)
	}
}
