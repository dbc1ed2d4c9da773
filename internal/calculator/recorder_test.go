package calculator

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestValidateSettlement_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		lock    LockState
		s       models.Settlement
		wantErr error
	}{
		{"zero amount", Unlocked, settlement("C", "A", 0, models.MethodSimplified), ErrInvalidInput},
		{"negative amount", Unlocked, settlement("C", "A", -100, models.MethodSimplified), ErrInvalidInput},
		{"zero amount checked before self payment", Unlocked, settlement("C", "C", 0, models.MethodSimplified), ErrInvalidInput},
		{"self payment", Unlocked, settlement("C", "C", 100, models.MethodSimplified), ErrInvalidInput},
		{"payer not a member", Unlocked, settlement("Z", "A", 100, models.MethodSimplified), ErrInvalidInput},
		{"payee not a member", Unlocked, settlement("C", "Z", 100, models.MethodSimplified), ErrInvalidInput},
		{"unknown method", Unlocked, settlement("C", "A", 100, "barter"), ErrInvalidInput},
		{"lock checked before amount owed", LockedDetailed, settlement("C", "A", 999999, models.MethodSimplified), ErrSettlementMethodLocked},
		{"detailed limited to pairwise debt", Unlocked, settlement("C", "A", 6000, models.MethodDetailed), ErrExceedsOutstandingDebt},
		{"simplified limited to net positions", Unlocked, settlement("C", "A", 6001, models.MethodSimplified), ErrExceedsOutstandingDebt},
		{"simplified has no B to A payment", Unlocked, settlement("B", "A", 100, models.MethodSimplified), ErrExceedsOutstandingDebt},
		{"creditor cannot pay debtor", Unlocked, settlement("A", "C", 100, models.MethodDetailed), ErrExceedsOutstandingDebt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := ValidateSettlement(scenarioFacts(), tt.lock, tt.s)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tr.To != tt.lock || tr.RoundClosed {
				t.Errorf("rejected settlement changed lock: %+v", tr)
			}
		})
	}
}

func TestValidateSettlement_ExceedsReportsOutstanding(t *testing.T) {
	_, err := ValidateSettlement(scenarioFacts(), Unlocked, settlement("C", "A", 6000, models.MethodDetailed))
	var exceeds *ExceedsOutstandingDebtError
	if !errors.As(err, &exceeds) {
		t.Fatalf("expected *ExceedsOutstandingDebtError, got %v", err)
	}
	if exceeds.Outstanding.Amount != 3000 || exceeds.Requested.Amount != 6000 {
		t.Errorf("error = %+v, want outstanding 30.00 requested 60.00", exceeds)
	}
}

func TestValidateSettlement_SimplifiedScenario(t *testing.T) {
	f := scenarioFacts()

	tr, err := ValidateSettlement(f, Unlocked, settlement("C", "A", 6000, models.MethodSimplified))
	if err != nil {
		t.Fatalf("ValidateSettlement failed: %v", err)
	}
	if tr.To != Unlocked || !tr.RoundClosed {
		t.Errorf("full payment should close the round, got %+v", tr)
	}
}

func TestValidateSettlement_PartialPayments(t *testing.T) {
	f := scenarioFacts()
	lock := Unlocked

	first := settlement("C", "A", 2500, models.MethodSimplified)
	tr, err := ValidateSettlement(f, lock, first)
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if tr.To != LockedSimplified || tr.RoundClosed {
		t.Fatalf("partial payment should lock to simplified, got %+v", tr)
	}
	f.Settlements = append(f.Settlements, first)
	lock = tr.To

	left, err := Outstanding(f, models.MethodSimplified, "C", "A")
	if err != nil {
		t.Fatalf("Outstanding failed: %v", err)
	}
	if left.Amount != 3500 {
		t.Errorf("outstanding after partial payment = %v, want 35.00", left)
	}

	_, err = ValidateSettlement(f, lock, settlement("C", "B", 100, models.MethodDetailed))
	if !errors.Is(err, ErrSettlementMethodLocked) {
		t.Fatalf("expected detailed payment to be locked out, got %v", err)
	}

	_, err = ValidateSettlement(f, lock, settlement("C", "A", 3501, models.MethodSimplified))
	if !errors.Is(err, ErrExceedsOutstandingDebt) {
		t.Fatalf("expected overpayment to be rejected, got %v", err)
	}

	tr, err = ValidateSettlement(f, lock, settlement("C", "A", 3500, models.MethodSimplified))
	if err != nil {
		t.Fatalf("final payment failed: %v", err)
	}
	if tr.From != LockedSimplified || tr.To != Unlocked || !tr.RoundClosed {
		t.Errorf("final payment should unlock, got %+v", tr)
	}
}

func TestValidateSettlement_DetailedRound(t *testing.T) {
	f := scenarioFacts()
	lock := Unlocked
	payments := []models.Settlement{
		settlement("B", "A", 3000, models.MethodDetailed),
		settlement("C", "A", 3000, models.MethodDetailed),
		settlement("C", "B", 3000, models.MethodDetailed),
	}

	for i, p := range payments {
		tr, err := ValidateSettlement(f, lock, p)
		if err != nil {
			t.Fatalf("payment %d failed: %v", i, err)
		}
		last := i == len(payments)-1
		if tr.RoundClosed != last {
			t.Errorf("payment %d: RoundClosed = %v", i, tr.RoundClosed)
		}
		if !last && tr.To != LockedDetailed {
			t.Errorf("payment %d: lock = %v, want locked_detailed", i, tr.To)
		}
		f.Settlements = append(f.Settlements, p)
		lock = tr.To
	}

	if lock != Unlocked {
		t.Errorf("lock after round = %v, want unlocked", lock)
	}
	balances, err := ComputeBalances(f)
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}
	if !IsSettled(balances) {
		t.Errorf("expected settled balances, got %v", balances)
	}
}

// fourMemberFacts leaves A +100, B +50, C -90 and D -60 cents.
func fourMemberFacts() Facts {
	return Facts{
		Currency: "USD",
		Members:  []string{"A", "B", "C", "D"},
		Expenses: []models.Expense{
			expense("e1", "A", 100, 1, map[string]int64{"C": 90, "D": 10}),
			expense("e2", "B", 50, 2, map[string]int64{"D": 50}),
		},
	}
}

func TestOutstanding_SimplifiedPartialPayments(t *testing.T) {
	f := fourMemberFacts()

	before, err := Outstanding(f, models.MethodSimplified, "C", "A")
	if err != nil {
		t.Fatalf("Outstanding failed: %v", err)
	}
	if before.Amount != 90 {
		t.Fatalf("C->A before = %v, want 0.90", before)
	}

	first := settlement("C", "A", 45, models.MethodSimplified)
	tr, err := ValidateSettlement(f, Unlocked, first)
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	f.Settlements = append(f.Settlements, first)

	after, err := Outstanding(f, models.MethodSimplified, "C", "A")
	if err != nil {
		t.Fatalf("Outstanding failed: %v", err)
	}
	if after.Amount != before.Amount-45 {
		t.Errorf("C->A after = %v, want %d", after, before.Amount-45)
	}

	if _, err := ValidateSettlement(f, tr.To, settlement("C", "A", 45, models.MethodSimplified)); err != nil {
		t.Errorf("remaining payment rejected: %v", err)
	}
}

func TestOutstanding_Simplified(t *testing.T) {
	f := fourMemberFacts()
	tests := []struct {
		payer, payee string
		want         int64
	}{
		{"C", "A", 90},
		{"C", "B", 50},
		{"D", "A", 60},
		{"D", "B", 50},
		{"A", "C", 0},
		{"C", "D", 0},
		{"A", "B", 0},
	}
	for _, tt := range tests {
		got, err := Outstanding(f, models.MethodSimplified, tt.payer, tt.payee)
		if err != nil {
			t.Fatalf("Outstanding(%s, %s) failed: %v", tt.payer, tt.payee, err)
		}
		if got.Amount != tt.want {
			t.Errorf("Outstanding(%s, %s) = %d, want %d", tt.payer, tt.payee, got.Amount, tt.want)
		}
	}
}
