package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Snapshot holds a group's current-round facts and every projection derived
// from them. Snapshots are cached and shared, so they must not be modified.
type Snapshot struct {
	Group    *models.Group
	Facts    calculator.Facts
	Members  []calculator.MemberBalance
	Balances map[string]money.Money
	Debts    []calculator.PairwiseDebt
	Plan     []calculator.SuggestedPayment
}

// Lock returns the group's settlement lock state.
func (s *Snapshot) Lock() calculator.LockState {
	return calculator.LockFromMethod(s.Group.SettlementLock)
}

// Settled reports whether every member's balance is zero.
func (s *Snapshot) Settled() bool {
	return calculator.IsSettled(s.Balances)
}

// snapshot returns the projections for groupID. The caller must hold the group's lock.
func (s *LedgerService) snapshot(ctx context.Context, groupID string) (*Snapshot, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	// The fill is shared with concurrent readers, so one caller's cancellation must not fail the others.
	fillCtx := context.WithoutCancel(ctx)
	return s.projections.Load(group.ID, group.Version, func() (*Snapshot, error) {
		return s.buildSnapshot(fillCtx, group)
	})
}

func (s *LedgerService) buildSnapshot(ctx context.Context, group *models.Group) (*Snapshot, error) {
	var expenses []models.Expense
	var settlements []models.Settlement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, group.ID, group.Round)
		return err
	})
	g.Go(func() error {
		var err error
		settlements, err = s.store.ListSettlements(gctx, group.ID, group.Round)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load facts: %w", err)
	}

	snap := &Snapshot{
		Group: group,
		Facts: calculator.Facts{
			Currency:    group.Currency,
			Members:     group.Members,
			Expenses:    expenses,
			Settlements: settlements,
		},
	}

	members, err := calculator.MemberBalances(snap.Facts)
	if err != nil {
		return nil, s.checkInvariant(group.ID, err)
	}
	snap.Members = members
	snap.Balances = make(map[string]money.Money, len(members))
	for _, m := range members {
		snap.Balances[m.UserID] = m.Net
	}
	if err := calculator.CheckZeroSum(snap.Balances); err != nil {
		return nil, s.checkInvariant(group.ID, err)
	}

	// Pairwise netting and simplification are independent folds of the same facts.
	var pg errgroup.Group
	pg.Go(func() error {
		debts, err := calculator.ComputePairwiseDebts(snap.Facts)
		snap.Debts = debts
		return err
	})
	pg.Go(func() error {
		plan, err := calculator.SimplifySettlements(snap.Balances)
		snap.Plan = plan
		return err
	})
	if err := pg.Wait(); err != nil {
		return nil, s.checkInvariant(group.ID, err)
	}
	return snap, nil
}

// checkInvariant reports corrupted facts loudly and passes err through.
func (s *LedgerService) checkInvariant(groupID string, err error) error {
	if errors.Is(err, calculator.ErrBalanceInvariantViolation) {
		metrics.InvariantViolations.Inc()
		slog.Error("Balance invariant violated", "group_id", groupID, "error", err)
	}
	return err
}
