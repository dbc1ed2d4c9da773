package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// CreateUser registers a new user.
func (s *LedgerService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	user := &models.User{Name: in.Name, Email: in.Email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *LedgerService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// CreateGroup creates a group of existing users sharing one currency.
func (s *LedgerService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	currency, err := money.NormalizeCurrency(in.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", calculator.ErrInvalidInput, err)
	}
	group := &models.Group{
		Name:     in.Name,
		Currency: currency,
		Members:  in.Members,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	slog.Info("Group created", "group_id", group.ID, "currency", group.Currency)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *LedgerService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *LedgerService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// AddGroupMembers adds existing users to a group and returns the updated group.
func (s *LedgerService) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if err := s.validate.Var(userIDs, "required,min=1,unique,dive,required"); err != nil {
		return nil, fmt.Errorf("%w: user ids: %v", calculator.ErrInvalidInput, err)
	}

	unlock := s.locks.lock(groupID)
	defer unlock()

	if err := s.store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return nil, err
	}
	s.projections.Invalidate(groupID)
	slog.Info("Group members added", "group_id", groupID, "count", len(userIDs))
	return s.store.GetGroup(ctx, groupID)
}

// CalculateSplit divides amount among participants under policy without
// touching any group.
func (s *LedgerService) CalculateSplit(amount money.Money, policy models.SplitPolicy, participants []string, raw map[string]decimal.Decimal) (map[string]money.Money, error) {
	return calculator.CalculateSplit(amount, policy, participants, raw)
}

// CreateExpense splits an expense among group members and appends it to the
// group's current round.
func (s *LedgerService) CreateExpense(ctx context.Context, in CreateExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	amount, err := normalizeMoney(in.Amount)
	if err != nil {
		return nil, err
	}
	in.Amount = amount

	unlock := s.locks.lock(in.GroupID)
	defer unlock()

	snap, err := s.snapshot(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	group := snap.Group
	if in.Amount.Currency != group.Currency {
		return nil, fmt.Errorf("%w: expense is in %q, group uses %s", calculator.ErrInvalidInput, in.Amount.Currency, group.Currency)
	}
	if !group.HasMember(in.PaidBy) {
		return nil, fmt.Errorf("%w: payer %q is not a group member", calculator.ErrInvalidInput, in.PaidBy)
	}
	for _, p := range in.Participants {
		if !group.HasMember(p) {
			return nil, fmt.Errorf("%w: participant %q is not a group member", calculator.ErrInvalidInput, p)
		}
	}

	shares, err := calculator.CalculateSplit(in.Amount, in.Policy, in.Participants, in.Values)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: in.Description,
		Amount:      in.Amount,
		PaidBy:      in.PaidBy,
		Policy:      in.Policy,
		CreatedAt:   in.CreatedAt,
	}
	for _, id := range calculator.SortedIDs(shares) {
		expense.Splits = append(expense.Splits, models.Split{UserID: id, Amount: shares[id]})
	}

	// Members' running totals must stay representable once the expense is in.
	after := snap.Facts
	after.Expenses = append(slices.Clone(snap.Facts.Expenses), *expense)
	if _, err := calculator.MemberBalances(after); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}
	s.projections.Invalidate(group.ID)

	slog.Info("Expense created",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"policy", expense.Policy,
		"round", expense.Round,
	)
	return expense, nil
}

// ListExpenses returns the expenses of the group's current round.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Facts.Expenses), nil
}

// ListSettlements returns the settlements of the group's current round.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID string) ([]models.Settlement, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Facts.Settlements), nil
}

// ComputeBalances returns each member's net balance: positive when the group
// owes them, negative when they owe the group.
func (s *LedgerService) ComputeBalances(ctx context.Context, groupID string) (map[string]money.Money, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return maps.Clone(snap.Balances), nil
}

// ComputePairwiseDebts returns the net debt between every pair of members
// with the expenses behind it.
func (s *LedgerService) ComputePairwiseDebts(ctx context.Context, groupID string) ([]calculator.PairwiseDebt, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Debts), nil
}

// ComputeSimplifiedSettlements returns the suggested payments that settle the group.
func (s *LedgerService) ComputeSimplifiedSettlements(ctx context.Context, groupID string) ([]calculator.SuggestedPayment, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.Plan), nil
}

// SettlementResult is the outcome of recording a settlement.
type SettlementResult struct {
	Settlement *models.Settlement
	Lock       calculator.LockState

	// RoundClosed is set when the payment settled the group completely.
	RoundClosed bool

	// Round is the group's round after the settlement.
	Round int64
}

// RecordSettlement validates a payment against the group's current projections
// and appends it together with the resulting lock change.
func (s *LedgerService) RecordSettlement(ctx context.Context, in RecordSettlementInput) (*SettlementResult, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	if in.Method == "" {
		in.Method = models.MethodSimplified
	}
	amount, err := normalizeMoney(in.Amount)
	if err != nil {
		return nil, err
	}
	in.Amount = amount

	unlock := s.locks.lock(in.GroupID)
	defer unlock()

	snap, err := s.snapshot(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		GroupID: snap.Group.ID,
		PayerID: in.PayerID,
		PayeeID: in.PayeeID,
		Amount:  in.Amount,
		Method:  in.Method,
		Notes:   in.Notes,
		Round:   snap.Group.Round,
	}
	tr, err := calculator.ValidateSettlement(snap.Facts, snap.Lock(), *settlement)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendSettlement(ctx, settlement, tr.To.Method(), tr.RoundClosed); err != nil {
		return nil, err
	}
	s.projections.Invalidate(snap.Group.ID)

	metrics.SettlementsRecorded.WithLabelValues(string(settlement.Method)).Inc()
	round := snap.Group.Round
	if tr.RoundClosed {
		metrics.RoundsClosed.Inc()
		round++
	}

	slog.Info("Settlement recorded",
		"group_id", settlement.GroupID,
		"settlement_id", settlement.ID,
		"payer_id", settlement.PayerID,
		"payee_id", settlement.PayeeID,
		"amount", settlement.Amount.String(),
		"method", settlement.Method,
		"lock_from", tr.From,
		"lock_to", tr.To,
		"round_closed", tr.RoundClosed,
	)

	return &SettlementResult{
		Settlement:  settlement,
		Lock:        tr.To,
		RoundClosed: tr.RoundClosed,
		Round:       round,
	}, nil
}

// Summary is a group's complete settlement picture from a single snapshot.
type Summary struct {
	Group   *models.Group
	Members []calculator.MemberBalance
	Debts   []calculator.PairwiseDebt
	Plan    []calculator.SuggestedPayment
	Lock    calculator.LockState
	Settled bool
}

// GroupSummary returns balances, pairwise debts and the suggested plan together.
func (s *LedgerService) GroupSummary(ctx context.Context, groupID string) (*Summary, error) {
	unlock := s.locks.rlock(groupID)
	defer unlock()

	snap, err := s.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group := *snap.Group
	return &Summary{
		Group:   &group,
		Members: slices.Clone(snap.Members),
		Debts:   slices.Clone(snap.Debts),
		Plan:    slices.Clone(snap.Plan),
		Lock:    snap.Lock(),
		Settled: snap.Settled(),
	}, nil
}

func normalizeMoney(m money.Money) (money.Money, error) {
	currency, err := money.NormalizeCurrency(m.Currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("%w: %v", calculator.ErrInvalidInput, err)
	}
	return money.New(m.Amount, currency), nil
}
