package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

// Handler implements the Connect LedgerService on top of a LedgerService.
type Handler struct {
	svc *LedgerService
}

var _ ledgerapiconnect.LedgerServiceHandler = (*Handler)(nil)

// NewHandler creates a Connect handler for svc.
func NewHandler(svc *LedgerService) *Handler {
	return &Handler{svc: svc}
}

// failed logs a failed request and converts err for the wire.
func failed(op string, err error, args ...any) error {
	slog.Warn(op+" failed", append(args, "error", err)...)
	return toConnectError(err)
}

func (h *Handler) CreateUser(ctx context.Context, req *connect.Request[ledgerapi.CreateUserRequest]) (*connect.Response[ledgerapi.CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	user, err := h.svc.CreateUser(ctx, CreateUserInput{Name: req.Msg.Name, Email: req.Msg.Email})
	if err != nil {
		return nil, failed("CreateUser", err)
	}
	return connect.NewResponse(&ledgerapi.CreateUserResponse{User: fromUser(user)}), nil
}

func (h *Handler) GetUser(ctx context.Context, req *connect.Request[ledgerapi.GetUserRequest]) (*connect.Response[ledgerapi.GetUserResponse], error) {
	slog.Info("GetUser request received", "user_id", req.Msg.UserID)

	user, err := h.svc.GetUser(ctx, req.Msg.UserID)
	if err != nil {
		return nil, failed("GetUser", err, "user_id", req.Msg.UserID)
	}
	return connect.NewResponse(&ledgerapi.GetUserResponse{User: fromUser(user)}), nil
}

func (h *Handler) CreateGroup(ctx context.Context, req *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"currency", req.Msg.Currency,
		"members_count", len(req.Msg.Members),
	)

	group, err := h.svc.CreateGroup(ctx, CreateGroupInput{
		Name:     req.Msg.Name,
		Currency: req.Msg.Currency,
		Members:  req.Msg.Members,
	})
	if err != nil {
		return nil, failed("CreateGroup", err)
	}
	return connect.NewResponse(&ledgerapi.CreateGroupResponse{Group: fromGroup(group)}), nil
}

func (h *Handler) GetGroup(ctx context.Context, req *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := h.svc.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("GetGroup", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.GetGroupResponse{Group: fromGroup(group)}), nil
}

func (h *Handler) ListGroups(ctx context.Context, req *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := h.svc.ListGroups(ctx)
	if err != nil {
		return nil, failed("ListGroups", err)
	}
	out := make([]*ledgerapi.Group, len(groups))
	for i, g := range groups {
		out[i] = fromGroup(g)
	}
	return connect.NewResponse(&ledgerapi.ListGroupsResponse{Groups: out}), nil
}

func (h *Handler) AddGroupMembers(ctx context.Context, req *connect.Request[ledgerapi.AddGroupMembersRequest]) (*connect.Response[ledgerapi.AddGroupMembersResponse], error) {
	slog.Info("AddGroupMembers request received", "group_id", req.Msg.GroupID, "count", len(req.Msg.UserIDs))

	group, err := h.svc.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.UserIDs)
	if err != nil {
		return nil, failed("AddGroupMembers", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.AddGroupMembersResponse{Group: fromGroup(group)}), nil
}

func (h *Handler) CalculateSplit(ctx context.Context, req *connect.Request[ledgerapi.CalculateSplitRequest]) (*connect.Response[ledgerapi.CalculateSplitResponse], error) {
	slog.Info("CalculateSplit request received",
		"policy", req.Msg.SplitPolicy,
		"participants_count", len(req.Msg.Participants),
	)

	policy, err := calculator.ParseSplitPolicy(req.Msg.SplitPolicy)
	if err != nil {
		return nil, failed("CalculateSplit", err)
	}
	values, err := parseValues(req.Msg.Values)
	if err != nil {
		return nil, failed("CalculateSplit", err)
	}
	amount, err := normalizeMoney(toMoney(req.Msg.Amount))
	if err != nil {
		return nil, failed("CalculateSplit", err)
	}
	shares, err := h.svc.CalculateSplit(amount, policy, req.Msg.Participants, values)
	if err != nil {
		return nil, failed("CalculateSplit", err)
	}
	return connect.NewResponse(&ledgerapi.CalculateSplitResponse{Shares: fromShares(shares)}), nil
}

func (h *Handler) CreateExpense(ctx context.Context, req *connect.Request[ledgerapi.CreateExpenseRequest]) (*connect.Response[ledgerapi.CreateExpenseResponse], error) {
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"paid_by", req.Msg.PaidBy,
		"policy", req.Msg.SplitPolicy,
		"participants_count", len(req.Msg.Participants),
	)

	policy, err := calculator.ParseSplitPolicy(req.Msg.SplitPolicy)
	if err != nil {
		return nil, failed("CreateExpense", err, "group_id", req.Msg.GroupID)
	}
	values, err := parseValues(req.Msg.Values)
	if err != nil {
		return nil, failed("CreateExpense", err, "group_id", req.Msg.GroupID)
	}
	expense, err := h.svc.CreateExpense(ctx, CreateExpenseInput{
		GroupID:      req.Msg.GroupID,
		Description:  req.Msg.Description,
		Amount:       toMoney(req.Msg.Amount),
		PaidBy:       req.Msg.PaidBy,
		Policy:       policy,
		Participants: req.Msg.Participants,
		Values:       values,
	})
	if err != nil {
		return nil, failed("CreateExpense", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.CreateExpenseResponse{Expense: fromExpense(expense)}), nil
}

func (h *Handler) ListExpenses(ctx context.Context, req *connect.Request[ledgerapi.ListExpensesRequest]) (*connect.Response[ledgerapi.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	expenses, err := h.svc.ListExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("ListExpenses", err, "group_id", req.Msg.GroupID)
	}
	out := make([]*ledgerapi.Expense, len(expenses))
	for i := range expenses {
		out[i] = fromExpense(&expenses[i])
	}
	return connect.NewResponse(&ledgerapi.ListExpensesResponse{Expenses: out}), nil
}

func (h *Handler) ComputeBalances(ctx context.Context, req *connect.Request[ledgerapi.ComputeBalancesRequest]) (*connect.Response[ledgerapi.ComputeBalancesResponse], error) {
	slog.Info("ComputeBalances request received", "group_id", req.Msg.GroupID)

	balances, err := h.svc.ComputeBalances(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("ComputeBalances", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.ComputeBalancesResponse{Balances: fromBalances(balances)}), nil
}

func (h *Handler) ComputePairwiseDebts(ctx context.Context, req *connect.Request[ledgerapi.ComputePairwiseDebtsRequest]) (*connect.Response[ledgerapi.ComputePairwiseDebtsResponse], error) {
	slog.Info("ComputePairwiseDebts request received", "group_id", req.Msg.GroupID)

	debts, err := h.svc.ComputePairwiseDebts(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("ComputePairwiseDebts", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.ComputePairwiseDebtsResponse{Debts: fromDebts(debts)}), nil
}

func (h *Handler) ComputeSimplifiedSettlements(ctx context.Context, req *connect.Request[ledgerapi.ComputeSimplifiedSettlementsRequest]) (*connect.Response[ledgerapi.ComputeSimplifiedSettlementsResponse], error) {
	slog.Info("ComputeSimplifiedSettlements request received", "group_id", req.Msg.GroupID)

	plan, err := h.svc.ComputeSimplifiedSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("ComputeSimplifiedSettlements", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.ComputeSimplifiedSettlementsResponse{Payments: fromPlan(plan)}), nil
}

func (h *Handler) RecordSettlement(ctx context.Context, req *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	slog.Info("RecordSettlement request received",
		"group_id", req.Msg.GroupID,
		"payer_id", req.Msg.PayerID,
		"payee_id", req.Msg.PayeeID,
		"method", req.Msg.Method,
	)

	method, err := models.ParseSettlementMethod(req.Msg.Method)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	result, err := h.svc.RecordSettlement(ctx, RecordSettlementInput{
		GroupID: req.Msg.GroupID,
		PayerID: req.Msg.PayerID,
		PayeeID: req.Msg.PayeeID,
		Amount:  toMoney(req.Msg.Amount),
		Method:  method,
		Notes:   req.Msg.Notes,
	})
	if err != nil {
		return nil, failed("RecordSettlement", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.RecordSettlementResponse{
		Settlement:     fromSettlement(result.Settlement),
		SettlementLock: string(result.Lock.Method()),
		RoundClosed:    result.RoundClosed,
		Round:          result.Round,
	}), nil
}

func (h *Handler) ListSettlements(ctx context.Context, req *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	settlements, err := h.svc.ListSettlements(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("ListSettlements", err, "group_id", req.Msg.GroupID)
	}
	out := make([]*ledgerapi.Settlement, len(settlements))
	for i := range settlements {
		out[i] = fromSettlement(&settlements[i])
	}
	return connect.NewResponse(&ledgerapi.ListSettlementsResponse{Settlements: out}), nil
}

func (h *Handler) GroupSummary(ctx context.Context, req *connect.Request[ledgerapi.GroupSummaryRequest]) (*connect.Response[ledgerapi.GroupSummaryResponse], error) {
	slog.Info("GroupSummary request received", "group_id", req.Msg.GroupID)

	summary, err := h.svc.GroupSummary(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, failed("GroupSummary", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&ledgerapi.GroupSummaryResponse{
		Group:    fromGroup(summary.Group),
		Members:  fromMembers(summary.Members),
		Debts:    fromDebts(summary.Debts),
		Payments: fromPlan(summary.Plan),
		Settled:  summary.Settled,
	}), nil
}
