// Package ledgerapiconnect wires the ledger service onto Connect handlers and
// clients using the JSON codec from package ledgerapi.
package ledgerapiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "ledger.v1.LedgerService"

// Procedure paths, exposed for routing and interceptors.
const (
	LedgerServiceCreateUserProcedure                   = "/" + LedgerServiceName + "/CreateUser"
	LedgerServiceGetUserProcedure                      = "/" + LedgerServiceName + "/GetUser"
	LedgerServiceCreateGroupProcedure                  = "/" + LedgerServiceName + "/CreateGroup"
	LedgerServiceGetGroupProcedure                     = "/" + LedgerServiceName + "/GetGroup"
	LedgerServiceListGroupsProcedure                   = "/" + LedgerServiceName + "/ListGroups"
	LedgerServiceAddGroupMembersProcedure              = "/" + LedgerServiceName + "/AddGroupMembers"
	LedgerServiceCalculateSplitProcedure               = "/" + LedgerServiceName + "/CalculateSplit"
	LedgerServiceCreateExpenseProcedure                = "/" + LedgerServiceName + "/CreateExpense"
	LedgerServiceListExpensesProcedure                 = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceComputeBalancesProcedure              = "/" + LedgerServiceName + "/ComputeBalances"
	LedgerServiceComputePairwiseDebtsProcedure         = "/" + LedgerServiceName + "/ComputePairwiseDebts"
	LedgerServiceComputeSimplifiedSettlementsProcedure = "/" + LedgerServiceName + "/ComputeSimplifiedSettlements"
	LedgerServiceRecordSettlementProcedure             = "/" + LedgerServiceName + "/RecordSettlement"
	LedgerServiceListSettlementsProcedure              = "/" + LedgerServiceName + "/ListSettlements"
	LedgerServiceGroupSummaryProcedure                 = "/" + LedgerServiceName + "/GroupSummary"
)

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	CreateUser(context.Context, *connect.Request[ledgerapi.CreateUserRequest]) (*connect.Response[ledgerapi.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[ledgerapi.GetUserRequest]) (*connect.Response[ledgerapi.GetUserResponse], error)
	CreateGroup(context.Context, *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[ledgerapi.AddGroupMembersRequest]) (*connect.Response[ledgerapi.AddGroupMembersResponse], error)
	CalculateSplit(context.Context, *connect.Request[ledgerapi.CalculateSplitRequest]) (*connect.Response[ledgerapi.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[ledgerapi.CreateExpenseRequest]) (*connect.Response[ledgerapi.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerapi.ListExpensesRequest]) (*connect.Response[ledgerapi.ListExpensesResponse], error)
	ComputeBalances(context.Context, *connect.Request[ledgerapi.ComputeBalancesRequest]) (*connect.Response[ledgerapi.ComputeBalancesResponse], error)
	ComputePairwiseDebts(context.Context, *connect.Request[ledgerapi.ComputePairwiseDebtsRequest]) (*connect.Response[ledgerapi.ComputePairwiseDebtsResponse], error)
	ComputeSimplifiedSettlements(context.Context, *connect.Request[ledgerapi.ComputeSimplifiedSettlementsRequest]) (*connect.Response[ledgerapi.ComputeSimplifiedSettlementsResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error)
	GroupSummary(context.Context, *connect.Request[ledgerapi.GroupSummaryRequest]) (*connect.Response[ledgerapi.GroupSummaryResponse], error)
}

// LedgerServiceClient calls the ledger service.
type LedgerServiceClient interface {
	CreateUser(context.Context, *connect.Request[ledgerapi.CreateUserRequest]) (*connect.Response[ledgerapi.CreateUserResponse], error)
	GetUser(context.Context, *connect.Request[ledgerapi.GetUserRequest]) (*connect.Response[ledgerapi.GetUserResponse], error)
	CreateGroup(context.Context, *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error)
	AddGroupMembers(context.Context, *connect.Request[ledgerapi.AddGroupMembersRequest]) (*connect.Response[ledgerapi.AddGroupMembersResponse], error)
	CalculateSplit(context.Context, *connect.Request[ledgerapi.CalculateSplitRequest]) (*connect.Response[ledgerapi.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[ledgerapi.CreateExpenseRequest]) (*connect.Response[ledgerapi.CreateExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ledgerapi.ListExpensesRequest]) (*connect.Response[ledgerapi.ListExpensesResponse], error)
	ComputeBalances(context.Context, *connect.Request[ledgerapi.ComputeBalancesRequest]) (*connect.Response[ledgerapi.ComputeBalancesResponse], error)
	ComputePairwiseDebts(context.Context, *connect.Request[ledgerapi.ComputePairwiseDebtsRequest]) (*connect.Response[ledgerapi.ComputePairwiseDebtsResponse], error)
	ComputeSimplifiedSettlements(context.Context, *connect.Request[ledgerapi.ComputeSimplifiedSettlementsRequest]) (*connect.Response[ledgerapi.ComputeSimplifiedSettlementsResponse], error)
	RecordSettlement(context.Context, *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error)
	GroupSummary(context.Context, *connect.Request[ledgerapi.GroupSummaryRequest]) (*connect.Response[ledgerapi.GroupSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler serving every ledger procedure.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(ledgerapi.JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(LedgerServiceCreateUserProcedure, connect.NewUnaryHandler(LedgerServiceCreateUserProcedure, svc.CreateUser, opts...))
	mux.Handle(LedgerServiceGetUserProcedure, connect.NewUnaryHandler(LedgerServiceGetUserProcedure, svc.GetUser, opts...))
	mux.Handle(LedgerServiceCreateGroupProcedure, connect.NewUnaryHandler(LedgerServiceCreateGroupProcedure, svc.CreateGroup, opts...))
	mux.Handle(LedgerServiceGetGroupProcedure, connect.NewUnaryHandler(LedgerServiceGetGroupProcedure, svc.GetGroup, opts...))
	mux.Handle(LedgerServiceListGroupsProcedure, connect.NewUnaryHandler(LedgerServiceListGroupsProcedure, svc.ListGroups, opts...))
	mux.Handle(LedgerServiceAddGroupMembersProcedure, connect.NewUnaryHandler(LedgerServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts...))
	mux.Handle(LedgerServiceCalculateSplitProcedure, connect.NewUnaryHandler(LedgerServiceCalculateSplitProcedure, svc.CalculateSplit, opts...))
	mux.Handle(LedgerServiceCreateExpenseProcedure, connect.NewUnaryHandler(LedgerServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(LedgerServiceListExpensesProcedure, connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(LedgerServiceComputeBalancesProcedure, connect.NewUnaryHandler(LedgerServiceComputeBalancesProcedure, svc.ComputeBalances, opts...))
	mux.Handle(LedgerServiceComputePairwiseDebtsProcedure, connect.NewUnaryHandler(LedgerServiceComputePairwiseDebtsProcedure, svc.ComputePairwiseDebts, opts...))
	mux.Handle(LedgerServiceComputeSimplifiedSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceComputeSimplifiedSettlementsProcedure, svc.ComputeSimplifiedSettlements, opts...))
	mux.Handle(LedgerServiceRecordSettlementProcedure, connect.NewUnaryHandler(LedgerServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(LedgerServiceListSettlementsProcedure, connect.NewUnaryHandler(LedgerServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(LedgerServiceGroupSummaryProcedure, connect.NewUnaryHandler(LedgerServiceGroupSummaryProcedure, svc.GroupSummary, opts...))

	return "/" + LedgerServiceName + "/", mux
}

type ledgerServiceClient struct {
	createUser                   *connect.Client[ledgerapi.CreateUserRequest, ledgerapi.CreateUserResponse]
	getUser                      *connect.Client[ledgerapi.GetUserRequest, ledgerapi.GetUserResponse]
	createGroup                  *connect.Client[ledgerapi.CreateGroupRequest, ledgerapi.CreateGroupResponse]
	getGroup                     *connect.Client[ledgerapi.GetGroupRequest, ledgerapi.GetGroupResponse]
	listGroups                   *connect.Client[ledgerapi.ListGroupsRequest, ledgerapi.ListGroupsResponse]
	addGroupMembers              *connect.Client[ledgerapi.AddGroupMembersRequest, ledgerapi.AddGroupMembersResponse]
	calculateSplit               *connect.Client[ledgerapi.CalculateSplitRequest, ledgerapi.CalculateSplitResponse]
	createExpense                *connect.Client[ledgerapi.CreateExpenseRequest, ledgerapi.CreateExpenseResponse]
	listExpenses                 *connect.Client[ledgerapi.ListExpensesRequest, ledgerapi.ListExpensesResponse]
	computeBalances              *connect.Client[ledgerapi.ComputeBalancesRequest, ledgerapi.ComputeBalancesResponse]
	computePairwiseDebts         *connect.Client[ledgerapi.ComputePairwiseDebtsRequest, ledgerapi.ComputePairwiseDebtsResponse]
	computeSimplifiedSettlements *connect.Client[ledgerapi.ComputeSimplifiedSettlementsRequest, ledgerapi.ComputeSimplifiedSettlementsResponse]
	recordSettlement             *connect.Client[ledgerapi.RecordSettlementRequest, ledgerapi.RecordSettlementResponse]
	listSettlements              *connect.Client[ledgerapi.ListSettlementsRequest, ledgerapi.ListSettlementsResponse]
	groupSummary                 *connect.Client[ledgerapi.GroupSummaryRequest, ledgerapi.GroupSummaryResponse]
}

// NewLedgerServiceClient creates a client for the ledger service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(ledgerapi.JSONCodec{})}, opts...)
	return &ledgerServiceClient{
		createUser:                   connect.NewClient[ledgerapi.CreateUserRequest, ledgerapi.CreateUserResponse](httpClient, baseURL+LedgerServiceCreateUserProcedure, opts...),
		getUser:                      connect.NewClient[ledgerapi.GetUserRequest, ledgerapi.GetUserResponse](httpClient, baseURL+LedgerServiceGetUserProcedure, opts...),
		createGroup:                  connect.NewClient[ledgerapi.CreateGroupRequest, ledgerapi.CreateGroupResponse](httpClient, baseURL+LedgerServiceCreateGroupProcedure, opts...),
		getGroup:                     connect.NewClient[ledgerapi.GetGroupRequest, ledgerapi.GetGroupResponse](httpClient, baseURL+LedgerServiceGetGroupProcedure, opts...),
		listGroups:                   connect.NewClient[ledgerapi.ListGroupsRequest, ledgerapi.ListGroupsResponse](httpClient, baseURL+LedgerServiceListGroupsProcedure, opts...),
		addGroupMembers:              connect.NewClient[ledgerapi.AddGroupMembersRequest, ledgerapi.AddGroupMembersResponse](httpClient, baseURL+LedgerServiceAddGroupMembersProcedure, opts...),
		calculateSplit:               connect.NewClient[ledgerapi.CalculateSplitRequest, ledgerapi.CalculateSplitResponse](httpClient, baseURL+LedgerServiceCalculateSplitProcedure, opts...),
		createExpense:                connect.NewClient[ledgerapi.CreateExpenseRequest, ledgerapi.CreateExpenseResponse](httpClient, baseURL+LedgerServiceCreateExpenseProcedure, opts...),
		listExpenses:                 connect.NewClient[ledgerapi.ListExpensesRequest, ledgerapi.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		computeBalances:              connect.NewClient[ledgerapi.ComputeBalancesRequest, ledgerapi.ComputeBalancesResponse](httpClient, baseURL+LedgerServiceComputeBalancesProcedure, opts...),
		computePairwiseDebts:         connect.NewClient[ledgerapi.ComputePairwiseDebtsRequest, ledgerapi.ComputePairwiseDebtsResponse](httpClient, baseURL+LedgerServiceComputePairwiseDebtsProcedure, opts...),
		computeSimplifiedSettlements: connect.NewClient[ledgerapi.ComputeSimplifiedSettlementsRequest, ledgerapi.ComputeSimplifiedSettlementsResponse](httpClient, baseURL+LedgerServiceComputeSimplifiedSettlementsProcedure, opts...),
		recordSettlement:             connect.NewClient[ledgerapi.RecordSettlementRequest, ledgerapi.RecordSettlementResponse](httpClient, baseURL+LedgerServiceRecordSettlementProcedure, opts...),
		listSettlements:              connect.NewClient[ledgerapi.ListSettlementsRequest, ledgerapi.ListSettlementsResponse](httpClient, baseURL+LedgerServiceListSettlementsProcedure, opts...),
		groupSummary:                 connect.NewClient[ledgerapi.GroupSummaryRequest, ledgerapi.GroupSummaryResponse](httpClient, baseURL+LedgerServiceGroupSummaryProcedure, opts...),
	}
}

func (c *ledgerServiceClient) CreateUser(ctx context.Context, req *connect.Request[ledgerapi.CreateUserRequest]) (*connect.Response[ledgerapi.CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetUser(ctx context.Context, req *connect.Request[ledgerapi.GetUserRequest]) (*connect.Response[ledgerapi.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateGroup(ctx context.Context, req *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetGroup(ctx context.Context, req *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListGroups(ctx context.Context, req *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddGroupMembers(ctx context.Context, req *connect.Request[ledgerapi.AddGroupMembersRequest]) (*connect.Response[ledgerapi.AddGroupMembersResponse], error) {
	return c.addGroupMembers.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[ledgerapi.CalculateSplitRequest]) (*connect.Response[ledgerapi.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) CreateExpense(ctx context.Context, req *connect.Request[ledgerapi.CreateExpenseRequest]) (*connect.Response[ledgerapi.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ledgerapi.ListExpensesRequest]) (*connect.Response[ledgerapi.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ComputeBalances(ctx context.Context, req *connect.Request[ledgerapi.ComputeBalancesRequest]) (*connect.Response[ledgerapi.ComputeBalancesResponse], error) {
	return c.computeBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ComputePairwiseDebts(ctx context.Context, req *connect.Request[ledgerapi.ComputePairwiseDebtsRequest]) (*connect.Response[ledgerapi.ComputePairwiseDebtsResponse], error) {
	return c.computePairwiseDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ComputeSimplifiedSettlements(ctx context.Context, req *connect.Request[ledgerapi.ComputeSimplifiedSettlementsRequest]) (*connect.Response[ledgerapi.ComputeSimplifiedSettlementsResponse], error) {
	return c.computeSimplifiedSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[ledgerapi.RecordSettlementRequest]) (*connect.Response[ledgerapi.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ledgerapi.ListSettlementsRequest]) (*connect.Response[ledgerapi.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GroupSummary(ctx context.Context, req *connect.Request[ledgerapi.GroupSummaryRequest]) (*connect.Response[ledgerapi.GroupSummaryResponse], error) {
	return c.groupSummary.CallUnary(ctx, req)
}
