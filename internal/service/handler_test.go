package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

// setupTestServer serves the ledger over HTTP against a temp database.
func setupTestServer(t *testing.T) (ledgerapiconnect.LedgerServiceClient, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to create store: %v", err)
	}

	path, handler := ledgerapiconnect.NewLedgerServiceHandler(
		NewHandler(NewLedgerService(store)),
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor()),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := ledgerapiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
		os.Remove(tmpFile.Name())
		os.Remove(tmpFile.Name() + "-wal")
		os.Remove(tmpFile.Name() + "-shm")
	}
	return client, cleanup
}

func createUser(t *testing.T, client ledgerapiconnect.LedgerServiceClient, name string) string {
	t.Helper()
	resp, err := client.CreateUser(context.Background(), connect.NewRequest(&ledgerapi.CreateUserRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return resp.Msg.User.ID
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected %v, got %v (%v)", want, got, err)
	}
}

func usdWire(minor int64) ledgerapi.Money {
	return ledgerapi.Money{AmountMinor: minor, Currency: "USD"}
}

func TestCreateGroup(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	alice := createUser(t, client, "Alice")
	bob := createUser(t, client, "Bob")

	resp, err := client.CreateGroup(context.Background(), connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name:     "Roommates",
		Currency: "USD",
		Members:  []string{alice, bob},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group == nil {
		t.Fatal("expected group in response")
	}
	if group.ID == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", group.Name)
	}
	if len(group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(group.Members))
	}
	if group.Round != 1 || group.SettlementLock != "" {
		t.Errorf("expected unlocked round 1, got lock %q round %d", group.SettlementLock, group.Round)
	}

	getResp, err := client.GetGroup(context.Background(), connect.NewRequest(&ledgerapi.GetGroupRequest{GroupID: group.ID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if getResp.Msg.Group.Currency != "USD" {
		t.Errorf("currency: expected 'USD', got '%s'", getResp.Msg.Group.Currency)
	}

	listResp, err := client.ListGroups(context.Background(), connect.NewRequest(&ledgerapi.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(listResp.Msg.Groups) != 1 {
		t.Errorf("expected 1 group, got %d", len(listResp.Msg.Groups))
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.GetGroup(context.Background(), connect.NewRequest(&ledgerapi.GetGroupRequest{
		GroupID: "nonexistent-id",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestCreateGroup_UnknownMember(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	_, err := client.CreateGroup(context.Background(), connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name:     "Ghosts",
		Currency: "USD",
		Members:  []string{"ghost"},
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestCalculateSplit(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name     string
		req      *ledgerapi.CalculateSplitRequest
		want     map[string]int64
		wantCode connect.Code
	}{
		{
			name: "equal split hands remainder to first ids",
			req: &ledgerapi.CalculateSplitRequest{
				Amount: usdWire(1000), SplitPolicy: "equal", Participants: []string{"c", "a", "b"},
			},
			want: map[string]int64{"a": 334, "b": 333, "c": 333},
		},
		{
			name: "percentage split",
			req: &ledgerapi.CalculateSplitRequest{
				Amount: usdWire(2000), SplitPolicy: "percentage", Participants: []string{"a", "b"},
				Values: map[string]string{"a": "25", "b": "75"},
			},
			want: map[string]int64{"a": 500, "b": 1500},
		},
		{
			name: "exact mismatch",
			req: &ledgerapi.CalculateSplitRequest{
				Amount: usdWire(1000), SplitPolicy: "exact", Participants: []string{"a", "b"},
				Values: map[string]string{"a": "5", "b": "4.99"},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "value is not a decimal",
			req: &ledgerapi.CalculateSplitRequest{
				Amount: usdWire(1000), SplitPolicy: "exact", Participants: []string{"a"},
				Values: map[string]string{"a": "ten"},
			},
			wantCode: connect.CodeInvalidArgument,
		},
		{
			name: "unknown policy",
			req: &ledgerapi.CalculateSplitRequest{
				Amount: usdWire(1000), SplitPolicy: "shares", Participants: []string{"a"},
			},
			wantCode: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.CalculateSplit(context.Background(), connect.NewRequest(tt.req))
			if tt.wantCode != 0 {
				expectCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("CalculateSplit failed: %v", err)
			}
			got := make(map[string]int64)
			for _, s := range resp.Msg.Shares {
				got[s.UserID] = s.Amount.AmountMinor
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("share[%s] = %d, want %d", id, got[id], want)
				}
			}
		})
	}
}

func TestSettlementFlow(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	a := createUser(t, client, "A")
	b := createUser(t, client, "B")
	c := createUser(t, client, "C")

	groupResp, err := client.CreateGroup(ctx, connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name: "Trip", Currency: "USD", Members: []string{a, b, c},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := groupResp.Msg.Group.ID

	_, err = client.CreateExpense(ctx, connect.NewRequest(&ledgerapi.CreateExpenseRequest{
		GroupID: groupID, Description: "Dinner", Amount: usdWire(9000), PaidBy: a,
		SplitPolicy: "equal", Participants: []string{a, b, c},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	expResp, err := client.CreateExpense(ctx, connect.NewRequest(&ledgerapi.CreateExpenseRequest{
		GroupID: groupID, Description: "Taxi", Amount: usdWire(3000), PaidBy: b,
		SplitPolicy: "exact", Participants: []string{b, c},
		Values: map[string]string{b: "0", c: "30.00"},
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if len(expResp.Msg.Expense.Splits) != 2 {
		t.Errorf("expected 2 splits, got %d", len(expResp.Msg.Expense.Splits))
	}

	_, err = client.CreateExpense(ctx, connect.NewRequest(&ledgerapi.CreateExpenseRequest{
		GroupID: groupID, Amount: usdWire(1000), PaidBy: a,
		SplitPolicy: "exact", Participants: []string{a, b},
		Values: map[string]string{a: "5", b: "4"},
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	balResp, err := client.ComputeBalances(ctx, connect.NewRequest(&ledgerapi.ComputeBalancesRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ComputeBalances failed: %v", err)
	}
	want := map[string]int64{a: 6000, b: 0, c: -6000}
	for _, bal := range balResp.Msg.Balances {
		if bal.Amount.AmountMinor != want[bal.UserID] {
			t.Errorf("balance[%s] = %d, want %d", bal.UserID, bal.Amount.AmountMinor, want[bal.UserID])
		}
	}

	debtResp, err := client.ComputePairwiseDebts(ctx, connect.NewRequest(&ledgerapi.ComputePairwiseDebtsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ComputePairwiseDebts failed: %v", err)
	}
	if len(debtResp.Msg.Debts) != 3 {
		t.Errorf("expected 3 pairwise debts, got %d", len(debtResp.Msg.Debts))
	}

	planResp, err := client.ComputeSimplifiedSettlements(ctx, connect.NewRequest(&ledgerapi.ComputeSimplifiedSettlementsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ComputeSimplifiedSettlements failed: %v", err)
	}
	if len(planResp.Msg.Payments) != 1 {
		t.Fatalf("expected exactly one payment, got %d", len(planResp.Msg.Payments))
	}
	p := planResp.Msg.Payments[0]
	if p.PayerID != c || p.PayeeID != a || p.Amount.AmountMinor != 6000 {
		t.Errorf("payment = %+v, want C pays A 6000", p)
	}

	_, err = client.RecordSettlement(ctx, connect.NewRequest(&ledgerapi.RecordSettlementRequest{
		GroupID: groupID, PayerID: c, PayeeID: a, Amount: usdWire(6000), Method: "detailed",
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)
	if err != nil && !strings.Contains(err.Error(), "30.00 USD") {
		t.Errorf("expected outstanding amount in error, got %v", err)
	}

	partial, err := client.RecordSettlement(ctx, connect.NewRequest(&ledgerapi.RecordSettlementRequest{
		GroupID: groupID, PayerID: c, PayeeID: a, Amount: usdWire(1000), Method: "simplified",
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if partial.Msg.SettlementLock != "simplified" || partial.Msg.RoundClosed {
		t.Errorf("expected simplified lock, got %+v", partial.Msg)
	}

	_, err = client.RecordSettlement(ctx, connect.NewRequest(&ledgerapi.RecordSettlementRequest{
		GroupID: groupID, PayerID: c, PayeeID: b, Amount: usdWire(100), Method: "detailed",
	}))
	expectCode(t, err, connect.CodeFailedPrecondition)

	_, err = client.RecordSettlement(ctx, connect.NewRequest(&ledgerapi.RecordSettlementRequest{
		GroupID: groupID, PayerID: c, PayeeID: a, Amount: usdWire(100), Method: "barter",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)

	final, err := client.RecordSettlement(ctx, connect.NewRequest(&ledgerapi.RecordSettlementRequest{
		GroupID: groupID, PayerID: c, PayeeID: a, Amount: usdWire(5000),
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}
	if !final.Msg.RoundClosed || final.Msg.SettlementLock != "" || final.Msg.Round != 2 {
		t.Errorf("expected round to close and unlock, got %+v", final.Msg)
	}

	summary, err := client.GroupSummary(ctx, connect.NewRequest(&ledgerapi.GroupSummaryRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("GroupSummary failed: %v", err)
	}
	if !summary.Msg.Settled || len(summary.Msg.Payments) != 0 || len(summary.Msg.Debts) != 0 {
		t.Errorf("expected settled group, got %+v", summary.Msg)
	}
	if summary.Msg.Group.Round != 2 {
		t.Errorf("round: expected 2, got %d", summary.Msg.Group.Round)
	}

	settlements, err := client.ListSettlements(ctx, connect.NewRequest(&ledgerapi.ListSettlementsRequest{GroupID: groupID}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(settlements.Msg.Settlements) != 0 {
		t.Errorf("expected new round to have no settlements, got %d", len(settlements.Msg.Settlements))
	}
}

func TestAddGroupMembers(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	a := createUser(t, client, "A")
	b := createUser(t, client, "B")

	groupResp, err := client.CreateGroup(ctx, connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name: "Pair", Currency: "EUR", Members: []string{a},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	resp, err := client.AddGroupMembers(ctx, connect.NewRequest(&ledgerapi.AddGroupMembersRequest{
		GroupID: groupResp.Msg.Group.ID, UserIDs: []string{b},
	}))
	if err != nil {
		t.Fatalf("AddGroupMembers failed: %v", err)
	}
	if len(resp.Msg.Group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(resp.Msg.Group.Members))
	}

	_, err = client.AddGroupMembers(ctx, connect.NewRequest(&ledgerapi.AddGroupMembersRequest{
		GroupID: groupResp.Msg.Group.ID, UserIDs: []string{b},
	}))
	expectCode(t, err, connect.CodeAlreadyExists)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	req := &ledgerapi.CreateUserRequest{Name: "Alice", Email: "alice@example.com"}
	if _, err := client.CreateUser(context.Background(), connect.NewRequest(req)); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	_, err := client.CreateUser(context.Background(), connect.NewRequest(req))
	expectCode(t, err, connect.CodeAlreadyExists)
}
