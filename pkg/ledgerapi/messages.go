// Package ledgerapi defines the JSON messages exchanged by the ledger's Connect
// service. Amounts travel as integer minor units next to their currency code;
// exact and percentage split values travel as decimal strings.
package ledgerapi

type Money struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type Group struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Currency       string   `json:"currency"`
	Members        []string `json:"members"`
	SettlementLock string   `json:"settlement_lock"`
	Round          int64    `json:"round"`
	CreatedAt      int64    `json:"created_at"`
}

type Split struct {
	UserID string `json:"user_id"`
	Amount Money  `json:"amount"`
}

type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	Description string  `json:"description"`
	Amount      Money   `json:"amount"`
	PaidBy      string  `json:"paid_by"`
	SplitPolicy string  `json:"split_policy"`
	Splits      []Split `json:"splits"`
	Round       int64   `json:"round"`
	CreatedAt   int64   `json:"created_at"`
}

type Settlement struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	PayerID   string `json:"payer_id"`
	PayeeID   string `json:"payee_id"`
	Amount    Money  `json:"amount"`
	Method    string `json:"method"`
	Notes     string `json:"notes,omitempty"`
	Round     int64  `json:"round"`
	CreatedAt int64  `json:"created_at"`
}

type Balance struct {
	UserID string `json:"user_id"`
	Amount Money  `json:"amount"`
}

type MemberBalance struct {
	UserID    string `json:"user_id"`
	TotalPaid Money  `json:"total_paid"`
	TotalOwed Money  `json:"total_owed"`
	Net       Money  `json:"net"`
}

type ExpenseRef struct {
	ExpenseID   string `json:"expense_id"`
	Description string `json:"description"`
	Date        int64  `json:"date"`
	Total       Money  `json:"total"`
	Share       Money  `json:"share"`
	Debtor      string `json:"debtor"`
	Creditor    string `json:"creditor"`
}

type PairwiseDebt struct {
	Debtor   string       `json:"debtor"`
	Creditor string       `json:"creditor"`
	Amount   Money        `json:"amount"`
	Owes     Money        `json:"owes"`
	OwedBack Money        `json:"owed_back"`
	Expenses []ExpenseRef `json:"expenses"`
}

type Payment struct {
	PayerID string `json:"payer_id"`
	PayeeID string `json:"payee_id"`
	Amount  Money  `json:"amount"`
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type CreateGroupRequest struct {
	Name     string   `json:"name"`
	Currency string   `json:"currency"`
	Members  []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddGroupMembersRequest struct {
	GroupID string   `json:"group_id"`
	UserIDs []string `json:"user_ids"`
}

type AddGroupMembersResponse struct {
	Group *Group `json:"group"`
}

type CalculateSplitRequest struct {
	Amount       Money             `json:"amount"`
	SplitPolicy  string            `json:"split_policy"`
	Participants []string          `json:"participants"`
	Values       map[string]string `json:"values,omitempty"`
}

type CalculateSplitResponse struct {
	Shares []Split `json:"shares"`
}

type CreateExpenseRequest struct {
	GroupID      string            `json:"group_id"`
	Description  string            `json:"description"`
	Amount       Money             `json:"amount"`
	PaidBy       string            `json:"paid_by"`
	SplitPolicy  string            `json:"split_policy"`
	Participants []string          `json:"participants"`
	Values       map[string]string `json:"values,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type ComputeBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type ComputeBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type ComputePairwiseDebtsRequest struct {
	GroupID string `json:"group_id"`
}

type ComputePairwiseDebtsResponse struct {
	Debts []PairwiseDebt `json:"debts"`
}

type ComputeSimplifiedSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ComputeSimplifiedSettlementsResponse struct {
	Payments []Payment `json:"payments"`
}

type RecordSettlementRequest struct {
	GroupID string `json:"group_id"`
	PayerID string `json:"payer_id"`
	PayeeID string `json:"payee_id"`
	Amount  Money  `json:"amount"`
	Method  string `json:"method"`
	Notes   string `json:"notes,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement     *Settlement `json:"settlement"`
	SettlementLock string      `json:"settlement_lock"`
	RoundClosed    bool        `json:"round_closed"`
	Round          int64       `json:"round"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type GroupSummaryRequest struct {
	GroupID string `json:"group_id"`
}

type GroupSummaryResponse struct {
	Group    *Group          `json:"group"`
	Members  []MemberBalance `json:"members"`
	Debts    []PairwiseDebt  `json:"debts"`
	Payments []Payment       `json:"payments"`
	Settled  bool            `json:"settled"`
}
