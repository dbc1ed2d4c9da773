package ledgerapi

// GroupScoped is implemented by requests that address a single group.
type GroupScoped interface {
	GroupRef() string
}

func (r *GetGroupRequest) GroupRef() string                     { return r.GroupID }
func (r *AddGroupMembersRequest) GroupRef() string              { return r.GroupID }
func (r *CreateExpenseRequest) GroupRef() string                { return r.GroupID }
func (r *ListExpensesRequest) GroupRef() string                 { return r.GroupID }
func (r *ComputeBalancesRequest) GroupRef() string              { return r.GroupID }
func (r *ComputePairwiseDebtsRequest) GroupRef() string         { return r.GroupID }
func (r *ComputeSimplifiedSettlementsRequest) GroupRef() string { return r.GroupID }
func (r *RecordSettlementRequest) GroupRef() string             { return r.GroupID }
func (r *ListSettlementsRequest) GroupRef() string              { return r.GroupID }
func (r *GroupSummaryRequest) GroupRef() string                 { return r.GroupID }
