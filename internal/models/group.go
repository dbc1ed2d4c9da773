package models

import "fmt"

// SettlementMethod identifies which settlement view a payment was made from.
type SettlementMethod string

const (
	// MethodSimplified pays along the minimal suggested payment plan.
	MethodSimplified SettlementMethod = "simplified"
	// MethodDetailed pays down a specific pairwise debt.
	MethodDetailed SettlementMethod = "detailed"
)

// ParseSettlementMethod validates a method name. An empty string defaults to simplified.
func ParseSettlementMethod(s string) (SettlementMethod, error) {
	switch SettlementMethod(s) {
	case "", MethodSimplified:
		return MethodSimplified, nil
	case MethodDetailed:
		return MethodDetailed, nil
	}
	return "", fmt.Errorf("unknown settlement method %q", s)
}

// Group is a set of members sharing expenses in one currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// Currency is the ISO 4217 code every expense and settlement in the group uses.
	Currency string

	// Members is the ordered list of member user IDs.
	Members []string

	// SettlementLock is the method the current round is locked to, or empty when unlocked.
	SettlementLock SettlementMethod

	// Round is the current settlement round, starting at 1.
	Round int64

	// Version increases with every fact appended to the group. Cached projections
	// are keyed by it.
	Version int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
