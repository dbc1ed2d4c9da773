package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// percentageTolerance is how far the supplied percentages may drift from 100.
var percentageTolerance = decimal.RequireFromString("0.1")

var hundred = decimal.NewFromInt(100)

// Strategy divides an expense amount among participants for one split policy.
type Strategy interface {
	// Policy returns the policy this strategy implements.
	Policy() models.SplitPolicy

	// Validate checks the raw values before any arithmetic happens.
	Validate(amount money.Money, participants []string, raw map[string]decimal.Decimal) error

	// Calculate returns every participant's share. Shares sum to amount exactly.
	Calculate(amount money.Money, participants []string, raw map[string]decimal.Decimal) (map[string]money.Money, error)
}

// NewStrategy returns the strategy for policy.
func NewStrategy(policy models.SplitPolicy) (Strategy, error) {
	switch policy {
	case models.SplitEqual:
		return equalStrategy{}, nil
	case models.SplitExact:
		return exactStrategy{}, nil
	case models.SplitPercentage:
		return percentageStrategy{}, nil
	}
	return nil, invalidf("unknown split policy %q", policy)
}

// ParseSplitPolicy maps a wire name to a policy.
func ParseSplitPolicy(s string) (models.SplitPolicy, error) {
	p := models.SplitPolicy(s)
	if _, err := NewStrategy(p); err != nil {
		return "", err
	}
	return p, nil
}

// CalculateSplit turns an expense amount into per-participant owed amounts.
//
// Shares are computed in integer minor units. Any indivisible remainder is handed
// out one minor unit at a time to participants in ascending ID order, so the
// shares always reconcile to amount exactly.
func CalculateSplit(amount money.Money, policy models.SplitPolicy, participants []string, raw map[string]decimal.Decimal) (map[string]money.Money, error) {
	strategy, err := NewStrategy(policy)
	if err != nil {
		return nil, err
	}
	if err := validateCommon(amount, participants); err != nil {
		return nil, err
	}
	if err := strategy.Validate(amount, participants, raw); err != nil {
		return nil, err
	}
	return strategy.Calculate(amount, participants, raw)
}

func validateCommon(amount money.Money, participants []string) error {
	if _, err := money.MinorUnits(amount.Currency); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !amount.IsPositive() {
		return invalidf("amount must be positive, got %s", amount)
	}
	if len(participants) == 0 {
		return invalidf("at least one participant is required")
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if p == "" {
			return invalidf("participant id cannot be empty")
		}
		if seen[p] {
			return invalidf("duplicate participant %q", p)
		}
		seen[p] = true
	}
	return nil
}

// validateRaw requires exactly one non-negative value per participant.
func validateRaw(participants []string, raw map[string]decimal.Decimal) error {
	for _, p := range participants {
		v, ok := raw[p]
		if !ok {
			return invalidf("missing value for participant %q", p)
		}
		if v.IsNegative() {
			return invalidf("value for participant %q cannot be negative", p)
		}
	}
	if len(raw) != len(participants) {
		for id := range raw {
			if !contains(participants, id) {
				return invalidf("value supplied for non-participant %q", id)
			}
		}
	}
	return nil
}

// distribute adds one minor unit to each of the first n ids (in ascending order).
func distribute(shares map[string]int64, ids []string, n int64) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for i := int64(0); i < n; i++ {
		shares[sorted[i%int64(len(sorted))]]++
	}
}

func toMoney(shares map[string]int64, currency string) map[string]money.Money {
	out := make(map[string]money.Money, len(shares))
	for id, v := range shares {
		out[id] = money.New(v, currency)
	}
	return out
}

type equalStrategy struct{}

func (equalStrategy) Policy() models.SplitPolicy { return models.SplitEqual }

func (equalStrategy) Validate(_ money.Money, _ []string, raw map[string]decimal.Decimal) error {
	if len(raw) > 0 {
		return invalidf("equal split takes no per-participant values")
	}
	return nil
}

func (equalStrategy) Calculate(amount money.Money, participants []string, _ map[string]decimal.Decimal) (map[string]money.Money, error) {
	n := int64(len(participants))
	base := amount.Amount / n
	shares := make(map[string]int64, n)
	for _, p := range participants {
		shares[p] = base
	}
	distribute(shares, participants, amount.Amount%n)
	return toMoney(shares, amount.Currency), nil
}

type exactStrategy struct{}

func (exactStrategy) Policy() models.SplitPolicy { return models.SplitExact }

func (exactStrategy) Validate(_ money.Money, participants []string, raw map[string]decimal.Decimal) error {
	return validateRaw(participants, raw)
}

func (exactStrategy) Calculate(amount money.Money, participants []string, raw map[string]decimal.Decimal) (map[string]money.Money, error) {
	out := make(map[string]money.Money, len(participants))
	total := money.Zero(amount.Currency)
	for _, p := range participants {
		share, err := money.FromDecimal(raw[p], amount.Currency)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		out[p] = share
		if total, err = total.Add(share); err != nil {
			return nil, fmt.Errorf("%w: exact values: %v", ErrInvalidInput, err)
		}
	}
	if total.Amount != amount.Amount {
		return nil, &SplitMismatchError{Policy: models.SplitExact, Got: total.String(), Want: amount.String()}
	}
	return out, nil
}

type percentageStrategy struct{}

func (percentageStrategy) Policy() models.SplitPolicy { return models.SplitPercentage }

func (percentageStrategy) Validate(_ money.Money, participants []string, raw map[string]decimal.Decimal) error {
	if err := validateRaw(participants, raw); err != nil {
		return err
	}
	total := decimal.Zero
	for _, p := range participants {
		if raw[p].GreaterThan(hundred) {
			return invalidf("percentage for participant %q exceeds 100", p)
		}
		total = total.Add(raw[p])
	}
	if total.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return &SplitMismatchError{Policy: models.SplitPercentage, Got: total.String() + "%", Want: "100%"}
	}
	return nil
}

// Calculate gives each participant amount * pct / 100 rounded to the minor
// unit. Rounding and percentages that miss 100 by up to the tolerance leave a
// residual, which is settled one minor unit at a time in participant ID order:
// added to participants with a non-zero percentage, or taken back from
// participants whose share is still positive.
func (percentageStrategy) Calculate(amount money.Money, participants []string, raw map[string]decimal.Decimal) (map[string]money.Money, error) {
	whole := decimal.NewFromInt(amount.Amount)
	shares := make(map[string]int64, len(participants))
	var allocated int64
	var funded []string
	for _, p := range participants {
		share := whole.Mul(raw[p]).Shift(-2).Round(0)
		if !share.Equal(decimal.NewFromInt(share.IntPart())) {
			return nil, invalidf("share of %q overflows", p)
		}
		shares[p] = share.IntPart()
		var err error
		if allocated, err = money.AddMinor(allocated, shares[p]); err != nil {
			return nil, fmt.Errorf("%w: percentage shares: %v", ErrInvalidInput, err)
		}
		if raw[p].IsPositive() {
			funded = append(funded, p)
		}
	}

	residual := amount.Amount - allocated
	if residual >= 0 {
		distribute(shares, funded, residual)
	} else {
		reclaim(shares, participants, -residual)
	}
	return toMoney(shares, amount.Currency), nil
}

// reclaim removes n minor units one at a time from positive shares in
// ascending ID order. The shares must total at least n.
func reclaim(shares map[string]int64, ids []string, n int64) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for i := 0; n > 0; i = (i + 1) % len(sorted) {
		if id := sorted[i]; shares[id] > 0 {
			shares[id]--
			n--
		}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
