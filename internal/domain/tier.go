package domain

import "strings"

// Tier is a customer's service level. Tiers are totally ordered:
// basic < premium < enterprise.
type Tier string

const (
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{TierBasic, TierPremium, TierEnterprise}

// ParseTier normalizes a stored tier value. Anything unrecognized is
// treated as the lowest tier.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierPremium:
		return TierPremium
	case TierEnterprise:
		return TierEnterprise
	default:
		return TierBasic
	}
}

// Rank returns the tier's position in the fixed ordering.
func (t Tier) Rank() int {
	switch t {
	case TierPremium:
		return 1
	case TierEnterprise:
		return 2
	default:
		return 0
	}
}

func (t Tier) Less(other Tier) bool {
	return t.Rank() < other.Rank()
}
