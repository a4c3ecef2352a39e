package application_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/domain"
)

func TestEvaluator_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		tier     domain.Tier
		action   domain.Action
		allowed  bool
		required domain.Tier
	}{
		{"basic power", domain.TierBasic, domain.ActionPower, true, ""},
		{"basic volume", domain.TierBasic, domain.ActionVolume, false, domain.TierPremium},
		{"basic media", domain.TierBasic, domain.ActionMedia, false, domain.TierEnterprise},
		{"premium volume", domain.TierPremium, domain.ActionVolume, true, ""},
		{"premium media", domain.TierPremium, domain.ActionMedia, false, domain.TierEnterprise},
		{"enterprise media", domain.TierEnterprise, domain.ActionMedia, true, ""},
		{"unknown tier is basic", domain.Tier("gold"), domain.ActionVolume, false, domain.TierPremium},
		{"unknown action", domain.TierEnterprise, domain.ActionUnknown, false, ""},
	}

	e := application.NewEvaluator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Evaluate(tt.tier, tt.action)
			assert.Equal(t, tt.allowed, got.Allowed)
			assert.Equal(t, tt.required, got.RequiredTier)
			assert.Equal(t, tt.action, got.Action)
		})
	}
}

func TestEvaluator_Idempotent(t *testing.T) {
	e := application.NewEvaluator()
	actions := append([]domain.Action{domain.ActionUnknown}, domain.Actions...)
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("same pair yields the same outcome", prop.ForAll(
		func(ti, ai int) bool {
			tier, action := domain.Tiers[ti], actions[ai]
			return e.Evaluate(tier, action) == e.Evaluate(tier, action)
		},
		gen.IntRange(0, len(domain.Tiers)-1),
		gen.IntRange(0, len(actions)-1),
	))

	properties.Property("required tier is above the caller's tier", prop.ForAll(
		func(ti, ai int) bool {
			tier, action := domain.Tiers[ti], actions[ai]
			got := e.Evaluate(tier, action)
			if got.Allowed || got.RequiredTier == "" {
				return true
			}
			return tier.Less(got.RequiredTier) && e.Evaluate(got.RequiredTier, action).Allowed
		},
		gen.IntRange(0, len(domain.Tiers)-1),
		gen.IntRange(0, len(actions)-1),
	))

	properties.TestingRun(t)
}
