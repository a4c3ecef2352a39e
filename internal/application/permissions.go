package application

import "smart-home-agent/internal/domain"

// Evaluator checks action permissions against the static tier map. It is
// stateless; every call recomputes from the map.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

func (e *Evaluator) Evaluate(tier domain.Tier, action domain.Action) domain.PermissionOutcome {
	tier = domain.ParseTier(string(tier))

	perm, ok := domain.RequiredPermission(action)
	if !ok {
		return domain.PermissionOutcome{Action: action}
	}

	if domain.Grants(tier, perm) {
		return domain.PermissionOutcome{Action: action, Permission: perm, Allowed: true}
	}

	required, _ := domain.MinimumTier(perm)
	return domain.PermissionOutcome{
		Action:       action,
		Permission:   perm,
		RequiredTier: required,
	}
}
