package domain

// Permission is a named capability required to execute an action.
type Permission string

const (
	PermissionDevicePower   Permission = "device-power"
	PermissionVolumeControl Permission = "volume-control"
	PermissionMediaControl  Permission = "media-control"
)

// tierAdditions lists what each tier adds on top of the tier below it.
// The granted sets are accumulated in tier order, so a higher tier can
// never lose a permission a lower tier holds.
var tierAdditions = map[Tier][]Permission{
	TierBasic:      {PermissionDevicePower},
	TierPremium:    {PermissionVolumeControl},
	TierEnterprise: {PermissionMediaControl},
}

var tierPermissions = buildTierPermissions()

func buildTierPermissions() map[Tier]map[Permission]bool {
	result := make(map[Tier]map[Permission]bool, len(Tiers))
	granted := make(map[Permission]bool)
	for _, tier := range Tiers {
		for _, p := range tierAdditions[tier] {
			granted[p] = true
		}
		set := make(map[Permission]bool, len(granted))
		for p := range granted {
			set[p] = true
		}
		result[tier] = set
	}
	return result
}

// Grants reports whether tier holds permission p. Unknown tiers are
// evaluated as basic.
func Grants(tier Tier, p Permission) bool {
	return tierPermissions[ParseTier(string(tier))][p]
}

// Permissions returns the permissions granted to tier in a stable order.
func Permissions(tier Tier) []Permission {
	var result []Permission
	for _, p := range []Permission{PermissionDevicePower, PermissionVolumeControl, PermissionMediaControl} {
		if Grants(tier, p) {
			result = append(result, p)
		}
	}
	return result
}

// MinimumTier returns the lowest tier that grants p.
func MinimumTier(p Permission) (Tier, bool) {
	for _, tier := range Tiers {
		if Grants(tier, p) {
			return tier, true
		}
	}
	return "", false
}

// RequiredPermission maps an action to the permission it needs. Unknown
// actions need a permission nobody holds.
func RequiredPermission(a Action) (Permission, bool) {
	switch a {
	case ActionPower:
		return PermissionDevicePower, true
	case ActionVolume:
		return PermissionVolumeControl, true
	case ActionMedia:
		return PermissionMediaControl, true
	default:
		return "", false
	}
}
