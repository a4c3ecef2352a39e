package domain

// Action is the classified category of a user request. The set is closed:
// every value other than ActionUnknown must have an executor handler.
type Action string

const (
	ActionUnknown Action = "unknown"
	ActionPower   Action = "power"
	ActionVolume  Action = "volume"
	ActionMedia   Action = "media"
)

// Actions lists every executable action.
var Actions = []Action{ActionPower, ActionVolume, ActionMedia}

// Attribute names the device attribute an action touches.
func (a Action) Attribute() Attribute {
	switch a {
	case ActionPower:
		return AttributePower
	case ActionVolume:
		return AttributeVolume
	case ActionMedia:
		return AttributeMedia
	default:
		return ""
	}
}

type PowerTarget string

const (
	PowerMissing PowerTarget = ""
	PowerOn      PowerTarget = "on"
	PowerOff     PowerTarget = "off"
	PowerToggle  PowerTarget = "toggle"
)

type VolumeMode string

const (
	VolumeMissing  VolumeMode = ""
	VolumeAbsolute VolumeMode = "absolute"
	VolumeRelative VolumeMode = "relative"
)

// VolumeStep is how far "louder" and "quieter" move the volume when the
// request carries no explicit amount.
const VolumeStep = 15

const (
	VolumeMin = 0
	VolumeMax = 100
)

// VolumeTarget is an absolute level or a signed relative adjustment.
type VolumeTarget struct {
	Mode  VolumeMode `json:"mode,omitempty"`
	Value int        `json:"value"`
}

func (v VolumeTarget) Missing() bool {
	return v.Mode == VolumeMissing
}

// Command is a classified request. Zero-valued parameters mean the
// parameter could not be extracted.
type Command struct {
	Action     Action       `json:"action"`
	DeviceID   string       `json:"device_id,omitempty"`
	DeviceType DeviceType   `json:"device_type,omitempty"`
	Location   string       `json:"location,omitempty"`
	Power      PowerTarget  `json:"power,omitempty"`
	Volume     VolumeTarget `json:"volume,omitempty"`
	Media      string       `json:"media,omitempty"`
	RawText    string       `json:"raw_text"`
}
