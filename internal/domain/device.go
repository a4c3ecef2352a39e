package domain

import "fmt"

type DeviceType string

const (
	DeviceTypeSpeaker    DeviceType = "speaker"
	DeviceTypeThermostat DeviceType = "thermostat"
	DeviceTypeLight      DeviceType = "light"
	DeviceTypeTV         DeviceType = "tv"
	DeviceTypePlug       DeviceType = "plug"
	DeviceTypeOther      DeviceType = "other"
)

type Attribute string

const (
	AttributePower  Attribute = "power"
	AttributeVolume Attribute = "volume"
	AttributeMedia  Attribute = "media"
)

type PowerState string

const (
	PowerStateOff PowerState = "off"
	PowerStateOn  PowerState = "on"
)

// Attributes is the mutable state of a device. Volume and Media are nil
// when the device does not carry them.
type Attributes struct {
	Power  PowerState `json:"power" yaml:"power"`
	Volume *int       `json:"volume,omitempty" yaml:"volume,omitempty"`
	Media  *string    `json:"media,omitempty" yaml:"media,omitempty"`
}

func (a Attributes) Has(attr Attribute) bool {
	switch attr {
	case AttributePower:
		return true
	case AttributeVolume:
		return a.Volume != nil
	case AttributeMedia:
		return a.Media != nil
	default:
		return false
	}
}

// Clone returns a copy that shares no pointers with a.
func (a Attributes) Clone() Attributes {
	out := Attributes{Power: a.Power}
	if a.Volume != nil {
		v := *a.Volume
		out.Volume = &v
	}
	if a.Media != nil {
		m := *a.Media
		out.Media = &m
	}
	return out
}

// AttributeDelta describes a single attribute change. Stores apply it
// inside their read-modify-write so relative changes are computed from
// the stored value.
type AttributeDelta struct {
	Attribute Attribute    `json:"attribute"`
	Power     PowerTarget  `json:"power,omitempty"`
	Volume    VolumeTarget `json:"volume,omitempty"`
	Media     string       `json:"media,omitempty"`
}

// DeviceUpdate is the outcome of a successful store write.
type DeviceUpdate struct {
	Previous Attributes `json:"previous"`
	New      Attributes `json:"new"`
}

// Apply returns the attributes after delta. The receiver is not modified.
func (a Attributes) Apply(delta AttributeDelta) (Attributes, error) {
	next := a.Clone()
	if next.Power == "" {
		next.Power = PowerStateOff
	}

	switch delta.Attribute {
	case AttributePower:
		switch delta.Power {
		case PowerOn:
			next.Power = PowerStateOn
		case PowerOff:
			next.Power = PowerStateOff
		case PowerToggle:
			if next.Power == PowerStateOn {
				next.Power = PowerStateOff
			} else {
				next.Power = PowerStateOn
			}
		default:
			return a, fmt.Errorf("power target %q: %w", delta.Power, ErrInvalidDelta)
		}

	case AttributeVolume:
		if next.Volume == nil {
			return a, ErrUnsupportedAttribute
		}
		var target int
		switch delta.Volume.Mode {
		case VolumeAbsolute:
			target = delta.Volume.Value
		case VolumeRelative:
			step := max(-VolumeMax, min(VolumeMax, delta.Volume.Value))
			target = *next.Volume + step
		default:
			return a, fmt.Errorf("volume mode %q: %w", delta.Volume.Mode, ErrInvalidDelta)
		}
		target = ClampVolume(target)
		next.Volume = &target

	case AttributeMedia:
		if next.Media == nil {
			return a, ErrUnsupportedAttribute
		}
		if delta.Media == "" {
			return a, fmt.Errorf("empty media: %w", ErrInvalidDelta)
		}
		media := delta.Media
		next.Media = &media

	default:
		return a, fmt.Errorf("attribute %q: %w", delta.Attribute, ErrInvalidDelta)
	}

	return next, nil
}

func ClampVolume(v int) int {
	if v < VolumeMin {
		return VolumeMin
	}
	if v > VolumeMax {
		return VolumeMax
	}
	return v
}

type Device struct {
	ID         string     `json:"id" yaml:"id"`
	Type       DeviceType `json:"type" yaml:"type"`
	Location   string     `json:"location" yaml:"location"`
	Attributes Attributes `json:"attributes" yaml:"attributes"`
}

// DeviceDescriptor identifies a device without its state.
type DeviceDescriptor struct {
	ID       string     `json:"id"`
	Type     DeviceType `json:"type"`
	Location string     `json:"location,omitempty"`
}

func (d Device) Descriptor() DeviceDescriptor {
	return DeviceDescriptor{ID: d.ID, Type: d.Type, Location: d.Location}
}
