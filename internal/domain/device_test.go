package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-home-agent/internal/domain"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestAttributes_ApplyPower(t *testing.T) {
	attrs := domain.Attributes{Power: domain.PowerStateOff}

	next, err := attrs.Apply(domain.AttributeDelta{Attribute: domain.AttributePower, Power: domain.PowerToggle})
	require.NoError(t, err)
	assert.Equal(t, domain.PowerStateOn, next.Power)
	assert.Equal(t, domain.PowerStateOff, attrs.Power, "receiver must not change")

	next, err = next.Apply(domain.AttributeDelta{Attribute: domain.AttributePower, Power: domain.PowerOn})
	require.NoError(t, err)
	assert.Equal(t, domain.PowerStateOn, next.Power)

	_, err = attrs.Apply(domain.AttributeDelta{Attribute: domain.AttributePower})
	assert.True(t, errors.Is(err, domain.ErrInvalidDelta))
}

func TestAttributes_ApplyVolume(t *testing.T) {
	attrs := domain.Attributes{Power: domain.PowerStateOn, Volume: intPtr(50)}

	next, err := attrs.Apply(domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    domain.VolumeTarget{Mode: domain.VolumeRelative, Value: domain.VolumeStep},
	})
	require.NoError(t, err)
	assert.Equal(t, 65, *next.Volume)
	assert.Equal(t, 50, *attrs.Volume)

	next, err = attrs.Apply(domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 250},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, *next.Volume)
}

func TestAttributes_ApplyVolumeHugeRelativeKeepsDirection(t *testing.T) {
	attrs := domain.Attributes{Power: domain.PowerStateOn, Volume: intPtr(50)}

	up, err := attrs.Apply(domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    domain.VolumeTarget{Mode: domain.VolumeRelative, Value: math.MaxInt},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VolumeMax, *up.Volume)

	down, err := attrs.Apply(domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    domain.VolumeTarget{Mode: domain.VolumeRelative, Value: math.MinInt},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VolumeMin, *down.Volume)

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("a relative change never moves against its sign", prop.ForAll(
		func(start int, step int64) bool {
			a := domain.Attributes{Volume: intPtr(start)}
			next, err := a.Apply(domain.AttributeDelta{
				Attribute: domain.AttributeVolume,
				Volume:    domain.VolumeTarget{Mode: domain.VolumeRelative, Value: int(step)},
			})
			if err != nil {
				return false
			}
			switch {
			case step > 0:
				return *next.Volume >= start
			case step < 0:
				return *next.Volume <= start
			default:
				return *next.Volume == start
			}
		},
		gen.IntRange(domain.VolumeMin, domain.VolumeMax),
		gen.Int64(),
	))
	properties.TestingRun(t)
}

func TestAttributes_ApplyUnsupported(t *testing.T) {
	attrs := domain.Attributes{Power: domain.PowerStateOn}

	_, err := attrs.Apply(domain.AttributeDelta{
		Attribute: domain.AttributeVolume,
		Volume:    domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 10},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedAttribute)

	_, err = attrs.Apply(domain.AttributeDelta{Attribute: domain.AttributeMedia, Media: "jazz"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedAttribute)
}

func TestAttributes_ApplyMedia(t *testing.T) {
	attrs := domain.Attributes{Power: domain.PowerStateOn, Media: strPtr("")}

	next, err := attrs.Apply(domain.AttributeDelta{Attribute: domain.AttributeMedia, Media: "jazz"})
	require.NoError(t, err)
	assert.Equal(t, "jazz", *next.Media)
	assert.Equal(t, "", *attrs.Media)
}

func TestAttributes_VolumeAlwaysClamped(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("absolute targets land in [0,100]", prop.ForAll(
		func(start, target int) bool {
			attrs := domain.Attributes{Volume: intPtr(start)}
			next, err := attrs.Apply(domain.AttributeDelta{
				Attribute: domain.AttributeVolume,
				Volume:    domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: target},
			})
			return err == nil && *next.Volume >= domain.VolumeMin && *next.Volume <= domain.VolumeMax
		},
		gen.IntRange(0, 100),
		gen.IntRange(-10000, 10000),
	))

	properties.Property("relative targets land in [0,100]", prop.ForAll(
		func(start, delta int) bool {
			attrs := domain.Attributes{Volume: intPtr(start)}
			next, err := attrs.Apply(domain.AttributeDelta{
				Attribute: domain.AttributeVolume,
				Volume:    domain.VolumeTarget{Mode: domain.VolumeRelative, Value: delta},
			})
			return err == nil && *next.Volume >= domain.VolumeMin && *next.Volume <= domain.VolumeMax
		},
		gen.IntRange(0, 100),
		gen.IntRange(-500, 500),
	))

	properties.TestingRun(t)
}

func TestCustomer_Validate(t *testing.T) {
	basic := domain.Customer{
		ID:   "c1",
		Tier: domain.TierBasic,
		Devices: []domain.Device{
			{ID: "spk-1", Type: domain.DeviceTypeSpeaker, Attributes: domain.Attributes{Volume: intPtr(20)}},
		},
	}
	assert.Error(t, basic.Validate(), "basic tier must not carry volume")

	premium := basic
	premium.Tier = domain.TierPremium
	assert.NoError(t, premium.Validate())

	premium.Devices = append(premium.Devices, domain.Device{ID: "spk-1"})
	assert.Error(t, premium.Validate(), "duplicate ids")
}
