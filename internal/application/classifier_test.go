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

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		text string
		want domain.Command
	}{
		{
			text: "turn up the volume",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: 15}},
		},
		{
			text: "Make the kitchen speaker quieter",
			want: domain.Command{Action: domain.ActionVolume, DeviceType: domain.DeviceTypeSpeaker, Location: "kitchen",
				Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: -15}},
		},
		{
			text: "set the volume to 30",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 30}},
		},
		{
			text: "turn it down by 10",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: -10}},
		},
		{
			text: "set volume to 150",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 150}},
		},
		{
			text: "mute the office speaker",
			want: domain.Command{Action: domain.ActionVolume, DeviceType: domain.DeviceTypeSpeaker, Location: "office",
				Volume: domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 0}},
		},
		{
			text: "what is the volume",
			want: domain.Command{Action: domain.ActionVolume},
		},
		{
			text: "play jazz",
			want: domain.Command{Action: domain.ActionMedia, Media: "jazz"},
		},
		{
			text: "play some classic rock in the living room",
			want: domain.Command{Action: domain.ActionMedia, Location: "living room", Media: "classic rock"},
		},
		{
			text: "play jazz kitchen speaker",
			want: domain.Command{Action: domain.ActionMedia, DeviceType: domain.DeviceTypeSpeaker, Location: "kitchen", Media: "jazz"},
		},
		{
			text: "play lo-fi beats living room speaker",
			want: domain.Command{Action: domain.ActionMedia, DeviceType: domain.DeviceTypeSpeaker, Location: "living room", Media: "lo-fi beats"},
		},
		{
			text: "play the office speaker",
			want: domain.Command{Action: domain.ActionMedia, DeviceType: domain.DeviceTypeSpeaker, Location: "office"},
		},
		{
			text: "volume up 20",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: 20}},
		},
		{
			text: "turn the volume down 5",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: -5}},
		},
		{
			text: "turn the volume up for 2 minutes",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeRelative, Value: 15}},
		},
		{
			text: "turn it down to 20",
			want: domain.Command{Action: domain.ActionVolume, Volume: domain.VolumeTarget{Mode: domain.VolumeAbsolute, Value: 20}},
		},
		{
			text: "turn on the music",
			want: domain.Command{Action: domain.ActionMedia},
		},
		{
			text: "turn off the bedroom lamp",
			want: domain.Command{Action: domain.ActionPower, DeviceType: domain.DeviceTypeLight, Location: "bedroom", Power: domain.PowerOff},
		},
		{
			text: "switch the master bedroom lights on",
			want: domain.Command{Action: domain.ActionPower, DeviceType: domain.DeviceTypeLight, Location: "master bedroom", Power: domain.PowerOn},
		},
		{
			text: "toggle spk-1",
			want: domain.Command{Action: domain.ActionPower, Power: domain.PowerToggle},
		},
	}

	c := application.NewClassifier()
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := c.Classify(tt.text)
			tt.want.RawText = tt.text
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_UnknownInput(t *testing.T) {
	c := application.NewClassifier()
	for _, text := range []string{"", "   ", "asdf qwer zxcv", "what time is it", "!!!???", "12345"} {
		got := c.Classify(text)
		assert.Equal(t, domain.ActionUnknown, got.Action, "input %q", text)
		assert.Equal(t, text, got.RawText)
	}
}

func TestClassifier_Totality(t *testing.T) {
	c := application.NewClassifier()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("classify returns a known action for any input", prop.ForAll(
		func(text string) bool {
			got := c.Classify(text)
			switch got.Action {
			case domain.ActionUnknown, domain.ActionPower, domain.ActionVolume, domain.ActionMedia:
				return got.RawText == text
			default:
				return false
			}
		},
		gen.AnyString(),
	))

	properties.Property("alphabetic gibberish without trigger words is unknown", prop.ForAll(
		func(text string) bool {
			return c.Classify("zq"+text).Action == domain.ActionUnknown
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestClassifier_Deterministic(t *testing.T) {
	c := application.NewClassifier()
	text := "play music and turn off the volume"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(text))
	}
	assert.Equal(t, domain.ActionMedia, first.Action)
}
