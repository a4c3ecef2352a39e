package application

import (
	"context"
	"fmt"
	"strings"

	"smart-home-agent/internal/domain"
)

// TemplateResponder renders replies from fixed templates. It is used when
// no language model is configured and as the fallback when one fails.
type TemplateResponder struct{}

func (t *TemplateResponder) Generate(_ context.Context, _ string, rc domain.ResponseContext) (string, error) {
	switch {
	case rc.Denied():
		if rc.RequiredTier() == "" {
			return "Sorry, I didn't understand that request. You can ask me to turn devices on or off, change the volume, or play something.", nil
		}
		return fmt.Sprintf("%s needs the %s plan. Upgrade to %s to unlock it.",
			capitalize(actionPhrase(rc.DeniedAction())), rc.RequiredTier(), rc.RequiredTier()), nil

	case rc.Executed():
		return executedReply(rc), nil

	default:
		return failureReply(rc), nil
	}
}

func executedReply(rc domain.ResponseContext) string {
	device := deviceName(rc.Device())
	prev, next := rc.Previous(), rc.New()

	switch rc.Attribute() {
	case domain.AttributePower:
		return fmt.Sprintf("Turned the %s %s.", device, next.Power)
	case domain.AttributeVolume:
		return fmt.Sprintf("Changed the %s volume from %d to %d.", device, deref(prev.Volume), deref(next.Volume))
	case domain.AttributeMedia:
		if next.Media != nil {
			return fmt.Sprintf("Now playing %s on the %s.", *next.Media, device)
		}
	}
	return fmt.Sprintf("Updated the %s.", device)
}

func failureReply(rc domain.ResponseContext) string {
	switch rc.ErrorKind() {
	case domain.ErrorCustomerNotFound:
		return "I couldn't find your account. Please check that you're signed in."
	case domain.ErrorDeviceNotFound:
		return "I couldn't find a matching device. Try naming the room or the device type."
	case domain.ErrorAmbiguousDevice:
		return fmt.Sprintf("I found several matching devices (%s). Which one did you mean?", strings.Join(rc.Candidates(), ", "))
	case domain.ErrorUnsupportedAttribute:
		return "That device doesn't support this action."
	case domain.ErrorMissingParameter:
		return "I need a bit more detail to do that, for example a volume level or what to play."
	case domain.ErrorPersistenceFailed:
		return "I couldn't apply the change to your device. Please check that it's online and try again."
	default:
		return "Sorry, something went wrong."
	}
}

func actionPhrase(a domain.Action) string {
	switch a {
	case domain.ActionPower:
		return "turning devices on and off"
	case domain.ActionVolume:
		return "volume control"
	case domain.ActionMedia:
		return "media playback"
	default:
		return string(a)
	}
}

func deviceName(d domain.DeviceDescriptor) string {
	if d.Location != "" {
		return d.Location + " " + string(d.Type)
	}
	return string(d.Type)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
