package application

import (
	"fmt"
	"strings"

	"smart-home-agent/internal/domain"
)

// resolveDevice picks the device a command refers to. Precedence:
//  1. cmd.DeviceID, or a device id appearing as a token of the raw text
//  2. devices matching the requested type and location
//  3. without a type, devices carrying the attribute the action touches,
//     falling back to every location match when none carry it
func resolveDevice(customer *domain.Customer, cmd domain.Command) (domain.Device, *domain.ActionError) {
	if cmd.DeviceID != "" {
		if d, ok := customer.FindDevice(cmd.DeviceID); ok {
			return *d, nil
		}
		return domain.Device{}, domain.NewActionError(domain.ErrorDeviceNotFound, "no device with id %q", cmd.DeviceID)
	}

	if d, ok := deviceNamedInText(customer, cmd.RawText); ok {
		return d, nil
	}

	var candidates []domain.Device
	for _, d := range customer.Devices {
		if cmd.DeviceType != "" && d.Type != cmd.DeviceType {
			continue
		}
		if cmd.Location != "" && !strings.EqualFold(d.Location, cmd.Location) {
			continue
		}
		candidates = append(candidates, d)
	}

	if cmd.DeviceType == "" {
		attr := cmd.Action.Attribute()
		var capable []domain.Device
		for _, d := range candidates {
			if d.Attributes.Has(attr) {
				capable = append(capable, d)
			}
		}
		if len(capable) > 0 {
			candidates = capable
		}
	}

	switch len(candidates) {
	case 0:
		return domain.Device{}, domain.NewActionError(domain.ErrorDeviceNotFound, "no device matches %s", describeFilter(cmd))
	case 1:
		return candidates[0], nil
	default:
		ids := make([]string, 0, len(candidates))
		for _, d := range candidates {
			ids = append(ids, d.ID)
		}
		err := domain.NewActionError(domain.ErrorAmbiguousDevice, "%d devices match %s", len(candidates), describeFilter(cmd))
		err.Candidates = ids
		return domain.Device{}, err
	}
}

func deviceNamedInText(customer *domain.Customer, text string) (domain.Device, bool) {
	tokens := tokenize(text)
	for _, d := range customer.Devices {
		id := strings.ToLower(d.ID)
		for _, tok := range tokens {
			if tok == id {
				return d, true
			}
		}
	}
	return domain.Device{}, false
}

func describeFilter(cmd domain.Command) string {
	var parts []string
	if cmd.DeviceType != "" {
		parts = append(parts, fmt.Sprintf("type %s", cmd.DeviceType))
	}
	if cmd.Location != "" {
		parts = append(parts, fmt.Sprintf("location %s", cmd.Location))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("a %s request", cmd.Action)
	}
	return strings.Join(parts, " and ")
}
