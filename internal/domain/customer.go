package domain

import "fmt"

type Customer struct {
	ID      string   `json:"id" yaml:"id"`
	Tier    Tier     `json:"tier" yaml:"tier"`
	Devices []Device `json:"devices" yaml:"devices"`
}

// Validate checks that every device only carries attributes the
// customer's tier grants.
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("customer id is empty")
	}
	seen := make(map[string]bool, len(c.Devices))
	for _, d := range c.Devices {
		if d.ID == "" {
			return fmt.Errorf("customer %s: device with empty id", c.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("customer %s: duplicate device %s", c.ID, d.ID)
		}
		seen[d.ID] = true
		if d.Attributes.Volume != nil && !Grants(c.Tier, PermissionVolumeControl) {
			return fmt.Errorf("customer %s: device %s carries volume but tier %s lacks %s", c.ID, d.ID, c.Tier, PermissionVolumeControl)
		}
		if d.Attributes.Media != nil && !Grants(c.Tier, PermissionMediaControl) {
			return fmt.Errorf("customer %s: device %s carries media but tier %s lacks %s", c.ID, d.ID, c.Tier, PermissionMediaControl)
		}
	}
	return nil
}

func (c *Customer) FindDevice(id string) (*Device, bool) {
	for i := range c.Devices {
		if c.Devices[i].ID == id {
			return &c.Devices[i], true
		}
	}
	return nil, false
}

type CustomerSummary struct {
	ID          string `json:"id"`
	Tier        Tier   `json:"tier,omitempty"`
	DeviceCount int    `json:"device_count"`
}

func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.ID, Tier: c.Tier, DeviceCount: len(c.Devices)}
}
