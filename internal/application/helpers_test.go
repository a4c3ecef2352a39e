package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"smart-home-agent/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

// fakeStore keeps customers in memory and records every call.
type fakeStore struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
	getErr    error
	updateErr error

	gets    int
	updates []domain.AttributeDelta
}

func newFakeStore(customers ...domain.Customer) *fakeStore {
	s := &fakeStore{customers: make(map[string]*domain.Customer)}
	for _, c := range customers {
		s.customers[c.ID] = cloneCustomer(&c)
	}
	return s
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := *c
	out.Devices = make([]domain.Device, len(c.Devices))
	for i, d := range c.Devices {
		d.Attributes = d.Attributes.Clone()
		out.Devices[i] = d
	}
	return &out
}

func (s *fakeStore) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (s *fakeStore) UpdateDevice(_ context.Context, customerID, deviceID string, delta domain.AttributeDelta) (domain.DeviceUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, delta)
	if s.updateErr != nil {
		return domain.DeviceUpdate{}, s.updateErr
	}
	c, ok := s.customers[customerID]
	if !ok {
		return domain.DeviceUpdate{}, domain.ErrCustomerNotFound
	}
	d, ok := c.FindDevice(deviceID)
	if !ok {
		return domain.DeviceUpdate{}, domain.ErrDeviceNotFound
	}
	next, err := d.Attributes.Apply(delta)
	if err != nil {
		return domain.DeviceUpdate{}, err
	}
	prev := d.Attributes.Clone()
	d.Attributes = next
	return domain.DeviceUpdate{Previous: prev, New: next.Clone()}, nil
}

func (s *fakeStore) device(customerID, deviceID string) domain.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, _ := s.customers[customerID].FindDevice(deviceID)
	return *d
}

func (s *fakeStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

var errStoreDown = errors.New("connection refused")

func basicCustomer() domain.Customer {
	return domain.Customer{
		ID:   "cust-basic",
		Tier: domain.TierBasic,
		Devices: []domain.Device{
			{ID: "spk-1", Type: domain.DeviceTypeSpeaker, Location: "living room", Attributes: domain.Attributes{Power: domain.PowerStateOff}},
		},
	}
}

func premiumCustomer() domain.Customer {
	return domain.Customer{
		ID:   "cust-premium",
		Tier: domain.TierPremium,
		Devices: []domain.Device{
			{ID: "spk-1", Type: domain.DeviceTypeSpeaker, Location: "living room", Attributes: domain.Attributes{Power: domain.PowerStateOn, Volume: intPtr(50)}},
			{ID: "lamp-1", Type: domain.DeviceTypeLight, Location: "bedroom", Attributes: domain.Attributes{Power: domain.PowerStateOff}},
		},
	}
}

func enterpriseThermostatCustomer() domain.Customer {
	return domain.Customer{
		ID:   "cust-enterprise",
		Tier: domain.TierEnterprise,
		Devices: []domain.Device{
			{ID: "thermo-1", Type: domain.DeviceTypeThermostat, Location: "hallway", Attributes: domain.Attributes{Power: domain.PowerStateOn}},
		},
	}
}

func twoSpeakerCustomer() domain.Customer {
	return domain.Customer{
		ID:   "cust-two",
		Tier: domain.TierEnterprise,
		Devices: []domain.Device{
			{ID: "spk-kitchen", Type: domain.DeviceTypeSpeaker, Location: "kitchen", Attributes: domain.Attributes{Power: domain.PowerStateOn, Volume: intPtr(30), Media: strPtr("")}},
			{ID: "spk-office", Type: domain.DeviceTypeSpeaker, Location: "office", Attributes: domain.Attributes{Power: domain.PowerStateOn, Volume: intPtr(40), Media: strPtr("")}},
		},
	}
}
