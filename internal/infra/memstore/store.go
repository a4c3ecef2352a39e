// Package memstore is an in-process customer/device store. Each
// UpdateDevice is atomic; separate read and write calls are
// last-writer-wins.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"smart-home-agent/internal/domain"
)

type Store struct {
	logger *slog.Logger

	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func New(logger *slog.Logger) *Store {
	return &Store{
		logger:    logger,
		customers: make(map[string]*domain.Customer),
	}
}

// Seed is the on-disk layout of provisioned customers.
type Seed struct {
	Customers []domain.Customer `yaml:"customers"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed: %w", err)
	}
	for i := range seed.Customers {
		seed.Customers[i].Tier = domain.ParseTier(string(seed.Customers[i].Tier))
		if err := seed.Customers[i].Validate(); err != nil {
			return nil, fmt.Errorf("validating seed: %w", err)
		}
	}
	return &seed, nil
}

// Put inserts or replaces a customer record.
func (s *Store) Put(_ context.Context, customer domain.Customer) error {
	customer.Tier = domain.ParseTier(string(customer.Tier))
	if err := customer.Validate(); err != nil {
		return err
	}
	c := cloneCustomer(&customer)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	return nil
}

func (s *Store) Load(ctx context.Context, seed *Seed) error {
	for _, c := range seed.Customers {
		if err := s.Put(ctx, c); err != nil {
			return err
		}
	}
	s.logger.Info("seeded customers", "count", len(seed.Customers))
	return nil
}

func (s *Store) GetCustomer(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (s *Store) UpdateDevice(_ context.Context, customerID, deviceID string, delta domain.AttributeDelta) (domain.DeviceUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[customerID]
	if !ok {
		return domain.DeviceUpdate{}, domain.ErrCustomerNotFound
	}
	d, ok := c.FindDevice(deviceID)
	if !ok {
		return domain.DeviceUpdate{}, fmt.Errorf("device %s: %w", deviceID, domain.ErrDeviceNotFound)
	}

	next, err := d.Attributes.Apply(delta)
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("device %s: %w", deviceID, err)
	}

	update := domain.DeviceUpdate{Previous: d.Attributes.Clone(), New: next.Clone()}
	d.Attributes = next
	return update, nil
}

func cloneCustomer(c *domain.Customer) *domain.Customer {
	out := &domain.Customer{ID: c.ID, Tier: c.Tier, Devices: make([]domain.Device, len(c.Devices))}
	for i, d := range c.Devices {
		d.Attributes = d.Attributes.Clone()
		out.Devices[i] = d
	}
	return out
}
