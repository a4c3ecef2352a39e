// Package redisstore keeps customer records in Redis. Device updates are
// optimistic WATCH/MULTI transactions, retried when another writer
// touched the same customer in between.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"smart-home-agent/internal/domain"
	"smart-home-agent/internal/infra"
)

const keyPrefix = "customer:"

type Store struct {
	client redis.UniversalClient
	retry  infra.RetryConfig
	logger *slog.Logger
}

type Option func(*Store)

// WithRetryConfig overrides how often a conflicting update is retried.
func WithRetryConfig(cfg infra.RetryConfig) Option {
	return func(s *Store) { s.retry = cfg }
}

func New(client redis.UniversalClient, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		client: client,
		retry: infra.RetryConfig{
			MaxAttempts:  10,
			InitialDelay: 5 * time.Millisecond,
			MaxDelay:     200 * time.Millisecond,
			Multiplier:   2.0,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to a single Redis server and pings it.
func Dial(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return New(client, logger), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func customerKey(id string) string {
	return keyPrefix + id
}

// Put inserts or replaces a customer record.
func (s *Store) Put(ctx context.Context, customer domain.Customer) error {
	customer.Tier = domain.ParseTier(string(customer.Tier))
	if err := customer.Validate(); err != nil {
		return err
	}
	data, err := encodeCustomer(&customer)
	if err != nil {
		return fmt.Errorf("encoding customer %s: %w", customer.ID, err)
	}
	if err := s.client.Set(ctx, customerKey(customer.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("saving customer %s: %w", customer.ID, err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	data, err := s.client.Get(ctx, customerKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading customer %s: %w", id, err)
	}

	c, err := decodeCustomer(data)
	if err != nil {
		return nil, fmt.Errorf("decoding customer %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) UpdateDevice(ctx context.Context, customerID, deviceID string, delta domain.AttributeDelta) (domain.DeviceUpdate, error) {
	key := customerKey(customerID)
	var update domain.DeviceUpdate

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return infra.Permanent(domain.ErrCustomerNotFound)
		}
		if err != nil {
			return err
		}

		c, err := decodeCustomer(data)
		if err != nil {
			return infra.Permanent(fmt.Errorf("decoding customer %s: %w", customerID, err))
		}
		d, ok := c.FindDevice(deviceID)
		if !ok {
			return infra.Permanent(fmt.Errorf("device %s: %w", deviceID, domain.ErrDeviceNotFound))
		}
		next, err := d.Attributes.Apply(delta)
		if err != nil {
			return infra.Permanent(fmt.Errorf("device %s: %w", deviceID, err))
		}

		update = domain.DeviceUpdate{Previous: d.Attributes.Clone(), New: next.Clone()}
		d.Attributes = next

		encoded, err := encodeCustomer(c)
		if err != nil {
			return infra.Permanent(fmt.Errorf("encoding customer %s: %w", customerID, err))
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		return err
	}

	attempts := 0
	err := infra.WithRetry(ctx, s.retry, func() error {
		attempts++
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("concurrent device update, retrying", "customer_id", customerID, "device_id", deviceID, "attempt", attempts)
		}
		return err
	})
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("updating device %s: %w", deviceID, err)
	}
	return update, nil
}
