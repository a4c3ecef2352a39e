// Package sqlstore keeps customers and devices in a SQL database. SQLite
// (modernc.org/sqlite) and PostgreSQL (lib/pq) are supported; each device
// update runs in its own transaction.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"smart-home-agent/internal/domain"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open opens the database for driver ("sqlite" or "postgres") and
// creates the schema if needed.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	dialect := Dialect(driver)
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	if dialect == DialectSQLite {
		// SQLite allows one writer; a single connection also keeps an
		// in-memory database alive across calls.
		db.SetMaxOpenConns(1)
	}

	s, err := New(ctx, db, dialect, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func New(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) (*Store, error) {
	s := &Store{db: db, dialect: dialect, logger: logger}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{`
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		tier TEXT NOT NULL
	)`, `
	CREATE TABLE IF NOT EXISTS devices (
		customer_id TEXT NOT NULL REFERENCES customers(id),
		id TEXT NOT NULL,
		type TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		power TEXT NOT NULL,
		volume INTEGER,
		media TEXT,
		PRIMARY KEY (customer_id, id)
	)`}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Put inserts or replaces a customer and all of its devices.
func (s *Store) Put(ctx context.Context, customer domain.Customer) error {
	customer.Tier = domain.ParseTier(string(customer.Tier))
	if err := customer.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.rebind(`
		INSERT INTO customers (id, tier) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET tier = excluded.tier`),
		customer.ID, string(customer.Tier)); err != nil {
		return fmt.Errorf("saving customer %s: %w", customer.ID, err)
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM devices WHERE customer_id = ?`), customer.ID); err != nil {
		return fmt.Errorf("clearing devices of %s: %w", customer.ID, err)
	}
	for i, d := range customer.Devices {
		power := d.Attributes.Power
		if power == "" {
			power = domain.PowerStateOff
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO devices (customer_id, id, type, location, position, power, volume, media)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			customer.ID, d.ID, string(d.Type), d.Location, i, string(power),
			nullInt(d.Attributes.Volume), nullString(d.Attributes.Media)); err != nil {
			return fmt.Errorf("saving device %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing customer %s: %w", customer.ID, err)
	}
	return nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	var tier string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT tier FROM customers WHERE id = ?`), id).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading customer %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, type, location, power, volume, media
		FROM devices
		WHERE customer_id = ?
		ORDER BY position`), id)
	if err != nil {
		return nil, fmt.Errorf("loading devices of %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	c := &domain.Customer{ID: id, Tier: domain.ParseTier(tier)}
	for rows.Next() {
		var (
			d      domain.Device
			typ    string
			power  string
			volume sql.NullInt64
			media  sql.NullString
		)
		if err := rows.Scan(&d.ID, &typ, &d.Location, &power, &volume, &media); err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		d.Type = domain.DeviceType(typ)
		d.Attributes = attributesFromColumns(power, volume, media)
		c.Devices = append(c.Devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading devices of %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) UpdateDevice(ctx context.Context, customerID, deviceID string, delta domain.AttributeDelta) (domain.DeviceUpdate, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lock := ""
	if s.dialect == DialectPostgres {
		lock = " FOR UPDATE"
	}

	var tier string
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT tier FROM customers WHERE id = ?`+lock), customerID).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeviceUpdate{}, domain.ErrCustomerNotFound
	}
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("locking customer %s: %w", customerID, err)
	}

	var (
		power  string
		volume sql.NullInt64
		media  sql.NullString
	)
	err = tx.QueryRowContext(ctx, s.rebind(`
		SELECT power, volume, media FROM devices
		WHERE customer_id = ? AND id = ?`), customerID, deviceID).Scan(&power, &volume, &media)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeviceUpdate{}, fmt.Errorf("device %s: %w", deviceID, domain.ErrDeviceNotFound)
	}
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("loading device %s: %w", deviceID, err)
	}

	prev := attributesFromColumns(power, volume, media)
	next, err := prev.Apply(delta)
	if err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("device %s: %w", deviceID, err)
	}

	if _, err := tx.ExecContext(ctx, s.rebind(`
		UPDATE devices SET power = ?, volume = ?, media = ?
		WHERE customer_id = ? AND id = ?`),
		string(next.Power), nullInt(next.Volume), nullString(next.Media), customerID, deviceID); err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("updating device %s: %w", deviceID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.DeviceUpdate{}, fmt.Errorf("committing device %s: %w", deviceID, err)
	}

	s.logger.Debug("device row updated", "customer_id", customerID, "device_id", deviceID, "attribute", delta.Attribute)
	return domain.DeviceUpdate{Previous: prev, New: next}, nil
}

func attributesFromColumns(power string, volume sql.NullInt64, media sql.NullString) domain.Attributes {
	a := domain.Attributes{Power: domain.PowerState(power)}
	if volume.Valid {
		v := int(volume.Int64)
		a.Volume = &v
	}
	if media.Valid {
		m := media.String
		a.Media = &m
	}
	return a
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
