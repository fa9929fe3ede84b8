// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/lib/pq"
)

const postgresSourceName = "postgres"

// schemaStatements create the tables read by PostgresSource.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS inventory_items (
		player        TEXT    NOT NULL,
		slot          INTEGER NOT NULL,
		material      TEXT    NOT NULL,
		display_name  TEXT,
		lore          TEXT[]  NOT NULL DEFAULT '{}',
		enchantments  TEXT    NOT NULL DEFAULT '{}',
		quantity      INTEGER NOT NULL CHECK (quantity > 0),
		PRIMARY KEY (player, slot)
	)`,
	`CREATE INDEX IF NOT EXISTS inventory_items_player_lower_idx ON inventory_items (lower(player))`,
	`CREATE TABLE IF NOT EXISTS held_items (
		player        TEXT    PRIMARY KEY,
		material      TEXT    NOT NULL,
		display_name  TEXT,
		lore          TEXT[]  NOT NULL DEFAULT '{}',
		enchantments  TEXT    NOT NULL DEFAULT '{}',
		quantity      INTEGER NOT NULL CHECK (quantity > 0)
	)`,
	`CREATE INDEX IF NOT EXISTS held_items_player_lower_idx ON held_items (lower(player))`,
}

const (
	selectInventorySQL = `SELECT material, display_name, lore, enchantments, quantity
		FROM inventory_items WHERE lower(player) = lower($1) ORDER BY slot`
	selectHeldSQL = `SELECT material, display_name, lore, enchantments, quantity
		FROM held_items WHERE lower(player) = lower($1)`
	deleteInventorySQL = `DELETE FROM inventory_items WHERE lower(player) = lower($1)`
	deleteHeldSQL      = `DELETE FROM held_items WHERE lower(player) = lower($1)`
	insertInventorySQL = `INSERT INTO inventory_items
		(player, slot, material, display_name, lore, enchantments, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertHeldSQL = `INSERT INTO held_items
		(player, material, display_name, lore, enchantments, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
)

// PostgresSource reads inventories from Postgres. A player without rows
// has an empty inventory and an empty hand.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource wraps an open database handle.
func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// OpenPostgres opens a pooled connection to dsn and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to open database", err)
	}
	db.SetMaxOpenConns(defaults.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(defaults.DatabaseMaxOpenConns / 2)
	db.SetConnMaxLifetime(defaults.DatabaseConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaults.InventoryQueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to ping database", err)
	}
	return db, nil
}

// EnsureSchema creates the inventory tables if they do not exist.
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(errors.ErrCodeUnavailable, "failed to create inventory schema", err)
		}
	}
	return nil
}

// Inventory implements Source.
func (s *PostgresSource) Inventory(ctx context.Context, player string) ([]item.Record, error) {
	records, err := s.inventory(ctx, player)
	observeLookup(postgresSourceName, "inventory", err)
	return records, err
}

func (s *PostgresSource) inventory(ctx context.Context, player string) ([]item.Record, error) {
	qctx, cancel := context.WithTimeout(ctx, defaults.InventoryQueryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(qctx, selectInventorySQL, player)
	if err != nil {
		return nil, backendError("failed to query inventory", player, err)
	}
	defer rows.Close()

	records := []item.Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, backendError("failed to read inventory row", player, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, backendError("failed to read inventory rows", player, err)
	}

	slog.Debug("inventory loaded from database", "player", player, "records", len(records))
	return records, nil
}

// HeldItem implements Source.
func (s *PostgresSource) HeldItem(ctx context.Context, player string) (*item.Record, error) {
	r, err := s.heldItem(ctx, player)
	observeLookup(postgresSourceName, "held", err)
	return r, err
}

func (s *PostgresSource) heldItem(ctx context.Context, player string) (*item.Record, error) {
	qctx, cancel := context.WithTimeout(ctx, defaults.InventoryQueryTimeout)
	defer cancel()

	r, err := scanRecord(s.db.QueryRowContext(qctx, selectHeldSQL, player))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, backendError("failed to query held item", player, err)
	}
	return &r, nil
}

// Import replaces the stored rows of every player in snap within a single
// transaction.
func (s *PostgresSource) Import(ctx context.Context, snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to begin import", err)
	}
	defer func() {
		// no-op after commit
		_ = tx.Rollback()
	}()

	for _, p := range snap.Players {
		if err := importPlayer(ctx, tx, p); err != nil {
			return backendError("failed to import player", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to commit import", err)
	}
	slog.Info("inventory snapshot imported", "players", len(snap.Players))
	return nil
}

func importPlayer(ctx context.Context, tx *sql.Tx, p PlayerInventory) error {
	if _, err := tx.ExecContext(ctx, deleteInventorySQL, p.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteHeldSQL, p.Name); err != nil {
		return err
	}

	for slot, r := range p.Contents {
		enchants, err := encodeEnchantments(r.Enchantments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertInventorySQL,
			p.Name, slot, r.Material, nullString(r.DisplayName), pq.Array(nonNilLore(r.Lore)), enchants, int64(r.Quantity)); err != nil {
			return err
		}
	}

	if p.Held != nil {
		enchants, err := encodeEnchantments(p.Held.Enchantments)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertHeldSQL,
			p.Name, p.Held.Material, nullString(p.Held.DisplayName), pq.Array(nonNilLore(p.Held.Lore)), enchants, int64(p.Held.Quantity)); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (item.Record, error) {
	var (
		r        item.Record
		name     sql.NullString
		lore     pq.StringArray
		enchants string
		quantity int64
	)
	if err := row.Scan(&r.Material, &name, &lore, &enchants, &quantity); err != nil {
		return item.Record{}, err
	}
	if quantity < 1 {
		return item.Record{}, fmt.Errorf("invalid quantity %d for %s", quantity, r.Material)
	}

	if name.Valid {
		r.DisplayName = &name.String
	}
	if len(lore) > 0 {
		r.Lore = []string(lore)
	}
	m, err := decodeEnchantments(enchants)
	if err != nil {
		return item.Record{}, err
	}
	r.Enchantments = m
	r.Quantity = uint(quantity)
	return r, nil
}

func encodeEnchantments(m map[item.EnchantmentKey]uint) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode enchantments: %w", err)
	}
	return string(b), nil
}

func decodeEnchantments(s string) (map[item.EnchantmentKey]uint, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[item.EnchantmentKey]uint
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode enchantments %q: %w", s, err)
	}
	return m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nonNilLore(lore []string) []string {
	if lore == nil {
		return []string{}
	}
	return lore
}

func backendError(message, player string, err error) error {
	return errors.WrapWithContext(errors.ErrCodeUnavailable, message, err, map[string]any{"player": player})
}
