// The Licensed Work is (c) 2022 Sygma
// SPDX-License-Identifier: LGPL-3.0-only

package indexer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/jmoiron/sqlx"
	// postgres driver
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sprintertech/atomic-bridge/bridge"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS initiated_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		initiator_address TEXT NOT NULL,
		recipient_address TEXT NOT NULL,
		hash_lock TEXT NOT NULL,
		time_lock NUMERIC(20, 0) NOT NULL,
		amount NUMERIC(78, 0) NOT NULL,
		asset TEXT NOT NULL,
		state TEXT NOT NULL,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS locked_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		initiator TEXT NOT NULL,
		recipient TEXT NOT NULL,
		hash_lock TEXT NOT NULL,
		time_lock NUMERIC(20, 0) NOT NULL,
		amount NUMERIC(78, 0) NOT NULL,
		asset TEXT NOT NULL,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS initiator_completed_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		pre_image TEXT,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS counter_part_completed_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		pre_image TEXT NOT NULL,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS cancelled_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS refunded_events (
		id BIGSERIAL PRIMARY KEY,
		chain TEXT NOT NULL,
		height BIGINT NOT NULL,
		log_index BIGINT NOT NULL,
		bridge_transfer_id TEXT NOT NULL,
		UNIQUE (chain, height, log_index)
	)`,
	`CREATE TABLE IF NOT EXISTS lock_bridge_transfers (
		id BIGSERIAL PRIMARY KEY,
		bridge_transfer_id TEXT NOT NULL UNIQUE,
		hash_lock TEXT NOT NULL,
		initiator TEXT NOT NULL,
		recipient TEXT NOT NULL,
		amount NUMERIC(78, 0) NOT NULL,
		asset TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS wait_and_complete_initiators (
		id BIGSERIAL PRIMARY KEY,
		bridge_transfer_id TEXT NOT NULL UNIQUE,
		pre_image TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS indexer_cursors (
		chain TEXT PRIMARY KEY,
		height BIGINT NOT NULL
	)`,
}

var insertEvent = map[bridge.EventKind]string{
	bridge.EventInitiated: `INSERT INTO initiated_events
		(chain, height, log_index, bridge_transfer_id, initiator_address, recipient_address, hash_lock, time_lock, amount, asset, state)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id, :initiator, :recipient, :hash_lock, :time_lock, :amount, :asset, :state)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
	bridge.EventLocked: `INSERT INTO locked_events
		(chain, height, log_index, bridge_transfer_id, initiator, recipient, hash_lock, time_lock, amount, asset)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id, :initiator, :recipient, :hash_lock, :time_lock, :amount, :asset)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
	bridge.EventInitiatorCompleted: `INSERT INTO initiator_completed_events
		(chain, height, log_index, bridge_transfer_id, pre_image)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id, :pre_image)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
	bridge.EventCounterpartyCompleted: `INSERT INTO counter_part_completed_events
		(chain, height, log_index, bridge_transfer_id, pre_image)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id, :pre_image)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
	bridge.EventCancelled: `INSERT INTO cancelled_events
		(chain, height, log_index, bridge_transfer_id)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
	bridge.EventRefunded: `INSERT INTO refunded_events
		(chain, height, log_index, bridge_transfer_id)
		VALUES (:chain, :height, :log_index, :bridge_transfer_id)
		ON CONFLICT (chain, height, log_index) DO NOTHING`,
}

const selectEvents = `
	SELECT 'initiated' AS kind, chain, height, log_index, bridge_transfer_id,
		initiator_address AS initiator, recipient_address AS recipient, hash_lock, time_lock, amount, asset, NULL::text AS pre_image
	FROM initiated_events WHERE bridge_transfer_id = $1
	UNION ALL
	SELECT 'locked', chain, height, log_index, bridge_transfer_id, initiator, recipient, hash_lock, time_lock, amount, asset, NULL
	FROM locked_events WHERE bridge_transfer_id = $1
	UNION ALL
	SELECT 'initiator_completed', chain, height, log_index, bridge_transfer_id, NULL, NULL, NULL, NULL, NULL, NULL, pre_image
	FROM initiator_completed_events WHERE bridge_transfer_id = $1
	UNION ALL
	SELECT 'counterparty_completed', chain, height, log_index, bridge_transfer_id, NULL, NULL, NULL, NULL, NULL, NULL, pre_image
	FROM counter_part_completed_events WHERE bridge_transfer_id = $1
	UNION ALL
	SELECT 'cancelled', chain, height, log_index, bridge_transfer_id, NULL, NULL, NULL, NULL, NULL, NULL, NULL
	FROM cancelled_events WHERE bridge_transfer_id = $1
	UNION ALL
	SELECT 'refunded', chain, height, log_index, bridge_transfer_id, NULL, NULL, NULL, NULL, NULL, NULL, NULL
	FROM refunded_events WHERE bridge_transfer_id = $1
	ORDER BY chain, height, log_index`

const selectOpenTransfers = `
	SELECT bridge_transfer_id FROM initiated_events
	WHERE bridge_transfer_id NOT IN (
		SELECT bridge_transfer_id FROM initiator_completed_events
		UNION SELECT bridge_transfer_id FROM refunded_events)
	UNION
	SELECT bridge_transfer_id FROM locked_events
	WHERE bridge_transfer_id NOT IN (
		SELECT bridge_transfer_id FROM counter_part_completed_events
		UNION SELECT bridge_transfer_id FROM cancelled_events)
	ORDER BY bridge_transfer_id`

type eventRow struct {
	Kind       string              `db:"kind"`
	Chain      string              `db:"chain"`
	Height     int64               `db:"height"`
	LogIndex   int64               `db:"log_index"`
	TransferID string              `db:"bridge_transfer_id"`
	Initiator  sql.NullString      `db:"initiator"`
	Recipient  sql.NullString      `db:"recipient"`
	HashLock   sql.NullString      `db:"hash_lock"`
	TimeLock   decimal.NullDecimal `db:"time_lock"`
	Amount     decimal.NullDecimal `db:"amount"`
	Asset      sql.NullString      `db:"asset"`
	State      sql.NullString      `db:"state"`
	PreImage   sql.NullString      `db:"pre_image"`
}

// PostgresStore is a Store backed by one postgres table per event kind.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres opens a postgres database at url.
func ConnectPostgres(ctx context.Context, url string) (*sqlx.DB, error) {
	return sqlx.ConnectContext(ctx, "postgres", url)
}

// EnsureSchema creates the indexer tables when they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, statement := range schema {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("unable to create schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, events []*bridge.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range events {
		query, ok := insertEvent[e.Kind]
		if !ok {
			return fmt.Errorf("unknown event kind %s", e.Kind)
		}
		if _, err := tx.NamedExecContext(ctx, query, toRow(e)); err != nil {
			return fmt.Errorf("unable to store %s event of %s: %w", e.Kind, e.TransferID, err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) Events(ctx context.Context, id bridge.TransferID) ([]*bridge.Event, error) {
	rows := make([]eventRow, 0)
	err := s.db.SelectContext(ctx, &rows, selectEvents, id.Hex())
	if err != nil {
		return nil, err
	}

	events := make([]*bridge.Event, len(rows))
	for i, row := range rows {
		events[i], err = row.toEvent()
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *PostgresStore) OpenTransfers(ctx context.Context) ([]bridge.TransferID, error) {
	hexIDs := make([]string, 0)
	err := s.db.SelectContext(ctx, &hexIDs, selectOpenTransfers)
	if err != nil {
		return nil, err
	}

	ids := make([]bridge.TransferID, len(hexIDs))
	for i, hexID := range hexIDs {
		ids[i], err = bridge.ParseTransferID(hexID)
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *PostgresStore) Cursor(ctx context.Context, chain string) (uint64, bool, error) {
	var height int64
	err := s.db.GetContext(ctx, &height, `SELECT height FROM indexer_cursors WHERE chain = $1`, chain)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return uint64(height), true, nil
}

func (s *PostgresStore) SetCursor(ctx context.Context, chain string, height uint64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO indexer_cursors (chain, height) VALUES ($1, $2)
		ON CONFLICT (chain) DO UPDATE SET height = EXCLUDED.height`,
		chain, int64(height))
	return err
}

func (s *PostgresStore) RecordCompletion(ctx context.Context, completion Completion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wait_and_complete_initiators (bridge_transfer_id, pre_image, timestamp) VALUES ($1, $2, $3)
		ON CONFLICT (bridge_transfer_id) DO NOTHING`,
		completion.TransferID.Hex(), completion.PreImage.Hex(), completion.Timestamp.UTC())
	return err
}

func (s *PostgresStore) RecordLock(ctx context.Context, lock LockRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lock_bridge_transfers (bridge_transfer_id, hash_lock, initiator, recipient, amount, asset) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (bridge_transfer_id) DO NOTHING`,
		lock.TransferID.Hex(), lock.HashLock.Hex(), lock.Initiator.Hex(), lock.Recipient.Hex(), uintDecimal(lock.Amount.Value), string(lock.Amount.Asset))
	return err
}

func uintDecimal(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}

func decimalUint(d decimal.NullDecimal, field string) (uint64, error) {
	if !d.Valid {
		return 0, nil
	}
	v := d.Decimal.BigInt()
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, &bridge.ConversionFailedError{Field: field, Err: fmt.Errorf("%s out of range", d.Decimal)}
	}
	return v.Uint64(), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toRow(e *bridge.Event) eventRow {
	row := eventRow{
		Kind:       string(e.Kind),
		Chain:      e.Chain,
		Height:     int64(e.Height),
		LogIndex:   int64(e.Index),
		TransferID: e.TransferID.Hex(),
		State:      nullString(e.Kind.State().String()),
	}

	switch e.Kind {
	case bridge.EventInitiated, bridge.EventLocked:
		row.Initiator = nullString(e.Initiator.Hex())
		row.Recipient = nullString(e.Recipient.Hex())
		row.HashLock = nullString(e.HashLock.Hex())
		row.TimeLock = decimal.NewNullDecimal(uintDecimal(uint64(e.TimeLock)))
		row.Amount = decimal.NewNullDecimal(uintDecimal(e.Amount.Value))
		row.Asset = nullString(string(e.Amount.Asset))
	case bridge.EventInitiatorCompleted, bridge.EventCounterpartyCompleted:
		if len(e.PreImage) > 0 {
			row.PreImage = nullString(e.PreImage.Hex())
		}
	}
	return row
}

func (r eventRow) toEvent() (*bridge.Event, error) {
	id, err := bridge.ParseTransferID(r.TransferID)
	if err != nil {
		return nil, err
	}
	e := &bridge.Event{
		Kind:       bridge.EventKind(r.Kind),
		Chain:      r.Chain,
		Height:     uint64(r.Height),
		Index:      uint64(r.LogIndex),
		TransferID: id,
	}

	if r.Initiator.Valid {
		if e.Initiator, err = bridge.ParseAddress(r.Initiator.String); err != nil {
			return nil, err
		}
	}
	if r.Recipient.Valid {
		if e.Recipient, err = bridge.ParseAddress(r.Recipient.String); err != nil {
			return nil, err
		}
	}
	if r.HashLock.Valid {
		if e.HashLock, err = bridge.ParseHashLock(r.HashLock.String); err != nil {
			return nil, err
		}
	}
	if r.PreImage.Valid {
		preImage, err := bridge.ParseAddress(r.PreImage.String)
		if err != nil {
			return nil, err
		}
		e.PreImage = bridge.PreImage(preImage)
	}

	timeLock, err := decimalUint(r.TimeLock, "time_lock")
	if err != nil {
		return nil, err
	}
	e.TimeLock = bridge.TimeLock(timeLock)

	if r.Asset.Valid {
		asset, err := bridge.ParseAssetType(r.Asset.String)
		if err != nil {
			return nil, err
		}
		amount, err := decimalUint(r.Amount, "amount")
		if err != nil {
			return nil, err
		}
		e.Amount = bridge.NewAmount(asset, amount)
	}
	return e, nil
}
