package repository

import (
	"context"
	"fmt"
)

// rawDocumentSchema is valid for both PostgreSQL and SQLite.
const rawDocumentSchema = `CREATE TABLE IF NOT EXISTS coolpc_raw_document (
    id          TEXT PRIMARY KEY,
    source_url  TEXT NOT NULL,
    checksum    TEXT NOT NULL UNIQUE,
    content     TEXT NOT NULL,
    fetched_at  BIGINT NOT NULL,
    parsed      INTEGER NOT NULL DEFAULT 0
)`

var snapshotSchema = []string{
	`CREATE TABLE IF NOT EXISTS coolpc_snapshot (
    id              UUID PRIMARY KEY,
    source_url      TEXT NOT NULL,
    category_count  INTEGER NOT NULL,
    product_count   INTEGER NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE TABLE IF NOT EXISTS coolpc_category (
    snapshot_id       UUID NOT NULL REFERENCES coolpc_snapshot(id) ON DELETE CASCADE,
    position          INTEGER NOT NULL,
    category_id       INTEGER NOT NULL,
    name              TEXT NOT NULL,
    summary           TEXT NOT NULL,
    total_items       INTEGER NOT NULL,
    hot_items         INTEGER NOT NULL,
    with_images       INTEGER NOT NULL,
    with_discussions  INTEGER NOT NULL,
    price_changes     INTEGER NOT NULL,
    time_limited      INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, category_id)
)`,
	`CREATE TABLE IF NOT EXISTS coolpc_product (
    snapshot_id         UUID NOT NULL REFERENCES coolpc_snapshot(id) ON DELETE CASCADE,
    position            INTEGER NOT NULL,
    category_id         INTEGER NOT NULL,
    subcategory         TEXT NOT NULL,
    idx                 INTEGER NOT NULL,
    group_label         TEXT,
    brand               TEXT,
    model               TEXT,
    specs               TEXT[] NOT NULL,
    price               INTEGER,
    original_price      INTEGER,
    discount_amount     INTEGER,
    cool_coin_discount  INTEGER,
    markers             TEXT[] NOT NULL,
    raw_text            TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, position)
)`,
	`CREATE INDEX IF NOT EXISTS idx_coolpc_product_model ON coolpc_product (snapshot_id, model)`,
}

// EnsureSchema creates the raw document table when missing.
func (r *RawRepository) EnsureSchema() error {
	if _, err := r.DB.Exec(rawDocumentSchema); err != nil {
		return fmt.Errorf("create coolpc_raw_document: %w", err)
	}
	return nil
}

// EnsureSchema creates the snapshot tables when missing.
func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range snapshotSchema {
		if _, err := r.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create snapshot schema: %w", err)
		}
	}
	return nil
}
