package repository

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"coolpc/internal/model"
)

var ErrNotFound = errors.New("not found")

// RawRepository keeps fetched quote pages so they can be parsed again later.
type RawRepository struct {
	DB *sql.DB
}

// Checksum is the hex sha256 of a document's content.
func Checksum(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Save stores d, or refreshes fetched_at when identical content was already
// stored. Missing ID and Checksum are filled in.
func (r *RawRepository) Save(d *model.RawDocument) error {
	if d.Checksum == "" {
		d.Checksum = Checksum(d.Content)
	}

	var existing string
	err := r.DB.QueryRow(`SELECT id FROM coolpc_raw_document WHERE checksum = $1`, d.Checksum).Scan(&existing)
	switch {
	case err == nil:
		d.ID = existing
		_, err = r.DB.Exec(`
			UPDATE coolpc_raw_document
			SET fetched_at = $1, source_url = $2
			WHERE checksum = $3
		`, d.FetchedAt, d.SourceURL, d.Checksum)
		if err != nil {
			return fmt.Errorf("update raw document: %w", err)
		}
		log.Printf("[Repository] raw document %s unchanged, refreshed", d.ID)
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("lookup raw document: %w", err)
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	_, err = r.DB.Exec(`
		INSERT INTO coolpc_raw_document
		(id, source_url, checksum, content, fetched_at, parsed)
		VALUES ($1, $2, $3, $4, $5, 0)
	`, d.ID, d.SourceURL, d.Checksum, d.Content, d.FetchedAt)
	if err != nil {
		return fmt.Errorf("insert raw document: %w", err)
	}
	log.Printf("[Repository] raw document %s stored (%d bytes)", d.ID, len(d.Content))
	return nil
}

// Latest returns the most recently fetched document for sourceURL.
func (r *RawRepository) Latest(sourceURL string) (model.RawDocument, error) {
	var d model.RawDocument
	err := r.DB.QueryRow(`
		SELECT id, source_url, checksum, content, fetched_at
		FROM coolpc_raw_document
		WHERE source_url = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`, sourceURL).Scan(&d.ID, &d.SourceURL, &d.Checksum, &d.Content, &d.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("latest raw document: %w", err)
	}
	return d, nil
}

// Pending lists documents not yet marked as parsed, oldest first.
func (r *RawRepository) Pending() ([]model.RawDocument, error) {
	rows, err := r.DB.Query(`
		SELECT id, source_url, checksum, content, fetched_at
		FROM coolpc_raw_document
		WHERE parsed = 0
		ORDER BY fetched_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var list []model.RawDocument
	for rows.Next() {
		var d model.RawDocument
		if err := rows.Scan(&d.ID, &d.SourceURL, &d.Checksum, &d.Content, &d.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan raw document: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *RawRepository) MarkParsed(id string) error {
	_, err := r.DB.Exec(`
		UPDATE coolpc_raw_document
		SET parsed = 1
		WHERE id = $1
	`, id)
	return err
}
