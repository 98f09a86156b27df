package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"coolpc/internal/model"
)

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Snapshot describes one stored parse result.
type Snapshot struct {
	ID            uuid.UUID
	SourceURL     string
	CategoryCount int
	ProductCount  int
	CreatedAt     time.Time
}

// ProductRepository stores parsed categories as immutable snapshots.
type ProductRepository struct {
	DB Querier
}

var productColumns = []string{
	"snapshot_id", "position", "category_id", "subcategory", "idx", "group_label", "brand", "model",
	"specs", "price", "original_price", "discount_amount", "cool_coin_discount", "markers", "raw_text",
}

// SaveSnapshot writes every category and product in one transaction and
// returns the new snapshot id.
func (r *ProductRepository) SaveSnapshot(ctx context.Context, sourceURL string, categories []model.Category) (uuid.UUID, error) {
	id := uuid.New()

	var rows [][]any
	for _, c := range categories {
		for _, sub := range c.Subcategories {
			for _, p := range sub.Products {
				rows = append(rows, []any{
					id, len(rows), c.ID, sub.Name, p.Index, p.Group, p.Brand, p.Model,
					p.Specs, p.Price, p.OriginalPrice, p.DiscountAmount, p.CoolCoinDiscount,
					markerStrings(p.Markers), p.RawText,
				})
			}
		}
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx, `
		INSERT INTO coolpc_snapshot (id, source_url, category_count, product_count)
		VALUES ($1, $2, $3, $4)
	`, id, sourceURL, len(categories), len(rows))
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert snapshot: %w", err)
	}

	for i, c := range categories {
		_, err = tx.Exec(ctx, `
			INSERT INTO coolpc_category
			(snapshot_id, position, category_id, name, summary, total_items, hot_items, with_images, with_discussions, price_changes, time_limited)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, id, i, c.ID, c.Name, c.Summary,
			c.Stats.TotalItems, c.Stats.HotItems, c.Stats.WithImages, c.Stats.WithDiscussions, c.Stats.PriceChanges, c.Stats.TimeLimited)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert category %d: %w", c.ID, err)
		}
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"coolpc_product"}, productColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return uuid.Nil, fmt.Errorf("copy products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit snapshot: %w", err)
	}
	log.Printf("[Repository] snapshot %s stored: %d categories, %d products", id, len(categories), n)
	return id, nil
}

// LatestSnapshot returns the most recent snapshot, or ErrNotFound.
func (r *ProductRepository) LatestSnapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := r.DB.QueryRow(ctx, `
		SELECT id, source_url, category_count, product_count, created_at
		FROM coolpc_snapshot
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&s.ID, &s.SourceURL, &s.CategoryCount, &s.ProductCount, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNotFound
	}
	if err != nil {
		return s, fmt.Errorf("latest snapshot: %w", err)
	}
	return s, nil
}

// LoadSnapshot rebuilds the category records of snapshot id in their
// original order.
func (r *ProductRepository) LoadSnapshot(ctx context.Context, id uuid.UUID) ([]model.Category, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT category_id, name, summary, total_items, hot_items, with_images, with_discussions, price_changes, time_limited
		FROM coolpc_category
		WHERE snapshot_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories := []model.Category{}
	byID := map[int]int{}
	for rows.Next() {
		var c model.Category
		s := &c.Stats
		if err := rows.Scan(&c.ID, &c.Name, &c.Summary,
			&s.TotalItems, &s.HotItems, &s.WithImages, &s.WithDiscussions, &s.PriceChanges, &s.TimeLimited); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Subcategories = []model.Subcategory{}
		byID[c.ID] = len(categories)
		categories = append(categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}

	rows, err = r.DB.Query(ctx, `
		SELECT category_id, subcategory, idx, group_label, brand, model, specs,
		       price, original_price, discount_amount, cool_coin_discount, markers, raw_text
		FROM coolpc_product
		WHERE snapshot_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			categoryID  int
			subcategory string
			markers     []string
			p           model.Product
		)
		if err := rows.Scan(&categoryID, &subcategory, &p.Index, &p.Group, &p.Brand, &p.Model, &p.Specs,
			&p.Price, &p.OriginalPrice, &p.DiscountAmount, &p.CoolCoinDiscount, &markers, &p.RawText); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		pos, ok := byID[categoryID]
		if !ok {
			return nil, fmt.Errorf("product references unknown category %d", categoryID)
		}
		if p.Specs == nil {
			p.Specs = []string{}
		}
		p.Markers = make([]model.Marker, len(markers))
		for i, m := range markers {
			p.Markers[i] = model.Marker(m)
		}
		appendProduct(&categories[pos], subcategory, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return categories, nil
}

func appendProduct(c *model.Category, subcategory string, p model.Product) {
	for i := range c.Subcategories {
		if c.Subcategories[i].Name == subcategory {
			c.Subcategories[i].Products = append(c.Subcategories[i].Products, p)
			return
		}
	}
	c.Subcategories = append(c.Subcategories, model.Subcategory{Name: subcategory, Products: []model.Product{p}})
}

func markerStrings(markers []model.Marker) []string {
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = string(m)
	}
	return out
}
