package export

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"coolpc/internal/model"
)

const productTable = "coolpc_products"

var sqliteColumns = []struct {
	name string
	typ  string
}{
	{"category_id", "INTEGER"},
	{"category", "TEXT"},
	{"subcategory", "TEXT"},
	{"group_label", "TEXT"},
	{"brand", "TEXT"},
	{"model", "TEXT"},
	{"specs", "TEXT"},
	{"price", "INTEGER"},
	{"original_price", "INTEGER"},
	{"discount_amount", "INTEGER"},
	{"cool_coin_discount", "INTEGER"},
	{"markers", "TEXT"},
	{"raw_text", "TEXT"},
}

// WriteSQLite replaces the file at path with a database holding one row per
// product.
func WriteSQLite(path string, categories []model.Category) error {
	_ = os.Remove(path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	return writeProducts(db, categories)
}

func writeProducts(db *sql.DB, categories []model.Category) error {
	defs := make([]string, len(sqliteColumns))
	cols := make([]string, len(sqliteColumns))
	for i, c := range sqliteColumns {
		defs[i] = fmt.Sprintf("%q %s", c.name, c.typ)
		cols[i] = fmt.Sprintf("%q", c.name)
	}
	if _, err := db.Exec(`DROP TABLE IF EXISTS "` + productTable + `"`); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE "` + productTable + `" (` + strings.Join(defs, ",") + `)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.Prepare(`INSERT INTO "` + productTable + `" (` + strings.Join(cols, ",") + `) VALUES (` + ph + `)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range categories {
		for _, sub := range c.Subcategories {
			for _, p := range sub.Products {
				_, err := stmt.Exec(
					c.ID, c.Name, sub.Name,
					nullString(p.Group), nullString(p.Brand), nullString(p.Model),
					strings.Join(p.Specs, specSeparator),
					nullInt(p.Price), nullInt(p.OriginalPrice), nullInt(p.DiscountAmount), nullInt(p.CoolCoinDiscount),
					joinMarkers(p.Markers), p.RawText,
				)
				if err != nil {
					return fmt.Errorf("insert product %d/%d: %w", c.ID, p.Index, err)
				}
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	for _, idx := range []string{
		`CREATE INDEX IF NOT EXISTS idx_coolpc_products_category ON coolpc_products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_coolpc_products_brand ON coolpc_products(brand)`,
		`CREATE INDEX IF NOT EXISTS idx_coolpc_products_model ON coolpc_products(model)`,
	} {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}
