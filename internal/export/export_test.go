package export

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolpc/internal/model"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func sampleCategories() []model.Category {
	return []model.Category{
		{
			ID:      4,
			Name:    "處理器 CPU",
			Summary: "處理器 CPU，共有商品 3 樣，熱賣 1",
			Stats:   model.Stats{TotalItems: 3, HotItems: 1},
			Subcategories: []model.Subcategory{
				{Name: "Intel", Products: []model.Product{
					{
						Index: 1, Brand: str("Intel"), Model: str("i5-14400F"),
						Specs: []string{"2.5GHz", "20M"}, Price: num(4990),
						Markers: []model.Marker{model.MarkerDiscussion, model.MarkerHot},
						RawText: "Intel i5-14400F【10核/16緒】2.5GHz/20M $4,990 ◆ 熱賣",
					},
					{
						Index: 2, Brand: str("Intel"), Model: str("i7-14700K"),
						Specs: []string{}, Price: num(11990), OriginalPrice: num(11990), DiscountAmount: num(1000),
						Markers: []model.Marker{model.MarkerPriceChange},
						RawText: "Intel i7-14700K $11,990↘$10,990",
					},
				}},
				{Name: "AMD", Products: []model.Product{
					{
						Index: 4, Group: str("AMD Ryzen 7000 系列"), Brand: str("AMD"), Model: str("R7 7800X3D"),
						Specs: []string{}, Price: num(12990), Markers: []model.Marker{},
						RawText: "AMD R7 7800X3D 代理盒裝 $12,990",
					},
				}},
			},
		},
		{
			ID:   6,
			Name: "記憶體 RAM",
			Subcategories: []model.Subcategory{
				{Name: model.DefaultSubcategory, Products: []model.Product{
					{
						Index: 3, Specs: []string{}, Price: num(3290), CoolCoinDiscount: num(100),
						Markers: []model.Marker{model.MarkerCoolCoinDiscount},
						RawText: "記憶體 \"雙通道\", $3,290 酷幣100",
					},
				}},
			},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleCategories()))

	out := buf.String()
	assert.Contains(t, out, `"category_name": "處理器 CPU"`)
	assert.Contains(t, out, "\n  {\n    \"category_id\": 4,")
	assert.Contains(t, out, `"group": null`)
	assert.Contains(t, out, `"cool_coin_discount": 100`)

	var decoded []model.Category
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleCategories(), decoded)
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleCategories())

	require.Len(t, rows, 4)
	assert.Equal(t, Row{
		CategoryID:  4,
		Category:    "處理器 CPU",
		Subcategory: "Intel",
		Brand:       "Intel",
		Model:       "i5-14400F",
		Specs:       "2.5GHz / 20M",
		Price:       "4990",
		Markers:     "discussion, hot",
		RawText:     "Intel i5-14400F【10核/16緒】2.5GHz/20M $4,990 ◆ 熱賣",
	}, rows[0])
	assert.Equal(t, "11990", rows[1].OriginalPrice)
	assert.Equal(t, "1000", rows[1].DiscountAmount)
	assert.Equal(t, "AMD Ryzen 7000 系列", rows[2].Group)
	assert.Empty(t, rows[3].Brand)
}

func TestWriteCSV(t *testing.T) {
	t.Run("regrouped rows match the nested export", func(t *testing.T) {
		categories := sampleCategories()
		var buf bytes.Buffer

		require.NoError(t, WriteCSV(&buf, categories))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Equal(t, Columns, records[0])

		counts := map[[2]string]int{}
		for _, rec := range records[1:] {
			require.Len(t, rec, len(Columns))
			counts[[2]string{rec[0], rec[2]}]++
		}
		assert.Equal(t, map[[2]string]int{
			{"4", "Intel"}:                   2,
			{"4", "AMD"}:                     1,
			{"6", model.DefaultSubcategory}: 1,
		}, counts)
		assert.Equal(t, "記憶體 \"雙通道\", $3,290 酷幣100", records[4][11])
	})

	t.Run("header only when empty", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, WriteCSV(&buf, nil))

		assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
	})
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coolpc.sqlite")

	require.NoError(t, WriteSQLite(path, sampleCategories()))
	// A second export replaces the first.
	require.NoError(t, WriteSQLite(path, sampleCategories()))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM coolpc_products`).Scan(&count))
	assert.Equal(t, 4, count)

	var (
		modelName string
		discount  sql.NullInt64
	)
	require.NoError(t, db.QueryRow(
		`SELECT model, discount_amount FROM coolpc_products WHERE category_id = ? AND price = ?`, 4, 11990,
	).Scan(&modelName, &discount))
	assert.Equal(t, "i7-14700K", modelName)
	assert.Equal(t, sql.NullInt64{Int64: 1000, Valid: true}, discount)

	var brand sql.NullString
	require.NoError(t, db.QueryRow(`SELECT brand FROM coolpc_products WHERE category_id = 6`).Scan(&brand))
	assert.False(t, brand.Valid)

	var indexes int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = 'coolpc_products'`,
	).Scan(&indexes))
	assert.Equal(t, 3, indexes)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteSummary(&buf, sampleCategories()))

	out := buf.String()
	assert.Contains(t, out, "類別總數: 2\n")
	assert.Contains(t, out, "商品總數: 4\n")
	assert.Contains(t, out, "  處理器 CPU: 3 項商品\n")
	assert.Contains(t, out, "    └─ Intel: 2 項商品\n")
	assert.Contains(t, out, "      - 熱賣: 1\n")
	assert.Equal(t, 2, strings.Count(out, "統計數據"), "every category prints its counters")
	assert.Contains(t, out, "      - 熱賣: 0\n")
}
