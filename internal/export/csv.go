package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coolpc/internal/model"
)

const (
	specSeparator   = " / "
	markerSeparator = ", "
)

// Columns is the header of the flattened export.
var Columns = []string{
	"category_id", "category", "subcategory", "group", "brand", "model",
	"specs", "price", "original_price", "discount_amount", "markers", "raw_text",
}

// Row is one product with its category context, absent values as "".
type Row struct {
	CategoryID     int
	Category       string
	Subcategory    string
	Group          string
	Brand          string
	Model          string
	Specs          string
	Price          string
	OriginalPrice  string
	DiscountAmount string
	Markers        string
	RawText        string
}

func (r Row) record() []string {
	return []string{
		strconv.Itoa(r.CategoryID), r.Category, r.Subcategory, r.Group, r.Brand, r.Model,
		r.Specs, r.Price, r.OriginalPrice, r.DiscountAmount, r.Markers, r.RawText,
	}
}

// Flatten produces one row per product in document order.
func Flatten(categories []model.Category) []Row {
	var rows []Row
	for _, c := range categories {
		for _, sub := range c.Subcategories {
			for _, p := range sub.Products {
				rows = append(rows, Row{
					CategoryID:     c.ID,
					Category:       c.Name,
					Subcategory:    sub.Name,
					Group:          model.StringOrEmpty(p.Group),
					Brand:          model.StringOrEmpty(p.Brand),
					Model:          model.StringOrEmpty(p.Model),
					Specs:          strings.Join(p.Specs, specSeparator),
					Price:          intOrEmpty(p.Price),
					OriginalPrice:  intOrEmpty(p.OriginalPrice),
					DiscountAmount: intOrEmpty(p.DiscountAmount),
					Markers:        joinMarkers(p.Markers),
					RawText:        p.RawText,
				})
			}
		}
	}
	return rows
}

// WriteCSV writes the header followed by the flattened rows. The header is
// written even when there are no products.
func WriteCSV(w io.Writer, categories []model.Category) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range Flatten(categories) {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func joinMarkers(markers []model.Marker) string {
	parts := make([]string, len(markers))
	for i, m := range markers {
		parts[i] = string(m)
	}
	return strings.Join(parts, markerSeparator)
}
