package model

// DefaultSubcategory names the bucket for entries without a preceding group label.
const DefaultSubcategory = "其他"

// Stats holds the counters advertised in a category's summary line.
type Stats struct {
	TotalItems      int `json:"total_items"`
	HotItems        int `json:"hot_items"`
	WithImages      int `json:"with_images"`
	WithDiscussions int `json:"with_discussions"`
	PriceChanges    int `json:"price_changes"`
	TimeLimited     int `json:"time_limited"`
}

type Subcategory struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Category is the record produced for one scanned container.
type Category struct {
	ID            int           `json:"category_id"`
	Name          string        `json:"category_name"`
	Summary       string        `json:"summary"`
	Stats         Stats         `json:"stats"`
	Subcategories []Subcategory `json:"subcategories"`
}

// ProductCount returns the number of products across all subcategories.
func (c Category) ProductCount() int {
	n := 0
	for _, s := range c.Subcategories {
		n += len(s.Products)
	}
	return n
}
