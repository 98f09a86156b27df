package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync/atomic"

	"coolpc/internal/model"
)

var ErrNotFound = errors.New("not found")

const (
	DefaultLimit         = 10
	DefaultCategoryLimit = 20
	MaxLimit             = 100

	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// Hit is a product together with the category it was found in.
type Hit struct {
	model.Product
	CategoryID  int    `json:"category_id"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

type SubcategoryInfo struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

type CategoryInfo struct {
	ID            int               `json:"category_id"`
	Name          string            `json:"category_name"`
	Stats         model.Stats       `json:"stats"`
	Subcategories []SubcategoryInfo `json:"subcategories"`
}

type CategoryPage struct {
	CategoryID        int     `json:"category_id"`
	Category          string  `json:"category_name"`
	SubcategoryFilter *string `json:"subcategory_filter"`
	TotalProducts     int     `json:"total_products"`
	Showing           int     `json:"showing"`
	Products          []Hit   `json:"products"`
}

// Catalog answers read-only queries over one parse result. It never
// modifies the categories it was built from.
type Catalog struct {
	categories []model.Category
}

func New(categories []model.Category) *Catalog {
	return &Catalog{categories: categories}
}

func (c *Catalog) Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(c.categories))
	for _, cat := range c.categories {
		info := CategoryInfo{ID: cat.ID, Name: cat.Name, Stats: cat.Stats, Subcategories: []SubcategoryInfo{}}
		for _, sub := range cat.Subcategories {
			info.Subcategories = append(info.Subcategories, SubcategoryInfo{Name: sub.Name, ProductCount: len(sub.Products)})
		}
		out = append(out, info)
	}
	return out
}

// CategoryProducts lists the products of category id, optionally limited to
// one subcategory matched case-insensitively.
func (c *Catalog) CategoryProducts(id int, subcategory string, limit int) (CategoryPage, error) {
	cat, ok := c.category(id)
	if !ok {
		return CategoryPage{}, ErrNotFound
	}
	page := CategoryPage{CategoryID: cat.ID, Category: cat.Name, Products: []Hit{}}

	var all []Hit
	if subcategory != "" {
		found := false
		for _, sub := range cat.Subcategories {
			if strings.EqualFold(sub.Name, subcategory) {
				name := sub.Name
				page.SubcategoryFilter = &name
				all = hits(cat, sub)
				found = true
				break
			}
		}
		if !found {
			return CategoryPage{}, ErrNotFound
		}
	} else {
		for _, sub := range cat.Subcategories {
			all = append(all, hits(cat, sub)...)
		}
	}

	page.TotalProducts = len(all)
	all = truncate(all, clampLimit(limit, DefaultCategoryLimit))
	page.Products = append(page.Products, all...)
	page.Showing = len(page.Products)
	return page, nil
}

// Query filters products across categories. Zero values mean "any".
type Query struct {
	Keyword  string
	Category string
	MinPrice int
	MaxPrice int
	Limit    int
}

// Search returns products whose brand, model, specs or raw text contain the
// keyword, in document order. Products without a price never satisfy a
// price bound.
func (c *Catalog) Search(q Query) []Hit {
	limit := clampLimit(q.Limit, DefaultLimit)
	keyword := strings.ToLower(q.Keyword)
	category := strings.ToLower(q.Category)

	out := []Hit{}
	for _, cat := range c.categories {
		if category != "" && !strings.Contains(strings.ToLower(cat.Name), category) {
			continue
		}
		for _, sub := range cat.Subcategories {
			for _, p := range sub.Products {
				if keyword != "" && !strings.Contains(searchText(p), keyword) {
					continue
				}
				if !inPriceRange(p, q.MinPrice, q.MaxPrice) {
					continue
				}
				out = append(out, hit(cat, sub, p))
				if len(out) >= limit {
					return out
				}
			}
		}
	}
	return out
}

// ByModel finds the first product whose model equals model, ignoring case.
func (c *Catalog) ByModel(modelName string) (Hit, error) {
	for _, cat := range c.categories {
		for _, sub := range cat.Subcategories {
			for _, p := range sub.Products {
				if p.Model != nil && strings.EqualFold(*p.Model, modelName) {
					return hit(cat, sub, p), nil
				}
			}
		}
	}
	return Hit{}, ErrNotFound
}

func (c *Catalog) category(id int) (model.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// categoryNamed returns the first category whose name contains any of names.
func (c *Catalog) categoryNamed(names ...string) (model.Category, bool) {
	for _, cat := range c.categories {
		for _, n := range names {
			if strings.Contains(cat.Name, n) {
				return cat, true
			}
		}
	}
	return model.Category{}, false
}

func hit(cat model.Category, sub model.Subcategory, p model.Product) Hit {
	return Hit{Product: p, CategoryID: cat.ID, Category: cat.Name, Subcategory: sub.Name}
}

func hits(cat model.Category, sub model.Subcategory) []Hit {
	out := make([]Hit, 0, len(sub.Products))
	for _, p := range sub.Products {
		out = append(out, hit(cat, sub, p))
	}
	return out
}

func searchText(p model.Product) string {
	parts := []string{model.StringOrEmpty(p.Brand), model.StringOrEmpty(p.Model), strings.Join(p.Specs, " "), p.RawText}
	return strings.ToLower(strings.Join(parts, " "))
}

func inPriceRange(p model.Product, lo, hi int) bool {
	if lo <= 0 && hi <= 0 {
		return true
	}
	if p.Price == nil {
		return false
	}
	if lo > 0 && *p.Price < lo {
		return false
	}
	if hi > 0 && *p.Price > hi {
		return false
	}
	return true
}

// sortByPrice orders hits in place. Hits without a price go last in both
// directions; other ties keep document order.
func sortByPrice(hits []Hit, order string) {
	if order != SortPriceAsc && order != SortPriceDesc {
		return
	}
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i].Price, hits[j].Price
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		if order == SortPriceAsc {
			return *a < *b
		}
		return *a > *b
	})
}

func clampLimit(n, def int) int {
	switch {
	case n <= 0:
		return def
	case n > MaxLimit:
		return MaxLimit
	}
	return n
}

func truncate(hits []Hit, n int) []Hit {
	if len(hits) > n {
		return hits[:n]
	}
	return hits
}

// Store holds the current catalog and lets a refresher swap it while
// readers keep serving.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore(c *Catalog) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

func (s *Store) Load() *Catalog {
	return s.current.Load()
}

func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}
