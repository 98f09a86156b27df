package parser

import "coolpc/internal/model"

// Hierarchy collects products into subcategories, keeping the order in
// which subcategory names were first seen.
type Hierarchy struct {
	names   []string
	buckets map[string][]model.Product
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{buckets: make(map[string][]model.Product)}
}

// Add appends p to the named subcategory, creating it on first use.
func (h *Hierarchy) Add(name string, p model.Product) {
	if name == "" {
		name = model.DefaultSubcategory
	}
	if _, ok := h.buckets[name]; !ok {
		h.names = append(h.names, name)
	}
	h.buckets[name] = append(h.buckets[name], p)
}

// Subcategories materializes the hierarchy, applying r to each bucket when
// it is not nil.
func (h *Hierarchy) Subcategories(r Ranker) []model.Subcategory {
	subs := make([]model.Subcategory, 0, len(h.names))
	for _, name := range h.names {
		products := h.buckets[name]
		if r != nil {
			products = r.Rank(products)
		}
		subs = append(subs, model.Subcategory{Name: name, Products: products})
	}
	return subs
}
