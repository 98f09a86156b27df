package parser

import (
	"strconv"
	"strings"

	"coolpc/internal/model"
)

const (
	summaryMarker    = "共有商品"
	summaryValue     = "0"
	supplementMarker = "↪"
)

// Parser turns a quote page into category records.
type Parser struct {
	names   CategoryNames
	rankers map[int]Ranker
}

type Option func(*Parser)

// WithCategoryNames replaces the id→name table.
func WithCategoryNames(names CategoryNames) Option {
	return func(p *Parser) { p.names = names }
}

// WithRanker reorders every subcategory of category id with r. A nil r
// disables reordering for that category.
func WithRanker(id int, r Ranker) Option {
	return func(p *Parser) {
		if r == nil {
			delete(p.rankers, id)
			return
		}
		p.rankers[id] = r
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		names:   DefaultCategoryNames,
		rankers: map[int]Ranker{GraphicsCardCategory: DefaultVGAScoreTable},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts every non-empty category of doc, in document order.
func Parse(doc string) []model.Category {
	return New().Parse(doc)
}

func (p *Parser) Parse(doc string) []model.Category {
	categories := []model.Category{}
	for _, c := range Containers(doc) {
		if cat, ok := p.ParseContainer(c); ok {
			categories = append(categories, cat)
		}
	}
	return categories
}

// ParseContainer builds the category record of one container. It returns
// false when the container holds no entries.
func (p *Parser) ParseContainer(c Container) (model.Category, bool) {
	entries := Entries(c.Body)
	if len(entries) == 0 {
		return model.Category{}, false
	}

	summary := entries[0].Content
	h := NewHierarchy()
	var group *string

	for i, e := range entries {
		text := e.Content
		if i == 0 && (strings.Contains(text, summaryMarker) || e.Value == summaryValue) {
			continue
		}
		if e.Supplement && strings.Contains(text, supplementMarker) {
			continue
		}
		// An empty entry is a blank separator: it yields no product and
		// ends the current group.
		if text == "" {
			group = nil
			continue
		}
		if Classify(text) == ClassHeader {
			g := text
			group = &g
			continue
		}
		product, ok := ExtractProduct(i, text, e.Class, group)
		if !ok {
			continue
		}
		label := ""
		if e.HasLabel {
			label = e.Label
		}
		h.Add(label, product)
	}

	return model.Category{
		ID:            c.ID,
		Name:          p.names.Name(c.ID),
		Summary:       summary,
		Stats:         ParseStats(summary),
		Subcategories: h.Subcategories(p.rankers[c.ID]),
	}, true
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
