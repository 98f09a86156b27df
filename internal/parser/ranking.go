package parser

import (
	"sort"
	"strings"

	"coolpc/internal/model"
)

// Ranker reorders the products of one subcategory.
type Ranker interface {
	Rank(products []model.Product) []model.Product
}

// Tier is a bonus applied when a flagship model number appears.
type Tier struct {
	Keywords []string
	Bonus    int
}

// Family is a chipset generation. Only the first matching family counts,
// and within it only the first matching tier.
type Family struct {
	Name     string
	Keywords []string
	Score    int
	Tiers    []Tier
}

// Adjustment adds Score (usually negative) when any keyword appears.
type Adjustment struct {
	Name     string
	Keywords []string
	Score    int
}

// ScoreTable scores graphics-card lines. New chipset generations are added
// by publishing a new table version rather than editing the ranker.
type ScoreTable struct {
	Version       string
	Families      []Family
	Adjustments   []Adjustment
	MarkerBonuses map[model.Marker]int
}

// DefaultVGAScoreTable covers RTX 30 to RTX 50, RX 7000/9000 and Arc.
var DefaultVGAScoreTable = ScoreTable{
	Version: "2025.06",
	Families: []Family{
		{Name: "RTX 50", Keywords: []string{"RTX 50", "RTX5"}, Score: 1000, Tiers: []Tier{
			{Keywords: []string{"RTX 5090", "RTX5090"}, Bonus: 900},
			{Keywords: []string{"RTX 5080", "RTX5080"}, Bonus: 800},
			{Keywords: []string{"RTX 5070", "RTX5070"}, Bonus: 700},
			{Keywords: []string{"RTX 5060", "RTX5060"}, Bonus: 600},
		}},
		{Name: "RTX 40", Keywords: []string{"RTX 40", "RTX4"}, Score: 800, Tiers: []Tier{
			{Keywords: []string{"RTX 4090", "RTX4090"}, Bonus: 900},
			{Keywords: []string{"RTX 4080", "RTX4080"}, Bonus: 800},
			{Keywords: []string{"RTX 4070", "RTX4070"}, Bonus: 700},
			{Keywords: []string{"RTX 4060", "RTX4060"}, Bonus: 600},
		}},
		{Name: "RX 7000", Keywords: []string{"RX 7"}, Score: 700, Tiers: []Tier{
			{Keywords: []string{"RX 7900"}, Bonus: 900},
			{Keywords: []string{"RX 7800"}, Bonus: 800},
			{Keywords: []string{"RX 7700"}, Bonus: 700},
			{Keywords: []string{"RX 7600"}, Bonus: 600},
		}},
		{Name: "RX 9000", Keywords: []string{"RX 9"}, Score: 900, Tiers: []Tier{
			{Keywords: []string{"RX 9070"}, Bonus: 800},
			{Keywords: []string{"RX 9060"}, Bonus: 700},
		}},
		{Name: "RTX 30", Keywords: []string{"RTX 30", "RTX3"}, Score: 500, Tiers: []Tier{
			{Keywords: []string{"RTX 3090", "RTX3090"}, Bonus: 400},
			{Keywords: []string{"RTX 3080", "RTX3080"}, Bonus: 300},
			{Keywords: []string{"RTX 3070", "RTX3070"}, Bonus: 200},
			{Keywords: []string{"RTX 3060", "RTX3060"}, Bonus: 100},
		}},
		{Name: "Arc", Keywords: []string{"ARC"}, Score: 400, Tiers: []Tier{
			{Keywords: []string{"B580"}, Bonus: 100},
			{Keywords: []string{"B570"}, Bonus: 80},
			{Keywords: []string{"A770"}, Bonus: 60},
		}},
	},
	Adjustments: []Adjustment{
		{Name: "accessory", Keywords: []string{"支撐架", "支架", "HOLDER", "SUPPORT"}, Score: -2000},
		{Name: "legacy", Keywords: []string{"GT710", "GT730", "GT1030"}, Score: -1000},
	},
	MarkerBonuses: map[model.Marker]int{
		model.MarkerHot:         50,
		model.MarkerPriceChange: 30,
	},
}

// Score computes the priority of one product line.
func (t ScoreTable) Score(p model.Product) int {
	text := strings.ToUpper(p.RawText)
	score := 0
	for _, f := range t.Families {
		if !containsAny(text, f.Keywords) {
			continue
		}
		score += f.Score
		for _, tier := range f.Tiers {
			if containsAny(text, tier.Keywords) {
				score += tier.Bonus
				break
			}
		}
		break
	}
	for _, adj := range t.Adjustments {
		if containsAny(text, adj.Keywords) {
			score += adj.Score
		}
	}
	for _, m := range p.Markers {
		score += t.MarkerBonuses[m]
	}
	return score
}

// Rank sorts by descending score; equal scores keep their scan order.
func (t ScoreTable) Rank(products []model.Product) []model.Product {
	scores := make([]int, len(products))
	order := make([]int, len(products))
	for i, p := range products {
		scores[i] = t.Score(p)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	ranked := make([]model.Product, len(products))
	for i, idx := range order {
		ranked[i] = products[idx]
	}
	return ranked
}
