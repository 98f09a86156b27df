package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coolpc/internal/model"
)

func line(text string, markers ...model.Marker) model.Product {
	if markers == nil {
		markers = []model.Marker{}
	}
	return model.Product{RawText: text, Markers: markers}
}

func rawTexts(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.RawText
	}
	return out
}

func TestScoreTableScore(t *testing.T) {
	table := DefaultVGAScoreTable
	tests := []struct {
		name string
		p    model.Product
		want int
	}{
		{"rtx 5090", line("技嘉 RTX 5090 GAMING $99,990"), 1900},
		{"rtx 5060 compact", line("rtx5060 8G $9,990"), 1600},
		{"rtx 4070", line("微星 RTX 4070 SUPER $19,990"), 1500},
		{"rx 7900", line("撼訊 RX 7900 XTX $29,990"), 1600},
		{"rx 9070", line("RX 9070 XT $21,990"), 1700},
		{"rtx 3060", line("RTX 3060 12G $8,990"), 600},
		{"arc b580", line("Intel Arc B580 $7,990"), 500},
		{"family without tier", line("RTX 3050 6G $5,990"), 500},
		{"accessory penalty", line("顯卡支撐架 $290"), -2000},
		{"legacy penalty", line("GT730 2G $1,990"), -1000},
		{"marker bonuses", line("RTX 3060 $8,990", model.MarkerHot, model.MarkerPriceChange), 680},
		{"unknown", line("某顯示卡 $1,000"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Score(tt.p))
		})
	}
}

func TestScoreTableRank(t *testing.T) {
	t.Run("newer chipset first regardless of scan order", func(t *testing.T) {
		products := []model.Product{line("ASUS RTX 3060 12G $8,990"), line("ASUS RTX 5090 32G $99,990")}

		ranked := DefaultVGAScoreTable.Rank(products)

		assert.Equal(t, []string{"ASUS RTX 5090 32G $99,990", "ASUS RTX 3060 12G $8,990"}, rawTexts(ranked))
	})

	t.Run("ties keep scan order", func(t *testing.T) {
		products := []model.Product{line("A 卡 $1"), line("RTX 4060 $2"), line("B 卡 $3"), line("C 支架 $4"), line("D 卡 $5")}

		ranked := DefaultVGAScoreTable.Rank(products)

		assert.Equal(t, []string{"RTX 4060 $2", "A 卡 $1", "B 卡 $3", "D 卡 $5", "C 支架 $4"}, rawTexts(ranked))
	})

	t.Run("replaceable table", func(t *testing.T) {
		table := ScoreTable{
			Version:  "test",
			Families: []Family{{Name: "RTX 60", Keywords: []string{"RTX 60"}, Score: 5000}},
		}
		products := []model.Product{line("RTX 5090"), line("RTX 6090")}

		assert.Equal(t, []string{"RTX 6090", "RTX 5090"}, rawTexts(table.Rank(products)))
	})
}
