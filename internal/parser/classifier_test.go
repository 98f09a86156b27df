package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Class
	}{
		{"price wins over header glyph", "❤ 限時特價組合 $1,990", ClassProduct},
		{"model bracket", "華碩 PRIME 主機板【B760M-A】", ClassProduct},
		{"series header", "AMD Ryzen 7000 系列", ClassHeader},
		{"heart header", "❤ 本月推薦 ❤", ClassHeader},
		{"recommended for", "推薦用於 1440p 遊戲的顯示卡，附贈電競滑鼠墊及延長保固服務，詳情請洽門市人員說明", ClassHeader},
		{"short title", "電競周邊特賣", ClassHeader},
		{"short with unit token", "DDR5 32G 套裝", ClassProduct},
		{"short with brand", "MSI 主機板", ClassProduct},
		{"long text", "這是一段很長的商品描述文字沒有價格也沒有任何型號括號但是長度已經超過五十個字元所以會被當作商品處理的例子喔喔喔", ClassProduct},
		{"empty", "", ClassHeader},
		{"dollar without digits", "$ 待詢", ClassHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyAgreesWithPrice(t *testing.T) {
	texts := []string{
		"Intel i5-14400F【10核/16緒】$4,990",
		"※ 特價 $100 限量",
		"威剛 ADATA XPG 32GB",
		"↪ 加購 $500",
		"AMD Ryzen 9000 系列",
		"RTX 顯示卡 $99999999999999999999999",
		"RTX 3060 12GB $1,000,000,000,000,000,000,000",
	}
	for _, text := range texts {
		if Classify(text) != ClassProduct {
			continue
		}
		_, hasPrice := ExtractPrice(text)
		assert.Equal(t, priceMarkRe.MatchString(text), hasPrice, text)
	}
}
