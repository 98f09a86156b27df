package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coolpc/internal/model"
)

func TestParseStats(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    model.Stats
	}{
		{
			name:    "all counters",
			summary: "顯示卡 共有商品 128 樣，熱賣 12，圖片 100，討論 30，價格異動 7，限時下殺▼3",
			want:    model.Stats{TotalItems: 128, HotItems: 12, WithImages: 100, WithDiscussions: 30, PriceChanges: 7, TimeLimited: 3},
		},
		{
			name:    "total only",
			summary: "共有商品 128 樣",
			want:    model.Stats{TotalItems: 128},
		},
		{
			name:    "counters are independent",
			summary: "熱賣5 討論 2",
			want:    model.Stats{HotItems: 5, WithDiscussions: 2},
		},
		{
			name:    "empty",
			summary: "",
			want:    model.Stats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStats(tt.summary))
		})
	}
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "顯示卡VGA", DefaultCategoryNames.Name(GraphicsCardCategory))
	assert.Equal(t, "處理器 CPU", DefaultCategoryNames.Name(4))
	assert.Equal(t, "類別 99", DefaultCategoryNames.Name(99))

	custom := CategoryNames{1: "one"}
	assert.Equal(t, "one", custom.Name(1))
	assert.Equal(t, "類別 4", custom.Name(4))
}
