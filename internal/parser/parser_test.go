package parser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolpc/internal/model"
)

func loadSample(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/evaluate_sample.html")
	require.NoError(t, err)
	return string(b)
}

func categoryByID(t *testing.T, categories []model.Category, id int) model.Category {
	t.Helper()
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("category %d not found", id)
	return model.Category{}
}

func TestParseSample(t *testing.T) {
	categories := Parse(loadSample(t))

	ids := make([]int, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	assert.Equal(t, []int{4, 6, 12, 99}, ids)

	t.Run("cpu category", func(t *testing.T) {
		cpu := categoryByID(t, categories, 4)

		assert.Equal(t, "處理器 CPU", cpu.Name)
		assert.Equal(t, model.Stats{TotalItems: 3, HotItems: 1, WithImages: 2, WithDiscussions: 1, PriceChanges: 1, TimeLimited: 1}, cpu.Stats)
		require.Len(t, cpu.Subcategories, 2)
		assert.Equal(t, "Intel Raptor Lake-s 14代1700 腳位", cpu.Subcategories[0].Name)
		assert.Equal(t, "AMD AM5", cpu.Subcategories[1].Name)
		assert.Equal(t, 3, cpu.ProductCount())

		intel := cpu.Subcategories[0].Products
		require.Len(t, intel, 2)

		i5 := intel[0]
		assert.Equal(t, 1, i5.Index)
		assert.Equal(t, "Intel", model.StringOrEmpty(i5.Brand))
		assert.Equal(t, "i5-14400F", model.StringOrEmpty(i5.Model))
		require.NotNil(t, i5.Price)
		assert.Equal(t, 4990, *i5.Price)
		assert.Equal(t, []model.Marker{model.MarkerDiscussion, model.MarkerImage, model.MarkerHot}, i5.Markers)
		assert.Equal(t, []string{"2.5GHz", "20M", "65W", "無內顯 代理盒裝"}, i5.Specs)
		assert.Nil(t, i5.Group)

		i7 := intel[1]
		require.NotNil(t, i7.Price)
		assert.Equal(t, 11990, *i7.Price)
		require.NotNil(t, i7.OriginalPrice)
		assert.Equal(t, 11990, *i7.OriginalPrice)
		require.NotNil(t, i7.DiscountAmount)
		assert.Equal(t, 1000, *i7.DiscountAmount)
		assert.Equal(t, []model.Marker{model.MarkerPriceChange}, i7.Markers)

		amd := cpu.Subcategories[1].Products
		require.Len(t, amd, 1, "supplement line must be skipped")
		assert.Equal(t, 4, amd[0].Index)
		assert.Equal(t, "AMD Ryzen 7000 系列", model.StringOrEmpty(amd[0].Group))
		assert.Equal(t, "AMD", model.StringOrEmpty(amd[0].Brand))
		assert.Equal(t, "R7 7800X3D", model.StringOrEmpty(amd[0].Model))
		assert.Equal(t, []string{}, amd[0].Specs)
	})

	t.Run("memory category", func(t *testing.T) {
		ram := categoryByID(t, categories, 6)

		assert.Equal(t, 2, ram.Stats.TotalItems)
		require.Len(t, ram.Subcategories, 1)
		assert.Equal(t, model.DefaultSubcategory, ram.Subcategories[0].Name)

		products := ram.Subcategories[0].Products
		require.Len(t, products, 2, "empty entry must be skipped")

		kingston := products[0]
		assert.Equal(t, "Kingston FURY & Beast DDR5 6000 32G(16G*2) $3,590", kingston.RawText)
		require.NotNil(t, kingston.Price)
		assert.Equal(t, 3590, *kingston.Price)
		assert.Equal(t, "Kingston", model.StringOrEmpty(kingston.Brand))
		assert.Nil(t, kingston.Model)
		assert.Equal(t, []model.Marker{}, kingston.Markers)

		adata := products[1]
		assert.Equal(t, 3, adata.Index)
		assert.Equal(t, "威剛 ADATA", model.StringOrEmpty(adata.Brand))
		assert.Equal(t, "XPG LANCER", model.StringOrEmpty(adata.Model))
		require.NotNil(t, adata.CoolCoinDiscount)
		assert.Equal(t, 100, *adata.CoolCoinDiscount)
		assert.Nil(t, adata.OriginalPrice)
		assert.Equal(t, []model.Marker{model.MarkerCoolCoinDiscount}, adata.Markers)
		assert.Equal(t, []string{"威剛 ADATA XPG LANCER 32GB(16G*2) DDR5-6000", "CL30"}, adata.Specs)
	})

	t.Run("graphics category is ranked", func(t *testing.T) {
		vga := categoryByID(t, categories, GraphicsCardCategory)

		require.Len(t, vga.Subcategories, 1)
		assert.Equal(t, "NVIDIA", vga.Subcategories[0].Name)

		products := vga.Subcategories[0].Products
		require.Len(t, products, 3)
		assert.Equal(t, []int{3, 2, 1}, []int{products[0].Index, products[1].Index, products[2].Index})
		assert.Equal(t, "技嘉 GIGABYTE", model.StringOrEmpty(products[0].Brand))
		assert.Equal(t, "RTX5090 GAMING OC", model.StringOrEmpty(products[0].Model))
		assert.Equal(t, "華碩 ASUS", model.StringOrEmpty(products[1].Brand))
		assert.Equal(t, "DUAL-RTX3060-O12G-V2", model.StringOrEmpty(products[1].Model))
	})

	t.Run("unknown category without summary", func(t *testing.T) {
		unknown := categoryByID(t, categories, 99)

		assert.Equal(t, "類別 99", unknown.Name)
		assert.Equal(t, "神秘商品【X-1000】 $100", unknown.Summary)
		assert.Equal(t, model.Stats{}, unknown.Stats)
		require.Len(t, unknown.Subcategories, 1)
		products := unknown.Subcategories[0].Products
		require.Len(t, products, 1)
		assert.Equal(t, 0, products[0].Index)
		assert.Nil(t, products[0].Brand)
		assert.Equal(t, "X-1000", model.StringOrEmpty(products[0].Model))
	})
}

func TestParseIsDeterministic(t *testing.T) {
	doc := loadSample(t)
	assert.Equal(t, Parse(doc), Parse(doc))
}

func TestParseEmptyDocument(t *testing.T) {
	categories := Parse("<html><body>沒有估價表</body></html>")
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestParserOptions(t *testing.T) {
	doc := loadSample(t)

	t.Run("ranking disabled", func(t *testing.T) {
		categories := New(WithRanker(GraphicsCardCategory, nil)).Parse(doc)

		products := categoryByID(t, categories, GraphicsCardCategory).Subcategories[0].Products
		assert.Equal(t, []int{1, 2, 3}, []int{products[0].Index, products[1].Index, products[2].Index})
	})

	t.Run("custom names", func(t *testing.T) {
		categories := New(WithCategoryNames(CategoryNames{99: "神秘"})).Parse(doc)

		assert.Equal(t, "神秘", categoryByID(t, categories, 99).Name)
		assert.Equal(t, "類別 4", categoryByID(t, categories, 4).Name)
	})
}

func TestParseContainerHeaderAfterLabel(t *testing.T) {
	body := `<OPTION value=0>共有商品 2 樣
<OPTION value=1>※ 主機板專區
<OPTION value=2>ASUS PRIME B760M-A D4 $3,290
<OPTGROUP LABEL="ATX">
<OPTION value=3>MSI PRO Z790-P WIFI $5,990`

	cat, ok := New().ParseContainer(Container{ID: 5, Body: body})

	require.True(t, ok)
	require.Len(t, cat.Subcategories, 2)
	assert.Equal(t, model.DefaultSubcategory, cat.Subcategories[0].Name)
	assert.Equal(t, "ATX", cat.Subcategories[1].Name)
	first := cat.Subcategories[0].Products[0]
	second := cat.Subcategories[1].Products[0]
	assert.Equal(t, "※ 主機板專區", model.StringOrEmpty(first.Group))
	assert.Equal(t, "※ 主機板專區", model.StringOrEmpty(second.Group), "group persists across labels")
}

func TestParseContainerEmptyEntryEndsGroup(t *testing.T) {
	body := `<OPTION value=0>共有商品 2 樣
<OPTION value=1>※ 主機板專區
<OPTION value=2>
<OPTION value=3>ASUS PRIME B760M-A D4 $3,290
<OPTION value=4>※ 主機板專區
<OPTION value=5>MSI PRO Z790-P WIFI $5,990`

	cat, ok := New().ParseContainer(Container{ID: 5, Body: body})

	require.True(t, ok)
	products := cat.Subcategories[0].Products
	require.Len(t, products, 2)
	assert.Nil(t, products[0].Group)
	assert.Equal(t, "※ 主機板專區", model.StringOrEmpty(products[1].Group))
}

func TestHierarchy(t *testing.T) {
	h := NewHierarchy()
	h.Add("B", model.Product{Index: 1})
	h.Add("", model.Product{Index: 2})
	h.Add("B", model.Product{Index: 3})

	subs := h.Subcategories(nil)

	require.Len(t, subs, 2)
	assert.Equal(t, "B", subs[0].Name)
	assert.Len(t, subs[0].Products, 2)
	assert.Equal(t, model.DefaultSubcategory, subs[1].Name)
	assert.Empty(t, NewHierarchy().Subcategories(nil))
}
