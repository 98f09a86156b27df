package export

import (
	"bufio"
	"fmt"
	"io"

	"coolpc/internal/model"
)

// WriteSummary prints category and product totals followed by a per-category
// breakdown.
func WriteSummary(w io.Writer, categories []model.Category) error {
	total := 0
	for _, c := range categories {
		total += c.ProductCount()
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "\n=== 解析摘要 ===\n")
	fmt.Fprintf(bw, "類別總數: %d\n", len(categories))
	fmt.Fprintf(bw, "商品總數: %d\n", total)
	fmt.Fprintf(bw, "\n各類別商品數量:\n")

	for _, c := range categories {
		fmt.Fprintf(bw, "  %s: %d 項商品\n", c.Name, c.ProductCount())
		for _, sub := range c.Subcategories {
			fmt.Fprintf(bw, "    └─ %s: %d 項商品\n", sub.Name, len(sub.Products))
		}
		fmt.Fprintf(bw, "    統計數據:\n")
		fmt.Fprintf(bw, "      - 熱賣: %d\n", c.Stats.HotItems)
		fmt.Fprintf(bw, "      - 價格異動: %d\n", c.Stats.PriceChanges)
		fmt.Fprintf(bw, "      - 限時下殺: %d\n", c.Stats.TimeLimited)
	}
	return bw.Flush()
}
