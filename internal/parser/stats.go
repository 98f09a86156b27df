package parser

import (
	"regexp"

	"coolpc/internal/model"
)

var (
	totalItemsRe   = regexp.MustCompile(`共有商品\s*(\d+)\s*樣`)
	hotItemsRe     = regexp.MustCompile(`熱賣\s*(\d+)`)
	withImagesRe   = regexp.MustCompile(`圖片\s*(\d+)`)
	discussionsRe  = regexp.MustCompile(`討論\s*(\d+)`)
	priceChangesRe = regexp.MustCompile(`價格異動\s*(\d+)`)
	timeLimitedRe  = regexp.MustCompile(`限時下殺▼(\d+)`)
)

// ParseStats reads the counters of a category summary line. Each counter is
// matched on its own and defaults to zero.
func ParseStats(summary string) model.Stats {
	return model.Stats{
		TotalItems:      counter(totalItemsRe, summary),
		HotItems:        counter(hotItemsRe, summary),
		WithImages:      counter(withImagesRe, summary),
		WithDiscussions: counter(discussionsRe, summary),
		PriceChanges:    counter(priceChangesRe, summary),
		TimeLimited:     counter(timeLimitedRe, summary),
	}
}

func counter(re *regexp.Regexp, s string) int {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := atoi(m[1])
	return n
}
