package model

// Marker is a presentation/business flag attached to a product line.
type Marker string

const (
	MarkerDiscussion        Marker = "discussion"
	MarkerImage             Marker = "image"
	MarkerHot               Marker = "hot"
	MarkerPriceChange       Marker = "price_change"
	MarkerHotAndPriceChange Marker = "hot_and_price_change"
	MarkerTimeLimited       Marker = "time_limited"
	MarkerPreOrder          Marker = "pre_order"
	MarkerCoolCoinDiscount  Marker = "cool_coin_discount"
)

// Product is one priced line of a category. Optional fields are nil when the
// corresponding pattern did not match the raw text.
type Product struct {
	Index            int      `json:"index"`
	Group            *string  `json:"group"`
	Brand            *string  `json:"brand"`
	Model            *string  `json:"model"`
	Specs            []string `json:"specs"`
	Price            *int     `json:"price"`
	OriginalPrice    *int     `json:"original_price"`
	DiscountAmount   *int     `json:"discount_amount"`
	CoolCoinDiscount *int     `json:"cool_coin_discount,omitempty"`
	Markers          []Marker `json:"markers"`
	RawText          string   `json:"raw_text"`
}

// HasMarker reports whether m is set on the product.
func (p Product) HasMarker(m Marker) bool {
	for _, x := range p.Markers {
		if x == m {
			return true
		}
	}
	return false
}

// StringOrEmpty dereferences an optional text field.
func StringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
