package parser

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"coolpc/internal/model"
)

var (
	priceRe       = regexp.MustCompile(`\$(\d[\d,]*)`)
	priceTailRe   = regexp.MustCompile(`(?s)\$[0-9,]+.*$`)
	symbolTailRe  = regexp.MustCompile(`(?s)[◆★↓→].*`)
	promoPrefixRe = regexp.MustCompile(`^\[[^\]]+\]\s*`)
	leadingWordRe = regexp.MustCompile(`^[A-Za-z]+\s*`)

	cjkLatinBrandRe = regexp.MustCompile(`^([\x{4e00}-\x{9fff}]+)\s+([A-Za-z]+)`)
	latinBrandRe    = regexp.MustCompile(`^([A-Za-z]+)`)

	// Patterns below are applied to the text following the brand token.
	cjkModelRe         = regexp.MustCompile(`^\s+([A-Za-z0-9\s\-]+?)(?:\s+\d+(?:GB|TB|G)|/)`)
	cpuModelRe         = regexp.MustCompile(`^\s+([A-Za-z0-9\-]+(?:\s+[A-Za-z0-9\-]+)*?)(?:\s*(?:代理盒裝|盒)|\s+MPK|【)`)
	cpuModelFallbackRe = regexp.MustCompile(`^\s+([A-Za-z0-9\-]+(?:\s+[A-Za-z0-9\-]+)*?)(?:\s*(?:代理盒裝|盒|含風扇)|\s+MPK|【)`)
	tokenModelRe       = regexp.MustCompile(`^\s+([A-Za-z0-9\-]+)\s+(?:\d+(?:GB|TB|G)|/)`)

	bracketRe    = regexp.MustCompile(`【([^】]+)】`)
	specAnchorRe = regexp.MustCompile(`】([^$]+)\$`)

	discountRe = regexp.MustCompile(`\$(\d[\d,]*)↘\$(\d[\d,]*)`)
	coolCoinRe = regexp.MustCompile(`酷幣(\d+)`)
)

var (
	cpuBrands = map[string]bool{"AMD": true, "Intel": true}

	// Bracket contents that describe warranty, cores, capacity, clocks,
	// wattage or process node rather than a model name.
	bracketNoise = []string{"年保", "保固", "核/", "緒", "GB", "TB", "MHz", "W/", "nm"}
)

// Discount is the single discount interpretation recognized for a line.
type Discount struct {
	Original int
	Current  int
	CoolCoin int
	IsCoin   bool
}

// Amount is Original-Current. It is negative when the source lists a price
// increase with the discount arrow; the value is kept as-is.
func (d Discount) Amount() int {
	return d.Original - d.Current
}

// ExtractProduct turns a product line into a record. It returns false for
// empty text.
func ExtractProduct(index int, text, cssClass string, group *string) (model.Product, bool) {
	if text == "" {
		return model.Product{}, false
	}
	p := model.Product{
		Index:   index,
		Group:   group,
		Specs:   ExtractSpecs(text),
		Markers: ExtractMarkers(text, cssClass),
		RawText: text,
	}
	if price, ok := ExtractPrice(text); ok {
		p.Price = &price
	}
	if brand, ok := ExtractBrandModel(text); ok {
		p.Brand = brand.Brand
		p.Model = brand.Model
	}
	if d, ok := ExtractDiscount(text); ok {
		if d.IsCoin {
			p.CoolCoinDiscount = intPtr(d.CoolCoin)
		} else {
			p.OriginalPrice = intPtr(d.Original)
			p.DiscountAmount = intPtr(d.Amount())
		}
	}
	return p, true
}

// ExtractPrice returns the first "$n,nnn" amount.
func ExtractPrice(text string) (int, bool) {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseAmount(m[1])
}

// BrandModel is the brand and model pair found in a product line.
type BrandModel struct {
	Brand *string
	Model *string
}

type modelStrategy func(brand, clean string) (string, bool)

// ExtractBrandModel reports false when neither brand nor model was found.
func ExtractBrandModel(text string) (BrandModel, bool) {
	clean := brandText(text)

	if m := cjkLatinBrandRe.FindStringSubmatch(clean); m != nil {
		brand := m[1] + " " + m[2]
		out := BrandModel{Brand: &brand}
		if mm := cjkModelRe.FindStringSubmatch(clean[len(m[0]):]); mm != nil {
			model := strings.TrimSpace(mm[1])
			out.Model = &model
		}
		return out, true
	}

	var (
		out        BrandModel
		brand      string
		strategies []modelStrategy
	)
	if m := latinBrandRe.FindStringSubmatch(clean); m != nil {
		brand = m[1]
		out.Brand = &brand
		if cpuBrands[brand] {
			strategies = append(strategies, afterBrand(cpuModelRe), afterBrand(cpuModelFallbackRe))
		} else {
			strategies = append(strategies, afterBrand(tokenModelRe))
		}
	}
	strategies = append(strategies, bracketModel)

	for _, s := range strategies {
		if model, ok := s(brand, clean); ok {
			out.Model = &model
			break
		}
	}
	return out, out.Brand != nil || out.Model != nil
}

func afterBrand(re *regexp.Regexp) modelStrategy {
	return func(brand, clean string) (string, bool) {
		m := re.FindStringSubmatch(clean[len(brand):])
		if m == nil {
			return "", false
		}
		model := strings.TrimSpace(m[1])
		return model, model != ""
	}
}

func bracketModel(_, clean string) (string, bool) {
	for _, m := range bracketRe.FindAllStringSubmatch(clean, -1) {
		if containsAny(m[1], bracketNoise) {
			continue
		}
		return m[1], true
	}
	return "", false
}

// brandText drops the price tail, symbol tail and a leading [promo] tag.
func brandText(text string) string {
	s := priceTailRe.ReplaceAllString(text, "")
	s = symbolTailRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = promoPrefixRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractSpecs splits the specification run of a product line on "/".
func ExtractSpecs(text string) []string {
	if m := specAnchorRe.FindStringSubmatch(text); m != nil {
		return splitSpecs(m[1])
	}
	s := leadingWordRe.ReplaceAllString(text, "")
	s = priceTailRe.ReplaceAllString(s, "")
	s = symbolTailRe.ReplaceAllString(s, "")
	if strings.Contains(s, "/") {
		return splitSpecs(s)
	}
	return []string{}
}

func splitSpecs(s string) []string {
	specs := []string{}
	for _, part := range strings.Split(s, "/") {
		if part = strings.TrimSpace(part); part != "" {
			specs = append(specs, part)
		}
	}
	return specs
}

type markerRule struct {
	marker model.Marker
	match  func(text, class string) bool
}

func textHas(subs ...string) func(text, class string) bool {
	return func(text, _ string) bool { return containsAny(text, subs) }
}

func classHas(fragment string, subs ...string) func(text, class string) bool {
	return func(text, class string) bool {
		return strings.Contains(class, fragment) || containsAny(text, subs)
	}
}

var markerRules = []markerRule{
	{model.MarkerDiscussion, textHas("◆")},
	{model.MarkerImage, textHas("★")},
	{model.MarkerHot, classHas("r", "熱賣")},
	{model.MarkerPriceChange, classHas("g", "價格異動", "↘")},
	{model.MarkerHotAndPriceChange, classHas("b")},
	{model.MarkerTimeLimited, textHas("限時", "下殺")},
	{model.MarkerPreOrder, textHas("【訂】")},
	{model.MarkerCoolCoinDiscount, textHas("酷幣")},
}

// ExtractMarkers returns the presence-based markers in a fixed order.
func ExtractMarkers(text, cssClass string) []model.Marker {
	markers := []model.Marker{}
	for _, r := range markerRules {
		if r.match(text, cssClass) {
			markers = append(markers, r.marker)
		}
	}
	return markers
}

// ExtractDiscount recognizes "$a↘$b" first, then a cool-coin amount.
func ExtractDiscount(text string) (Discount, bool) {
	if m := discountRe.FindStringSubmatch(text); m != nil {
		orig, ok1 := parseAmount(m[1])
		cur, ok2 := parseAmount(m[2])
		if ok1 && ok2 {
			return Discount{Original: orig, Current: cur}, true
		}
	}
	if m := coolCoinRe.FindStringSubmatch(text); m != nil {
		if n, ok := atoi(m[1]); ok {
			return Discount{CoolCoin: n, IsCoin: true}, true
		}
	}
	return Discount{}, false
}

// parseAmount saturates at math.MaxInt so that any "$<digits>" the
// classifier accepts as a price also yields one.
func parseAmount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if errors.Is(err, strconv.ErrRange) {
		return math.MaxInt, true
	}
	return n, err == nil
}

func intPtr(n int) *int {
	return &n
}
