package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"coolpc/internal/model"
)

// GPUQuery filters the graphics-card category.
type GPUQuery struct {
	Chipset  string
	MemoryGB int
	Sort     string
	Limit    int
}

// CPUQuery filters the processor category.
type CPUQuery struct {
	Socket string
	Cores  int
	Sort   string
	Limit  int
}

// RAMQuery filters the memory category.
type RAMQuery struct {
	Type         string
	CapacityGB   int
	FrequencyMHz int
	Sort         string
	Limit        int
}

// SSDQuery filters the solid-state drive category. CapacityGB of 1000 or
// more also matches the TB form ("2000" matches "2TB").
type SSDQuery struct {
	Interface  string
	CapacityGB int
	Sort       string
	Limit      int
}

// MotherboardQuery filters the motherboard category.
type MotherboardQuery struct {
	Socket     string
	Chipset    string
	FormFactor string
	Sort       string
	Limit      int
}

// CaseQuery filters the case category. A nil HasPSU matches both.
type CaseQuery struct {
	FormFactor string
	SidePanel  string
	HasPSU     *bool
	Brand      string
	MinPrice   int
	MaxPrice   int
	Sort       string
	Limit      int
}

// Side panel styles accepted by CaseQuery.SidePanel.
const (
	PanelPanoramic  = "全景玻璃"
	PanelGlassSide  = "玻璃透側"
	PanelPerforated = "玻璃開孔面板"
	PanelDualGlass  = "雙玻璃透側"
	PanelMesh       = "四面金屬網孔"
)

var (
	gpuCategoryNames   = []string{"顯示卡", "VGA"}
	cpuCategoryNames   = []string{"CPU", "處理器"}
	ramCategoryNames   = []string{"記憶體", "RAM"}
	ssdCategoryNames   = []string{"SSD", "固態硬碟"}
	boardCategoryNames = []string{"主機板", "MB"}
	caseCategoryNames  = []string{"機殼", "CASE"}

	formFactorPatterns = map[string]*regexp.Regexp{
		"E-ATX": regexp.MustCompile(`\bE-?ATX\b`),
		"ATX":   regexp.MustCompile(`\bATX\b`),
		"MATX":  regexp.MustCompile(`\b(?:M-?ATX|MICRO\s*ATX)\b`),
		"ITX":   regexp.MustCompile(`\b(?:MINI-?ITX|ITX)\b`),
	}

	sidePanelKeywords = map[string][]string{
		PanelPanoramic:  {"全景玻璃", "全景側透", "全景"},
		PanelGlassSide:  {"玻璃透側"},
		PanelPerforated: {"玻璃開孔", "開孔面板"},
		PanelDualGlass:  {"雙玻璃", "雙面玻璃", "雙側玻璃", "雙面版"},
		PanelMesh:       {"四面網孔", "四面金屬網孔"},
	}

	wattageRe = regexp.MustCompile(`\d{3,4}\s*W`)
)

// SearchGPU matches the chipset against subcategory, specs, model and raw
// text, and the memory size as "<n>G" or "<n>GB".
func (c *Catalog) SearchGPU(q GPUQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(gpuCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	chipset := strings.ToLower(q.Chipset)
	var memRe *regexp.Regexp
	if q.MemoryGB > 0 {
		memRe = regexp.MustCompile(`(?i)(?:^|[^0-9])` + strconv.Itoa(q.MemoryGB) + `GB?`)
	}

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			modelName := ""
			if p.Model != nil {
				modelName = *p.Model
			}
			if chipset != "" && !containsFold(chipset, sub.Name, specs, modelName, p.RawText) {
				continue
			}
			if memRe != nil && !matchAny(memRe, specs, p.RawText, modelName) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// SearchCPU matches the socket against subcategory, specs and raw text, and
// the core count as "<n>核".
func (c *Catalog) SearchCPU(q CPUQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(cpuCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	socket := strings.ToLower(q.Socket)
	var coreRe *regexp.Regexp
	if q.Cores > 0 {
		coreRe = regexp.MustCompile(`(?:^|[^0-9])` + strconv.Itoa(q.Cores) + `核`)
	}

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			if socket != "" && !containsFold(socket, sub.Name, specs, p.RawText) {
				continue
			}
			if coreRe != nil && !matchAny(coreRe, specs, p.RawText, sub.Name) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// SearchRAM matches the type (DDR4, DDR5) against subcategory, specs and raw
// text, the capacity as "<n>GB" and the frequency as a whole number with an
// optional "MHz".
func (c *Catalog) SearchRAM(q RAMQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(ramCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	memType := strings.ToLower(q.Type)
	capRe := sizePattern(q.CapacityGB, "GB")
	var freqRe *regexp.Regexp
	if q.FrequencyMHz > 0 {
		freqRe = regexp.MustCompile(`(?:^|[^0-9])` + strconv.Itoa(q.FrequencyMHz) + `(?:[^0-9]|$)`)
	}

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			modelName := model.StringOrEmpty(p.Model)
			if memType != "" && !containsFold(memType, sub.Name, specs, p.RawText) {
				continue
			}
			if capRe != nil && !matchAny(capRe, specs, p.RawText, modelName) {
				continue
			}
			if freqRe != nil && !matchAny(freqRe, specs, p.RawText) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// SearchSSD matches the interface (M.2, NVMe, SATA, PCIe) against
// subcategory, specs and raw text, and the capacity in GB or TB.
func (c *Catalog) SearchSSD(q SSDQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(ssdCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	iface := strings.ToLower(q.Interface)
	capRes := []*regexp.Regexp{}
	if re := sizePattern(q.CapacityGB, "GB"); re != nil {
		capRes = append(capRes, re)
	}
	if q.CapacityGB >= 1000 {
		tb := strconv.FormatFloat(float64(q.CapacityGB)/1000, 'f', -1, 64)
		capRes = append(capRes, regexp.MustCompile(`(?i)(?:^|[^0-9.])`+regexp.QuoteMeta(tb)+`TB`))
	}

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			modelName := model.StringOrEmpty(p.Model)
			if iface != "" && !containsFold(iface, sub.Name, specs, p.RawText) {
				continue
			}
			if len(capRes) > 0 && !matchAnyPattern(capRes, specs, p.RawText, modelName) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// SearchMotherboard matches the socket against subcategory, specs and raw
// text, the chipset against specs, model and raw text, and the form factor
// against specs and raw text.
func (c *Catalog) SearchMotherboard(q MotherboardQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(boardCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	socket := strings.ToLower(q.Socket)
	chipset := strings.ToLower(q.Chipset)

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			if socket != "" && !containsFold(socket, sub.Name, specs, p.RawText) {
				continue
			}
			if chipset != "" && !containsFold(chipset, specs, model.StringOrEmpty(p.Model), p.RawText) {
				continue
			}
			if q.FormFactor != "" && !MatchFormFactor(specs+" "+p.RawText, q.FormFactor) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// SearchCase filters cases. The form factor is read from specs only, the
// side panel from brand, model and specs, and a bundled PSU is recognized by
// a wattage in the specs.
func (c *Catalog) SearchCase(q CaseQuery) ([]Hit, error) {
	cat, ok := c.categoryNamed(caseCategoryNames...)
	if !ok {
		return nil, ErrNotFound
	}
	brand := strings.ToLower(q.Brand)

	out := []Hit{}
	for _, sub := range cat.Subcategories {
		for _, p := range sub.Products {
			specs := strings.Join(p.Specs, " ")
			if q.FormFactor != "" && (len(p.Specs) == 0 || !MatchFormFactor(specs, q.FormFactor)) {
				continue
			}
			if q.SidePanel != "" && !matchSidePanel(p, q.SidePanel) {
				continue
			}
			if q.HasPSU != nil && wattageRe.MatchString(specs) != *q.HasPSU {
				continue
			}
			if brand != "" && !containsFold(brand, model.StringOrEmpty(p.Brand)) {
				continue
			}
			if !inPriceRange(p, q.MinPrice, q.MaxPrice) {
				continue
			}
			out = append(out, hit(cat, sub, p))
		}
	}
	sortByPrice(out, q.Sort)
	return truncate(out, clampLimit(q.Limit, DefaultLimit)), nil
}

// MatchFormFactor reports whether text names the board size target (E-ATX,
// ATX, mATX, ITX; case-insensitive). Plain ATX does not match text that
// also names E-ATX or mATX.
func MatchFormFactor(text, target string) bool {
	upper := strings.ToUpper(text)
	key := strings.ToUpper(target)
	re, ok := formFactorPatterns[key]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
	}
	if key == "ATX" {
		return re.MatchString(upper) &&
			!formFactorPatterns["E-ATX"].MatchString(upper) &&
			!formFactorPatterns["MATX"].MatchString(upper)
	}
	return re.MatchString(upper)
}

func matchSidePanel(p model.Product, panel string) bool {
	text := strings.Join(append([]string{model.StringOrEmpty(p.Brand), model.StringOrEmpty(p.Model)}, p.Specs...), " ")
	return containsAny(text, sidePanelKeywords[panel])
}

// sizePattern matches "<n><unit>" where n is not the tail of a longer number.
func sizePattern(n int, unit string) *regexp.Regexp {
	if n <= 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:^|[^0-9])` + strconv.Itoa(n) + unit)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func matchAnyPattern(res []*regexp.Regexp, texts ...string) bool {
	for _, re := range res {
		if matchAny(re, texts...) {
			return true
		}
	}
	return false
}

func containsFold(needle string, haystacks ...string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func matchAny(re *regexp.Regexp, texts ...string) bool {
	for _, t := range texts {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}
