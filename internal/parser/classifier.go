package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Class is the outcome of classifying an entry's text.
type Class int

const (
	ClassProduct Class = iota
	ClassHeader
)

func (c Class) String() string {
	if c == ClassHeader {
		return "header"
	}
	return "product"
}

type classRule struct {
	name  string
	match func(text string) bool
	class Class
}

var (
	priceMarkRe = regexp.MustCompile(`\$\d[\d,]*`)

	headerIndicators = []string{"❤", "※", "↪", "推薦用於", "系列", "專區", "配件", "周邊"}
	unitTokens       = []string{"/", "G", "GB", "TB", "Hz", "W"}
	knownBrands      = []string{"ASUS", "MSI", "Intel", "AMD", "NVIDIA"}
)

const shortHeaderLimit = 50

// classificationRules are evaluated in order; the first match decides.
// A price must outrank the header glyphs: promotional headers sometimes
// carry both.
var classificationRules = []classRule{
	{name: "price", match: priceMarkRe.MatchString, class: ClassProduct},
	{name: "model-bracket", match: func(t string) bool {
		return strings.Contains(t, "【") && strings.Contains(t, "】")
	}, class: ClassProduct},
	{name: "header-indicator", match: func(t string) bool {
		return containsAny(t, headerIndicators)
	}, class: ClassHeader},
	{name: "short-title", match: func(t string) bool {
		return utf8.RuneCountInString(t) < shortHeaderLimit &&
			!containsAny(t, unitTokens) &&
			!containsAny(t, knownBrands)
	}, class: ClassHeader},
}

// Classify decides whether an entry is a header line or a product line.
func Classify(text string) Class {
	for _, r := range classificationRules {
		if r.match(text) {
			return r.class
		}
	}
	return ClassProduct
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
