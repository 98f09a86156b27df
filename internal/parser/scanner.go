package parser

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TokenKind identifies a markup boundary found by the Scanner.
type TokenKind int

const (
	TokenEntryOpen TokenKind = iota
	TokenGroupLabel
	TokenGroupClose
	TokenEntryClose
	TokenContainerClose
)

// Token is one markup boundary inside a container body. Start and End are
// byte offsets of the marker itself.
type Token struct {
	Kind     TokenKind
	Start    int
	End      int
	Attrs    string
	Label    string
	HasLabel bool
}

// Container is the body of one <SELECT name=nX> element.
type Container struct {
	ID   int
	Body string
}

// Entry is one <OPTION> with its positional context.
type Entry struct {
	Attrs      string
	Value      string
	Class      string
	Disabled   bool
	Supplement bool
	Content    string
	// Label is the text of the nearest preceding labeled <OPTGROUP>.
	Label    string
	HasLabel bool
}

var (
	containerRe = regexp.MustCompile(`(?is)<SELECT[^>]*name=["']?n(\d+)[^>]*>(.*?)</SELECT>`)
	tokenRe     = regexp.MustCompile(`(?i)<OPTION([^>]*?)>|<OPTGROUP([^>]*)>|</OPTGROUP|</OPTION|</SELECT`)
	labelRe     = regexp.MustCompile(`(?i)\bLABEL=(?:"([^"]*)"|'([^']*)'|([^\s>]*))`)
	valueRe     = regexp.MustCompile(`(?i)\bvalue=(?:"([^"]*)"|'([^']*)'|([^\s>]*))`)
	classRe     = regexp.MustCompile(`(?i)\bclass=(?:"([^"]*)"|'([^']*)'|([^\s>]*))`)
	styleRe     = regexp.MustCompile(`(?i)\bstyle=(?:"([^"]*)"|'([^']*)')`)
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

const supplementStyle = "font-size:9pt;color:#222;background-color:transparent"

// Containers returns every category container of the document in order.
// Containers whose id does not fit an int are skipped.
func Containers(doc string) []Container {
	var out []Container
	for _, m := range containerRe.FindAllStringSubmatch(doc, -1) {
		id, ok := atoi(m[1])
		if !ok {
			continue
		}
		out = append(out, Container{ID: id, Body: m[2]})
	}
	return out
}

// Scanner is a cursor over a container body yielding markup boundaries.
type Scanner struct {
	text string
	locs [][]int
	pos  int
}

func NewScanner(body string) *Scanner {
	return &Scanner{text: body, locs: tokenRe.FindAllStringSubmatchIndex(body, -1)}
}

// Next returns the next token, or false once the body is exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.locs) {
		return Token{}, false
	}
	loc := s.locs[s.pos]
	s.pos++

	tok := Token{Start: loc[0], End: loc[1]}
	marker := strings.ToUpper(s.text[loc[0]:min(loc[1], loc[0]+9)])
	switch {
	case loc[2] >= 0:
		tok.Kind = TokenEntryOpen
		tok.Attrs = s.text[loc[2]:loc[3]]
	case loc[4] >= 0:
		tok.Kind = TokenGroupLabel
		tok.Attrs = s.text[loc[4]:loc[5]]
		tok.Label, tok.HasLabel = attr(labelRe, tok.Attrs)
		if tok.HasLabel {
			tok.Label = html.UnescapeString(tok.Label)
		}
	case strings.HasPrefix(marker, "</OPTG"):
		tok.Kind = TokenGroupClose
	case strings.HasPrefix(marker, "</OPTI"):
		tok.Kind = TokenEntryClose
	default:
		tok.Kind = TokenContainerClose
	}
	return tok, true
}

// Entries scans a container body. The content of an entry runs up to the
// next boundary of any kind, so a missing </OPTION> is harmless.
func Entries(body string) []Entry {
	var (
		tokens  []Token
		entries []Entry
	)
	sc := NewScanner(body)
	for tok, ok := sc.Next(); ok; tok, ok = sc.Next() {
		tokens = append(tokens, tok)
	}

	var label string
	var hasLabel bool
	for i, tok := range tokens {
		switch tok.Kind {
		case TokenGroupLabel:
			if tok.HasLabel {
				label, hasLabel = tok.Label, true
			}
		case TokenEntryOpen:
			end := len(body)
			if i+1 < len(tokens) {
				end = tokens[i+1].Start
			}
			entries = append(entries, newEntry(tok.Attrs, body[tok.End:end], label, hasLabel))
		}
	}
	return entries
}

func newEntry(attrs, raw, label string, hasLabel bool) Entry {
	e := Entry{
		Attrs:    attrs,
		Content:  cleanContent(raw),
		Label:    label,
		HasLabel: hasLabel,
		Disabled: strings.Contains(strings.ToLower(attrs), "disabled"),
	}
	e.Value, _ = attr(valueRe, attrs)
	e.Class, _ = attr(classRe, attrs)
	if style, ok := attr(styleRe, attrs); ok {
		e.Supplement = strings.ToLower(spaceRe.ReplaceAllString(style, "")) == supplementStyle
	}
	return e
}

// attr returns the first quoted or unquoted value captured by re.
func attr(re *regexp.Regexp, attrs string) (string, bool) {
	m := re.FindStringSubmatch(attrs)
	if m == nil {
		return "", false
	}
	for _, v := range m[1:] {
		if v != "" {
			return v, true
		}
	}
	return "", true
}

// cleanContent strips nested markup and decodes entities.
func cleanContent(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(html.UnescapeString(s))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(s, "")))
	}
	return strings.TrimSpace(doc.Text())
}
