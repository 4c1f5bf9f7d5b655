package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Element is one start tag in the page together with the position of its
// matching end tag.
type Element struct {
	Tag   string
	Attrs []html.Attribute

	// Start and End delimit the start tag token.
	Start, End int
	// CloseStart and CloseEnd delimit the explicit end tag, or are -1 when
	// the element is void, self-closing, or never explicitly closed.
	CloseStart, CloseEnd int
	// ContentEnd is where the element's content stops: CloseStart when the
	// end tag exists, otherwise the point where an enclosing element closed
	// (or the end of the page).
	ContentEnd int

	index int
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasClass reports whether the class attribute lists class.
func (e *Element) HasClass(class string) bool {
	v, ok := e.Attr("class")
	return ok && hasToken(v, class)
}

// Closed reports whether the element has an explicit end tag.
func (e *Element) Closed() bool { return e.CloseStart >= 0 }

// Document is a parsed page.
type Document struct {
	src      string
	elements []*Element
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Parse indexes markup. It never fails: anything the tokenizer cannot make
// sense of is treated as text.
func Parse(markup string) *Document {
	d := &Document{src: markup}
	z := html.NewTokenizer(strings.NewReader(markup))

	var open []*Element
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break // io.EOF; the tokenizer has no other failure mode without a buffer limit
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &Element{
				Tag:        tok.Data,
				Attrs:      tok.Attr,
				Start:      start,
				End:        offset,
				CloseStart: -1,
				CloseEnd:   -1,
				ContentEnd: offset,
				index:      len(d.elements),
			}
			d.elements = append(d.elements, el)
			if tt == html.StartTagToken && !voidElements[el.Tag] {
				open = append(open, el)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			for i := len(open) - 1; i >= 0; i-- {
				if open[i].Tag != tag {
					continue
				}
				for _, implicit := range open[i+1:] {
					implicit.ContentEnd = start
				}
				open[i].CloseStart = start
				open[i].CloseEnd = offset
				open[i].ContentEnd = start
				open = open[:i]
				break
			}
		}
	}
	for _, el := range open {
		el.ContentEnd = len(markup)
	}
	return d
}

// String returns the markup the document was parsed from.
func (d *Document) String() string { return d.src }

// Elements returns every element in document order.
func (d *Document) Elements() []*Element { return d.elements }

// First returns the first element matching m.
func (d *Document) First(m Matcher) (*Element, bool) {
	for _, el := range d.elements {
		if m(el) {
			return el, true
		}
	}
	return nil, false
}

// All returns every element matching m, in document order.
func (d *Document) All(m Matcher) []*Element {
	var out []*Element
	for _, el := range d.elements {
		if m(el) {
			out = append(out, el)
		}
	}
	return out
}

// Within returns the elements nested inside parent that match m.
func (d *Document) Within(parent *Element, m Matcher) []*Element {
	var out []*Element
	for _, el := range d.elements[parent.index+1:] {
		if el.Start >= parent.ContentEnd {
			break
		}
		if m(el) {
			out = append(out, el)
		}
	}
	return out
}

// FirstWithin returns the first element nested inside parent that matches m.
func (d *Document) FirstWithin(parent *Element, m Matcher) (*Element, bool) {
	for _, el := range d.elements[parent.index+1:] {
		if el.Start >= parent.ContentEnd {
			break
		}
		if m(el) {
			return el, true
		}
	}
	return nil, false
}

// After returns the first element starting after el's start tag that
// matches m and lies before limit (a byte offset; negative means no limit).
func (d *Document) After(el *Element, limit int, m Matcher) (*Element, bool) {
	for _, next := range d.elements[el.index+1:] {
		if limit >= 0 && next.Start >= limit {
			break
		}
		if m(next) {
			return next, true
		}
	}
	return nil, false
}

// Head returns the <head> element.
func (d *Document) Head() (*Element, bool) { return d.First(Tag("head")) }

// Body returns the <body> element.
func (d *Document) Body() (*Element, bool) { return d.First(Tag("body")) }

// Text returns the element's text content with tags stripped, entities
// decoded, whitespace collapsed and the result NFC-normalised.
func (d *Document) Text(el *Element) string {
	return TextOf(d.src[el.End:el.ContentEnd])
}

// TextOf extracts normalised text from a markup fragment.
func TextOf(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
		}
	}
	return CleanText(b.String())
}

// CleanText collapses whitespace and NFC-normalises s.
func CleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if strings.EqualFold(f, token) {
			return true
		}
	}
	return false
}
