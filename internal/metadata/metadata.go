// Package metadata reads the page-level fields the SEO blocks are built from.
package metadata

import (
	"git.home.luguber.info/inful/pillarsync/internal/htmldoc"
)

// Defaults substituted for missing or empty fields.
const (
	DefaultTitle       = "Study Notes"
	DefaultDescription = "Free IT certification study notes."
	DefaultHeading     = "Study Notes"
)

// Metadata holds a page's title, meta description and first heading.
type Metadata struct {
	Title       string
	Description string
	Heading     string
}

// Extract reads metadata from markup. Each field falls back to its default on
// its own; extraction never fails.
func Extract(markup string) Metadata {
	return FromDocument(htmldoc.Parse(markup))
}

// FromDocument is Extract over an already parsed page.
func FromDocument(doc *htmldoc.Document) Metadata {
	md := Metadata{
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Heading:     DefaultHeading,
	}
	if el, ok := doc.First(htmldoc.Tag("title")); ok {
		md.Title = orDefault(doc.Text(el), DefaultTitle)
	}
	if el, ok := doc.First(htmldoc.And(htmldoc.Tag("meta"), htmldoc.AttrEquals("name", "description"))); ok {
		content, _ := el.Attr("content")
		md.Description = orDefault(htmldoc.CleanText(content), DefaultDescription)
	}
	if el, ok := doc.First(htmldoc.Tag("h1")); ok {
		md.Heading = orDefault(doc.Text(el), DefaultHeading)
	}
	return md
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
