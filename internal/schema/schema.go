// Package schema renders the markup blocks injected into pages: link tags,
// social cards, JSON-LD structured data and the navigation blocks that tie
// lessons back to their pillar page.
//
// Builders are pure string functions. Text that lands in an HTML attribute or
// element is HTML-escaped; text that lands in JSON-LD goes through EscapeJSON.
package schema

import (
	"html"
	"net/url"
	"strings"
)

// Site holds the site-wide values the payloads reference.
type Site struct {
	BaseURL  string // e.g. "https://webnotes.site", no trailing slash
	Name     string // publisher name
	Language string // hreflang / inLanguage value
}

// Truncation caps for social cards, in characters.
const (
	SocialTitleMax       = 70
	SocialDescriptionMax = 200
)

// PageURL joins the base URL, the course site path and a page path relative
// to the course root ("pages/intro.html"). The path part is percent-escaped
// with EscapePath.
func PageURL(baseURL, sitePath, relPath string) string {
	var parts []string
	if p := strings.Trim(sitePath, "/"); p != "" {
		parts = append(parts, p)
	}
	if p := strings.TrimLeft(relPath, "/"); p != "" {
		parts = append(parts, p)
	}
	base := strings.TrimRight(baseURL, "/")
	if len(parts) == 0 {
		return base
	}
	return base + "/" + EscapePath(strings.Join(parts, "/"))
}

// EscapePath percent-escapes a slash-separated site path for use in a URL.
// Canonical links and sitemap locations both go through it.
func EscapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// CourseURL is the URL of the course hub (its directory).
func CourseURL(baseURL, sitePath string) string {
	return PageURL(baseURL, sitePath, "") + "/"
}

// Truncate cuts s to at most n characters. The cut is a hard character count
// and ignores word boundaries.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// EscapeJSON escapes s for use inside a double-quoted JSON string: quotes and
// backslashes are escaped, and "</" becomes "<\/" so the text cannot close
// the surrounding script element.
func EscapeJSON(s string) string {
	return jsonEscaper.Replace(s)
}

var jsonEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `</`, `<\/`)

func attr(s string) string { return html.EscapeString(s) }

func hrefFor(filename string) string {
	return attr((&url.URL{Path: filename}).String())
}
