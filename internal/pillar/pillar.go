// Package pillar parses a course's pillar (index) page into the lesson graph
// that drives cross-linking: which lessons exist, which exam domain each one
// belongs to, and in what order they are listed.
package pillar

import (
	"net/url"
	"slices"
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/htmldoc"
)

const (
	// SectionClass marks a domain section on the pillar page.
	SectionClass = "topic-section"
	// FAQClass marks the generated FAQ section, which lists no lessons.
	FAQClass = "faq-section"
	// LessonPrefix is the href prefix of lesson links.
	LessonPrefix = "pages/"
	// DefaultCourseTitle is used when the pillar page has no <h1>.
	DefaultCourseTitle = "Course"
)

// PageRecord is one lesson as listed on the pillar page.
type PageRecord struct {
	Filename   string
	Label      string
	DomainName string
	CourseKey  string
}

// Graph is the parsed pillar page: lessons grouped by domain in listing order
// plus a filename index. The total number of records across domains always
// equals the number of distinct filenames.
type Graph struct {
	CourseKey   string
	CourseTitle string

	domains []string
	lessons map[string][]PageRecord
	index   map[string]PageRecord
}

func newGraph(courseKey string) *Graph {
	return &Graph{
		CourseKey:   courseKey,
		CourseTitle: DefaultCourseTitle,
		lessons:     make(map[string][]PageRecord),
		index:       make(map[string]PageRecord),
	}
}

// Parse builds the graph from pillar markup. Sections are <div> elements with
// the topic-section class (the FAQ section excepted); the first <h2> names the
// domain and the links in the first list after it are the lessons. A page without any qualifying
// section yields an empty graph, not an error.
func Parse(markup, courseKey string) *Graph {
	g := newGraph(courseKey)
	doc := htmldoc.Parse(markup)

	if h1, ok := doc.First(htmldoc.Tag("h1")); ok {
		if title := doc.Text(h1); title != "" {
			g.CourseTitle = title
		}
	}

	sections := doc.All(htmldoc.And(htmldoc.Tag("div"), htmldoc.Class(SectionClass)))
	for _, section := range sections {
		if section.HasClass(FAQClass) {
			continue
		}
		heading, ok := doc.FirstWithin(section, htmldoc.Tag("h2"))
		if !ok {
			continue
		}
		domain := doc.Text(heading)
		if domain == "" {
			continue
		}
		list, ok := doc.After(heading, section.ContentEnd, htmldoc.Tag("ul"))
		if !ok {
			continue
		}
		for _, link := range doc.Within(list, htmldoc.Tag("a")) {
			href, _ := link.Attr("href")
			filename, ok := lessonFilename(href)
			if !ok {
				continue
			}
			g.add(PageRecord{
				Filename:   filename,
				Label:      doc.Text(link),
				DomainName: domain,
				CourseKey:  courseKey,
			})
		}
	}
	return g
}

// add records a lesson. A filename seen before is moved: the later listing
// wins and the earlier entry leaves its domain.
func (g *Graph) add(rec PageRecord) {
	if prev, ok := g.index[rec.Filename]; ok {
		g.remove(prev)
	}
	if _, ok := g.lessons[rec.DomainName]; !ok {
		g.domains = append(g.domains, rec.DomainName)
	}
	g.lessons[rec.DomainName] = append(g.lessons[rec.DomainName], rec)
	g.index[rec.Filename] = rec
}

func (g *Graph) remove(rec PageRecord) {
	list := slices.DeleteFunc(g.lessons[rec.DomainName], func(p PageRecord) bool {
		return p.Filename == rec.Filename
	})
	if len(list) > 0 {
		g.lessons[rec.DomainName] = list
		return
	}
	delete(g.lessons, rec.DomainName)
	g.domains = slices.DeleteFunc(g.domains, func(d string) bool { return d == rec.DomainName })
}

// lessonFilename extracts the lesson filename from a pillar link.
func lessonFilename(href string) (string, bool) {
	href = strings.TrimPrefix(strings.TrimSpace(href), "./")
	rest, ok := strings.CutPrefix(href, LessonPrefix)
	if !ok {
		return "", false
	}
	if u, err := url.Parse(rest); err == nil {
		rest = u.Path
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Empty reports whether no lessons were found.
func (g *Graph) Empty() bool { return len(g.index) == 0 }

// Len returns the number of distinct lessons.
func (g *Graph) Len() int { return len(g.index) }

// Domains returns domain names in pillar order.
func (g *Graph) Domains() []string { return slices.Clone(g.domains) }

// Lessons returns the lessons of a domain in pillar order.
func (g *Graph) Lessons(domain string) []PageRecord { return slices.Clone(g.lessons[domain]) }

// Lookup returns the record for a lesson filename.
func (g *Graph) Lookup(filename string) (PageRecord, bool) {
	rec, ok := g.index[filename]
	return rec, ok
}

// Records returns every lesson, grouped by domain in pillar order.
func (g *Graph) Records() []PageRecord {
	out := make([]PageRecord, 0, len(g.index))
	for _, d := range g.domains {
		out = append(out, g.lessons[d]...)
	}
	return out
}
