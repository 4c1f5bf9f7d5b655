package mutate

import (
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/htmldoc"
	"git.home.luguber.info/inful/pillarsync/internal/metadata"
	"git.home.luguber.info/inful/pillarsync/internal/pillar"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

// Injection names, in the order they run on a lesson.
const (
	NameCourseHub        = "course-hub"
	NameRelatedLessons   = "related-lessons"
	NameCanonical        = "canonical"
	NameHreflang         = "hreflang"
	NameSocialCard       = "social-card"
	NameBreadcrumb       = "breadcrumb"
	NameLearningResource = "learning-resource"
	NameFAQ              = "faq"
	NamePreconnect       = "preconnect"
)

// Presence markers.
const (
	MarkerHreflang         = "hreflang"
	MarkerSocialCard       = "twitter:card"
	MarkerBreadcrumb       = "BreadcrumbList"
	MarkerLearningResource = "LearningResource"
	MarkerCourseHub        = `<div class="` + schema.CourseNavClass + `"`
	MarkerRelatedLessons   = `<div class="` + schema.RelatedLessonsClass + `"`
	MarkerAds              = "adsbygoogle.js"
)

// Lesson carries everything the lesson injections are built from.
type Lesson struct {
	Site        schema.Site
	Course      registry.CourseDescriptor
	CourseTitle string
	Meta        metadata.Metadata
	PageURL     string
	// LegacyCanonicalPrefix marks canonical links that must be rewritten.
	LegacyCanonicalPrefix string
	Domain                string
	Related               []pillar.PageRecord
}

// LessonInjections is the full lesson set: navigation, metadata, then the
// preconnect hint.
func LessonInjections(l Lesson) []Injection {
	out := NavInjections(l.CourseTitle, l.Domain, l.Related)
	out = append(out, MetadataInjections(l)...)
	return append(out, Preconnect())
}

// NavInjections returns the course-hub banner and the related-lessons block.
// An empty cluster yields an injection with no payload, which is skipped.
func NavInjections(courseTitle, domain string, related []pillar.PageRecord) []Injection {
	return []Injection{
		{
			Name:           NameCourseHub,
			PresenceMarker: MarkerCourseHub,
			Targets:        []Target{Before(SectionAfterHeader), After(HeadingEnd)},
			Payload:        schema.CourseHub(courseTitle),
		},
		{
			Name:           NameRelatedLessons,
			PresenceMarker: MarkerRelatedLessons,
			Targets:        []Target{Before(FooterDiv), Before(BodyEnd)},
			Payload:        schema.RelatedLessons(domain, related),
		},
	}
}

// MetadataInjections returns canonical, hreflang, social card, breadcrumb
// and learning-resource injections, in that order.
func MetadataInjections(l Lesson) []Injection {
	return []Injection{
		Canonical(l.PageURL, l.LegacyCanonicalPrefix),
		{
			Name:           NameHreflang,
			PresenceMarker: MarkerHreflang,
			Targets:        []Target{After(CanonicalLink)},
			Payload:        schema.Hreflang(l.PageURL, l.Site.Language),
		},
		{
			Name:           NameSocialCard,
			PresenceMarker: MarkerSocialCard,
			Targets:        []Target{Before(FirstStylesheet)},
			Payload:        schema.SocialCard(l.Meta.Title, l.Meta.Description),
		},
		{
			Name:           NameBreadcrumb,
			PresenceMarker: MarkerBreadcrumb,
			Targets:        []Target{Before(HeadEnd)},
			Payload:        schema.Breadcrumb(l.Site, l.Course, l.Meta.Heading),
		},
		{
			Name:           NameLearningResource,
			PresenceMarker: MarkerLearningResource,
			Targets:        []Target{Before(HeadEnd)},
			Payload:        schema.LearningResource(l.Site, l.Course, l.Meta.Heading, l.Meta.Description, l.PageURL),
		},
	}
}

// PillarInjections returns the pillar page set: the rendered FAQ section,
// gated on its heading, and the preconnect hint.
func PillarInjections(faqHeading, faqSection string) []Injection {
	return []Injection{
		{
			Name:           NameFAQ,
			PresenceMarker: faqHeading,
			Targets:        []Target{Before(FooterElem)},
			Payload:        faqSection,
		},
		Preconnect(),
	}
}

// Preconnect adds the ad network preconnect hint to pages that load ads.
func Preconnect() Injection {
	return Injection{
		Name:           NamePreconnect,
		PresenceMarker: schema.PreconnectTag,
		RequiresMarker: MarkerAds,
		Targets:        []Target{Before(HeadEnd)},
		Payload:        schema.Preconnect(),
	}
}

// Canonical points the page's canonical link at pageURL. Canonical links
// under legacyPrefix are rewritten, a page without one gets one before
// </head>, and any other canonical link is left alone.
func Canonical(pageURL, legacyPrefix string) Injection {
	tag := schema.CanonicalLink(pageURL)
	legacy := func(el *htmldoc.Element) bool {
		if !isCanonical(el) || legacyPrefix == "" {
			return false
		}
		href, _ := el.Attr("href")
		return strings.HasPrefix(strings.TrimSpace(href), legacyPrefix)
	}
	return Injection{
		Name:          NameCanonical,
		Unconditional: true,
		Rewrite: func(doc *htmldoc.Document) (string, bool) {
			if _, ok := doc.First(isCanonical); !ok {
				return doc.Insert(HeadEnd, htmldoc.Before, "    "+tag+"\n")
			}
			out := rewriteStale(doc, legacy, tag)
			return out, out != doc.String()
		},
	}
}

// rewriteStale replaces every start tag matching stale with tag. Offsets
// shift after each splice, so the page is reindexed between replacements.
func rewriteStale(doc *htmldoc.Document, stale htmldoc.Matcher, tag string) string {
	for {
		var next *htmldoc.Element
		for _, el := range doc.All(stale) {
			if doc.String()[el.Start:el.End] != tag {
				next = el
				break
			}
		}
		if next == nil {
			return doc.String()
		}
		doc = htmldoc.Parse(doc.ReplaceStartTag(next, tag))
	}
}
