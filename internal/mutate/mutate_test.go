package mutate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pillarsync/internal/htmldoc"
	"git.home.luguber.info/inful/pillarsync/internal/metadata"
	"git.home.luguber.info/inful/pillarsync/internal/pillar"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
	"git.home.luguber.info/inful/pillarsync/internal/schema"
)

const legacyPrefix = "https://shehan-fdo.github.io/"

const lessonPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>CPU Basics | CompTIA A+</title>
    <meta name="description" content="Cores, clocks and sockets.">
    <link rel="canonical" href="https://shehan-fdo.github.io/CompTia/CompTia-A-220-1201-Notes/pages/cpu.html">
    <link rel="stylesheet" href="../style.css">
    <script async src="https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js"></script>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>CPU Basics</h1>
        </div>
        <div class="section">
            <p>Cores &amp; threads.</p>
        </div>
        <div class="footer">
            <p>Webnotes</p>
        </div>
    </div>
</body>
</html>
`

var course = registry.CourseDescriptor{
	Key:         "CompTia-A-220-1201-Notes",
	DisplayName: "CompTIA A+ Core 1 (220-1201)",
	ShortName:   "CompTIA A+",
	SitePath:    "CompTia/CompTia-A-220-1201-Notes",
}

func lessonFor(t *testing.T, markup string, related []pillar.PageRecord) Lesson {
	t.Helper()
	site := schema.Site{BaseURL: "https://webnotes.site", Name: "Webnotes", Language: "en"}
	return Lesson{
		Site:                  site,
		Course:                course,
		CourseTitle:           "CompTIA A+ Core 1",
		Meta:                  metadata.Extract(markup),
		PageURL:               schema.PageURL(site.BaseURL, course.SitePath, "pages/cpu.html"),
		LegacyCanonicalPrefix: legacyPrefix,
		Domain:                "1.0 Hardware",
		Related:               related,
	}
}

var siblings = []pillar.PageRecord{
	{Filename: "intro.html", Label: "Intro", DomainName: "1.0 Hardware"},
	{Filename: "ram.html", Label: "RAM", DomainName: "1.0 Hardware"},
}

func TestLessonInjectionsApplyAll(t *testing.T) {
	res := Apply(lessonPage, LessonInjections(lessonFor(t, lessonPage, siblings)))

	require.True(t, res.Changed)
	assert.Equal(t, []string{
		NameCourseHub, NameRelatedLessons, NameCanonical, NameHreflang,
		NameSocialCard, NameBreadcrumb, NameLearningResource, NamePreconnect,
	}, res.Applied)
	assert.Empty(t, res.Skipped)

	out := res.Markup
	assert.Contains(t, out, `<link rel="canonical" href="https://webnotes.site/CompTia/CompTia-A-220-1201-Notes/pages/cpu.html">
    <!-- Language -->`)
	assert.NotContains(t, out, legacyPrefix)
	assert.Contains(t, out, "<!-- Twitter Cards -->\n    <meta name=\"twitter:card\" content=\"summary\">")
	assert.Contains(t, out, "\n\n    <link rel=\"stylesheet\"")
	assert.Contains(t, out, schema.PreconnectTag+"\n</head>")

	// Order inside head: breadcrumb, learning resource, preconnect.
	bc := strings.Index(out, "BreadcrumbList")
	lr := strings.Index(out, `"@type": "LearningResource"`)
	pc := strings.Index(out, schema.PreconnectTag)
	assert.Less(t, bc, lr)
	assert.Less(t, lr, pc)

	// Course hub sits between the header and the first section.
	hub := strings.Index(out, MarkerCourseHub)
	assert.Less(t, strings.Index(out, "</h1>"), hub)
	assert.Less(t, hub, strings.Index(out, `<div class="section">`))

	// Related lessons sit right before the footer.
	assert.Contains(t, out, "<li><a href=\"ram.html\">RAM</a></li>\n</ul>\n</div>\n<div class=\"footer\">")
}

func TestApplyIsIdempotent(t *testing.T) {
	pages := map[string]string{
		"full":       lessonPage,
		"no head":    "<p>fragment</p>",
		"no anchors": "<html><body>bare</body></html>",
		"no canonical": `<html><head><title>x</title><link rel="stylesheet" href="s.css"></head>
<body><h1>x</h1></body></html>`,
		"non legacy canonical": strings.Replace(lessonPage, legacyPrefix, "https://mirror.example/", 1),
		"two legacy canonicals": strings.Replace(lessonPage, "<link rel=\"stylesheet\"",
			`<link rel="canonical" href="`+legacyPrefix+`x.html">`+"\n    <link rel=\"stylesheet\"", 1),
	}
	for name, page := range pages {
		t.Run(name, func(t *testing.T) {
			injections := LessonInjections(lessonFor(t, page, siblings))
			once := Apply(page, injections)
			twice := Apply(once.Markup, injections)

			assert.Equal(t, once.Markup, twice.Markup)
			assert.False(t, twice.Changed)
			assert.Empty(t, twice.Applied)
		})
	}
}

func TestRerunKeepsHreflangAndNormalizesCanonical(t *testing.T) {
	first := Apply(lessonPage, LessonInjections(lessonFor(t, lessonPage, siblings)))
	hreflangBlock := first.Markup[strings.Index(first.Markup, "<!-- Language -->"):strings.Index(first.Markup, "<link rel=\"stylesheet\"")]

	// An old canonical comes back, e.g. from a template re-copy.
	stale := strings.Replace(first.Markup,
		`<link rel="canonical" href="https://webnotes.site/`,
		`<link rel="canonical" href="`+legacyPrefix, 1)
	require.NotEqual(t, first.Markup, stale)

	res := Apply(stale, LessonInjections(lessonFor(t, stale, siblings)))
	assert.Equal(t, []string{NameCanonical}, res.Applied)
	assert.Equal(t, first.Markup, res.Markup)
	assert.Contains(t, res.Markup, hreflangBlock)
	assert.Contains(t, res.Skipped, SkippedInjection{Name: NameHreflang, Reason: SkipPresent})
}

func TestCanonical(t *testing.T) {
	const url = "https://webnotes.site/c/pages/a.html"
	inj := []Injection{Canonical(url, legacyPrefix)}

	t.Run("legacy rewritten", func(t *testing.T) {
		res := Apply(`<head><link rel="canonical" href="`+legacyPrefix+`c/pages/a.html"></head>`, inj)
		assert.Equal(t, `<head><link rel="canonical" href="`+url+`"></head>`, res.Markup)
	})
	t.Run("other host untouched", func(t *testing.T) {
		page := `<head><link rel="canonical" href="https://other.example/a.html"></head>`
		res := Apply(page, inj)
		assert.False(t, res.Changed)
		assert.Equal(t, page, res.Markup)
	})
	t.Run("missing inserted before head end", func(t *testing.T) {
		res := Apply("<head>\n<title>t</title>\n</head>", inj)
		assert.Equal(t, "<head>\n<title>t</title>\n    <link rel=\"canonical\" href=\""+url+"\">\n</head>", res.Markup)
	})
	t.Run("already current", func(t *testing.T) {
		res := Apply(`<head><link rel="canonical" href="`+url+`"></head>`, inj)
		assert.False(t, res.Changed)
		assert.Equal(t, []SkippedInjection{{Name: NameCanonical, Reason: SkipNoChange}}, res.Skipped)
	})
}

func TestMissingAnchorsSkip(t *testing.T) {
	page := "<html><body><p>no head, no h1</p></body></html>"
	res := Apply(page, MetadataInjections(lessonFor(t, page, nil)))

	assert.False(t, res.Changed)
	assert.Equal(t, page, res.Markup)
	for _, s := range res.Skipped[1:] {
		assert.Equal(t, SkipNoAnchor, s.Reason, s.Name)
	}
}

func TestCourseHubFallsBackToHeading(t *testing.T) {
	page := "<html><body>\n<h1>Title</h1>\n<div class=\"section\">s</div>\n</body></html>"
	res := Apply(page, NavInjections("My Course", "D", nil))

	assert.Equal(t, []string{NameCourseHub}, res.Applied)
	assert.True(t, strings.HasPrefix(res.Markup[strings.Index(res.Markup, "</h1>")+len("</h1>"):], schema.CourseHub("My Course")))
	assert.Contains(t, res.Skipped, SkippedInjection{Name: NameRelatedLessons, Reason: SkipEmpty})
}

func TestRelatedLessonsFallsBackToBodyEnd(t *testing.T) {
	page := "<html><body><h1>x</h1></body></html>"
	res := Apply(page, NavInjections("C", "D", siblings[:1]))
	assert.Contains(t, res.Markup, "</ul>\n</div>\n</body>")
}

func TestPreconnectRequiresAds(t *testing.T) {
	page := "<html><head><title>t</title></head><body></body></html>"
	res := Apply(page, []Injection{Preconnect()})
	assert.False(t, res.Changed)
	assert.Equal(t, []SkippedInjection{{Name: NamePreconnect, Reason: SkipPrecondition}}, res.Skipped)

	withAds := strings.Replace(page, "</head>", `<script src="adsbygoogle.js"></script></head>`, 1)
	res = Apply(withAds, []Injection{Preconnect()})
	assert.True(t, res.Changed)
	assert.Equal(t, 1, strings.Count(Apply(res.Markup, []Injection{Preconnect()}).Markup, schema.PreconnectTag))
}

func TestPillarInjections(t *testing.T) {
	page := "<html><head></head><body>\n<h1>Course</h1>\n        <footer>f</footer>\n</body></html>"
	faq, err := schema.NewFAQRenderer().Render(schema.DefaultFAQHeading, schema.DefaultFAQ())
	require.NoError(t, err)

	res := Apply(page, PillarInjections(schema.DefaultFAQHeading, faq))
	assert.Equal(t, []string{NameFAQ}, res.Applied)
	assert.Contains(t, res.Markup, faq+"<footer>")

	again := Apply(res.Markup, PillarInjections(schema.DefaultFAQHeading, faq))
	assert.False(t, again.Changed)
}

func TestAnchorTargetsUseFirstMatch(t *testing.T) {
	page := "<body><div class=\"footer\">a</div><div class=\"footer\">b</div></body>"
	inj := Injection{Name: "x", PresenceMarker: "X!", Targets: []Target{Before(FooterDiv)}, Payload: "X!"}
	res := Apply(page, []Injection{inj})
	assert.Equal(t, "<body>X!<div class=\"footer\">a</div><div class=\"footer\">b</div></body>", res.Markup)

	inj.Targets = []Target{{Anchor: htmldoc.Anchor{Match: htmldoc.Tag("nav")}}, After(FooterDiv)}
	res = Apply(page, []Injection{inj})
	assert.Equal(t, "<body><div class=\"footer\">X!a</div><div class=\"footer\">b</div></body>", res.Markup)
}
