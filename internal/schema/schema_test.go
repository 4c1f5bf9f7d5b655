package schema

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pillarsync/internal/pillar"
	"git.home.luguber.info/inful/pillarsync/internal/registry"
)

var (
	testSite   = Site{BaseURL: "https://webnotes.site", Name: "Webnotes", Language: "en"}
	testCourse = registry.CourseDescriptor{
		Key:         "Cisco-CCNA-210-2601-Notes",
		DisplayName: "Cisco CCNA (210-2601)",
		ShortName:   "Cisco CCNA",
		SitePath:    "Cisco/Cisco-CCNA-210-2601-Notes",
	}
)

func jsonBody(t *testing.T, block string) map[string]any {
	t.Helper()
	start := strings.Index(block, "{")
	end := strings.LastIndex(block, "}")
	require.True(t, start >= 0 && end > start)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(block[start:end+1]), &v))
	return v
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://webnotes.site/Cisco/CCNA/pages/ospf.html", PageURL("https://webnotes.site/", "/Cisco/CCNA/", "pages/ospf.html"))
	assert.Equal(t, "https://webnotes.site/Cisco/CCNA/", CourseURL("https://webnotes.site", "Cisco/CCNA"))
	assert.Equal(t, "https://webnotes.site/Cisco/CCNA%20Labs/pages/ram%20disk.html", PageURL("https://webnotes.site", "Cisco/CCNA Labs", "pages/ram disk.html"))
	assert.Equal(t, "https://webnotes.site", PageURL("https://webnotes.site/", "", ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "héé", Truncate("héél", 3), "counts characters, not bytes")
	assert.Equal(t, "Subnetting is the pr", Truncate("Subnetting is the process", 20), "cuts mid-word")
}

func TestSocialCardCaps(t *testing.T) {
	content := regexp.MustCompile(`name="twitter:(title|description)" content="([^"]*)"`)
	for _, n := range []int{0, 1, 69, 70, 71, 199, 200, 201, 500} {
		long := strings.Repeat("é", n)
		card := SocialCard(long, long+`"<q>`)

		matches := content.FindAllStringSubmatch(card, -1)
		require.Len(t, matches, 2)
		assert.LessOrEqual(t, utf8.RuneCountInString(html.UnescapeString(matches[0][2])), SocialTitleMax)
		assert.LessOrEqual(t, utf8.RuneCountInString(html.UnescapeString(matches[1][2])), SocialDescriptionMax)
	}
	assert.Contains(t, SocialCard("a", "b"), `<meta name="twitter:card" content="summary">`)
}

func TestSocialCardEscapesAttributes(t *testing.T) {
	card := SocialCard(`Say "hi" & <go>`, "d")
	assert.Contains(t, card, `content="Say &#34;hi&#34; &amp; &lt;go&gt;"`)
}

func TestBreadcrumbArity(t *testing.T) {
	for _, heading := range []string{"OSPF", "", `Quote "me"`, strings.Repeat("x", 300)} {
		levels := BreadcrumbLevels(testSite, testCourse, heading)
		require.Len(t, levels, 3)
		assert.Equal(t, "Home", levels[0].Name)
		assert.Equal(t, "https://webnotes.site/", levels[0].URL)
		assert.Equal(t, "Cisco CCNA", levels[1].Name)
		assert.Equal(t, "https://webnotes.site/Cisco/Cisco-CCNA-210-2601-Notes/", levels[1].URL)
		assert.Equal(t, heading, levels[2].Name)
		assert.Empty(t, levels[2].URL)

		body := jsonBody(t, Breadcrumb(testSite, testCourse, heading))
		assert.Equal(t, "BreadcrumbList", body["@type"])
		items := body["itemListElement"].([]any)
		require.Len(t, items, 3)
		for i, it := range items {
			item := it.(map[string]any)
			assert.InDelta(t, float64(i+1), item["position"], 0)
		}
		last := items[2].(map[string]any)
		assert.Equal(t, heading, last["name"])
		assert.NotContains(t, last, "item")
	}
}

func TestLearningResourceIsValidJSON(t *testing.T) {
	block := LearningResource(testSite, testCourse, `The "OSI" model \ layers`, `Covers </script> tricks`, "https://webnotes.site/x")

	body := jsonBody(t, block)
	assert.Equal(t, "LearningResource", body["@type"])
	assert.Equal(t, `The "OSI" model \ layers`, body["name"])
	assert.Equal(t, `Covers </script> tricks`, body["description"])
	assert.Equal(t, true, body["isAccessibleForFree"])
	part := body["isPartOf"].(map[string]any)
	assert.Equal(t, "Cisco CCNA (210-2601)", part["name"])
	assert.NotContains(t, block, "</script> tricks", "closing tags are neutralised inside the script")
	assert.True(t, strings.HasPrefix(block, `    <script type="application/ld+json">`))
}

func TestHreflang(t *testing.T) {
	got := Hreflang("https://webnotes.site/a.html", "en")
	assert.Equal(t, "\n    <!-- Language -->"+
		"\n    <link rel=\"alternate\" hreflang=\"en\" href=\"https://webnotes.site/a.html\">"+
		"\n    <link rel=\"alternate\" hreflang=\"x-default\" href=\"https://webnotes.site/a.html\">", got)
}

func TestRelatedLessons(t *testing.T) {
	assert.Empty(t, RelatedLessons("1.0 Hardware", nil))

	got := RelatedLessons("1.0 Hardware & More", []pillar.PageRecord{
		{Filename: "cpu.html", Label: "CPU <Basics>"},
		{Filename: "ram disk.html", Label: "RAM"},
	})
	assert.Contains(t, got, `<h3>Related Lessons in 1.0 Hardware &amp; More</h3>`)
	assert.Contains(t, got, `<li><a href="cpu.html">CPU &lt;Basics&gt;</a></li>`)
	assert.Contains(t, got, `<li><a href="ram%20disk.html">RAM</a></li>`)
	assert.True(t, strings.HasPrefix(got, `<div class="related-lessons"`))
}

func TestCourseHub(t *testing.T) {
	got := CourseHub("CompTIA A+ & Friends")
	assert.Contains(t, got, `<div class="course-nav-top"`)
	assert.Contains(t, got, `<a href="../index.html">CompTIA A+ &amp; Friends</a>`)
}

func TestFAQRender(t *testing.T) {
	r := NewFAQRenderer()

	got, err := r.Render(DefaultFAQHeading, DefaultFAQ())
	require.NoError(t, err)
	assert.Contains(t, got, "<h2>Frequently Asked Questions</h2>")
	assert.Contains(t, got, "<p><strong>Is this course free?</strong><br>Yes, this is a completely free study guide.</p>")

	got, err = r.Render("FAQ", []FAQEntry{{Question: "Where?", Answer: "See **below**:\n\n- one\n- two"}})
	require.NoError(t, err)
	assert.Contains(t, got, "<p><strong>Where?</strong></p>")
	assert.Contains(t, got, "<li>one</li>")
	assert.Contains(t, got, "<strong>below</strong>")
}

func TestFAQSectionListsNoLessons(t *testing.T) {
	got, err := NewFAQRenderer().Render(DefaultFAQHeading, []FAQEntry{
		{Question: "Where do I start?", Answer: "Read these first:\n\n- [CPU](pages/cpu.html)\n- [RAM](pages/ram.html)"},
	})
	require.NoError(t, err)
	assert.Contains(t, got, `<a href="pages/cpu.html">CPU</a>`)

	markup := `<div class="topic-section"><h2>1.0 Hardware</h2><ul><li><a href="pages/cpu.html">CPU Basics</a></li></ul></div>` + got
	g := pillar.Parse(markup, "k")
	assert.Equal(t, []string{"1.0 Hardware"}, g.Domains())
	rec, ok := g.Lookup("cpu.html")
	require.True(t, ok)
	assert.Equal(t, "1.0 Hardware", rec.DomainName)
	_, ok = g.Lookup("ram.html")
	assert.False(t, ok)
}

func TestFAQDropsRawHTML(t *testing.T) {
	got, err := NewFAQRenderer().Render("FAQ", []FAQEntry{{Question: "Q", Answer: "<script>x()</script>"}})
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
}

func TestPreconnect(t *testing.T) {
	assert.Equal(t, "    <link rel=\"preconnect\" href=\"https://pagead2.googlesyndication.com\" crossorigin>\n", Preconnect())
}

func TestEscapeJSON(t *testing.T) {
	assert.Equal(t, `a \"b\" \\ <\/p>`, EscapeJSON(`a "b" \ </p>`))
}
