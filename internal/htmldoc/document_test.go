package htmldoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
    <title>Ports &amp; Protocols</title>
    <link rel="canonical" href="https://example.org/a.html">
    <link rel="stylesheet" href="../style.css">
    <script>var s = "</head> in a string";</script>
</head>
<body>
    <h1>Ports <em>and</em> Protocols</h1>
    <ul><li>one <li>two</ul>
    <div class="footer main">f</div>
</body>
</html>`

func TestParseOffsets(t *testing.T) {
	d := Parse(samplePage)

	head, ok := d.Head()
	require.True(t, ok)
	assert.Equal(t, "<head>", samplePage[head.Start:head.End])
	require.True(t, head.Closed())
	assert.Equal(t, "</head>", samplePage[head.CloseStart:head.CloseEnd])

	link, ok := d.First(And(Tag("link"), AttrHasToken("rel", "canonical")))
	require.True(t, ok)
	assert.Equal(t, `<link rel="canonical" href="https://example.org/a.html">`, samplePage[link.Start:link.End])
	assert.False(t, link.Closed(), "void elements have no end tag")

	assert.Equal(t, samplePage, d.String())
}

func TestScriptContentIsNotMarkup(t *testing.T) {
	d := Parse(samplePage)
	start, _, ok := d.Locate(Anchor{Match: Tag("head"), Edge: EndTag})
	require.True(t, ok)
	assert.Equal(t, "</head>\n<body>", samplePage[start:start+len("</head>\n<body>")])
}

func TestText(t *testing.T) {
	d := Parse(samplePage)

	title, ok := d.First(Tag("title"))
	require.True(t, ok)
	assert.Equal(t, "Ports & Protocols", d.Text(title))

	h1, ok := d.First(Tag("h1"))
	require.True(t, ok)
	assert.Equal(t, "Ports and Protocols", d.Text(h1))
}

func TestImplicitlyClosedElements(t *testing.T) {
	d := Parse(samplePage)
	ul, ok := d.First(Tag("ul"))
	require.True(t, ok)

	items := d.Within(ul, Tag("li"))
	require.Len(t, items, 2)
	assert.False(t, items[0].Closed())
	assert.Equal(t, "one two", d.Text(items[0]), "unclosed li runs to the end of its parent")
	assert.Equal(t, "two", d.Text(items[1]))
}

func TestMatchers(t *testing.T) {
	d := Parse(samplePage)

	_, ok := d.First(Class("footer"))
	assert.True(t, ok)
	_, ok = d.First(Class("foot"))
	assert.False(t, ok)
	_, ok = d.First(AttrPrefix("href", "../"))
	assert.True(t, ok)
	_, ok = d.First(AttrEquals("lang", "EN"))
	assert.True(t, ok)
}

func TestInsert(t *testing.T) {
	d := Parse(samplePage)

	out, ok := d.Insert(Anchor{Match: Tag("head"), Edge: EndTag}, Before, "<!-- x -->\n")
	require.True(t, ok)
	assert.Contains(t, out, "<!-- x -->\n</head>")

	out, ok = d.Insert(Anchor{Match: Tag("h1"), Edge: EndTag}, After, "<p>nav</p>")
	require.True(t, ok)
	assert.Contains(t, out, "</h1><p>nav</p>")

	out, ok = d.Insert(Anchor{Match: Tag("footer"), Edge: StartTag}, Before, "x")
	assert.False(t, ok)
	assert.Equal(t, samplePage, out)
}

func TestInsertRequiresExplicitEndTag(t *testing.T) {
	d := Parse(`<html><head><title>t</title><body><p>x</p></body></html>`)
	_, ok := d.Insert(Anchor{Match: Tag("head"), Edge: EndTag}, Before, "x")
	assert.False(t, ok)
}

func TestAnchorCondition(t *testing.T) {
	d := Parse(samplePage)
	anchor := Anchor{Match: Tag("h1"), Edge: StartTag, If: Class("header")}
	_, _, ok := d.Locate(anchor)
	assert.False(t, ok)

	anchor.If = Tag("body")
	start, _, ok := d.Locate(anchor)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(samplePage[start:], "<h1>"))
}

func TestReplaceStartTag(t *testing.T) {
	d := Parse(samplePage)
	link, _ := d.First(AttrHasToken("rel", "canonical"))

	out := d.ReplaceStartTag(link, `<link rel="canonical" href="https://new">`)
	assert.Contains(t, out, `<title>Ports &amp; Protocols</title>
    <link rel="canonical" href="https://new">
    <link rel="stylesheet"`)
}

func TestCleanTextNormalizes(t *testing.T) {
	// "e" + combining acute accent composes to a single rune.
	assert.Equal(t, "caf\u00e9 menu", CleanText("  cafe\u0301 \n\t menu "))
}
