package mutate

import "git.home.luguber.info/inful/pillarsync/internal/htmldoc"

var (
	isCanonical  = htmldoc.And(htmldoc.Tag("link"), htmldoc.AttrHasToken("rel", "canonical"))
	isStylesheet = htmldoc.And(htmldoc.Tag("link"), htmldoc.AttrHasToken("rel", "stylesheet"))
)

// Anchors shared by the injection sets.
var (
	HeadEnd = htmldoc.Anchor{Name: "</head>", Match: htmldoc.Tag("head"), Edge: htmldoc.EndTag}
	BodyEnd = htmldoc.Anchor{Name: "</body>", Match: htmldoc.Tag("body"), Edge: htmldoc.EndTag}

	CanonicalLink   = htmldoc.Anchor{Name: "canonical link", Match: isCanonical, Edge: htmldoc.StartTag}
	FirstStylesheet = htmldoc.Anchor{Name: "stylesheet link", Match: isStylesheet, Edge: htmldoc.StartTag}

	// SectionAfterHeader is the first div.section, used only on pages laid
	// out with a div.header.
	SectionAfterHeader = htmldoc.Anchor{
		Name:  "div.section",
		Match: htmldoc.And(htmldoc.Tag("div"), htmldoc.Class("section")),
		Edge:  htmldoc.StartTag,
		If:    htmldoc.And(htmldoc.Tag("div"), htmldoc.Class("header")),
	}
	HeadingEnd = htmldoc.Anchor{Name: "</h1>", Match: htmldoc.Tag("h1"), Edge: htmldoc.EndTag}

	FooterDiv  = htmldoc.Anchor{Name: "div.footer", Match: htmldoc.And(htmldoc.Tag("div"), htmldoc.Class("footer")), Edge: htmldoc.StartTag}
	FooterElem = htmldoc.Anchor{Name: "<footer>", Match: htmldoc.Tag("footer"), Edge: htmldoc.StartTag}
)
