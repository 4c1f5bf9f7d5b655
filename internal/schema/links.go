package schema

import "strings"

// CanonicalLink renders the canonical link tag for url.
func CanonicalLink(url string) string {
	return `<link rel="canonical" href="` + attr(url) + `">`
}

// Hreflang renders the language alternates placed after the canonical link:
// one for lang and the x-default fallback, both pointing at url.
func Hreflang(url, lang string) string {
	var b strings.Builder
	b.WriteString("\n    <!-- Language -->")
	b.WriteString("\n    <link rel=\"alternate\" hreflang=\"" + attr(lang) + "\" href=\"" + attr(url) + "\">")
	b.WriteString("\n    <link rel=\"alternate\" hreflang=\"x-default\" href=\"" + attr(url) + "\">")
	return b.String()
}

// SocialCard renders the Twitter card meta tags. Title and description are
// truncated to SocialTitleMax and SocialDescriptionMax characters.
func SocialCard(title, description string) string {
	var b strings.Builder
	b.WriteString("<!-- Twitter Cards -->\n")
	b.WriteString("    <meta name=\"twitter:card\" content=\"summary\">\n")
	b.WriteString("    <meta name=\"twitter:title\" content=\"" + attr(Truncate(title, SocialTitleMax)) + "\">\n")
	b.WriteString("    <meta name=\"twitter:description\" content=\"" + attr(Truncate(description, SocialDescriptionMax)) + "\">\n\n    ")
	return b.String()
}

// AdsHost is the ad network origin the preconnect hint points at.
const AdsHost = "https://pagead2.googlesyndication.com"

// PreconnectTag is the exact preconnect hint; its presence is the marker.
const PreconnectTag = `<link rel="preconnect" href="` + AdsHost + `" crossorigin>`

// Preconnect renders the preconnect hint as inserted before </head>.
func Preconnect() string {
	return "    " + PreconnectTag + "\n"
}
