package schema

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/registry"
)

// BreadcrumbLevel is one entry of a BreadcrumbList. The terminal level has no
// URL.
type BreadcrumbLevel struct {
	Name string
	URL  string
}

// BreadcrumbLevels returns the three levels of a lesson breadcrumb:
// Home, the course (linked to its hub) and the lesson heading.
func BreadcrumbLevels(site Site, course registry.CourseDescriptor, heading string) []BreadcrumbLevel {
	return []BreadcrumbLevel{
		{Name: "Home", URL: strings.TrimRight(site.BaseURL, "/") + "/"},
		{Name: course.ShortName, URL: CourseURL(site.BaseURL, course.SitePath)},
		{Name: heading},
	}
}

// Breadcrumb renders the BreadcrumbList JSON-LD block.
func Breadcrumb(site Site, course registry.CourseDescriptor, heading string) string {
	levels := BreadcrumbLevels(site, course, heading)

	var b strings.Builder
	b.WriteString("    <script type=\"application/ld+json\">\n")
	b.WriteString("    {\n")
	b.WriteString("      \"@context\": \"https://schema.org\",\n")
	b.WriteString("      \"@type\": \"BreadcrumbList\",\n")
	b.WriteString("      \"itemListElement\": [\n")
	for i, lvl := range levels {
		b.WriteString("        {\n")
		b.WriteString("          \"@type\": \"ListItem\",\n")
		fmt.Fprintf(&b, "          \"position\": %d,\n", i+1)
		if lvl.URL == "" {
			fmt.Fprintf(&b, "          \"name\": \"%s\"\n", EscapeJSON(lvl.Name))
		} else {
			fmt.Fprintf(&b, "          \"name\": \"%s\",\n", EscapeJSON(lvl.Name))
			fmt.Fprintf(&b, "          \"item\": \"%s\"\n", EscapeJSON(lvl.URL))
		}
		if i < len(levels)-1 {
			b.WriteString("        },\n")
		} else {
			b.WriteString("        }\n")
		}
	}
	b.WriteString("      ]\n")
	b.WriteString("    }\n")
	b.WriteString("    </script>\n")
	return b.String()
}

// LearningResource renders the LearningResource JSON-LD block for a lesson.
func LearningResource(site Site, course registry.CourseDescriptor, heading, description, pageURL string) string {
	base := strings.TrimRight(site.BaseURL, "/")

	var b strings.Builder
	b.WriteString("    <script type=\"application/ld+json\">\n")
	b.WriteString("    {\n")
	b.WriteString("      \"@context\": \"https://schema.org\",\n")
	b.WriteString("      \"@type\": \"LearningResource\",\n")
	fmt.Fprintf(&b, "      \"name\": \"%s\",\n", EscapeJSON(heading))
	fmt.Fprintf(&b, "      \"description\": \"%s\",\n", EscapeJSON(description))
	fmt.Fprintf(&b, "      \"url\": \"%s\",\n", EscapeJSON(pageURL))
	b.WriteString("      \"educationalLevel\": \"Beginner to Intermediate\",\n")
	b.WriteString("      \"learningResourceType\": \"Study Notes\",\n")
	b.WriteString("      \"isAccessibleForFree\": true,\n")
	fmt.Fprintf(&b, "      \"inLanguage\": \"%s\",\n", EscapeJSON(site.Language))
	b.WriteString("      \"isPartOf\": {\n")
	b.WriteString("        \"@type\": \"Course\",\n")
	fmt.Fprintf(&b, "        \"name\": \"%s\",\n", EscapeJSON(course.DisplayName))
	b.WriteString("        \"provider\": {\n")
	b.WriteString("          \"@type\": \"Organization\",\n")
	fmt.Fprintf(&b, "          \"name\": \"%s\",\n", EscapeJSON(site.Name))
	fmt.Fprintf(&b, "          \"url\": \"%s\"\n", EscapeJSON(base))
	b.WriteString("        }\n")
	b.WriteString("      }\n")
	b.WriteString("    }\n")
	b.WriteString("    </script>\n")
	return b.String()
}
