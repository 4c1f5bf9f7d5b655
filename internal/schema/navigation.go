package schema

import (
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/pillar"
)

// Class names that double as presence markers for the navigation blocks.
const (
	CourseNavClass      = "course-nav-top"
	RelatedLessonsClass = "related-lessons"
)

// CourseHub renders the "part of the course" banner linking back to the
// pillar page, which sits one directory above the lesson.
func CourseHub(courseTitle string) string {
	return "\n        <div class=\"" + CourseNavClass + "\" style=\"margin-bottom: 20px; padding: 10px; background: #f8f9fa; border-left: 4px solid #007bff;\">\n" +
		"            <p>This topic is part of the <strong><a href=\"../index.html\">" + attr(courseTitle) + "</a></strong> study guide.</p>\n" +
		"        </div>\n"
}

// RelatedLessons renders the topic-cluster block for a domain. It returns the
// empty string when there are no siblings to link.
func RelatedLessons(domain string, siblings []pillar.PageRecord) string {
	if len(siblings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<div class=\"" + RelatedLessonsClass + "\" style=\"margin-top: 30px;\">\n")
	b.WriteString("<h3>Related Lessons in " + attr(domain) + "</h3>\n")
	b.WriteString("<ul>")
	for _, sib := range siblings {
		b.WriteString("\n<li><a href=\"" + hrefFor(sib.Filename) + "\">" + attr(sib.Label) + "</a></li>")
	}
	b.WriteString("\n</ul>\n</div>\n")
	return b.String()
}
