package schema

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/pillarsync/internal/pillar"
)

// DefaultFAQHeading is the FAQ section heading; it is also the marker that
// tells a pillar page already has the section.
const DefaultFAQHeading = "Frequently Asked Questions"

// FAQEntry is one question with a Markdown answer.
type FAQEntry struct {
	Question string
	Answer   string
}

// DefaultFAQ returns the stock FAQ entries.
func DefaultFAQ() []FAQEntry {
	return []FAQEntry{
		{Question: "Is this course free?", Answer: "Yes, this is a completely free study guide."},
		{Question: "How do I use these notes?", Answer: "Start from Domain 1.0 and work your way through the lessons. Each lesson links to the next."},
		{Question: "Is this updated?", Answer: "We regularly update content to match the latest exam objectives."},
	}
}

// FAQRenderer turns FAQ entries into the pillar page section. Answers are
// Markdown; raw HTML inside them is dropped.
type FAQRenderer struct {
	md goldmark.Markdown
}

// NewFAQRenderer creates a renderer with GitHub-flavoured Markdown enabled.
func NewFAQRenderer() *FAQRenderer {
	return &FAQRenderer{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Render builds the FAQ section for heading and entries.
func (r *FAQRenderer) Render(heading string, entries []FAQEntry) (string, error) {
	var b strings.Builder
	b.WriteString("\n        <!-- === FAQ Section === -->\n")
	b.WriteString("        <div class=\"" + pillar.SectionClass + " " + pillar.FAQClass + "\">\n")
	b.WriteString("            <h2>" + attr(heading) + "</h2>\n")
	b.WriteString("            <div class=\"faq-content\" style=\"padding: 10px;\">\n")
	for i, e := range entries {
		answer, err := r.answer(e.Answer)
		if err != nil {
			return "", fmt.Errorf("render FAQ answer %d: %w", i+1, err)
		}
		question := "<strong>" + attr(e.Question) + "</strong>"
		if inline, ok := singleParagraph(answer); ok {
			b.WriteString("                <p>" + question + "<br>" + inline + "</p>\n")
			continue
		}
		b.WriteString("                <p>" + question + "</p>\n")
		b.WriteString("                " + strings.TrimSpace(answer) + "\n")
	}
	b.WriteString("            </div>\n")
	b.WriteString("        </div>\n")
	return b.String(), nil
}

func (r *FAQRenderer) answer(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// singleParagraph unwraps "<p>x</p>" when it is the whole rendered answer.
func singleParagraph(rendered string) (string, bool) {
	s := strings.TrimSpace(rendered)
	inner, ok := strings.CutPrefix(s, "<p>")
	if !ok {
		return "", false
	}
	inner, ok = strings.CutSuffix(inner, "</p>")
	if !ok || strings.Contains(inner, "<p>") {
		return "", false
	}
	return inner, true
}
