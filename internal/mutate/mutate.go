// Package mutate applies ordered, marker-gated markup injections to a page.
//
// Every injection either finds its presence marker and does nothing, or
// splices its payload at the first anchor that exists. Because each payload
// contains its own marker, applying the same injections to the output is a
// no-op and repeated runs converge after the first.
package mutate

import (
	"strings"

	"git.home.luguber.info/inful/pillarsync/internal/htmldoc"
)

// Skip reasons reported in Result.Skipped.
const (
	SkipPresent      = "present"
	SkipPrecondition = "precondition"
	SkipNoAnchor     = "no-anchor"
	SkipEmpty        = "empty-payload"
	SkipNoChange     = "no-change"
)

// Target is an anchor together with the side of it the payload goes on.
type Target struct {
	Anchor    htmldoc.Anchor
	Placement htmldoc.Placement
}

// Before targets the position just before a.
func Before(a htmldoc.Anchor) Target { return Target{Anchor: a, Placement: htmldoc.Before} }

// After targets the position just after a.
func After(a htmldoc.Anchor) Target { return Target{Anchor: a, Placement: htmldoc.After} }

// RewriteFunc edits a parsed page directly. It returns the new markup and
// whether anything changed.
type RewriteFunc func(doc *htmldoc.Document) (string, bool)

// Injection is one named edit.
type Injection struct {
	Name string
	// PresenceMarker is a literal substring; when the page contains it the
	// injection is skipped. Ignored for unconditional injections.
	PresenceMarker string
	// RequiresMarker, when set, must occur in the page for the injection to
	// run at all.
	RequiresMarker string
	// Targets are tried in order; the first anchor found is used.
	Targets []Target
	Payload string
	// Unconditional injections run on every pass. They must carry a Rewrite
	// that is itself idempotent.
	Unconditional bool
	Rewrite       RewriteFunc
}

// SkippedInjection records why an injection did not change the page.
type SkippedInjection struct {
	Name   string
	Reason string
}

// Result is the outcome of Apply.
type Result struct {
	Markup  string
	Changed bool
	Applied []string
	Skipped []SkippedInjection
}

// Apply runs injections against markup in order. Each injection sees the
// output of the ones before it. Missing anchors skip the injection; Apply
// never fails.
func Apply(markup string, injections []Injection) Result {
	res := Result{Markup: markup}
	for _, inj := range injections {
		out, reason := inj.apply(res.Markup)
		if reason != "" {
			res.Skipped = append(res.Skipped, SkippedInjection{Name: inj.Name, Reason: reason})
			continue
		}
		res.Markup = out
		res.Applied = append(res.Applied, inj.Name)
	}
	res.Changed = res.Markup != markup
	return res
}

func (inj Injection) apply(markup string) (string, string) {
	if inj.RequiresMarker != "" && !strings.Contains(markup, inj.RequiresMarker) {
		return markup, SkipPrecondition
	}
	if !inj.Unconditional && inj.PresenceMarker != "" && strings.Contains(markup, inj.PresenceMarker) {
		return markup, SkipPresent
	}
	doc := htmldoc.Parse(markup)
	if inj.Rewrite != nil {
		out, changed := inj.Rewrite(doc)
		if !changed || out == markup {
			return markup, SkipNoChange
		}
		return out, ""
	}
	if inj.Payload == "" {
		return markup, SkipEmpty
	}
	for _, t := range inj.Targets {
		if out, ok := doc.Insert(t.Anchor, t.Placement, inj.Payload); ok {
			return out, ""
		}
	}
	return markup, SkipNoAnchor
}
