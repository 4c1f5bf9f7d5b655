// Package cluster computes the "related lessons" topic cluster for a lesson.
package cluster

import "git.home.luguber.info/inful/pillarsync/internal/pillar"

// DefaultLimit is the maximum number of related lessons linked from a page.
const DefaultLimit = 5

// Related returns up to DefaultLimit siblings of target from its own domain,
// in pillar order, never including target itself.
func Related(target pillar.PageRecord, g *pillar.Graph) []pillar.PageRecord {
	return RelatedN(target, g, DefaultLimit)
}

// RelatedN is Related with an explicit limit. A non-positive limit yields no
// siblings.
func RelatedN(target pillar.PageRecord, g *pillar.Graph, limit int) []pillar.PageRecord {
	if g == nil || limit <= 0 {
		return nil
	}
	var out []pillar.PageRecord
	for _, sib := range g.Lessons(target.DomainName) {
		if sib.Filename == target.Filename {
			continue
		}
		out = append(out, sib)
		if len(out) == limit {
			break
		}
	}
	return out
}
