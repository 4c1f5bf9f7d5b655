package cluster

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pillarsync/internal/pillar"
)

func pillarWith(domains map[string]int, order ...string) string {
	var b strings.Builder
	for _, d := range order {
		fmt.Fprintf(&b, `<div class="topic-section"><h2>%s</h2><ul>`, d)
		for i := range domains[d] {
			fmt.Fprintf(&b, `<li><a href="pages/%s-%d.html">%s %d</a></li>`, d, i, d, i)
		}
		b.WriteString(`</ul></div>`)
	}
	return b.String()
}

func filenames(recs []pillar.PageRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Filename)
	}
	return out
}

func TestRelatedTwoLessonDomain(t *testing.T) {
	g := pillar.Parse(`<div class="topic-section"><h2>1.0 Hardware</h2><ul>
<li><a href="pages/intro.html">Intro</a></li>
<li><a href="pages/cpu.html">CPU Basics</a></li></ul></div>`, "k")

	intro, ok := g.Lookup("intro.html")
	require.True(t, ok)
	cpu, ok := g.Lookup("cpu.html")
	require.True(t, ok)

	assert.Equal(t, []string{"cpu.html"}, filenames(Related(intro, g)))
	assert.Equal(t, []string{"intro.html"}, filenames(Related(cpu, g)))
}

func TestRelatedBoundAndExclusion(t *testing.T) {
	for size := 1; size <= 9; size++ {
		g := pillar.Parse(pillarWith(map[string]int{"d": size, "other": 3}, "d", "other"), "k")
		lessons := g.Lessons("d")
		require.Len(t, lessons, size)

		for pos, target := range lessons {
			got := Related(target, g)

			assert.LessOrEqual(t, len(got), DefaultLimit)
			assert.Len(t, got, min(size-1, DefaultLimit))
			assert.NotContains(t, filenames(got), target.Filename)

			// Pillar order with the target removed, truncated.
			var want []string
			for i, l := range lessons {
				if i != pos {
					want = append(want, l.Filename)
				}
			}
			if len(want) > DefaultLimit {
				want = want[:DefaultLimit]
			}
			assert.Equal(t, want, filenames(got), "size=%d pos=%d", size, pos)
			for _, r := range got {
				assert.Equal(t, "d", r.DomainName)
			}
		}
	}
}

func TestRelatedN(t *testing.T) {
	g := pillar.Parse(pillarWith(map[string]int{"d": 4}, "d"), "k")
	target := g.Lessons("d")[0]

	assert.Len(t, RelatedN(target, g, 2), 2)
	assert.Empty(t, RelatedN(target, g, 0))
	assert.Empty(t, RelatedN(target, nil, 3))
}

func TestRelatedUnknownDomain(t *testing.T) {
	g := pillar.Parse(pillarWith(map[string]int{"d": 2}, "d"), "k")
	assert.Empty(t, Related(pillar.PageRecord{Filename: "x.html", DomainName: "nope"}, g))
}
