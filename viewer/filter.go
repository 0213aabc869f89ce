package viewer

import (
	"slices"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"sphv/sphinx"
)

// match is TOC entry selected by the filter.
type match struct {
	entry     int
	score     int
	positions []int // rune positions in the title
}

type filter struct {
	slab *util.Slab
}

func newFilter() *filter {
	algo.Init("default")
	return &filter{slab: util.MakeSlab(16384, 1024)}
}

// apply returns entries fuzzy matching query, best first. Query with upper
// case letters is matched case sensitively.
func (f *filter) apply(toc []sphinx.TocEntry, query string) []match {
	if len(query) == 0 {
		out := make([]match, len(toc))
		for i := range toc {
			out[i] = match{entry: i}
		}
		return out
	}

	caseSensitive := strings.IndexFunc(query, unicode.IsUpper) >= 0
	pattern := []rune(query)
	if !caseSensitive {
		pattern = []rune(strings.ToLower(query))
	}

	var out []match
	for i, e := range toc {
		chars := util.ToChars([]byte(e.Title))
		res, pos := algo.FuzzyMatchV2(caseSensitive, false, true, &chars, pattern, true, f.slab)
		if res.Start < 0 {
			continue
		}
		m := match{entry: i, score: res.Score}
		if pos != nil {
			m.positions = slices.Clone(*pos)
			slices.Sort(m.positions)
		}
		out = append(out, m)
	}
	slices.SortStableFunc(out, func(a, b match) int {
		return b.score - a.score
	})
	return out
}
