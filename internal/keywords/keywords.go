// Package keywords turns free text into normalized keyword sets and provides
// the set algebra the historian and consensus scorer rank with.
package keywords

import (
	"sort"
	"strings"
)

// Set is a normalized keyword set. Membership only; no frequency, no order.
type Set map[string]struct{}

const minTokenLen = 3

// stopWords are discarded during extraction. The list is fixed; callers that
// need a different vocabulary should filter the returned set instead.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a an the and or but in on at to for of with by from is it that this
		was are be has had have will would could should may might can do does
		did not no so if as we i you they he she my your our their its what
		which who how when where why all each every both few more most other
		some such than too very just about above after again also am any
		because been before being between down during even get going got here
		him his into like make me much need new now only one out over own
		really right same say see still take tell then there these thing
		think those through time up us use want way well were while`) {
		stopWords[w] = struct{}{}
	}
}

// Extract lowercases text, pulls maximal runs of alphabetic characters, and
// drops stop words and tokens shorter than three characters. Degenerate input
// yields an empty set, never an error.
func Extract(text string) Set {
	set := Set{}
	lower := strings.ToLower(text)

	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := lower[start:end]
		start = -1
		if len(word) < minTokenLen {
			return
		}
		if _, stop := stopWords[word]; stop {
			return
		}
		set[word] = struct{}{}
	}

	for i, r := range lower {
		if r >= 'a' && r <= 'z' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(lower))

	return set
}

// Intersect returns the keywords present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := Set{}
	for w := range small {
		if _, ok := large[w]; ok {
			out[w] = struct{}{}
		}
	}
	return out
}

// Union returns the keywords present in either set.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for w := range s {
		out[w] = struct{}{}
	}
	for w := range other {
		out[w] = struct{}{}
	}
	return out
}

// Jaccard computes |A∩B| / |A∪B|. Two empty sets score 0 by definition so the
// metric stays total.
func Jaccard(a, b Set) float64 {
	union := a.Union(b)
	if len(union) == 0 {
		return 0
	}
	return float64(len(a.Intersect(b))) / float64(len(union))
}

// Sorted returns the set's members in lexical order, for stable JSON output.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
