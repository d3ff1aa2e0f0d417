// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestDistance = 2

// suggest returns the candidate closest to word, or "" if nothing is close.
func suggest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}
	// Abbreviations such as "bld" for "build".
	if len(word) >= 3 {
		ranks := fuzzy.RankFindFold(word, candidates)
		if len(ranks) > 0 {
			sort.Sort(ranks)
			return ranks[0].Target
		}
	}
	best, bestDist := "", maxSuggestDistance+1
	lw := strings.ToLower(word)
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(lw, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
