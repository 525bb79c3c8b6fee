// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package suggest finds the closest known name for a misspelled one.
package suggest

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxEdits bounds how different a candidate may be when it is not a fuzzy
// (subsequence) match.
const maxEdits = 2

// Closest returns the candidate that best matches target, or "" if nothing
// is close. Candidates containing target's characters in order win first;
// otherwise the candidate within maxEdits edits is used.
func Closest(target string, candidates []string) string {
	if target == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", maxEdits+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(target, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
