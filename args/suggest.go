// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package args

import "strings"

// suggestThreshold is the largest edit distance still offered as a
// suggestion. It catches common typos (transpositions, dropped characters,
// doubled characters) without proposing unrelated names.
const suggestThreshold = 2

// Suggest returns the candidate closest to name by case-insensitive
// Levenshtein distance, or "" when nothing is within the threshold.
// Ties resolve to the lexicographically smallest candidate.
func Suggest(name string, candidates []string) string {
	lower := strings.ToLower(name)

	best := ""
	bestDistance := suggestThreshold + 1
	for _, cand := range candidates {
		if diff := len(cand) - len(name); diff > suggestThreshold || -diff > suggestThreshold {
			continue
		}
		distance := levenshtein(lower, strings.ToLower(cand))
		if distance > suggestThreshold {
			continue
		}
		if distance < bestDistance || (distance == bestDistance && cand < best) {
			bestDistance = distance
			best = cand
		}
	}
	return best
}

// levenshtein computes the edit distance between two strings using two
// rolling rows of the distance matrix, O(min(m,n)) space.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}
