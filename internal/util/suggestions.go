/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package util

import (
	"math"
	"sort"
	"strings"
)

// maxSuggestions limits the number of names listed by DidYouMean.
const maxSuggestions = 5

// DidYouMean returns ` Did you mean "a", "b", or "c"?` listing the options that are close to input,
// or an empty string if none is. The leading space lets callers append it to a message directly.
func DidYouMean(input string, options []string) string {
	suggestions := SuggestionList(input, options)
	if len(suggestions) == 0 {
		return ""
	}
	return " Did you mean " + QuotedOrList(suggestions, maxSuggestions) + "?"
}

// QuotedOrList transforms ["A", "B", "C"] into `"A", "B", or "C"`. If limit is positive, only the
// first limit items are listed.
func QuotedOrList(items []string, limit int) string {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			if len(items) > 2 {
				b.WriteString(", ")
			} else {
				b.WriteString(" ")
			}
			if i == len(items)-1 {
				b.WriteString("or ")
			}
		}
		b.WriteString(`"`)
		b.WriteString(item)
		b.WriteString(`"`)
	}
	return b.String()
}

// SuggestionList given an invalid input string and a list of valid options, returns a filtered
// list of valid options sorted based on their similarity with the input. Options at the same
// distance keep their relative order.
func SuggestionList(input string, options []string) []string {
	type candidate struct {
		option   string
		distance int
	}

	var candidates []candidate
	inputThreshold := float64(len(input)) / 2.0
	for _, option := range options {
		distance := lexicalDistance(input, option)
		threshold := math.Max(math.Max(inputThreshold, float64(len(option))/2.0), 1)
		if float64(distance) <= threshold {
			candidates = append(candidates, candidate{option, distance})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	result := make([]string, len(candidates))
	for i := range candidates {
		result[i] = candidates[i].option
	}
	return result
}

// lexicalDistance counts the minimum number of edits needed to transform a into b. An edit is an
// insertion, a deletion, a substitution, or a swap of two adjacent characters. A change of case
// alone counts as a single edit.
func lexicalDistance(aStr string, bStr string) int {
	if aStr == bStr {
		return 0
	}

	a := strings.ToLower(aStr)
	b := strings.ToLower(bStr)
	if a == b {
		return 1
	}

	d := make([][]int, len(a)+1)
	for i := range d {
		d[i] = make([]int, len(b)+1)
		d[i][0] = i
	}
	for j := 1; j <= len(b); j++ {
		d[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			best := min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)

			// Adjacent swap
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				best = min(best, d[i-2][j-2]+cost)
			}

			d[i][j] = best
		}
	}

	return d[len(a)][len(b)]
}
