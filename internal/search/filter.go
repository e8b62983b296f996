// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "github.com/pdiddy/songgrab/pkg/types"

// Filter returns the candidates no longer than maxSeconds, in their original
// order. The input is not modified.
func Filter(candidates []types.Candidate, maxSeconds int) []types.Candidate {
	out := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.DurationSeconds <= maxSeconds {
			out = append(out, c)
		}
	}
	return out
}
