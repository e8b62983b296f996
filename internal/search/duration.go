// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"math"
	"strconv"
	"strings"
)

// ParseDuration converts a search API time code to seconds. "MM:SS" and
// "HH:MM:SS" are accepted. Any other field count, a non-numeric or negative
// field, or a total that does not fit in an int yields 0; the API
// occasionally returns odd time codes and a zero-length candidate is simply
// kept by the duration filter. The result is never negative.
func ParseDuration(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		if total > (math.MaxInt-n)/60 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
