// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/songgrab/pkg/types"
)

// FormatTable writes candidates as a human-readable table to w. The Fits
// column marks candidates within maxSeconds.
func FormatTable(candidates []types.Candidate, maxSeconds int, w io.Writer) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-8s  %-4s  %s\n", "Rank", "Title", "Length", "Fits", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	fits := 0
	for i, c := range candidates {
		mark := "no"
		if c.DurationSeconds <= maxSeconds {
			mark = "yes"
			fits++
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-8s  %-4s  %s\n",
			i+1, truncate(c.Title, 50), c.Clock(), mark, c.URL)
	}

	fmt.Fprintf(w, "\n%d results, %d within %s\n", len(candidates), fits,
		types.Candidate{DurationSeconds: maxSeconds}.Clock())
}

// FormatJSON writes candidates as indented JSON to w.
func FormatJSON(candidates []types.Candidate, w io.Writer) error {
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
