// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the songgrab pipeline:
// search candidates, download outcomes, and the immutable run configuration.
package types

import "fmt"

// Candidate is one search result that may serve as the audio source for a song.
type Candidate struct {
	// Title is the video title as returned by the search API.
	Title string `json:"title" yaml:"title"`

	// URL is the video page URL handed to the downloader.
	URL string `json:"url" yaml:"url"`

	// DurationSeconds is the parsed video length; never negative.
	DurationSeconds int `json:"duration_seconds" yaml:"duration_seconds"`
}

// Clock formats the duration as M:SS, e.g. "3:45" or "62:03".
func (c Candidate) Clock() string {
	return fmt.Sprintf("%d:%02d", c.DurationSeconds/60, c.DurationSeconds%60)
}

// DownloadOutcome is the result of one download attempt.
type DownloadOutcome struct {
	Success bool

	// Attempt is the 1-based index of the candidate tried for this song.
	Attempt int

	// Diagnostic holds the downloader's captured error output on failure.
	Diagnostic string
}
