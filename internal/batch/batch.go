// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives the per-song pipeline: search, filter by duration,
// then try up to a fixed number of candidates until one downloads.
//
// Songs are processed strictly one after another. Every failure after the
// song list has been read is handled at song granularity: it is logged and
// the batch moves on.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/pdiddy/songgrab/internal/search"
	"github.com/pdiddy/songgrab/pkg/types"
)

// Searcher returns candidate videos for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, page, pageSize int) ([]types.Candidate, error)
}

// Downloader fetches the audio of one candidate. attempt is 1-based.
type Downloader interface {
	Download(ctx context.Context, videoURL, outputTemplate string, attempt int) types.DownloadOutcome
}

// State is the terminal state of one song's pipeline pass.
type State string

const (
	StateDownloaded State = "downloaded"
	StateNoResults  State = "no_results"
	StateTooLong    State = "no_short_candidate"
	StateExhausted  State = "exhausted"
	StateCancelled  State = "cancelled"
)

// SongResult records how one song's pass ended.
type SongResult struct {
	Song     string
	State    State
	Attempts int

	// Template is the output template of the successful attempt.
	Template string
}

var (
	headColor = color.New(color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// Runner runs the pipeline over a song list.
type Runner struct {
	searcher   Searcher
	downloader Downloader
	page       int
	pageSize   int
	cfg        types.BatchConfig
	w          io.Writer
}

// NewRunner wires a searcher and a downloader into a Runner. Progress lines
// go to w.
func NewRunner(s Searcher, d Downloader, searchCfg types.SearchConfig, cfg types.BatchConfig, w io.Writer) *Runner {
	if w == nil {
		w = io.Discard
	}
	page := searchCfg.Page
	if page < 1 {
		page = 1
	}
	pageSize := searchCfg.PageSize
	if pageSize < 1 {
		pageSize = types.DefaultPageSize
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = types.DefaultMaxAttempts
	}
	return &Runner{
		searcher:   s,
		downloader: d,
		page:       page,
		pageSize:   pageSize,
		cfg:        cfg,
		w:          w,
	}
}

// Run processes songs in order and returns one result per song started.
// It stops early only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, songs []string) []SongResult {
	results := make([]SongResult, 0, len(songs))
	for i, song := range songs {
		if i > 0 && r.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(r.cfg.Delay):
			}
		}
		if ctx.Err() != nil {
			results = append(results, SongResult{Song: song, State: StateCancelled})
			break
		}
		results = append(results, r.ProcessSong(ctx, song))
	}
	return results
}

// ProcessSong runs search, filter, and download-with-fallback for one song.
func (r *Runner) ProcessSong(ctx context.Context, song string) SongResult {
	headColor.Fprintf(r.w, "\nProcessing: %s\n", song)
	res := SongResult{Song: song}

	candidates, err := r.searcher.Search(ctx, song, r.page, r.pageSize)
	switch {
	case search.IsAPIError(err):
		warnColor.Fprintf(r.w, "Search refused for '%s': %v\n", song, err)
	case err != nil:
		warnColor.Fprintf(r.w, "Search failed for '%s': %v\n", song, err)
	}
	if len(candidates) == 0 {
		warnColor.Fprintf(r.w, "No search results for '%s'\n", song)
		res.State = StateNoResults
		return res
	}

	short := search.Filter(candidates, r.cfg.MaxDuration)
	if len(short) == 0 {
		warnColor.Fprintf(r.w, "No video under %s found for '%s'\n", describeCeiling(r.cfg.MaxDuration), song)
		res.State = StateTooLong
		return res
	}

	tries := short
	if len(tries) > r.cfg.MaxAttempts {
		tries = tries[:r.cfg.MaxAttempts]
	}
	template := OutputTemplate(r.cfg.OutputDir, song)

	for i, c := range tries {
		if ctx.Err() != nil {
			res.State = StateCancelled
			return res
		}
		attempt := i + 1
		fmt.Fprintf(r.w, "Trying video %d: %s (%s)\n", attempt, c.Title, c.Clock())
		res.Attempts = attempt

		out := r.downloader.Download(ctx, c.URL, template, attempt)
		if out.Success {
			res.State = StateDownloaded
			res.Template = template
			return res
		}
		if attempt < len(tries) {
			fmt.Fprintln(r.w, "Download failed, trying next video...")
		}
	}

	failColor.Fprintf(r.w, "Could not download any video for '%s' after %d attempts.\n", song, res.Attempts)
	res.State = StateExhausted
	return res
}

// WriteSummary prints the closing line of a batch run.
func WriteSummary(w io.Writer, results []SongResult) {
	counts := make(map[State]int)
	for _, r := range results {
		counts[r.State]++
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d without candidates, %d exhausted, %d cancelled (total: %d)\n",
		counts[StateDownloaded],
		counts[StateNoResults]+counts[StateTooLong],
		counts[StateExhausted],
		counts[StateCancelled],
		len(results))
}

// describeCeiling renders the duration ceiling for log lines.
func describeCeiling(seconds int) string {
	if seconds > 0 && seconds%60 == 0 {
		return fmt.Sprintf("%d minutes", seconds/60)
	}
	return fmt.Sprintf("%d seconds", seconds)
}
