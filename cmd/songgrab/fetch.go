// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songgrab/internal/batch"
	"github.com/pdiddy/songgrab/internal/download"
	"github.com/pdiddy/songgrab/internal/httputil"
	"github.com/pdiddy/songgrab/internal/search"
	"github.com/pdiddy/songgrab/internal/secrets"
	"github.com/pdiddy/songgrab/pkg/types"
)

var warnColor = color.New(color.FgYellow)

var fetchCmd = &cobra.Command{
	Use:   "fetch [songs-file]",
	Short: "Download audio for every song in a list",
	Long: `Fetch reads song titles from a text file (default songs.txt), searches
Bilibili for each one, filters out videos longer than the duration ceiling
(default 10 minutes), and runs yt-dlp on up to three candidates per song,
stopping at the first successful download. Audio files are written as
<title>.<ext> in the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

// fetchFlagKeys maps fetch flags to configuration keys.
var fetchFlagKeys = map[string]string{
	"output-dir":    "batch.output_dir",
	"max-duration":  "batch.max_duration",
	"max-attempts":  "batch.max_attempts",
	"delay":         "batch.delay",
	"page-size":     "search.page_size",
	"yt-dlp":        "download.binary",
	"audio-format":  "download.audio_format",
	"show-progress": "download.show_progress",
}

func addFetchFlags(cmd *cobra.Command) {
	d := types.DefaultConfig()
	cmd.Flags().String("output-dir", d.Batch.OutputDir, "directory for downloaded audio")
	cmd.Flags().Int("max-duration", d.Batch.MaxDuration, "skip videos longer than this many seconds")
	cmd.Flags().Int("max-attempts", d.Batch.MaxAttempts, "candidates to try per song")
	cmd.Flags().Duration("delay", d.Batch.Delay, "pause between songs")
	cmd.Flags().Int("page-size", d.Search.PageSize, "search results requested per song")
	cmd.Flags().String("yt-dlp", d.Download.Binary, "yt-dlp executable")
	cmd.Flags().String("audio-format", d.Download.AudioFormat, "audio codec for extracted files")
	cmd.Flags().Bool("show-progress", d.Download.ShowProgress, "stream yt-dlp output instead of capturing it")
}

func init() {
	addFetchFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd.Flags(), fetchFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	path := cfg.Batch.SongsFile
	if len(args) == 1 {
		path = args[0]
	}
	out := cmd.OutOrStdout()

	songs, err := batch.ReadSongs(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(out, "File not found: %s\n", path)
			return fmt.Errorf("song list %s not found", path)
		}
		return err
	}
	if len(songs) == 0 {
		fmt.Fprintf(out, "No songs listed in %s\n", path)
		return nil
	}

	if cfg.Batch.OutputDir != "" {
		if err := os.MkdirAll(cfg.Batch.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", cfg.Batch.OutputDir, err)
		}
	}

	ctx := cmd.Context()
	searcher, err := newSearchClient(cmd, cfg)
	if err != nil {
		return err
	}
	if err := searcher.WarmUp(ctx); err != nil {
		warnColor.Fprintf(out, "Warning: Could not fetch homepage cookies: %v\n", err)
	}

	inv := download.NewInvoker(cfg.Download, cfg.HTTP, out)
	if err := inv.Available(); err != nil {
		warnColor.Fprintf(out, "Warning: %v; downloads will fail\n", err)
	}

	results := batch.NewRunner(searcher, inv, cfg.Search, cfg.Batch, out).Run(ctx, songs)
	batch.WriteSummary(out, results)
	return nil
}

// newSearchClient builds the shared cookie session, seeds it with cookies
// from .secrets/, and wraps it in a search client.
func newSearchClient(cmd *cobra.Command, cfg types.Config) (*search.Client, error) {
	client, err := httputil.NewSessionClient(cfg.HTTP.Timeout)
	if err != nil {
		return nil, err
	}
	seedCookies(client, cfg.Search.Homepage, cmd.ErrOrStderr())
	return search.NewClient(client, cfg.HTTP, cfg.Search, cmd.ErrOrStderr()), nil
}

func seedCookies(client *http.Client, homepage string, warn io.Writer) {
	if homepage == "" {
		return
	}
	for _, c := range secrets.Cookies(loadedSecrets) {
		if err := httputil.SetCookie(client, homepage, c.Name, c.Value); err != nil {
			fmt.Fprintf(warn, "warning: could not set cookie %s: %v\n", c.Name, err)
		}
	}
}
