// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download runs yt-dlp to fetch a video page and extract its audio.
// The tool is treated as a black box: an attempt succeeds when the process
// exits zero, and its captured stderr is the diagnostic when it does not.
package download

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/pdiddy/songgrab/pkg/types"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// Invoker builds and runs yt-dlp command lines.
type Invoker struct {
	cfg     types.DownloadConfig
	headers types.HTTPConfig
	exec    executor
	log     io.Writer
}

// NewInvoker returns an Invoker that sends the given browser headers to the
// media host and writes progress lines to log.
func NewInvoker(cfg types.DownloadConfig, headers types.HTTPConfig, log io.Writer) *Invoker {
	return newInvoker(cfg, headers, log, defaultExec)
}

func newInvoker(cfg types.DownloadConfig, headers types.HTTPConfig, log io.Writer, exec executor) *Invoker {
	if log == nil {
		log = io.Discard
	}
	return &Invoker{cfg: cfg, headers: headers, exec: exec, log: log}
}

// Available reports whether the yt-dlp binary can be found on PATH.
func (i *Invoker) Available() error {
	if _, err := i.exec.LookPath(i.cfg.Binary); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", i.cfg.Binary, err)
	}
	return nil
}

// Args returns the yt-dlp argument list for one download. outputTemplate
// may contain yt-dlp's %(ext)s placeholder.
func (i *Invoker) Args(videoURL, outputTemplate string) []string {
	args := []string{
		"-x",
		"--audio-format", i.cfg.AudioFormat,
	}
	if i.headers.UserAgent != "" {
		args = append(args, "--user-agent", i.headers.UserAgent)
	}
	if i.headers.Referer != "" {
		args = append(args, "--referer", i.headers.Referer)
	}
	for _, h := range []struct{ name, value string }{
		{"Origin", i.headers.Origin},
		{"Accept", i.headers.Accept},
		{"Accept-Language", i.headers.AcceptLanguage},
	} {
		if h.value != "" {
			args = append(args, "--add-header", h.name+":"+h.value)
		}
	}
	if !i.cfg.CheckCertificate {
		args = append(args, "--no-check-certificate")
	}
	retries := strconv.Itoa(i.cfg.Retries)
	args = append(args,
		"--retries", retries,
		"--fragment-retries", retries,
		"-o", outputTemplate,
		videoURL,
	)
	return args
}

// Download runs yt-dlp for videoURL, writing to outputTemplate. attempt is
// the 1-based candidate index and only labels the log lines. A failed run is
// reported in the outcome, never as a Go error: the caller moves on to the
// next candidate.
func (i *Invoker) Download(ctx context.Context, videoURL, outputTemplate string, attempt int) types.DownloadOutcome {
	fmt.Fprintf(i.log, "Download attempt %d for %s\n", attempt, videoURL)

	var stdout io.Writer = io.Discard
	if i.cfg.ShowProgress {
		stdout = i.log
	}
	var stderr bytes.Buffer

	err := i.exec.Run(ctx, i.cfg.Binary, i.Args(videoURL, outputTemplate), stdout, &stderr)
	if err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		failColor.Fprintf(i.log, "%s error (attempt %d): %s\n", i.cfg.Binary, attempt, diag)
		return types.DownloadOutcome{Attempt: attempt, Diagnostic: diag}
	}

	okColor.Fprintf(i.log, "Downloaded: %s\n", outputTemplate)
	return types.DownloadOutcome{Success: true, Attempt: attempt}
}
