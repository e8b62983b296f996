// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/songgrab/pkg/types"
)

func init() {
	color.NoColor = true
}

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	runFunc       func(name string, args []string, stdout, stderr io.Writer) error
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, name string, args []string, stdout, stderr io.Writer) error {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.runFunc != nil {
		return m.runFunc(name, args, stdout, stderr)
	}
	return nil
}

func testInvoker(exec *mockExecutor, log io.Writer) *Invoker {
	cfg := types.DefaultConfig()
	return newInvoker(cfg.Download, cfg.HTTP, log, exec)
}

func TestArgs(t *testing.T) {
	inv := testInvoker(&mockExecutor{}, nil)

	got := inv.Args("https://www.bilibili.com/video/BV1xx", "My Song.%(ext)s")

	want := []string{
		"-x",
		"--audio-format", "mp3",
		"--user-agent", types.DefaultUserAgent,
		"--referer", "https://www.bilibili.com",
		"--add-header", "Origin:https://www.bilibili.com",
		"--add-header", "Accept:" + types.DefaultAccept,
		"--add-header", "Accept-Language:" + types.DefaultAcceptLanguage,
		"--no-check-certificate",
		"--retries", "5",
		"--fragment-retries", "5",
		"-o", "My Song.%(ext)s",
		"https://www.bilibili.com/video/BV1xx",
	}
	assert.Equal(t, want, got)
}

func TestArgsOptionalParts(t *testing.T) {
	cfg := types.DownloadConfig{Binary: "yt-dlp", AudioFormat: "opus", Retries: 2, CheckCertificate: true}
	inv := newInvoker(cfg, types.HTTPConfig{UserAgent: "UA"}, nil, &mockExecutor{})

	got := inv.Args("u", "o.%(ext)s")

	assert.Equal(t, []string{
		"-x",
		"--audio-format", "opus",
		"--user-agent", "UA",
		"--retries", "2",
		"--fragment-retries", "2",
		"-o", "o.%(ext)s",
		"u",
	}, got)
}

func TestDownloadSuccess(t *testing.T) {
	exec := &mockExecutor{}
	var log bytes.Buffer
	inv := testInvoker(exec, &log)

	out := inv.Download(context.Background(), "u1", "A.%(ext)s", 1)

	assert.Equal(t, types.DownloadOutcome{Success: true, Attempt: 1}, out)
	require.Len(t, exec.calls, 1)
	assert.Equal(t, "yt-dlp", exec.calls[0][0])
	assert.Contains(t, log.String(), "Download attempt 1 for u1")
	assert.Contains(t, log.String(), "Downloaded: A.%(ext)s")
}

func TestDownloadFailureCapturesStderr(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(_ string, _ []string, _, stderr io.Writer) error {
			fmt.Fprintln(stderr, "ERROR: [BiliBili] 412: Precondition Failed")
			return errors.New("exit status 1")
		},
	}
	var log bytes.Buffer
	inv := testInvoker(exec, &log)

	out := inv.Download(context.Background(), "u1", "A.%(ext)s", 2)

	assert.False(t, out.Success)
	assert.Equal(t, 2, out.Attempt)
	assert.Equal(t, "ERROR: [BiliBili] 412: Precondition Failed", out.Diagnostic)
	assert.Contains(t, log.String(), "yt-dlp error (attempt 2): ERROR: [BiliBili] 412")
	assert.NotContains(t, log.String(), "Downloaded:")
}

func TestDownloadFailureWithoutStderr(t *testing.T) {
	exec := &mockExecutor{
		runFunc: func(string, []string, io.Writer, io.Writer) error {
			return errors.New(`exec: "yt-dlp": executable file not found in $PATH`)
		},
	}
	out := testInvoker(exec, nil).Download(context.Background(), "u1", "A.%(ext)s", 1)

	assert.False(t, out.Success)
	assert.Contains(t, out.Diagnostic, "executable file not found")
}

func TestDownloadStdoutHandling(t *testing.T) {
	tests := []struct {
		name         string
		showProgress bool
		wantProgress bool
	}{
		{"captured by default", false, false},
		{"streamed when enabled", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{
				runFunc: func(_ string, _ []string, stdout, _ io.Writer) error {
					fmt.Fprintln(stdout, "[download]  42.0% of 3.50MiB")
					return nil
				},
			}
			cfg := types.DefaultConfig()
			cfg.Download.ShowProgress = tt.showProgress
			var log bytes.Buffer
			inv := newInvoker(cfg.Download, cfg.HTTP, &log, exec)

			inv.Download(context.Background(), "u", "o.%(ext)s", 1)

			assert.Equal(t, tt.wantProgress, bytes.Contains(log.Bytes(), []byte("42.0%")))
		})
	}
}

func TestAvailable(t *testing.T) {
	inv := testInvoker(&mockExecutor{availableBins: map[string]bool{"yt-dlp": true}}, nil)
	assert.NoError(t, inv.Available())

	inv = testInvoker(&mockExecutor{}, nil)
	err := inv.Available()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yt-dlp not found on PATH")
}
