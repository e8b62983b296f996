// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songgrab/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SONGGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songgrab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  timeout: 30s
search:
  page_size: 50
batch:
  max_duration: 420
  output_dir: music
download:
  audio_format: opus
`), 0o644))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 50, cfg.Search.PageSize)
	assert.Equal(t, 420, cfg.Batch.MaxDuration)
	assert.Equal(t, "music", cfg.Batch.OutputDir)
	assert.Equal(t, "opus", cfg.Download.AudioFormat)
	// Untouched keys keep their defaults.
	assert.Equal(t, types.DefaultUserAgent, cfg.HTTP.UserAgent)
	assert.Equal(t, 3, cfg.Batch.MaxAttempts)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SONGGRAB_BATCH_MAX_ATTEMPTS", "5")
	t.Setenv("SONGGRAB_DOWNLOAD_BINARY", "/opt/yt-dlp")

	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Batch.MaxAttempts)
	assert.Equal(t, "/opt/yt-dlp", cfg.Download.Binary)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	v := newTestViper()
	v.Set("search.page_size", 0)

	_, err := loadConfig(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.page_size")
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addFetchFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--max-duration", "300", "--yt-dlp", "yt"}))

	v := newTestViper()
	require.NoError(t, bindFlags(v, cmd.Flags(), fetchFlagKeys))

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Batch.MaxDuration)
	assert.Equal(t, "yt", cfg.Download.Binary)
	assert.Equal(t, 3, cfg.Batch.MaxAttempts)
}

func TestBindFlagsSkipsUnknown(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	assert.NoError(t, bindFlags(viper.New(), cmd.Flags(), map[string]string{"missing": "a.b"}))
}

func TestWriteConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songgrab.yaml")
	require.NoError(t, writeConfigFile(path, types.DefaultConfig(), false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_duration: 600")
	assert.Contains(t, string(data), "timeout: 10s")

	var back types.Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, types.DefaultConfig(), back)

	err = writeConfigFile(path, types.DefaultConfig(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, writeConfigFile(path, types.DefaultConfig(), true))
}

func TestWriteConfigFileReadableByViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songgrab.yaml")
	cfg := types.DefaultConfig()
	cfg.Batch.Delay = 1500 * time.Millisecond
	require.NoError(t, writeConfigFile(path, cfg, false))

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	got, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, types.DefaultConfig()))
	assert.Contains(t, buf.String(), "endpoint: "+types.DefaultSearchEndpoint)
}
