// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/songgrab/pkg/types"
)

const defaultConfigFile = "songgrab.yaml"

// setDefaults registers every configuration key with its default so that
// config files, SONGGRAB_* environment variables, and bound flags can all
// override it.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.referer", d.HTTP.Referer)
	v.SetDefault("http.origin", d.HTTP.Origin)
	v.SetDefault("http.accept", d.HTTP.Accept)
	v.SetDefault("http.accept_language", d.HTTP.AcceptLanguage)
	v.SetDefault("http.connection", d.HTTP.Connection)

	v.SetDefault("search.endpoint", d.Search.Endpoint)
	v.SetDefault("search.homepage", d.Search.Homepage)
	v.SetDefault("search.page", d.Search.Page)
	v.SetDefault("search.page_size", d.Search.PageSize)
	v.SetDefault("search.max_retries", d.Search.MaxRetries)
	v.SetDefault("search.retry_base_delay", d.Search.RetryBaseDelay)

	v.SetDefault("download.binary", d.Download.Binary)
	v.SetDefault("download.audio_format", d.Download.AudioFormat)
	v.SetDefault("download.retries", d.Download.Retries)
	v.SetDefault("download.check_certificate", d.Download.CheckCertificate)
	v.SetDefault("download.show_progress", d.Download.ShowProgress)

	v.SetDefault("batch.songs_file", d.Batch.SongsFile)
	v.SetDefault("batch.output_dir", d.Batch.OutputDir)
	v.SetDefault("batch.max_duration", d.Batch.MaxDuration)
	v.SetDefault("batch.max_attempts", d.Batch.MaxAttempts)
	v.SetDefault("batch.delay", d.Batch.Delay)
}

// loadConfig builds the effective configuration from v and validates it.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// bindFlags binds the named flags of fs to configuration keys. Flags the
// command does not define are skipped.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", flag, err)
		}
	}
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the songgrab configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration as YAML",
	Long: `Init writes every setting with its default value to a YAML file
(default ./songgrab.yaml). Edit the file to change headers, thresholds, or
the yt-dlp invocation. Existing files are kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		return writeYAML(cmd.OutOrStdout(), cfg)
	},
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := defaultConfigFile
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := writeConfigFile(path, types.DefaultConfig(), force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}

// writeConfigFile marshals cfg to path. It refuses to replace an existing
// file unless force is set.
func writeConfigFile(path string, cfg types.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func writeYAML(w io.Writer, cfg types.Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling configuration: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
