// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the songgrab CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/songgrab/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds optional cookie files (see internal/secrets).
const secretsDir = ".secrets/"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the songgrab CLI. Run without a
// subcommand it behaves like "songgrab fetch".
var rootCmd = &cobra.Command{
	Use:   "songgrab [songs-file]",
	Short: "Batch-download song audio from Bilibili search results",
	Long: `songgrab reads a list of song titles (one per line, default songs.txt),
searches Bilibili for each title, keeps videos no longer than the duration
ceiling, and asks yt-dlp to extract audio from the first candidate that
downloads successfully. Up to three candidates are tried per song.

Failures are reported per song; only a missing song list stops the run.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}
		s, err := secrets.Load(secretsDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	RunE: runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./songgrab.yaml or ~/.config/songgrab/songgrab.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	addFetchFlags(rootCmd)
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("songgrab")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "songgrab"))
		}
	}

	viper.SetEnvPrefix("SONGGRAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: could not read config file %s: %v\n", cfgFile, err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
