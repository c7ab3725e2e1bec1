// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gabcplay CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gabcplay/internal/pipeline"
	"github.com/pdiddy/gabcplay/internal/toolchain"
	"github.com/pdiddy/gabcplay/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gabcplay CLI.
var rootCmd = &cobra.Command{
	Use:   "gabcplay",
	Short: "Hear Gregorio chant notation",
	Long: `gabcplay turns Gregorio GABC notation (.gabc files, or \gabcsnippet{}
blocks embedded in TeX documents) into an audible rendition by chaining three
external tools: the parse_gabc.py notation parser, the lilypond typesetting
engine, and the timidity MIDI player.

Each run is recorded in a local history database; use the history subcommand
to inspect or export past runs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gabcplay.yaml or ~/.config/gabcplay/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gabcplay")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gabcplay"))
		}
	}

	viper.SetEnvPrefix("GABCPLAY")
	viper.AutomaticEnv()

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.max_results", 20)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// toolchainConfig builds the tool locations from viper. An unset tools_dir
// falls back to the executable's directory inside toolchain.New.
func toolchainConfig() toolchain.Config {
	return toolchain.Config{
		ToolsDir: viper.GetString("tools_dir"),
		Python:   viper.GetString("python"),
		Engine:   viper.GetString("engine"),
		Player:   viper.GetString("player"),
	}
}

// historyConfig builds the history settings from viper. The database defaults
// to ~/.local/share/gabcplay/history.db, falling back to the working
// directory when no home is available.
func historyConfig() types.HistoryConfig {
	cfg := types.HistoryConfig{
		Enabled:    viper.GetBool("history.enabled"),
		DBPath:     viper.GetString("history.db_path"),
		MaxResults: viper.GetInt("history.max_results"),
	}
	if cfg.DBPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DBPath = filepath.Join(home, ".local", "share", "gabcplay", "history.db")
		} else {
			cfg.DBPath = "gabcplay-history.db"
		}
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// A failed external tool decides the process exit code.
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) && stageErr.Code > 0 {
			os.Exit(stageErr.Code)
		}
		os.Exit(1)
	}
}
