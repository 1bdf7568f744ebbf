// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the heic2jpeg CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --log-level before any command runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "heic2jpeg",
	ReportTimestamp: true,
	TimeFormat:      time.TimeOnly,
})

// rootCmd converts HEIC files; it is also the parent of version.
var rootCmd = &cobra.Command{
	Use:   "heic2jpeg <input-path> [output-path]",
	Short: "Batch-convert HEIC images to JPEG",
	Long: `heic2jpeg converts a single HEIC file or every HEIC file directly inside a
directory to JPEG.

With only an input path, JPEGs are written next to the sources. A second
argument names the output: an existing directory, a directory to create (a
path ending in a separator or without an extension), or, for a single input
file, the exact JPEG path to write. Existing files are never overwritten by
name: directory runs skip HEIC files whose JPEG already exists.`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		levelName := viper.GetString("log_level")
		level, err := log.ParseLevel(levelName)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", levelName, err)
		}
		logger.SetLevel(level)
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./heic2jpeg.yaml or ~/.config/heic2jpeg/heic2jpeg.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("heic2jpeg")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "heic2jpeg"))
		}
	}

	viper.SetEnvPrefix("HEIC2JPEG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
