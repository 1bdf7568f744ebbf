// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/heic2jpeg/internal/codec"
	"github.com/pdiddy/heic2jpeg/internal/convert"
	"github.com/pdiddy/heic2jpeg/internal/plan"
	"github.com/pdiddy/heic2jpeg/pkg/types"
)

func init() {
	flags := rootCmd.Flags()
	flags.String("backend", string(types.BackendMagick), "codec backend: magick, container, or native")
	flags.Int("extent-kb", types.DefaultExtentKB, "maximum JPEG size in kilobytes handed to the encoder")
	flags.Int("workers", 0, "concurrent conversions in directory mode (default: number of CPUs)")
	flags.Bool("fail-fast", false, "stop starting conversions after the first failure")
	flags.String("image", types.DefaultContainerImage, "ImageMagick image for the container backend")
	flags.String("report", "", "write a YAML (or .json) report of the run to this path")

	for key, flag := range map[string]string{
		"backend":   "backend",
		"extent_kb": "extent-kb",
		"workers":   "workers",
		"fail_fast": "fail-fast",
		"image":     "image",
		"report":    "report",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// loadConfig materialises the merged flag, environment, and file settings.
func loadConfig() (types.ConversionConfig, error) {
	var cfg types.ConversionConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	return cfg, cfg.Validate()
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := plan.Resolve(args)
	if err != nil {
		return err
	}

	c, err := codec.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("preparing %s backend: %w", cfg.Backend, err)
	}

	opts := convert.Options{
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
		Logger:   logger,
	}
	result, runErr := convert.Run(ctx, p, c, opts, cmd.OutOrStdout())

	if cfg.ReportPath != "" {
		if err := convert.WriteReport(cfg.ReportPath, convert.NewReport(p, c.Name(), result)); err != nil {
			logger.Error("writing report", "path", cfg.ReportPath, "err", err)
		} else {
			logger.Info("report written", "path", cfg.ReportPath)
		}
	}

	if runErr != nil && result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion: %w", result.Failed, runErr)
	}
	return runErr
}
