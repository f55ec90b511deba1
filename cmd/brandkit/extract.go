package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jo-hoe/brandkit/internal/core"
	"github.com/jo-hoe/brandkit/internal/fetch"
	"github.com/jo-hoe/brandkit/internal/output"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagOutputDir string
	flagMaxImages int
	flagQRSize    int
	flagTimeout   int
	flagLogLevel  string
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract logo, palette, images and QR code for a URL",
	Long: `Extract fetches the page once and runs the logo, palette, image and QR stages.
A stage that fails falls back to its default, so the command always writes at least
palette.json.

Examples:
  brandkit extract https://example.com
  brandkit extract https://example.com --output_dir ./out --max_images 3
  brandkit extract https://example.com --qr_size 400 --log_level debug`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	defaults := core.DefaultConfig()
	extractCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
	extractCmd.Flags().IntVar(&flagMaxImages, "max_images", defaults.Extraction.MaxImages, "Maximum number of curated images")
	extractCmd.Flags().IntVar(&flagQRSize, "qr_size", defaults.Extraction.QRSize, "QR code edge length in pixels")
	extractCmd.Flags().IntVar(&flagTimeout, "timeout", defaults.Fetch.TimeoutSeconds, "Per-request timeout in seconds")
	extractCmd.Flags().StringVar(&flagLogLevel, "log_level", "warn", "Log level: debug, info, warn or error")
}

func runExtract(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if !fetch.IsHTTP(rawURL) {
		return fmt.Errorf("invalid URL: %s (must include scheme, e.g. https://example.com)", rawURL)
	}

	config, err := buildConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.SlogLevel()})))

	writer, err := output.New(flagOutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	result := core.NewService(config, nil, nil).Extract(cmd.Context(), rawURL)

	paths, err := writer.WriteAssets(rawURL, result)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "palette (%s): %s %s %s\n",
		result.PaletteSource,
		result.Palette.Primary.Hex(),
		result.Palette.Secondary.Hex(),
		result.Palette.Accent.Hex())
	return nil
}

// buildConfig applies the flags on top of the defaults and validates the result.
func buildConfig() (*core.ServiceConfig, error) {
	config := core.DefaultConfig()
	config.LogLevel = flagLogLevel
	config.Fetch.TimeoutSeconds = flagTimeout
	config.Extraction.MaxImages = flagMaxImages
	config.Extraction.QRSize = flagQRSize

	if flagTimeout <= 0 {
		return nil, fmt.Errorf("--timeout must be positive")
	}
	if flagQRSize <= 0 {
		return nil, fmt.Errorf("--qr_size must be positive")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return config, nil
}
