package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "brandkit",
	Short: "brandkit extracts brand assets from a company website",
	Long: `brandkit fetches a company website and derives a logo, a three-color brand
palette, a set of representative photographs and a brand-colored QR code.

Usage:
  brandkit extract <url> [flags]`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
