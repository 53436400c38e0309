// Package main provides the cvforge command: the editing server and offline polish/render tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cvforge",
	Short:         "CV editor, polisher and renderer",
	Long:          "cvforge serves an editing API for CVs with live HTML previews, AI polishing through Gemini or NVIDIA, and PDF export.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON config file (environment variables override it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
