// Package main provides the entry point for the taste curator CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taste_agent",
	Short: "Taste Curator resolution service",
	Long:  "Taste Curator turns free-text descriptions of cultural preferences into per-category recommendations backed by a cultural knowledge graph, with deterministic regional fallbacks.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
