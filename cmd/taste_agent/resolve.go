package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/taste-curator/internal/observability"
)

var (
	resolveConfigPath string
	resolveJSON       bool
	resolveVerbose    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [text]",
	Short: "Resolve a taste description from the command line",
	Long: `Run the full resolution pipeline once for the given free-text taste
description and print the recommendations. Reads stdin when no argument
is given.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveConfigPath, "config", "", "Path to config.json file")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the raw JSON response")
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(resolveConfigPath)
	if err != nil {
		return err
	}
	configureLogging(resolveVerbose || cfg.Verbose)

	input, err := readInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("no input provided: pass a taste description as an argument or on stdin")
	}

	resp, err := buildPipeline(cfg).Resolve(context.Background(), input)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}

	if resolveJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	observability.NewPrinter(os.Stdout).PrintFinalResponse(resp)
	return nil
}

// readInput takes the description from arguments, or stdin when piped.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
