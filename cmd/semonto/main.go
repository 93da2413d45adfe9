// Package main provides the semonto binary entry point.
// Semonto loads ontology documents, resolves them into a vocabulary and
// generates Go code and RDF exports from it.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semonto"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Ontology to Go code generator",
		Long: `Semonto ingests ontology documents (N-Triples, N-Quads, JSON-LD),
merges them into one vocabulary and resolves it: inheritance closures,
combined restrictions and cross-document dependencies.

From the resolved vocabulary it can:
- generate a Go source file with one type per class and individual
- export the vocabulary as Turtle, N-Triples or JSON-LD
- rebuild on every change while watching the source tree

Run "semonto init" to create a project config.

User settings (labels, field types, device and agent classes) are stored
next to the sources and survive rebuilds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		generateCmd(opts),
		validateCmd(opts),
		exportCmd(opts),
		watchCmd(opts),
		settingsCmd(opts),
		initCmd(opts),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
