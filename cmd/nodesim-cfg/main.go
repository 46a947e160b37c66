// Nodesim-cfg is a configuration utility for simulated LoWAPP nodes.
//
// It creates node configuration records, edits them offline or through an
// interactive wizard, discovers running nodes over mDNS, and talks to their
// WebSocket consoles. Records are plain files; a node only needs to be
// running for the 'remote' commands.
//
// Usage:
//
//	nodesim-cfg [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'nodesim-cfg --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowapp/nodesim/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nodesim-cfg",
	Short: "Node Record Configuration Utility",
	Long: `A standalone utility for configuring simulated LoWAPP nodes.

Provides record creation, offline editing, an interactive wizard, mDNS
node discovery, and direct access to running node consoles.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nodesim-cfg %s (commit: %s)\n", version.Version, version.Commit)
	},
}
