// Nodesim runs a single simulated LoWAPP wireless node.
//
// Each node process owns one configuration record: the radio and addressing
// parameters a physical device would keep in persistent memory. The record is
// resolved at startup, held in memory while the node runs, and exposed over a
// WebSocket console for operators and test harnesses.
//
// Usage:
//
//	nodesim --uuid <id> --directory <dir> [flags]
//	nodesim --config <path> [flags]
//
// See 'nodesim --help' for available options.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lowapp/nodesim/internal/console"
	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/logging"
	"github.com/lowapp/nodesim/internal/nodeconfig"
	"github.com/lowapp/nodesim/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Node flags
var (
	configPath string
	nodeID     string
	baseDir    string
	listenAddr string
	advertise  bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "nodesim",
	Short: "Simulated LoWAPP node",
	Long: `Run a single simulated LoWAPP wireless node.

Each nodesim process owns one configuration record holding the node's
addressing, radio, and security parameters. The record file is selected
either directly with --config, or as <directory>/Nodes/<uuid> with
--uuid and --directory together.

While running, the node serves a line-oriented console over WebSocket
(plus a JSON status snapshot on plain HTTP) so operators and test
harnesses can read and change fields live.

Note: To create node records and edit them offline, use the separate
'nodesim-cfg' utility.`,
	Example: `  # Run a node by identifier within a simulation directory
  nodesim --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 --directory ./sim

  # Run a node from an explicit record file
  nodesim --config ./sim/Nodes/6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # Custom console port, announced over mDNS
  nodesim -u 6ba7b810-9dad-11d1-80b4-00c04fd430c8 -d ./sim --listen :9000 --advertise

  # Verbose logging
  nodesim -c ./record --log-level debug`,
	Version: version.Version,
	RunE:    runNode,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the node's record file")
	rootCmd.Flags().StringVarP(&nodeID, "uuid", "u", "", "Node identifier (requires --directory)")
	rootCmd.Flags().StringVarP(&baseDir, "directory", "d", "", "Simulation base directory holding Nodes/")
	rootCmd.Flags().StringVar(&listenAddr, "listen", console.DefaultListenAddr, "Console listen address (host:port)")
	rootCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the console over mDNS")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

func runNode(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	res, err := identity.Resolve(identity.Options{
		ConfigPath: configPath,
		Identifier: nodeID,
		BaseDir:    baseDir,
	})
	if err != nil {
		return err
	}

	id := res.Identity
	if !res.HasIdentity {
		// Records created by our tools are named by identity, so an
		// explicit --config path usually still carries one
		if parsed, err := identity.Parse(filepath.Base(res.Path)); err == nil {
			id = parsed
		}
	}

	rec, err := nodeconfig.Load(res.Path)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", res.Path, err)
	}

	store := nodeconfig.NewStore(rec, res.Path)
	nodeconfig.Install(store)

	logging.Info("Record loaded",
		zap.String("path", res.Path),
		zap.String("record", rec.Summary()),
	)

	if advertise && id.IsZero() {
		logging.Warn("mDNS announcement needs a node identity, skipping (record file name is not an identifier)")
		advertise = false
	}

	srv, err := console.New(&console.Config{
		ListenAddr: listenAddr,
		Store:      store,
		Identity:   id,
		Version:    version.Version,
		Advertise:  advertise,
	})
	if err != nil {
		return fmt.Errorf("failed to create console: %w", err)
	}

	return srv.Start()
}

// Version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nodesim %s (commit: %s)\n", version.Version, version.Commit)
	},
}
