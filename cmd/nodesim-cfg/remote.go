package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lowapp/nodesim/internal/console"
	"github.com/lowapp/nodesim/internal/discovery"
	"github.com/lowapp/nodesim/internal/nodeconfig"
	"github.com/lowapp/nodesim/internal/registry"
)

// Remote command flags
var (
	remoteAddr string
	remoteID   string
	verify     bool
)

// remoteCmd groups the commands that talk to a running node's console
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Operate on a running node's console",
	Long: `Read and change fields on a running node over its WebSocket console.

The node is selected with --addr (host:port), with --id resolved via
mDNS, or by auto-discovery when exactly one node answers. Changes made
here live in the node's memory until 'remote save' persists them.`,
	Example: `  # Read a field from a node found via mDNS
  nodesim-cfg remote get deviceId --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # Change fields on a directly addressed node, with readback verification
  nodesim-cfg remote set rchanId:03 rsf:07 --addr 192.168.1.20:8473 --verify

  # Persist the node's in-memory record
  nodesim-cfg remote save --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
}

func init() {
	remoteCmd.PersistentFlags().StringVar(&remoteAddr, "addr", "", "Console address host:port (skips discovery)")
	remoteCmd.PersistentFlags().StringVar(&remoteID, "id", "", "Node identifier to find via mDNS")

	remoteCmd.AddCommand(remoteGetCmd)
	remoteCmd.AddCommand(remoteSetCmd)
	remoteCmd.AddCommand(remoteKeysCmd)
	remoteCmd.AddCommand(remoteSaveCmd)
	remoteCmd.AddCommand(remoteInfoCmd)

	rootCmd.AddCommand(remoteCmd)
}

// getConsoleAddr selects the console to talk to (via flags or discovery)
func getConsoleAddr() (string, error) {
	if remoteAddr != "" {
		return remoteAddr, nil
	}

	if remoteID != "" {
		fmt.Printf("Looking for node %s via mDNS...\n", remoteID)
		node, err := discovery.FindNode(remoteID)
		if err != nil {
			return "", fmt.Errorf("node %s not found: %w (use --addr to connect directly)", remoteID, err)
		}
		rememberNode(node)
		fmt.Printf("Found node at %s\n\n", node.Addr())
		return node.Addr(), nil
	}

	// Try discovery
	fmt.Println("No node specified, attempting auto-discovery...")
	nodes, err := discovery.QuickScan()
	if err != nil {
		return "", fmt.Errorf("discovery failed: %w", err)
	}

	if len(nodes) == 0 {
		return "", fmt.Errorf("no running nodes found. Use --addr to specify the console directly")
	}

	if len(nodes) > 1 {
		fmt.Printf("Found %d nodes:\n", len(nodes))
		for i, node := range nodes {
			fmt.Printf("%d. %s (%s)\n", i+1, node.Identity, node.Addr())
		}
		return "", fmt.Errorf("multiple nodes found. Use --id or --addr to specify which one")
	}

	// Exactly one node found
	node := nodes[0]
	rememberNode(node)
	fmt.Printf("Found node: %s (%s)\n\n", node.Identity, node.Addr())
	return node.Addr(), nil
}

// rememberNode records a discovered node in the operator registry
func rememberNode(node *discovery.Node) {
	if node.Identity == "" {
		return
	}
	if reg, err := registry.LoadRegistry(); err == nil {
		reg.UpdateNodeLastSeen(node.Identity, node.Addr())
		_ = reg.Save()
	}
}

// dialConsole resolves the target node and opens a console session
func dialConsole() (*console.Client, error) {
	addr, err := getConsoleAddr()
	if err != nil {
		return nil, err
	}
	return console.Dial(addr)
}

// remoteGetCmd reads one field from a running node
var remoteGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Read one field from a running node",
	Long: `Read the live value of one field from a running node's console.

The output is the bare canonical value, suitable for scripting.`,
	Example: `  # Read the encryption key from a node found via mDNS
  nodesim-cfg remote get encKey --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # Read from a directly addressed console
  nodesim-cfg remote get deviceId --addr 192.168.1.20:8473`,
	Args: cobra.ExactArgs(1),
	RunE: runRemoteGet,
}

func runRemoteGet(cmd *cobra.Command, args []string) error {
	client, err := dialConsole()
	if err != nil {
		return err
	}
	defer client.Close()

	value, err := client.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

// remoteSetCmd changes fields on a running node
var remoteSetCmd = &cobra.Command{
	Use:   "set <key>:<value> [<key>:<value> ...]",
	Short: "Change fields on a running node",
	Long: `Assign one or more fields on a running node over its console.

Assignments are applied in order; the command stops at the first
rejection. With --verify each field is read back after the write and
compared against the sent value.

Changes live in the node's memory until 'remote save' persists them.`,
	Example: `  # Change the receive channel on a node found via mDNS
  nodesim-cfg remote set rchanId:05 --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # Change several fields with readback verification
  nodesim-cfg remote set deviceId:2A groupId:0001 --addr 192.168.1.20:8473 --verify`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemoteSet,
}

func init() {
	remoteSetCmd.Flags().BoolVar(&verify, "verify", false, "Read each field back after writing and compare")
}

func runRemoteSet(cmd *cobra.Command, args []string) error {
	changes := make([]nodeconfig.Change, 0, len(args))
	for _, arg := range args {
		change, err := nodeconfig.ParseChange(arg)
		if err != nil {
			return err
		}
		changes = append(changes, change)
	}

	client, err := dialConsole()
	if err != nil {
		return err
	}
	defer client.Close()

	for _, change := range changes {
		if verify {
			if err := client.SetVerified(change.Key, change.Value); err != nil {
				return fmt.Errorf("set %s: %w", change.Key, err)
			}
			fmt.Printf("✓ %s set and verified\n", change.Key)
		} else {
			if err := client.Set(change.Key, change.Value); err != nil {
				return fmt.Errorf("set %s: %w", change.Key, err)
			}
			fmt.Printf("✓ %s set\n", change.Key)
		}
	}

	fmt.Println("\nUse 'nodesim-cfg remote save' to persist the node's record")
	return nil
}

// remoteKeysCmd lists the fields a running node accepts
var remoteKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the field keys a running node accepts",
	Long:  `List the field keys a running node's console accepts, one per line, in record order.`,
	Args:  cobra.NoArgs,
	RunE:  runRemoteKeys,
}

func runRemoteKeys(cmd *cobra.Command, args []string) error {
	client, err := dialConsole()
	if err != nil {
		return err
	}
	defer client.Close()

	keys, err := client.Keys()
	if err != nil {
		return err
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}

// remoteSaveCmd persists a running node's record
var remoteSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist a running node's record",
	Long: `Ask a running node to write its in-memory record back to its file.

The write happens on the node's host, to the record file the node was
started with.`,
	Example: `  nodesim-cfg remote save --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args:    cobra.NoArgs,
	RunE:    runRemoteSave,
}

func runRemoteSave(cmd *cobra.Command, args []string) error {
	client, err := dialConsole()
	if err != nil {
		return err
	}
	defer client.Close()

	path, err := client.Save()
	if err != nil {
		return err
	}

	fmt.Printf("✓ Record saved to %s (on the node's host)\n", path)
	return nil
}

// remoteInfoCmd shows a running node's status snapshot
var remoteInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show a running node's status snapshot",
	Long: `Fetch the JSON status snapshot a node serves on its console root and
display the node's identity, version, record path, and every field.`,
	Example: `  # Inspect a node found via mDNS
  nodesim-cfg remote info --id 6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # JSON output for scripting
  nodesim-cfg remote info --addr 192.168.1.20:8473 --format json`,
	Args: cobra.NoArgs,
	RunE: runRemoteInfo,
}

func runRemoteInfo(cmd *cobra.Command, args []string) error {
	addr, err := getConsoleAddr()
	if err != nil {
		return err
	}

	snap, err := console.FetchSnapshot(addr)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Node %s\n", snap.Identity)
	fmt.Printf("  Version: %s\n", snap.Version)
	fmt.Printf("  Record:  %s\n", snap.Record)
	fmt.Println("  Fields:")
	for _, key := range nodeconfig.Keys() {
		if value, ok := snap.Fields[key]; ok {
			fmt.Printf("    %-14s %s\n", key+":", value)
		}
	}

	return nil
}
