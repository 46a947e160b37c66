package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lowapp/nodesim/internal/discovery"
	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/nodeconfig"
	"github.com/lowapp/nodesim/internal/registry"
	"github.com/lowapp/nodesim/internal/tui"
)

// Record command flags
var (
	baseDir      string
	outputFormat string
	recordPath   string
	recordID     string
	newID        string
	newNickname  string
	setPairs     []string
	force        bool
	scanTimeout  int
)

func init() {
	// Common flags for record commands (persistent on root)
	rootCmd.PersistentFlags().StringVarP(&baseDir, "directory", "d", "", "Simulation base directory (default: registry preference, then \".\")")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	// Add subcommands directly to root
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(wizardCmd)
}

// resolveBaseDir picks the simulation base directory: the --directory flag,
// then the registry preference, then the current directory.
func resolveBaseDir() string {
	if baseDir != "" {
		return baseDir
	}
	if reg, err := registry.LoadRegistry(); err == nil && reg.Preferences != nil && reg.Preferences.NodesDir != "" {
		return reg.Preferences.NodesDir
	}
	return "."
}

// resolveRecord selects a record file from a positional path, the --path
// flag, or --uuid within the base directory.
func resolveRecord(positional string) (identity.Resolution, error) {
	path := recordPath
	if positional != "" {
		path = positional
	}

	res, err := identity.Resolve(identity.Options{
		ConfigPath: path,
		Identifier: recordID,
		BaseDir:    resolveBaseDir(),
	})
	if err != nil {
		if identity.IsInsufficientArguments(err) {
			return identity.Resolution{}, fmt.Errorf("no record selected (pass a path, or --uuid, or run 'nodesim-cfg list')")
		}
		return identity.Resolution{}, err
	}
	return res, nil
}

// recordIdentity reads the identity out of a resolution, falling back to the
// record file name for explicit paths.
func recordIdentity(res identity.Resolution) string {
	if res.HasIdentity {
		return res.Identity.String()
	}
	if parsed, err := identity.Parse(filepath.Base(res.Path)); err == nil {
		return parsed.String()
	}
	return ""
}

// newCmd creates a node record
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new node record",
	Long: `Create a configuration record for a new simulated node.

A fresh random identifier is generated unless --uuid provides one. The
record is written to <directory>/Nodes/<identifier> with every field
zeroed; pass --set pairs to assign initial values. The whole batch is
validated before anything is written.

The new node is remembered in the operator registry so list, wizard, and
remote commands find it later.`,
	Example: `  # Create a node with a random identifier
  nodesim-cfg new --directory ./sim

  # Create with initial field values
  nodesim-cfg new -d ./sim --set deviceId:2A --set rchanId:03 --set rsf:07

  # Create under a fixed identifier, with an operator nickname
  nodesim-cfg new -d ./sim --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 --nickname bench-1`,
	Args: cobra.NoArgs,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVarP(&newID, "uuid", "u", "", "Use this identifier instead of generating one")
	newCmd.Flags().StringVar(&newNickname, "nickname", "", "Operator nickname stored in the registry")
	newCmd.Flags().StringArrayVar(&setPairs, "set", nil, "Initial field value as key:value (repeatable)")
	newCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing record file")
}

func runNew(cmd *cobra.Command, args []string) error {
	dir := resolveBaseDir()

	res, err := identity.NewNodePath(dir, newID)
	if err != nil {
		return err
	}

	if _, err := os.Stat(res.Path); err == nil && !force {
		return fmt.Errorf("record %s already exists (use --force to overwrite)", res.Path)
	}

	rec := nodeconfig.NewRecord()

	if len(setPairs) > 0 {
		update := nodeconfig.NewUpdate()
		for _, pair := range setPairs {
			change, err := nodeconfig.ParseChange(pair)
			if err != nil {
				return err
			}
			update.Add(change)
		}
		if errs := update.Validate(rec); len(errs) > 0 {
			fmt.Println("✗ Invalid --set values:")
			for _, err := range errs {
				fmt.Printf("  - %v\n", err)
			}
			return fmt.Errorf("rejected %d of %d --set value(s)", len(errs), update.Len())
		}
		if err := update.Apply(rec); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(res.Path), 0755); err != nil {
		return fmt.Errorf("cannot create nodes directory: %w", err)
	}
	if err := rec.Save(res.Path); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	// Remember the node so list, wizard, and remote commands find it
	if reg, err := registry.LoadRegistry(); err == nil {
		reg.RecordNodePath(res.Identity.String(), res.Path, registry.SourceCreated)
		if newNickname != "" {
			reg.SetNodeNickname(res.Identity.String(), newNickname)
		}
		if err := reg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not update registry: %v\n", err)
		}
	}

	fmt.Printf("✓ Created node %s\n", res.Identity)
	fmt.Printf("  Record: %s\n", res.Path)
	fmt.Printf("  %s\n", rec.Summary())
	fmt.Println()
	fmt.Println("Run it with:")
	fmt.Printf("  nodesim --uuid %s --directory %s\n", res.Identity, dir)

	return nil
}

// showCmd displays a record
var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Show a node record",
	Long: `Display a node configuration record from disk.

The record is selected by a positional path, by --path, or by --uuid
within the base directory. Fields are printed in their canonical textual
form together with decoded readings.`,
	Example: `  # Show a record by identifier
  nodesim-cfg show --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 -d ./sim

  # Show a record file directly
  nodesim-cfg show ./sim/Nodes/6ba7b810-9dad-11d1-80b4-00c04fd430c8

  # Compact output format
  nodesim-cfg show --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 --format compact

  # JSON output for scripting
  nodesim-cfg show ./record --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&recordPath, "path", "", "Record file path")
	showCmd.Flags().StringVarP(&recordID, "uuid", "u", "", "Node identifier (resolved under the base directory)")
}

func runShow(cmd *cobra.Command, args []string) error {
	positional := ""
	if len(args) > 0 {
		positional = args[0]
	}

	res, err := resolveRecord(positional)
	if err != nil {
		return err
	}

	rec, err := nodeconfig.Load(res.Path)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", res.Path, err)
	}

	// Display record based on format
	switch outputFormat {
	case "compact":
		fmt.Println(rec.FormatCompact())
	case "json":
		out := struct {
			Identity string            `json:"identity,omitempty"`
			Path     string            `json:"path"`
			Fields   map[string]string `json:"fields"`
		}{recordIdentity(res), res.Path, rec.Fields()}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed":
		fallthrough
	default:
		if id := recordIdentity(res); id != "" {
			fmt.Printf("Node %s\n", id)
		}
		fmt.Printf("Record %s\n\n", res.Path)
		fmt.Println(rec.FormatDetailed())
	}

	return nil
}

// getCmd prints one field value
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one field from a record",
	Long: `Print the canonical textual value of one record field.

The output is the bare value, suitable for scripting. See 'nodesim-cfg
remote get' for reading from a running node instead of a file.`,
	Example: `  # Read a field by record identifier
  nodesim-cfg get deviceId --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 -d ./sim

  # Read from an explicit record file
  nodesim-cfg get encKey --path ./sim/Nodes/6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&recordPath, "path", "", "Record file path")
	getCmd.Flags().StringVarP(&recordID, "uuid", "u", "", "Node identifier (resolved under the base directory)")
}

func runGet(cmd *cobra.Command, args []string) error {
	res, err := resolveRecord("")
	if err != nil {
		return err
	}

	rec, err := nodeconfig.Load(res.Path)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", res.Path, err)
	}

	value, err := rec.Get(args[0])
	if err != nil {
		return err
	}

	fmt.Println(value)
	return nil
}

// setCmd updates fields in a record file
var setCmd = &cobra.Command{
	Use:   "set <key>:<value> [<key>:<value> ...]",
	Short: "Update fields in a record file",
	Long: `Assign one or more fields in a node record on disk.

All assignments are validated together before anything is written, so a
single bad value leaves the record untouched. See 'nodesim-cfg remote
set' for changing fields on a running node instead.`,
	Example: `  # Set one field
  nodesim-cfg set deviceId:2A --uuid 6ba7b810-9dad-11d1-80b4-00c04fd430c8 -d ./sim

  # Set several fields atomically
  nodesim-cfg set rchanId:03 rsf:07 preambleTime:100 --path ./record

  # Hex values are case-insensitive on input
  nodesim-cfg set encKey:000102030405060708090a0b0c0d0e0f --path ./record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&recordPath, "path", "", "Record file path")
	setCmd.Flags().StringVarP(&recordID, "uuid", "u", "", "Node identifier (resolved under the base directory)")
}

func runSet(cmd *cobra.Command, args []string) error {
	res, err := resolveRecord("")
	if err != nil {
		return err
	}

	rec, err := nodeconfig.Load(res.Path)
	if err != nil {
		return fmt.Errorf("failed to load record %s: %w", res.Path, err)
	}

	update := nodeconfig.NewUpdate()
	for _, arg := range args {
		change, err := nodeconfig.ParseChange(arg)
		if err != nil {
			return err
		}
		update.Add(change)
	}

	if errs := update.Validate(rec); len(errs) > 0 {
		fmt.Println("✗ Invalid changes:")
		for _, err := range errs {
			fmt.Printf("  - %v\n", err)
		}
		return fmt.Errorf("rejected %d of %d change(s)", len(errs), update.Len())
	}

	if err := update.Apply(rec); err != nil {
		return err
	}

	fmt.Printf("Updating %s:\n", res.Path)
	for _, change := range update.Changes() {
		canonical, _ := rec.Get(change.Key)
		fmt.Printf("  %-14s %s\n", change.Key+":", canonical)
	}

	if err := rec.Save(res.Path); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	fmt.Printf("\n✓ Record updated (%d field(s))\n", update.Len())
	return nil
}

// listCmd lists known node records
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List node records",
	Long: `List node records under the base directory's Nodes subdirectory,
merged with registry entries whose record files still exist elsewhere.

Nicknames from the operator registry are shown next to identifiers.`,
	Example: `  # List records in the default directory
  nodesim-cfg list

  # List records in a specific simulation directory
  nodesim-cfg list --directory ./sim`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	dir := resolveBaseDir()
	nodesDir := filepath.Join(dir, identity.NodesSubdir)

	reg, _ := registry.LoadRegistry()

	type entry struct {
		id       string
		nickname string
		path     string
		summary  string
	}
	seenPath := make(map[string]bool)
	seenID := make(map[string]bool)
	var entries []entry

	add := func(path string) {
		e := entry{path: path}
		if id, err := identity.Parse(filepath.Base(path)); err == nil {
			e.id = id.String()
			if reg != nil {
				if node := reg.GetNode(e.id); node != nil {
					e.nickname = node.Nickname
				}
			}
		}
		if rec, err := nodeconfig.Load(path); err == nil {
			e.summary = rec.Summary()
		} else {
			e.summary = "unreadable record"
		}
		entries = append(entries, e)
		seenPath[path] = true
		if e.id != "" {
			seenID[e.id] = true
		}
	}

	dirEntries, err := os.ReadDir(nodesDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("cannot list %s: %w", nodesDir, err)
	}
	for _, de := range dirEntries {
		// Leftover atomic-write temp files are not records
		if de.IsDir() || strings.HasSuffix(de.Name(), ".tmp") {
			continue
		}
		add(filepath.Join(nodesDir, de.Name()))
	}

	// Registry entries remember records created or edited in other
	// directories
	if reg != nil {
		for id, node := range reg.Nodes {
			if node.LastPath == "" || seenPath[node.LastPath] || seenID[id] {
				continue
			}
			if _, err := os.Stat(node.LastPath); err != nil {
				continue
			}
			add(node.LastPath)
		}
	}

	if len(entries) == 0 {
		fmt.Printf("No node records found under %s.\n", nodesDir)
		fmt.Println("\nUse 'nodesim-cfg new' to create one.")
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].id != entries[j].id {
			return entries[i].id < entries[j].id
		}
		return entries[i].path < entries[j].path
	})

	fmt.Printf("Found %d record(s):\n\n", len(entries))

	for i, e := range entries {
		name := e.id
		if name == "" {
			name = filepath.Base(e.path)
		}
		if e.nickname != "" {
			fmt.Printf("%d. %s (%s)\n", i+1, name, e.nickname)
		} else {
			fmt.Printf("%d. %s\n", i+1, name)
		}
		fmt.Printf("   Path:   %s\n", e.path)
		fmt.Printf("   Record: %s\n", e.summary)
		fmt.Println()
	}

	fmt.Println("Use 'nodesim-cfg show <path>' to view a record")
	fmt.Println("Use 'nodesim-cfg wizard' to edit interactively")

	return nil
}

// scanCmd discovers running nodes on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for running nodes on the network",
	Long: `Scan for running simulated nodes using mDNS/DNS-SD discovery.

This command listens for mDNS announcements from node consoles and
displays every discovered node with its identity, console address, and
version. Discovered nodes are remembered in the operator registry.`,
	Example: `  # Scan with the default timeout
  nodesim-cfg scan

  # Quick 2-second scan
  nodesim-cfg scan --timeout 2

  # Longer scan for busy networks
  nodesim-cfg scan --timeout 15`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default: registry preference, then 5)")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := scanTimeout
	if timeout <= 0 {
		timeout = int(discovery.DefaultScanTimeout / time.Second)
		if reg, err := registry.LoadRegistry(); err == nil && reg.Preferences != nil && reg.Preferences.ScanTimeout > 0 {
			timeout = reg.Preferences.ScanTimeout
		}
	}

	fmt.Printf("Scanning for running nodes (timeout: %ds)...\n\n", timeout)

	nodes, err := discovery.ScanForNodes(time.Duration(timeout) * time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(nodes) == 0 {
		fmt.Println("No running nodes found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the node process is running with --advertise")
		fmt.Println("  - Check that mDNS (UDP 5353) is not blocked by a firewall")
		fmt.Println("  - Try increasing --timeout on busy networks")
		fmt.Println("  - Use 'remote --addr <host:port>' to connect directly")
		return nil
	}

	fmt.Printf("Found %d node(s):\n\n", len(nodes))

	for i, node := range nodes {
		fmt.Printf("%d. %s\n", i+1, node.Identity)
		fmt.Printf("   Host:    %s\n", node.Hostname)
		fmt.Printf("   Console: %s\n", node.Addr())
		if node.Version != "" {
			fmt.Printf("   Version: %s\n", node.Version)
		}
		fmt.Println()
	}

	// Remember where each node was last seen
	if reg, err := registry.LoadRegistry(); err == nil {
		for _, node := range nodes {
			if node.Identity != "" {
				reg.UpdateNodeLastSeen(node.Identity, node.Addr())
			}
		}
		if err := reg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not update registry: %v\n", err)
		}
	}

	fmt.Println("Use 'nodesim-cfg remote info --id <identity>' to inspect a node")
	fmt.Println("Use 'nodesim-cfg remote set --id <identity> key:value' to change fields")

	return nil
}

// wizardCmd launches the interactive TUI editor
var wizardCmd = &cobra.Command{
	Use:   "wizard [path]",
	Short: "Launch interactive record editor",
	Long: `Launch an interactive TUI for browsing and editing node records.

Without a path the wizard opens a record picker over the base directory
and the operator registry. With a path it opens that record directly in
the editor.

This is the recommended way to edit records for most users.`,
	Example: `  # Launch the picker
  nodesim-cfg wizard
  # Or simply (wizard is default):
  nodesim-cfg

  # Edit a specific record
  nodesim-cfg wizard ./sim/Nodes/6ba7b810-9dad-11d1-80b4-00c04fd430c8
  nodesim-cfg ./sim/Nodes/6ba7b810-9dad-11d1-80b4-00c04fd430c8`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return tui.Run(resolveBaseDir(), path)
}
