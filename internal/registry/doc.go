// Package registry provides operator configuration management for the
// nodesim tools.
//
// This package manages a YAML-based registry file that stores
// operator-defined metadata for simulated nodes, including nicknames, last
// known record paths and console addresses, and tool preferences. The
// registry follows OS-specific conventions for storage location.
//
// The registry is strictly operator-side state: the node record files
// under Nodes/ are read and written by the nodeconfig package and never by
// this one.
//
// # Registry File Location
//
// The registry file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/nodesim/registry.yaml or $HOME/.config/nodesim/registry.yaml
//   - macOS: $HOME/.config/nodesim/registry.yaml
//   - Windows: %LOCALAPPDATA%\nodesim\registry.yaml
//
// # Usage Example
//
//	// Load the global registry
//	reg, err := registry.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//
//	// Remember a freshly created node
//	reg.RecordNodePath(id.String(), res.Path, registry.SourceCreated)
//	reg.SetNodeNickname(id.String(), "bench node 3")
//
//	// Save changes atomically
//	if err := reg.Save(); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex to ensure atomic
// writes.
package registry
