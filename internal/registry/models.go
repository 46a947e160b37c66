package registry

import "time"

// Node entry sources. A node's entry remembers how the registry last
// learned about it.
const (
	SourceCreated = "created"
	SourceScan    = "scan"
	SourceWizard  = "wizard"
)

// Registry represents the entire operator configuration file.
// This stores operator-side metadata for simulated nodes and tool
// preferences. The node record files themselves are untouched by it.
type Registry struct {
	Version     int              `yaml:"version"`
	Nodes       map[string]*Node `yaml:"nodes,omitempty"` // Keyed by node identity
	Preferences *Preferences     `yaml:"preferences,omitempty"`
}

// Node represents operator-side metadata for a single simulated node.
// This is keyed by the node's canonical identity in the Registry.
type Node struct {
	Nickname string    `yaml:"nickname,omitempty"`  // Operator-friendly name
	LastPath string    `yaml:"last_path,omitempty"` // Last known record file path
	LastAddr string    `yaml:"last_addr,omitempty"` // Last console address seen on the network
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last creation/scan/edit time
	Source   string    `yaml:"source,omitempty"`    // How the entry was last refreshed
}

// Preferences represents tool-wide operator preferences.
type Preferences struct {
	NodesDir      string `yaml:"nodes_dir,omitempty"` // Default simulation base directory
	ConsoleListen string `yaml:"console_listen"`      // Default node console listen address
	ScanTimeout   int    `yaml:"scan_timeout"`        // mDNS scan timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Nodes:   make(map[string]*Node),
		Preferences: &Preferences{
			ConsoleListen: ":8473",
			ScanTimeout:   5,
		},
	}
}

// GetNode retrieves node metadata by identity.
// Returns nil if the node doesn't exist in the registry.
func (r *Registry) GetNode(id string) *Node {
	return r.Nodes[id]
}

// EnsureNode ensures a node entry exists in the registry.
// If the node doesn't exist, creates a new empty entry.
// Returns the node entry (existing or newly created).
func (r *Registry) EnsureNode(id string) *Node {
	if r.Nodes == nil {
		r.Nodes = make(map[string]*Node)
	}

	if node, exists := r.Nodes[id]; exists {
		return node
	}

	node := &Node{}
	r.Nodes[id] = node
	return node
}

// RecordNodePath remembers where a node's record file lives and how the
// registry learned it.
func (r *Registry) RecordNodePath(id, path, source string) {
	node := r.EnsureNode(id)
	node.LastPath = path
	node.LastSeen = time.Now()
	node.Source = source
}

// UpdateNodeLastSeen updates the last seen timestamp and console address
// for a node discovered on the network.
func (r *Registry) UpdateNodeLastSeen(id, addr string) {
	node := r.EnsureNode(id)
	node.LastSeen = time.Now()
	node.LastAddr = addr
	node.Source = SourceScan
}

// SetNodeNickname sets an operator-friendly nickname for a node.
func (r *Registry) SetNodeNickname(id, nickname string) {
	node := r.EnsureNode(id)
	node.Nickname = nickname
}
