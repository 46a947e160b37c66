package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/lowapp/nodesim/internal/identity"
)

const (
	// ServiceType is the mDNS service type advertised by node consoles
	ServiceType = "_nodesim._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for node discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default console port for nodes
	DefaultPort = 8473
)

// TXT record keys published by node consoles
const (
	txtKeyIdentity = "id"
	txtKeyVersion  = "ver"
)

// Scanner handles mDNS node discovery
type Scanner struct {
	// Timeout is the maximum time to wait for node discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForNodes discovers all running nodes on the local network
// Returns a list of discovered nodes or an error
func (s *Scanner) ScanForNodes() ([]*Node, error) {
	return s.ScanForNodesWithContext(context.Background())
}

// ScanForNodesWithContext discovers nodes with a custom context
func (s *Scanner) ScanForNodesWithContext(ctx context.Context) ([]*Node, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	nodes := make([]*Node, 0)
	seen := make(map[string]bool)
	done := make(chan struct{})

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// Collect entries until the resolver closes the channel at deadline.
	// The same node answers once per interface, so dedup on identity.
	go func() {
		defer close(done)
		for entry := range entries {
			node := s.parseServiceEntry(entry)
			if node != nil && !seen[node.Identity] {
				seen[node.Identity] = true
				nodes = append(nodes, node)
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-done

	return nodes, nil
}

// WaitForNode waits for a specific node by identifier
// Returns the node or an error if not found within timeout
func (s *Scanner) WaitForNode(id string) (*Node, error) {
	return s.WaitForNodeWithContext(context.Background(), id)
}

// WaitForNodeWithContext waits for a specific node with a custom context
func (s *Scanner) WaitForNodeWithContext(ctx context.Context, id string) (*Node, error) {
	want, err := identity.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("cannot wait for node: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	nodeChan := make(chan *Node, 1)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	go func() {
		for entry := range entries {
			node := s.parseServiceEntry(entry)
			if node != nil && node.Identity == want.String() {
				nodeChan <- node
				cancel() // Found the node, cancel context
				return
			}
		}
	}()

	err = resolver.Browse(ctx, ServiceType, ServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case node := <-nodeChan:
		return node, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("node %s not found within timeout", want)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Node
// Returns nil if the entry does not carry a valid node identifier
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Node {
	// Parse TXT records into metadata ("key=value" format)
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			// Key without value
			metadata[parts[0]] = ""
		}
	}

	// The "id" TXT record carries the node identifier. Entries without a
	// well-formed identifier are not nodes, whatever service type they
	// answered under.
	id, err := identity.Parse(metadata[txtKeyIdentity])
	if err != nil {
		return nil
	}

	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Node{
		Identity:     id.String(),
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Version:      metadata[txtKeyVersion],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForNodes is a convenience function to scan for nodes with a custom timeout
func ScanForNodes(timeout time.Duration) ([]*Node, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForNodes()
}

// QuickScan performs a fast scan with a 3-second timeout
func QuickScan() ([]*Node, error) {
	scanner := NewScanner()
	scanner.Timeout = 3 * time.Second
	return scanner.ScanForNodes()
}

// FindNode searches for a specific node by identifier with default timeout
func FindNode(id string) (*Node, error) {
	scanner := NewScanner()
	return scanner.WaitForNode(id)
}
