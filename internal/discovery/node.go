package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Node represents a running node console discovered on the network
type Node struct {
	// Identity is the node identifier from the "id" TXT record
	// (canonical lowercase form, e.g. "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	Identity string

	// Hostname is the mDNS hostname of the machine running the node
	Hostname string

	// IP is the IPv4 address (IPv6 when the host has no IPv4 address)
	IP string

	// Port is the console port (typically 8473)
	Port int

	// Version is the nodesim version from the "ver" TXT record
	Version string

	// Metadata contains any additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the node was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the node
func (n *Node) String() string {
	return fmt.Sprintf("Node %s at %s:%d", n.Identity, n.IP, n.Port)
}

// Addr returns the host:port address of the node's console, suitable for
// passing to console.Dial
func (n *Node) Addr() string {
	return net.JoinHostPort(n.IP, strconv.Itoa(n.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (n *Node) GetMetadata(key string) string {
	if n.Metadata == nil {
		return ""
	}
	return n.Metadata[key]
}
