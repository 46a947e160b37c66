// Package discovery provides mDNS-based discovery of running nodes.
//
// Every node process can advertise its console as a "_nodesim._tcp" service
// on the local domain. This package implements both sides: nodes announce
// themselves with Announce, and operator tooling locates them with a Scanner.
//
// # Discovery Process
//
// The discovery process works as follows:
//  1. Broadcasts mDNS queries on the local network
//  2. Listens for "_nodesim._tcp" service advertisements
//  3. Filters responses to entries carrying a well-formed "id" TXT record
//  4. Collects node information (identifier, host, IP, console port, version)
//  5. Returns the deduplicated list after the timeout period
//
// # Usage Example
//
//	// Discover nodes with a 5-second timeout
//	nodes, err := discovery.ScanForNodes(5 * time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, node := range nodes {
//	    fmt.Printf("Found: %s at %s (version %s)\n",
//	        node.Identity, node.Addr(), node.Version)
//	}
//
// # TXT Records
//
// Node advertisements carry two TXT records:
//   - id:  the node identifier (36-character canonical form)
//   - ver: the nodesim version the node is running
//
// Entries without a parseable "id" record are ignored, so unrelated services
// answering the same query never show up as nodes.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Nodes must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// This package is safe for concurrent use. Multiple discovery sessions can run
// simultaneously without interference.
package discovery
