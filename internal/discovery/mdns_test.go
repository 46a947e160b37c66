package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/lowapp/nodesim/internal/identity"
)

const testIdentity = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantIdentity string
		wantIP       string
		wantPort     int
		wantVersion  string
	}{
		{
			name: "valid node with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "workbench.local.",
				Port:     8473,
				AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
				Text:     []string{"id=" + testIdentity, "ver=1.2.0"},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "192.168.4.16",
			wantPort:     8473,
			wantVersion:  "1.2.0",
		},
		{
			name: "uppercase identifier canonicalizes to lowercase",
			entry: &zeroconf.ServiceEntry{
				HostName: "workbench.local",
				Port:     8473,
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
				Text:     []string{"id=6BA7B810-9DAD-11D1-80B4-00C04FD430C8"},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "10.0.0.5",
			wantPort:     8473,
		},
		{
			name: "node with custom port",
			entry: &zeroconf.ServiceEntry{
				HostName: "lab.local",
				Port:     9000,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
				Text:     []string{"id=" + testIdentity},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "192.168.1.100",
			wantPort:     9000,
		},
		{
			name: "node with no port specified (should default to 8473)",
			entry: &zeroconf.ServiceEntry{
				HostName: "lab.local",
				Port:     0,
				AddrIPv4: []net.IP{net.ParseIP("172.16.0.1")},
				Text:     []string{"id=" + testIdentity},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "172.16.0.1",
			wantPort:     DefaultPort,
		},
		{
			name: "service without id record",
			entry: &zeroconf.ServiceEntry{
				HostName: "printer.local",
				Port:     8473,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.1")},
				Text:     []string{"path=/"},
			},
			wantNil: true,
		},
		{
			name: "service with malformed id record",
			entry: &zeroconf.ServiceEntry{
				HostName: "rogue.local",
				Port:     8473,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.2")},
				Text:     []string{"id=not-a-node-identifier"},
			},
			wantNil: true,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				HostName: "ghost.local",
				Port:     8473,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
				Text:     []string{"id=" + testIdentity},
			},
			wantNil: true,
		},
		{
			name: "IPv6 only node",
			entry: &zeroconf.ServiceEntry{
				HostName: "v6host.local",
				Port:     8473,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
				Text:     []string{"id=" + testIdentity},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "fe80::1",
			wantPort:     8473,
		},
		{
			name: "node with both IPv4 and IPv6 (should prefer IPv4)",
			entry: &zeroconf.ServiceEntry{
				HostName: "dual.local",
				Port:     8473,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
				Text:     []string{"id=" + testIdentity},
			},
			wantNil:      false,
			wantIdentity: testIdentity,
			wantIP:       "192.168.1.50",
			wantPort:     8473,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if node != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", node)
				}
				return
			}

			if node == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil node")
			}

			if node.Identity != tt.wantIdentity {
				t.Errorf("node.Identity = %v, want %v", node.Identity, tt.wantIdentity)
			}

			if node.IP != tt.wantIP {
				t.Errorf("node.IP = %v, want %v", node.IP, tt.wantIP)
			}

			if node.Port != tt.wantPort {
				t.Errorf("node.Port = %v, want %v", node.Port, tt.wantPort)
			}

			if node.Version != tt.wantVersion {
				t.Errorf("node.Version = %v, want %v", node.Version, tt.wantVersion)
			}

			if node.Hostname != tt.entry.HostName {
				t.Errorf("node.Hostname = %v, want %v", node.Hostname, tt.entry.HostName)
			}

			// Check that DiscoveredAt is recent (within last second)
			if time.Since(node.DiscoveredAt) > time.Second {
				t.Errorf("node.DiscoveredAt is not recent: %v", node.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	entry := &zeroconf.ServiceEntry{
		HostName: "workbench.local",
		Port:     8473,
		AddrIPv4: []net.IP{net.ParseIP("192.168.4.16")},
		Text:     []string{"id=" + testIdentity, "ver=1.2.0", "flag", "extra=value"},
	}

	node := scanner.parseServiceEntry(entry)
	if node == nil {
		t.Fatal("parseServiceEntry() = nil, want node")
	}

	expectedMetadata := map[string]string{
		"id":    testIdentity,
		"ver":   "1.2.0",
		"flag":  "", // Key without value
		"extra": "value",
	}

	if len(node.Metadata) != len(expectedMetadata) {
		t.Errorf("node.Metadata has %d entries, want %d", len(node.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := node.Metadata[key]; !ok {
			t.Errorf("node.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("node.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

func TestWaitForNodeRejectsBadIdentifier(t *testing.T) {
	scanner := NewScanner()
	scanner.Timeout = 10 * time.Millisecond

	if _, err := scanner.WaitForNode("not-an-identifier"); err == nil {
		t.Error("WaitForNode(not-an-identifier) expected error, got nil")
	}
}

func TestInstanceName(t *testing.T) {
	id, err := identity.Parse(testIdentity)
	if err != nil {
		t.Fatalf("Parse(%s) error = %v", testIdentity, err)
	}

	want := "nodesim-" + testIdentity
	if got := InstanceName(id); got != want {
		t.Errorf("InstanceName() = %v, want %v", got, want)
	}
}

// Note: Integration tests with live mDNS announce/browse round-trips require
// network access and should be run manually with:
// go test -tags=integration ./internal/discovery/
