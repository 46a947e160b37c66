package discovery

import (
	"fmt"

	"github.com/grandcat/zeroconf"

	"github.com/lowapp/nodesim/internal/identity"
)

// Announcer advertises a running node console over mDNS until Shutdown
type Announcer struct {
	server *zeroconf.Server
}

// InstanceName derives the mDNS instance name for a node. The full
// identifier keeps instance names unique when several nodes run on one host.
func InstanceName(id identity.Identity) string {
	return "nodesim-" + id.String()
}

// Announce registers the node's console as a "_nodesim._tcp" service on the
// local domain. The identifier and version travel in TXT records so scanners
// can recognize nodes without connecting.
func Announce(id identity.Identity, port int, version string) (*Announcer, error) {
	txt := []string{
		txtKeyIdentity + "=" + id.String(),
		txtKeyVersion + "=" + version,
	}

	server, err := zeroconf.Register(InstanceName(id), ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	return &Announcer{server: server}, nil
}

// Shutdown withdraws the advertisement
func (a *Announcer) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
}
