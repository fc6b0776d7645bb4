package bridge

import (
	"fmt"
	"strings"
)

// Target identifies the real bridge by host and service. Service may be a
// port number or a service name; both parts are carried verbatim into the
// LOCATION header of outgoing replies. A Target is set once at startup and
// never mutated.
type Target struct {
	Host    string
	Service string
}

// ParseTarget parses a "host:service" command-line argument. The split is on
// the first colon, so a service name containing a colon is rejected by the
// resolver later rather than here.
func ParseTarget(arg string) (Target, error) {
	host, service, found := strings.Cut(arg, ":")
	if !found || host == "" || service == "" {
		return Target{}, fmt.Errorf("expected 'host:service', got %q", arg)
	}
	return Target{Host: host, Service: service}, nil
}

// String returns the target in "host:service" form.
func (t Target) String() string {
	return t.Host + ":" + t.Service
}
