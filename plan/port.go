package plan

import (
	"fmt"
	"net"
	"strconv"
)

// MaxPortTries bounds one probe run. The bound counts every candidate
// port, including ones skipped because of the avoid set.
const MaxPortTries = 1000

// PortSet is the running set of ports already claimed on behalf of other
// workers during one round of topology negotiation.
type PortSet map[int]struct{}

func (s PortSet) Add(port int) { s[port] = struct{}{} }

func (s PortSet) Has(port int) bool {
	_, ok := s[port]
	return ok
}

func (s PortSet) Clone() PortSet {
	t := make(PortSet, len(s))
	for p := range s {
		t[p] = struct{}{}
	}
	return t
}

// PortExhaustedError reports that no free port was found on a host within
// MaxPortTries attempts.
type PortExhaustedError struct {
	Host  string
	First int
	Last  int
}

func (e *PortExhaustedError) Error() string {
	return fmt.Sprintf("no free port on %s in range %d-%d, try a different local_listen_port", e.Host, e.First, e.Last)
}

// FindOpenPort probes ports on host starting at startPort, skipping any
// port in avoid, and returns the first port a TCP listener could be bound
// to. The listener is released immediately, so the port may be claimed by
// another process before the caller binds it again; that window is an
// accepted risk of the probe-then-use strategy.
func FindOpenPort(host string, startPort int, avoid PortSet) (int, error) {
	last := startPort
	for i := 0; i < MaxPortTries; i++ {
		port := startPort + i
		last = port
		if avoid.Has(port) {
			continue
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		ln.Close()
		return port, nil
	}
	return 0, &PortExhaustedError{Host: host, First: startPort, Last: last}
}
