// Package plan builds the network topology of one training round: a
// negotiated listening port per worker and the machine list the boosting
// engine's synchronization layer connects with.
package plan

import (
	"net"
	"strconv"
	"strings"

	"github.com/distboost/distboost/cluster"
)

// Topology is the finalized worker-to-port mapping of one training round.
// Workers keeps the negotiation order; the machine list must be rendered
// in that same order. A Topology is immutable once built.
type Topology struct {
	Workers []cluster.WorkerAddr
	Ports   map[cluster.WorkerAddr]int
}

func (t *Topology) NumMachines() int { return len(t.Workers) }

func (t *Topology) Port(w cluster.WorkerAddr) int { return t.Ports[w] }

// MachineList renders the comma-separated host:port list, no whitespace,
// workers in negotiation order.
func (t *Topology) MachineList() string {
	entries := make([]string, 0, len(t.Workers))
	for _, w := range t.Workers {
		entries = append(entries, net.JoinHostPort(w.Host(), strconv.Itoa(t.Ports[w])))
	}
	return strings.Join(entries, ",")
}
