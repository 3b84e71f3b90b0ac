package dist

import (
	"context"
	"fmt"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/monitor"
	"github.com/distboost/distboost/plan"
)

type probeFunc func(host string, startPort int, avoid plan.PortSet) (int, error)

// allocatePorts negotiates one listening port per worker. Probes run
// strictly one at a time, in worker order: workers may share a physical
// host, so each probe must see every port already claimed in this round
// or two co-located workers could race for the same port.
func allocatePorts(ctx context.Context, c cluster.Client, workers []cluster.WorkerAddr, startPort int, probe probeFunc) (*plan.Topology, error) {
	claimed := make(plan.PortSet)
	topo := &plan.Topology{
		Workers: workers,
		Ports:   make(map[cluster.WorkerAddr]int, len(workers)),
	}
	for _, w := range workers {
		host := w.Host()
		avoid := claimed.Clone()
		fut, err := c.Submit(ctx, w, func(ctx context.Context) (interface{}, error) {
			return probe(host, startPort, avoid)
		})
		if err != nil {
			return nil, fmt.Errorf("submit port probe to %s: %w", w, err)
		}
		monitor.PortProbes.WithLabelValues(host).Inc()
		res := fut.Await(ctx)
		if res.Err != nil {
			return nil, res.Err
		}
		port, ok := res.Value.(int)
		if !ok {
			return nil, fmt.Errorf("port probe on %s returned %T", w, res.Value)
		}
		claimed.Add(port)
		topo.Ports[w] = port
	}
	return topo, nil
}
