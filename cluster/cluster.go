// Package cluster defines the contract between the boosting coordinator
// and the task-graph engine that schedules partitions and remote jobs.
package cluster

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// WorkerAddr is the cluster-assigned identifier of one worker process,
// e.g. "tcp://10.0.0.1:33221". It is opaque to the coordinator except for
// the host it resolves to.
type WorkerAddr string

func (a WorkerAddr) Host() string {
	s := string(a)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}
	return s
}

// Load produces the payload of one partition.
type Load func(ctx context.Context) (interface{}, error)

// Part is a lazily computed partition of a dataset. The payload is
// materialized at most once and is immutable afterwards.
type Part struct {
	id   uuid.UUID
	load Load
	meta interface{}

	mu    sync.Mutex
	done  bool
	value interface{}
	err   error
}

func NewPart(load Load) *Part {
	return &Part{id: uuid.New(), load: load}
}

// NewPartWithMeta attaches static metadata (e.g. a declared shape) that is
// available before materialization.
func NewPartWithMeta(load Load, meta interface{}) *Part {
	p := NewPart(load)
	p.meta = meta
	return p
}

func (p *Part) ID() uuid.UUID { return p.id }

func (p *Part) Meta() interface{} { return p.meta }

// Materialize computes the payload if needed and memoizes the outcome,
// including a failed one.
func (p *Part) Materialize(ctx context.Context) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		p.value, p.err = p.load(ctx)
		p.done = true
	}
	return p.value, p.err
}

// Value returns the materialized payload. Calling it before Materialize is
// a usage error and reports ErrNotMaterialized.
func (p *Part) Value() (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.done {
		return nil, ErrNotMaterialized
	}
	return p.value, p.err
}

// Collection is an ordered list of partitions forming one logical dataset.
type Collection []*Part

func (c Collection) Len() int { return len(c) }

// Task is a callable executed remotely on one worker.
type Task func(ctx context.Context) (interface{}, error)

// Result is the explicit outcome of one submitted task.
type Result struct {
	Value interface{}
	Err   error
}

// Future is a handle to one submitted task.
type Future struct {
	id   uuid.UUID
	done chan struct{}
	res  Result
}

func newFuture() *Future {
	return &Future{id: uuid.New(), done: make(chan struct{})}
}

func (f *Future) ID() uuid.UUID { return f.id }

func (f *Future) settle(r Result) {
	f.res = r
	close(f.done)
}

// Await blocks until the task settles or the context is canceled.
func (f *Future) Await(ctx context.Context) Result {
	select {
	case <-f.done:
		return f.res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Client is the capability surface the coordinator consumes from the
// task-graph engine.
type Client interface {
	// Workers lists the worker processes known to the engine.
	Workers() []WorkerAddr
	// Submit schedules a task for execution on a named worker.
	Submit(ctx context.Context, worker WorkerAddr, task Task) (*Future, error)
	// Compute materializes the given partitions, failing fast on the
	// first partition that cannot be computed.
	Compute(ctx context.Context, parts []*Part) error
	// WhoHas reports, for each computed partition, the workers currently
	// holding it.
	WhoHas(ctx context.Context, parts []*Part) (map[*Part][]WorkerAddr, error)
	// NCores reports the number of usable compute cores per worker.
	NCores(ctx context.Context) (map[WorkerAddr]int, error)
	// Gather awaits all futures and reports one Result per future, in
	// order. It never returns before every future has settled.
	Gather(ctx context.Context, futures []*Future) []Result
}
