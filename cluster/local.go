package cluster

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkerSpec describes one simulated worker of a Local cluster.
type WorkerSpec struct {
	Host   string `yaml:"host"`
	NCores int    `yaml:"ncores"`
}

const localBasePort = 34000

type job struct {
	ctx  context.Context
	task Task
	fut  *Future
}

// Local is an in-process Client. Each worker runs its tasks serially on
// its own goroutine, so two tasks submitted to the same worker never
// overlap, while tasks on distinct workers run concurrently.
type Local struct {
	workers []WorkerAddr
	specs   map[WorkerAddr]WorkerSpec
	queues  map[WorkerAddr]chan job
	logger  *zap.Logger

	mu        sync.Mutex
	placement map[*Part][]WorkerAddr
	next      int

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

type LocalOption func(*Local)

func WithLogger(logger *zap.Logger) LocalOption {
	return func(l *Local) { l.logger = logger }
}

func NewLocal(specs []WorkerSpec, opts ...LocalOption) *Local {
	l := &Local{
		specs:     make(map[WorkerAddr]WorkerSpec),
		queues:    make(map[WorkerAddr]chan job),
		placement: make(map[*Part][]WorkerAddr),
		logger:    zap.NewNop(),
		closed:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	for i, spec := range specs {
		if spec.NCores <= 0 {
			spec.NCores = 1
		}
		addr := WorkerAddr(fmt.Sprintf("inproc://%s:%d", spec.Host, localBasePort+i))
		l.workers = append(l.workers, addr)
		l.specs[addr] = spec
		q := make(chan job, 64)
		l.queues[addr] = q
		l.wg.Add(1)
		go l.runWorker(addr, q)
	}
	return l
}

func (l *Local) runWorker(addr WorkerAddr, q chan job) {
	defer l.wg.Done()
	for {
		select {
		case <-l.closed:
			return
		case j := <-q:
			j.fut.settle(runTask(j.ctx, j.task))
			l.logger.Debug("task done", zap.String("worker", string(addr)))
		}
	}
}

// runTask converts a panicking task into a failed Result, so one worker's
// crash is reported like any other job failure.
func runTask(ctx context.Context, task Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("task panic: %v", r)}
		}
	}()
	v, err := task(ctx)
	return Result{Value: v, Err: err}
}

func (l *Local) Workers() []WorkerAddr {
	ws := make([]WorkerAddr, len(l.workers))
	copy(ws, l.workers)
	return ws
}

func (l *Local) Submit(ctx context.Context, worker WorkerAddr, task Task) (*Future, error) {
	q, ok := l.queues[worker]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWorker, worker)
	}
	fut := newFuture()
	select {
	case <-l.closed:
		return nil, ErrClosed
	case q <- job{ctx: ctx, task: task, fut: fut}:
		return fut, nil
	}
}

// Compute materializes parts concurrently and assigns each part to a
// worker, round-robin unless the part was pinned with Place.
func (l *Local) Compute(ctx context.Context, parts []*Part) error {
	if len(l.workers) == 0 {
		return ErrUnknownWorker
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range parts {
		l.place(p)
		p := p
		g.Go(func() error {
			_, err := p.Materialize(ctx)
			return err
		})
	}
	return g.Wait()
}

func (l *Local) place(p *Part) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.placement[p]; ok {
		return
	}
	w := l.workers[l.next%len(l.workers)]
	l.next++
	l.placement[p] = []WorkerAddr{w}
}

// Place pins a part to an explicit set of owning workers, overriding the
// round-robin assignment. The first listed worker is the primary owner.
func (l *Local) Place(p *Part, workers ...WorkerAddr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.placement[p] = workers
}

func (l *Local) WhoHas(ctx context.Context, parts []*Part) (map[*Part][]WorkerAddr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[*Part][]WorkerAddr, len(parts))
	for _, p := range parts {
		owners, ok := l.placement[p]
		if !ok {
			return nil, fmt.Errorf("%w: part %s", ErrNotMaterialized, p.ID())
		}
		m[p] = owners
	}
	return m, nil
}

func (l *Local) NCores(ctx context.Context) (map[WorkerAddr]int, error) {
	m := make(map[WorkerAddr]int, len(l.specs))
	for addr, spec := range l.specs {
		m[addr] = spec.NCores
	}
	return m, nil
}

func (l *Local) Gather(ctx context.Context, futures []*Future) []Result {
	results := make([]Result, len(futures))
	for i, f := range futures {
		results[i] = f.Await(ctx)
	}
	return results
}

func (l *Local) Close() {
	l.closeOnce.Do(func() { close(l.closed) })
	l.wg.Wait()
}
