package dist

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
	"github.com/distboost/distboost/engine"
	"github.com/distboost/distboost/monitor"
	"github.com/distboost/distboost/plan"
)

// TrainSpec describes one training round.
type TrainSpec struct {
	Task   engine.TaskKind
	Engine engine.Engine
	Params engine.Params

	X cluster.Collection
	Y cluster.Collection
	// Weights and Groups are optional; Groups is required for ranking.
	Weights cluster.Collection
	Groups  cluster.Collection
}

type config struct {
	logger *zap.Logger
	probe  probeFunc
}

type Option func(*config)

func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// withProbe replaces the port probe; used by tests.
func withProbe(probe probeFunc) Option {
	return func(c *config) { c.probe = probe }
}

func newConfig(opts []Option) *config {
	c := &config{logger: zap.NewNop(), probe: plan.FindOpenPort}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Train runs one distributed training round and returns the single model
// produced by the master worker. No partial model is ever returned: if
// any worker's job fails, the round fails after every job has settled.
func Train(ctx context.Context, c cluster.Client, spec TrainSpec, opts ...Option) (*Model, error) {
	cfg := newConfig(opts)
	monitor.RoundsStarted.Inc()
	m, err := train(ctx, c, spec, cfg)
	if err != nil {
		monitor.RoundsFailed.Inc()
	}
	return m, err
}

func train(ctx context.Context, c cluster.Client, spec TrainSpec, cfg *config) (*Model, error) {
	if spec.Engine == nil {
		return nil, errors.New("nil engine")
	}
	// Reject a groupless ranking round before any cluster resources are
	// spent on topology negotiation.
	if spec.Task == engine.TaskRanking && spec.Groups == nil {
		return nil, ErrRankerMissingGroup
	}

	parts, err := PlanParts(spec.X, spec.Y, spec.Weights, spec.Groups)
	if err != nil {
		return nil, err
	}
	if err := c.Compute(ctx, parts); err != nil {
		return nil, fmt.Errorf("materialize partitions: %w", err)
	}

	whoHas, err := c.WhoHas(ctx, parts)
	if err != nil {
		return nil, err
	}
	owned := make(map[cluster.WorkerAddr][]*cluster.Part)
	var workers []cluster.WorkerAddr
	for _, p := range parts {
		owners := whoHas[p]
		if len(owners) == 0 {
			return nil, fmt.Errorf("no worker holds partition %s", p.ID())
		}
		w := owners[0]
		if _, ok := owned[w]; !ok {
			workers = append(workers, w)
		}
		owned[w] = append(owned[w], p)
	}
	if len(workers) == 0 {
		return nil, ErrNoTrainingData
	}
	master := workers[0]

	netcfg, shared := resolveNetConfig(spec.Params, cfg.logger)
	topo, err := allocatePorts(ctx, c, workers, netcfg.listenPort, cfg.probe)
	if err != nil {
		return nil, err
	}
	ncores, err := c.NCores(ctx)
	if err != nil {
		return nil, err
	}

	cfg.logger.Info("dispatching training round",
		zap.String("machines", topo.MachineList()),
		zap.Int("num_machines", topo.NumMachines()),
		zap.String("tree_learner", netcfg.treeLearner),
		zap.String("master", string(master)))

	futures := make([]*cluster.Future, 0, len(workers))
	for _, w := range workers {
		params := shared.Clone()
		params["machines"] = topo.MachineList()
		params["local_listen_port"] = topo.Port(w)
		params["num_machines"] = topo.NumMachines()
		params["time_out"] = netcfg.timeOut
		params["num_threads"] = coresOf(ncores, w)
		jobParts := owned[w]
		returnModel := w == master
		fut, err := c.Submit(ctx, w, func(ctx context.Context) (interface{}, error) {
			return trainPart(ctx, spec.Engine, params, jobParts, spec.Task, returnModel)
		})
		if err != nil {
			return nil, fmt.Errorf("submit training job to %s: %w", w, err)
		}
		monitor.JobsSubmitted.Inc()
		futures = append(futures, fut)
	}

	// Gather settles every job before any error is inspected, so one
	// worker's failure never cuts a sibling's legitimate run short.
	results := c.Gather(ctx, futures)
	var firstErr error
	for i, res := range results {
		if res.Err == nil {
			continue
		}
		monitor.JobsFailed.Inc()
		if firstErr == nil {
			firstErr = fmt.Errorf("worker %s: %w", workers[i], res.Err)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	// Non-master workers return nothing; exactly one result remains.
	for _, res := range results {
		if b, ok := res.Value.(engine.Booster); ok && b != nil {
			return newModel(spec.Task, b), nil
		}
	}
	return nil, errors.New("master worker returned no model")
}

func coresOf(ncores map[cluster.WorkerAddr]int, w cluster.WorkerAddr) int {
	if n, ok := ncores[w]; ok && n > 0 {
		return n
	}
	return 1
}

// trainPart is the remote body of one training job: concatenate the
// worker's partitions into contiguous blocks, fit a fresh booster on
// them, and return it iff this worker is the master.
func trainPart(ctx context.Context, eng engine.Engine, params engine.Params, parts []*cluster.Part, task engine.TaskKind, returnModel bool) (b engine.Booster, err error) {
	// The network teardown runs whether or not the fit succeeds, so no
	// socket set leaks into the next round.
	defer func() {
		if ferr := eng.FreeNetwork(); ferr != nil && err == nil {
			err = ferr
		}
	}()
	ds, err := concatParts(parts, task)
	if err != nil {
		return nil, err
	}
	booster, err := eng.New(params)
	if err != nil {
		return nil, err
	}
	if err = booster.Fit(ctx, ds); err != nil {
		return nil, err
	}
	if !returnModel {
		return nil, nil
	}
	return booster, nil
}

func concatParts(parts []*cluster.Part, task engine.TaskKind) (*data.Dataset, error) {
	var (
		xs []data.Block
		ys []data.Vector
		ws []data.Vector
		gs []data.Groups
	)
	for _, p := range parts {
		v, err := p.Value()
		if err != nil {
			return nil, err
		}
		t, ok := v.(*data.PartTuple)
		if !ok {
			return nil, fmt.Errorf("unexpected partition payload %T", v)
		}
		xs = append(xs, t.X)
		ys = append(ys, t.Y)
		if t.W != nil {
			ws = append(ws, t.W)
		}
		if t.G != nil {
			gs = append(gs, t.G)
		}
	}
	x, err := data.Concat(xs)
	if err != nil {
		return nil, err
	}
	ds := &data.Dataset{X: x, Y: data.ConcatVectors(ys)}
	if len(ws) > 0 {
		ds.W = data.ConcatVectors(ws)
	}
	if len(gs) > 0 {
		ds.G = data.ConcatGroups(gs)
	}
	if task == engine.TaskRanking && ds.G == nil {
		return nil, ErrRankerMissingGroup
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
