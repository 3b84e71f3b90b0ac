// Package baseline provides a trivial mean-predicting engine. It exists
// so coordination logic can be exercised, in tests and smoke runs,
// without a real boosting library behind the contract.
package baseline

import (
	"context"
	"sync"

	"github.com/distboost/distboost/data"
	"github.com/distboost/distboost/engine"
)

// Engine implements engine.Engine. The hooks inject failures into
// specific jobs; the counters record how the coordinator drove the
// engine.
type Engine struct {
	// NewHook, when set, may reject booster construction.
	NewHook func(params engine.Params) error
	// FitHook, when set, runs before a fit and may fail it. It receives
	// the merged per-worker params of the job.
	FitHook func(params engine.Params) error

	mu           sync.Mutex
	fitCalls     int
	predictCalls int
	networkFrees int
	seenParams   []engine.Params
}

func (e *Engine) New(params engine.Params) (engine.Booster, error) {
	e.mu.Lock()
	e.seenParams = append(e.seenParams, params.Clone())
	e.mu.Unlock()
	if e.NewHook != nil {
		if err := e.NewHook(params); err != nil {
			return nil, err
		}
	}
	return &Booster{engine: e, params: params.Clone()}, nil
}

func (e *Engine) FreeNetwork() error {
	e.mu.Lock()
	e.networkFrees++
	e.mu.Unlock()
	return nil
}

func (e *Engine) FitCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fitCalls
}

func (e *Engine) PredictCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.predictCalls
}

func (e *Engine) NetworkFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.networkFrees
}

// SeenParams returns a copy of the merged params of every booster the
// coordinator constructed.
func (e *Engine) SeenParams() []engine.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.Params, len(e.seenParams))
	copy(out, e.seenParams)
	return out
}

// Booster predicts the (weighted) mean of the labels it was fitted on.
type Booster struct {
	engine *Engine
	params engine.Params
	mean   float64
}

func (b *Booster) Fit(ctx context.Context, d *data.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.engine.mu.Lock()
	b.engine.fitCalls++
	b.engine.mu.Unlock()
	if b.engine.FitHook != nil {
		if err := b.engine.FitHook(b.params); err != nil {
			return err
		}
	}
	if err := d.Validate(); err != nil {
		return err
	}
	var sum, wsum float64
	for i, y := range d.Y {
		w := 1.0
		if d.W != nil {
			w = d.W[i]
		}
		sum += w * y
		wsum += w
	}
	if wsum > 0 {
		b.mean = sum / wsum
	}
	return nil
}

func (b *Booster) Predict(x data.Block, opts engine.PredictOptions) (data.Block, error) {
	b.engine.mu.Lock()
	b.engine.predictCalls++
	b.engine.mu.Unlock()
	rows := x.Rows()
	switch {
	case opts.Contrib:
		// one column per feature plus the bias column
		out := data.Zeros(rows, x.Cols()+1)
		for i := 0; i < rows; i++ {
			out.Data[i*out.NumCols+x.Cols()] = b.mean
		}
		return out, nil
	case opts.Proba:
		k := b.NumClasses()
		out := data.Zeros(rows, k)
		for i := range out.Data {
			out.Data[i] = 1 / float64(k)
		}
		return out, nil
	case opts.Leaf:
		return data.Zeros(rows, 1), nil
	default:
		out := data.Zeros(rows, 1)
		for i := range out.Data {
			out.Data[i] = b.mean
		}
		return out, nil
	}
}

func (b *Booster) Params() engine.Params { return b.params.Clone() }

func (b *Booster) NumClasses() int {
	if k := b.params.ResolveInt("num_class", 1); k > 1 {
		return k
	}
	return 1
}
