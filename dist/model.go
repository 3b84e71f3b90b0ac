package dist

import (
	"context"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/engine"
)

// Model wraps the booster gathered from the master worker together with
// the parameters that produced it.
type Model struct {
	task    engine.TaskKind
	booster engine.Booster
	params  engine.Params
}

func newModel(task engine.TaskKind, b engine.Booster) *Model {
	return &Model{task: task, booster: b, params: b.Params()}
}

func (m *Model) Task() engine.TaskKind { return m.task }

func (m *Model) Params() engine.Params { return m.params.Clone() }

func (m *Model) NumClasses() int { return m.booster.NumClasses() }

// ToLocal returns the fitted booster for local, cluster-free use.
func (m *Model) ToLocal() engine.Booster { return m.booster }

// estimator carries the distributed behavior shared by the task-specific
// wrappers. Task-specific rules are checked against the TaskKind tag at
// dispatch and predict time.
type estimator struct {
	task   engine.TaskKind
	eng    engine.Engine
	params engine.Params
	opts   []Option
	model  *Model
}

func (e *estimator) fit(ctx context.Context, c cluster.Client, x, y, w, g cluster.Collection) error {
	m, err := Train(ctx, c, TrainSpec{
		Task:    e.task,
		Engine:  e.eng,
		Params:  e.params,
		X:       x,
		Y:       y,
		Weights: w,
		Groups:  g,
	}, e.opts...)
	if err != nil {
		return err
	}
	e.model = m
	// Adopt the fitted model's parameters, which carry the per-round
	// corrections (tree learner, network settings) applied at dispatch.
	e.params = m.Params()
	return nil
}

func (e *estimator) predict(x cluster.Collection, opts engine.PredictOptions) (cluster.Collection, error) {
	if e.model == nil {
		return nil, ErrNotFitted
	}
	return Predict(e.model, x, opts), nil
}

func (e *estimator) Model() *Model { return e.model }

func (e *estimator) Params() engine.Params { return e.params.Clone() }

// Regressor trains a regression booster across the cluster.
type Regressor struct{ estimator }

func NewRegressor(eng engine.Engine, params engine.Params, opts ...Option) *Regressor {
	return &Regressor{estimator{task: engine.TaskRegression, eng: eng, params: params.Clone(), opts: opts}}
}

// Fit trains on aligned feature and label collections. Weights may be
// nil.
func (r *Regressor) Fit(ctx context.Context, c cluster.Client, x, y, weights cluster.Collection) error {
	return r.fit(ctx, c, x, y, weights, nil)
}

func (r *Regressor) Predict(x cluster.Collection, opts engine.PredictOptions) (cluster.Collection, error) {
	return r.predict(x, opts)
}

// Classifier trains a classification booster across the cluster.
type Classifier struct{ estimator }

func NewClassifier(eng engine.Engine, params engine.Params, opts ...Option) *Classifier {
	return &Classifier{estimator{task: engine.TaskClassification, eng: eng, params: params.Clone(), opts: opts}}
}

func (c *Classifier) Fit(ctx context.Context, cl cluster.Client, x, y, weights cluster.Collection) error {
	return c.fit(ctx, cl, x, y, weights, nil)
}

func (c *Classifier) Predict(x cluster.Collection, opts engine.PredictOptions) (cluster.Collection, error) {
	return c.predict(x, opts)
}

// PredictProba predicts per-class probabilities, one column per class.
func (c *Classifier) PredictProba(x cluster.Collection) (cluster.Collection, error) {
	return c.predict(x, engine.PredictOptions{Proba: true})
}

// Ranker trains a learning-to-rank booster across the cluster. Group data
// is required; fitting without it fails before any port negotiation.
type Ranker struct{ estimator }

func NewRanker(eng engine.Engine, params engine.Params, opts ...Option) *Ranker {
	return &Ranker{estimator{task: engine.TaskRanking, eng: eng, params: params.Clone(), opts: opts}}
}

func (r *Ranker) Fit(ctx context.Context, c cluster.Client, x, y, weights, groups cluster.Collection) error {
	if _, ok := r.params.Resolve("init_score"); ok {
		return ErrInitScoreUnsupported
	}
	return r.fit(ctx, c, x, y, weights, groups)
}

func (r *Ranker) Predict(x cluster.Collection, opts engine.PredictOptions) (cluster.Collection, error) {
	return r.predict(x, opts)
}
