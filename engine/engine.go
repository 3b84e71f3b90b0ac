// Package engine defines the capability contract of the boosting engine
// the coordinator drives: construct a booster from merged parameters, fit
// it on concatenated partitions, predict, and release the process-wide
// synchronization network after a round.
package engine

import (
	"context"
	"errors"

	"github.com/distboost/distboost/data"
)

// TaskKind tags the learning task. Task-specific behavior (group
// requirement, probability output width) is checked at dispatch and
// predict time against this tag.
type TaskKind int

const (
	TaskRegression TaskKind = iota
	TaskClassification
	TaskRanking
)

var taskNames = map[TaskKind]string{
	TaskRegression:     `regression`,
	TaskClassification: `classification`,
	TaskRanking:        `ranking`,
}

func (k TaskKind) String() string { return taskNames[k] }

var errInvalidTask = errors.New("invalid task kind")

func ParseTaskKind(s string) (TaskKind, error) {
	for k, name := range taskNames {
		if s == name {
			return k, nil
		}
	}
	return 0, errInvalidTask
}

// PredictOptions selects the prediction mode. Leaf and Contrib may be
// combined with plain or probability output per the engine's contract.
type PredictOptions struct {
	RawScore bool
	Proba    bool
	Leaf     bool
	Contrib  bool
}

// Booster is one fitted (or fittable) model instance.
type Booster interface {
	Fit(ctx context.Context, d *data.Dataset) error
	// Predict returns narrow output (one column) for plain and leaf-index
	// prediction, wide output for probability (one column per class) and
	// contribution (one column per feature plus bias) prediction.
	Predict(x data.Block, opts PredictOptions) (data.Block, error)
	Params() Params
	NumClasses() int
}

// Engine constructs boosters and owns the process-wide network resource
// of the boosting library on one worker.
type Engine interface {
	New(params Params) (Booster, error)
	// FreeNetwork releases the worker's boosting network sockets. It is
	// called after every training job, fit error or not, and must be safe
	// to call when no network was set up.
	FreeNetwork() error
}
