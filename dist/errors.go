package dist

import (
	"errors"
	"fmt"
)

var (
	// ErrRankerMissingGroup is reported before any port negotiation when a
	// ranking round is requested without group data.
	ErrRankerMissingGroup = errors.New("ranking task requires group data")
	// ErrNoTrainingData is reported when no worker holds any partition.
	ErrNoTrainingData = errors.New("no worker holds training data")
	// ErrInitScoreUnsupported mirrors the engine's restriction on
	// distributed ranking rounds.
	ErrInitScoreUnsupported = errors.New("init_score is not supported in distributed training")
	// ErrNotFitted is reported when predicting with an unfitted estimator.
	ErrNotFitted = errors.New("model not fitted")
	// ErrVectorRank rejects vector-like inputs with more than one column.
	ErrVectorRank = errors.New("vector input must have a single column")
)

// PartitionMismatchError reports aligned collections split into different
// partition counts. This is a caller usage error, not recovered.
type PartitionMismatchError struct {
	Name string
	Want int
	Got  int
}

func (e *PartitionMismatchError) Error() string {
	return fmt.Sprintf("features split into %d partitions, %s into %d", e.Want, e.Name, e.Got)
}
