package dist

import (
	"context"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
)

// ScatterDense splits an in-memory matrix into k lazy partitions with
// declared shapes. Mostly useful for tests, smoke runs and single-host
// datasets; real deployments receive collections already partitioned by
// the task engine.
func ScatterDense(m *data.Dense, k int) cluster.Collection {
	chunks := data.SplitDense(m, k)
	out := make(cluster.Collection, len(chunks))
	for i, chunk := range chunks {
		chunk := chunk
		out[i] = cluster.NewPartWithMeta(func(ctx context.Context) (interface{}, error) {
			return chunk, nil
		}, data.Shape{NumRows: chunk.NumRows, NumCols: chunk.NumCols})
	}
	return out
}

// ScatterVector splits an in-memory vector into k lazy partitions aligned
// with ScatterDense.
func ScatterVector(v data.Vector, k int) cluster.Collection {
	chunks := data.SplitVector(v, k)
	out := make(cluster.Collection, len(chunks))
	for i, chunk := range chunks {
		chunk := chunk
		out[i] = cluster.NewPartWithMeta(func(ctx context.Context) (interface{}, error) {
			return chunk, nil
		}, data.Shape{NumRows: len(chunk), NumCols: 1})
	}
	return out
}

// ScatterGroups wraps pre-aligned per-partition group chunks. The caller
// is responsible for sizing each chunk so its sizes sum to the rows of
// the matching feature partition.
func ScatterGroups(chunks []data.Groups) cluster.Collection {
	out := make(cluster.Collection, len(chunks))
	for i, chunk := range chunks {
		chunk := chunk
		out[i] = cluster.NewPart(func(ctx context.Context) (interface{}, error) {
			return chunk, nil
		})
	}
	return out
}
