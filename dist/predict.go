package dist

import (
	"context"
	"fmt"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
	"github.com/distboost/distboost/engine"
)

// Predict maps the fitted model over a partitioned dataset lazily: the
// returned collection computes nothing until the caller materializes it.
// Partition structure is preserved one-to-one, and Frame partitions keep
// their row index on the output.
func Predict(m *Model, xs cluster.Collection, opts engine.PredictOptions) cluster.Collection {
	out := make(cluster.Collection, len(xs))
	for i, p := range xs {
		p := p
		out[i] = cluster.NewPartWithMeta(func(ctx context.Context) (interface{}, error) {
			v, err := p.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			block, ok := v.(data.Block)
			if !ok {
				return nil, fmt.Errorf("unexpected partition payload %T", v)
			}
			return predictPart(m, block, opts)
		}, p.Meta())
	}
	return out
}

func predictPart(m *Model, block data.Block, opts engine.PredictOptions) (data.Block, error) {
	// A zero-row partition never reaches the booster.
	if block.Rows() == 0 {
		return emptyResult(m, block, opts), nil
	}
	in := block
	frame, isFrame := block.(*data.Frame)
	if isFrame {
		in = frame.Values
	}
	result, err := m.booster.Predict(in, opts)
	if err != nil {
		return nil, err
	}
	if !isFrame {
		return result, nil
	}
	dense, ok := result.(*data.Dense)
	if !ok {
		return result, nil
	}
	return &data.Frame{
		Values:  dense,
		Index:   frame.Index,
		Columns: predictColumns(dense.NumCols),
	}, nil
}

func predictColumns(width int) []string {
	if width == 1 {
		return []string{"predictions"}
	}
	return nil
}

func emptyResult(m *Model, block data.Block, opts engine.PredictOptions) data.Block {
	width := predictWidth(m, block.Cols(), opts)
	if _, ok := block.(*data.Frame); ok {
		return &data.Frame{Values: data.Zeros(0, width), Columns: predictColumns(width)}
	}
	return data.Zeros(0, width)
}

// predictWidth mirrors the engine's output contract: contribution output
// is one column per feature plus bias, probability output one column per
// class, everything else a single column.
func predictWidth(m *Model, cols int, opts engine.PredictOptions) int {
	switch {
	case opts.Contrib:
		return cols + 1
	case opts.Proba:
		return m.NumClasses()
	default:
		return 1
	}
}
