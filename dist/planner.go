package dist

import (
	"context"
	"fmt"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
)

// PlanParts fuses aligned feature, label and optional weight/group
// collections into one partition per index, so each fused partition is
// scheduled, located and trained as a single unit. Weight and group
// collections may be nil. All supplied collections must be split into the
// same number of partitions.
func PlanParts(xs, ys, ws, gs cluster.Collection) (cluster.Collection, error) {
	if len(ys) != len(xs) {
		return nil, &PartitionMismatchError{Name: "labels", Want: len(xs), Got: len(ys)}
	}
	if ws != nil && len(ws) != len(xs) {
		return nil, &PartitionMismatchError{Name: "weights", Want: len(xs), Got: len(ws)}
	}
	if gs != nil && len(gs) != len(xs) {
		return nil, &PartitionMismatchError{Name: "groups", Want: len(xs), Got: len(gs)}
	}
	for _, c := range []cluster.Collection{ys, ws} {
		if err := checkVectorRank(c); err != nil {
			return nil, err
		}
	}
	parts := make(cluster.Collection, len(xs))
	for i := range xs {
		var w, g *cluster.Part
		if ws != nil {
			w = ws[i]
		}
		if gs != nil {
			g = gs[i]
		}
		parts[i] = fuse(xs[i], ys[i], w, g)
	}
	return parts, nil
}

// checkVectorRank rejects vector collections whose partitions declare a
// multi-column shape. Partitions without declared shape metadata are
// checked later, when first materialized.
func checkVectorRank(c cluster.Collection) error {
	for _, p := range c {
		if p == nil {
			continue
		}
		if shape, ok := p.Meta().(data.Shape); ok && shape.NumCols > 1 {
			return fmt.Errorf("%w: got %d columns", ErrVectorRank, shape.NumCols)
		}
	}
	return nil
}

func fuse(x, y, w, g *cluster.Part) *cluster.Part {
	load := func(ctx context.Context) (interface{}, error) {
		xv, err := x.Materialize(ctx)
		if err != nil {
			return nil, err
		}
		block, ok := xv.(data.Block)
		if !ok {
			return nil, fmt.Errorf("unexpected feature payload %T", xv)
		}
		tuple := &data.PartTuple{X: block}
		if tuple.Y, err = vectorOf(ctx, y); err != nil {
			return nil, err
		}
		if w != nil {
			if tuple.W, err = vectorOf(ctx, w); err != nil {
				return nil, err
			}
		}
		if g != nil {
			gv, err := g.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			groups, ok := gv.(data.Groups)
			if !ok {
				return nil, fmt.Errorf("unexpected group payload %T", gv)
			}
			tuple.G = groups
		}
		return tuple, nil
	}
	return cluster.NewPartWithMeta(load, x.Meta())
}

// vectorOf materializes a vector-like partition, flattening single-column
// blocks and rejecting wider ones.
func vectorOf(ctx context.Context, p *cluster.Part) (data.Vector, error) {
	v, err := p.Materialize(ctx)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case data.Vector:
		return t, nil
	case *data.Dense:
		return flatten(t)
	case *data.Frame:
		return flatten(t.Values)
	default:
		return nil, fmt.Errorf("unexpected vector payload %T", v)
	}
}

func flatten(m *data.Dense) (data.Vector, error) {
	if m.NumCols != 1 {
		return nil, fmt.Errorf("%w: got %d columns", ErrVectorRank, m.NumCols)
	}
	return data.Vector(m.Data), nil
}
