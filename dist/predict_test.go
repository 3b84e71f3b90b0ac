package dist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
	"github.com/distboost/distboost/engine"
	"github.com/distboost/distboost/engine/baseline"
)

func fittedModel(t *testing.T, eng *baseline.Engine, task engine.TaskKind, params engine.Params) *Model {
	t.Helper()
	b, err := eng.New(params)
	require.NoError(t, err)
	ds := &data.Dataset{X: data.Zeros(4, 3), Y: data.Vector{2, 2, 2, 2}}
	require.NoError(t, b.Fit(context.Background(), ds))
	return newModel(task, b)
}

func partOf(block data.Block) *cluster.Part {
	return cluster.NewPart(func(ctx context.Context) (interface{}, error) { return block, nil })
}

func materializeOne(t *testing.T, c cluster.Collection) data.Block {
	t.Helper()
	require.Len(t, c, 1)
	v, err := c[0].Materialize(context.Background())
	require.NoError(t, err)
	return v.(data.Block)
}

func TestPredictEmptyPartitionSkipsModel(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskRegression, engine.Params{})
	calls := eng.PredictCalls()

	out := Predict(m, cluster.Collection{partOf(data.Zeros(0, 3))}, engine.PredictOptions{})
	block := materializeOne(t, out)
	require.Zero(t, block.Rows())
	require.Equal(t, calls, eng.PredictCalls(), "empty partition must never reach the booster")
}

func TestPredictPreservesFrameIndex(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskRegression, engine.Params{})

	frame := &data.Frame{
		Values:  data.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		Index:   []int64{5, 7, 9},
		Columns: []string{"f0", "f1"},
	}
	out := Predict(m, cluster.Collection{partOf(frame)}, engine.PredictOptions{})
	result := materializeOne(t, out).(*data.Frame)
	require.Equal(t, []int64{5, 7, 9}, result.Index)
	require.Equal(t, []string{"predictions"}, result.Columns)
	require.Equal(t, 1, result.Cols())
	require.Equal(t, []float64{2, 2, 2}, result.Values.Data)
}

func TestPredictProbaWidthIsClassCount(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskClassification, engine.Params{"num_class": 3})

	out := Predict(m, cluster.Collection{partOf(data.Zeros(5, 4))}, engine.PredictOptions{Proba: true})
	block := materializeOne(t, out)
	require.Equal(t, 5, block.Rows())
	require.Equal(t, 3, block.Cols())
}

func TestPredictLeafIsNarrow(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskRegression, engine.Params{})

	out := Predict(m, cluster.Collection{partOf(data.Zeros(5, 4))}, engine.PredictOptions{Leaf: true})
	block := materializeOne(t, out)
	require.Equal(t, 5, block.Rows())
	require.Equal(t, 1, block.Cols())
}

func TestPredictContribIsWide(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskRegression, engine.Params{})

	out := Predict(m, cluster.Collection{partOf(data.Zeros(5, 4))}, engine.PredictOptions{Contrib: true})
	block := materializeOne(t, out)
	require.Equal(t, 5, block.Rows())
	require.Equal(t, 5, block.Cols(), "one column per feature plus bias")
}

func TestPredictEmptyFrameKeepsShape(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskClassification, engine.Params{"num_class": 4})

	empty := &data.Frame{Values: data.Zeros(0, 2), Columns: []string{"a", "b"}}
	out := Predict(m, cluster.Collection{partOf(empty)}, engine.PredictOptions{Proba: true})
	result := materializeOne(t, out).(*data.Frame)
	require.Zero(t, result.Rows())
	require.Equal(t, 4, result.Cols())
	require.Zero(t, eng.PredictCalls())
}

func TestPredictIsLazy(t *testing.T) {
	eng := &baseline.Engine{}
	m := fittedModel(t, eng, engine.TaskRegression, engine.Params{})

	loaded := false
	p := cluster.NewPart(func(ctx context.Context) (interface{}, error) {
		loaded = true
		return data.Zeros(2, 2), nil
	})
	out := Predict(m, cluster.Collection{p}, engine.PredictOptions{})
	require.False(t, loaded, "mapping must not force materialization")
	_, err := out[0].Materialize(context.Background())
	require.NoError(t, err)
	require.True(t, loaded)
}
