package cluster

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func twoWorkerCluster() *Local {
	return NewLocal([]WorkerSpec{
		{Host: "127.0.0.1", NCores: 2},
		{Host: "127.0.0.1", NCores: 3},
	})
}

func constPart(v interface{}) *Part {
	return NewPart(func(ctx context.Context) (interface{}, error) { return v, nil })
}

func TestWorkerAddrHost(t *testing.T) {
	require.Equal(t, "10.0.0.1", WorkerAddr("tcp://10.0.0.1:33221").Host())
	require.Equal(t, "10.0.0.1", WorkerAddr("10.0.0.1:8080").Host())
	require.Equal(t, "node-7", WorkerAddr("node-7").Host())
}

func TestComputePlacesEveryPart(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()

	parts := []*Part{constPart(1), constPart(2), constPart(3)}
	require.NoError(t, l.Compute(context.Background(), parts))

	whoHas, err := l.WhoHas(context.Background(), parts)
	require.NoError(t, err)
	for _, p := range parts {
		require.NotEmpty(t, whoHas[p])
		v, err := p.Value()
		require.NoError(t, err)
		require.NotNil(t, v)
	}
}

func TestComputeReportsPartFailure(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()

	boom := errors.New("bad shard")
	parts := []*Part{
		constPart(1),
		NewPart(func(ctx context.Context) (interface{}, error) { return nil, boom }),
	}
	require.ErrorIs(t, l.Compute(context.Background(), parts), boom)
}

func TestValueBeforeMaterialize(t *testing.T) {
	_, err := constPart(1).Value()
	require.ErrorIs(t, err, ErrNotMaterialized)
}

func TestSubmitUnknownWorker(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()

	_, err := l.Submit(context.Background(), WorkerAddr("inproc://nowhere:1"), func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrUnknownWorker)
}

func TestTasksOnOneWorkerRunSerially(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()
	w := l.Workers()[0]
	ctx := context.Background()

	var running int32
	var overlapped int32
	task := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&running, 1) > 1 {
			atomic.StoreInt32(&overlapped, 1)
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil, nil
	}

	var futs []*Future
	for i := 0; i < 4; i++ {
		fut, err := l.Submit(ctx, w, task)
		require.NoError(t, err)
		futs = append(futs, fut)
	}
	for _, res := range l.Gather(ctx, futs) {
		require.NoError(t, res.Err)
	}
	require.Zero(t, overlapped, "tasks on one worker overlapped")
}

func TestGatherSettlesAllBeforeReturning(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()
	ctx := context.Background()

	var slowDone int32
	fast, err := l.Submit(ctx, l.Workers()[0], func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("fast failure")
	})
	require.NoError(t, err)
	slow, err := l.Submit(ctx, l.Workers()[1], func(ctx context.Context) (interface{}, error) {
		time.Sleep(50 * time.Millisecond)
		atomic.StoreInt32(&slowDone, 1)
		return "ok", nil
	})
	require.NoError(t, err)

	results := l.Gather(ctx, []*Future{fast, slow})
	require.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Equal(t, "ok", results[1].Value)
	require.Equal(t, int32(1), atomic.LoadInt32(&slowDone), "gather returned before every job settled")
}

func TestTaskPanicBecomesResultError(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()
	ctx := context.Background()

	fut, err := l.Submit(ctx, l.Workers()[0], func(ctx context.Context) (interface{}, error) {
		panic("worker crash")
	})
	require.NoError(t, err)
	res := fut.Await(ctx)
	require.ErrorContains(t, res.Err, "worker crash")
}

func TestNCores(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()

	ncores, err := l.NCores(context.Background())
	require.NoError(t, err)
	require.Len(t, ncores, 2)
	require.Equal(t, 2, ncores[l.Workers()[0]])
	require.Equal(t, 3, ncores[l.Workers()[1]])
}

func TestPlacePinsOwnership(t *testing.T) {
	l := twoWorkerCluster()
	defer l.Close()

	p := constPart(1)
	w := l.Workers()[1]
	l.Place(p, w)
	require.NoError(t, l.Compute(context.Background(), []*Part{p}))

	whoHas, err := l.WhoHas(context.Background(), []*Part{p})
	require.NoError(t, err)
	require.Equal(t, []WorkerAddr{w}, whoHas[p])
}
