// Package dist coordinates distributed gradient-boosting training across
// a cluster of workers that each hold a partition of a larger dataset.
//
// The coordinator aligns per-worker partitions, negotiates a
// collision-free listening port per worker, dispatches one training job
// per worker with merged configuration, gathers the single model produced
// by the master worker, and routes predictions back across partitions.
// The boosting algorithm itself and the task-graph engine are external
// collaborators, consumed through the engine and cluster contracts.
package dist
