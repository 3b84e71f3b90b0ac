package cluster

import "errors"

var (
	ErrNotMaterialized = errors.New("partition not materialized")
	ErrUnknownWorker   = errors.New("unknown worker")
	ErrClosed          = errors.New("cluster closed")
)
