package dist

import (
	"go.uber.org/zap"

	"github.com/distboost/distboost/engine"
)

const (
	// DefaultListenPort is the first port tried during negotiation when
	// the configuration does not name one.
	DefaultListenPort = 12400
	// DefaultTimeOut is the socket timeout, in seconds, forwarded into
	// the engine's synchronization layer.
	DefaultTimeOut = 120
)

type netConfig struct {
	treeLearner string
	listenPort  int
	timeOut     int
}

// resolveNetConfig reads the per-round network configuration out of the
// caller's params and returns the shared params forwarded to every
// worker. An unset or unrecognized tree learner is corrected to the
// default with a warning; this is a recoverable condition, never an
// error. All num_threads aliases are stripped, since the dispatcher
// assigns a per-worker value from that worker's reported core count.
func resolveNetConfig(params engine.Params, logger *zap.Logger) (netConfig, engine.Params) {
	shared := params.Clone()
	var cfg netConfig

	v, present := shared.Resolve("tree_learner")
	tl, isString := v.(string)
	switch {
	case !present:
		logger.Warn("tree_learner not set, using default",
			zap.String("default", engine.DefaultTreeLearner))
		tl = engine.DefaultTreeLearner
	case !isString || !engine.ValidTreeLearner(tl):
		logger.Warn("tree_learner not allowed, using default",
			zap.Any("tree_learner", v),
			zap.Strings("allowed", engine.TreeLearnerNames()),
			zap.String("default", engine.DefaultTreeLearner))
		tl = engine.DefaultTreeLearner
	}
	cfg.treeLearner = tl
	shared.Strip("tree_learner")
	shared["tree_learner"] = tl

	cfg.listenPort = shared.ResolveInt("local_listen_port", DefaultListenPort)
	shared.Strip("local_listen_port") // injected per worker at dispatch

	cfg.timeOut = shared.ResolveInt("time_out", DefaultTimeOut)
	shared.Strip("time_out")

	shared.Strip("num_threads")
	return cfg, shared
}
