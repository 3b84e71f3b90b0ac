// distboost-smoke runs one full coordination round on an in-process
// cluster: scatter a synthetic dataset, negotiate ports, dispatch one
// training job per worker, gather the model and route predictions back.
package main

import (
	"context"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/distboost/distboost/cluster"
	"github.com/distboost/distboost/data"
	"github.com/distboost/distboost/dist"
	"github.com/distboost/distboost/engine"
	"github.com/distboost/distboost/engine/baseline"
	"github.com/distboost/distboost/monitor"
)

var (
	configFile  = flag.String("config", "", "YAML config file")
	rows        = flag.Int("rows", 10000, "synthetic dataset rows")
	cols        = flag.Int("cols", 20, "synthetic dataset columns")
	parts       = flag.Int("parts", 8, "number of partitions")
	metricsAddr = flag.String("metrics", "", "serve prometheus metrics on this address")
)

type smokeConfig struct {
	Params  engine.Params        `yaml:"params"`
	Workers []cluster.WorkerSpec `yaml:"workers"`
}

func defaultConfig() smokeConfig {
	return smokeConfig{
		Params: engine.Params{"tree_learner": "data"},
		Workers: []cluster.WorkerSpec{
			{Host: "127.0.0.1", NCores: 2},
			{Host: "127.0.0.1", NCores: 2},
		},
	}
}

func loadConfig(path string) (smokeConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(buf, &cfg)
	return cfg, err
}

func main() {
	flag.Parse()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if *metricsAddr != "" {
		go func() {
			logger.Info("serving metrics", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, monitor.Handler()); err != nil {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	local := cluster.NewLocal(cfg.Workers, cluster.WithLogger(logger))
	defer local.Close()

	rng := rand.New(rand.NewSource(1))
	x := data.Zeros(*rows, *cols)
	for i := range x.Data {
		x.Data[i] = rng.NormFloat64()
	}
	y := make(data.Vector, *rows)
	for i := range y {
		y[i] = x.At(i, 0) + 0.1*rng.NormFloat64()
	}

	ctx := context.Background()
	reg := dist.NewRegressor(&baseline.Engine{}, cfg.Params, dist.WithLogger(logger))

	t0 := time.Now()
	err = reg.Fit(ctx, local, dist.ScatterDense(x, *parts), dist.ScatterVector(y, *parts), nil)
	if err != nil {
		logger.Fatal("training round failed", zap.Error(err))
	}
	logger.Info("training round finished", zap.Duration("took", time.Since(t0)))

	preds, err := reg.Predict(dist.ScatterDense(x, *parts), engine.PredictOptions{})
	if err != nil {
		logger.Fatal("predict", zap.Error(err))
	}
	if err := local.Compute(ctx, preds); err != nil {
		logger.Fatal("materialize predictions", zap.Error(err))
	}
	var n int
	for _, p := range preds {
		v, err := p.Value()
		if err != nil {
			logger.Fatal("prediction partition", zap.Error(err))
		}
		n += v.(data.Block).Rows()
	}
	logger.Info("predictions routed",
		zap.Int("rows", n),
		zap.Int("partitions", len(preds)))
}
