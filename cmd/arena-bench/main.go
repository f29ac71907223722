// arena-bench drives allocate/release workloads against the process-wide
// arena and reports throughput. Prometheus metrics for the arena are served
// while the benchmark runs.
package main

import (
	"flag"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/23skdu/memarena/arena"
	"github.com/23skdu/memarena/internal/logging"
	"github.com/23skdu/memarena/jsonval"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	workers := flag.Int("workers", cfg.Workers, "Number of concurrent workers")
	duration := flag.Duration("duration", cfg.Duration, "Duration of the benchmark")
	mode := flag.String("mode", "raw", "Workload mode: 'raw', 'json' or 'mixed'")
	flag.Parse()

	logger, err := logging.NewLogger(logging.Config{
		Format: cfg.LogFormat,
		Level:  cfg.LogLevel,
	})
	if err != nil {
		os.Stderr.WriteString("invalid logger configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	go func() {
		logger.Info("starting metrics server", zap.String("address", cfg.MetricsAddr))
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	logger.Info("starting benchmark",
		zap.String("mode", *mode),
		zap.Int("workers", *workers),
		zap.Duration("duration", *duration),
		zap.Int("max_alloc", cfg.MaxAlloc),
		zap.Int("hold_depth", cfg.HoldDepth),
	)

	var ops, failures atomic.Int64
	start := time.Now()
	deadline := start.Add(*duration)

	var g errgroup.Group
	for w := 0; w < *workers; w++ {
		seed := int64(w + 1)
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for time.Now().Before(deadline) {
				var err error
				switch *mode {
				case "json":
					err = runJSON(rng)
				case "mixed":
					if rng.Intn(2) == 0 {
						err = runJSON(rng)
					} else {
						err = runRaw(rng, cfg)
					}
				default:
					err = runRaw(rng, cfg)
				}
				if err != nil {
					failures.Add(1)
				} else {
					ops.Add(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("benchmark failed", zap.Error(err))
		os.Exit(1)
	}

	elapsed := time.Since(start)
	stats := arena.Global().Stats()
	logger.Info("benchmark complete",
		zap.Int64("ops", ops.Load()),
		zap.Int64("failures", failures.Load()),
		zap.Float64("ops_per_sec", float64(ops.Load())/elapsed.Seconds()),
		zap.Int("system_blocks", stats.SystemBlocks),
		zap.Int("chunks", stats.Chunks),
		zap.Uint64("reserved_bytes", uint64(stats.ReservedBytes)),
		zap.Uint64("occupied_bytes", uint64(stats.OccupiedBytes)),
	)
}

// runRaw performs a burst of raw allocations at random sizes and
// alignments, then releases them in random order.
func runRaw(rng *rand.Rand, cfg *Config) error {
	a := arena.Global()

	held := make([]allocation, 0, cfg.HoldDepth)
	for i := 0; i < cfg.HoldDepth; i++ {
		size := uintptr(1 + rng.Intn(cfg.MaxAlloc))
		alignment := uintptr(1) << rng.Intn(7)
		p, err := a.Allocate(size, alignment)
		if err != nil {
			return err
		}
		held = append(held, allocation{p: p})
	}
	rng.Shuffle(len(held), func(i, j int) { held[i], held[j] = held[j], held[i] })
	for _, h := range held {
		a.Release(h.p)
	}
	return nil
}

type allocation struct{ p unsafe.Pointer }

// runJSON builds a small document through the typed adapter, serializes it
// and frees the whole tree.
func runJSON(rng *rand.Rand) error {
	tr := jsonval.NewTree()

	root, err := tr.Map()
	if err != nil {
		return err
	}
	defer tr.Free(root)

	items, err := tr.Array()
	if err != nil {
		return err
	}
	for i := 0; i < 1+rng.Intn(16); i++ {
		n, err := tr.Number(rng.Float64())
		if err != nil {
			return err
		}
		if err := tr.Append(items, n); err != nil {
			return err
		}
	}
	if err := tr.Set(root, "items", items); err != nil {
		return err
	}
	name, err := tr.String("bench")
	if err != nil {
		return err
	}
	if err := tr.Set(root, "name", name); err != nil {
		return err
	}

	var sb strings.Builder
	return jsonval.NewSerializer(&sb).Serialize(root)
}
