// Package metrics exposes Prometheus collectors for the allocator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArenaSystemBlocksTotal counts blocks obtained from the Go allocator.
	ArenaSystemBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memarena_system_blocks_total",
		Help: "Total number of backing blocks obtained from the system allocator",
	})

	// ArenaReservedBytes tracks bytes reserved in system blocks across all
	// arenas. Blocks are never returned, so this only grows.
	ArenaReservedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memarena_reserved_bytes",
		Help: "Bytes reserved in backing blocks across all arenas",
	})

	// ArenaOccupiedBytes tracks bytes currently handed out to callers.
	ArenaOccupiedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "memarena_occupied_bytes",
		Help: "Bytes currently occupied by live allocations",
	})

	// ArenaAllocationsTotal counts successful Allocate calls.
	ArenaAllocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memarena_allocations_total",
		Help: "Total number of successful allocations",
	})

	// ArenaReleasesTotal counts releases of chunks the arena owns.
	ArenaReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memarena_releases_total",
		Help: "Total number of releases of arena-owned chunks",
	})

	// ArenaForeignReleasesTotal counts releases of pointers the arena does
	// not own, which are ignored by policy.
	ArenaForeignReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "memarena_foreign_releases_total",
		Help: "Total number of ignored releases of unrecognized pointers",
	})
)
