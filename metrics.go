package mcas

import (
	"sync/atomic"
)

// metrics tracks operation counters for the package.
// Counters are package-wide, thread-safe, and disabled by default;
// when disabled the per-event cost is a single atomic bool load.
//
// Example:
//
//	mcas.EnableMetrics(true)
//	// ... workload ...
//	stats := mcas.MetricsSnapshot()
//	fmt.Printf("commit rate: %.2f\n",
//		float64(stats.Commits)/float64(stats.Ops))
type metrics struct {
	// Ops counts top-level MCAS calls.
	Ops atomic.Uint64
	// Commits counts decide transitions to StatusSucceeded.
	Commits atomic.Uint64
	// Aborts counts decide transitions to StatusFailed.
	Aborts atomic.Uint64
	// CCASInstalls counts conditional descriptors published into cells.
	CCASInstalls atomic.Uint64
	// CCASHelps counts conditional descriptor resolutions (originator or
	// helper).
	CCASHelps atomic.Uint64
	// MCASHelps counts batch descriptors helped after being observed in a
	// cell (by readers or by competing batches).
	MCASHelps atomic.Uint64
	// AcquireRetries counts per-cell retries during the acquire phase.
	AcquireRetries atomic.Uint64
	// Patches counts cells restored to a user value after a decide.
	Patches atomic.Uint64
}

var (
	metricsEnabled atomic.Bool
	pkgMetrics     metrics
)

// EnableMetrics enables or disables counter collection. Safe to toggle at
// any time; events in flight during a toggle may or may not be counted.
func EnableMetrics(enabled bool) {
	metricsEnabled.Store(enabled)
}

// count increments c if collection is enabled.
func count(c *atomic.Uint64) {
	if metricsEnabled.Load() {
		c.Add(1)
	}
}

// Snapshot is a point-in-time copy of the package counters.
// Individual counters are read independently, so a snapshot taken during
// a live workload is not a consistent cut; totals converge once the
// workload quiesces.
type Snapshot struct {
	Ops            uint64
	Commits        uint64
	Aborts         uint64
	CCASInstalls   uint64
	CCASHelps      uint64
	MCASHelps      uint64
	AcquireRetries uint64
	Patches        uint64
}

// MetricsSnapshot returns a copy of the current counter values.
func MetricsSnapshot() Snapshot {
	return Snapshot{
		Ops:            pkgMetrics.Ops.Load(),
		Commits:        pkgMetrics.Commits.Load(),
		Aborts:         pkgMetrics.Aborts.Load(),
		CCASInstalls:   pkgMetrics.CCASInstalls.Load(),
		CCASHelps:      pkgMetrics.CCASHelps.Load(),
		MCASHelps:      pkgMetrics.MCASHelps.Load(),
		AcquireRetries: pkgMetrics.AcquireRetries.Load(),
		Patches:        pkgMetrics.Patches.Load(),
	}
}

// ResetMetrics zeroes all counters.
func ResetMetrics() {
	pkgMetrics.Ops.Store(0)
	pkgMetrics.Commits.Store(0)
	pkgMetrics.Aborts.Store(0)
	pkgMetrics.CCASInstalls.Store(0)
	pkgMetrics.CCASHelps.Store(0)
	pkgMetrics.MCASHelps.Store(0)
	pkgMetrics.AcquireRetries.Store(0)
	pkgMetrics.Patches.Store(0)
}
