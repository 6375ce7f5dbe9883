// logging.go - Structured Logging Interface for the mcas Module
//
// Package-level configuration for structured logging, integrating with
// logiface (and through it zerolog, logrus, slog, stumpy, etc).
//
// Usage:
//   mcas.SetLogger(someLogifaceLogger.Logger())
//
// Logging is package-level rather than per-cell or per-batch: cells are
// plentiful and descriptors are transient, so there is no instance to hang
// configuration off. When no logger is set the per-event cost is a single
// atomic pointer load. Events are emitted for helping and for decides; the
// goroutine that performs a batch's decide logs it, so an uncontended MCAS
// call emits one debug event.

package mcas

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

var pkgLogger atomic.Pointer[logiface.Logger[logiface.Event]]

// SetLogger sets the package logger. A nil logger disables logging.
//
// Logging must never be load-bearing here: an event may be emitted by the
// operation's originator or by whichever goroutine happened to help it,
// and a given state transition is logged by the goroutine that performed
// it, at most once.
func SetLogger(logger *logiface.Logger[logiface.Event]) {
	pkgLogger.Store(logger)
}

// getLogger returns the package logger, possibly nil. All logiface builder
// methods are nil-safe, so call sites chain directly off the result.
func getLogger() *logiface.Logger[logiface.Event] {
	return pkgLogger.Load()
}

// logDecide records the authoritative decide transition for a batch.
// Called only by the goroutine whose CAS performed the transition.
func logDecide(d *mcasDescriptor, target Status) {
	getLogger().Debug().
		Uint64(`desc`, d.seq).
		Int(`triples`, len(d.triples)).
		Stringer(`status`, target).
		Log(`mcas decided`)
}

// logHelp records that an in-flight batch descriptor was observed in a
// cell and is about to be helped to completion.
func logHelp(d *mcasDescriptor, c *Cell) {
	getLogger().Trace().
		Uint64(`desc`, d.seq).
		Uint64(`cell`, c.orderID()).
		Stringer(`status`, d.status.load()).
		Log(`helping mcas descriptor`)
}
