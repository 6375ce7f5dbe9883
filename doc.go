// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package mcas provides a lock-free multi-word compare-and-swap: a batch
// of N conditional updates over independent [Cell] values that behaves as
// a single virtual CAS, installing either all new values or none.
//
// The implementation follows Fraser's practical lock-freedom design: a
// two-phase protocol over shared descriptor objects, with a conditional
// single-word CAS as the intermediate step, and cooperative "helping" so
// that any goroutine observing an in-flight operation can drive it to
// completion.
//
// # Architecture
//
// A [Cell] is a single word of shared memory with a stable, totally
// ordered identity. [MCAS] sorts its [Triple] batch by cell order,
// publishes a descriptor into each cell in turn (the acquire phase),
// commits or aborts with one atomic status transition (the decide CAS,
// the operation's linearization point), then restores a plain value into
// every cell (the patch phase). The acquire phase uses an internal
// conditional CAS so that a descriptor is only installed while the batch
// is still undecided, no matter which goroutine resolves it.
//
// # Thread Safety
//
// Everything is safe for concurrent use and nothing blocks:
//   - [MCAS], [Cell.Load], [Cell.Store], and [Cell.CompareAndSwap] are
//     lock-free; at any point some operation completes in a bounded
//     number of its own steps.
//   - An operation abandoned mid-flight cannot wedge the system: the next
//     goroutine to touch one of its cells completes it.
//   - [Cell.Load] never observes an intermediate state: it returns a
//     value some linearization of the concurrent history permits, never
//     an internal descriptor.
//
// Cells that participate in batches must only be accessed through this
// package. Values are compared with ==, and so must be comparable.
//
// # Usage
//
//	a := mcas.NewCell(1)
//	b := mcas.NewCell(2)
//
//	if mcas.MCAS(
//	    mcas.Triple{Cell: a, Old: 1, New: 7},
//	    mcas.Triple{Cell: b, Old: 2, New: 8},
//	) {
//	    // both cells updated atomically
//	}
//
// A false return means at least one expected value did not match at the
// linearization point, and no cell changed. Retrying with re-read values
// is the caller's decision.
//
// # Observability
//
// [SetLogger] wires the package to a logiface logger (a debug event for
// each decide, trace events when a batch descriptor is helped). [EnableMetrics] turns on
// package-wide operation counters, read via [MetricsSnapshot].
//
// # Memory
//
// Descriptors are reclaimed by the garbage collector: a helper holding a
// reference keeps the descriptor alive for exactly as long as it needs
// it, so no hazard-pointer or epoch scheme is required.
package mcas
