// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package mcas

import (
	"sync/atomic"

	"golang.org/x/exp/slices"
)

// Triple is one conditional update within a batch: Cell is expected to
// hold Old, and will hold New if the batch commits. Old and New must be
// comparable values; Old == New is permitted and still participates in
// the atomic commit (the cell is acquired and restored).
type Triple struct {
	Cell *Cell
	Old  Value
	New  Value
}

// nextDescriptorSeq identifies batch descriptors in logs and metrics.
var nextDescriptorSeq atomic.Uint64

// mcasDescriptor coordinates one batch. triples is immutable after
// construction (sorted ascending by cell order-id); status is the only
// mutable field, and only ever moves via a single CAS.
type mcasDescriptor struct {
	triples []Triple
	self    *cellWord // the word boxing this descriptor in acquired cells
	seq     uint64
	status  statusWord
}

// MCAS atomically applies a batch of conditional updates: every triple's
// cell is updated from Old to New, or no cell changes at all.
//
// MCAS returns true iff, at a single linearization point, every cell held
// its expected Old value and the New values were installed. It returns
// false iff at least one expected value did not match; in that case no
// cell's visible value changes. No retries are performed on a mismatch;
// whether to try again with re-read values is the caller's decision.
//
// Triples may be passed in any order; acquisition is internally ordered
// by cell order-id. A batch containing a nil or duplicate cell panics.
// An empty batch trivially succeeds.
//
// Concurrent MCAS calls over overlapping cells are linearizable, and a
// call abandoned mid-flight (e.g. its goroutine is descheduled or killed)
// is driven to completion by whichever operation observes it next.
func MCAS(triples ...Triple) bool {
	count(&pkgMetrics.Ops)
	return newDescriptor(triples).help()
}

// newDescriptor validates and sorts the batch into a fresh descriptor.
func newDescriptor(triples []Triple) *mcasDescriptor {
	sorted := slices.Clone(triples)
	for i := range sorted {
		if sorted[i].Cell == nil {
			panic(`mcas: nil cell in triple`)
		}
	}
	slices.SortFunc(sorted, func(a, b Triple) int {
		switch {
		case a.Cell.orderID() < b.Cell.orderID():
			return -1
		case a.Cell.orderID() > b.Cell.orderID():
			return 1
		default:
			return 0
		}
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Cell == sorted[i-1].Cell {
			panic(`mcas: duplicate cell in batch`)
		}
	}
	d := &mcasDescriptor{
		triples: sorted,
		seq:     nextDescriptorSeq.Add(1),
	}
	d.self = &cellWord{mcas: d}
	return d
}

// help drives d to completion from whatever phase it is in, and is safe
// to call from any number of goroutines: the originator and helpers run
// the same code, and the outcome is identical regardless of who finishes.
func (d *mcasDescriptor) help() bool {
	if !d.status.decided() {
		target := d.acquire()
		if d.status.transition(StatusUndecided, target) {
			logDecide(d, target)
			if target == StatusSucceeded {
				count(&pkgMetrics.Commits)
			} else {
				count(&pkgMetrics.Aborts)
			}
		}
		// a failed transition means a helper already decided; the final
		// status below is authoritative either way
	}
	final := d.status.load()
	d.patch(final)
	return final == StatusSucceeded
}

// acquire attempts to install d into every cell, in ascending order-id,
// and returns the status the decide CAS should target. Ascending order is
// what keeps mutual helping acyclic: a batch only ever waits on batches
// that are ahead of it on a cell with a larger order-id.
func (d *mcasDescriptor) acquire() Status {
	for i := range d.triples {
		t := &d.triples[i]
	cell:
		for {
			newCCAS(t.Cell, t.Old, d).install()
			w := ccasRead(t.Cell)
			switch {
			case w == d.self:
				// acquired
				break cell
			case w.mcas != nil:
				// a competing batch owns the cell; drive it out, then retry
				count(&pkgMetrics.MCASHelps)
				logHelp(w.mcas, t.Cell)
				w.mcas.help()
				count(&pkgMetrics.AcquireRetries)
			case w.value == t.Old && !d.status.decided():
				// a helper resolved our conditional descriptor back to the
				// old value after its status check; the slot is still
				// winnable
				count(&pkgMetrics.AcquireRetries)
			default:
				// expected mismatch, or our status was decided while we
				// were acquiring; either way the decide CAS settles it
				return StatusFailed
			}
		}
	}
	return StatusSucceeded
}

// patch replaces d with a user value in every cell that still holds it:
// New on success, Old on failure. Each CAS is allowed to fail (a helper
// got there first), and repeating patch for the same descriptor is safe,
// since at most one CAS per cell can ever observe d.
func (d *mcasDescriptor) patch(final Status) {
	for i := range d.triples {
		t := &d.triples[i]
		if t.Cell.load() != d.self {
			continue
		}
		v := t.Old
		if final == StatusSucceeded {
			v = t.New
		}
		if t.Cell.cas(d.self, &cellWord{value: v}) {
			count(&pkgMetrics.Patches)
		}
	}
}
