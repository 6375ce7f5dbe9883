package mcas

import (
	"sync/atomic"
)

// Value is the user-visible content of a [Cell].
//
// Values are compared with the == operator when matching expected values,
// so they must be comparable (the same requirement as map keys). Using an
// uncomparable value (slice, map, function) as an expected value panics
// when it is compared against a cell value of the same type.
type Value any

// cellWord is the tagged representation of a cell's contents: exactly one
// of value, ccas, or mcas is populated. Cells transition between words via
// pointer CAS only, which gives each transition a unique witness even when
// two words box equal user values.
//
// Descriptor words are allocated once per descriptor and shared across
// cells; user-value words are allocated per install. Words that lose a CAS
// become garbage, reclaimed by the runtime once no helper holds them.
type cellWord struct {
	value Value
	ccas  *ccasDescriptor
	mcas  *mcasDescriptor
}

// nextOrderID allocates cell order-ids, strictly increasing per process.
var nextOrderID atomic.Uint64

// Cell is a single word of shared memory that can participate in
// multi-word compare-and-swap batches.
//
// Instances must be created with [NewCell]. All access to a cell that may
// ever appear in a batch must go through [Cell.Load], [Cell.Store],
// [Cell.CompareAndSwap], or [MCAS]; these cooperate with in-flight
// operations by helping them to completion before observing or mutating
// the cell.
type Cell struct {
	word atomic.Pointer[cellWord]
	id   uint64
}

// NewCell creates a cell holding initial, with a freshly allocated
// ascending order-id.
func NewCell(initial Value) *Cell {
	c := &Cell{id: nextOrderID.Add(1)}
	c.word.Store(&cellWord{value: initial})
	return c
}

// orderID returns the cell's stable total-order key. Batches acquire
// cells in strictly ascending order-id, which keeps the helping graph
// acyclic.
func (c *Cell) orderID() uint64 {
	return c.id
}

// load returns the raw current word, descriptor or not. Higher layers
// interpret the tag; the cell itself does not.
func (c *Cell) load() *cellWord {
	return c.word.Load()
}

// cas performs the single-word CAS primitive on the raw word.
func (c *Cell) cas(old, new *cellWord) bool {
	return c.word.CompareAndSwap(old, new)
}

// Load returns the logical value of the cell.
//
// Load never returns an internal descriptor: if it observes an in-flight
// operation it helps that operation to completion first, then re-reads.
func (c *Cell) Load() Value {
	for {
		w := ccasRead(c)
		if w.mcas == nil {
			return w.value
		}
		count(&pkgMetrics.MCASHelps)
		logHelp(w.mcas, c)
		w.mcas.help()
	}
}

// Store unconditionally replaces the cell's value, retrying a single-cell
// batch until it commits.
func (c *Cell) Store(v Value) {
	for {
		if MCAS(Triple{Cell: c, Old: c.Load(), New: v}) {
			return
		}
	}
}

// CompareAndSwap atomically replaces the cell's value with new if it
// currently holds old, as a single-cell batch. It reports whether the
// swap happened.
func (c *Cell) CompareAndSwap(old, new Value) bool {
	return MCAS(Triple{Cell: c, Old: old, New: new})
}
