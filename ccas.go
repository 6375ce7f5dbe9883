package mcas

// ccasDescriptor is a conditional single-word CAS: replace cell contents
// from old to the parent batch descriptor, provided the parent is still
// undecided at the moment the descriptor is resolved.
//
// Immutable once published. The condition is deliberately a direct field
// reference rather than a closure: resolution checks parent.status at
// help time, so a helper applies the correct nudge even when the original
// invoker was descheduled between publication and resolution.
type ccasDescriptor struct {
	cell   *Cell
	old    Value
	parent *mcasDescriptor
	self   *cellWord // the word boxing this descriptor; shared by all CASes on it
}

func newCCAS(cell *Cell, old Value, parent *mcasDescriptor) *ccasDescriptor {
	d := &ccasDescriptor{cell: cell, old: old, parent: parent}
	d.self = &cellWord{ccas: d}
	return d
}

// install publishes d into its cell and resolves it.
//
// The loop terminates in one of two ways: d was installed (and immediately
// helped to resolution), or a word that rules out installation was
// observed: a mismatched user value, or a batch descriptor. In the latter
// case install returns without action; the caller re-reads the cell and
// decides what that word means. Foreign conditional descriptors are
// helped out of the way and do not terminate the loop.
func (d *ccasDescriptor) install() {
	for {
		w := d.cell.load()
		switch {
		case w.ccas != nil:
			helpCCAS(w.ccas)
		case w.mcas == nil && w.value == d.old:
			if d.cell.cas(w, d.self) {
				count(&pkgMetrics.CCASInstalls)
				helpCCAS(d)
				return
			}
			// lost the install race; re-read
		default:
			return
		}
	}
}

// helpCCAS resolves a published conditional descriptor: if the parent
// batch is still undecided the cell becomes the parent's descriptor word,
// otherwise the original value is restored.
//
// Wait-free: one status read and one CAS, no loop. Exactly one CAS on d
// succeeds, whether performed here by the originator or by a helper; all
// others fail benignly because the cell no longer holds d.
func helpCCAS(d *ccasDescriptor) {
	count(&pkgMetrics.CCASHelps)
	var out *cellWord
	if d.parent.status.load() == StatusUndecided {
		out = d.parent.self
	} else {
		out = &cellWord{value: d.old}
	}
	d.cell.cas(d.self, out)
}

// ccasRead returns the current word of c, ignoring transient conditional
// descriptors: any observed ccasDescriptor is helped to resolution and the
// cell re-read. The result is a user value or a batch descriptor word.
func ccasRead(c *Cell) *cellWord {
	for {
		w := c.load()
		if w.ccas == nil {
			return w
		}
		helpCCAS(w.ccas)
	}
}
