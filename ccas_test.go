package mcas

import (
	"testing"
)

func TestCCAS_InstallWithUndecidedParent(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 1, New: 2}})

	newCCAS(c, 1, parent).install()

	// resolution with an undecided parent leaves the parent's descriptor
	// word in the cell
	if w := c.load(); w.mcas != parent {
		t.Fatalf("expected cell to hold the parent descriptor, got %+v", w)
	}
	if got := parent.status.load(); got != StatusUndecided {
		t.Fatalf("expected parent to remain undecided, got %v", got)
	}
}

func TestCCAS_InstallWithDecidedParentRestoresOld(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 1, New: 2}})
	if !parent.status.transition(StatusUndecided, StatusFailed) {
		t.Fatal("expected transition to succeed")
	}

	newCCAS(c, 1, parent).install()

	if w := c.load(); w.ccas != nil || w.mcas != nil || w.value != 1 {
		t.Fatalf("expected cell to be restored to the old value, got %+v", w)
	}
}

func TestCCAS_MismatchedValueLeavesCellUntouched(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 99, New: 2}})

	newCCAS(c, 99, parent).install()

	if v := c.Load(); v != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
}

func TestCCAS_InstallBlockedByForeignBatchDescriptor(t *testing.T) {
	c := NewCell(1)
	other := newDescriptor([]Triple{{Cell: c, Old: 1, New: 5}})
	c.word.Store(other.self)

	mine := newDescriptor([]Triple{{Cell: c, Old: 1, New: 7}})
	newCCAS(c, 1, mine).install()

	// install does not interpret batch descriptors; the cell is left for
	// the caller to re-read and help
	if w := c.load(); w.mcas != other {
		t.Fatalf("expected foreign descriptor to remain, got %+v", w)
	}
}

func TestCCASRead_ResolvesPublishedDescriptor(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 1, New: 2}})
	d := newCCAS(c, 1, parent)
	c.word.Store(d.self)

	w := ccasRead(c)
	if w.ccas != nil {
		t.Fatal("expected ccasRead to never return a conditional descriptor")
	}
	if w.mcas != parent {
		t.Fatalf("expected the undecided parent's word, got %+v", w)
	}
}

func TestCCASRead_ResolvesToOldWhenParentDecided(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 1, New: 2}})
	parent.status.transition(StatusUndecided, StatusFailed)
	d := newCCAS(c, 1, parent)
	c.word.Store(d.self)

	w := ccasRead(c)
	if w.ccas != nil || w.mcas != nil || w.value != 1 {
		t.Fatalf("expected the old value, got %+v", w)
	}
}

func TestHelpCCAS_OnlyFirstResolutionMutates(t *testing.T) {
	c := NewCell(1)
	parent := newDescriptor([]Triple{{Cell: c, Old: 1, New: 2}})
	d := newCCAS(c, 1, parent)
	c.word.Store(d.self)

	helpCCAS(d)
	w := c.load()
	if w.mcas != parent {
		t.Fatalf("expected the parent descriptor, got %+v", w)
	}

	// repeated help finds the cell no longer holds d, and must not touch it
	parent.status.transition(StatusUndecided, StatusFailed)
	helpCCAS(d)
	if got := c.load(); got != w {
		t.Fatal("expected repeated help to be a no-op")
	}
}
