package arena

import "testing"

type fakeRoot struct{ refs []Ref }

func (r *fakeRoot) Walk(visit func(Ref) Ref) {
	for i, ref := range r.refs {
		r.refs[i] = visit(ref)
	}
}

type cell struct {
	child Ref
}

func (c *cell) Size() int { return 8 }
func (c *cell) Walk(visit func(Ref) Ref) {
	c.child = visit(c.child)
}

func TestAllocAndGet(t *testing.T) {
	a := New(0)
	r := a.Alloc(&cell{})
	if a.Get(r) == nil {
		t.Fatalf("expected live object at %d", r)
	}
	if a.Tip() != 1 {
		t.Errorf("tip = %d, want 1", a.Tip())
	}
}

func TestCollectFreesUnreachable(t *testing.T) {
	a := New(0)
	garbage := a.Alloc(&cell{})
	survivor := a.Alloc(&cell{})
	root := &fakeRoot{refs: []Ref{survivor}}

	a.Collect([]Root{root})

	_ = garbage
	if a.Stats.LastFreed != 1 {
		t.Errorf("freed = %d, want 1", a.Stats.LastFreed)
	}
	if a.Stats.LastSurvivors != 1 {
		t.Errorf("survivors = %d, want 1", a.Stats.LastSurvivors)
	}
	if root.refs[0] == Nil {
		t.Fatalf("root ref should not be nil after collection")
	}
	if a.Get(root.refs[0]) == nil {
		t.Fatalf("survivor ref should resolve after compaction")
	}
}

func TestCollectRewritesChildRefs(t *testing.T) {
	a := New(0)
	leaf := a.Alloc(&cell{})
	_ = a.Alloc(&cell{}) // garbage, sits between leaf and parent
	parent := a.Alloc(&cell{child: leaf})
	root := &fakeRoot{refs: []Ref{parent}}

	a.Collect([]Root{root})

	newParent := a.Get(root.refs[0]).(*cell)
	if a.Get(newParent.child) == nil {
		t.Fatalf("child ref not valid after compaction")
	}
}

func TestCollectPreservesOrder(t *testing.T) {
	a := New(0)
	var refs []Ref
	for i := 0; i < 5; i++ {
		refs = append(refs, a.Alloc(&cell{}))
	}
	root := &fakeRoot{refs: []Ref{refs[0], refs[2], refs[4]}}
	a.Collect([]Root{root})

	// Relative order among survivors (0, 2, 4) must be preserved.
	if !(root.refs[0] < root.refs[1] && root.refs[1] < root.refs[2]) {
		t.Errorf("compaction did not preserve survivor order: %v", root.refs)
	}
}

func TestHandleNestingViolationPanics(t *testing.T) {
	a := New(0)
	var r1, r2 Ref
	a.Acquire(&r1)
	a.Acquire(&r2)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic releasing handles out of order")
		}
	}()
	a.Release(&r1) // wrong order: r2 was acquired last
}

func TestHandleSurvivesCollection(t *testing.T) {
	a := New(0)
	garbage := a.Alloc(&cell{})
	_ = garbage
	target := a.Alloc(&cell{})

	var h Ref = target
	a.Acquire(&h)
	defer a.Release(&h)

	a.Collect(nil)

	if a.HandleDepth() != 1 {
		t.Fatalf("handle depth = %d, want 1", a.HandleDepth())
	}
	if a.Get(h) == nil {
		t.Fatalf("handle did not survive collection")
	}
}

func TestNeedsGC(t *testing.T) {
	a := New(2)
	if a.NeedsGC() {
		t.Fatalf("empty arena should not need GC")
	}
	a.Alloc(&cell{})
	a.Alloc(&cell{})
	if !a.NeedsGC() {
		t.Fatalf("arena at limit should need GC")
	}
}
