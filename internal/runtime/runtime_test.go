package runtime

import (
	"strings"
	"testing"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

func newRT() *Runtime { return NewRuntime(arena.New(0)) }

func intVal(n int64) object.Value { return &object.Integer{V: numeric.FromInt64(n)} }

func TestStackOps(t *testing.T) {
	r := newRT()
	r.Push(intVal(1))
	r.Push(intVal(2))
	if r.Depth() != 2 {
		t.Fatalf("depth = %d", r.Depth())
	}
	v, err := r.Pop()
	if err != nil || v.(*object.Integer).V.ToInt64() != 2 {
		t.Fatalf("pop = %v, %v", v, err)
	}
	if _, err := r.Peek(5); err == nil {
		t.Fatal("deep peek should fail")
	}
	r.Stack.Clear()
	if _, err := r.Pop(); err == nil || err.Kind != object.ErrTooFewArgs {
		t.Fatalf("pop of empty stack: %v", err)
	}
}

func TestDirectoryStoreLookupPurge(t *testing.T) {
	r := newRT()
	if err := r.Store("A", intVal(42)); err != nil {
		t.Fatal(err)
	}
	v, ok := r.Lookup("A")
	if !ok || v.(*object.Integer).V.ToInt64() != 42 {
		t.Fatal("lookup after store failed")
	}
	if err := r.Dirs.Purge("A"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Lookup("A"); ok {
		t.Fatal("purged name should not resolve")
	}
	if err := r.Dirs.Purge("A"); err == nil {
		t.Fatal("purging a missing name should report Undefined name")
	}
}

func TestDirectoryParentWalk(t *testing.T) {
	r := newRT()
	r.Store("X", intVal(1))
	r.Dirs.CreateDir("SUB")
	// X binds in HOME; lookup from SUB walks the parent chain.
	if v, ok := r.Lookup("X"); !ok || v.(*object.Integer).V.ToInt64() != 1 {
		t.Fatal("child should see parent bindings")
	}
	r.Store("X", intVal(2))
	if v, _ := r.Lookup("X"); v.(*object.Integer).V.ToInt64() != 2 {
		t.Fatal("child binding should shadow the parent")
	}
	path := r.Dirs.Path()
	if len(path) != 2 || path[0] != "HOME" || path[1] != "SUB" {
		t.Fatalf("path = %v", path)
	}
	if err := r.Dirs.UpDir(); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.Lookup("X"); v.(*object.Integer).V.ToInt64() != 1 {
		t.Fatal("parent should keep its own binding")
	}
	if err := r.Dirs.UpDir(); err == nil {
		t.Fatal("UpDir from HOME should fail")
	}
}

func TestReservedNameTypeCheck(t *testing.T) {
	r := newRT()
	if err := r.Store("ΣData", intVal(1)); err == nil {
		t.Fatal("ΣData should reject a non-array")
	}
	arr := &container.Array{Dims: []int{1}, Data: []object.Value{intVal(1)}}
	if err := r.Store("ΣData", arr); err != nil {
		t.Fatalf("ΣData should accept an array: %v", err)
	}
}

func TestTVarsFiltersByTag(t *testing.T) {
	r := newRT()
	r.Store("N", intVal(1))
	r.Store("T", &container.Text{S: "x"})
	names := r.Dirs.TVars(object.TagText)
	if len(names) != 1 || names[0] != "T" {
		t.Fatalf("TVars(text) = %v", names)
	}
}

func TestLocalFramesShadowDirectory(t *testing.T) {
	r := newRT()
	r.Store("V", intVal(1))
	release := r.PushFrame([]string{"V"}, []object.Value{intVal(9)})
	if v, _ := r.Lookup("V"); v.(*object.Integer).V.ToInt64() != 9 {
		t.Fatal("local should shadow the directory binding")
	}
	release()
	if v, _ := r.Lookup("V"); v.(*object.Integer).V.ToInt64() != 1 {
		t.Fatal("release should uncover the directory binding")
	}
}

func TestFlagDuality(t *testing.T) {
	// set/clear/test round trips for positive and negative indices.
	r := newRT()
	for _, n := range []int{1, 64, -22} {
		r.Flags.Set(n)
		r.Flags.Clear(n)
		if r.Flags.IsSet(n) {
			t.Fatalf("flag %d should read clear", n)
		}
		r.Flags.Clear(n)
		r.Flags.Set(n)
		if !r.Flags.IsSet(n) {
			t.Fatalf("flag %d should read set", n)
		}
		r.Flags.Clear(n)
	}
}

func TestSystemFlagMirrorsSetting(t *testing.T) {
	r := newRT()
	r.Flags.Set(FlagInfinityValue)
	r.Settings.syncFlag(r.Flags, FlagInfinityValue)
	if !r.Settings.InfinityValue {
		t.Fatal("flag -22 should drive the InfinityValue setting")
	}
	r.Flags.Clear(FlagInfinityValue)
	r.Settings.syncFlag(r.Flags, FlagInfinityValue)
	if r.Settings.InfinityValue {
		t.Fatal("clearing -22 should clear the setting")
	}
}

func TestModesReproducesNonDefaults(t *testing.T) {
	r := newRT()
	r.Settings.Precision = 12
	r.Settings.AutoSimplify = false
	script := r.Settings.Modes()
	if !strings.Contains(script, "Precision 12") {
		t.Fatalf("Modes output %q misses Precision", script)
	}
	if !strings.Contains(script, "NoAutoSimplify") {
		t.Fatalf("Modes output %q misses NoAutoSimplify", script)
	}
	if strings.Contains(script, "WordSize") {
		t.Fatalf("Modes should only list non-defaults, got %q", script)
	}
}

func TestClampDecimalOverflowPolicy(t *testing.T) {
	r := newRT()
	r.Settings.MaximumDecimalExponent = 499
	big := numeric.Decimal{Mantissa: numeric.FromInt64(1), Exp: 500}

	// Default: saturate to the largest representable value.
	v, err := r.ClampDecimal(big)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := v.(*object.DecimalValue); !ok || d.V.MagnitudeExp() != 499 {
		t.Fatalf("saturation result = %#v", v)
	}

	// InfinityValue: yield the symbolic constant and set flag -25.
	r.Settings.InfinityValue = true
	v, err = r.ClampDecimal(big)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := v.(*object.Symbol); !ok || s.Name != "∞" {
		t.Fatalf("infinity result = %#v", v)
	}
	if !r.Flags.IsSet(FlagInfiniteResultSeen) {
		t.Fatal("flag -25 should record the infinite result")
	}

	// OverflowError wins over InfinityValue.
	r.Settings.OverflowError = true
	if _, err = r.ClampDecimal(big); err == nil || err.Kind != object.ErrNumericalOverflow {
		t.Fatalf("expected Numerical overflow, got %v", err)
	}
}

func TestClampDecimalUnderflowPolicy(t *testing.T) {
	r := newRT()
	r.Settings.MaximumDecimalExponent = 499
	tiny := numeric.Decimal{Mantissa: numeric.FromInt64(1), Exp: -501}
	v, err := r.ClampDecimal(tiny)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := v.(*object.DecimalValue); !ok || !d.V.IsZero() {
		t.Fatalf("underflow should flush to zero, got %#v", v)
	}
	if !r.Flags.IsSet(FlagPositiveUnderflowSeen) {
		t.Fatal("flag -24 should record the underflow")
	}
	r.Settings.UnderflowError = true
	if _, err := r.ClampDecimal(tiny); err == nil || err.Kind != object.ErrPositiveUnderflow {
		t.Fatalf("expected Positive numerical underflow, got %v", err)
	}
}

func TestUndoRestoresSnapshot(t *testing.T) {
	r := newRT()
	r.Push(intVal(1))
	r.SnapshotUndo()
	r.Push(intVal(2))
	r.Push(intVal(3))
	r.Undo()
	if r.Depth() != 1 {
		t.Fatalf("undo left depth %d", r.Depth())
	}
}

func TestLastArgsCapture(t *testing.T) {
	r := newRT()
	r.Push(intVal(2))
	r.Push(intVal(3))
	id, _ := object.LookupCommand("+")
	if err := (&object.Command{ID: id}).Evaluate(r); err != nil {
		t.Fatal(err)
	}
	args := r.LastArgs()
	if len(args) != 2 {
		t.Fatalf("LastArgs captured %d values", len(args))
	}
	if args[0].(*object.Integer).V.ToInt64() != 2 || args[1].(*object.Integer).V.ToInt64() != 3 {
		t.Fatal("LastArgs should hold the consumed operands in stack order")
	}
}

func TestEvalRunsSequence(t *testing.T) {
	r := newRT()
	values, perr := container.ParseWith(r, "1 2 +")
	if perr != nil {
		t.Fatal(perr)
	}
	if err := r.Eval(values); err != nil {
		t.Fatal(err)
	}
	v, _ := r.Peek(0)
	if v.(*object.Integer).V.ToInt64() != 3 {
		t.Fatal("1 2 + should leave 3")
	}
}

func TestCollectKeepsStackAndDirectory(t *testing.T) {
	r := newRT()
	r.Push(intVal(1))
	r.Push(intVal(2))
	r.Store("K", intVal(7))
	if _, err := r.Pop(); err != nil {
		t.Fatal(err)
	}
	r.Arena.Collect(r.Roots())
	if r.Arena.Stats.LastFreed == 0 {
		t.Fatal("the popped slot should be reclaimed")
	}
	top, err := r.Peek(0)
	if err != nil || top.(*object.Integer).V.ToInt64() != 1 {
		t.Fatalf("survivor resolves wrong: %v, %v", top, err)
	}
	if kv, ok := r.Lookup("K"); !ok || kv.(*object.Integer).V.ToInt64() != 7 {
		t.Fatal("directory binding should survive collection")
	}
}

func TestCollectTriggersDuringEval(t *testing.T) {
	// A tiny advisory limit forces the evaluator's safepoint check to
	// collect mid-line; the stack must come out intact and in order.
	r := NewRuntime(arena.New(4))
	values, perr := container.ParseWith(r, "1 2 3 4 5 6 7 8")
	if perr != nil {
		t.Fatal(perr)
	}
	if err := r.Eval(values); err != nil {
		t.Fatal(err)
	}
	if r.Arena.Stats.Collections == 0 {
		t.Fatal("the bump tip should have crossed the limit and collected")
	}
	if r.Depth() != 8 {
		t.Fatalf("depth after collection = %d", r.Depth())
	}
	bottom, _ := r.Peek(7)
	top, _ := r.Peek(0)
	if bottom.(*object.Integer).V.ToInt64() != 1 || top.(*object.Integer).V.ToInt64() != 8 {
		t.Fatal("relocation should preserve the stack's relative order")
	}
}

func TestHandleSurvivesRuntimeCollection(t *testing.T) {
	r := newRT()
	ref := r.Alloc(intVal(99))
	r.Arena.Acquire(&ref)
	defer r.Arena.Release(&ref)
	r.Push(intVal(1))
	r.Arena.Collect(r.Roots())
	v := r.Resolve(ref)
	if v == nil || v.(*object.Integer).V.ToInt64() != 99 {
		t.Fatalf("handle should track its object across collection, got %v", v)
	}
}

func TestPurgeAllDescendants(t *testing.T) {
	r := newRT()
	r.Store("K", intVal(1))
	r.Dirs.CreateDir("SUB")
	r.Store("K", intVal(2))
	r.Dirs.Home()
	if err := r.Dirs.PurgeAll("K"); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Dirs.Lookup("K"); ok {
		t.Fatal("PurgeAll should remove the binding everywhere")
	}
}
