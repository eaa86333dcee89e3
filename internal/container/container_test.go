package container

import (
	"strings"
	"testing"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/object"
)

// testMachine drives container builtins without the full runtime: a
// slice stack and a flat variable map stand in for the directory tree.
type testMachine struct {
	stack []object.Value
	vars  map[string]object.Value
	heap  *arena.Arena
}

func newTestMachine() *testMachine {
	return &testMachine{vars: map[string]object.Value{}, heap: arena.New(0)}
}

func (m *testMachine) Push(v object.Value) { m.stack = append(m.stack, v) }

func (m *testMachine) Pop() (object.Value, *object.Error) {
	if len(m.stack) == 0 {
		return nil, object.NewError(object.ErrTooFewArgs, "empty stack")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *testMachine) Peek(depth int) (object.Value, *object.Error) {
	i := len(m.stack) - 1 - depth
	if i < 0 {
		return nil, object.NewError(object.ErrTooFewArgs, "stack underflow")
	}
	return m.stack[i], nil
}

func (m *testMachine) Depth() int { return len(m.stack) }

func (m *testMachine) Drop(n int) *object.Error {
	if n > len(m.stack) {
		return object.NewError(object.ErrTooFewArgs, "cannot drop")
	}
	m.stack = m.stack[:len(m.stack)-n]
	return nil
}

func (m *testMachine) Lookup(name string) (object.Value, bool) {
	v, ok := m.vars[name]
	return v, ok
}

func (m *testMachine) Store(name string, v object.Value) *object.Error {
	m.vars[name] = v
	return nil
}

func (m *testMachine) Run(body object.Value) *object.Error { return body.Evaluate(m) }

func (m *testMachine) PushFrame(names []string, values []object.Value) func() {
	saved := map[string]object.Value{}
	for i, n := range names {
		if old, ok := m.vars[n]; ok {
			saved[n] = old
		}
		m.vars[n] = values[i]
	}
	return func() {
		for _, n := range names {
			if old, ok := saved[n]; ok {
				m.vars[n] = old
			} else {
				delete(m.vars, n)
			}
		}
	}
}

func (m *testMachine) Raise(kind object.ErrorKind, format string, args ...any) *object.Error {
	return object.NewError(kind, format, args...)
}

func (m *testMachine) Alloc(o arena.Object) arena.Ref { return m.heap.Alloc(o) }

func (m *testMachine) Resolve(r arena.Ref) object.Value {
	v, _ := m.heap.Get(r).(object.Value)
	return v
}

func (m *testMachine) RenderOpts() object.RenderOpts {
	opts := object.DefaultRenderOpts()
	opts.HorizontalLists = true
	return opts
}

func evalLine(t *testing.T, m *testMachine, src string) {
	t.Helper()
	values, err := ParseWith(m, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	for _, v := range values {
		// Programs entered at the top level are data, matching the
		// runtime evaluator's entry deferral.
		if pr, ok := v.(*Program); ok {
			m.Push(pr)
			continue
		}
		if rerr := v.Evaluate(m); rerr != nil {
			t.Fatalf("eval %q: %v", src, rerr)
		}
	}
}

func topRender(t *testing.T, m *testMachine) string {
	t.Helper()
	v, err := m.Peek(0)
	if err != nil {
		t.Fatal("empty stack")
	}
	p := object.NewPrinter(m.RenderOpts())
	v.Render(p)
	return p.String()
}

func TestParseSequence(t *testing.T) {
	values, err := Parse("1 2 +")
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(values))
	}
	if _, ok := values[0].(*object.Integer); !ok {
		t.Fatalf("first object should be an integer, got %T", values[0])
	}
	if _, ok := values[2].(*object.Symbol); !ok {
		t.Fatalf("operator should scan as a symbol, got %T", values[2])
	}
}

func TestParseListAndProgram(t *testing.T) {
	values, err := Parse("{ 1 2 3 } « 1 2 + »")
	if err != nil {
		t.Fatal(err)
	}
	l, ok := values[0].(*List)
	if !ok || len(l.Items) != 3 {
		t.Fatalf("expected a 3-item list, got %#v", values[0])
	}
	pr, ok := values[1].(*Program)
	if !ok || len(pr.Items) != 3 {
		t.Fatalf("expected a 3-item program, got %#v", values[1])
	}
}

func TestParseMatrix(t *testing.T) {
	values, err := Parse("[ [ 1 2 ] [ 3 4 ] ]")
	if err != nil {
		t.Fatal(err)
	}
	a, ok := values[0].(*Array)
	if !ok || !a.IsMatrix() {
		t.Fatalf("expected a matrix, got %#v", values[0])
	}
	if a.Dims[0] != 2 || a.Dims[1] != 2 {
		t.Fatalf("expected 2x2, got %v", a.Dims)
	}
}

func TestParseTagged(t *testing.T) {
	values, err := Parse(": label : 42")
	if err != nil {
		t.Fatal(err)
	}
	tg, ok := values[0].(*Tagged)
	if !ok || tg.Label != "label" {
		t.Fatalf("expected tagged value, got %#v", values[0])
	}
}

func TestUnterminatedListFails(t *testing.T) {
	if _, err := Parse("{ 1 2"); err == nil {
		t.Fatal("unterminated list should fail to parse")
	}
}

func TestIfThenElse(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« IF 1 THEN 42 ELSE 7 END » EVAL")
	if got := topRender(t, m); got != "42" {
		t.Fatalf("IF 1 chose %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "« IF 0 THEN 42 ELSE 7 END » EVAL")
	if got := topRender(t, m); got != "7" {
		t.Fatalf("IF 0 chose %s", got)
	}
}

func TestForLoopSums(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« 0 1 5 FOR I I + NEXT » EVAL")
	if got := topRender(t, m); got != "15" {
		t.Fatalf("1..5 sums to %s", got)
	}
}

func TestForLoopOverList(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« 0 { 1 2 3 } FOR X X + NEXT » EVAL")
	if got := topRender(t, m); got != "6" {
		t.Fatalf("list iteration sums to %s", got)
	}
}

func TestStartStepLoop(t *testing.T) {
	// 0, then add 2 per iteration from 1 to 10 stepping 2 (5 passes).
	m := newTestMachine()
	evalLine(t, m, "« 0 1 10 START 2 + 2 STEP » EVAL")
	if got := topRender(t, m); got != "10" {
		t.Fatalf("start/step accumulated %s", got)
	}
}

func init() {
	// tdup duplicates the top of stack; the real DUP lives in the runtime
	// package, which this package cannot import.
	object.RegisterCommand("tdup", func(m object.Machine) *object.Error {
		v, err := m.Peek(0)
		if err != nil {
			return err
		}
		m.Push(v)
		return nil
	})
}

func TestWhileLoop(t *testing.T) {
	// Halve 32 until it reaches 1.
	m := newTestMachine()
	evalLine(t, m, "« 32 WHILE tdup 1 > REPEAT 2 / END » EVAL")
	if got := topRender(t, m); got != "1" {
		t.Fatalf("while loop left %s", got)
	}
}

func TestDoUntilLoop(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« 0 DO 1 + UNTIL tdup 3 ≥ END » EVAL")
	if got := topRender(t, m); got != "3" {
		t.Fatalf("do/until stopped at %s", got)
	}
}

func TestLocalBind(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« 3 4 → a b « a b * » » EVAL")
	if got := topRender(t, m); got != "12" {
		t.Fatalf("local bind product = %s", got)
	}
	if _, ok := m.vars["a"]; ok {
		t.Fatal("locals should not leak after the body returns")
	}
}

func TestIfErrCatches(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« IFERR 1 0 / THEN 99 END » EVAL")
	if got := topRender(t, m); got != "99" {
		t.Fatalf("handler should run, top = %s", got)
	}
}

func TestIfErrSuccessBranch(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "« IFERR 1 2 + THEN 99 ELSE 7 END » EVAL")
	if got := topRender(t, m); got != "7" {
		t.Fatalf("success branch should run, top = %s", got)
	}
}

func TestIFTAndIFTE(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "1 42 IFT")
	if got := topRender(t, m); got != "42" {
		t.Fatalf("IFT true = %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "0 1 2 IFTE")
	if got := topRender(t, m); got != "2" {
		t.Fatalf("IFTE false = %s", got)
	}
}

func TestListGetPut(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "{ 10 20 30 } 2 GET")
	if got := topRender(t, m); got != "20" {
		t.Fatalf("GET = %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "{ 10 20 30 } 2 99 PUT")
	if got := topRender(t, m); got != "{ 10 99 30 }" {
		t.Fatalf("PUT = %s", got)
	}
}

func TestListSort(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "{ 3 1 2 } SORT")
	if got := topRender(t, m); got != "{ 1 2 3 }" {
		t.Fatalf("SORT = %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "{ 3 1 2 } REVERSESORT")
	if got := topRender(t, m); got != "{ 3 2 1 }" {
		t.Fatalf("REVERSESORT = %s", got)
	}
}

func TestListMapFilterReduce(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "{ 1 2 3 } « 2 * » MAP")
	if got := topRender(t, m); got != "{ 2 4 6 }" {
		t.Fatalf("MAP = %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "{ 1 2 3 4 } « 2 > » FILTER")
	if got := topRender(t, m); got != "{ 3 4 }" {
		t.Fatalf("FILTER = %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, "{ 1 2 3 4 } « + » REDUCE")
	if got := topRender(t, m); got != "10" {
		t.Fatalf("REDUCE = %s", got)
	}
}

func TestTextCodePoints(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, `"héllo" SIZE`)
	if got := topRender(t, m); got != "5" {
		t.Fatalf("SIZE counts code points, got %s", got)
	}
	m = newTestMachine()
	evalLine(t, m, `"héllo" TAIL`)
	if got := topRender(t, m); got != `"éllo"` {
		t.Fatalf("TAIL = %s", got)
	}
}

func TestTextConcatCoercion(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, `"n=" 42 +`)
	if got := topRender(t, m); got != `"n=42"` {
		t.Fatalf("text + number = %s", got)
	}
}

func TestExpressionPrecedenceRender(t *testing.T) {
	e, err := ParseExpression("(A+B)*C")
	if err != nil {
		t.Fatal(err)
	}
	p := object.NewPrinter(object.DefaultRenderOpts())
	e.Render(p)
	if p.String() != "(A+B)*C" {
		t.Fatalf("rendered %s", p.String())
	}
	e, err = ParseExpression("A+B*C")
	if err != nil {
		t.Fatal(err)
	}
	p = object.NewPrinter(object.DefaultRenderOpts())
	e.Render(p)
	if p.String() != "A+B*C" {
		t.Fatalf("rendered %s", p.String())
	}
}

func TestExpressionEvalWithBindings(t *testing.T) {
	m := newTestMachine()
	m.vars["X"] = mustParseValue(t, "4")
	evalLine(t, m, "'2*X+1' EVAL")
	if got := topRender(t, m); got != "9" {
		t.Fatalf("2*X+1 with X=4 = %s", got)
	}
}

func TestExpressionStaysSymbolicWhenUnbound(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "'X+0' EVAL")
	v, _ := m.Peek(0)
	if _, ok := v.(*Expression); !ok {
		t.Fatalf("unbound expression should stay symbolic, got %T", v)
	}
}

func TestExpressionEquationParses(t *testing.T) {
	e, err := ParseExpression("sq(x)=3")
	if err != nil {
		t.Fatal(err)
	}
	if e.Op != "=" || len(e.Args) != 2 {
		t.Fatalf("expected an = node, got op %q", e.Op)
	}
	if e.Args[0].Op != "sq" {
		t.Fatalf("lhs should be the sq call, got %q", e.Args[0].Op)
	}
}

func TestAssignmentLiteral(t *testing.T) {
	values, err := Parse("X=3")
	if err != nil {
		t.Fatal(err)
	}
	a, ok := values[0].(*Assignment)
	if !ok || a.Name != "X" {
		t.Fatalf("expected assignment, got %#v", values[0])
	}
	m := newTestMachine()
	if err := a.Evaluate(m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.vars["X"]; !ok {
		t.Fatal("evaluating an assignment should store the binding")
	}
}

func TestPolynomialDivision(t *testing.T) {
	// (x^3 - 1) / (x - 1) = x^2 + x + 1, remainder 0.
	p := &Polynomial{Var: "x", Coeffs: []float64{-1, 0, 0, 1}}
	d := &Polynomial{Var: "x", Coeffs: []float64{-1, 1}}
	q, r, ok := DivModPoly(p, d)
	if !ok {
		t.Fatal("division should succeed")
	}
	want := []float64{1, 1, 1}
	if len(q.Coeffs) != 3 {
		t.Fatalf("quotient degree wrong: %v", q.Coeffs)
	}
	for i, c := range want {
		if q.Coeffs[i] != c {
			t.Fatalf("quotient = %v", q.Coeffs)
		}
	}
	if r.Degree() != -1 || r.Coeffs[0] != 0 {
		t.Fatalf("remainder = %v", r.Coeffs)
	}
	// p = q*d + r holds.
	back := AddPoly(MulPoly(q, d), r)
	for i, c := range p.Coeffs {
		if back.Coeffs[i] != c {
			t.Fatalf("q*d+r = %v, want %v", back.Coeffs, p.Coeffs)
		}
	}
}

func TestMatrixDeterminant(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "[ [ 1 2 ] [ 3 4 ] ] DET")
	v, _ := m.Peek(0)
	x, ok := object.ToFloat64(v)
	if !ok || x < -2.0001 || x > -1.9999 {
		t.Fatalf("det = %v", x)
	}
}

func TestMatrixMultiply(t *testing.T) {
	m := newTestMachine()
	evalLine(t, m, "[ [ 1 2 ] [ 3 4 ] ] [ [ 5 6 ] [ 7 8 ] ] *")
	v, _ := m.Peek(0)
	a, ok := v.(*Array)
	if !ok || !a.IsMatrix() {
		t.Fatalf("product should be a matrix, got %T", v)
	}
	got, _ := object.ToFloat64(a.Data[0])
	if got < 18.9999 || got > 19.0001 {
		t.Fatalf("product[0][0] = %v, want 19", got)
	}
}

func TestProgramRenderRoundTrip(t *testing.T) {
	values, err := Parse("« 1 2 + »")
	if err != nil {
		t.Fatal(err)
	}
	p := object.NewPrinter(object.DefaultRenderOpts())
	values[0].Render(p)
	rendered := p.String()
	if !strings.HasPrefix(rendered, "«") || !strings.HasSuffix(rendered, "»") {
		t.Fatalf("program rendered as %q", rendered)
	}
	if _, err := Parse(rendered); err != nil {
		t.Fatalf("renderer produced unparseable text %q: %v", rendered, err)
	}
}

func mustParseValue(t *testing.T, src string) object.Value {
	t.Helper()
	v, _, err := object.ParseToken(nil, src)
	if err != nil || v == nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}
