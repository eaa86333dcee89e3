package object

import (
	"strings"
	"testing"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/numeric"
)

// testMachine is the minimal Machine used to drive builtins in
// isolation: a slice stack, a flat variable map, no arena policy.
type testMachine struct {
	stack []Value
	vars  map[string]Value
	arena *arena.Arena
}

func newTestMachine() *testMachine {
	return &testMachine{vars: map[string]Value{}, arena: arena.New(0)}
}

func (m *testMachine) Push(v Value) { m.stack = append(m.stack, v) }

func (m *testMachine) Pop() (Value, *Error) {
	if len(m.stack) == 0 {
		return nil, NewError(ErrTooFewArgs, "empty stack")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *testMachine) Peek(depth int) (Value, *Error) {
	i := len(m.stack) - 1 - depth
	if i < 0 {
		return nil, NewError(ErrTooFewArgs, "stack underflow")
	}
	return m.stack[i], nil
}

func (m *testMachine) Depth() int { return len(m.stack) }

func (m *testMachine) Drop(n int) *Error {
	if n > len(m.stack) {
		return NewError(ErrTooFewArgs, "cannot drop")
	}
	m.stack = m.stack[:len(m.stack)-n]
	return nil
}

func (m *testMachine) Lookup(name string) (Value, bool) {
	v, ok := m.vars[name]
	return v, ok
}

func (m *testMachine) Store(name string, v Value) *Error {
	m.vars[name] = v
	return nil
}

func (m *testMachine) Run(body Value) *Error { return body.Evaluate(m) }

func (m *testMachine) PushFrame(names []string, values []Value) func() {
	saved := map[string]Value{}
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

func (m *testMachine) Raise(kind ErrorKind, format string, args ...any) *Error {
	return NewError(kind, format, args...)
}

func (m *testMachine) Alloc(o arena.Object) arena.Ref { return m.arena.Alloc(o) }

func (m *testMachine) Resolve(r arena.Ref) Value {
	v, _ := m.arena.Get(r).(Value)
	return v
}

func (m *testMachine) RenderOpts() RenderOpts { return DefaultRenderOpts() }

func run(t *testing.T, m *testMachine, names ...string) {
	t.Helper()
	for _, n := range names {
		id, ok := LookupCommand(n)
		if !ok {
			t.Fatalf("command %s not registered", n)
		}
		if err := (&Command{ID: id}).Evaluate(m); err != nil {
			t.Fatalf("%s: %v", n, err)
		}
	}
}

func render(v Value) string {
	p := NewPrinter(DefaultRenderOpts())
	v.Render(p)
	return p.String()
}

func top(t *testing.T, m *testMachine) Value {
	t.Helper()
	v, err := m.Peek(0)
	if err != nil {
		t.Fatal("empty stack")
	}
	return v
}

func parse(t *testing.T, src string) Value {
	t.Helper()
	v, _, err := ParseToken(nil, src)
	if err != nil || v == nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func TestParseRenderRoundTrip(t *testing.T) {
	// Invariant: render(parse(render(x))) == render(x).
	cases := []string{"42", "-7", "3.25", "1/3", "-2/5", "16#FF", "2#1010"}
	for _, src := range cases {
		first := render(parse(t, src))
		second := render(parse(t, first))
		if first != second {
			t.Errorf("%q: round trip drifted %q -> %q", src, first, second)
		}
	}
}

func TestIntegerKeepsExactType(t *testing.T) {
	if _, ok := parse(t, "42").(*Integer); !ok {
		t.Fatal("plain digits should parse exact, not decimal")
	}
	if _, ok := parse(t, "42.0").(*DecimalValue); !ok {
		t.Fatal("dotted literal should parse as decimal")
	}
}

func TestAddIntegers(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "1"))
	m.Push(parse(t, "2"))
	run(t, m, "+")
	if got := render(top(t, m)); got != "3" {
		t.Fatalf("1 2 + = %s", got)
	}
	if top(t, m).Tag() != TagInteger {
		t.Fatal("integer addition should stay exact")
	}
}

func TestDivideExactYieldsFraction(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "1"))
	m.Push(parse(t, "3"))
	run(t, m, "/")
	if got := render(top(t, m)); got != "1/3" {
		t.Fatalf("1 3 / = %s", got)
	}
	m.Push(parse(t, "4"))
	m.Push(parse(t, "2"))
	run(t, m, "/")
	if got := render(top(t, m)); got != "2" {
		t.Fatalf("4 2 / should demote to integer, got %s", got)
	}
}

func TestPromotionExactInexact(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "1/2"))
	m.Push(parse(t, "0.5"))
	run(t, m, "+")
	v := top(t, m)
	if _, ok := v.(*DecimalValue); !ok {
		t.Fatalf("exact + inexact should promote to decimal, got %T", v)
	}
}

func TestAddSubInverse(t *testing.T) {
	// (x + y) - y = x for exact operands.
	m := newTestMachine()
	m.Push(parse(t, "12345678901234567890"))
	m.Push(parse(t, "987654321"))
	run(t, m, "+")
	m.Push(parse(t, "987654321"))
	run(t, m, "-")
	if got := render(top(t, m)); got != "12345678901234567890" {
		t.Fatalf("(x+y)-y = %s", got)
	}
}

func TestPowerExact(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "2"))
	m.Push(parse(t, "10"))
	run(t, m, "^")
	if got := render(top(t, m)); got != "1024" {
		t.Fatalf("2^10 = %s", got)
	}
	m.Push(parse(t, "2"))
	m.Push(parse(t, "-2"))
	run(t, m, "^")
	if got := render(top(t, m)); got != "1/4" {
		t.Fatalf("2^-2 = %s", got)
	}
	m.Push(parse(t, "2/3"))
	m.Push(parse(t, "2"))
	run(t, m, "^")
	if got := render(top(t, m)); got != "4/9" {
		t.Fatalf("(2/3)^2 = %s", got)
	}
}

func TestZeroPowerZeroDefaultsToOne(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "0"))
	m.Push(parse(t, "0"))
	run(t, m, "^")
	if got := render(top(t, m)); got != "1" {
		t.Fatalf("0^0 = %s", got)
	}
}

func TestModTakesDivisorSign(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "-7"))
	m.Push(parse(t, "3"))
	run(t, m, "MOD")
	if got := render(top(t, m)); got != "2" {
		t.Fatalf("-7 3 MOD = %s", got)
	}
	m.Push(parse(t, "7"))
	m.Push(parse(t, "-3"))
	run(t, m, "MOD")
	if got := render(top(t, m)); got != "-2" {
		t.Fatalf("7 -3 MOD = %s", got)
	}
}

func TestRemTakesDividendSign(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "-7"))
	m.Push(parse(t, "3"))
	run(t, m, "REM")
	if got := render(top(t, m)); got != "-1" {
		t.Fatalf("-7 3 REM = %s", got)
	}
}

func TestGCD(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "12"))
	m.Push(parse(t, "18"))
	run(t, m, "GCD")
	if got := render(top(t, m)); got != "6" {
		t.Fatalf("GCD(12,18) = %s", got)
	}
}

func TestFactorialHundred(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "5"))
	run(t, m, "!")
	if got := render(top(t, m)); got != "120" {
		t.Fatalf("5! = %s", got)
	}
	m.Push(parse(t, "100"))
	run(t, m, "!")
	s := render(top(t, m))
	if len(s) != 158 {
		t.Fatalf("100! should have 158 digits, got %d", len(s))
	}
	// Dividing back out by every factor recovers 1.
	for k := 2; k <= 100; k++ {
		m.Push(&Integer{V: numeric.FromInt64(int64(k))})
		run(t, m, "/")
	}
	if got := render(top(t, m)); got != "1" {
		t.Fatalf("100! / 2..100 = %s", got)
	}
}

func TestBignumPromotionAroundInt64(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "9223372036854775807"))
	m.Push(parse(t, "1"))
	run(t, m, "+")
	if got := render(top(t, m)); got != "9223372036854775808" {
		t.Fatalf("2^63-1 + 1 = %s", got)
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		a, b, op, want string
	}{
		{"1", "2", "<", "1"},
		{"2", "1", "<", "0"},
		{"2", "2", "==", "1"},
		{"1/3", "0.5", "<", "1"},
		{"2", "2", "≥", "1"},
		{"3", "2", "≠", "1"},
	}
	for _, c := range cases {
		m := newTestMachine()
		m.Push(parse(t, c.a))
		m.Push(parse(t, c.b))
		run(t, m, c.op)
		if got := render(top(t, m)); got != c.want {
			t.Errorf("%s %s %s = %s, want %s", c.a, c.b, c.op, got, c.want)
		}
	}
}

func TestXorCombinesBitsByDefault(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "42"))
	m.Push(parse(t, "7"))
	run(t, m, "XOR")
	if got := render(top(t, m)); got != "45" {
		t.Fatalf("42 7 XOR = %s", got)
	}
}

func TestBasedArithmeticWraps(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "16#FF"))
	m.Push(parse(t, "1"))
	run(t, m, "+")
	if got := render(top(t, m)); got != "16#100" {
		t.Fatalf("16#FF + 1 = %s", got)
	}
}

func TestToNumToQRoundTrip(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "1/3"))
	run(t, m, "→NUM")
	d, ok := top(t, m).(*DecimalValue)
	if !ok {
		t.Fatalf("→Num should yield a decimal, got %T", top(t, m))
	}
	if !strings.HasPrefix(render(d), "0.3333333333") {
		t.Fatalf("→Num(1/3) = %s", render(d))
	}
	run(t, m, "→Q")
	if got := render(top(t, m)); got != "1/3" {
		t.Fatalf("→Q recovered %s, want 1/3", got)
	}
}

func TestCycleRotations(t *testing.T) {
	i := parse(t, "42")
	b := Cycle(i)
	if _, ok := b.(*BasedInteger); !ok {
		t.Fatalf("integer should cycle to based, got %T", b)
	}
	back := Cycle(b)
	if got := render(back); got != "42" {
		t.Fatalf("based should cycle back to 42, got %s", got)
	}
	d := parse(t, "0.5")
	q := Cycle(d)
	if got := render(q); got != "1/2" {
		t.Fatalf("0.5 should cycle to 1/2, got %s", got)
	}
	if got := render(Cycle(q)); got != "0.5" {
		t.Fatalf("1/2 should cycle back to 0.5, got %s", got)
	}
}

func TestTrigHonorsAngleMode(t *testing.T) {
	// Default render opts use degrees.
	m := newTestMachine()
	m.Push(parse(t, "90"))
	run(t, m, "SIN")
	x, ok := ToFloat64(top(t, m))
	if !ok || x < 0.9999999 || x > 1.0000001 {
		t.Fatalf("sin 90° = %v", x)
	}
}

func TestDivideByZeroRaises(t *testing.T) {
	m := newTestMachine()
	m.Push(parse(t, "1"))
	m.Push(parse(t, "0"))
	id, _ := LookupCommand("/")
	err := (&Command{ID: id}).Evaluate(m)
	if err == nil || err.Kind != ErrDivByZero {
		t.Fatalf("expected Divide by zero, got %v", err)
	}
}

func TestComplexCollapseToReal(t *testing.T) {
	m := newTestMachine()
	m.Push(&RectangularValue{V: numeric.Rectangular{Re: 0, Im: 1}})
	m.Push(&RectangularValue{V: numeric.Rectangular{Re: 0, Im: 1}})
	run(t, m, "*")
	x, ok := ToFloat64(top(t, m))
	if !ok {
		t.Fatalf("i*i should collapse to a real, got %T", top(t, m))
	}
	if x > -0.9999999 || x < -1.0000001 {
		t.Fatalf("i*i = %v, want -1", x)
	}
	if isComplex(top(t, m)) {
		t.Fatal("i*i should not remain complex")
	}
}
