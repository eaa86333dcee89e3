package algebra

import (
	"testing"

	"github.com/dm48x/rpl/internal/container"
)

func x() *container.Expression { return wild("x") }

func TestMatchWildcard(t *testing.T) {
	pattern := bin2("+", wild("_a"), num(0))
	expr := bin2("+", x(), num(0))
	b, ok := Match(pattern, expr)
	if !ok {
		t.Fatal("expected match")
	}
	if !Equal(b["_a"], x()) {
		t.Fatalf("expected _a bound to x, got %v", b["_a"])
	}
}

func TestMatchNonLinear(t *testing.T) {
	pattern := bin2("-", wild("_a"), wild("_a"))
	if _, ok := Match(pattern, bin2("-", x(), num(1))); ok {
		t.Fatal("expected non-linear pattern to reject distinct subtrees")
	}
	if _, ok := Match(pattern, bin2("-", x(), x())); !ok {
		t.Fatal("expected non-linear pattern to accept identical subtrees")
	}
}

func TestSimplifyAddZero(t *testing.T) {
	expr := bin2("+", x(), num(0))
	got := Simplify(expr)
	if !Equal(got, x()) {
		t.Fatalf("expected x, got rendered %s", renderString(got.Leaf))
	}
}

func TestSimplifyMulOne(t *testing.T) {
	got := Simplify(bin2("*", num(1), x()))
	if !Equal(got, x()) {
		t.Fatal("expected simplification of 1*x to x")
	}
}

func TestSimplifyPowZero(t *testing.T) {
	got := Simplify(bin2("^", x(), num(0)))
	if !Equal(got, num(1)) {
		t.Fatal("expected x^0 to simplify to 1")
	}
}

func TestDerivativeOfSquare(t *testing.T) {
	// d/dx(x^2) = 2*x^1*1 -> simplified should equal 2*x
	d, ok := Derivative(bin2("^", x(), num(2)), "x")
	if !ok {
		t.Fatal("expected a derivative")
	}
	got := Simplify(d)
	want := bin2("*", num(2), x())
	if !Equal(got, want) {
		t.Fatalf("got different shape than 2*x")
	}
}

func TestDerivativeOfConstant(t *testing.T) {
	d, ok := Derivative(num(5), "x")
	if !ok {
		t.Fatal("expected derivative of constant to succeed")
	}
	if !Equal(d, num(0)) {
		t.Fatal("expected derivative of a constant to be 0")
	}
}

func TestPrimitiveOfLinear(t *testing.T) {
	p, ok := Primitive(x(), "x")
	if !ok {
		t.Fatal("expected a primitive")
	}
	got := Simplify(p)
	want := bin2("/", bin2("^", x(), num(2)), num(2))
	if !Equal(got, Simplify(want)) {
		t.Fatal("expected x^2/2")
	}
}

func TestSubst(t *testing.T) {
	expr := bin2("+", x(), num(1))
	got := Subst(expr, "x", num(4))
	want := bin2("+", num(4), num(1))
	if !Equal(got, want) {
		t.Fatal("expected substitution to replace the symbol")
	}
}

func TestIsolateSimpleLinear(t *testing.T) {
	// x + 3 = 10 => x = 10 - 3
	lhs := bin2("+", x(), num(3))
	rhs := num(10)
	sol, ok := Isolate(lhs, rhs, "x")
	if !ok {
		t.Fatal("expected isolate to succeed")
	}
	got := Simplify(sol)
	want := Simplify(bin2("-", num(10), num(3)))
	if !Equal(got, want) {
		t.Fatal("expected x = 10-3 simplified")
	}
}

func TestIsolateUnsolvable(t *testing.T) {
	// x appears twice in x*x = 4, a nonlinear form Isolate cannot peel.
	lhs := bin2("*", x(), x())
	if _, ok := Isolate(lhs, num(4), "x"); ok {
		t.Fatal("expected isolate to fail on a nonlinear occurrence")
	}
}
