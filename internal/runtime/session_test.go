package runtime_test

import (
	"math"
	"strings"
	"testing"

	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/library"
	"github.com/dm48x/rpl/internal/object"
	"github.com/dm48x/rpl/internal/runtime"

	_ "github.com/dm48x/rpl/internal/algebra"
)

// session bundles a fresh runtime with the parse-then-eval loop the
// REPL drives, for end-to-end scenarios spanning several packages.
type session struct {
	r *runtime.Runtime
}

func newSession() *session {
	return &session{r: runtime.NewRuntime(arena.New(0))}
}

func (s *session) eval(t *testing.T, src string) {
	t.Helper()
	values, err := container.ParseWith(s.r, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if rerr := s.r.Eval(values); rerr != nil {
		t.Fatalf("eval %q: %v", src, rerr)
	}
}

func (s *session) evalErr(t *testing.T, src string) *object.Error {
	t.Helper()
	values, err := container.ParseWith(s.r, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return s.r.Eval(values)
}

func (s *session) top(t *testing.T) object.Value {
	t.Helper()
	v, err := s.r.Peek(0)
	if err != nil {
		t.Fatal("empty stack")
	}
	return v
}

func (s *session) topRender(t *testing.T) string {
	t.Helper()
	p := object.NewPrinter(s.r.RenderOpts())
	s.top(t).Render(p)
	return p.String()
}

func (s *session) topFloat(t *testing.T) float64 {
	t.Helper()
	x, ok := object.ToFloat64(s.top(t))
	if !ok {
		t.Fatalf("top of stack is not numeric: %T", s.top(t))
	}
	return x
}

func near(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("got %v, want %v ± %v", got, want, tol)
	}
}

func TestStackArithmeticScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "1 2 +")
	if got := s.topRender(t); got != "3" {
		t.Fatalf("1 2 + = %s", got)
	}
	if s.top(t).Tag() != object.TagInteger {
		t.Fatal("result should stay an exact integer")
	}
}

func TestExactFractionScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "1 3 /")
	if got := s.topRender(t); got != "1/3" {
		t.Fatalf("1 3 / = %s", got)
	}
	s.eval(t, "→NUM")
	if !strings.HasPrefix(s.topRender(t), "0.3333333333") {
		t.Fatalf("→Num = %s", s.topRender(t))
	}
	s.eval(t, "→Q")
	if got := s.topRender(t); got != "1/3" {
		t.Fatalf("→Q = %s", got)
	}
}

func TestStoreRecallScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "42 'ANS' STO")
	s.eval(t, "'ANS' RCL")
	if got := s.topRender(t); got != "42" {
		t.Fatalf("RCL = %s", got)
	}
	// A stored program behaves as a user-defined command when named.
	s.eval(t, "« 2 * » 'DOUBLE' STO")
	s.eval(t, "21 DOUBLE")
	if got := s.topRender(t); got != "42" {
		t.Fatalf("user command = %s", got)
	}
}

func TestStoArithmeticAndIncr(t *testing.T) {
	s := newSession()
	s.eval(t, "10 'N' STO")
	s.eval(t, "5 'N' STO+")
	s.eval(t, "'N' RCL")
	if got := s.topRender(t); got != "15" {
		t.Fatalf("STO+ left %s", got)
	}
	s.eval(t, "'N' INCR")
	if got := s.topRender(t); got != "16" {
		t.Fatalf("INCR = %s", got)
	}
}

func TestIfErrScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "« IFERR 1 0 / THEN ERRN END » EVAL")
	if got := s.topRender(t); got != "7" {
		t.Fatalf("errn for Divide by zero = %s", got)
	}
	s.eval(t, "ERRM")
	if !strings.Contains(s.topRender(t), "Divide by zero") {
		t.Fatalf("errm = %s", s.topRender(t))
	}
}

func TestUncaughtErrorSurfaces(t *testing.T) {
	s := newSession()
	err := s.evalErr(t, "XYZZY")
	if err == nil || err.Kind != object.ErrUndefinedName {
		t.Fatalf("expected Undefined name, got %v", err)
	}
}

func TestExpressionPowerScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "'2^3' EVAL")
	if got := s.topRender(t); got != "8" {
		t.Fatalf("'2^3' EVAL = %s", got)
	}
}

func TestSymbolicSolveScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "'sq(X)=3' 'X' 1 ROOT")
	a, ok := s.top(t).(*container.Assignment)
	if !ok {
		t.Fatalf("ROOT should push an assignment, got %T", s.top(t))
	}
	x, ok := object.ToFloat64(a.Value)
	if !ok {
		t.Fatalf("solution is not numeric: %T", a.Value)
	}
	near(t, x, math.Sqrt(3), 1e-6)
}

func TestNumericIntegrationScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "1 2 '1/X' 'X' ∫")
	near(t, s.topFloat(t), math.Ln2, 1e-6)
}

func TestSymbolicDerivativeScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "'X^2' 'X' ∂")
	e, ok := s.top(t).(*container.Expression)
	if !ok {
		t.Fatalf("derivative should stay symbolic, got %T", s.top(t))
	}
	// Substituting X=5 into the derivative yields 10.
	p := object.NewPrinter(s.r.RenderOpts())
	e.Render(p)
	s.eval(t, "'X' 5 subst EVAL")
	near(t, s.topFloat(t), 10, 1e-9)
}

func TestExpandCollectScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "'(A+B)^3' expand collect")
	if _, ok := s.top(t).(*container.Expression); !ok {
		t.Fatalf("collect should leave an expression, got %T", s.top(t))
	}
	// The expansion agrees with the closed form at A=2, B=3: (2+3)^3=125.
	s.eval(t, "2 'A' STO 3 'B' STO")
	s.eval(t, "EVAL")
	near(t, s.topFloat(t), 125, 1e-9)
}

func TestOverflowPolicyScenario(t *testing.T) {
	s := newSession()
	s.r.Settings.MaximumDecimalExponent = 499
	s.r.Settings.InfinityValue = true
	s.eval(t, "1E499 10 *")
	sym, ok := s.top(t).(*object.Symbol)
	if !ok || sym.Name != "∞" {
		t.Fatalf("overflow under InfinityValue = %#v", s.top(t))
	}
	if !s.r.Flags.IsSet(runtime.FlagInfiniteResultSeen) {
		t.Fatal("flag -25 should be set")
	}

	s = newSession()
	s.r.Settings.MaximumDecimalExponent = 499
	s.r.Settings.OverflowError = true
	err := s.evalErr(t, "1E499 10 *")
	if err == nil || err.Kind != object.ErrNumericalOverflow {
		t.Fatalf("expected Numerical overflow, got %v", err)
	}
}

func TestLibraryAttachScenario(t *testing.T) {
	s := newSession()
	s.r.Attach(library.Constants)
	s.eval(t, "c →NUM")
	near(t, s.topFloat(t), 299792458, 1)
}

func TestLibraryDetachScenario(t *testing.T) {
	s := newSession()
	s.eval(t, `"CONSTANTS" ATTACH`)
	s.eval(t, "c →NUM")
	near(t, s.topFloat(t), 299792458, 1)
	s.eval(t, `"CONSTANTS" DETACH`)
	if err := s.evalErr(t, "c"); err == nil {
		t.Fatal("detached library should no longer resolve c")
	}
}

func TestLocalShadowsLibrary(t *testing.T) {
	s := newSession()
	s.r.Attach(library.Constants)
	s.eval(t, "1 'c' STO")
	s.eval(t, "'c' RCL")
	if got := s.topRender(t); got != "1" {
		t.Fatalf("a stored c should shadow the constant, got %s", got)
	}
}

func TestUndoCommandScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "1 2")
	s.eval(t, "+")
	s.eval(t, "UNDO")
	// Undo restores the stack to the snapshot taken before `+` ran.
	if s.r.Depth() != 2 {
		t.Fatalf("UNDO left depth %d", s.r.Depth())
	}
}

func TestLastArgScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "2 3 +")
	s.eval(t, "LASTARG")
	if s.r.Depth() != 3 {
		t.Fatalf("LASTARG should restore both operands, depth = %d", s.r.Depth())
	}
	if got := s.topRender(t); got != "3" {
		t.Fatalf("restored top = %s", got)
	}
}

func TestModesRoundTripScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "12 Precision")
	if s.r.Settings.Precision != 12 {
		t.Fatal("the Precision command should set the field")
	}
	s.eval(t, "MODES")
	pr, ok := s.top(t).(*container.Program)
	if !ok {
		t.Fatalf("MODES should push a program, got %T", s.top(t))
	}
	if len(pr.Items) == 0 {
		t.Fatal("MODES program should reproduce the non-default precision")
	}
	// Executing the captured program reproduces the settings.
	s.r.Settings.Precision = 24
	s.eval(t, "EVAL")
	if s.r.Settings.Precision != 12 {
		t.Fatal("replaying MODES should restore Precision 12")
	}
}

func TestSettingsRecallAndPurge(t *testing.T) {
	s := newSession()
	s.eval(t, "12 Precision")
	s.eval(t, "'Precision' RCL")
	if got := s.topRender(t); got != "12" {
		t.Fatalf("recalled Precision = %s", got)
	}
	s.eval(t, "'Precision' PURGE")
	if s.r.Settings.Precision != 24 {
		t.Fatalf("purge should restore the default, got %d", s.r.Settings.Precision)
	}
}

func TestAngleModeCommands(t *testing.T) {
	s := newSession()
	s.eval(t, "Rad")
	s.eval(t, "0 SIN")
	near(t, s.topFloat(t), 0, 1e-12)
	if s.r.Settings.AngleUnits != runtime.AngleRad {
		t.Fatal("Rad should switch the angle mode")
	}
	s.eval(t, "Deg 90 SIN")
	near(t, s.topFloat(t), 1, 1e-9)
}

func TestWordSizeCommands(t *testing.T) {
	s := newSession()
	s.eval(t, "16 STWS RCWS")
	if got := s.topRender(t); got != "16" {
		t.Fatalf("RCWS = %s", got)
	}
	// 16#FFFF + 1 wraps at the 16-bit boundary.
	s.eval(t, "16#FFFF 1 +")
	if got := s.topRender(t); got != "16#0" {
		t.Fatalf("wrapped sum = %s", got)
	}
}

func TestSubstitutionBarScenario(t *testing.T) {
	s := newSession()
	s.eval(t, "'X^2+1|X=3' EVAL")
	near(t, s.topFloat(t), 10, 1e-9)
	// Chained substitutions bind left to right.
	s.eval(t, "'A+B|A=1|B=2' EVAL")
	near(t, s.topFloat(t), 3, 1e-9)
}

func TestDoErrByNumberAndText(t *testing.T) {
	s := newSession()
	err := s.evalErr(t, "7 DOERR")
	if err == nil || err.Kind != object.ErrDivByZero {
		t.Fatalf("DOERR by number 7 should raise Divide by zero, got %v", err)
	}
	err = s.evalErr(t, `"my own failure" DOERR`)
	if err == nil || !strings.Contains(err.Error(), "my own failure") {
		t.Fatalf("free-text DOERR = %v", err)
	}
}

func TestInterruptPropagatesThroughIfErr(t *testing.T) {
	// A synthetic Interrupted error behaves like any other kind for
	// iferr.
	err := object.NewError(object.ErrInterrupted, "EXIT key")
	if err.Number() == 0 {
		t.Fatal("Interrupted should carry a stable error number")
	}
}
