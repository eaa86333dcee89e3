/*
 * db48x - numerical solver, integrator, and PRNG.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package algebra

import (
	"math"
	"math/rand"

	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

func numFromInt(n int64) *numeric.BigInt { return numeric.FromInt64(n) }

// IntegrationLimiter is the capability interface ROOT and ∫'s numerical
// path type-assert for, mirroring arith.go's WordSizer: object.Machine
// carries no settings access, so the caps live behind an optional
// interface the concrete runtime.Runtime implements.
type IntegrationLimiter interface {
	IntegrationLimits() (iterations int, imprecision int)
}

// limits reads the active iteration cap and tolerance, defaulting to
// sane values when the Machine doesn't expose IntegrationLimiter
// (e.g. a test harness).
func limits(m object.Machine) (iterations int, tol float64) {
	iterations, imprecision := 100, 0
	if il, ok := m.(IntegrationLimiter); ok {
		if it, imp := il.IntegrationLimits(); it > 0 {
			iterations, imprecision = it, imp
		}
	}
	tol = math.Pow(10, -float64(10+imprecision))
	return iterations, tol
}

// evalAt substitutes name=x into expr and evaluates the result, the
// numerical sampling primitive both ROOT and the definite-integral path
// in commands.go build on.
func evalAt(m object.Machine, expr *container.Expression, name string, x float64) (float64, bool) {
	bound := Subst(expr, name, &container.Expression{Leaf: &object.DecimalValue{V: numeric.FromFloat64(x)}})
	if err := bound.Evaluate(m); err != nil {
		return 0, false
	}
	v, err := m.Pop()
	if err != nil {
		return 0, false
	}
	return object.ToFloat64(v)
}

func init() {
	object.RegisterCommand("RDZ", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		seed, ok := object.ToFloat64(v)
		if !ok {
			m.Push(v)
			return m.Raise(object.ErrBadArgType, "RDZ expects a numeric seed")
		}
		rand.Seed(int64(seed))
		return nil
	})

	// RAND yields a uniform [0,1) decimal.
	object.RegisterCommand("RAND", func(m object.Machine) *object.Error {
		m.Push(&object.DecimalValue{V: numeric.FromFloat64(rand.Float64())})
		return nil
	})

	// RANDOM a b yields a uniform integer in [a, b].
	object.RegisterCommand("RANDOM", func(m object.Machine) *object.Error {
		bv, err := m.Pop()
		if err != nil {
			return err
		}
		av, err := m.Pop()
		if err != nil {
			m.Push(bv)
			return err
		}
		a, aok := object.ToFloat64(av)
		b, bok := object.ToFloat64(bv)
		if !aok || !bok {
			m.Push(av)
			m.Push(bv)
			return m.Raise(object.ErrBadArgType, "RANDOM expects two numbers")
		}
		lo, hi := int64(a), int64(b)
		if lo > hi {
			lo, hi = hi, lo
		}
		n := lo + rand.Int63n(hi-lo+1)
		m.Push(&object.Integer{V: numFromInt(n)})
		return nil
	})

	// ROOT('equation', 'var', guess) solves for var, trying algebraic
	// isolation first and falling back to a numerical bisection+secant
	// search seeded at guess. The result is pushed the same way
	// isolate's is, as var=value.
	object.RegisterCommand("ROOT", func(m object.Machine) *object.Error {
		gv, err := m.Pop()
		if err != nil {
			return err
		}
		guess, ok := object.ToFloat64(gv)
		if !ok {
			m.Push(gv)
			return m.Raise(object.ErrBadArgType, "ROOT expects a numeric initial guess")
		}
		name, err := nameArg(m)
		if err != nil {
			m.Push(gv)
			return err
		}
		v, perr := m.Pop()
		if perr != nil {
			m.Push(&object.Symbol{Name: name})
			m.Push(gv)
			return perr
		}
		lhs, rhs, eerr := equationSides(m, v)
		if eerr != nil {
			return eerr
		}
		if sol, ok := Isolate(lhs, rhs, name); ok {
			simplified := Simplify(sol)
			if err := simplified.Evaluate(m); err == nil {
				if rv, perr := m.Pop(); perr == nil {
					if _, symbolic := rv.(*container.Expression); !symbolic {
						m.Push(&container.Assignment{Name: name, Value: rv})
						return nil
					}
				}
			}
			m.Push(&container.Assignment{Name: name, Value: simplified})
			return nil
		}
		f := func(x float64) (float64, bool) {
			l, lok := evalAt(m, lhs, name, x)
			r, rok := evalAt(m, rhs, name, x)
			if !lok || !rok {
				return 0, false
			}
			return l - r, true
		}
		iterations, tol := limits(m)
		root, ok := solveNumeric(f, guess, iterations, tol)
		if !ok {
			return m.Raise(object.ErrNoSolution, "no root found near %v", guess)
		}
		m.Push(&container.Assignment{Name: name, Value: &object.DecimalValue{V: numeric.FromFloat64(root)}})
		return nil
	})
}

// solveNumeric finds x with f(x)~0 starting from x0, per "bracketed
// bisection + secant with monotonicity fallback": secant iteration is
// tried first since it converges fast near a simple root; if it stalls
// (a repeated or zero denominator) the search instead scans outward from
// x0 for a sign change and bisects within the bracket it finds.
func solveNumeric(f func(float64) (float64, bool), x0 float64, iterations int, tol float64) (float64, bool) {
	step := 0.01
	if math.Abs(x0) > 1 {
		step = 0.01 * math.Abs(x0)
	}
	xPrev, xCurr := x0, x0+step
	fPrev, ok := f(xPrev)
	if !ok {
		return 0, false
	}
	if math.Abs(fPrev) < tol {
		return xPrev, true
	}
	for i := 0; i < iterations; i++ {
		fCurr, ok := f(xCurr)
		if !ok {
			break
		}
		if math.Abs(fCurr) < tol {
			return xCurr, true
		}
		denom := fCurr - fPrev
		if denom == 0 {
			break
		}
		xNext := xCurr - fCurr*(xCurr-xPrev)/denom
		xPrev, fPrev = xCurr, fCurr
		xCurr = xNext
	}
	// Secant stalled or never converged: bracket by scanning outward from
	// x0, then bisect within whatever sign change is found.
	lo, hi, found := bracket(f, x0, iterations)
	if !found {
		return 0, false
	}
	fLo, _ := f(lo)
	for i := 0; i < iterations; i++ {
		mid := (lo + hi) / 2
		fMid, ok := f(mid)
		if !ok {
			return 0, false
		}
		if math.Abs(fMid) < tol || hi-lo < tol {
			return mid, true
		}
		if (fMid < 0) == (fLo < 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// bracket scans outward from x0 in geometrically growing steps until it
// finds an interval where f changes sign.
func bracket(f func(float64) (float64, bool), x0 float64, iterations int) (lo, hi float64, ok bool) {
	step := 1.0
	if x0 != 0 {
		step = math.Abs(x0) / 10
	}
	a := x0
	fa, aok := f(a)
	if !aok {
		return 0, 0, false
	}
	for i := 0; i < iterations; i++ {
		b := x0 + step
		fb, bok := f(b)
		if bok && (fb < 0) != (fa < 0) {
			return a, b, true
		}
		c := x0 - step
		fc, cok := f(c)
		if cok && (fc < 0) != (fa < 0) {
			return c, a, true
		}
		step *= 1.5
	}
	return 0, 0, false
}

// integrateNumeric evaluates ∫ from lo to hi of expr over name using
// composite Simpson's rule, refined by doubling the subdivision count
// until successive estimates agree within the active imprecision or the
// iteration cap is reached.
func integrateNumeric(m object.Machine, expr *container.Expression, name string, lo, hi float64) (float64, *object.Error) {
	iterations, tol := limits(m)
	f := func(x float64) (float64, bool) { return evalAt(m, expr, name, x) }
	n := 4
	prev, ok := simpson(f, lo, hi, n)
	if !ok {
		return 0, m.Raise(object.ErrNoSolution, "cannot evaluate integrand")
	}
	for i := 0; i < iterations; i++ {
		n *= 2
		cur, ok := simpson(f, lo, hi, n)
		if !ok {
			return 0, m.Raise(object.ErrNoSolution, "cannot evaluate integrand")
		}
		if math.Abs(cur-prev) < tol {
			return cur, nil
		}
		prev = cur
	}
	return 0, m.Raise(object.ErrNoSolution, "integration did not converge within IntegrationIterations")
}

// simpson applies composite Simpson's rule over n (even) subintervals.
func simpson(f func(float64) (float64, bool), lo, hi float64, n int) (float64, bool) {
	if n%2 != 0 {
		n++
	}
	h := (hi - lo) / float64(n)
	y0, ok := f(lo)
	if !ok {
		return 0, false
	}
	yn, ok := f(hi)
	if !ok {
		return 0, false
	}
	sum := y0 + yn
	for i := 1; i < n; i++ {
		x := lo + float64(i)*h
		y, ok := f(x)
		if !ok {
			return 0, false
		}
		if i%2 == 0 {
			sum += 2 * y
		} else {
			sum += 4 * y
		}
	}
	return sum * h / 3, true
}
