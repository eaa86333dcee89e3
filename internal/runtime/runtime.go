/*
 * db48x - evaluator and Machine implementation.
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

// Package runtime wires the arena, data stack, return stack, directory
// store, and settings into the object.Machine contract every
// Value.Evaluate method drives: one struct owning all mutable session
// state, driven one step at a time by the command layer.
package runtime

import (
	"github.com/dm48x/rpl/internal/arena"
	"github.com/dm48x/rpl/internal/container"
	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
	"github.com/dm48x/rpl/util/debug"
)

// Runtime is the concrete object.Machine: one per session. Commands and
// control-flow objects only ever see it through the Machine interface,
// plus the small capability interfaces below for features object.Machine
// deliberately omits (errm/errn, Modes, directory ops) so that package
// object never has to import runtime.
type Runtime struct {
	Arena    *arena.Arena
	Stack    Stack
	Dirs     *Tree
	Flags    *Flags
	Settings Settings
	Editor   EditorRing

	frames frames

	lastArgs  []object.Value
	undo      []object.Value
	lastError *object.Error

	attached []Library

	captureDepth int
	captureBuf   []object.Value
}

// NewRuntime builds a ready Machine with default settings and a fresh
// Home directory; everything a session owns is constructed up front.
func NewRuntime(a *arena.Arena) *Runtime {
	r := &Runtime{
		Arena:    a,
		Dirs:     NewTree(a),
		Flags:    newFlags(),
		Settings: DefaultSettings(),
	}
	r.Stack.Bind(a)
	r.Settings.registerSettingsScript()
	return r
}

// Roots returns every arena.Root this runtime owns, for Collect.
func (r *Runtime) Roots() []arena.Root {
	return []arena.Root{&r.Stack, r.Dirs}
}

func (r *Runtime) Push(v object.Value) { r.Stack.Push(v) }

func (r *Runtime) Pop() (object.Value, *object.Error) {
	v, ok := r.Stack.Pop()
	if !ok {
		return nil, r.Raise(object.ErrTooFewArgs, "empty stack")
	}
	if r.captureDepth > 0 {
		r.captureBuf = append(r.captureBuf, v)
	}
	return v, nil
}

func (r *Runtime) Peek(depth int) (object.Value, *object.Error) {
	v, ok := r.Stack.Peek(depth)
	if !ok {
		return nil, r.Raise(object.ErrTooFewArgs, "stack underflow at depth %d", depth)
	}
	return v, nil
}

func (r *Runtime) Depth() int { return r.Stack.Depth() }

func (r *Runtime) Drop(n int) *object.Error {
	if !r.Stack.Drop(n) {
		return r.Raise(object.ErrTooFewArgs, "cannot drop %d items", n)
	}
	return nil
}

// Lookup resolves name against the local-frame chain first (lexical,
// innermost wins), then the directory chain, then attached libraries,
// so a bound constant resolves only when nothing local shadows it.
func (r *Runtime) Lookup(name string) (object.Value, bool) {
	if v, ok := r.frames.lookup(name); ok {
		return v, true
	}
	if v, ok := r.Dirs.Lookup(name); ok {
		return v, true
	}
	for i := len(r.attached) - 1; i >= 0; i-- {
		if v, ok := r.attached[i].Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (r *Runtime) Store(name string, v object.Value) *object.Error {
	return r.Dirs.Store(name, v)
}

// Run evaluates body in the current frame; it is the hook control-flow
// objects (container.IfThenElse, ForLoop, ...) call on their inner
// Program bodies instead of calling body.Evaluate(r) directly, kept
// distinct so a future step/trace mode has one seam to intercept.
func (r *Runtime) Run(body object.Value) *object.Error {
	return body.Evaluate(r)
}

func (r *Runtime) PushFrame(names []string, values []object.Value) func() {
	return r.frames.push(names, values)
}

func (r *Runtime) Raise(kind object.ErrorKind, format string, args ...any) *object.Error {
	return object.NewError(kind, format, args...)
}

func (r *Runtime) Alloc(o arena.Object) arena.Ref { return r.Arena.Alloc(o) }

func (r *Runtime) Resolve(ref arena.Ref) object.Value {
	v, _ := r.Arena.Get(ref).(object.Value)
	return v
}

func (r *Runtime) RenderOpts() object.RenderOpts { return r.Settings.RenderOpts() }

// WordSize implements the object.WordSizer capability interface arith.go
// type-asserts for, so based-integer arithmetic wraps to the active
// setting instead of a hardcoded default.
func (r *Runtime) WordSize() int { return r.Settings.WordSize }

// ZeroPowerZeroUndefined implements object.ZeroPowerPolicy.
func (r *Runtime) ZeroPowerZeroUndefined() bool { return !r.Settings.ZeroPowerZeroIsOne }

// TruthLogicForIntegers implements object.TruthLogician: the
// AND/OR/XOR family tests truth instead of combining bit patterns.
func (r *Runtime) TruthLogicForIntegers() bool { return r.Settings.TruthLogicForIntegers }

// ClampDecimal implements object.RangePolicy: a decimal result whose
// order of magnitude leaves the configured exponent range resolves per
// — an error when the matching *Error flag is set, the symbolic
// ∞ under InfinityValue, the saturated maximum (or zero, for
// underflow) otherwise. The report-only indicator flags -23..-26 record
// the last-seen category either way.
func (r *Runtime) ClampDecimal(d numeric.Decimal) (object.Value, *object.Error) {
	if d.IsZero() {
		return &object.DecimalValue{V: d}, nil
	}
	maxExp := r.Settings.MaximumDecimalExponent
	if maxExp <= 0 {
		return &object.DecimalValue{V: d}, nil
	}
	e := d.MagnitudeExp()
	neg := d.Mantissa.Neg
	if e > maxExp {
		r.Flags.Set(FlagOverflowSeen)
		if r.Settings.OverflowError {
			return nil, object.NewError(object.ErrNumericalOverflow, "exponent %d exceeds %d", e, maxExp)
		}
		if r.Settings.InfinityValue {
			r.Flags.Set(FlagInfiniteResultSeen)
			return infinitySymbol(neg), nil
		}
		return &object.DecimalValue{V: numeric.MaxDecimal(maxExp, neg)}, nil
	}
	if e < -maxExp {
		if neg {
			r.Flags.Set(FlagNegativeUnderflowSeen)
		} else {
			r.Flags.Set(FlagPositiveUnderflowSeen)
		}
		if r.Settings.UnderflowError {
			kind := object.ErrPositiveUnderflow
			if neg {
				kind = object.ErrNegativeUnderflow
			}
			return nil, object.NewError(kind, "exponent %d below -%d", e, maxExp)
		}
		return &object.DecimalValue{V: numeric.Decimal{Mantissa: numeric.Zero()}}, nil
	}
	return &object.DecimalValue{V: d}, nil
}

// InfinityForZeroDivide implements the other pole of object.RangePolicy:
// division by zero yields signed ∞ only under InfinityValue, otherwise
// the caller raises Divide by zero.
func (r *Runtime) InfinityForZeroDivide(negative bool) (object.Value, bool) {
	if !r.Settings.InfinityValue {
		return nil, false
	}
	r.Flags.Set(FlagInfiniteResultSeen)
	return infinitySymbol(negative), true
}

func infinitySymbol(neg bool) object.Value {
	if neg {
		return &object.Symbol{Name: "-∞"}
	}
	return &object.Symbol{Name: "∞"}
}

// IntegrationLimits implements the capability interface algebra's
// numerical solver and integrator type-assert for, exposing
// Settings.IntegrationIterations/IntegrationImprecision without
// widening object.Machine with settings access every other command would
// have to ignore.
func (r *Runtime) IntegrationLimits() (iterations int, imprecision int) {
	return r.Settings.IntegrationIterations, r.Settings.IntegrationImprecision
}

// SetLastError implements the capability interface container.IfErrNode
// type-asserts for: it records the caught error so errm/errn/err0 can
// retrieve it from inside the handler.
func (r *Runtime) SetLastError(err *object.Error) { r.lastError = err }

// LastError exposes the most recently caught error (errm/errn read it).
func (r *Runtime) LastError() *object.Error { return r.lastError }

// ClearLastError implements err0.
func (r *Runtime) ClearLastError() { r.lastError = nil }

// CaptureLastArgs records the arguments a builtin consumed, enabling
// LASTARG to restore the popped arguments of the most recent command
// to the stack.
func (r *Runtime) CaptureLastArgs(args []object.Value) { r.lastArgs = args }

func (r *Runtime) LastArgs() []object.Value { return r.lastArgs }

// BeginCapture and EndCapture implement object.ArgRecorder: Command.Evaluate
// brackets every builtin invocation with these so Pop() can buffer
// whatever the builtin consumes, without every individual builtin having
// to call CaptureLastArgs itself. Nesting (a builtin that runs a body
// which itself pops, e.g. a user function call) only resets the buffer
// at the outermost Begin, so an inner command's pops are folded into the
// outer command's LastArgs rather than replacing them outright.
func (r *Runtime) BeginCapture() {
	if r.captureDepth == 0 {
		r.captureBuf = nil
	}
	r.captureDepth++
}

// EndCapture closes a Begin/End pair; at depth 0 it reverses the
// pop-order buffer back into original stack order (the first item
// pushed by LASTARG should be the one that was deepest, i.e. popped
// last) and publishes it as LastArgs, but only when the command actually
// consumed something, so a zero-argument command like DEPTH leaves a
// previous LastArgs snapshot intact.
func (r *Runtime) EndCapture() {
	r.captureDepth--
	if r.captureDepth > 0 {
		return
	}
	if len(r.captureBuf) == 0 {
		return
	}
	args := make([]object.Value, len(r.captureBuf))
	for i, v := range r.captureBuf {
		args[len(r.captureBuf)-1-i] = v
	}
	r.lastArgs = args
}

// SnapshotUndo records the stack before an interactive top-level
// evaluation, so `UNDO` can restore it.
func (r *Runtime) SnapshotUndo() { r.undo = r.Stack.Snapshot() }

func isUndoLine(values []object.Value) bool {
	if len(values) != 1 {
		return false
	}
	s, ok := values[0].(*object.Symbol)
	return ok && s.Name == "UNDO"
}

func (r *Runtime) Undo() { r.Stack.Restore(r.undo) }

// Eval runs one top-level source line: every parsed object evaluates
// in turn against this runtime, the same in-order loop a program body
// runs, just applied to an interactive input line instead of a stored
// `« ... »`.
func (r *Runtime) Eval(values []object.Value) *object.Error {
	// A line consisting solely of UNDO must see the snapshot taken
	// before the previous line, not one of its own.
	if !isUndoLine(values) {
		r.SnapshotUndo()
	}
	for _, v := range values {
		// A program entered at the top level is data: it goes on the
		// stack and runs only when a name or EVAL invokes it. Evaluate on
		// a Program is "run", so the deferral lives here, at entry.
		if prog, ok := v.(*container.Program); ok {
			r.Push(prog)
			continue
		}
		debug.Tracef(debug.Evaluator, "eval %T", v)
		if err := v.Evaluate(r); err != nil {
			debug.Tracef(debug.Evaluator, "eval error: %s", err.Error())
			return err
		}
		if r.Arena.NeedsGC() {
			r.Arena.Collect(r.Roots())
		}
	}
	return nil
}
