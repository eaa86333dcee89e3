/*
 * db48x - RPL error taxonomy.
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

package object

import "fmt"

// ErrorKind enumerates the closed error taxonomy. It is a
// string type rather than a small int so that a user-supplied `doerr`
// message and a well-known kind print the same way, and so library code
// can compare kinds by name without importing a numeric table.
type ErrorKind string

const (
	ErrSyntax            ErrorKind = "Syntax error"
	ErrBadArgType        ErrorKind = "Bad argument type"
	ErrBadArgValue       ErrorKind = "Bad argument value"
	ErrDivByZero         ErrorKind = "Divide by zero"
	ErrTooFewArgs        ErrorKind = "Too few arguments"
	ErrDimension         ErrorKind = "Invalid dimension"
	ErrUndefinedName     ErrorKind = "Undefined name"
	ErrUndefinedResult   ErrorKind = "Undefined result"
	ErrOverflow          ErrorKind = "Overflow"
	ErrUnderflow         ErrorKind = "Underflow"
	ErrOutOfMemory       ErrorKind = "Out of memory"
	ErrBadInput          ErrorKind = "Invalid input"
	ErrDirectory         ErrorKind = "Invalid directory"
	ErrNoLocalValue      ErrorKind = "No local value"
	ErrInconsistentUnits ErrorKind = "Inconsistent units"
	ErrInterrupted       ErrorKind = "Interrupted"
	ErrInternal          ErrorKind = "Internal error"

	// The remainder of the closed taxonomy, added as internal/runtime,
	// internal/algebra, and internal/library grew into needing them.
	ErrInvalidName          ErrorKind = "Invalid name"
	ErrDomain               ErrorKind = "Argument outside domain"
	ErrNumericalOverflow    ErrorKind = "Numerical overflow"
	ErrPositiveUnderflow    ErrorKind = "Positive numerical underflow"
	ErrNegativeUnderflow    ErrorKind = "Negative numerical underflow"
	ErrPrecisionLost        ErrorKind = "Numerical precision lost"
	ErrUndefinedOperation   ErrorKind = "Undefined operation"
	ErrInvalidUnitExpr      ErrorKind = "Invalid unit expression"
	ErrExpectedVariableName ErrorKind = "Expected variable name"
	ErrUnterminated         ErrorKind = "Unterminated"
	ErrNoSolution           ErrorKind = "No solution?"
	ErrUnableToIsolate      ErrorKind = "Unable to isolate"
	ErrUnableToSolveAll     ErrorKind = "Unable to solve for all variables"
	ErrUnknownDerivative    ErrorKind = "Unknown derivative"
	ErrUnknownPrimitive     ErrorKind = "Unknown primitive"
	ErrIndexOutOfRange      ErrorKind = "Index out of range"
	ErrWrongArgCount        ErrorKind = "Wrong argument count"
	ErrPurgeActiveDirectory ErrorKind = "Cannot purge active directory"
	ErrUnknownConstant      ErrorKind = "Invalid or unknown constant"
	ErrUnknownLibraryEntry  ErrorKind = "Invalid or unknown library entry"
)

// errorNumbers assigns the stable numeric code errn reports for each
// kind; the numbers do not follow the declaration order of the
// taxonomy above.
var errorNumbers = map[ErrorKind]int{
	ErrSyntax: 1, ErrBadArgType: 2, ErrBadArgValue: 3, ErrTooFewArgs: 4,
	ErrInvalidName: 5, ErrUndefinedName: 6, ErrDivByZero: 7, ErrDomain: 8,
	ErrNumericalOverflow: 9, ErrPositiveUnderflow: 10, ErrNegativeUnderflow: 11,
	ErrPrecisionLost: 12, ErrUndefinedOperation: 13, ErrDimension: 14,
	ErrInconsistentUnits: 15, ErrInvalidUnitExpr: 16, ErrExpectedVariableName: 17,
	ErrUnterminated: 18, ErrNoSolution: 19, ErrUnableToIsolate: 20,
	ErrUnableToSolveAll: 21, ErrUnknownDerivative: 22, ErrUnknownPrimitive: 23,
	ErrIndexOutOfRange: 24, ErrWrongArgCount: 25, ErrPurgeActiveDirectory: 26,
	ErrUnknownConstant: 27, ErrUnknownLibraryEntry: 28, ErrBadInput: 29,
	ErrOutOfMemory: 30, ErrUndefinedResult: 31, ErrOverflow: 32,
	ErrUnderflow: 33, ErrDirectory: 34, ErrNoLocalValue: 35,
	ErrInterrupted: 36, ErrInternal: 37,
}

// KindForNumber inverts the code table for DoErr-by-number.
func KindForNumber(n int) (ErrorKind, bool) {
	for k, num := range errorNumbers {
		if num == n {
			return k, true
		}
	}
	return "", false
}

// Number returns the stable numeric code for e.Kind, or 0 if e.Kind was
// never assigned one (a DoErr free-text error, for instance).
func (e *Error) Number() int {
	if e == nil {
		return 0
	}
	return errorNumbers[e.Kind]
}

// Error is the value every fallible runtime operation returns alongside
// (or instead of) a Value. Kind classifies it for IFERR/doerr testing;
// Culprit optionally carries the offending object so the REPL's error
// banner can show both the message and what triggered it.
type Error struct {
	Kind    ErrorKind
	Message string
	Culprit Value
}

// Error satisfies the standard error interface so Error values compose
// with Go's normal error-handling idiom wherever that is convenient
// (logging, wrapping with fmt.Errorf("%w", ...)).
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds an Error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithCulprit attaches the offending value and returns e for chaining at
// the call site: `return nil, object.NewError(...).WithCulprit(v)`.
func (e *Error) WithCulprit(v Value) *Error {
	e.Culprit = v
	return e
}
