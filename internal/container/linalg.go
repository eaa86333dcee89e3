/*
 * db48x - vector/matrix linear algebra commands.
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

package container

import (
	"math"
	"math/rand"

	"github.com/dm48x/rpl/internal/numeric"
	"github.com/dm48x/rpl/internal/object"
)

func decOf(v float64) object.Value { return &object.DecimalValue{V: numeric.FromFloat64(v)} }

func toFloats(a *Array) ([]float64, bool) {
	out := make([]float64, len(a.Data))
	for i, v := range a.Data {
		f, ok := object.ToFloat64(v)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// squareFloats reads a's Dims[0]xDims[0] data into a row-major float64
// buffer, the common first step of INV and DET.
func squareFloats(m object.Machine, a *Array) ([]float64, int, *object.Error) {
	if !a.IsMatrix() || a.Dims[0] != a.Dims[1] {
		return nil, 0, m.Raise(object.ErrDimension, "expected a square matrix")
	}
	n := a.Dims[0]
	data, ok := toFloats(a)
	if !ok {
		return nil, n, m.Raise(object.ErrBadArgType, "matrix elements must be numeric")
	}
	return data, n, nil
}

// gaussJordan performs Gauss-Jordan elimination with partial pivoting
// in place over an nxn buffer, tracking the running determinant sign;
// used by both DET and the INV augmented-identity sweep.
func gaussJordan(buf []float64, n int, aug []float64, augCols int) (det float64, ok bool) {
	det = 1
	for col := 0; col < n; col++ {
		pivot := col
		best := math.Abs(buf[col*n+col])
		for r := col + 1; r < n; r++ {
			if v := math.Abs(buf[r*n+col]); v > best {
				best, pivot = v, r
			}
		}
		if best == 0 {
			return 0, false
		}
		if pivot != col {
			swapRow(buf, n, col, pivot)
			if aug != nil {
				swapRow(aug, augCols, col, pivot)
			}
			det = -det
		}
		pv := buf[col*n+col]
		det *= pv
		for c := 0; c < n; c++ {
			buf[col*n+c] /= pv
		}
		if aug != nil {
			for c := 0; c < augCols; c++ {
				aug[col*augCols+c] /= pv
			}
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := buf[r*n+col]
			if factor == 0 {
				continue
			}
			for c := 0; c < n; c++ {
				buf[r*n+c] -= factor * buf[col*n+c]
			}
			if aug != nil {
				for c := 0; c < augCols; c++ {
					aug[r*augCols+c] -= factor * aug[col*augCols+c]
				}
			}
		}
	}
	return det, true
}

func swapRow(buf []float64, cols, a, b int) {
	for c := 0; c < cols; c++ {
		buf[a*cols+c], buf[b*cols+c] = buf[b*cols+c], buf[a*cols+c]
	}
}

// invertMatrix runs the Gauss-Jordan elimination against an augmented
// identity that both the INV command and the "/" matrix-by-matrix
// override (right-division via the inverse, ) need.
func invertMatrix(m object.Machine, a *Array) (*Array, *object.Error) {
	buf, n, serr := squareFloats(m, a)
	if serr != nil {
		return nil, serr
	}
	aug := make([]float64, n*n)
	for r := 0; r < n; r++ {
		aug[r*n+r] = 1
	}
	if _, ok := gaussJordan(buf, n, aug, n); !ok {
		return nil, m.Raise(object.ErrBadArgValue, "matrix is singular")
	}
	data := make([]object.Value, n*n)
	for i, f := range aug {
		data[i] = decOf(f)
	}
	return &Array{Dims: []int{n, n}, Data: data}, nil
}

// matMul computes the true matrix product (row-by-column dot products,
// ), as opposed to array.go's elementwise pairwise scalar combination.
func matMul(m object.Machine, a, b *Array) (*Array, *object.Error) {
	if !a.IsMatrix() || !b.IsMatrix() || a.Dims[1] != b.Dims[0] {
		return nil, m.Raise(object.ErrDimension, "matrix dimensions do not match for *")
	}
	rows, inner, cols := a.Dims[0], a.Dims[1], b.Dims[1]
	fa, ok1 := toFloats(a)
	fb, ok2 := toFloats(b)
	if !ok1 || !ok2 {
		return nil, m.Raise(object.ErrBadArgType, "matrix elements must be numeric")
	}
	data := make([]object.Value, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			sum := 0.0
			for k := 0; k < inner; k++ {
				sum += fa[r*inner+k] * fb[k*cols+c]
			}
			data[r*cols+c] = decOf(sum)
		}
	}
	return &Array{Dims: []int{rows, cols}, Data: data}, nil
}

// scaleArray multiplies or divides every element of a by a scalar,
// the matrix-times-scalar case of the "*"/"/" overrides below.
func scaleArray(m object.Machine, a *Array, scalar object.Value, divide bool) (*Array, *object.Error) {
	out := make([]object.Value, len(a.Data))
	for i, v := range a.Data {
		var oerr *object.Error
		if divide {
			oerr = object.DivNumeric(m, v, scalar)
		} else {
			oerr = object.MulNumeric(m, v, scalar)
		}
		if oerr != nil {
			return nil, oerr
		}
		r, perr := m.Pop()
		if perr != nil {
			return nil, perr
		}
		out[i] = r
	}
	return &Array{Dims: a.Dims, Data: out}, nil
}

func init() {
	// INV: Gauss-Jordan elimination against an augmented identity,
	// matrix-inverse operation.
	object.RegisterCommand("INV", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		a, ok := v.(*Array)
		if !ok {
			return m.Raise(object.ErrBadArgType, "INV expects a matrix")
		}
		r, ierr := invertMatrix(m, a)
		if ierr != nil {
			return ierr
		}
		m.Push(r)
		return nil
	})

	// Override "*" so that matrix multiplication (true row-by-column
	// product) and matrix-times-scalar scaling compose with the numeric
	// multiplication object/arith.go already registered, the same
	// container-overrides-then-falls-back pattern text.go's "+" uses for
	// concatenation.
	object.RegisterCommand("*", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		aa, aok := a.(*Array)
		ba, bok := b.(*Array)
		switch {
		case aok && bok:
			if aa.IsMatrix() && ba.IsMatrix() && aa.Dims[1] == ba.Dims[0] {
				r, merr := matMul(m, aa, ba)
				if merr != nil {
					return merr
				}
				m.Push(r)
				return nil
			}
			r, eerr := elementwise(m, aa, ba, object.MulNumeric)
			if eerr != nil {
				return eerr
			}
			m.Push(r)
			return nil
		case aok:
			r, serr := scaleArray(m, aa, b, false)
			if serr != nil {
				return serr
			}
			m.Push(r)
			return nil
		case bok:
			r, serr := scaleArray(m, ba, a, false)
			if serr != nil {
				return serr
			}
			m.Push(r)
			return nil
		default:
			return object.MulNumeric(m, a, b)
		}
	})

	// Override "/" the same way: matrix right-division by another
	// matrix multiplies by its inverse (, "right-division via
	// inverse"), matrix-by-scalar divides elementwise, and the plain
	// numeric case falls back to object.DivNumeric.
	object.RegisterCommand("/", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		a, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		aa, aok := a.(*Array)
		ba, bok := b.(*Array)
		switch {
		case aok && bok:
			if !aa.IsMatrix() || !ba.IsMatrix() {
				return m.Raise(object.ErrBadArgType, "/ on two arrays expects two matrices")
			}
			inv, ierr := invertMatrix(m, ba)
			if ierr != nil {
				return ierr
			}
			r, merr := matMul(m, aa, inv)
			if merr != nil {
				return merr
			}
			m.Push(r)
			return nil
		case aok:
			r, serr := scaleArray(m, aa, b, true)
			if serr != nil {
				return serr
			}
			m.Push(r)
			return nil
		case bok:
			return m.Raise(object.ErrBadArgType, "/ does not support a scalar divided by a matrix; use INV")
		default:
			return object.DivNumeric(m, a, b)
		}
	})

	// DET: the running pivot product from Gauss-Jordan elimination
	//.
	object.RegisterCommand("DET", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		a, ok := v.(*Array)
		if !ok {
			return m.Raise(object.ErrBadArgType, "DET expects a matrix")
		}
		buf, n, serr := squareFloats(m, a)
		if serr != nil {
			return serr
		}
		det, ok := gaussJordan(buf, n, nil, 0)
		if !ok {
			det = 0
		}
		m.Push(decOf(det))
		return nil
	})

	// NORM: the Frobenius norm for a matrix, Euclidean for a vector
	//.
	object.RegisterCommand("NORM", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		a, ok := v.(*Array)
		if !ok {
			return m.Raise(object.ErrBadArgType, "NORM expects an array")
		}
		data, ok := toFloats(a)
		if !ok {
			return m.Raise(object.ErrBadArgType, "array elements must be numeric")
		}
		sum := 0.0
		for _, f := range data {
			sum += f * f
		}
		m.Push(decOf(math.Sqrt(sum)))
		return nil
	})

	// Dot product of two vectors.
	object.RegisterCommand("DOT", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		av, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		a, ok1 := av.(*Array)
		bv, ok2 := b.(*Array)
		if !ok1 || !ok2 || !a.IsVector() || !bv.IsVector() || len(a.Data) != len(bv.Data) {
			return m.Raise(object.ErrDimension, "DOT expects two vectors of equal length")
		}
		fa, ok := toFloats(a)
		fb, ok2 := toFloats(bv)
		if !ok || !ok2 {
			return m.Raise(object.ErrBadArgType, "vector elements must be numeric")
		}
		sum := 0.0
		for i := range fa {
			sum += fa[i] * fb[i]
		}
		m.Push(decOf(sum))
		return nil
	})

	// Cross product of two 3-vectors.
	object.RegisterCommand("CROSS", func(m object.Machine) *object.Error {
		b, err := m.Pop()
		if err != nil {
			return err
		}
		av, err := m.Pop()
		if err != nil {
			m.Push(b)
			return err
		}
		a, ok1 := av.(*Array)
		bv, ok2 := b.(*Array)
		if !ok1 || !ok2 || !a.IsVector() || !bv.IsVector() || len(a.Data) != 3 || len(bv.Data) != 3 {
			return m.Raise(object.ErrDimension, "CROSS expects two 3-vectors")
		}
		fa, ok := toFloats(a)
		fb, ok2 := toFloats(bv)
		if !ok || !ok2 {
			return m.Raise(object.ErrBadArgType, "vector elements must be numeric")
		}
		r := []float64{
			fa[1]*fb[2] - fa[2]*fb[1],
			fa[2]*fb[0] - fa[0]*fb[2],
			fa[0]*fb[1] - fa[1]*fb[0],
		}
		m.Push(NewVector([]object.Value{decOf(r[0]), decOf(r[1]), decOf(r[2])}))
		return nil
	})

	// CTRN conjugate-transposes a matrix of complex entries,
	// or plain-transposes a real one.
	object.RegisterCommand("CTRN", func(m object.Machine) *object.Error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		a, ok := v.(*Array)
		if !ok || !a.IsMatrix() {
			return m.Raise(object.ErrBadArgType, "CTRN expects a matrix")
		}
		rows, cols := a.Dims[0], a.Dims[1]
		data := make([]object.Value, rows*cols)
		conjID, hasConj := object.LookupCommand("CONJ")
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				elt := a.Data[r*cols+c]
				if hasConj {
					m.Push(elt)
					if err := (&object.Command{ID: conjID}).Evaluate(m); err != nil {
						return err
					}
					elt, err = m.Pop()
					if err != nil {
						return err
					}
				}
				data[c*rows+r] = elt
			}
		}
		m.Push(&Array{Dims: []int{cols, rows}, Data: data})
		return nil
	})

	// RANM builds a matrix of pseudo-random integers in [0,9],
	// sharing the algebra package's seedable generator via the same
	// math/rand source RDZ reseeds (see internal/algebra/numeric.go).
	object.RegisterCommand("RANM", func(m object.Machine) *object.Error {
		dimv, err := m.Pop()
		if err != nil {
			return err
		}
		dims, derr := dimsOf(m, dimv)
		if derr != nil {
			return derr
		}
		n := 1
		for _, d := range dims {
			n *= d
		}
		data := make([]object.Value, n)
		for i := range data {
			data[i] = integerOf(rand.Intn(10))
		}
		m.Push(&Array{Dims: dims, Data: data})
		return nil
	})

	// COL+ appends a column to a matrix, the column counterpart of
	// ROW+ above.
	object.RegisterCommand("COL+", func(m object.Machine) *object.Error {
		col, err := m.Pop()
		if err != nil {
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(col)
			return err
		}
		a, ok := v.(*Array)
		cl, cok := col.(*List)
		if !ok || !a.IsMatrix() || !cok || len(cl.Items) != a.Dims[0] {
			return m.Raise(object.ErrBadArgType, "COL+ expects a matrix and a matching column list")
		}
		rows, cols := a.Dims[0], a.Dims[1]
		data := make([]object.Value, rows*(cols+1))
		for r := 0; r < rows; r++ {
			copy(data[r*(cols+1):r*(cols+1)+cols], a.Data[r*cols:(r+1)*cols])
			data[r*(cols+1)+cols] = cl.Items[r]
		}
		m.Push(&Array{Dims: []int{rows, cols + 1}, Data: data})
		return nil
	})

	// Extract pulls a subrange out of a vector: start end Extract.
	object.RegisterCommand("Extract", func(m object.Machine) *object.Error {
		endv, err := m.Pop()
		if err != nil {
			return err
		}
		startv, err := m.Pop()
		if err != nil {
			m.Push(endv)
			return err
		}
		v, err := m.Pop()
		if err != nil {
			m.Push(startv)
			m.Push(endv)
			return err
		}
		a, ok := v.(*Array)
		if !ok || !a.IsVector() {
			return m.Raise(object.ErrBadArgType, "Extract expects a vector")
		}
		start, serr := intArg(m, startv)
		if serr != nil {
			return serr
		}
		end, eerr := intArg(m, endv)
		if eerr != nil {
			return eerr
		}
		if start < 1 || end > len(a.Data) || start > end {
			return m.Raise(object.ErrIndexOutOfRange, "Extract range out of bounds")
		}
		m.Push(NewVector(append([]object.Value{}, a.Data[start-1:end]...)))
		return nil
	})

	// →V2/→V3 assemble a vector from 2 or 3 stack-level scalars.
	object.RegisterCommand("→V2", func(m object.Machine) *object.Error { return toVector(m, 2) })
	object.RegisterCommand("→V3", func(m object.Machine) *object.Error { return toVector(m, 3) })

	// →CYLIN/CYLIN→/→SPHERE/SPHERE→ convert a 3-vector between
	// rectangular and cylindrical or spherical coordinates. Only
	// 3-vectors are accepted; a 2-vector is rejected.
	object.RegisterCommand("→CYLIN", func(m object.Machine) *object.Error {
		return vectorConvert(m, func(c []float64) []float64 {
			r := math.Hypot(c[0], c[1])
			theta := math.Atan2(c[1], c[0])
			return []float64{r, theta, c[2]}
		}, 3)
	})
	object.RegisterCommand("CYLIN→", func(m object.Machine) *object.Error {
		return vectorConvert(m, func(c []float64) []float64 {
			return []float64{c[0] * math.Cos(c[1]), c[0] * math.Sin(c[1]), c[2]}
		}, 3)
	})
	object.RegisterCommand("→SPHERE", func(m object.Machine) *object.Error {
		return vectorConvert(m, func(c []float64) []float64 {
			rho := math.Sqrt(c[0]*c[0] + c[1]*c[1] + c[2]*c[2])
			theta := math.Atan2(c[1], c[0])
			phi := 0.0
			if rho != 0 {
				phi = math.Acos(c[2] / rho)
			}
			return []float64{rho, theta, phi}
		}, 3)
	})
	object.RegisterCommand("SPHERE→", func(m object.Machine) *object.Error {
		return vectorConvert(m, func(c []float64) []float64 {
			return []float64{
				c[0] * math.Sin(c[2]) * math.Cos(c[1]),
				c[0] * math.Sin(c[2]) * math.Sin(c[1]),
				c[0] * math.Cos(c[2]),
			}
		}, 3)
	})
}

func toVector(m object.Machine, n int) *object.Error {
	vals := make([]object.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		vals[i] = v
	}
	m.Push(NewVector(vals))
	return nil
}

func vectorConvert(m object.Machine, f func([]float64) []float64, n int) *object.Error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	a, ok := v.(*Array)
	if !ok || !a.IsVector() || len(a.Data) != n {
		return m.Raise(object.ErrDimension, "expected a 3-vector")
	}
	fs, ok := toFloats(a)
	if !ok {
		return m.Raise(object.ErrBadArgType, "vector elements must be numeric")
	}
	out := f(fs)
	data := make([]object.Value, len(out))
	for i, v := range out {
		data[i] = decOf(v)
	}
	m.Push(NewVector(data))
	return nil
}
