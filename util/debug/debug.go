/*
 * db48x - Mask-gated subsystem tracing.
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

// Package debug provides Printf-style tracers gated by a per-subsystem
// bitmask, set at run time (cmd/db48x's --trace flag) rather than by
// recompilation. Each subsystem (arena, evaluator, algebra, directory
// store, settings) owns one mask bit, and trace lines carry the
// subsystem prefix so a mixed log stays readable.
package debug

import (
	"fmt"
	"io"
	"os"

	config "github.com/dm48x/rpl/config/configparser"
)

// Subsystem masks, one bit per traced area. A subsystem's messages are
// emitted only when its bit is set in the active mask.
const (
	Arena = 1 << iota
	Evaluator
	Algebra
	Directory
	Settings
)

var (
	out  io.Writer = os.Stderr
	mask int
)

// SetOutput redirects trace output, e.g. to the file named by the
// --log command line option.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	out = w
}

// SetMask replaces the active subsystem mask.
func SetMask(m int) { mask = m }

// Enabled reports whether subsystem bit m is active in the current mask.
func Enabled(m int) bool { return mask&m != 0 }

// Tracef emits a formatted trace line for subsystem m if it is enabled.
func Tracef(m int, format string, a ...interface{}) {
	if mask&m == 0 {
		return
	}
	prefix := ""
	switch m {
	case Arena:
		prefix = "[arena] "
	case Evaluator:
		prefix = "[evaluator] "
	case Algebra:
		prefix = "[algebra] "
	case Directory:
		prefix = "[directory] "
	case Settings:
		prefix = "[settings] "
	}
	fmt.Fprintf(out, prefix+format+"\n", a...)
}

func init() {
	config.RegisterOption("DebugFile", func(name string) error {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("unable to create debug file: %s", name)
		}
		SetOutput(f)
		return nil
	})
}
