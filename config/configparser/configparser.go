/*
 * db48x - Settings script parser.
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

// Package configparser loads a startup settings script: one NAME per
// line, optionally followed by a value, '#' starts a trailing comment.
// This is settings surface and the `Modes` command's
// round trip (render non-default settings as a script, re-parse it
// later) given a concrete file grammar. The register-a-callback shape —
// RegisterSwitch for a bare name, RegisterOption for "name value" —
// keeps the grammar open: packages declare the names they understand
// and the loader stays generic. The line scanner below is a hand-rolled
// iterative character walk over a deliberately small grammar, since
// there is no address or comma-option list
// to parse here.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Kind distinguishes a bare switch ("AutoSimplify") from an option that
// takes a value ("Precision 24").
const (
	KindSwitch = 1 + iota
	KindOption
)

type entry struct {
	kind int
	fn   func(value string) error
}

var registry = map[string]entry{}

var lineNumber int

// RegisterSwitch installs a handler for a bare setting name with no
// trailing value, such as a named flag toggle.
func RegisterSwitch(name string, fn func() error) {
	registry[strings.ToUpper(name)] = entry{kind: KindSwitch, fn: func(string) error { return fn() }}
}

// RegisterOption installs a handler for "NAME value" / "NAME=value"
// lines, such as `Precision 24` or `Base 16`.
func RegisterOption(name string, fn func(value string) error) {
	registry[strings.ToUpper(name)] = entry{kind: KindOption, fn: fn}
}

// LoadFile reads name line by line and dispatches each non-comment,
// non-blank line through the registry. It is used both for a
// `--script` startup file and to re-ingest the text `Modes` produces.
func LoadFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return Load(file)
}

// Load reads settings lines from r, the same grammar LoadFile uses but
// without requiring a named file (used to re-parse an in-memory Modes
// script).
func Load(r io.Reader) error {
	lineNumber = 0
	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		lineNumber++
		if len(text) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if perr := parseLine(text); perr != nil {
			return perr
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func parseLine(raw string) error {
	line := stripComment(raw)
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	name, rest := splitName(line)
	if name == "" {
		return fmt.Errorf("configparser: invalid line %d: %q", lineNumber, raw)
	}
	ent, ok := registry[strings.ToUpper(name)]
	if !ok {
		return fmt.Errorf("configparser: unknown setting %q at line %d", name, lineNumber)
	}

	rest = strings.TrimSpace(strings.TrimPrefix(rest, "="))
	switch ent.kind {
	case KindSwitch:
		if rest != "" {
			return fmt.Errorf("configparser: %q takes no value, line %d", name, lineNumber)
		}
	case KindOption:
		if rest == "" {
			return fmt.Errorf("configparser: %q requires a value, line %d", name, lineNumber)
		}
	}
	return ent.fn(rest)
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

// splitName scans a leading identifier (letters/digits/underscore),
// returning it and whatever follows (which may start with whitespace or
// '=').
func splitName(s string) (name, rest string) {
	i := 0
	for i < len(s) {
		c := rune(s[i])
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}
