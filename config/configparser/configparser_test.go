/*
 * db48x - Settings script parser tests.
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

package configparser

import (
	"strings"
	"testing"
)

func TestLoadSwitchAndOption(t *testing.T) {
	var gotSwitch bool
	var gotValue string

	RegisterSwitch("TESTSWITCH", func() error { gotSwitch = true; return nil })
	RegisterOption("TESTOPT", func(v string) error { gotValue = v; return nil })

	src := "# a comment\nTESTSWITCH\nTESTOPT 24 # trailing comment\n\n"
	if err := Load(strings.NewReader(src)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !gotSwitch {
		t.Errorf("switch handler not invoked")
	}
	if gotValue != "24" {
		t.Errorf("option value = %q, want 24", gotValue)
	}
}

func TestLoadEqualsForm(t *testing.T) {
	var gotValue string
	RegisterOption("TESTEQ", func(v string) error { gotValue = v; return nil })

	if err := Load(strings.NewReader("TESTEQ=16\n")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if gotValue != "16" {
		t.Errorf("option value = %q, want 16", gotValue)
	}
}

func TestLoadUnknownNameErrors(t *testing.T) {
	if err := Load(strings.NewReader("NOSUCHSETTING\n")); err == nil {
		t.Fatalf("expected error for unknown setting name")
	}
}

func TestLoadSwitchRejectsValue(t *testing.T) {
	RegisterSwitch("NOVALUE", func() error { return nil })
	if err := Load(strings.NewReader("NOVALUE 1\n")); err == nil {
		t.Fatalf("expected error: switch given a value")
	}
}
