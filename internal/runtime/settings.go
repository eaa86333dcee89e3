/*
 * db48x - settings store and user flag bitvector.
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

// Settings is the fixed struct of named scalar fields behind the
// display and evaluation modes, one field per named option. purge(name)
// resets a field to
// DefaultSettings(); Modes renders every field that differs from the
// default as the settings-script line that would reproduce it, reusing
// configparser's "NAME value" / bare-switch grammar in the direction
// config/configparser only reads.
package runtime

import (
	"fmt"
	"strings"

	config "github.com/dm48x/rpl/config/configparser"
	"github.com/dm48x/rpl/internal/object"
)

const (
	AngleDeg = iota
	AngleRad
	AngleGrad
	AnglePiRadians
)

const (
	FractionImproper = iota
	FractionMixed
	FractionSmall
	FractionBig
)

const (
	NotationStd = iota
	NotationFixed
	NotationSci
	NotationEng
)

// Settings holds every named option enumerates that has display or
// evaluation effect. Fields not yet consulted anywhere still have a
// correct default and participate in Modes round-tripping.
type Settings struct {
	AngleUnits              int
	SetAngleUnits           bool
	Precision               int
	SignificantDigits       int
	FixedDisplay            int // -1 = not fixed
	Notation                int
	FractionDisplay         int
	MantissaSpacing         int
	FractionSpacing         int
	BasedSpacing            int
	Separator               rune
	DecimalRadix            rune
	Base                    int
	WordSize                int
	CompatibleBasedNumbers  bool
	AutoSimplify            bool
	NumericalResults        bool
	NumericalConstants      bool
	InfinityValue           bool
	UnderflowError          bool
	OverflowError           bool
	MaximumDecimalExponent  int
	DebugOnError            bool
	NumberedVariables       bool
	HardFP                  bool
	SingleLineResult        bool
	HorizontalVectors       bool
	HorizontalLists         bool
	GraphicStackDisplay     bool
	PlotAxes                bool
	CurveFilling            bool
	FancyExponent           bool
	TrailingDecimal         bool
	PushEvaluatedAssignment bool
	ExplicitWildcards       bool
	FinalAlgebraResults     bool
	IntegrationImprecision  int
	IntegrationIterations   int
	TruthLogicForIntegers   bool
	ZeroPowerZeroIsOne      bool
	UnitsSIPrefixCycle      string
}

// DefaultSettings holds the documented default for every field; purge
// restores individual fields from here.
func DefaultSettings() Settings {
	return Settings{
		AngleUnits:             AngleDeg,
		Precision:              24,
		FixedDisplay:           -1,
		Notation:               NotationStd,
		FractionDisplay:        FractionImproper,
		Separator:              ' ',
		DecimalRadix:           '.',
		Base:                   10,
		WordSize:               64,
		AutoSimplify:           true,
		NumericalResults:       true,
		NumericalConstants:     true,
		MaximumDecimalExponent: 5_000_000,
		HardFP:                 false,
		TrailingDecimal:        true,
		IntegrationIterations:  100,
		ZeroPowerZeroIsOne:     true,
		UnitsSIPrefixCycle:     "munp",
	}
}

// RenderOpts projects Settings onto the shape object.Render implementations
// consume, keeping object free of any dependency on this package.
func (s *Settings) RenderOpts() object.RenderOpts {
	return object.RenderOpts{
		Base:              s.Base,
		Precision:         s.Precision,
		SignificantDigits: s.SignificantDigits,
		FixedDigits:       s.FixedDisplay,
		Notation:          s.Notation,
		FractionMode:      s.FractionDisplay,
		MantissaSpacing:   s.MantissaSpacing,
		FractionSpacing:   s.FractionSpacing,
		BasedSpacing:      s.BasedSpacing,
		Separator:         s.Separator,
		DecimalRadix:      s.DecimalRadix,
		AngleUnit:         s.AngleUnits,
		FancyExponent:     s.FancyExponent,
		TrailingDecimal:   s.TrailingDecimal,
		CompatibleBased:   s.CompatibleBasedNumbers,
		SingleLine:        s.SingleLineResult,
		HorizontalVectors: s.HorizontalVectors,
		HorizontalLists:   s.HorizontalLists,
	}
}

// Flags is the signed-index flag bit-vector: positive indices are
// user flags, negative ones are system flags mirroring a named setting
// (e.g. -22 is InfinityValue). A map keeps this sparse since indices run
// into the hundreds for system flags but user scripts rarely set more
// than a handful.
type Flags struct {
	bits map[int]bool
}

func newFlags() *Flags { return &Flags{bits: map[int]bool{}} }

func (f *Flags) Set(n int)         { f.bits[n] = true }
func (f *Flags) Clear(n int)       { delete(f.bits, n) }
func (f *Flags) IsSet(n int) bool  { return f.bits[n] }
func (f *Flags) Toggle(n int) bool { v := !f.bits[n]; f.bits[n] = v; return v }

// Negative system-flag indices. syncFlag maps the first five to the
// Settings field each mirrors.
const (
	FlagNumericalResults   = -3
	FlagNumericalConstants = -2
	FlagUnderflowError     = -20
	FlagOverflowError      = -21
	FlagInfinityValue      = -22

	// Report-only indicators: set when the matching condition was
	// last seen, cleared by the user, never consulted by arithmetic.
	FlagNegativeUnderflowSeen = -23
	FlagPositiveUnderflowSeen = -24
	FlagInfiniteResultSeen    = -25
	FlagOverflowSeen          = -26
)

func (s *Settings) syncFlag(f *Flags, n int) {
	switch n {
	case FlagNumericalResults:
		s.NumericalResults = f.IsSet(n)
	case FlagNumericalConstants:
		s.NumericalConstants = f.IsSet(n)
	case FlagUnderflowError:
		s.UnderflowError = f.IsSet(n)
	case FlagOverflowError:
		s.OverflowError = f.IsSet(n)
	case FlagInfinityValue:
		s.InfinityValue = f.IsSet(n)
	}
}

// Modes renders a settings script reproducing every field that differs
// from DefaultSettings(), one NAME per line, in configparser's grammar.
func (s *Settings) Modes() string {
	def := DefaultSettings()
	var b strings.Builder
	line := func(format string, a ...any) { fmt.Fprintf(&b, format+"\n", a...) }

	if s.AngleUnits != def.AngleUnits {
		line("AngleUnits %d", s.AngleUnits)
	}
	if s.Precision != def.Precision {
		line("Precision %d", s.Precision)
	}
	if s.SignificantDigits != def.SignificantDigits {
		line("SignificantDigits %d", s.SignificantDigits)
	}
	if s.FixedDisplay != def.FixedDisplay {
		line("FixedDisplay %d", s.FixedDisplay)
	}
	if s.Base != def.Base {
		line("Base %d", s.Base)
	}
	if s.WordSize != def.WordSize {
		line("WordSize %d", s.WordSize)
	}
	if !s.AutoSimplify {
		line("NoAutoSimplify")
	}
	if s.DebugOnError {
		line("DebugOnError")
	}
	if s.HardFP != def.HardFP {
		line("HardFP")
	}
	return b.String()
}

// registerSettingsScript wires every Settings field that configparser's
// loader can drive into its registry, so both a `--script` startup file
// and a previously captured Modes() output round-trip through the same
// grammar. Called once per Runtime since each owns its own Settings.
func (s *Settings) registerSettingsScript() {
	config.RegisterOption("Precision", func(v string) error {
		n, err := atoiStrict(v)
		if err != nil {
			return err
		}
		s.Precision = n
		return nil
	})
	config.RegisterOption("Base", func(v string) error {
		n, err := atoiStrict(v)
		if err != nil {
			return err
		}
		s.Base = n
		return nil
	})
	config.RegisterOption("WordSize", func(v string) error {
		n, err := atoiStrict(v)
		if err != nil {
			return err
		}
		s.WordSize = n
		return nil
	})
	for name, field := range map[string]*int{
		"AngleUnits":        &s.AngleUnits,
		"SignificantDigits": &s.SignificantDigits,
		"FixedDisplay":      &s.FixedDisplay,
	} {
		field := field
		config.RegisterOption(name, func(v string) error {
			n, err := atoiStrict(v)
			if err != nil {
				return err
			}
			*field = n
			return nil
		})
	}
	config.RegisterSwitch("HardFP", func() error { s.HardFP = true; return nil })
	config.RegisterSwitch("AutoSimplify", func() error { s.AutoSimplify = true; return nil })
	config.RegisterSwitch("NoAutoSimplify", func() error { s.AutoSimplify = false; return nil })
	config.RegisterSwitch("DebugOnError", func() error { s.DebugOnError = true; return nil })
	config.RegisterSwitch("KillOnError", func() error { s.DebugOnError = false; return nil })
}

func atoiStrict(s string) (int, error) {
	n := 0
	neg := false
	i := 0
	if len(s) > 0 && s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
