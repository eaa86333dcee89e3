/*
 * db48x - settings as first-class commands.
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

package runtime

import "github.com/dm48x/rpl/internal/object"

// Every named setting of is a first-class command (`12 Precision`
// sets, `'Precision' RCL` recalls, `'Precision' PURGE` resets). The
// value-taking commands pop one integer; the mode switches take no
// argument. MODES emits postfix `value Name` pairs so its program
// replays through these same commands.

func registerIntSetting(name string, set func(s *Settings, n int)) {
	object.RegisterCommand(name, func(m object.Machine) *object.Error {
		nv, err := m.Pop()
		if err != nil {
			return err
		}
		idx, ok := nv.(*object.Integer)
		if !ok {
			m.Push(nv)
			return m.Raise(object.ErrBadArgType, "%s expects an integer", name)
		}
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		set(dm.settingsOf(), int(idx.V.ToInt64()))
		return nil
	})
}

func registerSwitchSetting(name string, set func(s *Settings)) {
	object.RegisterCommand(name, func(m object.Machine) *object.Error {
		dm, derr := asDirMachine(m)
		if derr != nil {
			return derr
		}
		set(dm.settingsOf())
		return nil
	})
}

func init() {
	registerIntSetting("Precision", func(s *Settings, n int) { s.Precision = n })
	registerIntSetting("SignificantDigits", func(s *Settings, n int) { s.SignificantDigits = n })
	registerIntSetting("Sig", func(s *Settings, n int) { s.SignificantDigits = n })
	registerIntSetting("FixedDisplay", func(s *Settings, n int) {
		s.FixedDisplay = n
		s.Notation = NotationFixed
	})
	registerIntSetting("Fix", func(s *Settings, n int) {
		s.FixedDisplay = n
		s.Notation = NotationFixed
	})
	registerIntSetting("Sci", func(s *Settings, n int) {
		s.SignificantDigits = n
		s.Notation = NotationSci
	})
	registerIntSetting("Eng", func(s *Settings, n int) {
		s.SignificantDigits = n
		s.Notation = NotationEng
	})
	registerIntSetting("Base", func(s *Settings, n int) { s.Base = n })
	registerIntSetting("WordSize", func(s *Settings, n int) { s.WordSize = n })
	registerIntSetting("AngleUnits", func(s *Settings, n int) { s.AngleUnits = n })
	registerIntSetting("MantissaSpacing", func(s *Settings, n int) { s.MantissaSpacing = n })
	registerIntSetting("FractionSpacing", func(s *Settings, n int) { s.FractionSpacing = n })
	registerIntSetting("BasedSpacing", func(s *Settings, n int) { s.BasedSpacing = n })
	registerIntSetting("MaximumDecimalExponent", func(s *Settings, n int) { s.MaximumDecimalExponent = n })
	registerIntSetting("IntegrationImprecision", func(s *Settings, n int) { s.IntegrationImprecision = n })
	registerIntSetting("IntegrationIterations", func(s *Settings, n int) { s.IntegrationIterations = n })

	registerSwitchSetting("Std", func(s *Settings) { s.Notation = NotationStd; s.FixedDisplay = -1 })
	registerSwitchSetting("Deg", func(s *Settings) { s.AngleUnits = AngleDeg })
	registerSwitchSetting("Rad", func(s *Settings) { s.AngleUnits = AngleRad })
	registerSwitchSetting("Grad", func(s *Settings) { s.AngleUnits = AngleGrad })
	registerSwitchSetting("PiRadians", func(s *Settings) { s.AngleUnits = AnglePiRadians })
	registerSwitchSetting("AutoSimplify", func(s *Settings) { s.AutoSimplify = true })
	registerSwitchSetting("NoAutoSimplify", func(s *Settings) { s.AutoSimplify = false })
	registerSwitchSetting("DebugOnError", func(s *Settings) { s.DebugOnError = true })
	registerSwitchSetting("KillOnError", func(s *Settings) { s.DebugOnError = false })
	registerSwitchSetting("HardFP", func(s *Settings) { s.HardFP = true })
	registerSwitchSetting("SoftFP", func(s *Settings) { s.HardFP = false })
	registerSwitchSetting("InfinityValue", func(s *Settings) { s.InfinityValue = true })
	registerSwitchSetting("InfinityError", func(s *Settings) { s.InfinityValue = false })
	registerSwitchSetting("OverflowError", func(s *Settings) { s.OverflowError = true })
	registerSwitchSetting("UnderflowError", func(s *Settings) { s.UnderflowError = true })
	registerSwitchSetting("NumericalResults", func(s *Settings) { s.NumericalResults = true })
	registerSwitchSetting("SymbolicResults", func(s *Settings) { s.NumericalResults = false })
	registerSwitchSetting("NumericalConstants", func(s *Settings) { s.NumericalConstants = true })
	registerSwitchSetting("SymbolicConstants", func(s *Settings) { s.NumericalConstants = false })
	registerSwitchSetting("TruthLogicForIntegers", func(s *Settings) { s.TruthLogicForIntegers = true })
	registerSwitchSetting("ZeroPowerZeroIsOne", func(s *Settings) { s.ZeroPowerZeroIsOne = true })
	registerSwitchSetting("ZeroPowerZeroIsUndefined", func(s *Settings) { s.ZeroPowerZeroIsOne = false })
	registerSwitchSetting("ImproperFractions", func(s *Settings) { s.FractionDisplay = FractionImproper })
	registerSwitchSetting("MixedFractions", func(s *Settings) { s.FractionDisplay = FractionMixed })
	registerSwitchSetting("SmallFractions", func(s *Settings) { s.FractionDisplay = FractionSmall })
	registerSwitchSetting("BigFractions", func(s *Settings) { s.FractionDisplay = FractionBig })
	registerSwitchSetting("HorizontalVectors", func(s *Settings) { s.HorizontalVectors = true })
	registerSwitchSetting("VerticalVectors", func(s *Settings) { s.HorizontalVectors = false })
	registerSwitchSetting("HorizontalLists", func(s *Settings) { s.HorizontalLists = true })
	registerSwitchSetting("VerticalLists", func(s *Settings) { s.HorizontalLists = false })
	registerSwitchSetting("SingleLineResult", func(s *Settings) { s.SingleLineResult = true })
	registerSwitchSetting("MultiLineResult", func(s *Settings) { s.SingleLineResult = false })
	registerSwitchSetting("FancyExponent", func(s *Settings) { s.FancyExponent = true })
	registerSwitchSetting("ClassicExponent", func(s *Settings) { s.FancyExponent = false })
	registerSwitchSetting("TrailingDecimal", func(s *Settings) { s.TrailingDecimal = true })
	registerSwitchSetting("NoTrailingDecimal", func(s *Settings) { s.TrailingDecimal = false })
	registerSwitchSetting("PushEvaluatedAssignment", func(s *Settings) { s.PushEvaluatedAssignment = true })
	registerSwitchSetting("ExplicitWildcards", func(s *Settings) { s.ExplicitWildcards = true })
	registerSwitchSetting("FinalAlgebraResults", func(s *Settings) { s.FinalAlgebraResults = true })
	registerSwitchSetting("StepByStepAlgebraResults", func(s *Settings) { s.FinalAlgebraResults = false })
	registerSwitchSetting("NumberedVariables", func(s *Settings) { s.NumberedVariables = true })
	registerSwitchSetting("NoNumberedVariables", func(s *Settings) { s.NumberedVariables = false })
	registerSwitchSetting("CompatibleBasedNumbers", func(s *Settings) { s.CompatibleBasedNumbers = true })
	registerSwitchSetting("ModernBasedNumbers", func(s *Settings) { s.CompatibleBasedNumbers = false })
	registerSwitchSetting("DecimalDot", func(s *Settings) { s.DecimalRadix = '.' })
	registerSwitchSetting("DecimalComma", func(s *Settings) { s.DecimalRadix = ',' })
	registerSwitchSetting("NumberSpaces", func(s *Settings) { s.Separator = ' ' })
	registerSwitchSetting("NumberDotOrComma", func(s *Settings) { s.Separator = ',' })
	registerSwitchSetting("NumberTicks", func(s *Settings) { s.Separator = '\'' })
	registerSwitchSetting("NumberUnderscore", func(s *Settings) { s.Separator = '_' })
}

// settingValue backs `'Name' RCL`, making every setting recallable as
// a variable: integer-valued settings recall their value, mode switches
// recall 1 or 0.
func settingValue(s *Settings, name string) (object.Value, bool) {
	boolVal := func(b bool) (object.Value, bool) { return boolValue(b), true }
	intv := func(n int) (object.Value, bool) {
		return &object.Integer{V: numericFromInt(n)}, true
	}
	switch name {
	case "Precision":
		return intv(s.Precision)
	case "SignificantDigits", "Sig":
		return intv(s.SignificantDigits)
	case "FixedDisplay", "Fix":
		return intv(s.FixedDisplay)
	case "Base":
		return intv(s.Base)
	case "WordSize":
		return intv(s.WordSize)
	case "AngleUnits":
		return intv(s.AngleUnits)
	case "MantissaSpacing":
		return intv(s.MantissaSpacing)
	case "FractionSpacing":
		return intv(s.FractionSpacing)
	case "BasedSpacing":
		return intv(s.BasedSpacing)
	case "MaximumDecimalExponent":
		return intv(s.MaximumDecimalExponent)
	case "IntegrationImprecision":
		return intv(s.IntegrationImprecision)
	case "IntegrationIterations":
		return intv(s.IntegrationIterations)
	case "AutoSimplify":
		return boolVal(s.AutoSimplify)
	case "DebugOnError":
		return boolVal(s.DebugOnError)
	case "HardFP":
		return boolVal(s.HardFP)
	case "InfinityValue":
		return boolVal(s.InfinityValue)
	case "OverflowError":
		return boolVal(s.OverflowError)
	case "UnderflowError":
		return boolVal(s.UnderflowError)
	case "NumericalResults":
		return boolVal(s.NumericalResults)
	case "NumericalConstants":
		return boolVal(s.NumericalConstants)
	case "TruthLogicForIntegers":
		return boolVal(s.TruthLogicForIntegers)
	case "ZeroPowerZeroIsOne":
		return boolVal(s.ZeroPowerZeroIsOne)
	case "NumberedVariables":
		return boolVal(s.NumberedVariables)
	case "TrailingDecimal":
		return boolVal(s.TrailingDecimal)
	case "PushEvaluatedAssignment":
		return boolVal(s.PushEvaluatedAssignment)
	case "ExplicitWildcards":
		return boolVal(s.ExplicitWildcards)
	}
	return nil, false
}

// purgeSetting backs `'Name' PURGE` for settings: the named field
// returns to its DefaultSettings value.
func purgeSetting(s *Settings, name string) bool {
	def := DefaultSettings()
	switch name {
	case "Precision":
		s.Precision = def.Precision
	case "SignificantDigits", "Sig":
		s.SignificantDigits = def.SignificantDigits
	case "FixedDisplay", "Fix":
		s.FixedDisplay = def.FixedDisplay
		s.Notation = def.Notation
	case "Base":
		s.Base = def.Base
	case "WordSize":
		s.WordSize = def.WordSize
	case "AngleUnits":
		s.AngleUnits = def.AngleUnits
	case "MantissaSpacing":
		s.MantissaSpacing = def.MantissaSpacing
	case "FractionSpacing":
		s.FractionSpacing = def.FractionSpacing
	case "BasedSpacing":
		s.BasedSpacing = def.BasedSpacing
	case "MaximumDecimalExponent":
		s.MaximumDecimalExponent = def.MaximumDecimalExponent
	case "IntegrationImprecision":
		s.IntegrationImprecision = def.IntegrationImprecision
	case "IntegrationIterations":
		s.IntegrationIterations = def.IntegrationIterations
	case "AutoSimplify":
		s.AutoSimplify = def.AutoSimplify
	case "DebugOnError":
		s.DebugOnError = def.DebugOnError
	case "HardFP":
		s.HardFP = def.HardFP
	case "InfinityValue":
		s.InfinityValue = def.InfinityValue
	case "OverflowError":
		s.OverflowError = def.OverflowError
	case "UnderflowError":
		s.UnderflowError = def.UnderflowError
	case "FractionDisplay":
		s.FractionDisplay = def.FractionDisplay
	case "TruthLogicForIntegers":
		s.TruthLogicForIntegers = def.TruthLogicForIntegers
	case "ZeroPowerZeroIsOne":
		s.ZeroPowerZeroIsOne = def.ZeroPowerZeroIsOne
	case "TrailingDecimal":
		s.TrailingDecimal = def.TrailingDecimal
	default:
		return false
	}
	return true
}
