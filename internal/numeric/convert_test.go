package numeric

import "testing"

func TestFractionFromFloat64(t *testing.T) {
	cases := []struct {
		x    float64
		want string
	}{
		{0.5, "1/2"},
		{0.25, "1/4"},
		{1.0 / 3.0, "1/3"},
		{-0.75, "-3/4"},
		{2, "2"},
	}
	for _, c := range cases {
		f, ok := FractionFromFloat64(c.x, 1e-9)
		if !ok {
			t.Fatalf("no fraction for %v", c.x)
		}
		if got := f.String(); got != c.want {
			t.Errorf("FractionFromFloat64(%v) = %s, want %s", c.x, got, c.want)
		}
	}
}

func TestFractionFromFloat64RejectsNonFinite(t *testing.T) {
	inf := 1.0
	for i := 0; i < 2000; i++ {
		inf *= 2
	}
	if _, ok := FractionFromFloat64(inf, 1e-9); ok {
		t.Fatal("infinity should not convert")
	}
}

func TestNormalizeStripsTrailingZeros(t *testing.T) {
	a, _ := ParseDecimal("1")
	b, _ := ParseDecimal("2")
	q := DivDec(a, b)
	if q.String() != "0.5" {
		t.Fatalf("1/2 = %s", q.String())
	}
}

func TestMagnitudeExp(t *testing.T) {
	d, _ := ParseDecimal("1E499")
	if d.MagnitudeExp() != 499 {
		t.Fatalf("magnitude exp of 1E499 = %d", d.MagnitudeExp())
	}
	d, _ = ParseDecimal("123.4")
	if d.MagnitudeExp() != 2 {
		t.Fatalf("magnitude exp of 123.4 = %d", d.MagnitudeExp())
	}
}

func TestMaxDecimalSitsAtCap(t *testing.T) {
	d := MaxDecimal(499, false)
	if d.MagnitudeExp() != 499 {
		t.Fatalf("MaxDecimal magnitude = %d", d.MagnitudeExp())
	}
	if d.Mantissa.Neg {
		t.Fatal("positive cap should not be negative")
	}
}
