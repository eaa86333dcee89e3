package numeric

import "testing"

func TestParseAndStringRoundTrip(t *testing.T) {
	cases := []string{"3.14", "-0.5", "1000", "0.001"}
	for _, c := range cases {
		d, ok := ParseDecimal(c)
		if !ok {
			t.Fatalf("failed to parse %q", c)
		}
		if got := d.String(); got != c {
			t.Errorf("ParseDecimal(%q).String() = %q", c, got)
		}
	}
}

func TestAddDec(t *testing.T) {
	a, _ := ParseDecimal("1.5")
	b, _ := ParseDecimal("2.25")
	got := AddDec(a, b)
	if got.String() != "3.75" {
		t.Errorf("got %s, want 3.75", got.String())
	}
}

func TestDivDecRepeating(t *testing.T) {
	old := Precision
	Precision = 10
	defer func() { Precision = old }()

	a, _ := ParseDecimal("1")
	b, _ := ParseDecimal("3")
	got := DivDec(a, b)
	if got.String()[:12] != "0.3333333333"[:12] {
		t.Errorf("got %s", got.String())
	}
}

func TestCmpDec(t *testing.T) {
	a, _ := ParseDecimal("1.1")
	b, _ := ParseDecimal("1.10")
	if CmpDec(a, b) != 0 {
		t.Errorf("1.1 should equal 1.10")
	}
}
