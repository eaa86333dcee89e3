package numeric

import "testing"

func TestFractionReducesToLowestTerms(t *testing.T) {
	f := NewFraction(FromInt64(6), FromInt64(8))
	if f.Num.String() != "3" || f.Den.String() != "4" {
		t.Errorf("6/8 reduced to %s/%s, want 3/4", f.Num.String(), f.Den.String())
	}
}

func TestFractionNegativeDenominatorNormalized(t *testing.T) {
	f := NewFraction(FromInt64(1), FromInt64(-2))
	if f.Num.String() != "-1" || f.Den.String() != "2" {
		t.Errorf("got %s/%s, want -1/2", f.Num.String(), f.Den.String())
	}
}

func TestAddFrac(t *testing.T) {
	a := NewFraction(FromInt64(1), FromInt64(2))
	b := NewFraction(FromInt64(1), FromInt64(3))
	got := AddFrac(a, b)
	if got.String() != "5/6" {
		t.Errorf("1/2+1/3 = %s, want 5/6", got.String())
	}
}

func TestIsInteger(t *testing.T) {
	f := NewFraction(FromInt64(4), FromInt64(2))
	if !f.IsInteger() {
		t.Errorf("4/2 should reduce to an integer")
	}
}
