package numeric

import "testing"

func TestAddBigInt(t *testing.T) {
	a, _ := ParseBigInt("999999999999999999999")
	b := FromInt64(1)
	got := Add(a, b)
	if got.String() != "1000000000000000000000" {
		t.Errorf("got %s", got.String())
	}
}

func TestSubNegativeResult(t *testing.T) {
	a := FromInt64(5)
	b := FromInt64(9)
	got := Sub(a, b)
	if got.String() != "-4" {
		t.Errorf("got %s, want -4", got.String())
	}
}

func TestMulBigInt(t *testing.T) {
	a, _ := ParseBigInt("123456789012345678")
	b, _ := ParseBigInt("987654321098765432")
	got := Mul(a, b)
	want := "121932631137021794322511812221002896"
	if got.String() != want {
		t.Errorf("got %s, want %s", got.String(), want)
	}
}

func TestQuoRem(t *testing.T) {
	a := FromInt64(17)
	b := FromInt64(5)
	q, r := QuoRem(a, b)
	if q.String() != "3" || r.String() != "2" {
		t.Errorf("17/5 = %s rem %s, want 3 rem 2", q.String(), r.String())
	}
}

func TestQuoRemNegative(t *testing.T) {
	a := FromInt64(-17)
	b := FromInt64(5)
	q, r := QuoRem(a, b)
	if q.String() != "-3" || r.String() != "-2" {
		t.Errorf("-17/5 = %s rem %s, want -3 rem -2", q.String(), r.String())
	}
}

func TestCmp(t *testing.T) {
	if Cmp(FromInt64(3), FromInt64(5)) >= 0 {
		t.Errorf("3 should be < 5")
	}
	if Cmp(FromInt64(-3), FromInt64(5)) >= 0 {
		t.Errorf("-3 should be < 5")
	}
	if Cmp(FromInt64(5), FromInt64(5)) != 0 {
		t.Errorf("5 should equal 5")
	}
}

func TestParseBigIntRejectsGarbage(t *testing.T) {
	if _, ok := ParseBigInt("12x4"); ok {
		t.Errorf("expected parse failure for garbage input")
	}
}
