package odds

import "testing"

func TestParseNormalizesMissingSign(t *testing.T) {
	v, err := Parse("5000")
	if err != nil || v != 5000 {
		t.Fatalf("expected +5000 got %v err=%v", v, err)
	}
	if v.String() != "+5000" {
		t.Fatalf("canonical form should carry explicit sign, got %s", v.String())
	}
}

func TestParseRejects(t *testing.T) {
	for _, tok := range []string{"", "0", "+0", "7", "123456", "12a4", "now"} {
		if v, err := Parse(tok); err == nil {
			t.Fatalf("expected reject for %q, got %v", tok, v)
		}
	}
}

func TestDecimalConversion(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{+100, 2.0},
		{+150, 2.5},
		{+950, 10.5},
		{-200, 1.5},
		{-150, 1.0 + 100.0/150.0},
	}
	for _, c := range cases {
		got := c.v.Decimal()
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("Decimal(%s) = %v want %v", c.v, got, c.want)
		}
	}
	// Positive quotations always pay more than even; negative still pay out.
	if (Value(+5)).Decimal() <= 1.0 {
		t.Fatal("positive odds must convert above 1.0")
	}
	if (Value(-9000)).Decimal() <= 0 {
		t.Fatal("negative odds must convert above 0")
	}
}

func TestPairValidAndSwap(t *testing.T) {
	p := Pair{Pre: 1200, Post: 900}
	if p.Valid() {
		t.Fatal("worse post odds should fail the sanity check")
	}
	if s := p.Swapped(); !s.Valid() || s.Pre != 900 || s.Post != 1200 {
		t.Fatalf("swap should recover a valid pair, got %v", s)
	}
	eq := Pair{Pre: 500, Post: 500}
	if !eq.Valid() {
		t.Fatal("equal payout is accepted")
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	c := Verify(25.0, 100, 150, 0)
	if c.CalculatedPct != 25.0 {
		t.Fatalf("+100 -> +150 implies 25%%, got %v", c.CalculatedPct)
	}
	if c.Discrepancy != 0 || c.Significant {
		t.Fatalf("matching detection should not be significant: %+v", c)
	}
}

func TestVerifySignificance(t *testing.T) {
	// +100 -> +150 implies 25%; a detected 50% is 25 points off.
	c := Verify(50.0, 100, 150, 10)
	if !c.Significant || c.Discrepancy != 25.0 {
		t.Fatalf("expected significant 25.0 discrepancy, got %+v", c)
	}
	under := Verify(30.0, 100, 150, 10)
	if under.Significant {
		t.Fatalf("5-point gap under threshold flagged: %+v", under)
	}
}
