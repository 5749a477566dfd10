package op

import "testing"

func TestKeywordString(t *testing.T) {
	cases := []struct {
		k    Keyword
		want string
	}{
		{Add, "+"},
		{Le, "<="},
		{If, "if"},
		{Fn, "fn"},
		{Invalid, "invalid"},
	}
	for _, tc := range cases {
		if got := tc.k.String(); got != tc.want {
			t.Errorf("Keyword(%d).String() = %q, want %q", tc.k, got, tc.want)
		}
	}
}

func TestIsArithmeticAndComparison(t *testing.T) {
	if !Add.IsArithmetic() || Eq.IsArithmetic() {
		t.Fatalf("IsArithmetic classification wrong")
	}
	if !Eq.IsComparison() || Add.IsComparison() {
		t.Fatalf("IsComparison classification wrong")
	}
}
