package object

import (
	"testing"

	"github.com/coilscript/coil/op"
	"github.com/stretchr/testify/require"
)

func TestBinaryOpPromotion(t *testing.T) {
	tests := []struct {
		kw       op.Keyword
		a, b     Object
		wantType Type
	}{
		{op.Add, NewInt(2), NewInt(3), IntType},
		{op.Add, NewInt(2), NewFloat(3), FloatType},
		{op.Mul, NewFloat(2), NewFloat(3), FloatType},
		{op.Add, True, NewInt(1), IntType},
	}
	for _, tc := range tests {
		result, err := BinaryOp(tc.kw, tc.a, tc.b)
		require.NoError(t, err)
		require.Equal(t, tc.wantType, result.Type())
	}
}

func TestArithmeticScenarioOne(t *testing.T) {
	// x = 2 * 3 + 4  ->  x == 10, typeid(x) == "int"
	mul, err := BinaryOp(op.Mul, NewInt(2), NewInt(3))
	require.NoError(t, err)
	sum, err := BinaryOp(op.Add, mul, NewInt(4))
	require.NoError(t, err)
	require.Equal(t, IntType, sum.Type())
	require.Equal(t, int64(10), sum.(*Int).Value())
}

func TestStringOperatorCarveOut(t *testing.T) {
	s1, s2 := NewString("ab"), NewString("cd")
	concat, err := BinaryOp(op.Add, s1, s2)
	require.NoError(t, err)
	require.Equal(t, "abcd", concat.(*String).Value())

	result, err := stringOp(op.Mul, s1, s2)
	require.NoError(t, err)
	require.Same(t, Nil, result)
}

func TestCompareOpEquality(t *testing.T) {
	result, err := CompareOp(op.Eq, NewInt(5), NewInt(5))
	require.NoError(t, err)
	require.True(t, result.IsTruthy())

	result, err = CompareOp(op.Lt, NewInt(3), NewFloat(3.5))
	require.NoError(t, err)
	require.True(t, result.IsTruthy())
}

func TestUnpackCollapsesRefChain(t *testing.T) {
	var slot Object = NewInt(42)
	ref := NewRef(&slot)
	var outer Object = ref
	require.Equal(t, int64(42), Unpack(outer).(*Int).Value())
}
