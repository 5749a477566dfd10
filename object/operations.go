package object

import (
	"fmt"

	"github.com/coilscript/coil/op"
)

// promotionTable maps a pair of plain operand types to the result type
// arithmetic/comparison between them promotes to, per spec.md section 4.5.
// Bool is promoted to Int for arithmetic (true==1, false==0) the way the
// teacher's numeric tower treats booleans; CompareOp's <, <=, >, >= use
// the same 1/0 view of a Bool.
var promotionTable = map[[2]Type]Type{
	{IntType, IntType}:       IntType,
	{IntType, FloatType}:     FloatType,
	{FloatType, IntType}:     FloatType,
	{FloatType, FloatType}:   FloatType,
	{BoolType, BoolType}:     IntType,
	{BoolType, IntType}:      IntType,
	{IntType, BoolType}:      IntType,
	{BoolType, FloatType}:    FloatType,
	{FloatType, BoolType}:    FloatType,
	{StringType, StringType}: StringType,
}

// PromotedType returns the result type the promotion table assigns to a
// binary operator over the given plain operand types, and whether the pair
// is legal at all.
func PromotedType(lhs, rhs Type) (Type, bool) {
	t, ok := promotionTable[[2]Type{lhs, rhs}]
	return t, ok
}

// BinaryOp evaluates a plain-type arithmetic operator. Outside the plain
// type set the operation is illegal and returns an error; when either
// operand is a string it is handed to stringOp, where operators other
// than +/==/!= yield Nil, per spec.md section 4.5.
func BinaryOp(kw op.Keyword, a, b Object) (Object, error) {
	ua, ub := Unpack(a), Unpack(b)
	if ua.Type() == StringType || ub.Type() == StringType {
		return stringOp(kw, ua, ub)
	}
	if !ua.Type().IsPlain() || !ub.Type().IsPlain() {
		return nil, fmt.Errorf("type error: arithmetic requires plain operands (got %s, %s)", ua.Type(), ub.Type())
	}
	result, ok := PromotedType(ua.Type(), ub.Type())
	if !ok {
		return nil, fmt.Errorf("type error: no promotion for %s %s %s", ua.Type(), kw, ub.Type())
	}
	af, bf := asFloat(ua), asFloat(ub)
	var f float64
	switch kw {
	case op.Add:
		f = af + bf
	case op.Sub:
		f = af - bf
	case op.Mul:
		f = af * bf
	case op.Div:
		if bf == 0 {
			return nil, fmt.Errorf("value error: division by zero")
		}
		f = af / bf
	default:
		return nil, fmt.Errorf("eval error: not an arithmetic operator: %s", kw)
	}
	if result == FloatType {
		return NewFloat(f), nil
	}
	return NewInt(int64(f)), nil
}

// stringOp implements the spec's carve-out: when either operand is a
// string, only +, ==, != are legal; other operators yield Nil (not an
// error) per spec.md section 4.5 and the boundary case in section 8.
func stringOp(kw op.Keyword, a, b Object) (Object, error) {
	switch kw {
	case op.Add:
		if a.Type() != StringType || b.Type() != StringType {
			return nil, fmt.Errorf("type error: string + requires two strings (got %s, %s)", a.Type(), b.Type())
		}
		return NewString(a.(*String).Value() + b.(*String).Value()), nil
	case op.Eq:
		return NewBool(a.Equals(b)), nil
	case op.Ne:
		return NewBool(!a.Equals(b)), nil
	default:
		return Nil, nil
	}
}

// CompareOp evaluates a comparison operator. == and != always fall back to
// Equals; for plain types outside the string carve-out the other operators
// compare numerically; for non-plain types they fall back to the type's
// registered comparator (wired in by registry, not here — see
// runtime.Dispatcher.execKeyword).
func CompareOp(kw op.Keyword, a, b Object) (Object, error) {
	ua, ub := Unpack(a), Unpack(b)
	switch kw {
	case op.Eq:
		return NewBool(ua.Equals(ub)), nil
	case op.Ne:
		return NewBool(!ua.Equals(ub)), nil
	}
	if !ua.Type().IsPlain() || !ub.Type().IsPlain() || ua.Type() == StringType || ub.Type() == StringType {
		return nil, fmt.Errorf("type error: %s requires plain numeric operands (got %s, %s)", kw, ua.Type(), ub.Type())
	}
	af, bf := asFloat(ua), asFloat(ub)
	switch kw {
	case op.Lt:
		return NewBool(af < bf), nil
	case op.Le:
		return NewBool(af <= bf), nil
	case op.Gt:
		return NewBool(af > bf), nil
	case op.Ge:
		return NewBool(af >= bf), nil
	default:
		return nil, fmt.Errorf("eval error: not a comparison operator: %s", kw)
	}
}

func asFloat(o Object) float64 {
	switch v := o.(type) {
	case *Int:
		return float64(v.Value())
	case *Float:
		return v.Value()
	case *Bool:
		if v.Value() {
			return 1
		}
		return 0
	default:
		return 0
	}
}
