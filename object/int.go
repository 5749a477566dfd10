package object

import "strconv"

// Int is the integer scalar type.
type Int struct {
	base
	value int64
}

// NewInt creates an Int object wrapping value.
func NewInt(value int64) *Int {
	return &Int{value: value}
}

func (i *Int) Type() Type      { return IntType }
func (i *Int) Value() int64    { return i.value }
func (i *Int) Inspect() string { return strconv.FormatInt(i.value, 10) }
func (i *Int) Interface() any  { return i.value }
func (i *Int) IsTruthy() bool  { return i.value != 0 }
func (i *Int) Equals(o Object) bool {
	other, ok := Unpack(o).(*Int)
	return ok && other.value == i.value
}

// Float is the floating-point scalar type.
type Float struct {
	base
	value float64
}

// NewFloat creates a Float object wrapping value.
func NewFloat(value float64) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type      { return FloatType }
func (f *Float) Value() float64  { return f.value }
func (f *Float) Inspect() string { return strconv.FormatFloat(f.value, 'g', -1, 64) }
func (f *Float) Interface() any  { return f.value }
func (f *Float) IsTruthy() bool  { return f.value != 0 }
func (f *Float) Equals(o Object) bool {
	other, ok := Unpack(o).(*Float)
	return ok && other.value == f.value
}
