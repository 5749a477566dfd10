package object

import "strconv"

// String is the string scalar type. Immutable: like Int/Float/Bool its
// "delivery" is always a cheap copy of the header, never a deep clone.
type String struct {
	base
	value string
}

// NewString creates a String object wrapping value.
func NewString(value string) *String {
	return &String{value: value}
}

func (s *String) Type() Type      { return StringType }
func (s *String) Value() string   { return s.value }
func (s *String) Inspect() string { return strconv.Quote(s.value) }
func (s *String) Interface() any  { return s.value }
func (s *String) IsTruthy() bool  { return s.value != "" }
func (s *String) Equals(o Object) bool {
	other, ok := Unpack(o).(*String)
	return ok && other.value == s.value
}
