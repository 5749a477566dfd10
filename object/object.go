// Package object provides coil's runtime value model: the Object interface,
// the built-in scalar and container types, and the machinery (Ref)
// the call protocol and type-traits registry build on.
package object

// Type names the runtime type of an Object. Arithmetic, comparison, and
// case-matching accept only the "plain" types: int, float, bool, string.
type Type string

const (
	IntType      Type = "int"
	FloatType    Type = "float"
	BoolType     Type = "bool"
	StringType   Type = "string"
	ArrayType    Type = "array"
	NilType      Type = "nil"
	FunctionType Type = "function"
	RefType      Type = "ref"
)

// IsPlain reports whether t is one of the four plain types accepted by
// arithmetic, comparison, and case matching (spec.md section 4.5, GLOSSARY).
func (t Type) IsPlain() bool {
	switch t {
	case IntType, FloatType, BoolType, StringType:
		return true
	default:
		return false
	}
}

// Object is the runtime value every coil type implements. It intentionally
// has no Copy method: copying is type-trait driven (registry.TypeTraits.Deliver),
// not a property of the value itself, so "shallow delivery" (share, never
// copy) is expressible for reference types like Array without every value
// needing to know how to clone itself.
type Object interface {
	// Type names the object's runtime type.
	Type() Type

	// Inspect renders a debug/REPL-facing representation.
	Inspect() string

	// Interface converts the object to a native Go value, for embedding
	// callers that don't want to import this package's concrete types.
	Interface() interface{}

	// Equals reports structural equality. Used as the default comparator
	// when a type registers no explicit one.
	Equals(other Object) bool

	// IsTruthy reports whether the object is considered true in a boolean
	// context (conditions, && / || / ! operands).
	IsTruthy() bool
}

// Unpack collapses a Ref alias chain, returning the first non-ref object.
// A non-ref object unpacks to itself. See spec.md section 3 ("Object").
func Unpack(obj Object) Object {
	for {
		ref, ok := obj.(*Ref)
		if !ok {
			return obj
		}
		obj = ref.Target()
	}
}

// base provides the common, rarely-overridden parts of the Object
// interface so concrete types only implement what differs.
type base struct{}

func (base) IsTruthy() bool { return true }
