// Package natives registers every built-in type's traits and method set
// into a registry.Registry: the four plain scalar types, the array
// container, and the domain-specific traits (string hashing, array
// querying, uuid generation, TCP sockets) that round out coil's ambient
// library. Grounded on the teacher's modules/* packages, each of which
// registers its own builtins against a shared *object.Module/registry at
// startup — natives.RegisterAll plays the same role for coil's flat
// (domain, id) registry.
package natives

import (
	"github.com/coilscript/coil/natives/arraytrait"
	"github.com/coilscript/coil/natives/sockettrait"
	"github.com/coilscript/coil/natives/strtrait"
	"github.com/coilscript/coil/natives/uuidtrait"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/registry"
)

// RegisterAll installs every built-in type's traits and free/method
// functions into reg. Call once at startup before reg.Seal().
func RegisterAll(reg *registry.Registry) {
	registerPlainTypes(reg)
	arraytrait.Register(reg)
	strtrait.Register(reg)
	uuidtrait.Register(reg)
	sockettrait.Register(reg)
}

// registerPlainTypes wires the four plain scalar types' trait entries:
// identity delivery (they are immutable, so "copy" is free), hashing,
// and an empty method set (plain types expose no methods of their own —
// arithmetic/comparison/convert are dispatcher built-ins, not registry
// entries, per spec.md section 4.5).
func registerPlainTypes(reg *registry.Registry) {
	identity := func(o object.Object) object.Object { return o }

	reg.RegisterType(string(object.IntType), registry.TypeTraits{
		Deliver: identity,
		Hasher: func(o object.Object) (uint64, bool) {
			return uint64(o.(*object.Int).Value()), true
		},
	})
	reg.RegisterType(string(object.FloatType), registry.TypeTraits{
		Deliver: identity,
		Hasher: func(o object.Object) (uint64, bool) {
			return uint64(int64(o.(*object.Float).Value())), true
		},
	})
	reg.RegisterType(string(object.BoolType), registry.TypeTraits{
		Deliver: identity,
		Hasher: func(o object.Object) (uint64, bool) {
			if o.(*object.Bool).Value() {
				return 1, true
			}
			return 0, true
		},
	})
	reg.RegisterType(string(object.StringType), registry.TypeTraits{
		Deliver: identity,
		Hasher: func(o object.Object) (uint64, bool) {
			return fnv64(o.(*object.String).Value()), true
		},
	})
	reg.RegisterType(string(object.NilType), registry.TypeTraits{Deliver: identity})
	reg.RegisterType(string(object.FunctionType), registry.TypeTraits{Deliver: identity})
}

// fnv64 is the FNV-1a hash used for strings, the same algorithm Go's
// standard maps reach for internally — used here directly since
// coil needs a stable, exported hash value rather than Go's map runtime
// internals.
func fnv64(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	var h uint64 = offset
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}
