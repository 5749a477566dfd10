// Package registry implements the two process-wide, read-after-init tables
// spec.md section 3 and section 6 describe: the type-traits registry and
// the external-function registry. Both are populated once at startup (by
// natives.RegisterAll and any embedder-supplied registrations) and are
// read-only during execution, mirroring the teacher's attr_registry /
// method_registry pattern generalized from Risor's per-type method tables
// to coil's flat (domain, id) external-call convention.
package registry

import (
	"fmt"
	"sync"

	"github.com/coilscript/coil/object"
)

// DeliverFn produces the value a scope's bind() hands out when it copies an
// object (as opposed to moving it via deliver()). Returning the same
// pointer unmodified is "shallow delivery": share, never copy.
type DeliverFn func(object.Object) object.Object

// HasherFn computes a hash for an object of this type, or reports ok=false
// if the concrete value is unhashable (e.g. an array containing
// unhashable elements).
type HasherFn func(object.Object) (hash uint64, ok bool)

// ComparatorFn orders two objects of this type: negative, zero, or
// positive as the first argument is less than, equal to, or greater than
// the second. Backs CompareOp for non-plain types (spec.md section 4.5).
type ComparatorFn func(a, b object.Object) (int, error)

// TypeTraits is the per-type entry of the type-traits registry: spec.md
// section 3, "Type traits".
type TypeTraits struct {
	Deliver    DeliverFn
	Hasher     HasherFn     // nil: unhashable
	Comparator ComparatorFn // nil: uses identity / Equals only
	Methods    []string     // ordered method set, backs dir()/exist()
}

// Registry is the combined type-traits and external-function table. The
// zero value is not usable; construct with New.
type Registry struct {
	mu        sync.RWMutex
	traits    map[string]TypeTraits
	functions map[functionKey]*object.Function
	sealed    bool
}

type functionKey struct {
	domain string
	id     string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		traits:    map[string]TypeTraits{},
		functions: map[functionKey]*object.Function{},
	}
}

// RegisterType installs the type traits for typeID. Registering the same
// typeID twice overwrites the previous entry; callers are expected to do
// this only during startup registration, never mid-execution (enforced by
// Seal, not by this method).
func (r *Registry) RegisterType(typeID string, traits TypeTraits) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic("registry: RegisterType called after Seal")
	}
	r.traits[typeID] = traits
}

// RegisterFunction installs a free function (domain == "") or a method
// (domain == the owning type's id) under id.
func (r *Registry) RegisterFunction(domain, id string, fn *object.Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		panic("registry: RegisterFunction called after Seal")
	}
	r.functions[functionKey{domain, id}] = fn
}

// Seal freezes the registry: further Register calls panic. Call once at
// startup, after natives.RegisterAll, before the dispatcher starts running
// any code (spec.md section 5, "Shared resources").
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Traits returns the type-traits entry for typeID.
func (r *Registry) Traits(typeID string) (TypeTraits, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.traits[typeID]
	return t, ok
}

// Lookup resolves an external call: first under the given domain, then
// (if domain is non-empty and nothing matched) there is no implicit
// fallthrough — spec.md section 4.2 requires the caller to retry explicitly
// under the empty domain when there is no receiver.
func (r *Registry) Lookup(domain, id string) (*object.Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.functions[functionKey{domain, id}]
	return fn, ok
}

// FetchFunctionImpl resolves a function by (typeID, id), used by internal
// invocations such as calling a type's "compare" method during a foreach
// loop or case match (spec.md section 4.2, "_FetchFunctionImpl").
func (r *Registry) FetchFunctionImpl(id, typeID string) (*object.Function, error) {
	fn, ok := r.Lookup(typeID, id)
	if !ok {
		return nil, fmt.Errorf("resolution error: method %q is not found on type %q", id, typeID)
	}
	return fn, nil
}

// MethodSet returns the ordered method names registered for typeID,
// backing the "dir" introspection keyword.
func (r *Registry) MethodSet(typeID string) []string {
	traits, ok := r.Traits(typeID)
	if !ok {
		return nil
	}
	return traits.Methods
}

// HasMethod reports whether typeID exposes a method named name, backing
// the "exist" introspection keyword.
func (r *Registry) HasMethod(typeID, name string) bool {
	for _, m := range r.MethodSet(typeID) {
		if m == name {
			return true
		}
	}
	return false
}

// Deliver produces the copy (or shared reference, for shallow-delivery
// types) that bind() installs in a scope, honoring the object's type
// traits. Unregistered types deliver by returning the object unmodified
// (immutable scalars need no real copy).
func (r *Registry) Deliver(obj object.Object) object.Object {
	traits, ok := r.Traits(string(obj.Type()))
	if !ok || traits.Deliver == nil {
		return obj
	}
	return traits.Deliver(obj)
}
