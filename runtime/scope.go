// Package runtime implements the dispatcher that walks a compiled
// ir.CodeUnit: the object stack of lexically scoped name bindings, the
// per-call frame stack, and the main execution loop. Grounded on the
// teacher's vm package (frame pooling, Option pattern, instruction
// dispatch loop) generalized from register/local-slot addressing to
// coil's named-scope object-stack model.
package runtime

import "github.com/coilscript/coil/object"

// ObjectContainer is a single lexical scope: a flat name-to-object
// binding table. Scopes never nest their storage directly; nesting is
// expressed by stacking containers in an ObjectStack instead, so a
// container itself needs no parent pointer.
type ObjectContainer struct {
	vars map[string]object.Object
}

// NewObjectContainer returns an empty scope.
func NewObjectContainer() *ObjectContainer {
	return &ObjectContainer{vars: make(map[string]object.Object)}
}

// Find looks up name in this scope only (no parent chasing — that is
// ObjectStack's job).
func (c *ObjectContainer) Find(name string) (object.Object, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Bind installs name in this scope, overwriting any previous binding.
func (c *ObjectContainer) Bind(name string, value object.Object) {
	c.vars[name] = value
}

// Remove deletes name from this scope, if present.
func (c *ObjectContainer) Remove(name string) {
	delete(c.vars, name)
}

// Names returns the bound names, order unspecified.
func (c *ObjectContainer) Names() []string {
	names := make([]string, 0, len(c.vars))
	for n := range c.vars {
		names = append(names, n)
	}
	return names
}

// Clear empties the scope, used by tail recursion to reset the base scope
// before the new arguments are bound.
func (c *ObjectContainer) Clear() {
	c.vars = make(map[string]object.Object)
}

// ClearExcept empties the scope except for the named bindings. The while
// loop's "end" handling calls it with no names, emptying the scope.
func (c *ObjectContainer) ClearExcept(keep ...string) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	next := make(map[string]object.Object, len(keep))
	for k := range keepSet {
		if v, ok := c.vars[k]; ok {
			next[k] = v
		}
	}
	c.vars = next
}

// Snapshot returns a shallow copy of the scope's bindings, used to
// capture a copy-snapshot closure at "fn" time (spec.md section 4.6).
func (c *ObjectContainer) Snapshot() map[string]object.Object {
	out := make(map[string]object.Object, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

// ObjectStack is the stack of lexical scopes active within one frame.
// Index 0 is the function's base scope (its parameters); later entries
// are nested blocks (if/while/for/case bodies).
type ObjectStack struct {
	scopes []*ObjectContainer
}

// NewObjectStack returns a stack with a single base scope.
func NewObjectStack() *ObjectStack {
	return &ObjectStack{scopes: []*ObjectContainer{NewObjectContainer()}}
}

// Push opens a new nested scope.
func (s *ObjectStack) Push() {
	s.scopes = append(s.scopes, NewObjectContainer())
}

// Pop closes the innermost scope. Popping the base scope is a
// programming error and panics, mirroring the teacher's frame-pool
// invariants that treat stack underflow as a bug, not a runtime error.
func (s *ObjectStack) Pop() {
	if len(s.scopes) <= 1 {
		panic("runtime: object stack underflow")
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

// Current returns the innermost scope.
func (s *ObjectStack) Current() *ObjectContainer {
	return s.scopes[len(s.scopes)-1]
}

// Base returns the function's base scope.
func (s *ObjectStack) Base() *ObjectContainer {
	return s.scopes[0]
}

// Depth reports how many scopes are currently open.
func (s *ObjectStack) Depth() int {
	return len(s.scopes)
}

// TruncateTo pops scopes down to the given depth, used by tail recursion
// to drop every nested block scope before reusing the frame.
func (s *ObjectStack) TruncateTo(depth int) {
	if depth < 1 {
		depth = 1
	}
	if depth > len(s.scopes) {
		return
	}
	s.scopes = s.scopes[:depth]
}

// Find searches scopes from innermost to outermost, matching spec.md
// section 4.1's name-resolution rule: nearer bindings shadow farther
// ones.
func (s *ObjectStack) Find(name string) (object.Object, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i].Find(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Bind installs name in the innermost scope.
func (s *ObjectStack) Bind(name string, value object.Object) {
	s.Current().Bind(name, value)
}

// Assign rebinds an already-visible name in whichever scope currently
// holds it, falling back to binding in the innermost scope when the
// name is not yet visible (spec.md section 4.1, "bind" semantics).
func (s *ObjectStack) Assign(name string, value object.Object) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if _, ok := s.scopes[i].Find(name); ok {
			s.scopes[i].Bind(name, value)
			return
		}
	}
	s.Bind(name, value)
}

// Snapshot captures every binding visible at this point (innermost wins
// on name collision), used to build a closure's copy snapshot.
func (s *ObjectStack) Snapshot() map[string]object.Object {
	out := make(map[string]object.Object)
	for _, scope := range s.scopes {
		for k, v := range scope.vars {
			out[k] = v
		}
	}
	return out
}
