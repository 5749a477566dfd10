package object

// Ref is an alias object: its content is itself an Object that must be
// unpacked on every read. Writing through a Ref writes the underlying slot
// rather than rebinding the Ref itself. See spec.md section 3 ("Object")
// and section 9 ("Ref vs copy delivery"): this is the Go rendering of the
// Ref(Slot) arm of the suggested Owned/Shared/Ref sum type.
type Ref struct {
	base
	slot *Object
}

// NewRef creates a Ref aliasing the given slot.
func NewRef(slot *Object) *Ref {
	return &Ref{slot: slot}
}

func (r *Ref) Type() Type      { return RefType }
func (r *Ref) Inspect() string { return "ref(" + Unpack(r.Target()).Inspect() + ")" }
func (r *Ref) Interface() any  { return Unpack(r.Target()).Interface() }
func (r *Ref) IsTruthy() bool  { return Unpack(r.Target()).IsTruthy() }
func (r *Ref) Equals(o Object) bool {
	other, ok := o.(*Ref)
	return ok && other.slot == r.slot
}

// Target returns the immediate aliased value, which may itself be a Ref.
// Callers wanting the fully-collapsed value should call Unpack(ref) instead.
func (r *Ref) Target() Object {
	return *r.slot
}

// Set writes through the ref's slot.
func (r *Ref) Set(v Object) {
	*r.slot = v
}

// Swap exchanges the underlying content of two objects in place. Used by
// the "swap" built-in keyword (spec.md section 4.5).
func Swap(a, b *Object) {
	*a, *b = *b, *a
}
