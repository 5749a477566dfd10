package runtime

import (
	"testing"

	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/stretchr/testify/require"
)

// TestExecFnCapturesCopySnapshot verifies spec.md section 4.6: a closure
// captures a copy of every binding visible when "fn" executes, not a
// live reference — mutating the outer binding afterward must not affect
// the captured snapshot. "fn" reads its parameter list straight off the
// command's own arguments and locates its body's end via the generic
// Nest/NestEnd/NestRoot markers, with no registry involved.
func TestExecFnCapturesCopySnapshot(t *testing.T) {
	b := ir.NewBuilder()
	fnIdx := b.Emit(ir.Keyword(op.Fn, ir.Options{Nest: true}),
		ir.Name("bound_adder"), ir.Name("n"))
	b.Emit(ir.Keyword(op.End, ir.Options{NestEnd: true, NestRoot: fnIdx}))
	unit := b.Build()

	// An enclosing function is required for a closure snapshot to be
	// captured at all: a top-level "fn" has nothing to close over.
	outer := object.NewIRFunction("outer", nil, op.Normal, 0, unit, 0)
	d := New(nil)
	frame := NewFrame(unit, fnIdx, outer, -1)
	frame.Scopes.Bind("base", object.NewInt(10))

	cmd, ok := unit.At(fnIdx)
	require.True(t, ok)

	result, err := d.execFn(frame, cmd)
	require.NoError(t, err)
	require.Nil(t, result)

	bound, ok := frame.Scopes.Find("bound_adder")
	require.True(t, ok)
	closure, ok := bound.(*object.Function)
	require.True(t, ok)
	require.Equal(t, []string{"n"}, closure.Parameters())
	require.Equal(t, int64(10), closure.Closure()["base"].(*object.Int).Value())

	// Mutate the outer scope after capture.
	frame.Scopes.Bind("base", object.NewInt(999))
	require.Equal(t, int64(10), closure.Closure()["base"].(*object.Int).Value())

	// execFn must leave IP on its own block's matching "end", so the
	// dispatch loop's Advance steps past it.
	require.Equal(t, fnIdx+1, frame.IP)
}

func TestObjectStackSnapshotIsIndependentCopy(t *testing.T) {
	stack := NewObjectStack()
	stack.Bind("x", object.NewInt(1))
	snap := stack.Snapshot()
	stack.Bind("x", object.NewInt(2))
	require.Equal(t, int64(1), snap["x"].(*object.Int).Value())
	require.Equal(t, int64(2), stack.Current().vars["x"].(*object.Int).Value())
}
