package runtime

import (
	"testing"

	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	"github.com/stretchr/testify/require"
)

func TestBindArgumentsNormal(t *testing.T) {
	fn := object.NewNativeFunction("add", []string{"a", "b"}, op.Normal, 0, nil)
	bound, err := bindArguments(fn, []object.Object{object.NewInt(1), object.NewInt(2)})
	require.NoError(t, err)
	require.Equal(t, int64(1), bound["a"].(*object.Int).Value())
	require.Equal(t, int64(2), bound["b"].(*object.Int).Value())
}

func TestBindArgumentsNormalWrongArity(t *testing.T) {
	fn := object.NewNativeFunction("add", []string{"a", "b"}, op.Normal, 0, nil)
	_, err := bindArguments(fn, []object.Object{object.NewInt(1)})
	require.Error(t, err)
}

func TestBindArgumentsAutoSizePacksTrailing(t *testing.T) {
	fn := object.NewNativeFunction("variadic", []string{"first", "rest"}, op.AutoSize, 0, nil)
	bound, err := bindArguments(fn, []object.Object{
		object.NewInt(1), object.NewInt(2), object.NewInt(3),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), bound["first"].(*object.Int).Value())
	rest := bound["rest"].(*object.Array)
	require.Equal(t, 2, rest.Len())
}

func TestBindArgumentsAutoSizeNoTrailing(t *testing.T) {
	fn := object.NewNativeFunction("variadic", []string{"first", "rest"}, op.AutoSize, 0, nil)
	bound, err := bindArguments(fn, []object.Object{object.NewInt(1)})
	require.NoError(t, err)
	rest := bound["rest"].(*object.Array)
	require.Equal(t, 0, rest.Len())
}

func TestBindArgumentsAutoFillPadsWithNil(t *testing.T) {
	fn := object.NewNativeFunction("optional", []string{"a", "b", "c"}, op.AutoFill, 1, nil)
	bound, err := bindArguments(fn, []object.Object{object.NewInt(1)})
	require.NoError(t, err)
	require.Equal(t, int64(1), bound["a"].(*object.Int).Value())
	require.Same(t, object.Nil, bound["b"])
	require.Same(t, object.Nil, bound["c"])
}

func TestBindArgumentsAutoFillBelowLimit(t *testing.T) {
	fn := object.NewNativeFunction("optional", []string{"a", "b", "c"}, op.AutoFill, 2, nil)
	_, err := bindArguments(fn, []object.Object{object.NewInt(1)})
	require.Error(t, err)
}

// TestExecCallBindsReceiverUnderMe verifies spec.md section 4.2: a method
// call's receiver is bound under the fixed name "me" in the callee's
// argument map, additively and separately from its declared parameter
// list — never counted against its arity.
func TestExecCallBindsReceiverUnderMe(t *testing.T) {
	body := ir.NewBuilder()
	body.Emit(ir.Keyword(op.Return, ir.Options{}), ir.Name("me"))
	bodyUnit := body.Build()

	greet := object.NewIRFunction("greet", []string{"greeting"}, op.Normal, 0, bodyUnit, 0)

	reg := registry.New()
	reg.RegisterFunction(string(object.IntType), "greet", greet)
	reg.Seal()

	d := New(reg)
	frame := NewFrame(&ir.CodeUnit{}, 0, nil, -1)
	receiver := object.NewInt(42)
	frame.Scopes.Bind("recv", receiver)
	frame.Scopes.Bind("greeting", object.NewString("hi"))

	cmd := ir.Command{
		Request: ir.Request{
			Type:        op.Ext,
			ID:          "greet",
			HasReceiver: true,
		},
		Args: []ir.Argument{ir.Name("recv"), ir.Name("greeting")},
	}

	result, err := d.execCall(frame, cmd)
	require.NoError(t, err)
	require.Same(t, receiver, result)
}
