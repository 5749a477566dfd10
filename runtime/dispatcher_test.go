package runtime

import (
	"testing"

	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	"github.com/stretchr/testify/require"
)

func TestRunSimpleArithmeticReturn(t *testing.T) {
	// x = 2 * 3 + 4; return x  (spec.md section 8, scenario 1)
	b := ir.NewBuilder()
	b.Emit(ir.Keyword(op.Mul, ir.Options{}), ir.Lit(op.SubtypeInt, "2"), ir.Lit(op.SubtypeInt, "3"))
	b.Emit(ir.Keyword(op.Add, ir.Options{}), ir.FromReturnStack(), ir.Lit(op.SubtypeInt, "4"))
	b.Emit(ir.Keyword(op.Return, ir.Options{}), ir.FromReturnStack())
	unit := b.Build()

	reg := registry.New()
	reg.Seal()
	d := New(reg)

	result, err := d.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int64(10), result.(*object.Int).Value())
}

func TestRunBindAndReadBack(t *testing.T) {
	b := ir.NewBuilder()
	b.Emit(ir.Keyword(op.Bind, ir.Options{LocalObject: true}), ir.Name("x"), ir.Lit(op.SubtypeInt, "42"))
	b.Emit(ir.Keyword(op.Return, ir.Options{}), ir.Name("x"))
	unit := b.Build()

	reg := registry.New()
	reg.Seal()
	d := New(reg)

	result, err := d.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.(*object.Int).Value())
}

func TestCallNativeFunctionThroughRegistry(t *testing.T) {
	reg := registry.New()
	double := object.NewNativeFunction("double", []string{"n"}, op.Normal, 0, func(args map[string]object.Object) object.Message {
		n := args["n"].(*object.Int).Value()
		return object.Ok(object.NewInt(n * 2))
	})
	reg.RegisterFunction("", "double", double)
	reg.Seal()

	b := ir.NewBuilder()
	b.Emit(ir.ExtCall("", "double", false, ir.Options{}), ir.Lit(op.SubtypeInt, "21"))
	b.Emit(ir.Keyword(op.Return, ir.Options{}), ir.FromReturnStack())
	unit := b.Build()

	d := New(reg)
	result, err := d.Run(unit)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.(*object.Int).Value())
}

func TestAutoFillArgumentsPadWithNilThroughCall(t *testing.T) {
	reg := registry.New()
	greet := object.NewNativeFunction("greet", []string{"name", "greeting"}, op.AutoFill, 1,
		func(args map[string]object.Object) object.Message {
			if object.IsNull(args["greeting"]) {
				return object.Ok(object.NewString("hi " + args["name"].(*object.String).Value()))
			}
			return object.Ok(object.NewString(args["greeting"].(*object.String).Value() + " " + args["name"].(*object.String).Value()))
		})
	reg.RegisterFunction("", "greet", greet)
	reg.Seal()

	d := New(reg)
	result, err := d.Call(greet, []object.Object{object.NewString("ava")})
	require.NoError(t, err)
	require.Equal(t, "hi ava", result.(*object.String).Value())
}
