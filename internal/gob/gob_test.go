package gob

import (
	"testing"

	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/op"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	b := ir.NewBuilder()
	b.Emit(ir.Keyword(op.Add, ir.Options{}), ir.Lit(op.SubtypeInt, "2"), ir.Lit(op.SubtypeInt, "3"))
	unit := b.Build()
	unit.Source = "arithmetic.coil"

	data, err := Marshal(unit)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, unit.Source, decoded.Source)
	require.Equal(t, unit.Len(), decoded.Len())
	cmd, ok := decoded.At(0)
	require.True(t, ok)
	require.Equal(t, op.Add, cmd.Request.Keyword)
}
