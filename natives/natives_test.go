package natives

import (
	"testing"

	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/registry"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllSealsCleanly(t *testing.T) {
	reg := registry.New()
	RegisterAll(reg)
	reg.Seal()

	traits, ok := reg.Traits(string(object.IntType))
	require.True(t, ok)
	require.NotNil(t, traits.Hasher)

	_, ok = reg.Lookup(string(object.StringType), "hash")
	require.True(t, ok)

	_, ok = reg.Lookup(string(object.ArrayType), "head")
	require.True(t, ok)

	_, ok = reg.Lookup("", "uuid_new")
	require.True(t, ok)

	_, ok = reg.Lookup("", "tcp_dial")
	require.True(t, ok)
}

func TestStringHashAndVerifyRoundTrip(t *testing.T) {
	reg := registry.New()
	RegisterAll(reg)
	reg.Seal()

	hashFn, ok := reg.Lookup(string(object.StringType), "hash")
	require.True(t, ok)
	msg := hashFn.Native()(map[string]object.Object{"self": object.NewString("s3cret")})
	require.True(t, msg.Code == object.Success || msg.Code == object.ObjectResult)
	digest := msg.Result.(*object.String)

	verifyFn, ok := reg.Lookup(string(object.StringType), "verify")
	require.True(t, ok)
	result := verifyFn.Native()(map[string]object.Object{
		"self":   object.NewString("s3cret"),
		"hashed": digest,
	})
	require.True(t, result.Result.(*object.Bool).Value())
}
