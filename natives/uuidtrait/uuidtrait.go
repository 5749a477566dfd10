// Package uuidtrait adds UUID generation and validation as free external
// functions: "uuid_new" and "uuid_valid". Grounded on the dependency
// named in the pack's url/uuid-adjacent module stubs (github.com/
// google/uuid) — the DOMAIN STACK home SPEC_FULL.md names for that
// dependency.
package uuidtrait

import (
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	"github.com/google/uuid"
)

// Register installs the uuid_new and uuid_valid free functions under the
// empty domain.
func Register(reg *registry.Registry) {
	reg.RegisterFunction("", "uuid_new", object.NewNativeFunction(
		"uuid_new", nil, op.Normal, 0, newUUID))
	reg.RegisterFunction("", "uuid_valid", object.NewNativeFunction(
		"uuid_valid", []string{"value"}, op.Normal, 0, validUUID))
}

func newUUID(args map[string]object.Object) object.Message {
	return object.Ok(object.NewString(uuid.NewString()))
}

func validUUID(args map[string]object.Object) object.Message {
	s, ok := object.Unpack(args["value"]).(*object.String)
	if !ok {
		return object.TypeError("uuid_valid", "argument must be a string")
	}
	_, err := uuid.Parse(s.Value())
	return object.Ok(object.NewBool(err == nil))
}
