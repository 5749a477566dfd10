// Package strtrait adds a bcrypt-backed password-hashing method to
// coil's string type: "hash" (one-way, salted) and "verify" (constant-
// time compare against a previously hashed string). Grounded on the
// dependency the teacher's own modules/bcrypt package carries
// (golang.org/x/crypto/bcrypt) — this is the DOMAIN STACK component
// SPEC_FULL.md names as strtrait's home for that dependency.
package strtrait

import (
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	"golang.org/x/crypto/bcrypt"
)

// Register installs the "hash" and "verify" methods on the string type.
func Register(reg *registry.Registry) {
	reg.RegisterFunction(string(object.StringType), "hash", object.NewNativeFunction(
		"hash", []string{"self"}, op.Normal, 0, hash))
	reg.RegisterFunction(string(object.StringType), "verify", object.NewNativeFunction(
		"verify", []string{"self", "hashed"}, op.Normal, 0, verify))
}

func hash(args map[string]object.Object) object.Message {
	self, ok := object.Unpack(args["self"]).(*object.String)
	if !ok {
		return object.TypeError("hash", "receiver must be a string")
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(self.Value()), bcrypt.DefaultCost)
	if err != nil {
		return object.Errorf(object.IllegalCall, "hash: "+err.Error())
	}
	return object.Ok(object.NewString(string(digest)))
}

func verify(args map[string]object.Object) object.Message {
	self, ok := object.Unpack(args["self"]).(*object.String)
	if !ok {
		return object.TypeError("verify", "receiver must be a string")
	}
	hashed, ok := object.Unpack(args["hashed"]).(*object.String)
	if !ok {
		return object.TypeError("verify", "argument must be a string")
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed.Value()), []byte(self.Value()))
	return object.Ok(object.NewBool(err == nil))
}
