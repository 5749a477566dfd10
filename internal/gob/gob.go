// Package gob (de)serializes an ir.CodeUnit to and from a binary stream
// using the standard library's encoding/gob codec, so the cmd/coil
// runner has something loadable without this module taking on a parser
// or compiler of its own (both out of scope — see spec.md Non-goals).
// Grounded on the teacher's own compiler.Code having no serialization
// format of its own (the teacher always compiles from source in-
// process); this package is new, filling the gap a precompiled-IR-only
// runtime needs in place of that missing compiler step.
package gob

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/coilscript/coil/ir"
)

func init() {
	gob.Register(ir.Argument{})
	gob.Register(ir.Options{})
	gob.Register(ir.Request{})
	gob.Register(ir.Command{})
}

// Encode writes unit to w in coil's gob wire format.
func Encode(w io.Writer, unit *ir.CodeUnit) error {
	return gob.NewEncoder(w).Encode(unit)
}

// Decode reads an ir.CodeUnit from r.
func Decode(r io.Reader) (*ir.CodeUnit, error) {
	var unit ir.CodeUnit
	if err := gob.NewDecoder(r).Decode(&unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// Marshal encodes unit to a byte slice, the form cmd/coil reads from
// ".coil" files.
func Marshal(unit *ir.CodeUnit) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, unit); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a byte slice produced by Marshal.
func Unmarshal(data []byte) (*ir.CodeUnit, error) {
	return Decode(bytes.NewReader(data))
}
