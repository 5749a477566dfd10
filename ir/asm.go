package ir

import "github.com/coilscript/coil/op"

// Builder assembles a CodeUnit one Command at a time. It exists so tests
// (and any future compiler) can construct IR directly without a parser,
// mirroring how the teacher's compiler tests build *compiler.Code by hand.
type Builder struct {
	unit CodeUnit
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{unit: CodeUnit{JumpTable: map[int][]int{}}}
}

// Emit appends a Command and returns its source index.
func (b *Builder) Emit(req Request, args ...Argument) int {
	idx := len(b.unit.Commands)
	req.SourceIndex = idx
	b.unit.Commands = append(b.unit.Commands, Command{Request: req, Args: args})
	return idx
}

// SetBranchTargets records the static jump table entry for the block opened
// at sourceIndex.
func (b *Builder) SetBranchTargets(sourceIndex int, targets ...int) {
	b.unit.JumpTable[sourceIndex] = targets
}

// Build returns the assembled CodeUnit.
func (b *Builder) Build() *CodeUnit {
	return &b.unit
}

// Keyword is a convenience constructor for a built-in command Request.
func Keyword(kw op.Keyword, opts Options) Request {
	return Request{Type: op.Command, Keyword: kw, Options: opts}
}

// ExtCall is a convenience constructor for an external function call
// Request, optionally against a domain.
func ExtCall(domain, id string, hasReceiver bool, opts Options) Request {
	return Request{Type: op.Ext, Domain: domain, ID: id, HasReceiver: hasReceiver, Options: opts}
}

// Lit builds a Normal argument carrying a literal.
func Lit(subtype op.LiteralSubtype, data string) Argument {
	return Argument{Kind: op.ArgNormal, Subtype: subtype, Data: data}
}

// Name builds an ObjectStack argument naming a binding to resolve.
func Name(name string) Argument {
	return Argument{Kind: op.ArgObjectStack, Data: name}
}

// FromReturnStack builds a ReturnStack argument.
func FromReturnStack() Argument {
	return Argument{Kind: op.ArgReturnStack}
}

// OptionalMarker builds a "fn" parameter-list marker: the next Argument
// is an optional parameter name (spec.md section 4.6).
func OptionalMarker() Argument {
	return Argument{Kind: op.ArgOptionalMarker}
}

// VariableMarker builds a "fn" parameter-list marker: the next Argument
// is the variadic parameter name, which must be the last one declared.
func VariableMarker() Argument {
	return Argument{Kind: op.ArgVariableMarker}
}
