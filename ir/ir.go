// Package ir defines the compiled intermediate representation the coil
// dispatcher consumes: an ordered sequence of Commands plus the static jump
// table a compiler emits alongside them. Producing this IR (lexing,
// parsing, code generation) is outside this package's scope — ir only
// describes the shape of the compiled input, the way bytecode.Code does for
// the teacher's register-based VM.
package ir

import "github.com/coilscript/coil/op"

// Argument is a reference to a literal, an object-stack name, a value on
// the return stack, or null. See spec.md section 3 ("Argument").
type Argument struct {
	Kind    op.ArgumentKind
	Subtype op.LiteralSubtype // meaningful only when Kind == ArgNormal
	Data    string            // literal text, or the bound name for ArgObjectStack
}

// Options carries the block-structure metadata a compiler attaches to a
// control-flow Request: nesting markers, loop-escape depth, and call-site
// flags. Exactly mirrors spec.md section 3 ("Request").
type Options struct {
	VoidCall     bool // the result of a call is discarded, never pushed
	LocalObject  bool // bind() must create in the current scope, not search outward
	Nest         bool // this command opens a nested block (fn, if, while, for, case)
	NestEnd      bool // this command is the matching "end" of a nested block
	NestRoot     int  // index of the block-opening command, for "end" to look back on
	EscapeDepth  int  // for continue/break: number of enclosing blocks to unwind
	TailPosition bool // this Ext call is in tail position (section 4.4)
}

// Request is a decoded instruction: either a built-in Keyword (op.Command),
// an external call (op.Ext, optionally against a domain expression), or a
// malformed slot (op.Null). See spec.md section 3.
type Request struct {
	Type        op.RequestType
	Keyword     op.Keyword // valid when Type == op.Command
	Domain      string     // Ext: the receiver's static domain hint, or "" for free functions
	ID          string     // Ext: the function id being called
	HasReceiver bool       // Ext: true if the call has a domain expression argument
	SourceIndex int
	Options     Options
}

// Command is one compiled instruction: a Request plus its argument list,
// evaluated right to left per spec.md section 4.7.
type Command struct {
	Request Request
	Args    []Argument
}

// CodeUnit is an ordered sequence of Commands compiled from one lexical
// body, plus the static jump table a compiler precomputes for every
// if/case/while block: for each opening command's source index, the
// ordered list of branch targets (elif/when/else, finally the matching end).
type CodeUnit struct {
	Commands  []Command
	JumpTable map[int][]int
	Source    string // best-effort label for error messages, not required
}

// Len returns the number of commands in the unit.
func (c *CodeUnit) Len() int {
	return len(c.Commands)
}

// At returns the command at idx and whether idx fell within bounds; a
// false result means the instruction pointer ran off the end of the
// unit and the caller should halt.
func (c *CodeUnit) At(idx int) (Command, bool) {
	if idx < 0 || idx >= len(c.Commands) {
		return Command{}, false
	}
	return c.Commands[idx], true
}

// BranchTargets returns the precomputed branch targets for the block whose
// opening command is at sourceIndex, or nil if there are none.
func (c *CodeUnit) BranchTargets(sourceIndex int) []int {
	if c.JumpTable == nil {
		return nil
	}
	return c.JumpTable[sourceIndex]
}
