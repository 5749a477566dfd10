package runtime

import (
	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
)

// Frame is one activation of the dispatcher: the code unit and command
// index being executed, the scope stack of lexical bindings, the
// per-frame return-value stack, and the bookkeeping stacks the
// control-flow keywords push onto (condition results for if/elif/else
// chains, jump targets for loop re-entry). Grounded on the teacher's
// vm.frame (ActivateCode/ActivateFunction/CaptureLocals) generalized from
// fixed local-variable slots to a named ObjectStack.
type Frame struct {
	Code *ir.CodeUnit
	IP   int

	Scopes         *ObjectStack
	ReturnStack    []object.Object
	ConditionStack []bool
	JumpStack      []int
	Blocks         []blockLevel

	Function *object.Function // nil for the top-level frame
	CallSite int               // command index in the caller this frame was invoked from

	// Control bits the keyword handlers set and the dispatch loop reads
	// back, mirroring the teacher's use of a sentinel return address
	// (StopSignal) to unwind the frame rather than raising an error.
	ActivatedContinue bool
	ActivatedBreak    bool
	JumpFromEnd       bool
	VoidCall          bool
	Halted            bool
}

// NewFrame activates code at the given starting command index, bound to
// fn (nil for the top-level program frame).
func NewFrame(code *ir.CodeUnit, startIP int, fn *object.Function, callSite int) *Frame {
	return &Frame{
		Code:     code,
		IP:       startIP,
		Scopes:   NewObjectStack(),
		Function: fn,
		CallSite: callSite,
	}
}

// Current returns the command the instruction pointer addresses, and
// whether IP is still within bounds.
func (f *Frame) Current() (ir.Command, bool) {
	return f.Code.At(f.IP)
}

// Advance moves the instruction pointer forward by one command.
func (f *Frame) Advance() {
	f.IP++
}

// Jump sets the instruction pointer directly, used for branch targets
// resolved from the code unit's static jump table.
func (f *Frame) Jump(target int) {
	f.IP = target
}

// PushReturn pushes a value onto this frame's return stack (the LIFO
// stack "return" pops from, and argument evaluation pushes onto when an
// ir.Argument has Kind == op.ArgReturnStack).
func (f *Frame) PushReturn(v object.Object) {
	f.ReturnStack = append(f.ReturnStack, v)
}

// PopReturn pops the top of this frame's return stack. It panics on
// underflow: an empty pop here means the code unit's stack discipline
// was violated, an invariant failure rather than a recoverable runtime
// error (spec.md section 7, "Invariant").
func (f *Frame) PopReturn() object.Object {
	n := len(f.ReturnStack)
	if n == 0 {
		panic("runtime: return stack underflow")
	}
	v := f.ReturnStack[n-1]
	f.ReturnStack = f.ReturnStack[:n-1]
	return v
}

// PeekReturn returns the top of the return stack without popping it.
func (f *Frame) PeekReturn() (object.Object, bool) {
	n := len(f.ReturnStack)
	if n == 0 {
		return nil, false
	}
	return f.ReturnStack[n-1], true
}

// PushCondition records an if/elif/case branch's match result, consulted
// by the following elif/else/when to decide whether to run.
func (f *Frame) PushCondition(matched bool) {
	f.ConditionStack = append(f.ConditionStack, matched)
}

// PopCondition pops the innermost condition result.
func (f *Frame) PopCondition() bool {
	n := len(f.ConditionStack)
	if n == 0 {
		panic("runtime: condition stack underflow")
	}
	v := f.ConditionStack[n-1]
	f.ConditionStack = f.ConditionStack[:n-1]
	return v
}

// PushJump records a loop's re-entry command index, consulted by
// "continue"/"end" to find where to jump back to.
func (f *Frame) PushJump(target int) {
	f.JumpStack = append(f.JumpStack, target)
}

// PopJump pops the innermost loop re-entry target.
func (f *Frame) PopJump() int {
	n := len(f.JumpStack)
	if n == 0 {
		panic("runtime: jump stack underflow")
	}
	v := f.JumpStack[n-1]
	f.JumpStack = f.JumpStack[:n-1]
	return v
}

// PeekJump returns the innermost loop re-entry target without popping.
func (f *Frame) PeekJump() (int, bool) {
	n := len(f.JumpStack)
	if n == 0 {
		return 0, false
	}
	return f.JumpStack[n-1], true
}

// blockLevel records, for one open if/elif/else or case/when chain,
// whether the branch that ran opened an object-stack scope. continue and
// break walk these levels (spec.md section 4.5, Options.EscapeDepth) to
// unwind intervening conditionals on their way out to an enclosing loop.
// Unlike the original_source/ CommandContinueOrBreak counterpart, which pairs
// every level with both a condition and a jump-stack entry, coil's if/case
// chains never push to JumpStack (only while/for do), so a blockLevel
// tracks only whether it owns a scope; its condition marker is always
// popped unconditionally.
type blockLevel struct {
	scope bool
}

// PushBlock opens a new if/case chain level with no scope yet.
func (f *Frame) PushBlock() {
	f.Blocks = append(f.Blocks, blockLevel{})
}

// MarkBlockScope records that the innermost open chain level's taken
// branch pushed an object-stack scope.
func (f *Frame) MarkBlockScope() {
	if n := len(f.Blocks); n > 0 {
		f.Blocks[n-1].scope = true
	}
}

// PopBlock closes the innermost chain level.
func (f *Frame) PopBlock() (blockLevel, bool) {
	n := len(f.Blocks)
	if n == 0 {
		return blockLevel{}, false
	}
	v := f.Blocks[n-1]
	f.Blocks = f.Blocks[:n-1]
	return v, true
}
