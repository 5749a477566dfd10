package runtime

import (
	"fmt"

	"github.com/coilscript/coil/errz"
	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
)

// bindArguments maps positional args onto fn's declared parameters
// according to its ParamPattern (spec.md section 4.3).
func bindArguments(fn *object.Function, args []object.Object) (map[string]object.Object, error) {
	params := fn.Parameters()
	switch fn.Pattern() {
	case op.Normal:
		if len(args) != len(params) {
			msg := object.ArgsError(fn.ID(), len(params), len(args))
			return nil, fmt.Errorf("%s", msg.Detail)
		}
		bound := make(map[string]object.Object, len(params))
		for i, p := range params {
			bound[p] = args[i]
		}
		return bound, nil

	case op.AutoSize:
		// All but the last parameter bind normally; the last parameter
		// collects every remaining argument into an array, including
		// the zero-trailing-argument case (an empty array).
		if len(params) == 0 {
			return nil, fmt.Errorf("args error: %s() declared AutoSize with no parameters", fn.ID())
		}
		fixed := params[:len(params)-1]
		if len(args) < len(fixed) {
			return nil, fmt.Errorf("args error: %s() takes at least %d arguments (%d given)", fn.ID(), len(fixed), len(args))
		}
		bound := make(map[string]object.Object, len(params))
		for i, p := range fixed {
			bound[p] = args[i]
		}
		rest := append([]object.Object{}, args[len(fixed):]...)
		bound[params[len(params)-1]] = object.NewArray(rest)
		return bound, nil

	case op.AutoFill:
		limit := fn.Limit()
		if len(args) < limit || len(args) > len(params) {
			msg := object.ArgsRangeError(fn.ID(), limit, len(params), len(args))
			return nil, fmt.Errorf("%s", msg.Detail)
		}
		bound := make(map[string]object.Object, len(params))
		for i, p := range params {
			if i < len(args) {
				bound[p] = args[i]
			} else {
				bound[p] = object.Nil
			}
		}
		return bound, nil

	default:
		return nil, fmt.Errorf("invariant violation: unknown parameter pattern %v", fn.Pattern())
	}
}

// invokeNative runs a native function's ABI directly, looping to satisfy
// Interface-coded messages by performing the indirect call they request
// (spec.md section 4.4 and section 6).
func (d *Dispatcher) invokeNative(fn *object.Function, boundArgs map[string]object.Object) (object.Object, error) {
	for {
		msg := fn.Native()(boundArgs)
		switch msg.Code {
		case object.Success, object.ObjectResult:
			return msg.Result, nil
		case object.Interface:
			target, ok := d.registry.Lookup(msg.Domain, msg.ID)
			if !ok {
				return nil, errz.New(errz.KindResolution, "function %q is not found in domain %q", msg.ID, msg.Domain)
			}
			result, err := d.Call(target, argsFromMap(target, boundArgs))
			if err != nil {
				return nil, err
			}
			return result, nil
		default:
			return nil, errz.Wrap(fmt.Errorf("%s", msg.Detail), fmt.Sprintf("call to %s failed", fn.ID()))
		}
	}
}

// argsFromMap recovers a positional argument slice from a bound-argument
// map, used only for the rare Interface reinjection path where a native
// function asks to forward its own arguments to another function of the
// same arity.
func argsFromMap(fn *object.Function, bound map[string]object.Object) []object.Object {
	params := fn.Parameters()
	out := make([]object.Object, len(params))
	for i, p := range params {
		out[i] = bound[p]
	}
	return out
}

// Call invokes fn with the given positional arguments as a regular
// (non-tail) call: push a new frame, bind arguments into its base scope,
// run it to completion, and return its result. Grounded on the teacher's
// VirtualMachine.callFunction (push frame, activate, run, pop).
func (d *Dispatcher) Call(fn *object.Function, args []object.Object) (object.Object, error) {
	return d.call(fn, args, nil)
}

// call is Call's implementation, additionally binding a method receiver
// under the fixed name "me" when one is present — additive to the
// callee's declared parameters, never counted against its arity (spec.md
// section 4.2). Grounded on original_source/machine.cc's
// FetchFunctionImpl (line 347) and Invoke (lines 466-470), which emplace
// kStrMe into the argument map before GenerateArgs binds the command's
// own argument list.
func (d *Dispatcher) call(fn *object.Function, args []object.Object, receiver object.Object) (object.Object, error) {
	if len(d.frames) >= d.maxCallDepth {
		return nil, errz.New(errz.KindInvariant, "call stack depth exceeded %d", d.maxCallDepth)
	}
	bound, err := bindArguments(fn, args)
	if err != nil {
		return nil, errz.Wrap(err, "argument binding failed")
	}
	if receiver != nil {
		bound["me"] = receiver
	}
	if fn.IsNative() {
		result, err := d.invokeNative(fn, bound)
		if d.events != nil {
			d.events.AfterCall(fn, result, err)
		}
		return result, err
	}

	frame := NewFrame(fn.Body(), fn.Offset(), fn, d.currentIP())
	for name, v := range fn.Closure() {
		frame.Scopes.Base().Bind(name, v)
	}
	for name, v := range bound {
		frame.Scopes.Base().Bind(name, v)
	}
	d.frames = append(d.frames, frame)
	result, err := d.run(frame)
	d.frames = d.frames[:len(d.frames)-1]
	if d.events != nil {
		d.events.AfterCall(fn, result, err)
	}
	return result, err
}

// currentIP returns the instruction pointer of the innermost active
// frame, or -1 if there is none (the dispatcher has not started yet).
func (d *Dispatcher) currentIP() int {
	if len(d.frames) == 0 {
		return -1
	}
	return d.frames[len(d.frames)-1].IP
}

// execCall resolves and performs an Ext request: a free function call or
// a method call against a receiver's runtime type, honoring tail-call
// elimination when the command is marked as a tail position (spec.md
// section 4.4).
func (d *Dispatcher) execCall(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, receiver, err := d.evalCallArgs(frame, cmd)
	if err != nil {
		return nil, err
	}

	domain := cmd.Request.Domain
	if receiver != nil {
		domain = string(receiver.Type())
	}
	fn, ok := d.registry.Lookup(domain, cmd.Request.ID)
	if !ok && receiver == nil && domain != "" {
		fn, ok = d.registry.Lookup("", cmd.Request.ID)
	}
	if !ok {
		return nil, errz.New(errz.KindResolution, "function %q is not found", cmd.Request.ID)
	}

	if !cmd.Request.Options.TailPosition || fn.IsNative() {
		return d.call(fn, args, receiver)
	}

	if frame.Function != nil && fn.ID() == frame.Function.ID() && fn.Body() == frame.Function.Body() {
		// Tail recursion: reuse the current frame entirely.
		bound, err := bindArguments(fn, args)
		if err != nil {
			return nil, errz.Wrap(err, "argument binding failed")
		}
		if receiver != nil {
			bound["me"] = receiver
		}
		frame.Scopes.TruncateTo(1)
		frame.Scopes.Base().Clear()
		for name, v := range fn.Closure() {
			frame.Scopes.Base().Bind(name, v)
		}
		for name, v := range bound {
			frame.Scopes.Base().Bind(name, v)
		}
		frame.ReturnStack = frame.ReturnStack[:0]
		frame.ConditionStack = frame.ConditionStack[:0]
		frame.JumpStack = frame.JumpStack[:0]
		frame.Jump(fn.Offset())
		return nil, errTailLoop
	}

	// Tail call: swap this frame's code pointer to the callee rather
	// than pushing a new frame, so the caller's frame is reused for the
	// callee's own execution (its eventual return also returns from
	// this call).
	bound, err := bindArguments(fn, args)
	if err != nil {
		return nil, errz.Wrap(err, "argument binding failed")
	}
	if receiver != nil {
		bound["me"] = receiver
	}
	if fn.IsNative() {
		return d.call(fn, args, receiver)
	}
	frame.Function = fn
	frame.Code = fn.Body()
	frame.Scopes = NewObjectStack()
	for name, v := range fn.Closure() {
		frame.Scopes.Base().Bind(name, v)
	}
	for name, v := range bound {
		frame.Scopes.Base().Bind(name, v)
	}
	frame.ReturnStack = nil
	frame.ConditionStack = nil
	frame.JumpStack = nil
	frame.Jump(fn.Offset())
	return nil, errTailLoop
}

// errTailLoop is a sentinel the run loop recognizes to mean "the current
// command already re-pointed this frame; resume stepping without
// treating this as a value-producing command."
var errTailLoop = fmt.Errorf("runtime: tail loop sentinel")
