package runtime

import (
	"github.com/coilscript/coil/errz"
	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
)

// execKeyword runs a built-in Command request. Grounded on the teacher's
// vm.run dispatch switch, generalized from stack-machine opcodes to
// coil's named-argument keyword requests.
func (d *Dispatcher) execKeyword(frame *Frame, cmd ir.Command) (object.Object, error) {
	kw := cmd.Request.Keyword
	switch {
	case kw.IsArithmetic():
		return d.execArithmetic(frame, cmd)
	case kw.IsComparison():
		return d.execCompare(frame, cmd)
	}

	switch kw {
	case op.And, op.Or, op.Not:
		return d.execLogical(frame, cmd)
	case op.If, op.Elif, op.Else:
		return d.execBranch(frame, cmd)
	case op.End:
		return d.execEnd(frame, cmd)
	case op.While:
		return d.execWhile(frame, cmd)
	case op.For:
		return d.execFor(frame, cmd)
	case op.Case, op.When:
		return d.execCaseWhen(frame, cmd)
	case op.Continue:
		return d.execContinue(frame, cmd)
	case op.Break:
		return d.execBreak(frame, cmd)
	case op.Goto:
		return d.execGoto(frame, cmd)
	case op.Bind:
		return d.execBind(frame, cmd)
	case op.Deliver:
		return d.execDeliver(frame, cmd)
	case op.Swap:
		return d.execSwap(frame, cmd)
	case op.TypeID:
		return d.execTypeID(frame, cmd)
	case op.Dir:
		return d.execDir(frame, cmd)
	case op.Exist:
		return d.execExist(frame, cmd)
	case op.Convert:
		return d.execConvert(frame, cmd)
	case op.RefCount:
		return d.execRefCount(frame, cmd)
	case op.NullObj:
		args, err := d.evalArgs(frame, cmd.Args)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, errz.New(errz.KindType, "null_obj requires 1 argument")
		}
		return object.NewBool(object.IsNull(args[0])), nil
	case op.Hash:
		return d.execHash(frame, cmd)
	case op.Return:
		return d.execReturn(frame, cmd)
	case op.Fn:
		return d.execFn(frame, cmd)
	default:
		return nil, errz.New(errz.KindInvariant, "unhandled keyword %s", kw)
	}
}

func (d *Dispatcher) execArithmetic(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errz.New(errz.KindType, "%s requires 2 operands, got %d", cmd.Request.Keyword, len(args))
	}
	result, err := object.BinaryOp(cmd.Request.Keyword, args[0], args[1])
	if err != nil {
		return nil, errz.Wrap(err, err.Error())
	}
	return result, nil
}

func (d *Dispatcher) execCompare(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errz.New(errz.KindType, "%s requires 2 operands, got %d", cmd.Request.Keyword, len(args))
	}
	a, b := object.Unpack(args[0]), object.Unpack(args[1])
	if !a.Type().IsPlain() || a.Type() != b.Type() {
		traits, ok := d.registry.Traits(string(a.Type()))
		if ok && traits.Comparator != nil {
			n, err := traits.Comparator(a, b)
			if err != nil {
				return nil, errz.Wrap(err, "comparator failed")
			}
			return compareResult(cmd.Request.Keyword, n)
		}
	}
	result, err := object.CompareOp(cmd.Request.Keyword, a, b)
	if err != nil {
		return nil, errz.Wrap(err, err.Error())
	}
	return result, nil
}

func compareResult(kw op.Keyword, n int) (object.Object, error) {
	switch kw {
	case op.Eq:
		return object.NewBool(n == 0), nil
	case op.Ne:
		return object.NewBool(n != 0), nil
	case op.Lt:
		return object.NewBool(n < 0), nil
	case op.Le:
		return object.NewBool(n <= 0), nil
	case op.Gt:
		return object.NewBool(n > 0), nil
	case op.Ge:
		return object.NewBool(n >= 0), nil
	default:
		return nil, errz.New(errz.KindInvariant, "not a comparison operator: %s", kw)
	}
}

func (d *Dispatcher) execLogical(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	switch cmd.Request.Keyword {
	case op.Not:
		if len(args) != 1 {
			return nil, errz.New(errz.KindType, "! requires 1 operand, got %d", len(args))
		}
		return object.NewBool(!object.Unpack(args[0]).IsTruthy()), nil
	case op.And:
		if len(args) != 2 {
			return nil, errz.New(errz.KindType, "&& requires 2 operands, got %d", len(args))
		}
		return object.NewBool(object.Unpack(args[0]).IsTruthy() && object.Unpack(args[1]).IsTruthy()), nil
	case op.Or:
		if len(args) != 2 {
			return nil, errz.New(errz.KindType, "|| requires 2 operands, got %d", len(args))
		}
		return object.NewBool(object.Unpack(args[0]).IsTruthy() || object.Unpack(args[1]).IsTruthy()), nil
	default:
		return nil, errz.New(errz.KindInvariant, "not a logical operator: %s", cmd.Request.Keyword)
	}
}

// execBranch handles if/elif/else: evaluate the guard (elif/if only;
// else has none), open a nested scope if the branch is taken, and record
// the match result on the condition stack so the following elif/else
// commands know whether they are still eligible to run.
func (d *Dispatcher) execBranch(frame *Frame, cmd ir.Command) (object.Object, error) {
	var taken bool
	switch cmd.Request.Keyword {
	case op.If:
		args, err := d.evalArgs(frame, cmd.Args)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, errz.New(errz.KindType, "if requires 1 guard expression, got %d", len(args))
		}
		taken = object.Unpack(args[0]).IsTruthy()
		frame.PushCondition(taken)
		frame.PushBlock()
	case op.Elif:
		prior := frame.PopCondition()
		if prior {
			taken = false
		} else {
			args, err := d.evalArgs(frame, cmd.Args)
			if err != nil {
				return nil, err
			}
			if len(args) != 1 {
				return nil, errz.New(errz.KindType, "elif requires 1 guard expression, got %d", len(args))
			}
			taken = object.Unpack(args[0]).IsTruthy()
		}
		frame.PushCondition(taken || prior)
	case op.Else:
		prior := frame.PopCondition()
		taken = !prior
		frame.PushCondition(true)
	}
	if taken {
		frame.Scopes.Push()
		frame.MarkBlockScope()
		frame.Advance()
		return nil, nil
	}
	targets := frame.Code.BranchTargets(cmd.Request.Options.NestRoot)
	next := findNextTarget(targets, cmd.Request.SourceIndex)
	frame.Jump(next)
	return nil, nil
}

// findNextTarget returns the smallest branch target strictly greater
// than after, or the last target if after is beyond all of them (falling
// through to the block's matching "end").
func findNextTarget(targets []int, after int) int {
	if len(targets) == 0 {
		return after + 1
	}
	for _, t := range targets {
		if t > after {
			return t
		}
	}
	return targets[len(targets)-1]
}

// execEnd closes the scope a taken if/elif/else/case/when branch opened
// and pops its condition marker. At the matching end of the running
// function's own "fn" block it halts the frame instead, so a call never
// runs past its body. Loop bodies (while/for) never reach here for their
// own "end": loopBody/forBody stop at it before it is stepped.
func (d *Dispatcher) execEnd(frame *Frame, cmd ir.Command) (object.Object, error) {
	if frame.JumpFromEnd {
		frame.JumpFromEnd = false
		return nil, nil
	}
	if fn := frame.Function; fn != nil && cmd.Request.Options.NestEnd && cmd.Request.Options.NestRoot == fn.Offset()-1 {
		frame.Halted = true
		return nil, nil
	}
	level, ok := frame.PopBlock()
	if ok && level.scope && frame.Scopes.Depth() > 1 {
		frame.Scopes.Pop()
	}
	if len(frame.ConditionStack) > 0 {
		frame.PopCondition()
	}
	return nil, nil
}

func (d *Dispatcher) execWhile(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errz.New(errz.KindType, "while requires 1 guard expression, got %d", len(args))
	}
	if !object.Unpack(args[0]).IsTruthy() {
		targets := frame.Code.BranchTargets(cmd.Request.SourceIndex)
		end := cmd.Request.SourceIndex + 1
		if len(targets) > 0 {
			end = targets[len(targets)-1]
		}
		frame.Jump(end)
		return nil, nil
	}
	frame.PushJump(cmd.Request.SourceIndex)
	frame.Scopes.Push()
	frame.Advance()
	d.loopBody(frame, cmd.Request.SourceIndex)
	return nil, nil
}

// loopBody runs the while loop until its guard fails or "break" fires,
// re-entering the guard command each iteration. It owns the frame's IP
// directly rather than returning control to the outer step loop per
// iteration, mirroring how the teacher's VM inlines small control-flow
// loops instead of recursing through the main dispatch switch.
func (d *Dispatcher) loopBody(frame *Frame, guardIndex int) {
	for {
		cmd, ok := frame.Current()
		if !ok || frame.ActivatedBreak {
			frame.ActivatedBreak = false
			frame.PopJump()
			return
		}
		if cmd.Request.Type == op.Command && cmd.Request.Keyword == op.End && cmd.Request.Options.NestRoot == guardIndex {
			frame.Scopes.ClearExcept()
			frame.Jump(guardIndex)
			frame.PopJump()
			frame.Advance() // consumed by the re-run of While below via goto semantics
			frame.JumpFromEnd = false
			return
		}
		result, err := d.step(frame, cmd)
		if err != nil {
			if err == errTailLoop {
				continue
			}
			frame.Halted = true
			return
		}
		if frame.ActivatedContinue {
			frame.ActivatedContinue = false
			frame.Jump(guardIndex)
			frame.PopJump()
			return
		}
		if !cmd.Request.Options.VoidCall && result != nil {
			frame.PushReturn(result)
		}
		frame.Advance()
	}
}

// execFor drives the foreach loop. The iterable expression is evaluated
// once and iterated directly: an object.ArrayIterator through its own
// AtTail/Current/Advance, any other value through its type's registered
// "at_tail", "obj" and "step_forward" methods. Each pass binds the loop
// variable to the current element. The container's head/tail methods and
// the iterator's compare method are not called, so a plain array (which
// registers none of at_tail/obj) cannot be iterated.
func (d *Dispatcher) execFor(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errz.New(errz.KindType, "for requires (loopVar, iterable), got %d args", len(args))
	}
	loopVarName := ""
	if len(cmd.Args) > 0 && cmd.Args[0].Kind == op.ArgObjectStack {
		loopVarName = cmd.Args[0].Data
	}
	iterable := object.Unpack(args[1])

	frame.Scopes.Push()
	for {
		atTail, err := d.iterAtTail(iterable)
		if err != nil {
			frame.Scopes.Pop()
			return nil, err
		}
		if atTail {
			break
		}
		current, err := d.iterCurrent(iterable)
		if err != nil {
			frame.Scopes.Pop()
			return nil, err
		}
		if loopVarName != "" {
			frame.Scopes.Current().Bind(loopVarName, current)
		}
		frame.PushJump(cmd.Request.SourceIndex)
		d.forBody(frame, cmd.Request.SourceIndex)
		if frame.Halted {
			frame.Scopes.Pop()
			return nil, nil
		}
		if err := d.iterAdvance(iterable); err != nil {
			frame.Scopes.Pop()
			return nil, err
		}
	}
	frame.Scopes.Pop()
	targets := frame.Code.BranchTargets(cmd.Request.SourceIndex)
	end := cmd.Request.SourceIndex + 1
	if len(targets) > 0 {
		end = targets[len(targets)-1]
	}
	frame.Jump(end)
	return nil, nil
}

func (d *Dispatcher) iterAtTail(obj object.Object) (bool, error) {
	if it, ok := obj.(*object.ArrayIterator); ok {
		return it.AtTail(), nil
	}
	return d.callIterMethod(obj, "at_tail")
}

func (d *Dispatcher) iterCurrent(obj object.Object) (object.Object, error) {
	if it, ok := obj.(*object.ArrayIterator); ok {
		return it.Current(), nil
	}
	return d.callIterValueMethod(obj, "obj")
}

func (d *Dispatcher) iterAdvance(obj object.Object) error {
	if it, ok := obj.(*object.ArrayIterator); ok {
		it.Advance()
		return nil
	}
	_, err := d.callIterValueMethod(obj, "step_forward")
	return err
}

func (d *Dispatcher) callIterMethod(obj object.Object, name string) (bool, error) {
	fn, err := d.registry.FetchFunctionImpl(name, string(obj.Type()))
	if err != nil {
		return false, errz.Wrap(err, "foreach container missing "+name)
	}
	result, err := d.Call(fn, []object.Object{obj})
	if err != nil {
		return false, err
	}
	return object.Unpack(result).IsTruthy(), nil
}

func (d *Dispatcher) callIterValueMethod(obj object.Object, name string) (object.Object, error) {
	fn, err := d.registry.FetchFunctionImpl(name, string(obj.Type()))
	if err != nil {
		return nil, errz.Wrap(err, "foreach container missing "+name)
	}
	return d.Call(fn, []object.Object{obj})
}

// forBody runs one iteration of a for-loop body, symmetric with
// loopBody's while handling but bounded by a single pass through the
// block rather than re-checking a guard.
func (d *Dispatcher) forBody(frame *Frame, headIndex int) {
	frame.Advance()
	for {
		cmd, ok := frame.Current()
		if !ok || frame.ActivatedBreak {
			frame.ActivatedBreak = false
			if n, ok := frame.PeekJump(); ok && n == headIndex {
				frame.PopJump()
			}
			frame.Halted = frame.Halted || !ok
			return
		}
		if cmd.Request.Type == op.Command && cmd.Request.Keyword == op.End && cmd.Request.Options.NestRoot == headIndex {
			if n, ok := frame.PeekJump(); ok && n == headIndex {
				frame.PopJump()
			}
			return
		}
		if frame.ActivatedContinue {
			frame.ActivatedContinue = false
			if n, ok := frame.PeekJump(); ok && n == headIndex {
				frame.PopJump()
			}
			return
		}
		result, err := d.step(frame, cmd)
		if err != nil {
			if err == errTailLoop {
				continue
			}
			frame.Halted = true
			return
		}
		if !cmd.Request.Options.VoidCall && result != nil {
			frame.PushReturn(result)
		}
		frame.Advance()
	}
}

// execCaseWhen mirrors execBranch's condition-stack bookkeeping for
// case/when chains: "case" evaluates the subject once and pushes it as
// an implicit comparison target; "when" compares its guard against it.
func (d *Dispatcher) execCaseWhen(frame *Frame, cmd ir.Command) (object.Object, error) {
	switch cmd.Request.Keyword {
	case op.Case:
		args, err := d.evalArgs(frame, cmd.Args)
		if err != nil {
			return nil, err
		}
		if len(args) != 1 {
			return nil, errz.New(errz.KindType, "case requires exactly 1 subject expression")
		}
		frame.PushReturn(args[0])
		frame.PushCondition(false)
		frame.PushBlock()
		frame.Advance()
		return nil, nil
	case op.When:
		subject, ok := frame.PeekReturn()
		if !ok {
			return nil, errz.New(errz.KindInvariant, "when outside of case")
		}
		prior := frame.PopCondition()
		taken := false
		if !prior {
			args, err := d.evalArgs(frame, cmd.Args)
			if err != nil {
				return nil, err
			}
			if len(args) != 1 {
				return nil, errz.New(errz.KindType, "when requires exactly 1 guard expression")
			}
			match, err := object.CompareOp(op.Eq, subject, args[0])
			if err == nil {
				taken = object.Unpack(match).IsTruthy()
			}
		}
		frame.PushCondition(taken || prior)
		if taken {
			frame.Scopes.Push()
			frame.MarkBlockScope()
			frame.Advance()
			return nil, nil
		}
		targets := frame.Code.BranchTargets(cmd.Request.Options.NestRoot)
		frame.Jump(findNextTarget(targets, cmd.Request.SourceIndex))
		return nil, nil
	default:
		return nil, errz.New(errz.KindInvariant, "unreachable")
	}
}

// unwind pops depth intervening if/case chain levels on a continue or
// break's way out to its enclosing loop (spec.md section 4.5,
// Options.EscapeDepth, grounded on original_source/machine.cc's
// CommandContinueOrBreak). Each level's condition marker is always
// popped; its object-stack scope is popped only if that level's taken
// branch opened one. EscapeDepth counts only the blocks strictly between
// the continue/break and its enclosing loop — the loop's own jump target
// and scope are left untouched here, since loopBody/forBody already
// unwind those once they observe ActivatedContinue/ActivatedBreak.
func (d *Dispatcher) unwind(frame *Frame, depth int) {
	for i := 0; i < depth; i++ {
		level, ok := frame.PopBlock()
		if !ok {
			return
		}
		if len(frame.ConditionStack) > 0 {
			frame.PopCondition()
		}
		if level.scope {
			frame.Scopes.Pop()
		}
	}
}

func (d *Dispatcher) execContinue(frame *Frame, cmd ir.Command) (object.Object, error) {
	d.unwind(frame, cmd.Request.Options.EscapeDepth)
	frame.ActivatedContinue = true
	return nil, nil
}

func (d *Dispatcher) execBreak(frame *Frame, cmd ir.Command) (object.Object, error) {
	d.unwind(frame, cmd.Request.Options.EscapeDepth)
	frame.ActivatedBreak = true
	return nil, nil
}

func (d *Dispatcher) execGoto(frame *Frame, cmd ir.Command) (object.Object, error) {
	target, ok := frame.PeekJump()
	if !ok {
		return nil, errz.New(errz.KindInvariant, "goto with no enclosing loop")
	}
	frame.Jump(target)
	return nil, nil
}

func (d *Dispatcher) execBind(frame *Frame, cmd ir.Command) (object.Object, error) {
	if len(cmd.Args) != 2 {
		return nil, errz.New(errz.KindType, "bind requires (name, value), got %d args", len(cmd.Args))
	}
	name := cmd.Args[0].Data
	value, err := d.evalArgument(frame, cmd.Args[1])
	if err != nil {
		return nil, err
	}
	delivered := d.registry.Deliver(value)
	if cmd.Request.Options.LocalObject {
		frame.Scopes.Bind(name, delivered)
	} else {
		frame.Scopes.Assign(name, delivered)
	}
	return nil, nil
}

func (d *Dispatcher) execDeliver(frame *Frame, cmd ir.Command) (object.Object, error) {
	if len(cmd.Args) != 2 {
		return nil, errz.New(errz.KindType, "deliver requires (name, value), got %d args", len(cmd.Args))
	}
	name := cmd.Args[0].Data
	value, err := d.evalArgument(frame, cmd.Args[1])
	if err != nil {
		return nil, err
	}
	if cmd.Request.Options.LocalObject {
		frame.Scopes.Bind(name, value)
	} else {
		frame.Scopes.Assign(name, value)
	}
	return nil, nil
}

func (d *Dispatcher) execSwap(frame *Frame, cmd ir.Command) (object.Object, error) {
	if len(cmd.Args) != 2 || cmd.Args[0].Kind != op.ArgObjectStack || cmd.Args[1].Kind != op.ArgObjectStack {
		return nil, errz.New(errz.KindType, "swap requires two names")
	}
	aName, bName := cmd.Args[0].Data, cmd.Args[1].Data
	aVal, ok := frame.Scopes.Find(aName)
	if !ok {
		return nil, errz.New(errz.KindResolution, "name %q is not found", aName)
	}
	bVal, ok := frame.Scopes.Find(bName)
	if !ok {
		return nil, errz.New(errz.KindResolution, "name %q is not found", bName)
	}
	frame.Scopes.Assign(aName, bVal)
	frame.Scopes.Assign(bName, aVal)
	return nil, nil
}

func (d *Dispatcher) execTypeID(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errz.New(errz.KindType, "typeid requires 1 argument")
	}
	return object.NewString(string(object.Unpack(args[0]).Type())), nil
}

func (d *Dispatcher) execDir(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errz.New(errz.KindType, "dir requires 1 argument")
	}
	methods := d.registry.MethodSet(string(object.Unpack(args[0]).Type()))
	items := make([]object.Object, len(methods))
	for i, m := range methods {
		items[i] = object.NewString(m)
	}
	return object.NewArray(items), nil
}

func (d *Dispatcher) execExist(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errz.New(errz.KindType, "exist requires (object, name)")
	}
	name, ok := object.Unpack(args[1]).(*object.String)
	if !ok {
		return nil, errz.New(errz.KindType, "exist requires a string method name")
	}
	return object.NewBool(d.registry.HasMethod(string(object.Unpack(args[0]).Type()), name.Value())), nil
}

func (d *Dispatcher) execConvert(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, errz.New(errz.KindType, "convert requires (value, typeName)")
	}
	target, ok := object.Unpack(args[1]).(*object.String)
	if !ok {
		return nil, errz.New(errz.KindType, "convert requires a string target type")
	}
	return convertTo(object.Unpack(args[0]), object.Type(target.Value()))
}

func convertTo(v object.Object, target object.Type) (object.Object, error) {
	if v.Type() == target {
		return v, nil
	}
	switch target {
	case object.IntType:
		switch src := v.(type) {
		case *object.Float:
			return object.NewInt(int64(src.Value())), nil
		case *object.Bool:
			if src.Value() {
				return object.NewInt(1), nil
			}
			return object.NewInt(0), nil
		}
	case object.FloatType:
		switch src := v.(type) {
		case *object.Int:
			return object.NewFloat(float64(src.Value())), nil
		case *object.Bool:
			if src.Value() {
				return object.NewFloat(1), nil
			}
			return object.NewFloat(0), nil
		}
	case object.StringType:
		return object.NewString(v.Inspect()), nil
	case object.BoolType:
		return object.NewBool(v.IsTruthy()), nil
	}
	return nil, errz.New(errz.KindType, "cannot convert %s to %s", v.Type(), target)
}

// execRefCount reports how many Ref hops separate the given value from
// the underlying object at the end of its chain (spec.md section 9,
// "Ref chains and RefCount" — resolved to follow each Ref's Target to the
// end of the chain rather than reporting a flat 0/1).
func (d *Dispatcher) execRefCount(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errz.New(errz.KindType, "ref_count requires 1 argument")
	}
	count := 0
	cur := args[0]
	for {
		ref, ok := cur.(*object.Ref)
		if !ok {
			break
		}
		count++
		cur = ref.Target()
	}
	return object.NewInt(int64(count)), nil
}

func (d *Dispatcher) execHash(frame *Frame, cmd ir.Command) (object.Object, error) {
	args, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, errz.New(errz.KindType, "hash requires 1 argument")
	}
	v := object.Unpack(args[0])
	traits, ok := d.registry.Traits(string(v.Type()))
	if !ok || traits.Hasher == nil {
		return nil, errz.New(errz.KindType, "type %s is not hashable", v.Type())
	}
	h, ok := traits.Hasher(v)
	if !ok {
		return nil, errz.New(errz.KindType, "value of type %s is not hashable", v.Type())
	}
	return object.NewInt(int64(h)), nil
}

func (d *Dispatcher) execReturn(frame *Frame, cmd ir.Command) (object.Object, error) {
	var result object.Object = object.Nil
	if len(cmd.Args) == 1 {
		v, err := d.evalArgument(frame, cmd.Args[0])
		if err != nil {
			return nil, err
		}
		result = v
	}
	frame.Halted = true
	return result, nil
}

// execFn builds an IR-bodied function directly from the command's own
// argument list and binds it under the chosen name (spec.md section
// 4.6). There is no registry lookup here: a "fn" template is defined
// inline, at the point it runs, not pre-registered by an upstream
// compiler — the process-wide registry.Registry is sealed before
// Dispatcher.Run ever starts (cmd/coil/run.go), so it cannot serve as
// storage for a value a running program defines on the fly.
//
// cmd.Args[0] names the binding; the remainder declares the parameter
// list, optionally interleaved with op.ArgOptionalMarker/
// ArgVariableMarker tokens immediately preceding the parameter name they
// modify. The body is the slice of the enclosing code unit between this
// command and its matching "end", located by scanning forward for the
// command whose Options.NestEnd/NestRoot name this block — the generic
// block-boundary markers every nested construct carries (as opposed to
// the if/case/while-specific static jump table CodeUnit.BranchTargets
// exposes), matching original_source/machine.cc's ClosureCatching, which
// receives nest_end directly from Request.Options rather than deriving
// it from a branch table.
func (d *Dispatcher) execFn(frame *Frame, cmd ir.Command) (object.Object, error) {
	if len(cmd.Args) < 1 {
		return nil, errz.New(errz.KindType, "fn requires a binding name")
	}
	if !cmd.Request.Options.Nest {
		return nil, errz.New(errz.KindInvariant, "fn command missing its nest marker")
	}
	bindName := cmd.Args[0].Data

	params, pattern, limit, err := parseFnParams(cmd.Args[1:])
	if err != nil {
		return nil, err
	}

	nestEnd := fnBlockEnd(frame, cmd.Request.SourceIndex)
	fn := object.NewIRFunction(bindName, params, pattern, limit, frame.Code, cmd.Request.SourceIndex+1)

	// A closure record is only captured when this "fn" itself runs inside
	// another function's body (frame.Function != nil); a top-level
	// definition has nothing to close over (spec.md section 4.6).
	if frame.Function != nil {
		fn = fn.WithClosure(frame.Scopes.Snapshot())
	}

	frame.Scopes.Bind(bindName, fn)
	frame.Jump(nestEnd)
	return nil, nil
}

// fnBlockEnd scans forward from a "fn" command for the command whose
// Options.NestEnd is set and whose Options.NestRoot names sourceIndex —
// the generic per-command block-boundary markers (spec.md section 3)
// every nested construct carries, not just if/case/while.
func fnBlockEnd(frame *Frame, sourceIndex int) int {
	for i := sourceIndex + 1; i < frame.Code.Len(); i++ {
		cmd, ok := frame.Code.At(i)
		if !ok {
			break
		}
		if cmd.Request.Options.NestEnd && cmd.Request.Options.NestRoot == sourceIndex {
			return i
		}
	}
	return frame.Code.Len()
}

// parseFnParams decodes a "fn" command's parameter-list arguments
// (everything after the binding name) into a parameter-name list and
// binding pattern, enforcing spec.md section 4.6's three rejections
// (section 7, "Invariant"): optional and variable combined, variable not
// last, and a plain parameter following the first optional marker.
// Grounded on original_source/machine.cc's ClosureCatching, which walks
// the same argument list tracking identical "optional"/"variable"
// sentinel state.
func parseFnParams(args []ir.Argument) ([]string, op.ParamPattern, int, error) {
	var params []string
	sawOptional := false
	sawVariable := false
	optionalCount := 0

	for i := 0; i < len(args); i++ {
		switch args[i].Kind {
		case op.ArgOptionalMarker:
			if sawVariable {
				return nil, 0, 0, errz.New(errz.KindInvariant, "variable and optional parameters can't be combined")
			}
			i++
			if i >= len(args) {
				return nil, 0, 0, errz.New(errz.KindInvariant, "optional marker with no parameter name")
			}
			params = append(params, args[i].Data)
			sawOptional = true
			optionalCount++

		case op.ArgVariableMarker:
			if sawOptional {
				return nil, 0, 0, errz.New(errz.KindInvariant, "variable and optional parameters can't be combined")
			}
			if sawVariable {
				return nil, 0, 0, errz.New(errz.KindInvariant, "variable parameter can be defined only once")
			}
			if i != len(args)-2 {
				return nil, 0, 0, errz.New(errz.KindInvariant, "variable parameter must be last")
			}
			i++
			params = append(params, args[i].Data)
			sawVariable = true

		default:
			if sawOptional {
				return nil, 0, 0, errz.New(errz.KindInvariant, "optional parameters must come after all normal parameters")
			}
			params = append(params, args[i].Data)
		}
	}

	switch {
	case sawVariable:
		return params, op.AutoSize, 0, nil
	case sawOptional:
		return params, op.AutoFill, len(params) - optionalCount, nil
	default:
		return params, op.Normal, 0, nil
	}
}
