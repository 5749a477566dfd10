package runtime

import (
	"strconv"

	"github.com/coilscript/coil/errz"
	"github.com/coilscript/coil/ir"
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	"github.com/rs/zerolog"
)

// DefaultMaxCallDepth bounds the dispatcher's frame stack, guarding
// against runaway non-tail recursion the way the teacher's
// vm.MaxFrameDepth guards its register machine.
const DefaultMaxCallDepth = 1024

// Dispatcher is the main execution engine: it owns the frame stack and
// walks one ir.CodeUnit's commands against a sealed registry.Registry.
// Grounded on the teacher's VirtualMachine (frame stack, run loop,
// Call/callFunction split), generalized from register/local-slot
// addressing to coil's named ObjectStack scopes.
type Dispatcher struct {
	registry     *registry.Registry
	frames       []*Frame
	events       EventSource
	log          zerolog.Logger
	maxCallDepth int
}

// New builds a Dispatcher bound to reg, which must already be sealed
// (spec.md section 5, "Shared resources").
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry:     reg,
		log:          zerolog.Nop(),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes code from its first command as the top-level program
// frame and returns the last value left on its return stack, or Nil if
// it never pushed one.
func (d *Dispatcher) Run(code *ir.CodeUnit) (object.Object, error) {
	frame := NewFrame(code, 0, nil, -1)
	d.frames = append(d.frames, frame)
	defer func() { d.frames = d.frames[:len(d.frames)-1] }()
	return d.run(frame)
}

// run steps frame until it halts (instruction pointer runs past the end
// of its code, or a "return" command fires) and returns the frame's
// final result.
func (d *Dispatcher) run(frame *Frame) (object.Object, error) {
	for {
		if frame.Halted {
			break
		}
		cmd, ok := frame.Current()
		if !ok {
			break
		}
		if d.events != nil {
			d.events.BeforeCommand(frame)
		}
		result, err := d.step(frame, cmd)
		if err != nil {
			if err == errTailLoop {
				continue // frame.IP already re-pointed at the callee
			}
			return nil, d.annotate(err, frame, cmd.Request.SourceIndex)
		}
		if frame.Halted {
			if result != nil {
				return result, nil
			}
			if v, ok := frame.PeekReturn(); ok {
				return v, nil
			}
			return object.Nil, nil
		}
		if !cmd.Request.Options.VoidCall && result != nil {
			frame.PushReturn(result)
		}
		frame.Advance()
	}
	if v, ok := frame.PeekReturn(); ok {
		return v, nil
	}
	return object.Nil, nil
}

// annotate attaches a source position and call-trace frame to a
// propagating error the first time it passes through a StructuredError
// boundary, matching the teacher's pattern of enriching errors as they
// unwind rather than at the point they are first raised.
func (d *Dispatcher) annotate(err error, frame *Frame, sourceIndex int) error {
	se, ok := err.(*errz.StructuredError)
	if !ok {
		se = errz.Wrap(err, err.Error())
	}
	if se.SourceIndex < 0 {
		se = se.AtSource(sourceIndex)
	}
	name := "<top-level>"
	if frame.Function != nil {
		name = frame.Function.Name()
	}
	return se.PushFrame(errz.Frame{Function: name, SourceIndex: sourceIndex})
}

// step executes a single command and returns the value it produces (nil
// for void/control-flow commands that produce none).
func (d *Dispatcher) step(frame *Frame, cmd ir.Command) (object.Object, error) {
	switch cmd.Request.Type {
	case op.Null:
		return nil, errz.New(errz.KindInvariant, "encountered a null request slot")
	case op.Ext:
		return d.execCall(frame, cmd)
	case op.Command:
		return d.execKeyword(frame, cmd)
	default:
		return nil, errz.New(errz.KindInvariant, "unknown request type %v", cmd.Request.Type)
	}
}

// evalArgument resolves one ir.Argument to a runtime Object. Argument
// evaluation as a whole proceeds right to left (evalArgs below); a
// single argument's resolution has no further ordering concerns.
func (d *Dispatcher) evalArgument(frame *Frame, arg ir.Argument) (object.Object, error) {
	switch arg.Kind {
	case op.ArgNull:
		return object.Nil, nil
	case op.ArgReturnStack:
		return frame.PopReturn(), nil
	case op.ArgObjectStack:
		v, ok := frame.Scopes.Find(arg.Data)
		if !ok {
			return nil, errz.New(errz.KindResolution, "name %q is not found", arg.Data)
		}
		return v, nil
	case op.ArgNormal:
		return decodeLiteral(frame, arg)
	default:
		return nil, errz.New(errz.KindInvariant, "unknown argument kind %v", arg.Kind)
	}
}

// decodeLiteral turns an ArgNormal argument's encoded text into an
// Object. An Identifier subtype still means "look this name up", kept
// distinct from ArgObjectStack so a compiler can choose either
// representation for a bare name reference.
func decodeLiteral(frame *Frame, arg ir.Argument) (object.Object, error) {
	switch arg.Subtype {
	case op.SubtypeInt:
		n, err := strconv.ParseInt(arg.Data, 10, 64)
		if err != nil {
			return nil, errz.New(errz.KindInvariant, "malformed int literal %q", arg.Data)
		}
		return object.NewInt(n), nil
	case op.SubtypeFloat:
		f, err := strconv.ParseFloat(arg.Data, 64)
		if err != nil {
			return nil, errz.New(errz.KindInvariant, "malformed float literal %q", arg.Data)
		}
		return object.NewFloat(f), nil
	case op.SubtypeBool:
		b, err := strconv.ParseBool(arg.Data)
		if err != nil {
			return nil, errz.New(errz.KindInvariant, "malformed bool literal %q", arg.Data)
		}
		return object.NewBool(b), nil
	case op.SubtypeString:
		return object.NewString(arg.Data), nil
	case op.SubtypeIdentifier:
		v, ok := frame.Scopes.Find(arg.Data)
		if !ok {
			return nil, errz.New(errz.KindResolution, "name %q is not found", arg.Data)
		}
		return v, nil
	default:
		return nil, errz.New(errz.KindInvariant, "unknown literal subtype %v", arg.Subtype)
	}
}

// evalArgs evaluates every argument of cmd right to left (spec.md
// section 4.7), returning them in declared left-to-right order.
func (d *Dispatcher) evalArgs(frame *Frame, args []ir.Argument) ([]object.Object, error) {
	out := make([]object.Object, len(args))
	for i := len(args) - 1; i >= 0; i-- {
		v, err := d.evalArgument(frame, args[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// evalCallArgs evaluates an Ext command's arguments, splitting off the
// receiver (the domain expression) when HasReceiver is set. The receiver
// is always the first argument slot by convention.
func (d *Dispatcher) evalCallArgs(frame *Frame, cmd ir.Command) (args []object.Object, receiver object.Object, err error) {
	all, err := d.evalArgs(frame, cmd.Args)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Request.HasReceiver {
		if len(all) == 0 {
			return nil, nil, errz.New(errz.KindInvariant, "call marked HasReceiver with no arguments")
		}
		return all[1:], all[0], nil
	}
	return all, nil, nil
}
