package runtime

import (
	"github.com/coilscript/coil/object"
	"github.com/rs/zerolog"
)

// EventSource is the dispatcher's single hook point for an embedding
// host (an interactive stepper, a windowing front end) to observe
// execution without the core depending on any UI library. The
// dispatcher calls BeforeCommand once per command its main run loop
// steps and AfterCall once a call returns; commands inside while/for
// bodies, which loopBody/forBody step themselves, are not reported to
// BeforeCommand. Both are optional to implement via EventSourceFuncs.
// Grounded on the teacher's vm.Observer interface/Option pattern,
// generalized so the hook point can drive a windowed front end (the
// spec's explicit non-goal) without the runtime package ever importing
// one.
type EventSource interface {
	BeforeCommand(frame *Frame)
	AfterCall(fn *object.Function, result object.Object, err error)
}

// EventSourceFuncs adapts plain functions to EventSource; nil fields are
// no-ops.
type EventSourceFuncs struct {
	OnBeforeCommand func(frame *Frame)
	OnAfterCall     func(fn *object.Function, result object.Object, err error)
}

func (e EventSourceFuncs) BeforeCommand(frame *Frame) {
	if e.OnBeforeCommand != nil {
		e.OnBeforeCommand(frame)
	}
}

func (e EventSourceFuncs) AfterCall(fn *object.Function, result object.Object, err error) {
	if e.OnAfterCall != nil {
		e.OnAfterCall(fn, result, err)
	}
}

// Option configures a Dispatcher, mirroring the teacher's functional
// vm.Option pattern.
type Option func(*Dispatcher)

// WithEventSource installs an EventSource the dispatcher reports
// stepping and call events to.
func WithEventSource(events EventSource) Option {
	return func(d *Dispatcher) { d.events = events }
}

// WithLogger installs a zerolog.Logger on the dispatcher. The default is
// zerolog.Nop(), matching the teacher's convention of a silent-by-default
// logger that embedders opt into. The dispatcher keeps the logger but
// writes no log entries of its own.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = logger }
}

// WithMaxCallDepth overrides the default call-stack depth guard.
func WithMaxCallDepth(depth int) Option {
	return func(d *Dispatcher) { d.maxCallDepth = depth }
}
