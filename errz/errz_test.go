package errz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageWithoutSource(t *testing.T) {
	err := New(KindResolution, "function %q is not found", "head")
	require.Equal(t, `resolution error: function "head" is not found`, err.Error())
}

func TestErrorMessageWithSource(t *testing.T) {
	err := New(KindInvariant, "scope stack underflow").AtSource(7)
	require.Equal(t, "invariant violation: scope stack underflow (command 7)", err.Error())
}

func TestPushFrameOrdersOutermostFirst(t *testing.T) {
	err := New(KindType, "bad arity").AtSource(3)
	err = err.PushFrame(Frame{Function: "inner", SourceIndex: 3})
	err = err.PushFrame(Frame{Function: "outer", SourceIndex: 9})
	require.Equal(t, "outer", err.Trace[0].Function)
	require.Equal(t, "inner", err.Trace[1].Function)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("native failure")
	err := Wrap(cause, "call to write failed")
	require.ErrorIs(t, err, cause)
	require.Equal(t, "propagated error: call to write failed", err.Error())
}
