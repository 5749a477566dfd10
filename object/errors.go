package object

import "fmt"

// ArgsError builds an IllegalParam Message reporting a native function was
// called with the wrong argument count. Grounded on the same message
// phrasing risor's object.NewArgsError uses for its own native functions.
func ArgsError(fn string, want, got int) Message {
	if want == 1 {
		return Errorf(IllegalParam, fmt.Sprintf(
			"args error: %s() takes exactly 1 argument (%d given)", fn, got))
	}
	return Errorf(IllegalParam, fmt.Sprintf(
		"args error: %s() takes exactly %d arguments (%d given)", fn, want, got))
}

// ArgsRangeError builds an IllegalParam Message for a native function that
// accepts a range of argument counts.
func ArgsRangeError(fn string, min, max, got int) Message {
	if min == max {
		return ArgsError(fn, min, got)
	}
	return Errorf(IllegalParam, fmt.Sprintf(
		"args error: %s() takes between %d and %d arguments (%d given)", fn, min, max, got))
}

// TypeError builds an IllegalParam Message reporting an operand of the
// wrong type.
func TypeError(fn string, detail string) Message {
	return Errorf(IllegalParam, fmt.Sprintf("type error: %s: %s", fn, detail))
}
