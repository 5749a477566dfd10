// Package op defines the built-in keyword opcodes and operator types shared
// by the ir and runtime packages.
package op

// Keyword is a built-in command opcode recognized by the dispatcher. A
// Request of RequestType Command carries one of these; a Request of
// RequestType Ext instead carries a domain/id pair resolved against the
// external-function registry at dispatch time.
type Keyword uint16

const (
	Invalid Keyword = 0

	// Arithmetic
	Add Keyword = 1
	Sub Keyword = 2
	Mul Keyword = 3
	Div Keyword = 4

	// Comparison
	Eq Keyword = 10
	Ne Keyword = 11
	Lt Keyword = 12
	Le Keyword = 13
	Gt Keyword = 14
	Ge Keyword = 15

	// Logical
	And Keyword = 20
	Or  Keyword = 21
	Not Keyword = 22

	// Control flow
	If       Keyword = 30
	Elif     Keyword = 31
	Else     Keyword = 32
	End      Keyword = 33
	While    Keyword = 34
	For      Keyword = 35
	Case     Keyword = 36
	When     Keyword = 37
	Continue Keyword = 38
	Break    Keyword = 39
	Goto     Keyword = 40 // internal: used to rejoin a loop/block at block end

	// Binding
	Bind    Keyword = 50
	Deliver Keyword = 51
	Swap    Keyword = 52

	// Introspection
	TypeID   Keyword = 60
	Dir      Keyword = 61
	Exist    Keyword = 62
	Convert  Keyword = 63
	RefCount Keyword = 64
	NullObj  Keyword = 65
	Destroy  Keyword = 66
	Hash     Keyword = 67
	Time     Keyword = 68
	Version  Keyword = 69
	CodeName Keyword = 70

	// Function
	Return Keyword = 80
	Fn     Keyword = 81
)

var keywordNames = map[Keyword]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
	And: "&&", Or: "||", Not: "!",
	If: "if", Elif: "elif", Else: "else", End: "end",
	While: "while", For: "for", Case: "case", When: "when",
	Continue: "continue", Break: "break", Goto: "goto",
	Bind: "bind", Deliver: "deliver", Swap: "swap",
	TypeID: "typeid", Dir: "dir", Exist: "exist", Convert: "convert",
	RefCount: "ref_count", NullObj: "null_obj", Destroy: "destroy",
	Hash: "hash", Time: "time", Version: "version", CodeName: "code_name",
	Return: "return", Fn: "fn",
}

// String returns the surface-level keyword spelling, e.g. "+" for Add.
func (k Keyword) String() string {
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsArithmetic reports whether k is one of the four arithmetic operators.
func (k Keyword) IsArithmetic() bool {
	switch k {
	case Add, Sub, Mul, Div:
		return true
	default:
		return false
	}
}

// IsComparison reports whether k is one of the six comparison operators.
func (k Keyword) IsComparison() bool {
	switch k {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}

// RequestType distinguishes a malformed request, a built-in keyword command,
// and an external (native or user-defined) function call.
type RequestType uint8

const (
	// Null marks a malformed request; decoding one is a frontend panic.
	Null RequestType = iota
	// Command is a built-in keyword (arithmetic, control flow, binding, ...).
	Command
	// Ext is an external function call, optionally with a domain expression.
	Ext
)

// ArgumentKind distinguishes how a Command's Argument is fetched at
// evaluation time; see spec.md section 4.7.
type ArgumentKind uint8

const (
	// ArgNull is a placeholder with no value (used for omitted optional slots).
	ArgNull ArgumentKind = iota
	// ArgNormal carries a literal value parsed from the command stream.
	ArgNormal
	// ArgObjectStack names a binding to resolve on the object stack.
	ArgObjectStack
	// ArgReturnStack consumes (or peeks) a value off the frame's return stack.
	ArgReturnStack
	// ArgOptionalMarker appears in a "fn" command's parameter list: the
	// argument immediately following it is an optional parameter name
	// (spec.md section 4.6).
	ArgOptionalMarker
	// ArgVariableMarker appears in a "fn" command's parameter list: the
	// argument immediately following it is the variadic parameter name,
	// which must be the last declared parameter.
	ArgVariableMarker
)

// LiteralSubtype describes how to parse a Normal argument's literal data.
type LiteralSubtype uint8

const (
	SubtypeInt LiteralSubtype = iota
	SubtypeFloat
	SubtypeBool
	SubtypeString
	SubtypeIdentifier
)

// ParamPattern is the argument-binding pattern declared for a function's
// parameter list; see spec.md section 3 ("Function") and section 4.3.
type ParamPattern uint8

const (
	// Normal requires exactly len(params) arguments, bound pairwise.
	Normal ParamPattern = iota
	// AutoSize is a variadic pattern: the trailing parameter packs any
	// arguments beyond the leading, fixed parameters into an array.
	AutoSize
	// AutoFill is an optional-trailing pattern: arguments beyond Limit may
	// be omitted and are bound to the null object.
	AutoFill
)

func (p ParamPattern) String() string {
	switch p {
	case Normal:
		return "normal"
	case AutoSize:
		return "auto_size"
	case AutoFill:
		return "auto_fill"
	default:
		return "unknown"
	}
}
