// Package arraytrait installs the array container's type traits (deep-
// copy delivery, element-wise comparison) and its method set: head/
// tail/step_forward/compare, len, append, plus a jmespath-backed "query"
// method. The runtime's "for" keyword does not call head/tail/
// step_forward/compare on an array; it iterates through the at_tail/obj/
// step_forward methods, which this package does not register. Grounded on the dependency the teacher's own
// modules/jmespath package carries (github.com/jmespath-community/
// go-jmespath) — the DOMAIN STACK home SPEC_FULL.md names for that
// dependency.
package arraytrait

import (
	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
	jmespath "github.com/jmespath-community/go-jmespath/pkg/api"
)

// methodParams lists each method's declared parameter names, in order;
// "self" is always the receiver slot execCall prepends.
var methodParams = map[string][]string{
	"head":         {"self"},
	"tail":         {"self"},
	"step_forward": {"self"},
	"compare":      {"self", "other"},
	"len":          {"self"},
	"append":       {"self", "value"},
	"query":        {"self", "expression"},
}

// Register installs the array type's traits and method set.
func Register(reg *registry.Registry) {
	methods := []string{"head", "tail", "step_forward", "compare", "len", "append", "query"}
	reg.RegisterType(string(object.ArrayType), registry.TypeTraits{
		Deliver:    deliver,
		Comparator: compare,
		Methods:    methods,
	})
	for _, m := range methods {
		params := methodParams[m]
		reg.RegisterFunction(string(object.ArrayType), m,
			object.NewNativeFunction(m, params, op.Normal, 0, methodFor(m)))
	}
}

func deliver(o object.Object) object.Object {
	arr, ok := object.Unpack(o).(*object.Array)
	if !ok {
		return o
	}
	return arr.Clone(func(elem object.Object) object.Object {
		if nested, ok := elem.(*object.Array); ok {
			return deliver(nested)
		}
		return elem
	})
}

func compare(a, b object.Object) (int, error) {
	arrA, ok := object.Unpack(a).(*object.Array)
	if !ok {
		return 0, errTypeMismatch("compare", a)
	}
	arrB, ok := object.Unpack(b).(*object.Array)
	if !ok {
		return 0, errTypeMismatch("compare", b)
	}
	switch {
	case arrA.Len() < arrB.Len():
		return -1, nil
	case arrA.Len() > arrB.Len():
		return 1, nil
	default:
		if arrA.Equals(arrB) {
			return 0, nil
		}
		return -1, nil
	}
}

func errTypeMismatch(fn string, got object.Object) error {
	msg := object.TypeError(fn, "expected an array, got "+string(got.Type()))
	return argError{msg.Detail}
}

type argError struct{ detail string }

func (e argError) Error() string { return e.detail }

func methodFor(name string) object.NativeFunc {
	switch name {
	case "head":
		return head
	case "tail":
		return tail
	case "step_forward":
		return stepForward
	case "compare":
		return compareMethod
	case "len":
		return length
	case "append":
		return appendElem
	case "query":
		return query
	default:
		panic("arraytrait: unknown method " + name)
	}
}

func selfArray(args map[string]object.Object, fn string) (*object.Array, object.Message) {
	arr, ok := object.Unpack(args["self"]).(*object.Array)
	if !ok {
		return nil, object.TypeError(fn, "receiver must be an array")
	}
	return arr, object.Message{}
}

func head(args map[string]object.Object) object.Message {
	arr, errMsg := selfArray(args, "head")
	if arr == nil {
		return errMsg
	}
	if arr.Len() == 0 {
		return object.Ok(object.Nil)
	}
	v, _ := arr.Get(0)
	return object.Ok(v)
}

func tail(args map[string]object.Object) object.Message {
	arr, errMsg := selfArray(args, "tail")
	if arr == nil {
		return errMsg
	}
	if arr.Len() <= 1 {
		return object.Ok(object.NewArray(nil))
	}
	rest := make([]object.Object, arr.Len()-1)
	for i := 1; i < arr.Len(); i++ {
		v, _ := arr.Get(i)
		rest[i-1] = v
	}
	return object.Ok(object.NewArray(rest))
}

// stepForward is the foreach advance hook: it mutates nothing on the
// array itself (Array has no built-in iterator state) and is only
// meaningful when an array is wrapped by object.ArrayIterator, which
// runtime.Dispatcher handles as a built-in special case. This
// registration exists so a user type embedding an array as backing
// storage can delegate its own step_forward to this one.
func stepForward(args map[string]object.Object) object.Message {
	return object.Ok(object.Nil)
}

func compareMethod(args map[string]object.Object) object.Message {
	self, errMsg := selfArray(args, "compare")
	if self == nil {
		return errMsg
	}
	other, ok := object.Unpack(args["other"]).(*object.Array)
	if !ok {
		return object.TypeError("compare", "argument must be an array")
	}
	n, err := compare(self, other)
	if err != nil {
		return object.Errorf(object.IllegalParam, err.Error())
	}
	return object.Ok(object.NewInt(int64(n)))
}

func length(args map[string]object.Object) object.Message {
	arr, errMsg := selfArray(args, "len")
	if arr == nil {
		return errMsg
	}
	return object.Ok(object.NewInt(int64(arr.Len())))
}

func appendElem(args map[string]object.Object) object.Message {
	arr, errMsg := selfArray(args, "append")
	if arr == nil {
		return errMsg
	}
	arr.Append(args["value"])
	return object.Ok(arr)
}

// query runs a jmespath expression against the array, converted to a
// plain []interface{} via Object.Interface() and back via toObject.
func query(args map[string]object.Object) object.Message {
	arr, errMsg := selfArray(args, "query")
	if arr == nil {
		return errMsg
	}
	expr, ok := object.Unpack(args["expression"]).(*object.String)
	if !ok {
		return object.TypeError("query", "expression must be a string")
	}
	result, err := jmespath.Search(expr.Value(), arr.Interface())
	if err != nil {
		return object.Errorf(object.IllegalCall, "query: "+err.Error())
	}
	return object.Ok(toObject(result))
}

func toObject(v interface{}) object.Object {
	switch val := v.(type) {
	case nil:
		return object.Nil
	case bool:
		return object.NewBool(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case []interface{}:
		items := make([]object.Object, len(val))
		for i, e := range val {
			items[i] = toObject(e)
		}
		return object.NewArray(items)
	default:
		return object.NewString("")
	}
}
