package mustache

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ValueKind identifies the variant of a resolved context [Value].
type ValueKind int

const (
	// ValueAbsent is a name that no scope owns, or a nil value.
	ValueAbsent ValueKind = iota

	// ValueScalar is a string, boolean, number or other printable value.
	ValueScalar

	// ValueList is a slice or array.
	ValueList

	// ValueRecord is a map, struct or [Record] implementation.
	ValueRecord

	// ValueLambda is a callable producing text.
	ValueLambda
)

// String returns a string representation of the value kind.
func (k ValueKind) String() string {
	switch k {
	case ValueAbsent:
		return "Absent"

	case ValueScalar:
		return "Scalar"

	case ValueList:
		return "List"

	case ValueRecord:
		return "Record"

	case ValueLambda:
		return "Lambda"

	default:
		return "Unknown"
	}
}

// Value is the result of resolving a name against a [Stack].
// Exactly one of the accessors matching [Value.Kind] is meaningful.
type Value struct {
	kind   ValueKind
	raw    any
	list   []any
	record Record
	lambda *Lambda
}

// Kind returns the variant of v.
func (v Value) Kind() ValueKind { return v.kind }

// Raw returns the underlying Go value, or nil for absent values and lambdas.
func (v Value) Raw() any { return v.raw }

// List returns the elements of a [ValueList].
func (v Value) List() []any { return v.list }

// Record returns the scope of a [ValueRecord].
func (v Value) Record() Record { return v.record }

// Lambda returns the wrapper of a [ValueLambda].
func (v Value) Lambda() *Lambda { return v.lambda }

// Truthy reports whether a section over v renders its body.
// Absent values, false, empty strings, numeric zero and empty lists are
// falsey; records and lambdas are always truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case ValueAbsent:
		return false

	case ValueList:
		return len(v.list) > 0

	case ValueScalar:
		return !isZeroScalar(v.raw)

	default:
		return true
	}
}

// String returns the text interpolated for v.
// Lambdas are not invoked; use [Lambda.Call].
func (v Value) String() string {
	switch v.kind {
	case ValueAbsent, ValueLambda:
		return ""

	case ValueList:
		part := make([]string, len(v.list))
		for i, elem := range v.list {
			part[i] = toText(elem)
		}

		return strings.Join(part, ",")

	default:
		return toText(v.raw)
	}
}

// ValueOf classifies an arbitrary Go value without invoking it.
// Zero-argument functions are classified as scalars; the resolver invokes
// them before classification.
func ValueOf(raw any) Value {
	return valueOf(raw, nil, "")
}

// valueOf classifies raw. The owner and name identify where raw was found
// and are captured by lambda wrappers for memoization.
func valueOf(raw any, owner Record, name string) Value {
	if isNil(raw) {
		return Value{kind: ValueAbsent}
	}

	if fn, ok := asLambdaFunc(raw); ok {
		storer, _ := owner.(Storer)

		return Value{
			kind:   ValueLambda,
			lambda: &Lambda{fn: fn, owner: storer, name: name},
		}
	}

	if list, ok := asList(raw); ok {
		return Value{kind: ValueList, raw: raw, list: list}
	}

	if rec, ok := asRecord(raw); ok {
		return Value{kind: ValueRecord, raw: raw, record: rec}
	}

	return Value{kind: ValueScalar, raw: raw}
}

// LambdaFunc is the canonical lambda signature. Section lambdas receive the
// unrendered section body; interpolation lambdas receive the empty string.
// The returned text is rendered as a template.
type LambdaFunc func(text string) string

// Lambda wraps a callable context value found in a scope.
type Lambda struct {
	fn    func(string) any
	owner Storer
	name  string
}

// Call invokes the wrapped function and converts its result to text.
//
// With no arguments the function receives the empty string, and the result
// is written back to the owning scope under the resolved name when that
// scope implements [Storer]. Later lookups of the name then see the text
// instead of the function. Calls with an argument are never memoized.
func (l *Lambda) Call(args ...string) string {
	var text string
	if len(args) > 0 {
		text = args[0]
	}

	out := toText(l.fn(text))

	if len(args) == 0 && l.owner != nil {
		l.owner.Store(l.name, out)
	}

	return out
}

// asLambdaFunc recognizes callables taking a single string argument.
func asLambdaFunc(raw any) (func(string) any, bool) {
	switch fn := raw.(type) {
	case LambdaFunc:
		return func(s string) any { return fn(s) }, true

	case func(string) string:
		return func(s string) any { return fn(s) }, true

	case func(string) any:
		return fn, true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Func {
		return nil, false
	}

	t := rv.Type()
	if t.IsVariadic() || t.NumIn() != 1 || t.NumOut() == 0 ||
		t.In(0).Kind() != reflect.String {
		return nil, false
	}

	return func(s string) any {
		arg := reflect.ValueOf(s).Convert(t.In(0))

		return rv.Call([]reflect.Value{arg})[0].Interface()
	}, true
}

// invokeNullary calls raw if it is a function taking no arguments and
// returning at least one value. It reports whether raw was invoked.
func invokeNullary(raw any) (any, bool) {
	switch fn := raw.(type) {
	case func() string:
		return fn(), true

	case func() any:
		return fn(), true
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return raw, false
	}

	t := rv.Type()
	if t.IsVariadic() || t.NumIn() != 0 || t.NumOut() == 0 {
		return raw, false
	}

	return rv.Call(nil)[0].Interface(), true
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true

	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}

	return list, true
}

func isNil(raw any) bool {
	if raw == nil {
		return true
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan:
		return rv.IsNil()

	default:
		return false
	}
}

func isZeroScalar(raw any) bool {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr, reflect.Float32, reflect.Float64:
		return rv.IsZero()

	case reflect.Slice:
		return rv.Len() == 0 // []byte

	default:
		return false
	}
}

// toText converts a context value to its interpolated text.
func toText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""

	case string:
		return v

	case []byte:
		return string(v)

	case bool:
		return strconv.FormatBool(v)

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)

	case fmt.Stringer:
		return v.String()
	}

	if list, ok := asList(raw); ok {
		return Value{kind: ValueList, list: list}.String()
	}

	return fmt.Sprint(raw)
}
