package mustache

import (
	"slices"
	"strings"
)

// Stack is the chain of context scopes, innermost last.
//
// A Stack is never modified in place: [Stack.Push] returns a new stack, so
// nested renders cannot leak scopes into their siblings.
type Stack []any

// Push returns a copy of s with scope as the new innermost scope.
func (s Stack) Push(scope any) Stack {
	return append(slices.Clip(s), scope)
}

// Top returns the innermost scope, or nil for an empty stack.
func (s Stack) Top() any {
	if len(s) == 0 {
		return nil
	}

	return s[len(s)-1]
}

// Resolve looks up name in stack. It never fails: names that no scope
// owns resolve to [ValueAbsent].
//
// The name "." is the innermost scope itself. A dotted name such as a.b.c
// resolves its first segment through the stack and each following segment
// in the record found by the previous one.
//
// Zero-argument functions found along the way are invoked and replaced by
// their result. A function taking one string argument resolves to a
// [ValueLambda] bound to the scope that owns it.
func Resolve(name string, stack Stack) Value {
	if name == "." {
		return settle(stack.Top(), nil, name)
	}

	head, rest, dotted := strings.Cut(name, ".")

	raw, owner, found := lookupStack(head, stack)
	if !found {
		return Value{kind: ValueAbsent}
	}

	if !dotted {
		return settle(raw, owner, head)
	}

	for _, seg := range strings.Split(rest, ".") {
		raw, _ = invokeNullary(raw)

		rec, ok := asRecord(raw)
		if !ok {
			return Value{kind: ValueAbsent}
		}

		raw, found = rec.Lookup(seg)
		if !found {
			return Value{kind: ValueAbsent}
		}

		owner, head = rec, seg
	}

	return settle(raw, owner, head)
}

// lookupStack searches stack innermost-first for a record owning name.
func lookupStack(name string, stack Stack) (any, Record, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		rec, ok := asRecord(stack[i])
		if !ok {
			continue
		}

		if raw, found := rec.Lookup(name); found {
			return raw, rec, true
		}
	}

	return nil, nil, false
}

// settle invokes a zero-argument callable and classifies the working value.
func settle(raw any, owner Record, name string) Value {
	raw, _ = invokeNullary(raw)

	return valueOf(raw, owner, name)
}
