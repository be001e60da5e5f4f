// Package value implements the runtime Value sum type the compiler emits
// into constant pools and the VM pushes and pops on its stack.
package value

import (
	"math"
	"strconv"
)

// Kind tags which branch of the Value sum is populated.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Object is implemented by every heap-allocated runtime value (Function,
// Closure, Class, Instance, BoundMethod — see package object). Object
// identity is Go pointer identity, which is what backs Value equality and
// reflexivity (P5) for these variants. Reclamation of these objects is left
// to the host's garbage collector: the reference-counted ownership model
// spec.md describes is permitted to be replaced by "a tracing collector
// behind the same interface without changing observable semantics"
// (spec.md §9), which is exactly what using Go's own GC here does.
type Object interface {
	ObjectKind() string
	String() string
}

// Value is the closed sum described in spec.md §3: Number, Bool, Nil,
// String, and the object-wrapped heap values (Function, Closure, Class,
// Instance, BoundMethod). It is a small value type copied by the VM on
// every push/pop, mirroring how Number/Bool/Nil are handled in the
// reference implementation.
type Value struct {
	kind    Kind
	number  float64
	boolean bool
	text    string
	object  Object
}

// Nil is the singular Nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a Bool value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number constructs a Number value.
func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// String constructs a String value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// FromObject wraps a heap object (Function, Closure, Class, Instance,
// BoundMethod) as a Value.
func FromObject(o Object) Value {
	return Value{kind: KindObject, object: o}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsNil() bool   { return v.kind == KindNil }
func (v Value) IsBool() bool  { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsBool returns false if v is not a Bool; callers check IsBool first.
func (v Value) AsBool() bool { return v.boolean }

// AsNumber returns 0 if v is not a Number; callers check IsNumber first.
func (v Value) AsNumber() float64 { return v.number }

// AsString returns "" if v is not a String; callers check IsString first.
func (v Value) AsString() string { return v.text }

// AsObject returns nil if v is not an Object; callers check IsObject first.
func (v Value) AsObject() Object { return v.object }

// Is reports whether v wraps an Object of the given concrete type, and
// returns it on success. Typical use: `fn, ok := value.Is[*object.Closure](v)`.
func Is[T Object](v Value) (T, bool) {
	var zero T
	if v.kind != KindObject {
		return zero, false
	}
	t, ok := v.object.(T)
	return t, ok
}

// Truthy implements reference Lox truthiness: only Nil and the Bool value
// false are falsy; every Number (including zero), every String (including
// empty), and every Object is truthy. spec.md §4.5 also documents a
// deviant revision that treats zero and the empty string as falsy, but
// spec.md §9 explicitly mandates the reference behavior implemented here —
// see DESIGN.md's "Open Question: truthiness" entry.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.boolean
	default:
		return true
	}
}

// Equal implements reference Lox equality: values of different Kinds are
// never equal (no truthy-based cross-type comparison for Bool — spec.md §9
// mandates the reference behavior over the deviant revision spec.md §4.5
// also describes). Object equality is Go pointer identity via the
// underlying interface value, which makes Equal reflexive (P5) for every
// Kind.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.boolean == other.boolean
	case KindNumber:
		return v.number == other.number || (math.IsNaN(v.number) && math.IsNaN(other.number))
	case KindString:
		return v.text == other.text
	case KindObject:
		return v.object == other.object
	default:
		return false
	}
}

// TypeName names v's runtime type: "nil", "bool", "number", "string", or
// the wrapped object's ObjectKind.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return v.object.ObjectKind()
	default:
		return "unknown"
	}
}

// String renders v the way the Print opcode writes it to stdout.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.number)
	case KindString:
		return v.text
	case KindObject:
		return v.object.String()
	default:
		return "<invalid value>"
	}
}

// formatNumber mirrors the reference implementation's float formatting:
// whole numbers print without a trailing ".0" (so `print 9.0;` prints
// "9", matching spec.md §8 scenario 1's "9\n").
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
