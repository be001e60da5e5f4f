// Package object implements the heap-allocated runtime values referenced
// from value.Value: compiled functions, their runtime closures, classes,
// instances and bound methods (spec.md §4.4, §7).
package object

import (
	"fmt"

	"nilan/bytecode"
	"nilan/value"
)

// UpvalueDescriptor records, for one upvalue slot of a compiled Function,
// where the closure that instantiates it should capture the value from:
// a local slot of the immediately enclosing frame, or an upvalue slot of
// that frame's own closure. Exactly one of the two is meaningful,
// selected by FromLocal (spec.md §9's resolve_local/resolve_upvalue).
type UpvalueDescriptor struct {
	FromLocal bool
	Index     int
}

// Function is the compile-time artifact produced for a script, a
// top-level `fun`, or a method: a name, an arity, a compiled body, and
// the upvalue descriptors its closures must capture. Function itself
// never appears on the VM stack directly — it is always wrapped in a
// Closure, even when it captures nothing (spec.md §4.4).
type Function struct {
	Name      string
	Arity     int
	Body      *bytecode.Executable
	Upvalues  []UpvalueDescriptor
}

func (f *Function) ObjectKind() string { return "function" }

func (f *Function) String() string {
	if f.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// Upvalue is a single captured variable cell. While Open, Slot points
// directly into the owning VM frame's stack storage, so writes through
// the closure and writes from the enclosing frame observe each other
// (spec.md §9's "mutation through a closure is visible to the
// function that declared the variable, and vice versa"). Close copies
// the current value out of the stack into Closed and repoints Slot at
// it, so the upvalue keeps working after its owning frame is popped.
//
// This requires that *value.Value pointers taken into the VM's value
// stack stay valid for the upvalue's lifetime, which is why the VM uses
// a fixed-capacity stack array rather than a growable slice (see
// DESIGN.md).
type Upvalue struct {
	Slot   *value.Value
	Closed value.Value
}

func NewOpenUpvalue(slot *value.Value) *Upvalue {
	return &Upvalue{Slot: slot}
}

func (u *Upvalue) ObjectKind() string { return "upvalue" }
func (u *Upvalue) String() string     { return "<upvalue>" }

// IsOpen reports whether the upvalue still points into a live stack
// frame rather than its own Closed storage.
func (u *Upvalue) IsOpen() bool { return u.Slot != &u.Closed }

// Close copies the current slot contents into Closed and repoints Slot
// at that owned copy, detaching the upvalue from the stack slot it used
// to track.
func (u *Upvalue) Close() {
	u.Closed = *u.Slot
	u.Slot = &u.Closed
}

// Get reads the upvalue's current value, whether open or closed.
func (u *Upvalue) Get() value.Value { return *u.Slot }

// Set writes through to the upvalue's current storage.
func (u *Upvalue) Set(v value.Value) { *u.Slot = v }

// Closure pairs a compiled Function with the Upvalues its instantiation
// captured. Every callable value on the VM stack is a Closure, even for
// functions that capture nothing — this keeps OpInvoke's dispatch
// uniform (spec.md §4.4, §9).
type Closure struct {
	Function *Function
	Upvalues []*Upvalue
}

func (c *Closure) ObjectKind() string { return "closure" }
func (c *Closure) String() string     { return c.Function.String() }

// Class is a runtime class value: a name and its own method table
// (already flattened to include inherited methods by OpInherit at the
// point the subclass was declared, per spec.md §7's inheritance model).
type Class struct {
	Name       string
	Methods    map[string]*Closure
	Superclass *Class
}

func NewClass(name string) *Class {
	return &Class{Name: name, Methods: make(map[string]*Closure)}
}

func (c *Class) ObjectKind() string { return "class" }
func (c *Class) String() string     { return fmt.Sprintf("<class %s>", c.Name) }

// FindMethod looks up name directly on c's own method table. OpInherit
// already copies superclass methods into a subclass at class-declaration
// time, so this does not walk the inheritance chain itself. OpInherit also
// records Superclass, but OpGetSuper does not read it: `super.name` is
// resolved by calling FindMethod on the superclass value the compiler loads
// from the enclosing "super" binding.
func (c *Class) FindMethod(name string) (*Closure, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// Instance is a runtime object of some Class, with its own field table
// distinct from its class's method table (spec.md §7).
type Instance struct {
	Class  *Class
	Fields map[string]value.Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]value.Value)}
}

func (i *Instance) ObjectKind() string { return "instance" }
func (i *Instance) String() string     { return fmt.Sprintf("<instance %s>", i.Class.Name) }

// BoundMethod pairs a method Closure with the Instance it was looked up
// on, so that invoking it later still sees the right `this` (spec.md
// §7's "method values retain their receiver" requirement). The VM
// constructs one on every OpGetField/OpGetSuper that resolves to a
// method rather than a field.
type BoundMethod struct {
	Receiver *Instance
	Method   *Closure
}

func (b *BoundMethod) ObjectKind() string { return "bound method" }
func (b *BoundMethod) String() string     { return b.Method.String() }
