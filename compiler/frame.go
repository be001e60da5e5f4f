package compiler

import "nilan/object"

type functionKind int

const (
	kindScript functionKind = iota
	kindFunction
	kindMethod
	kindInitializer
)

// local tracks one declared-but-maybe-not-yet-initialized local
// variable in the frame currently being compiled, mirroring the
// reference implementation's Local (declareLocal/resolveLocal), plus
// isCaptured so endScope knows whether popping it must also close an
// upvalue (spec.md §9).
type local struct {
	name        string
	depth       int
	initialized bool
	isCaptured  bool
}

// frame holds per-function compiler state: the function being built, its
// declared locals and resolved upvalues, and a link to the enclosing
// frame so resolveUpvalue can walk outward (spec.md §9's
// resolve_local/resolve_upvalue).
type frame struct {
	enclosing  *frame
	fn         *object.Function
	kind       functionKind
	locals     []local
	upvalues   []object.UpvalueDescriptor
	scopeDepth int
}

func newFrame(enclosing *frame, fn *object.Function, kind functionKind) *frame {
	f := &frame{enclosing: enclosing, fn: fn, kind: kind}
	// Slot 0 is reserved for the receiver in methods/initializers, and
	// otherwise unnamed and unused — this keeps local slot indices
	// uniform across function kinds.
	receiverName := ""
	if kind == kindMethod || kind == kindInitializer {
		receiverName = "this"
	}
	f.locals = append(f.locals, local{name: receiverName, depth: 0, initialized: true})
	return f
}

// resolveLocal returns the slot index of name in f's own locals, or -1.
func (f *frame) resolveLocal(name string) int {
	for i := len(f.locals) - 1; i >= 0; i-- {
		if f.locals[i].name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue resolves name as a captured variable of an enclosing
// frame, recursively threading the capture through every intermediate
// frame and deduplicating repeated captures of the same source, exactly
// as the reference algorithm this is grounded on (spec.md §9).
func (f *frame) resolveUpvalue(name string) int {
	if f.enclosing == nil {
		return -1
	}
	if slot := f.enclosing.resolveLocal(name); slot != -1 {
		f.enclosing.locals[slot].isCaptured = true
		return f.addUpvalue(object.UpvalueDescriptor{FromLocal: true, Index: slot})
	}
	if up := f.enclosing.resolveUpvalue(name); up != -1 {
		return f.addUpvalue(object.UpvalueDescriptor{FromLocal: false, Index: up})
	}
	return -1
}

func (f *frame) addUpvalue(desc object.UpvalueDescriptor) int {
	for i, existing := range f.upvalues {
		if existing == desc {
			return i
		}
	}
	f.upvalues = append(f.upvalues, desc)
	f.fn.Upvalues = append(f.fn.Upvalues, desc)
	return len(f.upvalues) - 1
}

// beginScope/endScope bracket a lexical block. endScope returns the
// locals that went out of scope, innermost (most recently declared)
// first, so the caller can emit the right close/pop instruction for
// each.
func (f *frame) beginScope() { f.scopeDepth++ }

func (f *frame) endScope() []local {
	f.scopeDepth--
	var popped []local
	for len(f.locals) > 0 && f.locals[len(f.locals)-1].depth > f.scopeDepth {
		popped = append(popped, f.locals[len(f.locals)-1])
		f.locals = f.locals[:len(f.locals)-1]
	}
	return popped
}

// classContext tracks whether the method body currently being compiled
// is inside a class, and whether that class has a superclass — needed
// to validate `this` and `super` usage (spec.md §7).
type classContext struct {
	enclosing     *classContext
	hasSuperclass bool
}
