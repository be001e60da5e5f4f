// Package vm implements the stack-based virtual machine that executes a
// compiled object.Function: the fetch-decode-execute loop, the explicit
// call-frame stack (spec.md §5), and the closure/class runtime described
// in spec.md §7 and §9.
package vm

import (
	"fmt"
	"io"

	"nilan/bytecode"
	"nilan/object"
	"nilan/token"
	"nilan/value"
)

// framesMax bounds the explicit call-frame stack, standing in for the
// reference implementation's recursion-depth limit (spec.md §5).
const framesMax = 1 << 10

// openUpvalueEntry remembers which absolute stack slot an open
// object.Upvalue still tracks, so closeUpvalues can find every upvalue at
// or above a given slot without comparing *value.Value pointers directly
// (Go pointer ordering is undefined, unlike the reference implementation's
// sorted linked list over raw stack addresses).
type openUpvalueEntry struct {
	slot int
	up   *object.Upvalue
}

// VM is one interpreter instance: a value stack, an explicit call-frame
// stack, the global-variable table, and the upvalues still open onto live
// stack slots.
type VM struct {
	stack        stack
	frames       []callFrame
	globals      map[string]value.Value
	openUpvalues []openUpvalueEntry
	out          io.Writer
}

// New creates a VM that writes OpPrint output to out.
func New(out io.Writer) *VM {
	return &VM{globals: make(map[string]value.Value), out: out}
}

// Reset clears everything about vm that a single Run call leaves behind —
// the call-frame stack, the open upvalues, and the value stack — while
// keeping globals intact (spec.md §6's `vm.reset()`). Run calls this on
// every entry, which is what lets a REPL reuse one VM across lines: a
// runtime error on one line can no longer leave stale frames for the next
// line's Run to resume executing.
func (vm *VM) Reset() {
	vm.frames = vm.frames[:0]
	vm.openUpvalues = vm.openUpvalues[:0]
	vm.stack.truncateTo(0)
}

// Run wraps fn in a Closure and executes it to completion. Run may be
// called more than once on the same VM — a REPL does this, and each call
// sees the globals declared by every prior call. Run resets the call-frame
// and value stacks on entry, so a prior call's runtime error can't corrupt
// the next one.
func (vm *VM) Run(fn *object.Function) error {
	vm.Reset()
	entry := fn.Body.SpanAt(0)
	closure := &object.Closure{Function: fn}
	if !vm.stack.push(value.FromObject(closure)) {
		return stackOverflowError(entry)
	}
	if err := vm.call(closure, 0, entry); err != nil {
		return err
	}
	return vm.run()
}

func (vm *VM) frame() *callFrame {
	return &vm.frames[len(vm.frames)-1]
}

// run is the fetch-decode-execute loop. It returns when the outermost
// call frame (the script itself) returns, or on the first runtime error.
func (vm *VM) run() error {
	for len(vm.frames) > 0 {
		f := vm.frame()
		code := f.closure.Function.Body
		instr := code.Code[f.ip]
		span := code.SpanAt(f.ip)
		f.ip++

		if err := vm.exec(f, code, instr, span); err != nil {
			return err
		}
	}
	return nil
}

// exec dispatches a single instruction against frame f (f.ip already
// advanced past instr).
func (vm *VM) exec(f *callFrame, code *bytecode.Executable, instr bytecode.Instruction, span token.Span) error {
	switch instr.Op {
	case bytecode.OpConstant:
		if !vm.stack.push(code.GetConstant(instr.Operand)) {
			return stackOverflowError(span)
		}

	case bytecode.OpPop:
		vm.stack.pop()

	case bytecode.OpNegate:
		v := vm.stack.pop()
		if !v.IsNumber() {
			return typeMismatchError(span, "operand must be a number")
		}
		vm.stack.push(value.Number(-v.AsNumber()))

	case bytecode.OpNot:
		v := vm.stack.pop()
		vm.stack.push(value.Bool(!v.Truthy()))

	case bytecode.OpAdd:
		b, a := vm.stack.pop(), vm.stack.pop()
		switch {
		case a.IsNumber() && b.IsNumber():
			vm.stack.push(value.Number(a.AsNumber() + b.AsNumber()))
		case a.IsString() && b.IsString():
			vm.stack.push(value.String(a.AsString() + b.AsString()))
		default:
			return typeMismatchError(span, "operands must be two numbers or two strings")
		}

	case bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide,
		bytecode.OpLess, bytecode.OpLessEqual, bytecode.OpGreater, bytecode.OpGreaterEqual:
		b, a := vm.stack.pop(), vm.stack.pop()
		if !a.IsNumber() || !b.IsNumber() {
			return typeMismatchError(span, "operands must be numbers")
		}
		x, y := a.AsNumber(), b.AsNumber()
		switch instr.Op {
		case bytecode.OpSubtract:
			vm.stack.push(value.Number(x - y))
		case bytecode.OpMultiply:
			vm.stack.push(value.Number(x * y))
		case bytecode.OpDivide:
			vm.stack.push(value.Number(x / y))
		case bytecode.OpLess:
			vm.stack.push(value.Bool(x < y))
		case bytecode.OpLessEqual:
			vm.stack.push(value.Bool(x <= y))
		case bytecode.OpGreater:
			vm.stack.push(value.Bool(x > y))
		case bytecode.OpGreaterEqual:
			vm.stack.push(value.Bool(x >= y))
		}

	case bytecode.OpEqual:
		b, a := vm.stack.pop(), vm.stack.pop()
		vm.stack.push(value.Bool(a.Equal(b)))

	case bytecode.OpNotEqual:
		b, a := vm.stack.pop(), vm.stack.pop()
		vm.stack.push(value.Bool(!a.Equal(b)))

	case bytecode.OpPrint:
		fmt.Fprintln(vm.out, vm.stack.pop().String())

	case bytecode.OpDeclareGlobal:
		name := code.GetConstant(instr.Operand).AsString()
		vm.globals[name] = vm.stack.pop()

	case bytecode.OpGetGlobal:
		name := code.GetConstant(instr.Operand).AsString()
		v, ok := vm.globals[name]
		if !ok {
			return undefinedGlobalError(span, name)
		}
		if !vm.stack.push(v) {
			return stackOverflowError(span)
		}

	case bytecode.OpSetGlobal:
		name := code.GetConstant(instr.Operand).AsString()
		if _, ok := vm.globals[name]; !ok {
			return undefinedGlobalError(span, name)
		}
		vm.globals[name] = vm.stack.peek(0)

	case bytecode.OpGetLocal:
		if !vm.stack.push(*vm.stack.at(f.base + instr.Operand)) {
			return stackOverflowError(span)
		}

	case bytecode.OpSetLocal:
		*vm.stack.at(f.base+instr.Operand) = vm.stack.peek(0)

	case bytecode.OpGetUpvalue:
		if !vm.stack.push(f.closure.Upvalues[instr.Operand].Get()) {
			return stackOverflowError(span)
		}

	case bytecode.OpSetUpvalue:
		f.closure.Upvalues[instr.Operand].Set(vm.stack.peek(0))

	case bytecode.OpCloseUpvalue:
		vm.closeUpvalues(vm.stack.top - 1)
		vm.stack.pop()

	case bytecode.OpJump:
		f.ip = instr.Operand

	case bytecode.OpJumpIfTrue:
		if vm.stack.peek(0).Truthy() {
			f.ip = instr.Operand
		}

	case bytecode.OpJumpIfFalse:
		if !vm.stack.peek(0).Truthy() {
			f.ip = instr.Operand
		}

	case bytecode.OpClosure:
		fnVal := code.GetConstant(instr.Operand)
		fn, ok := value.Is[*object.Function](fnVal)
		if !ok {
			return typeMismatchError(span, "constant is not a function")
		}
		closure := &object.Closure{Function: fn, Upvalues: make([]*object.Upvalue, len(fn.Upvalues))}
		for i, desc := range fn.Upvalues {
			if desc.FromLocal {
				closure.Upvalues[i] = vm.captureUpvalue(f.base + desc.Index)
			} else {
				closure.Upvalues[i] = f.closure.Upvalues[desc.Index]
			}
		}
		if !vm.stack.push(value.FromObject(closure)) {
			return stackOverflowError(span)
		}

	case bytecode.OpInvoke:
		argCount := instr.Operand
		callee := vm.stack.peek(argCount)
		if err := vm.callValue(callee, argCount, span); err != nil {
			return err
		}

	case bytecode.OpReturn:
		result := vm.stack.pop()
		base := f.base
		vm.closeUpvalues(base)
		vm.frames = vm.frames[:len(vm.frames)-1]
		vm.stack.truncateTo(base)
		if len(vm.frames) > 0 {
			vm.stack.push(result)
		}

	case bytecode.OpClass:
		name := code.GetConstant(instr.Operand).AsString()
		if !vm.stack.push(value.FromObject(object.NewClass(name))) {
			return stackOverflowError(span)
		}

	case bytecode.OpMethod:
		closureVal := vm.stack.pop()
		closure, ok := value.Is[*object.Closure](closureVal)
		if !ok {
			return typeMismatchError(span, "method body is not a closure")
		}
		class, ok := value.Is[*object.Class](vm.stack.peek(0))
		if !ok {
			return typeMismatchError(span, "method target is not a class")
		}
		class.Methods[closure.Function.Name] = closure

	case bytecode.OpInherit:
		subVal := vm.stack.pop()
		subclass, ok := value.Is[*object.Class](subVal)
		if !ok {
			return typeMismatchError(span, "subclass is not a class")
		}
		super, ok := value.Is[*object.Class](vm.stack.peek(0))
		if !ok {
			return typeMismatchError(span, "superclass must be a class")
		}
		for name, m := range super.Methods {
			subclass.Methods[name] = m
		}
		subclass.Superclass = super

	case bytecode.OpGetField:
		name := code.GetConstant(instr.Operand).AsString()
		instance, ok := value.Is[*object.Instance](vm.stack.pop())
		if !ok {
			return typeMismatchError(span, "only instances have properties")
		}
		if v, ok := instance.Fields[name]; ok {
			if !vm.stack.push(v) {
				return stackOverflowError(span)
			}
			break
		}
		method, ok := instance.Class.FindMethod(name)
		if !ok {
			return unknownFieldError(span, name)
		}
		if !vm.stack.push(value.FromObject(&object.BoundMethod{Receiver: instance, Method: method})) {
			return stackOverflowError(span)
		}

	case bytecode.OpSetField:
		name := code.GetConstant(instr.Operand).AsString()
		val := vm.stack.pop()
		instance, ok := value.Is[*object.Instance](vm.stack.pop())
		if !ok {
			return typeMismatchError(span, "only instances have fields")
		}
		instance.Fields[name] = val
		if !vm.stack.push(val) {
			return stackOverflowError(span)
		}

	case bytecode.OpGetSuper:
		name := code.GetConstant(instr.Operand).AsString()
		super, ok := value.Is[*object.Class](vm.stack.pop())
		if !ok {
			return typeMismatchError(span, "super target is not a class")
		}
		instance, ok := value.Is[*object.Instance](vm.stack.pop())
		if !ok {
			return typeMismatchError(span, "super target is not an instance")
		}
		method, ok := super.FindMethod(name)
		if !ok {
			return undefinedSuperMethodError(span, name)
		}
		if !vm.stack.push(value.FromObject(&object.BoundMethod{Receiver: instance, Method: method})) {
			return stackOverflowError(span)
		}

	default:
		return runtimeErr(span, "unknown opcode %v", instr.Op)
	}
	return nil
}

// callValue dispatches an OpInvoke against the callee at stack distance
// argCount from the top, which after the call returns will hold the
// result. callee may be a Closure, a BoundMethod (rebinding `this` to its
// receiver), or a Class (constructing an Instance and, if present,
// invoking its `init`).
func (vm *VM) callValue(callee value.Value, argCount int, span token.Span) error {
	calleeSlot := vm.stack.top - argCount - 1
	if !callee.IsObject() {
		return notCallableError(span)
	}
	switch obj := callee.AsObject().(type) {
	case *object.Closure:
		return vm.call(obj, argCount, span)
	case *object.BoundMethod:
		*vm.stack.at(calleeSlot) = value.FromObject(obj.Receiver)
		return vm.call(obj.Method, argCount, span)
	case *object.Class:
		instance := object.NewInstance(obj)
		*vm.stack.at(calleeSlot) = value.FromObject(instance)
		if init, ok := obj.FindMethod("init"); ok {
			return vm.call(init, argCount, span)
		}
		if argCount != 0 {
			return arityMismatchError(span, 0, argCount)
		}
		vm.stack.truncateTo(calleeSlot + 1)
		return nil
	default:
		return notCallableError(span)
	}
}

func (vm *VM) call(closure *object.Closure, argCount int, span token.Span) error {
	fn := closure.Function
	if argCount != fn.Arity {
		return arityMismatchError(span, fn.Arity, argCount)
	}
	if len(vm.frames) >= framesMax {
		return stackOverflowError(span)
	}
	base := vm.stack.top - argCount - 1
	vm.frames = append(vm.frames, callFrame{closure: closure, base: base})
	return nil
}

// captureUpvalue returns the open upvalue already tracking absolute stack
// slot, or opens a new one — the dedup step spec.md §9 requires so that
// two closures capturing the same local share one cell.
func (vm *VM) captureUpvalue(slot int) *object.Upvalue {
	for _, e := range vm.openUpvalues {
		if e.slot == slot {
			return e.up
		}
	}
	up := object.NewOpenUpvalue(vm.stack.at(slot))
	vm.openUpvalues = append(vm.openUpvalues, openUpvalueEntry{slot: slot, up: up})
	return up
}

// closeUpvalues closes every open upvalue at or above from, detaching it
// from the stack slot it tracked (the slot is about to be popped or
// reused by a returning call frame).
func (vm *VM) closeUpvalues(from int) {
	kept := vm.openUpvalues[:0]
	for _, e := range vm.openUpvalues {
		if e.slot >= from {
			e.up.Close()
		} else {
			kept = append(kept, e)
		}
	}
	vm.openUpvalues = kept
}
