// Package bytecode defines the Executable the Compiler emits and the VM
// interprets: an append-only, randomly-indexable instruction stream with a
// parallel constant pool and span table (spec.md §4.3).
package bytecode

// OpCode is one instruction in an Executable's Code stream.
type OpCode int

const (
	// OpConstant pushes Constants[operand].
	OpConstant OpCode = iota
	// OpPop discards the top of the stack.
	OpPop
	// OpNegate/OpNot are unary operators on the top of the stack.
	OpNegate
	OpNot
	// OpAdd/OpSubtract/OpMultiply/OpDivide are binary arithmetic operators.
	// OpAdd additionally concatenates two Strings.
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	// OpLess/OpLessEqual/OpGreater/OpGreaterEqual compare two Numbers.
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	// OpEqual/OpNotEqual compare any two values by value.Equal.
	OpEqual
	OpNotEqual
	// OpPrint pops and writes the result to the VM's output sink.
	OpPrint
	// OpDeclareGlobal pops the top of stack and binds it as a new global
	// named Constants[operand], for `var`/`fun`/`class` declarations at
	// top level.
	OpDeclareGlobal
	// OpGetGlobal pushes the current value of the global named
	// Constants[operand].
	OpGetGlobal
	// OpSetGlobal assigns the top of stack to the existing global named
	// Constants[operand] (an error if it was never declared), leaving the
	// value on the stack as the assignment expression's result.
	OpSetGlobal
	// OpGetLocal / OpSetLocal read or write stack[base+operand].
	OpGetLocal
	OpSetLocal
	// OpGetUpvalue / OpSetUpvalue read or write the running closure's
	// Upvalues[operand].
	OpGetUpvalue
	OpSetUpvalue
	// OpCloseUpvalue closes every open upvalue pointing at or above the
	// current top of stack, then pops it, per the open/closed upvalue
	// discipline described in spec.md §9.
	OpCloseUpvalue
	// OpJump / OpJumpIfTrue / OpJumpIfFalse set ip to operand (an absolute
	// instruction index). The conditional forms peek rather than pop.
	OpJump
	OpJumpIfTrue
	OpJumpIfFalse
	// OpClosure builds a Closure from the Function constant at operand and
	// the upvalue sources visible to the currently compiling frame.
	OpClosure
	// OpInvoke calls the callable value operand-many slots below the top
	// of stack, which holds the last argument.
	OpInvoke
	// OpReturn copies the top of stack into the frame's base slot and
	// unwinds the current call.
	OpReturn
	// OpClass pushes a freshly constructed, method-less Class named
	// Constants[operand].
	OpClass
	// OpMethod attaches the closure at the top of the stack to the class
	// below it under the closure's function name, popping the closure.
	OpMethod
	// OpInherit copies every method from the superclass (second from top)
	// into the subclass (top), then pops the subclass copy — the
	// superclass value stays in place, since it doubles as the enclosing
	// "super" binding (spec.md §7, §9).
	OpInherit
	// OpGetField / OpSetField access Constants[operand] (a field/method
	// name) on an instance. OpGetField pops the instance at the top of the
	// stack; OpSetField pops the value at the top and the instance beneath
	// it, then pushes the value back.
	OpGetField
	OpSetField
	// OpGetSuper resolves Constants[operand] as a method name on the
	// superclass at the top of the stack, binding it to the receiver
	// beneath it, producing a BoundMethod, and popping both.
	OpGetSuper
)

var opcodeNames = [...]string{
	OpConstant:      "OP_CONSTANT",
	OpPop:           "OP_POP",
	OpNegate:        "OP_NEGATE",
	OpNot:           "OP_NOT",
	OpAdd:           "OP_ADD",
	OpSubtract:      "OP_SUBTRACT",
	OpMultiply:      "OP_MULTIPLY",
	OpDivide:        "OP_DIVIDE",
	OpLess:          "OP_LESS",
	OpLessEqual:     "OP_LESS_EQUAL",
	OpGreater:       "OP_GREATER",
	OpGreaterEqual:  "OP_GREATER_EQUAL",
	OpEqual:         "OP_EQUAL",
	OpNotEqual:      "OP_NOT_EQUAL",
	OpPrint:         "OP_PRINT",
	OpDeclareGlobal: "OP_DECLARE_GLOBAL",
	OpGetGlobal:     "OP_GET_GLOBAL",
	OpSetGlobal:     "OP_SET_GLOBAL",
	OpGetLocal:      "OP_GET_LOCAL",
	OpSetLocal:      "OP_SET_LOCAL",
	OpGetUpvalue:    "OP_GET_UPVALUE",
	OpSetUpvalue:    "OP_SET_UPVALUE",
	OpCloseUpvalue:  "OP_CLOSE_UPVALUE",
	OpJump:          "OP_JUMP",
	OpJumpIfTrue:    "OP_JUMP_IF_TRUE",
	OpJumpIfFalse:   "OP_JUMP_IF_FALSE",
	OpClosure:       "OP_CLOSURE",
	OpInvoke:        "OP_INVOKE",
	OpReturn:        "OP_RETURN",
	OpClass:         "OP_CLASS",
	OpMethod:        "OP_METHOD",
	OpInherit:       "OP_INHERIT",
	OpGetField:      "OP_GET_FIELD",
	OpSetField:      "OP_SET_FIELD",
	OpGetSuper:      "OP_GET_SUPER",
}

func (op OpCode) String() string {
	if int(op) >= 0 && int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}

// HasOperand reports whether op carries a meaningful Instruction.Operand.
// OpPop, OpNegate and the other zero-operand opcodes always encode 0, but
// disassembly omits it for readability.
func (op OpCode) HasOperand() bool {
	switch op {
	case OpPop, OpNegate, OpNot, OpAdd, OpSubtract, OpMultiply, OpDivide,
		OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpEqual, OpNotEqual,
		OpPrint, OpReturn, OpInherit, OpCloseUpvalue:
		return false
	default:
		return true
	}
}
