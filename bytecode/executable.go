package bytecode

import (
	"fmt"
	"io"

	"nilan/token"
	"nilan/value"
)

// MaxInstructions is the largest number of instructions a single Executable
// may hold (spec.md §4.3: "at most 2^16 − 1 instructions long").
const MaxInstructions = 1<<16 - 1

// Instruction is one slot in an Executable's Code stream: an OpCode plus,
// for opcodes that need one, a single int operand (a constant-pool index,
// a stack slot, or an absolute jump target).
type Instruction struct {
	Op      OpCode
	Operand int
}

// Executable is the append-only, randomly-indexable instruction stream
// produced by compiling one function or the top-level script (spec.md
// §4.3). Spans is parallel to Code: Spans[i] is the source range that
// produced Code[i], used to resolve a runtime error's location from the
// VM's instruction pointer.
type Executable struct {
	Name      string
	Code      []Instruction
	Constants []value.Value
	Spans     []token.Span
}

// New creates an empty Executable for the function or script named name.
func New(name string) *Executable {
	return &Executable{Name: name}
}

// Len returns the number of instructions currently in Code.
func (e *Executable) Len() int {
	return len(e.Code)
}

// PushOpcode appends a zero-operand instruction at span and returns its
// index.
func (e *Executable) PushOpcode(op OpCode, span token.Span) int {
	return e.push(Instruction{Op: op}, span)
}

// PushInstruction appends an instruction carrying operand at span and
// returns its index.
func (e *Executable) PushInstruction(op OpCode, operand int, span token.Span) int {
	return e.push(Instruction{Op: op, Operand: operand}, span)
}

func (e *Executable) push(instr Instruction, span token.Span) int {
	e.Code = append(e.Code, instr)
	e.Spans = append(e.Spans, span)
	return len(e.Code) - 1
}

// PatchOperand overwrites the operand of the instruction at index i. Used
// to back-patch forward jumps once the jump target is known (spec.md
// §4.3's `index_mut`).
func (e *Executable) PatchOperand(i int, operand int) {
	e.Code[i].Operand = operand
}

// PatchJumpHere rewrites the jump instruction at index i to target the
// current end of the instruction stream — the typical back-patch for a
// forward jump recorded before its body was compiled.
func (e *Executable) PatchJumpHere(i int) {
	e.PatchOperand(i, e.Len())
}

// AddConstant appends v to the constant pool and returns its index.
func (e *Executable) AddConstant(v value.Value) int {
	e.Constants = append(e.Constants, v)
	return len(e.Constants) - 1
}

// GetConstant returns the constant at index i.
func (e *Executable) GetConstant(i int) value.Value {
	return e.Constants[i]
}

// SpanAt returns the span recorded for the instruction at ip, used by the
// VM to locate runtime errors. Out-of-range ip values (can arise from a
// malformed bytecode stream) return the zero Span rather than panicking.
func (e *Executable) SpanAt(ip int) token.Span {
	if ip < 0 || ip >= len(e.Spans) {
		return token.Span{}
	}
	return e.Spans[ip]
}

// Disassemble writes a human-readable rendering of e to out, one
// instruction per line as `offset OP_NAME [operand ['constant']]`.
func (e *Executable) Disassemble(out io.Writer) {
	fmt.Fprintf(out, "== %s ==\n", e.Name)
	for i, instr := range e.Code {
		e.disassembleInstruction(out, i, instr)
	}
}

func (e *Executable) disassembleInstruction(out io.Writer, offset int, instr Instruction) {
	if !instr.Op.HasOperand() {
		fmt.Fprintf(out, "%04d %s\n", offset, instr.Op)
		return
	}

	switch instr.Op {
	case OpConstant, OpDeclareGlobal, OpGetGlobal, OpSetGlobal, OpGetField, OpSetField, OpGetSuper, OpClass:
		constant := "<out of range>"
		if instr.Operand >= 0 && instr.Operand < len(e.Constants) {
			constant = e.Constants[instr.Operand].String()
		}
		fmt.Fprintf(out, "%04d %-18s %4d '%s'\n", offset, instr.Op, instr.Operand, constant)
	default:
		fmt.Fprintf(out, "%04d %-18s %4d\n", offset, instr.Op, instr.Operand)
	}
}
