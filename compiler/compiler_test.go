package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/bytecode"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
	"nilan/value"
)

func compileSource(t *testing.T, source string) *bytecode.Executable {
	t.Helper()
	tokens := lexer.Scan(source)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	fn, err := Compile("test", statements)
	require.NoError(t, err)
	return fn.Body
}

func opcodes(exe *bytecode.Executable) []bytecode.OpCode {
	out := make([]bytecode.OpCode, len(exe.Code))
	for i, instr := range exe.Code {
		out[i] = instr.Op
	}
	return out
}

func TestCompileSimpleAddition(t *testing.T) {
	exe := compileSource(t, "print 5 + 1;")
	assert.Equal(t, []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpConstant, bytecode.OpAdd, bytecode.OpPrint,
		bytecode.OpConstant, bytecode.OpReturn,
	}, opcodes(exe))
}

func TestCompileGlobalVarDeclaration(t *testing.T) {
	exe := compileSource(t, "var a = 1;")
	assert.Equal(t, []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpDeclareGlobal, bytecode.OpConstant, bytecode.OpReturn,
	}, opcodes(exe))
}

func TestCompileLocalDoesNotEmitExtraSet(t *testing.T) {
	exe := compileSource(t, "{ var a = 1; print a; }")
	assert.Equal(t, []bytecode.OpCode{
		bytecode.OpConstant, bytecode.OpGetLocal, bytecode.OpPrint, bytecode.OpPop,
		bytecode.OpConstant, bytecode.OpReturn,
	}, opcodes(exe))
}

func TestRedeclaringLocalInSameScopeIsError(t *testing.T) {
	tokens := lexer.Scan("{ var a = 1; var a = 2; }")
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	_, err = Compile("test", statements)
	require.Error(t, err)
	var semErr *SemanticError
	assert.ErrorAs(t, err, &semErr)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	tokens := lexer.Scan("return 1;")
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	_, err = Compile("test", statements)
	require.Error(t, err)
}

func TestInitializerCannotReturnValue(t *testing.T) {
	tokens := lexer.Scan("class C { init() { return 1; } }")
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	_, err = Compile("test", statements)
	require.Error(t, err)
}

func TestThisOutsideMethodIsError(t *testing.T) {
	tokens := lexer.Scan("print this;")
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	_, err = Compile("test", statements)
	require.Error(t, err)
}

func TestClosureCapturesUpvalue(t *testing.T) {
	exe := compileSource(t, "fun outer() { var a = 1; fun inner() { return a; } return inner; }")
	// outer's body should contain an OpClosure for inner, and inner should
	// capture outer's local slot 1 (`a`) as its only upvalue.
	outer := functionConstant(t, exe, "outer")
	assert.Contains(t, opcodes(outer.Body), bytecode.OpClosure)
	inner := functionConstant(t, outer.Body, "inner")
	assert.Equal(t, []object.UpvalueDescriptor{{FromLocal: true, Index: 1}}, inner.Upvalues)
}

func functionConstant(t *testing.T, exe *bytecode.Executable, name string) *object.Function {
	t.Helper()
	for _, c := range exe.Constants {
		if fn, ok := value.Is[*object.Function](c); ok && fn.Name == name {
			return fn
		}
	}
	require.FailNow(t, "function constant not found", name)
	return nil
}
