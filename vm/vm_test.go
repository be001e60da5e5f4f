package vm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/compiler"
	"nilan/lexer"
	"nilan/object"
	"nilan/parser"
)

// run compiles and executes source on a fresh VM, returning everything
// printed to stdout.
func run(t *testing.T, source string) string {
	t.Helper()
	tokens := lexer.Scan(source)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)

	fn, err := compiler.Compile("test", statements)
	require.NoError(t, err)

	var out bytes.Buffer
	machine := New(&out)
	require.NoError(t, machine.Run(fn))
	return out.String()
}

func TestGlobalsAndArithmetic(t *testing.T) {
	got := run(t, `var a = 6; var b = 1.5;
print a + b; print a = b = 9; print a;`)
	assert.Equal(t, "7.5\n9\n9\n", got)
}

func TestClosureOverMutatedUpvalue(t *testing.T) {
	got := run(t, `fun adder(a){ fun f(b){ a = a+1; return a+b; } return f; }
print adder(2)(1);`)
	assert.Equal(t, "4\n", got)
}

func TestInstanceFieldsAndMethodPrecedence(t *testing.T) {
	got := run(t, `class C { init(x){ this.x = x; } get(){ return this.x; } }
var c = C(10); print c.get(); c.x = 20; print c.get();`)
	assert.Equal(t, "10\n20\n", got)
}

func TestInheritanceAndSuper(t *testing.T) {
	got := run(t, `class A { greet(){ print "A"; } }
class B < A { greet(){ super.greet(); print "B"; } }
B().greet();`)
	assert.Equal(t, "A\nB\n", got)
}

func TestControlFlow(t *testing.T) {
	got := run(t, `for (var i = 0; i < 3; i = i + 1) print i;`)
	assert.Equal(t, "0\n1\n2\n", got)
}

func TestShortCircuitWithSideEffect(t *testing.T) {
	got := run(t, `fun t(){ print "t"; return true; }
fun f(){ print "f"; return false; }
print f() and t(); print t() or f();`)
	assert.Equal(t, "f\nfalse\nt\ntrue\n", got)
}

// TestDeterminism exercises P7: a fresh VM re-run of the same source
// yields byte-identical stdout.
func TestDeterminism(t *testing.T) {
	source := `for (var i = 0; i < 5; i = i + 1) print i * i;`
	first := run(t, source)
	second := run(t, source)
	assert.Equal(t, first, second)
}

func TestRuntimeErrorUndefinedGlobal(t *testing.T) {
	tokens := lexer.Scan(`print nope;`)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	fn, err := compiler.Compile("test", statements)
	require.NoError(t, err)

	var out bytes.Buffer
	machine := New(&out)
	err = machine.Run(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestRuntimeErrorTypeMismatch(t *testing.T) {
	tokens := lexer.Scan(`print 1 + "a";`)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	fn, err := compiler.Compile("test", statements)
	require.NoError(t, err)

	var out bytes.Buffer
	machine := New(&out)
	err = machine.Run(fn)
	require.Error(t, err)
}

// compileOne compiles one line of source, mirroring how a REPL compiles
// each line independently against a persistent VM.
func compileOne(t *testing.T, source string) *object.Function {
	t.Helper()
	tokens := lexer.Scan(source)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	fn, err := compiler.Compile("repl", statements)
	require.NoError(t, err)
	return fn
}

// TestRunAfterRuntimeErrorDoesNotResumeStaleFrames reproduces a REPL
// reusing one VM across lines: a runtime error on one line must not leave
// frames, open upvalues or stack slots behind for the next line's Run to
// stumble into.
func TestRunAfterRuntimeErrorDoesNotResumeStaleFrames(t *testing.T) {
	var out bytes.Buffer
	machine := New(&out)

	err := machine.Run(compileOne(t, `print nope;`))
	require.Error(t, err)

	err = machine.Run(compileOne(t, `print 1 + 1;`))
	require.NoError(t, err)
	assert.Equal(t, "2\n", out.String())
}

func TestArityMismatch(t *testing.T) {
	tokens := lexer.Scan(`fun add(a, b) { return a + b; } add(1);`)
	statements, err := parser.Parse(tokens)
	require.NoError(t, err)
	fn, err := compiler.Compile("test", statements)
	require.NoError(t, err)

	var out bytes.Buffer
	machine := New(&out)
	err = machine.Run(fn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments but got 1")
}
