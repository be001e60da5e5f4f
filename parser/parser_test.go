package parser

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/ast"
	"nilan/lexer"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens := lexer.Scan(source)
	statements, err := Parse(tokens)
	require.NoError(t, err)
	return statements
}

func TestParseVarDeclaration(t *testing.T) {
	statements := parse(t, "var x = 1;")
	require.Len(t, statements, 1)
	_, ok := statements[0].(*ast.VarStmt)
	assert.True(t, ok)
}

func TestParseForDesugarsToWhileInsideBlock(t *testing.T) {
	statements := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.Len(t, statements, 1)
	block, ok := statements[0].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, block.Statements, 2)
	_, ok = block.Statements[0].(*ast.VarStmt)
	assert.True(t, ok)
	_, ok = block.Statements[1].(*ast.WhileStmt)
	assert.True(t, ok)
}

func TestParseClassWithSuperclass(t *testing.T) {
	statements := parse(t, "class B < A { greet() { print 1; } }")
	require.Len(t, statements, 1)
	class, ok := statements[0].(*ast.ClassStmt)
	require.True(t, ok)
	require.NotNil(t, class.Superclass)
	assert.Equal(t, "A", class.Superclass.Name.Lexeme)
	assert.Len(t, class.Methods, 1)
}

func TestParseAccumulatesMultipleErrors(t *testing.T) {
	tokens := lexer.Scan("var ; var ;")
	_, err := Parse(tokens)
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
}

func TestSelfInheritanceIsError(t *testing.T) {
	tokens := lexer.Scan("class A < A {}")
	_, err := Parse(tokens)
	require.Error(t, err)
}

func TestInvalidAssignmentTargetIsError(t *testing.T) {
	tokens := lexer.Scan("1 = 2;")
	_, err := Parse(tokens)
	require.Error(t, err)
}

func TestAssignmentToFieldProducesSetNode(t *testing.T) {
	statements := parse(t, "a.b = 1;")
	require.Len(t, statements, 1)
	exprStmt, ok := statements[0].(*ast.ExpressionStmt)
	require.True(t, ok)
	_, ok = exprStmt.Expr.(*ast.Set)
	assert.True(t, ok)
}
