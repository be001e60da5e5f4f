package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nilan/token"
)

func TestPrintJSONRendersBinaryExpression(t *testing.T) {
	left := NewLiteral(1.0, token.Span{})
	right := NewLiteral(2.0, token.Span{})
	plus := token.Make(token.Plus, "+", token.Span{})
	expr := NewBinary(left, plus, right, token.Span{})
	stmt := NewExpressionStmt(expr, token.Span{})

	out, err := PrintJSON([]Stmt{stmt})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ExpressionStmt", decoded[0]["type"])

	binary := decoded[0]["expression"].(map[string]any)
	assert.Equal(t, "Binary", binary["type"])
	assert.Equal(t, "+", binary["operator"])
}

func TestPrintJSONRendersClassWithSuperclass(t *testing.T) {
	superName := token.Make(token.Identifier, "A", token.Span{})
	methodName := token.Make(token.Identifier, "greet", token.Span{})
	method := NewFunctionStmt(methodName, nil, nil, token.Span{})
	className := token.Make(token.Identifier, "B", token.Span{})
	class := NewClassStmt(className, NewVariable(superName, token.Span{}), []*FunctionStmt{method}, token.Span{})

	out, err := PrintJSON([]Stmt{class})
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "A", decoded[0]["superclass"])
	methods := decoded[0]["methods"].([]any)
	assert.Len(t, methods, 1)
}
