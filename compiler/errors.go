package compiler

import (
	"fmt"

	"nilan/token"
)

// CompileError is the contract every compiler error satisfies. The
// Compiler communicates failures by panicking with one of these (mirroring
// the reference implementation's SemanticError/DeveloperError panic-based
// propagation) and recovers at the top-level Compile entry point.
type CompileError interface {
	error
	Span() token.Span
}

// SemanticError reports a user-facing mistake in the source program: a
// redeclared name, a local read in its own initializer, a `return` at top
// level or with a value inside an initializer, a `this` or `super` used
// outside a method, or `super` in a class with no superclass.
type SemanticError struct {
	Message string
	At      token.Span
}

func (e *SemanticError) Error() string   { return e.Message }
func (e *SemanticError) Span() token.Span { return e.At }

// DeveloperError reports an invariant violated by the compiler itself —
// a malformed AST node or an executable that grew past the instruction
// limit — conditions a correct parser should never produce.
type DeveloperError struct {
	Message string
	At      token.Span
}

func (e *DeveloperError) Error() string   { return fmt.Sprintf("internal compiler error: %s", e.Message) }
func (e *DeveloperError) Span() token.Span { return e.At }

func semanticErr(at token.Span, format string, args ...any) *SemanticError {
	return &SemanticError{Message: fmt.Sprintf(format, args...), At: at}
}

func developerErr(at token.Span, format string, args ...any) *DeveloperError {
	return &DeveloperError{Message: fmt.Sprintf(format, args...), At: at}
}
