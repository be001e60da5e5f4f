package parser

import (
	"fmt"

	"nilan/token"
)

// ParseError is the contract every parser error satisfies, letting the
// reporter locate the offending source range without depending on the
// parser's internal error types (spec.md §4.2).
type ParseError interface {
	error
	Span() token.Span
}

// UnexpectedTokenError reports a production that expected one kind of
// token but found another (or ran out of input).
type UnexpectedTokenError struct {
	Found   token.Token
	Message string
}

func (e *UnexpectedTokenError) Error() string {
	if e.Found.Kind == token.Eof {
		return fmt.Sprintf("at end: %s", e.Message)
	}
	return fmt.Sprintf("at '%s': %s", e.Found.Lexeme, e.Message)
}
func (e *UnexpectedTokenError) Span() token.Span { return e.Found.Span }

// InvalidAssignmentTargetError reports `expr = value` where expr is not
// an lvalue (spec.md §4.2's assignment-target rule).
type InvalidAssignmentTargetError struct {
	Equals token.Token
}

func (e *InvalidAssignmentTargetError) Error() string { return "invalid assignment target" }
func (e *InvalidAssignmentTargetError) Span() token.Span { return e.Equals.Span }

// SelfInheritanceError reports `class A < A`.
type SelfInheritanceError struct {
	Name token.Token
}

func (e *SelfInheritanceError) Error() string {
	return fmt.Sprintf("class '%s' cannot inherit from itself", e.Name.Lexeme)
}
func (e *SelfInheritanceError) Span() token.Span { return e.Name.Span }

// TooManyArgumentsError reports a call or parameter list past the
// reference implementation's 255-argument limit.
type TooManyArgumentsError struct {
	At token.Token
}

func (e *TooManyArgumentsError) Error() string {
	return "can't have more than 255 arguments"
}
func (e *TooManyArgumentsError) Span() token.Span { return e.At.Span }
