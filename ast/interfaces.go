// Package ast defines the syntax tree the Parser builds and the Compiler
// walks: one interface and one visitor per node category, in the
// double-dispatch style of the reference implementation's own parser.
package ast

import "nilan/token"

// Expr is any expression node. Every Expr knows its own source Span so
// compile errors can point back at it.
type Expr interface {
	Accept(v ExprVisitor) (any, error)
	Span() token.Span
}

// Stmt is any statement node.
type Stmt interface {
	Accept(v StmtVisitor) error
	Span() token.Span
}

// ExprVisitor is implemented by anything that walks expressions: the
// Compiler, and the AST printer used by tests and the `emit` CLI
// subcommand.
type ExprVisitor interface {
	VisitUnary(e *Unary) (any, error)
	VisitBinary(e *Binary) (any, error)
	VisitLogical(e *Logical) (any, error)
	VisitGrouping(e *Grouping) (any, error)
	VisitLiteral(e *Literal) (any, error)
	VisitVariable(e *Variable) (any, error)
	VisitAssignment(e *Assignment) (any, error)
	VisitCall(e *Call) (any, error)
	VisitGet(e *Get) (any, error)
	VisitSet(e *Set) (any, error)
	VisitThis(e *This) (any, error)
	VisitSuper(e *Super) (any, error)
}

// StmtVisitor is implemented by anything that walks statements.
type StmtVisitor interface {
	VisitExpressionStmt(s *ExpressionStmt) error
	VisitPrintStmt(s *PrintStmt) error
	VisitVarStmt(s *VarStmt) error
	VisitBlockStmt(s *BlockStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitWhileStmt(s *WhileStmt) error
	VisitFunctionStmt(s *FunctionStmt) error
	VisitReturnStmt(s *ReturnStmt) error
	VisitClassStmt(s *ClassStmt) error
}
