package ast

import "nilan/token"

// ExpressionStmt evaluates Expr and discards the result.
type ExpressionStmt struct {
	Expr Expr
	span token.Span
}

func NewExpressionStmt(expr Expr, span token.Span) *ExpressionStmt {
	return &ExpressionStmt{Expr: expr, span: span}
}
func (s *ExpressionStmt) Accept(v StmtVisitor) error { return v.VisitExpressionStmt(s) }
func (s *ExpressionStmt) Span() token.Span           { return s.span }

// PrintStmt evaluates Expr and writes its String() to the VM's output.
type PrintStmt struct {
	Expr Expr
	span token.Span
}

func NewPrintStmt(expr Expr, span token.Span) *PrintStmt {
	return &PrintStmt{Expr: expr, span: span}
}
func (s *PrintStmt) Accept(v StmtVisitor) error { return v.VisitPrintStmt(s) }
func (s *PrintStmt) Span() token.Span           { return s.span }

// VarStmt declares a variable, optionally with an initializer. An
// absent Initializer means the variable starts out Nil.
type VarStmt struct {
	Name        token.Token
	Initializer Expr
	span        token.Span
}

func NewVarStmt(name token.Token, initializer Expr, span token.Span) *VarStmt {
	return &VarStmt{Name: name, Initializer: initializer, span: span}
}
func (s *VarStmt) Accept(v StmtVisitor) error { return v.VisitVarStmt(s) }
func (s *VarStmt) Span() token.Span           { return s.span }

// BlockStmt is a `{ ... }` lexical scope.
type BlockStmt struct {
	Statements []Stmt
	span       token.Span
}

func NewBlockStmt(statements []Stmt, span token.Span) *BlockStmt {
	return &BlockStmt{Statements: statements, span: span}
}
func (s *BlockStmt) Accept(v StmtVisitor) error { return v.VisitBlockStmt(s) }
func (s *BlockStmt) Span() token.Span           { return s.span }

// IfStmt is `if (cond) then [else else_]`. Else is nil when absent.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
	span      token.Span
}

func NewIfStmt(condition Expr, then, else_ Stmt, span token.Span) *IfStmt {
	return &IfStmt{Condition: condition, Then: then, Else: else_, span: span}
}
func (s *IfStmt) Accept(v StmtVisitor) error { return v.VisitIfStmt(s) }
func (s *IfStmt) Span() token.Span           { return s.span }

// WhileStmt is `while (cond) body`. The parser desugars `for` loops
// into a Block containing an optional initializer, a WhileStmt whose
// body is a Block of [original body, increment], per spec.md §4.2's
// for-loop desugaring note.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	span      token.Span
}

func NewWhileStmt(condition Expr, body Stmt, span token.Span) *WhileStmt {
	return &WhileStmt{Condition: condition, Body: body, span: span}
}
func (s *WhileStmt) Accept(v StmtVisitor) error { return v.VisitWhileStmt(s) }
func (s *WhileStmt) Span() token.Span           { return s.span }

// FunctionStmt declares a named function (top-level `fun`, or a class
// method body reused inside ClassStmt.Methods).
type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
	span   token.Span
}

func NewFunctionStmt(name token.Token, params []token.Token, body []Stmt, span token.Span) *FunctionStmt {
	return &FunctionStmt{Name: name, Params: params, Body: body, span: span}
}
func (s *FunctionStmt) Accept(v StmtVisitor) error { return v.VisitFunctionStmt(s) }
func (s *FunctionStmt) Span() token.Span           { return s.span }

// ReturnStmt is `return [expr];`. Value is nil for a bare `return;`,
// which the compiler treats the same as `return nil;`, except inside an
// initializer, where it returns `this`.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr
	span    token.Span
}

func NewReturnStmt(keyword token.Token, value Expr, span token.Span) *ReturnStmt {
	return &ReturnStmt{Keyword: keyword, Value: value, span: span}
}
func (s *ReturnStmt) Accept(v StmtVisitor) error { return v.VisitReturnStmt(s) }
func (s *ReturnStmt) Span() token.Span           { return s.span }

// ClassStmt declares a class, with an optional superclass reference
// (nil when the class does not use `< Superclass`) and its methods as
// FunctionStmt nodes.
type ClassStmt struct {
	Name       token.Token
	Superclass *Variable
	Methods    []*FunctionStmt
	span       token.Span
}

func NewClassStmt(name token.Token, superclass *Variable, methods []*FunctionStmt, span token.Span) *ClassStmt {
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods, span: span}
}
func (s *ClassStmt) Accept(v StmtVisitor) error { return v.VisitClassStmt(s) }
func (s *ClassStmt) Span() token.Span           { return s.span }
