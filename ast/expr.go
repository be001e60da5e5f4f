package ast

import "nilan/token"

// Unary is a prefix operator expression: `-x`, `!x`.
type Unary struct {
	Operator token.Token
	Operand  Expr
	span     token.Span
}

func NewUnary(operator token.Token, operand Expr, span token.Span) *Unary {
	return &Unary{Operator: operator, Operand: operand, span: span}
}
func (e *Unary) Accept(v ExprVisitor) (any, error) { return v.VisitUnary(e) }
func (e *Unary) Span() token.Span                  { return e.span }

// Binary is an infix arithmetic, comparison or equality expression.
type Binary struct {
	Left     Expr
	Operator token.Token
	Right    Expr
	span     token.Span
}

func NewBinary(left Expr, operator token.Token, right Expr, span token.Span) *Binary {
	return &Binary{Left: left, Operator: operator, Right: right, span: span}
}
func (e *Binary) Accept(v ExprVisitor) (any, error) { return v.VisitBinary(e) }
func (e *Binary) Span() token.Span                  { return e.span }

// Logical is `and`/`or`, kept distinct from Binary because both
// short-circuit and neither coerces its result to Bool (spec.md §9): the
// value of whichever operand was last evaluated is the expression's
// result, unchanged.
type Logical struct {
	Left     Expr
	Operator token.Token
	Right    Expr
	span     token.Span
}

func NewLogical(left Expr, operator token.Token, right Expr, span token.Span) *Logical {
	return &Logical{Left: left, Operator: operator, Right: right, span: span}
}
func (e *Logical) Accept(v ExprVisitor) (any, error) { return v.VisitLogical(e) }
func (e *Logical) Span() token.Span                  { return e.span }

// Grouping is a parenthesized expression, kept as its own node (rather
// than discarded during parsing) so its Span covers the parentheses.
type Grouping struct {
	Inner Expr
	span  token.Span
}

func NewGrouping(inner Expr, span token.Span) *Grouping {
	return &Grouping{Inner: inner, span: span}
}
func (e *Grouping) Accept(v ExprVisitor) (any, error) { return v.VisitGrouping(e) }
func (e *Grouping) Span() token.Span                  { return e.span }

// Literal is a Number, String, Bool, or Nil constant.
type Literal struct {
	Value any
	span  token.Span
}

func NewLiteral(value any, span token.Span) *Literal {
	return &Literal{Value: value, span: span}
}
func (e *Literal) Accept(v ExprVisitor) (any, error) { return v.VisitLiteral(e) }
func (e *Literal) Span() token.Span                  { return e.span }

// Variable is a bare identifier reference.
type Variable struct {
	Name token.Token
	span token.Span
}

func NewVariable(name token.Token, span token.Span) *Variable {
	return &Variable{Name: name, span: span}
}
func (e *Variable) Accept(v ExprVisitor) (any, error) { return v.VisitVariable(e) }
func (e *Variable) Span() token.Span                  { return e.span }

// Assignment is `name = value`. The parser only ever produces one with
// Target set to a Variable; a Get target becomes a Set node instead, and
// any other left-hand side is a parse error (spec.md §4.2's
// assignment-target rule).
type Assignment struct {
	Target Expr
	Value  Expr
	span   token.Span
}

func NewAssignment(target Expr, value Expr, span token.Span) *Assignment {
	return &Assignment{Target: target, Value: value, span: span}
}
func (e *Assignment) Accept(v ExprVisitor) (any, error) { return v.VisitAssignment(e) }
func (e *Assignment) Span() token.Span                  { return e.span }

// Call is a function or method invocation: `callee(args...)`.
type Call struct {
	Callee Expr
	Args   []Expr
	span   token.Span
}

func NewCall(callee Expr, args []Expr, span token.Span) *Call {
	return &Call{Callee: callee, Args: args, span: span}
}
func (e *Call) Accept(v ExprVisitor) (any, error) { return v.VisitCall(e) }
func (e *Call) Span() token.Span                  { return e.span }

// Get is property (or method) access: `object.name`.
type Get struct {
	Object Expr
	Name   token.Token
	span   token.Span
}

func NewGet(object Expr, name token.Token, span token.Span) *Get {
	return &Get{Object: object, Name: name, span: span}
}
func (e *Get) Accept(v ExprVisitor) (any, error) { return v.VisitGet(e) }
func (e *Get) Span() token.Span                  { return e.span }

// Set is field assignment: `object.name = value`.
type Set struct {
	Object Expr
	Name   token.Token
	Value  Expr
	span   token.Span
}

func NewSet(object Expr, name token.Token, value Expr, span token.Span) *Set {
	return &Set{Object: object, Name: name, Value: value, span: span}
}
func (e *Set) Accept(v ExprVisitor) (any, error) { return v.VisitSet(e) }
func (e *Set) Span() token.Span                  { return e.span }

// This is the `this` keyword inside a method body.
type This struct {
	Keyword token.Token
	span    token.Span
}

func NewThis(keyword token.Token, span token.Span) *This {
	return &This{Keyword: keyword, span: span}
}
func (e *This) Accept(v ExprVisitor) (any, error) { return v.VisitThis(e) }
func (e *This) Span() token.Span                  { return e.span }

// Super is `super.method` inside a subclass method body. The grammar
// only ever allows a trailing `.identifier`, never a bare `super`
// (spec.md §7).
type Super struct {
	Keyword token.Token
	Method  token.Token
	span    token.Span
}

func NewSuper(keyword, method token.Token, span token.Span) *Super {
	return &Super{Keyword: keyword, Method: method, span: span}
}
func (e *Super) Accept(v ExprVisitor) (any, error) { return v.VisitSuper(e) }
func (e *Super) Span() token.Span                  { return e.span }
