// Package compiler walks an ast.Stmt tree and emits a bytecode.Executable
// for the VM, in a single pass with no separate resolution phase — scope
// tracking, local slot assignment and upvalue capture all happen while
// walking, the way the reference implementation's ASTCompiler does
// (spec.md §4.3, §9).
package compiler

import (
	"nilan/ast"
	"nilan/bytecode"
	"nilan/object"
	"nilan/token"
	"nilan/value"
)

// Compiler is a single-use visitor: the package-level Compile constructs
// a fresh one with New for each program it compiles. It implements ast.ExprVisitor and ast.StmtVisitor but,
// like the reference implementation, reports failures by panicking with
// a CompileError rather than threading error returns through every
// Visit method — Compile recovers at the boundary.
type Compiler struct {
	current *frame
	class   *classContext
}

// New constructs an unstarted Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile compiles program into a top-level script Function named name.
// Every error it can report implements CompileError.
func Compile(name string, program []ast.Stmt) (fn *object.Function, err error) {
	c := New()
	return c.compile(name, program)
}

func (c *Compiler) compile(name string, program []ast.Stmt) (fn *object.Function, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(CompileError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	script := &object.Function{Name: name, Body: bytecode.New(name)}
	c.current = newFrame(nil, script, kindScript)

	for _, stmt := range program {
		c.compileStmt(stmt)
	}
	c.emitReturn(token.Span{})
	return script, nil
}

func (c *Compiler) compileStmt(s ast.Stmt) { _ = s.Accept(c) }
func (c *Compiler) compileExpr(e ast.Expr) { _, _ = e.Accept(c) }

// --- emission helpers ---

func (c *Compiler) checkLimit(span token.Span) {
	if c.current.fn.Body.Len() >= bytecode.MaxInstructions {
		panic(developerErr(span, "function body exceeds the maximum of %d instructions", bytecode.MaxInstructions))
	}
}

func (c *Compiler) emit(op bytecode.OpCode, span token.Span) int {
	c.checkLimit(span)
	return c.current.fn.Body.PushOpcode(op, span)
}

func (c *Compiler) emitOperand(op bytecode.OpCode, operand int, span token.Span) int {
	c.checkLimit(span)
	return c.current.fn.Body.PushInstruction(op, operand, span)
}

func (c *Compiler) patchJump(pos int) {
	c.current.fn.Body.PatchJumpHere(pos)
}

func (c *Compiler) addConstant(v value.Value) int {
	return c.current.fn.Body.AddConstant(v)
}

func (c *Compiler) nameConstant(name string) int {
	return c.addConstant(value.String(name))
}

func (c *Compiler) emitReturn(span token.Span) {
	if c.current.kind == kindInitializer {
		c.emitOperand(bytecode.OpGetLocal, 0, span)
	} else {
		c.emitOperand(bytecode.OpConstant, c.addConstant(value.Nil), span)
	}
	c.emit(bytecode.OpReturn, span)
}

// --- local/global bookkeeping ---

func (c *Compiler) declareLocal(name string, span token.Span) {
	for i := len(c.current.locals) - 1; i >= 0; i-- {
		l := c.current.locals[i]
		if l.depth < c.current.scopeDepth {
			break
		}
		if l.name == name {
			panic(semanticErr(span, "'%s' is already declared in this scope", name))
		}
	}
	c.current.locals = append(c.current.locals, local{name: name, depth: c.current.scopeDepth})
}

func (c *Compiler) markInitialized() {
	if len(c.current.locals) == 0 {
		return
	}
	c.current.locals[len(c.current.locals)-1].initialized = true
}

// compileNamedGet emits whatever load instruction resolves name in the
// currently compiling frame: a local slot, a captured upvalue, or
// (falling through) a global lookup.
func (c *Compiler) compileNamedGet(name string, span token.Span) {
	if slot := c.current.resolveLocal(name); slot != -1 {
		if !c.current.locals[slot].initialized {
			panic(semanticErr(span, "can't read local variable '%s' in its own initializer", name))
		}
		c.emitOperand(bytecode.OpGetLocal, slot, span)
		return
	}
	if up := c.current.resolveUpvalue(name); up != -1 {
		c.emitOperand(bytecode.OpGetUpvalue, up, span)
		return
	}
	c.emitOperand(bytecode.OpGetGlobal, c.nameConstant(name), span)
}

func (c *Compiler) compileNamedSet(name string, span token.Span) {
	if slot := c.current.resolveLocal(name); slot != -1 {
		c.emitOperand(bytecode.OpSetLocal, slot, span)
		return
	}
	if up := c.current.resolveUpvalue(name); up != -1 {
		c.emitOperand(bytecode.OpSetUpvalue, up, span)
		return
	}
	c.emitOperand(bytecode.OpSetGlobal, c.nameConstant(name), span)
}

// --- expressions ---

func (c *Compiler) VisitLiteral(e *ast.Literal) (any, error) {
	var v value.Value
	switch lit := e.Value.(type) {
	case nil:
		v = value.Nil
	case bool:
		v = value.Bool(lit)
	case float64:
		v = value.Number(lit)
	case string:
		v = value.String(lit)
	default:
		panic(developerErr(e.Span(), "unrecognized literal type %T", e.Value))
	}
	c.emitOperand(bytecode.OpConstant, c.addConstant(v), e.Span())
	return nil, nil
}

func (c *Compiler) VisitGrouping(e *ast.Grouping) (any, error) {
	c.compileExpr(e.Inner)
	return nil, nil
}

func (c *Compiler) VisitUnary(e *ast.Unary) (any, error) {
	c.compileExpr(e.Operand)
	switch e.Operator.Kind {
	case token.Minus:
		c.emit(bytecode.OpNegate, e.Span())
	case token.Bang:
		c.emit(bytecode.OpNot, e.Span())
	default:
		panic(developerErr(e.Span(), "unsupported unary operator '%s'", e.Operator.Lexeme))
	}
	return nil, nil
}

func (c *Compiler) VisitBinary(e *ast.Binary) (any, error) {
	c.compileExpr(e.Left)
	c.compileExpr(e.Right)
	switch e.Operator.Kind {
	case token.Plus:
		c.emit(bytecode.OpAdd, e.Span())
	case token.Minus:
		c.emit(bytecode.OpSubtract, e.Span())
	case token.Star:
		c.emit(bytecode.OpMultiply, e.Span())
	case token.Slash:
		c.emit(bytecode.OpDivide, e.Span())
	case token.Less:
		c.emit(bytecode.OpLess, e.Span())
	case token.LessEqual:
		c.emit(bytecode.OpLessEqual, e.Span())
	case token.Greater:
		c.emit(bytecode.OpGreater, e.Span())
	case token.GreaterEqual:
		c.emit(bytecode.OpGreaterEqual, e.Span())
	case token.EqualEqual:
		c.emit(bytecode.OpEqual, e.Span())
	case token.BangEqual:
		c.emit(bytecode.OpNotEqual, e.Span())
	default:
		panic(developerErr(e.Span(), "unsupported binary operator '%s'", e.Operator.Lexeme))
	}
	return nil, nil
}

// VisitLogical compiles `and`/`or` with short-circuit jumps that never
// coerce the result: whichever operand was last evaluated is left on
// the stack as-is. See DESIGN.md's "Open Question: short-circuit result
// type" entry.
func (c *Compiler) VisitLogical(e *ast.Logical) (any, error) {
	c.compileExpr(e.Left)
	switch e.Operator.Kind {
	case token.Or:
		endJump := c.emitOperand(bytecode.OpJumpIfTrue, 0, e.Span())
		c.emit(bytecode.OpPop, e.Span())
		c.compileExpr(e.Right)
		c.patchJump(endJump)
	case token.And:
		endJump := c.emitOperand(bytecode.OpJumpIfFalse, 0, e.Span())
		c.emit(bytecode.OpPop, e.Span())
		c.compileExpr(e.Right)
		c.patchJump(endJump)
	default:
		panic(developerErr(e.Span(), "unsupported logical operator '%s'", e.Operator.Lexeme))
	}
	return nil, nil
}

func (c *Compiler) VisitVariable(e *ast.Variable) (any, error) {
	c.compileNamedGet(e.Name.Lexeme, e.Span())
	return nil, nil
}

func (c *Compiler) VisitAssignment(e *ast.Assignment) (any, error) {
	target, ok := e.Target.(*ast.Variable)
	if !ok {
		panic(developerErr(e.Span(), "assignment target is not a variable (parser should reject this)"))
	}
	c.compileExpr(e.Value)
	c.compileNamedSet(target.Name.Lexeme, e.Span())
	return nil, nil
}

func (c *Compiler) VisitCall(e *ast.Call) (any, error) {
	c.compileExpr(e.Callee)
	for _, arg := range e.Args {
		c.compileExpr(arg)
	}
	c.emitOperand(bytecode.OpInvoke, len(e.Args), e.Span())
	return nil, nil
}

func (c *Compiler) VisitGet(e *ast.Get) (any, error) {
	c.compileExpr(e.Object)
	c.emitOperand(bytecode.OpGetField, c.nameConstant(e.Name.Lexeme), e.Span())
	return nil, nil
}

func (c *Compiler) VisitSet(e *ast.Set) (any, error) {
	c.compileExpr(e.Object)
	c.compileExpr(e.Value)
	c.emitOperand(bytecode.OpSetField, c.nameConstant(e.Name.Lexeme), e.Span())
	return nil, nil
}

func (c *Compiler) VisitThis(e *ast.This) (any, error) {
	if c.class == nil {
		panic(semanticErr(e.Span(), "can't use 'this' outside of a method"))
	}
	c.compileNamedGet("this", e.Span())
	return nil, nil
}

func (c *Compiler) VisitSuper(e *ast.Super) (any, error) {
	if c.class == nil {
		panic(semanticErr(e.Span(), "can't use 'super' outside of a method"))
	}
	if !c.class.hasSuperclass {
		panic(semanticErr(e.Span(), "can't use 'super' in a class with no superclass"))
	}
	c.compileNamedGet("this", e.Span())
	c.compileNamedGet("super", e.Span())
	c.emitOperand(bytecode.OpGetSuper, c.nameConstant(e.Method.Lexeme), e.Span())
	return nil, nil
}

// --- statements ---

func (c *Compiler) VisitExpressionStmt(s *ast.ExpressionStmt) error {
	c.compileExpr(s.Expr)
	c.emit(bytecode.OpPop, s.Span())
	return nil
}

func (c *Compiler) VisitPrintStmt(s *ast.PrintStmt) error {
	c.compileExpr(s.Expr)
	c.emit(bytecode.OpPrint, s.Span())
	return nil
}

func (c *Compiler) VisitVarStmt(s *ast.VarStmt) error {
	global := c.current.scopeDepth == 0
	var nameIdx int
	if global {
		nameIdx = c.nameConstant(s.Name.Lexeme)
	} else {
		c.declareLocal(s.Name.Lexeme, s.Name.Span)
	}

	if s.Initializer != nil {
		c.compileExpr(s.Initializer)
	} else {
		c.emitOperand(bytecode.OpConstant, c.addConstant(value.Nil), s.Span())
	}

	if global {
		c.emitOperand(bytecode.OpDeclareGlobal, nameIdx, s.Span())
	} else {
		c.markInitialized()
	}
	return nil
}

func (c *Compiler) VisitBlockStmt(s *ast.BlockStmt) error {
	c.current.beginScope()
	for _, stmt := range s.Statements {
		c.compileStmt(stmt)
	}
	c.closeScope(s.Span())
	return nil
}

// closeScope ends the current scope and emits the pop/close instructions
// its locals require, innermost first.
func (c *Compiler) closeScope(span token.Span) {
	for _, l := range c.current.endScope() {
		if l.isCaptured {
			c.emit(bytecode.OpCloseUpvalue, span)
		} else {
			c.emit(bytecode.OpPop, span)
		}
	}
}

func (c *Compiler) VisitIfStmt(s *ast.IfStmt) error {
	c.compileExpr(s.Condition)
	elseJump := c.emitOperand(bytecode.OpJumpIfFalse, 0, s.Span())
	c.emit(bytecode.OpPop, s.Span())
	c.compileStmt(s.Then)

	if s.Else != nil {
		endJump := c.emitOperand(bytecode.OpJump, 0, s.Span())
		c.patchJump(elseJump)
		c.emit(bytecode.OpPop, s.Span())
		c.compileStmt(s.Else)
		c.patchJump(endJump)
	} else {
		c.patchJump(elseJump)
		c.emit(bytecode.OpPop, s.Span())
	}
	return nil
}

func (c *Compiler) VisitWhileStmt(s *ast.WhileStmt) error {
	loopStart := c.current.fn.Body.Len()
	c.compileExpr(s.Condition)
	exitJump := c.emitOperand(bytecode.OpJumpIfFalse, 0, s.Span())
	c.emit(bytecode.OpPop, s.Span())
	c.compileStmt(s.Body)
	c.emitOperand(bytecode.OpJump, loopStart, s.Span())
	c.patchJump(exitJump)
	c.emit(bytecode.OpPop, s.Span())
	return nil
}

func (c *Compiler) VisitFunctionStmt(s *ast.FunctionStmt) error {
	global := c.current.scopeDepth == 0
	var nameIdx int
	if global {
		nameIdx = c.nameConstant(s.Name.Lexeme)
	} else {
		c.declareLocal(s.Name.Lexeme, s.Name.Span)
		c.markInitialized()
	}

	fn := c.compileFunction(s, kindFunction)
	c.emitOperand(bytecode.OpClosure, c.addConstant(value.FromObject(fn)), s.Span())

	if global {
		c.emitOperand(bytecode.OpDeclareGlobal, nameIdx, s.Span())
	}
	return nil
}

// compileFunction compiles s's parameter list and body into a fresh
// Function and frame, then restores the enclosing frame. The caller is
// responsible for declaring s.Name and emitting the OpClosure that
// wraps the returned Function.
func (c *Compiler) compileFunction(s *ast.FunctionStmt, kind functionKind) *object.Function {
	fn := &object.Function{Name: s.Name.Lexeme, Arity: len(s.Params), Body: bytecode.New(s.Name.Lexeme)}
	enclosing := c.current
	c.current = newFrame(enclosing, fn, kind)
	c.current.beginScope()

	for _, param := range s.Params {
		c.declareLocal(param.Lexeme, param.Span)
		c.markInitialized()
	}
	for _, stmt := range s.Body {
		c.compileStmt(stmt)
	}
	c.emitReturn(s.Span())

	c.current = enclosing
	return fn
}

func (c *Compiler) VisitReturnStmt(s *ast.ReturnStmt) error {
	if c.current.kind == kindScript {
		panic(semanticErr(s.Span(), "can't return from top-level code"))
	}
	if s.Value == nil {
		c.emitReturn(s.Span())
		return nil
	}
	if c.current.kind == kindInitializer {
		panic(semanticErr(s.Span(), "can't return a value from an initializer"))
	}
	c.compileExpr(s.Value)
	c.emit(bytecode.OpReturn, s.Span())
	return nil
}

// VisitClassStmt compiles a class declaration: the class itself, its
// optional superclass's OpInherit, and each method as a closure attached
// via OpMethod, mirroring the reference algorithm's stack choreography
// for keeping the class and (if present) "super" binding reachable while
// methods compile (spec.md §7, §9).
func (c *Compiler) VisitClassStmt(s *ast.ClassStmt) error {
	nameIdx := c.nameConstant(s.Name.Lexeme)
	global := c.current.scopeDepth == 0
	if !global {
		c.declareLocal(s.Name.Lexeme, s.Name.Span)
	}

	c.emitOperand(bytecode.OpClass, nameIdx, s.Span())
	if global {
		c.emitOperand(bytecode.OpDeclareGlobal, nameIdx, s.Span())
	} else {
		c.markInitialized()
	}

	enclosingClass := c.class
	c.class = &classContext{enclosing: enclosingClass}
	defer func() { c.class = enclosingClass }()

	if s.Superclass != nil {
		c.compileNamedGet(s.Superclass.Name.Lexeme, s.Superclass.Span())
		c.current.beginScope()
		c.declareLocal("super", s.Superclass.Span())
		c.markInitialized()

		c.compileNamedGet(s.Name.Lexeme, s.Span())
		c.emit(bytecode.OpInherit, s.Span())
		c.class.hasSuperclass = true
	}

	c.compileNamedGet(s.Name.Lexeme, s.Span())
	for _, method := range s.Methods {
		kind := kindMethod
		if method.Name.Lexeme == "init" {
			kind = kindInitializer
		}
		fn := c.compileFunction(method, kind)
		c.emitOperand(bytecode.OpClosure, c.addConstant(value.FromObject(fn)), method.Span())
		c.emitOperand(bytecode.OpMethod, c.nameConstant(method.Name.Lexeme), method.Span())
	}
	c.emit(bytecode.OpPop, s.Span())

	if s.Superclass != nil {
		c.closeScope(s.Span())
	}
	return nil
}
