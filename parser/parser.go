// Package parser builds an ast.Stmt tree from a token.Token stream using
// recursive descent with one method per precedence level, in the style
// of the reference implementation's hand-written parser. Unlike that
// reference, this parser never stops at the first syntax error: it
// synchronizes to the next statement boundary and keeps going, so a
// single pass can report every syntax error in the source (spec.md
// §4.2).
package parser

import (
	"github.com/hashicorp/go-multierror"

	"nilan/ast"
	"nilan/token"
)

const maxArgs = 255

// Parser holds the token stream and current read position. Position is
// always one past the token last consumed by advance().
type Parser struct {
	tokens []token.Token
	pos    int
}

// New constructs a Parser over tokens, which must end with an Eof
// token (as lexer.Scan produces).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the full token stream into a program. It always returns
// every statement it could parse; err is a *multierror.Error aggregating
// every syntax error found, or nil if there were none.
func Parse(tokens []token.Token) ([]ast.Stmt, error) {
	p := New(tokens)
	var statements []ast.Stmt
	var errs *multierror.Error

	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			errs = multierror.Append(errs, err)
			p.synchronize()
			continue
		}
		statements = append(statements, stmt)
	}
	return statements, errs.ErrorOrNil()
}

func (p *Parser) peek() token.Token     { return p.tokens[p.pos] }
func (p *Parser) isAtEnd() bool         { return p.peek().Kind == token.Eof }
func (p *Parser) previous() token.Token { return p.tokens[p.pos-1] }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.Eof
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, &UnexpectedTokenError{Found: p.peek(), Message: message}
}

// synchronize discards tokens until it reaches a likely statement
// boundary, so the next call to declaration() starts somewhere sane
// after a syntax error.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(token.Class):
		return p.classDeclaration()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "expected class name")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		superName, err := p.consume(token.Identifier, "expected superclass name")
		if err != nil {
			return nil, err
		}
		if superName.Lexeme == name.Lexeme {
			return nil, &SelfInheritanceError{Name: name}
		}
		superclass = ast.NewVariable(superName, superName.Span)
	}

	if _, err := p.consume(token.LeftBrace, "expected '{' before class body"); err != nil {
		return nil, err
	}

	var methods []*ast.FunctionStmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(*ast.FunctionStmt))
	}

	end, err := p.consume(token.RightBrace, "expected '}' after class body")
	if err != nil {
		return nil, err
	}

	return ast.NewClassStmt(name, superclass, methods, name.Span.Merge(end.Span)), nil
}

func (p *Parser) function(kind string) (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "expected "+kind+" name")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftParen, "expected '(' after "+kind+" name"); err != nil {
		return nil, err
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				return nil, &TooManyArgumentsError{At: p.peek()}
			}
			param, err := p.consume(token.Identifier, "expected parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	if _, err := p.consume(token.LeftBrace, "expected '{' before "+kind+" body"); err != nil {
		return nil, err
	}
	body, end, err := p.block()
	if err != nil {
		return nil, err
	}

	return ast.NewFunctionStmt(name, params, body, name.Span.Merge(end)), nil
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "expected variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	end, err := p.consume(token.Semicolon, "expected ';' after variable declaration")
	if err != nil {
		return nil, err
	}
	return ast.NewVarStmt(name, initializer, name.Span.Merge(end.Span)), nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LeftBrace):
		statements, end, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStmt(statements, p.previous().Span.Merge(end)), nil
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	keyword := p.previous()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon, "expected ';' after value")
	if err != nil {
		return nil, err
	}
	return ast.NewPrintStmt(value, keyword.Span.Merge(end.Span)), nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.consume(token.Semicolon, "expected ';' after return value")
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(keyword, value, keyword.Span.Merge(end.Span)), nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	span := keyword.Span.Merge(then.Span())
	if elseBranch != nil {
		span = span.Merge(elseBranch.Span())
	}
	return ast.NewIfStmt(condition, then, elseBranch, span), nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "expected ')' after condition"); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStmt(condition, body, keyword.Span.Merge(body.Span())), nil
}

// forStatement desugars `for (init; cond; incr) body` into a Block
// containing the initializer followed by a WhileStmt whose body wraps
// the original body and the increment expression, the classic
// clox/jlox desugaring (spec.md §4.2's for-loop note).
func (p *Parser) forStatement() (ast.Stmt, error) {
	keyword := p.previous()
	if _, err := p.consume(token.LeftParen, "expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.check(token.Semicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	end, err := p.consume(token.RightParen, "expected ')' after for clauses")
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	span := keyword.Span.Merge(end.Span).Merge(body.Span())

	if increment != nil {
		body = ast.NewBlockStmt([]ast.Stmt{body, ast.NewExpressionStmt(increment, increment.Span())}, span)
	}
	if condition == nil {
		condition = ast.NewLiteral(true, span)
	}
	body = ast.NewWhileStmt(condition, body, span)
	if initializer != nil {
		body = ast.NewBlockStmt([]ast.Stmt{initializer, body}, span)
	}
	return body, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon, "expected ';' after expression")
	if err != nil {
		return nil, err
	}
	return ast.NewExpressionStmt(expr, expr.Span().Merge(end.Span)), nil
}

// block parses statements up to (and consuming) the closing brace and
// returns the closing brace's span alongside the statement list, since
// callers need it to build an encompassing Span.
func (p *Parser) block() ([]ast.Stmt, token.Span, error) {
	var statements []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, token.Span{}, err
		}
		statements = append(statements, stmt)
	}
	end, err := p.consume(token.RightBrace, "expected '}' after block")
	if err != nil {
		return nil, token.Span{}, err
	}
	return statements, end.Span, nil
}

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return ast.NewAssignment(target, value, target.Span().Merge(value.Span())), nil
		case *ast.Get:
			return ast.NewSet(target.Object, target.Name, value, target.Span().Merge(value.Span())), nil
		default:
			return nil, &InvalidAssignmentTargetError{Equals: equals}
		}
	}
	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, op, right, expr.Span().Merge(right.Span()))
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(op, right, op.Span.Merge(right.Span())), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.NewGet(expr, name, expr.Span().Merge(name.Span))
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				return nil, &TooManyArgumentsError{At: p.peek()}
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	end, err := p.consume(token.RightParen, "expected ')' after arguments")
	if err != nil {
		return nil, err
	}
	return ast.NewCall(callee, args, callee.Span().Merge(end.Span)), nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return ast.NewLiteral(false, p.previous().Span), nil
	case p.match(token.True):
		return ast.NewLiteral(true, p.previous().Span), nil
	case p.match(token.Nil):
		return ast.NewLiteral(nil, p.previous().Span), nil
	case p.match(token.Number):
		tok := p.previous()
		return ast.NewLiteral(tok.NumberValue(), tok.Span), nil
	case p.match(token.String):
		tok := p.previous()
		return ast.NewLiteral(tok.StringValue(), tok.Span), nil
	case p.match(token.This):
		tok := p.previous()
		return ast.NewThis(tok, tok.Span), nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "expected '.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "expected superclass method name")
		if err != nil {
			return nil, err
		}
		return ast.NewSuper(keyword, method, keyword.Span.Merge(method.Span)), nil
	case p.match(token.Identifier):
		tok := p.previous()
		return ast.NewVariable(tok, tok.Span), nil
	case p.match(token.LeftParen):
		start := p.previous()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		end, err := p.consume(token.RightParen, "expected ')' after expression")
		if err != nil {
			return nil, err
		}
		return ast.NewGrouping(expr, start.Span.Merge(end.Span)), nil
	default:
		return nil, &UnexpectedTokenError{Found: p.peek(), Message: "expected expression"}
	}
}
