package ast

import "encoding/json"

// printer implements ExprVisitor/StmtVisitor and builds a JSON-friendly
// map/slice representation of the tree, used by the `emit` CLI
// subcommand and by tests that want to assert on parser output without
// depending on compiler internals.
type printer struct{}

func (p printer) VisitUnary(e *Unary) (any, error) {
	right, err := e.Operand.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Unary", "operator": e.Operator.Lexeme, "operand": right}, nil
}

func (p printer) VisitBinary(e *Binary) (any, error) {
	left, err := e.Left.Accept(p)
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Binary", "operator": e.Operator.Lexeme, "left": left, "right": right}, nil
}

func (p printer) VisitLogical(e *Logical) (any, error) {
	left, err := e.Left.Accept(p)
	if err != nil {
		return nil, err
	}
	right, err := e.Right.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Logical", "operator": e.Operator.Lexeme, "left": left, "right": right}, nil
}

func (p printer) VisitGrouping(e *Grouping) (any, error) {
	inner, err := e.Inner.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Grouping", "inner": inner}, nil
}

func (p printer) VisitLiteral(e *Literal) (any, error) {
	return e.Value, nil
}

func (p printer) VisitVariable(e *Variable) (any, error) {
	return map[string]any{"type": "Variable", "name": e.Name.Lexeme}, nil
}

func (p printer) VisitAssignment(e *Assignment) (any, error) {
	target, err := e.Target.Accept(p)
	if err != nil {
		return nil, err
	}
	val, err := e.Value.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Assignment", "target": target, "value": val}, nil
}

func (p printer) VisitCall(e *Call) (any, error) {
	callee, err := e.Callee.Accept(p)
	if err != nil {
		return nil, err
	}
	args := make([]any, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := a.Accept(p)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return map[string]any{"type": "Call", "callee": callee, "args": args}, nil
}

func (p printer) VisitGet(e *Get) (any, error) {
	obj, err := e.Object.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Get", "object": obj, "name": e.Name.Lexeme}, nil
}

func (p printer) VisitSet(e *Set) (any, error) {
	obj, err := e.Object.Accept(p)
	if err != nil {
		return nil, err
	}
	val, err := e.Value.Accept(p)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "Set", "object": obj, "name": e.Name.Lexeme, "value": val}, nil
}

func (p printer) VisitThis(e *This) (any, error) {
	return map[string]any{"type": "This"}, nil
}

func (p printer) VisitSuper(e *Super) (any, error) {
	return map[string]any{"type": "Super", "method": e.Method.Lexeme}, nil
}

// stmtJSON renders a single statement node to its JSON-friendly map,
// mirroring the expression printer above but returning the map itself
// since statements have no direct analogue to Literal's raw value.
func stmtJSON(s Stmt) (any, error) {
	switch n := s.(type) {
	case *ExpressionStmt:
		expr, err := n.Expr.Accept(printer{})
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "ExpressionStmt", "expression": expr}, nil
	case *PrintStmt:
		expr, err := n.Expr.Accept(printer{})
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "PrintStmt", "expression": expr}, nil
	case *VarStmt:
		var init any
		if n.Initializer != nil {
			v, err := n.Initializer.Accept(printer{})
			if err != nil {
				return nil, err
			}
			init = v
		}
		return map[string]any{"type": "VarStmt", "name": n.Name.Lexeme, "initializer": init}, nil
	case *BlockStmt:
		stmts := make([]any, 0, len(n.Statements))
		for _, child := range n.Statements {
			v, err := stmtJSON(child)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, v)
		}
		return map[string]any{"type": "BlockStmt", "statements": stmts}, nil
	case *IfStmt:
		cond, err := n.Condition.Accept(printer{})
		if err != nil {
			return nil, err
		}
		then, err := stmtJSON(n.Then)
		if err != nil {
			return nil, err
		}
		var elseVal any
		if n.Else != nil {
			elseVal, err = stmtJSON(n.Else)
			if err != nil {
				return nil, err
			}
		}
		return map[string]any{"type": "IfStmt", "condition": cond, "then": then, "else": elseVal}, nil
	case *WhileStmt:
		cond, err := n.Condition.Accept(printer{})
		if err != nil {
			return nil, err
		}
		body, err := stmtJSON(n.Body)
		if err != nil {
			return nil, err
		}
		return map[string]any{"type": "WhileStmt", "condition": cond, "body": body}, nil
	case *FunctionStmt:
		body := make([]any, 0, len(n.Body))
		for _, child := range n.Body {
			v, err := stmtJSON(child)
			if err != nil {
				return nil, err
			}
			body = append(body, v)
		}
		params := make([]string, 0, len(n.Params))
		for _, p := range n.Params {
			params = append(params, p.Lexeme)
		}
		return map[string]any{"type": "FunctionStmt", "name": n.Name.Lexeme, "params": params, "body": body}, nil
	case *ReturnStmt:
		var val any
		if n.Value != nil {
			v, err := n.Value.Accept(printer{})
			if err != nil {
				return nil, err
			}
			val = v
		}
		return map[string]any{"type": "ReturnStmt", "value": val}, nil
	case *ClassStmt:
		methods := make([]any, 0, len(n.Methods))
		for _, m := range n.Methods {
			v, err := stmtJSON(m)
			if err != nil {
				return nil, err
			}
			methods = append(methods, v)
		}
		var super any
		if n.Superclass != nil {
			super = n.Superclass.Name.Lexeme
		}
		return map[string]any{"type": "ClassStmt", "name": n.Name.Lexeme, "superclass": super, "methods": methods}, nil
	default:
		return map[string]any{"type": "Unknown"}, nil
	}
}

// PrintJSON renders a parsed program as indented JSON, grounded on the
// same shape the reference parser's AST printer produced.
func PrintJSON(statements []Stmt) (string, error) {
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		v, err := stmtJSON(s)
		if err != nil {
			return "", err
		}
		out = append(out, v)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
