package parser

import (
	"github.com/cwbudde/minic/internal/ast"
	"github.com/cwbudde/minic/internal/lexer"
)

// parseAssign recognizes `assign = formula ( "=" assign )?`, right
// associative.
func (p *Parser) parseAssign() (ast.Expression, error) {
	left, err := p.parseFormula()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.ASSIGN) {
		return left, nil
	}
	pos := p.advance().Pos
	if err := p.checkLvalue(left); err != nil {
		return nil, err
	}
	right, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{Op: ast.Assign, Left: left, Right: right, ValType: left.Type(), Position: pos}, nil
}

func (p *Parser) parseFormula() (ast.Expression, error) { return p.parseLogicalOr() }

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.LOR) {
		pos := p.advance().Pos
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: ast.LogOr, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.LAND) {
		pos := p.advance().Pos
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: ast.LogAnd, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseBitOr() (ast.Expression, error) {
	left, err := p.parseBitXor()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PIPE) {
		pos := p.advance().Pos
		right, err := p.parseBitXor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: ast.BitOr, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseBitXor() (ast.Expression, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.CARET) {
		pos := p.advance().Pos
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: ast.BitXor, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.AMP) {
		pos := p.advance().Pos
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: ast.BitAnd, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.EQ) || p.check(lexer.NEQ) {
		op := ast.Eq
		if p.cur().Type == lexer.NEQ {
			op = ast.NotEq
		}
		pos := p.advance().Pos
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
	return left, nil
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOpKind
		switch p.cur().Type {
		case lexer.LT:
			op = ast.Lt
		case lexer.GT:
			op = ast.Gt
		case lexer.LE:
			op = ast.Le
		case lexer.GE:
			op = ast.Ge
		default:
			return left, nil
		}
		pos := p.advance().Pos
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, ValType: p.longType, Position: pos}
	}
}

func (p *Parser) parseAdd() (ast.Expression, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := ast.Add
		if p.cur().Type == lexer.MINUS {
			op = ast.Sub
		}
		pos := p.advance().Pos
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, ValType: left.Type(), Position: pos}
	}
	return left, nil
}

func (p *Parser) parseMul() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOpKind
		switch p.cur().Type {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		case lexer.PERCENT:
			op = ast.Rem
		default:
			return left, nil
		}
		pos := p.advance().Pos
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Op: op, Left: left, Right: right, ValType: left.Type(), Position: pos}
	}
}

// parseUnary recognizes:
//
//	unary = "+" unary | "-" unary | "!" unary | "~" unary
//	      | "&" unary | "*" unary | "sizeof" "(" formula ")"
//	      | ("++"|"--") var_suffix | primary
func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Type {
	case lexer.PLUS:
		p.advance()
		return p.parseUnary()
	case lexer.MINUS:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		zero := &ast.IntLiteral{Value: 0, ValType: operand.Type(), Position: pos}
		return &ast.BinaryOp{Op: ast.Sub, Left: zero, Right: operand, ValType: operand.Type(), Position: pos}, nil
	case lexer.NOT:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.Not, Operand: operand, ValType: p.longType, Position: pos}, nil
	case lexer.TILDE:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: ast.BitNot, Operand: operand, ValType: operand.Type(), Position: pos}, nil
	case lexer.AMP:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !p.isAddressable(operand) {
			return nil, p.errorf(pos, "operand is not addressable")
		}
		return &ast.AddressOf{Operand: operand, ValType: p.env.Types.Pointer(operand.Type()), Position: pos}, nil
	case lexer.STAR:
		pos := p.advance().Pos
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if !operand.Type().IsPointer() {
			return nil, p.errorf(pos, "cannot dereference a non-pointer operand")
		}
		return &ast.Deref{Operand: operand, ValType: operand.Type().Elem(), Position: pos}, nil
	case lexer.SIZEOF:
		pos := p.advance().Pos
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		operand, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		size := operand.Type().Size()
		return &ast.IntLiteral{Value: int64(size), ValType: p.longType, Position: pos}, nil
	case lexer.INC, lexer.DEC:
		op := ast.PreInc
		if p.cur().Type == lexer.DEC {
			op = ast.PreDec
		}
		pos := p.advance().Pos
		operand, err := p.parseVarSuffix()
		if err != nil {
			return nil, err
		}
		if err := p.checkLvalue(operand); err != nil {
			return nil, err
		}
		return &ast.UnaryOp{Op: op, Operand: operand, ValType: operand.Type(), Position: pos}, nil
	default:
		return p.parsePrimary()
	}
}

// parsePrimary recognizes `primary = int | "(" formula ")" | ident_expr`.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	switch p.cur().Type {
	case lexer.NUMBER:
		tok := p.advance()
		v, err := tok.IntValue()
		if err != nil {
			return nil, p.errorf(tok.Pos, "%s", err)
		}
		return &ast.IntLiteral{Value: v, ValType: p.longType, Position: tok.Pos}, nil
	case lexer.LPAREN:
		p.advance()
		e, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case lexer.IDENT:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf(p.cur().Pos, "unexpected token %s", p.cur().Type)
	}
}

// parseIdentExpr recognizes `ident_expr = ident ( "(" args? ")" )? |
// var_suffix`.
func (p *Parser) parseIdentExpr() (ast.Expression, error) {
	if p.peekAt(1).Type == lexer.LPAREN {
		nameTok := p.advance()
		p.advance() // "("
		decl, ok := p.env.Functions.Lookup(nameTok.Literal)
		if !ok {
			return nil, p.errorf(nameTok.Pos, "call to undeclared function %q", nameTok.Literal)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if decl.HasArgTypes {
			if len(args) != len(decl.ArgTypes) {
				return nil, p.errorf(nameTok.Pos, "function %q expects %d argument(s), got %d", nameTok.Literal, len(decl.ArgTypes), len(args))
			}
			for i, a := range args {
				if !a.Type().Equal(decl.ArgTypes[i]) {
					return nil, p.errorf(a.Pos(), "argument %d of %q has the wrong type", i+1, nameTok.Literal)
				}
			}
		}
		return &ast.Call{Name: nameTok.Literal, FuncDecl: decl, ResultType: decl.ReturnType, Args: args, Position: nameTok.Pos}, nil
	}
	return p.parseVarSuffix()
}

// parseArgs recognizes a comma-separated, possibly empty argument list.
func (p *Parser) parseArgs() ([]ast.Expression, error) {
	var args []ast.Expression
	if p.check(lexer.RPAREN) {
		return args, nil
	}
	for {
		arg, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseVarSuffix recognizes `var_suffix = ident ( "[" formula "]" |
// "++" | "--" )*`.
func (p *Parser) parseVarSuffix() (ast.Expression, error) {
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	v, ok := p.env.Variables.Lookup(nameTok.Literal)
	if !ok {
		return nil, p.errorf(nameTok.Pos, "undeclared variable %q", nameTok.Literal)
	}
	var expr ast.Expression = &ast.VarRef{Variable: v, Position: nameTok.Pos}

	for {
		switch p.cur().Type {
		case lexer.LBRACK:
			pos := p.advance().Pos
			idx, err := p.parseFormula()
			if err != nil {
				return nil, err
			}
			if !idx.Type().IsInteger() {
				return nil, p.errorf(idx.Pos(), "array index must have integer type")
			}
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
			base := expr.Type()
			if !base.IsArray() && !base.IsPointer() {
				return nil, p.errorf(pos, "cannot index a non-array, non-pointer value")
			}
			expr = &ast.Index{Base: expr, IndexExp: idx, ValType: base.Elem(), Position: pos}
		case lexer.INC, lexer.DEC:
			op := ast.PostInc
			if p.cur().Type == lexer.DEC {
				op = ast.PostDec
			}
			pos := p.advance().Pos
			if err := p.checkLvalue(expr); err != nil {
				return nil, err
			}
			expr = &ast.UnaryOp{Op: op, Operand: expr, ValType: expr.Type(), Position: pos}
		default:
			return expr, nil
		}
	}
}

// checkLvalue enforces §4.3: an assignable or incrementable operand must
// be a VarRef, Deref, or Index.
func (p *Parser) checkLvalue(e ast.Expression) error {
	switch e.(type) {
	case *ast.VarRef, *ast.Deref, *ast.Index:
		return nil
	default:
		return p.errorf(e.Pos(), "expression is not assignable")
	}
}

// isAddressable reports whether operand may be the target of "&": a
// variable reference, or any primitive-typed expression (§4.3).
func (p *Parser) isAddressable(e ast.Expression) bool {
	if _, ok := e.(*ast.VarRef); ok {
		return true
	}
	t := e.Type()
	return t.IsInteger() || t.IsFloat()
}
