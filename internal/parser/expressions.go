package parser

import (
	"strconv"

	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/token"
)

// Precedence levels, lowest first: assignment, or, and, equality,
// comparison, term, factor, exponent, unary, post, primary.

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

var compoundOps = map[token.Type]ast.BinaryOp{
	token.PLUS_EQUAL:  ast.Add,
	token.MINUS_EQUAL: ast.Subtract,
	token.STAR_EQUAL:  ast.Multiply,
	token.SLASH_EQUAL: ast.Divide,
	token.CARET_EQUAL: ast.Exponent,
}

// assignment is right-associative; compound forms desugar to
// `target = target OP rhs` with the same target node on both sides.
func (p *Parser) assignment() ast.Expr {
	view := p.cur.View
	target := p.or()

	if p.match(token.EQUAL, token.PLUS_EQUAL, token.MINUS_EQUAL,
		token.STAR_EQUAL, token.SLASH_EQUAL, token.CARET_EQUAL) {
		opToken := p.prev
		value := p.assignment()

		if opToken.Type != token.EQUAL {
			value = &ast.BinaryExpr{
				Span:    view.Union(p.prev.View),
				Op:      compoundOps[opToken.Type],
				OpToken: opToken,
				Left:    target,
				Right:   value,
			}
		}

		return &ast.AssignmentExpr{
			Span:   view.Union(p.prev.View),
			Target: target,
			Value:  value,
		}
	}

	return target
}

func (p *Parser) or() ast.Expr {
	view := p.cur.View
	expr := p.and()

	for p.match(token.OR) {
		opToken := p.prev
		right := p.and()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      ast.Or,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

func (p *Parser) and() ast.Expr {
	view := p.cur.View
	expr := p.equality()

	for p.match(token.AND) {
		opToken := p.prev
		right := p.equality()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      ast.And,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

func (p *Parser) equality() ast.Expr {
	view := p.cur.View
	expr := p.comparison()

	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		opToken := p.prev
		op := ast.Equal
		if opToken.Type == token.BANG_EQUAL {
			op = ast.NotEqual
		}

		right := p.comparison()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      op,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

func (p *Parser) comparison() ast.Expr {
	view := p.cur.View
	expr := p.term()

	for p.match(token.GREATER, token.LESS, token.GREATER_EQUAL, token.LESS_EQUAL) {
		opToken := p.prev

		var op ast.BinaryOp
		switch opToken.Type {
		case token.GREATER:
			op = ast.GreaterThan
		case token.LESS:
			op = ast.LessThan
		case token.GREATER_EQUAL:
			op = ast.GreaterThanOrEq
		case token.LESS_EQUAL:
			op = ast.LessThanOrEq
		}

		right := p.term()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      op,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

func (p *Parser) term() ast.Expr {
	view := p.cur.View
	expr := p.factor()

	for p.match(token.PLUS, token.MINUS, token.PERCENT) {
		opToken := p.prev

		var op ast.BinaryOp
		switch opToken.Type {
		case token.PLUS:
			op = ast.Add
		case token.MINUS:
			op = ast.Subtract
		case token.PERCENT:
			op = ast.Modulous
		}

		right := p.factor()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      op,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

func (p *Parser) factor() ast.Expr {
	view := p.cur.View
	expr := p.exponent()

	for p.match(token.STAR, token.SLASH) {
		opToken := p.prev
		op := ast.Multiply
		if opToken.Type == token.SLASH {
			op = ast.Divide
		}

		right := p.exponent()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      op,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

// exponent is right-associative.
func (p *Parser) exponent() ast.Expr {
	view := p.cur.View
	expr := p.unary()

	if p.match(token.CARET) {
		opToken := p.prev
		right := p.exponent()
		expr = &ast.BinaryExpr{
			Span:    view.Union(p.prev.View),
			Op:      ast.Exponent,
			OpToken: opToken,
			Left:    expr,
			Right:   right,
		}
	}

	return expr
}

// unary collapses chains of prefix +/- and ! before the operand: an odd
// number of minuses yields Negative, an even number folds to identity,
// and likewise for bangs against Negate.
func (p *Parser) unary() ast.Expr {
	view := p.cur.View

	if p.match(token.MINUS, token.PLUS) {
		isNegative := p.prev.Type == token.MINUS
		for p.match(token.MINUS, token.PLUS) {
			if p.prev.Type == token.MINUS {
				isNegative = !isNegative
			}
		}

		if isNegative {
			opToken := p.prev
			operand := p.post()
			return &ast.UnaryExpr{
				Span:    view.Union(p.prev.View),
				Op:      ast.Negative,
				OpToken: opToken,
				Operand: operand,
			}
		}
	} else if p.match(token.BANG) {
		isNegate := true
		for p.match(token.BANG) {
			isNegate = !isNegate
		}

		if isNegate {
			opToken := p.prev
			operand := p.post()
			return &ast.UnaryExpr{
				Span:    view.Union(p.prev.View),
				Op:      ast.Negate,
				OpToken: opToken,
				Operand: operand,
			}
		}
	}

	return p.post()
}

// post handles the postfix chain: property access and calls.
func (p *Parser) post() ast.Expr {
	view := p.cur.View
	expr := p.primary()

	for p.match(token.DOT, token.LEFT_PAREN) {
		if p.prev.Type == token.DOT {
			p.consume(token.IDENT, "Expected identifier name after '.'")
			prop := p.identifier()
			expr = &ast.PropertyExpr{
				Span: view.Union(p.prev.View),
				Expr: expr,
				Prop: prop,
			}
		} else {
			var args []ast.Expr
			if !p.check(token.RIGHT_PAREN) {
				args = p.exprList()
			}

			p.consume(token.RIGHT_PAREN, "Expected ')' after argument list")
			expr = &ast.CallExpr{
				Span:   view.Union(p.prev.View),
				Target: expr,
				Args:   args,
			}
		}
	}

	return expr
}

func (p *Parser) primary() ast.Expr {
	p.advance()

	switch p.prev.Type {
	case token.TRUE:
		return &ast.BoolLiteral{Span: p.prev.View, Value: true}
	case token.FALSE:
		return &ast.BoolLiteral{Span: p.prev.View, Value: false}
	case token.NONE:
		return &ast.NoneLiteral{Span: p.prev.View}
	case token.NUMBER:
		num := p.number()
		return &num
	case token.IDENT:
		id := p.identifier()
		return &id
	case token.STRING:
		return &ast.StrLiteral{Span: p.prev.View, Value: p.prev.Lexeme}
	case token.LEFT_PAREN:
		return p.grouping()
	}

	p.errorAt(p.prev, "Expected an expression")
	return &ast.Empty{Span: p.prev.View}
}

// number converts the previous token's lexeme; a leading '.' implies a
// "0." prefix.
func (p *Parser) number() ast.NumLiteral {
	text := p.prev.Lexeme
	if len(text) > 0 && text[0] == '.' {
		text = "0" + text
	}

	value, _ := strconv.ParseFloat(text, 64)
	return ast.NumLiteral{Span: p.prev.View, Value: value}
}

func (p *Parser) identifier() ast.Identifier {
	return ast.Identifier{Span: p.prev.View, Name: p.prev.Lexeme}
}

func (p *Parser) grouping() ast.Expr {
	expr := p.expression()
	p.consume(token.RIGHT_PAREN, "Expected ')' after grouping")
	return expr
}

func (p *Parser) exprList() []ast.Expr {
	var values []ast.Expr

	for !p.isFinished() {
		values = append(values, p.expression())

		if !p.match(token.COMMA) {
			break
		}
	}

	return values
}
