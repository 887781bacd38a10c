package parser

import (
	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/token"
)

func (p *Parser) block() []ast.Stmt {
	var body []ast.Stmt

	for !p.check(token.RIGHT_BRACE) && !p.isFinished() {
		body = append(body, p.statement())
	}

	p.consume(token.RIGHT_BRACE, "Expected '}' after block")
	return body
}

func (p *Parser) statement() ast.Stmt {
	view := p.cur.View

	switch p.cur.Type {
	case token.PRINT:
		return p.printStmt()

	case token.IF:
		return p.ifStmt()

	case token.LOOP:
		return p.loopBlock()

	case token.WHILE:
		return p.whileLoop()

	case token.FOR:
		return p.forLoop()

	case token.RETURN:
		return p.returnStmt()

	case token.TYPE:
		return p.typeDeclaration()

	case token.FUNC:
		return p.funcDeclaration()

	case token.VAR:
		return p.varDeclaration()

	case token.LEFT_BRACE:
		p.advance()
		body := p.block()
		return &ast.BlockStmt{Span: view.Union(p.prev.View), Body: body}

	case token.BREAK:
		p.advance()
		p.consume(token.SEMICOLON, "Expected ';' after break")
		return &ast.BreakStmt{Span: view}

	case token.CONTINUE:
		p.advance()
		p.consume(token.SEMICOLON, "Expected ';' after continue")
		return &ast.ContinueStmt{Span: view}

	case token.EXIT:
		p.advance()
		p.consume(token.NUMBER, "Expected number after exit")
		code := p.number()
		stmt := &ast.ExitStmt{Span: view.Union(p.prev.View), Code: code}
		p.consume(token.SEMICOLON, "Expected ';' after exit code")
		return stmt

	case token.EOF, token.ERROR:
		return &ast.EmptyStmt{Span: view}
	}

	return p.exprStmt()
}

func (p *Parser) exprStmt() ast.Stmt {
	view := p.cur.View
	expr := p.expression()
	stmt := &ast.ExprStmt{Span: view.Union(p.prev.View), Expr: expr}
	p.consume(token.SEMICOLON, "Expected ';' after expression")
	return stmt
}

func (p *Parser) printStmt() ast.Stmt {
	view := p.cur.View
	p.advance()
	exprs := p.exprList()
	stmt := &ast.PrintStmt{Span: view.Union(p.prev.View), Exprs: exprs}
	p.consume(token.SEMICOLON, "Expected ';' after print statement")
	return stmt
}

// ifStmt parses `else if` by recursing, so a dangling else binds to the
// nearest unclosed if.
func (p *Parser) ifStmt() ast.Stmt {
	view := p.cur.View
	p.advance()
	condition := p.expression()
	p.consume(token.LEFT_BRACE, "Expected '{' after if condition")
	body := p.block()

	var orElse []ast.Stmt
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			orElse = append(orElse, p.ifStmt())
		} else {
			p.consume(token.LEFT_BRACE, "Expected '{' after else clause")
			orElse = p.block()
		}
	}

	return &ast.IfStmt{
		Span:      view.Union(p.prev.View),
		Condition: condition,
		Body:      body,
		OrElse:    orElse,
	}
}

func (p *Parser) loopBlock() ast.Stmt {
	view := p.cur.View
	p.advance()
	p.consume(token.LEFT_BRACE, "Expected '{' after loop")
	body := p.block()
	return &ast.LoopBlock{Span: view.Union(p.prev.View), Body: body}
}

func (p *Parser) whileLoop() ast.Stmt {
	view := p.cur.View
	p.advance()
	condition := p.expression()
	p.consume(token.LEFT_BRACE, "Expected '{' after while condition")
	body := p.block()
	return &ast.WhileLoop{
		Span:      view.Union(p.prev.View),
		Condition: condition,
		Body:      body,
	}
}

func (p *Parser) forLoop() ast.Stmt {
	view := p.cur.View
	p.advance()

	if !p.match(token.IDENT) {
		p.errorAt(p.cur, "For loop target must be an identifier")
		return &ast.EmptyStmt{Span: view}
	}

	target := p.identifier()
	p.consume(token.IN, "Expected 'in' after for loop target")
	iterator := p.expression()
	p.consume(token.LEFT_BRACE, "Expected '{' after for iterator")
	body := p.block()

	return &ast.ForLoop{
		Span:     view.Union(p.prev.View),
		Target:   target,
		Iterator: iterator,
		Body:     body,
	}
}

// returnStmt defaults the value to None when the expression is omitted.
func (p *Parser) returnStmt() ast.Stmt {
	view := p.cur.View
	p.advance()

	var value ast.Expr = &ast.NoneLiteral{Span: view}
	if !p.match(token.SEMICOLON) {
		value = p.expression()
		view = view.Union(p.prev.View)
		p.consume(token.SEMICOLON, "Expected ';' after return statement")
	}

	return &ast.ReturnStmt{Span: view, Value: value}
}

func (p *Parser) typeDeclaration() ast.Stmt {
	view := p.cur.View
	p.advance()
	p.consume(token.IDENT, "Type name must be an identifier")
	name := p.identifier()

	var parents []ast.Identifier
	if p.match(token.SEMICOLON) {
		for {
			p.consume(token.IDENT, "Parent must be an identifier")
			parents = append(parents, p.identifier())

			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.consume(token.LEFT_BRACE, "Expected '{' before type body")

	var methods []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isFinished() {
		methods = append(methods, p.methodDeclaration())
	}

	p.consume(token.RIGHT_BRACE, "Expected '}' after type body")
	return &ast.TypeDeclaration{
		Span:    view.Union(p.prev.View),
		Name:    name,
		Parents: parents,
		Methods: methods,
	}
}

func (p *Parser) funcDeclaration() ast.Stmt {
	view := p.cur.View
	p.advance()

	if !p.match(token.IDENT) {
		p.errorAt(p.cur, "Function name must be an identifier")
		return &ast.EmptyStmt{Span: view}
	}

	name := p.identifier()
	p.consume(token.LEFT_PAREN, "Expected '(' after function name")
	args := p.argList()
	p.consume(token.RIGHT_PAREN, "Expected ')' after function arguments")
	p.consume(token.LEFT_BRACE, "Expected '{' before function body")
	body := p.block()

	return &ast.FuncDeclaration{
		Span: view.Union(p.prev.View),
		Name: name,
		Args: args,
		Body: body,
	}
}

// methodDeclaration parses `name(args) { body }` without the func keyword.
func (p *Parser) methodDeclaration() ast.Stmt {
	view := p.cur.View

	if !p.match(token.IDENT) {
		p.errorAt(p.cur, "Method name must be an identifier")
		return &ast.EmptyStmt{Span: view}
	}

	name := p.identifier()
	p.consume(token.LEFT_PAREN, "Expected '(' after method name")
	args := p.argList()
	p.consume(token.RIGHT_PAREN, "Expected ')' after method arguments")
	p.consume(token.LEFT_BRACE, "Expected '{' before method body")
	body := p.block()

	return &ast.FuncDeclaration{
		Span: view.Union(p.prev.View),
		Name: name,
		Args: args,
		Body: body,
	}
}

func (p *Parser) argList() []ast.Identifier {
	var args []ast.Identifier

	for !p.isFinished() && !p.check(token.RIGHT_PAREN) {
		expr := p.expression()
		id, ok := expr.(*ast.Identifier)
		if !ok {
			p.errorAt(p.prev, "Expected argument identifiers")
			break
		}
		args = append(args, *id)

		if !p.match(token.COMMA) {
			break
		}
	}

	return args
}

func (p *Parser) varDeclaration() ast.Stmt {
	view := p.cur.View
	p.advance()

	if !p.match(token.IDENT) {
		p.errorAt(p.cur, "Variable name must be an identifier")
		return &ast.EmptyStmt{Span: view}
	}

	name := p.identifier()

	var expr ast.Expr = &ast.Empty{Span: name.Span}
	if p.match(token.EQUAL) {
		expr = p.expression()
	}

	stmt := &ast.VarDeclaration{Span: view.Union(p.prev.View), Target: name, Expr: expr}
	p.consume(token.SEMICOLON, "Expected ';' after variable declaration")
	return stmt
}
