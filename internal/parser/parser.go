// Package parser builds a Kite syntax tree from tokens using recursive
// descent with hand-written precedence climbing.
package parser

import (
	"fmt"

	"github.com/funvibe/kite/internal/ast"
	"github.com/funvibe/kite/internal/diagnostics"
	"github.com/funvibe/kite/internal/lexer"
	"github.com/funvibe/kite/internal/token"
)

// Parser is single-shot: the first error is recorded and all following
// productions become no-ops.
type Parser struct {
	source string
	path   string

	lexer *lexer.Lexer
	prev  token.Token
	cur   token.Token

	hadError bool
	err      *diagnostics.Error
}

func New(source, path string) *Parser {
	return &Parser{
		source: source,
		path:   path,
		lexer:  lexer.New(source),
	}
}

// Parse consumes the whole token stream and returns the program. Check
// Failed before using the result.
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{Source: p.source, Path: p.path}

	p.advance()
	for !p.isFinished() {
		prog.Body = append(prog.Body, p.statement())
	}

	return prog
}

// Failed reports whether parsing stopped at an error.
func (p *Parser) Failed() bool {
	return p.hadError
}

// Err returns the recorded error, or nil.
func (p *Parser) Err() *diagnostics.Error {
	return p.err
}

func (p *Parser) advance() {
	if p.hadError {
		return
	}

	p.prev = p.cur
	p.cur = p.lexer.NextToken()

	if p.cur.Type == token.ERROR {
		p.errorAt(p.cur, fmt.Sprintf("Invalid Token: %s", p.cur.Lexeme))
	}
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.errorAtView(tok.View, msg, "")
}

func (p *Parser) errorAtView(view token.SourceView, msg, note string) {
	if p.hadError {
		return
	}

	p.hadError = true
	p.err = &diagnostics.Error{
		View: view,
		Kind: diagnostics.SyntaxError,
		Msg:  msg,
		Note: note,
		Path: p.path,
	}
}

// consume advances past an expected token type; on mismatch the error is
// reported at a one-character view just after the previous token.
func (p *Parser) consume(t token.Type, msg string) {
	if p.cur.Type == t {
		p.advance()
		return
	}

	p.errorAtView(p.prev.View.After(), msg, "here")
}

func (p *Parser) isFinished() bool {
	return p.check(token.EOF) || p.hadError
}

func (p *Parser) check(t token.Type) bool {
	return p.cur.Type == t
}

func (p *Parser) match(types ...token.Type) bool {
	if p.isFinished() {
		return false
	}

	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}

	return false
}
