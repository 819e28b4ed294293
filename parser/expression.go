package parser

import (
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/token"
)

// Operator precedence levels
const (
	LOWEST   = iota
	OR_PREC  // ||
	AND_PREC // &&
	COMPARE  // =, !=, <, >, <=, >=, IN, NOT IN
	ADD_PREC // +, -
	MUL_PREC // *, /
	UNARY    // !x, -x, +x
)

var aggregates = map[string]bool{
	"COUNT":        true,
	"SUM":          true,
	"MIN":          true,
	"MAX":          true,
	"AVG":          true,
	"SAMPLE":       true,
	"GROUP_CONCAT": true,
}

func (p *Parser) precedence(tok token.Token) int {
	switch tok {
	case token.OR:
		return OR_PREC
	case token.AND:
		return AND_PREC
	case token.EQ, token.NEQ, token.LT, token.GT, token.LTE, token.GTE, token.IN:
		return COMPARE
	case token.NOT:
		if p.peekIs(token.IN) {
			return COMPARE
		}
		return LOWEST
	case token.PLUS, token.DASH:
		return ADD_PREC
	case token.ASTERISK, token.SLASH:
		return MUL_PREC
	default:
		return LOWEST
	}
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefixExpression()

	for !p.currentIs(token.EOF) && precedence < p.precedence(p.current.Token) {
		left = p.parseInfixExpression(left)
	}

	return left
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	pos := p.current.Pos
	switch p.current.Token {
	case token.BANG, token.PLUS, token.DASH:
		op := p.current.Value
		p.nextToken()
		return &ast.UnaryExpr{Position: pos, Op: op, Operand: p.parseExpression(UNARY)}
	case token.LPAREN:
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return expr
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	pos := p.current.Pos
	switch p.current.Token {
	case token.VAR:
		return p.parseVar()
	case token.IRIREF, token.PNAME:
		iri := p.parseIRI()
		if !p.currentIs(token.LPAREN) {
			return iri.(ast.Expression)
		}
		call := &ast.FunctionCall{Position: pos, IRI: iri}
		p.parseArgList(call, true)
		return call
	case token.STRING, token.INTEGER, token.DECIMAL, token.DOUBLE, token.TRUE, token.FALSE:
		return p.parseLiteral()
	case token.EXISTS:
		return p.parseExists(pos, false)
	case token.NOT:
		p.nextToken()
		if !p.currentIs(token.EXISTS) {
			p.errorf(p.current.Pos, "expected EXISTS after NOT, got %s", describe(p.current))
			return nil
		}
		return p.parseExists(pos, true)
	case token.IDENT:
		if p.currentIsA() {
			break
		}
		return p.parseBuiltinCall()
	}
	p.errorf(pos, "unexpected %s in expression", describe(p.current))
	return nil
}

func (p *Parser) parseExists(pos token.Position, not bool) *ast.ExistsExpr {
	p.nextToken() // skip EXISTS
	return &ast.ExistsExpr{Position: pos, Not: not, Pattern: p.parseGroupPattern()}
}

// parseBuiltinCall parses built-in functions and aggregates by name.
func (p *Parser) parseBuiltinCall() *ast.FunctionCall {
	call := &ast.FunctionCall{Position: p.current.Pos, Name: strings.ToUpper(p.current.Value)}
	p.nextToken()
	if !p.currentIs(token.LPAREN) {
		p.errorf(p.current.Pos, "expected ( after %s, got %s", call.Name, describe(p.current))
		return call
	}
	p.parseArgList(call, aggregates[call.Name])
	return call
}

// parseArgList parses '(' [DISTINCT] ( '*' | args ) [; SEPARATOR = "s"] ')'.
func (p *Parser) parseArgList(call *ast.FunctionCall, allowDistinct bool) {
	p.nextToken() // skip (
	if allowDistinct && p.currentIs(token.DISTINCT) {
		call.Distinct = true
		p.nextToken()
	}
	if call.Name == "COUNT" && p.currentIs(token.ASTERISK) {
		call.Star = true
		p.nextToken()
		p.expect(token.RPAREN)
		return
	}
	for !p.currentIs(token.RPAREN) && !p.currentIs(token.EOF) {
		call.Args = append(call.Args, p.parseExpression(LOWEST))
		if !p.currentIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if call.Name == "GROUP_CONCAT" && p.currentIs(token.SEMICOLON) {
		p.nextToken()
		if !p.expect(token.SEPARATOR) || !p.expect(token.EQ) {
			return
		}
		if !p.currentIs(token.STRING) {
			p.errorf(p.current.Pos, "expected string after SEPARATOR =, got %s", describe(p.current))
			return
		}
		sep := p.current.Value
		call.Separator = &sep
		p.nextToken()
	}
	p.expect(token.RPAREN)
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	pos := p.current.Pos
	switch p.current.Token {
	case token.IN, token.NOT:
		in := &ast.InExpr{Position: pos, Expr: left}
		if p.currentIs(token.NOT) {
			in.Not = true
			p.nextToken()
		}
		p.nextToken() // skip IN
		if !p.expect(token.LPAREN) {
			return in
		}
		in.List = []ast.Expression{}
		for !p.currentIs(token.RPAREN) && !p.currentIs(token.EOF) {
			in.List = append(in.List, p.parseExpression(LOWEST))
			if !p.currentIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
		p.expect(token.RPAREN)
		return in
	}

	op := p.current.Value
	prec := p.precedence(p.current.Token)
	p.nextToken()
	return &ast.BinaryExpr{
		Position: pos,
		Op:       op,
		Left:     left,
		Right:    p.parseExpression(prec),
	}
}

func (p *Parser) startsConstraint() bool {
	switch p.current.Token {
	case token.LPAREN, token.EXISTS:
		return true
	case token.NOT:
		return p.peekIs(token.EXISTS)
	case token.IDENT:
		return !p.currentIsA()
	case token.IRIREF, token.PNAME:
		return p.peekIs(token.LPAREN)
	}
	return false
}

// parseConstraint parses a bracketted expression or a function call, as
// used by FILTER, HAVING and ORDER BY.
func (p *Parser) parseConstraint() ast.Expression {
	if p.currentIs(token.LPAREN) {
		p.nextToken()
		expr := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return expr
	}
	pos := p.current.Pos
	expr := p.parsePrimary()
	switch expr.(type) {
	case *ast.FunctionCall, *ast.ExistsExpr:
		return expr
	}
	if p.err == nil {
		p.errorf(pos, "expected constraint")
	}
	return expr
}
