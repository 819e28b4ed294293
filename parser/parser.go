// Package parser implements a parser for SPARQL 1.1 queries and updates.
package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/lexer"
	"github.com/kyleconroy/sparqlparam/token"
)

// SyntaxError describes malformed input.
type SyntaxError struct {
	Pos token.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Pos.Line, e.Pos.Column)
}

// Parser parses SPARQL requests.
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Item
	peek    lexer.Item
	err     *SyntaxError
}

// New creates a new Parser from an io.Reader.
func New(r io.Reader) *Parser {
	p := &Parser{
		lexer: lexer.New(r),
	}
	// Read two tokens to initialize current and peek
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	if p.err != nil {
		return
	}
	p.current = p.peek
	for {
		p.peek = p.lexer.NextToken()
		// Skip comments
		if p.peek.Token != token.COMMENT {
			break
		}
	}
}

func (p *Parser) currentIs(t token.Token) bool {
	return p.current.Token == t
}

func (p *Parser) peekIs(t token.Token) bool {
	return p.peek.Token == t
}

// currentIsA reports whether the current token is the 'a' keyword.
func (p *Parser) currentIsA() bool {
	return p.current.Token == token.IDENT && p.current.Value == "a"
}

func (p *Parser) expect(t token.Token) bool {
	if p.currentIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.current.Pos, "expected %s, got %s", t, describe(p.current))
	return false
}

// errorf records the first syntax error and stops the token stream so that
// every parse loop unwinds.
func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	eof := lexer.Item{Token: token.EOF, Pos: pos}
	p.current = eof
	p.peek = eof
}

func (p *Parser) unexpected() {
	p.errorf(p.current.Pos, "unexpected %s", describe(p.current))
}

func describe(item lexer.Item) string {
	switch item.Token {
	case token.ILLEGAL:
		return item.Value
	case token.EOF:
		return "EOF"
	case token.IDENT, token.PNAME, token.INTEGER, token.DECIMAL, token.DOUBLE:
		return fmt.Sprintf("%s %s", item.Token, item.Value)
	case token.VAR:
		return "variable ?" + item.Value
	case token.IRIREF:
		return "IRI <" + item.Value + ">"
	case token.STRING:
		return "string literal"
	}
	if item.Token.IsKeyword() {
		return "keyword " + item.Token.String()
	}
	return item.Token.String()
}

// Parse parses one SPARQL query or update request from the input.
func Parse(ctx context.Context, r io.Reader) (ast.Request, error) {
	p := New(r)
	return p.ParseRequest(ctx)
}

// ParseString parses one SPARQL request held in a string.
func ParseString(ctx context.Context, s string) (ast.Request, error) {
	return Parse(ctx, strings.NewReader(s))
}

// ParseFile parses the SPARQL request stored in the named file.
func ParseFile(ctx context.Context, path string) (ast.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(ctx, f)
}

// ParseRequest parses a query or an update, depending on the first keyword
// after the prologue.
func (p *Parser) ParseRequest(ctx context.Context) (ast.Request, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pos := p.current.Pos
	prologue := p.parsePrologue()

	var req ast.Request
	switch p.current.Token {
	case token.SELECT, token.CONSTRUCT, token.ASK, token.DESCRIBE:
		req = p.parseQuery(pos, prologue)
	default:
		u, err := p.parseUpdate(ctx, pos, prologue)
		if err != nil {
			return nil, err
		}
		req = u
	}

	if p.err == nil && !p.currentIs(token.EOF) {
		p.unexpected()
	}
	if p.err != nil {
		return nil, p.err
	}
	return req, nil
}

func (p *Parser) parsePrologue() []*ast.Declaration {
	var decls []*ast.Declaration
	for {
		switch p.current.Token {
		case token.BASE:
			decl := &ast.Declaration{Position: p.current.Pos, Base: true}
			p.nextToken()
			if !p.currentIs(token.IRIREF) {
				p.errorf(p.current.Pos, "expected IRI after BASE, got %s", describe(p.current))
				return decls
			}
			decl.IRI = p.current.Value
			p.nextToken()
			decls = append(decls, decl)
		case token.PREFIX:
			decl := &ast.Declaration{Position: p.current.Pos}
			p.nextToken()
			if !p.currentIs(token.PNAME) || !strings.HasSuffix(p.current.Value, ":") ||
				strings.Count(p.current.Value, ":") != 1 {
				p.errorf(p.current.Pos, "expected prefix name after PREFIX, got %s", describe(p.current))
				return decls
			}
			decl.Prefix = strings.TrimSuffix(p.current.Value, ":")
			p.nextToken()
			if !p.currentIs(token.IRIREF) {
				p.errorf(p.current.Pos, "expected IRI after PREFIX %s:, got %s", decl.Prefix, describe(p.current))
				return decls
			}
			decl.IRI = p.current.Value
			p.nextToken()
			decls = append(decls, decl)
		default:
			return decls
		}
	}
}

func (p *Parser) parseQuery(pos token.Position, prologue []*ast.Declaration) *ast.Query {
	q := &ast.Query{
		Position: pos,
		Prologue: prologue,
	}

	switch p.current.Token {
	case token.SELECT:
		q.Form = ast.SelectForm
		q.Select = p.parseSelectClause()
		q.Dataset = p.parseDatasetClauses(token.FROM)
		q.Where = p.parseWhereClause()
	case token.CONSTRUCT:
		q.Form = ast.ConstructForm
		p.nextToken()
		if p.currentIs(token.LBRACE) {
			q.Template = p.parseConstructTemplate()
			q.Dataset = p.parseDatasetClauses(token.FROM)
			q.Where = p.parseWhereClause()
		} else {
			q.ShortConstruct = true
			q.Dataset = p.parseDatasetClauses(token.FROM)
			if !p.expect(token.WHERE) {
				return q
			}
			q.Where = p.parseConstructTemplateAsGroup()
		}
	case token.ASK:
		q.Form = ast.AskForm
		p.nextToken()
		q.Dataset = p.parseDatasetClauses(token.FROM)
		q.Where = p.parseWhereClause()
	case token.DESCRIBE:
		q.Form = ast.DescribeForm
		p.nextToken()
		if p.currentIs(token.ASTERISK) {
			q.DescribeAll = true
			p.nextToken()
		} else {
			for p.currentIs(token.VAR) || p.currentIs(token.IRIREF) || p.currentIs(token.PNAME) {
				q.Describe = append(q.Describe, p.parseTerm())
			}
			if len(q.Describe) == 0 {
				p.errorf(p.current.Pos, "expected variable, IRI or * after DESCRIBE, got %s", describe(p.current))
				return q
			}
		}
		q.Dataset = p.parseDatasetClauses(token.FROM)
		if p.currentIs(token.WHERE) || p.currentIs(token.LBRACE) {
			q.Where = p.parseWhereClause()
		}
	}

	q.Modifiers = p.parseSolutionModifier()
	if p.currentIs(token.VALUES) {
		q.Values = p.parseValues()
	}
	return q
}

// parseSubSelect parses SELECT ... WHERE { } modifiers [VALUES] inside a group.
func (p *Parser) parseSubSelect() *ast.SubSelect {
	sub := &ast.SubSelect{Position: p.current.Pos}
	q := &ast.Query{Position: p.current.Pos, Form: ast.SelectForm}
	q.Select = p.parseSelectClause()
	q.Where = p.parseWhereClause()
	q.Modifiers = p.parseSolutionModifier()
	if p.currentIs(token.VALUES) {
		q.Values = p.parseValues()
	}
	sub.Query = q
	return sub
}

func (p *Parser) parseSelectClause() *ast.SelectClause {
	sel := &ast.SelectClause{Position: p.current.Pos}
	if !p.expect(token.SELECT) {
		return sel
	}

	switch p.current.Token {
	case token.DISTINCT:
		sel.Distinct = true
		p.nextToken()
	case token.REDUCED:
		sel.Reduced = true
		p.nextToken()
	}

	if p.currentIs(token.ASTERISK) {
		sel.Star = true
		p.nextToken()
		return sel
	}

	for {
		switch {
		case p.currentIs(token.VAR):
			proj := &ast.Projection{Position: p.current.Pos, Var: p.parseVar()}
			sel.Projection = append(sel.Projection, proj)
		case p.currentIs(token.LPAREN):
			proj := &ast.Projection{Position: p.current.Pos}
			p.nextToken()
			proj.Expr = p.parseExpression(LOWEST)
			if !p.expect(token.AS) {
				return sel
			}
			if !p.currentIs(token.VAR) {
				p.errorf(p.current.Pos, "expected variable after AS, got %s", describe(p.current))
				return sel
			}
			proj.Var = p.parseVar()
			if !p.expect(token.RPAREN) {
				return sel
			}
			sel.Projection = append(sel.Projection, proj)
		default:
			if len(sel.Projection) == 0 {
				p.errorf(p.current.Pos, "expected projection after SELECT, got %s", describe(p.current))
			}
			return sel
		}
	}
}

// parseDatasetClauses parses FROM (queries) or USING (updates) clauses.
func (p *Parser) parseDatasetClauses(keyword token.Token) []*ast.DatasetClause {
	var clauses []*ast.DatasetClause
	for p.currentIs(keyword) {
		clause := &ast.DatasetClause{Position: p.current.Pos}
		p.nextToken()
		if p.currentIs(token.NAMED) {
			clause.Named = true
			p.nextToken()
		}
		clause.IRI = p.parseIRI()
		clauses = append(clauses, clause)
	}
	return clauses
}

func (p *Parser) parseWhereClause() *ast.GroupPattern {
	if p.currentIs(token.WHERE) {
		p.nextToken()
	}
	if !p.currentIs(token.LBRACE) {
		p.errorf(p.current.Pos, "expected WHERE clause, got %s", describe(p.current))
		return nil
	}
	return p.parseGroupPattern()
}

func (p *Parser) parseSolutionModifier() ast.SolutionModifier {
	var mod ast.SolutionModifier

	// GROUP BY
	if p.currentIs(token.GROUP) {
		p.nextToken()
		if !p.expect(token.BY) {
			return mod
		}
		for p.startsGroupCondition() {
			mod.GroupBy = append(mod.GroupBy, p.parseGroupCondition())
		}
		if len(mod.GroupBy) == 0 {
			p.errorf(p.current.Pos, "expected GROUP BY condition, got %s", describe(p.current))
			return mod
		}
	}

	// HAVING
	if p.currentIs(token.HAVING) {
		p.nextToken()
		for p.startsConstraint() {
			mod.Having = append(mod.Having, p.parseConstraint())
		}
		if len(mod.Having) == 0 {
			p.errorf(p.current.Pos, "expected HAVING condition, got %s", describe(p.current))
			return mod
		}
	}

	// ORDER BY
	if p.currentIs(token.ORDER) {
		p.nextToken()
		if !p.expect(token.BY) {
			return mod
		}
		for p.currentIs(token.ASC) || p.currentIs(token.DESC) || p.currentIs(token.VAR) || p.startsConstraint() {
			mod.OrderBy = append(mod.OrderBy, p.parseOrderCondition())
		}
		if len(mod.OrderBy) == 0 {
			p.errorf(p.current.Pos, "expected ORDER BY condition, got %s", describe(p.current))
			return mod
		}
	}

	// LIMIT and OFFSET in either order
	for i := 0; i < 2; i++ {
		switch {
		case p.currentIs(token.LIMIT) && mod.Limit == nil:
			p.nextToken()
			mod.Limit = p.parseIntegerClause("LIMIT")
		case p.currentIs(token.OFFSET) && mod.Offset == nil:
			p.nextToken()
			mod.Offset = p.parseIntegerClause("OFFSET")
		}
	}

	return mod
}

// parseIntegerClause keeps the integer's lexical form, leading zeros included.
func (p *Parser) parseIntegerClause(clause string) *ast.Literal {
	if !p.currentIs(token.INTEGER) {
		p.errorf(p.current.Pos, "expected integer after %s, got %s", clause, describe(p.current))
		return nil
	}
	lit := &ast.Literal{Position: p.current.Pos, Kind: ast.IntegerLiteral, Value: p.current.Value}
	p.nextToken()
	return lit
}

func (p *Parser) startsGroupCondition() bool {
	return p.currentIs(token.VAR) || p.startsConstraint()
}

func (p *Parser) parseGroupCondition() *ast.GroupCondition {
	cond := &ast.GroupCondition{Position: p.current.Pos}
	switch {
	case p.currentIs(token.VAR):
		cond.Expr = p.parseVar()
	case p.currentIs(token.LPAREN):
		p.nextToken()
		cond.Expr = p.parseExpression(LOWEST)
		if p.currentIs(token.AS) {
			p.nextToken()
			if !p.currentIs(token.VAR) {
				p.errorf(p.current.Pos, "expected variable after AS, got %s", describe(p.current))
				return cond
			}
			cond.As = p.parseVar()
		}
		p.expect(token.RPAREN)
	default:
		cond.Expr = p.parseConstraint()
	}
	return cond
}

func (p *Parser) parseOrderCondition() *ast.OrderCondition {
	cond := &ast.OrderCondition{Position: p.current.Pos}
	switch {
	case p.currentIs(token.ASC) || p.currentIs(token.DESC):
		cond.Desc = p.currentIs(token.DESC)
		cond.Explicit = true
		p.nextToken()
		if !p.expect(token.LPAREN) {
			return cond
		}
		cond.Expr = p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
	case p.currentIs(token.VAR):
		cond.Expr = p.parseVar()
	default:
		cond.Expr = p.parseConstraint()
	}
	return cond
}

func (p *Parser) parseVar() *ast.Var {
	v := &ast.Var{Position: p.current.Pos, Name: p.current.Value}
	p.expect(token.VAR)
	return v
}

// parseIRI parses an IRIREF or a prefixed name.
func (p *Parser) parseIRI() ast.Term {
	switch p.current.Token {
	case token.IRIREF:
		iri := &ast.IRI{Position: p.current.Pos, Value: p.current.Value}
		p.nextToken()
		return iri
	case token.PNAME:
		return p.parsePrefixedName()
	}
	p.errorf(p.current.Pos, "expected IRI, got %s", describe(p.current))
	return nil
}

func (p *Parser) parsePrefixedName() *ast.PrefixedName {
	prefix, local, _ := strings.Cut(p.current.Value, ":")
	pn := &ast.PrefixedName{Position: p.current.Pos, Prefix: prefix, Local: local}
	p.nextToken()
	return pn
}
