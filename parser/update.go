package parser

import (
	"context"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/token"
)

// parseUpdate parses a sequence of update operations separated by ';'.
// The context is checked between operations.
func (p *Parser) parseUpdate(ctx context.Context, pos token.Position, prologue []*ast.Declaration) (*ast.Update, error) {
	update := &ast.Update{Position: pos}

	for {
		step := &ast.UpdateStep{Position: p.current.Pos, Prologue: prologue}
		if p.currentIs(token.EOF) {
			if len(prologue) > 0 {
				update.Steps = append(update.Steps, step)
			}
			return update, nil
		}

		step.Operation = p.parseUpdateOperation()
		update.Steps = append(update.Steps, step)

		if !p.currentIs(token.SEMICOLON) {
			return update, nil
		}
		p.nextToken()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		prologue = p.parsePrologue()
	}
}

func (p *Parser) parseUpdateOperation() ast.UpdateOperation {
	pos := p.current.Pos
	switch p.current.Token {
	case token.LOAD:
		return p.parseLoad()
	case token.CLEAR, token.DROP, token.CREATE:
		return p.parseGraphManagement()
	case token.ADD, token.MOVE, token.COPY:
		return p.parseGraphTransfer()
	case token.INSERT:
		if p.peekIs(token.DATA) {
			p.nextToken()
			p.nextToken()
			return &ast.InsertData{Position: pos, Quads: p.parseQuads()}
		}
		return p.parseModify(pos, nil)
	case token.DELETE:
		switch {
		case p.peekIs(token.DATA):
			p.nextToken()
			p.nextToken()
			return &ast.DeleteData{Position: pos, Quads: p.parseQuads()}
		case p.peekIs(token.WHERE):
			p.nextToken()
			p.nextToken()
			return &ast.DeleteWhere{Position: pos, Quads: p.parseQuads()}
		}
		return p.parseModify(pos, nil)
	case token.WITH:
		p.nextToken()
		with := p.parseIRI()
		return p.parseModify(pos, with)
	}
	p.errorf(pos, "expected query or update operation, got %s", describe(p.current))
	return nil
}

func (p *Parser) parseModify(pos token.Position, with ast.Term) *ast.Modify {
	m := &ast.Modify{Position: pos, With: with}

	if p.currentIs(token.DELETE) {
		p.nextToken()
		m.HasDelete = true
		m.Delete = p.parseQuads()
	}
	if p.currentIs(token.INSERT) {
		p.nextToken()
		m.HasInsert = true
		m.Insert = p.parseQuads()
	}
	if !m.HasDelete && !m.HasInsert {
		p.errorf(p.current.Pos, "expected DELETE or INSERT, got %s", describe(p.current))
		return m
	}

	m.Using = p.parseDatasetClauses(token.USING)
	if !p.expect(token.WHERE) {
		return m
	}
	m.Where = p.parseGroupPattern()
	return m
}

// parseQuads parses '{' triples and GRAPH blocks '}'. The result holds
// *ast.BGP and *ast.GraphPattern values.
func (p *Parser) parseQuads() []ast.Pattern {
	quads := []ast.Pattern{}
	if !p.expect(token.LBRACE) {
		return quads
	}
	for !p.currentIs(token.RBRACE) && !p.currentIs(token.EOF) {
		switch {
		case p.currentIs(token.DOT):
			p.nextToken()
		case p.currentIs(token.GRAPH):
			graph := &ast.GraphPattern{Position: p.current.Pos}
			p.nextToken()
			graph.Name = p.parseVarOrIRI()
			graph.Pattern = &ast.GroupPattern{Position: p.current.Pos}
			if !p.expect(token.LBRACE) {
				return quads
			}
			if p.startsTriples() {
				graph.Pattern.Patterns = []ast.Pattern{p.parseTriplesBlock(false)}
			}
			p.expect(token.RBRACE)
			quads = append(quads, graph)
		case p.startsTriples():
			bgp := p.parseTriplesBlock(false)
			if n := len(quads); n > 0 {
				if last, ok := quads[n-1].(*ast.BGP); ok {
					last.Triples = append(last.Triples, bgp.Triples...)
					continue
				}
			}
			quads = append(quads, bgp)
		default:
			p.unexpected()
			return quads
		}
	}
	p.expect(token.RBRACE)
	return quads
}

func (p *Parser) parseSilent() bool {
	if p.currentIs(token.SILENT) {
		p.nextToken()
		return true
	}
	return false
}

func (p *Parser) parseLoad() *ast.Load {
	load := &ast.Load{Position: p.current.Pos}
	p.nextToken() // skip LOAD
	load.Silent = p.parseSilent()
	load.Source = p.parseIRI()
	if p.currentIs(token.INTO) {
		p.nextToken()
		if !p.expect(token.GRAPH) {
			return load
		}
		load.Into = p.parseIRI()
	}
	return load
}

func (p *Parser) parseGraphManagement() *ast.GraphManagement {
	op := &ast.GraphManagement{Position: p.current.Pos, Op: p.current.Token.String()}
	p.nextToken()
	op.Silent = p.parseSilent()

	switch {
	case op.Op == "CREATE":
		if !p.expect(token.GRAPH) {
			return op
		}
		op.Target = ast.GraphTarget{Kind: ast.TargetGraph, IRI: p.parseIRI()}
	case p.currentIs(token.GRAPH):
		p.nextToken()
		op.Target = ast.GraphTarget{Kind: ast.TargetGraph, IRI: p.parseIRI()}
	case p.currentIs(token.DEFAULT):
		p.nextToken()
		op.Target = ast.GraphTarget{Kind: ast.TargetDefault}
	case p.currentIs(token.NAMED):
		p.nextToken()
		op.Target = ast.GraphTarget{Kind: ast.TargetNamed}
	case p.currentIs(token.ALL):
		p.nextToken()
		op.Target = ast.GraphTarget{Kind: ast.TargetAll}
	default:
		p.errorf(p.current.Pos, "expected GRAPH, DEFAULT, NAMED or ALL after %s, got %s", op.Op, describe(p.current))
	}
	return op
}

func (p *Parser) parseGraphTransfer() *ast.GraphTransfer {
	op := &ast.GraphTransfer{Position: p.current.Pos, Op: p.current.Token.String()}
	p.nextToken()
	op.Silent = p.parseSilent()
	op.From = p.parseGraphOrDefault()
	if !p.expect(token.TO) {
		return op
	}
	op.To = p.parseGraphOrDefault()
	return op
}

func (p *Parser) parseGraphOrDefault() ast.GraphTarget {
	if p.currentIs(token.DEFAULT) {
		p.nextToken()
		return ast.GraphTarget{Kind: ast.TargetDefault}
	}
	if p.currentIs(token.GRAPH) {
		p.nextToken()
	}
	return ast.GraphTarget{Kind: ast.TargetGraph, IRI: p.parseIRI()}
}
