package parser

import (
	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/token"
)

// parseGroupPattern parses '{' ( SubSelect | GroupGraphPatternSub ) '}'.
func (p *Parser) parseGroupPattern() *ast.GroupPattern {
	group := &ast.GroupPattern{Position: p.current.Pos}
	if !p.expect(token.LBRACE) {
		return group
	}

	if p.currentIs(token.SELECT) {
		group.Patterns = append(group.Patterns, p.parseSubSelect())
		p.expect(token.RBRACE)
		return group
	}

	for !p.currentIs(token.RBRACE) && !p.currentIs(token.EOF) {
		switch p.current.Token {
		case token.DOT:
			p.nextToken()
		case token.LBRACE:
			group.Patterns = append(group.Patterns, p.parseGroupOrUnion())
		case token.OPTIONAL:
			opt := &ast.OptionalPattern{Position: p.current.Pos}
			p.nextToken()
			opt.Pattern = p.parseGroupPattern()
			group.Patterns = append(group.Patterns, opt)
		case token.MINUS:
			minus := &ast.MinusPattern{Position: p.current.Pos}
			p.nextToken()
			minus.Pattern = p.parseGroupPattern()
			group.Patterns = append(group.Patterns, minus)
		case token.GRAPH:
			graph := &ast.GraphPattern{Position: p.current.Pos}
			p.nextToken()
			graph.Name = p.parseVarOrIRI()
			graph.Pattern = p.parseGroupPattern()
			group.Patterns = append(group.Patterns, graph)
		case token.SERVICE:
			svc := &ast.ServicePattern{Position: p.current.Pos}
			p.nextToken()
			if p.currentIs(token.SILENT) {
				svc.Silent = true
				p.nextToken()
			}
			svc.Name = p.parseVarOrIRI()
			svc.Pattern = p.parseGroupPattern()
			group.Patterns = append(group.Patterns, svc)
		case token.FILTER:
			filter := &ast.FilterPattern{Position: p.current.Pos}
			p.nextToken()
			if !p.startsConstraint() {
				p.errorf(p.current.Pos, "expected constraint after FILTER, got %s", describe(p.current))
				return group
			}
			filter.Expr = p.parseConstraint()
			group.Patterns = append(group.Patterns, filter)
		case token.BIND:
			group.Patterns = append(group.Patterns, p.parseBind())
		case token.VALUES:
			group.Patterns = append(group.Patterns, p.parseValues())
		default:
			if !p.startsTriples() {
				p.unexpected()
				return group
			}
			bgp := p.parseTriplesBlock(true)
			// Stray dots can split a block; keep one BGP per run of triples
			if n := len(group.Patterns); n > 0 {
				if last, ok := group.Patterns[n-1].(*ast.BGP); ok {
					last.Triples = append(last.Triples, bgp.Triples...)
					continue
				}
			}
			group.Patterns = append(group.Patterns, bgp)
		}
	}

	p.expect(token.RBRACE)
	return group
}

// parseGroupOrUnion parses a nested group, folding UNION alternatives into
// a single UnionPattern.
func (p *Parser) parseGroupOrUnion() ast.Pattern {
	pos := p.current.Pos
	first := p.parseGroupPattern()
	if !p.currentIs(token.UNION) {
		return first
	}
	union := &ast.UnionPattern{Position: pos, Alternatives: []*ast.GroupPattern{first}}
	for p.currentIs(token.UNION) {
		p.nextToken()
		union.Alternatives = append(union.Alternatives, p.parseGroupPattern())
	}
	return union
}

func (p *Parser) parseBind() *ast.BindPattern {
	bind := &ast.BindPattern{Position: p.current.Pos}
	p.nextToken() // skip BIND
	if !p.expect(token.LPAREN) {
		return bind
	}
	bind.Expr = p.parseExpression(LOWEST)
	if !p.expect(token.AS) {
		return bind
	}
	if !p.currentIs(token.VAR) {
		p.errorf(p.current.Pos, "expected variable after AS, got %s", describe(p.current))
		return bind
	}
	bind.Var = p.parseVar()
	p.expect(token.RPAREN)
	return bind
}

// parseValues parses both the single-variable and the parenthesized form of
// an inline data block.
func (p *Parser) parseValues() *ast.ValuesPattern {
	values := &ast.ValuesPattern{Position: p.current.Pos}
	p.nextToken() // skip VALUES

	if p.currentIs(token.VAR) {
		values.Vars = []*ast.Var{p.parseVar()}
		if !p.expect(token.LBRACE) {
			return values
		}
		for !p.currentIs(token.RBRACE) && !p.currentIs(token.EOF) {
			values.Rows = append(values.Rows, []ast.Term{p.parseDataValue()})
		}
		p.expect(token.RBRACE)
		return values
	}

	if !p.expect(token.LPAREN) {
		return values
	}
	seen := make(map[string]bool)
	for p.currentIs(token.VAR) {
		if seen[p.current.Value] {
			p.errorf(p.current.Pos, "duplicate variable ?%s in VALUES", p.current.Value)
			return values
		}
		seen[p.current.Value] = true
		values.Vars = append(values.Vars, p.parseVar())
	}
	if !p.expect(token.RPAREN) {
		return values
	}
	if !p.expect(token.LBRACE) {
		return values
	}
	for p.currentIs(token.LPAREN) {
		rowPos := p.current.Pos
		p.nextToken()
		row := []ast.Term{}
		for !p.currentIs(token.RPAREN) && !p.currentIs(token.EOF) {
			row = append(row, p.parseDataValue())
		}
		if !p.expect(token.RPAREN) {
			return values
		}
		if len(row) != len(values.Vars) {
			p.errorf(rowPos, "VALUES row has %d values, expected %d", len(row), len(values.Vars))
			return values
		}
		values.Rows = append(values.Rows, row)
	}
	p.expect(token.RBRACE)
	return values
}

// parseDataValue parses one VALUES cell; UNDEF yields nil.
func (p *Parser) parseDataValue() ast.Term {
	switch p.current.Token {
	case token.UNDEF:
		p.nextToken()
		return nil
	case token.IRIREF, token.PNAME:
		return p.parseIRI()
	case token.BNODE, token.LBRACKET:
		p.errorf(p.current.Pos, "blank nodes are not allowed in VALUES")
		return nil
	}
	if p.startsLiteral() {
		return p.parseLiteral()
	}
	p.errorf(p.current.Pos, "expected data value, got %s", describe(p.current))
	return nil
}

// parseConstructTemplate parses '{' TriplesTemplate? '}'.
func (p *Parser) parseConstructTemplate() *ast.BGP {
	bgp := &ast.BGP{Position: p.current.Pos}
	if !p.expect(token.LBRACE) {
		return bgp
	}
	if p.startsTriples() {
		bgp = p.parseTriplesBlock(false)
	}
	p.expect(token.RBRACE)
	return bgp
}

// parseConstructTemplateAsGroup parses the body of CONSTRUCT WHERE, which is
// both the template and the pattern.
func (p *Parser) parseConstructTemplateAsGroup() *ast.GroupPattern {
	group := &ast.GroupPattern{Position: p.current.Pos}
	bgp := p.parseConstructTemplate()
	if len(bgp.Triples) > 0 {
		group.Patterns = append(group.Patterns, bgp)
	}
	return group
}

func (p *Parser) startsTriples() bool {
	switch p.current.Token {
	case token.VAR, token.IRIREF, token.PNAME, token.BNODE, token.LBRACKET, token.LPAREN:
		return true
	}
	return p.startsLiteral()
}

func (p *Parser) startsLiteral() bool {
	switch p.current.Token {
	case token.STRING, token.INTEGER, token.DECIMAL, token.DOUBLE, token.TRUE, token.FALSE:
		return true
	case token.PLUS, token.DASH:
		return p.peek.Token.IsNumber()
	}
	return false
}

// parseTriplesBlock parses triples separated by '.'. When paths is false only
// simple verbs are accepted, as in templates and update data.
func (p *Parser) parseTriplesBlock(paths bool) *ast.BGP {
	bgp := &ast.BGP{Position: p.current.Pos}
	for p.startsTriples() {
		bgp.Triples = append(bgp.Triples, p.parseTriplesSameSubject(paths))
		if !p.currentIs(token.DOT) {
			if p.startsTriples() {
				p.errorf(p.current.Pos, "expected . between triples, got %s", describe(p.current))
			}
			break
		}
		p.nextToken()
	}
	return bgp
}

func (p *Parser) parseTriplesSameSubject(paths bool) *ast.TriplesSameSubject {
	triples := &ast.TriplesSameSubject{Position: p.current.Pos}
	triples.Subject = p.parseGraphNode(paths)

	switch triples.Subject.(type) {
	case *ast.BlankNodePropertyList, *ast.Collection:
		triples.Properties = p.parsePropertyList(paths)
	default:
		triples.Properties = p.parsePropertyList(paths)
		if len(triples.Properties) == 0 {
			p.errorf(p.current.Pos, "expected predicate, got %s", describe(p.current))
		}
	}
	return triples
}

func (p *Parser) startsVerb(paths bool) bool {
	switch p.current.Token {
	case token.VAR, token.IRIREF, token.PNAME:
		return true
	case token.CARET, token.LPAREN, token.BANG:
		return paths
	}
	return p.currentIsA()
}

func (p *Parser) parsePropertyList(paths bool) []*ast.PropertyObjects {
	var list []*ast.PropertyObjects
	for p.startsVerb(paths) {
		po := &ast.PropertyObjects{Position: p.current.Pos}
		if paths {
			po.Verb = p.parsePath()
		} else {
			po.Verb = p.parseVerbSimple()
		}
		po.Objects = p.parseObjectList(paths)
		list = append(list, po)

		if !p.currentIs(token.SEMICOLON) {
			break
		}
		for p.currentIs(token.SEMICOLON) {
			p.nextToken()
		}
	}
	return list
}

func (p *Parser) parseObjectList(paths bool) []ast.Term {
	var objects []ast.Term
	for {
		if !p.startsTriples() {
			p.errorf(p.current.Pos, "expected object, got %s", describe(p.current))
			return objects
		}
		objects = append(objects, p.parseGraphNode(paths))
		if !p.currentIs(token.COMMA) {
			return objects
		}
		p.nextToken()
	}
}

// parseGraphNode parses a term, a blank node property list or a collection.
func (p *Parser) parseGraphNode(paths bool) ast.Term {
	pos := p.current.Pos
	switch p.current.Token {
	case token.LBRACKET:
		p.nextToken()
		if p.currentIs(token.RBRACKET) {
			p.nextToken()
			return &ast.BlankNode{Position: pos}
		}
		list := &ast.BlankNodePropertyList{Position: pos}
		list.Properties = p.parsePropertyList(paths)
		if len(list.Properties) == 0 {
			p.errorf(p.current.Pos, "expected predicate, got %s", describe(p.current))
			return list
		}
		p.expect(token.RBRACKET)
		return list
	case token.LPAREN:
		p.nextToken()
		if p.currentIs(token.RPAREN) {
			p.nextToken()
			return &ast.Nil{Position: pos}
		}
		coll := &ast.Collection{Position: pos}
		for !p.currentIs(token.RPAREN) && !p.currentIs(token.EOF) {
			if !p.startsTriples() {
				p.unexpected()
				return coll
			}
			coll.Items = append(coll.Items, p.parseGraphNode(paths))
		}
		p.expect(token.RPAREN)
		return coll
	}
	return p.parseTerm()
}

// parseTerm parses a variable, IRI, prefixed name, literal or blank node label.
func (p *Parser) parseTerm() ast.Term {
	switch p.current.Token {
	case token.VAR:
		return p.parseVar()
	case token.IRIREF, token.PNAME:
		return p.parseIRI()
	case token.BNODE:
		bn := &ast.BlankNode{Position: p.current.Pos, Label: p.current.Value}
		p.nextToken()
		return bn
	}
	if p.startsLiteral() {
		return p.parseLiteral()
	}
	p.errorf(p.current.Pos, "expected term, got %s", describe(p.current))
	return nil
}

func (p *Parser) parseVarOrIRI() ast.Term {
	if p.currentIs(token.VAR) {
		return p.parseVar()
	}
	return p.parseIRI()
}

// parseLiteral parses an RDF literal, a possibly signed number or a boolean.
func (p *Parser) parseLiteral() *ast.Literal {
	lit := &ast.Literal{Position: p.current.Pos}
	switch p.current.Token {
	case token.STRING:
		lit.Kind = ast.StringLiteral
		lit.Value = p.current.Value
		p.nextToken()
		switch p.current.Token {
		case token.LANGTAG:
			lit.Lang = p.current.Value
			p.nextToken()
		case token.DCARET:
			p.nextToken()
			lit.Datatype = p.parseIRI()
		}
	case token.TRUE, token.FALSE:
		lit.Kind = ast.BooleanLiteral
		if p.currentIs(token.TRUE) {
			lit.Value = "true"
		} else {
			lit.Value = "false"
		}
		p.nextToken()
	default:
		sign := ""
		if p.currentIs(token.PLUS) || p.currentIs(token.DASH) {
			sign = p.current.Value
			p.nextToken()
		}
		switch p.current.Token {
		case token.INTEGER:
			lit.Kind = ast.IntegerLiteral
		case token.DECIMAL:
			lit.Kind = ast.DecimalLiteral
		case token.DOUBLE:
			lit.Kind = ast.DoubleLiteral
		default:
			p.errorf(p.current.Pos, "expected literal, got %s", describe(p.current))
			return lit
		}
		lit.Value = sign + p.current.Value
		p.nextToken()
	}
	return lit
}

// -----------------------------------------------------------------------------
// Property paths

func (p *Parser) parseVerbSimple() ast.Path {
	switch {
	case p.currentIs(token.VAR):
		return p.parseVar()
	case p.currentIsA():
		a := &ast.TypeKeyword{Position: p.current.Pos}
		p.nextToken()
		return a
	}
	return p.parseVerbSimpleIRI()
}

// parsePath parses a verb: a variable or a property path.
func (p *Parser) parsePath() ast.Path {
	if p.currentIs(token.VAR) {
		return p.parseVar()
	}
	return p.parsePathAlternative()
}

func (p *Parser) parsePathAlternative() ast.Path {
	pos := p.current.Pos
	first := p.parsePathSequence()
	if !p.currentIs(token.PIPE) {
		return first
	}
	alt := &ast.PathAlternative{Position: pos, Alternatives: []ast.Path{first}}
	for p.currentIs(token.PIPE) {
		p.nextToken()
		alt.Alternatives = append(alt.Alternatives, p.parsePathSequence())
	}
	return alt
}

func (p *Parser) parsePathSequence() ast.Path {
	pos := p.current.Pos
	first := p.parsePathEltOrInverse()
	if !p.currentIs(token.SLASH) {
		return first
	}
	seq := &ast.PathSequence{Position: pos, Elements: []ast.Path{first}}
	for p.currentIs(token.SLASH) {
		p.nextToken()
		seq.Elements = append(seq.Elements, p.parsePathEltOrInverse())
	}
	return seq
}

func (p *Parser) parsePathEltOrInverse() ast.Path {
	if p.currentIs(token.CARET) {
		inv := &ast.PathInverse{Position: p.current.Pos}
		p.nextToken()
		inv.Path = p.parsePathElt()
		return inv
	}
	return p.parsePathElt()
}

func (p *Parser) parsePathElt() ast.Path {
	pos := p.current.Pos
	primary := p.parsePathPrimary()
	switch p.current.Token {
	case token.ASTERISK, token.PLUS, token.QUESTION:
		mod := &ast.PathMod{Position: pos, Path: primary, Mod: p.current.Value}
		p.nextToken()
		return mod
	}
	return primary
}

func (p *Parser) parsePathPrimary() ast.Path {
	pos := p.current.Pos
	switch {
	case p.currentIsA():
		p.nextToken()
		return &ast.TypeKeyword{Position: pos}
	case p.currentIs(token.BANG):
		p.nextToken()
		neg := &ast.PathNegated{Position: pos}
		if !p.currentIs(token.LPAREN) {
			neg.Set = []ast.Path{p.parsePathOneInPropertySet()}
			return neg
		}
		p.nextToken()
		for !p.currentIs(token.RPAREN) && !p.currentIs(token.EOF) {
			neg.Set = append(neg.Set, p.parsePathOneInPropertySet())
			if !p.currentIs(token.PIPE) {
				break
			}
			p.nextToken()
		}
		p.expect(token.RPAREN)
		return neg
	case p.currentIs(token.LPAREN):
		p.nextToken()
		group := &ast.PathGroup{Position: pos, Path: p.parsePathAlternative()}
		p.expect(token.RPAREN)
		return group
	}
	return p.parseVerbSimpleIRI()
}

func (p *Parser) parsePathOneInPropertySet() ast.Path {
	if p.currentIs(token.CARET) {
		inv := &ast.PathInverse{Position: p.current.Pos}
		p.nextToken()
		if p.currentIsA() {
			inv.Path = &ast.TypeKeyword{Position: p.current.Pos}
			p.nextToken()
		} else {
			inv.Path = p.parseVerbSimpleIRI()
		}
		return inv
	}
	if p.currentIsA() {
		a := &ast.TypeKeyword{Position: p.current.Pos}
		p.nextToken()
		return a
	}
	return p.parseVerbSimpleIRI()
}

func (p *Parser) parseVerbSimpleIRI() ast.Path {
	switch p.current.Token {
	case token.IRIREF:
		iri := &ast.IRI{Position: p.current.Pos, Value: p.current.Value}
		p.nextToken()
		return iri
	case token.PNAME:
		return p.parsePrefixedName()
	}
	p.errorf(p.current.Pos, "expected property path, got %s", describe(p.current))
	return nil
}
