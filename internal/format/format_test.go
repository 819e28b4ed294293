package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kyleconroy/sparqlparam/ast"
	"github.com/kyleconroy/sparqlparam/internal/format"
)

func v(name string) *ast.Var { return &ast.Var{Name: name} }

func integer(s string) *ast.Literal { return &ast.Literal{Kind: ast.IntegerLiteral, Value: s} }

func TestTerm(t *testing.T) {
	tests := []struct {
		name string
		term ast.Term
		want string
	}{
		{"variable", v("s"), "?s"},
		{"iri", &ast.IRI{Value: "http://example.org/a"}, "<http://example.org/a>"},
		{"iri escapes", &ast.IRI{Value: "http://example.org/a b<c>"}, `<http://example.org/a\u0020b\u003Cc\u003E>`},
		{"prefixed name", &ast.PrefixedName{Prefix: "ex", Local: "a.b"}, "ex:a.b"},
		{"empty prefix", &ast.PrefixedName{Local: "x"}, ":x"},
		{"string escapes", &ast.Literal{Value: "a\"b\\c\nd\te"}, `"a\"b\\c\nd\te"`},
		{"language tag", &ast.Literal{Value: "chat", Lang: "fr"}, `"chat"@fr`},
		{"datatype", &ast.Literal{Value: "1", Datatype: &ast.PrefixedName{Prefix: "xsd", Local: "int"}}, `"1"^^xsd:int`},
		{"leading zeros", integer("000123"), "000123"},
		{"signed decimal", &ast.Literal{Kind: ast.DecimalLiteral, Value: "-1.5"}, "-1.5"},
		{"boolean", &ast.Literal{Kind: ast.BooleanLiteral, Value: "true"}, "true"},
		{"anonymous blank node", &ast.BlankNode{}, "[]"},
		{"labelled blank node", &ast.BlankNode{Label: "b0"}, "_:b0"},
		{"nil", &ast.Nil{}, "()"},
		{"collection", &ast.Collection{Items: []ast.Term{integer("1"), v("x")}}, "(1 ?x)"},
		{
			"blank node property list",
			&ast.BlankNodePropertyList{Properties: []*ast.PropertyObjects{
				{Verb: v("p"), Objects: []ast.Term{v("o"), v("q")}},
				{Verb: &ast.TypeKeyword{}, Objects: []ast.Term{v("t")}},
			}},
			"[ ?p ?o, ?q ; a ?t ]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			format.Term(&sb, tt.term, 0)
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestPath(t *testing.T) {
	knows := &ast.PrefixedName{Prefix: "foaf", Local: "knows"}
	name := &ast.PrefixedName{Prefix: "foaf", Local: "name"}

	tests := []struct {
		name string
		path ast.Path
		want string
	}{
		{"type keyword", &ast.TypeKeyword{}, "a"},
		{"sequence with modifier", &ast.PathSequence{Elements: []ast.Path{&ast.PathMod{Path: knows, Mod: "+"}, name}}, "foaf:knows+/foaf:name"},
		{"alternative with inverse", &ast.PathAlternative{Alternatives: []ast.Path{&ast.PathInverse{Path: knows}, name}}, "^foaf:knows | foaf:name"},
		{"negated single", &ast.PathNegated{Set: []ast.Path{knows}}, "!foaf:knows"},
		{"negated set", &ast.PathNegated{Set: []ast.Path{knows, &ast.PathInverse{Path: &ast.TypeKeyword{}}}}, "!(foaf:knows | ^a)"},
		{"group", &ast.PathMod{Path: &ast.PathGroup{Path: &ast.PathAlternative{Alternatives: []ast.Path{knows, name}}}, Mod: "*"}, "(foaf:knows | foaf:name)*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			format.Path(&sb, tt.path)
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestExpressionPrecedence(t *testing.T) {
	bin := func(op string, l, r ast.Expression) *ast.BinaryExpr {
		return &ast.BinaryExpr{Op: op, Left: l, Right: r}
	}

	tests := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"looser child", bin("*", bin("+", integer("1"), integer("2")), integer("3")), "(1 + 2) * 3"},
		{"tighter child", bin("+", integer("1"), bin("*", integer("2"), integer("3"))), "1 + 2 * 3"},
		{"left associative", bin("-", bin("-", v("a"), v("b")), v("c")), "?a - ?b - ?c"},
		{"right grouping", bin("-", v("a"), bin("-", v("b"), v("c"))), "?a - (?b - ?c)"},
		{"logical", bin("||", bin("&&", v("a"), v("b")), v("c")), "?a && ?b || ?c"},
		{"logical grouping", bin("&&", bin("||", v("a"), v("b")), v("c")), "(?a || ?b) && ?c"},
		{"unary", &ast.UnaryExpr{Op: "!", Operand: bin("&&", v("a"), v("b"))}, "!(?a && ?b)"},
		{"unary primary", &ast.UnaryExpr{Op: "-", Operand: v("a")}, "-?a"},
		{
			"not in",
			&ast.InExpr{Expr: v("x"), Not: true, List: []ast.Expression{integer("1"), integer("2")}},
			"?x NOT IN (1, 2)",
		},
		{"empty in", &ast.InExpr{Expr: v("x"), List: []ast.Expression{}}, "?x IN ()"},
		{"count star", &ast.FunctionCall{Name: "COUNT", Star: true}, "COUNT(*)"},
		{
			"iri function",
			&ast.FunctionCall{IRI: &ast.PrefixedName{Prefix: "xsd", Local: "integer"}, Args: []ast.Expression{v("x")}},
			"xsd:integer(?x)",
		},
		{
			"exists",
			&ast.ExistsExpr{Not: true, Pattern: &ast.GroupPattern{}},
			"NOT EXISTS {}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			format.Expression(&sb, tt.expr)
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern ast.Pattern
		want    string
	}{
		{"empty group", &ast.GroupPattern{}, "{}"},
		{"values without rows", &ast.ValuesPattern{Vars: []*ast.Var{v("a")}}, "VALUES (?a) {}"},
		{"values without variables", &ast.ValuesPattern{Rows: [][]ast.Term{{}}}, "VALUES () {\n  ()\n}"},
		{
			"values with undef",
			&ast.ValuesPattern{Vars: []*ast.Var{v("a"), v("b")}, Rows: [][]ast.Term{{nil, integer("1")}}},
			"VALUES (?a ?b) {\n  (UNDEF 1)\n}",
		},
		{
			"optional",
			&ast.OptionalPattern{Pattern: &ast.GroupPattern{Patterns: []ast.Pattern{
				&ast.FilterPattern{Expr: &ast.FunctionCall{Name: "BOUND", Args: []ast.Expression{v("x")}}},
			}}},
			"OPTIONAL {\n  FILTER(BOUND(?x))\n}",
		},
		{
			"service silent",
			&ast.ServicePattern{Silent: true, Name: &ast.IRI{Value: "http://example.org/sparql"}, Pattern: &ast.GroupPattern{}},
			"SERVICE SILENT <http://example.org/sparql> {}",
		},
		{
			"bind",
			&ast.BindPattern{Expr: integer("1"), Var: v("one")},
			"BIND(1 AS ?one)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			format.Pattern(&sb, tt.pattern)
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestFormatUpdate(t *testing.T) {
	triple := &ast.BGP{Triples: []*ast.TriplesSameSubject{{
		Subject:    v("s"),
		Properties: []*ast.PropertyObjects{{Verb: v("p"), Objects: []ast.Term{v("o")}}},
	}}}

	tests := []struct {
		name string
		req  *ast.Update
		want string
	}{
		{
			name: "graph management",
			req: &ast.Update{Steps: []*ast.UpdateStep{
				{Operation: &ast.GraphManagement{Op: "CLEAR", Target: ast.GraphTarget{Kind: ast.TargetDefault}}},
				{Operation: &ast.GraphManagement{Op: "DROP", Silent: true, Target: ast.GraphTarget{Kind: ast.TargetGraph, IRI: &ast.IRI{Value: "g"}}}},
			}},
			want: "CLEAR DEFAULT ;\nDROP SILENT GRAPH <g>",
		},
		{
			name: "modify",
			req: &ast.Update{Steps: []*ast.UpdateStep{{Operation: &ast.Modify{
				With:      &ast.IRI{Value: "g"},
				HasDelete: true,
				Delete:    []ast.Pattern{triple},
				Using:     []*ast.DatasetClause{{Named: true, IRI: &ast.IRI{Value: "h"}}},
				Where:     &ast.GroupPattern{Patterns: []ast.Pattern{triple}},
			}}}},
			want: "WITH <g>\nDELETE {\n  ?s ?p ?o .\n}\nUSING NAMED <h>\nWHERE {\n  ?s ?p ?o .\n}",
		},
		{
			name: "transfer",
			req: &ast.Update{Steps: []*ast.UpdateStep{{Operation: &ast.GraphTransfer{
				Op:   "COPY",
				From: ast.GraphTarget{Kind: ast.TargetDefault},
				To:   ast.GraphTarget{Kind: ast.TargetGraph, IRI: &ast.IRI{Value: "g"}},
			}}}},
			want: "COPY DEFAULT TO GRAPH <g>",
		},
		{
			name: "empty insert data",
			req:  &ast.Update{Steps: []*ast.UpdateStep{{Operation: &ast.InsertData{Quads: []ast.Pattern{}}}}},
			want: "INSERT DATA {}",
		},
		{
			name: "trailing prologue",
			req: &ast.Update{Steps: []*ast.UpdateStep{
				{Operation: &ast.Load{Source: &ast.IRI{Value: "d"}}},
				{Prologue: []*ast.Declaration{{Base: true, IRI: "http://example.org/"}}},
			}},
			want: "LOAD <d> ;\nBASE <http://example.org/>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format.Format(tt.req))
		})
	}
}

func TestFormatQuery(t *testing.T) {
	q := &ast.Query{
		Prologue: []*ast.Declaration{{Prefix: "ex", IRI: "http://example.org/"}},
		Form:     ast.AskForm,
		Dataset:  []*ast.DatasetClause{{IRI: &ast.PrefixedName{Prefix: "ex", Local: "g"}}},
		Where:    &ast.GroupPattern{},
	}
	assert.Equal(t, "PREFIX ex: <http://example.org/>\nASK\nFROM ex:g\nWHERE {}", format.Format(q))
}
