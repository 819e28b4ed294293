package lexer_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyleconroy/sparqlparam/lexer"
	"github.com/kyleconroy/sparqlparam/token"
)

type tok struct {
	Token token.Token
	Value string
}

// lex returns every item up to and including EOF.
func lex(r io.Reader) []lexer.Item {
	l := lexer.New(r)
	var items []lexer.Item
	for {
		item := l.NextToken()
		items = append(items, item)
		if item.Token == token.EOF {
			return items
		}
	}
}

func tokenize(input string) []tok {
	var out []tok
	for _, item := range lex(strings.NewReader(input)) {
		if item.Token == token.EOF {
			break
		}
		out = append(out, tok{item.Token, item.Value})
	}
	return out
}

func TestNextToken(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "keywords are case insensitive",
			input: "select Distinct WHERE",
			want: []tok{
				{token.SELECT, "select"},
				{token.DISTINCT, "Distinct"},
				{token.WHERE, "WHERE"},
			},
		},
		{
			name:  "variables",
			input: "?s $o ?_x1",
			want: []tok{
				{token.VAR, "s"},
				{token.VAR, "o"},
				{token.VAR, "_x1"},
			},
		},
		{
			name:  "iri versus less than",
			input: "<http://example.org/a> ?a < 3 ?b <= ?c",
			want: []tok{
				{token.IRIREF, "http://example.org/a"},
				{token.VAR, "a"},
				{token.LT, "<"},
				{token.INTEGER, "3"},
				{token.VAR, "b"},
				{token.LTE, "<="},
				{token.VAR, "c"},
			},
		},
		{
			name:  "empty iri",
			input: "<>",
			want:  []tok{{token.IRIREF, ""}},
		},
		{
			name:  "prefixed names",
			input: "ex:thing : ex: foaf:name.",
			want: []tok{
				{token.PNAME, "ex:thing"},
				{token.PNAME, ":"},
				{token.PNAME, "ex:"},
				{token.PNAME, "foaf:name"},
				{token.DOT, "."},
			},
		},
		{
			name:  "local name with dots and escapes",
			input: `ex:a.b ex:c\-d ex:%20`,
			want: []tok{
				{token.PNAME, "ex:a.b"},
				{token.PNAME, `ex:c\-d`},
				{token.PNAME, "ex:%20"},
			},
		},
		{
			name:  "rdf type shorthand is a bare word",
			input: "?s a ?o",
			want: []tok{
				{token.VAR, "s"},
				{token.IDENT, "a"},
				{token.VAR, "o"},
			},
		},
		{
			name:  "blank nodes",
			input: "_:b0 [] _:x.y",
			want: []tok{
				{token.BNODE, "b0"},
				{token.LBRACKET, "["},
				{token.RBRACKET, "]"},
				{token.BNODE, "x.y"},
			},
		},
		{
			name:  "numbers keep their lexical form",
			input: "000123 1.5 .5 1e10 2.0E-3 7.",
			want: []tok{
				{token.INTEGER, "000123"},
				{token.DECIMAL, "1.5"},
				{token.DECIMAL, ".5"},
				{token.DOUBLE, "1e10"},
				{token.DOUBLE, "2.0E-3"},
				{token.INTEGER, "7"},
				{token.DOT, "."},
			},
		},
		{
			name:  "strings in all quote styles",
			input: `"a" 'b' """c"d""" '''e'f''' ""`,
			want: []tok{
				{token.STRING, "a"},
				{token.STRING, "b"},
				{token.STRING, `c"d`},
				{token.STRING, "e'f"},
				{token.STRING, ""},
			},
		},
		{
			name:  "string escapes",
			input: `"tab\there" "quote\"" "é\U0001F600"`,
			want: []tok{
				{token.STRING, "tab\there"},
				{token.STRING, `quote"`},
				{token.STRING, "é😀"},
			},
		},
		{
			name:  "language tags and datatypes",
			input: `"chat"@fr "x"@en-GB "1"^^xsd:int`,
			want: []tok{
				{token.STRING, "chat"},
				{token.LANGTAG, "fr"},
				{token.STRING, "x"},
				{token.LANGTAG, "en-GB"},
				{token.STRING, "1"},
				{token.DCARET, "^^"},
				{token.PNAME, "xsd:int"},
			},
		},
		{
			name:  "operators",
			input: "&& || != >= > = ! ^ | / * + - ?",
			want: []tok{
				{token.AND, "&&"},
				{token.OR, "||"},
				{token.NEQ, "!="},
				{token.GTE, ">="},
				{token.GT, ">"},
				{token.EQ, "="},
				{token.BANG, "!"},
				{token.CARET, "^"},
				{token.PIPE, "|"},
				{token.SLASH, "/"},
				{token.ASTERISK, "*"},
				{token.PLUS, "+"},
				{token.DASH, "-"},
				{token.QUESTION, "?"},
			},
		},
		{
			name:  "comments",
			input: "?s # trailing\n?o",
			want: []tok{
				{token.VAR, "s"},
				{token.COMMENT, "# trailing"},
				{token.VAR, "o"},
			},
		},
		{
			name:  "built-in function names",
			input: "COUNT(STR(?x))",
			want: []tok{
				{token.IDENT, "COUNT"},
				{token.LPAREN, "("},
				{token.IDENT, "STR"},
				{token.LPAREN, "("},
				{token.VAR, "x"},
				{token.RPAREN, ")"},
				{token.RPAREN, ")"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.input))
		})
	}
}

func TestIllegal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"unterminated string", `"abc`, "unterminated string"},
		{"newline in short string", "\"a\nb\"", "newline in string literal"},
		{"bad escape", `"\q"`, "invalid escape sequence"},
		{"bad unicode escape", `"\u12"`, "invalid unicode escape"},
		{"lone ampersand", "&", "unexpected character '&'"},
		{"lone dollar", "$", "unexpected character '$'"},
		{"empty language tag", `"a"@`, "empty language tag"},
		{"stray character", "~", "unexpected character '~'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var illegal *lexer.Item
			for _, item := range lex(strings.NewReader(tt.input)) {
				if item.Token == token.ILLEGAL {
					illegal = &item
					break
				}
			}
			require.NotNil(t, illegal, "expected an ILLEGAL token")
			assert.Equal(t, tt.msg, illegal.Value)
		})
	}
}

func TestPositions(t *testing.T) {
	items := lex(strings.NewReader("SELECT ?x\nWHERE {}"))
	require.Len(t, items, 6)

	assert.Equal(t, token.Position{Offset: 0, Line: 1, Column: 1}, items[0].Pos)
	assert.Equal(t, token.Position{Offset: 7, Line: 1, Column: 8}, items[1].Pos)
	assert.Equal(t, token.Position{Offset: 10, Line: 2, Column: 1}, items[2].Pos)
	assert.Equal(t, token.Position{Offset: 16, Line: 2, Column: 7}, items[3].Pos)
	assert.Equal(t, token.RBRACE, items[4].Token)
	assert.Equal(t, token.EOF, items[5].Token)
	assert.Equal(t, token.Position{Offset: 18, Line: 2, Column: 9}, items[5].Pos)
}

func TestByteOrderMark(t *testing.T) {
	items := lex(strings.NewReader("\uFEFFSELECT ?x WHERE {}"))
	require.Len(t, items, 6)
	assert.Equal(t, token.SELECT, items[0].Token)
	assert.Equal(t, token.Position{Offset: 3, Line: 1, Column: 2}, items[0].Pos)
	assert.Equal(t, token.VAR, items[1].Token)
	assert.Equal(t, "x", items[1].Value)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, token.SELECT, token.Lookup("SELECT"))
	assert.Equal(t, token.UNDEF, token.Lookup("UNDEF"))
	assert.Equal(t, token.IDENT, token.Lookup("REGEX"))
	assert.True(t, token.VALUES.IsKeyword())
	assert.False(t, token.VAR.IsKeyword())
	assert.True(t, token.DECIMAL.IsNumber())
	assert.False(t, token.STRING.IsNumber())
}
