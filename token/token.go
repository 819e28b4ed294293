// Package token defines constants representing the lexical tokens of SPARQL 1.1.
package token

// Token represents a lexical token.
type Token int

const (
	// Special tokens
	ILLEGAL Token = iota
	EOF
	COMMENT

	// Literals
	IDENT   // bare words: built-in function names, 'a'
	IRIREF  // <http://example.org/>
	PNAME   // prefixed names like ex:thing or ex:
	BNODE   // blank node labels like _:b0
	VAR     // ?name or $name
	STRING  // string literals in any of the four quote styles
	LANGTAG // @en-GB
	INTEGER // 42
	DECIMAL // 4.2
	DOUBLE  // 4.2e1

	// Operators
	PLUS     // +
	DASH     // -
	ASTERISK // *
	SLASH    // /
	EQ       // =
	NEQ      // !=
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	AND      // &&
	OR       // ||
	BANG     // !
	CARET    // ^
	DCARET   // ^^
	PIPE     // |
	QUESTION // ?

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;

	// Keywords
	keyword_beg
	ADD
	ALL
	AS
	ASC
	ASK
	BASE
	BIND
	BY
	CLEAR
	CONSTRUCT
	COPY
	CREATE
	DATA
	DEFAULT
	DELETE
	DESC
	DESCRIBE
	DISTINCT
	DROP
	EXISTS
	FALSE
	FILTER
	FROM
	GRAPH
	GROUP
	HAVING
	IN
	INSERT
	INTO
	LIMIT
	LOAD
	MINUS
	MOVE
	NAMED
	NOT
	OFFSET
	OPTIONAL
	ORDER
	PREFIX
	REDUCED
	SELECT
	SEPARATOR
	SERVICE
	SILENT
	TO
	TRUE
	UNDEF
	UNION
	USING
	VALUES
	WHERE
	WITH
	keyword_end
)

var tokens = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	COMMENT: "COMMENT",

	IDENT:   "IDENT",
	IRIREF:  "IRIREF",
	PNAME:   "PNAME",
	BNODE:   "BNODE",
	VAR:     "VAR",
	STRING:  "STRING",
	LANGTAG: "LANGTAG",
	INTEGER: "INTEGER",
	DECIMAL: "DECIMAL",
	DOUBLE:  "DOUBLE",

	PLUS:     "+",
	DASH:     "-",
	ASTERISK: "*",
	SLASH:    "/",
	EQ:       "=",
	NEQ:      "!=",
	LT:       "<",
	GT:       ">",
	LTE:      "<=",
	GTE:      ">=",
	AND:      "&&",
	OR:       "||",
	BANG:     "!",
	CARET:    "^",
	DCARET:   "^^",
	PIPE:     "|",
	QUESTION: "?",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",

	ADD:       "ADD",
	ALL:       "ALL",
	AS:        "AS",
	ASC:       "ASC",
	ASK:       "ASK",
	BASE:      "BASE",
	BIND:      "BIND",
	BY:        "BY",
	CLEAR:     "CLEAR",
	CONSTRUCT: "CONSTRUCT",
	COPY:      "COPY",
	CREATE:    "CREATE",
	DATA:      "DATA",
	DEFAULT:   "DEFAULT",
	DELETE:    "DELETE",
	DESC:      "DESC",
	DESCRIBE:  "DESCRIBE",
	DISTINCT:  "DISTINCT",
	DROP:      "DROP",
	EXISTS:    "EXISTS",
	FALSE:     "FALSE",
	FILTER:    "FILTER",
	FROM:      "FROM",
	GRAPH:     "GRAPH",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IN:        "IN",
	INSERT:    "INSERT",
	INTO:      "INTO",
	LIMIT:     "LIMIT",
	LOAD:      "LOAD",
	MINUS:     "MINUS",
	MOVE:      "MOVE",
	NAMED:     "NAMED",
	NOT:       "NOT",
	OFFSET:    "OFFSET",
	OPTIONAL:  "OPTIONAL",
	ORDER:     "ORDER",
	PREFIX:    "PREFIX",
	REDUCED:   "REDUCED",
	SELECT:    "SELECT",
	SEPARATOR: "SEPARATOR",
	SERVICE:   "SERVICE",
	SILENT:    "SILENT",
	TO:        "TO",
	TRUE:      "TRUE",
	UNDEF:     "UNDEF",
	UNION:     "UNION",
	USING:     "USING",
	VALUES:    "VALUES",
	WHERE:     "WHERE",
	WITH:      "WITH",
}

func (tok Token) String() string {
	if tok >= 0 && int(tok) < len(tokens) {
		return tokens[tok]
	}
	return ""
}

// Keywords maps keyword strings to their token types.
var Keywords map[string]Token

func init() {
	Keywords = make(map[string]Token)
	for i := keyword_beg + 1; i < keyword_end; i++ {
		Keywords[tokens[i]] = i
	}
}

// Lookup returns the token type for an upper-cased bare word.
// If the word is a keyword, it returns the keyword token.
// Otherwise, it returns IDENT.
func Lookup(ident string) Token {
	if tok, ok := Keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the token is a keyword.
func (tok Token) IsKeyword() bool {
	return tok > keyword_beg && tok < keyword_end
}

// IsNumber returns true for the three numeric literal tokens.
func (tok Token) IsNumber() bool {
	return tok == INTEGER || tok == DECIMAL || tok == DOUBLE
}

// Position represents a source position.
type Position struct {
	Offset int // byte offset
	Line   int // line number (1-based)
	Column int // column number (1-based)
}
