// Package lexer implements a lexer for SPARQL 1.1.
package lexer

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kyleconroy/sparqlparam/token"
)

// readerSize bounds how far the lexer can look ahead when deciding whether
// a '<' opens an IRI reference or is a comparison operator.
const readerSize = 64 << 10

// Lexer tokenizes SPARQL input.
type Lexer struct {
	reader *bufio.Reader
	ch     rune // current character
	pos    token.Position
	next   int // byte offset of the rune after ch
	eof    bool
}

// Item represents a lexical token with its value and position.
//
// For IRIREF the value is the text between the angle brackets, for VAR it is
// the name without its sigil, for BNODE the label without "_:", for STRING the
// decoded contents and for LANGTAG the tag without '@'. Numbers keep their
// lexical form so that leading zeros survive a round trip. ILLEGAL items carry
// a description of the problem.
type Item struct {
	Token token.Token
	Value string
	Pos   token.Position
}

// New creates a new Lexer from an io.Reader.
func New(r io.Reader) *Lexer {
	l := &Lexer{
		reader: bufio.NewReaderSize(r, readerSize),
		pos:    token.Position{Offset: 0, Line: 1, Column: 0},
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.eof {
		l.ch = 0
		return
	}

	r, size, err := l.reader.ReadRune()
	l.advance()
	if err != nil {
		// EOF sits just past the last rune
		l.ch = 0
		l.eof = true
		return
	}
	l.next += size
	l.ch = r
}

// advance moves the position onto the rune after ch.
func (l *Lexer) advance() {
	if l.ch == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.pos.Offset = l.next
}

func (l *Lexer) peekChar() rune {
	if l.eof {
		return 0
	}
	bytes, err := l.reader.Peek(1)
	if err != nil || len(bytes) == 0 {
		return 0
	}
	if bytes[0] < utf8.RuneSelf {
		return rune(bytes[0])
	}
	bytes, _ = l.reader.Peek(utf8.UTFMax)
	r, _ := utf8.DecodeRune(bytes)
	return r
}

// peekByte returns the n-th byte after the current character (1-based).
func (l *Lexer) peekByte(n int) byte {
	if l.eof {
		return 0
	}
	bytes, _ := l.reader.Peek(n)
	if len(bytes) < n {
		return 0
	}
	return bytes[n-1]
}

func (l *Lexer) skipWhitespace() {
	// Skip whitespace and BOM (byte order mark U+FEFF)
	for unicode.IsSpace(l.ch) || l.ch == '\uFEFF' {
		l.readChar()
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Item {
	l.skipWhitespace()

	pos := l.pos

	if l.eof || l.ch == 0 {
		return Item{Token: token.EOF, Value: "", Pos: pos}
	}

	switch l.ch {
	case '#':
		return l.readComment()
	case '<':
		if l.looksLikeIRI() {
			return l.readIRI()
		}
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Item{Token: token.LTE, Value: "<=", Pos: pos}
		}
		return Item{Token: token.LT, Value: "<", Pos: pos}
	case '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Item{Token: token.GTE, Value: ">=", Pos: pos}
		}
		return Item{Token: token.GT, Value: ">", Pos: pos}
	case '=':
		l.readChar()
		return Item{Token: token.EQ, Value: "=", Pos: pos}
	case '!':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return Item{Token: token.NEQ, Value: "!=", Pos: pos}
		}
		return Item{Token: token.BANG, Value: "!", Pos: pos}
	case '&':
		l.readChar()
		if l.ch == '&' {
			l.readChar()
			return Item{Token: token.AND, Value: "&&", Pos: pos}
		}
		return Item{Token: token.ILLEGAL, Value: "unexpected character '&'", Pos: pos}
	case '|':
		l.readChar()
		if l.ch == '|' {
			l.readChar()
			return Item{Token: token.OR, Value: "||", Pos: pos}
		}
		return Item{Token: token.PIPE, Value: "|", Pos: pos}
	case '^':
		l.readChar()
		if l.ch == '^' {
			l.readChar()
			return Item{Token: token.DCARET, Value: "^^", Pos: pos}
		}
		return Item{Token: token.CARET, Value: "^", Pos: pos}
	case '+':
		l.readChar()
		return Item{Token: token.PLUS, Value: "+", Pos: pos}
	case '-':
		l.readChar()
		return Item{Token: token.DASH, Value: "-", Pos: pos}
	case '*':
		l.readChar()
		return Item{Token: token.ASTERISK, Value: "*", Pos: pos}
	case '/':
		l.readChar()
		return Item{Token: token.SLASH, Value: "/", Pos: pos}
	case '(':
		l.readChar()
		return Item{Token: token.LPAREN, Value: "(", Pos: pos}
	case ')':
		l.readChar()
		return Item{Token: token.RPAREN, Value: ")", Pos: pos}
	case '[':
		l.readChar()
		return Item{Token: token.LBRACKET, Value: "[", Pos: pos}
	case ']':
		l.readChar()
		return Item{Token: token.RBRACKET, Value: "]", Pos: pos}
	case '{':
		l.readChar()
		return Item{Token: token.LBRACE, Value: "{", Pos: pos}
	case '}':
		l.readChar()
		return Item{Token: token.RBRACE, Value: "}", Pos: pos}
	case ',':
		l.readChar()
		return Item{Token: token.COMMA, Value: ",", Pos: pos}
	case ';':
		l.readChar()
		return Item{Token: token.SEMICOLON, Value: ";", Pos: pos}
	case '.':
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return Item{Token: token.DOT, Value: ".", Pos: pos}
	case '?', '$':
		if isVarChar(l.peekChar()) {
			return l.readVar()
		}
		ch := l.ch
		l.readChar()
		if ch == '?' {
			return Item{Token: token.QUESTION, Value: "?", Pos: pos}
		}
		return Item{Token: token.ILLEGAL, Value: "unexpected character '$'", Pos: pos}
	case '"', '\'':
		return l.readString(l.ch)
	case '@':
		return l.readLangTag()
	case ':':
		return l.readName()
	case '_':
		if l.peekChar() == ':' {
			return l.readBlankNode()
		}
		return l.readName()
	default:
		if isDigit(l.ch) {
			return l.readNumber()
		}
		if isNameStart(l.ch) {
			return l.readName()
		}
		ch := l.ch
		l.readChar()
		return Item{Token: token.ILLEGAL, Value: "unexpected character " + strconv.QuoteRune(ch), Pos: pos}
	}
}

func (l *Lexer) readComment() Item {
	pos := l.pos
	var sb strings.Builder
	for l.ch != '\n' && l.ch != 0 && !l.eof {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{Token: token.COMMENT, Value: sb.String(), Pos: pos}
}

// looksLikeIRI reports whether the '<' under the cursor opens an IRIREF,
// i.e. it is closed by '>' before any character IRIREF forbids.
func (l *Lexer) looksLikeIRI() bool {
	for n := 1; n <= readerSize; n++ {
		c := l.peekByte(n)
		switch {
		case c == '>':
			return true
		case c <= 0x20, c == '<', c == '"', c == '{', c == '}', c == '|', c == '^', c == '`':
			return false
		}
	}
	return false
}

func (l *Lexer) readIRI() Item {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip <

	for !l.eof && l.ch != '>' {
		if l.ch == '\\' {
			r, ok := l.readUnicodeEscape()
			if !ok {
				return Item{Token: token.ILLEGAL, Value: "invalid escape in IRI", Pos: pos}
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if l.ch != '>' {
		return Item{Token: token.ILLEGAL, Value: "unterminated IRI", Pos: pos}
	}
	l.readChar() // skip >
	return Item{Token: token.IRIREF, Value: sb.String(), Pos: pos}
}

// readUnicodeEscape consumes \uXXXX or \UXXXXXXXX with the cursor on the
// backslash.
func (l *Lexer) readUnicodeEscape() (rune, bool) {
	l.readChar() // skip backslash
	var width int
	switch l.ch {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, false
	}
	l.readChar()
	var hex strings.Builder
	for i := 0; i < width; i++ {
		if !isHexDigit(l.ch) {
			return 0, false
		}
		hex.WriteRune(l.ch)
		l.readChar()
	}
	v, err := strconv.ParseUint(hex.String(), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

func (l *Lexer) readVar() Item {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip ? or $

	for isVarChar(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{Token: token.VAR, Value: sb.String(), Pos: pos}
}

func (l *Lexer) readBlankNode() Item {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip _
	l.readChar() // skip :

	for isNameChar(l.ch) || (l.ch == '.' && isNameChar(l.peekChar())) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if sb.Len() == 0 {
		return Item{Token: token.ILLEGAL, Value: "empty blank node label", Pos: pos}
	}
	return Item{Token: token.BNODE, Value: sb.String(), Pos: pos}
}

// readName reads a bare word (keyword, function name, 'a') or, when the word
// is followed by ':', a prefixed name. Prefixed names are kept as written.
func (l *Lexer) readName() Item {
	pos := l.pos
	var sb strings.Builder

	for isNameChar(l.ch) || (l.ch == '.' && isNameChar(l.peekChar())) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch != ':' {
		word := sb.String()
		tok := token.Lookup(strings.ToUpper(word))
		return Item{Token: tok, Value: word, Pos: pos}
	}

	sb.WriteRune(':')
	l.readChar()
	l.readLocalName(&sb)
	return Item{Token: token.PNAME, Value: sb.String(), Pos: pos}
}

func (l *Lexer) readLocalName(sb *strings.Builder) {
	for {
		switch {
		case isNameChar(l.ch) || l.ch == ':':
			sb.WriteRune(l.ch)
			l.readChar()
		case l.ch == '.':
			next := l.peekChar()
			if !isNameChar(next) && next != ':' && next != '%' && next != '\\' {
				return
			}
			sb.WriteRune(l.ch)
			l.readChar()
		case l.ch == '%':
			// Percent-encoded triplets are kept verbatim
			sb.WriteRune(l.ch)
			l.readChar()
			for i := 0; i < 2 && isHexDigit(l.ch); i++ {
				sb.WriteRune(l.ch)
				l.readChar()
			}
		case l.ch == '\\':
			// Local name escapes like \- are kept verbatim
			sb.WriteRune(l.ch)
			l.readChar()
			if l.eof {
				return
			}
			sb.WriteRune(l.ch)
			l.readChar()
		default:
			return
		}
	}
}

func (l *Lexer) readLangTag() Item {
	pos := l.pos
	var sb strings.Builder
	l.readChar() // skip @

	for isASCIILetter(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	if sb.Len() == 0 {
		return Item{Token: token.ILLEGAL, Value: "empty language tag", Pos: pos}
	}
	for l.ch == '-' && (isASCIILetter(l.peekChar()) || isDigit(l.peekChar())) {
		sb.WriteRune(l.ch)
		l.readChar()
		for isASCIILetter(l.ch) || isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
	return Item{Token: token.LANGTAG, Value: sb.String(), Pos: pos}
}

func (l *Lexer) readString(quote rune) Item {
	pos := l.pos
	long := l.peekByte(1) == byte(quote) && l.peekByte(2) == byte(quote)

	l.readChar() // skip opening quote
	if long {
		l.readChar()
		l.readChar()
	} else if l.ch == quote {
		// Empty short string
		l.readChar()
		return Item{Token: token.STRING, Value: "", Pos: pos}
	}

	var sb strings.Builder
	for {
		if l.eof {
			return Item{Token: token.ILLEGAL, Value: "unterminated string", Pos: pos}
		}
		if l.ch == quote {
			if !long {
				l.readChar()
				break
			}
			if l.peekByte(1) == byte(quote) && l.peekByte(2) == byte(quote) {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
		}
		if !long && (l.ch == '\n' || l.ch == '\r') {
			return Item{Token: token.ILLEGAL, Value: "newline in string literal", Pos: pos}
		}
		if l.ch == '\\' {
			if l.peekChar() == 'u' || l.peekChar() == 'U' {
				r, ok := l.readUnicodeEscape()
				if !ok {
					return Item{Token: token.ILLEGAL, Value: "invalid unicode escape", Pos: pos}
				}
				sb.WriteRune(r)
				continue
			}
			l.readChar() // consume backslash
			switch l.ch {
			case 't':
				sb.WriteRune('\t')
			case 'b':
				sb.WriteRune('\b')
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 'f':
				sb.WriteRune('\f')
			case '"':
				sb.WriteRune('"')
			case '\'':
				sb.WriteRune('\'')
			case '\\':
				sb.WriteRune('\\')
			default:
				return Item{Token: token.ILLEGAL, Value: "invalid escape sequence", Pos: pos}
			}
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return Item{Token: token.STRING, Value: sb.String(), Pos: pos}
}

func (l *Lexer) readNumber() Item {
	pos := l.pos
	var sb strings.Builder
	tok := token.INTEGER

	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	// A '.' only belongs to the number when digits follow; "1 ." ends a triple.
	if l.ch == '.' && isDigit(l.peekChar()) {
		tok = token.DECIMAL
		sb.WriteRune(l.ch)
		l.readChar()
		for isDigit(l.ch) {
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekByte(1)
		signed := (next == '+' || next == '-') && isDigit(rune(l.peekByte(2)))
		if isDigit(rune(next)) || signed {
			tok = token.DOUBLE
			sb.WriteRune(l.ch)
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				sb.WriteRune(l.ch)
				l.readChar()
			}
			for isDigit(l.ch) {
				sb.WriteRune(l.ch)
				l.readChar()
			}
		}
	}

	return Item{Token: tok, Value: sb.String(), Pos: pos}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isASCIILetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNameStart(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isNameChar(ch rune) bool {
	return ch == '_' || ch == '-' || ch == '·' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isVarChar(ch rune) bool {
	return ch == '_' || ch == '·' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
