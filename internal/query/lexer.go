package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes query strings.
type Lexer struct {
	input string
	pos   int // byte offset of the next rune
	ch    rune
}

// NewLexer creates a new lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar decodes the next rune. Multibyte characters inside quoted
// operands must survive intact.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
		l.pos++
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.pos:])
	l.ch = r
	l.pos += width
}

// skipWhitespace skips whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readString reads a double-quoted string literal. There is no escape
// syntax; the literal runs to the next double quote. Returns false if
// the closing quote is missing.
func (l *Lexer) readString() (string, bool) {
	var result strings.Builder
	l.readChar() // skip opening quote

	for l.ch != '"' && l.ch != 0 {
		result.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch != '"' {
		return result.String(), false
	}
	l.readChar() // skip closing quote

	return result.String(), true
}

// readIdentifier reads a run of word characters: a column name, a
// keyword, or an integer literal.
func (l *Lexer) readIdentifier() string {
	var result strings.Builder
	for unicode.IsLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' {
		result.WriteRune(l.ch)
		l.readChar()
	}
	return result.String()
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	var tok Token

	switch l.ch {
	case 0:
		tok = Token{Type: TokenEOF, Value: ""}
	case '=':
		tok = Token{Type: TokenEqual, Value: "="}
		l.readChar()
	case '<':
		tok = Token{Type: TokenLess, Value: "<"}
		l.readChar()
	case '>':
		tok = Token{Type: TokenGreater, Value: ">"}
		l.readChar()
	case ',':
		tok = Token{Type: TokenComma, Value: ","}
		l.readChar()
	case '"':
		value, terminated := l.readString()
		if !terminated {
			tok = Token{Type: TokenError, Value: `"` + value}
		} else {
			tok = Token{Type: TokenString, Value: value}
		}
	default:
		if unicode.IsDigit(l.ch) || unicode.IsLetter(l.ch) || l.ch == '_' {
			// Column names may start with a digit, so the word is read
			// first and classified after: a pure digit run is a number,
			// anything else an identifier.
			value := l.readIdentifier()
			if isDigitRun(value) {
				tok = Token{Type: TokenNumber, Value: value}
			} else {
				tok = Token{Type: identifierType(value), Value: value}
			}
		} else {
			tok = Token{Type: TokenError, Value: string(l.ch)}
			l.readChar()
		}
	}

	return tok
}

// isDigitRun reports whether the word consists entirely of digits.
func isDigitRun(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// identifierType determines if an identifier is a keyword. Keywords are
// case-sensitive: lowercase "project" is an ordinary column name.
func identifierType(ident string) TokenType {
	switch ident {
	case "PROJECT":
		return TokenProject
	case "FILTER":
		return TokenFilter
	default:
		return TokenIdent
	}
}

// Tokenize returns all tokens from the input.
func Tokenize(input string) []Token {
	lexer := NewLexer(input)
	var tokens []Token

	for {
		tok := lexer.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			break
		}
	}

	return tokens
}
