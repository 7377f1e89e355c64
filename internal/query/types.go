// Package query implements the PROJECT/FILTER query language: a lexer, a
// recursive-descent parser, and the parsed query representation handed to
// the filter engine.
//
// The grammar, with case-sensitive keywords and free spacing between
// tokens:
//
//	query       := "PROJECT" columns "FILTER" filter_list
//	columns     := column ("," column)*
//	filter_list := filter_expr ("," filter_expr)*
//	filter_expr := column op value
//	op          := "<" | "=" | ">"
//	value       := digits | double-quoted string
//
// Example usage:
//
//	q, err := query.Parse(`PROJECT col1, col2 FILTER col3 > 5`)
//	if err != nil {
//	    log.Fatal(err)
//	}
package query

import (
	"fmt"

	"github.com/nmelo/tabcat/internal/table"
)

// TokenType represents the type of a token.
type TokenType int

const (
	// Keywords
	TokenProject TokenType = iota
	TokenFilter

	// Operators and punctuation
	TokenEqual   // =
	TokenLess    // <
	TokenGreater // >
	TokenComma   // ,

	// Literals
	TokenNumber
	TokenString
	TokenIdent

	// Special
	TokenEOF
	TokenError
)

// String returns a readable token-type name for diagnostics.
func (t TokenType) String() string {
	switch t {
	case TokenProject:
		return "PROJECT"
	case TokenFilter:
		return "FILTER"
	case TokenEqual:
		return "'='"
	case TokenLess:
		return "'<'"
	case TokenGreater:
		return "'>'"
	case TokenComma:
		return "','"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenIdent:
		return "identifier"
	case TokenEOF:
		return "end of query"
	default:
		return "invalid token"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
}

// Query is a parsed query: the projection list plus one predicate per
// filtered column.
//
// Columns is an allow-list in source order; it may be empty or contain
// duplicates. Filters holds at most one predicate per column name; when
// a query filters the same column twice, the later expression wins by
// plain map-insert semantics.
type Query struct {
	Columns []string
	Filters map[string]table.Predicate
}

// ParseError reports malformed query text with a human-readable
// diagnostic.
type ParseError struct {
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing failed: %s", e.Msg)
}

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}
