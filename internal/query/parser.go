package query

import (
	"strconv"

	"github.com/nmelo/tabcat/internal/table"
)

// Parser parses token streams into a Query.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF, Value: ""}
	}
	return p.tokens[p.pos]
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.pos++
}

// expect checks that the current token matches the expected type and
// advances past it.
func (p *Parser) expect(tokType TokenType) error {
	if p.current().Type != tokType {
		return parseErrorf("expected %v, got %v %q", tokType, p.current().Type, p.current().Value)
	}
	p.advance()
	return nil
}

// Parse parses a query string into a Query. Errors are reported as
// *ParseError; the query is never executed on failure.
func Parse(input string) (*Query, error) {
	if err := ValidateQuery(input); err != nil {
		return nil, err
	}

	tokens := Tokenize(input)

	if err := ValidateTokens(tokens); err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	return parser.parseQuery()
}

// parseQuery parses: PROJECT columns FILTER filter_list
func (p *Parser) parseQuery() (*Query, error) {
	if err := p.expect(TokenProject); err != nil {
		return nil, parseErrorf("query must start with PROJECT: %v", err)
	}

	columns, err := p.parseColumns()
	if err != nil {
		return nil, err
	}

	if err := p.expect(TokenFilter); err != nil {
		return nil, parseErrorf("expected FILTER after projection list: %v", err)
	}

	filters, err := p.parseFilterList()
	if err != nil {
		return nil, err
	}

	// The whole input must belong to the query; trailing tokens are a
	// syntax error, not ignorable noise.
	if p.current().Type != TokenEOF {
		return nil, parseErrorf("unexpected %v %q after filter list", p.current().Type, p.current().Value)
	}

	return &Query{
		Columns: columns,
		Filters: filters,
	}, nil
}

// parseColumns parses: column ("," column)*
func (p *Parser) parseColumns() ([]string, error) {
	var columns []string

	for {
		if p.current().Type != TokenIdent {
			return nil, parseErrorf("expected column name, got %v %q", p.current().Type, p.current().Value)
		}
		if err := ValidateColumnName(p.current().Value); err != nil {
			return nil, err
		}
		columns = append(columns, p.current().Value)
		p.advance()

		if p.current().Type != TokenComma {
			return columns, nil
		}
		p.advance()
	}
}

// parseFilterList parses: filter_expr ("," filter_expr)*
//
// Each expression inserts one entry into the result map, so a later
// expression on an already-filtered column overwrites the earlier one.
func (p *Parser) parseFilterList() (map[string]table.Predicate, error) {
	filters := make(map[string]table.Predicate)

	for {
		column, pred, err := p.parseFilterExpr()
		if err != nil {
			return nil, err
		}
		filters[column] = pred

		if p.current().Type != TokenComma {
			return filters, nil
		}
		p.advance()
	}
}

// parseFilterExpr parses: column op value
func (p *Parser) parseFilterExpr() (string, table.Predicate, error) {
	var pred table.Predicate

	if p.current().Type != TokenIdent {
		return "", pred, parseErrorf("expected filter column, got %v %q", p.current().Type, p.current().Value)
	}
	column := p.current().Value
	if err := ValidateColumnName(column); err != nil {
		return "", pred, err
	}
	p.advance()

	var op table.Operation
	switch p.current().Type {
	case TokenEqual:
		op = table.Equal
	case TokenGreater:
		op = table.GreaterThan
	case TokenLess:
		op = table.LessThan
	default:
		return "", pred, parseErrorf("invalid filter operation: %q", p.current().Value)
	}
	p.advance()

	operand, err := p.parseValue()
	if err != nil {
		return "", pred, err
	}

	return column, table.Predicate{Op: op, Operand: operand}, nil
}

// parseValue parses a filter operand: a bare integer literal or a
// double-quoted string. A digit run too large for int64 falls back to a
// string operand rather than failing.
func (p *Parser) parseValue() (table.Value, error) {
	switch p.current().Type {
	case TokenNumber:
		text := p.current().Value
		p.advance()
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return table.Int(i), nil
		}
		return table.Str(text), nil
	case TokenString:
		text := p.current().Value
		p.advance()
		return table.Str(text), nil
	default:
		return table.Value{}, parseErrorf("expected filter value (number or quoted string), got %v %q",
			p.current().Type, p.current().Value)
	}
}
