// Package table holds the typed column-value model and the column-major
// in-memory table that queries run against.
//
// Values come in exactly two kinds, integers and strings. Comparisons never
// coerce between kinds: matching an integer cell against a string operand
// (or the reverse) is an error, reported as ErrFilterValueType.
package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFilterValueType is returned when a predicate operand has a different
// kind than the cell it is compared against.
var ErrFilterValueType = errors.New("filter value has invalid type for column")

// Kind identifies the type of a cell value.
type Kind int

const (
	KindInteger Kind = iota
	KindString
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation is a comparison applied by a filter predicate.
type Operation int

const (
	Equal Operation = iota
	GreaterThan
	LessThan
)

// String returns the canonical one-character symbol for the operation.
func (op Operation) String() string {
	switch op {
	case Equal:
		return "="
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// ParseOperation maps an operator symbol to its Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "=":
		return Equal, nil
	case ">":
		return GreaterThan, nil
	case "<":
		return LessThan, nil
	default:
		return 0, fmt.Errorf("invalid filter operation: %q", s)
	}
}

// Value is a single table cell: either an integer or a string.
type Value struct {
	kind Kind
	i    int64
	s    string
}

// Int returns an integer value.
func Int(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// Str returns a string value.
func Str(v string) Value {
	return Value{kind: KindString, s: v}
}

// ParseValue converts raw cell text to a value. Text that parses fully as
// a base-10 64-bit integer becomes an integer; everything else is kept as
// a string. Bare row data needs no quoting.
func ParseValue(text string) Value {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(i)
	}
	return Str(text)
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// AsInt returns the integer content. The second result is false for
// string values.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// AsString returns the string content. The second result is false for
// integer values.
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// Equal reports structural equality: same kind, same content.
func (v Value) Equal(other Value) bool {
	return v.Compare(other) == 0
}

// Compare orders values by kind first (integers sort before strings),
// then by content: numerically for integers, lexicographically for
// strings.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		if v.kind < other.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case KindInteger:
		switch {
		case v.i < other.i:
			return -1
		case v.i > other.i:
			return 1
		}
		return 0
	default:
		return strings.Compare(v.s, other.s)
	}
}

// String renders the value for query-tool output: integers in decimal,
// strings with surrounding quotes. This is a display form, not a
// serialization format.
func (v Value) String() string {
	if v.kind == KindInteger {
		return strconv.FormatInt(v.i, 10)
	}
	return strconv.Quote(v.s)
}

// Predicate pairs a comparison operation with the operand it compares
// against.
type Predicate struct {
	Op      Operation
	Operand Value
}

// Matches applies the predicate to the value. The operand must have the
// same kind as the value; a mismatch returns ErrFilterValueType rather
// than coercing.
func (v Value) Matches(p Predicate) (bool, error) {
	if v.kind != p.Operand.kind {
		return false, fmt.Errorf("%w: %s column compared against %s operand",
			ErrFilterValueType, v.kind, p.Operand.kind)
	}

	cmp := v.Compare(p.Operand)
	switch p.Op {
	case Equal:
		return cmp == 0, nil
	case GreaterThan:
		return cmp > 0, nil
	case LessThan:
		return cmp < 0, nil
	default:
		return false, fmt.Errorf("unknown filter operation %v", p.Op)
	}
}
