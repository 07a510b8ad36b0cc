package condition

import "fmt"

// ParseError reports a malformed expression.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

// InvalidConditionError reports a reference to an attribute outside the
// whitelist.
type InvalidConditionError struct {
	Attribute string
}

func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Attribute)
}

// TypeMismatchError reports an operator applied to incompatible types, e.g.
// an ordering comparison on a string attribute or a number compared to a
// string literal.
type TypeMismatchError struct {
	Attribute string
	Operator  string
	Want      Kind
	Got       Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch on %q: operator %s expects %s, got %s",
		e.Attribute, e.Operator, e.Want, e.Got)
}
