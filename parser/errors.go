package parser

import "fmt"

// ParseError reports malformed grammar source. Line and Column locate the
// beginning of the offending text; Column is 0 when only line-level
// granularity is available.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
}
