package parser

import "fmt"

// SyntaxError reports source text that is not valid Python 3
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
	Text   string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error: %s", e.Msg)
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Msg)
}
